package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/inovacc/pullr/internal/auth"
	"github.com/inovacc/pullr/internal/encoding"
	"github.com/inovacc/pullr/internal/gh"
	"github.com/inovacc/pullr/internal/puller"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <org>",
	Short: "List the repositories of a GitHub organization",
	Long: `List all repositories of a GitHub organization without cloning.

Shows repository name, fork and archived flags and the HTTPS clone URL.
The same exclusion flags as 'pullr pull' apply, so the output is exactly
the set of repositories a pull would process.

Examples:
  # List all repositories
  pullr list kubernetes

  # Only what a pull with exclusions would clone
  pullr list myorg --no-forks --no-archived

  # JSON output for scripting
  pullr list myorg --json`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	orgName := args[0]

	if err := puller.ValidateOrgName(orgName); err != nil {
		return err
	}

	token, _ := cmd.Flags().GetString("token")
	noForks, _ := cmd.Flags().GetBool("no-forks")
	noArchived, _ := cmd.Flags().GetBool("no-archived")
	filterStr, _ := cmd.Flags().GetString("filter")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	logLevel, _ := cmd.Flags().GetString("log-level")

	logger := setupLogger(logLevel, jsonOutput)

	nameFilter, err := compileNameFilter(filterStr)
	if err != nil {
		return err
	}

	cred, err := auth.ResolveGitHubToken(token)
	if err != nil {
		return err
	}

	if cred.Source != auth.SourceNone {
		logger.Debug("token resolved", slog.String("source", string(cred.Source)))
	}

	ctx := cmd.Context()
	client := gh.NewClient(ctx, cred.Token, gh.WithLogger(logger))

	records, err := client.ListOrgRepos(ctx, orgName)
	if err != nil {
		return err
	}

	filtered := puller.Filter(records, puller.FilterOptions{
		ExcludeForks:    noForks,
		ExcludeArchived: noArchived,
		Name:            nameFilter,
	})

	if jsonOutput {
		data, err := encoding.ToJSONIndent(filtered)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintln(os.Stdout, string(data))

		return nil
	}

	if len(filtered) == 0 {
		_, _ = fmt.Fprintln(os.Stdout, "No repositories found.")
		return nil
	}

	printRecordsTable(filtered)

	return nil
}

func printRecordsTable(records []puller.Record) {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	flagStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	maxName := 10
	for _, rec := range records {
		if len(rec.Name) > maxName {
			maxName = len(rec.Name)
		}
	}

	_, _ = fmt.Fprintln(os.Stdout)
	_, _ = fmt.Fprintf(os.Stdout, "%s  %s  %s  %s\n",
		headerStyle.Render(padRight("NAME", maxName)),
		headerStyle.Render(padRight("FORK", 5)),
		headerStyle.Render(padRight("ARCHIVED", 8)),
		headerStyle.Render("CLONE URL"),
	)
	_, _ = fmt.Fprintln(os.Stdout, strings.Repeat("-", maxName+60))

	for _, rec := range records {
		fork := padRight(yesNo(rec.Fork), 5)
		if rec.Fork {
			fork = flagStyle.Render(fork)
		}

		archived := padRight(yesNo(rec.Archived), 8)
		if rec.Archived {
			archived = flagStyle.Render(archived)
		}

		_, _ = fmt.Fprintf(os.Stdout, "%s  %s  %s  %s\n",
			padRight(rec.Name, maxName), fork, archived, rec.CloneURL)
	}

	_, _ = fmt.Fprintln(os.Stdout)
	_, _ = fmt.Fprintf(os.Stdout, "Total: %d repositories\n", len(records))
}

func init() {
	rootCmd.AddCommand(listCmd)

	addGitHubFlags(listCmd.Flags())
	addLogFlags(listCmd.Flags())
}
