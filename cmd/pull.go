package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/inovacc/pullr/internal/auth"
	"github.com/inovacc/pullr/internal/gh"
	"github.com/inovacc/pullr/internal/git"
	"github.com/inovacc/pullr/internal/puller"
	"github.com/inovacc/pullr/internal/store"
	"github.com/spf13/cobra"
)

var pullCmd = &cobra.Command{
	Use:   "pull <org>",
	Short: "Clone all repositories from a GitHub organization",
	Long: `Clone all repositories from a GitHub organization.

This command will:
  1. Fetch all repositories from the specified GitHub organization
  2. Skip repositories that already exist under the target directory
  3. Clone the remaining repositories one at a time, in server order
  4. Print a summary and exit non-zero if any clone failed

Authentication:
  Token is automatically detected from (in order):
  - --token flag
  - GITHUB_TOKEN environment variable
  - GH_TOKEN environment variable
  - gh CLI (if authenticated via 'gh auth login')

  Without a token only public repositories are visible and the API rate
  limit is lower.

Examples:
  # Basic pull into ./kubernetes
  pullr pull kubernetes

  # Dry run to preview what will be done
  pullr pull kubernetes --dry-run

  # Custom target directory and SSH clone URLs
  pullr pull myorg --target-dir ~/src/myorg --ssh

  # Exclude forks and archived repositories
  pullr pull myorg --no-forks --no-archived

  # Filter specific repos (regex)
  pullr pull myorg --filter "^api-"

  # JSON log output for scripting
  pullr pull myorg --json --log-level=debug`,
	Args: cobra.ExactArgs(1),
	RunE: runPull,
}

func runPull(cmd *cobra.Command, args []string) error {
	orgName := args[0]

	if err := puller.ValidateOrgName(orgName); err != nil {
		return err
	}

	token, _ := cmd.Flags().GetString("token")
	targetDir, _ := cmd.Flags().GetString("target-dir")
	useSSH, _ := cmd.Flags().GetBool("ssh")
	noForks, _ := cmd.Flags().GetBool("no-forks")
	noArchived, _ := cmd.Flags().GetBool("no-archived")
	filterStr, _ := cmd.Flags().GetString("filter")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	shallow, _ := cmd.Flags().GetBool("shallow")
	cloneTimeout, _ := cmd.Flags().GetDuration("clone-timeout")
	logLevel, _ := cmd.Flags().GetString("log-level")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	logger := setupLogger(logLevel, jsonOutput)

	if targetDir == "" {
		targetDir = orgName
	}

	nameFilter, err := compileNameFilter(filterStr)
	if err != nil {
		return err
	}

	cred, err := auth.ResolveGitHubToken(token)
	if err != nil {
		return err
	}

	if cred.Source == auth.SourceNone {
		logger.Warn("no GitHub token found, using unauthenticated API with lower rate limits")
	} else {
		logger.Debug("token resolved", slog.String("source", string(cred.Source)))
	}

	ctx := cmd.Context()
	client := gh.NewClient(ctx, cred.Token, gh.WithLogger(logger))

	_, _ = fmt.Fprintf(os.Stdout, "Fetching repositories from organization '%s'...\n", orgName)

	records, err := client.ListOrgRepos(ctx, orgName)
	if err != nil {
		return err
	}

	filtered := puller.Filter(records, puller.FilterOptions{
		ExcludeForks:    noForks,
		ExcludeArchived: noArchived,
		Name:            nameFilter,
	})

	logger.Info("filtered repositories",
		slog.String("org", orgName),
		slog.Int("before", len(records)),
		slog.Int("after", len(filtered)),
	)

	if len(filtered) == 0 {
		_, _ = fmt.Fprintln(os.Stdout, "No repositories to clone.")
		return nil
	}

	transport := puller.TransportHTTPS
	if useSSH {
		transport = puller.TransportSSH
	}

	if dryRun {
		printPullPlan(orgName, targetDir, transport, puller.Plan(filtered, targetDir))
		return nil
	}

	cloner := git.NewClient()
	cloner.Shallow = shallow

	if useSSH {
		cloner.ExtraEnv = git.BatchSSHEnv()
	}

	_, _ = fmt.Fprintf(os.Stdout, "Cloning %d repositories into %s...\n\n", len(filtered), targetDir)

	run := store.NewRunRecord(orgName)

	summary, err := puller.Run(ctx, filtered, cloner, puller.Options{
		TargetDir:    targetDir,
		Transport:    transport,
		CloneTimeout: cloneTimeout,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	saveManifest(run, targetDir, summary, logger)
	printPullSummary(summary)

	if summary.Failed > 0 {
		return fmt.Errorf("%d repositories failed to clone", summary.Failed)
	}

	return nil
}

// saveManifest records the run outcome. Manifest trouble never fails the
// run; the clones on disk are already in their final state.
func saveManifest(run store.RunRecord, targetDir string, summary *puller.Summary, logger *slog.Logger) {
	st, err := store.Open(store.DefaultPath(targetDir))
	if err != nil {
		logger.Warn("could not open manifest", slog.String("error", err.Error()))
		return
	}
	defer func() { _ = st.Close() }()

	run.Finished = time.Now().UTC()
	run.Cloned = summary.Cloned
	run.Skipped = summary.Skipped
	run.Failed = summary.Failed

	states := make([]store.RepoState, 0, len(summary.Results))

	for _, result := range summary.Results {
		state := store.RepoState{
			Org:      run.Org,
			Name:     result.Record.Name,
			URL:      result.Record.CloneURL,
			Path:     result.Path,
			Outcome:  result.Outcome.String(),
			PulledAt: run.Finished,
			RunID:    run.ID,
		}

		if result.Err != nil {
			state.Reason = result.Err.Error()
		}

		states = append(states, state)
	}

	if err := st.SaveRun(run, states); err != nil {
		logger.Warn("could not save manifest", slog.String("error", err.Error()))
	}
}

func printPullPlan(orgName, targetDir string, transport puller.Transport, actions []puller.Action) {
	_, _ = fmt.Fprintf(os.Stdout, "\nDry run: pulling organization '%s'\n", orgName)
	_, _ = fmt.Fprintf(os.Stdout, "Target directory: %s\n", targetDir)
	_, _ = fmt.Fprintf(os.Stdout, "Transport: %s\n\n", transport)

	cloneCount := 0

	for _, action := range actions {
		if action.Clone {
			cloneCount++
		}
	}

	_, _ = fmt.Fprintf(os.Stdout, "Would clone %d of %d repositories:\n", cloneCount, len(actions))

	for _, action := range actions {
		if action.Clone {
			_, _ = fmt.Fprintf(os.Stdout, "  * %s <- %s\n", action.Record.Name, action.Record.URL(transport))
		} else {
			_, _ = fmt.Fprintf(os.Stdout, "  * %s (already exists, skip)\n", action.Record.Name)
		}
	}

	_, _ = fmt.Fprintln(os.Stdout)
}

func printPullSummary(summary *puller.Summary) {
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	_, _ = fmt.Fprintln(os.Stdout, "\nPull complete!")
	_, _ = fmt.Fprintln(os.Stdout, "Results:")
	_, _ = fmt.Fprintf(os.Stdout, "  Cloned:  %s\n", okStyle.Render(fmt.Sprintf("%d", summary.Cloned)))
	_, _ = fmt.Fprintf(os.Stdout, "  Skipped: %s\n", dimStyle.Render(fmt.Sprintf("%d", summary.Skipped)))
	_, _ = fmt.Fprintf(os.Stdout, "  Failed:  %s\n", failStyle.Render(fmt.Sprintf("%d", summary.Failed)))

	if summary.Failed > 0 {
		_, _ = fmt.Fprintln(os.Stdout, "\nFailed repositories:")

		for _, result := range summary.Results {
			if result.Outcome != puller.OutcomeFailed {
				continue
			}

			errMsg := result.Err.Error()
			if len(errMsg) > 100 {
				errMsg = errMsg[:100] + "..."
			}

			_, _ = fmt.Fprintf(os.Stdout, "  * %s: %s\n", result.Record.Name, errMsg)
		}
	}

	_, _ = fmt.Fprintln(os.Stdout)
}

func init() {
	rootCmd.AddCommand(pullCmd)

	addGitHubFlags(pullCmd.Flags())
	addLogFlags(pullCmd.Flags())

	pullCmd.Flags().String("target-dir", "", "Base directory for clones (default: organization name)")
	pullCmd.Flags().Bool("ssh", false, "Use SSH clone URLs instead of HTTPS")
	pullCmd.Flags().Bool("dry-run", false, "Preview operations without executing")
	pullCmd.Flags().Bool("shallow", false, "Shallow clone (--depth 1) for faster cloning")
	pullCmd.Flags().Duration("clone-timeout", 5*time.Minute, "Per-repository clone timeout (0 disables)")
}
