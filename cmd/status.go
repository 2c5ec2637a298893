package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/inovacc/pullr/internal/puller"
	"github.com/inovacc/pullr/internal/store"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <org>",
	Short: "Show the local state of a pulled organization",
	Long: `Show what the last pull recorded for an organization and whether each
repository is present on disk.

The state comes from the manifest 'pullr pull' writes into the target
directory. Without a manifest, only the on-disk repository count is shown.

Examples:
  pullr status kubernetes
  pullr status myorg --target-dir ~/src/myorg`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	orgName := args[0]

	if err := puller.ValidateOrgName(orgName); err != nil {
		return err
	}

	targetDir, _ := cmd.Flags().GetString("target-dir")
	if targetDir == "" {
		targetDir = orgName
	}

	onDisk := countLocalRepos(targetDir)

	manifestPath := store.DefaultPath(targetDir)
	if _, err := os.Stat(manifestPath); err != nil {
		_, _ = fmt.Fprintf(os.Stdout, "No manifest at %s (run 'pullr pull %s' first).\n", manifestPath, orgName)
		_, _ = fmt.Fprintf(os.Stdout, "Repositories on disk: %d\n", onDisk)

		return nil
	}

	st, err := store.Open(manifestPath)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	run, err := st.LastRun(orgName)
	if err != nil {
		return err
	}

	if run == nil {
		_, _ = fmt.Fprintf(os.Stdout, "Manifest holds no runs for organization '%s'.\n", orgName)
		return nil
	}

	states, err := st.RepoStates(orgName)
	if err != nil {
		return err
	}

	printStatus(run, states, onDisk)

	return nil
}

// countLocalRepos counts git repositories directly under dir.
func countLocalRepos(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	count := 0

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		if _, err := os.Stat(filepath.Join(dir, entry.Name(), ".git")); err == nil {
			count++
		}
	}

	return count
}

func printStatus(run *store.RunRecord, states []store.RepoState, onDisk int) {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	_, _ = fmt.Fprintf(os.Stdout, "Organization: %s\n", run.Org)
	_, _ = fmt.Fprintf(os.Stdout, "Last pull:    %s (cloned %d, skipped %d, failed %d)\n",
		run.Finished.Local().Format("2006-01-02 15:04:05"), run.Cloned, run.Skipped, run.Failed)
	_, _ = fmt.Fprintf(os.Stdout, "On disk:      %d repositories\n", onDisk)

	if len(states) == 0 {
		return
	}

	maxName := 10
	for _, state := range states {
		if len(state.Name) > maxName {
			maxName = len(state.Name)
		}
	}

	_, _ = fmt.Fprintln(os.Stdout)
	_, _ = fmt.Fprintf(os.Stdout, "%s  %s  %s\n",
		headerStyle.Render(padRight("NAME", maxName)),
		headerStyle.Render(padRight("OUTCOME", 8)),
		headerStyle.Render("ON DISK"),
	)
	_, _ = fmt.Fprintln(os.Stdout, strings.Repeat("-", maxName+20))

	for _, state := range states {
		outcome := padRight(state.Outcome, 8)

		switch state.Outcome {
		case puller.OutcomeFailed.String():
			outcome = failStyle.Render(outcome)
		case puller.OutcomeCloned.String():
			outcome = okStyle.Render(outcome)
		default:
			outcome = dimStyle.Render(outcome)
		}

		present := "yes"
		if _, err := os.Stat(state.Path); err != nil {
			present = "no"
		}

		_, _ = fmt.Fprintf(os.Stdout, "%s  %s  %s\n", padRight(state.Name, maxName), outcome, present)
	}

	_, _ = fmt.Fprintln(os.Stdout)
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().String("target-dir", "", "Base directory that was pulled into (default: organization name)")
}
