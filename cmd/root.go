package cmd

import (
	"os"

	"github.com/inovacc/pullr/internal/application"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     application.AppName,
	Short:   "Pull every repository of a GitHub organization",
	Version: application.Version,
	Long: `Pullr enumerates all repositories of a GitHub organization through the
GitHub REST API and clones each one to local disk, skipping repositories
that already exist. Forks and archived repositories can be excluded, and
clones can use SSH instead of HTTPS.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetRootCmd returns the root command for introspection purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}
