package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/pflag"
)

// addGitHubFlags registers the flags shared by commands that fetch and
// filter the organization repository list.
func addGitHubFlags(flags *pflag.FlagSet) {
	flags.String("token", "", "GitHub personal access token (overrides GITHUB_TOKEN env var)")
	flags.Bool("no-forks", false, "Exclude forked repositories")
	flags.Bool("no-archived", false, "Exclude archived repositories")
	flags.String("filter", "", "Regex pattern to filter repository names")
}

// addLogFlags registers the logging flags.
func addLogFlags(flags *pflag.FlagSet) {
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.Bool("json", false, "Output in JSON format")
}

// setupLogger creates a configured slog.Logger
func setupLogger(levelStr string, jsonOutput bool) *slog.Logger {
	var level slog.Level

	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

// compileNameFilter parses the --filter flag value.
func compileNameFilter(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid filter regex: %w", err)
	}

	return re, nil
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}

	return s + strings.Repeat(" ", length-len(s))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}
