// Package puller contains the business logic for pulling every repository
// of a GitHub organization to local disk.
//
// The package is deliberately sequential: records are processed one at a
// time in server order, each clone blocking until the external git process
// finishes. Fetch errors abort before any clone; clone errors are recorded
// per repository and the loop continues.
package puller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Outcome classifies the result of processing one record.
type Outcome int

const (
	OutcomeCloned Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCloned:
		return "cloned"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	}

	return "unknown"
}

// Cloner clones a repository URL into a target path.
type Cloner interface {
	Clone(ctx context.Context, cloneURL, path string) error
}

// Result captures the outcome of one record.
type Result struct {
	Record   Record
	Path     string
	Outcome  Outcome
	Err      error
	Duration time.Duration
}

// Options configures a run.
type Options struct {
	TargetDir    string
	Transport    Transport
	CloneTimeout time.Duration // zero means no per-clone timeout
	Logger       *slog.Logger
	Progress     io.Writer // running count output, defaults to os.Stdout
}

// Summary aggregates the per-record results of a run.
type Summary struct {
	Total   int
	Cloned  int
	Skipped int
	Failed  int
	Results []Result
}

// Action is a planned step for one record, used for dry runs.
type Action struct {
	Record Record
	Path   string
	Clone  bool // false means the path already exists and will be skipped
}

// Plan determines, without touching the network or git, what Run would do
// for each record against the target directory.
func Plan(records []Record, targetDir string) []Action {
	actions := make([]Action, len(records))

	for i, rec := range records {
		path := filepath.Join(targetDir, rec.Name)
		actions[i] = Action{
			Record: rec,
			Path:   path,
			Clone:  !pathExists(path),
		}
	}

	return actions
}

// Run clones every record into opts.TargetDir, one at a time in list order.
// Records whose directory already exists are skipped, failed clones are
// recorded and the loop continues. The returned error is reserved for
// conditions that abort the loop itself (context cancellation, unusable
// target directory); clone failures are reported via Summary.Failed.
func Run(ctx context.Context, records []Record, cloner Cloner, opts Options) (*Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	progress := opts.Progress
	if progress == nil {
		progress = os.Stdout
	}

	if err := os.MkdirAll(opts.TargetDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create target directory: %w", err)
	}

	summary := &Summary{
		Total:   len(records),
		Results: make([]Result, 0, len(records)),
	}

	for i, rec := range records {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		path := filepath.Join(opts.TargetDir, rec.Name)
		result := Result{Record: rec, Path: path}

		switch {
		case pathExists(path):
			result.Outcome = OutcomeSkipped

			summary.Skipped++

			logger.Debug("repository already exists, skipping",
				slog.String("repo", rec.Name),
				slog.String("path", path),
			)
		default:
			cloneCtx := ctx

			var cancel context.CancelFunc
			if opts.CloneTimeout > 0 {
				cloneCtx, cancel = context.WithTimeout(ctx, opts.CloneTimeout)
			}

			start := time.Now()
			err := cloner.Clone(cloneCtx, rec.URL(opts.Transport), path)
			result.Duration = time.Since(start)

			if cancel != nil {
				cancel()
			}

			if err != nil {
				result.Outcome = OutcomeFailed
				result.Err = err

				summary.Failed++

				logger.Error("clone failed",
					slog.String("repo", rec.Name),
					slog.String("error", err.Error()),
				)
			} else {
				result.Outcome = OutcomeCloned

				summary.Cloned++

				logger.Debug("cloned repository",
					slog.String("repo", rec.Name),
					slog.Duration("duration", result.Duration),
				)
			}
		}

		printProgress(progress, i+1, summary.Total, result)

		summary.Results = append(summary.Results, result)
	}

	return summary, nil
}

// printProgress writes one running-count line per record.
func printProgress(w io.Writer, current, total int, result Result) {
	var status string

	switch result.Outcome {
	case OutcomeCloned:
		status = "OK"
	case OutcomeSkipped:
		status = "SKIP"
	case OutcomeFailed:
		status = "FAIL"
	}

	detail := ""
	if result.Err != nil {
		detail = fmt.Sprintf(" - %s", result.Err.Error())
		if len(detail) > 80 {
			detail = detail[:77] + "..."
		}
	}

	_, _ = fmt.Fprintf(w, "[%d/%d] [%-4s] %s%s\n", current, total, status, result.Record.Name, detail)
}

func pathExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}
