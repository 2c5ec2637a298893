// Package store persists pull run outcomes in a per-target-directory
// manifest. The manifest is advisory: pull records into it best effort and
// status reads it back, but the on-disk repository layout stays the source
// of truth.
package store

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ManifestName is the manifest file created inside the target directory.
const ManifestName = ".pullr.db"

// RepoState is the recorded outcome for one repository in the last run that
// touched it.
type RepoState struct {
	Org      string    `json:"org"`
	Name     string    `json:"name"`
	URL      string    `json:"url"`
	Path     string    `json:"path"`
	Outcome  string    `json:"outcome"` // cloned, skipped or failed
	Reason   string    `json:"reason,omitempty"`
	PulledAt time.Time `json:"pulled_at"`
	RunID    string    `json:"run_id"`
}

// RunRecord summarizes one pull run.
type RunRecord struct {
	ID       string    `json:"id"`
	Org      string    `json:"org"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	Cloned   int       `json:"cloned"`
	Skipped  int       `json:"skipped"`
	Failed   int       `json:"failed"`
}

// NewRunRecord starts a run record for an organization.
func NewRunRecord(org string) RunRecord {
	return RunRecord{
		ID:      uuid.NewString(),
		Org:     org,
		Started: time.Now().UTC(),
	}
}

// DefaultPath returns the manifest location for a target directory.
func DefaultPath(targetDir string) string {
	return filepath.Join(targetDir, ManifestName)
}
