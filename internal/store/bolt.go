package store

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/inovacc/pullr/internal/encoding"
	"go.etcd.io/bbolt"
)

const (
	bucketRepos = "repos" // key: org/name -> RepoState JSON
	bucketRuns  = "runs"  // key: run ID -> RunRecord JSON
)

// Store is a bbolt-backed manifest.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the manifest at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest %s: %w", path, err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketRepos)); err != nil {
			return err
		}

		if _, err := tx.CreateBucketIfNotExists([]byte(bucketRuns)); err != nil {
			return err
		}

		return nil
	}); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to initialize manifest: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the manifest.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun records the run and the per-repository states in one transaction.
func (s *Store) SaveRun(run RunRecord, states []RepoState) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		runs := tx.Bucket([]byte(bucketRuns))

		data, err := encoding.ToJSON(run)
		if err != nil {
			return err
		}

		if err := runs.Put([]byte(run.ID), data); err != nil {
			return err
		}

		repos := tx.Bucket([]byte(bucketRepos))

		for _, state := range states {
			data, err := encoding.ToJSON(state)
			if err != nil {
				return err
			}

			if err := repos.Put([]byte(repoKey(state.Org, state.Name)), data); err != nil {
				return err
			}
		}

		return nil
	})
}

// LastRun returns the most recent run recorded for the organization, or nil
// when the manifest holds none.
func (s *Store) LastRun(org string) (*RunRecord, error) {
	var last *RunRecord

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketRuns)).ForEach(func(_, v []byte) error {
			run, err := encoding.ParseJSON[RunRecord](v)
			if err != nil {
				return err
			}

			if run.Org != org {
				return nil
			}

			if last == nil || run.Started.After(last.Started) {
				last = run
			}

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return last, nil
}

// RepoStates returns the recorded states for an organization, sorted by
// repository name.
func (s *Store) RepoStates(org string) ([]RepoState, error) {
	var states []RepoState

	prefix := []byte(org + "/")

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(bucketRepos)).Cursor()

		for k, v := c.Seek(prefix); k != nil && strings.HasPrefix(string(k), string(prefix)); k, v = c.Next() {
			state, err := encoding.ParseJSON[RepoState](v)
			if err != nil {
				return err
			}

			states = append(states, *state)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(states, func(i, j int) bool { return states[i].Name < states[j].Name })

	return states, nil
}

func repoKey(org, name string) string {
	return org + "/" + name
}
