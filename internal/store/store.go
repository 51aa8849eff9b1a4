// Package store persists completed multi-variant benchmark runs.
//
// The store is a local, single-writer bbolt database. No cross-process
// access is assumed or supported, so there is no locking discipline beyond
// what bbolt itself provides.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/querylab/benchcore/internal/orchestrator"
)

const bucketRuns = "runs"

// BenchmarkRun is the top-level persisted record of one complete
// multi-variant measurement session.
type BenchmarkRun struct {
	ID        string                     `json:"id"`
	Name      string                     `json:"name"`
	CreatedAt time.Time                  `json:"createdAt"`
	Hardware  orchestrator.Hardware      `json:"hardware"`
	Runs      []orchestrator.EndpointRun `json:"runs"`
}

// Store is a bbolt-backed collection of BenchmarkRuns.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the store at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketRuns))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// DefaultPath returns the store location under the user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".benchcore", "runs.db"), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Keys sort by creation time so a reverse cursor walk yields
// most-recent-first. The id suffix disambiguates same-nanosecond saves.
func runKey(run *BenchmarkRun) []byte {
	return []byte(fmt.Sprintf("%020d:%s", run.CreatedAt.UnixNano(), run.ID))
}

// Save persists the run, assigning a generated id and creation timestamp
// when absent. The run keeps any CreatedAt it already carries so imported
// documents retain their original timestamp.
func (s *Store) Save(run *BenchmarkRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to encode run: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketRuns)).Put(runKey(run), data)
	})
}

// List returns all runs, most recent first.
func (s *Store) List() ([]BenchmarkRun, error) {
	var runs []BenchmarkRun
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(bucketRuns)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var run BenchmarkRun
			if err := json.Unmarshal(v, &run); err != nil {
				return fmt.Errorf("corrupt run record %q: %w", k, err)
			}
			runs = append(runs, run)
		}
		return nil
	})
	return runs, err
}

// Get returns the run with the given id.
func (s *Store) Get(id string) (*BenchmarkRun, error) {
	var run *BenchmarkRun
	err := s.db.View(func(tx *bbolt.Tx) error {
		k, v := findByID(tx, id)
		if k == nil {
			return fmt.Errorf("run %s not found", id)
		}
		run = &BenchmarkRun{}
		return json.Unmarshal(v, run)
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// Delete removes the run with the given id.
func (s *Store) Delete(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		k, _ := findByID(tx, id)
		if k == nil {
			return fmt.Errorf("run %s not found", id)
		}
		return tx.Bucket([]byte(bucketRuns)).Delete(k)
	})
}

// Export serializes one run as a self-contained JSON document.
func (s *Store) Export(id string) ([]byte, error) {
	run, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(run, "", "  ")
}

// Import validates and stores a serialized run document. The imported run
// always gets a freshly minted id; any id embedded in the document is
// discarded to prevent collisions with existing runs.
func (s *Store) Import(doc []byte) (*BenchmarkRun, error) {
	if err := ValidateDocument(doc); err != nil {
		return nil, fmt.Errorf("invalid run document: %w", err)
	}

	var run BenchmarkRun
	if err := json.Unmarshal(doc, &run); err != nil {
		return nil, fmt.Errorf("failed to decode run document: %w", err)
	}

	run.ID = uuid.New().String()
	if err := s.Save(&run); err != nil {
		return nil, err
	}
	return &run, nil
}

// findByID scans for the key carrying the given run id. The store stays
// small (tens of runs), so a scan beats maintaining a second index bucket.
func findByID(tx *bbolt.Tx, id string) (key, value []byte) {
	c := tx.Bucket([]byte(bucketRuns)).Cursor()
	suffix := ":" + id
	for k, v := c.First(); k != nil; k, v = c.Next() {
		if strings.HasSuffix(string(k), suffix) {
			return k, v
		}
	}
	return nil, nil
}
