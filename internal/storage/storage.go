package storage

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys
const (
	keyRunHistory   = "run_history"
	keyResumeLedger = "resume_ledger"
)

// RunRecord captures the statistics of a single solver invocation. It is
// a side index only: resume state lives in the byte-exact .pc/.count
// files, never here.
type RunRecord struct {
	StartedAt  time.Time     `json:"started_at"`
	Height     int           `json:"height"`
	Workers    int           `json:"workers"`
	SavePath   string        `json:"save_path"`
	Attempted  uint64        `json:"attempted"`
	Solved     uint64        `json:"solved"`
	Placements map[int]int   `json:"placements_histogram"` // keyed by solution length in placements
	WallTime   time.Duration `json:"wall_time"`
}

// SolveRate returns the fraction of attempted sequences that reached a
// perfect clear, as a percentage, or 0 if none were attempted.
func (r RunRecord) SolveRate() float64 {
	if r.Attempted == 0 {
		return 0
	}
	return float64(r.Solved) / float64(r.Attempted) * 100
}

// RunHistory is the full set of recorded runs, most recent last.
type RunHistory struct {
	Runs []RunRecord `json:"runs"`
}

// NewRunHistory returns an empty run history.
func NewRunHistory() *RunHistory {
	return &RunHistory{}
}

// ResumeLedger tracks how far a (height, save path) pair has progressed.
// Advisory only: the authoritative resume position is the .count file.
type ResumeLedger struct {
	Entries map[string]uint64 `json:"entries"` // "<height>:<savePath>" -> sequences consumed
}

func resumeKey(height int, savePath string) string {
	return strconv.Itoa(height) + ":" + savePath
}

// Storage wraps BadgerDB for the solver's persistent run-history side store.
type Storage struct {
	db *badger.DB
}

// NewStorage opens (creating if necessary) the run-history database under
// the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadHistory loads the recorded run history, returning an empty history
// if none has been saved yet.
func (s *Storage) LoadHistory() (*RunHistory, error) {
	history := NewRunHistory()

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyRunHistory))
		if err == badger.ErrKeyNotFound {
			return nil // Use empty history
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, history)
		})
	})

	return history, err
}

// SaveRun appends a completed run to the history and persists it.
func (s *Storage) SaveRun(run RunRecord) error {
	history, err := s.LoadHistory()
	if err != nil {
		return err
	}
	history.Runs = append(history.Runs, run)

	data, err := json.Marshal(history)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyRunHistory), data)
	})
}

// LoadResumeLedger loads the advisory resume ledger, returning an empty
// one if none has been saved yet.
func (s *Storage) LoadResumeLedger() (*ResumeLedger, error) {
	ledger := &ResumeLedger{Entries: make(map[string]uint64)}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyResumeLedger))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, ledger)
		})
	})

	return ledger, err
}

// RecordProgress advances the advisory resume ledger entry for
// (height, savePath) to consumed sequences.
func (s *Storage) RecordProgress(height int, savePath string, consumed uint64) error {
	ledger, err := s.LoadResumeLedger()
	if err != nil {
		return err
	}
	ledger.Entries[resumeKey(height, savePath)] = consumed

	data, err := json.Marshal(ledger)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyResumeLedger), data)
	})
}
