package storage

import (
	"os"
	"testing"
	"time"
)

func TestRunRecordSolveRate(t *testing.T) {
	r := RunRecord{Attempted: 10, Solved: 5}
	if rate := r.SolveRate(); rate != 50 {
		t.Errorf("expected 50%% solve rate, got %.2f%%", rate)
	}

	empty := RunRecord{}
	if rate := empty.SolveRate(); rate != 0 {
		t.Errorf("expected 0%% solve rate for no attempts, got %.2f%%", rate)
	}
}

func TestNewRunHistoryIsEmpty(t *testing.T) {
	h := NewRunHistory()
	if len(h.Runs) != 0 {
		t.Errorf("expected empty run history, got %d runs", len(h.Runs))
	}
}

func TestResumeKeyIncludesHeightAndPath(t *testing.T) {
	a := resumeKey(6, "/tmp/out.pc")
	b := resumeKey(8, "/tmp/out.pc")
	if a == b {
		t.Error("expected different heights to produce different resume keys")
	}
}

func TestStorageSaveAndLoadRun(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "tetrispc-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)
	t.Setenv("XDG_DATA_HOME", tmpDir)

	s, err := NewStorage()
	if err != nil {
		t.Fatalf("NewStorage failed: %v", err)
	}
	defer s.Close()

	run := RunRecord{
		StartedAt:  time.Now(),
		Height:     6,
		Workers:    4,
		SavePath:   "/tmp/out.pc",
		Attempted:  1000,
		Solved:     37,
		Placements: map[int]int{5: 10, 6: 27},
	}
	if err := s.SaveRun(run); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	history, err := s.LoadHistory()
	if err != nil {
		t.Fatalf("LoadHistory failed: %v", err)
	}
	if len(history.Runs) != 1 {
		t.Fatalf("expected 1 recorded run, got %d", len(history.Runs))
	}
	if history.Runs[0].Solved != 37 {
		t.Errorf("expected Solved=37, got %d", history.Runs[0].Solved)
	}
}

func TestStorageRecordAndLoadResumeLedger(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "tetrispc-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)
	t.Setenv("XDG_DATA_HOME", tmpDir)

	s, err := NewStorage()
	if err != nil {
		t.Fatalf("NewStorage failed: %v", err)
	}
	defer s.Close()

	if err := s.RecordProgress(6, "/tmp/out.pc", 42); err != nil {
		t.Fatalf("RecordProgress failed: %v", err)
	}

	ledger, err := s.LoadResumeLedger()
	if err != nil {
		t.Fatalf("LoadResumeLedger failed: %v", err)
	}
	if got := ledger.Entries[resumeKey(6, "/tmp/out.pc")]; got != 42 {
		t.Errorf("expected consumed=42, got %d", got)
	}
}

func TestDataPaths(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "tetrispc-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)
	t.Setenv("XDG_DATA_HOME", tmpDir)

	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}

	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("data directory was not created: %s", dataDir)
	}
}
