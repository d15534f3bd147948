package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"io"
)

func TestBackupRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "solutions.pc")
	want := []byte("hello solutions")
	if err := os.WriteFile(src, want, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	dst := filepath.Join(dir, "solutions.pc.bak.gz")
	if err := Backup(src, dst); err != nil {
		t.Fatalf("Backup failed: %v", err)
	}

	f, err := os.Open(dst)
	if err != nil {
		t.Fatalf("Open backup failed: %v", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip.NewReader failed: %v", err)
	}
	got, err := io.ReadAll(gz)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestBackupPairSnapshotsBothFiles(t *testing.T) {
	dir := t.TempDir()
	savePath := filepath.Join(dir, "solutions.pc")
	countPath := savePath + ".count"

	if err := os.WriteFile(savePath, []byte("pc-data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(countPath, []byte("42"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := BackupPair(savePath, countPath); err != nil {
		t.Fatalf("BackupPair failed: %v", err)
	}
	if _, err := os.Stat(savePath + ".bak.gz"); err != nil {
		t.Errorf("missing solution backup: %v", err)
	}
	if _, err := os.Stat(countPath + ".bak.gz"); err != nil {
		t.Errorf("missing count backup: %v", err)
	}
}

func TestBackupIntervalScalesWithWorkers(t *testing.T) {
	if got := BackupInterval(4); got != 4096 {
		t.Errorf("BackupInterval(4)=%d want 4096", got)
	}
}
