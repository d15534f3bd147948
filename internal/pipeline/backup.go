package pipeline

import (
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// BackupInterval is how many consumed sequences pass between snapshots:
// workers*1024, per spec §4.9.
func BackupInterval(workers int) uint64 {
	return uint64(workers) * 1024
}

// Backup gzip-compresses src into dst, writing through a temp file and
// renaming into place so a crash mid-snapshot never leaves a truncated
// backup visible under dst's name.
func Backup(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dst + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}

	gz := gzip.NewWriter(out)
	if _, err := io.Copy(gz, in); err != nil {
		gz.Close()
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := gz.Close(); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}

// BackupPair snapshots both the solution file and its count file, the
// pair a resume needs to pick back up (spec §4.9/§4.10).
func BackupPair(savePath, countPath string) error {
	if err := Backup(savePath, savePath+".bak.gz"); err != nil {
		return err
	}
	return Backup(countPath, countPath+".bak.gz")
}
