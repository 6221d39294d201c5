// Package fileutil provides filesystem helpers for writing artifacts.
package fileutil

import (
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"

	"github.com/finreport/ixview/core/errors"
)

// WriteFileAtomic writes data to path without ever exposing a partial
// file: the data goes to a temporary file in the destination directory,
// is synced, and is renamed into place. On any failure the temporary
// file is removed and the destination is untouched.
func WriteFileAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewIO("create directory", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.NewIO("create temp file", dir, err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return errors.NewIO("write", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return errors.NewIO("sync", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.NewIO("close", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return errors.NewIO("chmod", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.NewIO("rename", path, err)
	}
	return nil
}

// Checksum returns the hex-encoded BLAKE3 digest of data, used to
// report artifact integrity.
func Checksum(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
