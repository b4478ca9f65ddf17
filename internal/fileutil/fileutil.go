// Package fileutil holds file modes and the write helper shared by the
// serializer and the CLI.
package fileutil

import (
	"os"
	"path/filepath"
)

// OwnerReadWrite is the file permission mode for merged output files
// (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600

// WriteStep names the step of WriteAtomic that failed.
type WriteStep string

const (
	StepCreate WriteStep = "create"
	StepWrite  WriteStep = "write"
	StepSync   WriteStep = "sync"
	StepChmod  WriteStep = "chmod"
	StepRename WriteStep = "rename"
)

// WriteError reports which step of an atomic write failed.
type WriteError struct {
	Step WriteStep
	Err  error
}

func (e *WriteError) Error() string { return string(e.Step) + ": " + e.Err.Error() }

func (e *WriteError) Unwrap() error { return e.Err }

// WriteAtomic writes data to a temporary file next to path and renames it
// into place, so readers see either the old file or the complete new one.
// The temporary file is removed on any failure.
func WriteAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &WriteError{Step: StepCreate, Err: err}
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return &WriteError{Step: StepWrite, Err: err}
	}
	if err = tmp.Sync(); err != nil {
		return &WriteError{Step: StepSync, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &WriteError{Step: StepWrite, Err: err}
	}
	// CreateTemp uses 0600; apply the requested mode before the file becomes visible.
	if err = os.Chmod(tmpName, perm); err != nil {
		return &WriteError{Step: StepChmod, Err: err}
	}
	if err = os.Rename(tmpName, path); err != nil {
		return &WriteError{Step: StepRename, Err: err}
	}
	return nil
}
