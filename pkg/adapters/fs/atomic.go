package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// TempFilePrefix is the prefix used for temporary atomic write files.
	TempFilePrefix = "sealnote-tmp-"

	filePerm = 0o600
	dirPerm  = 0o700
)

// errExists is returned by createFileExclusive when the target is already there.
var errExists = errors.New("file already exists")

// writeTemp writes data to a synced temp file next to filename and returns
// its path. The caller owns the temp file.
func writeTemp(filename string, data []byte, perm os.FileMode) (string, error) {
	dir := filepath.Dir(filename)

	// Create a temporary file in the same directory to ensure atomic rename
	tmpFile, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	name := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(name)
		return "", fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		os.Remove(name)
		return "", fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(name, perm); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("failed to chmod temp file: %w", err)
	}

	return name, nil
}

// writeFileAtomic writes data to a file atomically by writing to a temp file
// and then renaming it to the target filename.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmp, err := writeTemp(filename, data, perm)
	if err != nil {
		return err
	}
	defer os.Remove(tmp) // Clean up if we fail before rename

	if err := os.Rename(tmp, filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}

	return nil
}

// createFileExclusive is writeFileAtomic that refuses to replace an existing
// file. The hard link either lands the complete content or fails, so a
// concurrent creator can never observe a partial file.
func createFileExclusive(filename string, data []byte, perm os.FileMode) error {
	tmp, err := writeTemp(filename, data, perm)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	if err := os.Link(tmp, filename); err != nil {
		if errors.Is(err, os.ErrExist) {
			return errExists
		}
		return fmt.Errorf("failed to link temp file to %s: %w", filename, err)
	}

	return nil
}
