package persist

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File and directory permissions for state written by this package.
const (
	FilePerm = 0o644
	DirPerm  = 0o755
)

const tmpSuffix = ".tmp"

// ErrNotFound is returned by LoadState when the state file does not exist.
var ErrNotFound = errors.New("state file not found")

// WriteFileAtomic writes data to a sibling temp file, syncs it, and renames
// it over path. Parent directories are created as needed.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	err := os.MkdirAll(dir, DirPerm)
	if err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmpPath := path + tmpSuffix

	fd, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, FilePerm)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	_, err = fd.Write(data)
	if err != nil {
		fd.Close()
		os.Remove(tmpPath)

		return fmt.Errorf("write temp file: %w", err)
	}

	err = fd.Sync()
	if err != nil {
		fd.Close()
		os.Remove(tmpPath)

		return fmt.Errorf("sync temp file: %w", err)
	}

	err = fd.Close()
	if err != nil {
		os.Remove(tmpPath)

		return fmt.Errorf("close temp file: %w", err)
	}

	err = os.Rename(tmpPath, path)
	if err != nil {
		os.Remove(tmpPath)

		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// StatePath returns the file path for basename under dir with the codec's extension.
func StatePath(dir, basename string, codec Codec) string {
	return filepath.Join(dir, basename+codec.Extension())
}

// SaveState atomically writes state to dir/basename<ext>.
func SaveState(dir, basename string, codec Codec, state any) error {
	var buf bytes.Buffer

	err := codec.Encode(&buf, state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	return WriteFileAtomic(StatePath(dir, basename, codec), buf.Bytes())
}

// LoadState decodes dir/basename<ext> into state, which must be a pointer.
// A missing file yields ErrNotFound.
func LoadState(dir, basename string, codec Codec, state any) error {
	path := StatePath(dir, basename, codec)

	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	if err != nil {
		return fmt.Errorf("open state file: %w", err)
	}
	defer file.Close()

	err = codec.Decode(file, state)
	if err != nil {
		return fmt.Errorf("decode state: %w", err)
	}

	return nil
}
