// Package vault maps the daily log and monthly summaries onto files in a
// notes vault directory.
package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Sumatoshi-tech/devlog/pkg/persist"
	"github.com/Sumatoshi-tech/devlog/pkg/rollup"
)

// StateDir is the vault-relative directory for devlog's own files.
const StateDir = ".devlog"

// ErrEmptyRoot is returned by New when the vault root is empty.
var ErrEmptyRoot = errors.New("vault root is empty")

// Layout names the files devlog uses inside the vault.
type Layout struct {
	// Root is the vault directory.
	Root string
	// Folder holds the daily log, relative to Root.
	Folder string
	// LogFile is the daily log file name inside Folder.
	LogFile string
	// SummaryFolder holds monthly summaries, relative to Root. Empty means Folder.
	SummaryFolder string
}

// Vault resolves Layout paths and implements rollup.LogStore and rollup.SummaryStore.
type Vault struct {
	layout Layout
}

// New validates layout and returns a Vault.
func New(layout Layout) (*Vault, error) {
	if layout.Root == "" {
		return nil, ErrEmptyRoot
	}

	if layout.SummaryFolder == "" {
		layout.SummaryFolder = layout.Folder
	}

	return &Vault{layout: layout}, nil
}

// LogPath is the daily log file.
func (v *Vault) LogPath() string {
	return filepath.Join(v.layout.Root, v.layout.Folder, v.layout.LogFile)
}

// SummaryPath is the summary file for p.
func (v *Vault) SummaryPath(p rollup.Period) string {
	return filepath.Join(v.layout.Root, v.layout.SummaryFolder, SummaryFileName(p))
}

// StatePath is the directory for ledger and archive files.
func (v *Vault) StatePath() string {
	return filepath.Join(v.layout.Root, StateDir)
}

// SummaryFileName returns "Monthly_Summary_<MonthName>_<Year>.md".
func SummaryFileName(p rollup.Period) string {
	return fmt.Sprintf("Monthly_Summary_%s_%d.md", p.Month, p.Year)
}

// ReadLog returns the log text; a missing log is empty.
func (v *Vault) ReadLog(_ context.Context) (string, error) {
	text, _, err := readOptional(v.LogPath())

	return text, err
}

// WriteLog replaces the log atomically.
func (v *Vault) WriteLog(_ context.Context, text string) error {
	return persist.WriteFileAtomic(v.LogPath(), []byte(text))
}

// AppendLog appends text to the log, creating the folder and file when missing.
func (v *Vault) AppendLog(_ context.Context, text string) error {
	path := v.LogPath()

	err := os.MkdirAll(filepath.Dir(path), persist.DirPerm)
	if err != nil {
		return fmt.Errorf("create log folder: %w", err)
	}

	fd, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, persist.FilePerm)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}

	_, err = fd.WriteString(text)
	if err != nil {
		fd.Close()

		return fmt.Errorf("append log: %w", err)
	}

	err = fd.Close()
	if err != nil {
		return fmt.Errorf("close log: %w", err)
	}

	return nil
}

// ReadSummary returns the summary for p; ok is false when none exists.
func (v *Vault) ReadSummary(_ context.Context, p rollup.Period) (string, bool, error) {
	return readOptional(v.SummaryPath(p))
}

// WriteSummary replaces the summary for p atomically.
func (v *Vault) WriteSummary(_ context.Context, p rollup.Period, text string) error {
	return persist.WriteFileAtomic(v.SummaryPath(p), []byte(text))
}

func readOptional(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", path, err)
	}

	return string(data), true, nil
}
