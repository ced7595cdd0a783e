package vault

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"

	"github.com/Sumatoshi-tech/devlog/pkg/dailylog"
	"github.com/Sumatoshi-tech/devlog/pkg/persist"
	"github.com/Sumatoshi-tech/devlog/pkg/rollup"
)

const (
	archiveDir       = "archive"
	archiveExtension = ".md.lz4"
)

// Archiver stores removed log entries as lz4-compressed markdown, one file per month.
type Archiver struct {
	dir     string
	logBase string
}

// NewArchiver writes archives under the vault state directory.
func (v *Vault) NewArchiver() *Archiver {
	return &Archiver{
		dir:     filepath.Join(v.StatePath(), archiveDir),
		logBase: strings.TrimSuffix(v.layout.LogFile, filepath.Ext(v.layout.LogFile)),
	}
}

// Path returns the archive file for p.
func (a *Archiver) Path(p rollup.Period) string {
	return filepath.Join(a.dir, a.logBase+"-"+p.Key()+archiveExtension)
}

// Archive appends entries to the archive for p. Existing archive content is kept.
func (a *Archiver) Archive(_ context.Context, p rollup.Period, entries []dailylog.Entry) error {
	existing, err := a.Read(p)
	if err != nil {
		return err
	}

	var buf bytes.Buffer

	zw := lz4.NewWriter(&buf)

	_, err = io.WriteString(zw, existing+dailylog.RenderEntries(entries))
	if err != nil {
		return fmt.Errorf("compress archive: %w", err)
	}

	err = zw.Close()
	if err != nil {
		return fmt.Errorf("compress archive: %w", err)
	}

	return persist.WriteFileAtomic(a.Path(p), buf.Bytes())
}

// Read returns the decompressed archive for p, or empty text when none exists.
func (a *Archiver) Read(p rollup.Period) (string, error) {
	data, err := os.ReadFile(a.Path(p))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("read archive: %w", err)
	}

	text, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	if err != nil {
		return "", fmt.Errorf("decompress archive: %w", err)
	}

	return string(text), nil
}
