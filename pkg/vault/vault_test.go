package vault_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/devlog/pkg/dailylog"
	"github.com/Sumatoshi-tech/devlog/pkg/rollup"
	"github.com/Sumatoshi-tech/devlog/pkg/vault"
)

var november = rollup.Period{Year: 2025, Month: time.November}

func newVault(t *testing.T) *vault.Vault {
	t.Helper()

	v, err := vault.New(vault.Layout{
		Root:    t.TempDir(),
		Folder:  "Daily Reports",
		LogFile: "Daily_Progress_Report.md",
	})
	require.NoError(t, err)

	return v
}

func TestNew_RequiresRoot(t *testing.T) {
	t.Parallel()

	_, err := vault.New(vault.Layout{Folder: "x"})
	require.ErrorIs(t, err, vault.ErrEmptyRoot)
}

func TestSummaryFileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Monthly_Summary_November_2025.md", vault.SummaryFileName(november))
}

func TestVault_LogLifecycle(t *testing.T) {
	t.Parallel()

	v := newVault(t)
	ctx := context.Background()

	text, err := v.ReadLog(ctx)
	require.NoError(t, err)
	assert.Empty(t, text)

	require.NoError(t, v.AppendLog(ctx, "one\n"))
	require.NoError(t, v.AppendLog(ctx, "two\n"))

	text, err = v.ReadLog(ctx)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", text)

	require.NoError(t, v.WriteLog(ctx, "rewritten\n"))

	text, err = v.ReadLog(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rewritten\n", text)
	assert.Equal(t, "Daily Reports", filepath.Base(filepath.Dir(v.LogPath())))
}

func TestVault_Summaries(t *testing.T) {
	t.Parallel()

	v := newVault(t)
	ctx := context.Background()

	_, ok, err := v.ReadSummary(ctx, november)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, v.WriteSummary(ctx, november, "# summary\n"))

	text, ok, err := v.ReadSummary(ctx, november)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "# summary\n", text)
	assert.FileExists(t, v.SummaryPath(november))
}

func TestArchiver_AppendsCompressedEntries(t *testing.T) {
	t.Parallel()

	v := newVault(t)
	archiver := v.NewArchiver()
	ctx := context.Background()

	first := dailylog.Parse(dailylog.RenderEntry(nil, nil, time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)))
	second := dailylog.Parse(dailylog.RenderEntry(nil, nil, time.Date(2025, time.November, 4, 0, 0, 0, 0, time.UTC)))

	require.NoError(t, archiver.Archive(ctx, november, first))
	require.NoError(t, archiver.Archive(ctx, november, second))

	assert.Equal(t, "Daily_Progress_Report-2025-11.md.lz4", filepath.Base(archiver.Path(november)))

	raw, err := os.ReadFile(archiver.Path(november))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(raw), 4)
	assert.Equal(t, []byte{0x04, 0x22, 0x4d, 0x18}, raw[:4], "lz4 frame magic")

	text, err := archiver.Read(november)
	require.NoError(t, err)
	assert.Equal(t, dailylog.RenderEntries(first)+dailylog.RenderEntries(second), text)
}

func TestArchiver_ReadMissing(t *testing.T) {
	t.Parallel()

	text, err := newVault(t).NewArchiver().Read(november)
	require.NoError(t, err)
	assert.Empty(t, text)
}
