package persist

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testState struct {
	Name   string         `json:"name"   yaml:"name"`
	Count  int            `json:"count"  yaml:"count"`
	Values map[string]int `json:"values" yaml:"values"`
}

func TestCodecs_RoundTrip(t *testing.T) {
	t.Parallel()

	original := testState{Name: "test", Count: 42, Values: map[string]int{"a": 1, "b": 2}}

	for _, codec := range []Codec{NewJSONCodec(), NewYAMLCodec()} {
		t.Run(codec.Extension(), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			require.NoError(t, codec.Encode(&buf, original))

			var decoded testState

			require.NoError(t, codec.Decode(&buf, &decoded))
			assert.Equal(t, original, decoded)
		})
	}
}

func TestYAMLCodec_UsesTwoSpaceIndent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, NewYAMLCodec().Encode(&buf, testState{Values: map[string]int{"x": 1}}))
	assert.Contains(t, buf.String(), "values:\n  x: 1\n")
}

func TestCodecs_DecodeError(t *testing.T) {
	t.Parallel()

	var decoded testState

	err := NewJSONCodec().Decode(strings.NewReader("not valid json{{{"), &decoded)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json decode")

	err = NewYAMLCodec().Decode(strings.NewReader("name: [unterminated"), &decoded)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yaml decode")
}

func TestJSONCodec_EncodeError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := NewJSONCodec().Encode(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json encode")
}

func TestWriteFileAtomic_CreatesParentsAndLeavesNoTemp(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a", "b", "file.md")

	require.NoError(t, WriteFileAtomic(path, []byte("first")))
	require.NoError(t, WriteFileAtomic(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	_, err = os.Stat(path + tmpSuffix)
	assert.True(t, os.IsNotExist(err))
}

func TestPersister_SaveLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := NewPersister[testState](dir, "state", NewYAMLCodec())

	_, err := p.Load()
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, p.Save(&testState{Name: "saved", Count: 7}))
	assert.Equal(t, filepath.Join(dir, "state.yaml"), p.Path())

	got, err := p.Load()
	require.NoError(t, err)
	assert.Equal(t, "saved", got.Name)
	assert.Equal(t, 7, got.Count)
}

func TestLoadState_CorruptFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), FilePerm))

	var state testState

	err := LoadState(dir, "bad", NewJSONCodec(), &state)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "decode state")
}
