package jsonl_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjordledger/divrec/internal/jsonl"
)

type record struct {
	Key   string `json:"key"`
	Value int    `json:"value"`
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "events.jsonl")

	w, err := jsonl.NewWriter(path)
	require.NoError(t, err)
	defer w.Close() //nolint:errcheck

	require.NoError(t, w.Write(record{Key: "a", Value: 1}))
	require.NoError(t, w.Write(record{Key: "b", Value: 2}))
	assert.Equal(t, 2, w.Count())
	require.NoError(t, w.Commit())

	got, err := jsonl.Read[record](path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Key)
	assert.Equal(t, 2, got[1].Value)
}

func TestNoPartialFileWithoutCommit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.jsonl")

	w, err := jsonl.NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(record{Key: "a"}))
	require.NoError(t, w.Close())

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "uncommitted output must not exist")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "staged temp file must be removed")
}

func TestCloseAfterCommitKeepsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")

	w, err := jsonl.NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(record{Key: "a"}))
	require.NoError(t, w.Commit())
	require.NoError(t, w.Close())

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestReadSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sparse.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"key\":\"a\",\"value\":1}\n\n{\"key\":\"b\",\"value\":2}\n"), 0o644))

	got, err := jsonl.Read[record](path)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestReadBadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"key\":\"a\"}\nnot json\n"), 0o644))

	_, err := jsonl.Read[record](path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
