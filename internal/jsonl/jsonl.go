// Package jsonl reads and writes line-delimited JSON record streams.
// Writers stage output in a temporary file and rename on success, so a
// failed run never leaves a partially written stream behind.
package jsonl

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fjordledger/divrec/pkg/constants"
	"github.com/fjordledger/divrec/pkg/errors"
)

// Writer appends one JSON object per line to a staged temporary file.
// Commit atomically moves the staged file into place; Close without Commit
// discards it.
type Writer struct {
	path      string
	tmp       *os.File
	buf       *bufio.Writer
	enc       *json.Encoder
	count     int
	committed bool
}

// NewWriter stages a writer for path, creating parent directories as needed.
func NewWriter(path string) (*Writer, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", dir, err)
	}

	// Stage in the target directory so the final rename stays on one
	// filesystem.
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, errors.WrapIO("create", path, err)
	}

	buf := bufio.NewWriter(tmp)
	return &Writer{
		path: path,
		tmp:  tmp,
		buf:  buf,
		enc:  json.NewEncoder(buf),
	}, nil
}

// Write encodes one record as a single JSON line.
func (w *Writer) Write(v any) error {
	if err := w.enc.Encode(v); err != nil {
		return errors.WrapIO("write", w.path, err)
	}
	w.count++
	return nil
}

// Count returns the number of records written so far.
func (w *Writer) Count() int {
	return w.count
}

// Commit flushes the staged file and renames it into place.
func (w *Writer) Commit() error {
	if err := w.buf.Flush(); err != nil {
		return errors.WrapIO("write", w.path, err)
	}
	if err := w.tmp.Close(); err != nil {
		return errors.WrapIO("close", w.path, err)
	}
	if err := os.Chmod(w.tmp.Name(), constants.FilePermissions); err != nil {
		return errors.WrapIO("create", w.path, err)
	}
	if err := os.Rename(w.tmp.Name(), w.path); err != nil {
		return errors.WrapIO("rename", w.path, err)
	}
	w.committed = true
	return nil
}

// Close discards the staged file when Commit was not reached. Safe to defer
// alongside Commit.
func (w *Writer) Close() error {
	if w.committed {
		return nil
	}
	_ = w.tmp.Close()
	return os.Remove(w.tmp.Name())
}

// Read decodes every non-blank line of a JSONL file into T.
func Read[T any](path string) ([]*T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only

	var out []*T
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		record := new(T)
		if err := json.Unmarshal(raw, record); err != nil {
			return nil, &errors.ParseError{Format: "json", File: path, Line: line, Message: err.Error(), Err: err}
		}
		out = append(out, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return out, nil
}
