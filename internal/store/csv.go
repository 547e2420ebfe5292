// Package store keeps registrations in append-only CSV files.
package store

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// ErrHeaderMismatch is returned when an existing file was written with different columns.
var ErrHeaderMismatch = errors.New("csv header does not match")

// CSVStore appends rows to one CSV file, writing the header when the file is created.
// Appends are serialized, reads see only complete rows.
type CSVStore struct {
	path   string
	header []string

	mu sync.Mutex
}

// NewCSVStore creates a store for path. Nothing is touched on disk until the first Append.
func NewCSVStore(path string, header []string) *CSVStore {
	return &CSVStore{path: path, header: header}
}

// Path returns the file location
func (s *CSVStore) Path() string {
	return s.path
}

// Header returns the column names
func (s *CSVStore) Header() []string {
	return slices.Clone(s.header)
}

// Append writes one row, creating the file (and its directory) with the header if absent.
func (s *CSVStore) Append(row []string) error {
	return s.AppendRows([][]string{row})
}

// AppendRows writes rows as one unit: under one lock, with a single flush and sync.
// Rows of concurrent callers never interleave. A row of the wrong width rejects
// the whole batch before anything is written.
func (s *CSVStore) AppendRows(rows [][]string) error {
	for i, row := range rows {
		if len(row) != len(s.header) {
			return fmt.Errorf("row %d has %d columns, header has %d", i, len(row), len(s.header))
		}
	}
	if len(rows) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", s.path, err)
	}

	// encode in memory first so the batch reaches the file in one write
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if info.Size() == 0 {
		if err := w.Write(s.header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to append to %s: %w", s.path, err)
	}
	return f.Sync()
}

// ReadAll returns every row after the header. A missing file has no rows.
func (s *CSVStore) ReadAll() ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	if !slices.Equal(records[0], s.header) {
		return nil, fmt.Errorf("%w: %s", ErrHeaderMismatch, s.path)
	}
	return records[1:], nil
}
