package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"lab-attendance-backend/internal/model"
	"lab-attendance-backend/internal/parse"
)

// csvStore implements the Store interface on a single flat file.
// Mutations hold the write lock and replace the file atomically.
type csvStore struct {
	path string
	loc  *time.Location
	mu   sync.RWMutex
}

// NewCSVStore opens the attendance file at path, creating it with the
// header row when it does not exist yet. Timestamps are read and written
// in loc.
func NewCSVStore(path string, loc *time.Location) (Store, error) {
	if loc == nil {
		loc = time.Local
	}
	s := &csvStore{path: path, loc: loc}
	if err := s.init(); err != nil {
		return nil, storageErr("init", err)
	}
	return s, nil
}

func (s *csvStore) init() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	info, err := os.Stat(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s.writeRows(nil)
	case err != nil:
		return err
	case info.Size() == 0:
		return s.writeRows(nil)
	}

	// Only the header is checked here; rows are decoded when they are used.
	_, err = s.readRows()
	return err
}

// Append adds rec as the last row.
func (s *csvStore) Append(ctx context.Context, rec model.AttendanceRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readRows()
	if err != nil {
		return storageErr("append", err)
	}
	rows = append(rows, EncodeRow(rec, s.loc))
	if err := s.writeRows(rows); err != nil {
		return storageErr("append", err)
	}
	return nil
}

// ResolveLogout picks the open row for registerNumber with the latest login
// time. Equal login times resolve to the row that was appended last.
func (s *csvStore) ResolveLogout(ctx context.Context, registerNumber string, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readRows()
	if err != nil {
		return storageErr("resolve logout", err)
	}

	best := -1
	var bestLogin time.Time
	for i, row := range rows {
		if len(row) != len(Header) {
			return storageErr("resolve logout", fmt.Errorf("line %d: expected %d fields, got %d", i+2, len(Header), len(row)))
		}
		if row[0] != registerNumber {
			continue
		}
		rec, err := DecodeRow(row, s.loc)
		if err != nil {
			return storageErr("resolve logout", fmt.Errorf("line %d: %w", i+2, err))
		}
		if !rec.Open() {
			continue
		}
		if best < 0 || !rec.LoginTime.Before(bestLogin) {
			best, bestLogin = i, rec.LoginTime
		}
	}
	if best < 0 {
		return ErrNotFound
	}

	rows[best][5] = parse.FormatTimestamp(now, s.loc)
	if err := s.writeRows(rows); err != nil {
		return storageErr("resolve logout", err)
	}
	return nil
}

// LoadAll decodes every row. Each record's ID is its 1-based row position.
func (s *csvStore) LoadAll(ctx context.Context) ([]model.AttendanceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.readRows()
	if err != nil {
		return nil, storageErr("load", err)
	}

	records := make([]model.AttendanceRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := DecodeRow(row, s.loc)
		if err != nil {
			return nil, storageErr("load", fmt.Errorf("line %d: %w", i+2, err))
		}
		rec.ID = int64(i + 1)
		records = append(records, rec)
	}
	return records, nil
}

// readRows returns every row after the validated header.
func (s *csvStore) readRows() ([][]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%s has no header row", s.path)
	}

	header := all[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if !headerMatches(header) {
		return nil, fmt.Errorf("%s has unexpected header %q", s.path, header)
	}
	return all[1:], nil
}

// writeRows replaces the file with the header and rows. The content goes to
// a temp file in the same directory first, so a crash never leaves a
// half-written row behind.
func (s *csvStore) writeRows(rows [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	committed = true
	return nil
}
