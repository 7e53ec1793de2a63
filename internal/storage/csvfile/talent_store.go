// Package csvfile keeps the talent directory in a single CSV file.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"injective-token-lab/internal/domain"
	"injective-token-lab/internal/storage"
)

// TalentStore implements storage.TalentStore over a CSV file with the
// domain.TalentColumns header. All writes are serialized and rewrite the
// whole file through a temp file and rename.
type TalentStore struct {
	path string

	mu    sync.Mutex
	order []string
	rows  map[string]*domain.Talent
	dirty bool
}

// OpenTalentStore loads path, creating it when missing. A file whose header
// does not match domain.TalentColumns is moved aside and recreated empty.
func OpenTalentStore(path string) (*TalentStore, error) {
	s := &TalentStore{path: path, rows: make(map[string]*domain.Talent)}

	f, err := os.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := s.flushLocked(); err != nil {
			return nil, err
		}
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("open talent file: %w", err)
	}
	defer f.Close()

	ok, err := s.load(f)
	if err != nil {
		return nil, err
	}
	if !ok {
		backup := fmt.Sprintf("%s.bak-%d", path, time.Now().Unix())
		log.Warn().Str("component", "talent_store").Str("path", path).Str("backup", backup).
			Msg("unknown talent file schema, recreating")
		if err := os.Rename(path, backup); err != nil {
			return nil, fmt.Errorf("back up talent file: %w", err)
		}
		s.order, s.rows = nil, make(map[string]*domain.Talent)
		if err := s.flushLocked(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// load reads rows from r. It reports false when the header is not the known schema.
func (s *TalentStore) load(r io.Reader) (bool, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil || !slices.Equal(header, domain.TalentColumns) {
		return false, nil
	}

	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return true, nil
		}
		if err != nil {
			return false, fmt.Errorf("read talent file line %d: %w", line, err)
		}
		t, err := domain.TalentFromRow(record)
		if err != nil {
			log.Warn().Str("component", "talent_store").Int("line", line).Err(err).Msg("skipping talent row")
			continue
		}
		key := t.Key()
		if key == "" {
			continue
		}
		if _, exists := s.rows[key]; !exists {
			s.order = append(s.order, key)
		}
		s.rows[key] = t
	}
}

// Path returns the backing file path.
func (s *TalentStore) Path() string { return s.path }

// Upsert inserts or replaces the row keyed by the wallet address and writes the file.
// On write failure the row is kept in memory and a *storage.PersistenceError is returned.
func (s *TalentStore) Upsert(_ context.Context, t *domain.Talent) error {
	if t == nil || t.Key() == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := t.Key()
	if _, exists := s.rows[key]; !exists {
		s.order = append(s.order, key)
	}
	row := *t
	s.rows[key] = &row
	return s.flushLocked()
}

// Get returns the row for wallet. Returns ErrNotFound if absent.
func (s *TalentStore) Get(_ context.Context, wallet string) (*domain.Talent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists := s.rows[domain.WalletKey(wallet)]
	if !exists {
		return nil, storage.ErrNotFound
	}
	row := *t
	return &row, nil
}

// List returns every row in file order.
func (s *TalentStore) List(_ context.Context) ([]*domain.Talent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Talent, 0, len(s.order))
	for _, key := range s.order {
		row := *s.rows[key]
		out = append(out, &row)
	}
	return out, nil
}

// SetStatus updates the status of an existing row and writes the file.
// On write failure the updated row is still returned with a *storage.PersistenceError.
func (s *TalentStore) SetStatus(_ context.Context, wallet string, status domain.TalentStatus) (*domain.Talent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists := s.rows[domain.WalletKey(wallet)]
	if !exists {
		return nil, storage.ErrNotFound
	}
	t.Status = status
	row := *t
	return &row, s.flushLocked()
}

// Dirty reports whether memory holds changes the file does not.
func (s *TalentStore) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Flush retries writing pending changes.
func (s *TalentStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	return s.flushLocked()
}

func (s *TalentStore) flushLocked() error {
	if err := s.writeFile(); err != nil {
		s.dirty = true
		return &storage.PersistenceError{Op: "write talent file", Path: s.path, Err: err}
	}
	s.dirty = false
	return nil
}

func (s *TalentStore) writeFile() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := csv.NewWriter(tmp)
	if err := w.Write(domain.TalentColumns); err != nil {
		tmp.Close()
		return err
	}
	for _, key := range s.order {
		if err := w.Write(s.rows[key].Row()); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}

var _ storage.TalentStore = (*TalentStore)(nil)
