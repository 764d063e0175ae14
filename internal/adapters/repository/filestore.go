package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harusports/teamsite/pkg/metrics"
)

const (
	tmpSuffix       = ".tmp"
	backupDirName   = "backups"
	filePermissions = 0o644
)

// fileData is the on-disk layout of the data file.
type fileData struct {
	Collections map[string]map[string]Document `json:"collections"`
	Settings    map[string]json.RawMessage     `json:"settings"`
}

// FileStore implements Store over a single JSON data file. All state is
// held in memory behind a mutex and flushed atomically (tmp write then
// rename) after every mutation; last write wins.
type FileStore struct {
	mu   sync.RWMutex
	path string
	data fileData
	now  func() time.Time
}

// FileStoreOption applies a configuration option to the FileStore.
type FileStoreOption func(*FileStore)

// WithClock overrides the time source used for document timestamps.
func WithClock(now func() time.Time) FileStoreOption {
	return func(s *FileStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewFileStore opens the data file at path, creating its directory if
// needed. A missing file starts an empty store; it is written on the
// first mutation.
func NewFileStore(path string, opts ...FileStoreOption) (*FileStore, error) {
	s := &FileStore{
		path: path,
		now:  time.Now,
		data: fileData{
			Collections: map[string]map[string]Document{
				CollectionEvents:      {},
				CollectionGameResults: {},
				CollectionContacts:    {},
			},
			Settings: map[string]json.RawMessage{},
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parse data file %s: %w", path, err)
	}
	if s.data.Collections == nil {
		s.data.Collections = map[string]map[string]Document{}
	}
	for _, c := range []string{CollectionEvents, CollectionGameResults, CollectionContacts} {
		if s.data.Collections[c] == nil {
			s.data.Collections[c] = map[string]Document{}
		}
	}
	if s.data.Settings == nil {
		s.data.Settings = map[string]json.RawMessage{}
	}
	return s, nil
}

func (s *FileStore) collection(name string) (map[string]Document, error) {
	c, ok := s.data.Collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
	return c, nil
}

// List returns the documents of a collection ordered per options.
func (s *FileStore) List(ctx context.Context, collection string, opts ...ListOption) ([]Document, error) {
	var q listQuery
	for _, opt := range opts {
		opt(&q)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.collection(collection)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(c))
	for _, d := range c {
		docs = append(docs, d)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		less := docs[i].CreatedAt.Before(docs[j].CreatedAt)
		if q.orderBy != "" {
			less = fieldLess(docs[i], docs[j], q.orderBy)
		}
		if q.descending {
			return !less
		}
		return less
	})
	return docs, nil
}

// Get returns a single document or ErrNotFound.
func (s *FileStore) Get(ctx context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.collection(collection)
	if err != nil {
		return Document{}, err
	}
	d, ok := c[id]
	if !ok {
		return Document{}, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return d, nil
}

// Create stores a new document with a generated UUID and timestamps.
func (s *FileStore) Create(ctx context.Context, collection string, fields any) (string, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.collection(collection)
	if err != nil {
		return "", err
	}

	now := s.now()
	d := Document{
		ID:        uuid.NewString(),
		Data:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c[d.ID] = d

	if err := s.persist(); err != nil {
		delete(c, d.ID)
		return "", err
	}
	metrics.UpdateDocumentCount(collection, len(c))
	return d.ID, nil
}

// Update replaces the body of an existing document.
func (s *FileStore) Update(ctx context.Context, collection, id string, fields any) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.collection(collection)
	if err != nil {
		return err
	}
	prev, ok := c[id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}

	d := prev
	d.Data = body
	d.UpdatedAt = s.now()
	c[id] = d

	if err := s.persist(); err != nil {
		c[id] = prev
		return err
	}
	return nil
}

// Delete removes a document.
func (s *FileStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.collection(collection)
	if err != nil {
		return err
	}
	prev, ok := c[id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	delete(c, id)

	if err := s.persist(); err != nil {
		c[id] = prev
		return err
	}
	metrics.UpdateDocumentCount(collection, len(c))
	return nil
}

// GetSetting decodes a settings document into v.
func (s *FileStore) GetSetting(ctx context.Context, key string, v any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.data.Settings[key]
	if !ok {
		return fmt.Errorf("settings/%s: %w", key, ErrNotFound)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode setting %s: %w", key, err)
	}
	return nil
}

// PutSetting stores a settings document under key.
func (s *FileStore) PutSetting(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode setting %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.data.Settings[key]
	s.data.Settings[key] = body

	if err := s.persist(); err != nil {
		if had {
			s.data.Settings[key] = prev
		} else {
			delete(s.data.Settings, key)
		}
		return err
	}
	return nil
}

// Count returns the number of documents in a collection.
func (s *FileStore) Count(ctx context.Context, collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data.Collections[collection])
}

// Snapshot copies the current data file into the backups directory next
// to it, named with a unix timestamp. Used by the scheduled backup task.
func (s *FileStore) Snapshot() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Join(filepath.Dir(s.path), backupDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	name := fmt.Sprintf("%d_%s", s.now().Unix(), filepath.Base(s.path))
	dest := filepath.Join(dir, name)
	if err := os.WriteFile(dest, raw, filePermissions); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	metrics.RecordSnapshot()
	return dest, nil
}

// persist flushes the in-memory state to disk atomically. Caller must
// hold the write lock.
func (s *FileStore) persist() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("encode data file: %w", err)
	}
	tmp := s.path + tmpSuffix
	if err := os.WriteFile(tmp, raw, filePermissions); err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("write data file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("replace data file: %w", err)
	}
	metrics.RecordStoreSave()
	return nil
}

// fieldLess compares two documents by a body field. Strings compare
// lexically (RFC3339 timestamps order correctly), numbers numerically;
// mismatched or missing fields fall back to creation order.
func fieldLess(a, b Document, field string) bool {
	av, aok := bodyField(a, field)
	bv, bok := bodyField(b, field)
	if !aok || !bok {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	switch x := av.(type) {
	case string:
		if y, ok := bv.(string); ok {
			return strings.Compare(x, y) < 0
		}
	case float64:
		if y, ok := bv.(float64); ok {
			return x < y
		}
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

func bodyField(d Document, field string) (any, bool) {
	var m map[string]any
	if err := json.Unmarshal(d.Data, &m); err != nil {
		return nil, false
	}
	v, ok := m[field]
	return v, ok
}
