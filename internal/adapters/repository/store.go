// Package repository defines the document store contract and its
// file-backed implementation.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Collection names backed by the store.
const (
	CollectionEvents      = "events"
	CollectionGameResults = "gameResults"
	CollectionContacts    = "contacts"
)

// SettingAnnouncement is the settings key of the banner document.
const SettingAnnouncement = "announcement"

// Document is one stored record: an opaque JSON body plus the metadata
// the store owns (id and timestamps).
type Document struct {
	ID        string          `json:"id"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Decode unmarshals the document body into v.
func (d Document) Decode(v any) error {
	if err := json.Unmarshal(d.Data, v); err != nil {
		return fmt.Errorf("decode document %s: %w", d.ID, err)
	}
	return nil
}

// Store provides read/write access to the site's collections and
// settings documents. Writes are last-write-wins; there are no
// cross-document transactions.
type Store interface {
	// List returns the documents of a collection, ordered per options
	// (creation time ascending by default).
	List(ctx context.Context, collection string, opts ...ListOption) ([]Document, error)

	// Get returns a single document. Returns ErrNotFound if absent.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Create stores a new document and returns its generated id.
	Create(ctx context.Context, collection string, fields any) (string, error)

	// Update replaces the body of an existing document.
	// Returns ErrNotFound if absent.
	Update(ctx context.Context, collection, id string, fields any) error

	// Delete removes a document. Returns ErrNotFound if absent.
	Delete(ctx context.Context, collection, id string) error

	// GetSetting decodes a settings document into v.
	// Returns ErrNotFound if the key was never written.
	GetSetting(ctx context.Context, key string, v any) error

	// PutSetting stores a settings document under key.
	PutSetting(ctx context.Context, key string, v any) error

	// Count returns the number of documents in a collection.
	Count(ctx context.Context, collection string) int
}

// listQuery collects the options of one List call.
type listQuery struct {
	orderBy    string
	descending bool
}

// ListOption configures a List call.
type ListOption func(*listQuery)

// WithOrderBy orders results by a field of the document body, e.g.
// "start" or "date". Time fields sort correctly because they are stored
// as RFC3339 strings.
func WithOrderBy(field string, descending bool) ListOption {
	return func(q *listQuery) {
		q.orderBy = field
		q.descending = descending
	}
}
