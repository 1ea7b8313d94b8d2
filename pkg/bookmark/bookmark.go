// Package bookmark stores named deep links into documents.
//
// A [Bookmark] pairs a manifest source (path or URL) with a viewer fragment,
// so reopening it restores zoom, view mode, page and scroll offsets exactly.
// Bookmarks are kept in a [Store]:
//   - [FileStore]: one JSON file per bookmark, for the CLI
//   - [MongoStore]: a MongoDB collection, for the HTTP server
package bookmark

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for bookmark operations.
var (
	// ErrNotFound is returned when no bookmark matches.
	ErrNotFound = errors.New("bookmark not found")

	// ErrAmbiguous is returned when a reference matches several bookmarks.
	ErrAmbiguous = errors.New("bookmark reference is ambiguous")
)

// Bookmark is a saved viewer position.
type Bookmark struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Manifest  string    `json:"manifest" bson:"manifest"`
	Fragment  string    `json:"fragment" bson:"fragment"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// New creates a bookmark with a fresh ID.
func New(name, manifest, fragment string) (*Bookmark, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("bookmark name is required")
	}
	if manifest == "" {
		return nil, errors.New("bookmark manifest is required")
	}
	return &Bookmark{
		ID:        uuid.NewString(),
		Name:      name,
		Manifest:  manifest,
		Fragment:  strings.TrimPrefix(fragment, "#"),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// URL joins the manifest source and fragment.
func (b *Bookmark) URL() string {
	if b.Fragment == "" {
		return b.Manifest
	}
	return b.Manifest + "#" + b.Fragment
}

// Store is the interface for bookmark storage backends.
type Store interface {
	// Get returns the bookmark with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Bookmark, error)

	// Put creates or replaces a bookmark.
	Put(ctx context.Context, b *Bookmark) error

	// List returns all bookmarks, oldest first.
	List(ctx context.Context) ([]*Bookmark, error)

	// Delete removes a bookmark, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// Resolve finds a bookmark by full ID, unique ID prefix or exact name.
func Resolve(ctx context.Context, s Store, ref string) (*Bookmark, error) {
	if _, err := uuid.Parse(ref); err == nil {
		return s.Get(ctx, ref)
	}

	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var match *Bookmark
	for _, b := range all {
		if b.Name != ref && !strings.HasPrefix(b.ID, ref) {
			continue
		}
		if match != nil {
			return nil, ErrAmbiguous
		}
		match = b
	}
	if match == nil {
		return nil, ErrNotFound
	}
	return match, nil
}
