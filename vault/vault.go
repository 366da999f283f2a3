package vault

import (
	"context"
	"time"
)

// Kind classifies what a path points at.
type Kind int

const (
	// KindMissing means nothing exists at the path.
	KindMissing Kind = iota
	// KindDocument is a plain document whose content can be read and replaced.
	KindDocument
	// KindOther is anything else at the path, such as a folder.
	KindOther
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindDocument:
		return "document"
	default:
		return "other"
	}
}

// Entry describes the result of a lookup.
type Entry struct {
	Path    string
	Kind    Kind
	Size    int64
	ModTime time.Time
}

// Store is the document store capability set.
type Store interface {
	// Lookup reports what exists at path. A missing path is not an error.
	Lookup(ctx context.Context, path string) (Entry, error)

	// Read returns the full content of the document at path.
	Read(ctx context.Context, path string) (string, error)

	// Create writes a new document. It fails if path already exists.
	Create(ctx context.Context, path, content string) error

	// Modify replaces the content of the existing document at path.
	Modify(ctx context.Context, path, content string) error
}

// Locator is optionally implemented by stores that can name a document's
// location for display.
type Locator interface {
	URL(path string) string
}

// Location names where path lives in store: the store's URL when it is a
// Locator, otherwise path itself.
func Location(store Store, path string) string {
	if loc, ok := store.(Locator); ok {
		return loc.URL(path)
	}
	return path
}
