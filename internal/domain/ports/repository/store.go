package repository

import "context"

// JSONStore is the whole-document persistence collaborator. Implementations
// may sit on local disk or an object store; the core never knows which.
// There is no transactional isolation: read-modify-write sequences over a
// document are best effort, and callers defend against races with idempotent
// state checks rather than locks.
type JSONStore interface {
	// ReadJSON decodes the document at key into out. Returns
	// domain.ErrNotFound when the document does not exist yet.
	ReadJSON(ctx context.Context, key string, out any) error
	// WriteJSON replaces the document at key.
	WriteJSON(ctx context.Context, key string, value any) error
}

// DocumentStore holds uploaded customer files (PDFs). Upload plumbing lives
// at the HTTP edge; the core only passes references around.
type DocumentStore interface {
	// Put stores the blob and returns a stable reference URL.
	Put(ctx context.Context, name string, data []byte) (url string, err error)
	// Get returns the blob for a reference previously issued by Put.
	Get(ctx context.Context, url string) ([]byte, error)
}
