// Package sink defines the object store that run artifacts are written
// to. Semantics mirror a minimal subset of S3 so that the S3 adapter is
// nearly 1:1 while the filesystem adapter can emulate them for local runs.
package sink

import (
	"context"
	"errors"
	"io"
	"time"
)

// Driver identifies a concrete sink backend.
type Driver string

const (
	DriverFilesystem Driver = "fs"     // local filesystem (default, dev)
	DriverS3         Driver = "s3"     // S3 / MinIO compatible
	DriverMemory     Driver = "memory" // in-memory (tests)
)

// PutOptions specifies optional parameters for Put.
type PutOptions struct {
	ContentType string            // MIME type, optional
	Metadata    map[string]string // user metadata (small, flat key-value)
}

// SignedURLOptions holds options for generating a pre-signed URL.
type SignedURLOptions struct {
	Method  string        // GET|PUT (only GET is supported)
	Expiry  time.Duration // default 15m
	Headers map[string]string
}

// Info describes a stored object.
type Info struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size_bytes"`
	ContentType  string            `json:"content_type,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified time.Time         `json:"last_modified"`
	URL          string            `json:"url,omitempty"` // optional presigned URL
}

// Store is the interface event files and run summaries are written
// through. Put MUST fail when the key already exists: a run's artifacts
// are immutable once emitted.
type Store interface {
	// Put stores a new object at key, failing if the key exists.
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	// Get retrieves the object contents and metadata.
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	// Head returns metadata only.
	Head(ctx context.Context, key string) (Info, error)
	// Delete removes an object. Returns (false, nil) if not found.
	Delete(ctx context.Context, key string) (bool, error)
	// List returns objects whose key has the provided prefix, ordered by
	// key ascending.
	List(ctx context.Context, prefix string) ([]Info, error)
	// PresignURL returns a time-limited URL for the given key (GET).
	// Implementations may return ErrUnsupported.
	PresignURL(ctx context.Context, key string, opts SignedURLOptions) (string, error)
	// Driver returns the configured backend driver.
	Driver() Driver
}

// ErrUnsupported is returned when an optional capability is not available.
var ErrUnsupported = errors.New("sink: unsupported operation")

// RunPrefix returns the key prefix under which a run's artifacts live.
func RunPrefix(runID string) string { return "runs/" + runID + "/" }

// EventsKey returns the canonical object key for a run's HEPEvt file.
func EventsKey(runID string) string { return RunPrefix(runID) + "events.hepevt" }
