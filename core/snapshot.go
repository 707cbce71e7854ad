package core

import (
	"context"
	"time"
)

// Snapshot is the persisted point-in-time serialization of a session. Its
// JSON shape is a published wire contract consumed by the front end; field
// names and types must not change.
type Snapshot struct {
	SessionID    string    `json:"session_id"`
	Timestamp    time.Time `json:"timestamp"`
	MessageCount int       `json:"message_count"`
	ChatHistory  []Message `json:"chat_history"`
}

// NewSnapshot builds a snapshot document for a session's message history.
func NewSnapshot(sessionID string, ts time.Time, history []Message) Snapshot {
	cp := make([]Message, len(history))
	copy(cp, history)
	return Snapshot{
		SessionID:    sessionID,
		Timestamp:    ts,
		MessageCount: len(cp),
		ChatHistory:  cp,
	}
}

// BlobInfo describes one stored blob as reported by a listing.
type BlobInfo struct {
	Name         string    `json:"blob_name"`
	LastModified time.Time `json:"last_modified"`
	Size         int64     `json:"size"`
}

// SessionInfo is the per-session aggregate returned by session listings.
// LatestTimestamp is parsed from the blob key (second precision) while
// LastModified/Size come from store metadata of the latest blob.
type SessionInfo struct {
	SessionID       string    `json:"session_id"`
	LatestTimestamp time.Time `json:"latest_timestamp"`
	LatestBlob      string    `json:"latest_blob"`
	LastModified    time.Time `json:"last_modified"`
	Size            int64     `json:"size"`
}

// BlobStore abstracts the object store holding snapshot blobs. It owns no
// session semantics; payloads are opaque bytes keyed by blob name.
//
// Implementations must not retry internally; callers decide retry policy.
// List must page through the underlying store completely so the returned
// slice is the full set of matches, not just a first page.
type BlobStore interface {
	// EnsureContainer provisions the backing container if absent. Idempotent.
	EnsureContainer(ctx context.Context) error
	// Put writes (or overwrites) the blob. Overwriting is not an error.
	Put(ctx context.Context, name string, data []byte) error
	// Get returns the blob bytes or storage.ErrNotFound.
	Get(ctx context.Context, name string) ([]byte, error)
	// List returns descriptors for every blob whose name has the prefix.
	List(ctx context.Context, prefix string) ([]BlobInfo, error)
	// Delete removes the blob or returns storage.ErrNotFound.
	Delete(ctx context.Context, name string) error
}
