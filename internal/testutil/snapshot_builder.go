package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/chatvault-ai/chatvault/core"
)

// SnapshotBuilder provides a fluent helper for constructing snapshots in tests.
// Example:
//
//	snap := NewSnapshotBuilder("Sprint_Planning").At(ts).User("hello").Assistant("hi").Build()
//
// Chain only the parts you need; message timestamps advance one second per
// entry starting from the snapshot timestamp so histories stay deterministic.
type SnapshotBuilder struct {
	sessionID string
	ts        time.Time
	messages  []core.Message
}

// NewSnapshotBuilder creates a builder for a snapshot of the given session.
func NewSnapshotBuilder(sessionID string) *SnapshotBuilder {
	return &SnapshotBuilder{
		sessionID: sessionID,
		ts:        time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC),
	}
}

// At pins the snapshot timestamp (chainable).
func (b *SnapshotBuilder) At(ts time.Time) *SnapshotBuilder {
	b.ts = ts
	return b
}

// System appends a system instruction message (chainable).
func (b *SnapshotBuilder) System(text string) *SnapshotBuilder {
	return b.Message(core.RoleSystem, text)
}

// User appends a user message (chainable).
func (b *SnapshotBuilder) User(text string) *SnapshotBuilder {
	return b.Message(core.RoleUser, text)
}

// Assistant appends an assistant message (chainable).
func (b *SnapshotBuilder) Assistant(text string) *SnapshotBuilder {
	return b.Message(core.RoleAssistant, text)
}

// Message appends a message with an explicit role (chainable).
func (b *SnapshotBuilder) Message(role core.Role, text string) *SnapshotBuilder {
	stamp := b.ts.Add(time.Duration(len(b.messages)) * time.Second)
	b.messages = append(b.messages, core.Message{Role: role, Content: text, Timestamp: stamp})
	return b
}

// Build materializes the snapshot document.
func (b *SnapshotBuilder) Build() core.Snapshot {
	return core.NewSnapshot(b.sessionID, b.ts, b.messages)
}

// Seed marshals the snapshot and writes it into store under blobName,
// failing the test on any error.
func (b *SnapshotBuilder) Seed(t *testing.T, store core.BlobStore, blobName string) core.Snapshot {
	t.Helper()
	snap := b.Build()
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		t.Fatalf("encode snapshot: %v", err)
	}
	if err := store.Put(context.Background(), blobName, data); err != nil {
		t.Fatalf("seed snapshot %q: %v", blobName, err)
	}
	return snap
}
