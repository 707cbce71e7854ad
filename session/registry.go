package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/chatvault-ai/chatvault/core"
	"github.com/chatvault-ai/chatvault/logging"
	"github.com/chatvault-ai/chatvault/storage"
)

// CurrentInfo summarizes the current session for presentation.
type CurrentInfo struct {
	SessionID       string `json:"session_id"`
	MessageCount    int    `json:"message_count"`
	HasUserMessages bool   `json:"has_user_messages"`
}

// RegistryOptions configure a Registry.
type RegistryOptions struct {
	// Logger receives structured lifecycle events. Defaults to NoOpLogger.
	Logger logging.Logger
	// Now overrides the clock. Tests use this to pin blob keys.
	Now func() time.Time
}

// Registry owns the single current session: its identifier, its conversation
// buffer, and every lifecycle operation against the blob store. It is the
// only component allowed to mutate the buffer or the current pointer.
//
// HTTP handlers run truly in parallel, so the Registry guards its state with
// a mutex. Store calls happen under the lock, which also provides the
// flush-before-switch ordering guarantee: a flush finishes (or fails,
// aborting the switch) before the buffer is replaced.
type Registry struct {
	mu     sync.Mutex
	store  core.BlobStore
	logger logging.Logger
	nowFn  func() time.Time

	currentID string
	buffer    *core.Conversation
	// dirty tracks whether the buffer changed since the last save. A clean
	// buffer never writes, which keeps repeated saves and switch flushes
	// from duplicating snapshots of unchanged state.
	dirty    bool
	lastBlob string
}

// NewRegistry creates a registry over the given store. The registry starts
// Uninitialized; call Startup to resume the most recent persisted session.
func NewRegistry(store core.BlobStore, optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}, Now: time.Now}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Registry{
		store:  store,
		logger: opts.Logger,
		nowFn:  opts.Now,
		buffer: core.NewConversation(),
	}
}

// Startup lists all persisted snapshots and resumes the session with the
// most recent one. With no snapshots the registry stays Uninitialized until
// the first message or an explicit CreateSession.
func (r *Registry) Startup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	infos, err := r.store.List(ctx, blobPrefix)
	if err != nil {
		return err
	}
	sessions := aggregate(infos)
	if len(sessions) == 0 {
		r.logger.Info("no persisted sessions found, starting uninitialized")
		return nil
	}
	latest := sessions[0]
	snap, err := r.loadSnapshot(ctx, latest.LatestBlob)
	if err != nil {
		return fmt.Errorf("resume session %q: %w", latest.SessionID, err)
	}
	r.currentID = latest.SessionID
	r.buffer = core.NewConversationFromMessages(snap.ChatHistory)
	r.dirty = false
	r.lastBlob = latest.LatestBlob
	r.logger.Info("resumed most recent session",
		"session_id", r.currentID, "blob_name", r.lastBlob, "message_count", r.buffer.Len())
	return nil
}

// CreateSession flushes the current session (if it has unsaved messages),
// then starts a fresh one named after name (or an auto-generated name) and
// makes it current. A failed flush aborts the creation so the outgoing
// buffer is never dropped.
func (r *Registry) CreateSession(ctx context.Context, name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.flush(ctx); err != nil {
		return "", fmt.Errorf("flush before create: %w", err)
	}
	id := DeriveSessionID(name, r.nowFn())
	r.currentID = id
	r.buffer = core.NewConversation()
	r.dirty = false
	r.lastBlob = ""
	r.logger.Info("created session", "session_id", id)
	return id, nil
}

// SwitchSession flushes the current session and makes sessionID current by
// loading its latest snapshot. Returns storage.ErrNotFound if no snapshot
// exists for sessionID.
//
// The flush runs before the target blob is resolved: when switching to the
// session that is already current, the listing then includes the snapshot
// the flush just wrote and the load restores it instead of an older one.
func (r *Registry) SwitchSession(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.flush(ctx); err != nil {
		return fmt.Errorf("flush before switch: %w", err)
	}
	infos, err := r.store.List(ctx, blobPrefix)
	if err != nil {
		return err
	}
	var target *core.SessionInfo
	for _, info := range aggregate(infos) {
		if info.SessionID == sessionID {
			target = &info
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: session %q", storage.ErrNotFound, sessionID)
	}
	snap, err := r.loadSnapshot(ctx, target.LatestBlob)
	if err != nil {
		return err
	}
	r.currentID = sessionID
	r.buffer = core.NewConversationFromMessages(snap.ChatHistory)
	r.dirty = false
	r.lastBlob = target.LatestBlob
	r.logger.Info("switched session", "session_id", sessionID, "blob_name", target.LatestBlob)
	return nil
}

// AppendMessage adds a message to the current session's buffer, creating a
// default session first when none exists. Persistence is write-back: the
// message reaches storage on the next save trigger.
func (r *Registry) AppendMessage(role core.Role, content string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentID == "" {
		r.currentID = DeriveSessionID("", r.nowFn())
		r.logger.Info("auto-created session for first message", "session_id", r.currentID)
	}
	r.buffer.Append(core.NewMessage(role, content))
	r.dirty = true
}

// SaveCurrent serializes the buffer into a new snapshot and writes it.
// An empty buffer is a no-op success (idle shutdowns write nothing); an
// unchanged buffer is a no-op success returning the last written blob name.
func (r *Registry) SaveCurrent(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flush(ctx)
}

// flush implements SaveCurrent; callers must hold the lock.
func (r *Registry) flush(ctx context.Context) (string, error) {
	if r.currentID == "" || r.buffer.Len() == 0 {
		return "", nil
	}
	if !r.dirty {
		return r.lastBlob, nil
	}
	now := r.nowFn().UTC()
	snap := core.NewSnapshot(r.currentID, now, r.buffer.Messages())
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot for %q: %w", r.currentID, err)
	}
	name := BlobKey(r.currentID, now)
	if err := r.store.Put(ctx, name, data); err != nil {
		return "", err
	}
	r.dirty = false
	r.lastBlob = name
	r.logger.Info("saved snapshot",
		"session_id", r.currentID, "blob_name", name, "message_count", snap.MessageCount)
	return name, nil
}

// LoadSnapshot reads and decodes one snapshot without touching registry
// state. Used by the read-only load endpoint.
func (r *Registry) LoadSnapshot(ctx context.Context, blobName string) (core.Snapshot, error) {
	return r.loadSnapshot(ctx, blobName)
}

func (r *Registry) loadSnapshot(ctx context.Context, blobName string) (core.Snapshot, error) {
	data, err := r.store.Get(ctx, blobName)
	if err != nil {
		return core.Snapshot{}, err
	}
	var snap core.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return core.Snapshot{}, fmt.Errorf("decode snapshot %q: %w", blobName, err)
	}
	return snap, nil
}

// DeleteSnapshot removes one snapshot from storage. The in-memory buffer and
// current pointer are left intact even when the deleted blob belonged to the
// current session: the registry is the source of truth for "current",
// storage for "what can be resumed".
func (r *Registry) DeleteSnapshot(ctx context.Context, blobName string) error {
	if err := r.store.Delete(ctx, blobName); err != nil {
		return err
	}
	r.logger.Info("deleted snapshot", "blob_name", blobName)
	return nil
}

// ListSessions aggregates persisted snapshots by session id, most recent
// first. Read-only; never mutates registry state.
func (r *Registry) ListSessions(ctx context.Context) ([]core.SessionInfo, error) {
	infos, err := r.store.List(ctx, blobPrefix)
	if err != nil {
		return nil, err
	}
	return aggregate(infos), nil
}

// Current reports the current session id and buffer stats. An empty
// SessionID means no session exists yet.
func (r *Registry) Current() CurrentInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return CurrentInfo{
		SessionID:       r.currentID,
		MessageCount:    r.buffer.Len(),
		HasUserMessages: r.buffer.HasUserMessages(),
	}
}

// History returns a copy of the current buffer in insertion order.
func (r *Registry) History() []core.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buffer.Messages()
}

// aggregate groups blob descriptors by session id keeping the latest
// snapshot per session. Latest means greatest key timestamp; on a
// second-precision tie the lexicographically greater blob name wins
// (deterministic, not claimed to be meaningful). The result is sorted most
// recent first, so index 0 is the startup resume candidate.
func aggregate(infos []core.BlobInfo) []core.SessionInfo {
	latest := make(map[string]core.SessionInfo)
	for _, info := range infos {
		id, ts, ok := ParseBlobKey(info.Name)
		if !ok {
			continue
		}
		cur, seen := latest[id]
		if seen && (cur.LatestTimestamp.After(ts) ||
			(cur.LatestTimestamp.Equal(ts) && cur.LatestBlob > info.Name)) {
			continue
		}
		latest[id] = core.SessionInfo{
			SessionID:       id,
			LatestTimestamp: ts,
			LatestBlob:      info.Name,
			LastModified:    info.LastModified,
			Size:            info.Size,
		}
	}
	sessions := make([]core.SessionInfo, 0, len(latest))
	for _, s := range latest {
		sessions = append(sessions, s)
	}
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].LatestTimestamp.Equal(sessions[j].LatestTimestamp) {
			return sessions[i].LatestTimestamp.After(sessions[j].LatestTimestamp)
		}
		return sessions[i].LatestBlob > sessions[j].LatestBlob
	})
	return sessions
}
