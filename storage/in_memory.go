package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/chatvault-ai/chatvault/core"
)

// InMemoryStore is a trivial in-process BlobStore implementation useful for
// tests, examples and the degraded no-persistence boot mode. It keeps all
// blobs in a map guarded by an RWMutex. Data is copied on put / get to avoid
// accidental external mutation of internal buffers.
//
// This implementation is intentionally minimal; it does not enforce retention
// limits, size quotas, or eviction. For production, prefer a durable backend
// (e.g. storage/azure) that survives process restarts.
type InMemoryStore struct {
	mu    sync.RWMutex
	blobs map[string]memBlob
	nowFn func() time.Time
}

type memBlob struct {
	data         []byte
	lastModified time.Time
}

// InMemoryOptions configure the in-memory store.
type InMemoryOptions struct {
	// Now overrides the clock used for last-modified stamps. Tests use this
	// to make listings deterministic.
	Now func() time.Time
}

// NewInMemoryStore returns an empty in-memory blob store.
func NewInMemoryStore(optFns ...func(o *InMemoryOptions)) *InMemoryStore {
	opts := InMemoryOptions{Now: time.Now}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &InMemoryStore{blobs: make(map[string]memBlob), nowFn: opts.Now}
}

// EnsureContainer is a no-op; the map is always available.
func (s *InMemoryStore) EnsureContainer(ctx context.Context) error { return nil }

// Put stores (or overwrites) the blob bytes under name. The input slice is
// copied before storage.
func (s *InMemoryStore) Put(ctx context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.blobs[name] = memBlob{data: cp, lastModified: s.nowFn().UTC()}
	return nil
}

// Get returns a copy of the stored blob bytes or ErrNotFound.
func (s *InMemoryStore) Get(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[name]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(b.data))
	copy(cp, b.data)
	return cp, nil
}

// List returns descriptors for every blob whose name has the prefix, sorted
// by name for deterministic output.
func (s *InMemoryStore) List(ctx context.Context, prefix string) ([]core.BlobInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]core.BlobInfo, 0, len(s.blobs))
	for name, b := range s.blobs {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		infos = append(infos, core.BlobInfo{
			Name:         name,
			LastModified: b.lastModified,
			Size:         int64(len(b.data)),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Delete removes the blob if present or returns ErrNotFound.
func (s *InMemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[name]; !ok {
		return ErrNotFound
	}
	delete(s.blobs, name)
	return nil
}
