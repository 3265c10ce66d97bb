// Package resumestore provides the session-local file stores backing
// ephemeral resume references, and the MinIO uploader that turns them into
// durable ones.
package resumestore

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps file bodies in process memory. Suitable for single-host
// deployments and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string]storedFile
}

type storedFile struct {
	name string
	data []byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string]storedFile)}
}

// Put stores a file body under the handle.
func (s *MemoryStore) Put(ctx context.Context, handle, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	body := make([]byte, len(data))
	copy(body, data)
	s.files[handle] = storedFile{name: name, data: body}
	return nil
}

// Get returns the stored body and file name.
func (s *MemoryStore) Get(ctx context.Context, handle string) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[handle]
	if !ok {
		return nil, "", fmt.Errorf("no stored file for handle %s", handle)
	}
	return f.data, f.name, nil
}

// Delete drops the stored file. Deleting an unknown handle is a no-op.
func (s *MemoryStore) Delete(ctx context.Context, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, handle)
	return nil
}
