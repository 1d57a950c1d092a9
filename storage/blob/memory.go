package blobstore

import (
	"context"
	"sync"

	"github.com/trezcool/academia/core/assignment"
)

// Memory is a process-local blob store, for tests & local development.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

var _ assignment.BlobStore = (*Memory)(nil) // interface compliance check

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (s *Memory) Put(_ context.Context, key string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = append([]byte{}, data...)
	return key, nil
}

func (s *Memory) Get(_ context.Context, ref string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[ref]
	if !ok {
		return nil, assignment.ErrBlobNotFound
	}
	return append([]byte{}, data...), nil
}

func (s *Memory) Delete(_ context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, ref)
	return nil
}

func (s *Memory) Close() error { return nil }
