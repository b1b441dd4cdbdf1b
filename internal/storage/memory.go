package storage

import (
	"context"
	"errors"
	"io"
	"sync"
)

// MemoryStore is an in-process BlobStore used by tests and local development
// without S3 credentials.
type MemoryStore struct {
	mu    sync.Mutex
	blobs map[string][]byte

	// FailNext makes the next Put return an error; lets tests exercise the
	// upload-failure path of request intake.
	FailNext bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (m *MemoryStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailNext {
		m.FailNext = false
		return "", errors.New("memory store: upload failed")
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.blobs[key] = data

	return "memory://" + key, nil
}

func (m *MemoryStore) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[key]
	return data, ok
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}

var _ BlobStore = (*MemoryStore)(nil)
