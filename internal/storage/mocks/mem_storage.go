package mocks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"docchat/internal/storage"
)

// MemStorage is an in-memory Storage for tests that need real byte
// round-trips instead of canned expectations. Stored bytes are returned
// exactly as put.
type MemStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemStorage() *MemStorage {
	return &MemStorage{objects: map[string][]byte{}}
}

var _ storage.Storage = (*MemStorage)(nil)

func (m *MemStorage) Put(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) (storage.ObjectInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return storage.ObjectInfo{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data

	return storage.ObjectInfo{
		Key:         key,
		Size:        int64(len(data)),
		ContentType: opt.ContentType,
		Metadata:    opt.Metadata,
	}, nil
}

func (m *MemStorage) Get(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	m.mu.Lock()
	data, ok := m.objects[key]
	m.mu.Unlock()
	if !ok {
		return nil, storage.ObjectInfo{}, fmt.Errorf("object %s not found", key)
	}
	return io.NopCloser(bytes.NewReader(data)), storage.ObjectInfo{Key: key, Size: int64(len(data))}, nil
}

func (m *MemStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Len reports the number of stored objects.
func (m *MemStorage) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
