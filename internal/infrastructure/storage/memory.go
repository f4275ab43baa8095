package storage

import (
	"context"
	"net/url"
	"sync"
	"time"
)

// InMemoryObjectStorage keeps objects in memory. Download URLs point at
// BaseURL and are not served by anything; it exists for tests and local
// runs without an object store.
type InMemoryObjectStorage struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]storedObject
}

type storedObject struct {
	data        []byte
	contentType string
}

// NewInMemoryObjectStorage creates an empty store
func NewInMemoryObjectStorage() *InMemoryObjectStorage {
	return &InMemoryObjectStorage{
		BaseURL: "https://storage.invalid",
		objects: make(map[string]storedObject),
	}
}

// Upload stores a copy of data under key
func (s *InMemoryObjectStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return ErrKeyRequired
	}
	copied := append([]byte(nil), data...)
	s.mu.Lock()
	s.objects[key] = storedObject{data: copied, contentType: contentType}
	s.mu.Unlock()
	return nil
}

// GenerateDownloadURL returns a fake URL carrying the expiry
func (s *InMemoryObjectStorage) GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrKeyRequired
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/" + url.PathEscape(key) + "?expires=" + url.QueryEscape(expiresAt.Format(time.RFC3339)), expiresAt, nil
}

// DeleteObject removes the object if present
func (s *InMemoryObjectStorage) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// ObjectExists reports whether key is stored
func (s *InMemoryObjectStorage) ObjectExists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrKeyRequired
	}
	s.mu.RLock()
	_, ok := s.objects[key]
	s.mu.RUnlock()
	return ok, nil
}

// Get returns the stored bytes and content type
func (s *InMemoryObjectStorage) Get(key string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, "", false
	}
	return append([]byte(nil), obj.data...), obj.contentType, true
}
