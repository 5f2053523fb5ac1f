// Package pagecache keeps rendered GET responses until a mutation
// revalidates the paths they were served from.
package pagecache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type Entry struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Cache stores entries by request URI (path plus query).
//
// Revalidate drops every entry whose path equals one of paths or lies below
// it, so "/en/company/acme" also covers "/en/company/acme/products?search=x".
type Cache interface {
	Get(ctx context.Context, key string) (*Entry, bool, error)
	Set(ctx context.Context, key string, e *Entry) error
	Revalidate(ctx context.Context, paths ...string) error
}

// covers reports whether key is path itself or beneath it.
func covers(path, key string) bool {
	path = strings.TrimSuffix(path, "/")
	if !strings.HasPrefix(key, path) {
		return false
	}
	rest := key[len(path):]
	return rest == "" || rest[0] == '/' || rest[0] == '?'
}

type memoryItem struct {
	entry   *Entry
	expires time.Time
}

// Memory is a process-local Cache used when no Redis is configured.
type Memory struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	ttl   time.Duration
	now   func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{items: make(map[string]memoryItem), ttl: ttl, now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) (*Entry, bool, error) {
	m.mu.RLock()
	it, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if m.ttl > 0 && m.now().After(it.expires) {
		m.mu.Lock()
		delete(m.items, key)
		m.mu.Unlock()
		return nil, false, nil
	}
	return it.entry, true, nil
}

func (m *Memory) Set(_ context.Context, key string, e *Entry) error {
	m.mu.Lock()
	m.items[key] = memoryItem{entry: e, expires: m.now().Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Revalidate(_ context.Context, paths ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.items {
		for _, p := range paths {
			if covers(p, key) {
				delete(m.items, key)
				break
			}
		}
	}
	return nil
}
