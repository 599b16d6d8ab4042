package assetcache

import (
	"context"
	"net/http"
	"sync"
)

// MemoryStorage is a CacheStorage that lives for the life of the process.
type MemoryStorage struct {
	mu     sync.RWMutex
	order  []string
	caches map[string]*memoryCache
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{caches: make(map[string]*memoryCache)}
}

func (s *MemoryStorage) Open(_ context.Context, name string) (Cache, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.caches[name]
	if !ok {
		c = &memoryCache{entries: make(map[string]*Response)}
		s.caches[name] = c
		s.order = append(s.order, name)
	}
	return c, nil
}

func (s *MemoryStorage) Keys(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...), nil
}

func (s *MemoryStorage) Delete(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.caches[name]; !ok {
		return false, nil
	}
	delete(s.caches, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]*Response
}

func (c *memoryCache) Put(_ context.Context, req *http.Request, resp *Response) error {
	cp := *resp
	cp.Header = resp.Header.Clone()
	cp.Body = append([]byte(nil), resp.Body...)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[requestKey(req)] = &cp
	return nil
}

func (c *memoryCache) Match(_ context.Context, req *http.Request) (*Response, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.entries[requestKey(req)]
	if !ok {
		return nil, nil
	}
	cp := *r
	cp.Header = r.Header.Clone()
	return &cp, nil
}
