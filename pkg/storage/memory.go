package storage

import (
	"sort"
	"sync"
)

// MemoryBackend implements Backend with in-memory maps (not persistent).
// Used when no database path is configured and in tests.
type MemoryBackend struct {
	buckets map[string]map[string][]byte
	mu      sync.RWMutex
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		buckets: make(map[string]map[string][]byte),
	}
}

func (m *MemoryBackend) CreateBucket(name []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.buckets[string(name)]; !exists {
		m.buckets[string(name)] = make(map[string][]byte)
	}
	return nil
}

func (m *MemoryBackend) DeleteBucket(name []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.buckets, string(name))
	return nil
}

func (m *MemoryBackend) BucketExists(name []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.buckets[string(name)]
	return exists, nil
}

func (m *MemoryBackend) Put(bucket, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bkt, exists := m.buckets[string(bucket)]
	if !exists {
		return bucketNotFound(bucket)
	}
	bkt[string(key)] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryBackend) Get(bucket, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bkt, exists := m.buckets[string(bucket)]
	if !exists {
		return nil, bucketNotFound(bucket)
	}
	value, exists := bkt[string(key)]
	if !exists {
		return nil, nil
	}
	return append([]byte(nil), value...), nil
}

func (m *MemoryBackend) Delete(bucket, key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bkt, exists := m.buckets[string(bucket)]
	if !exists {
		return bucketNotFound(bucket)
	}
	delete(bkt, string(key))
	return nil
}

func (m *MemoryBackend) Count(bucket []byte) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bkt, exists := m.buckets[string(bucket)]
	if !exists {
		return 0, bucketNotFound(bucket)
	}
	return len(bkt), nil
}

// ForEach visits a snapshot of the bucket in key order, matching bbolt.
// fn may write to the backend.
func (m *MemoryBackend) ForEach(bucket []byte, fn func(k, v []byte) error) error {
	m.mu.RLock()
	bkt, exists := m.buckets[string(bucket)]
	if !exists {
		m.mu.RUnlock()
		return bucketNotFound(bucket)
	}
	keys := make([]string, 0, len(bkt))
	for k := range bkt {
		keys = append(keys, k)
	}
	values := make(map[string][]byte, len(bkt))
	for k, v := range bkt {
		values[k] = v
	}
	m.mu.RUnlock()

	sort.Strings(keys)
	for _, k := range keys {
		if err := fn([]byte(k), values[k]); err != nil {
			return err
		}
	}
	return nil
}

// Update runs fn directly; the memory backend has no rollback
func (m *MemoryBackend) Update(fn func(tx Transaction) error) error {
	return fn(&memoryTransaction{backend: m})
}

func (m *MemoryBackend) View(fn func(tx Transaction) error) error {
	return fn(&memoryTransaction{backend: m})
}

func (m *MemoryBackend) Close() error {
	return nil
}

type memoryTransaction struct {
	backend *MemoryBackend
}

func (t *memoryTransaction) CreateBucket(name []byte) error {
	return t.backend.CreateBucket(name)
}

func (t *memoryTransaction) Bucket(name []byte) Bucket {
	if exists, _ := t.backend.BucketExists(name); !exists {
		return nil
	}
	return &memoryBucket{backend: t.backend, name: name}
}

type memoryBucket struct {
	backend *MemoryBackend
	name    []byte
}

func (b *memoryBucket) Put(key, value []byte) error {
	return b.backend.Put(b.name, key, value)
}

func (b *memoryBucket) Get(key []byte) []byte {
	value, _ := b.backend.Get(b.name, key)
	return value
}

func (b *memoryBucket) Delete(key []byte) error {
	return b.backend.Delete(b.name, key)
}

func (b *memoryBucket) ForEach(fn func(k, v []byte) error) error {
	return b.backend.ForEach(b.name, fn)
}
