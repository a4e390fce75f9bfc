package storage

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrBucketNotFound is returned when an operation names a bucket that was never created
var ErrBucketNotFound = errors.New("bucket not found")

// Backend is a bucketed key-value store. Values are raw bytes; callers pick
// the encoding (the catalog uses JSON, the record sink big-endian ids).
type Backend interface {
	// Bucket operations
	CreateBucket(name []byte) error
	DeleteBucket(name []byte) error
	BucketExists(name []byte) (bool, error)

	// KV operations within buckets
	Put(bucket, key, value []byte) error
	Get(bucket, key []byte) ([]byte, error)
	Delete(bucket, key []byte) error
	Count(bucket []byte) (int, error)

	// ForEach visits pairs in key order
	ForEach(bucket []byte, fn func(k, v []byte) error) error

	// Update runs fn in one read-write transaction, so a batch of puts lands together
	Update(fn func(tx Transaction) error) error
	View(fn func(tx Transaction) error) error

	Close() error
}

// Transaction provides transactional access to the backend
type Transaction interface {
	CreateBucket(name []byte) error
	Bucket(name []byte) Bucket
}

// Bucket provides access to a single bucket within a transaction
type Bucket interface {
	Put(key, value []byte) error
	Get(key []byte) []byte
	Delete(key []byte) error
	ForEach(fn func(k, v []byte) error) error
}

// Open returns a bbolt backend at path, or a memory backend when path is empty
func Open(path string) (Backend, error) {
	if path == "" {
		return NewMemoryBackend(), nil
	}
	return NewBboltBackend(path)
}

// PutJSON encodes v and stores it under key
func PutJSON(b Backend, bucket []byte, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return b.Put(bucket, []byte(key), data)
}

// GetJSON loads key into v. found is false when the key is absent, in which
// case v is left untouched.
func GetJSON(b Backend, bucket []byte, key string, v any) (found bool, err error) {
	data, err := b.Get(bucket, []byte(key))
	if err != nil || data == nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("failed to decode JSON: %w", err)
	}
	return true, nil
}

func bucketNotFound(name []byte) error {
	return fmt.Errorf("%w: %s", ErrBucketNotFound, name)
}
