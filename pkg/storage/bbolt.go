package storage

import (
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// openTimeout bounds how long Open waits for another process holding the file lock
const openTimeout = 2 * time.Second

// BboltBackend implements Backend on a bbolt file
type BboltBackend struct {
	db *bolt.DB
}

// NewBboltBackend opens (or creates) the database at dbPath
func NewBboltBackend(dbPath string) (*BboltBackend, error) {
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open bbolt database %s: %w", dbPath, err)
	}

	return &BboltBackend{db: db}, nil
}

func (b *BboltBackend) CreateBucket(name []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(name)
		return err
	})
}

// DeleteBucket is idempotent
func (b *BboltBackend) DeleteBucket(name []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket(name)
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
}

func (b *BboltBackend) BucketExists(name []byte) (bool, error) {
	exists := false
	err := b.db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket(name) != nil
		return nil
	})
	return exists, err
}

func (b *BboltBackend) Put(bucket, key, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucket)
		if bkt == nil {
			return bucketNotFound(bucket)
		}
		return bkt.Put(key, value)
	})
}

// Get returns a copy of the value, or nil when the key is absent
func (b *BboltBackend) Get(bucket, key []byte) ([]byte, error) {
	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucket)
		if bkt == nil {
			return bucketNotFound(bucket)
		}
		if v := bkt.Get(key); v != nil {
			// only valid for the life of the transaction
			value = append([]byte(nil), v...)
		}
		return nil
	})
	return value, err
}

func (b *BboltBackend) Delete(bucket, key []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucket)
		if bkt == nil {
			return bucketNotFound(bucket)
		}
		return bkt.Delete(key)
	})
}

func (b *BboltBackend) Count(bucket []byte) (int, error) {
	n := 0
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucket)
		if bkt == nil {
			return bucketNotFound(bucket)
		}
		n = bkt.Stats().KeyN
		return nil
	})
	return n, err
}

func (b *BboltBackend) ForEach(bucket []byte, fn func(k, v []byte) error) error {
	return b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucket)
		if bkt == nil {
			return bucketNotFound(bucket)
		}
		return bkt.ForEach(fn)
	})
}

func (b *BboltBackend) Update(fn func(tx Transaction) error) error {
	return b.db.Update(func(boltTx *bolt.Tx) error {
		return fn(&bboltTransaction{tx: boltTx})
	})
}

func (b *BboltBackend) View(fn func(tx Transaction) error) error {
	return b.db.View(func(boltTx *bolt.Tx) error {
		return fn(&bboltTransaction{tx: boltTx})
	})
}

func (b *BboltBackend) Close() error {
	return b.db.Close()
}

type bboltTransaction struct {
	tx *bolt.Tx
}

func (t *bboltTransaction) CreateBucket(name []byte) error {
	_, err := t.tx.CreateBucketIfNotExists(name)
	return err
}

func (t *bboltTransaction) Bucket(name []byte) Bucket {
	bkt := t.tx.Bucket(name)
	if bkt == nil {
		return nil
	}
	return bkt
}
