package loader

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"pkg.jsn.cam/fixturegen/pkg/fixture"
	"pkg.jsn.cam/fixturegen/pkg/storage"
)

var recordsBucket = []byte("records")

// BoltSink stores records in a local storage backend, keyed by big-endian id
// so iteration follows id order. Re-loading a file overwrites the same keys.
type BoltSink struct {
	backend storage.Backend
}

func NewBoltSink(backend storage.Backend) (*BoltSink, error) {
	if err := backend.CreateBucket(recordsBucket); err != nil {
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}
	return &BoltSink{backend: backend}, nil
}

// Insert writes the whole batch in one transaction
func (s *BoltSink) Insert(ctx context.Context, records []fixture.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.backend.Update(func(tx storage.Transaction) error {
		bkt := tx.Bucket(recordsBucket)
		if bkt == nil {
			return storage.ErrBucketNotFound
		}
		for _, rec := range records {
			value, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if err := bkt.Put(recordKey(rec.ID), value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Count returns how many records the sink holds
func (s *BoltSink) Count() (int, error) {
	return s.backend.Count(recordsBucket)
}

// Get returns the record stored under id
func (s *BoltSink) Get(id int64) (*fixture.Record, bool, error) {
	data, err := s.backend.Get(recordsBucket, recordKey(id))
	if err != nil || data == nil {
		return nil, false, err
	}
	var rec fixture.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, true, err
	}
	return &rec, true, nil
}

// ForEach visits stored records in id order
func (s *BoltSink) ForEach(fn func(rec fixture.Record) error) error {
	return s.backend.ForEach(recordsBucket, func(_, v []byte) error {
		var rec fixture.Record
		if err := json.Unmarshal(v, &rec); err != nil {
			return err
		}
		return fn(rec)
	})
}

func recordKey(id int64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(id))
	return key
}
