package storage

import (
	"bytes"
	"errors"
	"testing"
)

// backendTestSuite runs the shared checks against any Backend implementation
func backendTestSuite(t *testing.T, newBackend func() (Backend, func(), error)) {
	setup := func(t *testing.T) Backend {
		t.Helper()
		backend, cleanup, err := newBackend()
		if err != nil {
			t.Fatalf("failed to create backend: %v", err)
		}
		t.Cleanup(cleanup)
		return backend
	}

	t.Run("CreateBucket", func(t *testing.T) {
		backend := setup(t)

		if err := backend.CreateBucket([]byte("test")); err != nil {
			t.Fatalf("CreateBucket failed: %v", err)
		}
		exists, err := backend.BucketExists([]byte("test"))
		if err != nil {
			t.Fatalf("BucketExists failed: %v", err)
		}
		if !exists {
			t.Error("Bucket should exist after creation")
		}

		// Idempotent
		if err := backend.CreateBucket([]byte("test")); err != nil {
			t.Errorf("CreateBucket should be idempotent: %v", err)
		}
	})

	t.Run("DeleteBucket", func(t *testing.T) {
		backend := setup(t)

		backend.CreateBucket([]byte("test"))
		if err := backend.DeleteBucket([]byte("test")); err != nil {
			t.Fatalf("DeleteBucket failed: %v", err)
		}
		if exists, _ := backend.BucketExists([]byte("test")); exists {
			t.Error("Bucket should not exist after deletion")
		}

		// Idempotent
		if err := backend.DeleteBucket([]byte("test")); err != nil {
			t.Errorf("DeleteBucket should be idempotent: %v", err)
		}
	})

	t.Run("MissingBucket", func(t *testing.T) {
		backend := setup(t)

		if err := backend.Put([]byte("nope"), []byte("k"), []byte("v")); !errors.Is(err, ErrBucketNotFound) {
			t.Errorf("Put: expected ErrBucketNotFound, got %v", err)
		}
		if _, err := backend.Get([]byte("nope"), []byte("k")); !errors.Is(err, ErrBucketNotFound) {
			t.Errorf("Get: expected ErrBucketNotFound, got %v", err)
		}
		if _, err := backend.Count([]byte("nope")); !errors.Is(err, ErrBucketNotFound) {
			t.Errorf("Count: expected ErrBucketNotFound, got %v", err)
		}
	})

	t.Run("PutAndGet", func(t *testing.T) {
		backend := setup(t)
		backend.CreateBucket([]byte("test"))

		key := []byte("key1")
		value := []byte("value1")
		if err := backend.Put([]byte("test"), key, value); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		got, err := backend.Get([]byte("test"), key)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, value) {
			t.Errorf("Get returned %s, want %s", got, value)
		}

		got, err = backend.Get([]byte("test"), []byte("nonexistent"))
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got != nil {
			t.Errorf("Get should return nil for non-existent key, got %s", got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		backend := setup(t)
		backend.CreateBucket([]byte("test"))
		backend.Put([]byte("test"), []byte("key1"), []byte("value1"))

		if err := backend.Delete([]byte("test"), []byte("key1")); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if got, _ := backend.Get([]byte("test"), []byte("key1")); got != nil {
			t.Error("Key should not exist after deletion")
		}
	})

	t.Run("ForEachInKeyOrder", func(t *testing.T) {
		backend := setup(t)
		backend.CreateBucket([]byte("test"))

		for _, k := range []string{"key3", "key1", "key2"} {
			backend.Put([]byte("test"), []byte(k), []byte("v-"+k))
		}

		var keys []string
		err := backend.ForEach([]byte("test"), func(k, v []byte) error {
			if string(v) != "v-"+string(k) {
				t.Errorf("key %s has value %s", k, v)
			}
			keys = append(keys, string(k))
			return nil
		})
		if err != nil {
			t.Fatalf("ForEach failed: %v", err)
		}

		want := []string{"key1", "key2", "key3"}
		if len(keys) != len(want) {
			t.Fatalf("ForEach visited %v, want %v", keys, want)
		}
		for i := range want {
			if keys[i] != want[i] {
				t.Errorf("ForEach order %v, want %v", keys, want)
				break
			}
		}

		n, err := backend.Count([]byte("test"))
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if n != 3 {
			t.Errorf("Count = %d, want 3", n)
		}
	})

	t.Run("Transactions", func(t *testing.T) {
		backend := setup(t)

		err := backend.Update(func(tx Transaction) error {
			if err := tx.CreateBucket([]byte("test")); err != nil {
				return err
			}
			b := tx.Bucket([]byte("test"))
			if b == nil {
				t.Fatal("Bucket should not be nil")
			}
			return b.Put([]byte("key1"), []byte("value1"))
		})
		if err != nil {
			t.Fatalf("Update transaction failed: %v", err)
		}

		var gotValue []byte
		err = backend.View(func(tx Transaction) error {
			if tx.Bucket([]byte("missing")) != nil {
				t.Error("missing bucket should be nil")
			}
			b := tx.Bucket([]byte("test"))
			if b == nil {
				t.Fatal("Bucket should not be nil")
			}
			gotValue = append([]byte(nil), b.Get([]byte("key1"))...)
			return nil
		})
		if err != nil {
			t.Fatalf("View transaction failed: %v", err)
		}
		if !bytes.Equal(gotValue, []byte("value1")) {
			t.Errorf("Got %s, want value1", gotValue)
		}
	})

	t.Run("JSONHelpers", func(t *testing.T) {
		backend := setup(t)
		backend.CreateBucket([]byte("test"))

		type entry struct {
			Name string `json:"name"`
			Rows int64  `json:"rows"`
		}

		if err := PutJSON(backend, []byte("test"), "a", entry{Name: "a", Rows: 10}); err != nil {
			t.Fatalf("PutJSON failed: %v", err)
		}

		var got entry
		found, err := GetJSON(backend, []byte("test"), "a", &got)
		if err != nil || !found {
			t.Fatalf("GetJSON = %v, %v", found, err)
		}
		if got.Name != "a" || got.Rows != 10 {
			t.Errorf("Got %+v", got)
		}

		found, err = GetJSON(backend, []byte("test"), "missing", &got)
		if err != nil || found {
			t.Errorf("GetJSON on missing key = %v, %v", found, err)
		}

		backend.Put([]byte("test"), []byte("bad"), []byte("{not json"))
		if _, err := GetJSON(backend, []byte("test"), "bad", &got); err == nil {
			t.Error("GetJSON should fail on invalid JSON")
		}
	})
}
