package credential

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
)

var sessionBucket = []byte("session")

// BoltBackend stores values in a bolt file so a session survives restarts.
type BoltBackend struct {
	store *bolt.DB
}

// NewBoltBackend opens (or creates) the bolt file at path.
func NewBoltBackend(path string) (*BoltBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}

	store, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	// Check buckets
	err = store.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionBucket)
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		return nil
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	return &BoltBackend{store: store}, nil
}

func (b *BoltBackend) Get(key string) ([]byte, error) {
	var value []byte
	err := b.store.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(sessionBucket).Get([]byte(key))
		if data == nil {
			return ErrNotFound
		}
		// bolt values are only valid inside the transaction
		value = append([]byte(nil), data...)
		return nil
	})
	return value, err
}

func (b *BoltBackend) Put(entries map[string][]byte) error {
	return b.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(sessionBucket)
		for k, v := range entries {
			if err := bucket.Put([]byte(k), v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *BoltBackend) Delete(keys ...string) error {
	return b.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(sessionBucket)
		for _, k := range keys {
			if err := bucket.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *BoltBackend) Close() error {
	return b.store.Close()
}
