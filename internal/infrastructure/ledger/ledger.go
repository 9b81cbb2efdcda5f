// Package ledger tracks uploads that are not yet referenced by a
// database record. File storage and the database are written without a
// transaction between them, so an upload is tracked first and settled
// only after the record write commits. Whatever is left over past the
// retention window is an orphan the sweeper surfaces for manual cleanup.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const uploadBucket = "uploads"

// Entry is one tracked upload.
type Entry struct {
	FileID     string    `json:"file_id"`
	Collection string    `json:"collection"`
	TrackedAt  time.Time `json:"tracked_at"`
}

// Book is the bbolt-backed upload ledger.
type Book struct {
	db *bolt.DB
}

// OpenDB opens (creating if needed) the bbolt file shared by the ledger
// and the bolt blob store.
func OpenDB(path string) (*bolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
}

// New ensures the upload bucket exists on the given database.
func New(db *bolt.DB) (*Book, error) {
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(uploadBucket))
		return err
	}); err != nil {
		return nil, err
	}
	return &Book{db: db}, nil
}

// Track records an upload before the corresponding database write.
func (b *Book) Track(fileID, collection string) error {
	if b == nil || b.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if fileID == "" {
		return fmt.Errorf("track upload: empty file id")
	}

	payload, err := json.Marshal(Entry{
		FileID:     fileID,
		Collection: collection,
		TrackedAt:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(uploadBucket)).Put([]byte(fileID), payload)
	})
}

// Settle removes a tracked upload once a record references it.
func (b *Book) Settle(fileID string) error {
	if b == nil || b.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(uploadBucket)).Delete([]byte(fileID))
	})
}

// Pending returns every entry tracked before the cutoff.
func (b *Book) Pending(olderThan time.Time) ([]Entry, error) {
	if b == nil || b.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	var entries []Entry
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(uploadBucket)).ForEach(func(k, v []byte) error {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return nil
			}
			if entry.TrackedAt.Before(olderThan) {
				entries = append(entries, entry)
			}
			return nil
		})
	})
	return entries, err
}

// Drop removes an entry after it has been reported.
func (b *Book) Drop(fileID string) error {
	return b.Settle(fileID)
}

// Count returns the number of tracked uploads, for the health surface.
func (b *Book) Count() (int, error) {
	if b == nil || b.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := b.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket([]byte(uploadBucket)).Stats().KeyN
		return nil
	})
	return count, err
}
