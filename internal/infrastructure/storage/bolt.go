package storage

import (
	"context"
	"encoding/json"

	bolt "go.etcd.io/bbolt"

	"github.com/montasim/school-management-backend-sub003/domain"
)

const blobBucket = "files"

type boltBlob struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Content     []byte `json:"content"`
}

// BoltStore keeps blobs in a bbolt bucket. It shares the database file
// with the upload ledger so a single handle serves both.
type BoltStore struct {
	db *bolt.DB
}

// NewBolt ensures the blob bucket exists on the given database.
func NewBolt(db *bolt.DB) (*BoltStore, error) {
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(blobBucket))
		return err
	}); err != nil {
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Upload(ctx context.Context, blob domain.Blob) (*domain.StoredFile, error) {
	fileID := newFileID()

	payload, err := json.Marshal(boltBlob{
		Name:        blob.Name,
		ContentType: blob.ContentType,
		Content:     blob.Content,
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(blobBucket)).Put([]byte(fileID), payload)
	}); err != nil {
		return nil, err
	}

	shareable, download := links(fileID)
	return &domain.StoredFile{ID: fileID, ShareableLink: shareable, DownloadLink: download}, nil
}

func (s *BoltStore) Delete(ctx context.Context, fileID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(blobBucket))
		if bucket.Get([]byte(fileID)) == nil {
			return domain.ErrFileNotFound
		}
		return bucket.Delete([]byte(fileID))
	})
}

func (s *BoltStore) Open(ctx context.Context, fileID string) (*domain.Blob, error) {
	var stored boltBlob
	err := s.db.View(func(tx *bolt.Tx) error {
		payload := tx.Bucket([]byte(blobBucket)).Get([]byte(fileID))
		if payload == nil {
			return domain.ErrFileNotFound
		}
		return json.Unmarshal(payload, &stored)
	})
	if err != nil {
		return nil, err
	}

	contentType := stored.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &domain.Blob{Name: stored.Name, ContentType: contentType, Content: stored.Content}, nil
}
