package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/montasim/school-management-backend-sub003/domain"
)

type diskMeta struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
}

// DiskStore keeps blobs as flat files under one directory: <id> holds the
// content, <id>.json the metadata.
type DiskStore struct {
	dir string
}

// NewDisk creates the directory if needed and returns a disk-backed Store.
func NewDisk(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Upload(ctx context.Context, blob domain.Blob) (*domain.StoredFile, error) {
	fileID := newFileID()

	meta, err := json.Marshal(diskMeta{Name: blob.Name, ContentType: blob.ContentType})
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(s.contentPath(fileID), blob.Content, 0o644); err != nil {
		return nil, fmt.Errorf("write blob: %w", err)
	}
	if err := os.WriteFile(s.metaPath(fileID), meta, 0o644); err != nil {
		_ = os.Remove(s.contentPath(fileID))
		return nil, fmt.Errorf("write blob metadata: %w", err)
	}

	shareable, download := links(fileID)
	return &domain.StoredFile{ID: fileID, ShareableLink: shareable, DownloadLink: download}, nil
}

func (s *DiskStore) Delete(ctx context.Context, fileID string) error {
	if !validFileID(fileID) {
		return domain.ErrFileNotFound
	}
	if err := os.Remove(s.contentPath(fileID)); err != nil {
		if os.IsNotExist(err) {
			return domain.ErrFileNotFound
		}
		return err
	}
	_ = os.Remove(s.metaPath(fileID))
	return nil
}

func (s *DiskStore) Open(ctx context.Context, fileID string) (*domain.Blob, error) {
	if !validFileID(fileID) {
		return nil, domain.ErrFileNotFound
	}
	content, err := os.ReadFile(s.contentPath(fileID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrFileNotFound
		}
		return nil, err
	}

	blob := &domain.Blob{Content: content, ContentType: "application/octet-stream"}
	if raw, err := os.ReadFile(s.metaPath(fileID)); err == nil {
		var meta diskMeta
		if json.Unmarshal(raw, &meta) == nil {
			blob.Name = meta.Name
			if meta.ContentType != "" {
				blob.ContentType = meta.ContentType
			}
		}
	}
	return blob, nil
}

func (s *DiskStore) contentPath(fileID string) string {
	return filepath.Join(s.dir, fileID)
}

func (s *DiskStore) metaPath(fileID string) string {
	return filepath.Join(s.dir, fileID+".json")
}

func newFileID() string {
	return "file-" + uuid.NewString()
}

// validFileID guards against path traversal through a stored id.
func validFileID(fileID string) bool {
	return strings.HasPrefix(fileID, "file-") && !strings.ContainsAny(fileID, `/\`)
}
