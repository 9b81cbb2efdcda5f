// Package storage implements the file storage collaborator behind the
// two-method upload/delete contract, plus Open for serving stored blobs.
// Two drivers exist: local disk and a bbolt-backed blob store. Neither
// write is transactional with the database; the upload ledger tracks the
// gap.
package storage

import (
	"context"

	"github.com/montasim/school-management-backend-sub003/domain"
)

// Store is the contract resource usecases and the file handler consume.
// Upload returns the stored file reference whose links are public and
// whose ID stays internal. Delete is a hard delete. Open returns
// domain.ErrFileNotFound when the id is unknown.
type Store interface {
	Upload(ctx context.Context, blob domain.Blob) (*domain.StoredFile, error)
	Delete(ctx context.Context, fileID string) error
	Open(ctx context.Context, fileID string) (*domain.Blob, error)
}

func links(fileID string) (shareable, download string) {
	return "/files/" + fileID, "/files/" + fileID + "?download=1"
}
