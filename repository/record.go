package repository

import (
	"context"
	"time"

	"github.com/montasim/school-management-backend-sub003/domain"
)

// ListFilter narrows and pages a list query. Field/Values select records
// whose declared filter field is in the value set; both are optional.
type ListFilter struct {
	Field  string
	Values []string
	Limit  int
	Offset int
}

// Patch is a partial update: only the supplied Data keys overwrite, File
// replaces the stored file reference when non-nil, and the modification
// stamp is always written.
type Patch struct {
	Data       map[string]interface{}
	File       *domain.StoredFile
	ModifiedBy string
	ModifiedAt time.Time
}

// RecordRepository is the generic persistence adapter for one collection.
//
// Create returns domain.ErrDuplicateRecord when the store's uniqueness
// constraint rejects the write. GetByID and FindByField return
// domain.ErrRecordNotFound when no row matches. Update returns the number
// of rows modified; Delete reports whether a row was removed.
type RecordRepository interface {
	Create(ctx context.Context, record *domain.Record) error
	GetByID(ctx context.Context, id string) (*domain.Record, error)
	FindByField(ctx context.Context, field, value string) (*domain.Record, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Record, error)
	Update(ctx context.Context, id string, patch Patch) (int64, error)
	Delete(ctx context.Context, id string) (bool, error)
}
