// Package resource implements the orchestrating service every catalog
// definition instantiates: authorize the principal, run the existence or
// uniqueness pre-check, drive the optional file hooks, persist, re-fetch.
// Business failures come back as domain.Error values with their own
// codes; only collaborator faults are wrapped as internal.
package resource

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/montasim/school-management-backend-sub003/catalog"
	"github.com/montasim/school-management-backend-sub003/domain"
	"github.com/montasim/school-management-backend-sub003/internal/infrastructure/ledger"
	"github.com/montasim/school-management-backend-sub003/internal/infrastructure/storage"
	"github.com/montasim/school-management-backend-sub003/pkg/entityid"
	"github.com/montasim/school-management-backend-sub003/repository"
)

type UseCase struct {
	def        catalog.Definition
	records    repository.RecordRepository
	principals repository.PrincipalRepository
	files      storage.Store
	book       *ledger.Book
	logger     *zap.Logger
}

func New(
	def catalog.Definition,
	records repository.RecordRepository,
	principals repository.PrincipalRepository,
	files storage.Store,
	book *ledger.Book,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		def:        def,
		records:    records,
		principals: principals,
		files:      files,
		book:       book,
		logger:     logger,
	}
}

// Definition exposes the catalog entry this usecase serves.
func (uc *UseCase) Definition() catalog.Definition {
	return uc.def
}

// Create runs the create pipeline: authorize, uniqueness pre-check,
// optional upload, id generation, persist, re-fetch. The uniqueness
// pre-check is advisory; the store's unique index is the real guarantee
// and its conflict translates to the same error.
func (uc *UseCase) Create(ctx context.Context, principalID string, input map[string]interface{}, blob *domain.Blob) (*domain.Record, error) {
	if err := uc.authorize(ctx, principalID); err != nil {
		return nil, err
	}

	if uc.def.UniqueField != "" {
		value := stringField(input, uc.def.UniqueField)
		if err := uc.checkUnique(ctx, value, ""); err != nil {
			return nil, err
		}
	}

	if err := uc.checkAttachment(blob, true); err != nil {
		return nil, err
	}

	stored, err := uc.upload(ctx, blob)
	if err != nil {
		return nil, err
	}

	record := &domain.Record{
		ID:        entityid.New(uc.def.IDPrefix),
		Data:      input,
		File:      stored,
		CreatedBy: principalID,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.records.Create(ctx, record); err != nil {
		uc.abandonUpload(stored)
		if errors.Is(err, domain.ErrDuplicateRecord) {
			return nil, uc.conflictError(stringField(input, uc.def.UniqueField))
		}
		return nil, domain.WrapError(domain.ErrCodeInternal, "create "+uc.def.Name, err)
	}
	uc.settleUpload(stored)

	created, err := uc.records.GetByID(ctx, record.ID)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "load created "+uc.def.Name, err)
	}
	return created, nil
}

// List returns records sorted by creation time descending, optionally
// narrowed by the definition's filter field. An empty result is a
// not-found outcome, matching the API's list semantics.
func (uc *UseCase) List(ctx context.Context, filterValues []string, limit, offset int) ([]domain.Record, error) {
	filter := repository.ListFilter{Limit: limit, Offset: offset}
	if uc.def.FilterField != "" && len(filterValues) > 0 {
		filter.Field = uc.def.FilterField
		filter.Values = filterValues
	}

	records, err := uc.records.List(ctx, filter)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "list "+uc.def.Plural, err)
	}
	if len(records) == 0 {
		return nil, domain.NewError(domain.ErrCodeNotFound, fmt.Sprintf("No %s found", uc.def.Plural))
	}
	return records, nil
}

// Get fetches one record by id.
func (uc *UseCase) Get(ctx context.Context, id string) (*domain.Record, error) {
	if !entityid.Valid(uc.def.IDPrefix, id) {
		return nil, domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("invalid %s id", uc.def.Name))
	}

	record, err := uc.records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, uc.notFoundError()
		}
		return nil, domain.WrapError(domain.ErrCodeInternal, "get "+uc.def.Name, err)
	}
	return record, nil
}

// Update runs the update pipeline: authorize, target existence check,
// uniqueness pre-check when the unique field changes, file swap, partial
// merge, re-fetch. Zero rows modified is a conflict, distinct from the
// earlier not-found.
func (uc *UseCase) Update(ctx context.Context, principalID, id string, input map[string]interface{}, blob *domain.Blob) (*domain.Record, error) {
	if !entityid.Valid(uc.def.IDPrefix, id) {
		return nil, domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("invalid %s id", uc.def.Name))
	}

	if err := uc.authorize(ctx, principalID); err != nil {
		return nil, err
	}

	existing, err := uc.records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, uc.notFoundError()
		}
		return nil, domain.WrapError(domain.ErrCodeInternal, "get "+uc.def.Name, err)
	}

	if uc.def.UniqueField != "" {
		if v, supplied := input[uc.def.UniqueField]; supplied {
			if err := uc.checkUnique(ctx, fmt.Sprint(v), id); err != nil {
				return nil, err
			}
		}
	}

	if err := uc.checkAttachment(blob, false); err != nil {
		return nil, err
	}

	var stored *domain.StoredFile
	if blob != nil {
		if existing.File != nil {
			uc.deleteFile(ctx, existing.File.ID)
		}
		stored, err = uc.upload(ctx, blob)
		if err != nil {
			return nil, err
		}
	}

	patch := repository.Patch{
		Data:       input,
		File:       stored,
		ModifiedBy: principalID,
		ModifiedAt: time.Now().UTC(),
	}

	modified, err := uc.records.Update(ctx, id, patch)
	if err != nil {
		uc.abandonUpload(stored)
		if errors.Is(err, domain.ErrDuplicateRecord) {
			return nil, uc.conflictError(stringField(input, uc.def.UniqueField))
		}
		return nil, domain.WrapError(domain.ErrCodeInternal, "update "+uc.def.Name, err)
	}
	if modified == 0 {
		uc.abandonUpload(stored)
		return nil, domain.NewError(domain.ErrCodeConflict, fmt.Sprintf("%s was not updated", uc.def.Label))
	}
	uc.settleUpload(stored)

	updated, err := uc.records.GetByID(ctx, id)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "load updated "+uc.def.Name, err)
	}
	return updated, nil
}

// Delete runs the delete pipeline: authorize, existence check, best-effort
// file removal, hard delete.
func (uc *UseCase) Delete(ctx context.Context, principalID, id string) error {
	if !entityid.Valid(uc.def.IDPrefix, id) {
		return domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("invalid %s id", uc.def.Name))
	}

	if err := uc.authorize(ctx, principalID); err != nil {
		return err
	}

	existing, err := uc.records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return uc.notFoundError()
		}
		return domain.WrapError(domain.ErrCodeInternal, "get "+uc.def.Name, err)
	}

	if existing.File != nil {
		uc.deleteFile(ctx, existing.File.ID)
	}

	deleted, err := uc.records.Delete(ctx, id)
	if err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "delete "+uc.def.Name, err)
	}
	if !deleted {
		return domain.NewError(domain.ErrCodeConflict, fmt.Sprintf("%s was not deleted", uc.def.Label))
	}
	return nil
}

func (uc *UseCase) authorize(ctx context.Context, principalID string) error {
	if principalID == "" {
		return domain.NewError(domain.ErrCodeForbidden, "admin not found")
	}
	ok, err := uc.principals.Exists(ctx, principalID)
	if err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "verify admin", err)
	}
	if !ok {
		return domain.NewError(domain.ErrCodeForbidden, "admin not found")
	}
	return nil
}

// checkUnique is the advisory pre-check. excludeID skips the record being
// updated so it may keep its own value.
func (uc *UseCase) checkUnique(ctx context.Context, value, excludeID string) error {
	if value == "" {
		return nil
	}
	existing, err := uc.records.FindByField(ctx, uc.def.UniqueField, value)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil
		}
		return domain.WrapError(domain.ErrCodeInternal, "check "+uc.def.UniqueField, err)
	}
	if existing.ID == excludeID {
		return nil
	}
	return uc.conflictError(value)
}

func (uc *UseCase) checkAttachment(blob *domain.Blob, creating bool) error {
	switch uc.def.Attachment {
	case catalog.AttachmentNone:
		if blob != nil {
			return domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("%s does not accept a file", uc.def.Name))
		}
	case catalog.AttachmentRequired:
		if creating && blob == nil {
			return domain.NewError(domain.ErrCodeInvalid, "file is required")
		}
	}
	return nil
}

func (uc *UseCase) upload(ctx context.Context, blob *domain.Blob) (*domain.StoredFile, error) {
	if blob == nil {
		return nil, nil
	}
	if uc.files == nil {
		return nil, domain.NewError(domain.ErrCodeInternal, "file storage is not configured")
	}

	stored, err := uc.files.Upload(ctx, *blob)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "upload file", err)
	}
	if uc.book != nil {
		if err := uc.book.Track(stored.ID, uc.def.Collection); err != nil {
			uc.logger.Warn("failed to track upload",
				zap.String("file_id", stored.ID),
				zap.String("collection", uc.def.Collection),
				zap.Error(err))
		}
	}
	return stored, nil
}

func (uc *UseCase) settleUpload(stored *domain.StoredFile) {
	if stored == nil || uc.book == nil {
		return
	}
	if err := uc.book.Settle(stored.ID); err != nil {
		uc.logger.Warn("failed to settle upload", zap.String("file_id", stored.ID), zap.Error(err))
	}
}

// abandonUpload is called when the record write fails after a successful
// upload. The file stays in storage and in the ledger; the sweeper will
// surface it as an orphan.
func (uc *UseCase) abandonUpload(stored *domain.StoredFile) {
	if stored == nil {
		return
	}
	uc.logger.Warn("upload left unreferenced after failed record write",
		zap.String("file_id", stored.ID),
		zap.String("collection", uc.def.Collection))
}

// deleteFile is best-effort: a failed remote delete leaves an orphan,
// which is logged rather than failing the record operation.
func (uc *UseCase) deleteFile(ctx context.Context, fileID string) {
	if uc.files == nil || fileID == "" {
		return
	}
	if err := uc.files.Delete(ctx, fileID); err != nil && !errors.Is(err, domain.ErrFileNotFound) {
		uc.logger.Warn("failed to delete stored file",
			zap.String("file_id", fileID),
			zap.String("collection", uc.def.Collection),
			zap.Error(err))
	}
}

func (uc *UseCase) conflictError(value string) *domain.Error {
	if value == "" {
		return domain.NewError(domain.ErrCodeConflict, fmt.Sprintf("%s already exists", uc.def.Label))
	}
	return domain.NewError(domain.ErrCodeConflict,
		fmt.Sprintf("%s with %s %q already exists", uc.def.Label, uc.def.UniqueField, value))
}

func (uc *UseCase) notFoundError() *domain.Error {
	return domain.NewError(domain.ErrCodeNotFound, fmt.Sprintf("%s not found", uc.def.Label))
}

func stringField(input map[string]interface{}, field string) string {
	if field == "" {
		return ""
	}
	v, ok := input[field]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
