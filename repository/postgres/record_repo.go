package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/montasim/school-management-backend-sub003/domain"
	"github.com/montasim/school-management-backend-sub003/repository"
)

const uniqueViolation = "23505"

type recordRepository struct {
	pool  *pgxpool.Pool
	table string
}

// NewRecordRepository returns a Postgres-backed RecordRepository bound to
// one collection. Every collection shares the same uniform table shape
// (id, data jsonb, file jsonb, audit columns), so one implementation
// serves all of them. The collection name is sanitized before being
// interpolated into SQL.
func NewRecordRepository(pool *pgxpool.Pool, collection string) repository.RecordRepository {
	return &recordRepository{pool: pool, table: sanitizeIdentifier(collection)}
}

func (r *recordRepository) Create(ctx context.Context, record *domain.Record) error {
	if record == nil || record.ID == "" {
		return domain.ErrInvalidPayload
	}

	query := fmt.Sprintf(`
	INSERT INTO %s (id, data, file, created_by, created_at)
	VALUES ($1, $2, $3, $4, $5)
	`, r.table)

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx, query,
		record.ID,
		marshalJSON(record.Data),
		marshalFile(record.File),
		record.CreatedBy,
		record.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateRecord
		}
		return err
	}
	return nil
}

func (r *recordRepository) GetByID(ctx context.Context, id string) (*domain.Record, error) {
	query := fmt.Sprintf(`
	SELECT id, data, file, created_by, created_at, modified_by, modified_at
	FROM %s
	WHERE id = $1
	`, r.table)

	row := r.pool.QueryRow(ctx, query, id)
	return scanRecord(row)
}

func (r *recordRepository) FindByField(ctx context.Context, field, value string) (*domain.Record, error) {
	query := fmt.Sprintf(`
	SELECT id, data, file, created_by, created_at, modified_by, modified_at
	FROM %s
	WHERE data->>$1 = $2
	LIMIT 1
	`, r.table)

	row := r.pool.QueryRow(ctx, query, field, value)
	return scanRecord(row)
}

func (r *recordRepository) List(ctx context.Context, filter repository.ListFilter) ([]domain.Record, error) {
	query := fmt.Sprintf(`
	SELECT id, data, file, created_by, created_at, modified_by, modified_at
	FROM %s
	WHERE ($1 = '' OR data->>$1 = ANY($2))
	ORDER BY created_at DESC, id DESC
	LIMIT $3 OFFSET $4
	`, r.table)

	values := filter.Values
	if values == nil {
		values = []string{}
	}

	rows, err := r.pool.Query(ctx, query, filter.Field, values, clampLimit(filter.Limit), clampOffset(filter.Offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

func (r *recordRepository) Update(ctx context.Context, id string, patch repository.Patch) (int64, error) {
	query := fmt.Sprintf(`
	UPDATE %s
	SET data = data || $2::jsonb,
		file = COALESCE($3::jsonb, file),
		modified_by = $4,
		modified_at = $5
	WHERE id = $1
	`, r.table)

	modifiedAt := patch.ModifiedAt
	if modifiedAt.IsZero() {
		modifiedAt = time.Now().UTC()
	}

	tag, err := r.pool.Exec(ctx, query,
		id,
		marshalJSON(patch.Data),
		marshalFile(patch.File),
		patch.ModifiedBy,
		modifiedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, domain.ErrDuplicateRecord
		}
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *recordRepository) Delete(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanRecord(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Record, error) {
	var (
		record     domain.Record
		data       []byte
		file       []byte
		modifiedBy *string
	)

	if err := row.Scan(
		&record.ID,
		&data,
		&file,
		&record.CreatedBy,
		&record.CreatedAt,
		&modifiedBy,
		&record.ModifiedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	if len(data) > 0 {
		_ = json.Unmarshal(data, &record.Data)
	}
	if record.Data == nil {
		record.Data = map[string]interface{}{}
	}
	if len(file) > 0 {
		var stored domain.StoredFile
		if err := json.Unmarshal(file, &stored); err == nil && stored.ID != "" {
			record.File = &stored
		}
	}
	if modifiedBy != nil {
		record.ModifiedBy = *modifiedBy
	}

	return &record, nil
}
