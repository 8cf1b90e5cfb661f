package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Repository defines the interface for media index persistence.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	// Create inserts a new record and assigns its ID.
	// IDs are monotonically increasing, so creation order is derivable.
	Create(ctx context.Context, record *Record) error

	// GetByID retrieves a record by id.
	// Returns ErrNotFound if the record does not exist.
	GetByID(ctx context.Context, id int64) (*Record, error)

	// List retrieves records matching the filter, newest captured_at first.
	List(ctx context.Context, filter Filter) ([]Record, error)

	// Delete removes a record by id.
	// Returns ErrNotFound if the record does not exist.
	Delete(ctx context.Context, id int64) error

	// Count returns the number of indexed records.
	Count(ctx context.Context) (int, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open SQLite connection with the media
// schema migrated.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new record and assigns its ID from the AUTOINCREMENT
// sequence.
func (r *SQLiteRepository) Create(ctx context.Context, record *Record) error {
	query := `
		INSERT INTO media (device_id, kind, storage_ref, size_bytes, captured_at)
		VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		record.DeviceID,
		string(record.Kind),
		record.StorageRef,
		record.SizeBytes,
		record.CapturedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting media record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading media record id: %w", err)
	}
	record.ID = id
	return nil
}

// GetByID retrieves a record by id.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*Record, error) {
	query := `
		SELECT id, device_id, kind, storage_ref, size_bytes, captured_at
		FROM media
		WHERE id = ?`

	record, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying media record by id: %w", err)
	}
	return record, nil
}

// List retrieves records matching the filter, newest first. Records sharing
// a captured_at timestamp are ordered by descending id so later captures
// still sort first.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) ([]Record, error) {
	query := `
		SELECT id, device_id, kind, storage_ref, size_bytes, captured_at
		FROM media`

	var (
		conditions []string
		args       []any
	)
	if filter.DeviceID != "" {
		conditions = append(conditions, "device_id = ?")
		args = append(args, filter.DeviceID)
	}
	if filter.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY captured_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying media records: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only rows

	records := make([]Record, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning media record: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating media records: %w", err)
	}
	return records, nil
}

// Delete removes a record by id.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM media WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting media record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of indexed records.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM media").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting media records: %w", err)
	}
	return count, nil
}

// scanner abstracts sql.Row and sql.Rows for scanRecord.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord scans a single media row.
func scanRecord(row scanner) (*Record, error) {
	var (
		record     Record
		kind       string
		capturedAt string
	)
	if err := row.Scan(
		&record.ID,
		&record.DeviceID,
		&kind,
		&record.StorageRef,
		&record.SizeBytes,
		&capturedAt,
	); err != nil {
		return nil, err
	}

	record.Kind = Kind(kind)

	ts, err := time.Parse(time.RFC3339Nano, capturedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing captured_at %q: %w", capturedAt, err)
	}
	record.CapturedAt = ts

	return &record, nil
}
