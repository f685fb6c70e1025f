package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/brightpath-labs/zohobridge/internal/core/domain"
	"github.com/brightpath-labs/zohobridge/internal/core/ports/driven"
)

// Ensure OrphanStore implements the interface.
var _ driven.OrphanStore = (*OrphanStore)(nil)

// OrphanStore implements driven.OrphanStore using PostgreSQL.
type OrphanStore struct {
	db *sql.DB
}

// NewOrphanStore creates a new PostgreSQL-backed orphaned record store.
func NewOrphanStore(db *sql.DB) *OrphanStore {
	return &OrphanStore{db: db}
}

// Save records an orphaned account.
func (s *OrphanStore) Save(ctx context.Context, rec *domain.OrphanedRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO orphaned_records (id, module, record_id, reason, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.Module,
		rec.RecordID,
		rec.Reason,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save orphaned record: %w", err)
	}

	return nil
}

// List returns all recorded orphans, newest first.
func (s *OrphanStore) List(ctx context.Context) ([]*domain.OrphanedRecord, error) {
	query := `
		SELECT id, module, record_id, reason, created_at
		FROM orphaned_records
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list orphaned records: %w", err)
	}
	defer rows.Close()

	var records []*domain.OrphanedRecord
	for rows.Next() {
		var rec domain.OrphanedRecord
		if err := rows.Scan(&rec.ID, &rec.Module, &rec.RecordID, &rec.Reason, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan orphaned record: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orphaned records: %w", err)
	}

	return records, nil
}
