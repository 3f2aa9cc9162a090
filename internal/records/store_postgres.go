// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

package records

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/docvault/docvault/internal/platform/database/schema"
	"github.com/docvault/docvault/internal/platform/dberr"
	"github.com/docvault/docvault/pkg/pagination"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the record store.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (repository *PostgresRepository) Create(context context.Context, record *Record) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		schema.Record.Table,
		schema.Record.ID, schema.Record.FileName, schema.Record.Description,
		schema.Record.CategoryTags, schema.Record.FileUploadURL,
		schema.Record.OwnerID, schema.Record.CreatedAt, schema.Record.UpdatedAt,
	)

	now := time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		record.ID,
		record.FileName,
		record.Description,
		record.CategoryTags,
		record.FileUploadURL,
		record.OwnerID,
		record.CreatedAt,
		record.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Record")
	}

	return nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Record, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.Record.ID, schema.Record.FileName, schema.Record.Description,
		schema.Record.CategoryTags, schema.Record.FileUploadURL,
		schema.Record.OwnerID, schema.Record.CreatedAt, schema.Record.UpdatedAt,
		schema.Record.Table, schema.Record.ID,
	)

	record := &Record{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&record.ID,
		&record.FileName,
		&record.Description,
		&record.CategoryTags,
		&record.FileUploadURL,
		&record.OwnerID,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Record")
	}

	return record, nil
}

func (repository *PostgresRepository) ListByOwner(context context.Context, ownerID string) ([]*Record, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC`,
		schema.Record.ID, schema.Record.FileName, schema.Record.Description,
		schema.Record.CategoryTags, schema.Record.FileUploadURL,
		schema.Record.OwnerID, schema.Record.CreatedAt, schema.Record.UpdatedAt,
		schema.Record.Table, schema.Record.OwnerID, schema.Record.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, ownerID)
	if err != nil {
		return nil, dberr.Wrap(err, "Record")
	}
	defer rows.Close()

	list := make([]*Record, 0)
	for rows.Next() {
		record := &Record{}
		if err := rows.Scan(
			&record.ID,
			&record.FileName,
			&record.Description,
			&record.CategoryTags,
			&record.FileUploadURL,
			&record.OwnerID,
			&record.CreatedAt,
			&record.UpdatedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "Record")
		}
		list = append(list, record)
	}

	return list, rows.Err()
}

/*
ListAll returns one page of all records joined with owner profiles.

Description: A single query with a window-function COUNT avoids a second
round trip for the total.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*RecordWithOwner: One page, newest first
  - int: Total record count across all pages
  - error: Database errors
*/
func (repository *PostgresRepository) ListAll(context context.Context, params pagination.Params) ([]*RecordWithOwner, int, error) {
	query := fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, r.%s, r.%s, r.%s, r.%s, r.%s,
		       u.%s, u.%s, u.%s, u.%s,
		       COUNT(*) OVER() AS total
		FROM %s r
		JOIN %s u ON u.%s = r.%s
		ORDER BY r.%s DESC
		LIMIT $1 OFFSET $2`,
		schema.Record.ID, schema.Record.FileName, schema.Record.Description,
		schema.Record.CategoryTags, schema.Record.FileUploadURL,
		schema.Record.OwnerID, schema.Record.CreatedAt, schema.Record.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.Username,
		schema.UserAccount.FullName, schema.UserAccount.AvatarURL,
		schema.Record.Table, schema.UserAccount.Table,
		schema.UserAccount.ID, schema.Record.OwnerID,
		schema.Record.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Record")
	}
	defer rows.Close()

	list := make([]*RecordWithOwner, 0)
	total := 0

	for rows.Next() {
		item := &RecordWithOwner{}
		if err := rows.Scan(
			&item.ID,
			&item.FileName,
			&item.Description,
			&item.CategoryTags,
			&item.FileUploadURL,
			&item.OwnerID,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.OwnerDetails.ID,
			&item.OwnerDetails.Username,
			&item.OwnerDetails.FullName,
			&item.OwnerDetails.Avatar,
			&total,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "Record")
		}
		list = append(list, item)
	}

	return list, total, rows.Err()
}
