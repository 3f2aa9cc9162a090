// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

package records

import (
	"context"

	"github.com/docvault/docvault/pkg/pagination"
)

// Repository defines the data access contract for records.
type Repository interface {

	// Create persists a new record row.
	Create(context context.Context, record *Record) error

	// FindByID returns the record with the given ID.
	FindByID(context context.Context, id string) (*Record, error)

	// ListByOwner returns every record owned by ownerID, newest first.
	ListByOwner(context context.Context, ownerID string) ([]*Record, error)

	// ListAll returns one page of all records joined with their owners'
	// public profiles, newest first, plus the total row count.
	ListAll(context context.Context, params pagination.Params) ([]*RecordWithOwner, int, error)
}
