// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

package records

import (
	"context"
	"io"
	"log/slog"

	"github.com/docvault/docvault/internal/platform/apperr"
	"github.com/docvault/docvault/internal/platform/blob"
	"github.com/docvault/docvault/internal/platform/sec"
	"github.com/docvault/docvault/internal/platform/upload"
	"github.com/docvault/docvault/pkg/pagination"
	"github.com/docvault/docvault/pkg/uuid"
)

// BlobStore defines the contract for durable document storage.
type BlobStore interface {
	Upload(context context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(context context.Context, fileURL string) error
}

// Service implements the record exchange use cases.
type Service struct {
	repository Repository
	blobStore  BlobStore
	logger     *slog.Logger
}

// NewService constructs a new records [Service].
func NewService(repository Repository, blobStore BlobStore, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		blobStore:  blobStore,
		logger:     logger,
	}
}

// CreateInput holds the data for a sender's record upload.
type CreateInput struct {
	FileName    string
	Description string
	Category    Category
	File        *upload.File
}

/*
Create uploads the document and persists its record.

Description: The blob goes up first; a failed upload leaves no record row.
A failed insert deletes the just-uploaded blob so the unique fileUploadUrl
constraint can never point at an orphan.

Parameters:
  - context: context.Context
  - ownerID: string (the authenticated sender)
  - input: CreateInput

Returns:
  - *Record: Created entity
  - error: Upload failures, Conflict on a duplicate blob URL, storage errors
*/
func (service *Service) Create(context context.Context, ownerID string, input CreateInput) (*Record, error) {
	fileReader, err := input.File.Open()
	if err != nil {
		return nil, apperr.Internal("Failed to read uploaded file", err)
	}
	defer fileReader.Close()

	key := blob.ObjectKey(RecordFolder, input.File.OriginalName)
	fileURL, err := service.blobStore.Upload(context, key, input.File.ContentType, fileReader)
	if err != nil {
		return nil, apperr.Internal("File upload failed", err)
	}

	record := &Record{
		ID:            uuid.New(),
		FileName:      input.FileName,
		Description:   input.Description,
		CategoryTags:  input.Category,
		FileUploadURL: fileURL,
		OwnerID:       ownerID,
	}

	if err := service.repository.Create(context, record); err != nil {
		_ = service.blobStore.Delete(context, fileURL)
		return nil, err
	}

	return record, nil
}

// ListOwn returns the sender's own records, newest first.
func (service *Service) ListOwn(context context.Context, ownerID string) ([]*Record, error) {
	return service.repository.ListByOwner(context, ownerID)
}

// ListAll returns one page of every record with owner details, for receivers.
func (service *Service) ListAll(context context.Context, params pagination.Params) ([]*RecordWithOwner, pagination.Meta, error) {
	list, total, err := service.repository.ListAll(context, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return list, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
View resolves a single record for the given identity.

Description: Receivers may view any record; senders only their own. A sender
probing someone else's record gets a 403, not a 404, because the guard runs
after the lookup.

Parameters:
  - context: context.Context
  - identity: *sec.Identity
  - recordID: string

Returns:
  - *Record: Hydrated entity
  - error: NotFound or Forbidden
*/
func (service *Service) View(context context.Context, identity *sec.Identity, recordID string) (*Record, error) {
	record, err := service.repository.FindByID(context, recordID)
	if err != nil {
		return nil, err
	}

	if identity.Role != sec.RoleReceiver && record.OwnerID != identity.ID {
		return nil, apperr.Forbidden("You do not have access to this record")
	}

	return record, nil
}
