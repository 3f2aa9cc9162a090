// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

/*
Package records implements the document exchange between senders and receivers.

A sender uploads files as immutable Records; receivers browse every record in
the system. Records never change after creation: correcting a document means
uploading a new one.
*/
package records

import (
	"time"

	"github.com/docvault/docvault/pkg/slice"
)

// # Categories

// Category classifies a record's file for browsing and filtering.
type Category string

const (
	CategoryDocument    Category = "Document"
	CategoryImages      Category = "Images"
	CategoryAudio       Category = "Audio"
	CategoryPDF         Category = "PDF"
	CategorySpreadsheet Category = "Spreadsheet"
	CategoryPPT         Category = "PPT"
)

// Categories lists every valid category, in display order.
func Categories() []Category {
	return []Category{
		CategoryDocument, CategoryImages, CategoryAudio,
		CategoryPDF, CategorySpreadsheet, CategoryPPT,
	}
}

// CategoryNames lists every valid category value, for validation.
func CategoryNames() []string {
	return slice.Map(Categories(), func(c Category) string { return string(c) })
}

// # Domain Entities

// Record represents a single uploaded document.
//
// FileUploadURL is unique across all records: no two records may reference
// the same stored blob.
type Record struct {
	ID            string    `json:"id"`
	FileName      string    `json:"fileName"`
	Description   string    `json:"description,omitempty"`
	CategoryTags  Category  `json:"categoryTags"`
	FileUploadURL string    `json:"fileUploadUrl"`
	OwnerID       string    `json:"owner"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Owner carries the public profile fields of a record's uploader.
type Owner struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

// RecordWithOwner is the receiver-facing projection joining each record to
// its uploader's public profile.
type RecordWithOwner struct {
	Record
	OwnerDetails Owner `json:"ownerDetails"`
}

// # Field Identifiers

const (
	FieldFileName    = "fileName"
	FieldDescription = "description"
	FieldCategory    = "categoryTags"
	FieldFile        = "file"
	FieldRecordID    = "recordId"
)

// RecordFolder is the blob storage prefix for uploaded documents.
const RecordFolder = "records"
