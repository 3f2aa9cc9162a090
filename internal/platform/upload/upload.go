// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

/*
Package upload handles multipart form intake for file-bearing endpoints.

Files are spooled to a local temp directory before they are handed to blob
storage, so a slow client cannot hold an S3 connection open. The spooled copy
is always removed, whether the downstream upload succeeds or not.
*/
package upload

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/docvault/docvault/internal/platform/apperr"
	"github.com/docvault/docvault/pkg/uuid"
)

// # Content Types

// Profile images accept browser-native raster formats only.
var avatarContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Document files cover every category the records module classifies.
var documentContentTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
	"audio/mpeg":      ".mp3",
	"audio/wav":       ".wav",
	"audio/ogg":       ".ogg",
	"text/plain":      ".txt",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   ".docx",
	"application/vnd.ms-excel":                                                  ".xls",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         ".xlsx",
	"application/vnd.ms-powerpoint":                                             ".ppt",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": ".pptx",
}

// # Types

// File is a spooled upload ready to stream into blob storage.
type File struct {
	// Path is the temp file location on local disk.
	Path string

	// OriginalName is the client-provided file name, base name only.
	OriginalName string

	// ContentType is the declared MIME type, already validated.
	ContentType string

	// Size is the spooled byte count.
	Size int64
}

// Open returns a reader over the spooled bytes.
func (file *File) Open() (io.ReadCloser, error) {
	return os.Open(file.Path)
}

// Cleanup removes the spooled temp file. Safe to call more than once.
func (file *File) Cleanup() {
	_ = os.Remove(file.Path)
}

// Intake validates and spools multipart file fields.
type Intake struct {
	tempDir  string
	maxBytes int64
}

// NewIntake prepares the spool directory.
func NewIntake(tempDir string, maxBytes int64) (*Intake, error) {
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, err
	}
	return &Intake{tempDir: tempDir, maxBytes: maxBytes}, nil
}

// # Intake Operations

/*
Avatar extracts and spools a profile image from the named form field.

Parameters:
  - request: the incoming multipart request.
  - field: the form field name holding the file.

Returns:
  - *File: the spooled upload. Caller owns Cleanup.
  - error: *apperr.AppError when the field is missing, too large, or not an
    accepted image type.
*/
func (intake *Intake) Avatar(request *http.Request, field string) (*File, error) {
	return intake.accept(request, field, avatarContentTypes)
}

/*
Document extracts and spools a document file from the named form field.

Accepts every MIME type the record categories cover; anything else is
rejected with a 400 before a single byte is spooled.
*/
func (intake *Intake) Document(request *http.Request, field string) (*File, error) {
	return intake.accept(request, field, documentContentTypes)
}

func (intake *Intake) accept(request *http.Request, field string, allowed map[string]string) (*File, error) {
	request.Body = http.MaxBytesReader(nil, request.Body, intake.maxBytes)

	if err := request.ParseMultipartForm(intake.maxBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, apperr.BadRequest("Uploaded file is too large")
		}
		return nil, apperr.BadRequest("Request must be multipart/form-data")
	}

	part, header, err := request.FormFile(field)
	if err != nil {
		return nil, apperr.BadRequest("File field '" + field + "' is required")
	}
	defer part.Close()

	contentType := normalizeContentType(header)
	extension, ok := allowed[contentType]
	if !ok {
		return nil, apperr.BadRequest("File type '" + contentType + "' is not supported")
	}

	return intake.spool(part, header, extension, contentType)
}

// spool copies the part to local disk under a random name.
func (intake *Intake) spool(part multipart.File, header *multipart.FileHeader, extension, contentType string) (*File, error) {
	// Random name: the client-supplied one never touches the filesystem.
	destinationPath := filepath.Join(intake.tempDir, uuid.New()+extension)

	destination, err := os.Create(destinationPath)
	if err != nil {
		return nil, apperr.Internal("Failed to store uploaded file", err)
	}

	written, err := io.Copy(destination, part)
	if closeErr := destination.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(destinationPath)
		return nil, apperr.Internal("Failed to store uploaded file", err)
	}

	return &File{
		Path:         destinationPath,
		OriginalName: filepath.Base(header.Filename),
		ContentType:  contentType,
		Size:         written,
	}, nil
}

// normalizeContentType strips any media-type parameters from the part header.
func normalizeContentType(header *multipart.FileHeader) string {
	contentType := header.Header.Get("Content-Type")
	if index := strings.Index(contentType, ";"); index >= 0 {
		contentType = contentType[:index]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
