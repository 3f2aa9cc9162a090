// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

package records

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/docvault/docvault/internal/platform/request"
	"github.com/docvault/docvault/internal/platform/respond"
	"github.com/docvault/docvault/internal/platform/upload"
	"github.com/docvault/docvault/internal/platform/validate"
	"github.com/docvault/docvault/pkg/pagination"
)

// Handler implements the record exchange HTTP endpoints.
//
// Routing is split by audience: sender routes are mounted behind the sender
// role guard, receiver routes behind the receiver guard, and the shared view
// route behind the plain session guard.
type Handler struct {
	recordService *Service
	intake        *upload.Intake
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, intake *upload.Intake) *Handler {
	return &Handler{recordService: service, intake: intake}
}

// SenderRoutes returns the routes mounted under /sender.
func (handler *Handler) SenderRoutes() chi.Router {
	router := chi.NewRouter()
	router.Post("/create-record", handler.createRecord)
	router.Get("/records", handler.listOwnRecords)
	return router
}

// ReceiverRoutes returns the routes mounted under /receiver.
func (handler *Handler) ReceiverRoutes() chi.Router {
	router := chi.NewRouter()
	router.Get("/getAllRecords", handler.listAllRecords)
	return router
}

// Routes returns the role-agnostic routes mounted under /records.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/view-record", handler.viewRecord)
	return router
}

/*
CreateRecord uploads a document and registers it as a record.

POST /api/v1/sender/create-record

Request:
  - Multipart fields: fileName, description (optional), categoryTags
  - Multipart file: file (required)

Response:
  - 201: Record: Created record
  - 400: ErrBadRequest: Missing file, bad category, or validation failure
  - 409: ErrConflict: Duplicate blob URL
*/
func (handler *Handler) createRecord(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	file, err := handler.intake.Document(request, FieldFile)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer file.Cleanup()

	fileName := request.FormValue(FieldFileName)
	description := request.FormValue(FieldDescription)
	category := request.FormValue(FieldCategory)

	validator := &validate.Validator{}
	validator.Required(FieldFileName, fileName).
		MaxLen(FieldFileName, fileName, 255).
		Required(FieldCategory, category).
		OneOf(FieldCategory, category, CategoryNames()...)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.recordService.Create(request.Context(), ownerID, CreateInput{
		FileName:    fileName,
		Description: description,
		Category:    Category(category),
		File:        file,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, "Record created successfully", record)
}

/*
ListOwnRecords returns the sender's uploads, newest first.

GET /api/v1/sender/records

Response:
  - 200: []Record: The sender's records
*/
func (handler *Handler) listOwnRecords(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	list, err := handler.recordService.ListOwn(request.Context(), ownerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Records fetched successfully", list)
}

/*
ListAllRecords returns every record with owner details, paginated.

GET /api/v1/receiver/getAllRecords?page=&limit=

Response:
  - 200: []RecordWithOwner: One page plus pagination metadata
*/
func (handler *Handler) listAllRecords(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	list, meta, err := handler.recordService.ListAll(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, "Records fetched successfully", list, meta)
}

/*
ViewRecord returns a single record by ID.

GET /api/v1/records/view-record?recordId=

Response:
  - 200: Record: The requested record
  - 403: ErrForbidden: Sender viewing another sender's record
  - 404: ErrNotFound: Unknown record ID
*/
func (handler *Handler) viewRecord(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	recordID := request.URL.Query().Get(FieldRecordID)

	validator := &validate.Validator{}
	validator.Required(FieldRecordID, recordID).UUID(FieldRecordID, recordID)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.recordService.View(request.Context(), identity, recordID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, "Record fetched successfully", record)
}
