// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docvault/docvault/internal/platform/apperr"
	"github.com/docvault/docvault/internal/platform/respond"
	"github.com/docvault/docvault/pkg/pagination"
)

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	return body
}

/*
TestOK verifies the success envelope shape.
*/
func TestOK(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.OK(recorder, "Records fetched successfully", map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Content-Type"), "application/json")

	body := decodeBody(t, recorder)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(200), body["statusCode"])
	assert.Equal(t, "Records fetched successfully", body["message"])
	assert.Equal(t, map[string]any{"id": "abc"}, body["data"])
}

/*
TestCreated verifies the 201 envelope.
*/
func TestCreated(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Created(recorder, "User registered successfully", nil)

	assert.Equal(t, http.StatusCreated, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, float64(201), body["statusCode"])
	assert.NotContains(t, body, "data", "empty data must be omitted")
}

/*
TestPaginated verifies the metadata block rides alongside the data.
*/
func TestPaginated(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Paginated(recorder, "Records fetched successfully", []string{"a", "b"}, pagination.NewMeta(2, 2, 5))

	body := decodeBody(t, recorder)
	meta, ok := body["meta"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), meta["page"])
	assert.Equal(t, float64(5), meta["total"])
	assert.Equal(t, float64(3), meta["total_pages"])
}

/*
TestError verifies AppError passthrough and the sanitization of unexpected
internal failures.
*/
func TestError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "app_error_passthrough",
			err:         apperr.NotFound("Record"),
			wantStatus:  http.StatusNotFound,
			wantMessage: "Record not found",
		},
		{
			name:        "forbidden",
			err:         apperr.Forbidden("You do not have access to this record"),
			wantStatus:  http.StatusForbidden,
			wantMessage: "You do not have access to this record",
		},
		{
			name:       "raw_error_sanitized",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/anything", nil)

			respond.Error(recorder, request, tt.err)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			body := decodeBody(t, recorder)
			assert.Equal(t, false, body["success"])
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, body["message"])
			}
			// Internal causes never leak to the client.
			assert.NotContains(t, recorder.Body.String(), "connection refused")
		})
	}
}

/*
TestError_ValidationDetails verifies per-field errors surface in the
envelope's errors array.
*/
func TestError_ValidationDetails(t *testing.T) {
	err := apperr.BadRequest("Validation failed",
		apperr.FieldError{Field: "email", Message: "Invalid email format"},
	)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/register", nil)
	respond.Error(recorder, request, err)

	body := decodeBody(t, recorder)
	fieldErrors, ok := body["errors"].([]any)
	require.True(t, ok)
	require.Len(t, fieldErrors, 1)
	first := fieldErrors[0].(map[string]any)
	assert.Equal(t, "email", first["field"])
}
