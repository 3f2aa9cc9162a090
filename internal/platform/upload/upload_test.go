// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

package upload_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docvault/docvault/internal/platform/apperr"
	"github.com/docvault/docvault/internal/platform/upload"
)

// multipartRequest builds a request with one file part carrying an explicit
// Content-Type header.
func multipartRequest(t *testing.T, field, filename, contentType string, payload []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	request := httptest.NewRequest(http.MethodPost, "/upload", body)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	return request
}

func newIntake(t *testing.T, maxBytes int64) *upload.Intake {
	t.Helper()
	intake, err := upload.NewIntake(t.TempDir(), maxBytes)
	require.NoError(t, err)
	return intake
}

/*
TestIntake_Avatar verifies spooling of an accepted image and rejection of
non-image types.
*/
func TestIntake_Avatar(t *testing.T) {
	intake := newIntake(t, 1<<20)

	t.Run("accepted_png", func(t *testing.T) {
		request := multipartRequest(t, "avatar", "me.png", "image/png", []byte("png-bytes"))

		file, err := intake.Avatar(request, "avatar")
		require.NoError(t, err)
		defer file.Cleanup()

		assert.Equal(t, "me.png", file.OriginalName)
		assert.Equal(t, "image/png", file.ContentType)
		assert.Equal(t, int64(9), file.Size)
		assert.True(t, strings.HasSuffix(file.Path, ".png"))

		reader, err := file.Open()
		require.NoError(t, err)
		defer reader.Close()
		spooled, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, []byte("png-bytes"), spooled)
	})

	t.Run("rejected_pdf", func(t *testing.T) {
		request := multipartRequest(t, "avatar", "doc.pdf", "application/pdf", []byte("%PDF"))

		_, err := intake.Avatar(request, "avatar")
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusBadRequest, ae.StatusCode)
		assert.Contains(t, ae.Message, "not supported")
	})
}

/*
TestIntake_Document verifies the wider MIME acceptance and parameter
stripping on the declared content type.
*/
func TestIntake_Document(t *testing.T) {
	intake := newIntake(t, 1<<20)

	tests := []struct {
		name        string
		filename    string
		contentType string
		wantOK      bool
	}{
		{"pdf", "report.pdf", "application/pdf", true},
		{"spreadsheet", "sheet.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", true},
		{"audio", "note.mp3", "audio/mpeg", true},
		{"plain_text_with_charset", "notes.txt", "text/plain; charset=utf-8", true},
		{"executable", "tool.exe", "application/x-msdownload", false},
		{"html", "page.html", "text/html", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := multipartRequest(t, "file", tt.filename, tt.contentType, []byte("payload"))

			file, err := intake.Document(request, "file")
			if !tt.wantOK {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			file.Cleanup()
		})
	}
}

/*
TestIntake_Errors covers the missing-field, wrong-encoding, and oversize
rejections.
*/
func TestIntake_Errors(t *testing.T) {
	t.Run("missing_field", func(t *testing.T) {
		intake := newIntake(t, 1<<20)
		request := multipartRequest(t, "other", "me.png", "image/png", []byte("png"))

		_, err := intake.Avatar(request, "avatar")
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "File field 'avatar' is required", ae.Message)
	})

	t.Run("not_multipart", func(t *testing.T) {
		intake := newIntake(t, 1<<20)
		request := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(`{"a":1}`))
		request.Header.Set("Content-Type", "application/json")

		_, err := intake.Avatar(request, "avatar")
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "Request must be multipart/form-data", ae.Message)
	})

	t.Run("oversize", func(t *testing.T) {
		intake := newIntake(t, 64) // tiny limit
		request := multipartRequest(t, "avatar", "me.png", "image/png", bytes.Repeat([]byte("x"), 4096))

		_, err := intake.Avatar(request, "avatar")
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "Uploaded file is too large", ae.Message)
	})
}
