package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carbonjar/lms/internal/api/request"
	"github.com/carbonjar/lms/internal/core"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantField  any
	}{
		{"not found", fmt.Errorf("get certificate x: %w", core.ErrNotFound), http.StatusNotFound, nil},
		{"validation", &core.ValidationError{Field: "title", Reason: core.ReasonMissingField, Err: core.ErrMissingRequiredField}, http.StatusBadRequest, "title"},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantField, errorBody(rec)["field"])
		})
	}
}

func TestWriteDecodeError_InvalidJSON(t *testing.T) {
	var req request.CreateCertificate
	err := request.Decode(newRequest(http.MethodPost, "/certificates", "{"), &req)

	rec := httptest.NewRecorder()
	writeDecodeError(rec, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, errorBody(rec)["field"])
}

func TestWriteDecodeError_FieldViolation(t *testing.T) {
	var req request.CreateCertificate
	body := `{"course_id":"` + strings.Repeat("c", 129) + `"}`
	err := request.Decode(newRequest(http.MethodPost, "/certificates", body), &req)

	rec := httptest.NewRecorder()
	writeDecodeError(rec, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := errorBody(rec)
	assert.Equal(t, "course_id", resp["field"])
	assert.Equal(t, "max", resp["reason"])
}
