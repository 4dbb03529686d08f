// AngelaMos | 2026
// response_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()

	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestJSONError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()

	JSONError(rec, NotFoundError("coffee place"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	resp := decodeResponse(t, rec)
	if resp.Success {
		t.Error("success = true, want false")
	}
	if resp.Error == nil || resp.Error.Code != "NOT_FOUND" {
		t.Errorf("error = %+v, want code NOT_FOUND", resp.Error)
	}
}

func TestJSONError_PlainErrorIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()

	JSONError(rec, errors.New("boom"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	resp := decodeResponse(t, rec)
	if resp.Error == nil || resp.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("error = %+v, want INTERNAL_ERROR", resp.Error)
	}
	if resp.Error.Message == "boom" {
		t.Error("internal error message leaked to client")
	}
}

func TestValidationFailed_CarriesField(t *testing.T) {
	rec := httptest.NewRecorder()

	JSONError(rec, ValidationFailed(NewValidationError("ambient", "must be between 1 and 5")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	resp := decodeResponse(t, rec)
	if resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q, want VALIDATION_ERROR", resp.Error.Code)
	}
	if resp.Error.Details["ambient"] != "must be between 1 and 5" {
		t.Errorf("details = %v", resp.Error.Details)
	}
}

func TestValidationError_MatchesInvalidInput(t *testing.T) {
	err := fmt.Errorf("create place: %w", NewValidationError("name", "must not be blank"))

	if !errors.Is(err, ErrInvalidInput) {
		t.Fatal("wrapped ValidationError does not match ErrInvalidInput")
	}

	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "name" {
		t.Fatalf("errors.As = %+v", ve)
	}
}

func TestOKAndCreated_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Created(rec, map[string]string{"id": "abc"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q", ct)
	}

	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Error("success = false, want true")
	}
}
