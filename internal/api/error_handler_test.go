package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fleetlog/fleetlog-api/internal/core/domain"
)

func renderError(t *testing.T, err error) (*httptest.ResponseRecorder, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	return rec, resp.Error
}

func TestHTTPErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrSessionNotFound, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrMissingRequiredField, http.StatusBadRequest},
		{domain.ErrMissingRequiredPhoto, http.StatusBadRequest},
		{domain.ErrInvalidPhotoFile, http.StatusBadRequest},
		{domain.ErrStorageUnavailable, http.StatusServiceUnavailable},
		{domain.ErrPhotoPersistFailure, http.StatusBadGateway},
		{domain.ErrUsernameTaken, http.StatusConflict},
		{domain.ErrUserHasEntries, http.StatusConflict},
		{domain.ErrVehicleHasEntries, http.StatusConflict},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrVehicleNotFound, http.StatusNotFound},
		{domain.ErrEntryNotFound, http.StatusNotFound},
		{domain.ErrPhotoNotFound, http.StatusNotFound},
	}

	for _, tc := range cases {
		rec, _ := renderError(t, tc.err)
		if rec.Code != tc.code {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
	}
}

func TestHTTPErrorHandler_WrappedErrorsStillMap(t *testing.T) {
	rec, _ := renderError(t, fmt.Errorf("%w: rear_left.jpg", domain.ErrInvalidPhotoFile))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for wrapped error, got %d", rec.Code)
	}
}

func TestHTTPErrorHandler_UnknownErrorHidesDetails(t *testing.T) {
	rec, msg := renderError(t, errors.New("pq: connection reset by peer"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if msg != "internal server error" {
		t.Fatalf("internal details leaked: %q", msg)
	}
}

func TestHTTPErrorHandler_EchoErrorsPassThrough(t *testing.T) {
	rec, msg := renderError(t, echo.NewHTTPError(http.StatusBadRequest, "mileage must be an integer"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg != "mileage must be an integer" {
		t.Fatalf("unexpected message: %q", msg)
	}
}
