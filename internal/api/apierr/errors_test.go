package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/btcguesser/internal/model"
)

func TestWriteErrorMapsModelErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid input", fmt.Errorf("%w: player id is required", model.ErrInvalidInput), http.StatusBadRequest, CodeInvalidRequest},
		{"invalid direction", model.ErrInvalidDirection, http.StatusBadRequest, CodeInvalidRequest},
		{"guess active", model.ErrGuessAlreadyActive, http.StatusConflict, CodeGuessAlreadyActive},
		{"price unavailable", fmt.Errorf("%w: timeout", model.ErrPriceUnavailable), http.StatusServiceUnavailable, CodePriceUnavailable},
		{"storage", fmt.Errorf("%w: connection refused", model.ErrStorage), http.StatusServiceUnavailable, CodeStorageUnavailable},
		{"unknown", errors.New("surprise"), http.StatusInternalServerError, CodeInternalError},
		{"explicit", NewInvalidRequestError("bad body"), http.StatusBadRequest, CodeInvalidRequest},
		{"not found", NewNotFoundError(), http.StatusNotFound, CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus, Status(tt.err))
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestUnknownErrorDoesNotLeakDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("password=hunter2"))

	assert.NotContains(t, rec.Body.String(), "hunter2")
}
