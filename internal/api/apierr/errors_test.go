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

	"github.com/mcoot/scoretracker/internal/model"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"empty name", model.ErrEmptyName, http.StatusBadRequest},
		{"wrapped duplicate rank", fmt.Errorf("submit: %w", model.ErrDuplicateRank), http.StatusBadRequest},
		{"incomplete rules", model.ErrIncompleteRules, http.StatusBadRequest},
		{"player not found", model.ErrPlayerNotFound, http.StatusNotFound},
		{"round not found", model.ErrRoundNotFound, http.StatusNotFound},
		{"invalid stage", model.ErrInvalidStage, http.StatusConflict},
		{"invalid request", NewInvalidRequestError("bad"), http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, Status(tt.err))
		})
	}
}

func TestWriteErrorBody(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteError(rr, model.ErrDuplicateRank)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, CodeDuplicateRank, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "unique rank")
}

func TestInternalErrorHidesDetail(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteError(rr, errors.New("redis: connection refused"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, CodeInternalError, resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "redis")
}

func TestUnlistedErrorsFallBackToTheirKind(t *testing.T) {
	validation := fmt.Errorf("%w: something new", model.ErrValidation)
	rr := httptest.NewRecorder()
	WriteError(rr, validation)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, CodeValidationFailed, resp.Error.Code)

	missing := fmt.Errorf("standing %w", model.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, Status(missing))
}
