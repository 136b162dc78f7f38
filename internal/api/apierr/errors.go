package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/scoretracker/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeEmptyName           = "EMPTY_NAME"
	CodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	CodeIncompleteRankings  = "INCOMPLETE_RANKINGS"
	CodeDuplicateRank       = "DUPLICATE_RANK"
	CodeRankOutOfRange      = "RANK_OUT_OF_RANGE"
	CodeInvalidAdjustment   = "INVALID_ADJUSTMENT"
	CodeInvalidRules        = "INVALID_RULES"
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeRoundNotFound       = "ROUND_NOT_FOUND"
	CodeNotFound            = "NOT_FOUND"
	CodeInvalidStage        = "INVALID_STAGE"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError.
// Validation messages carry the detail the caller needs to fix the request.
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Validation errors
	case errors.Is(err, model.ErrEmptyName):
		return badRequest(CodeEmptyName, err)
	case errors.Is(err, model.ErrInsufficientPlayers):
		return badRequest(CodeInsufficientPlayers, err)
	case errors.Is(err, model.ErrIncompleteRankings):
		return badRequest(CodeIncompleteRankings, err)
	case errors.Is(err, model.ErrDuplicateRank):
		return badRequest(CodeDuplicateRank, err)
	case errors.Is(err, model.ErrRankOutOfRange):
		return badRequest(CodeRankOutOfRange, err)
	case errors.Is(err, model.ErrUnknownPlayer), errors.Is(err, model.ErrDuplicateAdjustment):
		return badRequest(CodeInvalidAdjustment, err)
	case errors.Is(err, model.ErrDuplicateRuleRank),
		errors.Is(err, model.ErrInvalidRuleRank),
		errors.Is(err, model.ErrIncompleteRules):
		return badRequest(CodeInvalidRules, err)
	case model.IsValidation(err):
		return badRequest(CodeValidationFailed, err)

	// Lookups
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrRoundNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoundNotFound, "Round not found"}}
	case model.IsNotFound(err):
		return &httpError{http.StatusNotFound, APIError{CodeNotFound, "Not found"}}

	case errors.Is(err, model.ErrInvalidStage):
		return &httpError{http.StatusConflict, APIError{CodeInvalidStage, "Not permitted in the current stage"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

func badRequest(code string, err error) *httpError {
	return &httpError{http.StatusBadRequest, APIError{code, err.Error()}}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
