package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mcoot/scoretracker/internal/api/apierr"
)

// Decoder parses and validates JSON request bodies
type Decoder struct {
	validator *validator.Validate
}

// NewDecoder creates a new Decoder
func NewDecoder() *Decoder {
	return &Decoder{
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Decode reads the JSON body into dst and validates its struct tags.
// Failures are returned as invalid request errors.
func (d *Decoder) Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apierr.NewInvalidRequestError("Invalid request body")
	}

	if err := d.validator.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return apierr.NewInvalidRequestError(describe(validationErrors))
		}
		return apierr.NewInvalidRequestError("Invalid request body")
	}
	return nil
}

func describe(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
