package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes a JSON response. The body is encoded before the header is sent so
// an unencodable value becomes a 500 rather than a truncated 2xx.
func JSON(w http.ResponseWriter, status int, data any) {
	var body []byte
	if data != nil {
		var err error
		if body, err = json.Marshal(data); err != nil {
			http.Error(w, `{"error":{"code":"INTERNAL_ERROR","message":"Internal server error"}}`, http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	// Session state changes with every intent
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if body != nil {
		_, _ = w.Write(append(body, '\n'))
	}
}

// NoContent writes a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
