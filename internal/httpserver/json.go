// internal/httpserver/json.go
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
)

// MaxBodyBytes caps request bodies accepted by DecodeJSON.
const MaxBodyBytes = 1 << 20 // 1MB

var ErrExtraContent = errors.New("invalid JSON (extra content)")

// JSON writes v as a JSON document with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes the flat {"error": msg} body used by every API route.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// DecodeJSON reads a single JSON document from the request body into dst.
// Bodies larger than MaxBodyBytes and trailing content are rejected.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return ErrExtraContent
	}
	return nil
}
