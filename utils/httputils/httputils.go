package httputils

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/botize/appserver/utils"
)

// WriteError maps err onto an HTTP error response. The body carries the
// message as plain text; the protocol's error detail lives in the status
// line and this text, never in a JSON body.
func WriteError(w http.ResponseWriter, err error) {
	if err == nil {
		http.Error(w, "invalid (unknown?) error", http.StatusInternalServerError)
		return
	}

	http.Error(w, err.Error(), ErrorToStatus(err))
}

func ErrorToStatus(err error) int {
	switch errors.Cause(err) {
	case utils.ErrUnauthorized:
		return http.StatusUnauthorized
	case utils.ErrNotFound:
		return http.StatusNotFound
	case utils.ErrInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSONStatus encodes and writes out an object, with a custom response
// status code.
func WriteJSONStatus(w http.ResponseWriter, statusCode int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(v)
}

// WriteJSON encodes and writes out an object, with a 200 response status code.
func WriteJSON(w http.ResponseWriter, v interface{}) error {
	return WriteJSONStatus(w, http.StatusOK, v)
}
