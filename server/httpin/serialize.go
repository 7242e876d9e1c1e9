package httpin

import (
	"encoding/json"
	"net/http"

	"github.com/botize/appserver/apps"
)

// The protocol predates the application/json registration; the platform
// expects this legacy content type.
const contentTypeJSON = "text/json"
const contentTypePlain = "text/plain"

// writeResult serializes a command result: a CommandResult passes through
// verbatim, structured values become a JSON body, and a bare string is
// content-sniffed for JSON.
func writeResult(w http.ResponseWriter, result interface{}) {
	switch v := result.(type) {
	case *apps.CommandResult:
		writeRaw(w, v)

	case apps.CommandResult:
		writeRaw(w, &v)

	case string:
		contentType := contentTypePlain
		if json.Valid([]byte(v)) {
			contentType = contentTypeJSON
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(v))

	default:
		data, err := json.Marshal(v)
		if err != nil {
			http.Error(w, "failed to serialize result", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentTypeJSON)
		_, _ = w.Write(data)
	}
}

func writeRaw(w http.ResponseWriter, result *apps.CommandResult) {
	w.Header().Set("Content-Type", result.ContentType)
	_, _ = w.Write(result.Content)
}
