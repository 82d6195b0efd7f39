package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes data as a JSON body with the given status.
// Responses are marked uncacheable: a status poll can resolve a guess, so a
// cached copy would hide the outcome.
func JSON(w http.ResponseWriter, status int, data any) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}
