package detect

import (
	"encoding/json"
	"net/http"
)

// envelope is the fixed response shape of every endpoint. Data is omitted
// when nil; an empty non-nil slice serializes as [].
type envelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func respondOK(w http.ResponseWriter, status int, message string, data any) {
	respondJSON(w, status, envelope{Status: true, Message: message, Data: data})
}

func respondFail(w http.ResponseWriter, status int, message string, data any) {
	respondJSON(w, status, envelope{Status: false, Message: message, Data: data})
}
