// Package httputil centralizes JSON response writing so the error envelope
// stays identical across handlers.
package httputil

import (
	"encoding/json"
	"net/http"

	"proxygate/pkg/apierrors"
)

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a coded error into the client error envelope.
// Uncoded errors map to a generic 500; their text never reaches the client.
func WriteError(w http.ResponseWriter, err error) {
	code := apierrors.CodeOf(err)
	WriteJSON(w, apierrors.ToHTTPStatus(code), map[string]string{
		"error": apierrors.MessageOf(err),
	})
}

// Relay writes an upstream body through with its original status. The body
// is opaque to the proxy; no re-encoding happens.
func Relay(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
