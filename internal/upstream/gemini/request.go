// Package gemini builds requests for the generative-language upstream. The
// payload is opaque to this proxy: it is forwarded verbatim and never
// validated beyond presence.
package gemini

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"proxygate/internal/upstream"
)

// DefaultURL is the generateContent endpoint of the generative-language API.
const DefaultURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash:generateContent"

// BuildRequest constructs the upstream call for an opaque generative
// payload. The API key travels in the query string, as the upstream expects.
func BuildRequest(baseURL, apiKey string, payload json.RawMessage) (upstream.Request, error) {
	if apiKey == "" {
		return upstream.Request{}, errors.New("gemini api key is empty")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return upstream.Request{}, err
	}
	q := u.Query()
	q.Set("key", apiKey)
	u.RawQuery = q.Encode()

	return upstream.Request{
		Method: http.MethodPost,
		URL:    u.String(),
		Header: http.Header{"Content-Type": []string{"application/json"}},
		Body:   payload,
	}, nil
}
