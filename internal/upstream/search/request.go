// Package search builds requests for the image-search upstream.
package search

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"proxygate/internal/upstream"
)

// DefaultURL is the custom-search REST endpoint.
const DefaultURL = "https://www.googleapis.com/customsearch/v1"

// fieldProjection trims the upstream response to the fields the client
// actually renders. Keeping the projection server-side caps payload size no
// matter what the upstream adds to its schema.
const fieldProjection = "items(link,image/thumbnailLink,displayLink,image/contextLink),searchInformation"

const resultsPerPage = 10

// Query is the validated client search input.
type Query struct {
	Query      string
	StartIndex int // 1-based pagination offset; zero means first page
}

// BuildRequest constructs the image-search upstream call.
func BuildRequest(baseURL, apiKey, engineID string, q Query) (upstream.Request, error) {
	if apiKey == "" || engineID == "" {
		return upstream.Request{}, errors.New("search api credentials are empty")
	}
	if q.Query == "" {
		return upstream.Request{}, errors.New("search query is empty")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return upstream.Request{}, err
	}

	start := q.StartIndex
	if start < 1 {
		start = 1
	}

	params := u.Query()
	params.Set("key", apiKey)
	params.Set("cx", engineID)
	params.Set("q", q.Query)
	params.Set("searchType", "image")
	params.Set("num", strconv.Itoa(resultsPerPage))
	params.Set("start", strconv.Itoa(start))
	params.Set("fields", fieldProjection)
	u.RawQuery = params.Encode()

	return upstream.Request{
		Method: http.MethodGet,
		URL:    u.String(),
	}, nil
}
