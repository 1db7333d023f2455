package search

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequest(t *testing.T) {
	req, err := BuildRequest(DefaultURL, "test-key", "test-cx", Query{Query: "golang gopher", StartIndex: 11})
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, req.Method)

	u, err := url.Parse(req.URL)
	require.NoError(t, err)
	params := u.Query()

	assert.Equal(t, "test-key", params.Get("key"))
	assert.Equal(t, "test-cx", params.Get("cx"))
	assert.Equal(t, "golang gopher", params.Get("q"))
	assert.Equal(t, "image", params.Get("searchType"))
	assert.Equal(t, "10", params.Get("num"))
	assert.Equal(t, "11", params.Get("start"))
	assert.Equal(t, fieldProjection, params.Get("fields"))
}

func TestBuildRequest_DefaultStartIndex(t *testing.T) {
	for _, start := range []int{0, -3} {
		req, err := BuildRequest(DefaultURL, "k", "cx", Query{Query: "cats", StartIndex: start})
		require.NoError(t, err)

		u, err := url.Parse(req.URL)
		require.NoError(t, err)
		assert.Equal(t, "1", u.Query().Get("start"))
	}
}

func TestBuildRequest_Validation(t *testing.T) {
	_, err := BuildRequest(DefaultURL, "", "cx", Query{Query: "cats"})
	assert.Error(t, err, "missing api key")

	_, err = BuildRequest(DefaultURL, "k", "", Query{Query: "cats"})
	assert.Error(t, err, "missing engine id")

	_, err = BuildRequest(DefaultURL, "k", "cx", Query{})
	assert.Error(t, err, "missing query")
}
