package httpclient

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMocked(t *testing.T) *Client {
	t.Helper()
	c, err := NewWithBaseURL("http://origin.test", 0)
	require.NoError(t, err)
	httpmock.ActivateNonDefault(c.HTTPClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestDo_ReturnsNon2xxWithoutError(t *testing.T) {
	c := newMocked(t)
	httpmock.RegisterResponder(http.MethodGet, "http://origin.test/api/missing",
		httpmock.NewStringResponder(http.StatusNotFound, `{"message":"nope"}`))

	resp, err := c.Do(context.Background(), http.MethodGet, "/api/missing", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"message":"nope"}`, string(resp.Body))
}

func TestDo_ForwardsHeaders(t *testing.T) {
	c := newMocked(t)
	httpmock.RegisterResponder(http.MethodGet, "http://origin.test/x",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "yes", req.Header.Get("X-Test"))
			return httpmock.NewStringResponse(http.StatusOK, "ok"), nil
		})

	resp, err := c.Do(context.Background(), http.MethodGet, "x", http.Header{"X-Test": {"yes"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(resp.Body))
}

func TestDoJSON(t *testing.T) {
	c := newMocked(t)
	httpmock.RegisterResponder(http.MethodPost, "http://origin.test/api/animals",
		httpmock.NewStringResponder(http.StatusCreated, `{"animalId":"SP-2025-000001"}`))
	httpmock.RegisterResponder(http.MethodGet, "http://origin.test/api/boom",
		httpmock.NewStringResponder(http.StatusInternalServerError, "boom"))

	var out struct {
		AnimalID string `json:"animalId"`
	}
	err := c.DoJSON(context.Background(), http.MethodPost, "/api/animals", nil, map[string]any{"species": "dog"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "SP-2025-000001", out.AnimalID)

	err = c.DoJSON(context.Background(), http.MethodGet, "/api/boom", nil, nil, nil)
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Equal(t, "boom", httpErr.Body)
}

func TestResolveURL(t *testing.T) {
	c := New(0)
	_, err := c.resolveURL("/relative")
	require.Error(t, err)

	u, err := c.resolveURL("https://example.org/a")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/a", u)
}
