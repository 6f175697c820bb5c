package ops

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getJSON(t *testing.T, srv *httptest.Server, path string) map[string]string {
	t.Helper()
	resp, err := srv.Client().Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestServerRoutes(t *testing.T) {
	srv := httptest.NewServer(NewServer("ignored", "1.2.3").routes())
	defer srv.Close()

	t.Run("health", func(t *testing.T) {
		assert.Equal(t, map[string]string{"status": "ok"}, getJSON(t, srv, "/health"))
	})

	t.Run("version", func(t *testing.T) {
		assert.Equal(t, map[string]string{"version": "1.2.3"}, getJSON(t, srv, "/version"))
	})

	t.Run("unknown path", func(t *testing.T) {
		resp, err := srv.Client().Get(srv.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
