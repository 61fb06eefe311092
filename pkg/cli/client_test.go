package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Query(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/query", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "SELECT COUNT(*) FROM person LIMIT 10", body["sql"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"columns":["n"],"rows":[[42]],"row_count":1}`))
	}))
	defer srv.Close()

	result, err := NewClient(srv.URL).Query("SELECT COUNT(*) FROM person LIMIT 10")
	require.NoError(t, err)
	assert.Equal(t, []string{"n"}, result.Columns)
	assert.Equal(t, 1, result.RowCount)
}

func TestClient_QueryDenied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"only SELECT queries allowed, got DROP","kind":"general"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Query("DROP TABLE person")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only SELECT")
	assert.Contains(t, err.Error(), "general")
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Status()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_SearchConcepts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/concepts", r.URL.Path)
		assert.Equal(t, "aspirin", r.URL.Query().Get("search"))
		assert.Equal(t, "Drug", r.URL.Query().Get("domain"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"concepts":[],"count":0}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).SearchConcepts("aspirin", "Drug", 5)
	require.NoError(t, err)
}

func TestClient_TrailingSlashTrimmed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, strings.Contains(r.URL.Path, "//"))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL + "/").Status()
	require.NoError(t, err)
}
