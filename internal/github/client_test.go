package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/apiaryworks/hivedash/internal/config"
	"github.com/apiaryworks/hivedash/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(apiURL, rawURL, token string) config.GitHubConfig {
	return config.GitHubConfig{
		Owner:          "acme",
		Repo:           "beehives",
		Branch:         "main",
		Token:          token,
		DataFile:       "beehive_data.json",
		ConfigFile:     "hives_config.json",
		PollInterval:   30 * time.Second,
		RequestTimeout: 2 * time.Second,
		APIBaseURL:     apiURL,
		RawBaseURL:     rawURL,
	}
}

func TestClient_FetchFingerprint(t *testing.T) {
	var gotAuth, gotAccept string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		require.Equal(t, "/repos/acme/beehives/contents/beehive_data.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sha":"abc123","size":1024}`))
	}))
	defer ts.Close()

	client := NewClient(testConfig(ts.URL, ts.URL, "secret"))
	fp, err := client.FetchFingerprint(context.Background(), "beehive_data.json")
	require.NoError(t, err)
	assert.Equal(t, "abc123", fp)
	assert.Equal(t, "token secret", gotAuth)
	assert.Equal(t, "application/vnd.github.v3+json", gotAccept)
}

func TestClient_FetchFingerprintAnonymous(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sha":"abc123"}`))
	}))
	defer ts.Close()

	// No token configured: the lookup still works, just without a
	// credential header.
	client := NewClient(testConfig(ts.URL, ts.URL, ""))
	fp, err := client.FetchFingerprint(context.Background(), "beehive_data.json")
	require.NoError(t, err)
	assert.Equal(t, "abc123", fp)
	assert.Empty(t, gotAuth)
}

func TestClient_FetchFingerprintNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer ts.Close()

	client := NewClient(testConfig(ts.URL, ts.URL, ""))
	fp, err := client.FetchFingerprint(context.Background(), "missing.json")
	require.NoError(t, err, "an absent artifact is an empty fingerprint, not an error")
	assert.Empty(t, fp)
}

func TestClient_FetchFingerprintServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewClient(testConfig(ts.URL, ts.URL, ""))
	_, err := client.FetchFingerprint(context.Background(), "beehive_data.json")
	require.Error(t, err)
	assert.True(t, errors.IsTransient(err))
}

func TestClient_FetchArtifact(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, "/acme/beehives/main/beehive_data.json", r.URL.Path)
		w.Write([]byte(`[{"hive_id":"hive-1"}]`))
	}))
	defer ts.Close()

	// Content fetches use the public raw path, unauthenticated even
	// when a token is configured.
	client := NewClient(testConfig(ts.URL, ts.URL, "secret"))
	content, err := client.FetchArtifact(context.Background(), "beehive_data.json")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"hive_id":"hive-1"}]`, string(content))
	assert.Empty(t, gotAuth)
}

func TestClient_FetchArtifactErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		checkFn func(error) bool
		errName string
	}{
		{
			name:    "not found",
			status:  http.StatusNotFound,
			body:    "404: Not Found",
			checkFn: errors.IsNotFound,
			errName: "NotFound",
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    "boom",
			checkFn: errors.IsTransient,
			errName: "Transient",
		},
		{
			name:    "empty content",
			status:  http.StatusOK,
			body:    "   ",
			checkFn: errors.IsParse,
			errName: "Parse",
		},
		{
			name:    "invalid json",
			status:  http.StatusOK,
			body:    "{not json",
			checkFn: errors.IsParse,
			errName: "Parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			client := NewClient(testConfig(ts.URL, ts.URL, ""))
			_, err := client.FetchArtifact(context.Background(), "beehive_data.json")
			require.Error(t, err)
			assert.True(t, tt.checkFn(err), "expected %s error, got: %v", tt.errName, err)
		})
	}
}

func TestClient_FetchArtifactNetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // Closed server: connection refused.

	client := NewClient(testConfig(ts.URL, ts.URL, ""))
	_, err := client.FetchArtifact(context.Background(), "beehive_data.json")
	require.Error(t, err)
	assert.True(t, errors.IsTransient(err))
}
