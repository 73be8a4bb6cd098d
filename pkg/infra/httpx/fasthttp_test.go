package httpx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastHTTPClient_DecodesCompressedResponses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, AcceptEncoding, r.Header.Get("Accept-Encoding"))
		assert.Equal(t, "follower-manager-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Set("X-Rate-Limit-Remaining", "14")
		_, _ = w.Write(gzipCompress([]byte(payload)))
	}))
	defer server.Close()

	client := NewFastHTTPClient(WithUserAgent("follower-manager-test"))
	req, err := http.NewRequest(http.MethodGet, server.URL+"/2/users/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer abc")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Content-Encoding"))
	assert.Equal(t, "14", resp.Header.Get("X-Rate-Limit-Remaining"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, string(body))
}

func TestFastHTTPClient_SendsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, `{"target_user_id":"42"}`, string(body))
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	req, err := http.NewRequest(http.MethodPost, server.URL, strings.NewReader(`{"target_user_id":"42"}`))
	require.NoError(t, err)
	resp, err := NewFastHTTPClient().Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestFastHTTPClient_Options(t *testing.T) {
	c := NewFastHTTPClient(WithTimeout(0), WithMaxConnsPerHost(-1)).(*FastHTTPClient)
	assert.Equal(t, DefaultTimeout, c.settings.timeout)
	assert.Equal(t, DefaultMaxConnsPerHost, c.client.MaxConnsPerHost)

	c = NewFastHTTPClient(WithTimeout(time.Second), WithMaxConnsPerHost(4)).(*FastHTTPClient)
	assert.Equal(t, time.Second, c.client.ReadTimeout)
	assert.Equal(t, 4, c.client.MaxConnsPerHost)
}

func TestFastHTTPClient_ContextDeadlineWins(t *testing.T) {
	c := NewFastHTTPClient(WithTimeout(time.Hour)).(*FastHTTPClient)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://example.invalid", nil)
	require.NoError(t, err)

	d := c.deadline(req)
	assert.WithinDuration(t, time.Now().Add(time.Minute), d, 5*time.Second)
}
