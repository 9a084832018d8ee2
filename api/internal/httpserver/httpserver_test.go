package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kanoon-saral/api/internal/handle"
	"kanoon-saral/api/internal/llm"
	"kanoon-saral/api/internal/simplify"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc, err := simplify.NewService(&llm.Mock{Extracted: "RENT AGREEMENT"})
	require.NoError(t, err)
	ts := httptest.NewServer(NewMux(handle.New(svc, nil)))
	t.Cleanup(ts.Close)
	return ts
}

func TestIntegrationHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, map[string]string{"status": "ok", "service": "Kanoon Saral API"}, body)
}

func TestIntegrationSimplify(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/api/simplify", "application/json",
		bytes.NewReader([]byte(`{"text":"This agreement shall be binding."}`)))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "This agreement shall be binding.", body["originalText"])
	require.Contains(t, body["simplified"], "This agreement shall be binding.")
	require.Contains(t, body["simplifiedHtml"], "<h2>")
	require.Contains(t, body, "processingTime")
}

func TestIntegrationPreflight(t *testing.T) {
	ts := newTestServer(t)
	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/simplify", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
}

func TestIntegrationMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/simplify")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestIntegrationMetricsAndUI(t *testing.T) {
	ts := newTestServer(t)
	_, err := http.Post(ts.URL+"/api/simplify", "application/json", strings.NewReader(`{"text":""}`))
	require.NoError(t, err)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Contains(t, string(raw), "kanoon_requests_total")
	require.Contains(t, string(raw), `kanoon_simplify_failures_total{kind="ValidationError"}`)

	resp, err = http.Get(ts.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestServeShutsDownOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, addr, http.NotFoundHandler(), time.Second)
	}()

	require.Eventually(t, func() bool {
		c, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		c.Close()
		return true
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return")
	}
}
