package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/lukehollenback/coinex/exchange"
	"github.com/lukehollenback/coinex/exchange/coinex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExchange points the environment at a test server and returns the server.
func fakeExchange(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	for _, key := range []string{"COINEX_HTTP_PROXY", "HTTP_PROXY", "COINEX_TIMEOUT", "COINEX_DEBUG"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("COINEX_API_KEY", "key")
	t.Setenv("COINEX_API_SECRET", "secret")
	t.Setenv("COINEX_BASE_URL", server.URL+"/v1")

	return server
}

func run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer

	err := Run(context.Background(), append([]string{"--no-color"}, args...), &stdout, &stderr)

	return stdout.String(), stderr.String(), err
}

func TestGetPrintsData(t *testing.T) {
	var query string

	fakeExchange(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_, _ = io.WriteString(w, `{"code":0,"data":{"last":"1.5"},"message":"Ok"}`)
	})

	stdout, _, err := run("get", "/market/ticker", "market=BTCUSDT")
	require.NoError(t, err)

	assert.Equal(t, "{\n  \"last\": \"1.5\"\n}\n", stdout)
	assert.Contains(t, query, "market=BTCUSDT")
	assert.Contains(t, query, "access_id=key")
}

func TestPostSendsFields(t *testing.T) {
	var method string

	fakeExchange(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		_, _ = io.WriteString(w, `{"code":0,"data":null}`)
	})

	stdout, _, err := run("post", "/order/limit", "market=BTCUSDT", "amount=1")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "null\n", stdout)
}

func TestDomainErrorIsReported(t *testing.T) {
	fakeExchange(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"code":24,"message":"Signature error"}`)
	})

	stdout, stderr, err := run("get", "/balance/info")
	require.Error(t, err)
	assert.True(t, coinex.IsDomain(err))

	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "error: Coinex: 24 Signature error")
	assert.Contains(t, stderr, "kind: domain")
	assert.Contains(t, stderr, `envelope: {"code":24,"message":"Signature error"}`)
}

func TestBodylessErrorIsReported(t *testing.T) {
	fakeExchange(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, stderr, err := run("get", "/market/list")
	require.Error(t, err)

	assert.Contains(t, stderr, "kind: bodyless_http")
	assert.Contains(t, stderr, "status: 503 Service Unavailable")
}

func TestUsageErrors(t *testing.T) {
	fakeExchange(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("No request should have been sent, but %s %s was.", r.Method, r.URL)
	})

	_, stderr, err := run("get")
	assert.Error(t, err)
	assert.Contains(t, stderr, "error:")

	_, _, err = run("get", "/market/list", "novalue")
	assert.Error(t, err)

	_, _, err = run("get", "")
	assert.ErrorIs(t, err, coinex.ErrPathRequired)
}

func TestMissingCredentials(t *testing.T) {
	fakeExchange(t, func(w http.ResponseWriter, r *http.Request) {})
	require.NoError(t, os.Unsetenv("COINEX_API_SECRET"))

	_, stderr, err := run("get", "/market/list")
	assert.Error(t, err)
	assert.Contains(t, stderr, "api key and api secret are required")
}

func TestParseFields(t *testing.T) {
	fields, err := parseFields([]string{"market=BTCUSDT", "id=1", "id=2", "id=3", "empty=", "eq=a=b"})
	require.NoError(t, err)

	assert.Equal(t, exchange.Fields{
		"market": "BTCUSDT",
		"id":     []string{"1", "2", "3"},
		"empty":  "",
		"eq":     "a=b",
	}, fields)

	_, err = parseFields([]string{"=value"})
	assert.Error(t, err)
}
