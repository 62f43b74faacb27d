// Package testutil provides testing utilities for the ledgerlens application.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

// TestServer wraps httptest.Server with convenience methods
type TestServer struct {
	Server  *httptest.Server
	BaseURL string
	t       *testing.T
}

// NewTestServer creates a new test server around the given router.
func NewTestServer(t *testing.T, router http.Handler) *TestServer {
	t.Helper()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestServer{
		Server:  server,
		BaseURL: server.URL,
		t:       t,
	}
}

// GET performs a GET request to the given path
func (ts *TestServer) GET(path string) *http.Response {
	ts.t.Helper()

	resp, err := http.Get(ts.BaseURL + path)
	if err != nil {
		ts.t.Fatalf("GET %s failed: %v", path, err)
	}
	return resp
}

// GETWithQuery performs a GET request with query parameters
func (ts *TestServer) GETWithQuery(path string, query map[string]string) *http.Response {
	ts.t.Helper()

	values := url.Values{}
	for k, v := range query {
		values.Set(k, v)
	}
	target := ts.BaseURL + path
	if len(values) > 0 {
		target += "?" + values.Encode()
	}

	resp, err := http.Get(target)
	if err != nil {
		ts.t.Fatalf("GET %s failed: %v", path, err)
	}
	return resp
}

// POSTJSON performs a POST request with a JSON-encoded body
func (ts *TestServer) POSTJSON(path string, body any) *http.Response {
	ts.t.Helper()

	encoded, err := json.Marshal(body)
	if err != nil {
		ts.t.Fatalf("Failed to encode request body: %v", err)
	}

	resp, err := http.Post(ts.BaseURL+path, "application/json", bytes.NewReader(encoded))
	if err != nil {
		ts.t.Fatalf("POST %s failed: %v", path, err)
	}
	return resp
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	ts.Server.Close()
}

// ReadBody reads and returns the response body as a string
func ReadBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return string(body)
}

// DecodeJSON decodes the response body into dst
func DecodeJSON(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
}
