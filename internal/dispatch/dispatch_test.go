package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDispatchEncodesMessageIntoQuery(t *testing.T) {
	var gotQuery string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("prompt")
		w.Write([]byte(`{"text": "ok"}`))
	}))
	defer upstream.Close()

	d := New(map[string]string{"x1": upstream.URL + "/?prompt="}, nil)

	body, err := d.Dispatch(context.Background(), "x1", "what is 1 + 1? & more")
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	if gotQuery != "what is 1 + 1? & more" {
		t.Errorf("Expected message to round-trip through the query, got %q", gotQuery)
	}

	var parsed map[string]string
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("Expected raw JSON body, got %q: %v", body, err)
	}
	if parsed["text"] != "ok" {
		t.Errorf("Unexpected body: %v", parsed)
	}
}

func TestDispatchInvalidModel(t *testing.T) {
	d := New(map[string]string{"x1": "http://localhost/?prompt="}, nil)

	_, err := d.Dispatch(context.Background(), "x9", "hi")

	if !errors.Is(err, ErrInvalidModel) {
		t.Errorf("Expected ErrInvalidModel, got %v", err)
	}
}

func TestDispatchNonSuccessStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	d := New(map[string]string{"x2": upstream.URL + "/?question="}, nil)

	_, err := d.Dispatch(context.Background(), "x2", "hi")

	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("Expected UpstreamError, got %v", err)
	}
	if upErr.Status != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", upErr.Status)
	}
}

func TestDispatchNetworkFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close() // connection refused from here on

	d := New(map[string]string{"x3": upstream.URL + "/?question="}, nil)

	_, err := d.Dispatch(context.Background(), "x3", "hi")

	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("Expected UpstreamError, got %v", err)
	}
	if upErr.Status != 0 {
		t.Errorf("Expected status 0 for transport failure, got %d", upErr.Status)
	}
}
