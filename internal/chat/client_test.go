package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GOHANX1234/Aibot/internal/domain"
)

func TestClientSend(t *testing.T) {
	var gotReq domain.SendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/send-message" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(domain.SendMessageResponse{Response: "pong", Model: gotReq.Model})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)

	resp, err := c.Send(context.Background(), "ping", domain.ModelX2)
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if gotReq.Message != "ping" || gotReq.Model != domain.ModelX2 {
		t.Errorf("Unexpected request body: %+v", gotReq)
	}
	if resp.Response != "pong" {
		t.Errorf("Expected pong, got %q", resp.Response)
	}
}

func TestClientSendServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to get response from AI service"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)

	_, err := c.Send(context.Background(), "hi", domain.ModelX1)
	if err == nil {
		t.Fatal("Expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "Failed to get response from AI service") {
		t.Errorf("Expected server error message surfaced, got %v", err)
	}
}

func TestClientMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/messages" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]domain.StoredMessage{
			{ID: 1, Content: "hi", IsUserMessage: true, Model: "x1", Timestamp: 10},
			{ID: 2, Content: "hello", Model: "x1", Timestamp: 10},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)

	messages, err := c.Messages(context.Background())
	if err != nil {
		t.Fatalf("Messages failed: %v", err)
	}
	if len(messages) != 2 || messages[0].Content != "hi" || messages[1].ID != 2 {
		t.Errorf("Unexpected messages: %+v", messages)
	}
}
