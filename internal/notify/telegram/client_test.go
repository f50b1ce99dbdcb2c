package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendDeliversToAllChats(t *testing.T) {
	var gotChats []string
	var gotTexts []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/sendMessage") {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if !strings.Contains(r.URL.Path, "/bottest-token/") {
			t.Errorf("Expected token in path, got %s", r.URL.Path)
		}

		var req sendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		gotChats = append(gotChats, req.ChatID)
		gotTexts = append(gotTexts, req.Text)

		_ = json.NewEncoder(w).Encode(sendMessageResponse{OK: true})
	}))
	defer srv.Close()

	c := New("test-token", []string{"111", "222"})
	c.BaseURL = srv.URL
	c.HTTP = srv.Client()

	if err := c.Send(context.Background(), "Neue Kurse"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(gotChats) != 2 || gotChats[0] != "111" || gotChats[1] != "222" {
		t.Errorf("Expected delivery to both chats in order, got %v", gotChats)
	}
	if gotTexts[0] != "Neue Kurse" {
		t.Errorf("Expected message text, got %q", gotTexts[0])
	}
}

func TestSendStopsOnFirstFailure(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(sendMessageResponse{OK: false, Description: "bot was blocked by the user"})
	}))
	defer srv.Close()

	c := New("test-token", []string{"111", "222"})
	c.BaseURL = srv.URL
	c.HTTP = srv.Client()

	err := c.Send(context.Background(), "Neue Kurse")
	if err == nil {
		t.Fatal("Expected an error, got nil")
	}
	if !strings.Contains(err.Error(), "chat 111") {
		t.Errorf("Expected error to name the failing chat, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected delivery to stop after first failure, got %d calls", calls)
	}
}

func TestSendAPILevelError(t *testing.T) {
	// 200 response with ok=false must still fail.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(sendMessageResponse{OK: false, Description: "chat not found"})
	}))
	defer srv.Close()

	c := New("test-token", []string{"111"})
	c.BaseURL = srv.URL
	c.HTTP = srv.Client()

	err := c.Send(context.Background(), "hi")
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("Expected api error with description, got %v", err)
	}
}

func TestSendValidation(t *testing.T) {
	c := New("", []string{"111"})
	if err := c.Send(context.Background(), "hi"); err == nil {
		t.Error("Expected an error for missing token")
	}

	c = New("token", nil)
	if err := c.Send(context.Background(), "hi"); err == nil {
		t.Error("Expected an error for empty chat list")
	}
}
