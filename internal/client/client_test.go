package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"xpvcc/internal/api"
	"xpvcc/internal/client"
)

func TestClientInstallAndTell(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /unity/install", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		var req api.InstallRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Version != "R2022_3_6" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(api.InstallResponse{CompletionToken: "abc", TokenKind: "process", PID: 9})
	})
	mux.HandleFunc("POST /unity/tell", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Please exit installer (pid = 9)"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c, err := client.New(server.URL, "tok")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	resp, err := c.Install(context.Background(), api.InstallRequest{Version: "R2022_3_6"})
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if resp.CompletionToken != "abc" || resp.PID != 9 {
		t.Fatalf("unexpected response %+v", resp)
	}

	_, err = c.Tell(context.Background(), "/opt/unity", "abc")
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "Please exit installer (pid = 9)" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}

func TestClientParsesJSONErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/unity/installations/R2019_4_31" || r.URL.Query().Get("host") != "macos" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "2019.4.31f1 is not installed on macos"})
	}))
	defer server.Close()

	c, err := client.New(server.URL, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.Installation(context.Background(), "R2019_4_31", "macos")
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 APIError, got %v", err)
	}
	if apiErr.Message != "2019.4.31f1 is not installed on macos" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}

func TestNewAcceptsHostPort(t *testing.T) {
	if _, err := client.New("127.0.0.1:51901", ""); err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.New("  ", ""); err == nil {
		t.Fatal("expected error for empty address")
	}
}

func TestWaitForStatusTimesOut(t *testing.T) {
	c, err := client.New("127.0.0.1:1", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.WaitForStatus(context.Background(), 300*time.Millisecond); err == nil {
		t.Fatal("expected timeout error")
	}
}
