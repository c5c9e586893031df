package jellyfin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRefresh(t *testing.T) {
	var gotPath, gotMethod, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotKey = r.URL.Query().Get("api_key")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := New(server.URL, "secret", nil)
	if err := client.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/Library/Refresh" {
		t.Errorf("path = %q", gotPath)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %q", gotMethod)
	}
	if gotKey != "secret" {
		t.Errorf("api_key = %q", gotKey)
	}
}

func TestRefreshWithoutKeyIsNoop(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := New(server.URL, "", nil)
	if err := client.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if called {
		t.Error("refresh must be skipped without an api key")
	}
}

func TestRefreshServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := New(server.URL, "bad-key", nil)
	if err := client.Refresh(context.Background()); err == nil {
		t.Error("expected error on 401")
	}
}
