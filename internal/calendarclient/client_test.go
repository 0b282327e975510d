package calendarclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_Submit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/digest" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte{0x00, 0x01, 0x02})
	}))
	defer srv.Close()

	c := New(0, 0, nil)
	body, err := c.Submit(context.Background(), srv.URL, []byte{0xde, 0xad})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(body) != 3 {
		t.Errorf("body length = %d, want 3", len(body))
	}
}

func TestClient_Poll_Pending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := New(0, 0, nil)
	body, err := c.Poll(context.Background(), srv.URL, []byte{0x01})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != nil {
		t.Errorf("expected nil body for pending attestation, got %v", body)
	}
}

func TestClient_Poll_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/timestamp/") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte{0x00, 0x05, 0x88, 0x96, 0x0d, 0x73, 0xd7, 0x19, 0x01, 0x02, 0xaa, 0xbb})
	}))
	defer srv.Close()

	c := New(0, 0, nil)
	body, err := c.Poll(context.Background(), srv.URL, []byte{0x01})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(body) == 0 {
		t.Fatal("expected non-empty body")
	}
}

func TestClient_Submit_ResponseTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 100))
	}))
	defer srv.Close()

	c := New(0, 10, nil)
	if _, err := c.Submit(context.Background(), srv.URL, []byte{0x01}); err == nil {
		t.Fatal("expected error for oversized response")
	}
}
