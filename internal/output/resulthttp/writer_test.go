package resulthttp

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/markotrapani/impact-score-calculator/pkg/models"
)

func TestWriterPostsBatch(t *testing.T) {
	var received []models.Result
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		body, _ := io.ReadAll(req.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("bad body: %v", err)
		}
		if req.Header.Get("X-Token") != "secret" {
			t.Errorf("missing custom header")
		}
		rw.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w, err := NewWriter(Config{URL: srv.URL, Headers: map[string]string{"X-Token": "secret"}})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.WriteResults([]*models.Result{{IssueKey: "CORE-1", FinalScore: 90}}); err != nil {
		t.Fatalf("WriteResults: %v", err)
	}
	if len(received) != 1 || received[0].IssueKey != "CORE-1" {
		t.Fatalf("unexpected payload: %+v", received)
	}
}

func TestWriterFailsOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		http.Error(rw, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	w, err := NewWriter(Config{URL: srv.URL})
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.WriteResults([]*models.Result{{IssueKey: "CORE-1"}}); err == nil {
		t.Fatalf("expected error on 502 response")
	}
}

func TestWriterRequiresURL(t *testing.T) {
	if _, err := NewWriter(Config{}); err == nil {
		t.Fatalf("expected error for empty URL")
	}
}
