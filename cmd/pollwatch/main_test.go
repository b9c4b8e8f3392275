package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
)

func testWatcher(srv *httptest.Server, path, readURL string, group bool) *watcher {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &watcher{
		baseURL: srv.URL,
		token:   "test-token",
		path:    path,
		readURL: srv.URL + readURL,
		group:   group,
		client:  srv.Client(),
		logger:  logger,
	}
}

func TestFetchMarksConversationRead(t *testing.T) {
	var readCalls int
	pending := 2

	mux := http.NewServeMux()
	mux.HandleFunc("/api/messages/2/since", func(rw http.ResponseWriter, r *http.Request) {
		messages := make([]map[string]interface{}, 0, pending)
		for i := 0; i < pending; i++ {
			messages = append(messages, map[string]interface{}{
				"id":      i + 1,
				"content": fmt.Sprintf("msg %d", i+1),
			})
		}
		json.NewEncoder(rw).Encode(map[string]interface{}{
			"success":  true,
			"messages": messages,
			"last_id":  pending,
		})
	})
	mux.HandleFunc("/api/messages/2/read", func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("mark read method = %s, want POST", r.Method)
		}
		readCalls++
		json.NewEncoder(rw).Encode(map[string]interface{}{"success": true})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	w := testWatcher(srv, "/api/messages/2", "/api/messages/2/read", false)

	next, err := w.fetch(context.Background(), 0)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if next != 2 {
		t.Errorf("cursor = %d, want 2", next)
	}
	if readCalls != 1 {
		t.Errorf("mark read called %d times, want 1", readCalls)
	}

	// An empty fetch must not re-mark.
	pending = 0
	if _, err := w.fetch(context.Background(), next); err != nil {
		t.Fatalf("empty fetch failed: %v", err)
	}
	if readCalls != 1 {
		t.Errorf("mark read called %d times after empty fetch, want 1", readCalls)
	}
}

func TestFetchAdvancesGroupWatermark(t *testing.T) {
	var gotWatermark uint

	mux := http.NewServeMux()
	mux.HandleFunc("/api/groups/7/messages/since", func(rw http.ResponseWriter, r *http.Request) {
		json.NewEncoder(rw).Encode(map[string]interface{}{
			"success": true,
			"messages": []map[string]interface{}{
				{"id": 41, "content": "a"},
				{"id": 42, "content": "b"},
			},
			"last_id": 42,
		})
	})
	mux.HandleFunc("/api/groups/7/read", func(rw http.ResponseWriter, r *http.Request) {
		var body struct {
			LastReadMessageID uint `json:"last_read_message_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode watermark body: %v", err)
		}
		gotWatermark = body.LastReadMessageID
		json.NewEncoder(rw).Encode(map[string]interface{}{"success": true})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	w := testWatcher(srv, "/api/groups/7/messages", "/api/groups/7/read", true)

	next, err := w.fetch(context.Background(), 40)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if next != 42 {
		t.Errorf("cursor = %d, want 42", next)
	}
	if gotWatermark != 42 {
		t.Errorf("watermark = %d, want 42", gotWatermark)
	}
}

func TestFetchSurvivesMarkReadFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/messages/2/since", func(rw http.ResponseWriter, r *http.Request) {
		json.NewEncoder(rw).Encode(map[string]interface{}{
			"success":  true,
			"messages": []map[string]interface{}{{"id": 5, "content": "hi"}},
			"last_id":  5,
		})
	})
	mux.HandleFunc("/api/messages/2/read", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	w := testWatcher(srv, "/api/messages/2", "/api/messages/2/read", false)

	// Mark read is fire and forget; a failure must not fail the fetch or
	// hold the cursor back.
	next, err := w.fetch(context.Background(), 0)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if next != 5 {
		t.Errorf("cursor = %d, want 5", next)
	}
}
