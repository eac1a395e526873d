package firebase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"automed-dashboard/internal/platform/httpclient"
	"automed-dashboard/internal/ports/docstore"
)

type recorded struct {
	Method string
	Path   string
	Auth   string
	Body   string
}

func newTestStore(t *testing.T, h http.HandlerFunc) *Store {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := httpclient.NewWithBaseURL(srv.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	s := NewWithClient(c, Config{Auth: "secret", ReconnectDelay: 10 * time.Millisecond})
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_RESTOperations(t *testing.T) {
	var (
		mu   sync.Mutex
		reqs []recorded
	)
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{r.Method, r.URL.Path, r.URL.Query().Get("auth"), string(b)})
		mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"status":"authorized","uid":"04:A2"}`))
		case http.MethodPost:
			_, _ = w.Write([]byte(`{"name":"-Nabc123"}`))
		default:
			_, _ = w.Write([]byte(`null`))
		}
	})
	ctx := context.Background()

	snap, err := s.Get(ctx, "/rfid/")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	var rfid struct {
		Status string `json:"status"`
	}
	if err := snap.Decode(&rfid); err != nil || rfid.Status != "authorized" {
		t.Fatalf("unexpected rfid: %#v err=%v", rfid, err)
	}
	if snap.Path != "rfid" {
		t.Fatalf("expected normalized path, got %q", snap.Path)
	}

	key, err := s.Push(ctx, "alerts", map[string]any{"type": "info"})
	if err != nil || key != "-Nabc123" {
		t.Fatalf("Push = %q, %v", key, err)
	}
	if err := s.Update(ctx, "medication_schedules/s1", map[string]any{"status": "taken", "notes": nil}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if err := s.Set(ctx, "manual_dispense_request", nil); err != nil {
		t.Fatalf("Set(nil) returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(reqs) != 4 {
		t.Fatalf("expected 4 requests, got %d", len(reqs))
	}
	want := []struct{ method, path string }{
		{http.MethodGet, "/rfid.json"},
		{http.MethodPost, "/alerts.json"},
		{http.MethodPatch, "/medication_schedules/s1.json"},
		{http.MethodDelete, "/manual_dispense_request.json"},
	}
	for i, w := range want {
		if reqs[i].Method != w.method || reqs[i].Path != w.path {
			t.Fatalf("request %d = %s %s, want %s %s", i, reqs[i].Method, reqs[i].Path, w.method, w.path)
		}
		if reqs[i].Auth != "secret" {
			t.Fatalf("request %d missing auth param", i)
		}
	}

	var patch map[string]any
	if err := json.Unmarshal([]byte(reqs[2].Body), &patch); err != nil {
		t.Fatalf("patch body: %v", err)
	}
	if patch["status"] != "taken" {
		t.Fatalf("unexpected patch body: %s", reqs[2].Body)
	}
	if v, ok := patch["notes"]; !ok || v != nil {
		t.Fatalf("expected notes:null in patch body, got %s", reqs[2].Body)
	}
}

func TestStore_ErrorStatusIsReturned(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Permission denied"}`, http.StatusUnauthorized)
	})

	_, err := s.Get(context.Background(), "rtc/time")
	if err == nil || !strings.Contains(err.Error(), "status=401") {
		t.Fatalf("expected 401 error, got %v", err)
	}
}

func TestStore_InvalidPath(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})

	if _, err := s.Get(context.Background(), "//"); err != docstore.ErrInvalidPath {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}
}

func TestStore_Subscribe_RefetchesOnStreamEvents(t *testing.T) {
	var (
		mu    sync.Mutex
		value = `"scheduled"`
	)
	release := make(chan struct{})

	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") == "text/event-stream" {
			w.Header().Set("Content-Type", "text/event-stream")
			fl := w.(http.Flusher)

			fmt.Fprint(w, "event: put\ndata: {\"path\":\"/\",\"data\":\"scheduled\"}\n\n")
			fl.Flush()

			mu.Lock()
			value = `"taken"`
			mu.Unlock()

			fmt.Fprint(w, "event: keep-alive\ndata: null\n\n")
			fmt.Fprint(w, "event: patch\ndata: {\"path\":\"/\",\"data\":{}}\n\n")
			fl.Flush()

			select {
			case <-r.Context().Done():
			case <-release:
			}
			return
		}
		mu.Lock()
		defer mu.Unlock()
		_, _ = w.Write([]byte(value))
	})
	defer close(release)

	got := make(chan string, 8)
	unsubscribe, err := s.Subscribe(context.Background(), "medication_status", func(snap docstore.Snapshot) {
		got <- snap.String()
	})
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}
	defer unsubscribe()

	var seen []string
	timeout := time.After(2 * time.Second)
	for {
		select {
		case v := <-got:
			seen = append(seen, v)
			if v == "taken" {
				if seen[0] != "scheduled" {
					t.Fatalf("expected initial value first, got %q", seen)
				}
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for refetched value, seen %q", seen)
		}
	}
}

func TestReadEvents_MultilineAndComments(t *testing.T) {
	in := ": hello\nevent: put\ndata: {\"path\":\"/\",\ndata: \"data\":1}\n\nevent: cancel\ndata: null\n\nevent: put\ndata: {}\n\n"

	var events []string
	err := readEvents(strings.NewReader(in), func(event string, data []byte) bool {
		events = append(events, event+" "+string(data))
		return event != "cancel"
	})
	if err != nil {
		t.Fatalf("readEvents returned error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected reading to stop at cancel, got %q", events)
	}
	if events[0] != "put {\"path\":\"/\",\n\"data\":1}" {
		t.Fatalf("unexpected first event %q", events[0])
	}
}
