package loki

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shopping-fpti/internal/telemetry/domain"
)

func captureServer(t *testing.T, status int) (*httptest.Server, <-chan PushRequest) {
	t.Helper()
	ch := make(chan PushRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/loki/api/v1/push" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req PushRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode push body: %v", err)
		}
		ch <- req
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, ch
}

func TestSender_PushesBeaconWithLabels(t *testing.T) {
	srv, ch := captureServer(t, http.StatusNoContent)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	b := &domain.Beacon{
		ID:        "b1",
		Endpoint:  domain.Endpoint,
		CreatedAt: created,
		Params:    domain.Variables{"event_name": "page_view", "fltp": "store-cash", "product": "ppshopping_v2", "dh": 800},
	}
	if err := NewSender(srv.URL+"/", nil).Send(context.Background(), b); err != nil {
		t.Fatalf("Send: %v", err)
	}
	req := <-ch
	if len(req.Streams) != 1 {
		t.Fatalf("streams = %d, want 1", len(req.Streams))
	}
	s := req.Streams[0]
	want := map[string]string{"job": "fpti", "event_name": "page_view", "product": "ppshopping_v2"}
	for k, v := range want {
		if s.Stream[k] != v {
			t.Errorf("label %s = %q, want %q", k, s.Stream[k], v)
		}
	}
	for _, k := range []string{"dh", "fltp"} {
		if _, ok := s.Stream[k]; ok {
			t.Errorf("caller-controlled param %s must not become a label", k)
		}
	}
	if s.Values[0][0] != "1767323045000000000" {
		t.Errorf("timestamp = %s", s.Values[0][0])
	}
	if !strings.Contains(s.Values[0][1], `"id":"b1"`) {
		t.Errorf("line = %s, want beacon JSON", s.Values[0][1])
	}
}

func TestSender_UnknownEventNameLabel(t *testing.T) {
	srv, ch := captureServer(t, http.StatusNoContent)
	b := &domain.Beacon{
		ID:     "b2",
		Params: domain.Variables{"event_name": "add_to_cart_9f3c", "product": "ppshopping_v2"},
	}
	if err := NewSender(srv.URL, nil).Send(context.Background(), b); err != nil {
		t.Fatalf("Send: %v", err)
	}
	s := (<-ch).Streams[0]
	if s.Stream["event_name"] != "unknown" {
		t.Errorf("event_name label = %q, want unknown", s.Stream["event_name"])
	}
	if !strings.Contains(s.Values[0][1], `"event_name":"add_to_cart_9f3c"`) {
		t.Errorf("line = %s, want the raw event name", s.Values[0][1])
	}
}

func TestPushBeaconJSON_UnparseableLine(t *testing.T) {
	srv, ch := captureServer(t, http.StatusNoContent)
	if err := PushBeaconJSON(context.Background(), srv.URL, []byte("not json")); err != nil {
		t.Fatalf("PushBeaconJSON: %v", err)
	}
	req := <-ch
	if req.Streams[0].Values[0][1] != "not json" {
		t.Errorf("line = %q, want raw payload", req.Streams[0].Values[0][1])
	}
	if len(req.Streams[0].Stream) != 1 {
		t.Errorf("labels = %v, want only job", req.Streams[0].Stream)
	}
}

func TestPushEvent_Errors(t *testing.T) {
	if err := PushEvent(context.Background(), http.DefaultClient, "", time.Now(), "x", nil); err == nil {
		t.Error("empty base URL should fail")
	}
	srv, _ := captureServer(t, http.StatusBadRequest)
	if err := PushEvent(context.Background(), http.DefaultClient, srv.URL, time.Now(), "x", map[string]string{"event_name": "a b/c"}); err == nil {
		t.Error("non-2xx should fail")
	}
}
