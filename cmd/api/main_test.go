package main

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nestinghomes/nestinghomes-web/internal/observability/metrics"
	"github.com/nestinghomes/nestinghomes-web/pkg/logging"
)

func TestSetupMetricsExposesMetrics(t *testing.T) {
	handler, leadMetrics := setupMetrics()
	if handler == nil || leadMetrics == nil {
		t.Fatalf("expected non-nil handler and metrics")
	}

	leadMetrics.ObserveSubmission(metrics.ResultAccepted, 0.01)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "nestinghomes_leads_submissions_total") {
		t.Fatalf("expected submissions counter to be exported")
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Fatalf("expected go collector metrics")
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	_, port, _ := net.SplitHostPort(ln.Addr().String())
	_ = ln.Close()

	srv := newServer(port, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv, logging.New("error")) }()

	url := "http://127.0.0.1:" + port + "/"
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode != http.StatusNoContent {
				t.Fatalf("unexpected status %d", resp.StatusCode)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never came up: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not shut down")
	}
}

func TestNewServerTimeouts(t *testing.T) {
	srv := newServer("9000", http.NotFoundHandler())
	if srv.Addr != ":9000" {
		t.Fatalf("unexpected addr %q", srv.Addr)
	}
	if srv.ReadTimeout != 15*time.Second {
		t.Fatalf("expected 15s read timeout, got %s", srv.ReadTimeout)
	}
	// Writes must outlive the router's 30s request timeout.
	if srv.WriteTimeout <= 30*time.Second {
		t.Fatalf("write timeout %s does not exceed the request timeout", srv.WriteTimeout)
	}
	if srv.IdleTimeout != 60*time.Second {
		t.Fatalf("expected 60s idle timeout, got %s", srv.IdleTimeout)
	}
}
