package catalogfeed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-squad/internal/platform/logging"
	"github.com/riskibarqy/fantasy-squad/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-squad/internal/usecase"
)

func newTestClient(srv *httptest.Server, retries int, breaker resilience.CircuitBreakerConfig) *Client {
	return NewClient(ClientConfig{
		HTTPClient:     srv.Client(),
		BaseURL:        srv.URL,
		Token:          "secret-token",
		MaxRetries:     retries,
		RetryBackoff:   time.Millisecond,
		Logger:         logging.NewNop(),
		CircuitBreaker: breaker,
	})
}

func TestClientFetchPlayers_PaginatesAndKeepsLooseValues(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/leagues/501/players" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("api_token") != "secret-token" {
			t.Errorf("missing api token")
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("page") {
		case "1":
			_, _ = w.Write([]byte(`{"data":[{"id":1,"key":"idn-fwd-01","team_key":"idn-persija","name":"Gustavo Almeida","position":"Attacker","price":"9.5","form":7.1}],"pagination":{"current_page":1,"has_more":true}}`))
		case "2":
			_, _ = w.Write([]byte(`{"data":[{"id":2,"key":"idn-gk-01","team_key":"idn-persija","name":"Andritany","position":"Goalkeeper","price":null}],"pagination":{"current_page":2,"has_more":false}}`))
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	}))
	defer srv.Close()

	client := newTestClient(srv, 0, resilience.CircuitBreakerConfig{})
	records, err := client.FetchPlayers(context.Background(), "501")
	if err != nil {
		t.Fatalf("fetch players: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records across pages, got %d", len(records))
	}
	if records[0].Price != "9.5" {
		t.Fatalf("expected string price to survive decoding, got %#v", records[0].Price)
	}
	if records[1].Price != nil {
		t.Fatalf("expected null price, got %#v", records[1].Price)
	}
}

func TestClientFetchTeams_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"id":10,"key":"idn-persija","name":"Persija Jakarta","short_code":"PSJ"}],"pagination":{"has_more":false}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv, 2, resilience.CircuitBreakerConfig{})
	teams, err := client.FetchTeams(context.Background(), "501")
	if err != nil {
		t.Fatalf("fetch teams: %v", err)
	}
	if len(teams) != 1 || teams[0].Key != "idn-persija" {
		t.Fatalf("unexpected teams: %+v", teams)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected one retry, got %d calls", calls.Load())
	}
}

func TestClientFetchTeams_ClientErrorIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"unknown league"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv, 3, resilience.CircuitBreakerConfig{})
	_, err := client.FetchTeams(context.Background(), "999")
	if err == nil {
		t.Fatalf("expected error")
	}
	if isTransient(err) {
		t.Fatalf("404 must not be transient: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
}

func TestClientFetchTeams_BreakerOpensAfterFailures(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := newTestClient(srv, 0, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	for range 2 {
		if _, err := client.FetchTeams(context.Background(), "501"); err == nil {
			t.Fatalf("expected upstream failure")
		}
	}

	_, err := client.FetchTeams(context.Background(), "501")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable once open, got %v", err)
	}
}

func TestClientRedactsToken(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{BaseURL: "http://feed.local", Token: "abc123", Logger: logging.NewNop()})
	got := client.redact("GET http://feed.local/x?api_token=abc123&page=1 failed: abc123")
	if strings.Contains(got, "abc123") {
		t.Fatalf("token leaked: %s", got)
	}
}

func TestClientWithoutBaseURL(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})
	_, err := client.FetchPlayers(context.Background(), "501")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
