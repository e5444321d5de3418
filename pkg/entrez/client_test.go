package entrez

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/cache"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	t.Cleanup(func() { backend.Close() })

	client := NewClient(backend, Config{
		BaseURL:   server.URL,
		RateLimit: 1000, // don't throttle tests
	})
	return client, server
}

func TestSearch(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/esearch.fcgi" {
			t.Errorf("path = %s, want /esearch.fcgi", r.URL.Path)
		}
		if got := r.URL.Query().Get("db"); got != "assembly" {
			t.Errorf("db = %q, want assembly", got)
		}
		if got := r.URL.Query().Get("tool"); got != "fetchm" {
			t.Errorf("tool = %q, want fetchm", got)
		}
		fmt.Fprint(w, `{"esearchresult":{"count":"2","idlist":["1755381","5197591"],"querytranslation":"Escherichia coli[Organism]"}}`)
	}))

	res, err := client.Search(context.Background(), "assembly", "Escherichia coli[Organism]", 20, false)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if res.Count != 2 {
		t.Errorf("Count = %d, want 2", res.Count)
	}
	if len(res.IDs) != 2 || res.IDs[0] != "1755381" {
		t.Errorf("IDs = %v", res.IDs)
	}
	if res.QueryTranslation != "Escherichia coli[Organism]" {
		t.Errorf("QueryTranslation = %q", res.QueryTranslation)
	}
}

func TestSearchEmptyTerm(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty term")
	}))
	if _, err := client.Search(context.Background(), "assembly", "  ", 20, false); err == nil {
		t.Error("empty term should return an error")
	}
}

func TestSearchServerError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"esearchresult":{"ERROR":"Invalid db name specified: asembly"}}`)
	}))
	_, err := client.Search(context.Background(), "asembly", "x", 20, false)
	if err == nil {
		t.Fatal("esearch ERROR should surface as an error")
	}
}

func TestUIDNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"esearchresult":{"count":"0","idlist":[]}}`)
	}))
	_, err := client.UID(context.Background(), "assembly", "GCF_404", "Assembly Accession", false)
	if !errors.Is(err, cache.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestResponseCaching(t *testing.T) {
	var hits int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, `{"esearchresult":{"count":"1","idlist":["42"]}}`)
	}))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := client.Search(ctx, "assembly", "cached[Organism]", 20, false); err != nil {
			t.Fatalf("Search error: %v", err)
		}
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("server hits = %d, want 1 (cached)", got)
	}

	// refresh bypasses the cache
	if _, err := client.Search(ctx, "assembly", "cached[Organism]", 20, true); err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("server hits = %d, want 2 after refresh", got)
	}
}

func TestRetryOn500(t *testing.T) {
	var hits int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"esearchresult":{"count":"1","idlist":["42"]}}`)
	}))

	res, err := client.Search(context.Background(), "assembly", "flaky[Organism]", 20, false)
	if err != nil {
		t.Fatalf("Search should succeed after retry: %v", err)
	}
	if len(res.IDs) != 1 {
		t.Errorf("IDs = %v", res.IDs)
	}
	if atomic.LoadInt32(&hits) != 2 {
		t.Errorf("server hits = %d, want 2", hits)
	}
}

func TestRateLimitedRetryHonorsRetryAfter(t *testing.T) {
	var hits int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"esearchresult":{"count":"1","idlist":["42"]}}`)
	}))

	start := time.Now()
	res, err := client.Search(context.Background(), "assembly", "throttled[Organism]", 20, false)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Search should succeed after retry: %v", err)
	}
	if len(res.IDs) != 1 {
		t.Errorf("IDs = %v", res.IDs)
	}
	if atomic.LoadInt32(&hits) != 2 {
		t.Errorf("server hits = %d, want 2", hits)
	}
	// The advertised wait, not the 1s default backoff, spaces the retry.
	if elapsed < 2*time.Second {
		t.Errorf("retry after %v, want >= Retry-After of 2s", elapsed)
	}
}

func TestNotFoundNotRetried(t *testing.T) {
	var hits int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.Search(context.Background(), "assembly", "gone[Organism]", 20, false)
	if !errors.Is(err, cache.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("server hits = %d, want 1 (no retry on 404)", hits)
	}
}

func TestLimiterSpacing(t *testing.T) {
	l := newLimiter(100) // 10ms interval
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.wait(ctx); err != nil {
			t.Fatalf("wait error: %v", err)
		}
	}
	// First slot is immediate; two more need >= 20ms total.
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Errorf("3 requests took %v, want >= 20ms spacing", elapsed)
	}
}

func TestLimiterCancel(t *testing.T) {
	l := newLimiter(0.001) // effectively blocks
	ctx, cancel := context.WithCancel(context.Background())

	if err := l.wait(ctx); err != nil {
		t.Fatalf("first wait should be immediate: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- l.wait(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("wait = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("wait did not honor cancellation")
	}
}
