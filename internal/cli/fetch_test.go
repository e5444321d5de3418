package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/cache"
	"github.com/tasnimul-arabi-anik/fetchm/pkg/config"
)

func TestCollectAccessions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "acc.txt")
	content := "# query: test\nGCF_000005845.2\ngcf_000006945.2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := collectAccessions(path, []string{"gca_000008865.2", "GCF_000005845.2"})
	if err != nil {
		t.Fatalf("collectAccessions error: %v", err)
	}
	// Args first, file second, normalized and deduped.
	want := []string{"GCA_000008865.2", "GCF_000005845.2", "GCF_000006945.2"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCollectAccessionsMissingFile(t *testing.T) {
	if _, err := collectAccessions("/does/not/exist.txt", nil); err == nil {
		t.Fatal("missing input file should return an error")
	}
}

func TestNewCacheBackends(t *testing.T) {
	t.Setenv("FETCHM_CACHE_DIR", t.TempDir())
	c := New(os.Stderr, log.InfoLevel)
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     config.Config
		noCache bool
		wantNil bool
	}{
		{name: "file backend", cfg: config.Config{CacheBackend: config.BackendFile}},
		{name: "default backend", cfg: config.Config{}},
		{name: "none backend", cfg: config.Config{CacheBackend: config.BackendNone}},
		{name: "no-cache flag", cfg: config.Config{CacheBackend: config.BackendFile}, noCache: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, err := c.newCache(ctx, tt.cfg, tt.noCache)
			if err != nil {
				t.Fatalf("newCache error: %v", err)
			}
			if backend == nil {
				t.Fatal("newCache returned nil backend")
			}
			backend.Close()
		})
	}
}

func TestNewCacheUnknownBackend(t *testing.T) {
	c := New(os.Stderr, log.InfoLevel)
	if _, err := c.newCache(context.Background(), config.Config{CacheBackend: "memcached"}, false); err == nil {
		t.Fatal("unknown backend should be rejected")
	}
}

func TestNewCacheNoCacheIsNull(t *testing.T) {
	c := New(os.Stderr, log.InfoLevel)
	backend, err := c.newCache(context.Background(), config.Config{}, true)
	if err != nil {
		t.Fatalf("newCache error: %v", err)
	}
	if _, ok := backend.(cache.NullCache); !ok {
		t.Errorf("backend = %T, want NullCache", backend)
	}
}
