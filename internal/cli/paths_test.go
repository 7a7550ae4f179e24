package cli

import (
	"io"
	"path/filepath"
	"testing"
)

func TestCacheDirEnvOverride(t *testing.T) {
	c := &CLI{Env: Env{CacheDir: "/tmp/trophy-cache"}}
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != "/tmp/trophy-cache" {
		t.Errorf("cacheDir() = %q, want override", dir)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := "/tmp/custom-cache"
	t.Setenv("XDG_CACHE_HOME", customCache)

	c := &CLI{}
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestNewCacheDisabled(t *testing.T) {
	tests := []struct {
		name    string
		env     Env
		noCache bool
	}{
		{"flag", Env{CacheDir: t.TempDir()}, true},
		{"env", Env{CacheDir: t.TempDir(), NoCache: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &CLI{Logger: newLogger(io.Discard, LogInfo), Env: tt.env}
			ch, err := c.newCache(tt.noCache)
			if err != nil {
				t.Fatal(err)
			}
			if _, ok, _ := ch.Get(t.Context(), "k"); ok {
				t.Error("disabled cache returned a value")
			}
			if err := ch.Set(t.Context(), "k", []byte("v"), 0); err != nil {
				t.Fatal(err)
			}
			if _, ok, _ := ch.Get(t.Context(), "k"); ok {
				t.Error("disabled cache kept a value")
			}
		})
	}
}
