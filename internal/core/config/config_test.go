package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"ADDR", "GRID_MAX_CELLS", "GRID_DEFAULT_LEVEL", "H3_RES", "CACHE_TTL", "REDIS_ENABLED", "REDIS_POOL_SIZE"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	if cfg.Addr != ":8090" {
		t.Fatalf("Addr=%q", cfg.Addr)
	}
	if cfg.GridMaxCells != 4096 || cfg.GridDefaultLevel != 6 || cfg.H3Res != 9 {
		t.Fatalf("grid defaults: %+v", cfg)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL != 10*time.Minute {
		t.Fatalf("cache defaults: %+v", cfg.Cache)
	}
	if cfg.Redis.Enabled || cfg.Redis.PoolSize != 32 {
		t.Fatalf("redis defaults: %+v", cfg.Redis)
	}
}

func TestFromEnv_OverridesAndClamps(t *testing.T) {
	t.Setenv("GRID_DEFAULT_LEVEL", "12")
	t.Setenv("H3_RES", "7")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("REDIS_ENABLED", "yes")
	t.Setenv("REDIS_POOL_SIZE", "8")
	t.Setenv("CACHE_LRU_SIZE", "not-a-number")

	cfg := FromEnv()
	if cfg.GridDefaultLevel != 6 {
		t.Fatalf("out of range level must fall back to 6, got %d", cfg.GridDefaultLevel)
	}
	if cfg.H3Res != 7 {
		t.Fatalf("H3Res=%d", cfg.H3Res)
	}
	if cfg.Cache.TTL != 30*time.Second {
		t.Fatalf("TTL=%v", cfg.Cache.TTL)
	}
	if !cfg.Redis.Enabled {
		t.Fatalf("REDIS_ENABLED=yes not honoured")
	}
	if cfg.Redis.PoolSize != 8 {
		t.Fatalf("PoolSize=%d", cfg.Redis.PoolSize)
	}
	if cfg.Cache.LRUSize != 1024 {
		t.Fatalf("bad int must keep default, got %d", cfg.Cache.LRUSize)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("GRID_MAX_CELLS=77\nADDR=:9999\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	// environment wins over the file
	t.Setenv("ADDR", ":1234")
	// registers restore, then unsets so godotenv treats the key as absent
	t.Setenv("GRID_MAX_CELLS", "")
	if err := os.Unsetenv("GRID_MAX_CELLS"); err != nil {
		t.Fatalf("unsetenv: %v", err)
	}

	cfg, err := Load(filepath.Join(dir, "missing.env"), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GridMaxCells != 77 {
		t.Fatalf("GridMaxCells=%d want 77", cfg.GridMaxCells)
	}
	if cfg.Addr != ":1234" {
		t.Fatalf("Addr=%q want :1234", cfg.Addr)
	}
}
