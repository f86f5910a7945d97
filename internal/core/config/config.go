package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type CacheCfg struct {
	Enabled   bool
	LRUSize   int
	TTL       time.Duration
	OpTimeout time.Duration
}

type RedisCfg struct {
	Enabled   bool
	Addr      string
	KeyPrefix string
	PoolSize  int
}

type MetricsCfg struct {
	Enabled bool
	Addr    string
	Path    string
}

type Config struct {
	Addr             string
	LogLevel         string
	LogConsole       bool
	LogSampleN       int
	GridMaxCells     int
	GridDefaultLevel int
	H3Res            int
	Cache            CacheCfg
	Redis            RedisCfg
	Metrics          MetricsCfg
}

// Load applies the given .env files (missing ones are skipped) and then
// reads the environment. Variables already set in the environment win.
func Load(files ...string) (Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	return FromEnv(), nil
}

func FromEnv() Config {
	level := getint("GRID_DEFAULT_LEVEL", 6)
	if level < 1 || level > 10 {
		level = 6
	}
	res := getint("H3_RES", 9)
	if res < 0 || res > 15 {
		res = 9
	}

	return Config{
		Addr:             getenv("ADDR", ":8090"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		LogConsole:       getbool("LOG_CONSOLE", false),
		LogSampleN:       getint("LOG_SAMPLE_N", 0),
		GridMaxCells:     getint("GRID_MAX_CELLS", 4096),
		GridDefaultLevel: level,
		H3Res:            res,
		Cache: CacheCfg{
			Enabled:   getbool("CACHE_ENABLED", true),
			LRUSize:   getint("CACHE_LRU_SIZE", 1024),
			TTL:       getduration("CACHE_TTL", 10*time.Minute),
			OpTimeout: getduration("CACHE_OP_TIMEOUT", 250*time.Millisecond),
		},
		Redis: RedisCfg{
			Enabled:   getbool("REDIS_ENABLED", false),
			Addr:      getenv("REDIS_ADDR", "localhost:6379"),
			KeyPrefix: getenv("REDIS_KEY_PREFIX", "digipin:"),
			PoolSize:  getint("REDIS_POOL_SIZE", 32),
		},
		Metrics: MetricsCfg{
			Enabled: getbool("METRICS_ENABLED", false),
			Addr:    getenv("METRICS_ADDR", ":9090"),
			Path:    getenv("METRICS_PATH", "/metrics"),
		},
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return def
}
