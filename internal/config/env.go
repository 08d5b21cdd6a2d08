package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// applyEnv overrides cfg with any POPMARK_* variables that are set.
// Values that fail to parse are ignored.
func applyEnv(cfg *Config) {
	cfg.Backend = getenv("POPMARK_BACKEND", cfg.Backend)
	cfg.DataFile = getenv("POPMARK_DATA_FILE", cfg.DataFile)
	cfg.SQLiteFile = getenv("POPMARK_SQLITE_FILE", cfg.SQLiteFile)

	cfg.Redis.Addr = getenv("POPMARK_REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.User = getenv("POPMARK_REDIS_USERNAME", cfg.Redis.User)
	cfg.Redis.Password = getenv("POPMARK_REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getenvInt("POPMARK_REDIS_DB", cfg.Redis.DB)
	cfg.Redis.ConnectTimeout = Duration(mustDuration("POPMARK_REDIS_CONNECT_TIMEOUT", time.Duration(cfg.Redis.ConnectTimeout)))

	cfg.LogLevel = getenv("POPMARK_LOG_LEVEL", cfg.LogLevel)
	cfg.PrettyLog = mustBool("POPMARK_PRETTY_LOG", cfg.PrettyLog)
	cfg.LogFile = getenv("POPMARK_LOG_FILE", cfg.LogFile)

	cfg.ExpandPolicy = getenv("POPMARK_EXPAND", cfg.ExpandPolicy)
	cfg.CascadeDelete = mustBool("POPMARK_CASCADE_DELETE", cfg.CascadeDelete)
	cfg.ListenAddr = getenv("POPMARK_LISTEN_ADDR", cfg.ListenAddr)

	if v := os.Getenv("POPMARK_CULL_EXCLUDE"); v != "" {
		cfg.CullExcludeDomains = splitAndTrim(v)
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
