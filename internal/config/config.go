// Package config loads popmark settings from a JSON or YAML file and
// applies POPMARK_* environment overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nikbrunner/popmark/internal/logger"
	"github.com/nikbrunner/popmark/internal/model"
	"github.com/nikbrunner/popmark/internal/tree"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds application configuration.
type Config struct {
	Backend    string `json:"backend" yaml:"backend"`       // file | sqlite | redis | memory
	DataFile   string `json:"dataFile" yaml:"dataFile"`     // JSON document for the file backend
	SQLiteFile string `json:"sqliteFile" yaml:"sqliteFile"` // database for the sqlite backend

	Redis RedisConfig `json:"redis" yaml:"redis"`

	LogLevel  string `json:"logLevel" yaml:"logLevel"`   // debug | info | warn | error
	PrettyLog bool   `json:"prettyLog" yaml:"prettyLog"` // zap dev console instead of JSON
	LogFile   string `json:"logFile" yaml:"logFile"`     // TUI log destination

	ExpandPolicy   string `json:"expandPolicy" yaml:"expandPolicy"` // roots | all | none
	CascadeDelete  bool   `json:"cascadeDelete" yaml:"cascadeDelete"`
	DefaultColor   string `json:"defaultColor" yaml:"defaultColor"`
	QuickAddFolder string `json:"quickAddFolder" yaml:"quickAddFolder"`

	ListenAddr string `json:"listenAddr" yaml:"listenAddr"`

	CullExcludeDomains []string `json:"cullExcludeDomains" yaml:"cullExcludeDomains"`
	CullConcurrency    int      `json:"cullConcurrency" yaml:"cullConcurrency"`
	CullTimeout        Duration `json:"cullTimeout" yaml:"cullTimeout"`
}

// RedisConfig mirrors storage.ConnectOptions in file form.
type RedisConfig struct {
	Addr           string   `json:"addr" yaml:"addr"`
	User           string   `json:"user" yaml:"user"`
	Password       string   `json:"password" yaml:"password"`
	DB             int      `json:"db" yaml:"db"`
	Prefix         string   `json:"prefix" yaml:"prefix"`
	PoolSize       int      `json:"poolSize" yaml:"poolSize"`
	ConnectTimeout Duration `json:"connectTimeout" yaml:"connectTimeout"`
	RetryInterval  Duration `json:"retryInterval" yaml:"retryInterval"`
	MaxWait        Duration `json:"maxWait" yaml:"maxWait"`
	PingTimeout    Duration `json:"pingTimeout" yaml:"pingTimeout"`
}

// Dir returns ~/.config/popmark, or a relative .popmark when the home
// directory is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".popmark"
	}
	return filepath.Join(home, ".config", "popmark")
}

// DefaultConfigFilePath returns the default config path: ~/.config/popmark/config.json
func DefaultConfigFilePath() string {
	return filepath.Join(Dir(), "config.json")
}

// DefaultConfig returns the default configuration rooted at Dir.
func DefaultConfig() Config {
	dir := Dir()
	return Config{
		Backend:    BackendFile,
		DataFile:   filepath.Join(dir, "popmark.json"),
		SQLiteFile: filepath.Join(dir, "popmark.db"),
		Redis: RedisConfig{
			Addr:           "localhost:6379",
			Prefix:         "popmark:",
			PoolSize:       10,
			ConnectTimeout: Duration(30 * time.Second),
			RetryInterval:  Duration(2 * time.Second),
			MaxWait:        Duration(10 * time.Second),
			PingTimeout:    Duration(5 * time.Second),
		},
		LogLevel:           "info",
		LogFile:            filepath.Join(dir, "popmark.log"),
		ExpandPolicy:       tree.ExpandRoots.String(),
		DefaultColor:       model.DefaultColor,
		QuickAddFolder:     "Read Later",
		ListenAddr:         "127.0.0.1:7878",
		CullExcludeDomains: []string{"github.com", "gitlab.com"},
		CullConcurrency:    10,
		CullTimeout:        Duration(10 * time.Second),
	}
}

// Load reads config from path (JSON, or YAML for .yaml/.yml).
// An empty path means DefaultConfigFilePath. A missing file is created with
// defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilePath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Non-fatal: keep defaults even if the file cannot be written.
		_ = Save(path, &cfg)
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		var fromFile Config
		if err := decode(path, data, &fromFile); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg = merge(cfg, fromFile)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to path, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	var problems []string

	switch c.Backend {
	case BackendFile, BackendSQLite, BackendRedis, BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("backend %q is not one of file, sqlite, redis, memory", c.Backend))
	}
	if c.Backend == BackendRedis && c.Redis.Addr == "" {
		problems = append(problems, "redis.addr is required for the redis backend")
	}
	if !logger.ValidLevel(c.LogLevel) {
		problems = append(problems, fmt.Sprintf("logLevel %q is not one of debug, info, warn, error", c.LogLevel))
	}
	if _, err := tree.ParsePolicy(c.ExpandPolicy); err != nil {
		problems = append(problems, err.Error())
	}
	if c.CullConcurrency < 1 {
		problems = append(problems, "cullConcurrency must be >= 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Policy returns the parsed expand policy.
func (c *Config) Policy() tree.Policy {
	p, _ := tree.ParsePolicy(c.ExpandPolicy)
	return p
}

// DeleteMode returns the folder delete mode selected by CascadeDelete.
func (c *Config) DeleteMode() model.DeleteMode {
	if c.CascadeDelete {
		return model.DeleteCascade
	}
	return model.DeleteKeep
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func decode(path string, data []byte, cfg *Config) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, cfg)
	}
	return json.Unmarshal(data, cfg)
}

// merge fills zero fields of file with defaults. Booleans come from file as-is.
func merge(def, file Config) Config {
	out := file
	setString(&out.Backend, def.Backend)
	setString(&out.DataFile, def.DataFile)
	setString(&out.SQLiteFile, def.SQLiteFile)
	setString(&out.Redis.Addr, def.Redis.Addr)
	setString(&out.Redis.Prefix, def.Redis.Prefix)
	setInt(&out.Redis.PoolSize, def.Redis.PoolSize)
	setDuration(&out.Redis.ConnectTimeout, def.Redis.ConnectTimeout)
	setDuration(&out.Redis.RetryInterval, def.Redis.RetryInterval)
	setDuration(&out.Redis.MaxWait, def.Redis.MaxWait)
	setDuration(&out.Redis.PingTimeout, def.Redis.PingTimeout)
	setString(&out.LogLevel, def.LogLevel)
	setString(&out.LogFile, def.LogFile)
	setString(&out.ExpandPolicy, def.ExpandPolicy)
	setString(&out.DefaultColor, def.DefaultColor)
	setString(&out.QuickAddFolder, def.QuickAddFolder)
	setString(&out.ListenAddr, def.ListenAddr)
	if out.CullExcludeDomains == nil {
		out.CullExcludeDomains = def.CullExcludeDomains
	}
	setInt(&out.CullConcurrency, def.CullConcurrency)
	setDuration(&out.CullTimeout, def.CullTimeout)
	return out
}

func setString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

func setInt(dst *int, def int) {
	if *dst == 0 {
		*dst = def
	}
}

func setDuration(dst *Duration, def Duration) {
	if *dst == 0 {
		*dst = def
	}
}
