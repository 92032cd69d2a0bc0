// Package config loads trazo's TOML configuration.
//
// A configuration file is optional. Load decodes it over Default, then
// applies environment overrides:
//
//	OPENAI_API_KEY    agent.api_key
//	OPENAI_BASE_URL   agent.base_url
//	TRAZO_REDIS_ADDR  redis.addr
//	TRAZO_MONGO_URI   gallery.mongo_uri
//
// Example file:
//
//	[canvas]
//	width_in = 12
//	height_in = 8
//	dpi = 150
//
//	[gallery]
//	backend = "dir"
//	dir = "imagenes_generadas"
//
//	[session]
//	backend = "file"
//	ttl = "24h"
//
//	[agent]
//	provider = "openai"
//	model = "gpt-5-mini"
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	terrors "github.com/matzehuels/trazo/pkg/errors"
	"github.com/matzehuels/trazo/pkg/gallery"
	"github.com/matzehuels/trazo/pkg/render"
	"github.com/matzehuels/trazo/pkg/session"
)

// Backend names.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendDir    = "dir"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"

	ProviderOffline = "offline"
	ProviderOpenAI  = "openai"
)

// Environment overrides.
const (
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	EnvRedisAddr     = "TRAZO_REDIS_ADDR"
	EnvMongoURI      = "TRAZO_MONGO_URI"
)

// Config is the full configuration.
type Config struct {
	Canvas  render.Canvas `toml:"canvas"`
	Fonts   Fonts         `toml:"fonts"`
	Gallery Gallery       `toml:"gallery"`
	Session Session       `toml:"session"`
	Agent   Agent         `toml:"agent"`
	Cache   Cache         `toml:"cache"`
	Redis   Redis         `toml:"redis"`
	Server  Server        `toml:"server"`
}

// Fonts selects optional TrueType files for text and for emoji.
type Fonts struct {
	Path      string `toml:"path"`
	EmojiPath string `toml:"emoji_path"`
}

// Gallery selects where saved images go.
type Gallery struct {
	Backend         string `toml:"backend"`
	Dir             string `toml:"dir"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Session selects the diary session store.
type Session struct {
	Backend string        `toml:"backend"`
	Dir     string        `toml:"dir"`
	TTL     time.Duration `toml:"ttl"`
}

// Agent selects the conversational agent.
type Agent struct {
	Provider string        `toml:"provider"`
	Model    string        `toml:"model"`
	APIKey   string        `toml:"api_key"`
	Timeout  time.Duration `toml:"timeout"`
	BaseURL  string        `toml:"base_url"` // OpenAI-compatible endpoint
}

// Cache selects the render and agent reply cache.
type Cache struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
	Prefix  string `toml:"prefix"` // key prefix on a shared redis
}

// DefaultCachePrefix scopes redis cache keys when no prefix is configured.
const DefaultCachePrefix = "trazo:"

// Redis is shared by the redis cache and session backends.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// Server configures trazo serve.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration: everything local, offline
// agent, no cache.
func Default() Config {
	return Config{
		Canvas:  render.DefaultCanvas,
		Gallery: Gallery{Backend: BackendDir, Dir: gallery.DefaultDir},
		Session: Session{Backend: BackendMemory, TTL: session.DefaultTTL},
		Agent: Agent{
			Provider: ProviderOffline,
			Model:    "gpt-5-mini",
			Timeout:  2 * time.Minute,
		},
		Cache:  Cache{Backend: BackendNone},
		Redis:  Redis{Addr: "localhost:6379"},
		Server: Server{Addr: ":8000"},
	}
}

// DefaultPath is ~/.config/trazo/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "trazo", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "trazo", "config.toml"), nil
}

// Load reads path over Default and applies environment overrides. An empty
// path tries DefaultPath and tolerates its absence; an explicit path must
// exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		case explicit || !errors.Is(err, os.ErrNotExist):
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvOpenAIKey); v != "" {
		c.Agent.APIKey = v
	}
	if v := os.Getenv(EnvOpenAIBaseURL); v != "" {
		c.Agent.BaseURL = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Gallery.MongoURI = v
	}
}

// Validate reports the first problem found.
func (c Config) Validate() error {
	if c.Canvas.WidthIn <= 0 || c.Canvas.HeightIn <= 0 || c.Canvas.DPI <= 0 {
		return errors.New("canvas width_in, height_in and dpi must be > 0")
	}
	if !oneOf(c.Gallery.Backend, BackendDir, BackendMongo) {
		return fmt.Errorf("gallery.backend must be %q or %q", BackendDir, BackendMongo)
	}
	if c.Gallery.Backend == BackendMongo && c.Gallery.MongoURI == "" {
		return errors.New("gallery.mongo_uri is required for the mongo backend")
	}
	if !oneOf(c.Session.Backend, BackendMemory, BackendFile, BackendRedis) {
		return fmt.Errorf("session.backend must be %q, %q or %q", BackendMemory, BackendFile, BackendRedis)
	}
	if c.Session.TTL < 0 {
		return errors.New("session.ttl must be >= 0")
	}
	if !oneOf(c.Cache.Backend, BackendNone, BackendMemory, BackendFile, BackendRedis) {
		return fmt.Errorf("cache.backend must be %q, %q, %q or %q", BackendNone, BackendMemory, BackendFile, BackendRedis)
	}
	if (c.Session.Backend == BackendRedis || c.Cache.Backend == BackendRedis) && c.Redis.Addr == "" {
		return errors.New("redis.addr is required for redis backends")
	}
	if !oneOf(c.Agent.Provider, ProviderOffline, ProviderOpenAI) {
		return fmt.Errorf("agent.provider must be %q or %q", ProviderOffline, ProviderOpenAI)
	}
	if c.Agent.Provider == ProviderOpenAI {
		if c.Agent.APIKey == "" {
			return fmt.Errorf("agent.api_key or %s is required for the openai provider", EnvOpenAIKey)
		}
		if c.Agent.Model == "" {
			return errors.New("agent.model is required for the openai provider")
		}
	}
	if c.Agent.BaseURL != "" {
		if err := terrors.ValidateURL(c.Agent.BaseURL); err != nil {
			return fmt.Errorf("agent.base_url: %s", terrors.UserMessage(err))
		}
	}
	if c.Agent.Timeout < 0 {
		return errors.New("agent.timeout must be >= 0")
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	return nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
