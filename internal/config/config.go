// Package config resolves runtime configuration for the wizard binaries.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Draft store kinds.
const (
	DraftStoreHTTP   = "http"
	DraftStoreRedis  = "redis"
	DraftStoreMemory = "memory"
)

// Config is the resolved runtime configuration.
type Config struct {
	ServiceID string
	HTTPPort  int

	BackendURL     string
	BackendTimeout time.Duration
	// ValidateContract checks outbound question payloads against the
	// embedded backend contract before sending.
	ValidateContract bool

	DraftStore      string
	SessionsURL     string
	SessionsTimeout time.Duration
	RedisURL        string
	DraftTTL        time.Duration
	SessionCookie   string
	SecureCookie    bool
	ServiceName     string
	// Renderer names the page renderer the HTTP server serves with.
	Renderer          string
	Theme             string
	ThemeVariant      string
	TemplatesDir      string
	LogLevel          string
	ShutdownTimeout   time.Duration
	ReadHeaderTimeout time.Duration
}

// configFile mirrors configs/default.yaml.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		Name     string `yaml:"name"`
		HTTPPort int    `yaml:"http_port"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"service"`
	Backend struct {
		URL              string `yaml:"url"`
		Timeout          string `yaml:"timeout"`
		ValidateContract *bool  `yaml:"validate_contract"`
	} `yaml:"backend"`
	Drafts struct {
		Store           string `yaml:"store"`
		SessionsURL     string `yaml:"sessions_url"`
		SessionsTimeout string `yaml:"sessions_timeout"`
		RedisURL        string `yaml:"redis_url"`
		TTL             string `yaml:"ttl"`
		Cookie          string `yaml:"cookie"`
		SecureCookie    *bool  `yaml:"secure_cookie"`
	} `yaml:"drafts"`
	UI struct {
		Renderer     string `yaml:"renderer"`
		Theme        string `yaml:"theme"`
		Variant      string `yaml:"variant"`
		TemplatesDir string `yaml:"templates_dir"`
	} `yaml:"ui"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	return Config{
		ServiceID:         "formwizard",
		HTTPPort:          8080,
		BackendURL:        "http://localhost:8081",
		BackendTimeout:    10 * time.Second,
		ValidateContract:  true,
		DraftStore:        DraftStoreHTTP,
		SessionsURL:       "http://localhost:8082",
		SessionsTimeout:   5 * time.Second,
		DraftTTL:          24 * time.Hour,
		SessionCookie:     "session_id",
		ServiceName:       "Apply for funding",
		Renderer:          "govuk",
		Theme:             "govuk",
		LogLevel:          "info",
		ShutdownTimeout:   10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Load resolves configuration in priority order: defaults, then the YAML file
// at path (skipped when path is empty or missing), then environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := cfg.applyFile(raw); err != nil {
				return Config{}, err
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(raw []byte) error {
	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("config: parse file: %w", err)
	}

	setString(&c.ServiceID, f.Service.ID)
	setString(&c.ServiceName, f.Service.Name)
	setString(&c.LogLevel, f.Service.LogLevel)
	if f.Service.HTTPPort > 0 {
		c.HTTPPort = f.Service.HTTPPort
	}
	setString(&c.BackendURL, f.Backend.URL)
	if f.Backend.ValidateContract != nil {
		c.ValidateContract = *f.Backend.ValidateContract
	}
	setString(&c.DraftStore, strings.ToLower(f.Drafts.Store))
	setString(&c.SessionsURL, f.Drafts.SessionsURL)
	setString(&c.RedisURL, f.Drafts.RedisURL)
	setString(&c.SessionCookie, f.Drafts.Cookie)
	if f.Drafts.SecureCookie != nil {
		c.SecureCookie = *f.Drafts.SecureCookie
	}
	setString(&c.Renderer, strings.ToLower(f.UI.Renderer))
	setString(&c.Theme, f.UI.Theme)
	setString(&c.ThemeVariant, f.UI.Variant)
	setString(&c.TemplatesDir, f.UI.TemplatesDir)

	for _, d := range []struct {
		key    string
		raw    string
		target *time.Duration
	}{
		{"backend.timeout", f.Backend.Timeout, &c.BackendTimeout},
		{"drafts.sessions_timeout", f.Drafts.SessionsTimeout, &c.SessionsTimeout},
		{"drafts.ttl", f.Drafts.TTL, &c.DraftTTL},
	} {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("config: %s: %w", d.key, err)
		}
		*d.target = parsed
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	env := envReader{getenv: getenv}

	c.ServiceID = env.text("FORMWIZARD_SERVICE_ID", c.ServiceID)
	c.ServiceName = env.text("FORMWIZARD_SERVICE_NAME", c.ServiceName)
	c.HTTPPort = env.number("FORMWIZARD_HTTP_PORT", env.number("PORT", c.HTTPPort))
	c.LogLevel = env.text("FORMWIZARD_LOG_LEVEL", c.LogLevel)
	c.BackendURL = env.text("FORMWIZARD_BACKEND_URL", c.BackendURL)
	c.BackendTimeout = env.duration("FORMWIZARD_BACKEND_TIMEOUT", c.BackendTimeout)
	c.ValidateContract = env.flag("FORMWIZARD_VALIDATE_CONTRACT", c.ValidateContract)
	c.DraftStore = strings.ToLower(env.text("FORMWIZARD_DRAFT_STORE", c.DraftStore))
	c.SessionsURL = env.text("FORMWIZARD_SESSIONS_URL", c.SessionsURL)
	c.SessionsTimeout = env.duration("FORMWIZARD_SESSIONS_TIMEOUT", c.SessionsTimeout)
	c.RedisURL = env.text("FORMWIZARD_REDIS_URL", env.text("REDIS_URL", c.RedisURL))
	c.DraftTTL = env.duration("FORMWIZARD_DRAFT_TTL", c.DraftTTL)
	c.SessionCookie = env.text("FORMWIZARD_SESSION_COOKIE", c.SessionCookie)
	c.SecureCookie = env.flag("FORMWIZARD_SECURE_COOKIE", c.SecureCookie)
	c.Renderer = strings.ToLower(env.text("FORMWIZARD_RENDERER", c.Renderer))
	c.Theme = env.text("FORMWIZARD_THEME", c.Theme)
	c.ThemeVariant = env.text("FORMWIZARD_THEME_VARIANT", c.ThemeVariant)
	c.TemplatesDir = env.text("FORMWIZARD_TEMPLATES_DIR", c.TemplatesDir)

	return env.err
}

// Validate checks the fields the selected draft store and backend need.
func (c Config) Validate() error {
	if err := absoluteURL("backend url", c.BackendURL); err != nil {
		return err
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("config: http port %d out of range", c.HTTPPort)
	}
	switch c.DraftStore {
	case DraftStoreHTTP:
		if err := absoluteURL("sessions url", c.SessionsURL); err != nil {
			return err
		}
	case DraftStoreRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return errors.New("config: redis draft store requires REDIS_URL")
		}
	case DraftStoreMemory:
	default:
		return fmt.Errorf("config: unknown draft store %q", c.DraftStore)
	}
	if strings.TrimSpace(c.SessionCookie) == "" {
		return errors.New("config: session cookie name is required")
	}
	if strings.TrimSpace(c.Renderer) == "" {
		return errors.New("config: renderer name is required")
	}
	return nil
}

// Addr is the HTTP listen address.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.HTTPPort)
}

func absoluteURL(name, raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: %s %q must be absolute", name, raw)
	}
	return nil
}

func setString(target *string, value string) {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*target = trimmed
	}
}

// envReader collects the first malformed value instead of silently keeping
// the fallback.
type envReader struct {
	getenv func(string) string
	err    error
}

func (e *envReader) lookup(name string) string {
	return strings.TrimSpace(e.getenv(name))
}

func (e *envReader) fail(name, raw string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("config: %s=%q: %w", name, raw, err)
	}
}

func (e *envReader) text(name, fallback string) string {
	if v := e.lookup(name); v != "" {
		return v
	}
	return fallback
}

func (e *envReader) number(name string, fallback int) int {
	raw := e.lookup(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		e.fail(name, raw, err)
		return fallback
	}
	return v
}

func (e *envReader) flag(name string, fallback bool) bool {
	raw := e.lookup(name)
	if raw == "" {
		return fallback
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		e.fail(name, raw, errors.New("not a boolean"))
		return fallback
	}
}

func (e *envReader) duration(name string, fallback time.Duration) time.Duration {
	raw := e.lookup(name)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		e.fail(name, raw, err)
		return fallback
	}
	return v
}
