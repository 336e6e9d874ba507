package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/reusedev/render-relay/internal/consts"
	"gopkg.in/yaml.v3"
)

var GConfig *Config

// Init loads the yaml file (optional), applies environment overrides and verifies the result.
func Init(filePath string) error {
	c, err := Load(filePath)
	if err != nil {
		return err
	}
	GConfig = c
	return nil
}

// LoadDotEnv exports the variables of a .env file into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func Load(filePath string) (*Config, error) {
	c := defaults()
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		switch {
		case err == nil:
			if err := initFromYaml(c, data); err != nil {
				return nil, err
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}
	c.applyEnv()
	c.APIKeys = SplitKeys(c.APIKeys)
	if err := c.Verify(); err != nil {
		return nil, err
	}
	return c, nil
}

func initFromYaml(c *Config, data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Port: consts.DefaultPort,
		Gemini: Gemini{
			Model:     consts.DefaultModel,
			BaseURL:   consts.GeminiBaseURL,
			Transport: consts.TransportREST.String(),
		},
		Server: Server{
			MaxUploadSize:    consts.DefaultMaxUploadSize,
			CorsAllowOrigins: []string{"*"},
		},
		Log: Log{
			LogLevel:      "info",
			LogMaxSize:    100,
			LogMaxBackups: 5,
			LogMaxAge:     30,
		},
	}
}

type Config struct {
	Port          string `yaml:"port"`
	PrivateAPIKey string `yaml:"private_api_key"`
	Gemini        `yaml:"gemini"`
	Server        `yaml:"server"`
	Log           `yaml:"log"`
}

type Gemini struct {
	APIKeys         []string `yaml:"api_keys"`
	Model           string   `yaml:"model"`
	BaseURL         string   `yaml:"base_url"`
	Transport       string   `yaml:"transport"`
	UpstreamTimeout string   `yaml:"upstream_timeout"` // empty means the transport default
}

type Server struct {
	MaxUploadSize    int64    `yaml:"max_upload_size"`
	TranscodeOutput  bool     `yaml:"transcode_output"`
	CorsAllowOrigins []string `yaml:"cors_allow_origins"`
	MetricsPort      string   `yaml:"metrics_port"`
}

type Log struct {
	LogLevel      string `yaml:"level"`
	LogFile       string `yaml:"file"`
	LogMaxSize    int    `yaml:"max_size"`
	LogMaxBackups int    `yaml:"max_backups"`
	LogMaxAge     int    `yaml:"max_age"`
}

func (c *Config) applyEnv() {
	set := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set("PORT", &c.Port)
	// the private key is compared byte for byte, so it is taken verbatim
	if v, ok := os.LookupEnv("PRIVATE_API_KEY"); ok && v != "" {
		c.PrivateAPIKey = v
	}
	set("GEMINI_MODEL", &c.Model)
	set("GEMINI_BASE_URL", &c.BaseURL)
	set("GEMINI_TRANSPORT", &c.Transport)
	set("UPSTREAM_TIMEOUT", &c.UpstreamTimeout)
	set("METRICS_PORT", &c.MetricsPort)
	set("LOG_LEVEL", &c.LogLevel)
	if v, ok := os.LookupEnv("GEMINI_API_KEYS"); ok && strings.TrimSpace(v) != "" {
		c.APIKeys = strings.Split(v, ",")
	}
}

// SplitKeys trims every key and drops the empty ones.
func SplitKeys(keys []string) []string {
	ret := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k != "" {
			ret = append(ret, k)
		}
	}
	return ret
}

func (c *Config) Verify() error {
	if len(c.APIKeys) == 0 {
		return fmt.Errorf("no gemini api keys configured, set GEMINI_API_KEYS")
	}
	if strings.TrimSpace(c.PrivateAPIKey) == "" {
		return fmt.Errorf("private api key is empty, set PRIVATE_API_KEY")
	}
	if c.Port == "" {
		return fmt.Errorf("port is empty")
	}
	if !consts.Transport(c.Transport).Valid() {
		return fmt.Errorf("transport must be %s or %s, got %q", consts.TransportREST, consts.TransportSDK, c.Transport)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	return nil
}

// Timeout returns the upstream call timeout. Zero means no explicit timeout.
func (c *Config) Timeout() (time.Duration, error) {
	if c.UpstreamTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.UpstreamTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid upstream_timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("upstream_timeout must not be negative")
	}
	return d, nil
}

func (c *Config) ListenAddr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}
