/**
* Name: 			config.go
* Description: 		서비스 설정 로딩
* Workflow: 		기본값 -> TOML 파일 -> .env / 환경변수 순으로 덮어씀
 */

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Server contains bind address and gateway trust settings.
type Server struct {
	Bind               string  `toml:"bind"`
	GatewayKey         string  `toml:"gateway_key"`
	RateLimitPerSecond float64 `toml:"rate_limit_per_second"`
	RateLimitBurst     int     `toml:"rate_limit_burst"`
}

// Storage contains the SQLite path and the upload staging directory.
type Storage struct {
	Path    string `toml:"path"`
	TempDir string `toml:"temp_dir"`
}

// UserService contains the user directory connection settings.
type UserService struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	JWTSecret      string `toml:"jwt_secret"`
}

// Predict contains the AI prediction server settings.
type Predict struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Records contains record handling defaults.
type Records struct {
	DefaultDeviceType string `toml:"default_device_type"`
	StreamPollSeconds int    `toml:"stream_poll_seconds"`
}

// Logging contains log output settings.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the full service configuration.
type Config struct {
	Server      Server      `toml:"server"`
	Storage     Storage     `toml:"storage"`
	UserService UserService `toml:"user_service"`
	Predict     Predict     `toml:"predict"`
	Records     Records     `toml:"records"`
	Logging     Logging     `toml:"logging"`
}

// Load builds the configuration. path may be empty, in which case only defaults
// and the environment are used.
func Load(path string) (*Config, error) {
	// .env 파일은 선택 사항
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	envString("RECORD_SERVER_BIND", &c.Server.Bind)
	envString("RECORD_GATEWAY_KEY", &c.Server.GatewayKey)
	envString("RECORD_DB_PATH", &c.Storage.Path)
	envString("RECORD_TEMP_DIR", &c.Storage.TempDir)
	envString("USER_SERVICE_URL", &c.UserService.BaseURL)
	envString("JWT_SECRET_KEY", &c.UserService.JWTSecret)
	envString("AI_SERVER_URL", &c.Predict.URL)
	envString("RECORD_DEFAULT_DEVICE_TYPE", &c.Records.DefaultDeviceType)
	envString("LOG_LEVEL", &c.Logging.Level)
	envString("LOG_FORMAT", &c.Logging.Format)

	if err := envInt("USER_SERVICE_TIMEOUT_SECONDS", &c.UserService.TimeoutSeconds); err != nil {
		return err
	}
	if err := envInt("AI_SERVER_TIMEOUT_SECONDS", &c.Predict.TimeoutSeconds); err != nil {
		return err
	}
	if err := envInt("RECORD_STREAM_POLL_SECONDS", &c.Records.StreamPollSeconds); err != nil {
		return err
	}
	if err := envInt("RECORD_RATE_LIMIT_BURST", &c.Server.RateLimitBurst); err != nil {
		return err
	}
	if raw, ok := os.LookupEnv("RECORD_RATE_LIMIT_PER_SECOND"); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("RECORD_RATE_LIMIT_PER_SECOND: %w", err)
		}
		c.Server.RateLimitPerSecond = v
	}
	return nil
}

func (c *Config) normalize() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	c.UserService.BaseURL = strings.TrimRight(strings.TrimSpace(c.UserService.BaseURL), "/")
	c.Predict.URL = strings.TrimSpace(c.Predict.URL)
	c.Records.DefaultDeviceType = strings.ToLower(strings.TrimSpace(c.Records.DefaultDeviceType))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Server.Bind == "" {
		return errors.New("server.bind must not be empty")
	}
	if c.Storage.Path == "" {
		return errors.New("storage.path must not be empty")
	}
	if c.UserService.BaseURL == "" {
		return errors.New("user_service.base_url must not be empty")
	}
	if c.Predict.URL == "" {
		return errors.New("predict.url must not be empty")
	}
	if c.UserService.TimeoutSeconds <= 0 {
		return errors.New("user_service.timeout_seconds must be positive")
	}
	if c.Predict.TimeoutSeconds <= 0 {
		return errors.New("predict.timeout_seconds must be positive")
	}
	if c.Records.StreamPollSeconds <= 0 {
		return errors.New("records.stream_poll_seconds must be positive")
	}
	if c.Server.RateLimitPerSecond < 0 || c.Server.RateLimitBurst < 0 {
		return errors.New("server rate limit values must not be negative")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

// UserServiceTimeout returns the user directory request timeout.
func (c *Config) UserServiceTimeout() time.Duration {
	return time.Duration(c.UserService.TimeoutSeconds) * time.Second
}

// PredictTimeout returns the AI server request timeout.
func (c *Config) PredictTimeout() time.Duration {
	return time.Duration(c.Predict.TimeoutSeconds) * time.Second
}

// StreamPollInterval returns how often the unchecked stream re-reads the store.
func (c *Config) StreamPollInterval() time.Duration {
	return time.Duration(c.Records.StreamPollSeconds) * time.Second
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) error {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = v
	return nil
}
