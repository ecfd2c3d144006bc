// Package config loads Prompt Mirror settings from defaults, an optional
// YAML file and PROMPT_MIRROR_* environment variables, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/HendryAvila/prompt-mirror/internal/remote"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "PROMPT_MIRROR"

// DirName is the per-user directory holding config and presets.
const DirName = ".prompt-mirror"

// Config is the full runtime configuration.
type Config struct {
	MaxInputChars int           `mapstructure:"max_input_chars" yaml:"max_input_chars"`
	Remote        remote.Config `mapstructure:"remote" yaml:"remote"`
	HTTP          HTTPConfig    `mapstructure:"http" yaml:"http"`
	Presets       PresetsConfig `mapstructure:"presets" yaml:"presets"`
	Log           LogConfig     `mapstructure:"log" yaml:"log"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

type PresetsConfig struct {
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// SetDefaults registers every key with its default value. Keys without a
// default are invisible to environment overrides.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("max_input_chars", 2000)

	v.SetDefault("remote.enabled", false)
	v.SetDefault("remote.provider", remote.ProviderOpenAI)
	v.SetDefault("remote.model", "gpt-4o-mini")
	v.SetDefault("remote.api_key", "")
	v.SetDefault("remote.base_url", "")
	v.SetDefault("remote.temperature", 0.1)
	v.SetDefault("remote.timeout", 20*time.Second)
	v.SetDefault("remote.max_attempts", 2)
	v.SetDefault("remote.retry_delay", 500*time.Millisecond)
	v.SetDefault("remote.max_prompt_tokens", 512)
	v.SetDefault("remote.cache_size", 128)

	v.SetDefault("http.addr", "127.0.0.1:8080")
	v.SetDefault("presets.data_dir", filepath.Join("~", DirName))
	v.SetDefault("log.level", "info")
}

// DefaultPath returns ~/.prompt-mirror/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, DirName, "config.yaml"), nil
}

// Load reads configuration. An explicit path must exist; when path is
// empty the default file is read only if present.
func Load(path string) (*Config, error) {
	return LoadWith(viper.New(), path)
}

// LoadWith is Load on a caller-supplied viper instance, so command-line
// flags bound to v take precedence over everything else.
func LoadWith(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("remote.model", EnvPrefix+"_REMOTE_MODEL", EnvPrefix+"_MODEL"); err != nil {
		return nil, fmt.Errorf("binding model env: %w", err)
	}

	if path == "" {
		if def, err := DefaultPath(); err == nil {
			if _, statErr := os.Stat(def); statErr == nil {
				path = def
			}
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if cfg.Remote.APIKey == "" {
		cfg.Remote.APIKey = providerKey(cfg.Remote.Provider)
	}
	dir, err := expandHome(cfg.Presets.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.Presets.DataDir = dir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no component can work with.
func (c *Config) Validate() error {
	var errs []error
	if c.MaxInputChars <= 0 {
		errs = append(errs, fmt.Errorf("max_input_chars must be positive, got %d", c.MaxInputChars))
	}
	switch c.Remote.Provider {
	case remote.ProviderOpenAI, remote.ProviderGemini:
	default:
		errs = append(errs, fmt.Errorf("remote.provider must be %q or %q, got %q",
			remote.ProviderOpenAI, remote.ProviderGemini, c.Remote.Provider))
	}
	if c.Remote.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("remote.timeout must be positive, got %s", c.Remote.Timeout))
	}
	if c.Remote.Temperature < 0 || c.Remote.Temperature > 2 {
		errs = append(errs, fmt.Errorf("remote.temperature must be within [0,2], got %v", c.Remote.Temperature))
	}
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr must not be empty"))
	}
	return errors.Join(errs...)
}

// providerKey falls back to the provider's conventional key variable.
func providerKey(provider string) string {
	switch provider {
	case remote.ProviderGemini:
		return os.Getenv("GEMINI_API_KEY")
	default:
		return os.Getenv("OPENAI_API_KEY")
	}
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
