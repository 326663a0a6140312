// Package config holds the command line tool's settings and the story
// manifest.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. VIDEOSTORY_HTTP_TIMEOUT.
const EnvPrefix = "VIDEOSTORY"

// Config holds application configuration.
type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http"`
	Loader  LoaderConfig  `mapstructure:"loader"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Trace   TraceConfig   `mapstructure:"trace"`
	Scripts ScriptsConfig `mapstructure:"scripts"`
	Wait    WaitConfig    `mapstructure:"wait"`
}

// HTTPConfig holds client settings.
type HTTPConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
	BaseURL      string        `mapstructure:"base_url"`
	MaxRedirects int           `mapstructure:"max_redirects"`
}

// LoaderConfig holds resource loader settings.
type LoaderConfig struct {
	LocalPath string `mapstructure:"local_path"`
}

// CacheConfig holds response cache settings. Size 0 disables the cache.
type CacheConfig struct {
	Size int `mapstructure:"size"`
}

// TraceConfig holds the trace level: debug, info or error.
type TraceConfig struct {
	Level string `mapstructure:"level"`
}

// ScriptsConfig controls page script execution.
type ScriptsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// WaitConfig bounds how long the tool waits for story data.
type WaitConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load reads configuration from defaults, the file at path and the
// environment, in increasing priority. If path is empty, videostory.yaml
// in the working directory is read if present.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("http.user_agent", "videostory/1.0")
	v.SetDefault("http.base_url", "")
	v.SetDefault("http.max_redirects", 10)
	v.SetDefault("loader.local_path", "")
	v.SetDefault("cache.size", 0)
	v.SetDefault("trace.level", "error")
	v.SetDefault("scripts.enabled", true)
	v.SetDefault("wait.timeout", 30*time.Second)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("videostory")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Manifest lists the stories to mount into a page.
type Manifest struct {
	Stories []StoryEntry `yaml:"stories"`
}

// StoryEntry locates a placeholder by CSS selector and names its resources.
type StoryEntry struct {
	Selector         string            `yaml:"selector"`
	SpreadSheetPaths map[string]string `yaml:"spreadsheet_paths"`
}

// LoadManifest reads the story manifest at path. A missing file yields an
// empty manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return &Manifest{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Manifest{}, nil
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	for i, entry := range m.Stories {
		if strings.TrimSpace(entry.Selector) == "" {
			return nil, fmt.Errorf("manifest %s: story %d has no selector", path, i)
		}
	}
	return &m, nil
}
