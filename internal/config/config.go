// Package config implements the runtime's layered configuration
// loader: built-in defaults, an optional YAML file, then environment
// variables, each layer overriding the last, built on spf13/viper.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// RuntimeConfig is the resolved configuration for one process lifetime.
type RuntimeConfig struct {
	LLMModel             string        `mapstructure:"llm_model"`
	LLMCacheSize         int           `mapstructure:"llm_cache_size"`
	LLMCacheTTL          time.Duration `mapstructure:"llm_cache_ttl"`
	DefaultMaxIterations int64         `mapstructure:"default_max_iterations"`
	ToolMaxConcurrent    int           `mapstructure:"tool_max_concurrent"`
	MemoryMaxTokens      int           `mapstructure:"memory_max_tokens"`
	LogLevel             string        `mapstructure:"log_level"`
	MetricsEnabled       bool          `mapstructure:"metrics_enabled"`
	TracingEnabled       bool          `mapstructure:"tracing_enabled"`
	CallTimeout          time.Duration `mapstructure:"call_timeout"`
}

// ValueSource records which layer a resolved field ultimately came
// from, surfaced by `sexprt config` for debugging.
type ValueSource string

const (
	SourceDefault ValueSource = "default"
	SourceFile    ValueSource = "file"
	SourceEnv     ValueSource = "env"
)

func defaults() map[string]any {
	return map[string]any{
		"llm_model":              "default",
		"llm_cache_size":         256,
		"llm_cache_ttl":          10 * time.Minute,
		"default_max_iterations": int64(10),
		"tool_max_concurrent":    4,
		"memory_max_tokens":      2048,
		"log_level":              "info",
		"metrics_enabled":        true,
		"tracing_enabled":        true,
		"call_timeout":           30 * time.Second,
	}
}

// Load builds a RuntimeConfig from defaults, an optional YAML file at
// path (skipped if path is empty or the file doesn't exist), and
// SEXPRT_-prefixed environment variables, in that ascending order of
// precedence.
func Load(path string) (RuntimeConfig, error) {
	v, err := buildViper(path)
	if err != nil {
		return RuntimeConfig{}, err
	}
	var cfg RuntimeConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

func buildViper(path string) (*viper.Viper, error) {
	v := viper.New()
	for k, val := range defaults() {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix("SEXPRT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		}
	}
	return v, nil
}

// Explain reports, for every known key, the resolved value and which
// layer it came from. Env always wins when set, then the file, then
// the built-in default.
func Explain(path string) (map[string]any, map[string]ValueSource, error) {
	v, err := buildViper(path)
	if err != nil {
		return nil, nil, err
	}
	values := make(map[string]any)
	sources := make(map[string]ValueSource)
	for key := range defaults() {
		values[key] = v.Get(key)
		switch {
		case os.Getenv("SEXPRT_"+strings.ToUpper(key)) != "":
			sources[key] = SourceEnv
		case v.InConfig(key):
			sources[key] = SourceFile
		default:
			sources[key] = SourceDefault
		}
	}
	return values, sources, nil
}
