package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "default", cfg.LLMModel)
	require.Equal(t, int64(10), cfg.DefaultMaxIterations)
	require.Equal(t, 30*time.Second, cfg.CallTimeout)
}

func TestLoadEnvOverridesDefault(t *testing.T) {
	t.Setenv("SEXPRT_LLM_MODEL", "gpt-stub")
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "gpt-stub", cfg.LLMModel)
}

func TestLoadFileOverridesDefault(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "sexprt-*.yaml")
	require.NoError(t, err)
	_, err = f.WriteString("log_level: debug\ntool_max_concurrent: 8\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	cfg, err := Load(f.Name())
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 8, cfg.ToolMaxConcurrent)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	cfg, err := Load("/nonexistent/path/sexprt.yaml")
	require.NoError(t, err)
	require.Equal(t, "default", cfg.LLMModel)
}

func TestExplainReportsValueSources(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "sexprt-*.yaml")
	require.NoError(t, err)
	_, err = f.WriteString("log_level: debug\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	t.Setenv("SEXPRT_LLM_MODEL", "env-model")

	values, sources, err := Explain(f.Name())
	require.NoError(t, err)
	require.Equal(t, SourceEnv, sources["llm_model"])
	require.Equal(t, "env-model", values["llm_model"])
	require.Equal(t, SourceFile, sources["log_level"])
	require.Equal(t, SourceDefault, sources["metrics_enabled"])
}
