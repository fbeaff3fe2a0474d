package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapdocs/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 300*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "development", cfg.Server.Environment)

	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Contains(t, cfg.DB.DSN(), "postgres://")
	assert.Contains(t, cfg.DB.DSN(), "sslmode=disable")

	assert.False(t, cfg.Auth.Enabled())

	assert.Equal(t, 0.8, cfg.Policy.HighThreshold)
	assert.Equal(t, 0.6, cfg.Policy.MediumThreshold)

	assert.Equal(t, int64(10), cfg.Limits.MaxFileSizeMB)
	assert.Equal(t, int64(10*1024*1024), cfg.Limits.MaxFileSizeBytes())
	assert.Equal(t, 50, cfg.Limits.MaxBatchFiles)
	assert.Equal(t, 4, cfg.Batch.Concurrency)

	assert.Equal(t, []string{"ollama", "tgi", "openai"}, cfg.Chain.Order)
	assert.Equal(t, "llama2", cfg.Ollama.Model)
	assert.Equal(t, "microsoft/DialoGPT-medium", cfg.TGI.Model)
	assert.Equal(t, "gpt-4", cfg.OpenAI.Model)

	assert.Equal(t, "prompts.yaml", cfg.Prompts.Path)
	assert.Equal(t, "noop", cfg.Email.Provider)
	assert.Contains(t, cfg.CORS.AllowedOrigins, "http://localhost:3000")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SNAPDOCS_SERVER_PORT", ":9999")
	t.Setenv("SNAPDOCS_DB_HOST", "db.internal")
	t.Setenv("SNAPDOCS_CHAIN_ORDER", "openai")
	t.Setenv("SNAPDOCS_OLLAMA_MODEL", "mistral")
	t.Setenv("SNAPDOCS_POLICY_HIGH_THRESHOLD", "0.9")
	t.Setenv("SNAPDOCS_LIMITS_MAX_BATCH_FILES", "5")
	t.Setenv("SNAPDOCS_AUTH_JWT_SECRET", "s3cret")
	t.Setenv("SNAPDOCS_CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, []string{"openai"}, cfg.Chain.Order)
	assert.Equal(t, "mistral", cfg.Ollama.Model)
	assert.Equal(t, 0.9, cfg.Policy.HighThreshold)
	assert.Equal(t, 5, cfg.Limits.MaxBatchFiles)
	assert.True(t, cfg.Auth.Enabled())
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PlatformPortFallback(t *testing.T) {
	t.Setenv("PORT", "7777")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Server.Port)
}

func TestLoad_ExplicitPortBeatsPlatformPort(t *testing.T) {
	t.Setenv("PORT", "7777")
	t.Setenv("SNAPDOCS_SERVER_PORT", ":9999")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Port)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		wants string
	}{
		{
			name:  "threshold out of range",
			env:   map[string]string{"SNAPDOCS_POLICY_HIGH_THRESHOLD": "1.5"},
			wants: "high_threshold",
		},
		{
			name: "medium above high",
			env: map[string]string{
				"SNAPDOCS_POLICY_HIGH_THRESHOLD":   "0.5",
				"SNAPDOCS_POLICY_MEDIUM_THRESHOLD": "0.7",
			},
			wants: "exceeds",
		},
		{
			name:  "empty chain",
			env:   map[string]string{"SNAPDOCS_CHAIN_ORDER": " , "},
			wants: "chain.order",
		},
		{
			name:  "zero file size limit",
			env:   map[string]string{"SNAPDOCS_LIMITS_MAX_FILE_SIZE_MB": "0"},
			wants: "max_file_size_mb",
		},
		{
			name:  "zero concurrency",
			env:   map[string]string{"SNAPDOCS_BATCH_CONCURRENCY": "0"},
			wants: "concurrency",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := config.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wants)
		})
	}
}
