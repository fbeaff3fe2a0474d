package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Auth     AuthConfig
	S3       S3Config
	CORS     CORSConfig
	Prompts  PromptsConfig
	Policy   PolicyConfig
	Limits   LimitsConfig
	Batch    BatchConfig
	Ollama   OllamaConfig
	TGI      TGIConfig
	OpenAI   OpenAIConfig
	Chain    ChainConfig
	Workflow WorkflowConfig
	Email    EmailConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// AuthConfig holds API authentication settings. Auth is disabled until a
// JWT secret or an API key hash is configured.
type AuthConfig struct {
	JWTSecret         string        `mapstructure:"jwt_secret"`
	AccessTokenExpiry time.Duration `mapstructure:"access_expiry"`
	Issuer            string        `mapstructure:"issuer"`
	APIKeyHash        string        `mapstructure:"api_key_hash"`
}

// Enabled reports whether request authentication should be enforced.
func (a *AuthConfig) Enabled() bool {
	return a.JWTSecret != "" || a.APIKeyHash != ""
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// PromptsConfig holds prompt template settings.
type PromptsConfig struct {
	Path string `mapstructure:"path"`
}

// PolicyConfig holds confidence threshold settings.
type PolicyConfig struct {
	HighThreshold   float64 `mapstructure:"high_threshold"`
	MediumThreshold float64 `mapstructure:"medium_threshold"`
}

// LimitsConfig holds upload size and batch size limits.
type LimitsConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
	MaxBatchFiles int   `mapstructure:"max_batch_files"`
}

// MaxFileSizeBytes returns the upload limit in bytes.
func (l *LimitsConfig) MaxFileSizeBytes() int64 {
	return l.MaxFileSizeMB * 1024 * 1024
}

// BatchConfig holds batch processing settings.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// OllamaConfig holds settings for the local ollama daemon backend.
type OllamaConfig struct {
	Host        string `mapstructure:"host"`
	Model       string `mapstructure:"model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// TGIConfig holds settings for the text-generation-inference backend. Model
// names the id served by the inference server; it is informational only
// (display names, meta endpoints), the server decides what it runs.
type TGIConfig struct {
	URL          string `mapstructure:"url"`
	Model        string `mapstructure:"model"`
	MaxNewTokens int    `mapstructure:"max_new_tokens"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// OpenAIConfig holds settings for the hosted OpenAI backend.
type OpenAIConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	BaseURL     string `mapstructure:"base_url"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// ChainConfig holds the backend fallback order.
type ChainConfig struct {
	Order []string `mapstructure:"order"`
}

// WorkflowConfig holds document workflow settings.
type WorkflowConfig struct {
	WebhookTimeoutSecs int    `mapstructure:"webhook_timeout_secs"`
	ReviewerEmail      string `mapstructure:"reviewer_email"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// Load reads configuration from environment variables with the SNAPDOCS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SNAPDOCS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults. The write timeout must cover a full backend chain in
	// the worst case (every backend timing out before the last one answers).
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "300s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "snapdocs")
	v.SetDefault("db.password", "snapdocs_secret")
	v.SetDefault("db.name", "snapdocs_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Auth defaults (disabled unless a secret or key hash is provided)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.access_expiry", "15m")
	v.SetDefault("auth.issuer", "snapdocs")
	v.SetDefault("auth.api_key_hash", "")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "snapdocs-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")

	// Prompt template defaults
	v.SetDefault("prompts.path", "prompts.yaml")

	// Confidence policy defaults
	v.SetDefault("policy.high_threshold", 0.8)
	v.SetDefault("policy.medium_threshold", 0.6)

	// Upload limits
	v.SetDefault("limits.max_file_size_mb", 10)
	v.SetDefault("limits.max_batch_files", 50)

	// Batch defaults
	v.SetDefault("batch.concurrency", 4)

	// Ollama defaults
	v.SetDefault("ollama.host", "http://localhost:11434")
	v.SetDefault("ollama.model", "llama2")
	v.SetDefault("ollama.timeout_secs", 30)

	// TGI defaults
	v.SetDefault("tgi.url", "http://localhost:8080")
	v.SetDefault("tgi.model", "microsoft/DialoGPT-medium")
	v.SetDefault("tgi.max_new_tokens", 200)
	v.SetDefault("tgi.timeout_secs", 60)

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", "gpt-4")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.timeout_secs", 120)

	// Chain defaults
	v.SetDefault("chain.order", "ollama,tgi,openai")

	// Workflow defaults
	v.SetDefault("workflow.webhook_timeout_secs", 30)
	v.SetDefault("workflow.reviewer_email", "")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@snapdocs.io")
	v.SetDefault("email.from_name", "SnapDocs")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                   "SNAPDOCS_SERVER_PORT",
		"server.read_timeout":           "SNAPDOCS_SERVER_READ_TIMEOUT",
		"server.write_timeout":          "SNAPDOCS_SERVER_WRITE_TIMEOUT",
		"server.environment":            "SNAPDOCS_SERVER_ENVIRONMENT",
		"db.host":                       "SNAPDOCS_DB_HOST",
		"db.port":                       "SNAPDOCS_DB_PORT",
		"db.user":                       "SNAPDOCS_DB_USER",
		"db.password":                   "SNAPDOCS_DB_PASSWORD",
		"db.name":                       "SNAPDOCS_DB_NAME",
		"db.sslmode":                    "SNAPDOCS_DB_SSLMODE",
		"db.max_open":                   "SNAPDOCS_DB_MAX_OPEN",
		"db.max_idle":                   "SNAPDOCS_DB_MAX_IDLE",
		"auth.jwt_secret":               "SNAPDOCS_AUTH_JWT_SECRET",
		"auth.access_expiry":            "SNAPDOCS_AUTH_ACCESS_EXPIRY",
		"auth.issuer":                   "SNAPDOCS_AUTH_ISSUER",
		"auth.api_key_hash":             "SNAPDOCS_AUTH_API_KEY_HASH",
		"s3.region":                     "SNAPDOCS_S3_REGION",
		"s3.bucket":                     "SNAPDOCS_S3_BUCKET",
		"s3.endpoint":                   "SNAPDOCS_S3_ENDPOINT",
		"s3.access_key":                 "SNAPDOCS_S3_ACCESS_KEY",
		"s3.secret_key":                 "SNAPDOCS_S3_SECRET_KEY",
		"s3.presign_expiry":             "SNAPDOCS_S3_PRESIGN_EXPIRY",
		"cors.allowed_origins":          "SNAPDOCS_CORS_ALLOWED_ORIGINS",
		"prompts.path":                  "SNAPDOCS_PROMPTS_PATH",
		"policy.high_threshold":         "SNAPDOCS_POLICY_HIGH_THRESHOLD",
		"policy.medium_threshold":       "SNAPDOCS_POLICY_MEDIUM_THRESHOLD",
		"limits.max_file_size_mb":       "SNAPDOCS_LIMITS_MAX_FILE_SIZE_MB",
		"limits.max_batch_files":        "SNAPDOCS_LIMITS_MAX_BATCH_FILES",
		"batch.concurrency":             "SNAPDOCS_BATCH_CONCURRENCY",
		"ollama.host":                   "SNAPDOCS_OLLAMA_HOST",
		"ollama.model":                  "SNAPDOCS_OLLAMA_MODEL",
		"ollama.timeout_secs":           "SNAPDOCS_OLLAMA_TIMEOUT_SECS",
		"tgi.url":                       "SNAPDOCS_TGI_URL",
		"tgi.model":                     "SNAPDOCS_TGI_MODEL",
		"tgi.max_new_tokens":            "SNAPDOCS_TGI_MAX_NEW_TOKENS",
		"tgi.timeout_secs":              "SNAPDOCS_TGI_TIMEOUT_SECS",
		"openai.api_key":                "SNAPDOCS_OPENAI_API_KEY",
		"openai.model":                  "SNAPDOCS_OPENAI_MODEL",
		"openai.base_url":               "SNAPDOCS_OPENAI_BASE_URL",
		"openai.timeout_secs":           "SNAPDOCS_OPENAI_TIMEOUT_SECS",
		"chain.order":                   "SNAPDOCS_CHAIN_ORDER",
		"workflow.webhook_timeout_secs": "SNAPDOCS_WORKFLOW_WEBHOOK_TIMEOUT_SECS",
		"workflow.reviewer_email":       "SNAPDOCS_WORKFLOW_REVIEWER_EMAIL",
		"email.provider":                "SNAPDOCS_EMAIL_PROVIDER",
		"email.region":                  "SNAPDOCS_EMAIL_REGION",
		"email.from_address":            "SNAPDOCS_EMAIL_FROM_ADDRESS",
		"email.from_name":               "SNAPDOCS_EMAIL_FROM_NAME",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if SNAPDOCS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SNAPDOCS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Auth = AuthConfig{
		JWTSecret:         v.GetString("auth.jwt_secret"),
		AccessTokenExpiry: v.GetDuration("auth.access_expiry"),
		Issuer:            v.GetString("auth.issuer"),
		APIKeyHash:        v.GetString("auth.api_key_hash"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Prompts = PromptsConfig{
		Path: v.GetString("prompts.path"),
	}
	cfg.Policy = PolicyConfig{
		HighThreshold:   v.GetFloat64("policy.high_threshold"),
		MediumThreshold: v.GetFloat64("policy.medium_threshold"),
	}
	cfg.Limits = LimitsConfig{
		MaxFileSizeMB: v.GetInt64("limits.max_file_size_mb"),
		MaxBatchFiles: v.GetInt("limits.max_batch_files"),
	}
	cfg.Batch = BatchConfig{
		Concurrency: v.GetInt("batch.concurrency"),
	}
	cfg.Ollama = OllamaConfig{
		Host:        v.GetString("ollama.host"),
		Model:       v.GetString("ollama.model"),
		TimeoutSecs: v.GetInt("ollama.timeout_secs"),
	}
	cfg.TGI = TGIConfig{
		URL:          v.GetString("tgi.url"),
		Model:        v.GetString("tgi.model"),
		MaxNewTokens: v.GetInt("tgi.max_new_tokens"),
		TimeoutSecs:  v.GetInt("tgi.timeout_secs"),
	}
	cfg.OpenAI = OpenAIConfig{
		APIKey:      v.GetString("openai.api_key"),
		Model:       v.GetString("openai.model"),
		BaseURL:     v.GetString("openai.base_url"),
		TimeoutSecs: v.GetInt("openai.timeout_secs"),
	}
	cfg.Chain = ChainConfig{
		Order: splitList(v.GetString("chain.order")),
	}
	cfg.Workflow = WorkflowConfig{
		WebhookTimeoutSecs: v.GetInt("workflow.webhook_timeout_secs"),
		ReviewerEmail:      v.GetString("workflow.reviewer_email"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate rejects configurations that would only fail at request time.
func (c *Config) validate() error {
	if c.Policy.HighThreshold < 0 || c.Policy.HighThreshold > 1 {
		return fmt.Errorf("policy.high_threshold %.2f out of range [0,1]", c.Policy.HighThreshold)
	}
	if c.Policy.MediumThreshold < 0 || c.Policy.MediumThreshold > 1 {
		return fmt.Errorf("policy.medium_threshold %.2f out of range [0,1]", c.Policy.MediumThreshold)
	}
	if c.Policy.MediumThreshold > c.Policy.HighThreshold {
		return fmt.Errorf("policy.medium_threshold %.2f exceeds high_threshold %.2f",
			c.Policy.MediumThreshold, c.Policy.HighThreshold)
	}
	if len(c.Chain.Order) == 0 {
		return fmt.Errorf("chain.order must name at least one backend")
	}
	if c.Limits.MaxFileSizeMB <= 0 {
		return fmt.Errorf("limits.max_file_size_mb must be positive, got %d", c.Limits.MaxFileSizeMB)
	}
	if c.Limits.MaxBatchFiles <= 0 {
		return fmt.Errorf("limits.max_batch_files must be positive, got %d", c.Limits.MaxBatchFiles)
	}
	if c.Batch.Concurrency <= 0 {
		return fmt.Errorf("batch.concurrency must be positive, got %d", c.Batch.Concurrency)
	}
	return nil
}

// splitList parses a comma-separated env value into trimmed entries.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
