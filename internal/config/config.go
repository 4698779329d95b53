package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"aiupstart.com/go-improve/internal/utils"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// LLMConfig selects and configures the upstream model.
type LLMConfig struct {
	Provider string        `yaml:"provider" json:"provider"`
	Model    string        `yaml:"model" json:"model"`
	APIKey   string        `yaml:"api_key" json:"-"`
	BaseURL  string        `yaml:"base_url" json:"base_url"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr" json:"addr"`
	MetricsAddr string `yaml:"metrics_addr" json:"metrics_addr"` // empty: /metrics on Addr
	MaxBodySize int64  `yaml:"max_body_size" json:"max_body_size"`
}

type LogConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

type Config struct {
	LLM    LLMConfig    `yaml:"llm" json:"llm"`
	Server ServerConfig `yaml:"server" json:"server"`
	Log    LogConfig    `yaml:"log" json:"log"`
}

// Default returns the configuration used when nothing else is set. The address
// matches the port the editor extension talks to.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: ProviderGemini,
			Timeout:  60 * time.Second,
		},
		Server: ServerConfig{
			Addr:        ":8000",
			MaxBodySize: 1 << 20,
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultModel returns the model used for a provider when none is configured.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o"
	default:
		return "gemini-2.0-flash"
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment (a .env file is loaded first if present). Later sources win.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // Loads .env file if present

	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = DefaultModel(cfg.LLM.Provider)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = strings.ToLower(v)
	}
	if v := getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := getenv("LLM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("LLM_TIMEOUT: %w", err)
		}
		c.LLM.Timeout = d
	}
	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case ProviderGemini:
			c.LLM.APIKey = getenv("GEMINI_API_KEY")
		case ProviderOpenAI:
			c.LLM.APIKey = getenv("OPENAI_API_KEY")
		}
	}
	if v := getenv("IMPROVE_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getenv("IMPROVE_METRICS_ADDR"); v != "" {
		c.Server.MetricsAddr = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("LOG_FILE"); v != "" {
		c.Log.File = v
	}
	return nil
}

// Validate reports every problem in the logs and returns a single error if any
// were found.
func (c *Config) Validate() error {
	hasErr := false
	report := func(field, msg string) {
		utils.Logger.Error().Str("module", "config").Str("field", field).Msg(msg)
		hasErr = true
	}
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		report("llm.provider", fmt.Sprintf("unknown provider %q", c.LLM.Provider))
	}
	if c.LLM.APIKey == "" {
		report("llm.api_key", "missing API key (set GEMINI_API_KEY or OPENAI_API_KEY)")
	}
	if c.LLM.Timeout <= 0 {
		report("llm.timeout", "timeout must be positive")
	}
	if c.Server.Addr == "" {
		report("server.addr", "listen address is required")
	}
	if c.Server.MaxBodySize <= 0 {
		report("server.max_body_size", "max body size must be positive")
	}
	if hasErr {
		return errors.New("invalid config: see above errors")
	}
	return nil
}
