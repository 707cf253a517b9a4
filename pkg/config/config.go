package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/xhad/eightk/pkg/edgar"
	"gopkg.in/yaml.v3"
)

const (
	DefaultUserAgent  = "eightk/1.0 (contact@example.com)"
	DefaultTickersURL = edgar.DefaultTickersURL
	DefaultFeedURL    = edgar.DefaultFeedURL
)

type Config struct {
	SEC       SECConfig       `yaml:"sec"`
	Extractor ExtractorConfig `yaml:"extractor"`
	LLM       LLMConfig       `yaml:"llm"`
	Database  DatabaseConfig  `yaml:"database"`
	Output    OutputConfig    `yaml:"output"`
}

type SECConfig struct {
	UserAgent    string        `yaml:"user_agent"`
	TickersURL   string        `yaml:"tickers_url"`
	FeedURL      string        `yaml:"feed_url"`
	FormType     string        `yaml:"form_type"`
	MaxDocs      int           `yaml:"max_docs"`
	CompanyLimit int           `yaml:"company_limit"` // negative means every company in the directory
	Timeout      time.Duration `yaml:"timeout"`
}

type ExtractorConfig struct {
	Kind             string   `yaml:"kind"` // "rules" or "llm"
	DescriptionLimit int      `yaml:"description_limit"`
	Products         []string `yaml:"products"`
}

type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	EmbedModel  string  `yaml:"embed_model"`
	Temperature float64 `yaml:"temperature"`
}

type DatabaseConfig struct {
	URL       string `yaml:"url"`
	TableName string `yaml:"table_name"`
	VectorDim int    `yaml:"vector_dim"`
	BatchSize int    `yaml:"batch_size"`
}

type OutputConfig struct {
	Path string `yaml:"path"`
}

func LoadConfig(path string) (*Config, error) {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/eightk/config.yaml"),
			"/etc/eightk/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Merge with environment variables
	mergeWithEnv(&config)

	// Apply defaults for unset values
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	applyDefaults(config)
	mergeWithEnv(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.SEC.UserAgent == "" {
		config.SEC.UserAgent = DefaultUserAgent
	}
	if config.SEC.TickersURL == "" {
		config.SEC.TickersURL = DefaultTickersURL
	}
	if config.SEC.FeedURL == "" {
		config.SEC.FeedURL = DefaultFeedURL
	}
	if config.SEC.FormType == "" {
		config.SEC.FormType = "8-K"
	}
	if config.SEC.MaxDocs == 0 {
		config.SEC.MaxDocs = 100
	}
	if config.SEC.CompanyLimit == 0 {
		config.SEC.CompanyLimit = 5
	}
	if config.SEC.Timeout == 0 {
		config.SEC.Timeout = 10 * time.Second
	}

	if config.Extractor.Kind == "" {
		config.Extractor.Kind = "rules"
	}
	if config.Extractor.DescriptionLimit == 0 {
		config.Extractor.DescriptionLimit = 180
	}

	if config.LLM.BaseURL == "" {
		config.LLM.BaseURL = "http://localhost:11434"
	}
	if config.LLM.Model == "" {
		config.LLM.Model = "mistral"
	}
	if config.LLM.Temperature == 0 {
		config.LLM.Temperature = 0.1
	}

	if config.Database.TableName == "" {
		config.Database.TableName = "extracted_filings"
	}
	if config.Database.VectorDim == 0 {
		config.Database.VectorDim = 768
	}
	if config.Database.BatchSize == 0 {
		config.Database.BatchSize = 100
	}

	if config.Output.Path == "" {
		config.Output.Path = "extracted_data.csv"
	}
}

func mergeWithEnv(config *Config) {
	if ua := os.Getenv("SEC_USER_AGENT"); ua != "" {
		config.SEC.UserAgent = ua
	}
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Database.URL = dbURL
	}
}
