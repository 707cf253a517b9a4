package config

import (
	"fmt"
	"net/url"
	"strings"
)

// MaxDescriptionLimit caps product descriptions in every output row.
const MaxDescriptionLimit = 180

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate SEC config
	if strings.TrimSpace(c.SEC.UserAgent) == "" {
		errors = append(errors, ValidationError{
			Field:   "sec.user_agent",
			Message: "an identifying User-Agent is required by SEC",
		})
	}

	if !isHTTPURL(c.SEC.TickersURL) {
		errors = append(errors, ValidationError{
			Field:   "sec.tickers_url",
			Message: "invalid tickers URL",
		})
	}

	if !isHTTPURL(c.SEC.FeedURL) {
		errors = append(errors, ValidationError{
			Field:   "sec.feed_url",
			Message: "invalid feed URL",
		})
	} else if !strings.Contains(c.SEC.FeedURL, "{cik}") {
		errors = append(errors, ValidationError{
			Field:   "sec.feed_url",
			Message: "feed URL must contain the {cik} placeholder",
		})
	}

	if c.SEC.MaxDocs < 1 || c.SEC.MaxDocs > 100 {
		errors = append(errors, ValidationError{
			Field:   "sec.max_docs",
			Message: "max_docs must be between 1 and 100",
		})
	}

	if c.SEC.CompanyLimit == 0 {
		errors = append(errors, ValidationError{
			Field:   "sec.company_limit",
			Message: "company_limit must be positive, or negative for no limit",
		})
	}

	if c.SEC.Timeout <= 0 {
		errors = append(errors, ValidationError{
			Field:   "sec.timeout",
			Message: "timeout must be positive",
		})
	}

	// Validate Extractor config
	switch c.Extractor.Kind {
	case "rules":
	case "llm":
		if !isHTTPURL(c.LLM.BaseURL) {
			errors = append(errors, ValidationError{
				Field:   "llm.base_url",
				Message: "Ollama base URL is required for the llm extractor",
			})
		}
		if c.LLM.Model == "" {
			errors = append(errors, ValidationError{
				Field:   "llm.model",
				Message: "model is required for the llm extractor",
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "extractor.kind",
			Message: fmt.Sprintf("unknown extractor %q, expected rules or llm", c.Extractor.Kind),
		})
	}

	if c.Extractor.DescriptionLimit < 1 || c.Extractor.DescriptionLimit > MaxDescriptionLimit {
		errors = append(errors, ValidationError{
			Field:   "extractor.description_limit",
			Message: fmt.Sprintf("description_limit must be between 1 and %d", MaxDescriptionLimit),
		})
	}

	for _, p := range c.Extractor.Products {
		if strings.TrimSpace(p) == "" {
			errors = append(errors, ValidationError{
				Field:   "extractor.products",
				Message: "product names must not be blank",
			})
			break
		}
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	// Validate Database config
	if c.Database.URL != "" {
		if _, err := url.Parse(c.Database.URL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "database.url",
				Message: "invalid database URL",
			})
		}

		if c.Database.VectorDim < 1 {
			errors = append(errors, ValidationError{
				Field:   "database.vector_dim",
				Message: "vector_dim must be positive",
			})
		}

		if c.Database.BatchSize < 1 {
			errors = append(errors, ValidationError{
				Field:   "database.batch_size",
				Message: "batch_size must be positive",
			})
		}
	}

	if c.Output.Path == "" {
		errors = append(errors, ValidationError{
			Field:   "output.path",
			Message: "output path is required",
		})
	}

	return errors
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
