package ner

import (
	"context"
	"log"

	"github.com/xhad/eightk/pkg/processor"
)

type ExtractorConfig struct {
	Recognizer       Recognizer
	DescriptionLimit int
}

// Extractor applies a Recognizer to cleaned text and keeps the first product.
type Extractor struct {
	config ExtractorConfig
}

func NewWithConfig(config ExtractorConfig) *Extractor {
	if config.Recognizer == nil {
		config.Recognizer = NewRuleRecognizer(RuleConfig{})
	}
	if config.DescriptionLimit <= 0 || config.DescriptionLimit > processor.MaxDescriptionLength {
		config.DescriptionLimit = processor.MaxDescriptionLength
	}

	return &Extractor{
		config: config,
	}
}

func New() *Extractor {
	return NewWithConfig(ExtractorConfig{})
}

// Extract returns the first product mentioned in text and the truncated
// description. A recognizer failure leaves the product empty.
func (e *Extractor) Extract(ctx context.Context, text string) (string, string) {
	description := processor.Truncate(text, e.config.DescriptionLimit)
	if text == "" {
		return "", description
	}

	entities, err := e.config.Recognizer.Recognize(ctx, text)
	if err != nil {
		log.Printf("Error recognizing entities: %v", err)
		return "", description
	}

	return FirstProduct(entities), description
}
