package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"
	"github.com/xhad/eightk/pkg/ner"
)

const defaultSystemTemplate = `You are a named-entity recognizer for SEC filing summaries.
Return only JSON of the form {"entities":[{"text":"...","label":"..."}]}.
Labels: PRODUCT, ORG, PERSON, DATE, MONEY.
Copy each entity text exactly as it appears in the input, in order of appearance.`

// RecognizerConfig represents the configuration for an LLM entity recognizer.
type RecognizerConfig struct {
	Model          string
	Temperature    float64
	MaxTokens      int
	SystemTemplate string
	BaseURL        string // Ollama server URL
}

// EntityRecognizer asks a language model to tag entities in filing text.
type EntityRecognizer struct {
	config RecognizerConfig
	llm    llms.Model
}

// NewWithConfig creates an EntityRecognizer backed by an Ollama server.
func NewWithConfig(config RecognizerConfig) (*EntityRecognizer, error) {
	config, err := withDefaults(config)
	if err != nil {
		return nil, err
	}

	llm, err := ollama.New(ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return &EntityRecognizer{
		config: config,
		llm:    llm,
	}, nil
}

// NewWithModel wraps an already constructed model.
func NewWithModel(model llms.Model, config RecognizerConfig) (*EntityRecognizer, error) {
	if model == nil {
		return nil, fmt.Errorf("model is required")
	}
	config, err := withDefaults(config)
	if err != nil {
		return nil, err
	}
	return &EntityRecognizer{config: config, llm: model}, nil
}

func withDefaults(config RecognizerConfig) (RecognizerConfig, error) {
	if config.Model == "" {
		config.Model = "mistral" // Default Ollama model
	}
	if config.Temperature < 0 || config.Temperature > 2 {
		return config, fmt.Errorf("temperature must be between 0 and 2")
	}
	if config.MaxTokens < 0 {
		return config, fmt.Errorf("max tokens cannot be negative")
	} else if config.MaxTokens == 0 {
		config.MaxTokens = 512
	}
	if config.SystemTemplate == "" {
		config.SystemTemplate = defaultSystemTemplate
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434" // Default Ollama URL
	}
	return config, nil
}

type entityReply struct {
	Entities []struct {
		Text  string `json:"text"`
		Label string `json:"label"`
	} `json:"entities"`
}

// Recognize implements ner.Recognizer.
func (r *EntityRecognizer) Recognize(ctx context.Context, text string) ([]ner.Entity, error) {
	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, r.config.SystemTemplate),
		llms.TextParts(schema.ChatMessageTypeHuman, text),
	}

	response, err := r.llm.GenerateContent(ctx, content,
		llms.WithTemperature(r.config.Temperature),
		llms.WithMaxTokens(r.config.MaxTokens),
	)
	if err != nil {
		return nil, fmt.Errorf("entity recognition error: %w", err)
	}
	if response == nil || len(response.Choices) == 0 || response.Choices[0] == nil {
		return nil, fmt.Errorf("entity recognition error: no response from LLM")
	}

	reply, err := parseReply(response.Choices[0].Content)
	if err != nil {
		return nil, err
	}

	return locate(text, reply), nil
}

func parseReply(raw string) (entityReply, error) {
	var reply entityReply

	// Models like to wrap JSON in prose or code fences
	if i, j := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); i >= 0 && j > i {
		raw = raw[i : j+1]
	}

	if err := json.Unmarshal([]byte(raw), &reply); err == nil {
		return reply, nil
	}

	repaired, err := jsonrepair.RepairJSON(raw)
	if err != nil {
		return reply, fmt.Errorf("failed to repair entity JSON: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), &reply); err != nil {
		return reply, fmt.Errorf("failed to parse entity JSON: %w", err)
	}
	return reply, nil
}

// locate anchors each reported entity to its position in text. Entities the
// model invented, or that do not appear verbatim, are dropped.
func locate(text string, reply entityReply) []ner.Entity {
	var candidates []ner.Entity
	from := make(map[string]int)

	for _, e := range reply.Entities {
		name := strings.TrimSpace(e.Text)
		if name == "" {
			continue
		}
		offset := from[name]
		idx := strings.Index(text[offset:], name)
		if idx < 0 {
			continue
		}
		start := offset + idx
		from[name] = start + len(name)

		candidates = append(candidates, ner.Entity{
			Text:  name,
			Label: normalizeLabel(e.Label),
			Start: start,
			End:   start + len(name),
		})
	}

	return ner.Resolve(candidates)
}

func normalizeLabel(label string) string {
	label = strings.ToUpper(strings.TrimSpace(label))
	switch label {
	case "ORGANIZATION", "ORGANISATION", "COMPANY":
		return ner.LabelOrg
	case "PRODUCTS":
		return ner.LabelProduct
	}
	return label
}
