package ner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labelsOf(entities []Entity) map[string][]string {
	out := make(map[string][]string)
	for _, e := range entities {
		out[e.Label] = append(out[e.Label], e.Text)
	}
	return out
}

func TestRuleRecognizer(t *testing.T) {
	r := NewRuleRecognizer(RuleConfig{})

	tests := []struct {
		name     string
		text     string
		products []string
	}{
		{
			name:     "no product in boilerplate",
			text:     "Filed: 2024-02-01 AccNo: 0000320193-24-000005 Size: 27 KB Item 2.02: Results of Operations and Financial Condition",
			products: nil,
		},
		{
			name:     "launch trigger",
			text:     "Acme Corp. today announced the launch of WidgetPro, its new analytics suite.",
			products: []string{"WidgetPro"},
		},
		{
			name:     "trigger with article and model number",
			text:     "The company introduced the Gizmo X2 for enterprise customers.",
			products: []string{"Gizmo X2"},
		},
		{
			name:     "trademark mark",
			text:     "Sales of Zephyr Max™ grew while StreamBox (TM) was discontinued.",
			products: []string{"Zephyr Max", "StreamBox"},
		},
		{
			name:     "leading noise trimmed",
			text:     "Today WidgetPro® became generally available.",
			products: []string{"WidgetPro"},
		},
		{
			name:     "filing terms are not products",
			text:     "The registrant released Item 7.01 and Exhibit 99.1.",
			products: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entities, err := r.Recognize(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.products, labelsOf(entities)[LabelProduct])
		})
	}
}

func TestRuleRecognizerOtherLabels(t *testing.T) {
	r := NewRuleRecognizer(RuleConfig{})

	entities, err := r.Recognize(context.Background(), "On March 3, 2024, Acme Corp. agreed to pay $1.5 million.")
	require.NoError(t, err)

	labels := labelsOf(entities)
	assert.Equal(t, []string{"March 3, 2024"}, labels[LabelDate])
	assert.Equal(t, []string{"Acme Corp."}, labels[LabelOrg])
	assert.Equal(t, []string{"$1.5 million"}, labels[LabelMoney])
	assert.Empty(t, labels[LabelProduct])

	for i := 1; i < len(entities); i++ {
		assert.LessOrEqual(t, entities[i-1].End, entities[i].Start)
	}
}

func TestRuleRecognizerGazetteer(t *testing.T) {
	r := NewRuleRecognizer(RuleConfig{Products: []string{"Acme Cloud", "Acme Cloud Pro", " "}})

	text := "Customers moved to Acme Cloud Pro from Acme Cloud."
	entities, err := r.Recognize(context.Background(), text)
	require.NoError(t, err)

	products := labelsOf(entities)[LabelProduct]
	assert.Equal(t, []string{"Acme Cloud Pro", "Acme Cloud"}, products)
	for _, e := range entities {
		assert.Equal(t, e.Text, text[e.Start:e.End])
	}
}

func TestRuleRecognizerCustomTrigger(t *testing.T) {
	r := NewRuleRecognizer(RuleConfig{Triggers: []string{`shipp(?:ed|ing)`}})

	entities, err := r.Recognize(context.Background(), "The firm shipped Nimbus 3 to partners.")
	require.NoError(t, err)
	assert.Equal(t, "Nimbus 3", FirstProduct(entities))
}

func TestRuleRecognizerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRuleRecognizer(RuleConfig{}).Recognize(ctx, "WidgetPro®")
	assert.ErrorIs(t, err, context.Canceled)
}
