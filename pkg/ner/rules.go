package ner

import (
	"context"
	"regexp"
	"sort"
	"strings"
)

const (
	// A capitalised token: any alphanumeric run containing an upper-case letter.
	capToken = `[A-Za-z0-9]*[A-Z][A-Za-z0-9+\-]*`
	numToken = `[0-9]+[A-Za-z]*`
	capSpan  = capToken + `(?:[ \t]+(?:` + capToken + `|` + numToken + `)){0,5}`
)

var defaultTriggers = []string{
	`launch(?:ed|es|ing)?[ \t]+of`,
	`launch(?:ed|es|ing)?`,
	`introduc(?:ed|es|ing)`,
	`unveil(?:ed|s|ing)?`,
	`releas(?:ed|es|ing)`,
	`debut(?:ed|s|ing)?`,
	`roll(?:ed|s|ing)?[ \t]+out`,
}

// Leading words that are capitalised by position, not because they name something.
var leadingNoise = map[string]bool{
	"A": true, "An": true, "The": true, "Our": true, "Its": true, "Their": true,
	"This": true, "That": true, "Today": true, "On": true, "In": true,
}

// Capitalised spans that a filing uses for its own structure.
var filingTerms = map[string]bool{
	"Item": true, "Form": true, "Exhibit": true, "Section": true, "Results": true,
	"Report": true, "Agreement": true, "Amendment": true, "Board": true,
}

type RuleConfig struct {
	Products []string // known product names, matched verbatim
	Triggers []string // extra launch verbs, as regular expressions
}

type rule struct {
	label string
	re    *regexp.Regexp
	group int
	span  bool // result is a capitalised span that may need its noise trimmed
}

// RuleRecognizer is an offline recognizer driven by a gazetteer and
// surface patterns.
type RuleRecognizer struct {
	rules []rule
}

func NewRuleRecognizer(config RuleConfig) *RuleRecognizer {
	var rules []rule

	if re := gazetteer(config.Products); re != nil {
		rules = append(rules, rule{label: LabelProduct, re: re, group: 1})
	}

	rules = append(rules, rule{
		label: LabelProduct,
		re:    regexp.MustCompile(`(` + capSpan + `)[ \t]?(?:™|®|\(TM\)|\(R\))`),
		group: 1,
		span:  true,
	})

	triggers := append([]string{}, defaultTriggers...)
	triggers = append(triggers, config.Triggers...)
	rules = append(rules, rule{
		label: LabelProduct,
		re: regexp.MustCompile(`(?i:\b(?:` + strings.Join(triggers, "|") + `))[ \t]+` +
			`(?:(?i:the|its|a|an|our|their|new|next-generation)[ \t]+)*(` + capSpan + `)`),
		group: 1,
		span:  true,
	})

	rules = append(rules,
		rule{
			label: LabelOrg,
			re:    regexp.MustCompile(`(` + capSpan + `,?[ \t]+(?:Inc|Corp|Corporation|Company|Co|LLC|Ltd|plc|Holdings|Group)\b\.?)`),
			group: 1,
			span:  true,
		},
		rule{
			label: LabelDate,
			re: regexp.MustCompile(`(\b(?:January|February|March|April|May|June|July|August|September|October|November|December)` +
				`[ \t]+\d{1,2},?[ \t]+\d{4}\b|\b\d{4}-\d{2}-\d{2}\b)`),
			group: 1,
		},
		rule{
			label: LabelMoney,
			re:    regexp.MustCompile(`(\$[ \t]?\d[\d,]*(?:\.\d+)?(?:[ \t]+(?:thousand|million|billion))?)`),
			group: 1,
		},
	)

	return &RuleRecognizer{rules: rules}
}

func (r *RuleRecognizer) Recognize(ctx context.Context, text string) ([]Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var candidates []Entity
	for _, rl := range r.rules {
		for _, loc := range rl.re.FindAllStringSubmatchIndex(text, -1) {
			start, end := loc[2*rl.group], loc[2*rl.group+1]
			if start < 0 {
				continue
			}
			e := Entity{Text: text[start:end], Label: rl.label, Start: start, End: end}
			if rl.span {
				var ok bool
				if e, ok = trimSpan(e); !ok {
					continue
				}
			}
			candidates = append(candidates, e)
		}
	}

	return Resolve(candidates), nil
}

// trimSpan drops positional capitals from the front of a span and rejects
// spans that are filing boilerplate.
func trimSpan(e Entity) (Entity, bool) {
	for {
		word, rest, found := strings.Cut(e.Text, " ")
		if !found || !leadingNoise[word] {
			break
		}
		e.Start += len(word) + 1
		e.Text = rest
	}

	first, _, _ := strings.Cut(e.Text, " ")
	if filingTerms[first] || leadingNoise[e.Text] {
		return e, false
	}
	return e, true
}

func gazetteer(products []string) *regexp.Regexp {
	var names []string
	for _, p := range products {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, regexp.QuoteMeta(p))
		}
	}
	if len(names) == 0 {
		return nil
	}

	// Longest alternative first so "Acme Cloud Pro" beats "Acme Cloud"
	sort.SliceStable(names, func(i, j int) bool {
		return len(names[i]) > len(names[j])
	})
	return regexp.MustCompile(`(?:^|[^A-Za-z0-9])(` + strings.Join(names, "|") + `)(?:[^A-Za-z0-9]|$)`)
}
