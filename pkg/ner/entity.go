// Package ner finds named entities in filing text and picks out product mentions.
package ner

import (
	"context"
	"sort"
)

// Entity labels.
const (
	LabelProduct = "PRODUCT"
	LabelOrg     = "ORG"
	LabelDate    = "DATE"
	LabelMoney   = "MONEY"
)

// Entity is a labelled span of text. Start and End are byte offsets.
type Entity struct {
	Text  string
	Label string
	Start int
	End   int
}

// Recognizer returns the entities of text in document order.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]Entity, error)
}

// Resolve orders candidates by position and drops overlaps. On equal
// starts the longer span wins.
func Resolve(candidates []Entity) []Entity {
	sorted := make([]Entity, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End-sorted[i].Start > sorted[j].End-sorted[j].Start
	})

	var out []Entity
	end := -1
	for _, e := range sorted {
		if e.End <= e.Start || e.Start < end {
			continue
		}
		out = append(out, e)
		end = e.End
	}
	return out
}

// FirstProduct returns the text of the first PRODUCT entity, or "".
func FirstProduct(entities []Entity) string {
	for _, e := range entities {
		if e.Label == LabelProduct {
			return e.Text
		}
	}
	return ""
}
