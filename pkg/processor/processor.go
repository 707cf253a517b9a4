// Package processor turns raw feed markup into the plain text the entity
// pass works on.
package processor

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// MaxDescriptionLength bounds every product description written out.
const MaxDescriptionLength = 180

// Clean strips markup from an HTML fragment and collapses whitespace.
// Empty input gives an empty string.
func Clean(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return collapse(raw)
	}

	// Line breaks and block ends would otherwise glue words together
	doc.Find("br").ReplaceWithHtml(" ")
	doc.Find("p, div, li, tr, td, h1, h2, h3, h4, h5, h6").AppendHtml(" ")
	doc.Find("script, style").Remove()

	return collapse(doc.Text())
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func collapse(text string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(text), " "))
}
