package processor_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/xhad/eightk/pkg/processor"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "  \n\t ", ""},
		{"plain text", "Acme launched WidgetPro", "Acme launched WidgetPro"},
		{
			"sec summary",
			` <b>Filed:</b> 2024-02-01 <b>AccNo:</b> 0000320193-24-000005 <b>Size:</b> 27 KB<br>Item 2.02: Results of Operations`,
			"Filed: 2024-02-01 AccNo: 0000320193-24-000005 Size: 27 KB Item 2.02: Results of Operations",
		},
		{"entities", "R&amp;D &lt;update&gt;", "R&D <update>"},
		{"blocks", "<p>First</p><p>Second</p><ul><li>a</li><li>b</li></ul>", "First Second a b"},
		{"script dropped", "<script>var x = 1;</script>Visible", "Visible"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, processor.Clean(tt.raw))
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"<b>Filed:</b> 2024-02-01<br>Item 8.01 Other Events",
		"Acme Corp. introduced the WidgetPro™ platform.",
	}

	for _, in := range inputs {
		once := processor.Clean(in)
		assert.Equal(t, once, processor.Clean(once))
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", processor.Truncate("abc", 0))
	assert.Equal(t, "abc", processor.Truncate("abc", 5))
	assert.Equal(t, "ab", processor.Truncate("abc", 2))
	assert.Equal(t, "Widget™", processor.Truncate("Widget™ Pro", 7))

	long := strings.Repeat("é", 500)
	got := processor.Truncate(long, 180)
	assert.Equal(t, 180, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))
}
