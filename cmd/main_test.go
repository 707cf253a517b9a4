package main

import (
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cfgPkg "github.com/xhad/eightk/pkg/config"
	"github.com/xhad/eightk/pkg/llm"
	"github.com/xhad/eightk/pkg/ner"
)

const feed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <updated>2024-03-01T09:00:00-05:00</updated>
    <summary type="html">Item 7.01: Acme introduced Zephyr Max for hospitals.</summary>
  </entry>
</feed>`

func testConfig(t *testing.T, serverURL string) *cfgPkg.Config {
	t.Helper()
	t.Setenv("SEC_USER_AGENT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("OLLAMA_BASE_URL", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sec:
  user_agent: "Test Agent test@example.com"
  tickers_url: "`+serverURL+`/files/company_tickers.json"
  feed_url: "`+serverURL+`/feed?CIK={cik}&type={type}&count={count}"
  timeout: 1s
output:
  path: "`+filepath.Join(t.TempDir(), "out.csv")+`"
`), 0644))

	config, err := cfgPkg.LoadConfig(path)
	require.NoError(t, err)
	require.Empty(t, config.Validate())
	return config
}

func TestRunWritesCSV(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/files/company_tickers.json" {
			w.Write([]byte(`{"0": {"cik_str": 42, "ticker": "ACME", "title": "Acme Corp"}}`))
			return
		}
		w.Write([]byte(feed))
	}))
	defer server.Close()

	config := testConfig(t, server.URL)
	require.NoError(t, run(context.Background(), config, true))

	f, err := os.Open(config.Output.Path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"company_name", "filing_time", "new_product", "product_description", "stock_name"}, records[0])
	assert.Equal(t, []string{
		"Acme Corp",
		"2024-03-01T09:00:00-05:00",
		"Zephyr Max",
		"Item 7.01: Acme introduced Zephyr Max for hospitals.",
		"ACME",
	}, records[1])
}

func TestRunNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	config := testConfig(t, server.URL)
	config.SEC.Timeout = 500 * time.Millisecond
	require.NoError(t, run(context.Background(), config, true))

	_, err := os.Stat(config.Output.Path)
	assert.True(t, os.IsNotExist(err))
}

func TestNewRecognizer(t *testing.T) {
	config := &cfgPkg.Config{}
	config.Extractor.Kind = "rules"
	r, err := newRecognizer(config)
	require.NoError(t, err)
	assert.IsType(t, &ner.RuleRecognizer{}, r)

	config.Extractor.Kind = "llm"
	config.LLM.Model = "mistral"
	config.LLM.BaseURL = "http://localhost:11434"
	config.LLM.Temperature = 0.1
	r, err = newRecognizer(config)
	require.NoError(t, err)
	assert.IsType(t, &llm.EntityRecognizer{}, r)
}
