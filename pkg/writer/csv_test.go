package writer_test

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/eightk/internal/models"
	"github.com/xhad/eightk/pkg/writer"
)

var rows = []models.Row{
	{
		CompanyName:        "Beta Inc.",
		FilingTime:         "2024-03-01T09:00:00-05:00",
		NewProduct:         "WidgetPro",
		ProductDescription: "Beta Inc. announced the launch of WidgetPro, for \"small\" businesses",
		StockName:          "BBB",
	},
	{
		CompanyName:        "Beta Inc.",
		FilingTime:         "2024-02-15T17:10:00-05:00",
		ProductDescription: "Item 5.02: Departure of Directors",
		StockName:          "BBB",
	},
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writer.Encode(&buf, rows))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"company_name", "filing_time", "new_product", "product_description", "stock_name"}, records[0])
	assert.Equal(t, []string{
		"Beta Inc.",
		"2024-03-01T09:00:00-05:00",
		"WidgetPro",
		"Beta Inc. announced the launch of WidgetPro, for \"small\" businesses",
		"BBB",
	}, records[1])
	assert.Equal(t, "", records[2][2])
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extracted_data.csv")
	require.NoError(t, writer.WriteCSV(path, rows))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "company_name,filing_time,new_product,product_description,stock_name\n"))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteCSVNoRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extracted_data.csv")

	err := writer.WriteCSV(path, nil)
	assert.ErrorIs(t, err, writer.ErrNoRecords)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	assert.ErrorIs(t, writer.Encode(&bytes.Buffer{}, []models.Row{}), writer.ErrNoRecords)
}
