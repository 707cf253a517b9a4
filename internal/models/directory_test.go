package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectory(t *testing.T) {
	d := NewDirectory()
	assert.True(t, d.Add(CompanyRef{Symbol: "AAPL", CIK: "320193", Name: "Apple Inc."}))
	assert.True(t, d.Add(CompanyRef{Symbol: "MSFT", CIK: "789019", Name: "MICROSOFT CORP"}))
	assert.False(t, d.Add(CompanyRef{Symbol: "AAPL", CIK: "1", Name: "Duplicate"}))

	assert.Equal(t, 2, d.Len())

	ref, ok := d.Lookup("AAPL")
	assert.True(t, ok)
	assert.Equal(t, "320193", ref.CIK)

	_, ok = d.Lookup("NOPE")
	assert.False(t, ok)

	assert.Len(t, d.First(1), 1)
	assert.Len(t, d.First(10), 2)
	assert.Len(t, d.First(-1), 2)
	assert.Empty(t, d.First(0))

	first := d.First(1)
	first[0].Symbol = "CHANGED"
	ref, _ = d.Lookup("AAPL")
	assert.Equal(t, "AAPL", ref.Symbol)
}

func TestNilDirectory(t *testing.T) {
	var d *Directory
	assert.Zero(t, d.Len())
	assert.Nil(t, d.First(5))
	_, ok := d.Lookup("AAPL")
	assert.False(t, ok)
}

func TestNewRow(t *testing.T) {
	row := NewRow(ExtractedRecord{
		CompanyName:        "Apple Inc.",
		FilingTime:         "2024-02-01T16:30:57-05:00",
		NewProduct:         "Vision Pro",
		ProductDescription: "Apple launched Vision Pro",
	}, "AAPL")

	assert.Equal(t, Row{
		CompanyName:        "Apple Inc.",
		FilingTime:         "2024-02-01T16:30:57-05:00",
		NewProduct:         "Vision Pro",
		ProductDescription: "Apple launched Vision Pro",
		StockName:          "AAPL",
	}, row)
}
