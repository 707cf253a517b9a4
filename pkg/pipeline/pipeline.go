// Package pipeline runs the fetch, clean, annotate and accumulate steps for
// a bounded set of companies, one company at a time.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/xhad/eightk/internal/models"
	"github.com/xhad/eightk/internal/types"
	"github.com/xhad/eightk/pkg/processor"
)

type PipelineConfig struct {
	Tickers      types.TickerSource
	Filings      types.FilingFetcher
	Extractor    types.EntityExtractor
	CompanyLimit int // negative means every company in the directory
	MaxDocs      int

	OnCompanies func(companies []models.CompanyRef)
	OnCompany   func(ref models.CompanyRef, records int, err error)
}

type Pipeline struct {
	config PipelineConfig
}

func NewWithConfig(config PipelineConfig) (*Pipeline, error) {
	if config.Tickers == nil {
		return nil, fmt.Errorf("ticker source is required")
	}
	if config.Filings == nil {
		return nil, fmt.Errorf("filing fetcher is required")
	}
	if config.Extractor == nil {
		return nil, fmt.Errorf("entity extractor is required")
	}
	if config.CompanyLimit == 0 {
		config.CompanyLimit = 5
	}
	if config.MaxDocs == 0 {
		config.MaxDocs = 100
	}

	return &Pipeline{config: config}, nil
}

// Companies returns the bounded company list. A directory failure yields
// no companies.
func (p *Pipeline) Companies(ctx context.Context) []models.CompanyRef {
	dir, err := p.config.Tickers.FetchTickers(ctx)
	if err != nil {
		log.Printf("Error fetching tickers: %v", err)
		return nil
	}
	return dir.First(p.config.CompanyLimit)
}

// ProcessCompany turns every feed entry of one company into a record.
// The error reports why the company produced nothing; it is never fatal.
func (p *Pipeline) ProcessCompany(ctx context.Context, ref models.CompanyRef) ([]models.ExtractedRecord, error) {
	entries, err := p.config.Filings.FetchFilings(ctx, ref.CIK, p.config.MaxDocs)
	if err != nil {
		return nil, err
	}

	records := make([]models.ExtractedRecord, 0, len(entries))
	for _, entry := range entries {
		text := processor.Clean(entry.Summary)
		product, description := p.config.Extractor.Extract(ctx, text)

		records = append(records, models.ExtractedRecord{
			CompanyName:        ref.Name,
			FilingTime:         entry.Updated,
			NewProduct:         product,
			ProductDescription: description,
		})
	}

	return records, nil
}

// Run processes every company in order and flattens the results. Only
// cancellation of ctx stops it early; the rows collected so far are returned.
func (p *Pipeline) Run(ctx context.Context) ([]models.Row, error) {
	companies := p.Companies(ctx)
	if p.config.OnCompanies != nil {
		p.config.OnCompanies(companies)
	}

	var rows []models.Row
	for _, ref := range companies {
		if err := ctx.Err(); err != nil {
			return rows, err
		}

		records, err := p.ProcessCompany(ctx, ref)
		if err != nil {
			log.Printf("Error processing %s (CIK %s): %v", ref.Symbol, ref.CIK, err)
		}
		for _, rec := range records {
			rows = append(rows, models.NewRow(rec, ref.Symbol))
		}

		if p.config.OnCompany != nil {
			p.config.OnCompany(ref, len(records), err)
		}
	}

	return rows, nil
}
