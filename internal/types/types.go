package types

import (
	"context"

	"github.com/xhad/eightk/internal/models"
)

// Core interfaces
type TickerSource interface {
	FetchTickers(ctx context.Context) (*models.Directory, error)
}

type FilingFetcher interface {
	FetchFilings(ctx context.Context, cik string, count int) ([]models.FilingEntry, error)
}

type EntityExtractor interface {
	Extract(ctx context.Context, text string) (product string, description string)
}

type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
