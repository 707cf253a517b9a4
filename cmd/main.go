package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/xhad/eightk/internal/models"
	cfgPkg "github.com/xhad/eightk/pkg/config"
	"github.com/xhad/eightk/pkg/edgar"
	"github.com/xhad/eightk/pkg/llm"
	"github.com/xhad/eightk/pkg/ner"
	"github.com/xhad/eightk/pkg/pipeline"
	"github.com/xhad/eightk/pkg/store"
	"github.com/xhad/eightk/pkg/writer"
)

type Options struct {
	ConfigPath string
	Output     string
	UserAgent  string
	Limit      int
	MaxDocs    int
	Extractor  string
	DBUrl      string
	Quiet      bool
}

func main() {
	opts := parseFlags()

	config, err := loadConfig(opts)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, config, opts.Quiet); err != nil {
		log.Fatal(err)
	}
}

func parseFlags() Options {
	var opts Options

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to config file")
	flag.StringVar(&opts.Output, "out", "", "CSV output path")
	flag.StringVar(&opts.UserAgent, "user-agent", "", "Identifying User-Agent sent to SEC")
	flag.IntVar(&opts.Limit, "limit", 0, "Number of companies to process (negative for all)")
	flag.IntVar(&opts.MaxDocs, "max-docs", 0, "Maximum filings fetched per company")
	flag.StringVar(&opts.Extractor, "extractor", "", "Entity extractor: rules or llm")
	flag.StringVar(&opts.DBUrl, "db-url", "", "PostgreSQL connection string")
	flag.BoolVar(&opts.Quiet, "quiet", false, "Disable the progress bar")
	flag.Parse()

	return opts
}

// loadConfig reads the config file and lets explicitly set flags win.
func loadConfig(opts Options) (*cfgPkg.Config, error) {
	config, err := cfgPkg.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			config.Output.Path = opts.Output
		case "user-agent":
			config.SEC.UserAgent = opts.UserAgent
		case "limit":
			config.SEC.CompanyLimit = opts.Limit
		case "max-docs":
			config.SEC.MaxDocs = opts.MaxDocs
		case "extractor":
			config.Extractor.Kind = opts.Extractor
		case "db-url":
			config.Database.URL = opts.DBUrl
		}
	})

	if errs := config.Validate(); len(errs) > 0 {
		for _, e := range errs {
			color.Red("config: %v", e)
		}
		return nil, fmt.Errorf("invalid configuration (%d errors)", len(errs))
	}

	return config, nil
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionSetItsString("companies"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetRenderBlankState(true),
	)
}

func newRecognizer(config *cfgPkg.Config) (ner.Recognizer, error) {
	if config.Extractor.Kind == "llm" {
		return llm.NewWithConfig(llm.RecognizerConfig{
			Model:       config.LLM.Model,
			BaseURL:     config.LLM.BaseURL,
			Temperature: config.LLM.Temperature,
		})
	}
	return ner.NewRuleRecognizer(ner.RuleConfig{
		Products: config.Extractor.Products,
	}), nil
}

func run(ctx context.Context, config *cfgPkg.Config, quiet bool) error {
	// Initialize components
	client, err := edgar.NewWithConfig(edgar.ClientConfig{
		UserAgent:  config.SEC.UserAgent,
		TickersURL: config.SEC.TickersURL,
		FeedURL:    config.SEC.FeedURL,
		FormType:   config.SEC.FormType,
		Timeout:    config.SEC.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize SEC client: %w", err)
	}

	recognizer, err := newRecognizer(config)
	if err != nil {
		return fmt.Errorf("failed to initialize entity recognizer: %w", err)
	}

	extractor := ner.NewWithConfig(ner.ExtractorConfig{
		Recognizer:       recognizer,
		DescriptionLimit: config.Extractor.DescriptionLimit,
	})

	var bar *progressbar.ProgressBar
	var done int
	startTime := time.Now()

	p, err := pipeline.NewWithConfig(pipeline.PipelineConfig{
		Tickers:      client,
		Filings:      client,
		Extractor:    extractor,
		CompanyLimit: config.SEC.CompanyLimit,
		MaxDocs:      config.SEC.MaxDocs,
		OnCompanies: func(companies []models.CompanyRef) {
			color.Blue("\nProcessing %s filings for %d companies\n", config.SEC.FormType, len(companies))
			if !quiet {
				bar = getProgressBar(len(companies), "📄 Fetching filings...")
			}
		},
		OnCompany: func(ref models.CompanyRef, records int, err error) {
			if bar == nil {
				if err != nil {
					color.Red("✗ %s: %v", ref.Symbol, err)
				} else {
					color.Green("✓ %s (CIK %s): %d filings", ref.Symbol, ref.CIK, records)
				}
				return
			}
			done++
			bar.Add(1)
			elapsed := time.Since(startTime).Seconds()
			bar.Describe(color.BlueString("📄 Fetching filings... %s (%.1f companies/sec)",
				ref.Symbol, float64(done)/elapsed))
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize pipeline: %w", err)
	}

	rows, err := p.Run(ctx)
	if bar != nil {
		bar.Finish()
		fmt.Println()
	}
	if err != nil {
		color.Yellow("Interrupted, keeping %d rows collected so far", len(rows))
	}

	if err := writer.WriteCSV(config.Output.Path, rows); err != nil {
		if errors.Is(err, writer.ErrNoRecords) {
			color.Yellow("No data extracted.")
			return nil
		}
		return fmt.Errorf("failed to save data: %w", err)
	}
	color.Green("✓ Wrote %d rows to %s", len(rows), config.Output.Path)

	if config.Database.URL != "" {
		if err := storeRows(context.WithoutCancel(ctx), config, rows); err != nil {
			color.Red("Error storing rows: %v", err)
		}
	}

	return nil
}

func storeRows(ctx context.Context, config *cfgPkg.Config, rows []models.Row) error {
	storeConfig := store.RecordStoreConfig{
		ConnString: config.Database.URL,
		TableName:  config.Database.TableName,
		VectorDim:  config.Database.VectorDim,
		BatchSize:  config.Database.BatchSize,
	}

	if config.LLM.EmbedModel != "" {
		emb, err := llm.NewEmbedderWithConfig(llm.EmbedderConfig{
			Model:   config.LLM.EmbedModel,
			BaseURL: config.LLM.BaseURL,
		})
		if err != nil {
			return err
		}
		storeConfig.Embedder = emb
	}

	rs, err := store.NewWithConfig(ctx, storeConfig)
	if err != nil {
		return err
	}
	defer rs.Close()

	runID := uuid.New()
	if err := rs.Store(ctx, runID, rows); err != nil {
		return err
	}
	color.Green("✓ Stored %d rows in %s (run %s)", len(rows), config.Database.TableName, runID)
	return nil
}
