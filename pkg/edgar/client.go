// Package edgar talks to the two SEC endpoints the pipeline needs: the
// company ticker directory and the per-company event filing Atom feed.
package edgar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/xhad/eightk/internal/models"
)

const (
	DefaultTickersURL = "https://www.sec.gov/files/company_tickers.json"
	DefaultFeedURL    = "https://www.sec.gov/cgi-bin/browse-edgar?action=getcompany&CIK={cik}&type={type}&count={count}&output=atom"
)

var (
	ErrTimeout          = errors.New("request timed out")
	ErrMalformedFeed    = errors.New("malformed feed")
	ErrUnexpectedStatus = errors.New("unexpected status")
)

type ClientConfig struct {
	UserAgent  string
	TickersURL string
	FeedURL    string // {cik}, {type} and {count} are substituted per request
	FormType   string
	Timeout    time.Duration
}

type Client struct {
	config ClientConfig
	client *http.Client
	feeds  *gofeed.Parser
}

func NewWithConfig(config ClientConfig) (*Client, error) {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.TickersURL == "" {
		config.TickersURL = DefaultTickersURL
	}
	if config.FeedURL == "" {
		config.FeedURL = DefaultFeedURL
	}
	if config.FormType == "" {
		config.FormType = "8-K"
	}
	if strings.TrimSpace(config.UserAgent) == "" {
		return nil, fmt.Errorf("user agent is required")
	}

	for _, raw := range []string{config.TickersURL, config.FeedURL} {
		if _, err := url.Parse(raw); err != nil {
			return nil, err
		}
	}

	return &Client{
		config: config,
		client: &http.Client{},
		feeds:  gofeed.NewParser(),
	}, nil
}

func New(userAgent string) *Client {
	c, _ := NewWithConfig(ClientConfig{
		UserAgent: userAgent,
	})
	return c
}

type tickerEntry struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// FetchTickers downloads the company directory. The payload is an object
// keyed "0", "1", ...; directory order follows the numeric keys.
func (c *Client) FetchTickers(ctx context.Context) (*models.Directory, error) {
	body, err := c.get(ctx, c.config.TickersURL)
	if err != nil {
		return nil, fmt.Errorf("fetch tickers: %w", err)
	}

	var raw map[string]tickerEntry
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode tickers: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return keys[i] < keys[j]
	})

	dir := models.NewDirectory()
	for _, k := range keys {
		e := raw[k]
		if e.Ticker == "" {
			continue
		}
		dir.Add(models.CompanyRef{
			Symbol: e.Ticker,
			CIK:    strconv.FormatInt(e.CIK, 10),
			Name:   e.Title,
		})
	}

	return dir, nil
}

// FetchFilings returns up to count entries of the filing feed for cik.
func (c *Client) FetchFilings(ctx context.Context, cik string, count int) ([]models.FilingEntry, error) {
	body, err := c.get(ctx, c.FeedURL(cik, count))
	if err != nil {
		return nil, fmt.Errorf("fetch filings for CIK %s: %w", cik, err)
	}

	feed, err := c.feeds.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w for CIK %s: %v", ErrMalformedFeed, cik, err)
	}

	entries := make([]models.FilingEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, models.FilingEntry{
			Updated: item.Updated,
			Summary: item.Description,
		})
	}

	return entries, nil
}

func (c *Client) FeedURL(cik string, count int) string {
	r := strings.NewReplacer(
		"{cik}", url.QueryEscape(cik),
		"{type}", url.QueryEscape(c.config.FormType),
		"{count}", strconv.Itoa(count),
	)
	return r.Replace(c.config.FeedURL)
}

func (c *Client) get(ctx context.Context, urlStr string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w %d for URL: %s", ErrUnexpectedStatus, resp.StatusCode, urlStr)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(err)
	}
	return body, nil
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
