package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/streambox/internal/domain"
)

const defaultTimeout = 15 * time.Second

// Options configures a catalog Client
type Options struct {
	BaseURL      string
	ImageBaseURL string
	APIKey       string
	Timeout      time.Duration
}

// Client fetches and normalizes catalog data. It implements domain.CatalogSource.
type Client struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	httpClient   *http.Client
	logger       *slog.Logger
}

// NewClient creates a catalog client. Empty options fall back to the public defaults.
func NewClient(opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.ImageBaseURL == "" {
		opts.ImageBaseURL = DefaultImageBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(opts.ImageBaseURL, "/"),
		apiKey:       opts.APIKey,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		logger: logger,
	}
}

// Fetch returns trending items for category, or search results when query
// is non-empty. Categories without catalog content return nil without a request.
func (c *Client) Fetch(ctx context.Context, category domain.Category, query string) ([]domain.CatalogItem, error) {
	ep, ok := resolveEndpoint(category, query)
	if !ok {
		c.logger.Debug("no catalog endpoint for category", "category", category)
		return nil, nil
	}

	params := url.Values{}
	if ep.Query != "" {
		params.Set("query", ep.Query)
	}

	body, err := c.doRequest(ctx, ep.Path, params)
	if err != nil {
		return nil, err
	}

	var resp resultsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.NewFetchError("failed to parse catalog response", err)
	}

	items := mapEntries(resp.Results, category, c.imageBaseURL)
	c.logger.Info("catalog fetched",
		"category", category,
		"query", ep.Query,
		"received", len(resp.Results),
		"kept", len(items),
	)
	return items, nil
}

// Details fetches a single title
func (c *Client) Details(ctx context.Context, mediaType domain.MediaType, id int) (*domain.CatalogItem, error) {
	body, err := c.doRequest(ctx, detailsPath(mediaType, id), nil)
	if err != nil {
		return nil, err
	}

	var entry catalogEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, domain.NewFetchError("failed to parse catalog response", err)
	}
	// Detail responses omit media_type
	entry.MediaType = string(mediaType)

	category := domain.CategoryMovies
	if mediaType == domain.MediaTypeTV {
		category = domain.CategoryShows
	}
	item, ok := mapEntry(entry, category, c.imageBaseURL)
	if !ok {
		return nil, domain.NewFetchError(fmt.Sprintf("catalog record %d is incomplete", id), nil)
	}
	return &item, nil
}

// doRequest performs a GET against the catalog API and returns the body.
// All failures are reported as *domain.FetchError.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, domain.NewFetchError("failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("catalog request", "path", path, "query", query.Get("query"))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("catalog request failed", "path", path, "error", err)
		return nil, domain.NewFetchError("network request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewFetchError("failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("catalog request error", "path", path, "status", resp.StatusCode)
		return nil, domain.NewStatusError(resp.StatusCode)
	}
	return body, nil
}
