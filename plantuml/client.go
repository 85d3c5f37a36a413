package plantuml

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"
)

// Fetcher performs the network fetch for a render URL. Implementations
// return the response body for a success status and an error otherwise.
// Timeouts, if desired, belong to the Fetcher.
type Fetcher func(ctx context.Context, url string) ([]byte, error)

// NewRestyFetcher returns the production Fetcher backed by a resty client.
func NewRestyFetcher() Fetcher {
	client := resty.New()
	return func(ctx context.Context, url string) ([]byte, error) {
		resp, err := client.R().SetContext(ctx).Get(url)
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("rendering service returned %s", resp.Status())
		}
		return resp.Body(), nil
	}
}

// Client fetches rendered diagram images from a PlantUML-compatible server.
type Client struct {
	baseURL string
	fetch   Fetcher
	logger  *log.Logger
}

// NewClient builds a client from an already-defaulted Config.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		fetch:   cfg.Fetcher,
		logger:  cfg.Logger,
	}
}

// URL builds the service URL for text without fetching it.
func (c *Client) URL(text string, f Format) string {
	return c.baseURL + "/" + string(f) + "/" + Encode(text)
}

// Render fetches the rendered image bytes for text in the given format.
// Transport errors and non-success statuses wrap ErrRender.
func (c *Client) Render(ctx context.Context, text string, f Format) ([]byte, error) {
	url := c.URL(text, f)
	c.logger.Debug("rendering diagram", "format", f, "url", url)
	data, err := c.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return data, nil
}
