package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pders01/lumen/internal/config"
	"github.com/pders01/lumen/internal/debuglog"
)

const (
	defaultBaseURL   = "https://images-api.nasa.gov"
	defaultUserAgent = "lumen/1.0 (https://github.com/pders01/lumen)"
	defaultTimeout   = 30 * time.Second
	defaultMediaType = "image"
)

// Query is one user search: the keyword plus optional year bounds.
type Query struct {
	Text      string
	YearStart string
	YearEnd   string
}

// Encode builds the raw query string. Parameter order is fixed:
// q, year_start, year_end, media_type. Year bounds are omitted when empty.
func (q Query) Encode(mediaType string) string {
	var b strings.Builder
	b.WriteString("q=")
	b.WriteString(encodeComponent(q.Text))
	if q.YearStart != "" {
		b.WriteString("&year_start=")
		b.WriteString(encodeComponent(q.YearStart))
	}
	if q.YearEnd != "" {
		b.WriteString("&year_end=")
		b.WriteString(encodeComponent(q.YearEnd))
	}
	b.WriteString("&media_type=")
	b.WriteString(encodeComponent(mediaType))
	return b.String()
}

// encodeComponent escapes s for a query value with spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

type Client struct {
	client    *http.Client
	baseURL   string
	userAgent string
	mediaType string
}

func NewClient(cfg *config.Config) *Client {
	c := &Client{
		client:    &http.Client{Timeout: defaultTimeout},
		baseURL:   defaultBaseURL,
		userAgent: defaultUserAgent,
		mediaType: defaultMediaType,
	}
	if cfg == nil {
		return c
	}
	if cfg.API.HTTPTimeout > 0 {
		c.client.Timeout = cfg.API.HTTPTimeout
	}
	if cfg.API.BaseURL != "" {
		c.baseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	}
	if cfg.API.UserAgent != "" {
		c.userAgent = cfg.API.UserAgent
	}
	if cfg.API.MediaType != "" {
		c.mediaType = cfg.API.MediaType
	}
	return c
}

// SearchURL returns the request URL for q.
func (c *Client) SearchURL(q Query) string {
	return c.baseURL + "/search?" + q.Encode(c.mediaType)
}

// Search issues exactly one request for q and classifies the response.
// A non-nil error means no exchange completed.
func (c *Client) Search(ctx context.Context, q Query) (Outcome, error) {
	target := c.SearchURL(q)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searching catalog: %w", err)
	}
	defer resp.Body.Close()

	outcome := Classify(resp.StatusCode, resp.Body)
	debuglog.WithFields(map[string]interface{}{
		"status":  resp.StatusCode,
		"outcome": outcome.Kind().String(),
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debugf("search %s", target)

	return outcome, nil
}
