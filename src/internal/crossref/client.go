package crossref

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"doiproxy/src/internal/doi"
	"doiproxy/src/internal/httpx"
	"doiproxy/src/internal/logger"
	"doiproxy/src/internal/sanitize"
)

const (
	// DefaultEndpoint is the registry's open-URL query interface.
	DefaultEndpoint = "http://www.crossref.org/openurl/"

	// Format selects the unixref XML variant.
	Format = "unixref"

	// maxErrorBody bounds how much of a failed response is kept.
	maxErrorBody = 4096
)

// Client queries the CrossRef open-URL endpoint. It holds no per-request
// state and is safe for concurrent use.
type Client struct {
	http      httpx.Doer
	endpoint  string
	contact   string
	userAgent string
	log       *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the transport used for registry requests.
func WithHTTPClient(d httpx.Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.http = d
		}
	}
}

// WithUserAgent sets the User-Agent of registry requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient returns a client for endpoint that identifies itself to the
// registry with contact (the pid parameter). An empty endpoint selects
// DefaultEndpoint. The default transport is a zero-value http.Client.
func NewClient(endpoint, contact string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		http:     &http.Client{},
		endpoint: endpoint,
		contact:  contact,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// QueryURL returns the registry URL for a DOI. The DOI is normalized first.
func (c *Client) QueryURL(raw string) string {
	params := url.Values{}
	params.Set("id", "doi:"+doi.Normalize(raw))
	params.Set("noredirect", "true")
	params.Set("pid", c.contact)
	params.Set("format", Format)

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return c.endpoint + "?" + params.Encode()
	}
	q := u.Query()
	for k, v := range params {
		q[k] = v
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// FetchMetadata normalizes raw, queries the registry once and maps the
// answer to Metadata. It fails with *UpstreamError on a non-success status
// and *NotFoundError when the document has no journal record.
func (c *Client) FetchMetadata(ctx context.Context, raw string) (Metadata, error) {
	token := doi.Normalize(raw)
	u := c.QueryURL(token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Metadata{}, fmt.Errorf("crossref: building request: %w", err)
	}
	req.Header.Set("Accept", "application/xml, text/xml")
	httpx.SetUA(req, c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return Metadata{}, fmt.Errorf("crossref: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return Metadata{}, &UpstreamError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       sanitize.CollapseSpace(string(b)),
		}
	}

	doc, err := Parse(resp.Body)
	if err != nil {
		return Metadata{}, err
	}
	c.log.InfoWithDuration("crossref response parsed", time.Since(start), map[string]any{
		"doi":    token,
		"status": resp.StatusCode,
	})
	return Extract(doc, token, u)
}
