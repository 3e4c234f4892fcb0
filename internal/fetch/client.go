// Package fetch downloads metadata documents and entity set feeds from an
// SAP Gateway service. Requests are retried on connection errors, 5xx
// responses (except 501) and 429.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/sapodata/odatagen/pkg/odata"
)

// Defaults used when Config leaves a field zero.
const (
	DefaultTimeout      = 20 * time.Second
	DefaultRetries      = 3
	DefaultRetryWaitMin = 1 * time.Second
	DefaultRetryWaitMax = 10 * time.Second
)

// Accept headers sent to the service.
const (
	acceptMetadata = "application/xml"
	acceptFeed     = "application/atom+xml,application/xml;q=0.9"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 4096

// Config describes one OData service endpoint.
type Config struct {
	// BaseURL is the service root, e.g.
	// https://host/sap/opu/odata/iwbep/GWSAMPLE_BASIC.
	BaseURL string
	// Username and Password enable HTTP Basic authentication when Username
	// is set.
	Username string
	Password string
	// SAPClient is sent as the sap-client query parameter when set.
	SAPClient string

	// Zero values select the Default* constants.
	Timeout      time.Duration
	Retries      int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	Logger *zap.Logger
}

// Client talks to one service.
type Client struct {
	http      *http.Client
	base      *url.URL
	username  string
	password  string
	sapClient string
	logger    *zap.Logger
}

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// New creates a client for cfg.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("fetch: base URL is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("fetch: base URL %q must be http or https", cfg.BaseURL)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = orDefault(cfg.Retries, DefaultRetries)
	retryClient.RetryWaitMin = orDefault(cfg.RetryWaitMin, DefaultRetryWaitMin)
	retryClient.RetryWaitMax = orDefault(cfg.RetryWaitMax, DefaultRetryWaitMax)
	retryClient.Logger = retryablehttp.LeveledLogger(leveledZap{logger.Sugar()})
	client := retryClient.StandardClient()
	client.Timeout = orDefault(cfg.Timeout, DefaultTimeout)

	return &Client{
		http:      client,
		base:      base,
		username:  cfg.Username,
		password:  cfg.Password,
		sapClient: cfg.SAPClient,
		logger:    logger,
	}, nil
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// Metadata downloads the $metadata document.
func (c *Client) Metadata(ctx context.Context) ([]byte, error) {
	return c.get(ctx, c.resolve("$metadata", nil), acceptMetadata)
}

// Query holds the system query options supported by EntitySet.
type Query struct {
	Top    int
	Skip   int
	Select []string
	// InlineCount requests m:count in the feed.
	InlineCount bool
}

func (q Query) values() url.Values {
	v := url.Values{}
	if q.Top > 0 {
		v.Set("$top", strconv.Itoa(q.Top))
	}
	if q.Skip > 0 {
		v.Set("$skip", strconv.Itoa(q.Skip))
	}
	if len(q.Select) > 0 {
		v.Set("$select", strings.Join(q.Select, ","))
	}
	if q.InlineCount {
		v.Set("$inlinecount", "allpages")
	}
	return v
}

// EntitySet reads one page of an entity set into dynamic payloads.
func (c *Client) EntitySet(ctx context.Context, set string, q Query) (*odata.Feed[odata.Properties], error) {
	return c.feed(ctx, c.resolve(set, q.values()))
}

// Next follows the next link of a feed. It returns nil when the feed is the
// last page.
func (c *Client) Next(ctx context.Context, feed *odata.Feed[odata.Properties]) (*odata.Feed[odata.Properties], error) {
	link, ok := feed.NextLink()
	if !ok {
		return nil, nil
	}
	ref, err := url.Parse(link)
	if err != nil {
		return nil, fmt.Errorf("fetch: invalid next link %q: %w", link, err)
	}
	u := c.withClient(c.serviceRoot().ResolveReference(ref))
	return c.feed(ctx, u)
}

func (c *Client) feed(ctx context.Context, u *url.URL) (*odata.Feed[odata.Properties], error) {
	body, err := c.get(ctx, u, acceptFeed)
	if err != nil {
		return nil, err
	}
	feed, err := odata.DecodeFeed[odata.Properties](body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u.Redacted(), err)
	}
	c.logger.Debug("decoded feed",
		zap.String("url", u.Redacted()),
		zap.Int("entries", len(feed.Entries)),
	)
	return feed, nil
}

// serviceRoot returns the base URL with a trailing slash so that relative
// references resolve below it.
func (c *Client) serviceRoot() *url.URL {
	root := *c.base
	if root.Path == "" || root.Path[len(root.Path)-1] != '/' {
		root.Path += "/"
	}
	return &root
}

func (c *Client) resolve(path string, query url.Values) *url.URL {
	u := c.serviceRoot().JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return c.withClient(u)
}

func (c *Client) withClient(u *url.URL) *url.URL {
	if c.sapClient == "" {
		return u
	}
	q := u.Query()
	if q.Get("sap-client") == "" {
		q.Set("sap-client", c.sapClient)
		u.RawQuery = q.Encode()
	}
	return u
}

func (c *Client) get(ctx context.Context, u *url.URL, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: build request: %w", err)
	}
	req.Header.Set("Accept", accept)
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u.Redacted(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{URL: u.Redacted(), StatusCode: resp.StatusCode, Body: string(body)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: read body: %w", u.Redacted(), err)
	}

	c.logger.Info("fetched",
		zap.String("url", u.Redacted()),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return body, nil
}
