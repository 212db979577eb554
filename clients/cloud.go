package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rmcloud/models"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the document storage host of the cloud.
const DefaultBaseURL = "https://document-storage-production-dot-remarkable-production.appspot.com"

const docsPath = "/document-storage/json/2/docs"

// CloudClient client for working with the document storage API
type CloudClient struct {
	BaseURL string
	client  *resty.Client
	blobs   *resty.Client
}

// Option configures a CloudClient
type Option func(*CloudClient)

// WithRetries sets how many times a request failing with a transport error
// or a 5xx status is retried
func WithRetries(n int) Option {
	return func(c *CloudClient) {
		c.client.SetRetryCount(n)
		c.blobs.SetRetryCount(n)
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *CloudClient) {
		c.client.SetTimeout(d)
		c.blobs.SetTimeout(d)
	}
}

// NewCloudClient creates a new cloud client authenticated with a user token
func NewCloudClient(baseURL, token string, opts ...Option) *CloudClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimSuffix(baseURL, "/"))
	client.SetAuthToken(token)
	client.SetHeader("Accept", "application/json")

	// Signed blob URLs carry their own credentials and reject extra auth.
	blobs := resty.New()

	c := &CloudClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		blobs:   blobs,
	}
	for _, r := range []*resty.Client{client, blobs} {
		r.SetRetryWaitTime(200 * time.Millisecond)
		r.SetRetryMaxWaitTime(5 * time.Second)
		r.AddRetryCondition(retryOnServerError)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func retryOnServerError(resp *resty.Response, err error) bool {
	return err != nil || resp.StatusCode() >= http.StatusInternalServerError
}

// entryFailed reports whether a docs entry carries Success: false, along
// with the service message.
func entryFailed(md models.Metadata) (bool, string) {
	ok, present := md["Success"].(bool)
	if present && !ok {
		return true, md.String("Message")
	}
	return false, ""
}

// Authenticate checks token validity
func (c *CloudClient) Authenticate(ctx context.Context) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(docsPath)
	if err != nil {
		return fmt.Errorf("failed to connect to cloud: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("authentication failed: status %d", resp.StatusCode())
	}

	return nil
}

// ListItems gets metadata of every document and folder
func (c *CloudClient) ListItems(ctx context.Context) ([]models.Metadata, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(docsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("list items failed: status %d", resp.StatusCode())
	}

	var items []models.Metadata
	if err := json.Unmarshal(resp.Body(), &items); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return items, nil
}

// GetMetadata gets metadata of a single item, with a signed download URL
// when downloadable is set
func (c *CloudClient) GetMetadata(ctx context.Context, id string, downloadable bool) (models.Metadata, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("doc", id).
		SetQueryParam("withBlob", strconv.FormatBool(downloadable)).
		Get(docsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata: %w", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("get metadata failed: status %d", resp.StatusCode())
	}

	var entries []models.Metadata
	if err := json.Unmarshal(resp.Body(), &entries); err != nil {
		return nil, fmt.Errorf("failed to parse metadata response: %w", err)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, id)
	}
	if failed, msg := entryFailed(entries[0]); failed {
		return nil, fmt.Errorf("%w: %s: %s", models.ErrNotFound, id, msg)
	}

	return entries[0], nil
}

// GetBlob downloads the content behind a signed URL
func (c *CloudClient) GetBlob(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.blobs.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download blob: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("download failed: status %d", resp.StatusCode())
	}

	return resp.Body(), nil
}
