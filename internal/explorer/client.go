package explorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sourceScope/internal/model"
)

const (
	// DefaultDomain is the Etherscan API domain.
	DefaultDomain = "etherscan.io"

	defaultTimeout = 30 * time.Second
	maxErrorBody   = 512
	userAgent      = "sourcescope/1.0"
)

// Client calls the contract module of an Etherscan-compatible explorer API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a client for baseURL (e.g. https://api-goerli.etherscan.io).
// A nil httpClient gets a default with a 30s timeout.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SourceCodeURL returns the getsourcecode request URL for address.
func (c *Client) SourceCodeURL(address string) string {
	query := url.Values{}
	query.Set("module", "contract")
	query.Set("action", "getsourcecode")
	query.Set("address", address)
	query.Set("apikey", c.apiKey)
	return c.baseURL + "/api?" + query.Encode()
}

// GetSourceCode fetches the verified source records of address. A failure
// envelope is returned as *ProviderError, everything else as *TransportError.
func (c *Client) GetSourceCode(ctx context.Context, address string) ([]model.RawRecord, error) {
	reqURL := c.SourceCodeURL(address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = c.redact(urlErr.URL)
		}
		return nil, &TransportError{Op: "get source code", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{Op: "get source code", Err: &HTTPError{
			StatusCode: resp.StatusCode,
			URL:        c.redact(reqURL),
			Message:    truncate(string(body), maxErrorBody),
		}}
	}

	var envelope model.Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &TransportError{
			Op:  "decode response",
			Err: fmt.Errorf("couldn't unmarshal %s: %w", truncate(string(body), maxErrorBody), err),
		}
	}
	if !envelope.IsOK() {
		return nil, &ProviderError{Status: envelope.Status, Message: envelope.ErrorText()}
	}

	records, err := envelope.Records()
	if err != nil {
		return nil, &TransportError{Op: "decode response", Err: err}
	}
	return records, nil
}

// redact hides the credential in URLs that end up in errors and logs.
func (c *Client) redact(rawURL string) string {
	if c.apiKey == "" {
		return rawURL
	}
	return strings.ReplaceAll(rawURL, url.QueryEscape(c.apiKey), "***")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
