package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Options configures a Client
type Options struct {
	APIKey     string
	BaseURL    string
	Testnet    bool
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client handles API calls to the remote blockchain service
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	network    string
}

// NewClient creates a new API client
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	network := NetworkMainnet
	if opts.Testnet {
		network = NetworkTestnet
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     opts.APIKey,
		network:    network,
	}
}

// IsTestnet returns true if the client is using testnet
func (c *Client) IsTestnet() bool {
	return c.network == NetworkTestnet
}

// Web3URL returns the JSON-RPC gateway for an EVM chain
func (c *Client) Web3URL(chain Chain) (string, error) {
	path, err := chain.Path()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/web3/%s", c.baseURL, path, c.apiKey), nil
}

// NodeURL returns the raw node gateway for a chain
func (c *Client) NodeURL(chain Chain) (string, error) {
	code, err := chain.Code()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/blockchain/node/%s/%s", c.baseURL, code, c.apiKey), nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, params, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// do sends a JSON request and decodes a JSON answer into out when out is non-nil
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out interface{}) error {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(headerAPIKey, c.apiKey)
	req.Header.Set("Accept", contentTypeJSON)
	if body != nil {
		req.Header.Set(headerContentType, contentTypeJSON)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func decodeError(status int, data []byte) error {
	apiErr := &Error{StatusCode: status}
	if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	// the body's statusCode may be missing or differ from the transport status
	apiErr.StatusCode = status
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
