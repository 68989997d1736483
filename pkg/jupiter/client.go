package jupiter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is the Jupiter Lite API endpoint.
	DefaultBaseURL = "https://lite-api.jup.ag/swap/v1"

	// DefaultRouteMapURL serves the indexed route map.
	DefaultRouteMapURL = "https://quote-api.jup.ag/v6"

	// DefaultPriceURL is the Jupiter Price API endpoint.
	DefaultPriceURL = "https://price.jup.ag/v6"

	// DefaultTimeout is the HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// SwapModeExactIn specifies exact input amount.
	SwapModeExactIn = "ExactIn"

	// SwapModeExactOut specifies exact output amount.
	SwapModeExactOut = "ExactOut"
)

// Client is a Jupiter API client.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	routeMapURL string
	priceURL    string
	apiKey      string // Optional: for Ultra API
}

// ClientConfig contains configuration for the Jupiter client.
type ClientConfig struct {
	BaseURL     string
	RouteMapURL string
	PriceURL    string
	APIKey      string // Optional: for Ultra API
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// NewClient creates a new Jupiter API client.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = &ClientConfig{}
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	routeMapURL := config.RouteMapURL
	if routeMapURL == "" {
		routeMapURL = DefaultRouteMapURL
	}

	priceURL := config.PriceURL
	if priceURL == "" {
		priceURL = DefaultPriceURL
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
		}
	}

	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		routeMapURL: routeMapURL,
		priceURL:    priceURL,
		apiKey:      config.APIKey,
	}
}

// GetQuote fetches a swap quote from Jupiter.
func (c *Client) GetQuote(ctx context.Context, params *QuoteParams) (*QuoteResponse, error) {
	if params.InputMint == "" || params.OutputMint == "" {
		return nil, fmt.Errorf("inputMint and outputMint are required")
	}
	if params.Amount == "" {
		return nil, fmt.Errorf("amount is required")
	}

	// Build query parameters
	query := url.Values{}
	query.Set("inputMint", params.InputMint)
	query.Set("outputMint", params.OutputMint)
	query.Set("amount", params.Amount)

	if params.SlippageBps > 0 {
		query.Set("slippageBps", strconv.Itoa(params.SlippageBps))
	}
	if params.SwapMode != "" {
		query.Set("swapMode", params.SwapMode)
	}
	if params.OnlyDirectRoutes {
		query.Set("onlyDirectRoutes", "true")
	}

	var quoteResp QuoteResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/quote?%s", c.baseURL, query.Encode()), &quoteResp); err != nil {
		return nil, err
	}

	return &quoteResp, nil
}

// GetIndexedRouteMap fetches the map of every mint to the mints it can be
// swapped into.
func (c *Client) GetIndexedRouteMap(ctx context.Context) (*IndexedRouteMap, error) {
	query := url.Values{}
	query.Set("onlyDirectRoutes", "false")

	var routeMap IndexedRouteMap
	if err := c.getJSON(ctx, fmt.Sprintf("%s/indexed-route-map?%s", c.routeMapURL, query.Encode()), &routeMap); err != nil {
		return nil, err
	}

	return &routeMap, nil
}

// GetPrice fetches the simple price of uiAmount of inputMint in terms of
// outputMint from the Price API.
func (c *Client) GetPrice(ctx context.Context, inputMint, outputMint string, uiAmount float64) (*PriceData, error) {
	query := url.Values{}
	query.Set("ids", inputMint)
	query.Set("vsToken", outputMint)
	query.Set("amount", strconv.FormatFloat(uiAmount, 'f', -1, 64))

	var priceResp PriceResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/price?%s", c.priceURL, query.Encode()), &priceResp); err != nil {
		return nil, err
	}

	if priceResp.Error != "" {
		return nil, fmt.Errorf("Jupiter price API error: %s", priceResp.Error)
	}

	data, ok := priceResp.Data[inputMint]
	if !ok {
		return nil, fmt.Errorf("price data not found for key %s", inputMint)
	}

	return &data, nil
}

// getJSON issues a GET request and decodes a JSON body into out.
func (c *Client) getJSON(ctx context.Context, requestURL string, out interface{}) error {
	// Create request
	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	// Execute request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Read response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	// Check for errors
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Jupiter API error (status %d): %s", resp.StatusCode, string(body))
	}

	// Parse response
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
