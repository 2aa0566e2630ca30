package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/DougPlumley/PS-Shopify/internal/config"
	apperrors "github.com/DougPlumley/PS-Shopify/pkg/errors"
)

// Client talks to the Shopify Admin REST API for a single store,
// authenticated with HTTP Basic credentials.
type Client struct {
	store      string
	username   string
	password   string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an Admin API client for one store.
func NewClient(cfg config.ShopifyConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	store := normalizeStore(cfg.Store)
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.myshopify.com", store)
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	return &Client{
		store:    store,
		username: cfg.Username,
		password: cfg.Password,
		baseURL:  baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// normalizeStore reduces whatever the operator pasted in to the bare store
// subdomain - strips scheme, trailing slash and the .myshopify.com suffix.
func normalizeStore(store string) string {
	store = strings.TrimSpace(store)
	store = strings.TrimPrefix(store, "https://")
	store = strings.TrimPrefix(store, "http://")
	store = strings.TrimSuffix(store, "/")
	store = strings.TrimSuffix(store, ".myshopify.com")
	return store
}

// getProductsPage fetches one page of the product listing.
func (c *Client) getProductsPage(ctx context.Context, limit, page int) ([]Product, error) {
	url := fmt.Sprintf("%s/admin/products.json?limit=%d&page=%d", c.baseURL, limit, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products page %d: %w", page, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &apperrors.ErrUnauthorized{
			Message: fmt.Sprintf("shopify rejected credentials for store %s", c.store),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &apperrors.ErrRemote{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var envelope productsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal products page %d: %w", page, err)
	}

	c.logger.Debug("Fetched products page",
		zap.String("store", c.store),
		zap.Int("page", page),
		zap.Int("limit", limit),
		zap.Int("count", len(envelope.Products)),
	)

	return envelope.Products, nil
}

// postProduct submits a single product creation request and returns the
// created record as Shopify reported it.
func (c *Client) postProduct(ctx context.Context, payload map[string]any) (*Product, error) {
	url := c.baseURL + "/admin/products.json"

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &apperrors.ErrUnauthorized{
			Message: fmt.Sprintf("shopify rejected credentials for store %s", c.store),
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apperrors.ErrRemote{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var envelope productEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}

	return &envelope.Product, nil
}
