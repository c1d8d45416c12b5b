package printify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

const defaultBaseURL = "https://api.printify.com/v1"

// Client is a thin wrapper over the Printify REST API.
type Client struct {
	baseURL    string
	token      string
	shopID     string
	httpClient *http.Client
}

func NewClient(token, shopID string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		token:   token,
		shopID:  shopID,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a local server.
func NewClientWithBaseURL(token, shopID, baseURL string) *Client {
	c := NewClient(token, shopID)
	c.baseURL = baseURL
	return c
}

// Configured reports whether provider credentials are present. When false,
// callers must use fallback behavior instead of calling the API.
func (c *Client) Configured() bool {
	return c != nil && c.token != "" && c.shopID != ""
}

func (c *Client) ShopID() string {
	return c.shopID
}

// APIError is a non-2xx response from the provider.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("printify API error: %d - %s", e.StatusCode, e.Body)
}

func (e *APIError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(500*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "PawPop-Go")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
			if apiErr.retryable() {
				return retry.RetryableError(apiErr)
			}
			return apiErr
		}

		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	})
}

// GetBlueprintVariants lists the catalog variants for a blueprint and print provider.
func (c *Client) GetBlueprintVariants(ctx context.Context, blueprintID, printProviderID int) ([]Variant, error) {
	var resp variantsResponse
	path := fmt.Sprintf("/catalog/blueprints/%d/print_providers/%d/variants.json", blueprintID, printProviderID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Variants, nil
}

// UploadImage fetches imageURL, base64-encodes the bytes, and uploads them to
// the provider's media library. Returns the provider upload ID.
func (c *Client) UploadImage(ctx context.Context, imageURL, fileName string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch image: %s", resp.Status)
	}

	imageBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	var upload uploadResponse
	err = c.do(ctx, http.MethodPost, "/uploads/images.json", map[string]string{
		"file_name": fileName,
		"contents":  base64.StdEncoding.EncodeToString(imageBytes),
	}, &upload)
	if err != nil {
		return "", err
	}

	slog.Info("image uploaded to printify", "upload_id", upload.ID, "file_name", fileName)
	return upload.ID, nil
}

// CreateProduct creates a draft product and re-fetches it so the provider's
// generated mockup images are included in the result.
func (c *Client) CreateProduct(ctx context.Context, productData map[string]any) (*product, error) {
	var created product
	path := fmt.Sprintf("/shops/%s/products.json", c.shopID)
	if err := c.do(ctx, http.MethodPost, path, productData, &created); err != nil {
		return nil, err
	}

	var full product
	path = fmt.Sprintf("/shops/%s/products/%s.json", c.shopID, created.ID)
	if err := c.do(ctx, http.MethodGet, path, nil, &full); err != nil {
		return nil, err
	}
	return &full, nil
}

// CreateOrder places a fulfillment order with the provider.
func (c *Client) CreateOrder(ctx context.Context, orderData OrderRequest) (*Order, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("printify is not configured")
	}
	var order Order
	path := fmt.Sprintf("/shops/%s/orders.json", c.shopID)
	if err := c.do(ctx, http.MethodPost, path, orderData, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
