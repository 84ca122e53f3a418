package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"shipment-tracker/internal/core/config"
	"shipment-tracker/internal/features/orders/domain"
)

// StorefrontAdapter implements the OrderProvider interface against the
// storefront order API.
type StorefrontAdapter struct {
	// client is the HTTP client used for API requests.
	client *http.Client
	// config holds the storefront connection details.
	config config.StorefrontConfig
}

// NewStorefrontAdapter creates a new instance of StorefrontAdapter.
func NewStorefrontAdapter(cfg config.StorefrontConfig, client *http.Client) *StorefrontAdapter {
	return &StorefrontAdapter{
		client: client,
		config: cfg,
	}
}

// GetOrder fetches an order from the storefront and maps it to the domain
// entity. An unknown order ID returns (nil, nil).
func (a *StorefrontAdapter) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	url := fmt.Sprintf("%s/api/v1/orders/%s", a.config.URL, orderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if a.config.APIKey != "" {
		req.Header.Set("X-Api-Key", a.config.APIKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("storefront API returned status: %d", resp.StatusCode)
	}

	var sfOrder storefrontOrder
	if err := json.NewDecoder(resp.Body).Decode(&sfOrder); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return mapToDomain(sfOrder), nil
}

// HealthCheck verifies that the storefront API is reachable and the API key
// is accepted.
func (a *StorefrontAdapter) HealthCheck(ctx context.Context) error {
	url := fmt.Sprintf("%s/api/v1/orders?per_page=1", a.config.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("health check failed to create request: %w", err)
	}
	if a.config.APIKey != "" {
		req.Header.Set("X-Api-Key", a.config.APIKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %d", resp.StatusCode)
	}

	return nil
}

// mapToDomain converts a raw storefront order response into a domain Order.
func mapToDomain(sfOrder storefrontOrder) *domain.Order {
	items := make([]domain.OrderItem, 0, len(sfOrder.Items))
	for _, item := range sfOrder.Items {
		items = append(items, domain.OrderItem{
			SKU:      item.SKU,
			Name:     item.Name,
			Quantity: item.Quantity,
			Picture:  item.Picture,
		})
	}

	return &domain.Order{
		ID:          sfOrder.ID,
		Status:      domain.OrderStatus(strings.ToLower(sfOrder.Status)),
		AWB:         sfOrder.AWBCode,
		CourierName: sfOrder.CourierName,
		CreatedAt:   time.Time(sfOrder.CreatedAt),
		Items:       items,
	}
}

// internal structs for mapping

// storefrontOrder represents the JSON structure of an order from the
// storefront API.
type storefrontOrder struct {
	// ID is the unique order ID.
	ID string `json:"id"`
	// Status is the backend order status string.
	Status string `json:"status"`
	// AWBCode is the shipment tracking number, empty until shipped.
	AWBCode string `json:"awb_code"`
	// CourierName is the carrier assigned to the shipment.
	CourierName string `json:"courier_name"`
	// CreatedAt is when the order was placed.
	CreatedAt sfTime `json:"created_at"`
	// Items contains the products ordered.
	Items []storefrontItem `json:"items"`
}

// storefrontItem represents a product in the storefront order.
type storefrontItem struct {
	// SKU is the product SKU.
	SKU string `json:"sku"`
	// Name is the product name.
	Name string `json:"name"`
	// Quantity is the number of units ordered.
	Quantity int `json:"quantity"`
	// Picture is the product image URL.
	Picture string `json:"picture"`
}

// sfTime handles the storefront's date format, which drops the timezone on
// older records.
type sfTime time.Time

// UnmarshalJSON parses RFC3339 with a fallback for timezone-less dates.
func (t *sfTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	if s == "null" || s == "" {
		*t = sfTime(time.Time{})
		return nil
	}

	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		parsed, err = time.Parse("2006-01-02T15:04:05", s)
	}
	if err != nil {
		return fmt.Errorf("unrecognized date format: %s", s)
	}

	*t = sfTime(parsed)
	return nil
}
