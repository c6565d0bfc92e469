package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// SubscriptionTypeAddressTransaction fires on every transaction touching an address
const SubscriptionTypeAddressTransaction = "ADDRESS_TRANSACTION"

// AddressTransactionNotification is a subscription as presented to SDK users
type AddressTransactionNotification struct {
	ID      string `json:"id"`
	Chain   Chain  `json:"chain"`
	Address string `json:"address"`
	URL     string `json:"url"`
	Type    string `json:"type"`
}

// AddressTransactionNotificationAPI is a subscription as the remote API returns it
type AddressTransactionNotificationAPI struct {
	ID   string                    `json:"id"`
	Type string                    `json:"type"`
	Attr AddressTransactionAttrAPI `json:"attr"`
}

// AddressTransactionAttrAPI holds the subscription attributes; Chain is the remote code
type AddressTransactionAttrAPI struct {
	Chain   string `json:"chain" validate:"required"`
	Address string `json:"address" validate:"required,min=1,max=128"`
	URL     string `json:"url" validate:"required,url,max=500"`
}

// ToNotification converts the wire view into the SDK view
func (n AddressTransactionNotificationAPI) ToNotification() AddressTransactionNotification {
	chain, ok := ChainMapInverse[n.Attr.Chain]
	if !ok {
		chain = Chain(n.Attr.Chain)
	}
	return AddressTransactionNotification{
		ID:      n.ID,
		Chain:   chain,
		Address: n.Attr.Address,
		URL:     n.Attr.URL,
		Type:    n.Type,
	}
}

// CreateSubscription is the body of POST subscription
type CreateSubscription struct {
	Type string                    `json:"type" validate:"required"`
	Attr AddressTransactionAttrAPI `json:"attr"`
}

// AddressNotification is the answer of a subscription creation
type AddressNotification struct {
	ID string `json:"id"`
}

// GetAllNotificationsQuery pages through subscriptions
type GetAllNotificationsQuery struct {
	PageSize int
	Offset   int
	Address  string
}

// GetAllExecutedWebhooksQuery pages through executed webhooks
type GetAllExecutedWebhooksQuery struct {
	PageSize     int
	Offset       int
	Direction    Sort
	FilterFailed bool
}

// WebhookResponse is what the subscriber's endpoint answered
type WebhookResponse struct {
	Code         int    `json:"code,omitempty"`
	Data         string `json:"data,omitempty"`
	NetworkError bool   `json:"networkError,omitempty"`
}

// Webhook is one delivery attempt made by the remote service
type Webhook struct {
	Type           string          `json:"type"`
	ID             string          `json:"id"`
	SubscriptionID string          `json:"subscriptionId"`
	URL            string          `json:"url"`
	Data           json.RawMessage `json:"data,omitempty"`
	NextTime       int64           `json:"nextTime,omitempty"`
	Timestamp      int64           `json:"timestamp"` // unix milliseconds
	RetryCount     int             `json:"retryCount,omitempty"`
	Failed         bool            `json:"failed"`
	Response       WebhookResponse `json:"response"`
}

// CreateSubscription registers a new subscription
func (c *Client) CreateSubscription(ctx context.Context, body *CreateSubscription) (*AddressNotification, error) {
	if err := Validate("create subscription", body); err != nil {
		return nil, err
	}
	var out AddressNotification
	if err := c.post(ctx, "subscription", body, &out); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	return &out, nil
}

// GetSubscriptions lists subscriptions in the remote wire format
func (c *Client) GetSubscriptions(ctx context.Context, query *GetAllNotificationsQuery) ([]AddressTransactionNotificationAPI, error) {
	params := url.Values{}
	pageSize := DefaultPageSize
	if query != nil && query.PageSize > 0 {
		pageSize = query.PageSize
	}
	params.Set("pageSize", strconv.Itoa(pageSize))
	if query != nil {
		if query.Offset != 0 {
			params.Set("offset", strconv.Itoa(query.Offset))
		}
		if query.Address != "" {
			params.Set("address", query.Address)
		}
	}

	var out []AddressTransactionNotificationAPI
	if err := c.get(ctx, "subscription", params, &out); err != nil {
		return nil, fmt.Errorf("failed to get subscriptions: %w", err)
	}
	return out, nil
}

// DeleteSubscription cancels a subscription
func (c *Client) DeleteSubscription(ctx context.Context, id string) error {
	if id == "" {
		return &ValidationError{Op: "delete subscription", Fields: []string{"id"}, Err: errMissingID}
	}
	if err := c.delete(ctx, "subscription/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	return nil
}

// GetExecutedWebhooks lists webhooks the remote service already delivered
func (c *Client) GetExecutedWebhooks(ctx context.Context, query *GetAllExecutedWebhooksQuery) ([]Webhook, error) {
	params := url.Values{}
	pageSize := DefaultPageSize
	if query != nil && query.PageSize > 0 {
		pageSize = query.PageSize
	}
	params.Set("pageSize", strconv.Itoa(pageSize))
	if query != nil {
		if query.Offset != 0 {
			params.Set("offset", strconv.Itoa(query.Offset))
		}
		if query.Direction != "" {
			params.Set("direction", string(query.Direction))
		}
		if query.FilterFailed {
			params.Set("failed", "true")
		}
	}

	var out []Webhook
	if err := c.get(ctx, "subscription/webhook", params, &out); err != nil {
		return nil, fmt.Errorf("failed to get executed webhooks: %w", err)
	}
	return out, nil
}
