// Package notification manages address subscriptions and polls executed
// webhooks on behalf of a subscriber.
package notification

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chinmay1088/tatum-go/api"
	"github.com/chinmay1088/tatum-go/logger"
)

// DefaultWebhookURL receives webhooks for subscriptions created by Listen
const DefaultWebhookURL = "https://dashboard.tatum.io/webhook-handler"

// Connector is the subscription part of the remote API. *api.Client satisfies it.
type Connector interface {
	CreateSubscription(ctx context.Context, body *api.CreateSubscription) (*api.AddressNotification, error)
	GetSubscriptions(ctx context.Context, query *api.GetAllNotificationsQuery) ([]api.AddressTransactionNotificationAPI, error)
	DeleteSubscription(ctx context.Context, id string) error
	GetExecutedWebhooks(ctx context.Context, query *api.GetAllExecutedWebhooksQuery) ([]api.Webhook, error)
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = logger.OrNop(l) }
}

// WithSeenStore shares handled webhook ids through store instead of per-listener memory
func WithSeenStore(store SeenStore) Option {
	return func(s *Service) { s.seen = store }
}

// WithClock replaces time.Now when a listener records its start time
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMetrics records listener activity in m
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// Service lists, creates and removes subscriptions and runs listeners
type Service struct {
	conn    Connector
	logger  *zap.Logger
	seen    SeenStore
	metrics *Metrics
	now     func() time.Time

	Subscribe *Subscribe
}

// NewService creates a notification service on top of conn
func NewService(conn Connector, opts ...Option) *Service {
	s := &Service{conn: conn, logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.Subscribe = &Subscribe{conn: conn}
	return s
}

// GetAll lists subscriptions with chain codes mapped back to chain names
func (s *Service) GetAll(ctx context.Context, query *api.GetAllNotificationsQuery) ([]api.AddressTransactionNotification, error) {
	subs, err := s.conn.GetSubscriptions(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]api.AddressTransactionNotification, 0, len(subs))
	for _, sub := range subs {
		out = append(out, sub.ToNotification())
	}
	return out, nil
}

// Unsubscribe deletes subscription id
func (s *Service) Unsubscribe(ctx context.Context, id string) error {
	return s.conn.DeleteSubscription(ctx, id)
}

// GetAllExecutedWebhooks lists webhook deliveries made by the remote service
func (s *Service) GetAllExecutedWebhooks(ctx context.Context, query *api.GetAllExecutedWebhooksQuery) ([]api.Webhook, error) {
	return s.conn.GetExecutedWebhooks(ctx, query)
}

// Subscribe creates subscriptions
type Subscribe struct {
	conn Connector
}

// AddressTransactionRequest describes an address subscription
type AddressTransactionRequest struct {
	URL     string
	Chain   api.Chain
	Address string
}

// AddressTransaction subscribes URL to every transaction touching Address on Chain
func (s *Subscribe) AddressTransaction(ctx context.Context, req AddressTransactionRequest) (*api.AddressNotification, error) {
	code, err := req.Chain.Code()
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}
	return s.conn.CreateSubscription(ctx, &api.CreateSubscription{
		Type: api.SubscriptionTypeAddressTransaction,
		Attr: api.AddressTransactionAttrAPI{
			Chain:   code,
			Address: req.Address,
			URL:     req.URL,
		},
	})
}
