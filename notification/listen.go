package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chinmay1088/tatum-go/api"
)

// WebhookHandler is invoked once for every new webhook of a listened subscription
type WebhookHandler func(ctx context.Context, webhook api.Webhook) error

// ListenRequest describes what Listen subscribes to and how often it polls
type ListenRequest struct {
	Address       string
	Chain         api.Chain
	HandleWebhook WebhookHandler
	Interval      time.Duration
	// URL overrides DefaultWebhookURL
	URL string
}

// Listener is a running poll loop
type Listener struct {
	SubscriptionID string

	cancel context.CancelFunc
	done   chan struct{}
}

// Stop ends the poll loop and waits for the current tick to finish
func (l *Listener) Stop() {
	l.cancel()
	<-l.done
}

// Done is closed once the poll loop has exited
func (l *Listener) Done() <-chan struct{} {
	return l.done
}

var errNoHandler = errors.New("handler is required")

// Listen subscribes to address transactions and polls executed webhooks every
// Interval. Each tick hands at most one webhook to HandleWebhook: the first
// one newer than the subscription, belonging to it and not handled before.
// Fetch and handler failures are logged and the loop keeps going until ctx is
// cancelled or Stop is called.
func (s *Service) Listen(ctx context.Context, req ListenRequest) (*Listener, error) {
	var fields []string
	var reason error
	if strings.TrimSpace(req.Address) == "" {
		fields, reason = append(fields, "ListenRequest.address"), errors.New("address is required")
	}
	if req.HandleWebhook == nil {
		fields, reason = append(fields, "ListenRequest.handleWebhook"), errNoHandler
	}
	if req.Interval <= 0 {
		fields, reason = append(fields, "ListenRequest.interval"), fmt.Errorf("interval must be positive, got %s", req.Interval)
	}
	if len(fields) > 0 {
		return nil, &api.ValidationError{Op: "listen", Fields: fields, Err: reason}
	}

	url := req.URL
	if url == "" {
		url = DefaultWebhookURL
	}
	sub, err := s.Subscribe.AddressTransaction(ctx, AddressTransactionRequest{URL: url, Chain: req.Chain, Address: req.Address})
	if err != nil {
		return nil, err
	}
	start := s.now().UnixMilli()

	seen := s.seen
	if seen == nil {
		seen = NewMemorySeenStore()
	}

	loopCtx, cancel := context.WithCancel(ctx)
	l := &Listener{SubscriptionID: sub.ID, cancel: cancel, done: make(chan struct{})}
	log := s.logger.With(zap.String("subscription_id", sub.ID), zap.String("chain", string(req.Chain)))
	log.Info("listening for webhooks", zap.String("address", req.Address), zap.Duration("interval", req.Interval))

	go func() {
		defer close(l.done)
		ticker := time.NewTicker(req.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				log.Info("listener stopped")
				return
			case <-ticker.C:
				s.tick(loopCtx, log, sub.ID, start, seen, req.HandleWebhook)
			}
		}
	}()
	return l, nil
}

// tick runs inline in the listener goroutine; ticks that fire meanwhile are dropped by the ticker
func (s *Service) tick(ctx context.Context, log *zap.Logger, subscriptionID string, start int64, seen SeenStore, handle WebhookHandler) {
	s.metrics.tick()
	webhooks, err := s.conn.GetExecutedWebhooks(ctx, nil)
	if err != nil {
		if ctx.Err() == nil {
			s.metrics.tickError()
			log.Warn("failed to fetch executed webhooks", zap.Error(err))
		}
		return
	}

	for _, w := range webhooks {
		if w.Timestamp <= start || w.SubscriptionID != subscriptionID {
			continue
		}
		fresh, err := seen.MarkSeen(ctx, subscriptionID, w.ID)
		if err != nil {
			s.metrics.tickError()
			log.Warn("failed to record webhook", zap.String("webhook_id", w.ID), zap.Error(err))
			return
		}
		if !fresh {
			continue
		}

		log.Info("found webhook", zap.String("webhook_id", w.ID))
		s.metrics.handled()
		if err := invoke(ctx, handle, w); err != nil {
			s.metrics.handlerError()
			log.Error("webhook execution failed", zap.String("webhook_id", w.ID), zap.Error(err))
		}
		return
	}
}

func invoke(ctx context.Context, handle WebhookHandler, w api.Webhook) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handle(ctx, w)
}
