package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"

	"github.com/chinmay1088/tatum-go/api"
)

const testInterval = 5 * time.Millisecond

type step struct {
	webhooks []api.Webhook
	err      error
}

type fakeConnector struct {
	mu        sync.Mutex
	created   []*api.CreateSubscription
	createErr error
	script    []step
	calls     int
	subs      []api.AddressTransactionNotificationAPI
	deleted   []string
}

func (f *fakeConnector) CreateSubscription(_ context.Context, body *api.CreateSubscription) (*api.AddressNotification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, body)
	return &api.AddressNotification{ID: "sub-1"}, nil
}

func (f *fakeConnector) GetSubscriptions(context.Context, *api.GetAllNotificationsQuery) ([]api.AddressTransactionNotificationAPI, error) {
	return f.subs, nil
}

func (f *fakeConnector) DeleteSubscription(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeConnector) GetExecutedWebhooks(context.Context, *api.GetAllExecutedWebhooksQuery) ([]api.Webhook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.script) == 0 {
		f.calls++
		return nil, nil
	}
	idx := f.calls
	if idx >= len(f.script) {
		idx = len(f.script) - 1
	}
	f.calls++
	return f.script[idx].webhooks, f.script[idx].err
}

func (f *fakeConnector) fetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recorder struct {
	mu  sync.Mutex
	ids []string
	err error
}

func (r *recorder) handle(_ context.Context, w api.Webhook) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, w.ID)
	return r.err
}

func (r *recorder) handled() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func future(id string) api.Webhook {
	return api.Webhook{ID: id, SubscriptionID: "sub-1", Timestamp: time.Now().Add(time.Hour).UnixMilli()}
}

func TestListenHandlesEachWebhookOnce(t *testing.T) {
	w1, w2 := future("w1"), future("w2")
	conn := &fakeConnector{script: []step{
		{webhooks: []api.Webhook{w1}},
		{webhooks: []api.Webhook{w1, w2}},
	}}
	rec := &recorder{}
	s := NewService(conn)

	l, err := s.Listen(context.Background(), ListenRequest{
		Address: "0xabc", Chain: api.ChainEthereum, HandleWebhook: rec.handle, Interval: testInterval,
	})
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer l.Stop()

	waitFor(t, func() bool { return conn.fetches() >= 6 })
	if diff := cmp.Diff([]string{"w1", "w2"}, rec.handled()); diff != "" {
		t.Errorf("handled webhooks mismatch (-want +got):\n%s", diff)
	}
	if l.SubscriptionID != "sub-1" {
		t.Errorf("subscription id = %s", l.SubscriptionID)
	}
}

func TestListenIgnoresOldAndForeignWebhooks(t *testing.T) {
	old := api.Webhook{ID: "old", SubscriptionID: "sub-1", Timestamp: time.Now().Add(-time.Hour).UnixMilli()}
	foreign := api.Webhook{ID: "other", SubscriptionID: "sub-2", Timestamp: time.Now().Add(time.Hour).UnixMilli()}
	conn := &fakeConnector{script: []step{{webhooks: []api.Webhook{old, foreign}}}}
	rec := &recorder{}

	l, err := NewService(conn).Listen(context.Background(), ListenRequest{
		Address: "0xabc", Chain: api.ChainEthereum, HandleWebhook: rec.handle, Interval: testInterval,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer l.Stop()

	waitFor(t, func() bool { return conn.fetches() >= 4 })
	if got := rec.handled(); len(got) != 0 {
		t.Errorf("expected no handled webhooks, got %v", got)
	}
}

func TestListenSkipsWebhookAtStartTime(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	atStart := api.Webhook{ID: "at-start", SubscriptionID: "sub-1", Timestamp: start.UnixMilli()}
	after := api.Webhook{ID: "after", SubscriptionID: "sub-1", Timestamp: start.UnixMilli() + 1}
	conn := &fakeConnector{script: []step{{webhooks: []api.Webhook{atStart, after}}}}
	rec := &recorder{}

	s := NewService(conn, WithClock(func() time.Time { return start }))
	l, err := s.Listen(context.Background(), ListenRequest{
		Address: "0xabc", Chain: api.ChainEthereum, HandleWebhook: rec.handle, Interval: testInterval,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer l.Stop()

	waitFor(t, func() bool { return conn.fetches() >= 4 })
	if diff := cmp.Diff([]string{"after"}, rec.handled()); diff != "" {
		t.Errorf("handled webhooks mismatch (-want +got):\n%s", diff)
	}
}

func TestListenSurvivesFetchAndHandlerErrors(t *testing.T) {
	conn := &fakeConnector{script: []step{
		{err: errors.New("boom")},
		{err: errors.New("boom")},
		{webhooks: []api.Webhook{future("w1")}},
		{webhooks: []api.Webhook{future("w1"), future("w2")}},
	}}
	rec := &recorder{err: errors.New("handler failed")}
	metrics, err := NewMetrics(prometheus.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}

	l, err := NewService(conn, WithMetrics(metrics)).Listen(context.Background(), ListenRequest{
		Address: "0xabc", Chain: api.ChainCelo, HandleWebhook: rec.handle, Interval: testInterval,
	})
	if err != nil {
		t.Fatal(err)
	}

	waitFor(t, func() bool { return len(rec.handled()) == 2 })
	l.Stop()

	if got := testutil.ToFloat64(metrics.TickErrors); got != 2 {
		t.Errorf("tick errors = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.HandlerErrors); got != 2 {
		t.Errorf("handler errors = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.Ticks); got < 4 {
		t.Errorf("ticks = %v, want at least 4", got)
	}
}

func TestListenRecoversHandlerPanic(t *testing.T) {
	conn := &fakeConnector{script: []step{
		{webhooks: []api.Webhook{future("w1")}},
		{webhooks: []api.Webhook{future("w1"), future("w2")}},
	}}
	var mu sync.Mutex
	var calls int
	handler := func(context.Context, api.Webhook) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 1 {
			panic("first delivery")
		}
		return nil
	}

	l, err := NewService(conn).Listen(context.Background(), ListenRequest{
		Address: "0xabc", Chain: api.ChainEthereum, HandleWebhook: handler, Interval: testInterval,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer l.Stop()

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 2
	})
}

func TestListenStops(t *testing.T) {
	conn := &fakeConnector{}
	ctx, cancel := context.WithCancel(context.Background())
	l, err := NewService(conn).Listen(ctx, ListenRequest{
		Address: "0xabc", Chain: api.ChainEthereum, HandleWebhook: (&recorder{}).handle, Interval: testInterval,
	})
	if err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return conn.fetches() >= 2 })

	cancel()
	select {
	case <-l.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop on context cancel")
	}
	stopped := conn.fetches()
	time.Sleep(5 * testInterval)
	if conn.fetches() != stopped {
		t.Error("listener kept polling after stop")
	}
	l.Stop()
}

func TestListenSubscriptionFailure(t *testing.T) {
	conn := &fakeConnector{createErr: &api.Error{StatusCode: 403, Message: "forbidden"}}
	_, err := NewService(conn).Listen(context.Background(), ListenRequest{
		Address: "0xabc", Chain: api.ChainEthereum, HandleWebhook: (&recorder{}).handle, Interval: testInterval,
	})
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 403 {
		t.Fatalf("expected remote error, got %v", err)
	}
	time.Sleep(3 * testInterval)
	if conn.fetches() != 0 {
		t.Error("nothing should poll after a failed subscription")
	}
}

func TestListenSubscribesWithDefaultURL(t *testing.T) {
	conn := &fakeConnector{}
	l, err := NewService(conn).Listen(context.Background(), ListenRequest{
		Address: "0xabc", Chain: api.ChainKCC, HandleWebhook: (&recorder{}).handle, Interval: time.Hour,
	})
	if err != nil {
		t.Fatal(err)
	}
	l.Stop()

	want := &api.CreateSubscription{
		Type: api.SubscriptionTypeAddressTransaction,
		Attr: api.AddressTransactionAttrAPI{Chain: "KCS", Address: "0xabc", URL: DefaultWebhookURL},
	}
	if diff := cmp.Diff([]*api.CreateSubscription{want}, conn.created); diff != "" {
		t.Errorf("subscription mismatch (-want +got):\n%s", diff)
	}
}

func TestListenValidation(t *testing.T) {
	conn := &fakeConnector{}
	_, err := NewService(conn).Listen(context.Background(), ListenRequest{Chain: api.ChainEthereum})
	var verr *api.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Fields) != 3 {
		t.Errorf("fields = %v", verr.Fields)
	}
	if len(conn.created) != 0 {
		t.Error("invalid request must not subscribe")
	}
}

func TestSharedSeenStoreAcrossListeners(t *testing.T) {
	store := NewMemorySeenStore()
	conn := &fakeConnector{script: []step{{webhooks: []api.Webhook{future("w1")}}}}
	a, b := &recorder{}, &recorder{}
	s := NewService(conn, WithSeenStore(store))

	la, err := s.Listen(context.Background(), ListenRequest{Address: "0xabc", Chain: api.ChainEthereum, HandleWebhook: a.handle, Interval: testInterval})
	if err != nil {
		t.Fatal(err)
	}
	defer la.Stop()
	lb, err := s.Listen(context.Background(), ListenRequest{Address: "0xabc", Chain: api.ChainEthereum, HandleWebhook: b.handle, Interval: testInterval})
	if err != nil {
		t.Fatal(err)
	}
	defer lb.Stop()

	waitFor(t, func() bool { return conn.fetches() >= 8 })
	if total := len(a.handled()) + len(b.handled()); total != 1 {
		t.Errorf("webhook handled %d times across listeners, want 1", total)
	}
}

func TestGetAllMapsChainCodes(t *testing.T) {
	conn := &fakeConnector{subs: []api.AddressTransactionNotificationAPI{
		{ID: "1", Type: api.SubscriptionTypeAddressTransaction, Attr: api.AddressTransactionAttrAPI{Chain: "MATIC", Address: "0x1", URL: "https://x"}},
	}}
	s := NewService(conn)

	got, err := s.GetAll(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []api.AddressTransactionNotification{{ID: "1", Chain: api.ChainPolygon, Address: "0x1", URL: "https://x", Type: api.SubscriptionTypeAddressTransaction}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetAll mismatch (-want +got):\n%s", diff)
	}

	if err := s.Unsubscribe(context.Background(), "1"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"1"}, conn.deleted); diff != "" {
		t.Errorf("deleted mismatch:\n%s", diff)
	}
}

type fakeRedis struct {
	redis.Cmdable
	keys map[string]time.Duration
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, _ interface{}, expiration time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	if _, ok := f.keys[key]; ok {
		cmd.SetVal(false)
		return cmd
	}
	f.keys[key] = expiration
	cmd.SetVal(true)
	return cmd
}

func TestRedisSeenStore(t *testing.T) {
	rdb := &fakeRedis{keys: map[string]time.Duration{}}
	store := NewRedisSeenStore(rdb, time.Hour)

	for i, want := range []bool{true, false} {
		fresh, err := store.MarkSeen(context.Background(), "sub-1", "w1")
		if err != nil {
			t.Fatal(err)
		}
		if fresh != want {
			t.Errorf("call %d: fresh = %v, want %v", i, fresh, want)
		}
	}
	if ttl, ok := rdb.keys["webhooks:seen:sub-1:w1"]; !ok || ttl != time.Hour {
		t.Errorf("keys = %v", rdb.keys)
	}
}
