package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chinmay1088/tatum-go/api"
	"github.com/chinmay1088/tatum-go/metrics"
	"github.com/chinmay1088/tatum-go/notification"
	"github.com/chinmay1088/tatum-go/sink"
)

var (
	intervalFlag     time.Duration
	webhookURLFlag   string
	kafkaBrokersFlag []string
	kafkaTopicFlag   string
	redisAddrFlag    string
	metricsPortFlag  string
	unsubscribeFlag  bool
)

var listenCmd = &cobra.Command{
	Use:   "listen <chain> <address>",
	Short: "Subscribe to an address and wait for its webhooks",
	Long: `Subscribe to every transaction touching the address, then poll executed
webhooks until interrupted. Each new webhook is printed once; with Kafka
brokers configured it is also published to the topic, keyed by subscription.

Handled webhook ids are kept in memory, or in Redis when --redis-addr is
set so several listeners can share them.

Examples:
  tatum listen ethereum 0x1234... --interval 10s
  tatum listen tron TXYZ... --kafka-brokers localhost:9092 --metrics-port 9102`,
	Args: cobra.ExactArgs(2),
	RunE: runListen,
}

func init() {
	listenCmd.Flags().DurationVar(&intervalFlag, "interval", 0, "poll interval (default from config)")
	listenCmd.Flags().StringVar(&webhookURLFlag, "url", "", "webhook URL for the subscription")
	listenCmd.Flags().StringSliceVar(&kafkaBrokersFlag, "kafka-brokers", nil, "publish webhooks to these brokers")
	listenCmd.Flags().StringVar(&kafkaTopicFlag, "kafka-topic", "", "Kafka topic (default from config)")
	listenCmd.Flags().StringVar(&redisAddrFlag, "redis-addr", "", "share handled webhook ids through Redis")
	listenCmd.Flags().StringVar(&metricsPortFlag, "metrics-port", "", "serve /metrics and /healthz on this port")
	listenCmd.Flags().BoolVar(&unsubscribeFlag, "unsubscribe", true, "delete the subscription on exit")
}

func runListen(cmd *cobra.Command, args []string) error {
	chain, err := parseChain(args[0])
	if err != nil {
		return err
	}
	applyListenFlags()
	client, err := apiClient()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	m, err := notification.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	opts := []notification.Option{notification.WithLogger(log), notification.WithMetrics(m)}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		if rdb, err = notification.ConnectRedis(ctx, cfg.Redis.Addr); err != nil {
			return err
		}
		defer rdb.Close()
		opts = append(opts, notification.WithSeenStore(notification.NewRedisSeenStore(rdb, cfg.Redis.TTL)))
	}

	handle := printWebhook
	if len(cfg.Kafka.Brokers) > 0 {
		ks := sink.NewKafkaSink(sink.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic), log)
		defer ks.Close()
		handle = func(ctx context.Context, w api.Webhook) error {
			_ = printWebhook(ctx, w)
			return ks.Handle(ctx, w)
		}
	}

	if cfg.MetricsPort != "" {
		srv := metrics.Start(cfg.MetricsPort, reg, func(ctx context.Context) error {
			if rdb != nil {
				return rdb.Ping(ctx).Err()
			}
			return nil
		})
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		log.Info("metrics server started", zap.String("port", cfg.MetricsPort))
	}

	svc := notification.NewService(client, opts...)
	listener, err := svc.Listen(ctx, notification.ListenRequest{
		Address:       args[1],
		Chain:         chain,
		HandleWebhook: handle,
		Interval:      cfg.ListenInterval,
		URL:           webhookURLFlag,
	})
	if err != nil {
		return fmt.Errorf("failed to start listener: %w", err)
	}
	fmt.Printf("👂 Listening on %s (%s), subscription %s\n", args[1], chain, color.CyanString(listener.SubscriptionID))

	spin(ctx, listener.Done())
	listener.Stop()

	if unsubscribeFlag {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()
		if err := svc.Unsubscribe(cleanupCtx, listener.SubscriptionID); err != nil {
			return fmt.Errorf("failed to delete subscription %s: %w", listener.SubscriptionID, err)
		}
		fmt.Printf("🧹 Subscription %s deleted\n", listener.SubscriptionID)
	}
	return nil
}

func applyListenFlags() {
	if intervalFlag > 0 {
		cfg.ListenInterval = intervalFlag
	}
	if len(kafkaBrokersFlag) > 0 {
		cfg.Kafka.Brokers = kafkaBrokersFlag
	}
	if kafkaTopicFlag != "" {
		cfg.Kafka.Topic = kafkaTopicFlag
	}
	if redisAddrFlag != "" {
		cfg.Redis.Addr = redisAddrFlag
	}
	if metricsPortFlag != "" {
		cfg.MetricsPort = metricsPortFlag
	}
}

func printWebhook(_ context.Context, w api.Webhook) error {
	fmt.Printf("\n📬 %s webhook %s at %s\n", color.GreenString(w.Type), w.ID, time.UnixMilli(w.Timestamp).Format(time.RFC3339))
	if len(w.Data) > 0 {
		fmt.Printf("   %s\n", w.Data)
	}
	return nil
}

// spin shows a spinner until ctx ends or the listener exits
func spin(ctx context.Context, done <-chan struct{}) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetDescription("[cyan]waiting for webhooks[reset]"),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
	)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			_ = bar.Finish()
			return
		case <-done:
			_ = bar.Finish()
			return
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}
