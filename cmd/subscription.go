package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chinmay1088/tatum-go/api"
	"github.com/chinmay1088/tatum-go/notification"
)

var (
	pageSizeFlag int
	offsetFlag   int
	filterAddr   string
	failedFlag   bool
	directionAsc bool
)

var subscriptionCmd = &cobra.Command{
	Use:   "subscription",
	Short: "Manage address transaction subscriptions",
}

var subscriptionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List subscriptions",
	Args:  cobra.NoArgs,
	RunE:  runSubscriptionList,
}

var subscriptionDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a subscription",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubscriptionDelete,
}

var webhooksCmd = &cobra.Command{
	Use:   "webhooks",
	Short: "Show webhooks the service has executed",
	Long: `Show executed webhooks, newest first unless --asc is given.

Examples:
  tatum webhooks --page-size 20
  tatum webhooks --failed`,
	Args: cobra.NoArgs,
	RunE: runWebhooks,
}

func init() {
	for _, c := range []*cobra.Command{subscriptionListCmd, webhooksCmd} {
		c.Flags().IntVar(&pageSizeFlag, "page-size", api.DefaultPageSize, "entries per page")
		c.Flags().IntVar(&offsetFlag, "offset", 0, "page offset")
	}
	subscriptionListCmd.Flags().StringVar(&filterAddr, "address", "", "only subscriptions for this address")
	webhooksCmd.Flags().BoolVar(&failedFlag, "failed", false, "only failed deliveries")
	webhooksCmd.Flags().BoolVar(&directionAsc, "asc", false, "oldest first")

	subscriptionCmd.AddCommand(subscriptionListCmd)
	subscriptionCmd.AddCommand(subscriptionDeleteCmd)
}

func notificationService() (*notification.Service, error) {
	client, err := apiClient()
	if err != nil {
		return nil, err
	}
	return notification.NewService(client, notification.WithLogger(log)), nil
}

func runSubscriptionList(cmd *cobra.Command, args []string) error {
	svc, err := notificationService()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), api.DefaultTimeout)
	defer cancel()

	subs, err := svc.GetAll(ctx, &api.GetAllNotificationsQuery{PageSize: pageSizeFlag, Offset: offsetFlag, Address: filterAddr})
	if err != nil {
		return fmt.Errorf("failed to list subscriptions: %w", err)
	}
	if len(subs) == 0 {
		fmt.Println("No subscriptions found")
		return nil
	}
	for _, s := range subs {
		fmt.Printf("%s  %-9s %s -> %s\n", color.CyanString(s.ID), s.Chain, s.Address, s.URL)
	}
	return nil
}

func runSubscriptionDelete(cmd *cobra.Command, args []string) error {
	svc, err := notificationService()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), api.DefaultTimeout)
	defer cancel()

	if err := svc.Unsubscribe(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	fmt.Printf("✅ Subscription %s deleted\n", args[0])
	return nil
}

func runWebhooks(cmd *cobra.Command, args []string) error {
	svc, err := notificationService()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), api.DefaultTimeout)
	defer cancel()

	query := &api.GetAllExecutedWebhooksQuery{PageSize: pageSizeFlag, Offset: offsetFlag, FilterFailed: failedFlag}
	if directionAsc {
		query.Direction = api.SortAsc
	}
	hooks, err := svc.GetAllExecutedWebhooks(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to list webhooks: %w", err)
	}
	if len(hooks) == 0 {
		fmt.Println("No webhooks found")
		return nil
	}
	for _, h := range hooks {
		status := color.GreenString("ok")
		if h.Failed {
			status = color.RedString("failed")
		}
		ts := time.UnixMilli(h.Timestamp).Format(time.RFC3339)
		fmt.Printf("%s  %s  sub=%s  %s  %s\n", ts, h.ID, h.SubscriptionID, h.URL, status)
	}
	return nil
}
