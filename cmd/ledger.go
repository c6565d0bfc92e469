package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chinmay1088/tatum-go/api"
)

var blockDescription string

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Block and unblock amounts on ledger accounts",
}

var ledgerBlockCmd = &cobra.Command{
	Use:   "block <account-id> <amount> <type>",
	Short: "Block an amount on an account",
	Args:  cobra.ExactArgs(3),
	RunE:  runLedgerBlock,
}

var ledgerUnblockCmd = &cobra.Command{
	Use:   "unblock <blockage-id>",
	Short: "Remove a blockage",
	Args:  cobra.ExactArgs(1),
	RunE:  runLedgerUnblock,
}

var ledgerListCmd = &cobra.Command{
	Use:   "list <account-id>",
	Short: "List blockages of an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runLedgerList,
}

func init() {
	ledgerBlockCmd.Flags().StringVar(&blockDescription, "description", "", "blockage description")
	ledgerListCmd.Flags().IntVar(&pageSizeFlag, "page-size", api.DefaultPageSize, "entries per page")
	ledgerListCmd.Flags().IntVar(&offsetFlag, "offset", 0, "page offset")

	ledgerCmd.AddCommand(ledgerBlockCmd)
	ledgerCmd.AddCommand(ledgerUnblockCmd)
	ledgerCmd.AddCommand(ledgerListCmd)
}

func runLedgerBlock(cmd *cobra.Command, args []string) error {
	client, err := apiClient()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), api.DefaultTimeout)
	defer cancel()

	id, err := client.BlockAmount(ctx, args[0], &api.BlockAmount{Amount: args[1], Type: args[2], Description: blockDescription})
	if err != nil {
		return err
	}
	fmt.Printf("✅ Blocked %s on %s, blockage %s\n", args[1], args[0], id.ID)
	return nil
}

func runLedgerUnblock(cmd *cobra.Command, args []string) error {
	client, err := apiClient()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), api.DefaultTimeout)
	defer cancel()

	if err := client.DeleteBlockedAmount(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("✅ Blockage %s removed\n", args[0])
	return nil
}

func runLedgerList(cmd *cobra.Command, args []string) error {
	client, err := apiClient()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), api.DefaultTimeout)
	defer cancel()

	blockages, err := client.GetBlockedAmounts(ctx, args[0], pageSizeFlag, offsetFlag)
	if err != nil {
		return err
	}
	if len(blockages) == 0 {
		fmt.Println("No blockages found")
		return nil
	}
	for _, b := range blockages {
		fmt.Printf("%s  %s  %s  %s\n", b.ID, b.Amount, b.Type, b.Description)
	}
	return nil
}
