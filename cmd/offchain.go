package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chinmay1088/tatum-go/api"
	"github.com/chinmay1088/tatum-go/chains/algo"
	"github.com/chinmay1088/tatum-go/chains/tron"
)

var offchainCmd = &cobra.Command{
	Use:   "offchain",
	Short: "Deploy tokens together with their ledger virtual currency",
}

var offchainTrcCmd = &cobra.Command{
	Use:   "trc <body.json>",
	Short: "Deploy a TRC10/TRC20 token",
	Long: `Deploy a TRON token described by a JSON file. A body with "mnemonic" derives
the fee payer key locally; a body with "xpub" derives the supply address;
otherwise "privateKey" and "address" are used as given.`,
	Args: cobra.ExactArgs(1),
	RunE: runOffchainTrc,
}

var offchainAlgoCmd = &cobra.Command{
	Use:   "algo <body.json>",
	Short: "Deploy an Algorand asset",
	Args:  cobra.ExactArgs(1),
	RunE:  runOffchainAlgo,
}

func init() {
	offchainCmd.AddCommand(offchainTrcCmd)
	offchainCmd.AddCommand(offchainAlgoCmd)
}

func readBody(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func runOffchainTrc(cmd *cobra.Command, args []string) error {
	client, err := apiClient()
	if err != nil {
		return err
	}
	var probe struct {
		Mnemonic string `json:"mnemonic"`
		Xpub     string `json:"xpub"`
	}
	if err := readBody(args[0], &probe); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), api.DefaultTimeout)
	defer cancel()

	deployer := tron.NewOffchain(client)
	var result *api.OffchainDeployResult
	switch {
	case probe.Mnemonic != "":
		var body api.DeployTrcOffchainMnemonicAddress
		if err := readBody(args[0], &body); err != nil {
			return err
		}
		result, err = deployer.DeployOffchain(ctx, cfg.Testnet, &body)
	case probe.Xpub != "":
		var body api.DeployTrcOffchainPKXpub
		if err := readBody(args[0], &body); err != nil {
			return err
		}
		result, err = deployer.DeployOffchainWithXpub(ctx, cfg.Testnet, &body)
	default:
		var body api.DeployTrcOffchainPKAddress
		if err := readBody(args[0], &body); err != nil {
			return err
		}
		result, err = deployer.DeployOffchainWithPrivateKey(ctx, &body)
	}
	if err != nil {
		return err
	}
	printDeployResult(result)
	return nil
}

func runOffchainAlgo(cmd *cobra.Command, args []string) error {
	client, err := apiClient()
	if err != nil {
		return err
	}
	var body api.DeployAlgoErc20OffchainPKAddress
	if err := readBody(args[0], &body); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), api.DefaultTimeout)
	defer cancel()

	result, err := algo.NewOffchain(client).DeployErc20Offchain(ctx, &body)
	if err != nil {
		return err
	}
	printDeployResult(result)
	return nil
}

func printDeployResult(r *api.OffchainDeployResult) {
	fmt.Printf("✅ Ledger account: %s\n", r.AccountID)
	if r.TxID != "" {
		fmt.Printf("   Transaction:    %s\n", r.TxID)
	}
	if r.SignatureID != "" {
		fmt.Printf("   Signature ID:   %s\n", r.SignatureID)
	}
	if r.Address != "" {
		fmt.Printf("   Address:        %s\n", r.Address)
	}
}
