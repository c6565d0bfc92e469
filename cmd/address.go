package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chinmay1088/tatum-go/wallet"
)

var addressCmd = &cobra.Command{
	Use:   "address <chain> <xpub> <index>",
	Short: "Derive a deposit address from an xpub",
	Long: `Derive the address at index from an extended public key.
Supported chains: ethereum, celo, kcc, bsc, polygon, tron, bitcoin

Examples:
  tatum address ethereum xpub6E... 0
  tatum address bitcoin tpubDF... 5 --testnet`,
	Args: cobra.ExactArgs(3),
	RunE: runAddress,
}

func runAddress(cmd *cobra.Command, args []string) error {
	chain, err := parseChain(args[0])
	if err != nil {
		return err
	}
	index, err := strconv.ParseUint(args[2], 10, 31)
	if err != nil {
		return fmt.Errorf("invalid index %q: %w", args[2], err)
	}

	address, err := wallet.GenerateAddressFromXpub(chain, cfg.Testnet, args[1], uint32(index))
	if err != nil {
		return fmt.Errorf("failed to derive address: %w", err)
	}
	fmt.Println(address)
	return nil
}
