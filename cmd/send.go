package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chinmay1088/tatum-go/api"
	"github.com/chinmay1088/tatum-go/chains/bitcoin"
	"github.com/chinmay1088/tatum-go/chains/solana"
)

var (
	utxoFlags     []string
	btcToFlags    []string
	btcFeeFlag    string
	btcChangeFlag string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Sign and broadcast native coin transfers",
}

var sendSolCmd = &cobra.Command{
	Use:   "sol <from> <to> <amount>",
	Short: "Send SOL",
	Args:  cobra.ExactArgs(3),
	RunE:  runSendSol,
}

var sendBtcCmd = &cobra.Command{
	Use:   "btc",
	Short: "Send BTC from explicit UTXOs",
	Long: `Spend the given UTXOs, all unlocked by the same private key.

Examples:
  tatum send btc --utxo 53fa...9c:0 --to tb1q...=0.0005 --fee 0.00001 --change tb1q...`,
	Args: cobra.NoArgs,
	RunE: runSendBtc,
}

func init() {
	sendBtcCmd.Flags().StringArrayVar(&utxoFlags, "utxo", nil, "UTXO to spend as <txhash>:<index>")
	sendBtcCmd.Flags().StringArrayVar(&btcToFlags, "to", nil, "recipient as <address>=<btc>")
	sendBtcCmd.Flags().StringVar(&btcFeeFlag, "fee", "", "fee in BTC; the rest goes to --change")
	sendBtcCmd.Flags().StringVar(&btcChangeFlag, "change", "", "change address")
	sendBtcCmd.MarkFlagRequired("utxo")
	sendBtcCmd.MarkFlagRequired("to")

	sendCmd.AddCommand(sendSolCmd)
	sendCmd.AddCommand(sendBtcCmd)
}

func runSendSol(cmd *cobra.Command, args []string) error {
	client, err := apiClient()
	if err != nil {
		return err
	}
	key, err := readSecret("Enter private key: ")
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), api.DefaultTimeout)
	defer cancel()

	hash, err := solana.New(client, solana.WithLogger(log)).SendTransaction(ctx, &solana.TransferSolana{
		From:           args[0],
		To:             args[1],
		Amount:         args[2],
		FromPrivateKey: key,
	})
	if err != nil {
		return err
	}
	printTxHash(hash)
	return nil
}

func runSendBtc(cmd *cobra.Command, args []string) error {
	client, err := apiClient()
	if err != nil {
		return err
	}
	key, err := readSecret("Enter WIF private key: ")
	if err != nil {
		return err
	}

	body := &bitcoin.TransferBtc{Fee: btcFeeFlag, ChangeAddress: btcChangeFlag}
	for _, u := range utxoFlags {
		hash, index, ok := strings.Cut(u, ":")
		if !ok {
			return fmt.Errorf("invalid utxo %q, expected <txhash>:<index>", u)
		}
		i, err := strconv.ParseUint(index, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid utxo index %q: %w", index, err)
		}
		body.FromUTXO = append(body.FromUTXO, bitcoin.FromUTXO{TxHash: hash, Index: uint32(i), PrivateKey: key})
	}
	for _, t := range btcToFlags {
		addr, value, ok := strings.Cut(t, "=")
		if !ok {
			return fmt.Errorf("invalid recipient %q, expected <address>=<btc>", t)
		}
		body.To = append(body.To, bitcoin.To{Address: addr, Value: value})
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), api.DefaultTimeout)
	defer cancel()

	hash, err := bitcoin.New(client, log).SendTransaction(ctx, client.IsTestnet(), body)
	if err != nil {
		return err
	}
	printTxHash(hash)
	return nil
}
