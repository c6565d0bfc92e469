package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chinmay1088/tatum-go/api"
	"github.com/chinmay1088/tatum-go/chains/celo"
	"github.com/chinmay1088/tatum-go/chains/eth"
	"github.com/chinmay1088/tatum-go/chains/evm"
	"github.com/chinmay1088/tatum-go/chains/kcc"
	"github.com/chinmay1088/tatum-go/contracts"
)

var (
	providerFlag    string
	signatureIDFlag string
)

var erc20Cmd = &cobra.Command{
	Use:   "erc20",
	Short: "Work with ERC20 tokens on EVM chains",
}

var erc20DecimalsCmd = &cobra.Command{
	Use:   "decimals <chain> <contract>",
	Short: "Read a token's decimals",
	Args:  cobra.ExactArgs(2),
	RunE:  runErc20Decimals,
}

var erc20ApproveCmd = &cobra.Command{
	Use:   "approve <chain> <contract> <spender> <amount>",
	Short: "Approve a spender for an amount of tokens",
	Long: `Sign an approve(spender, amount) call locally and broadcast it. The private
key is read from the terminal unless --signature-id hands signing to the key
management system.`,
	Args: cobra.ExactArgs(4),
	RunE: runErc20Approve,
}

var erc20TransferCmd = &cobra.Command{
	Use:   "transfer <currency> <to> <amount>",
	Short: "Send a well-known Ethereum token such as USDT",
	Args:  cobra.ExactArgs(3),
	RunE:  runErc20Transfer,
}

var erc20HistoryCmd = &cobra.Command{
	Use:   "history <address> <token>",
	Short: "List Celo ERC20 transfers of an address",
	Args:  cobra.ExactArgs(2),
	RunE:  runErc20History,
}

func init() {
	erc20Cmd.PersistentFlags().StringVar(&providerFlag, "provider", "", "JSON-RPC URL instead of the web3 gateway")
	for _, c := range []*cobra.Command{erc20ApproveCmd, erc20TransferCmd} {
		c.Flags().StringVar(&signatureIDFlag, "signature-id", "", "sign with the key management system")
	}
	erc20HistoryCmd.Flags().IntVar(&pageSizeFlag, "page-size", celo.DefaultTransactionsPageSize, "entries per page")
	erc20HistoryCmd.Flags().IntVar(&offsetFlag, "offset", 0, "page offset")

	erc20Cmd.AddCommand(erc20DecimalsCmd)
	erc20Cmd.AddCommand(erc20ApproveCmd)
	erc20Cmd.AddCommand(erc20TransferCmd)
	erc20Cmd.AddCommand(erc20HistoryCmd)
}

func helperOptions() []evm.Option {
	opts := []evm.Option{evm.WithLogger(log)}
	if providerFlag != "" {
		opts = append(opts, evm.WithProvider(providerFlag))
	}
	return opts
}

// evmHelper returns the chain specific helper where one exists
func evmHelper(chainArg string) (*evm.Helper, error) {
	chain, err := parseChain(chainArg)
	if err != nil {
		return nil, err
	}
	if !chain.IsEVM() {
		return nil, fmt.Errorf("%s is not an EVM chain", chain)
	}
	client, err := apiClient()
	if err != nil {
		return nil, err
	}
	switch chain {
	case api.ChainCelo:
		return celo.New(client, helperOptions()...).Helper, nil
	case api.ChainKCC:
		return kcc.New(client, helperOptions()...).Helper, nil
	case api.ChainEthereum:
		return eth.New(client, helperOptions()...).Helper, nil
	default:
		return evm.NewHelper(client, chain, helperOptions()...), nil
	}
}

func signer() (evm.Signer, error) {
	if signatureIDFlag != "" {
		return evm.Signer{SignatureID: signatureIDFlag}, nil
	}
	key, err := readSecret("Enter private key: ")
	if err != nil {
		return evm.Signer{}, err
	}
	return evm.Signer{FromPrivateKey: key}, nil
}

func runErc20Decimals(cmd *cobra.Command, args []string) error {
	h, err := evmHelper(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), api.DefaultTimeout)
	defer cancel()

	d, err := h.Decimals(ctx, args[1])
	if err != nil {
		return err
	}
	fmt.Println(d)
	return nil
}

func runErc20Approve(cmd *cobra.Command, args []string) error {
	h, err := evmHelper(args[0])
	if err != nil {
		return err
	}
	s, err := signer()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), api.DefaultTimeout)
	defer cancel()

	hash, err := h.SendApproveErc20(ctx, &evm.ApproveErc20{
		ContractAddress: args[1],
		Spender:         args[2],
		Amount:          args[3],
		Signer:          s,
	})
	if err != nil {
		return err
	}
	printTxHash(hash)
	return nil
}

func runErc20Transfer(cmd *cobra.Command, args []string) error {
	client, err := apiClient()
	if err != nil {
		return err
	}
	s, err := signer()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), api.DefaultTimeout)
	defer cancel()

	hash, err := eth.New(client, helperOptions()...).SendTransferErc20(ctx, &eth.TransferErc20{
		Currency: api.Currency(args[0]),
		To:       args[1],
		Amount:   args[2],
		Signer:   s,
	})
	if errors.Is(err, contracts.ErrUnknownCurrency) {
		return fmt.Errorf("%w. Known currencies: %v", err, contracts.Currencies())
	}
	if err != nil {
		return err
	}
	printTxHash(hash)
	return nil
}

func runErc20History(cmd *cobra.Command, args []string) error {
	client, err := apiClient()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), api.DefaultTimeout)
	defer cancel()

	txs, err := celo.New(client).GetERC20TransactionsByAddress(ctx, args[0], args[1], &celo.TransactionsFilter{PageSize: pageSizeFlag, Offset: offsetFlag})
	if err != nil {
		return err
	}
	if len(txs) == 0 {
		fmt.Println("No transactions found")
		return nil
	}
	for _, tx := range txs {
		fmt.Printf("%d  %s  %s -> %s  %s\n", tx.BlockNumber, tx.TxID, tx.From, tx.To, tx.Amount)
	}
	return nil
}

func printTxHash(hash *api.TransactionHash) {
	if hash.TxID == "" && signatureIDFlag != "" {
		fmt.Printf("✅ Submitted for signing, signature id %s\n", signatureIDFlag)
		return
	}
	if hash.Failed {
		color.Red("❌ Transaction %s failed", hash.TxID)
		return
	}
	fmt.Printf("✅ Transaction sent: %s\n", hash.TxID)
}
