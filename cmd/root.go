package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chinmay1088/tatum-go/api"
	"github.com/chinmay1088/tatum-go/config"
	"github.com/chinmay1088/tatum-go/logger"
)

var (
	version = "0.1.0"

	configPath  string
	testnetFlag bool
	apiKeyFlag  string

	cfg *config.Config
	log *zap.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tatum",
	Short: "Command-line client for the Tatum blockchain API",
	Long: `tatum talks to the Tatum blockchain API and derives keys locally.

Supported chains: ethereum, celo, kcc, bsc, polygon, tron, bitcoin, solana

Keys and mnemonics never leave the machine: wallets, addresses and private
keys are derived offline, transactions are signed locally and only the
signed payload is broadcast.

Configuration is read from ~/.tatum/config.yaml and TATUM_* environment
variables (TATUM_API_KEY, TATUM_TESTNET, TATUM_LISTEN_INTERVAL, ...).

Examples:
  tatum wallet ethereum --testnet          # New testnet xpub + mnemonic
  tatum address tron <xpub> 3              # Deposit address at index 3
  tatum subscription list                  # Registered subscriptions
  tatum listen celo 0x1234... --interval 5s
  tatum erc20 decimals bsc 0x55d3...`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
		if cmd.Flags().Changed("testnet") {
			cfg.Testnet = testnetFlag
		}
		if apiKeyFlag != "" {
			cfg.APIKey = apiKeyFlag
		}
		if log, err = logger.New("tatum-cli", cfg.Env); err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "config file")
	rootCmd.PersistentFlags().BoolVar(&testnetFlag, "testnet", false, "use testnet derivation paths and endpoints")
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "API key (overrides TATUM_API_KEY)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(addressCmd)
	rootCmd.AddCommand(privkeyCmd)
	rootCmd.AddCommand(subscriptionCmd)
	rootCmd.AddCommand(webhooksCmd)
	rootCmd.AddCommand(listenCmd)
	rootCmd.AddCommand(ledgerCmd)
	rootCmd.AddCommand(erc20Cmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(offchainCmd)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tatum v%s\n", version)
	},
}

// apiClient builds a client from the loaded config; only commands that call
// the remote API need a key.
func apiClient() (*api.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return api.NewClient(api.Options{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Testnet: cfg.Testnet,
	}), nil
}

func parseChain(s string) (api.Chain, error) {
	chain, err := api.ParseChain(s)
	if err != nil {
		return "", fmt.Errorf("%w. Supported chains: ethereum, celo, kcc, bsc, polygon, tron, bitcoin, solana", err)
	}
	return chain, nil
}

func networkName() string {
	if cfg.Testnet {
		return "Testnet"
	}
	return "Mainnet"
}
