package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/chinmay1088/tatum-go/api"
	"github.com/chinmay1088/tatum-go/crypto"
	"github.com/chinmay1088/tatum-go/wallet"
)

var (
	mnemonicFlag string
	saveFlag     string
)

var walletCmd = &cobra.Command{
	Use:   "wallet <chain>",
	Short: "Generate an HD wallet for a chain",
	Long: `Generate an extended public key for the chain, creating a new 24-word
mnemonic unless one is given. Solana has no xpub and prints the first
account's address and private key instead.

With --save the mnemonic is encrypted with a password into a keystore file
(scrypt + AES-256-GCM) that 'tatum privkey --keystore' can open later.

Examples:
  tatum wallet ethereum
  tatum wallet bitcoin --testnet --save ~/.tatum/btc.json
  tatum wallet tron --mnemonic "abandon abandon ..."`,
	Args: cobra.ExactArgs(1),
	RunE: runWallet,
}

func init() {
	walletCmd.Flags().StringVar(&mnemonicFlag, "mnemonic", "", "derive from this mnemonic instead of generating one")
	walletCmd.Flags().StringVar(&saveFlag, "save", "", "encrypt the mnemonic into this keystore file")
}

func runWallet(cmd *cobra.Command, args []string) error {
	chain, err := parseChain(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("🌐 Network: %s\n\n", networkName())

	var mnemonic, xpub string
	if chain == api.ChainSolana {
		kp, err := wallet.GenerateSolanaWallet(cfg.Testnet, mnemonicFlag)
		if err != nil {
			return fmt.Errorf("failed to generate wallet: %w", err)
		}
		mnemonic = kp.Mnemonic
		fmt.Printf("Address:     %s\n", color.GreenString(kp.Address))
		fmt.Printf("Private key: %s\n", kp.PrivateKey)
	} else {
		w, err := wallet.GenerateWallet(chain, cfg.Testnet, mnemonicFlag)
		if err != nil {
			return fmt.Errorf("failed to generate wallet: %w", err)
		}
		mnemonic, xpub = w.Mnemonic, w.Xpub
		path, _ := wallet.DerivationPath(chain, cfg.Testnet)
		fmt.Printf("Path: %s\n", path)
		fmt.Printf("Xpub: %s\n", color.GreenString(w.Xpub))
	}

	if mnemonicFlag == "" {
		fmt.Println()
		fmt.Println("🔐 Recovery Phrase (24 words):")
		fmt.Printf("   %s\n", mnemonic)
		fmt.Println()
		fmt.Println(color.YellowString("⚠️  Anyone with this phrase can access your funds. Store it offline."))
	}

	if saveFlag == "" {
		return nil
	}
	password, err := readNewPassword()
	if err != nil {
		return err
	}
	ks, err := crypto.Seal(mnemonic, password, string(chain), cfg.Testnet, xpub)
	if err != nil {
		return fmt.Errorf("failed to encrypt mnemonic: %w", err)
	}
	if err := ks.Save(saveFlag); err != nil {
		return err
	}
	fmt.Printf("✅ Keystore written to %s\n", saveFlag)
	return nil
}

func readNewPassword() (string, error) {
	fmt.Print("Enter a password for the keystore: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println()
	if len(password) < 8 {
		return "", fmt.Errorf("password must be at least 8 characters long")
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read password confirmation: %w", err)
	}
	fmt.Println()
	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(password), nil
}

func readSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(secret), nil
}
