package cmd

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chinmay1088/tatum-go/crypto"
	"github.com/chinmay1088/tatum-go/wallet"
)

var keystoreFlag string

var privkeyCmd = &cobra.Command{
	Use:   "privkey <chain> <index>",
	Short: "Derive a private key from a mnemonic",
	Long: `Derive the private key at index. The mnemonic is read from the terminal
without echo, or decrypted from a keystore written by 'tatum wallet --save'.

Examples:
  tatum privkey ethereum 0
  tatum privkey bitcoin 2 --keystore ~/.tatum/btc.json`,
	Args: cobra.ExactArgs(2),
	RunE: runPrivkey,
}

func init() {
	privkeyCmd.Flags().StringVar(&keystoreFlag, "keystore", "", "read the mnemonic from this keystore file")
}

func runPrivkey(cmd *cobra.Command, args []string) error {
	chain, err := parseChain(args[0])
	if err != nil {
		return err
	}
	index, err := strconv.ParseUint(args[1], 10, 31)
	if err != nil {
		return fmt.Errorf("invalid index %q: %w", args[1], err)
	}

	testnet := cfg.Testnet
	var mnemonic string
	if keystoreFlag != "" {
		ks, err := crypto.LoadKeystore(keystoreFlag)
		if err != nil {
			return err
		}
		if ks.Chain != string(chain) {
			return fmt.Errorf("keystore holds a %s wallet, not %s", ks.Chain, chain)
		}
		testnet = ks.Testnet
		password, err := readSecret("Enter keystore password: ")
		if err != nil {
			return err
		}
		if mnemonic, err = ks.Open(password); err != nil {
			return err
		}
	} else if mnemonic, err = readSecret("Enter mnemonic: "); err != nil {
		return err
	}

	key, err := wallet.GeneratePrivateKeyFromMnemonic(chain, testnet, mnemonic, uint32(index))
	if err != nil {
		return fmt.Errorf("failed to derive private key: %w", err)
	}
	fmt.Println(color.YellowString("⚠️  Never share this key."))
	fmt.Println(key)
	return nil
}
