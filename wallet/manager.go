package wallet

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/anyproto/go-slip10"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/gagliardetto/solana-go"
	"github.com/tyler-smith/go-bip39"

	"github.com/chinmay1088/tatum-go/api"
)

const (
	// Derivation paths for different chains (mainnet). Each stops at the
	// external chain level so the xpub can derive /index addresses.
	EthDerivationPath    = "m/44'/60'/0'/0"
	CeloDerivationPath   = "m/44'/52752'/0'/0"
	KcsDerivationPath    = "m/44'/641'/0'/0"
	BscDerivationPath    = "m/44'/60'/0'/0"
	MaticDerivationPath  = "m/44'/966'/0'/0"
	TronDerivationPath   = "m/44'/195'/0'/0"
	BtcDerivationPath    = "m/44'/0'/0'/0"
	SolanaDerivationPath = "m/44'/501'/0'/0'"

	// Derivation paths for testnet (coin type 1 for every chain)
	TestnetDerivationPath       = "m/44'/1'/0'/0"
	SolanaTestnetDerivationPath = "m/44'/1'/0'/0'"

	// MnemonicEntropyBits gives 24-word phrases
	MnemonicEntropyBits = 256
)

var (
	// ErrInvalidMnemonic is returned when a phrase fails the BIP39 checksum
	ErrInvalidMnemonic = errors.New("invalid mnemonic")
	// ErrUnsupportedChain is returned for chains without a derivation scheme here
	ErrUnsupportedChain = errors.New("unsupported chain")
)

var mainnetPaths = map[api.Chain]string{
	api.ChainEthereum: EthDerivationPath,
	api.ChainCelo:     CeloDerivationPath,
	api.ChainKCC:      KcsDerivationPath,
	api.ChainBSC:      BscDerivationPath,
	api.ChainPolygon:  MaticDerivationPath,
	api.ChainTron:     TronDerivationPath,
	api.ChainBitcoin:  BtcDerivationPath,
	api.ChainSolana:   SolanaDerivationPath,
}

// Wallet is an extended public key and the mnemonic it came from
type Wallet struct {
	Xpub     string `json:"xpub"`
	Mnemonic string `json:"mnemonic"`
}

// KeyPair is a single ed25519 account
type KeyPair struct {
	Address    string `json:"address"`
	PrivateKey string `json:"privateKey"`
	Mnemonic   string `json:"mnemonic"`
}

// DerivationPath returns the path used for chain on the selected network
func DerivationPath(chain api.Chain, testnet bool) (string, error) {
	mainnet, ok := mainnetPaths[chain]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedChain, chain)
	}
	if !testnet {
		return mainnet, nil
	}
	if chain == api.ChainSolana {
		return SolanaTestnetDerivationPath, nil
	}
	return TestnetDerivationPath, nil
}

// GenerateMnemonic creates a fresh 24-word phrase
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("failed to generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("failed to generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// GenerateWallet derives the chain's xpub from mnemonic, generating a new
// mnemonic when none is given. The same inputs always give the same xpub.
func GenerateWallet(chain api.Chain, testnet bool, mnemonic string) (*Wallet, error) {
	if chain == api.ChainSolana {
		return nil, fmt.Errorf("%w: %s has no xpub, use GenerateSolanaWallet", ErrUnsupportedChain, chain)
	}
	path, err := DerivationPath(chain, testnet)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(mnemonic) == "" {
		if mnemonic, err = GenerateMnemonic(); err != nil {
			return nil, err
		}
	}
	seed, err := seedFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}

	key, err := deriveExtendedKey(seed, path, networkParams(chain, testnet))
	if err != nil {
		return nil, err
	}
	xpub, err := key.Neuter()
	if err != nil {
		return nil, fmt.Errorf("failed to neuter key: %w", err)
	}

	return &Wallet{Xpub: xpub.String(), Mnemonic: mnemonic}, nil
}

// GenerateAddressFromXpub derives the deposit address at index
func GenerateAddressFromXpub(chain api.Chain, testnet bool, xpub string, index uint32) (string, error) {
	if _, ok := mainnetPaths[chain]; !ok || chain == api.ChainSolana {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedChain, chain)
	}
	pub, err := childPublicKey(xpub, index)
	if err != nil {
		return "", err
	}

	switch {
	case chain.IsEVM():
		return evmAddress(pub.ToECDSA()), nil
	case chain == api.ChainTron:
		return tronAddress(pub.ToECDSA()), nil
	default:
		return bitcoinAddress(pub, networkParams(chain, testnet))
	}
}

// GeneratePrivateKeyFromMnemonic derives the private key at index: 0x-hex for
// EVM chains, plain hex for TRON, WIF for bitcoin.
func GeneratePrivateKeyFromMnemonic(chain api.Chain, testnet bool, mnemonic string, index uint32) (string, error) {
	if chain == api.ChainSolana {
		kp, err := GenerateSolanaWallet(testnet, mnemonic)
		if err != nil {
			return "", err
		}
		return kp.PrivateKey, nil
	}
	path, err := DerivationPath(chain, testnet)
	if err != nil {
		return "", err
	}
	seed, err := seedFromMnemonic(mnemonic)
	if err != nil {
		return "", err
	}

	net := networkParams(chain, testnet)
	key, err := deriveExtendedKey(seed, fmt.Sprintf("%s/%d", path, index), net)
	if err != nil {
		return "", err
	}
	priv, err := key.ECPrivKey()
	if err != nil {
		return "", fmt.Errorf("failed to get private key: %w", err)
	}

	switch {
	case chain.IsEVM():
		return "0x" + hex.EncodeToString(priv.Serialize()), nil
	case chain == api.ChainTron:
		return hex.EncodeToString(priv.Serialize()), nil
	default:
		wif, err := btcutil.NewWIF(priv, net, true)
		if err != nil {
			return "", fmt.Errorf("failed to encode WIF: %w", err)
		}
		return wif.String(), nil
	}
}

// GenerateSolanaWallet derives a Solana account with SLIP-10 (all-hardened ed25519)
func GenerateSolanaWallet(testnet bool, mnemonic string) (*KeyPair, error) {
	var err error
	if strings.TrimSpace(mnemonic) == "" {
		if mnemonic, err = GenerateMnemonic(); err != nil {
			return nil, err
		}
	}
	seed, err := seedFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}

	path, err := DerivationPath(api.ChainSolana, testnet)
	if err != nil {
		return nil, err
	}
	node, err := slip10.DeriveForPath(path, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to derive solana key: %w", err)
	}
	_, privBytes := node.Keypair()
	priv := solana.PrivateKey(privBytes)

	return &KeyPair{
		Address:    priv.PublicKey().String(),
		PrivateKey: priv.String(),
		Mnemonic:   mnemonic,
	}, nil
}

// bitcoin testnet keys use tpub/tprv; every other chain uses mainnet version bytes
func networkParams(chain api.Chain, testnet bool) *chaincfg.Params {
	if chain == api.ChainBitcoin && testnet {
		return &chaincfg.TestNet3Params
	}
	return &chaincfg.MainNetParams
}
