package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"
)

// tronAddressPrefix is the version byte of mainnet and testnet TRON addresses
const tronAddressPrefix = 0x41

// seedFromMnemonic validates the phrase and stretches it into a BIP39 seed
func seedFromMnemonic(mnemonic string) ([]byte, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	return bip39.NewSeed(mnemonic, ""), nil
}

// deriveExtendedKey walks path from the master key of seed
func deriveExtendedKey(seed []byte, path string, net *chaincfg.Params) (*hdkeychain.ExtendedKey, error) {
	master, err := hdkeychain.NewMaster(seed, net)
	if err != nil {
		return nil, fmt.Errorf("failed to create master key: %w", err)
	}

	indexes, err := parsePath(path)
	if err != nil {
		return nil, err
	}

	key := master
	for _, i := range indexes {
		key, err = key.Derive(i)
		if err != nil {
			return nil, fmt.Errorf("failed to derive child %d of %s: %w", i, path, err)
		}
	}
	return key, nil
}

// parsePath turns "m/44'/60'/0'/0" into child indexes, hardened ones offset by 2^31
func parsePath(path string) ([]uint32, error) {
	parts := strings.Split(strings.TrimSpace(path), "/")
	if len(parts) == 0 || parts[0] != "m" {
		return nil, fmt.Errorf("invalid derivation path %q: must start with m", path)
	}

	indexes := make([]uint32, 0, len(parts)-1)
	for _, part := range parts[1:] {
		childNum, err := parseChildNum(part)
		if err != nil {
			return nil, fmt.Errorf("invalid derivation path %q: %w", path, err)
		}
		indexes = append(indexes, childNum)
	}
	return indexes, nil
}

func parseChildNum(childStr string) (uint32, error) {
	hardened := strings.HasSuffix(childStr, "'")
	if hardened {
		childStr = strings.TrimSuffix(childStr, "'")
	}

	n, err := strconv.ParseUint(childStr, 10, 31)
	if err != nil {
		return 0, fmt.Errorf("invalid segment %q", childStr)
	}
	if hardened {
		return uint32(n) + hdkeychain.HardenedKeyStart, nil
	}
	return uint32(n), nil
}

// childPublicKey derives the non-hardened child index of an extended public key
func childPublicKey(xpub string, index uint32) (*btcec.PublicKey, error) {
	if index >= hdkeychain.HardenedKeyStart {
		return nil, fmt.Errorf("index %d must be below 2^31", index)
	}
	node, err := hdkeychain.NewKeyFromString(xpub)
	if err != nil {
		return nil, fmt.Errorf("failed to parse xpub: %w", err)
	}
	if node.IsPrivate() {
		return nil, fmt.Errorf("expected an extended public key, got a private one")
	}
	leaf, err := node.Derive(index)
	if err != nil {
		return nil, fmt.Errorf("failed to derive child %d: %w", index, err)
	}
	pub, err := leaf.ECPubKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get public key: %w", err)
	}
	return pub, nil
}

func evmAddress(pub *ecdsa.PublicKey) string {
	return ethcrypto.PubkeyToAddress(*pub).Hex()
}

// tronAddress is Base58Check(0x41 || keccak(pub)[12:])
func tronAddress(pub *ecdsa.PublicKey) string {
	return base58.CheckEncode(ethcrypto.PubkeyToAddress(*pub).Bytes(), tronAddressPrefix)
}

func bitcoinAddress(pub *btcec.PublicKey, net *chaincfg.Params) (string, error) {
	addr, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(pub.SerializeCompressed()), net)
	if err != nil {
		return "", fmt.Errorf("failed to create bitcoin address: %w", err)
	}
	return addr.EncodeAddress(), nil
}
