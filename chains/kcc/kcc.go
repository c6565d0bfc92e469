// Package kcc prepares and sends KuCoin Community Chain token transactions.
package kcc

import (
	"github.com/chinmay1088/tatum-go/api"
	"github.com/chinmay1088/tatum-go/chains/evm"
	"github.com/chinmay1088/tatum-go/wallet"
)

// KCC wraps the EVM helper; PrepareApproveErc20 and SendApproveErc20 come from it
type KCC struct {
	*evm.Helper
}

// New creates KCC helpers submitting through conn
func New(conn evm.Connector, opts ...evm.Option) *KCC {
	return &KCC{Helper: evm.NewHelper(conn, api.ChainKCC, opts...)}
}

// GenerateWallet derives a KCC xpub on m/44'/641'/0'/0 (or the testnet path)
func GenerateWallet(testnet bool, mnemonic string) (*wallet.Wallet, error) {
	return wallet.GenerateWallet(api.ChainKCC, testnet, mnemonic)
}
