// Package celo prepares and sends Celo token transactions.
package celo

import (
	"context"

	"github.com/chinmay1088/tatum-go/api"
	"github.com/chinmay1088/tatum-go/chains/evm"
	"github.com/chinmay1088/tatum-go/wallet"
)

// DefaultTransactionsPageSize is the page size used when listing ERC20 history
const DefaultTransactionsPageSize = 50

// Celo wraps the EVM helper for the Celo chain
type Celo struct {
	*evm.Helper
}

// New creates Celo helpers submitting through conn
func New(conn evm.Connector, opts ...evm.Option) *Celo {
	return &Celo{Helper: evm.NewHelper(conn, api.ChainCelo, opts...)}
}

// GetErc20Decimals reads decimals() of a Celo ERC20 token
func (c *Celo) GetErc20Decimals(ctx context.Context, contractAddress string) (int32, error) {
	return c.Decimals(ctx, contractAddress)
}

// TransactionsFilter narrows GetERC20TransactionsByAddress. Zero values fall
// back to page size 50 and offset 0.
type TransactionsFilter struct {
	PageSize int
	Offset   int
	From     string
	To       string
	Sort     api.Sort
}

// GetERC20TransactionsByAddress lists tokenAddress transfers touching address
func (c *Celo) GetERC20TransactionsByAddress(ctx context.Context, address, tokenAddress string, filter *TransactionsFilter) ([]api.Erc20Transaction, error) {
	query := api.Erc20TransactionsQuery{TokenAddress: tokenAddress, PageSize: DefaultTransactionsPageSize}
	if filter != nil {
		if filter.PageSize > 0 {
			query.PageSize = filter.PageSize
		}
		query.Offset = filter.Offset
		query.From = filter.From
		query.To = filter.To
		query.Sort = filter.Sort
	}
	return c.GetErc20Transactions(ctx, address, query)
}

// GenerateWallet derives a Celo xpub, creating a mnemonic when none is given
func GenerateWallet(testnet bool, mnemonic string) (*wallet.Wallet, error) {
	return wallet.GenerateWallet(api.ChainCelo, testnet, mnemonic)
}
