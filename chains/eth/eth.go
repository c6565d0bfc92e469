// Package eth prepares and sends Ethereum token transactions, resolving
// well-known tokens by currency symbol.
package eth

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chinmay1088/tatum-go/api"
	"github.com/chinmay1088/tatum-go/chains/evm"
	"github.com/chinmay1088/tatum-go/contracts"
	"github.com/chinmay1088/tatum-go/wallet"
)

// TransferErc20 moves Amount of a well-known token identified by Currency
type TransferErc20 struct {
	Currency api.Currency `json:"currency" validate:"required"`
	To       string       `json:"to" validate:"required,eth_addr"`
	Amount   string       `json:"amount" validate:"required,numeric"`
	evm.Signer
}

// ETH wraps the EVM helper for Ethereum
type ETH struct {
	*evm.Helper
}

// New creates Ethereum helpers submitting through conn
func New(conn evm.Connector, opts ...evm.Option) *ETH {
	return &ETH{Helper: evm.NewHelper(conn, api.ChainEthereum, opts...)}
}

// PrepareTransferErc20 builds a signed transfer of a known token. The
// contract address and decimals come from the built-in tables, so no
// decimals() call is made.
func (e *ETH) PrepareTransferErc20(ctx context.Context, body *TransferErc20) (string, error) {
	if err := api.Validate("transfer erc20", body); err != nil {
		return "", err
	}
	contract, err := contracts.Address(body.Currency)
	if err != nil {
		return "", err
	}
	if !common.IsHexAddress(contract) {
		return "", fmt.Errorf("%w: %s is not an ethereum token", contracts.ErrUnknownCurrency, body.Currency)
	}
	digits, err := contracts.Decimals(body.Currency)
	if err != nil {
		return "", err
	}

	return e.PrepareErc20Transfer(ctx, &evm.TransferErc20{
		ContractAddress: contract,
		To:              body.To,
		Amount:          body.Amount,
		Digits:          &digits,
		Signer:          body.Signer,
	})
}

// SendTransferErc20 prepares and broadcasts a known token transfer
func (e *ETH) SendTransferErc20(ctx context.Context, body *TransferErc20) (*api.TransactionHash, error) {
	txData, err := e.PrepareTransferErc20(ctx, body)
	if err != nil {
		return nil, err
	}
	return e.BroadcastTx(ctx, txData, body.SignatureID)
}

// GenerateWallet derives an Ethereum xpub, creating a mnemonic when none is given
func GenerateWallet(testnet bool, mnemonic string) (*wallet.Wallet, error) {
	return wallet.GenerateWallet(api.ChainEthereum, testnet, mnemonic)
}
