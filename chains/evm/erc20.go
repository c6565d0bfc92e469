package evm

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chinmay1088/tatum-go/api"
	"github.com/chinmay1088/tatum-go/contracts"
)

// PrepareApproveErc20 builds approve(spender, amount), with amount scaled by
// the token's on-chain decimals.
func (h *Helper) PrepareApproveErc20(ctx context.Context, body *ApproveErc20) (string, error) {
	if err := api.Validate("approve erc20", body); err != nil {
		return "", err
	}
	digits, err := h.Decimals(ctx, body.ContractAddress)
	if err != nil {
		return "", err
	}
	amount, err := ToBaseUnits(body.Amount, digits)
	if err != nil {
		return "", &api.ValidationError{Op: "approve erc20", Fields: []string{"amount"}, Err: err}
	}

	call := &ContractCall{ContractAddress: body.ContractAddress, Signer: body.Signer}
	params := []interface{}{common.HexToAddress(body.Spender), amount}
	return h.PrepareSmartContractCall(ctx, call, "approve", params, contracts.ERC20TokenABI)
}

// SendApproveErc20 prepares and broadcasts an approval
func (h *Helper) SendApproveErc20(ctx context.Context, body *ApproveErc20) (*api.TransactionHash, error) {
	txData, err := h.PrepareApproveErc20(ctx, body)
	if err != nil {
		return nil, err
	}
	return h.BroadcastTx(ctx, txData, body.SignatureID)
}

// PrepareErc20Transfer builds transfer(to, amount). Decimals are looked up on
// chain unless body.Digits is set.
func (h *Helper) PrepareErc20Transfer(ctx context.Context, body *TransferErc20) (string, error) {
	if err := api.Validate("transfer erc20", body); err != nil {
		return "", err
	}

	var digits int32
	if body.Digits != nil {
		digits = *body.Digits
	} else {
		var err error
		if digits, err = h.Decimals(ctx, body.ContractAddress); err != nil {
			return "", err
		}
	}
	amount, err := ToBaseUnits(body.Amount, digits)
	if err != nil {
		return "", &api.ValidationError{Op: "transfer erc20", Fields: []string{"amount"}, Err: err}
	}

	call := &ContractCall{ContractAddress: body.ContractAddress, Signer: body.Signer}
	params := []interface{}{common.HexToAddress(body.To), amount}
	return h.PrepareSmartContractCall(ctx, call, "transfer", params, contracts.TransferMethodABI)
}

// SendErc20Transfer prepares and broadcasts a token transfer
func (h *Helper) SendErc20Transfer(ctx context.Context, body *TransferErc20) (*api.TransactionHash, error) {
	txData, err := h.PrepareErc20Transfer(ctx, body)
	if err != nil {
		return nil, err
	}
	return h.BroadcastTx(ctx, txData, body.SignatureID)
}

// PrepareCustodialWalletBatch builds cloneNewWallet(owner, batchCount) on the proxy contract
func (h *Helper) PrepareCustodialWalletBatch(ctx context.Context, body *CustodialWalletBatch) (string, error) {
	if err := api.Validate("custodial wallet batch", body); err != nil {
		return "", err
	}
	call := &ContractCall{ContractAddress: body.ContractAddress, Signer: body.Signer}
	params := []interface{}{common.HexToAddress(body.Owner), new(big.Int).SetUint64(uint64(body.BatchCount))}
	return h.PrepareSmartContractCall(ctx, call, "cloneNewWallet", params, contracts.CustodialProxyABI)
}

// SendCustodialWalletBatch prepares and broadcasts a custodial wallet batch
func (h *Helper) SendCustodialWalletBatch(ctx context.Context, body *CustodialWalletBatch) (*api.TransactionHash, error) {
	txData, err := h.PrepareCustodialWalletBatch(ctx, body)
	if err != nil {
		return nil, err
	}
	return h.BroadcastTx(ctx, txData, body.SignatureID)
}
