package evm

import "github.com/chinmay1088/tatum-go/api"

// Signer says how a prepared transaction gets signed: locally with
// FromPrivateKey, or by the key management system under SignatureID.
type Signer struct {
	FromPrivateKey string   `json:"fromPrivateKey,omitempty" validate:"required_without=SignatureID"`
	SignatureID    string   `json:"signatureId,omitempty" validate:"omitempty,uuid"`
	Index          *uint32  `json:"index,omitempty"`
	Nonce          *uint64  `json:"nonce,omitempty"`
	Fee            *api.Fee `json:"fee,omitempty"`
}

// ContractCall targets a contract method; Amount is the native value in whole coins
type ContractCall struct {
	ContractAddress string `json:"contractAddress" validate:"required,eth_addr"`
	Amount          string `json:"amount,omitempty" validate:"omitempty,numeric"`
	Signer
}

// ApproveErc20 lets Spender move Amount tokens of ContractAddress
type ApproveErc20 struct {
	ContractAddress string `json:"contractAddress" validate:"required,eth_addr"`
	Spender         string `json:"spender" validate:"required,eth_addr"`
	Amount          string `json:"amount" validate:"required,numeric"`
	Signer
}

// TransferErc20 sends Amount tokens to To. Digits skips the decimals lookup when set.
type TransferErc20 struct {
	ContractAddress string `json:"contractAddress" validate:"required,eth_addr"`
	To              string `json:"to" validate:"required,eth_addr"`
	Amount          string `json:"amount" validate:"required,numeric"`
	Digits          *int32 `json:"digits,omitempty" validate:"omitempty,min=0,max=30"`
	Signer
}

// CustodialWalletBatch clones BatchCount custodial wallets owned by Owner
type CustodialWalletBatch struct {
	ContractAddress string `json:"contractAddress" validate:"required,eth_addr"`
	Owner           string `json:"owner" validate:"required,eth_addr"`
	BatchCount      uint32 `json:"batchCount" validate:"required,min=1,max=270"`
	Signer
}

// unsignedTx is handed to the key management system instead of a signed payload
type unsignedTx struct {
	To       string  `json:"to"`
	Data     string  `json:"data"`
	Value    string  `json:"value,omitempty"`
	GasPrice string  `json:"gasPrice"`
	Gas      string  `json:"gas,omitempty"`
	Nonce    *uint64 `json:"nonce,omitempty"`
}
