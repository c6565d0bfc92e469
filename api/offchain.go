package api

import (
	"context"
	"fmt"
)

// TRC token standards
const (
	TrcTypeTRC10 = "TRC10"
	TrcTypeTRC20 = "TRC20"
)

// DeployTrcOffchainMnemonicAddress deploys a TRC token and its ledger virtual currency,
// paying fees with a key derived from Mnemonic at Index.
type DeployTrcOffchainMnemonicAddress struct {
	Symbol      string                `json:"symbol" validate:"required,min=1,max=30"`
	Supply      string                `json:"supply" validate:"required,numeric,max=38"`
	Decimals    int                   `json:"decimals" validate:"min=0,max=30"`
	Type        string                `json:"type" validate:"required,oneof=TRC10 TRC20"`
	Description string                `json:"description" validate:"required,min=1,max=100"`
	Address     string                `json:"address" validate:"required,len=34"`
	Mnemonic    string                `json:"mnemonic" validate:"required,min=1,max=500"`
	Index       int                   `json:"index" validate:"min=0,max=2147483647"`
	BasePair    FiatOrCryptoCurrency  `json:"basePair" validate:"required,min=3,max=20"`
	BaseRate    *float64              `json:"baseRate,omitempty" validate:"omitempty,min=0"`
	URL         string                `json:"url,omitempty" validate:"omitempty,url,max=100"`
	Customer    *CustomerRegistration `json:"customer,omitempty"`
}

// DeployTrcOffchainPKAddress is the mnemonic variant with the fee payer key already derived
type DeployTrcOffchainPKAddress struct {
	Symbol      string                `json:"symbol" validate:"required,min=1,max=30"`
	Supply      string                `json:"supply" validate:"required,numeric,max=38"`
	Decimals    int                   `json:"decimals" validate:"min=0,max=30"`
	Type        string                `json:"type" validate:"required,oneof=TRC10 TRC20"`
	Description string                `json:"description" validate:"required,min=1,max=100"`
	Address     string                `json:"address" validate:"required,len=34"`
	PrivateKey  string                `json:"privateKey" validate:"required,len=64"`
	BasePair    FiatOrCryptoCurrency  `json:"basePair" validate:"required,min=3,max=20"`
	BaseRate    *float64              `json:"baseRate,omitempty" validate:"omitempty,min=0"`
	URL         string                `json:"url,omitempty" validate:"omitempty,url,max=100"`
	Customer    *CustomerRegistration `json:"customer,omitempty"`
}

// DeployTrcOffchainPKXpub deploys a TRC token whose supply lands on the address
// derived from Xpub at DerivationIndex.
type DeployTrcOffchainPKXpub struct {
	Symbol          string                `json:"symbol" validate:"required,min=1,max=30"`
	Supply          string                `json:"supply" validate:"required,numeric,max=38"`
	Decimals        int                   `json:"decimals" validate:"min=0,max=30"`
	Type            string                `json:"type" validate:"required,oneof=TRC10 TRC20"`
	Description     string                `json:"description" validate:"required,min=1,max=100"`
	Xpub            string                `json:"xpub" validate:"required,min=1,max=150"`
	DerivationIndex int                   `json:"derivationIndex" validate:"min=0,max=2147483647"`
	PrivateKey      string                `json:"privateKey" validate:"required,len=64"`
	BasePair        FiatOrCryptoCurrency  `json:"basePair" validate:"required,min=3,max=20"`
	BaseRate        *float64              `json:"baseRate,omitempty" validate:"omitempty,min=0"`
	URL             string                `json:"url,omitempty" validate:"omitempty,url,max=100"`
	Customer        *CustomerRegistration `json:"customer,omitempty"`
}

// DeployAlgoErc20OffchainPKAddress deploys an Algorand asset and its ledger virtual currency
type DeployAlgoErc20OffchainPKAddress struct {
	Symbol      string                `json:"symbol" validate:"required,min=1,max=30"`
	Supply      string                `json:"supply" validate:"required,numeric,max=38"`
	Description string                `json:"description" validate:"required,min=1,max=100"`
	Address     string                `json:"address" validate:"required,len=58"`
	PrivateKey  string                `json:"privateKey" validate:"required,min=64,max=103"`
	BasePair    FiatOrCryptoCurrency  `json:"basePair" validate:"required,min=3,max=20"`
	BaseRate    *float64              `json:"baseRate,omitempty" validate:"omitempty,min=0"`
	Customer    *CustomerRegistration `json:"customer,omitempty"`
}

// OffchainDeployResult is the answer of an off-chain deployment
type OffchainDeployResult struct {
	AccountID   string `json:"accountId"`
	TxID        string `json:"txId,omitempty"`
	SignatureID string `json:"signatureId,omitempty"`
	Address     string `json:"address,omitempty"`
}

// DeployTrcOffchain submits a prepared TRC deployment; body is one of the
// DeployTrcOffchain* variants and must already be validated.
func (c *Client) DeployTrcOffchain(ctx context.Context, body interface{}) (*OffchainDeployResult, error) {
	var out OffchainDeployResult
	if err := c.post(ctx, "offchain/tron/trc/deploy", body, &out); err != nil {
		return nil, fmt.Errorf("failed to deploy TRC token: %w", err)
	}
	return &out, nil
}

// DeployAlgoErc20Offchain submits an Algorand off-chain deployment
func (c *Client) DeployAlgoErc20Offchain(ctx context.Context, body *DeployAlgoErc20OffchainPKAddress) (*OffchainDeployResult, error) {
	if err := Validate("deploy algorand token", body); err != nil {
		return nil, err
	}
	var out OffchainDeployResult
	if err := c.post(ctx, "offchain/algorand/erc20/deploy", body, &out); err != nil {
		return nil, fmt.Errorf("failed to deploy algorand token: %w", err)
	}
	return &out, nil
}
