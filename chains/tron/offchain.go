// Package tron deploys TRC tokens together with their ledger virtual currency.
package tron

import (
	"context"
	"fmt"

	"github.com/chinmay1088/tatum-go/api"
	"github.com/chinmay1088/tatum-go/wallet"
)

// Deployer submits off-chain deployments. *api.Client satisfies it.
type Deployer interface {
	DeployTrcOffchain(ctx context.Context, body interface{}) (*api.OffchainDeployResult, error)
}

// Offchain deploys TRC tokens through the remote API
type Offchain struct {
	deployer Deployer
}

// NewOffchain creates an off-chain deployer
func NewOffchain(d Deployer) *Offchain {
	return &Offchain{deployer: d}
}

// xpubDeployment carries the locally derived deposit address next to the xpub body
type xpubDeployment struct {
	*api.DeployTrcOffchainPKXpub
	Address string `json:"address"`
}

// DeployOffchain derives the fee payer key from body.Mnemonic at body.Index and
// submits the deployment. The mnemonic itself is never sent.
func (o *Offchain) DeployOffchain(ctx context.Context, testnet bool, body *api.DeployTrcOffchainMnemonicAddress) (*api.OffchainDeployResult, error) {
	if err := api.Validate("deploy trc offchain", body); err != nil {
		return nil, err
	}
	privateKey, err := wallet.GeneratePrivateKeyFromMnemonic(api.ChainTron, testnet, body.Mnemonic, uint32(body.Index))
	if err != nil {
		return nil, fmt.Errorf("failed to derive fee payer key: %w", err)
	}

	pk := &api.DeployTrcOffchainPKAddress{
		Symbol:      body.Symbol,
		Supply:      body.Supply,
		Decimals:    body.Decimals,
		Type:        body.Type,
		Description: body.Description,
		Address:     body.Address,
		PrivateKey:  privateKey,
		BasePair:    body.BasePair,
		BaseRate:    body.BaseRate,
		URL:         body.URL,
		Customer:    body.Customer,
	}
	return o.DeployOffchainWithPrivateKey(ctx, pk)
}

// DeployOffchainWithPrivateKey submits a deployment whose fee payer key is already known
func (o *Offchain) DeployOffchainWithPrivateKey(ctx context.Context, body *api.DeployTrcOffchainPKAddress) (*api.OffchainDeployResult, error) {
	if err := api.Validate("deploy trc offchain", body); err != nil {
		return nil, err
	}
	return o.deployer.DeployTrcOffchain(ctx, body)
}

// DeployOffchainWithXpub derives the supply address from body.Xpub at
// body.DerivationIndex and submits the deployment with it.
func (o *Offchain) DeployOffchainWithXpub(ctx context.Context, testnet bool, body *api.DeployTrcOffchainPKXpub) (*api.OffchainDeployResult, error) {
	if err := api.Validate("deploy trc offchain", body); err != nil {
		return nil, err
	}
	address, err := wallet.GenerateAddressFromXpub(api.ChainTron, testnet, body.Xpub, uint32(body.DerivationIndex))
	if err != nil {
		return nil, &api.ValidationError{Op: "deploy trc offchain", Fields: []string{"DeployTrcOffchainPKXpub.xpub"}, Err: err}
	}
	return o.deployer.DeployTrcOffchain(ctx, &xpubDeployment{DeployTrcOffchainPKXpub: body, Address: address})
}
