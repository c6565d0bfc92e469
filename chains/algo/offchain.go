// Package algo deploys Algorand assets together with their ledger virtual currency.
package algo

import (
	"context"

	"github.com/chinmay1088/tatum-go/api"
)

// Deployer submits Algorand off-chain deployments. *api.Client satisfies it.
type Deployer interface {
	DeployAlgoErc20Offchain(ctx context.Context, body *api.DeployAlgoErc20OffchainPKAddress) (*api.OffchainDeployResult, error)
}

// Offchain deploys Algorand assets through the remote API
type Offchain struct {
	deployer Deployer
}

// NewOffchain creates an Algorand off-chain deployer
func NewOffchain(d Deployer) *Offchain {
	return &Offchain{deployer: d}
}

// DeployErc20Offchain validates body and submits it
func (o *Offchain) DeployErc20Offchain(ctx context.Context, body *api.DeployAlgoErc20OffchainPKAddress) (*api.OffchainDeployResult, error) {
	if err := api.Validate("deploy algorand token", body); err != nil {
		return nil, err
	}
	return o.deployer.DeployAlgoErc20Offchain(ctx, body)
}
