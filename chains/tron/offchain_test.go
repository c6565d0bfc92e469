package tron

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/chinmay1088/tatum-go/api"
	"github.com/chinmay1088/tatum-go/wallet"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

type captureDeployer struct {
	bodies []interface{}
}

func (c *captureDeployer) DeployTrcOffchain(_ context.Context, body interface{}) (*api.OffchainDeployResult, error) {
	c.bodies = append(c.bodies, body)
	return &api.OffchainDeployResult{AccountID: "acc-1", TxID: "tx-1"}, nil
}

func TestDeployOffchainDerivesKeyLocally(t *testing.T) {
	d := &captureDeployer{}
	o := NewOffchain(d)

	res, err := o.DeployOffchain(context.Background(), true, &api.DeployTrcOffchainMnemonicAddress{
		Symbol:      "MINE",
		Supply:      "1000",
		Decimals:    6,
		Type:        api.TrcTypeTRC20,
		Description: "token",
		Address:     "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t",
		Mnemonic:    testMnemonic,
		Index:       2,
		BasePair:    api.BasePairUSD,
	})
	if err != nil {
		t.Fatalf("DeployOffchain() error = %v", err)
	}
	if res.AccountID != "acc-1" {
		t.Errorf("accountId = %s", res.AccountID)
	}
	if len(d.bodies) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(d.bodies))
	}

	sent, ok := d.bodies[0].(*api.DeployTrcOffchainPKAddress)
	if !ok {
		t.Fatalf("submitted %T", d.bodies[0])
	}
	want, err := wallet.GeneratePrivateKeyFromMnemonic(api.ChainTron, true, testMnemonic, 2)
	if err != nil {
		t.Fatal(err)
	}
	if sent.PrivateKey != want {
		t.Error("fee payer key does not match the derived key")
	}

	raw, err := json.Marshal(sent)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "abandon") || strings.Contains(string(raw), "mnemonic") {
		t.Errorf("mnemonic leaked into request: %s", raw)
	}
}

func TestDeployOffchainWithXpubAddsAddress(t *testing.T) {
	w, err := wallet.GenerateWallet(api.ChainTron, false, testMnemonic)
	if err != nil {
		t.Fatal(err)
	}
	d := &captureDeployer{}
	o := NewOffchain(d)

	_, err = o.DeployOffchainWithXpub(context.Background(), false, &api.DeployTrcOffchainPKXpub{
		Symbol:          "MINE",
		Supply:          "1000",
		Type:            api.TrcTypeTRC10,
		Description:     "token",
		Xpub:            w.Xpub,
		DerivationIndex: 1,
		PrivateKey:      strings.Repeat("a", 64),
		BasePair:        api.BasePairEUR,
	})
	if err != nil {
		t.Fatalf("DeployOffchainWithXpub() error = %v", err)
	}

	raw, err := json.Marshal(d.bodies[0])
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}
	want, _ := wallet.GenerateAddressFromXpub(api.ChainTron, false, w.Xpub, 1)
	if got["address"] != want {
		t.Errorf("address = %v, want %s", got["address"], want)
	}
	if got["xpub"] != w.Xpub || got["symbol"] != "MINE" {
		t.Errorf("xpub body fields missing: %s", raw)
	}
}

func TestDeployOffchainValidation(t *testing.T) {
	d := &captureDeployer{}
	o := NewOffchain(d)

	_, err := o.DeployOffchain(context.Background(), false, &api.DeployTrcOffchainMnemonicAddress{
		Symbol:   "MINE",
		Type:     "TRC721",
		Address:  "short",
		Mnemonic: testMnemonic,
	})
	var verr *api.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(d.bodies) != 0 {
		t.Error("invalid body must not be submitted")
	}

	_, err = o.DeployOffchainWithXpub(context.Background(), false, nil)
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for nil body, got %v", err)
	}
}
