// Package bitcoin builds, signs and broadcasts bitcoin transactions that spend
// explicitly listed UTXOs.
package bitcoin

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chinmay1088/tatum-go/api"
	"github.com/chinmay1088/tatum-go/logger"
)

// ErrInsufficientFunds is returned when the inputs cannot cover outputs and fee
var ErrInsufficientFunds = errors.New("insufficient funds")

// FromUTXO is an output to spend and the WIF key that owns it
type FromUTXO struct {
	TxHash     string `json:"txHash" validate:"required,len=64,hexadecimal"`
	Index      uint32 `json:"index"`
	PrivateKey string `json:"privateKey" validate:"required,min=51,max=52"`
}

// To is a recipient; Value is in BTC
type To struct {
	Address string `json:"address" validate:"required,min=26,max=90"`
	Value   string `json:"value" validate:"required,numeric"`
}

// TransferBtc spends FromUTXO into To. When Fee is set, whatever remains after
// the recipients and the fee goes to ChangeAddress; otherwise it is left to miners.
type TransferBtc struct {
	FromUTXO      []FromUTXO `json:"fromUTXO" validate:"required,min=1,dive"`
	To            []To       `json:"to" validate:"required,min=1,dive"`
	Fee           string     `json:"fee,omitempty" validate:"omitempty,numeric"`
	ChangeAddress string     `json:"changeAddress,omitempty" validate:"required_with=Fee"`
}

// Connector is the part of the remote API bitcoin transfers use.
// *api.Client satisfies it.
type Connector interface {
	GetBitcoinUTXO(ctx context.Context, hash string, index uint32) (*api.UTXO, error)
	Broadcast(ctx context.Context, chain api.Chain, txData, signatureID string) (*api.TransactionHash, error)
}

// Bitcoin prepares and sends bitcoin transfers
type Bitcoin struct {
	conn   Connector
	logger *zap.Logger
}

// New creates bitcoin helpers submitting through conn
func New(conn Connector, l *zap.Logger) *Bitcoin {
	return &Bitcoin{conn: conn, logger: logger.OrNop(l)}
}

// PrepareSignedTransaction fetches every referenced UTXO, builds the transfer
// and returns the signed transaction as hex.
func (b *Bitcoin) PrepareSignedTransaction(ctx context.Context, testnet bool, body *TransferBtc) (string, error) {
	if err := api.Validate("prepare bitcoin transaction", body); err != nil {
		return "", err
	}
	net := &chaincfg.MainNetParams
	if testnet {
		net = &chaincfg.TestNet3Params
	}

	utxos, err := b.fetchUTXOs(ctx, body.FromUTXO)
	if err != nil {
		return "", err
	}

	tx := NewTransaction(net)
	for i, from := range body.FromUTXO {
		key, err := btcutil.DecodeWIF(from.PrivateKey)
		if err != nil {
			return "", &api.ValidationError{Op: "prepare bitcoin transaction", Fields: []string{fmt.Sprintf("TransferBtc.fromUTXO[%d].privateKey", i)}, Err: err}
		}
		pkScript, err := lockingScript(utxos[i], key, net)
		if err != nil {
			return "", err
		}
		if err := tx.AddInput(from.TxHash, from.Index, FloatToSatoshis(utxos[i].Value), pkScript, key); err != nil {
			return "", err
		}
	}

	for i, to := range body.To {
		value, err := ToSatoshis(to.Value)
		if err != nil {
			return "", &api.ValidationError{Op: "prepare bitcoin transaction", Fields: []string{fmt.Sprintf("TransferBtc.to[%d].value", i)}, Err: err}
		}
		if err := tx.AddOutput(to.Address, value); err != nil {
			return "", &api.ValidationError{Op: "prepare bitcoin transaction", Fields: []string{fmt.Sprintf("TransferBtc.to[%d].address", i)}, Err: err}
		}
	}

	in, out := tx.InputValue(), tx.OutputValue()
	if in < out {
		return "", fmt.Errorf("%w: inputs %s, outputs %s", ErrInsufficientFunds, FormatBalance(in), FormatBalance(out))
	}
	if body.Fee != "" {
		fee, err := ToSatoshis(body.Fee)
		if err != nil {
			return "", &api.ValidationError{Op: "prepare bitcoin transaction", Fields: []string{"TransferBtc.fee"}, Err: err}
		}
		change := in - out - fee
		if change < 0 {
			return "", fmt.Errorf("%w: inputs %s cannot cover outputs and fee %s", ErrInsufficientFunds, FormatBalance(in), FormatBalance(fee))
		}
		if change > 0 {
			if err := tx.AddOutput(body.ChangeAddress, change); err != nil {
				return "", &api.ValidationError{Op: "prepare bitcoin transaction", Fields: []string{"TransferBtc.changeAddress"}, Err: err}
			}
		}
	}

	if err := tx.Sign(); err != nil {
		return "", err
	}
	b.logger.Debug("prepared bitcoin transaction",
		zap.Int("inputs", len(body.FromUTXO)),
		zap.Int("outputs", len(body.To)),
		zap.Int64("input_sats", in),
	)
	return tx.Serialize()
}

// SendTransaction prepares and broadcasts a transfer
func (b *Bitcoin) SendTransaction(ctx context.Context, testnet bool, body *TransferBtc) (*api.TransactionHash, error) {
	txData, err := b.PrepareSignedTransaction(ctx, testnet, body)
	if err != nil {
		return nil, err
	}
	return b.conn.Broadcast(ctx, api.ChainBitcoin, txData, "")
}

// fetchUTXOs looks up every input concurrently, keeping request order
func (b *Bitcoin) fetchUTXOs(ctx context.Context, from []FromUTXO) ([]*api.UTXO, error) {
	utxos := make([]*api.UTXO, len(from))
	g, ctx := errgroup.WithContext(ctx)
	for i := range from {
		g.Go(func() error {
			u, err := b.conn.GetBitcoinUTXO(ctx, from[i].TxHash, from[i].Index)
			if api.IsNotFound(err) {
				return fmt.Errorf("utxo %s:%d is spent or unknown: %w", from[i].TxHash, from[i].Index, err)
			}
			if err != nil {
				return err
			}
			utxos[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return utxos, nil
}

// lockingScript prefers the script reported with the UTXO, then its address,
// then a P2PKH script for the spending key.
func lockingScript(u *api.UTXO, key *btcutil.WIF, net *chaincfg.Params) ([]byte, error) {
	if u.Script != "" {
		script, err := hex.DecodeString(u.Script)
		if err != nil {
			return nil, fmt.Errorf("invalid script for utxo %s:%d: %w", u.Hash, u.Index, err)
		}
		return script, nil
	}
	if u.Address != "" {
		addr, err := ParseAddress(u.Address, net)
		if err != nil {
			return nil, err
		}
		return txscript.PayToAddrScript(addr)
	}
	addr, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(key.SerializePubKey()), net)
	if err != nil {
		return nil, fmt.Errorf("failed to derive address: %w", err)
	}
	return txscript.PayToAddrScript(addr)
}
