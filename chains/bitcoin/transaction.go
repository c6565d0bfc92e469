package bitcoin

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/shopspring/decimal"
)

// Transaction is a transaction under construction together with the outputs
// it spends and the keys that unlock them.
type Transaction struct {
	msg      *wire.MsgTx
	prevOuts *txscript.MultiPrevOutFetcher
	keys     []*btcutil.WIF
	net      *chaincfg.Params
}

// NewTransaction creates an empty version 2 transaction for net
func NewTransaction(net *chaincfg.Params) *Transaction {
	return &Transaction{
		msg:      wire.NewMsgTx(2),
		prevOuts: txscript.NewMultiPrevOutFetcher(nil),
		net:      net,
	}
}

// AddInput spends output index of txHash, worth value satoshis and locked by pkScript
func (tx *Transaction) AddInput(txHash string, index uint32, value int64, pkScript []byte, key *btcutil.WIF) error {
	prevHash, err := chainhash.NewHashFromStr(txHash)
	if err != nil {
		return fmt.Errorf("invalid previous transaction hash: %w", err)
	}
	outPoint := wire.NewOutPoint(prevHash, index)
	tx.msg.AddTxIn(wire.NewTxIn(outPoint, nil, nil))
	tx.prevOuts.AddPrevOut(*outPoint, wire.NewTxOut(value, pkScript))
	tx.keys = append(tx.keys, key)
	return nil
}

// AddOutput pays value satoshis to address
func (tx *Transaction) AddOutput(address string, value int64) error {
	addr, err := ParseAddress(address, tx.net)
	if err != nil {
		return err
	}
	script, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return fmt.Errorf("failed to create output script: %w", err)
	}
	tx.msg.AddTxOut(wire.NewTxOut(value, script))
	return nil
}

// InputValue sums the values of every spent output
func (tx *Transaction) InputValue() int64 {
	var total int64
	for _, in := range tx.msg.TxIn {
		total += tx.prevOuts.FetchPrevOutput(in.PreviousOutPoint).Value
	}
	return total
}

// OutputValue sums the values of every output
func (tx *Transaction) OutputValue() int64 {
	var total int64
	for _, out := range tx.msg.TxOut {
		total += out.Value
	}
	return total
}

// Sign unlocks every input. P2PKH inputs get a signature script and P2WPKH
// inputs a witness; other script types are rejected.
func (tx *Transaction) Sign() error {
	hashes := txscript.NewTxSigHashes(tx.msg, tx.prevOuts)
	for i, in := range tx.msg.TxIn {
		prev := tx.prevOuts.FetchPrevOutput(in.PreviousOutPoint)
		key := tx.keys[i]

		switch class := txscript.GetScriptClass(prev.PkScript); class {
		case txscript.PubKeyHashTy:
			script, err := txscript.SignatureScript(tx.msg, i, prev.PkScript, txscript.SigHashAll, key.PrivKey, key.CompressPubKey)
			if err != nil {
				return fmt.Errorf("failed to sign input %d: %w", i, err)
			}
			in.SignatureScript = script
		case txscript.WitnessV0PubKeyHashTy:
			witness, err := txscript.WitnessSignature(tx.msg, hashes, i, prev.Value, prev.PkScript, txscript.SigHashAll, key.PrivKey, true)
			if err != nil {
				return fmt.Errorf("failed to sign input %d: %w", i, err)
			}
			in.Witness = witness
		default:
			return fmt.Errorf("input %d: unsupported script type %s", i, class)
		}
	}
	return nil
}

// Serialize returns the hex encoded wire transaction
func (tx *Transaction) Serialize() (string, error) {
	var buf bytes.Buffer
	if err := tx.msg.Serialize(&buf); err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}
	return hex.EncodeToString(buf.Bytes()), nil
}

// ParseAddress decodes address and checks it belongs to net
func ParseAddress(address string, net *chaincfg.Params) (btcutil.Address, error) {
	addr, err := btcutil.DecodeAddress(strings.TrimSpace(address), net)
	if err != nil {
		return nil, fmt.Errorf("invalid bitcoin address %q: %w", address, err)
	}
	if !addr.IsForNet(net) {
		return nil, fmt.Errorf("address %s is not for %s", address, net.Name)
	}
	return addr, nil
}

// ToSatoshis converts a BTC amount string, rejecting more than 8 decimal places
func ToSatoshis(btc string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(btc))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", btc, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount %s must not be negative", btc)
	}
	sats := d.Shift(8)
	if !sats.Equal(sats.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than 8 decimal places", btc)
	}
	return sats.IntPart(), nil
}

// FloatToSatoshis converts a BTC value as reported by the API
func FloatToSatoshis(btc float64) int64 {
	return decimal.NewFromFloat(btc).Shift(8).Round(0).IntPart()
}

// FormatBalance formats satoshis as a BTC amount
func FormatBalance(satoshis int64) string {
	return decimal.New(satoshis, -8).StringFixed(8) + " BTC"
}
