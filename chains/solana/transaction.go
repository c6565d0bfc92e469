package solana

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"
)

// Transaction collects instructions and signers until a blockhash is known
type Transaction struct {
	Instructions    []solana.Instruction
	Signers         []solana.PrivateKey
	FeePayer        solana.PublicKey
	RecentBlockhash solana.Hash
}

// NewTransaction starts a transaction paid for by feePayer
func NewTransaction(feePayer solana.PublicKey) *Transaction {
	return &Transaction{FeePayer: feePayer}
}

// AddTransferInstruction moves lamports from one system account to another
func (tx *Transaction) AddTransferInstruction(from, to solana.PublicKey, lamports uint64) {
	tx.Instructions = append(tx.Instructions, system.NewTransferInstruction(lamports, from, to).Build())
}

// AddSigner registers a key that must sign
func (tx *Transaction) AddSigner(signer solana.PrivateKey) {
	tx.Signers = append(tx.Signers, signer)
}

// BuildAndSign compiles, signs and base58 encodes the transaction
func (tx *Transaction) BuildAndSign() (string, error) {
	if tx.RecentBlockhash == (solana.Hash{}) {
		return "", fmt.Errorf("blockhash is empty")
	}
	if len(tx.Signers) == 0 {
		return "", fmt.Errorf("no signers provided for transaction")
	}

	stx, err := solana.NewTransaction(tx.Instructions, tx.RecentBlockhash, solana.TransactionPayer(tx.FeePayer))
	if err != nil {
		return "", fmt.Errorf("failed to create transaction: %w", err)
	}
	_, err = stx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		for i := range tx.Signers {
			if key.Equals(tx.Signers[i].PublicKey()) {
				return &tx.Signers[i]
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	serialized, err := stx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}
	return base58.Encode(serialized), nil
}

// ParseAddress decodes a base58 account address
func ParseAddress(address string) (solana.PublicKey, error) {
	pubKey, err := solana.PublicKeyFromBase58(strings.TrimSpace(address))
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid solana address %q: %w", address, err)
	}
	return pubKey, nil
}

// ToLamports converts a SOL amount string, rejecting more than 9 decimal places
func ToLamports(sol string) (uint64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(sol))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", sol, err)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("amount %s must be positive", sol)
	}
	lamports := d.Shift(9)
	if !lamports.Equal(lamports.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than 9 decimal places", sol)
	}
	if !lamports.BigInt().IsUint64() {
		return 0, fmt.Errorf("amount %s is too large", sol)
	}
	return lamports.BigInt().Uint64(), nil
}

// FormatBalance formats lamports as a SOL amount
func FormatBalance(lamports uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -9).StringFixed(9) + " SOL"
}
