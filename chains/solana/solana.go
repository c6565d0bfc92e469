// Package solana builds and sends native SOL transfers.
package solana

import (
	"context"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/chinmay1088/tatum-go/api"
	"github.com/chinmay1088/tatum-go/logger"
)

// TransferSolana moves Amount SOL from From to To
type TransferSolana struct {
	From           string `json:"from" validate:"required,min=32,max=44"`
	To             string `json:"to" validate:"required,min=32,max=44"`
	Amount         string `json:"amount" validate:"required,numeric"`
	FromPrivateKey string `json:"fromPrivateKey" validate:"required,min=64,max=128"`
}

// BlockhashSource returns a recent blockhash. *rpc.Client satisfies it.
type BlockhashSource interface {
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
}

// Connector is the part of the remote API transfers use. *api.Client satisfies it.
type Connector interface {
	NodeURL(chain api.Chain) (string, error)
	Broadcast(ctx context.Context, chain api.Chain, txData, signatureID string) (*api.TransactionHash, error)
}

// Option configures a Solana helper
type Option func(*Solana)

// WithBlockhashSource skips the node gateway for blockhash lookups
func WithBlockhashSource(src BlockhashSource) Option {
	return func(s *Solana) { s.source = src }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Solana) { s.logger = logger.OrNop(l) }
}

// Solana prepares and sends SOL transfers
type Solana struct {
	conn   Connector
	logger *zap.Logger

	mu     sync.Mutex
	source BlockhashSource
}

// New creates Solana helpers submitting through conn
func New(conn Connector, opts ...Option) *Solana {
	s := &Solana{conn: conn, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Solana) blockhashSource() (BlockhashSource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source != nil {
		return s.source, nil
	}
	endpoint, err := s.conn.NodeURL(api.ChainSolana)
	if err != nil {
		return nil, err
	}
	s.source = rpc.New(endpoint)
	return s.source, nil
}

// PrepareSignedTransaction signs a system transfer against a fresh blockhash
// and returns it base58 encoded.
func (s *Solana) PrepareSignedTransaction(ctx context.Context, body *TransferSolana) (string, error) {
	if err := api.Validate("prepare solana transaction", body); err != nil {
		return "", err
	}
	key, err := solana.PrivateKeyFromBase58(body.FromPrivateKey)
	if err != nil {
		return "", &api.ValidationError{Op: "prepare solana transaction", Fields: []string{"TransferSolana.fromPrivateKey"}, Err: err}
	}
	from, err := ParseAddress(body.From)
	if err != nil {
		return "", &api.ValidationError{Op: "prepare solana transaction", Fields: []string{"TransferSolana.from"}, Err: err}
	}
	if !from.Equals(key.PublicKey()) {
		return "", &api.ValidationError{Op: "prepare solana transaction", Fields: []string{"TransferSolana.from"}, Err: fmt.Errorf("private key does not belong to %s", body.From)}
	}
	to, err := ParseAddress(body.To)
	if err != nil {
		return "", &api.ValidationError{Op: "prepare solana transaction", Fields: []string{"TransferSolana.to"}, Err: err}
	}
	lamports, err := ToLamports(body.Amount)
	if err != nil {
		return "", &api.ValidationError{Op: "prepare solana transaction", Fields: []string{"TransferSolana.amount"}, Err: err}
	}

	src, err := s.blockhashSource()
	if err != nil {
		return "", err
	}
	recent, err := src.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return "", fmt.Errorf("failed to get recent blockhash: %w", err)
	}
	if recent == nil || recent.Value == nil {
		return "", fmt.Errorf("node returned no blockhash")
	}

	tx := NewTransaction(from)
	tx.AddTransferInstruction(from, to, lamports)
	tx.AddSigner(key)
	tx.RecentBlockhash = recent.Value.Blockhash

	s.logger.Debug("prepared solana transfer",
		zap.String("from", from.String()),
		zap.String("to", to.String()),
		zap.Uint64("lamports", lamports),
	)
	return tx.BuildAndSign()
}

// SendTransaction prepares and broadcasts a transfer
func (s *Solana) SendTransaction(ctx context.Context, body *TransferSolana) (*api.TransactionHash, error) {
	txData, err := s.PrepareSignedTransaction(ctx, body)
	if err != nil {
		return nil, err
	}
	return s.conn.Broadcast(ctx, api.ChainSolana, txData, "")
}
