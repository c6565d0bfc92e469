package evm

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/chinmay1088/tatum-go/api"
	"github.com/chinmay1088/tatum-go/contracts"
	"github.com/chinmay1088/tatum-go/logger"
)

// Backend is the subset of an Ethereum JSON-RPC client the helpers need.
// *ethclient.Client satisfies it.
type Backend interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

// Connector is the part of the remote API the helpers submit through.
// *api.Client satisfies it.
type Connector interface {
	Broadcast(ctx context.Context, chain api.Chain, txData, signatureID string) (*api.TransactionHash, error)
	Web3URL(chain api.Chain) (string, error)
	GetErc20Transactions(ctx context.Context, chain api.Chain, address string, query api.Erc20TransactionsQuery) ([]api.Erc20Transaction, error)
}

// DialFunc opens a Backend for a JSON-RPC URL
type DialFunc func(ctx context.Context, rawurl string) (Backend, error)

// Option configures a Helper
type Option func(*Helper)

// WithProvider uses a caller-provided JSON-RPC URL instead of the web3 gateway
func WithProvider(url string) Option {
	return func(h *Helper) { h.provider = url }
}

// WithBackend skips dialing and uses b for every chain call
func WithBackend(b Backend) Option {
	return func(h *Helper) { h.backend = b }
}

// WithDial replaces the default ethclient dialer
func WithDial(dial DialFunc) Option {
	return func(h *Helper) { h.dial = dial }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(h *Helper) { h.logger = logger.OrNop(l) }
}

// Helper prepares, signs and broadcasts contract calls on one EVM chain
type Helper struct {
	conn     Connector
	chain    api.Chain
	provider string
	dial     DialFunc
	logger   *zap.Logger

	mu      sync.Mutex
	backend Backend

	decimals sync.Map // lowercase contract address -> int32
	group    singleflight.Group
}

// NewHelper creates a helper for chain
func NewHelper(conn Connector, chain api.Chain, opts ...Option) *Helper {
	h := &Helper{
		conn:   conn,
		chain:  chain,
		dial:   dialEthclient,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func dialEthclient(ctx context.Context, rawurl string) (Backend, error) {
	return ethclient.DialContext(ctx, rawurl)
}

// Chain returns the chain the helper works on
func (h *Helper) Chain() api.Chain {
	return h.chain
}

func (h *Helper) client(ctx context.Context) (Backend, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.backend != nil {
		return h.backend, nil
	}

	url := h.provider
	if url == "" {
		var err error
		if url, err = h.conn.Web3URL(h.chain); err != nil {
			return nil, err
		}
	}
	b, err := h.dial(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s node: %w", h.chain, err)
	}
	h.backend = b
	return b, nil
}

// Decimals reads decimals() of an ERC20 contract. Results are cached per
// contract and concurrent lookups of one contract share a single call.
func (h *Helper) Decimals(ctx context.Context, contractAddress string) (int32, error) {
	if !common.IsHexAddress(contractAddress) {
		return 0, &api.ValidationError{Op: "erc20 decimals", Fields: []string{"contractAddress"}, Err: fmt.Errorf("invalid address %q", contractAddress)}
	}
	key := strings.ToLower(contractAddress)
	if d, ok := h.decimals.Load(key); ok {
		return d.(int32), nil
	}

	ch := h.group.DoChan(key, func() (interface{}, error) {
		// shared by every waiting caller, so no single caller may cancel it
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), api.DefaultTimeout)
		defer cancel()

		backend, err := h.client(ctx)
		if err != nil {
			return nil, err
		}
		data, err := contracts.ERC20TokenABI.Pack("decimals")
		if err != nil {
			return nil, fmt.Errorf("failed to pack decimals call: %w", err)
		}
		to := common.HexToAddress(contractAddress)
		out, err := backend.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to call decimals on %s: %w", contractAddress, err)
		}
		values, err := contracts.ERC20TokenABI.Unpack("decimals", out)
		if err != nil {
			return nil, fmt.Errorf("failed to decode decimals of %s: %w", contractAddress, err)
		}
		if len(values) != 1 {
			return nil, fmt.Errorf("decimals of %s returned %d values, want 1", contractAddress, len(values))
		}
		d, ok := values[0].(uint8)
		if !ok {
			return nil, fmt.Errorf("unexpected decimals type %T", values[0])
		}
		h.decimals.Store(key, int32(d))
		return int32(d), nil
	})

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return 0, res.Err
		}
		return res.Val.(int32), nil
	}
}

// PrepareSmartContractCall ABI-encodes method(params...) against call.ContractAddress.
// With a SignatureID it returns the unsigned transaction as JSON for the key
// management system, otherwise a locally signed 0x-prefixed raw transaction.
func (h *Helper) PrepareSmartContractCall(ctx context.Context, call *ContractCall, method string, params []interface{}, contractABI abi.ABI) (string, error) {
	if err := api.Validate("prepare smart contract call", call); err != nil {
		return "", err
	}
	data, err := contractABI.Pack(method, params...)
	if err != nil {
		return "", &api.ValidationError{Op: "prepare smart contract call", Fields: []string{"params"}, Err: err}
	}

	value := big.NewInt(0)
	if call.Amount != "" {
		if value, err = ToBaseUnits(call.Amount, 18); err != nil {
			return "", &api.ValidationError{Op: "prepare smart contract call", Fields: []string{"amount"}, Err: err}
		}
	}

	to := common.HexToAddress(call.ContractAddress)
	gasPrice, err := h.gasPrice(ctx, call.Fee)
	if err != nil {
		return "", err
	}

	if call.SignatureID != "" {
		tx := unsignedTx{
			To:       to.Hex(),
			Data:     hexutil.Encode(data),
			GasPrice: gasPrice.String(),
			Nonce:    call.Nonce,
		}
		if value.Sign() > 0 {
			tx.Value = value.String()
		}
		if call.Fee != nil {
			tx.Gas = call.Fee.GasLimit
		}
		out, err := json.Marshal(tx)
		if err != nil {
			return "", fmt.Errorf("failed to marshal unsigned transaction: %w", err)
		}
		return string(out), nil
	}

	key, err := parsePrivateKey(call.FromPrivateKey)
	if err != nil {
		return "", &api.ValidationError{Op: "prepare smart contract call", Fields: []string{"fromPrivateKey"}, Err: err}
	}
	from := ethcrypto.PubkeyToAddress(key.PublicKey)

	backend, err := h.client(ctx)
	if err != nil {
		return "", err
	}

	var nonce uint64
	if call.Nonce != nil {
		nonce = *call.Nonce
	} else if nonce, err = backend.PendingNonceAt(ctx, from); err != nil {
		return "", fmt.Errorf("failed to get nonce: %w", err)
	}

	var gasLimit uint64
	if call.Fee != nil {
		limit, ok := new(big.Int).SetString(call.Fee.GasLimit, 10)
		if !ok || !limit.IsUint64() {
			return "", &api.ValidationError{Op: "prepare smart contract call", Fields: []string{"fee.gasLimit"}, Err: fmt.Errorf("invalid gas limit %q", call.Fee.GasLimit)}
		}
		gasLimit = limit.Uint64()
	} else {
		gasLimit, err = backend.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &to, Value: value, Data: data})
		if err != nil {
			return "", fmt.Errorf("failed to estimate gas: %w", err)
		}
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get chain id: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("failed to encode transaction: %w", err)
	}

	h.logger.Debug("prepared contract call",
		zap.String("chain", string(h.chain)),
		zap.String("method", method),
		zap.String("contract", to.Hex()),
		zap.Uint64("nonce", nonce),
	)
	return hexutil.Encode(raw), nil
}

// BroadcastTx submits a prepared transaction through the remote API
func (h *Helper) BroadcastTx(ctx context.Context, txData, signatureID string) (*api.TransactionHash, error) {
	return h.conn.Broadcast(ctx, h.chain, txData, signatureID)
}

// GetErc20Transactions lists token transfers touching address on this chain
func (h *Helper) GetErc20Transactions(ctx context.Context, address string, query api.Erc20TransactionsQuery) ([]api.Erc20Transaction, error) {
	return h.conn.GetErc20Transactions(ctx, h.chain, address, query)
}

// gasPrice converts the fee override from gwei, or asks the node
func (h *Helper) gasPrice(ctx context.Context, fee *api.Fee) (*big.Int, error) {
	if fee != nil {
		wei, err := ToBaseUnits(fee.GasPrice, 9)
		if err != nil {
			return nil, &api.ValidationError{Op: "prepare smart contract call", Fields: []string{"fee.gasPrice"}, Err: err}
		}
		return wei, nil
	}
	backend, err := h.client(ctx)
	if err != nil {
		return nil, err
	}
	price, err := backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}
	return price, nil
}

// ToBaseUnits scales a decimal amount by 10^decimals, rejecting negative
// amounts and precision the token cannot represent.
func ToBaseUnits(amount string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("amount %s must not be negative", amount)
	}
	scaled := d.Shift(decimals)
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, fmt.Errorf("amount %s has more than %d decimal places", amount, decimals)
	}
	return scaled.BigInt(), nil
}

func parsePrivateKey(key string) (*ecdsa.PrivateKey, error) {
	priv, err := ethcrypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(key), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return priv, nil
}
