package evm

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/chinmay1088/tatum-go/api"
	"github.com/chinmay1088/tatum-go/contracts"
)

const (
	testKey      = "0x1ab42cc412b618bdea3a599e3c9bae199ebf030895b039e9db1e30dafb12b727"
	testSender   = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"
	testToken    = "0xdAC17F958D2ee523a2206206994597C13D831ec7"
	testSpender  = "0x1111111111111111111111111111111111111111"
	testSignerID = "26d3883e-4e17-48b3-a0ee-09a3e484ac83"
)

type fakeBackend struct {
	decimals uint8
	delay    time.Duration
	release  chan struct{}
	empty    bool
	calls    int32
	nonce    uint64
	gasPrice *big.Int
	gas      uint64
	chainID  *big.Int
	lastCall ethereum.CallMsg
}

func (f *fakeBackend) CallContract(ctx context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.empty {
		return []byte{}, nil
	}
	return contracts.ERC20TokenABI.Methods["decimals"].Outputs.Pack(f.decimals)
}

func (f *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return f.gasPrice, nil
}

func (f *fakeBackend) EstimateGas(_ context.Context, call ethereum.CallMsg) (uint64, error) {
	f.lastCall = call
	return f.gas, nil
}

func (f *fakeBackend) ChainID(context.Context) (*big.Int, error) {
	return f.chainID, nil
}

type fakeConnector struct {
	mu         sync.Mutex
	broadcasts []string
}

func (f *fakeConnector) Broadcast(_ context.Context, chain api.Chain, txData, signatureID string) (*api.TransactionHash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcasts = append(f.broadcasts, string(chain)+"|"+txData+"|"+signatureID)
	return &api.TransactionHash{TxID: "0xabc"}, nil
}

func (f *fakeConnector) Web3URL(api.Chain) (string, error) {
	return "http://unused", nil
}

func (f *fakeConnector) GetErc20Transactions(context.Context, api.Chain, string, api.Erc20TransactionsQuery) ([]api.Erc20Transaction, error) {
	return nil, nil
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		decimals: 6,
		nonce:    7,
		gasPrice: big.NewInt(20_000_000_000),
		gas:      60000,
		chainID:  big.NewInt(5),
	}
}

func failingDial(context.Context, string) (Backend, error) {
	return nil, errors.New("dial should not be called")
}

func TestDecimalsCachedAndShared(t *testing.T) {
	backend := newFakeBackend()
	backend.delay = 20 * time.Millisecond
	h := NewHelper(&fakeConnector{}, api.ChainEthereum, WithBackend(backend))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := h.Decimals(context.Background(), testToken)
			if err != nil {
				t.Errorf("Decimals() error = %v", err)
				return
			}
			if d != 6 {
				t.Errorf("Decimals() = %d, want 6", d)
			}
		}()
	}
	wg.Wait()

	if _, err := h.Decimals(context.Background(), strings.ToLower(testToken)); err != nil {
		t.Fatal(err)
	}
	if calls := atomic.LoadInt32(&backend.calls); calls != 1 {
		t.Errorf("expected one decimals() call, got %d", calls)
	}
}

func TestDecimalsSurvivesFirstCallerCancel(t *testing.T) {
	backend := newFakeBackend()
	backend.release = make(chan struct{})
	h := NewHelper(&fakeConnector{}, api.ChainEthereum, WithBackend(backend))

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := h.Decimals(ctxA, testToken)
		errA <- err
	}()
	for atomic.LoadInt32(&backend.calls) == 0 {
		time.Sleep(time.Millisecond)
	}

	type result struct {
		d   int32
		err error
	}
	resB := make(chan result, 1)
	go func() {
		d, err := h.Decimals(context.Background(), testToken)
		resB <- result{d, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Errorf("first caller error = %v, want context.Canceled", err)
	}

	close(backend.release)
	got := <-resB
	if got.err != nil {
		t.Fatalf("second caller error = %v", got.err)
	}
	if got.d != 6 {
		t.Errorf("Decimals() = %d, want 6", got.d)
	}
}

func TestDecimalsUndecodableAnswer(t *testing.T) {
	backend := newFakeBackend()
	backend.empty = true
	h := NewHelper(&fakeConnector{}, api.ChainEthereum, WithBackend(backend))

	_, err := h.Decimals(context.Background(), testToken)
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !strings.Contains(err.Error(), "failed to decode decimals") || strings.Contains(err.Error(), "<nil>") {
		t.Errorf("error = %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Error("decode error should wrap its cause")
	}
}

func TestDecimalsRejectsBadAddress(t *testing.T) {
	h := NewHelper(&fakeConnector{}, api.ChainEthereum, WithDial(failingDial))
	_, err := h.Decimals(context.Background(), "0x123")
	var verr *api.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPrepareApproveWithSignatureID(t *testing.T) {
	backend := newFakeBackend()
	h := NewHelper(&fakeConnector{}, api.ChainCelo, WithBackend(backend))

	out, err := h.PrepareApproveErc20(context.Background(), &ApproveErc20{
		ContractAddress: testToken,
		Spender:         testSpender,
		Amount:          "1.5",
		Signer: Signer{
			SignatureID: testSignerID,
			Fee:         &api.Fee{GasLimit: "50000", GasPrice: "5"},
		},
	})
	if err != nil {
		t.Fatalf("PrepareApproveErc20() error = %v", err)
	}

	var tx unsignedTx
	if err := json.Unmarshal([]byte(out), &tx); err != nil {
		t.Fatalf("expected unsigned JSON, got %q: %v", out, err)
	}
	if tx.GasPrice != "5000000000" || tx.Gas != "50000" {
		t.Errorf("fee = %s/%s", tx.GasPrice, tx.Gas)
	}
	if !strings.EqualFold(tx.To, testToken) {
		t.Errorf("to = %s", tx.To)
	}

	data := hexutil.MustDecode(tx.Data)
	args, err := contracts.ERC20TokenABI.Methods["approve"].Inputs.Unpack(data[4:])
	if err != nil {
		t.Fatal(err)
	}
	if got := args[1].(*big.Int); got.Cmp(big.NewInt(1_500_000)) != 0 {
		t.Errorf("approve amount = %s, want 1500000", got)
	}
	if got := args[0].(common.Address); got != common.HexToAddress(testSpender) {
		t.Errorf("spender = %s", got.Hex())
	}
}

func TestPrepareTransferSignsLocally(t *testing.T) {
	backend := newFakeBackend()
	h := NewHelper(&fakeConnector{}, api.ChainEthereum, WithBackend(backend))

	digits := int32(18)
	raw, err := h.PrepareErc20Transfer(context.Background(), &TransferErc20{
		ContractAddress: testToken,
		To:              testSpender,
		Amount:          "2",
		Digits:          &digits,
		Signer:          Signer{FromPrivateKey: testKey},
	})
	if err != nil {
		t.Fatalf("PrepareErc20Transfer() error = %v", err)
	}
	if atomic.LoadInt32(&backend.calls) != 0 {
		t.Error("digits given, decimals() should not be called")
	}

	var tx types.Transaction
	if err := tx.UnmarshalBinary(hexutil.MustDecode(raw)); err != nil {
		t.Fatalf("invalid raw transaction: %v", err)
	}
	from, err := types.Sender(types.LatestSignerForChainID(backend.chainID), &tx)
	if err != nil {
		t.Fatal(err)
	}
	if from != common.HexToAddress(testSender) {
		t.Errorf("sender = %s", from.Hex())
	}
	if tx.Nonce() != 7 || tx.Gas() != 60000 || tx.GasPrice().Cmp(backend.gasPrice) != 0 {
		t.Errorf("nonce/gas/price = %d/%d/%s", tx.Nonce(), tx.Gas(), tx.GasPrice())
	}
	if backend.lastCall.From != from {
		t.Errorf("gas estimated for %s", backend.lastCall.From.Hex())
	}
}

func TestSendCustodialWalletBatchBroadcasts(t *testing.T) {
	conn := &fakeConnector{}
	h := NewHelper(conn, api.ChainBSC, WithBackend(newFakeBackend()))

	hash, err := h.SendCustodialWalletBatch(context.Background(), &CustodialWalletBatch{
		ContractAddress: testToken,
		Owner:           testSpender,
		BatchCount:      10,
		Signer:          Signer{FromPrivateKey: testKey},
	})
	if err != nil {
		t.Fatalf("SendCustodialWalletBatch() error = %v", err)
	}
	if hash.TxID != "0xabc" {
		t.Errorf("txId = %s", hash.TxID)
	}
	if len(conn.broadcasts) != 1 || !strings.HasPrefix(conn.broadcasts[0], "bsc|0x") {
		t.Errorf("broadcasts = %v", conn.broadcasts)
	}
}

func TestValidationFailsBeforeNetwork(t *testing.T) {
	h := NewHelper(&fakeConnector{}, api.ChainKCC, WithDial(failingDial))

	cases := map[string]interface{}{
		"missing signer": &ApproveErc20{ContractAddress: testToken, Spender: testSpender, Amount: "1"},
		"bad spender":    &ApproveErc20{ContractAddress: testToken, Spender: "nope", Amount: "1", Signer: Signer{FromPrivateKey: testKey}},
		"bad amount":     &ApproveErc20{ContractAddress: testToken, Spender: testSpender, Amount: "abc", Signer: Signer{FromPrivateKey: testKey}},
		"batch too big":  &CustodialWalletBatch{ContractAddress: testToken, Owner: testSpender, BatchCount: 271, Signer: Signer{FromPrivateKey: testKey}},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			var err error
			switch b := body.(type) {
			case *ApproveErc20:
				_, err = h.PrepareApproveErc20(context.Background(), b)
			case *CustodialWalletBatch:
				_, err = h.PrepareCustodialWalletBatch(context.Background(), b)
			}
			var verr *api.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		amount   string
		decimals int32
		want     string
		wantErr  bool
	}{
		{"1", 18, "1000000000000000000", false},
		{"0.000001", 6, "1", false},
		{"12.5", 2, "1250", false},
		{"0.0000001", 6, "", true},
		{"-1", 6, "", true},
		{"x", 6, "", true},
	}
	for _, tt := range tests {
		got, err := ToBaseUnits(tt.amount, tt.decimals)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ToBaseUnits(%s, %d) expected error", tt.amount, tt.decimals)
			}
			continue
		}
		if err != nil {
			t.Errorf("ToBaseUnits(%s, %d) error = %v", tt.amount, tt.decimals, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ToBaseUnits(%s, %d) = %s, want %s", tt.amount, tt.decimals, got, tt.want)
		}
	}
}

func TestParsePrivateKeyAddress(t *testing.T) {
	key, err := parsePrivateKey(testKey)
	if err != nil {
		t.Fatal(err)
	}
	if got := ethcrypto.PubkeyToAddress(key.PublicKey).Hex(); got != testSender {
		t.Errorf("address = %s", got)
	}
}
