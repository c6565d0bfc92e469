package eth

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/chinmay1088/tatum-go/api"
	"github.com/chinmay1088/tatum-go/chains/evm"
	"github.com/chinmay1088/tatum-go/contracts"
)

const (
	testKey = "0x1ab42cc412b618bdea3a599e3c9bae199ebf030895b039e9db1e30dafb12b727"
	testTo  = "0x1111111111111111111111111111111111111111"
)

type stubBackend struct {
	contractCalls int
}

func (s *stubBackend) CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	s.contractCalls++
	return nil, errors.New("unexpected contract call")
}

func (s *stubBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) { return 0, nil }

func (s *stubBackend) SuggestGasPrice(context.Context) (*big.Int, error) { return big.NewInt(1), nil }

func (s *stubBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 21000, nil
}

func (s *stubBackend) ChainID(context.Context) (*big.Int, error) { return big.NewInt(1), nil }

type stubConnector struct {
	txData string
}

func (s *stubConnector) Broadcast(_ context.Context, _ api.Chain, txData, _ string) (*api.TransactionHash, error) {
	s.txData = txData
	return &api.TransactionHash{TxID: "0x01"}, nil
}

func (s *stubConnector) Web3URL(api.Chain) (string, error) { return "", nil }

func (s *stubConnector) GetErc20Transactions(context.Context, api.Chain, string, api.Erc20TransactionsQuery) ([]api.Erc20Transaction, error) {
	return nil, nil
}

func TestSendTransferErc20UsesTables(t *testing.T) {
	backend := &stubBackend{}
	conn := &stubConnector{}
	e := New(conn, evm.WithBackend(backend))

	hash, err := e.SendTransferErc20(context.Background(), &TransferErc20{
		Currency: "usdt",
		To:       testTo,
		Amount:   "10.25",
		Signer:   evm.Signer{FromPrivateKey: testKey},
	})
	if err != nil {
		t.Fatalf("SendTransferErc20() error = %v", err)
	}
	if hash.TxID != "0x01" {
		t.Errorf("txId = %s", hash.TxID)
	}
	if backend.contractCalls != 0 {
		t.Error("decimals() should not be called for a known currency")
	}

	var tx types.Transaction
	if err := tx.UnmarshalBinary(hexutil.MustDecode(conn.txData)); err != nil {
		t.Fatal(err)
	}
	if !strings.EqualFold(tx.To().Hex(), "0xdac17f958d2ee523a2206206994597c13d831ec7") {
		t.Errorf("to = %s", tx.To().Hex())
	}
	args, err := contracts.TransferMethodABI.Methods["transfer"].Inputs.Unpack(tx.Data()[4:])
	if err != nil {
		t.Fatal(err)
	}
	if got := args[1].(*big.Int); got.Cmp(big.NewInt(10_250_000)) != 0 {
		t.Errorf("amount = %s, want 10250000", got)
	}
}

func TestPrepareTransferErc20UnknownCurrency(t *testing.T) {
	e := New(&stubConnector{}, evm.WithBackend(&stubBackend{}))
	for _, currency := range []api.Currency{"DOGE", api.CurrencyUSDTTron} {
		_, err := e.PrepareTransferErc20(context.Background(), &TransferErc20{
			Currency: currency,
			To:       testTo,
			Amount:   "1",
			Signer:   evm.Signer{FromPrivateKey: testKey},
		})
		if !errors.Is(err, contracts.ErrUnknownCurrency) {
			t.Errorf("%s: expected ErrUnknownCurrency, got %v", currency, err)
		}
	}
}
