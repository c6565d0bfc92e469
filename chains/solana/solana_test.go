package solana

import (
	"context"
	"errors"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/mr-tron/base58"

	"github.com/chinmay1088/tatum-go/api"
	"github.com/chinmay1088/tatum-go/wallet"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

type fixedBlockhash struct {
	hash  solana.Hash
	calls int
}

func (f *fixedBlockhash) GetLatestBlockhash(context.Context, rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	f.calls++
	return &rpc.GetLatestBlockhashResult{Value: &rpc.LatestBlockhashResult{Blockhash: f.hash}}, nil
}

type fakeConnector struct {
	txData []string
}

func (f *fakeConnector) NodeURL(api.Chain) (string, error) {
	return "", errors.New("node gateway should not be used")
}

func (f *fakeConnector) Broadcast(_ context.Context, _ api.Chain, txData, _ string) (*api.TransactionHash, error) {
	f.txData = append(f.txData, txData)
	return &api.TransactionHash{TxID: "sig"}, nil
}

func TestSendTransactionSignsTransfer(t *testing.T) {
	kp, err := wallet.GenerateSolanaWallet(false, testMnemonic)
	if err != nil {
		t.Fatal(err)
	}
	recipient := solana.NewWallet().PublicKey()
	src := &fixedBlockhash{}
	src.hash[0] = 7
	conn := &fakeConnector{}
	s := New(conn, WithBlockhashSource(src))

	res, err := s.SendTransaction(context.Background(), &TransferSolana{
		From:           kp.Address,
		To:             recipient.String(),
		Amount:         "0.25",
		FromPrivateKey: kp.PrivateKey,
	})
	if err != nil {
		t.Fatalf("SendTransaction() error = %v", err)
	}
	if res.TxID != "sig" || len(conn.txData) != 1 || src.calls != 1 {
		t.Fatalf("unexpected result %v, broadcasts %d, blockhash calls %d", res, len(conn.txData), src.calls)
	}

	raw, err := base58.Decode(conn.txData[0])
	if err != nil {
		t.Fatal(err)
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		t.Fatalf("invalid transaction: %v", err)
	}
	if tx.Message.RecentBlockhash != src.hash {
		t.Error("blockhash not used")
	}
	if err := tx.VerifySignatures(); err != nil {
		t.Errorf("signature does not verify: %v", err)
	}
	if !tx.Message.AccountKeys[0].Equals(solana.MustPublicKeyFromBase58(kp.Address)) {
		t.Errorf("fee payer = %s", tx.Message.AccountKeys[0])
	}
}

func TestPrepareSignedTransactionRejectsForeignKey(t *testing.T) {
	kp, err := wallet.GenerateSolanaWallet(false, testMnemonic)
	if err != nil {
		t.Fatal(err)
	}
	other := solana.NewWallet()
	src := &fixedBlockhash{}
	s := New(&fakeConnector{}, WithBlockhashSource(src))

	_, err = s.PrepareSignedTransaction(context.Background(), &TransferSolana{
		From:           other.PublicKey().String(),
		To:             kp.Address,
		Amount:         "1",
		FromPrivateKey: kp.PrivateKey,
	})
	var verr *api.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if src.calls != 0 {
		t.Error("blockhash fetched for an invalid transfer")
	}
}

func TestBuildAndSignRequiresBlockhash(t *testing.T) {
	w := solana.NewWallet()
	tx := NewTransaction(w.PublicKey())
	tx.AddTransferInstruction(w.PublicKey(), w.PublicKey(), 1)
	tx.AddSigner(w.PrivateKey)
	if _, err := tx.BuildAndSign(); err == nil {
		t.Error("expected error without blockhash")
	}
}

func TestToLamports(t *testing.T) {
	if got, err := ToLamports("1.5"); err != nil || got != 1_500_000_000 {
		t.Errorf("ToLamports(1.5) = %d, %v", got, err)
	}
	for _, bad := range []string{"0", "-1", "0.0000000001", "abc"} {
		if _, err := ToLamports(bad); err == nil {
			t.Errorf("ToLamports(%s) expected error", bad)
		}
	}
	if got := FormatBalance(1_500_000_000); got != "1.500000000 SOL" {
		t.Errorf("FormatBalance() = %s", got)
	}
}
