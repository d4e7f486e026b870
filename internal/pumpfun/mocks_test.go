// internal/pumpfun/mocks_test.go
package pumpfun

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/reclaim-hub/internal/blockchain/solbc"
	"github.com/rovshanmuradov/reclaim-hub/internal/helius"
	"github.com/rovshanmuradov/reclaim-hub/internal/price"
	"github.com/rovshanmuradov/reclaim-hub/internal/upstream"
)

// MockChain реализует интерфейс blockchain.ChainReader
type MockChain struct {
	mock.Mock
}

func (m *MockChain) GetSignaturesForAddress(ctx context.Context, address solana.PublicKey, limit int) ([]solbc.SignatureInfo, error) {
	args := m.Called(ctx, address, limit)
	sigs, _ := args.Get(0).([]solbc.SignatureInfo)
	return sigs, args.Error(1)
}

func (m *MockChain) GetParsedTransaction(ctx context.Context, signature string) (*solbc.ParsedTransaction, error) {
	args := m.Called(ctx, signature)
	tx, _ := args.Get(0).(*solbc.ParsedTransaction)
	return tx, args.Error(1)
}

func (m *MockChain) GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*solbc.AccountInfo, error) {
	args := m.Called(ctx, pubkey)
	info, _ := args.Get(0).(*solbc.AccountInfo)
	return info, args.Error(1)
}

func (m *MockChain) GetTokenSupply(ctx context.Context, mint solana.PublicKey) (*solbc.TokenSupply, error) {
	args := m.Called(ctx, mint)
	supply, _ := args.Get(0).(*solbc.TokenSupply)
	return supply, args.Error(1)
}

func (m *MockChain) CountTokenHolders(ctx context.Context, mint solana.PublicKey) (int, error) {
	args := m.Called(ctx, mint)
	return args.Int(0), args.Error(1)
}

// fakeAssets - резервный источник метаданных
type fakeAssets struct {
	asset *helius.Asset
	err   error
	calls int
}

func (f *fakeAssets) GetAsset(_ context.Context, _ string) (*helius.Asset, error) {
	f.calls++
	return f.asset, f.err
}

// fakePrices - источник котировки SOL
type fakePrices struct {
	quote price.Quote
	err   error
}

func (f *fakePrices) Quote(context.Context) (price.Quote, error) {
	return f.quote, f.err
}

// newTestService создает сервис с моком сети и заглушкой pump.fun API.
// handler может быть nil - тогда pump.fun всегда отвечает 404.
func newTestService(t *testing.T, chain *MockChain, handler http.HandlerFunc) *Service {
	t.Helper()
	if handler == nil {
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	api := upstream.New(upstream.Config{Provider: "pumpfun", Timeout: time.Second}, zap.NewNop())
	return NewService(chain, api, nil, nil, Options{
		APIURL:    srv.URL,
		CacheTTL:  time.Minute,
		CacheSize: 128,
		Workers:   2,
	}, zap.NewNop())
}

func newKey() solana.PublicKey {
	return solana.NewWallet().PublicKey()
}

func signatures(blockTime int64, sigs ...string) []solbc.SignatureInfo {
	out := make([]solbc.SignatureInfo, 0, len(sigs))
	for _, sig := range sigs {
		out = append(out, solbc.SignatureInfo{Signature: sig, BlockTime: blockTime})
	}
	return out
}

// balanceTx строит транзакцию, в которой у ключей меняются балансы (pre -> post)
func balanceTx(keys []string, pre, post []uint64) *solbc.ParsedTransaction {
	accountKeys := make([]solbc.ParsedAccountKey, 0, len(keys))
	for _, k := range keys {
		accountKeys = append(accountKeys, solbc.ParsedAccountKey{Pubkey: k})
	}
	return &solbc.ParsedTransaction{
		Meta: &solbc.ParsedTransactionMeta{PreBalances: pre, PostBalances: post},
		Transaction: solbc.ParsedTransactionEnvelope{
			Message: solbc.ParsedMessage{AccountKeys: accountKeys},
		},
	}
}

// createTx строит транзакцию создания токена mint через Pump.fun
func createTx(creator, mint string) *solbc.ParsedTransaction {
	program := ProgramID.String()
	tx := balanceTx([]string{creator, mint, program}, []uint64{10, 0, 1}, []uint64{5, 1, 1})
	tx.Transaction.Message.Instructions = []solbc.ParsedInstruction{
		{ProgramID: program, Accounts: []string{mint, creator}},
	}
	tx.Meta.InnerInstructions = []solbc.ParsedInnerInstruction{{
		Index: 0,
		Instructions: []solbc.ParsedInstruction{
			{Program: "system", ProgramID: solana.SystemProgramID.String(), Parsed: []byte(`{"type":"createAccount","info":{}}`)},
			{Program: "spl-token", ProgramID: solana.TokenProgramID.String(), Parsed: []byte(`{"type":"initializeMint2","info":{}}`)},
		},
	}}
	return tx
}
