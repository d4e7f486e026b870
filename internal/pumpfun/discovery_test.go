package pumpfun

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/rovshanmuradov/reclaim-hub/internal/blockchain/solbc"
)

func TestCreatedMints(t *testing.T) {
	creator, mint := newKey().String(), newKey().String()

	t.Run("creation", func(t *testing.T) {
		assert.Equal(t, []string{mint}, createdMints(createTx(creator, mint)))
	})

	t.Run("no program account", func(t *testing.T) {
		tx := createTx(creator, mint)
		tx.Transaction.Message.AccountKeys = tx.Transaction.Message.AccountKeys[:2]
		assert.Empty(t, createdMints(tx))
	})

	t.Run("trade without mint creation", func(t *testing.T) {
		tx := createTx(creator, mint)
		tx.Meta.InnerInstructions[0].Instructions = []solbc.ParsedInstruction{
			{Program: "system", Parsed: []byte(`{"type":"transfer","info":{}}`)},
			{Program: "spl-memo", Parsed: []byte(`"hello"`)},
		}
		assert.Empty(t, createdMints(tx))
	})

	t.Run("other program instruction", func(t *testing.T) {
		tx := createTx(creator, mint)
		tx.Transaction.Message.Instructions[0].ProgramID = newKey().String()
		assert.Empty(t, createdMints(tx))
	})
}

func TestGetCreatedTokens(t *testing.T) {
	wallet := newKey()
	mintA, mintB := newKey().String(), newKey().String()

	chain := new(MockChain)
	chain.On("GetSignaturesForAddress", mock.Anything, wallet, 1000).
		Return(signatures(1_700_000_000, "s1", "s2", "s3", "s4", "s5"), nil).Once()
	chain.On("GetParsedTransaction", mock.Anything, "s1").Return(createTx(wallet.String(), mintA), nil)
	chain.On("GetParsedTransaction", mock.Anything, "s2").Return(nil, nil)
	chain.On("GetParsedTransaction", mock.Anything, "s3").Return(&solbc.ParsedTransaction{}, nil)
	chain.On("GetParsedTransaction", mock.Anything, "s4").Return(createTx(wallet.String(), mintB), nil)
	chain.On("GetParsedTransaction", mock.Anything, "s5").Return(createTx(wallet.String(), mintA), nil)

	svc := newTestService(t, chain, nil)
	ctx := context.Background()

	assert.Equal(t, []string{mintA, mintB}, svc.GetCreatedTokens(ctx, wallet.String()))

	// Второй вызов берется из кэша
	assert.Equal(t, []string{mintA, mintB}, svc.GetCreatedTokens(ctx, wallet.String()))
	chain.AssertNumberOfCalls(t, "GetSignaturesForAddress", 1)
	chain.AssertNumberOfCalls(t, "GetParsedTransaction", 5)
}

func TestGetCreatedTokensFailure(t *testing.T) {
	wallet := newKey()

	chain := new(MockChain)
	chain.On("GetSignaturesForAddress", mock.Anything, wallet, 1000).
		Return(nil, errors.New("node unavailable"))

	svc := newTestService(t, chain, nil)
	got := svc.GetCreatedTokens(context.Background(), wallet.String())
	assert.NotNil(t, got)
	assert.Empty(t, got)

	// Неудачный результат не кэшируется
	svc.GetCreatedTokens(context.Background(), wallet.String())
	chain.AssertNumberOfCalls(t, "GetSignaturesForAddress", 2)
}

func TestGetCreatedTokensTransactionFailure(t *testing.T) {
	wallet := newKey()
	mintA, mintB := newKey().String(), newKey().String()

	chain := new(MockChain)
	chain.On("GetSignaturesForAddress", mock.Anything, wallet, 1000).
		Return(signatures(1_700_000_000, "s1", "s2"), nil)
	chain.On("GetParsedTransaction", mock.Anything, "s1").Return(createTx(wallet.String(), mintA), nil)
	chain.On("GetParsedTransaction", mock.Anything, "s2").Return(nil, errors.New("rpc timeout")).Once()
	chain.On("GetParsedTransaction", mock.Anything, "s2").Return(createTx(wallet.String(), mintB), nil)

	svc := newTestService(t, chain, nil)
	ctx := context.Background()

	// Одна незагрузившаяся транзакция - пустой список без кэширования
	got := svc.GetCreatedTokens(ctx, wallet.String())
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Equal(t, []string{mintA, mintB}, svc.GetCreatedTokens(ctx, wallet.String()))
	chain.AssertNumberOfCalls(t, "GetSignaturesForAddress", 2)
}

func TestGetCreatedTokensInvalidWallet(t *testing.T) {
	chain := new(MockChain)
	svc := newTestService(t, chain, nil)

	assert.Empty(t, svc.GetCreatedTokens(context.Background(), "bad wallet"))
	chain.AssertNotCalled(t, "GetSignaturesForAddress", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetCreatedTokensCanceled(t *testing.T) {
	wallet := newKey()

	chain := new(MockChain)
	chain.On("GetSignaturesForAddress", mock.Anything, wallet, 1000).
		Return(signatures(0, "s1", "s2"), nil)
	chain.On("GetParsedTransaction", mock.Anything, mock.Anything).Return(nil, context.Canceled)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newTestService(t, chain, nil)
	assert.Empty(t, svc.GetCreatedTokens(ctx, wallet.String()))
}
