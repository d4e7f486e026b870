// internal/blockchain/solbc/types.go
package solbc

import (
	"encoding/json"
)

// SignatureInfo - элемент ответа getSignaturesForAddress
type SignatureInfo struct {
	Signature string
	Slot      uint64
	BlockTime int64 // 0, если узел не вернул время блока
	Failed    bool
}

// AccountInfo - минимальные сведения об аккаунте
type AccountInfo struct {
	Lamports   uint64
	Owner      string
	Executable bool
}

// TokenSupply - эмиссия SPL-токена в базовых единицах
type TokenSupply struct {
	Amount   uint64
	Decimals uint8
}

// ParsedTransaction повторяет форму ответа getTransaction с encoding=jsonParsed.
// Поддерживаются только поля, нужные для разбора комиссий и созданий токенов.
type ParsedTransaction struct {
	Slot        uint64                   `json:"slot"`
	BlockTime   *int64                   `json:"blockTime"`
	Meta        *ParsedTransactionMeta   `json:"meta"`
	Transaction ParsedTransactionEnvelope `json:"transaction"`
}

type ParsedTransactionEnvelope struct {
	Signatures []string      `json:"signatures"`
	Message    ParsedMessage `json:"message"`
}

type ParsedMessage struct {
	AccountKeys  []ParsedAccountKey  `json:"accountKeys"`
	Instructions []ParsedInstruction `json:"instructions"`
}

type ParsedAccountKey struct {
	Pubkey   string `json:"pubkey"`
	Signer   bool   `json:"signer"`
	Writable bool   `json:"writable"`
	Source   string `json:"source,omitempty"`
}

type ParsedTransactionMeta struct {
	Err               interface{}              `json:"err"`
	Fee               uint64                   `json:"fee"`
	PreBalances       []uint64                 `json:"preBalances"`
	PostBalances      []uint64                 `json:"postBalances"`
	InnerInstructions []ParsedInnerInstruction `json:"innerInstructions"`
}

type ParsedInnerInstruction struct {
	Index        int                 `json:"index"`
	Instructions []ParsedInstruction `json:"instructions"`
}

// ParsedInstruction - инструкция в jsonParsed-представлении.
// Для распознанных программ заполнено поле Parsed, иначе Accounts и Data.
type ParsedInstruction struct {
	Program   string          `json:"program,omitempty"`
	ProgramID string          `json:"programId"`
	Accounts  []string        `json:"accounts,omitempty"`
	Data      string          `json:"data,omitempty"`
	Parsed    json.RawMessage `json:"parsed,omitempty"`
}

// ParsedType возвращает поле parsed.type, если инструкция распознана узлом.
// Некоторые программы (memo) отдают parsed строкой - для них тип пустой.
func (ix ParsedInstruction) ParsedType() string {
	if len(ix.Parsed) == 0 || ix.Parsed[0] != '{' {
		return ""
	}
	var parsed struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(ix.Parsed, &parsed); err != nil {
		return ""
	}
	return parsed.Type
}

// AccountIndex возвращает индекс ключа в сообщении или -1
func (tx *ParsedTransaction) AccountIndex(pubkey string) int {
	for i, key := range tx.Transaction.Message.AccountKeys {
		if key.Pubkey == pubkey {
			return i
		}
	}
	return -1
}

// HasAccount сообщает, участвует ли ключ в транзакции
func (tx *ParsedTransaction) HasAccount(pubkey string) bool {
	return tx.AccountIndex(pubkey) >= 0
}

// BalanceChange возвращает изменение баланса (post - pre) в лампортах для ключа.
// ok=false, если ключа нет или метаданные неполные.
func (tx *ParsedTransaction) BalanceChange(pubkey string) (delta int64, ok bool) {
	if tx.Meta == nil {
		return 0, false
	}
	idx := tx.AccountIndex(pubkey)
	if idx < 0 || idx >= len(tx.Meta.PreBalances) || idx >= len(tx.Meta.PostBalances) {
		return 0, false
	}
	return int64(tx.Meta.PostBalances[idx]) - int64(tx.Meta.PreBalances[idx]), true
}
