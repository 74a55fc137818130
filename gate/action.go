package gate

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"time"

	"github.com/fox-one/mixin-sdk-go"
)

// MintAction records a redeemed access key and the token it minted.
type MintAction struct {
	TraceId    string    `json:"trace_id"`
	Collection uint64    `json:"collection"`
	Nonce      string    `json:"nonce"`
	Claimant   string    `json:"claimant"`
	TokenId    uint64    `json:"token_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// MintTraceId is unique per (collection, nonce), so a key maps to exactly one trace.
func MintTraceId(collection uint64, nonce *big.Int) string {
	return mixin.UniqueConversationID(fmt.Sprint(collection), nonce.String())
}

// AccessKeyId is the ledger key of (collection, nonce): uint64 || uint256, big endian.
func AccessKeyId(collection uint64, nonce *big.Int) []byte {
	key := make([]byte, 8+32)
	binary.BigEndian.PutUint64(key[:8], collection)
	nonce.FillBytes(key[8:])
	return key
}

func (act *MintAction) KeyId() []byte {
	nonce, ok := new(big.Int).SetString(act.Nonce, 10)
	if !ok {
		panic(act.Nonce)
	}
	return AccessKeyId(act.Collection, nonce)
}
