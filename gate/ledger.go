package gate

import (
	"context"
	"fmt"
	"math/big"
)

// KeyLedger tracks redeemed (collection, nonce) pairs. Entries are never cleared.
type KeyLedger struct {
	store Store
}

func NewKeyLedger(store Store) *KeyLedger {
	return &KeyLedger{store: store}
}

func (l *KeyLedger) IsRedeemed(collection uint64, nonce *big.Int) (bool, error) {
	if nonce == nil || nonce.Sign() < 0 || nonce.BitLen() > 256 {
		return false, fmt.Errorf("invalid nonce %v", nonce)
	}
	traceId, err := l.store.ReadRedeemedKey(collection, nonce)
	return traceId != "", err
}

// MarkRedeemed commits the redemption of act together with the allocated
// collection state, failing with ErrAlreadyUsed on a second attempt.
func (l *KeyLedger) MarkRedeemed(ctx context.Context, act *MintAction, c *Collection, issue func(context.Context) error) error {
	return l.store.WriteMintAction(ctx, act, c, issue)
}
