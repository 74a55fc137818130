package nft

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MixinNetwork/keymint/gate"
	"github.com/MixinNetwork/mixin/logger"
	"github.com/ethereum/go-ethereum/common"
)

const ledgerPausedPropertyKey = "NFT:LEDGER:PAUSED"

// Ledger is a multi token ledger where every id is issued once with a
// single unit. It implements gate.Issuer.
type Ledger struct {
	mutex sync.Mutex
	store Store
	uri   string
}

func NewLedger(store Store, uri string) *Ledger {
	return &Ledger{
		store: store,
		uri:   uri,
	}
}

func (l *Ledger) IssueToken(ctx context.Context, to common.Address, tokenId uint64) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	paused, err := l.paused()
	if err != nil {
		return err
	}
	if paused {
		return fmt.Errorf("%w: token %d", gate.ErrPaused, tokenId)
	}
	if to == (common.Address{}) {
		return errors.New("issue to the zero address")
	}
	return l.store.WriteToken(ctx, &Token{
		Id:        tokenId,
		Owner:     to.Hex(),
		CreatedAt: time.Now(),
	})
}

func (l *Ledger) Pause(ctx context.Context) error {
	return l.setPaused(true)
}

func (l *Ledger) Unpause(ctx context.Context) error {
	return l.setPaused(false)
}

func (l *Ledger) Paused() (bool, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	return l.paused()
}

func (l *Ledger) Issued(ctx context.Context, tokenId uint64) (bool, error) {
	tok, err := l.store.ReadToken(tokenId)
	return tok != nil, err
}

func (l *Ledger) OwnerOf(tokenId uint64) (common.Address, error) {
	tok, err := l.store.ReadToken(tokenId)
	if err != nil || tok == nil {
		return common.Address{}, err
	}
	return common.HexToAddress(tok.Owner), nil
}

func (l *Ledger) BalanceOf(owner common.Address, tokenId uint64) (uint64, error) {
	tok, err := l.store.ReadToken(tokenId)
	if err != nil || tok == nil {
		return 0, err
	}
	if tok.Owner != owner.Hex() {
		return 0, nil
	}
	return 1, nil
}

// TokenOfOwnerByIndex enumerates the tokens of owner in ascending id order.
func (l *Ledger) TokenOfOwnerByIndex(owner common.Address, index int) (uint64, error) {
	tokens, err := l.store.ListTokensForOwner(owner.Hex(), index+1)
	if err != nil {
		return 0, err
	}
	if index < 0 || index >= len(tokens) {
		return 0, fmt.Errorf("owner index out of bounds %d/%d", index, len(tokens))
	}
	return tokens[index].Id, nil
}

func (l *Ledger) TokensOfOwner(owner common.Address, limit int) ([]*Token, error) {
	return l.store.ListTokensForOwner(owner.Hex(), limit)
}

func (l *Ledger) TotalSupply() (uint64, error) {
	return l.store.CountTokens()
}

// URI substitutes {id} with the 64 hex digits token id, as ERC-1155 clients expect.
func (l *Ledger) URI(tokenId uint64) string {
	return strings.ReplaceAll(l.uri, "{id}", fmt.Sprintf("%064x", tokenId))
}

func (l *Ledger) setPaused(paused bool) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	old, err := l.paused()
	if err != nil {
		return err
	}
	if old && paused {
		return ErrAlreadyPaused
	}
	if !old && !paused {
		return ErrNotPaused
	}
	val := []byte{0}
	if paused {
		val[0] = 1
	}
	err = l.store.WriteProperty([]byte(ledgerPausedPropertyKey), val)
	logger.Printf("Ledger.setPaused(%t) => %v\n", paused, err)
	return err
}

func (l *Ledger) paused() (bool, error) {
	val, err := l.store.ReadProperty([]byte(ledgerPausedPropertyKey))
	if err != nil {
		return false, err
	}
	return len(val) == 1 && val[0] == 1, nil
}
