package gate

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/ethereum/go-ethereum/common"
)

// Authority is fixed at engine construction and never changes afterwards.
type Authority struct {
	Gatekeeper    common.Address
	Administrator common.Address
}

func (conf *Configuration) Authority() Authority {
	return Authority{
		Gatekeeper:    conf.Gatekeeper(),
		Administrator: conf.Administrator(),
	}
}

// Engine redeems gatekeeper signed access keys into tokens. Every mint and
// administrative call holds the engine mutex from validation to commit.
type Engine struct {
	mutex     sync.Mutex
	store     Store
	issuer    Issuer
	ledger    *KeyLedger
	clock     *Clock
	registry  *Registry
	workers   []Worker
	authority Authority
}

func BuildEngine(ctx context.Context, store Store, issuer Issuer, authority Authority) (*Engine, error) {
	collections, err := store.ListCollections()
	if err != nil {
		return nil, err
	}
	registry, err := LoadRegistry(collections)
	if err != nil {
		return nil, err
	}
	clock, err := NewClock(store)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		store:     store,
		issuer:    issuer,
		ledger:    NewKeyLedger(store),
		clock:     clock,
		registry:  registry,
		authority: authority,
	}
	err = e.reconcile(ctx)
	if err != nil {
		return nil, err
	}
	logger.Printf("BuildEngine(%s, %s) => %d collections %d minted\n",
		authority.Gatekeeper.Hex(), authority.Administrator.Hex(), registry.Len(), e.registry.TotalSupply())
	return e, nil
}

// reconcile advances Minted past token ids the issuer already holds, so a
// slot issued outside a committed mint is never allocated again.
func (e *Engine) reconcile(ctx context.Context) error {
	for i, c := range e.registry.Collections() {
		index := uint64(i)
		next := c
		for !next.SoldOut() {
			issued, err := e.issuer.Issued(ctx, next.Start+next.Minted)
			if err != nil {
				return err
			}
			if !issued {
				break
			}
			next.Minted += 1
		}
		if next.Minted == c.Minted {
			continue
		}
		registry := e.registry.Clone()
		for m := c.Minted; m < next.Minted; m++ {
			_, err := registry.AllocateSlot(index)
			if err != nil {
				panic(err)
			}
		}
		err := e.writeCollectionRevision(RevisionActionReconcile, registry, index, common.Address{})
		if err != nil {
			return err
		}
		e.registry = registry
	}
	return nil
}

func (e *Engine) AddWorker(wkr Worker) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.workers = append(e.workers, wkr)
}

// Mint redeems the access key (collection, nonce) for claimant, the
// authenticated caller. The signature must be the gatekeeper's over the
// claim packed with the claimant's own address, so a key handed to one
// address is worthless to any other.
func (e *Engine) Mint(ctx context.Context, claimant common.Address, collection uint64, nonce *big.Int, signature []byte) (*MintAction, error) {
	err := VerifyAccessKey(e.authority.Gatekeeper, collection, nonce, claimant, signature)
	if err != nil {
		return nil, err
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()

	redeemed, err := e.ledger.IsRedeemed(collection, nonce)
	if err != nil {
		return nil, err
	}
	if redeemed {
		return nil, ErrAlreadyUsed
	}

	registry := e.registry.Clone()
	tokenId, err := registry.AllocateSlot(collection)
	if err != nil {
		return nil, err
	}
	c, err := registry.Collection(collection)
	if err != nil {
		panic(err)
	}

	now, err := e.clock.Now()
	if err != nil {
		return nil, err
	}
	act := &MintAction{
		TraceId:    MintTraceId(collection, nonce),
		Collection: collection,
		Nonce:      nonce.String(),
		Claimant:   claimant.Hex(),
		TokenId:    tokenId,
		CreatedAt:  now,
	}
	err = e.ledger.MarkRedeemed(ctx, act, &c, func(ctx context.Context) error {
		return e.issuer.IssueToken(ctx, claimant, tokenId)
	})
	if err != nil {
		logger.Verbosef("Engine.Mint(%d, %s, %s) => %v\n", collection, nonce, claimant.Hex(), err)
		return nil, err
	}
	e.registry = registry

	logger.Verbosef("Engine.Mint(%d, %s, %s) => %d %s\n",
		collection, nonce, claimant.Hex(), tokenId, act.TraceId)
	for _, wkr := range e.workers {
		wkr.ProcessMint(ctx, act)
	}
	return act, nil
}

func (e *Engine) Collection(index uint64) (Collection, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	return e.registry.Collection(index)
}

func (e *Engine) Collections() []Collection {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	return e.registry.Collections()
}

func (e *Engine) CollectionOf(tokenId uint64) (uint64, Collection, bool) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	return e.registry.CollectionOf(tokenId)
}

func (e *Engine) TotalSupply() uint64 {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	return e.registry.TotalSupply()
}

func (e *Engine) IsRedeemed(collection uint64, nonce *big.Int) (bool, error) {
	return e.ledger.IsRedeemed(collection, nonce)
}

func (e *Engine) ReadMintAction(traceId string) (*MintAction, error) {
	return e.store.ReadMintAction(traceId)
}

func (e *Engine) ListMintActions(offset time.Time, limit int) ([]*MintAction, error) {
	return e.store.ListMintActions(offset, limit)
}

func (e *Engine) ListRevisions(limit int) ([]*Revision, error) {
	return e.store.ListRevisions(limit)
}
