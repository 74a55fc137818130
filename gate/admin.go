package gate

import (
	"context"
	"fmt"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/ethereum/go-ethereum/common"
)

func (e *Engine) IsAdministrator(caller common.Address) bool {
	return caller == e.authority.Administrator
}

func (e *Engine) AddCollection(ctx context.Context, caller common.Address, start, end uint64) (uint64, error) {
	if !e.IsAdministrator(caller) {
		return 0, ErrUnauthorized
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()

	registry := e.registry.Clone()
	index, err := registry.AddCollection(start, end)
	if err != nil {
		return 0, err
	}
	err = e.writeCollectionRevision(RevisionActionAdd, registry, index, caller)
	if err != nil {
		return 0, err
	}
	e.registry = registry
	return index, nil
}

func (e *Engine) AmendTopCollection(ctx context.Context, caller common.Address, end uint64) (uint64, error) {
	if !e.IsAdministrator(caller) {
		return 0, ErrUnauthorized
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()

	registry := e.registry.Clone()
	index, err := registry.AmendTopCollection(end)
	if err != nil {
		return 0, err
	}
	err = e.writeCollectionRevision(RevisionActionAmend, registry, index, caller)
	if err != nil {
		return 0, err
	}
	e.registry = registry
	return index, nil
}

// Pause stops the issuer from issuing, so every mint fails with ErrPaused
// and leaves its key unredeemed until Unpause.
func (e *Engine) Pause(ctx context.Context, caller common.Address) error {
	return e.toggle(ctx, caller, RevisionActionPause, e.issuer.Pause)
}

func (e *Engine) Unpause(ctx context.Context, caller common.Address) error {
	return e.toggle(ctx, caller, RevisionActionUnpause, e.issuer.Unpause)
}

func (e *Engine) toggle(ctx context.Context, caller common.Address, action string, fn func(context.Context) error) error {
	if !e.IsAdministrator(caller) {
		return ErrUnauthorized
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()

	err := fn(ctx)
	if err != nil {
		return fmt.Errorf("issuer %s => %w", action, err)
	}
	return e.writeRevision(&Revision{Action: action, Sender: caller.Hex()})
}

func (e *Engine) writeCollectionRevision(action string, registry *Registry, index uint64, caller common.Address) error {
	c, err := registry.Collection(index)
	if err != nil {
		panic(err)
	}
	return e.writeRevision(&Revision{
		Action:     action,
		Index:      index,
		Collection: c,
		Sender:     caller.Hex(),
	})
}

func (e *Engine) writeRevision(rev *Revision) error {
	now, err := e.clock.Now()
	if err != nil {
		return err
	}
	rev.CreatedAt = now
	err = e.store.WriteRevision(rev)
	logger.Printf("Engine.writeRevision(%s, %d, %v, %s) => %v\n",
		rev.Action, rev.Index, rev.Collection, rev.Sender, err)
	return err
}
