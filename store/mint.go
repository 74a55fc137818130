package store

import (
	"context"
	"math/big"
	"time"

	"github.com/MixinNetwork/keymint/gate"
	"github.com/MixinNetwork/mixin/common"
	"github.com/dgraph-io/badger/v4"
)

const (
	prefixRedeemedKey = "KEY:REDEEMED:"
	prefixMintPayload = "MINT:PAYLOAD:"
	prefixMintQueue   = "MINT:QUEUE:"
)

func (bs *BadgerStore) ReadRedeemedKey(collection uint64, nonce *big.Int) (string, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	key := append([]byte(prefixRedeemedKey), gate.AccessKeyId(collection, nonce)...)
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return "", nil
	} else if err != nil {
		return "", err
	}
	val, err := item.ValueCopy(nil)
	return string(val), err
}

func (bs *BadgerStore) WriteMintAction(ctx context.Context, act *gate.MintAction, c *gate.Collection, issue func(context.Context) error) error {
	txn := bs.db.NewTransaction(true)
	defer txn.Discard()

	key := append([]byte(prefixRedeemedKey), act.KeyId()...)
	_, err := txn.Get(key)
	if err == nil {
		return gate.ErrAlreadyUsed
	} else if err != badger.ErrKeyNotFound {
		return err
	}
	err = txn.Set(key, []byte(act.TraceId))
	if err != nil {
		return err
	}

	err = bs.writeCollection(txn, act.Collection, c)
	if err != nil {
		return err
	}

	key = []byte(prefixMintPayload + act.TraceId)
	err = txn.Set(key, common.MsgpackMarshalPanic(act))
	if err != nil {
		return err
	}
	key = buildMintTimedKey(act)
	err = txn.Set(key, []byte{1})
	if err != nil {
		return err
	}

	err = issue(withTransaction(ctx, txn))
	if err != nil {
		return err
	}
	return txn.Commit()
}

func (bs *BadgerStore) ReadMintAction(traceId string) (*gate.MintAction, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readMintAction(txn, traceId)
}

// ListMintActions lists actions created after offset, oldest first.
func (bs *BadgerStore) ListMintActions(offset time.Time, limit int) ([]*gate.MintAction, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(prefixMintQueue)
	it := txn.NewIterator(opts)
	defer it.Close()

	seek := opts.Prefix
	if !offset.IsZero() {
		seek = append([]byte(prefixMintQueue), tsToBytes(offset.Add(time.Nanosecond))...)
	}
	var acts []*gate.MintAction
	for it.Seek(seek); it.Valid(); it.Next() {
		key := it.Item().Key()
		id := string(key[len(opts.Prefix)+8:])
		act, err := bs.readMintAction(txn, id)
		if err != nil {
			return nil, err
		}
		acts = append(acts, act)
		if len(acts) == limit {
			break
		}
	}
	return acts, nil
}

func (bs *BadgerStore) readMintAction(txn *badger.Txn, traceId string) (*gate.MintAction, error) {
	key := []byte(prefixMintPayload + traceId)
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	var act gate.MintAction
	err = common.MsgpackUnmarshal(val, &act)
	return &act, err
}

func buildMintTimedKey(act *gate.MintAction) []byte {
	key := append([]byte(prefixMintQueue), tsToBytes(act.CreatedAt)...)
	return append(key, []byte(act.TraceId)...)
}
