package store

import (
	"context"
	"encoding/binary"

	"github.com/MixinNetwork/keymint/nft"
	"github.com/MixinNetwork/mixin/common"
	"github.com/dgraph-io/badger/v4"
)

const (
	prefixTokenPayload = "TOKEN:PAYLOAD:"
	prefixTokenOwner   = "TOKEN:OWNER:"
	keyTokenSupply     = "TOKEN:SUPPLY"
)

// WriteToken joins the mint transaction when ctx carries one.
func (bs *BadgerStore) WriteToken(ctx context.Context, tok *nft.Token) error {
	return bs.update(ctx, func(txn *badger.Txn) error {
		old, err := bs.readToken(txn, tok.Id)
		if err != nil {
			return err
		} else if old != nil {
			return nft.ErrTokenIssued
		}

		key := append([]byte(prefixTokenPayload), uint64ToBytes(tok.Id)...)
		err = txn.Set(key, common.MsgpackMarshalPanic(tok))
		if err != nil {
			return err
		}
		key = buildTokenOwnerKey(tok.Owner, tok.Id)
		err = txn.Set(key, []byte{1})
		if err != nil {
			return err
		}

		supply, err := bs.countTokens(txn)
		if err != nil {
			return err
		}
		return txn.Set([]byte(keyTokenSupply), uint64ToBytes(supply+1))
	})
}

func (bs *BadgerStore) ReadToken(id uint64) (*nft.Token, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readToken(txn, id)
}

// ListTokensForOwner lists the tokens of owner in ascending id order.
func (bs *BadgerStore) ListTokensForOwner(owner string, limit int) ([]*nft.Token, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(prefixTokenOwner + owner + ":")
	it := txn.NewIterator(opts)
	defer it.Close()

	var tokens []*nft.Token
	for it.Seek(opts.Prefix); it.Valid(); it.Next() {
		key := it.Item().Key()
		id := binary.BigEndian.Uint64(key[len(opts.Prefix):])
		tok, err := bs.readToken(txn, id)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if len(tokens) == limit {
			break
		}
	}
	return tokens, nil
}

func (bs *BadgerStore) CountTokens() (uint64, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.countTokens(txn)
}

func (bs *BadgerStore) countTokens(txn *badger.Txn) (uint64, error) {
	item, err := txn.Get([]byte(keyTokenSupply))
	if err == badger.ErrKeyNotFound {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(val), nil
}

func (bs *BadgerStore) readToken(txn *badger.Txn, id uint64) (*nft.Token, error) {
	key := append([]byte(prefixTokenPayload), uint64ToBytes(id)...)
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
	var tok nft.Token
	err = common.MsgpackUnmarshal(val, &tok)
	return &tok, err
}

func buildTokenOwnerKey(owner string, id uint64) []byte {
	key := []byte(prefixTokenOwner + owner + ":")
	return append(key, uint64ToBytes(id)...)
}
