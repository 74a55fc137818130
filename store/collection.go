package store

import (
	"encoding/binary"
	"fmt"

	"github.com/MixinNetwork/keymint/gate"
	"github.com/MixinNetwork/mixin/common"
	"github.com/dgraph-io/badger/v4"
)

const (
	prefixCollectionPayload = "COLLECTION:PAYLOAD:"
	prefixRevisionQueue     = "REVISION:QUEUE:"
)

// WriteRevision appends rev to the revision queue, and for ADD and AMEND
// stores the resulting collection in the same transaction.
func (bs *BadgerStore) WriteRevision(rev *gate.Revision) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		key := append([]byte(prefixRevisionQueue), tsToBytes(rev.CreatedAt)...)
		_, err := txn.Get(key)
		if err == nil {
			panic(rev.CreatedAt)
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		err = txn.Set(key, common.MsgpackMarshalPanic(rev))
		if err != nil || !rev.ChangesCollection() {
			return err
		}
		return bs.writeCollection(txn, rev.Index, &rev.Collection)
	})
}

func (bs *BadgerStore) ListRevisions(limit int) ([]*gate.Revision, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefixRevisionQueue)
	it := txn.NewIterator(opts)
	defer it.Close()

	var revs []*gate.Revision
	for it.Seek(opts.Prefix); it.Valid(); it.Next() {
		val, err := it.Item().ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		var rev gate.Revision
		err = common.MsgpackUnmarshal(val, &rev)
		if err != nil {
			return nil, err
		}
		revs = append(revs, &rev)
		if len(revs) == limit {
			break
		}
	}
	return revs, nil
}

// ListCollections returns the collections in index order.
func (bs *BadgerStore) ListCollections() ([]*gate.Collection, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefixCollectionPayload)
	it := txn.NewIterator(opts)
	defer it.Close()

	var collections []*gate.Collection
	for it.Seek(opts.Prefix); it.Valid(); it.Next() {
		item := it.Item()
		index := binary.BigEndian.Uint64(item.Key()[len(opts.Prefix):])
		if index != uint64(len(collections)) {
			return nil, fmt.Errorf("collection index gap %d/%d", index, len(collections))
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		var c gate.Collection
		err = common.MsgpackUnmarshal(val, &c)
		if err != nil {
			return nil, err
		}
		collections = append(collections, &c)
	}
	return collections, nil
}

func (bs *BadgerStore) writeCollection(txn *badger.Txn, index uint64, c *gate.Collection) error {
	key := append([]byte(prefixCollectionPayload), uint64ToBytes(index)...)
	return txn.Set(key, common.MsgpackMarshalPanic(c))
}
