package store

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/MixinNetwork/keymint/gate"
	"github.com/MixinNetwork/keymint/nft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *BadgerStore {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	bs, err := OpenBadger(ctx, "")
	require.NoError(t, err)
	t.Cleanup(func() { bs.Close() })
	return bs
}

func testMintAction(collection uint64, nonce int64, tokenId uint64, ts time.Time) *gate.MintAction {
	n := big.NewInt(nonce)
	return &gate.MintAction{
		TraceId:    gate.MintTraceId(collection, n),
		Collection: collection,
		Nonce:      n.String(),
		Claimant:   "0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
		TokenId:    tokenId,
		CreatedAt:  ts,
	}
}

func TestWriteMintAction(t *testing.T) {
	bs := testStore(t)
	now := time.Now()

	issued := 0
	issue := func(ctx context.Context) error {
		issued++
		return nil
	}
	act := testMintAction(0, 42, 0, now)
	err := bs.WriteMintAction(context.Background(), act, &gate.Collection{Start: 0, End: 10, Minted: 1}, issue)
	require.NoError(t, err)
	assert.Equal(t, 1, issued)

	traceId, err := bs.ReadRedeemedKey(0, big.NewInt(42))
	require.NoError(t, err)
	assert.Equal(t, act.TraceId, traceId)
	traceId, err = bs.ReadRedeemedKey(1, big.NewInt(42))
	require.NoError(t, err)
	assert.Empty(t, traceId)

	err = bs.WriteMintAction(context.Background(), testMintAction(0, 42, 1, now.Add(time.Second)), &gate.Collection{Start: 0, End: 10, Minted: 2}, issue)
	assert.ErrorIs(t, err, gate.ErrAlreadyUsed)
	assert.Equal(t, 1, issued)

	collections, err := bs.ListCollections()
	require.NoError(t, err)
	require.Len(t, collections, 1)
	assert.Equal(t, uint64(1), collections[0].Minted)

	read, err := bs.ReadMintAction(act.TraceId)
	require.NoError(t, err)
	require.NotNil(t, read)
	assert.Equal(t, act.TokenId, read.TokenId)
	assert.Equal(t, act.Claimant, read.Claimant)
	assert.True(t, act.CreatedAt.Equal(read.CreatedAt))

	read, err = bs.ReadMintAction(gate.MintTraceId(9, big.NewInt(9)))
	require.NoError(t, err)
	assert.Nil(t, read)
}

func TestWriteMintActionIssueFailure(t *testing.T) {
	bs := testStore(t)

	act := testMintAction(0, 1, 0, time.Now())
	err := bs.WriteMintAction(context.Background(), act, &gate.Collection{Start: 0, End: 10, Minted: 1}, func(ctx context.Context) error {
		return errors.New("issue failed")
	})
	assert.EqualError(t, err, "issue failed")

	traceId, err := bs.ReadRedeemedKey(0, big.NewInt(1))
	require.NoError(t, err)
	assert.Empty(t, traceId)
	collections, err := bs.ListCollections()
	require.NoError(t, err)
	assert.Empty(t, collections)
	read, err := bs.ReadMintAction(act.TraceId)
	require.NoError(t, err)
	assert.Nil(t, read)
	acts, err := bs.ListMintActions(time.Time{}, 10)
	require.NoError(t, err)
	assert.Empty(t, acts)
}

func TestWriteMintActionWithToken(t *testing.T) {
	bs := testStore(t)
	ctx := context.Background()
	claimant := "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"

	act := testMintAction(0, 1, 0, time.Now())
	err := bs.WriteMintAction(ctx, act, &gate.Collection{Start: 0, End: 10, Minted: 1}, func(ctx context.Context) error {
		err := bs.WriteToken(ctx, &nft.Token{Id: 0, Owner: claimant, CreatedAt: time.Now()})
		require.NoError(t, err)
		return errors.New("issue failed")
	})
	assert.EqualError(t, err, "issue failed")
	tok, err := bs.ReadToken(0)
	require.NoError(t, err)
	assert.Nil(t, tok)
	supply, err := bs.CountTokens()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), supply)

	err = bs.WriteMintAction(ctx, act, &gate.Collection{Start: 0, End: 10, Minted: 1}, func(ctx context.Context) error {
		return bs.WriteToken(ctx, &nft.Token{Id: 0, Owner: claimant, CreatedAt: time.Now()})
	})
	require.NoError(t, err)
	tok, err = bs.ReadToken(0)
	require.NoError(t, err)
	require.NotNil(t, tok)
	assert.Equal(t, claimant, tok.Owner)
	tokens, err := bs.ListTokensForOwner(claimant, 10)
	require.NoError(t, err)
	assert.Len(t, tokens, 1)
	supply, err = bs.CountTokens()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), supply)

	err = bs.WriteToken(ctx, &nft.Token{Id: 0, Owner: claimant})
	assert.ErrorIs(t, err, nft.ErrTokenIssued)
}

func TestListMintActions(t *testing.T) {
	bs := testStore(t)
	start := time.Unix(1700000000, 0)

	var acts []*gate.MintAction
	for i := 0; i < 5; i++ {
		act := testMintAction(0, int64(i), uint64(i), start.Add(time.Duration(i)*time.Millisecond))
		c := &gate.Collection{Start: 0, End: 10, Minted: uint64(i + 1)}
		require.NoError(t, bs.WriteMintAction(context.Background(), act, c, func(context.Context) error { return nil }))
		acts = append(acts, act)
	}

	all, err := bs.ListMintActions(time.Time{}, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i, act := range all {
		assert.Equal(t, acts[i].TraceId, act.TraceId)
	}

	page, err := bs.ListMintActions(acts[1].CreatedAt, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, uint64(2), page[0].TokenId)
	assert.Equal(t, uint64(3), page[1].TokenId)
}

func TestWriteRevision(t *testing.T) {
	bs := testStore(t)
	now := time.Now()

	require.NoError(t, bs.WriteRevision(&gate.Revision{
		Action:     gate.RevisionActionAdd,
		Index:      0,
		Collection: gate.Collection{Start: 0, End: 5},
		CreatedAt:  now,
	}))
	require.NoError(t, bs.WriteRevision(&gate.Revision{
		Action:     gate.RevisionActionAdd,
		Index:      1,
		Collection: gate.Collection{Start: 1000, End: 10002},
		CreatedAt:  now.Add(time.Millisecond),
	}))
	require.NoError(t, bs.WriteRevision(&gate.Revision{
		Action:    gate.RevisionActionPause,
		CreatedAt: now.Add(2 * time.Millisecond),
	}))
	require.NoError(t, bs.WriteRevision(&gate.Revision{
		Action:     gate.RevisionActionAmend,
		Index:      1,
		Collection: gate.Collection{Start: 1000, End: 2000},
		CreatedAt:  now.Add(3 * time.Millisecond),
	}))

	collections, err := bs.ListCollections()
	require.NoError(t, err)
	require.Len(t, collections, 2)
	assert.Equal(t, gate.Collection{Start: 0, End: 5}, *collections[0])
	assert.Equal(t, gate.Collection{Start: 1000, End: 2000}, *collections[1])

	revs, err := bs.ListRevisions(0)
	require.NoError(t, err)
	require.Len(t, revs, 4)
	assert.Equal(t, gate.RevisionActionPause, revs[2].Action)
	revs, err = bs.ListRevisions(1)
	require.NoError(t, err)
	assert.Len(t, revs, 1)

	assert.Panics(t, func() {
		bs.WriteRevision(&gate.Revision{Action: gate.RevisionActionUnpause, CreatedAt: now})
	})
}

func TestProperty(t *testing.T) {
	bs := testStore(t)

	val, err := bs.ReadProperty([]byte("KEYMINT:TEST"))
	require.NoError(t, err)
	assert.Nil(t, val)
	require.NoError(t, bs.WriteProperty([]byte("KEYMINT:TEST"), []byte("value")))
	val, err = bs.ReadProperty([]byte("KEYMINT:TEST"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), val)
}
