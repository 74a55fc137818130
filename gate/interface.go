package gate

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type Store interface {
	WriteProperty(key, val []byte) error
	ReadProperty(key []byte) ([]byte, error)

	ListCollections() ([]*Collection, error)

	WriteRevision(rev *Revision) error
	ListRevisions(limit int) ([]*Revision, error)

	// ReadRedeemedKey returns the trace id that redeemed the key, empty if unused.
	ReadRedeemedKey(collection uint64, nonce *big.Int) (string, error)
	// WriteMintAction marks the key of act redeemed and persists c as the new
	// state of act.Collection. issue runs with a context carrying the same
	// transaction, so store writes made through it commit or discard together
	// with the redemption. A non nil error from issue discards all writes.
	WriteMintAction(ctx context.Context, act *MintAction, c *Collection, issue func(context.Context) error) error
	ReadMintAction(traceId string) (*MintAction, error)
	ListMintActions(offset time.Time, limit int) ([]*MintAction, error)
}

// Issuer is the token ledger the engine mints into. IssueToken must fail
// with an error wrapping ErrPaused while the ledger is paused.
type Issuer interface {
	IssueToken(ctx context.Context, to common.Address, tokenId uint64) error
	Issued(ctx context.Context, tokenId uint64) (bool, error)
	Pause(ctx context.Context) error
	Unpause(ctx context.Context) error
}

type Worker interface {
	ProcessMint(context.Context, *MintAction)
}
