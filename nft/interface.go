package nft

import (
	"context"
	"errors"
	"time"
)

var (
	ErrTokenIssued   = errors.New("token already issued")
	ErrAlreadyPaused = errors.New("already paused")
	ErrNotPaused     = errors.New("not paused")
)

type Store interface {
	WriteProperty(key, val []byte) error
	ReadProperty(key []byte) ([]byte, error)

	// WriteToken fails with ErrTokenIssued if the id exists.
	WriteToken(ctx context.Context, tok *Token) error
	ReadToken(id uint64) (*Token, error)
	ListTokensForOwner(owner string, limit int) ([]*Token, error)
	CountTokens() (uint64, error)
}

type Token struct {
	Id        uint64    `json:"id"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
}
