package gate

import "errors"

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrRangeInvalid     = errors.New("invalid collection range")
	ErrRangeOverlap     = errors.New("collection range overlap")
	ErrNoCollection     = errors.New("no collection")
	ErrSupplyViolation  = errors.New("supply violation")
	ErrIndexOutOfRange  = errors.New("collection index out of range")
	ErrInvalidAccessKey = errors.New("invalid access key")
	ErrAlreadyUsed      = errors.New("key already used")
	ErrSoldOut          = errors.New("minted out")

	// ErrPaused is returned by an Issuer refusing to issue while paused.
	ErrPaused = errors.New("paused")
)
