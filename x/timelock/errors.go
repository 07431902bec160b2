package timelock

import "github.com/iov-one/vault/errors"

var (
	ErrAlreadyConfirmed = errors.Register(1000, "already confirmed")
	ErrNotConfirmed     = errors.Register(1001, "not confirmed")
	ErrAlreadyLocked    = errors.Register(1002, "already locked")
	ErrAlreadyExecuted  = errors.Register(1003, "already executed")
	ErrStillLocked      = errors.Register(1004, "still locked")
)
