package sigs

import (
	"github.com/iov-one/vault/errors"
)

// ErrInvalidSequence is returned when the sequence of a signature does not
// match the state of the signer.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
