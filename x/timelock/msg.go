package timelock

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/registry"
)

var _ vault.Msg = (*SubmitMsg)(nil)

func (SubmitMsg) Path() string {
	return "timelock/submit"
}

func (m *SubmitMsg) Validate() error {
	if err := m.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if m.Value < 0 {
		return errors.Wrap(errors.ErrAmount, "value must not be negative")
	}
	return nil
}

var _ vault.Msg = (*ConfirmMsg)(nil)

func (ConfirmMsg) Path() string {
	return "timelock/confirm"
}

func (m *ConfirmMsg) Validate() error {
	return errors.Wrap(registry.ValidateID(m.TransactionID), "transaction id")
}

var _ vault.Msg = (*RevokeMsg)(nil)

func (RevokeMsg) Path() string {
	return "timelock/revoke"
}

func (m *RevokeMsg) Validate() error {
	return errors.Wrap(registry.ValidateID(m.TransactionID), "transaction id")
}

var _ vault.Msg = (*ExecuteMsg)(nil)

func (ExecuteMsg) Path() string {
	return "timelock/execute"
}

func (m *ExecuteMsg) Validate() error {
	return errors.Wrap(registry.ValidateID(m.TransactionID), "transaction id")
}

var _ vault.Msg = (*ChangeDelayMsg)(nil)

func (ChangeDelayMsg) Path() string {
	return "timelock/change_delay"
}

// Validate always succeeds. Any delay value is accepted.
func (m *ChangeDelayMsg) Validate() error {
	return nil
}
