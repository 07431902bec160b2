package vault

import (
	"reflect"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault/errors"
)

// Msg is message for the vault.
type Msg interface {
	proto.Message

	// Validate performs a sanity checks on this message. It returns an
	// error if at least one of the checks fails.
	Validate() error

	// Path returns a path that is used by the router to find the handler
	// responsible for this message.
	Path() string
}

// Tx represent the data sent from the user to the vault.
type Tx interface {
	// GetMsg returns the action we wish to communicate
	GetMsg() (Msg, error)
}

// LoadMsg extracts the message represented by given transaction into given
// destination. Before returning message validation method is called.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrMsg, "transaction carries no message")
	}

	// This is a hack to set destination to the message value. This is
	// a common case where the destination is a pointer to a struct.
	msgVal := reflect.ValueOf(msg)
	if msgVal.Kind() == reflect.Ptr {
		msgVal = msgVal.Elem()
	}
	destVal := reflect.ValueOf(destination)
	if destVal.Kind() != reflect.Ptr {
		return errors.Wrap(errors.ErrType, "destination must be a pointer")
	}
	destVal = destVal.Elem()
	if msgVal.Type() != destVal.Type() {
		return errors.Wrapf(errors.ErrType, "want %T message, got %T", destination, msg)
	}
	destVal.Set(msgVal)

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}

// GetPath returns the path of the message, or (missing) if no message
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}
