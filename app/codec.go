package app

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/timelock"
)

// Envelope carries an encoded message together with its path.
type Envelope struct {
	Path string `protobuf:"bytes,1,opt,name=path,proto3" json:"path,omitempty"`
	Raw  []byte `protobuf:"bytes,2,opt,name=raw,proto3" json:"raw,omitempty"`
}

func (m *Envelope) Reset()         { *m = Envelope{} }
func (m *Envelope) String() string { return proto.CompactTextString(m) }
func (*Envelope) ProtoMessage()    {}

func init() {
	proto.RegisterType((*Envelope)(nil), "app.Envelope")
}

// Codec translates messages to and from their binary representation. A
// message can be decoded only if its type was registered.
type Codec struct {
	factories map[string]func() vault.Msg
}

var _ timelock.Decoder = (*Codec)(nil)

// NewCodec returns a codec with no message registered.
func NewCodec() *Codec {
	return &Codec{factories: make(map[string]func() vault.Msg)}
}

// Register adds a message type. Factory must return a new, empty instance
// of the message each time it is called. Registering the same path twice
// panics.
func (c *Codec) Register(factory func() vault.Msg) {
	path := factory().Path()
	if _, ok := c.factories[path]; ok {
		panic(fmt.Sprintf("message %q already registered", path))
	}
	c.factories[path] = factory
}

// Encode serializes given message.
func (c *Codec) Encode(msg vault.Msg) ([]byte, error) {
	if _, ok := c.factories[msg.Path()]; !ok {
		return nil, errors.Wrapf(errors.ErrType, "message %q not registered", msg.Path())
	}
	return EncodeMsg(msg)
}

// Decode deserializes a message encoded with Encode.
func (c *Codec) Decode(raw []byte) (vault.Msg, error) {
	var env Envelope
	if err := proto.Unmarshal(raw, &env); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "envelope: %s", err)
	}
	factory, ok := c.factories[env.Path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "message %q not registered", env.Path)
	}
	msg := factory()
	if err := proto.Unmarshal(env.Raw, msg); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "%s message: %s", env.Path, err)
	}
	return msg, nil
}

// EncodeMsg returns the envelope serialization of given message.
func EncodeMsg(msg vault.Msg) ([]byte, error) {
	raw, err := proto.Marshal(msg)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "%s message: %s", msg.Path(), err)
	}
	b, err := proto.Marshal(&Envelope{Path: msg.Path(), Raw: raw})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "envelope: %s", err)
	}
	return b, nil
}
