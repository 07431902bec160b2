package registry

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
)

// Transaction is a proposed transfer of value, optionally carrying a payload.
type Transaction struct {
	Destination vault.Address `protobuf:"bytes,1,opt,name=destination,proto3,casttype=github.com/iov-one/vault.Address" json:"destination,omitempty"`
	Value       int64         `protobuf:"varint,2,opt,name=value,proto3" json:"value,omitempty"`
	Payload     []byte        `protobuf:"bytes,3,opt,name=payload,proto3" json:"payload,omitempty"`
	Executed    bool          `protobuf:"varint,4,opt,name=executed,proto3" json:"executed,omitempty"`
	// Submitter is the owner that proposed this transaction.
	Submitter   vault.Address  `protobuf:"bytes,5,opt,name=submitter,proto3,casttype=github.com/iov-one/vault.Address" json:"submitter,omitempty"`
	SubmittedAt vault.UnixTime `protobuf:"varint,6,opt,name=submitted_at,json=submittedAt,proto3,casttype=github.com/iov-one/vault.UnixTime" json:"submitted_at,omitempty"`
}

func (m *Transaction) Reset()         { *m = Transaction{} }
func (m *Transaction) String() string { return proto.CompactTextString(m) }
func (*Transaction) ProtoMessage()    {}

func (m *Transaction) GetDestination() vault.Address {
	if m != nil {
		return m.Destination
	}
	return nil
}

func (m *Transaction) GetValue() int64 {
	if m != nil {
		return m.Value
	}
	return 0
}

func (m *Transaction) GetPayload() []byte {
	if m != nil {
		return m.Payload
	}
	return nil
}

func (m *Transaction) GetExecuted() bool {
	if m != nil {
		return m.Executed
	}
	return false
}

func init() {
	proto.RegisterType((*Transaction)(nil), "registry.Transaction")
}
