package timelock

import (
	"strconv"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
)

// Configuration is the wallet wide time lock configuration.
type Configuration struct {
	// Delay is the number of seconds that must elapse since the
	// confirmation time of a transaction before it can be executed.
	Delay uint64 `protobuf:"varint,1,opt,name=delay,proto3" json:"delay"`
}

func (m *Configuration) Reset()         { *m = Configuration{} }
func (m *Configuration) String() string { return proto.CompactTextString(m) }
func (*Configuration) ProtoMessage()    {}

// Confirmation is stored for each owner that confirmed a transaction.
type Confirmation struct {
	ConfirmedAt vault.UnixTime `protobuf:"varint,1,opt,name=confirmed_at,json=confirmedAt,proto3,casttype=github.com/iov-one/vault.UnixTime" json:"confirmed_at,omitempty"`
}

func (m *Confirmation) Reset()         { *m = Confirmation{} }
func (m *Confirmation) String() string { return proto.CompactTextString(m) }
func (*Confirmation) ProtoMessage()    {}

// ConfirmationTime is the moment the quorum was first reached for a
// transaction. It is set exactly once.
type ConfirmationTime struct {
	Time vault.UnixTime `protobuf:"varint,1,opt,name=time,proto3,casttype=github.com/iov-one/vault.UnixTime" json:"time,omitempty"`
}

func (m *ConfirmationTime) Reset()         { *m = ConfirmationTime{} }
func (m *ConfirmationTime) String() string { return proto.CompactTextString(m) }
func (*ConfirmationTime) ProtoMessage()    {}

type EventKind int32

const (
	EventInvalid             EventKind = 0
	EventSubmitted           EventKind = 1
	EventConfirmed           EventKind = 2
	EventConfirmationTimeSet EventKind = 3
	EventRevoked             EventKind = 4
	EventExecutionSucceeded  EventKind = 5
	EventExecutionFailed     EventKind = 6
	EventDelayChanged        EventKind = 7
)

var EventKind_name = map[int32]string{
	0: "EVENT_KIND_INVALID",
	1: "SUBMITTED",
	2: "CONFIRMED",
	3: "CONFIRMATION_TIME_SET",
	4: "REVOKED",
	5: "EXECUTION_SUCCEEDED",
	6: "EXECUTION_FAILED",
	7: "DELAY_CHANGED",
}

var EventKind_value = map[string]int32{
	"EVENT_KIND_INVALID":    0,
	"SUBMITTED":             1,
	"CONFIRMED":             2,
	"CONFIRMATION_TIME_SET": 3,
	"REVOKED":               4,
	"EXECUTION_SUCCEEDED":   5,
	"EXECUTION_FAILED":      6,
	"DELAY_CHANGED":         7,
}

func (x EventKind) String() string {
	if s, ok := EventKind_name[int32(x)]; ok {
		return s
	}
	return strconv.Itoa(int(x))
}

// Event is a single record of the audit log.
type Event struct {
	Kind          EventKind      `protobuf:"varint,1,opt,name=kind,proto3,enum=timelock.EventKind" json:"kind,omitempty"`
	TransactionID []byte         `protobuf:"bytes,2,opt,name=transaction_id,json=transactionId,proto3" json:"transaction_id,omitempty"`
	Approver      vault.Address  `protobuf:"bytes,3,opt,name=approver,proto3,casttype=github.com/iov-one/vault.Address" json:"approver,omitempty"`
	Time          vault.UnixTime `protobuf:"varint,4,opt,name=time,proto3,casttype=github.com/iov-one/vault.UnixTime" json:"time,omitempty"`
	Delay         uint64         `protobuf:"varint,5,opt,name=delay,proto3" json:"delay,omitempty"`
	Reason        string         `protobuf:"bytes,6,opt,name=reason,proto3" json:"reason,omitempty"`
}

func (m *Event) Reset()         { *m = Event{} }
func (m *Event) String() string { return proto.CompactTextString(m) }
func (*Event) ProtoMessage()    {}

// SubmitMsg proposes a new transaction. The submitter confirms it at the
// same time.
type SubmitMsg struct {
	Destination vault.Address `protobuf:"bytes,1,opt,name=destination,proto3,casttype=github.com/iov-one/vault.Address" json:"destination,omitempty"`
	Value       int64         `protobuf:"varint,2,opt,name=value,proto3" json:"value,omitempty"`
	Payload     []byte        `protobuf:"bytes,3,opt,name=payload,proto3" json:"payload,omitempty"`
}

func (m *SubmitMsg) Reset()         { *m = SubmitMsg{} }
func (m *SubmitMsg) String() string { return proto.CompactTextString(m) }
func (*SubmitMsg) ProtoMessage()    {}

// ConfirmMsg records the confirmation of the signer.
type ConfirmMsg struct {
	TransactionID []byte `protobuf:"bytes,1,opt,name=transaction_id,json=transactionId,proto3" json:"transaction_id,omitempty"`
}

func (m *ConfirmMsg) Reset()         { *m = ConfirmMsg{} }
func (m *ConfirmMsg) String() string { return proto.CompactTextString(m) }
func (*ConfirmMsg) ProtoMessage()    {}

// RevokeMsg removes the confirmation of the signer.
type RevokeMsg struct {
	TransactionID []byte `protobuf:"bytes,1,opt,name=transaction_id,json=transactionId,proto3" json:"transaction_id,omitempty"`
}

func (m *RevokeMsg) Reset()         { *m = RevokeMsg{} }
func (m *RevokeMsg) String() string { return proto.CompactTextString(m) }
func (*RevokeMsg) ProtoMessage()    {}

// ExecuteMsg attempts to execute an unlocked transaction.
type ExecuteMsg struct {
	TransactionID []byte `protobuf:"bytes,1,opt,name=transaction_id,json=transactionId,proto3" json:"transaction_id,omitempty"`
}

func (m *ExecuteMsg) Reset()         { *m = ExecuteMsg{} }
func (m *ExecuteMsg) String() string { return proto.CompactTextString(m) }
func (*ExecuteMsg) ProtoMessage()    {}

// ChangeDelayMsg sets a new time lock delay. It can only be executed by the
// vault itself.
type ChangeDelayMsg struct {
	Delay uint64 `protobuf:"varint,1,opt,name=delay,proto3" json:"delay,omitempty"`
}

func (m *ChangeDelayMsg) Reset()         { *m = ChangeDelayMsg{} }
func (m *ChangeDelayMsg) String() string { return proto.CompactTextString(m) }
func (*ChangeDelayMsg) ProtoMessage()    {}

func init() {
	proto.RegisterType((*Configuration)(nil), "timelock.Configuration")
	proto.RegisterType((*Confirmation)(nil), "timelock.Confirmation")
	proto.RegisterType((*ConfirmationTime)(nil), "timelock.ConfirmationTime")
	proto.RegisterEnum("timelock.EventKind", EventKind_name, EventKind_value)
	proto.RegisterType((*Event)(nil), "timelock.Event")
	proto.RegisterType((*SubmitMsg)(nil), "timelock.SubmitMsg")
	proto.RegisterType((*ConfirmMsg)(nil), "timelock.ConfirmMsg")
	proto.RegisterType((*RevokeMsg)(nil), "timelock.RevokeMsg")
	proto.RegisterType((*ExecuteMsg)(nil), "timelock.ExecuteMsg")
	proto.RegisterType((*ChangeDelayMsg)(nil), "timelock.ChangeDelayMsg")
}
