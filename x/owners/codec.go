package owners

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault"
)

// OwnerSet is the fixed set of approvers and the quorum threshold.
type OwnerSet struct {
	Owners []vault.Address `protobuf:"bytes,1,rep,name=owners,proto3,casttype=github.com/iov-one/vault.Address" json:"owners"`
	// Threshold is the minimal number of distinct owner confirmations
	// required for a transaction to pass.
	Threshold uint32 `protobuf:"varint,2,opt,name=threshold,proto3" json:"threshold"`
}

func (m *OwnerSet) Reset()         { *m = OwnerSet{} }
func (m *OwnerSet) String() string { return proto.CompactTextString(m) }
func (*OwnerSet) ProtoMessage()    {}

func (m *OwnerSet) GetOwners() []vault.Address {
	if m != nil {
		return m.Owners
	}
	return nil
}

func (m *OwnerSet) GetThreshold() uint32 {
	if m != nil {
		return m.Threshold
	}
	return 0
}

func init() {
	proto.RegisterType((*OwnerSet)(nil), "owners.OwnerSet")
}
