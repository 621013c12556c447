package rules

import (
	proto "github.com/gogo/protobuf/proto"
)

// The rules container travels as a protobuf encoded document. The message
// types below mirror the platform schema; field numbers are part of the wire
// contract and must never be renumbered.

// Container is the root document of the platform governance rules: the user
// directory, the approval groups and one rule matrix per guarded domain.
type Container struct {
	Users                     []*User           `protobuf:"bytes,1,rep,name=users,proto3" json:"users,omitempty"`
	Groups                    []*Group          `protobuf:"bytes,2,rep,name=groups,proto3" json:"groups,omitempty"`
	TransactionRules          *Matrix           `protobuf:"bytes,3,opt,name=transaction_rules,json=transactionRules,proto3" json:"transaction_rules,omitempty"`
	AddressWhitelistingRules  *Matrix           `protobuf:"bytes,4,opt,name=address_whitelisting_rules,json=addressWhitelistingRules,proto3" json:"address_whitelisting_rules,omitempty"`
	ContractWhitelistingRules *Matrix           `protobuf:"bytes,5,opt,name=contract_whitelisting_rules,json=contractWhitelistingRules,proto3" json:"contract_whitelisting_rules,omitempty"`
	EngineIdentities          []*EngineIdentity `protobuf:"bytes,6,rep,name=engine_identities,json=engineIdentities,proto3" json:"engine_identities,omitempty"`
}

func (m *Container) Reset()         { *m = Container{} }
func (m *Container) String() string { return proto.CompactTextString(m) }
func (*Container) ProtoMessage()    {}

// User is a platform operator. The public key is the PEM encoded
// SubjectPublicKeyInfo this user signs with.
type User struct {
	Id        string   `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	PublicKey []byte   `protobuf:"bytes,2,opt,name=public_key,json=publicKey,proto3" json:"public_key,omitempty"`
	Roles     []string `protobuf:"bytes,3,rep,name=roles,proto3" json:"roles,omitempty"`
}

func (m *User) Reset()         { *m = User{} }
func (m *User) String() string { return proto.CompactTextString(m) }
func (*User) ProtoMessage()    {}

// Group is a named set of users referenced by rule thresholds.
type Group struct {
	Id      string   `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	UserIds []string `protobuf:"bytes,2,rep,name=user_ids,json=userIds,proto3" json:"user_ids,omitempty"`
}

func (m *Group) Reset()         { *m = Group{} }
func (m *Group) String() string { return proto.CompactTextString(m) }
func (*Group) ProtoMessage()    {}

// Matrix is one rule table. Columns describe what each cell position means,
// every line is one rule with its approval requirements.
type Matrix struct {
	Columns []*Column `protobuf:"bytes,1,rep,name=columns,proto3" json:"columns,omitempty"`
	Lines   []*Line   `protobuf:"bytes,2,rep,name=lines,proto3" json:"lines,omitempty"`
}

func (m *Matrix) Reset()         { *m = Matrix{} }
func (m *Matrix) String() string { return proto.CompactTextString(m) }
func (*Matrix) ProtoMessage()    {}

// Column describes the meaning of a cell position within a matrix line.
type Column struct {
	Type string `protobuf:"bytes,1,opt,name=type,proto3" json:"type,omitempty"`
}

func (m *Column) Reset()         { *m = Column{} }
func (m *Column) String() string { return proto.CompactTextString(m) }
func (*Column) ProtoMessage()    {}

// Line is a single rule. Cells hold independently serialized Cell messages.
// ParallelThresholds are alternative approval tracks; satisfying any one
// sequence approves the rule.
type Line struct {
	Cells              [][]byte             `protobuf:"bytes,1,rep,name=cells,proto3" json:"cells,omitempty"`
	ParallelThresholds []*ThresholdSequence `protobuf:"bytes,2,rep,name=parallel_thresholds,json=parallelThresholds,proto3" json:"parallel_thresholds,omitempty"`
}

func (m *Line) Reset()         { *m = Line{} }
func (m *Line) String() string { return proto.CompactTextString(m) }
func (*Line) ProtoMessage()    {}

// ThresholdSequence is an ordered escalation of group approvals that must be
// satisfied one tier after another.
type ThresholdSequence struct {
	Thresholds []*GroupThreshold `protobuf:"bytes,1,rep,name=thresholds,proto3" json:"thresholds,omitempty"`
}

func (m *ThresholdSequence) Reset()         { *m = ThresholdSequence{} }
func (m *ThresholdSequence) String() string { return proto.CompactTextString(m) }
func (*ThresholdSequence) ProtoMessage()    {}

// GroupThreshold requires min_signatures distinct approvals from members of
// the referenced group.
type GroupThreshold struct {
	GroupId       string `protobuf:"bytes,1,opt,name=group_id,json=groupId,proto3" json:"group_id,omitempty"`
	MinSignatures int32  `protobuf:"varint,2,opt,name=min_signatures,json=minSignatures,proto3" json:"min_signatures,omitempty"`
}

func (m *GroupThreshold) Reset()         { *m = GroupThreshold{} }
func (m *GroupThreshold) String() string { return proto.CompactTextString(m) }
func (*GroupThreshold) ProtoMessage()    {}

// EngineIdentity is a platform engine key, PEM encoded like a user key.
type EngineIdentity struct {
	Id        string `protobuf:"bytes,1,opt,name=id,proto3" json:"id,omitempty"`
	PublicKey []byte `protobuf:"bytes,2,opt,name=public_key,json=publicKey,proto3" json:"public_key,omitempty"`
}

func (m *EngineIdentity) Reset()         { *m = EngineIdentity{} }
func (m *EngineIdentity) String() string { return proto.CompactTextString(m) }
func (*EngineIdentity) ProtoMessage()    {}

// Cell is the envelope of a single matrix cell: an explicit type tag and the
// serialized source message it selects.
type Cell struct {
	SourceType int32  `protobuf:"varint,1,opt,name=source_type,json=sourceType,proto3" json:"source_type,omitempty"`
	Source     []byte `protobuf:"bytes,2,opt,name=source,proto3" json:"source,omitempty"`
}

func (m *Cell) Reset()         { *m = Cell{} }
func (m *Cell) String() string { return proto.CompactTextString(m) }
func (*Cell) ProtoMessage()    {}

// InternalWallet points a rule at a wallet subtree by derivation path.
type InternalWallet struct {
	Path string `protobuf:"bytes,1,opt,name=path,proto3" json:"path,omitempty"`
}

func (m *InternalWallet) Reset()         { *m = InternalWallet{} }
func (m *InternalWallet) String() string { return proto.CompactTextString(m) }
func (*InternalWallet) ProtoMessage()    {}

// WhitelistedAddress points a rule at a whitelisted address entry.
type WhitelistedAddress struct {
	Id uint64 `protobuf:"varint,1,opt,name=id,proto3" json:"id,omitempty"`
}

func (m *WhitelistedAddress) Reset()         { *m = WhitelistedAddress{} }
func (m *WhitelistedAddress) String() string { return proto.CompactTextString(m) }
func (*WhitelistedAddress) ProtoMessage()    {}

// WhitelistedContract points a rule at a whitelisted smart contract entry.
type WhitelistedContract struct {
	Id uint64 `protobuf:"varint,1,opt,name=id,proto3" json:"id,omitempty"`
}

func (m *WhitelistedContract) Reset()         { *m = WhitelistedContract{} }
func (m *WhitelistedContract) String() string { return proto.CompactTextString(m) }
func (*WhitelistedContract) ProtoMessage()    {}

// UserSignatures is the wire form of a detached signature list.
type UserSignatures struct {
	Signatures []*UserSignature `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`
}

func (m *UserSignatures) Reset()         { *m = UserSignatures{} }
func (m *UserSignatures) String() string { return proto.CompactTextString(m) }
func (*UserSignatures) ProtoMessage()    {}

// UserSignature carries one user's signature, base64 encoded.
type UserSignature struct {
	UserId    string `protobuf:"bytes,1,opt,name=user_id,json=userId,proto3" json:"user_id,omitempty"`
	Signature string `protobuf:"bytes,2,opt,name=signature,proto3" json:"signature,omitempty"`
}

func (m *UserSignature) Reset()         { *m = UserSignature{} }
func (m *UserSignature) String() string { return proto.CompactTextString(m) }
func (*UserSignature) ProtoMessage()    {}
