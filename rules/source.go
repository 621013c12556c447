package rules

import (
	proto "github.com/gogo/protobuf/proto"

	"github.com/taurushq-io/taurus-protect-sdk-sub004/errors"
)

// Wire discriminants of the cell source union.
const (
	sourceTypeInternalWallet      int32 = 1
	sourceTypeWhitelistedAddress  int32 = 2
	sourceTypeWhitelistedContract int32 = 3
)

// Source is the decoded content of a matrix cell. The union is closed:
// InternalWallet, WhitelistedAddress and WhitelistedContract are the only
// implementations.
type Source interface {
	proto.Message
	isSource()
}

func (*InternalWallet) isSource()      {}
func (*WhitelistedAddress) isSource()  {}
func (*WhitelistedContract) isSource() {}

// DecodeSource parses one serialized cell. The explicit type tag selects the
// payload message. An unknown tag or a garbled payload is an ErrDecode;
// within a matrix that means a dropped cell, never a failed container.
func DecodeSource(raw []byte) (Source, error) {
	var cell Cell
	if err := proto.Unmarshal(raw, &cell); err != nil {
		return nil, errors.Wrapf(errors.ErrDecode, "cell: %v", err)
	}

	var src Source
	switch cell.SourceType {
	case sourceTypeInternalWallet:
		src = &InternalWallet{}
	case sourceTypeWhitelistedAddress:
		src = &WhitelistedAddress{}
	case sourceTypeWhitelistedContract:
		src = &WhitelistedContract{}
	default:
		return nil, errors.ErrDecode.Newf("unknown source type %d", cell.SourceType)
	}
	if err := proto.Unmarshal(cell.Source, src); err != nil {
		return nil, errors.Wrapf(errors.ErrDecode, "source type %d: %v", cell.SourceType, err)
	}
	return src, nil
}

// EncodeSource serializes a source into the cell form DecodeSource reads.
func EncodeSource(src Source) ([]byte, error) {
	var typ int32
	switch src.(type) {
	case *InternalWallet:
		typ = sourceTypeInternalWallet
	case *WhitelistedAddress:
		typ = sourceTypeWhitelistedAddress
	case *WhitelistedContract:
		typ = sourceTypeWhitelistedContract
	default:
		return nil, errors.WithType(errors.Wrap(errors.ErrInput, "unknown source"), src)
	}
	payload, err := proto.Marshal(src)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "source payload: %v", err)
	}
	raw, err := proto.Marshal(&Cell{SourceType: typ, Source: payload})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cell: %v", err)
	}
	return raw, nil
}

// Sources decodes the line's cells. Cells that do not decode are skipped;
// the container decoder has already pruned and reported them.
func (m *Line) Sources() []Source {
	srcs := make([]Source, 0, len(m.Cells))
	for _, raw := range m.Cells {
		src, err := DecodeSource(raw)
		if err != nil {
			continue
		}
		srcs = append(srcs, src)
	}
	return srcs
}
