package wire

import "github.com/nullproto/nullproto/schema"

// WireType identifies how a field's payload is laid out on the wire.
type WireType int32

const (
	WireVarint  WireType = 0 // integral values, bools, enum ordinals
	WireFixed64 WireType = 1 // 8-byte little-endian
	WireBytes   WireType = 2 // varint length + raw bytes
	WireFixed32 WireType = 5 // 4-byte little-endian
)

// FieldNumber is a wire field number. Valid numbers are >= 1.
type FieldNumber int32

// Tag packs a field number and wire type into the varint header value.
type Tag uint64

// MakeTag builds a tag from field number and wire type.
func MakeTag(fieldNumber FieldNumber, wireType WireType) Tag {
	return Tag(uint64(fieldNumber)<<3 | uint64(wireType))
}

// ParseTag splits a tag into field number and wire type.
func ParseTag(tag Tag) (FieldNumber, WireType) {
	return FieldNumber(tag >> 3), WireType(tag & 0x7)
}

// Valid reports whether the wire type is one this codec handles. The
// deprecated group types 3 and 4 are rejected.
func (wt WireType) Valid() bool {
	switch wt {
	case WireVarint, WireFixed64, WireBytes, WireFixed32:
		return true
	}
	return false
}

// Resolver provides read access to registered descriptors. The codec only
// reads descriptor metadata and never mutates it.
type Resolver interface {
	Struct(name string) (*schema.Struct, error)
	Enum(name string) (*schema.Enum, error)
}
