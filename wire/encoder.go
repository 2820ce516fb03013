package wire

import (
	"fmt"

	"github.com/nullproto/nullproto/schema"
)

// Encoder accumulates wire-format output. Every encode call allocates its
// own encoder, so concurrent calls never share state.
type Encoder struct {
	buf      []byte
	resolver Resolver
	depth    int
}

// NewEncoder creates an encoder backed by the given descriptor resolver.
func NewEncoder(r Resolver) *Encoder {
	return &Encoder{resolver: r}
}

// Bytes returns the accumulated output.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Reset clears the buffer for reuse.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// encodeTag appends the varint header for one field record.
func (e *Encoder) encodeTag(num FieldNumber, wt WireType) {
	e.EncodeVarint(uint64(MakeTag(num, wt)))
}

// EncodeStruct encodes a value tree against its structure descriptor and
// returns the wire bytes. The top-level structure writes its fields directly
// with no outer framing; only embedded structures are length-prefixed.
// Nothing is emitted when the encode fails.
func EncodeStruct(data map[string]interface{}, st *schema.Struct, r Resolver) ([]byte, error) {
	if st == nil {
		return nil, fmt.Errorf("%w: nil descriptor", ErrUnknownStructureKind)
	}
	e := NewEncoder(r)
	if err := e.encodeStruct(data, st); err != nil {
		return nil, err
	}
	return e.buf, nil
}
