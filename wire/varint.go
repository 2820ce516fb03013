package wire

// maxVarintLen is the longest legal encoding of a 64-bit varint. A sequence
// still carrying a continuation bit at this length is corrupt.
const maxVarintLen = 10

// EncodeVarint appends v as a base-128 varint: little-endian 7-bit groups,
// continuation bit set on all but the last byte.
func (e *Encoder) EncodeVarint(v uint64) {
	for v >= 0x80 {
		e.buf = append(e.buf, byte(v)|0x80)
		v >>= 7
	}
	e.buf = append(e.buf, byte(v))
}

// DecodeVarint reads a varint from the current position. It fails with
// ErrTruncatedInput when the buffer ends mid-sequence and ErrMalformedVarint
// when 10 bytes are consumed without a terminating byte or the tenth byte
// carries bits past position 63.
func (d *Decoder) DecodeVarint() (uint64, error) {
	var result uint64
	var shift uint

	for i := 0; i < maxVarintLen; i++ {
		if d.pos >= len(d.buf) {
			return 0, ErrTruncatedInput
		}

		b := d.buf[d.pos]
		d.pos++

		if i == maxVarintLen-1 && b > 1 {
			// The tenth byte holds only bit 63; anything more overflows.
			return 0, ErrMalformedVarint
		}
		result |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}

	return 0, ErrMalformedVarint
}

// SkipVarint advances past a varint without materializing its value.
func (d *Decoder) SkipVarint() error {
	for i := 0; i < maxVarintLen; i++ {
		if d.pos >= len(d.buf) {
			return ErrTruncatedInput
		}
		b := d.buf[d.pos]
		d.pos++
		if i == maxVarintLen-1 && b > 1 {
			return ErrMalformedVarint
		}
		if b&0x80 == 0 {
			return nil
		}
	}
	return ErrMalformedVarint
}

// EncodeZigZag32 maps a signed 32-bit integer onto an unsigned value that
// keeps small magnitudes compact: (v << 1) xor (v >> 31), arithmetic shift.
func EncodeZigZag32(v int32) uint64 {
	return uint64((uint32(v) << 1) ^ uint32(v>>31))
}

// EncodeZigZag64 is the 64-bit zigzag transform.
func EncodeZigZag64(v int64) uint64 {
	return (uint64(v) << 1) ^ uint64(v>>63)
}

// DecodeZigZag32 inverts EncodeZigZag32.
func DecodeZigZag32(encoded uint64) int32 {
	return int32((uint32(encoded) >> 1) ^ uint32(-int32(encoded&1)))
}

// DecodeZigZag64 inverts EncodeZigZag64.
func DecodeZigZag64(encoded uint64) int64 {
	return int64((encoded >> 1) ^ uint64(-int64(encoded&1)))
}

// VarintSize returns the number of bytes EncodeVarint emits for v.
func VarintSize(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}
