package wire

import (
	"fmt"

	"github.com/nullproto/nullproto/schema"
)

// primitiveWireType derives the wire type for a scalar from its kind and the
// declared numeric encoding mode. Strings and bytes are always
// length-delimited, floats always fixed-width, bools always varint; the mode
// only moves the remaining integral kinds between varint and fixed-width.
func primitiveWireType(mode schema.Mode, kind schema.PrimitiveKind) WireType {
	switch kind {
	case schema.TypeString, schema.TypeBytes:
		return WireBytes
	case schema.TypeFloat:
		return WireFixed32
	case schema.TypeDouble:
		return WireFixed64
	case schema.TypeBool:
		return WireVarint
	}
	if mode == schema.ModeFixed {
		if is32Bit(kind) {
			return WireFixed32
		}
		return WireFixed64
	}
	return WireVarint
}

func is32Bit(kind schema.PrimitiveKind) bool {
	switch kind {
	case schema.TypeInt32, schema.TypeUint32, schema.TypeChar:
		return true
	}
	return false
}

func isUnsigned(kind schema.PrimitiveKind) bool {
	return kind == schema.TypeUint32 || kind == schema.TypeUint64
}

// encodePrimitiveField writes one complete wire record for a scalar: the
// tag+type header followed by the payload.
func (e *Encoder) encodePrimitiveField(num FieldNumber, mode schema.Mode, kind schema.PrimitiveKind, value interface{}) error {
	wt := primitiveWireType(mode, kind)

	switch kind {
	case schema.TypeString:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("string field expects string, got %T", value)
		}
		e.encodeTag(num, wt)
		e.EncodeString(s)
		return nil

	case schema.TypeBytes:
		b, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("bytes field expects []byte, got %T", value)
		}
		e.encodeTag(num, wt)
		e.EncodeBytes(b)
		return nil

	case schema.TypeFloat:
		f, err := toFloat64(value)
		if err != nil {
			return err
		}
		e.encodeTag(num, wt)
		e.EncodeFloat32(float32(f))
		return nil

	case schema.TypeDouble:
		f, err := toFloat64(value)
		if err != nil {
			return err
		}
		e.encodeTag(num, wt)
		e.EncodeFloat64(f)
		return nil

	case schema.TypeBool:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("bool field expects bool, got %T", value)
		}
		e.encodeTag(num, wt)
		if b {
			e.EncodeVarint(1)
		} else {
			e.EncodeVarint(0)
		}
		return nil
	}

	// Integral kinds: int32, int64, uint32, uint64, char.
	if isUnsigned(kind) {
		u, err := toUint64(value)
		if err != nil {
			return err
		}
		e.encodeTag(num, wt)
		switch wt {
		case WireFixed32:
			e.EncodeFixed32(uint32(u))
		case WireFixed64:
			e.EncodeFixed64(u)
		default:
			e.EncodeVarint(u)
		}
		return nil
	}

	n, err := toInt64(value)
	if err != nil {
		return err
	}
	e.encodeTag(num, wt)
	switch {
	case wt == WireFixed32:
		e.EncodeFixed32(uint32(n))
	case wt == WireFixed64:
		e.EncodeFixed64(uint64(n))
	case mode == schema.ModeSigned && is32Bit(kind):
		e.EncodeVarint(EncodeZigZag32(int32(n)))
	case mode == schema.ModeSigned:
		e.EncodeVarint(EncodeZigZag64(n))
	default:
		// Negative values sign-extend to the full 10 bytes, as standard
		// Protobuf int32/int64 fields do.
		e.EncodeVarint(uint64(n))
	}
	return nil
}

// decodePrimitiveField reads one scalar payload. The header has already been
// consumed; wt is the wire type it carried, which must match the type the
// field's kind and mode imply.
func (d *Decoder) decodePrimitiveField(mode schema.Mode, kind schema.PrimitiveKind, wt WireType) (interface{}, error) {
	if expected := primitiveWireType(mode, kind); wt != expected {
		return nil, fmt.Errorf("%w: %s field expects wire type %d, got %d", ErrUnexpectedWireType, kind, expected, wt)
	}

	switch kind {
	case schema.TypeString:
		return d.DecodeString()
	case schema.TypeBytes:
		return d.DecodeBytes()
	case schema.TypeFloat:
		return d.DecodeFloat32()
	case schema.TypeDouble:
		return d.DecodeFloat64()
	case schema.TypeBool:
		u, err := d.DecodeVarint()
		if err != nil {
			return nil, err
		}
		return u != 0, nil
	}

	switch wt {
	case WireFixed32:
		u, err := d.DecodeFixed32()
		if err != nil {
			return nil, err
		}
		if isUnsigned(kind) {
			return u, nil
		}
		return int32(u), nil
	case WireFixed64:
		u, err := d.DecodeFixed64()
		if err != nil {
			return nil, err
		}
		if isUnsigned(kind) {
			return u, nil
		}
		return int64(u), nil
	}

	u, err := d.DecodeVarint()
	if err != nil {
		return nil, err
	}
	if mode == schema.ModeSigned {
		if is32Bit(kind) {
			return DecodeZigZag32(u), nil
		}
		return DecodeZigZag64(u), nil
	}
	switch kind {
	case schema.TypeInt32, schema.TypeChar:
		return int32(u), nil
	case schema.TypeInt64:
		return int64(u), nil
	case schema.TypeUint32:
		return uint32(u), nil
	default: // uint64
		return u, nil
	}
}

// toInt64 coerces the Go integer widths a caller may naturally hand in.
func toInt64(value interface{}) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	default:
		return 0, fmt.Errorf("integer field expects a signed integer, got %T", value)
	}
}

func toUint64(value interface{}) (uint64, error) {
	switch v := value.(type) {
	case uint:
		return uint64(v), nil
	case uint8:
		return uint64(v), nil
	case uint16:
		return uint64(v), nil
	case uint32:
		return uint64(v), nil
	case uint64:
		return v, nil
	case int:
		if v < 0 {
			return 0, fmt.Errorf("unsigned field cannot hold negative value %d", v)
		}
		return uint64(v), nil
	case int64:
		if v < 0 {
			return 0, fmt.Errorf("unsigned field cannot hold negative value %d", v)
		}
		return uint64(v), nil
	default:
		return 0, fmt.Errorf("unsigned field expects an unsigned integer, got %T", value)
	}
}

func toFloat64(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("floating field expects float32 or float64, got %T", value)
	}
}
