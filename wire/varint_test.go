package wire

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestVarint_RoundTrip(t *testing.T) {
	values := []uint64{
		0, 1, 127, 128, 300,
		math.MaxInt32,     // 2^31 - 1
		math.MaxUint32,    // 2^32 - 1
		math.MaxInt64,     // 2^63 - 1
		math.MaxUint64,
	}

	for _, v := range values {
		e := NewEncoder(nil)
		e.EncodeVarint(v)

		if got, want := len(e.Bytes()), VarintSize(v); got != want {
			t.Errorf("VarintSize(%d) = %d, encoded %d bytes", v, want, got)
		}

		d := NewDecoder(e.Bytes(), nil)
		decoded, err := d.DecodeVarint()
		if err != nil {
			t.Fatalf("DecodeVarint(%d) failed: %v", v, err)
		}
		if decoded != v {
			t.Errorf("round trip of %d got %d", v, decoded)
		}
		if d.pos != len(d.buf) {
			t.Errorf("decode of %d consumed %d of %d bytes", v, d.pos, len(d.buf))
		}
	}
}

func TestVarint_KnownBytes(t *testing.T) {
	e := NewEncoder(nil)
	e.EncodeVarint(300)
	if !bytes.Equal(e.Bytes(), []byte{0xAC, 0x02}) {
		t.Errorf("varint 300 = % x, want ac 02", e.Bytes())
	}

	e.Reset()
	e.EncodeVarint(math.MaxUint64)
	if len(e.Bytes()) != 10 {
		t.Errorf("varint max uint64 is %d bytes, want 10", len(e.Bytes()))
	}
}

func TestVarint_Malformed(t *testing.T) {
	// Continuation bits past the 10-byte limit with no terminator.
	data := bytes.Repeat([]byte{0xFF}, 11)
	d := NewDecoder(data, nil)
	if _, err := d.DecodeVarint(); !errors.Is(err, ErrMalformedVarint) {
		t.Errorf("got %v, want ErrMalformedVarint", err)
	}

	d = NewDecoder(data, nil)
	if err := d.SkipVarint(); !errors.Is(err, ErrMalformedVarint) {
		t.Errorf("skip got %v, want ErrMalformedVarint", err)
	}
}

func TestVarint_TenthByteOverflow(t *testing.T) {
	// Nine full bytes then 0x7F: terminated, but bits past position 63.
	overflow := append(bytes.Repeat([]byte{0xFF}, 9), 0x7F)
	d := NewDecoder(overflow, nil)
	if _, err := d.DecodeVarint(); !errors.Is(err, ErrMalformedVarint) {
		t.Errorf("got %v, want ErrMalformedVarint", err)
	}
	d = NewDecoder(overflow, nil)
	if err := d.SkipVarint(); !errors.Is(err, ErrMalformedVarint) {
		t.Errorf("skip got %v, want ErrMalformedVarint", err)
	}

	// The same nine bytes with 0x01 in the tenth slot is exactly max uint64.
	max := append(bytes.Repeat([]byte{0xFF}, 9), 0x01)
	d = NewDecoder(max, nil)
	v, err := d.DecodeVarint()
	if err != nil {
		t.Fatalf("DecodeVarint failed: %v", err)
	}
	if v != math.MaxUint64 {
		t.Errorf("got %d, want max uint64", v)
	}
}

func TestVarint_Truncated(t *testing.T) {
	d := NewDecoder([]byte{0x80, 0x80}, nil)
	if _, err := d.DecodeVarint(); !errors.Is(err, ErrTruncatedInput) {
		t.Errorf("got %v, want ErrTruncatedInput", err)
	}

	d = NewDecoder(nil, nil)
	if _, err := d.DecodeVarint(); !errors.Is(err, ErrTruncatedInput) {
		t.Errorf("empty buffer got %v, want ErrTruncatedInput", err)
	}
}

func TestZigZag_RoundTrip(t *testing.T) {
	for _, v := range []int32{0, -1, 1, math.MinInt32, math.MaxInt32} {
		if got := DecodeZigZag32(EncodeZigZag32(v)); got != v {
			t.Errorf("zigzag32 round trip of %d got %d", v, got)
		}
	}
	for _, v := range []int64{0, -1, 1, math.MinInt64, math.MaxInt64} {
		if got := DecodeZigZag64(EncodeZigZag64(v)); got != v {
			t.Errorf("zigzag64 round trip of %d got %d", v, got)
		}
	}
}

func TestZigZag_KnownValues(t *testing.T) {
	cases := []struct {
		in   int64
		want uint64
	}{
		{0, 0},
		{-1, 1},
		{1, 2},
		{-2, 3},
		{2, 4},
		{math.MinInt64, math.MaxUint64},
	}
	for _, c := range cases {
		if got := EncodeZigZag64(c.in); got != c.want {
			t.Errorf("EncodeZigZag64(%d) = %d, want %d", c.in, got, c.want)
		}
	}

	if got := EncodeZigZag32(-1); got != 1 {
		t.Errorf("EncodeZigZag32(-1) = %d, want 1", got)
	}
	if got := EncodeZigZag32(math.MinInt32); got != math.MaxUint32 {
		t.Errorf("EncodeZigZag32(MinInt32) = %d, want %d", got, uint64(math.MaxUint32))
	}
}
