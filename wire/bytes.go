package wire

// EncodeBytes appends data as a length-delimited payload: varint length
// followed by the raw bytes.
func (e *Encoder) EncodeBytes(data []byte) {
	e.EncodeVarint(uint64(len(data)))
	e.buf = append(e.buf, data...)
}

// EncodeString appends s as length-delimited UTF-8 bytes.
func (e *Encoder) EncodeString(s string) {
	e.EncodeVarint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

// DecodeBytes reads a length-delimited payload. The returned slice is a copy
// and does not alias the input buffer.
func (d *Decoder) DecodeBytes() ([]byte, error) {
	length, err := d.DecodeVarint()
	if err != nil {
		return nil, err
	}

	if length > uint64(len(d.buf)-d.pos) {
		return nil, ErrTruncatedInput
	}

	data := make([]byte, length)
	copy(data, d.buf[d.pos:d.pos+int(length)])
	d.pos += int(length)
	return data, nil
}

// DecodeString reads a length-delimited payload as a string.
func (d *Decoder) DecodeString() (string, error) {
	length, err := d.DecodeVarint()
	if err != nil {
		return "", err
	}

	if length > uint64(len(d.buf)-d.pos) {
		return "", ErrTruncatedInput
	}

	s := string(d.buf[d.pos : d.pos+int(length)])
	d.pos += int(length)
	return s, nil
}

// SkipBytes advances past a length-delimited payload.
func (d *Decoder) SkipBytes() error {
	length, err := d.DecodeVarint()
	if err != nil {
		return err
	}

	if length > uint64(len(d.buf)-d.pos) {
		return ErrTruncatedInput
	}

	d.pos += int(length)
	return nil
}

// BytesSize returns the encoded size of a length-delimited payload.
func BytesSize(data []byte) int {
	return VarintSize(uint64(len(data))) + len(data)
}
