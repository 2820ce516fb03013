package wire

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/nullproto/nullproto/schema"
)

// Map entries are two-field sub-messages: key under 1, value under 2. On the
// wire a map field is indistinguishable from a repeated {key, value} message.
const (
	mapKeyNumber   FieldNumber = 1
	mapValueNumber FieldNumber = 2
)

// encodeMapField emits one length-delimited record per pair under the map's
// tag. Keys are sorted so the output is deterministic across runs.
func (e *Encoder) encodeMapField(num FieldNumber, keyType, valueType *schema.FieldType, value interface{}) error {
	if keyType == nil || valueType == nil {
		return fmt.Errorf("map field is missing key or value type")
	}
	if !validMapKey(keyType) {
		return fmt.Errorf("%w: map key of kind %s", ErrUnknownStructureKind, mapKeyKind(keyType))
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map {
		return fmt.Errorf("map field expects a map, got %T", value)
	}

	keys := rv.MapKeys()
	sortMapKeys(keys)
	for _, k := range keys {
		if err := e.encodeMapEntry(num, keyType, valueType, k.Interface(), rv.MapIndex(k).Interface()); err != nil {
			return err
		}
	}
	return nil
}

// encodeMapEntry frames one pair exactly like a repeated item: a synthetic
// {1: key, 2: value} structure buffered and spliced in length-delimited.
func (e *Encoder) encodeMapEntry(num FieldNumber, keyType, valueType *schema.FieldType, key, value interface{}) error {
	entry := &Encoder{resolver: e.resolver, depth: e.depth}
	if err := entry.encodeField(mapKeyNumber, schema.ModeDefault, keyType, key); err != nil {
		return wrapWithField(err, "key")
	}
	if value != nil {
		if err := entry.encodeField(mapValueNumber, schema.ModeDefault, valueType, value); err != nil {
			return wrapWithField(err, "value")
		}
	}
	e.encodeTag(num, WireBytes)
	e.EncodeBytes(entry.buf)
	return nil
}

// decodeMapEntry reads one length-delimited {1: key, 2: value} record. An
// absent key or value stays nil, mirroring the null-omission contract.
func (d *Decoder) decodeMapEntry(keyType, valueType *schema.FieldType, wt WireType) (interface{}, interface{}, error) {
	if wt != WireBytes {
		return nil, nil, fmt.Errorf("%w: map entry expects wire type %d, got %d", ErrUnexpectedWireType, WireBytes, wt)
	}
	if keyType == nil || !validMapKey(keyType) {
		return nil, nil, fmt.Errorf("%w: map key of kind %s", ErrUnknownStructureKind, mapKeyKind(keyType))
	}
	if d.depth >= maxNestingDepth {
		return nil, nil, ErrNestingTooDeep
	}

	body, err := d.DecodeBytes()
	if err != nil {
		return nil, nil, err
	}

	entry := &Decoder{buf: body, resolver: d.resolver, config: d.config, depth: d.depth + 1}
	var key, value interface{}
	for entry.pos < len(entry.buf) {
		header, err := entry.DecodeVarint()
		if err != nil {
			return nil, nil, err
		}
		num, fieldWT := ParseTag(Tag(header))

		switch num {
		case mapKeyNumber:
			key, err = entry.decodeFieldValue(schema.ModeDefault, keyType, fieldWT)
		case mapValueNumber:
			value, err = entry.decodeFieldValue(schema.ModeDefault, valueType, fieldWT)
		default:
			err = entry.skipField(fieldWT)
		}
		if err != nil {
			return nil, nil, err
		}
	}
	return key, value, nil
}

// validMapKey reports whether a kind can key a decoded map. Integral, bool
// and string kinds qualify, the same set standard Protobuf allows; bytes and
// floating kinds are rejected rather than risking an unhashable result key.
func validMapKey(ft *schema.FieldType) bool {
	if ft.Kind != schema.KindPrimitive {
		return false
	}
	switch ft.Primitive {
	case schema.TypeBytes, schema.TypeFloat, schema.TypeDouble:
		return false
	}
	return true
}

func mapKeyKind(ft *schema.FieldType) string {
	if ft == nil {
		return "<nil>"
	}
	if ft.Kind == schema.KindPrimitive {
		return string(ft.Primitive)
	}
	return string(ft.Kind)
}

func sortMapKeys(keys []reflect.Value) {
	if len(keys) < 2 {
		return
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Kind() == reflect.Interface {
			a = a.Elem()
		}
		if b.Kind() == reflect.Interface {
			b = b.Elem()
		}
		switch a.Kind() {
		case reflect.String:
			return a.String() < b.String()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return a.Int() < b.Int()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return a.Uint() < b.Uint()
		case reflect.Bool:
			return !a.Bool() && b.Bool()
		}
		return false
	})
}
