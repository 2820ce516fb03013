package wire

import (
	"fmt"
	"reflect"

	"github.com/nullproto/nullproto/schema"
)

// maxNestingDepth bounds recursion on both encode and decode so adversarial
// input or cyclic value trees cannot blow the stack.
const maxNestingDepth = 100

// encodeStruct walks the descriptor's fields in declaration order and emits
// one wire record per present field. A field whose value is nil or missing
// from the map contributes zero bytes: null-omission.
func (e *Encoder) encodeStruct(data map[string]interface{}, st *schema.Struct) error {
	if e.depth >= maxNestingDepth {
		return ErrNestingTooDeep
	}
	e.depth++
	defer func() { e.depth-- }()

	for i, f := range st.Fields {
		value, ok := data[f.Name]
		if !ok || value == nil {
			continue
		}
		num := FieldNumber(schema.ResolveFieldNumber(f, i))
		if err := e.encodeField(num, schema.ResolveMode(f), &f.Type, value); err != nil {
			return wrapWithField(err, f.Name)
		}
	}
	return nil
}

// encodeField dispatches one value node by its declared kind.
func (e *Encoder) encodeField(num FieldNumber, mode schema.Mode, ft *schema.FieldType, value interface{}) error {
	switch ft.Kind {
	case schema.KindPrimitive:
		return e.encodePrimitiveField(num, mode, ft.Primitive, value)
	case schema.KindStruct:
		return e.encodeStructField(num, ft.StructType, value)
	case schema.KindEnum:
		return e.encodeEnumField(num, ft.EnumType, value)
	case schema.KindList:
		return e.encodeListField(num, mode, ft.Element, value)
	case schema.KindMap:
		return e.encodeMapField(num, ft.MapKey, ft.MapValue, value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStructureKind, ft.Kind)
	}
}

// encodeStructField frames an embedded structure. The body is materialized
// into a scratch encoder first so its length is known before it is spliced
// into the parent as a single length-delimited record.
func (e *Encoder) encodeStructField(num FieldNumber, typeName string, value interface{}) error {
	// Pre-encoded message bytes splice straight through.
	if raw, ok := value.([]byte); ok {
		e.encodeTag(num, WireBytes)
		e.EncodeBytes(raw)
		return nil
	}

	data, ok := value.(map[string]interface{})
	if !ok {
		return fmt.Errorf("struct field expects map[string]interface{} or []byte, got %T", value)
	}
	if e.resolver == nil {
		return fmt.Errorf("no resolver available for struct type %s", typeName)
	}
	st, err := e.resolver.Struct(typeName)
	if err != nil {
		return err
	}

	scratch := &Encoder{resolver: e.resolver, depth: e.depth}
	if err := scratch.encodeStruct(data, st); err != nil {
		return err
	}
	e.encodeTag(num, WireBytes)
	e.EncodeBytes(scratch.buf)
	return nil
}

// encodeEnumField writes the value's resolved ordinal as a plain varint.
func (e *Encoder) encodeEnumField(num FieldNumber, typeName string, value interface{}) error {
	ordinal, err := e.resolveEnumOrdinal(typeName, value)
	if err != nil {
		return err
	}
	e.encodeTag(num, WireVarint)
	e.EncodeVarint(uint64(int64(ordinal)))
	return nil
}

func (e *Encoder) resolveEnumOrdinal(typeName string, value interface{}) (int32, error) {
	switch v := value.(type) {
	case string:
		if e.resolver == nil {
			return 0, fmt.Errorf("no resolver available for enum type %s", typeName)
		}
		enum, err := e.resolver.Enum(typeName)
		if err != nil {
			return 0, err
		}
		n, ok := enum.NumberOf(v)
		if !ok {
			return 0, fmt.Errorf("enum %s has no value %q", typeName, v)
		}
		return n, nil
	case int32:
		return v, nil
	case int:
		return int32(v), nil
	case int64:
		return int32(v), nil
	default:
		return 0, fmt.Errorf("enum field expects a value name or ordinal, got %T", value)
	}
}

// encodeListField emits the unpacked repeated form: every item is a complete
// wire record under the list's own tag.
func (e *Encoder) encodeListField(num FieldNumber, mode schema.Mode, elem *schema.FieldType, value interface{}) error {
	if elem == nil {
		return fmt.Errorf("list field is missing its element type")
	}
	if elem.Kind == schema.KindList || elem.Kind == schema.KindMap {
		return fmt.Errorf("%w: list of %s", ErrUnknownStructureKind, elem.Kind)
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("repeated field expects a slice, got %T", value)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := e.encodeField(num, mode, elem, rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}
