package wire

import (
	"fmt"

	"github.com/nullproto/nullproto/schema"
)

// Decoder reads wire-format input. Every decode call allocates its own
// decoder, so concurrent calls never share state.
type Decoder struct {
	buf      []byte
	pos      int
	resolver Resolver
	config   Config
	depth    int
}

// NewDecoder creates a decoder over data backed by the given descriptor
// resolver.
func NewDecoder(data []byte, r Resolver) *Decoder {
	return &Decoder{buf: data, resolver: r}
}

// DecodeStruct decodes wire bytes against a structure descriptor. A declared
// field whose tag never appears stays absent from the result map: that is how
// null round-trips. No partial result is returned on failure.
func DecodeStruct(data []byte, st *schema.Struct, r Resolver, cfg Config) (map[string]interface{}, error) {
	if st == nil {
		return nil, fmt.Errorf("%w: nil descriptor", ErrUnknownStructureKind)
	}
	d := &Decoder{buf: data, resolver: r, config: cfg}
	return d.decodeStruct(st)
}

func (d *Decoder) decodeStruct(st *schema.Struct) (map[string]interface{}, error) {
	if d.depth >= maxNestingDepth {
		return nil, ErrNestingTooDeep
	}
	d.depth++
	defer func() { d.depth-- }()

	result := make(map[string]interface{})
	lists := make(map[string][]interface{})
	maps := make(map[string]map[interface{}]interface{})

	for d.pos < len(d.buf) {
		header, err := d.DecodeVarint()
		if err != nil {
			return nil, err
		}
		num, wt := ParseTag(Tag(header))
		if !wt.Valid() {
			return nil, fmt.Errorf("%w: wire type %d", ErrUnexpectedWireType, wt)
		}

		field := findField(st, num)
		if field == nil {
			// Undeclared tag: skip by the wire type's size rule and move on.
			if err := d.skipField(wt); err != nil {
				return nil, err
			}
			continue
		}

		mode := schema.ResolveMode(field)
		switch field.Type.Kind {
		case schema.KindMap:
			key, value, err := d.decodeMapEntry(field.Type.MapKey, field.Type.MapValue, wt)
			if err != nil {
				return nil, wrapWithField(err, field.Name)
			}
			if maps[field.Name] == nil {
				maps[field.Name] = make(map[interface{}]interface{})
			}
			maps[field.Name][key] = value
		case schema.KindList:
			item, err := d.decodeFieldValue(mode, field.Type.Element, wt)
			if err != nil {
				return nil, wrapWithField(err, field.Name)
			}
			lists[field.Name] = append(lists[field.Name], item)
		default:
			value, err := d.decodeFieldValue(mode, &field.Type, wt)
			if err != nil {
				return nil, wrapWithField(err, field.Name)
			}
			result[field.Name] = value
		}
	}

	for name, m := range maps {
		result[name] = m
	}
	for name, l := range lists {
		result[name] = l
	}

	if d.config.PopulateDefaultsOnDecode {
		d.populateDefaults(result, st)
	}
	return result, nil
}

// findField resolves a wire field number back to its declared field.
func findField(st *schema.Struct, num FieldNumber) *schema.Field {
	for i, f := range st.Fields {
		if schema.ResolveFieldNumber(f, i) == int32(num) {
			return f
		}
	}
	return nil
}

// decodeFieldValue reads one value whose header has already been consumed.
func (d *Decoder) decodeFieldValue(mode schema.Mode, ft *schema.FieldType, wt WireType) (interface{}, error) {
	if ft == nil {
		return nil, fmt.Errorf("%w: field has no type", ErrUnknownStructureKind)
	}
	switch ft.Kind {
	case schema.KindPrimitive:
		return d.decodePrimitiveField(mode, ft.Primitive, wt)
	case schema.KindStruct:
		return d.decodeStructField(ft.StructType, wt)
	case schema.KindEnum:
		return d.decodeEnumField(ft.EnumType, wt)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStructureKind, ft.Kind)
	}
}

func (d *Decoder) decodeStructField(typeName string, wt WireType) (interface{}, error) {
	if wt != WireBytes {
		return nil, fmt.Errorf("%w: struct field expects wire type %d, got %d", ErrUnexpectedWireType, WireBytes, wt)
	}
	body, err := d.DecodeBytes()
	if err != nil {
		return nil, err
	}

	// Descriptor-less decoding surfaces the raw message bytes. A missing
	// descriptor under a live resolver is a schema error and fails the call.
	if d.resolver == nil {
		return body, nil
	}
	st, err := d.resolver.Struct(typeName)
	if err != nil {
		return nil, err
	}

	nested := &Decoder{buf: body, resolver: d.resolver, config: d.config, depth: d.depth}
	return nested.decodeStruct(st)
}

func (d *Decoder) decodeEnumField(typeName string, wt WireType) (interface{}, error) {
	if wt != WireVarint {
		return nil, fmt.Errorf("%w: enum field expects wire type %d, got %d", ErrUnexpectedWireType, WireVarint, wt)
	}
	u, err := d.DecodeVarint()
	if err != nil {
		return nil, err
	}
	ordinal := int32(u)

	if d.resolver != nil {
		if enum, err := d.resolver.Enum(typeName); err == nil {
			if name, ok := enum.NameOf(ordinal); ok {
				return name, nil
			}
			if !d.config.AllowUnknownEnumNumbers {
				return nil, fmt.Errorf("enum %s has no value with ordinal %d", typeName, ordinal)
			}
		}
	}
	return ordinal, nil
}

// skipField advances past an undeclared field by its wire type's size rule.
func (d *Decoder) skipField(wt WireType) error {
	switch wt {
	case WireVarint:
		return d.SkipVarint()
	case WireFixed64:
		if d.pos+8 > len(d.buf) {
			return ErrTruncatedInput
		}
		d.pos += 8
		return nil
	case WireBytes:
		return d.SkipBytes()
	case WireFixed32:
		if d.pos+4 > len(d.buf) {
			return ErrTruncatedInput
		}
		d.pos += 4
		return nil
	default:
		return fmt.Errorf("%w: wire type %d", ErrUnexpectedWireType, wt)
	}
}

// populateDefaults fills absent non-nullable scalar fields with their zero
// values, emulating plain Protobuf implicit defaults. Nullable fields keep
// the absent-means-null contract.
func (d *Decoder) populateDefaults(result map[string]interface{}, st *schema.Struct) {
	for _, f := range st.Fields {
		if f.Nullable {
			continue
		}
		if _, ok := result[f.Name]; ok {
			continue
		}
		switch f.Type.Kind {
		case schema.KindPrimitive:
			result[f.Name] = zeroPrimitive(f.Type.Primitive)
		case schema.KindEnum:
			if d.resolver == nil {
				continue
			}
			if enum, err := d.resolver.Enum(f.Type.EnumType); err == nil {
				if name, ok := enum.NameOf(0); ok {
					result[f.Name] = name
				}
			}
		}
	}
}

func zeroPrimitive(kind schema.PrimitiveKind) interface{} {
	switch kind {
	case schema.TypeInt32, schema.TypeChar:
		return int32(0)
	case schema.TypeInt64:
		return int64(0)
	case schema.TypeUint32:
		return uint32(0)
	case schema.TypeUint64:
		return uint64(0)
	case schema.TypeBool:
		return false
	case schema.TypeString:
		return ""
	case schema.TypeBytes:
		return []byte{}
	case schema.TypeFloat:
		return float32(0)
	case schema.TypeDouble:
		return float64(0)
	}
	return nil
}
