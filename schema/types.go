package schema

// Kind classifies a descriptor node.
type Kind string

const (
	KindPrimitive Kind = "primitive"
	KindStruct    Kind = "struct"
	KindList      Kind = "list"
	KindMap       Kind = "map"
	KindEnum      Kind = "enum"
)

// Mode is the numeric encoding mode declared on a field. It selects how
// integral payloads go on the wire: plain varint, zigzag varint, or
// fixed-width little-endian. Floating, string and bytes fields ignore it.
type Mode string

const (
	ModeDefault Mode = "default"
	ModeSigned  Mode = "signed"
	ModeFixed   Mode = "fixed"
)

// PrimitiveKind identifies a scalar value kind.
type PrimitiveKind string

const (
	TypeInt32  PrimitiveKind = "int32"
	TypeInt64  PrimitiveKind = "int64"
	TypeUint32 PrimitiveKind = "uint32"
	TypeUint64 PrimitiveKind = "uint64"
	TypeBool   PrimitiveKind = "bool"
	TypeChar   PrimitiveKind = "char"
	TypeString PrimitiveKind = "string"
	TypeBytes  PrimitiveKind = "bytes"
	TypeFloat  PrimitiveKind = "float"
	TypeDouble PrimitiveKind = "double"
)

// Struct describes one structure: an ordered field list. Field order is the
// declaration order and is the order fields are encoded in.
type Struct struct {
	Name   string   `json:"name"`
	Fields []*Field `json:"fields"`
}

// Field describes one declared field of a structure.
type Field struct {
	Name     string    `json:"name"`
	Number   int32     `json:"number"`   // explicit field number; 0 means positional
	Mode     Mode      `json:"mode"`     // numeric encoding mode; "" means default
	Nullable bool      `json:"nullable"` // declared nullable (absent value is legal)
	Type     FieldType `json:"type"`
}

// FieldType carries the kind of a field plus kind-specific detail.
type FieldType struct {
	Kind       Kind          `json:"kind"`
	Primitive  PrimitiveKind `json:"primitive,omitempty"`
	StructType string        `json:"struct_type,omitempty"` // for struct fields
	EnumType   string        `json:"enum_type,omitempty"`   // for enum fields
	Element    *FieldType    `json:"element,omitempty"`     // for list fields
	MapKey     *FieldType    `json:"map_key,omitempty"`     // for map fields
	MapValue   *FieldType    `json:"map_value,omitempty"`   // for map fields
}

// Enum describes an enum definition.
type Enum struct {
	Name   string       `json:"name"`
	Values []*EnumValue `json:"values"`
}

// EnumValue describes one enum member. HasNumber distinguishes an explicit
// ordinal of 0 from an unset one.
type EnumValue struct {
	Name      string `json:"name"`
	Number    int32  `json:"number"`
	HasNumber bool   `json:"has_number"`
}

// ResolveFieldNumber derives the wire field number for the field at the given
// zero-based declaration index: the explicit number if declared, else index+1.
func ResolveFieldNumber(f *Field, index int) int32 {
	if f.Number > 0 {
		return f.Number
	}
	return int32(index) + 1
}

// ResolveMode returns the field's numeric encoding mode, defaulting to
// ModeDefault when none is declared.
func ResolveMode(f *Field) Mode {
	if f.Mode == "" {
		return ModeDefault
	}
	return f.Mode
}

// ResolveEnumNumber derives the ordinal for the enum value at the given
// zero-based index: the explicit number if declared, else the index itself.
// Enum ordinals start at 0, unlike struct field numbers.
func ResolveEnumNumber(v *EnumValue, index int) int32 {
	if v.HasNumber {
		return v.Number
	}
	return int32(index)
}

// NumberOf returns the resolved ordinal for a value name.
func (e *Enum) NumberOf(name string) (int32, bool) {
	for i, v := range e.Values {
		if v.Name == name {
			return ResolveEnumNumber(v, i), true
		}
	}
	return 0, false
}

// NameOf returns the value name for a resolved ordinal.
func (e *Enum) NameOf(number int32) (string, bool) {
	for i, v := range e.Values {
		if ResolveEnumNumber(v, i) == number {
			return v.Name, true
		}
	}
	return "", false
}
