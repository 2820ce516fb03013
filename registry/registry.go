package registry

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	protoparser "github.com/yoheimuta/go-protoparser/v4"
	protoparserparser "github.com/yoheimuta/go-protoparser/v4/parser"

	"github.com/nullproto/nullproto/schema"
)

// Registry stores structural descriptors keyed by fully-qualified name. The
// wire codec consults it read-only at every field boundary; it satisfies the
// wire.Resolver interface.
type Registry struct {
	structs map[string]*schema.Struct
	enums   map[string]*schema.Enum
}

func NewRegistry() *Registry {
	return &Registry{
		structs: make(map[string]*schema.Struct),
		enums:   make(map[string]*schema.Enum),
	}
}

// Register adds a structure descriptor under its name.
func (r *Registry) Register(st *schema.Struct) error {
	if st == nil || st.Name == "" {
		return fmt.Errorf("structure descriptor must have a name")
	}
	r.structs[st.Name] = st
	return nil
}

// RegisterEnum adds an enum definition under its name.
func (r *Registry) RegisterEnum(e *schema.Enum) error {
	if e == nil || e.Name == "" {
		return fmt.Errorf("enum definition must have a name")
	}
	r.enums[e.Name] = e
	return nil
}

// Struct retrieves a structure descriptor by name. A bare name matches a
// registered fully-qualified name by suffix.
func (r *Registry) Struct(name string) (*schema.Struct, error) {
	if st, ok := r.structs[name]; ok {
		return st, nil
	}
	for fullName, st := range r.structs {
		if strings.HasSuffix(fullName, "."+name) {
			return st, nil
		}
	}
	return nil, fmt.Errorf("struct not found: %s", name)
}

// Enum retrieves an enum definition by name.
func (r *Registry) Enum(name string) (*schema.Enum, error) {
	if e, ok := r.enums[name]; ok {
		return e, nil
	}
	for fullName, e := range r.enums {
		if strings.HasSuffix(fullName, "."+name) {
			return e, nil
		}
	}
	return nil, fmt.Errorf("enum not found: %s", name)
}

// ListStructs returns all registered structure names, sorted.
func (r *Registry) ListStructs() []string {
	names := make([]string, 0, len(r.structs))
	for name := range r.structs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListEnums returns all registered enum names, sorted.
func (r *Registry) ListEnums() []string {
	names := make([]string, 0, len(r.enums))
	for name := range r.enums {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadSchema registers descriptors from a .proto file or from every .proto
// file under a directory tree. Scalar type names carry the numeric encoding
// mode: sint* declares zigzag, fixed*/sfixed* declares fixed-width. The
// optional label marks a field nullable. Service definitions are ignored.
func (r *Registry) LoadSchema(protoPath string) error {
	info, err := os.Stat(protoPath)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}

	var files []string
	if !info.IsDir() {
		if !strings.HasSuffix(protoPath, ".proto") {
			return fmt.Errorf("file %s is not a .proto file", protoPath)
		}
		files = append(files, protoPath)
	} else {
		err = filepath.WalkDir(protoPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, ".proto") {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to walk directory: %w", err)
		}
	}

	parsed := make([]*protoFile, 0, len(files))
	for _, path := range files {
		pf, err := parseProtoFile(path)
		if err != nil {
			return fmt.Errorf("failed to load proto file %s: %w", path, err)
		}
		parsed = append(parsed, pf)
	}

	// Pass 1: register every enum so named field types can be classified.
	for _, pf := range parsed {
		pf.registerEnums(r)
	}
	// Pass 2: build structure descriptors.
	for _, pf := range parsed {
		if err := pf.registerStructs(r); err != nil {
			return fmt.Errorf("failed to load proto file: %w", err)
		}
	}
	return nil
}

// protoFile holds the parsed top-level entities of one .proto file. declared
// carries every message name the file will register, nested ones under their
// dotted names, so field types can resolve before pass 2 registers them.
type protoFile struct {
	pkg      string
	messages []*protoparserparser.Message
	enums    []*protoparserparser.Enum
	declared map[string]struct{}
}

func parseProtoFile(path string) (*protoFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer f.Close()

	body, err := protoparser.Parse(f)
	if err != nil {
		return nil, err
	}

	pf := &protoFile{}
	for _, item := range body.ProtoBody {
		switch b := item.(type) {
		case *protoparserparser.Package:
			pf.pkg = b.Name
		case *protoparserparser.Message:
			pf.messages = append(pf.messages, b)
		case *protoparserparser.Enum:
			pf.enums = append(pf.enums, b)
		}
	}
	pf.collectMessageNames()
	return pf, nil
}

func (pf *protoFile) collectMessageNames() {
	pf.declared = make(map[string]struct{})
	var walk func(prefix string, msg *protoparserparser.Message)
	walk = func(prefix string, msg *protoparserparser.Message) {
		pf.declared[qualify(pf.pkg, prefix)] = struct{}{}
		for _, item := range msg.MessageBody {
			if m, ok := item.(*protoparserparser.Message); ok {
				walk(prefix+"."+m.MessageName, m)
			}
		}
	}
	for _, msg := range pf.messages {
		walk(msg.MessageName, msg)
	}
}

func (pf *protoFile) registerEnums(r *Registry) {
	for _, en := range pf.enums {
		r.enums[qualify(pf.pkg, en.EnumName)] = convertEnum(en)
	}
	for _, msg := range pf.messages {
		registerNestedEnums(r, pf.pkg, msg.MessageName, msg)
	}
}

func registerNestedEnums(r *Registry, pkg, prefix string, msg *protoparserparser.Message) {
	for _, item := range msg.MessageBody {
		switch b := item.(type) {
		case *protoparserparser.Enum:
			r.enums[qualify(pkg, prefix+"."+b.EnumName)] = convertEnum(b)
		case *protoparserparser.Message:
			registerNestedEnums(r, pkg, prefix+"."+b.MessageName, b)
		}
	}
}

func convertEnum(en *protoparserparser.Enum) *schema.Enum {
	out := &schema.Enum{Name: en.EnumName}
	for _, item := range en.EnumBody {
		ef, ok := item.(*protoparserparser.EnumField)
		if !ok {
			continue
		}
		v := &schema.EnumValue{Name: ef.Ident}
		if n, err := strconv.ParseInt(ef.Number, 10, 32); err == nil {
			v.Number = int32(n)
			v.HasNumber = true
		}
		out.Values = append(out.Values, v)
	}
	return out
}

func (pf *protoFile) registerStructs(r *Registry) error {
	for _, msg := range pf.messages {
		if err := pf.convertMessage(r, msg.MessageName, msg); err != nil {
			return err
		}
	}
	return nil
}

func (pf *protoFile) convertMessage(r *Registry, prefix string, msg *protoparserparser.Message) error {
	st := &schema.Struct{Name: qualify(pf.pkg, prefix)}

	for _, item := range msg.MessageBody {
		switch b := item.(type) {
		case *protoparserparser.Field:
			f, err := pf.convertField(r, b)
			if err != nil {
				return fmt.Errorf("message %s: %w", prefix, err)
			}
			st.Fields = append(st.Fields, f)

		case *protoparserparser.MapField:
			f, err := pf.convertMapField(r, b)
			if err != nil {
				return fmt.Errorf("message %s: %w", prefix, err)
			}
			st.Fields = append(st.Fields, f)

		case *protoparserparser.Oneof:
			// Oneof members flatten to nullable fields; at most one of them
			// carries a value at a time.
			for _, of := range b.OneofFields {
				num, err := parseFieldNumber(of.FieldNumber)
				if err != nil {
					return fmt.Errorf("message %s field %s: %w", prefix, of.FieldName, err)
				}
				ft, mode := pf.fieldTypeFor(r, of.Type)
				st.Fields = append(st.Fields, &schema.Field{
					Name:     of.FieldName,
					Number:   num,
					Mode:     mode,
					Nullable: true,
					Type:     ft,
				})
			}

		case *protoparserparser.Message:
			if err := pf.convertMessage(r, prefix+"."+b.MessageName, b); err != nil {
				return err
			}
		}
	}

	return r.Register(st)
}

func (pf *protoFile) convertField(r *Registry, b *protoparserparser.Field) (*schema.Field, error) {
	num, err := parseFieldNumber(b.FieldNumber)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", b.FieldName, err)
	}

	ft, mode := pf.fieldTypeFor(r, b.Type)
	f := &schema.Field{
		Name:     b.FieldName,
		Number:   num,
		Mode:     mode,
		Nullable: b.IsOptional,
	}
	if b.IsRepeated {
		elem := ft
		f.Type = schema.FieldType{Kind: schema.KindList, Element: &elem}
	} else {
		f.Type = ft
	}
	return f, nil
}

func (pf *protoFile) convertMapField(r *Registry, b *protoparserparser.MapField) (*schema.Field, error) {
	num, err := parseFieldNumber(b.FieldNumber)
	if err != nil {
		return nil, fmt.Errorf("map field %s: %w", b.MapName, err)
	}

	keyType, _ := pf.fieldTypeFor(r, b.KeyType)
	valueType, _ := pf.fieldTypeFor(r, b.Type)
	return &schema.Field{
		Name:   b.MapName,
		Number: num,
		Type: schema.FieldType{
			Kind:     schema.KindMap,
			MapKey:   &keyType,
			MapValue: &valueType,
		},
	}, nil
}

// fieldTypeFor maps a proto type name to a descriptor field type plus the
// numeric encoding mode the scalar name implies.
func (pf *protoFile) fieldTypeFor(r *Registry, typeName string) (schema.FieldType, schema.Mode) {
	prim := func(kind schema.PrimitiveKind) schema.FieldType {
		return schema.FieldType{Kind: schema.KindPrimitive, Primitive: kind}
	}

	switch typeName {
	case "int32":
		return prim(schema.TypeInt32), schema.ModeDefault
	case "int64":
		return prim(schema.TypeInt64), schema.ModeDefault
	case "uint32":
		return prim(schema.TypeUint32), schema.ModeDefault
	case "uint64":
		return prim(schema.TypeUint64), schema.ModeDefault
	case "sint32":
		return prim(schema.TypeInt32), schema.ModeSigned
	case "sint64":
		return prim(schema.TypeInt64), schema.ModeSigned
	case "fixed32":
		return prim(schema.TypeUint32), schema.ModeFixed
	case "fixed64":
		return prim(schema.TypeUint64), schema.ModeFixed
	case "sfixed32":
		return prim(schema.TypeInt32), schema.ModeFixed
	case "sfixed64":
		return prim(schema.TypeInt64), schema.ModeFixed
	case "bool":
		return prim(schema.TypeBool), schema.ModeDefault
	case "string":
		return prim(schema.TypeString), schema.ModeDefault
	case "bytes":
		return prim(schema.TypeBytes), schema.ModeDefault
	case "float":
		return prim(schema.TypeFloat), schema.ModeDefault
	case "double":
		return prim(schema.TypeDouble), schema.ModeDefault
	}

	// A named type is an enum if pass 1 registered it as one, else a struct.
	resolved := pf.resolveNamed(r, typeName)
	if _, ok := r.enums[resolved]; ok {
		return schema.FieldType{Kind: schema.KindEnum, EnumType: resolved}, schema.ModeDefault
	}
	return schema.FieldType{Kind: schema.KindStruct, StructType: resolved}, schema.ModeDefault
}

func (pf *protoFile) resolveNamed(r *Registry, typeName string) string {
	name := strings.TrimPrefix(typeName, ".")
	for _, candidate := range []string{name, qualify(pf.pkg, name)} {
		if _, ok := r.enums[candidate]; ok {
			return candidate
		}
		if _, ok := r.structs[candidate]; ok {
			return candidate
		}
		if _, ok := pf.declared[candidate]; ok {
			return candidate
		}
	}
	// Nested types register under dotted names: enums in pass 1, this file's
	// messages in pass 2. Match both by suffix.
	for fullName := range r.enums {
		if strings.HasSuffix(fullName, "."+name) {
			return fullName
		}
	}
	for fullName := range pf.declared {
		if strings.HasSuffix(fullName, "."+name) {
			return fullName
		}
	}
	for fullName := range r.structs {
		if strings.HasSuffix(fullName, "."+name) {
			return fullName
		}
	}
	return qualify(pf.pkg, name)
}

func parseFieldNumber(raw string) (int32, error) {
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid field number %q: %w", raw, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("field number %d out of range", n)
	}
	return int32(n), nil
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}
