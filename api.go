// Package nullproto is a Protocol-Buffers-compatible binary codec with
// null-omission: a declared field whose value is absent is skipped entirely
// on encode, and an absent tag reconstructs as null on decode, instead of
// round-tripping through a default value. Everything else on the wire is
// standard Protobuf encoding, readable by ordinary Protobuf parsers.
package nullproto

import (
	"fmt"
	"reflect"

	"github.com/nullproto/nullproto/registry"
	"github.com/nullproto/nullproto/schema"
	"github.com/nullproto/nullproto/wire"
)

// Codec owns a descriptor registry and a decode configuration. Encode and
// decode calls allocate their own buffers, so one Codec may be used from
// many goroutines concurrently.
type Codec struct {
	registry *registry.Registry
	config   wire.Config
	shared   bool
}

// New creates a codec with an empty registry and default configuration.
func New() *Codec {
	return &Codec{registry: registry.NewRegistry()}
}

var defaultCodec = &Codec{registry: registry.NewRegistry(), shared: true}

// Default returns the shared codec instance. Its configuration is immutable.
func Default() *Codec {
	return defaultCodec
}

// SetConfig replaces the codec's decode configuration. The shared default
// instance rejects reconfiguration with ErrUnsupportedOperation.
func (c *Codec) SetConfig(cfg wire.Config) error {
	if c.shared {
		return wire.ErrUnsupportedOperation
	}
	c.config = cfg
	return nil
}

// LoadSchema registers descriptors from a .proto file or directory tree.
func (c *Codec) LoadSchema(path string) error {
	return c.registry.LoadSchema(path)
}

// Register adds a hand-built structure descriptor.
func (c *Codec) Register(st *schema.Struct) error {
	return c.registry.Register(st)
}

// RegisterEnum adds a hand-built enum definition.
func (c *Codec) RegisterEnum(e *schema.Enum) error {
	return c.registry.RegisterEnum(e)
}

// Marshal encodes a value tree to wire bytes using the named structure
// descriptor. Top-level values must be structures; Protobuf has no framing
// for a bare scalar.
func (c *Codec) Marshal(data map[string]interface{}, typeName string) ([]byte, error) {
	st, err := c.registry.Struct(typeName)
	if err != nil {
		if _, enumErr := c.registry.Enum(typeName); enumErr == nil {
			return nil, fmt.Errorf("%w: %s is an enum", wire.ErrUnknownStructureKind, typeName)
		}
		return nil, fmt.Errorf("type not found: %s", typeName)
	}
	return wire.EncodeStruct(data, st, c.registry)
}

// Parse decodes wire bytes against the named structure descriptor. Fields
// whose tags are absent from the input are absent from the result.
func (c *Codec) Parse(data []byte, typeName string) (map[string]interface{}, error) {
	st, err := c.registry.Struct(typeName)
	if err != nil {
		return nil, fmt.Errorf("type not found: %s", typeName)
	}
	return wire.DecodeStruct(data, st, c.registry, c.config)
}

// Unmarshal decodes wire bytes into a struct pointer. The descriptor is
// looked up by the struct type's name; fields map by `proto` tag when
// present, else by Go field name.
func (c *Codec) Unmarshal(data []byte, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("unmarshal target must be a pointer to struct")
	}

	result, err := c.Parse(data, rv.Elem().Type().Name())
	if err != nil {
		return err
	}
	return mapToStruct(result, rv.Elem())
}

// Registry exposes the codec's descriptor registry.
func (c *Codec) Registry() *registry.Registry { return c.registry }

func (c *Codec) ListStructs() []string { return c.registry.ListStructs() }
func (c *Codec) ListEnums() []string   { return c.registry.ListEnums() }

func mapToStruct(data map[string]interface{}, rv reflect.Value) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		fieldValue := rv.Field(i)
		if !fieldValue.CanSet() {
			continue
		}

		name := field.Tag.Get("proto")
		if name == "" {
			name = field.Name
		}
		if value, ok := data[name]; ok {
			if err := setFieldValue(fieldValue, value); err != nil {
				return fmt.Errorf("failed to set field %s: %w", field.Name, err)
			}
		}
	}
	return nil
}

func setFieldValue(fieldValue reflect.Value, value interface{}) error {
	if value == nil {
		return nil
	}

	sourceValue := reflect.ValueOf(value)
	if sourceValue.Type().AssignableTo(fieldValue.Type()) {
		fieldValue.Set(sourceValue)
		return nil
	}
	if sourceValue.Type().ConvertibleTo(fieldValue.Type()) {
		fieldValue.Set(sourceValue.Convert(fieldValue.Type()))
		return nil
	}
	return fmt.Errorf("cannot convert %T to %s", value, fieldValue.Type())
}
