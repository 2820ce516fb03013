package nullproto

import (
	"errors"
	"reflect"
	"testing"

	"github.com/nullproto/nullproto/schema"
	"github.com/nullproto/nullproto/wire"
)

func prim(kind schema.PrimitiveKind) schema.FieldType {
	return schema.FieldType{Kind: schema.KindPrimitive, Primitive: kind}
}

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c := New()
	if err := c.Register(&schema.Struct{
		Name: "Profile",
		Fields: []*schema.Field{
			{Name: "name", Type: prim(schema.TypeString)},
			{Name: "age", Type: prim(schema.TypeInt32)},
			{Name: "nick", Nullable: true, Type: prim(schema.TypeString)},
		},
	}); err != nil {
		t.Fatal(err)
	}
	if err := c.RegisterEnum(&schema.Enum{
		Name: "Plan",
		Values: []*schema.EnumValue{
			{Name: "FREE"},
			{Name: "PRO"},
		},
	}); err != nil {
		t.Fatal(err)
	}
	return c
}

func TestCodec_MarshalParseRoundTrip(t *testing.T) {
	c := newTestCodec(t)

	in := map[string]interface{}{
		"name": "ada",
		"age":  int32(36),
	}
	encoded, err := c.Marshal(in, "Profile")
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	out, err := c.Parse(encoded, "Profile")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("round trip mismatch:\n got %#v\nwant %#v", out, in)
	}
	if _, present := out["nick"]; present {
		t.Error("absent nullable field should stay absent")
	}
}

func TestCodec_MarshalErrors(t *testing.T) {
	c := newTestCodec(t)

	if _, err := c.Marshal(nil, "Missing"); err == nil {
		t.Error("unknown type should fail")
	}
	_, err := c.Marshal(map[string]interface{}{}, "Plan")
	if !errors.Is(err, wire.ErrUnknownStructureKind) {
		t.Errorf("marshal of enum name: got %v", err)
	}
}

type profile struct {
	Name string `proto:"name"`
	Age  int32  `proto:"age"`
	Nick string `proto:"nick"`
}

func TestCodec_Unmarshal(t *testing.T) {
	c := New()
	if err := c.Register(&schema.Struct{
		Name: "profile",
		Fields: []*schema.Field{
			{Name: "name", Type: prim(schema.TypeString)},
			{Name: "age", Type: prim(schema.TypeInt32)},
			{Name: "nick", Nullable: true, Type: prim(schema.TypeString)},
		},
	}); err != nil {
		t.Fatal(err)
	}

	encoded, err := c.Marshal(map[string]interface{}{
		"name": "ada",
		"age":  int32(36),
	}, "profile")
	if err != nil {
		t.Fatal(err)
	}

	var p profile
	if err := c.Unmarshal(encoded, &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	want := profile{Name: "ada", Age: 36}
	if p != want {
		t.Errorf("got %+v, want %+v", p, want)
	}

	if err := c.Unmarshal(encoded, p); err == nil {
		t.Error("non-pointer target should fail")
	}
	var n int
	if err := c.Unmarshal(encoded, &n); err == nil {
		t.Error("pointer to non-struct should fail")
	}
}

func TestCodec_SetConfig(t *testing.T) {
	if err := Default().SetConfig(wire.Config{}); !errors.Is(err, wire.ErrUnsupportedOperation) {
		t.Errorf("shared codec reconfiguration: got %v", err)
	}

	c := newTestCodec(t)
	if err := c.SetConfig(wire.Config{PopulateDefaultsOnDecode: true}); err != nil {
		t.Fatalf("SetConfig failed: %v", err)
	}

	encoded, err := c.Marshal(map[string]interface{}{"name": "ada"}, "Profile")
	if err != nil {
		t.Fatal(err)
	}
	out, err := c.Parse(encoded, "Profile")
	if err != nil {
		t.Fatal(err)
	}
	if got := out["age"]; got != int32(0) {
		t.Errorf("age = %#v, want zero value", got)
	}
	if _, present := out["nick"]; present {
		t.Error("nullable field must stay absent even with defaults on")
	}
}

func TestCodec_Lists(t *testing.T) {
	c := newTestCodec(t)
	if got := c.ListStructs(); !reflect.DeepEqual(got, []string{"Profile"}) {
		t.Errorf("ListStructs = %v", got)
	}
	if got := c.ListEnums(); !reflect.DeepEqual(got, []string{"Plan"}) {
		t.Errorf("ListEnums = %v", got)
	}
	if c.Registry() == nil {
		t.Error("Registry should be exposed")
	}
}
