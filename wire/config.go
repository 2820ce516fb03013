package wire

// Config controls optional decode behavior. The facade fixes a codec's
// config before the instance is shared; the codec itself never mutates it.
type Config struct {
	// PopulateDefaultsOnDecode fills absent non-nullable primitive and enum
	// fields with their zero values, matching plain Protobuf
	// implicit-default semantics. Off by default: an absent tag stays
	// absent, which is how null round-trips.
	PopulateDefaultsOnDecode bool

	// AllowUnknownEnumNumbers surfaces enum ordinals missing from the enum
	// definition as their numeric value instead of failing the decode.
	AllowUnknownEnumNumbers bool
}
