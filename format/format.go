// Package format is the single source of truth for the MessagePack tag
// space: the 1-byte format tags, the bit masks used to recognize the
// in-tag fixed-payload families (positive fixint, negative fixint, fixstr,
// fixarray), and the family-membership predicates both msgpack.Encoder and
// msgpack.Decoder dispatch against. Changing a tag here changes the wire
// format in both directions simultaneously.
package format

// Tag is a single MessagePack format byte.
type Tag byte

// Fixed single-byte tags. Multi-byte families (positive/negative fixint,
// fixstr, fixarray) pack their payload into the tag's low bits instead and
// are recognized through the mask constants below, not through a Tag value.
const (
	Nil     Tag = 0xc0
	False   Tag = 0xc2
	True    Tag = 0xc3
	Float32 Tag = 0xca
	Float64 Tag = 0xcb
	Uint8   Tag = 0xcc
	Uint16  Tag = 0xcd
	Uint32  Tag = 0xce
	Uint64  Tag = 0xcf
	Int8    Tag = 0xd0
	Int16   Tag = 0xd1
	Int32   Tag = 0xd2
	Int64   Tag = 0xd3
	Str8    Tag = 0xd9
	Str16   Tag = 0xda
	Str32   Tag = 0xdb
	Array16 Tag = 0xdc
	Array32 Tag = 0xdd

	// Reserved tags. The table carries them so a decoder can name what it
	// rejected, but this codec never emits them and never accepts them as a
	// match for any destination family: nil, extension types, map types, and
	// BIN* are out of scope (see spec Non-goals).
	Bin8     Tag = 0xc4
	Bin16    Tag = 0xc5
	Bin32    Tag = 0xc6
	Ext8     Tag = 0xc7
	Ext16    Tag = 0xc8
	Ext32    Tag = 0xc9
	FixExt1  Tag = 0xd4
	FixExt2  Tag = 0xd5
	FixExt4  Tag = 0xd6
	FixExt8  Tag = 0xd7
	FixExt16 Tag = 0xd8
	Map16    Tag = 0xde
	Map32    Tag = 0xdf
)

// Bit masks and prefixes for the in-tag fixed-payload families.
const (
	// PosFixintMask: a tag is a positive fixint iff tag&PosFixintMask == 0.
	PosFixintMask byte = 0x80

	// FixMapMask/FixMapPrefix: 1000xxxx, reserved and unimplemented.
	FixMapMask   byte = 0xf0
	FixMapPrefix byte = 0x80

	// FixArrayMask/FixArrayPrefix: 1001xxxx, count in the low 4 bits.
	FixArrayMask   byte = 0xf0
	FixArrayPrefix byte = 0x90

	// FixStrMask/FixStrPrefix: 101xxxxx, length in the low 5 bits.
	FixStrMask   byte = 0xe0
	FixStrPrefix byte = 0xa0

	// NegFixintMin is the smallest value a negative fixint byte can encode.
	NegFixintMin int8 = -32
)

// IsPositiveFixint reports whether t encodes a positive fixint (0x00-0x7f).
func IsPositiveFixint(t byte) bool { return t&PosFixintMask == 0 }

// PositiveFixintValue extracts the 7-bit value packed into a positive fixint tag.
func PositiveFixintValue(t byte) uint8 { return t & 0x7f }

// IsNegativeFixint reports whether t encodes a negative fixint (0xe0-0xff).
//
// The test requires the tag's top three bits to be 111 *and* the tag not be
// one of the named multi-byte format tags occupying 0xc0..0xdf. Every tag
// whose top three bits are 111 is already 0xe0 or above, so the second part
// never rejects a tag the mask accepted; it spells out the exclusion, and
// the result is exactly 0xe0..0xff.
func IsNegativeFixint(t byte) bool {
	if t&0xe0 != 0xe0 {
		return false
	}

	return t < 0xc0 || t > 0xdf
}

// NegativeFixintValue reinterprets a negative fixint tag as its signed value.
func NegativeFixintValue(t byte) int8 { return int8(t) }

// IsFixStr reports whether t encodes a fixstr tag (0xa0-0xbf).
func IsFixStr(t byte) bool { return t&FixStrMask == FixStrPrefix }

// FixStrLen extracts the length packed into a fixstr tag's low 5 bits.
func FixStrLen(t byte) int { return int(t & 0x1f) }

// IsFixArray reports whether t encodes a fixarray tag (0x90-0x9f).
func IsFixArray(t byte) bool { return t&FixArrayMask == FixArrayPrefix }

// FixArrayLen extracts the count packed into a fixarray tag's low 4 bits.
func FixArrayLen(t byte) int { return int(t & 0x0f) }

// InBoolFamily reports whether t is one of the bool family's two tags.
func InBoolFamily(t byte) bool {
	return t == byte(False) || t == byte(True)
}

// InUnsignedFamily reports whether t belongs to the unsigned-integer family:
// positive fixint, uint8, uint16, uint32, uint64.
func InUnsignedFamily(t byte) bool {
	if IsPositiveFixint(t) {
		return true
	}

	switch Tag(t) {
	case Uint8, Uint16, Uint32, Uint64:
		return true
	default:
		return false
	}
}

// InSignedFamily reports whether t belongs to the signed-integer family:
// positive fixint, negative fixint, int8, int16, int32, int64.
func InSignedFamily(t byte) bool {
	if IsPositiveFixint(t) || IsNegativeFixint(t) {
		return true
	}

	switch Tag(t) {
	case Int8, Int16, Int32, Int64:
		return true
	default:
		return false
	}
}

// InFloatFamily reports whether t belongs to the floating-point family:
// float32, float64.
func InFloatFamily(t byte) bool {
	return Tag(t) == Float32 || Tag(t) == Float64
}

// InStringFamily reports whether t belongs to the string family:
// fixstr, str8, str16, str32.
func InStringFamily(t byte) bool {
	if IsFixStr(t) {
		return true
	}

	switch Tag(t) {
	case Str8, Str16, Str32:
		return true
	default:
		return false
	}
}

// InArrayFamily reports whether t belongs to the array family:
// fixarray, array16, array32.
func InArrayFamily(t byte) bool {
	if IsFixArray(t) {
		return true
	}

	switch Tag(t) {
	case Array16, Array32:
		return true
	default:
		return false
	}
}
