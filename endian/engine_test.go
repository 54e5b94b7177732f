package endian

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestCheckEndianness(t *testing.T) {
	require := require.New(t)

	result := CheckEndianness()

	// Verify the result matches the actual system endianness
	var testValue uint16 = 0x0102
	testBytes := (*[2]byte)(unsafe.Pointer(&testValue))

	switch testBytes[0] {
	case 0x01:
		// Big-endian system
		require.Equal(binary.BigEndian, result, "CheckEndianness() should return BigEndian")
	case 0x02:
		// Little-endian system
		require.Equal(binary.LittleEndian, result, "CheckEndianness() should return LittleEndian")
	default:
		require.Failf("Unexpected byte value", "got: %v", testBytes[0])
	}
}

func TestCheckEndiannessConsistency(t *testing.T) {
	// Run multiple times to ensure consistency
	first := CheckEndianness()
	for i := range 100 {
		result := CheckEndianness()
		if result != first {
			t.Errorf("CheckEndianness() returned inconsistent results: first=%v, iteration %d=%v", first, i, result)
		}
	}
}

func TestIsNativeLittleEndian(t *testing.T) {
	result := IsNativeLittleEndian()
	expected := CheckEndianness() == binary.LittleEndian
	require.Equal(t, expected, result)
}

func TestIsNativeBigEndian(t *testing.T) {
	result := IsNativeBigEndian()
	expected := CheckEndianness() == binary.BigEndian
	require.Equal(t, expected, result)
}

func TestIsNativeEndiannessInverse(t *testing.T) {
	littleEndian := IsNativeLittleEndian()
	bigEndian := IsNativeBigEndian()

	require.NotEqual(t, littleEndian, bigEndian, "IsNativeLittleEndian and IsNativeBigEndian should return opposite values")
	require.True(t, littleEndian || bigEndian, "At least one endianness check should be true")
}

// TestToBigEndianRoundTrip verifies that laying the converted value out in
// host order and reading it back through the standard library's explicit
// BigEndian codec recovers the original value, which is true regardless of
// host order.
func TestToBigEndianRoundTrip(t *testing.T) {
	var v16 uint16 = 0x0102
	buf16 := make([]byte, 2)
	binary.NativeEndian.PutUint16(buf16, ToBigEndian16(v16))
	require.Equal(t, v16, binary.BigEndian.Uint16(buf16))

	var v32 uint32 = 0x01020304
	buf32 := make([]byte, 4)
	binary.NativeEndian.PutUint32(buf32, ToBigEndian32(v32))
	require.Equal(t, v32, binary.BigEndian.Uint32(buf32))

	var v64 uint64 = 0x0102030405060708
	buf64 := make([]byte, 8)
	binary.NativeEndian.PutUint64(buf64, ToBigEndian64(v64))
	require.Equal(t, v64, binary.BigEndian.Uint64(buf64))
}

func TestToLittleEndianRoundTrip(t *testing.T) {
	var v16 uint16 = 0x0102
	buf16 := make([]byte, 2)
	binary.NativeEndian.PutUint16(buf16, ToLittleEndian16(v16))
	require.Equal(t, v16, binary.LittleEndian.Uint16(buf16))

	var v32 uint32 = 0x01020304
	buf32 := make([]byte, 4)
	binary.NativeEndian.PutUint32(buf32, ToLittleEndian32(v32))
	require.Equal(t, v32, binary.LittleEndian.Uint32(buf32))

	var v64 uint64 = 0x0102030405060708
	buf64 := make([]byte, 8)
	binary.NativeEndian.PutUint64(buf64, ToLittleEndian64(v64))
	require.Equal(t, v64, binary.LittleEndian.Uint64(buf64))
}

// TestToBigEndianHostBranch pins down the exact branch behavior the open
// question in the spec called out: on a little-endian host ToBigEndian must
// swap and ToLittleEndian must be the identity, and vice versa.
func TestToBigEndianHostBranch(t *testing.T) {
	var v uint16 = 0x0102
	if hostIsLittleEndian {
		require.Equal(t, uint16(0x0201), ToBigEndian16(v))
		require.Equal(t, v, ToLittleEndian16(v))
	} else {
		require.Equal(t, v, ToBigEndian16(v))
		require.Equal(t, uint16(0x0201), ToLittleEndian16(v))
	}
}
