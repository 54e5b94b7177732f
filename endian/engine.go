// Package endian provides the byte-order conversion primitives the pack
// codec needs to lay integer, float, and length-prefix payloads out as
// big-endian on the wire regardless of the host's native byte order.
//
// # Host detection
//
// CheckEndianness probes the host's native byte order once, using an
// unsafe.Pointer read over a known bit pattern — the idiomatic Go substitute
// for a compile-time #if branch in a language with a preprocessor. The
// result is cached at package init so every ToBigEndian/ToLittleEndian call
// is a single branch plus, at most, a byte-reverse.
//
// # Thread safety
//
// Every function in this package is pure and safe for concurrent use.
package endian

import (
	"encoding/binary"
	"math/bits"
	"unsafe"
)

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	// For a big-endian system, the MSB (0x01) is first.
	var i uint16 = 0x0100

	// Create a byte slice pointing to the memory address of 'i'.
	// We only need the first byte.
	b := (*[2]byte)(unsafe.Pointer(&i))

	// Check the first byte at the lowest memory address
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

func IsNativeBigEndian() bool {
	return CheckEndianness() == binary.BigEndian
}

// hostIsLittleEndian is resolved once at package init and drives every
// ToBigEndian/ToLittleEndian branch below.
var hostIsLittleEndian = IsNativeLittleEndian()

// ToBigEndian16 converts x from host order to big-endian order.
// It is a no-op on a big-endian host and a byte-reverse on a little-endian host.
func ToBigEndian16(x uint16) uint16 {
	if !hostIsLittleEndian {
		return x
	}

	return bits.ReverseBytes16(x)
}

// ToBigEndian32 converts x from host order to big-endian order.
func ToBigEndian32(x uint32) uint32 {
	if !hostIsLittleEndian {
		return x
	}

	return bits.ReverseBytes32(x)
}

// ToBigEndian64 converts x from host order to big-endian order.
func ToBigEndian64(x uint64) uint64 {
	if !hostIsLittleEndian {
		return x
	}

	return bits.ReverseBytes64(x)
}

// ToLittleEndian16 converts x from host order to little-endian order.
// It is the identity on a little-endian host and a byte-reverse on a big-endian host.
func ToLittleEndian16(x uint16) uint16 {
	if hostIsLittleEndian {
		return x
	}

	return bits.ReverseBytes16(x)
}

// ToLittleEndian32 converts x from host order to little-endian order.
func ToLittleEndian32(x uint32) uint32 {
	if hostIsLittleEndian {
		return x
	}

	return bits.ReverseBytes32(x)
}

// ToLittleEndian64 converts x from host order to little-endian order.
func ToLittleEndian64(x uint64) uint64 {
	if hostIsLittleEndian {
		return x
	}

	return bits.ReverseBytes64(x)
}
