// Package msgpack implements a MessagePack-compatible binary codec: a
// paired Encoder and Decoder operating over the streams in package stream.
//
// # Scope
//
// Supported value families are bool, unsigned integer, signed integer,
// float32/float64, UTF-8 string, and homogeneous array. Nil, extension
// types, map types, and BIN* are out of scope; a decoder that peeks one of
// those tags reports errs.ErrTypeMismatch against whichever family the
// destination requested, the same as any other tag the family doesn't own.
//
// # Dispatch
//
// Encode picks, for every value, the narrowest tag whose family can carry
// it — a positive fixint over a uint8 tag over a uint16 tag, and so on down
// the family's width ladder — so callers never choose a wire
// representation themselves. Decode walks the opposite direction: it peeks
// one tag, asks whether the tag belongs to the family implied by the
// destination's type, and only then checks whether the destination's
// numeric range can hold every value that tag's family could have carried
// (errs.ErrNarrowingConversion when it can't).
//
// # String and array destinations
//
// Go's array/slice split stands in for the spec's fixed-capacity-vs-growable
// destination distinction: a plain []byte, []T, or *[N]T is a fixed-capacity
// buffer the decoder fills without resizing (errs.ErrCapacityTooSmall if
// the decoded length doesn't fit), while a *string or *[]T is grown to
// exactly the decoded length. []byte and []uint8 are the same Go type, so
// this codec treats a []byte destination/value as the string family
// uniformly rather than as an array of uint8 elements.
//
// # Byte order
//
// Every multi-byte field — integer payloads, float bit patterns, and
// 16/32-bit lengths — is written and read big-endian, via endian.ToBigEndian*
// composed with encoding/binary's NativeEndian accessors. ToBigEndian*
// pre-swaps the value on a little-endian host (a no-op on a big-endian
// host); NativeEndian.PutUint*/Uint* then lays that pre-swapped value out
// in the host's own byte order, which is how the wire ends up big-endian
// either way without ever branching on host order inside this package.
package msgpack
