package msgpack

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"

	"github.com/MatthewZelriche/pack/endian"
	"github.com/MatthewZelriche/pack/errs"
	"github.com/MatthewZelriche/pack/format"
	"github.com/MatthewZelriche/pack/stream"
)

// Encoder serializes values onto a stream.Writer using the narrowest wire
// representation available for each one. An Encoder is not safe for
// concurrent use; pair one Encoder with one goroutine and one stream.
type Encoder struct {
	w           stream.Writer
	startOffset int64
	closed      bool
}

// NewEncoder wraps w for encoding. ByteCount reports bytes written relative
// to w's position at the time of this call.
func NewEncoder(w stream.Writer) *Encoder {
	return &Encoder{w: w, startOffset: w.Position()}
}

// ByteCount reports how many bytes this Encoder has written so far.
func (e *Encoder) ByteCount() int64 { return e.w.Position() - e.startOffset }

// Close flushes the underlying stream. After Close, further calls to Encode
// panic; an Encoder is single-use once closed, matching the lifecycle of the
// stream it was built over.
func (e *Encoder) Close() error {
	e.closed = true
	return e.w.Flush()
}

// Encode writes each value in order, choosing its family and narrowest
// representation independently. Supported value types are bool; uint,
// uint8/16/32/64; int, int8/16/32/64; float32, float64; string and any
// ~string type; and any slice or array (including nested slices/arrays) of
// the above. Encode returns the first error encountered, leaving the stream
// positioned after whatever was successfully written before the failure.
func (e *Encoder) Encode(values ...any) error {
	if e.closed {
		panic("pack: Encode called on a closed Encoder")
	}

	for _, v := range values {
		if err := e.encodeValue(v); err != nil {
			return err
		}
	}

	return nil
}

func (e *Encoder) encodeValue(v any) error {
	switch x := v.(type) {
	case bool:
		return e.encodeBool(x)
	case uint8:
		return e.encodeUnsigned(uint64(x))
	case uint16:
		return e.encodeUnsigned(uint64(x))
	case uint32:
		return e.encodeUnsigned(uint64(x))
	case uint64:
		return e.encodeUnsigned(x)
	case uint:
		return e.encodeUnsigned(uint64(x))
	case int8:
		return e.encodeSigned(int64(x))
	case int16:
		return e.encodeSigned(int64(x))
	case int32:
		return e.encodeSigned(int64(x))
	case int64:
		return e.encodeSigned(x)
	case int:
		return e.encodeSigned(int64(x))
	case float32:
		return e.encodeFloat32(x)
	case float64:
		return e.encodeFloat64(x)
	case string:
		return e.encodeString(x)
	case []byte:
		// []byte and []uint8 are the same Go type, so there is no way to
		// tell "raw bytes" from "array of uint8" apart once boxed in any.
		// This codec resolves the ambiguity by treating []byte as the
		// string family uniformly, in both Encode and Decoder.decodeValue.
		return e.encodeString(string(x))
	default:
		return e.encodeComposite(reflect.ValueOf(v))
	}
}

// encodeComposite handles named scalar types (via reflect.Kind) and
// slices/arrays, recursing element-by-element for the latter.
func (e *Encoder) encodeComposite(rv reflect.Value) error {
	if !rv.IsValid() {
		return fmt.Errorf("pack: unsupported nil value for encode")
	}

	switch rv.Kind() {
	case reflect.String:
		return e.encodeString(rv.String())
	case reflect.Bool:
		return e.encodeBool(rv.Bool())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return e.encodeUnsigned(rv.Uint())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return e.encodeSigned(rv.Int())
	case reflect.Float32:
		return e.encodeFloat32(float32(rv.Float()))
	case reflect.Float64:
		return e.encodeFloat64(rv.Float())
	case reflect.Slice, reflect.Array:
		n := rv.Len()
		if err := e.encodeArrayHeader(n); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := e.encodeValue(rv.Index(i).Interface()); err != nil {
				return err
			}
		}

		return nil
	default:
		return fmt.Errorf("pack: unsupported type %s for encode", rv.Type())
	}
}

func (e *Encoder) encodeBool(v bool) error {
	if v {
		return e.putTag(byte(format.True))
	}

	return e.putTag(byte(format.False))
}

// encodeUnsigned picks the narrowest tag whose family can carry v: positive
// fixint, then uint8, uint16, uint32, uint64.
func (e *Encoder) encodeUnsigned(v uint64) error {
	switch {
	case v <= 0x7f:
		return e.putTag(byte(v))
	case v <= math.MaxUint8:
		return e.putTagAndByte(byte(format.Uint8), byte(v))
	case v <= math.MaxUint16:
		return e.putTagAnd16(byte(format.Uint16), uint16(v))
	case v <= math.MaxUint32:
		return e.putTagAnd32(byte(format.Uint32), uint32(v))
	default:
		return e.putTagAnd64(byte(format.Uint64), v)
	}
}

// encodeSigned picks the narrowest tag whose family can carry v: negative
// fixint or positive fixint, then int8, int16, int32, int64.
func (e *Encoder) encodeSigned(v int64) error {
	switch {
	case v >= int64(format.NegFixintMin) && v < 0:
		return e.putTag(byte(int8(v)))
	case v >= 0 && v <= 0x7f:
		return e.putTag(byte(v))
	case v >= math.MinInt8 && v <= math.MaxInt8:
		return e.putTagAndByte(byte(format.Int8), byte(int8(v)))
	case v >= math.MinInt16 && v <= math.MaxInt16:
		return e.putTagAnd16(byte(format.Int16), uint16(int16(v)))
	case v >= math.MinInt32 && v <= math.MaxInt32:
		return e.putTagAnd32(byte(format.Int32), uint32(int32(v)))
	default:
		return e.putTagAnd64(byte(format.Int64), uint64(v))
	}
}

func (e *Encoder) encodeFloat32(v float32) error {
	return e.putTagAnd32(byte(format.Float32), math.Float32bits(v))
}

func (e *Encoder) encodeFloat64(v float64) error {
	return e.putTagAnd64(byte(format.Float64), math.Float64bits(v))
}

// encodeString picks the narrowest length-tag that can carry len(s), where
// length is measured in bytes, not runes.
func (e *Encoder) encodeString(s string) error {
	l := len(s)

	switch {
	case l <= 31:
		if err := e.putTag(format.FixStrPrefix | byte(l)); err != nil {
			return err
		}
	case l <= math.MaxUint8:
		if err := e.putTagAndByte(byte(format.Str8), byte(l)); err != nil {
			return err
		}
	case l <= math.MaxUint16:
		if err := e.putTagAnd16(byte(format.Str16), uint16(l)); err != nil {
			return err
		}
	case uint64(l) <= math.MaxUint32:
		if err := e.putTagAnd32(byte(format.Str32), uint32(l)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: string of %d bytes exceeds 2^32-1", errs.ErrLengthOverflow, l)
	}

	return e.writeRaw([]byte(s))
}

// encodeArrayHeader picks the narrowest length-tag that can carry n
// elements; the caller is responsible for writing the n elements after.
func (e *Encoder) encodeArrayHeader(n int) error {
	switch {
	case n <= 15:
		return e.putTag(format.FixArrayPrefix | byte(n))
	case n <= math.MaxUint16:
		return e.putTagAnd16(byte(format.Array16), uint16(n))
	case uint64(n) <= math.MaxUint32:
		return e.putTagAnd32(byte(format.Array32), uint32(n))
	default:
		return fmt.Errorf("%w: array of %d elements exceeds 2^32-1", errs.ErrLengthOverflow, n)
	}
}

func (e *Encoder) putTag(tag byte) error {
	if err := e.w.WriteByte(tag); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrStreamWrite, err)
	}

	return nil
}

func (e *Encoder) putTagAndByte(tag, payload byte) error {
	if err := e.putTag(tag); err != nil {
		return err
	}

	return e.writeRaw([]byte{payload})
}

func (e *Encoder) putTagAnd16(tag byte, v uint16) error {
	if err := e.putTag(tag); err != nil {
		return err
	}

	var buf [2]byte
	binary.NativeEndian.PutUint16(buf[:], endian.ToBigEndian16(v))

	return e.writeRaw(buf[:])
}

func (e *Encoder) putTagAnd32(tag byte, v uint32) error {
	if err := e.putTag(tag); err != nil {
		return err
	}

	var buf [4]byte
	binary.NativeEndian.PutUint32(buf[:], endian.ToBigEndian32(v))

	return e.writeRaw(buf[:])
}

func (e *Encoder) putTagAnd64(tag byte, v uint64) error {
	if err := e.putTag(tag); err != nil {
		return err
	}

	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], endian.ToBigEndian64(v))

	return e.writeRaw(buf[:])
}

func (e *Encoder) writeRaw(b []byte) error {
	if _, err := e.w.Write(b); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrStreamWrite, err)
	}

	return nil
}
