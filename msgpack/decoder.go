package msgpack

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"unsafe"

	"github.com/MatthewZelriche/pack/endian"
	"github.com/MatthewZelriche/pack/errs"
	"github.com/MatthewZelriche/pack/format"
	"github.com/MatthewZelriche/pack/stream"
)

// Decoder reads values from a stream.Reader, matching the peeked tag
// against the family implied by each destination's type. A Decoder is not
// safe for concurrent use.
type Decoder struct {
	r           stream.Reader
	startOffset int64

	// TerminateStrings, when true, makes a growable *string decode append
	// a trailing NUL byte after the decoded content, mirroring the fixed
	// []byte destination form (which always reserves and writes one).
	// Default false: a Go string already carries its own length and the
	// spec's own design notes flag the growable NUL as something
	// implementations should make opt-out.
	TerminateStrings bool
}

// NewDecoder wraps r for decoding. ByteCount reports bytes consumed
// relative to r's position at the time of this call.
func NewDecoder(r stream.Reader) *Decoder {
	return &Decoder{r: r, startOffset: r.Position()}
}

// ByteCount reports how many bytes this Decoder has consumed so far.
func (d *Decoder) ByteCount() int64 { return d.r.Position() - d.startOffset }

// Decode reads len(dests) values in order into dests. Supported
// destinations are *bool; *uint/*uint8/16/32/64; *int/*int8/16/32/64;
// *float32, *float64; *string (growable) and []byte (fixed-capacity,
// string family); []T or *[N]T (fixed-capacity array) and *[]T (growable
// array), for any T this method itself supports, including nested
// slices/arrays. Decode returns the first error encountered; destinations
// before the failing one are already filled. A type-mismatch or narrowing
// failure only peeks the tag, so the stream is left positioned at that tag;
// bytes already consumed before an end-of-input failure stay consumed.
func (d *Decoder) Decode(dests ...any) error {
	for _, dst := range dests {
		if err := d.decodeValue(dst); err != nil {
			return err
		}
	}

	return nil
}

func (d *Decoder) decodeValue(dst any) error {
	switch p := dst.(type) {
	case *bool:
		return d.decodeBool(p)
	case *uint8:
		return decodeUnsignedInto(d, p)
	case *uint16:
		return decodeUnsignedInto(d, p)
	case *uint32:
		return decodeUnsignedInto(d, p)
	case *uint64:
		return decodeUnsignedInto(d, p)
	case *uint:
		return decodeUnsignedInto(d, p)
	case *int8:
		return decodeSignedInto(d, p)
	case *int16:
		return decodeSignedInto(d, p)
	case *int32:
		return decodeSignedInto(d, p)
	case *int64:
		return decodeSignedInto(d, p)
	case *int:
		return decodeSignedInto(d, p)
	case *float32:
		return d.decodeFloat32(p)
	case *float64:
		return d.decodeFloat64(p)
	case *string:
		return d.decodeStringGrowable(p)
	case []byte:
		return d.decodeStringFixed(p)
	default:
		return d.decodeComposite(dst)
	}
}

// decodeComposite handles everything decodeValue's type switch doesn't:
// named scalar types, fixed-capacity slices/arrays, and growable slices.
func (d *Decoder) decodeComposite(dst any) error {
	rv := reflect.ValueOf(dst)

	switch rv.Kind() {
	case reflect.Slice:
		return d.decodeFixedSlice(rv)
	case reflect.Ptr:
		if rv.IsNil() {
			return fmt.Errorf("pack: decode destination must be a non-nil pointer, got %T", dst)
		}

		return d.decodePtrElem(rv.Elem())
	default:
		return fmt.Errorf("pack: unsupported decode destination type %T", dst)
	}
}

func (d *Decoder) decodePtrElem(elem reflect.Value) error {
	switch elem.Kind() {
	case reflect.Slice:
		return d.decodeGrowableSlice(elem)
	case reflect.Array:
		return d.decodeFixedArray(elem)
	case reflect.String:
		var s string
		if err := d.decodeStringGrowable(&s); err != nil {
			return err
		}
		elem.SetString(s)

		return nil
	case reflect.Bool:
		var b bool
		if err := d.decodeBool(&b); err != nil {
			return err
		}
		elem.SetBool(b)

		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return d.decodeReflectUnsigned(elem)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return d.decodeReflectSigned(elem)
	case reflect.Float32:
		var f float32
		if err := d.decodeFloat32(&f); err != nil {
			return err
		}
		elem.SetFloat(float64(f))

		return nil
	case reflect.Float64:
		var f float64
		if err := d.decodeFloat64(&f); err != nil {
			return err
		}
		elem.SetFloat(f)

		return nil
	default:
		return fmt.Errorf("pack: unsupported decode destination element type %s", elem.Type())
	}
}

func (d *Decoder) decodeBool(dst *bool) error {
	tag, err := d.peekTag()
	if err != nil {
		return err
	}
	if !format.InBoolFamily(tag) {
		return fmt.Errorf("%w: tag 0x%02x is not in the bool family", errs.ErrTypeMismatch, tag)
	}
	if _, err := d.r.ReadByte(); err != nil {
		return d.wrapEOF(err)
	}
	*dst = tag == byte(format.True)

	return nil
}

func (d *Decoder) decodeFloat32(dst *float32) error {
	tag, err := d.peekTag()
	if err != nil {
		return err
	}
	if !format.InFloatFamily(tag) {
		return fmt.Errorf("%w: tag 0x%02x is not in the floating-point family", errs.ErrTypeMismatch, tag)
	}
	if format.Tag(tag) == format.Float64 {
		return fmt.Errorf("%w: tag 0x%02x float64 exceeds float32 destination range", errs.ErrNarrowingConversion, tag)
	}
	if _, err := d.r.ReadByte(); err != nil {
		return d.wrapEOF(err)
	}

	b, err := d.readExact(4)
	if err != nil {
		return err
	}
	bits := endian.ToBigEndian32(binary.NativeEndian.Uint32(b))
	*dst = math.Float32frombits(bits)

	return nil
}

func (d *Decoder) decodeFloat64(dst *float64) error {
	tag, err := d.peekTag()
	if err != nil {
		return err
	}
	if !format.InFloatFamily(tag) {
		return fmt.Errorf("%w: tag 0x%02x is not in the floating-point family", errs.ErrTypeMismatch, tag)
	}
	if _, err := d.r.ReadByte(); err != nil {
		return d.wrapEOF(err)
	}

	if format.Tag(tag) == format.Float32 {
		b, err := d.readExact(4)
		if err != nil {
			return err
		}
		*dst = float64(math.Float32frombits(endian.ToBigEndian32(binary.NativeEndian.Uint32(b))))

		return nil
	}

	b, err := d.readExact(8)
	if err != nil {
		return err
	}
	bits := endian.ToBigEndian64(binary.NativeEndian.Uint64(b))
	*dst = math.Float64frombits(bits)

	return nil
}

// unsignedDest is any Go unsigned integer type usable as a Decode
// destination's pointee.
type unsignedDest interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// signedDest is any Go signed integer type usable as a Decode destination's
// pointee.
type signedDest interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

func decodeUnsignedInto[T unsignedDest](d *Decoder, dst *T) error {
	tag, err := d.peekTag()
	if err != nil {
		return err
	}
	if !format.InUnsignedFamily(tag) {
		return fmt.Errorf("%w: tag 0x%02x is not in the unsigned-integer family", errs.ErrTypeMismatch, tag)
	}

	bound := unsignedFamilyBound(tag)
	if unsignedMaxForWidth(widthOf[T]()) < bound {
		return fmt.Errorf("%w: tag 0x%02x family max %d exceeds destination range", errs.ErrNarrowingConversion, tag, bound)
	}

	val, err := d.consumeUnsigned(tag)
	if err != nil {
		return err
	}
	*dst = T(val)

	return nil
}

func decodeSignedInto[T signedDest](d *Decoder, dst *T) error {
	tag, err := d.peekTag()
	if err != nil {
		return err
	}
	if !format.InSignedFamily(tag) {
		return fmt.Errorf("%w: tag 0x%02x is not in the signed-integer family", errs.ErrTypeMismatch, tag)
	}

	lo, hi := signedFamilyBounds(tag)
	destLo, destHi := signedBoundsForWidth(widthOf[T]())
	if destLo > lo || destHi < hi {
		return fmt.Errorf("%w: tag 0x%02x family range [%d,%d] exceeds destination range", errs.ErrNarrowingConversion, tag, lo, hi)
	}

	val, err := d.consumeSigned(tag)
	if err != nil {
		return err
	}
	*dst = T(val)

	return nil
}

func (d *Decoder) decodeReflectUnsigned(elem reflect.Value) error {
	tag, err := d.peekTag()
	if err != nil {
		return err
	}
	if !format.InUnsignedFamily(tag) {
		return fmt.Errorf("%w: tag 0x%02x is not in the unsigned-integer family", errs.ErrTypeMismatch, tag)
	}

	bound := unsignedFamilyBound(tag)
	if unsignedMaxForWidth(int(elem.Type().Size())) < bound {
		return fmt.Errorf("%w: tag 0x%02x family max %d exceeds destination range", errs.ErrNarrowingConversion, tag, bound)
	}

	val, err := d.consumeUnsigned(tag)
	if err != nil {
		return err
	}
	elem.SetUint(val)

	return nil
}

func (d *Decoder) decodeReflectSigned(elem reflect.Value) error {
	tag, err := d.peekTag()
	if err != nil {
		return err
	}
	if !format.InSignedFamily(tag) {
		return fmt.Errorf("%w: tag 0x%02x is not in the signed-integer family", errs.ErrTypeMismatch, tag)
	}

	lo, hi := signedFamilyBounds(tag)
	destLo, destHi := signedBoundsForWidth(int(elem.Type().Size()))
	if destLo > lo || destHi < hi {
		return fmt.Errorf("%w: tag 0x%02x family range [%d,%d] exceeds destination range", errs.ErrNarrowingConversion, tag, lo, hi)
	}

	val, err := d.consumeSigned(tag)
	if err != nil {
		return err
	}
	elem.SetInt(val)

	return nil
}

func (d *Decoder) stringLen() (int, error) {
	tag, err := d.peekTag()
	if err != nil {
		return 0, err
	}
	if !format.InStringFamily(tag) {
		return 0, fmt.Errorf("%w: tag 0x%02x is not in the string family", errs.ErrTypeMismatch, tag)
	}
	if _, err := d.r.ReadByte(); err != nil {
		return 0, d.wrapEOF(err)
	}

	if format.IsFixStr(tag) {
		return format.FixStrLen(tag), nil
	}

	switch format.Tag(tag) {
	case format.Str8:
		b, err := d.readExact(1)
		if err != nil {
			return 0, err
		}

		return int(b[0]), nil
	case format.Str16:
		b, err := d.readExact(2)
		if err != nil {
			return 0, err
		}

		return int(endian.ToBigEndian16(binary.NativeEndian.Uint16(b))), nil
	case format.Str32:
		b, err := d.readExact(4)
		if err != nil {
			return 0, err
		}

		return int(endian.ToBigEndian32(binary.NativeEndian.Uint32(b))), nil
	default:
		return 0, fmt.Errorf("pack: internal: tag 0x%02x not in string family", tag)
	}
}

func (d *Decoder) decodeStringGrowable(dst *string) error {
	n, err := d.stringLen()
	if err != nil {
		return err
	}

	b, err := d.readExact(n)
	if err != nil {
		return err
	}

	if d.TerminateStrings {
		out := make([]byte, n+1)
		copy(out, b)
		*dst = string(out)

		return nil
	}

	*dst = string(b)

	return nil
}

// decodeStringFixed always reserves room for a trailing NUL, per the fixed
// buffer form's spec text; unlike decodeStringGrowable, this one is not
// gated by TerminateStrings.
func (d *Decoder) decodeStringFixed(dst []byte) error {
	n, err := d.stringLen()
	if err != nil {
		return err
	}

	if len(dst) < n+1 {
		return fmt.Errorf("%w: need %d bytes, destination has %d", errs.ErrCapacityTooSmall, n+1, len(dst))
	}

	b, err := d.readExact(n)
	if err != nil {
		return err
	}
	copy(dst, b)
	dst[n] = 0

	return nil
}

func (d *Decoder) arrayLen() (int, error) {
	tag, err := d.peekTag()
	if err != nil {
		return 0, err
	}
	if !format.InArrayFamily(tag) {
		return 0, fmt.Errorf("%w: tag 0x%02x is not in the array family", errs.ErrTypeMismatch, tag)
	}
	if _, err := d.r.ReadByte(); err != nil {
		return 0, d.wrapEOF(err)
	}

	if format.IsFixArray(tag) {
		return format.FixArrayLen(tag), nil
	}

	switch format.Tag(tag) {
	case format.Array16:
		b, err := d.readExact(2)
		if err != nil {
			return 0, err
		}

		return int(endian.ToBigEndian16(binary.NativeEndian.Uint16(b))), nil
	case format.Array32:
		b, err := d.readExact(4)
		if err != nil {
			return 0, err
		}

		return int(endian.ToBigEndian32(binary.NativeEndian.Uint32(b))), nil
	default:
		return 0, fmt.Errorf("pack: internal: tag 0x%02x not in array family", tag)
	}
}

// decodeFixedSlice fills a pre-sized slice in place: fixed capacity is
// len(rv), and slice elements are addressable through reflect even though
// rv itself was boxed into an any by value.
func (d *Decoder) decodeFixedSlice(rv reflect.Value) error {
	n, err := d.arrayLen()
	if err != nil {
		return err
	}
	if n > rv.Len() {
		return fmt.Errorf("%w: array of %d elements does not fit destination of length %d", errs.ErrCapacityTooSmall, n, rv.Len())
	}

	elemType := rv.Type().Elem()
	for i := 0; i < n; i++ {
		ptr := reflect.New(elemType)
		if err := d.decodeValue(ptr.Interface()); err != nil {
			return err
		}
		rv.Index(i).Set(ptr.Elem())
	}

	return nil
}

// decodeFixedArray fills a *[N]T in place; fixed capacity is elem.Len().
func (d *Decoder) decodeFixedArray(elem reflect.Value) error {
	n, err := d.arrayLen()
	if err != nil {
		return err
	}
	if n > elem.Len() {
		return fmt.Errorf("%w: array of %d elements does not fit destination of length %d", errs.ErrCapacityTooSmall, n, elem.Len())
	}

	elemType := elem.Type().Elem()
	for i := 0; i < n; i++ {
		ptr := reflect.New(elemType)
		if err := d.decodeValue(ptr.Interface()); err != nil {
			return err
		}
		elem.Index(i).Set(ptr.Elem())
	}

	return nil
}

// decodeGrowableSlice replaces *dst's pointee with a freshly allocated
// slice of exactly the decoded length.
func (d *Decoder) decodeGrowableSlice(elem reflect.Value) error {
	n, err := d.arrayLen()
	if err != nil {
		return err
	}

	elemType := elem.Type().Elem()
	out := reflect.MakeSlice(elem.Type(), n, n)
	for i := 0; i < n; i++ {
		ptr := reflect.New(elemType)
		if err := d.decodeValue(ptr.Interface()); err != nil {
			return err
		}
		out.Index(i).Set(ptr.Elem())
	}
	elem.Set(out)

	return nil
}

func (d *Decoder) peekTag() (byte, error) {
	b, err := d.r.Peek()
	if err != nil {
		return 0, d.wrapEOF(err)
	}

	return b, nil
}

func (d *Decoder) readExact(n int) ([]byte, error) {
	b, err := d.r.ReadExact(n)
	if err != nil {
		return nil, d.wrapEOF(err)
	}

	return b, nil
}

func (d *Decoder) wrapEOF(err error) error {
	return fmt.Errorf("%w: %v", errs.ErrEndOfInput, err)
}

// consumeUnsigned consumes the already-peeked tag byte and any payload
// bytes belonging to the unsigned-integer family, returning the value.
func (d *Decoder) consumeUnsigned(tag byte) (uint64, error) {
	if _, err := d.r.ReadByte(); err != nil {
		return 0, d.wrapEOF(err)
	}

	if format.IsPositiveFixint(tag) {
		return uint64(format.PositiveFixintValue(tag)), nil
	}

	switch format.Tag(tag) {
	case format.Uint8:
		b, err := d.readExact(1)
		if err != nil {
			return 0, err
		}

		return uint64(b[0]), nil
	case format.Uint16:
		b, err := d.readExact(2)
		if err != nil {
			return 0, err
		}

		return uint64(endian.ToBigEndian16(binary.NativeEndian.Uint16(b))), nil
	case format.Uint32:
		b, err := d.readExact(4)
		if err != nil {
			return 0, err
		}

		return uint64(endian.ToBigEndian32(binary.NativeEndian.Uint32(b))), nil
	case format.Uint64:
		b, err := d.readExact(8)
		if err != nil {
			return 0, err
		}

		return endian.ToBigEndian64(binary.NativeEndian.Uint64(b)), nil
	default:
		return 0, fmt.Errorf("pack: internal: tag 0x%02x not in unsigned family", tag)
	}
}

// consumeSigned consumes the already-peeked tag byte and any payload bytes
// belonging to the signed-integer family, returning the value.
func (d *Decoder) consumeSigned(tag byte) (int64, error) {
	if _, err := d.r.ReadByte(); err != nil {
		return 0, d.wrapEOF(err)
	}

	switch {
	case format.IsPositiveFixint(tag):
		return int64(format.PositiveFixintValue(tag)), nil
	case format.IsNegativeFixint(tag):
		return int64(format.NegativeFixintValue(tag)), nil
	}

	switch format.Tag(tag) {
	case format.Int8:
		b, err := d.readExact(1)
		if err != nil {
			return 0, err
		}

		return int64(int8(b[0])), nil
	case format.Int16:
		b, err := d.readExact(2)
		if err != nil {
			return 0, err
		}

		return int64(int16(endian.ToBigEndian16(binary.NativeEndian.Uint16(b)))), nil
	case format.Int32:
		b, err := d.readExact(4)
		if err != nil {
			return 0, err
		}

		return int64(int32(endian.ToBigEndian32(binary.NativeEndian.Uint32(b)))), nil
	case format.Int64:
		b, err := d.readExact(8)
		if err != nil {
			return 0, err
		}

		return int64(endian.ToBigEndian64(binary.NativeEndian.Uint64(b))), nil
	default:
		return 0, fmt.Errorf("pack: internal: tag 0x%02x not in signed family", tag)
	}
}

// unsignedFamilyBound returns the largest value tag's specific unsigned
// family member can carry (not the family's overall maximum across all of
// its tags): 0x7f for positive fixint, 0xff for uint8, and so on.
func unsignedFamilyBound(tag byte) uint64 {
	if format.IsPositiveFixint(tag) {
		return 0x7f
	}

	switch format.Tag(tag) {
	case format.Uint8:
		return math.MaxUint8
	case format.Uint16:
		return math.MaxUint16
	case format.Uint32:
		return math.MaxUint32
	case format.Uint64:
		return math.MaxUint64
	default:
		return 0
	}
}

// signedFamilyBounds returns the [min, max] range tag's specific signed
// family member can carry.
func signedFamilyBounds(tag byte) (int64, int64) {
	if format.IsPositiveFixint(tag) {
		return 0, 0x7f
	}
	if format.IsNegativeFixint(tag) {
		return int64(format.NegFixintMin), -1
	}

	switch format.Tag(tag) {
	case format.Int8:
		return math.MinInt8, math.MaxInt8
	case format.Int16:
		return math.MinInt16, math.MaxInt16
	case format.Int32:
		return math.MinInt32, math.MaxInt32
	case format.Int64:
		return math.MinInt64, math.MaxInt64
	default:
		return 0, 0
	}
}

func unsignedMaxForWidth(width int) uint64 {
	switch width {
	case 1:
		return math.MaxUint8
	case 2:
		return math.MaxUint16
	case 4:
		return math.MaxUint32
	default:
		return math.MaxUint64
	}
}

func signedBoundsForWidth(width int) (int64, int64) {
	switch width {
	case 1:
		return math.MinInt8, math.MaxInt8
	case 2:
		return math.MinInt16, math.MaxInt16
	case 4:
		return math.MinInt32, math.MaxInt32
	default:
		return math.MinInt64, math.MaxInt64
	}
}

// widthOf reports the byte width of T, so a generic narrowing check can
// compare a tag's family bound against the destination's actual size
// without a type switch over every fixed-width integer type.
func widthOf[T any]() int {
	var zero T

	return int(unsafe.Sizeof(zero))
}
