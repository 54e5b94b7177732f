package stream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferWriter(t *testing.T) {
	w := NewBufferWriter()
	defer w.Release()

	n, err := w.Write([]byte{0x01, 0x02})
	require.NoError(t, err)
	require.Equal(t, 2, n)

	require.NoError(t, w.WriteByte(0x03))
	require.Equal(t, int64(3), w.Position())
	require.Equal(t, []byte{0x01, 0x02, 0x03}, w.Bytes())
	require.NoError(t, w.Flush())
}

func TestBufferReaderPeekAndReadByte(t *testing.T) {
	r := NewBufferReader([]byte{0xaa, 0xbb, 0xcc})

	b, err := r.Peek()
	require.NoError(t, err)
	require.Equal(t, byte(0xaa), b)
	require.Equal(t, int64(0), r.Position(), "Peek must not advance position")

	b, err = r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0xaa), b)
	require.Equal(t, int64(1), r.Position())

	b, err = r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0xbb), b)

	b, err = r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0xcc), b)

	require.True(t, r.AtEOF())
	_, err = r.ReadByte()
	require.Error(t, err)
}

func TestBufferReaderReadExact(t *testing.T) {
	r := NewBufferReader([]byte{0x01, 0x02, 0x03, 0x04})

	got, err := r.ReadExact(2)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02}, got)

	got, err = r.ReadExact(2)
	require.NoError(t, err)
	require.Equal(t, []byte{0x03, 0x04}, got)

	_, err = r.ReadExact(1)
	require.Error(t, err)
}

func TestBufferReaderUnread(t *testing.T) {
	r := NewBufferReader([]byte{0x10, 0x20})

	b, err := r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0x10), b)

	require.NoError(t, r.Unread(b))
	require.Equal(t, int64(0), r.Position())

	peeked, err := r.Peek()
	require.NoError(t, err)
	require.Equal(t, byte(0x10), peeked)

	// Reading again must observe the pushed-back byte, then continue normally.
	b, err = r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0x10), b)

	b, err = r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(0x20), b)

	require.True(t, r.AtEOF())
}

func TestBufferReaderEmptySourceIsAtEOF(t *testing.T) {
	r := NewBufferReader(nil)
	require.True(t, r.AtEOF())

	_, err := r.Peek()
	require.Error(t, err)
}
