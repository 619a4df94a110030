package prefixvec

import (
	"encoding"
	"io"
)

// Sizer reports the binary size of a value, used to pre-allocate output buffers.
type Sizer interface {
	// Size returns the size of the type in bytes when binary encoded.
	Size() int
}

// Marshaler groups the ways a value can be encoded: into a fresh slice, onto a
// stream, or into a caller-provided buffer without allocating.
type Marshaler interface {
	encoding.BinaryMarshaler // MarshalBinary() ([]byte, error)
	io.WriterTo              // WriteTo(w io.Writer) (int64, error)

	// MarshalTo encodes into buf, returning io.ErrShortWrite if buf is too small.
	MarshalTo(buf []byte) (int, error)
}

// Unmarshaler groups the ways a value can be decoded.
type Unmarshaler interface {
	encoding.BinaryUnmarshaler // UnmarshalBinary(data []byte) error
	io.ReaderFrom              // ReadFrom(r io.Reader) (int64, error)
}

// Codec is a complete, self-sizing binary encoder/decoder.
type Codec interface {
	Sizer
	Marshaler
	Unmarshaler
}

// Sequence is a count-prefixed container codec.
type Sequence interface {
	Codec
	// Len returns the number of elements currently held.
	Len() int
	// MaxLen returns the largest element count the prefix can represent.
	MaxLen() uint64
	// PrefixWidth returns the width in bytes of the count prefix.
	PrefixWidth() int
}
