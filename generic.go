package prefixvec

import (
	"fmt"
	"io"
)

// MarshalBinaryGeneric provides a generic `encoding.BinaryMarshaler` implementation
// for self-sizing stream encoders.
func MarshalBinaryGeneric[T interface {
	Size() int
	io.WriterTo
}](v T) ([]byte, error) {
	expectedSize := v.Size()
	w := NewBytesWriter(make([]byte, expectedSize))
	n, err := v.WriteTo(w)
	if err != nil {
		return nil, err
	}
	if n < int64(expectedSize) {
		return nil, fmt.Errorf("%w: expected %d bytes, but wrote %d", io.ErrShortWrite, expectedSize, n)
	}
	return w.Bytes(), nil
}

// UnmarshalBinaryGeneric adapts a stream-based `ReadFrom` to `UnmarshalBinary`.
// Bytes left over after the value must be zero padding; anything else is
// reported as ErrTrailingData.
func UnmarshalBinaryGeneric[T io.ReaderFrom](v T, data []byte) error {
	r := NewBytesReader(data)
	n, err := v.ReadFrom(r)
	if err != nil {
		return err
	}
	if len(data) > int(n) {
		return CheckBufferNotZeros(data[n:])
	}
	return nil
}

// MarshalToGeneric provides a fallback implementation for the MarshalTo method.
func MarshalToGeneric[T interface {
	Size() int
	io.WriterTo
}](v T, p []byte) (int, error) {
	size := v.Size()
	if len(p) < size {
		return 0, io.ErrShortWrite
	}
	w := NewBytesWriter(p)
	n, err := v.WriteTo(w)
	if err != nil {
		return int(n), err
	}
	if n < int64(size) {
		return int(n), io.ErrShortWrite
	}
	return int(n), nil
}
