package prefixvec

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Fixed is a Codec for any struct Payload composed of fixed-size fields,
// encoded little-endian with encoding/binary. Use it through Nested to hold
// structs in a sequence.
//
// Constraint: Payload MUST NOT contain variable-size fields like slices,
// maps, or strings; such payloads report ErrNotFixedSize.
type Fixed[Payload any] struct {
	Payload Payload
}

var _ Codec = (*Fixed[struct{}])(nil)

// Size returns the encoded size of Payload, or -1 if it has no fixed size.
// The result is cached per type.
func (c *Fixed[Payload]) Size() int {
	return layoutOf[Payload]().wire
}

func (c *Fixed[Payload]) size() (int, error) {
	size := c.Size()
	if size < 0 {
		return 0, fmt.Errorf("%w: %T", ErrNotFixedSize, c.Payload)
	}
	return size, nil
}

// MarshalBinary allocates; prefer MarshalTo or WriteTo on hot paths.
func (c *Fixed[Payload]) MarshalBinary() ([]byte, error) {
	size, err := c.size()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, size)
	if _, err := binary.Encode(buf, LE, &c.Payload); err != nil {
		return nil, io.ErrShortWrite
	}
	return buf, nil
}

// UnmarshalBinary decodes Payload and rejects non-zero trailing bytes.
func (c *Fixed[Payload]) UnmarshalBinary(data []byte) error {
	if _, err := c.size(); err != nil {
		return err
	}
	n, err := binary.Decode(data, LE, &c.Payload)
	if err != nil {
		// binary.Decode only fails here on a short buffer.
		return ErrTruncatedData
	}
	if len(data) > n {
		return CheckBufferNotZeros(data[n:])
	}
	return nil
}

// ReadFrom reads Payload directly from a stream.
func (c *Fixed[Payload]) ReadFrom(r io.Reader) (int64, error) {
	size, err := c.size()
	if err != nil {
		return 0, err
	}
	if err := binary.Read(r, LE, &c.Payload); err != nil {
		return 0, err
	}
	return int64(size), nil
}

// WriteTo writes Payload directly to a stream.
func (c *Fixed[Payload]) WriteTo(w io.Writer) (int64, error) {
	size, err := c.size()
	if err != nil {
		return 0, err
	}
	if err := binary.Write(w, LE, &c.Payload); err != nil {
		return 0, err
	}
	return int64(size), nil
}

// MarshalTo encodes Payload into p without allocating.
func (c *Fixed[Payload]) MarshalTo(p []byte) (int, error) {
	if _, err := c.size(); err != nil {
		return 0, err
	}
	n, err := binary.Encode(p, LE, &c.Payload)
	if err != nil {
		return n, io.ErrShortWrite
	}
	return n, nil
}
