package prefixvec

import "io"

// BytesReader is an io.Reader over a byte slice that knows how much input is
// left, which lets decoders size their allocations against real data.
type BytesReader struct {
	B []byte // source slice
	N int    // current read position
}

// NewBytesReader creates a new BytesReader.
func NewBytesReader(b []byte) *BytesReader {
	return &BytesReader{B: b}
}

// Close does nothing.
func (r *BytesReader) Close() error {
	return nil
}

// Read implements the [io.Reader] interface.
func (r *BytesReader) Read(p []byte) (int, error) {
	if r.N >= len(r.B) {
		return 0, io.EOF
	}
	n := copy(p, r.B[r.N:])
	r.N += n
	return n, nil
}

// ReadByte implements the [io.ByteReader] interface.
func (r *BytesReader) ReadByte() (byte, error) {
	if r.N >= len(r.B) {
		return 0, io.EOF
	}
	b := r.B[r.N]
	r.N++
	return b, nil
}

// UnreadByte implements the [io.ByteScanner] interface.
func (r *BytesReader) UnreadByte() error {
	if r.N <= 0 {
		return ErrUnreadByte
	}
	r.N--
	return nil
}

// WriteTo implements the [io.WriterTo] interface for efficiency.
func (r *BytesReader) WriteTo(w io.Writer) (int64, error) {
	if r.N >= len(r.B) {
		return 0, nil
	}

	b := r.B[r.N:]
	n, err := w.Write(b)
	if n < 0 || n > len(b) {
		return 0, ErrInvalidRead
	}
	r.N += n
	if err != nil {
		return int64(n), err
	}
	if n < len(b) {
		return int64(n), io.ErrShortWrite
	}
	return int64(n), nil
}

// Len returns the number of bytes read.
func (r *BytesReader) Len() int {
	return r.N
}

// Size returns the size of the underlying byte slice.
func (r *BytesReader) Size() int {
	return len(r.B)
}

// Available returns the number of bytes available for reading.
func (r *BytesReader) Available() int {
	length := len(r.B) - r.N
	if length <= 0 {
		return 0
	}
	return length
}

// Remaining is Available, reported through the ReaderPro contract.
func (r *BytesReader) Remaining() int {
	return r.Available()
}
