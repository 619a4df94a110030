package prefixvec

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"unsafe"
)

type reader interface {
	io.Reader
	io.ByteScanner
	io.WriterTo
	io.Closer
}

// ReaderPro is the source contract the Reader drives. Remaining reports how many
// bytes are left in the source, or -1 when the source cannot tell.
type ReaderPro interface {
	reader
	Size() int
	Remaining() int
}

// Reader provides a reader that simplifies reading binary data.
// It tracks the first error; subsequent reads become no-ops.
type Reader struct {
	r     ReaderPro
	count int64 // total bytes read
	err   error // first error encountered.
	order binary.ByteOrder
}

var _ ReaderPro = (*Reader)(nil)

// NewReaderSize creates a new Reader backed by a bufio.Reader of the given size.
// Buffering reads ahead of the decoder, so the source must not be shared with
// other consumers afterwards. In-memory sources are never buffered.
func NewReaderSize(r io.Reader, size int) (*Reader, error) {
	if r == nil {
		return nil, ErrNilIO
	}
	if rd, ok := wrapReader(r); ok {
		return rd, nil
	}
	if br, ok := r.(*bufio.Reader); ok {
		if br.Size() >= size {
			return &Reader{r: &bufioReaderAdapter{Reader: br}, order: Order}, nil
		}
		return nil, ErrAlreadyBuffered
	}
	if size < 16 {
		return nil, ErrSizeTooSmall
	}
	return &Reader{r: &bufioReaderAdapter{Reader: bufio.NewReaderSize(r, size)}, order: Order}, nil
}

// NewReader creates a new Reader that never consumes more bytes from r than the
// caller decodes, so several values can be decoded back to back from one stream.
func NewReader(r io.Reader) (*Reader, error) {
	if r == nil {
		return nil, ErrNilIO
	}
	if rd, ok := wrapReader(r); ok {
		return rd, nil
	}
	if br, ok := r.(*bufio.Reader); ok {
		return &Reader{r: &bufioReaderAdapter{Reader: br}, order: Order}, nil
	}
	return &Reader{r: newStreamReader(r), order: Order}, nil
}

// wrapReader handles sources that are already positioned precisely and need no buffering.
func wrapReader(r io.Reader) (*Reader, bool) {
	switch reader := r.(type) {
	// Share the source of an existing Reader; the new one keeps its own count.
	case *Reader:
		return &Reader{r: reader.r, order: reader.order}, true
	case *BytesReader:
		return &Reader{r: reader, order: Order}, true
	case *bytes.Reader:
		return &Reader{r: &bytesReaderAdapter{reader}, order: Order}, true
	case *bytes.Buffer:
		return &Reader{r: &bytesBufferReaderAdapter{Buffer: reader}, order: Order}, true
	// An adapter handed down by Reader.ReadTo.
	case ReaderPro:
		return &Reader{r: reader, order: Order}, true
	}
	return nil, false
}

// WithByteOrder sets the byte order for the primitive read helpers and returns
// the Reader for chaining. Count prefixes are always little-endian.
func (r *Reader) WithByteOrder(order binary.ByteOrder) *Reader {
	r.order = order
	return r
}

// Close closes the underlying reader if it implements io.Closer.
func (r *Reader) Close() error {
	return r.r.Close()
}

// Read implements the io.Reader interface.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	n, err := r.r.Read(p)
	r.count += int64(n)
	r.setError(err)
	return n, r.err
}

// WriteTo implements io.WriterTo for efficient copying.
func (r *Reader) WriteTo(w io.Writer) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	if w == nil {
		r.setError(ErrWriteToNil)
		return 0, r.err
	}

	n, err := r.r.WriteTo(w)
	r.count += n
	r.setError(err)
	return n, r.err
}

func (r *Reader) Size() int    { return r.r.Size() }
func (r *Reader) Count() int64 { return r.count }
func (r *Reader) Err() error   { return r.err }
func (r *Reader) IsEOF() bool  { return r.err == io.EOF }

// Remaining returns the number of bytes left in the source, or -1 if unknown.
func (r *Reader) Remaining() int {
	if r.err != nil {
		return 0
	}
	return r.r.Remaining()
}

// setError records the first non-nil error.
func (r *Reader) setError(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// Result returns the total bytes read and the final error state.
func (r *Reader) Result() (int64, error) {
	return r.count, r.err
}

// ReadTo lets an io.ReaderFrom consume from the underlying source.
func (r *Reader) ReadTo(w io.ReaderFrom) {
	if r.err != nil {
		return
	}
	n, err := w.ReadFrom(r.r)
	r.count += n
	r.setError(err)
}

// readFull is an internal helper to read an exact number of bytes.
func (r *Reader) readFull(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	r.ReadBytesTo(buf)
	if r.err != nil {
		return nil
	}
	return buf
}

// ReadBytes reads n bytes and returns a new byte slice.
func (r *Reader) ReadBytes(n int) []byte {
	if n <= 0 {
		return nil
	}
	return r.readFull(n)
}

// ReadBytesTo fills dest completely. A stream that ends part way, or before the
// first byte, latches io.ErrUnexpectedEOF.
func (r *Reader) ReadBytesTo(dest []byte) {
	if r.err != nil || len(dest) == 0 {
		return
	}
	n, err := io.ReadFull(r.r, dest)
	r.count += int64(n)
	if err == io.EOF {
		// A partial read is different from a clean end-of-stream.
		err = io.ErrUnexpectedEOF
	}
	r.setError(err)
}

// --- Primitive Read Operations ---

func (r *Reader) ReadByte() (byte, error) {
	if r.err != nil {
		return 0, r.err
	}
	b, err := r.r.ReadByte()
	if err == nil {
		r.count++
	} else {
		r.err = err
	}
	return b, err
}

// UnreadByte implements io.ByteScanner so decoders that peek one byte do not
// need to buffer the stream themselves.
func (r *Reader) UnreadByte() error {
	if r.err != nil {
		return r.err
	}
	if err := r.r.UnreadByte(); err != nil {
		return err
	}
	r.count--
	return nil
}

// ReadInt reads a T in the Reader's byte order. On failure it returns zero and
// the error is latched.
func ReadInt[T FlatInt](r *Reader) T {
	return readInt[T](r, r.order)
}

func readInt[T FlatInt](r *Reader, order binary.ByteOrder) T {
	var v T
	var buf [8]byte
	size := int(unsafe.Sizeof(v))
	r.ReadBytesTo(buf[:size])
	if r.err != nil {
		return v
	}
	switch size {
	case 1:
		return T(buf[0])
	case 2:
		return T(order.Uint16(buf[:]))
	case 4:
		return T(order.Uint32(buf[:]))
	}
	return T(order.Uint64(buf[:]))
}
