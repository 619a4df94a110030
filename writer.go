package prefixvec

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"unsafe"
)

// WriterPro is the destination contract the Writer drives. io.ByteWriter lets
// the msgpack encoder write through a Writer without wrapping it again.
type WriterPro interface {
	io.Writer
	io.ByteWriter
	Size() int
	Flush() error
}

// Writer provides a buffered writer that simplifies writing binary data.
// It wraps bufio.Writer for efficiency and tracks the first error that occurs.
// After an error, all subsequent write operations become no-ops.
type Writer struct {
	w     WriterPro
	count int64 // total bytes written
	err   error // first error encountered. Subsequent writes become no-ops.
	depth int
	order binary.ByteOrder
}

var _ WriterPro = (*Writer)(nil)

// NewWriterSize creates a new Writer with a specified buffer size.
// It returns an error to prevent double-buffering.
func NewWriterSize(w io.Writer, size int) (*Writer, error) {
	if w == nil {
		return nil, ErrNilIO
	}

	switch bw := w.(type) {
	// Write through an existing Writer, so its count and latched error see
	// every byte. Only that Writer flushes.
	case *Writer:
		if bw.Size() >= size {
			return &Writer{w: bw, depth: 1, order: bw.order}, nil
		}

	// prevent unpredictable double-buffering.
	case *bufio.Writer:
		if bw.Size() >= size {
			return &Writer{w: bw, depth: 1, order: Order}, nil
		}
		return nil, ErrAlreadyBuffered

	// underlying is a buf so we don't need buffering
	case *BytesWriter:
		return &Writer{w: bw, order: Order}, nil
	case *bytes.Buffer:
		return &Writer{w: &bytesBufferWriterAdapter{bw}, order: Order}, nil

	// An adapter handed down by Writer.WriteFrom; its owner flushes it.
	case WriterPro:
		return &Writer{w: bw, depth: 1, order: Order}, nil
	}

	// default use bufio
	return &Writer{w: bufio.NewWriterSize(w, size), order: Order}, nil
}

// NewWriter creates a new Writer with a default buffer size.
func NewWriter(w io.Writer) (*Writer, error) {
	return NewWriterSize(w, 0)
}

// WithByteOrder sets the byte order for the primitive write helpers and returns
// the Writer for chaining. Count prefixes are always little-endian.
func (w *Writer) WithByteOrder(order binary.ByteOrder) *Writer {
	w.order = order
	return w
}

// Write implements the io.Writer interface.
func (w *Writer) Write(buf []byte) (int, error) {
	if buf == nil || w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(buf)
	if n < 0 {
		n, err = 0, ErrInvalidWrite
	}
	w.count += int64(n)
	w.setError(err)
	return n, w.err
}

func (w *Writer) Size() int    { return w.w.Size() }
func (w *Writer) Count() int64 { return w.count }
func (w *Writer) Err() error   { return w.err }

// setError records the first non-nil error.
// This preserves the root cause of a failure chain instead of a later,
// less relevant error.
func (w *Writer) setError(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// Result flushes the buffer and returns the final count and error state.
func (w *Writer) Result() (int64, error) {
	w.Flush()
	return w.count, w.err
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	// Only the outermost writer flushes, so nested codecs cannot flush early.
	if w.depth > 0 || w.err != nil {
		return w.err
	}
	err := w.w.Flush()
	w.setError(err)
	return err
}

// WriteFrom writes an io.WriterTo to the underlying destination.
func (w *Writer) WriteFrom(wt io.WriterTo) {
	if wt == nil || w.err != nil {
		return
	}
	n, err := wt.WriteTo(w.w)
	w.count += n
	w.setError(err)
}

// WriteBytes writes a byte slice.
func (w *Writer) WriteBytes(buf []byte) {
	if buf == nil || w.err != nil {
		return
	}
	_, _ = w.Write(buf)
}

// --- Primitive Write Operations ---

func (w *Writer) WriteBool(v bool) {
	if v {
		_ = w.WriteByte(1)
	} else {
		_ = w.WriteByte(0)
	}
}

func (w *Writer) WriteByte(v byte) error {
	if w.err != nil {
		return w.err
	}
	err := w.w.WriteByte(v)
	if err == nil {
		w.count++
	} else {
		w.err = err
	}
	return err
}

// WriteInt writes v in the Writer's byte order, using exactly its width.
func WriteInt[T FlatInt](w *Writer, v T) {
	writeInt(w, w.order, v)
}

func writeInt[T FlatInt](w *Writer, order binary.ByteOrder, v T) {
	if w.err != nil {
		return
	}
	var buf [8]byte
	size := int(unsafe.Sizeof(v))
	switch size {
	case 1:
		buf[0] = byte(v)
	case 2:
		order.PutUint16(buf[:], uint16(v))
	case 4:
		order.PutUint32(buf[:], uint32(v))
	default:
		order.PutUint64(buf[:], uint64(v))
	}
	_, _ = w.Write(buf[:size])
}
