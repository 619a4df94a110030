package prefixvec

import (
	"bufio"
	"bytes"
	"io"
)

type (
	bytesReaderAdapter       struct{ *bytes.Reader }
	bytesBufferWriterAdapter struct{ *bytes.Buffer }
	bytesBufferReaderAdapter struct{ *bytes.Buffer }
	bufioReaderAdapter       struct{ *bufio.Reader }
)

func (r *bytesReaderAdapter) Close() error       { return nil }
func (r *bufioReaderAdapter) Close() error       { return nil }
func (r *bytesBufferReaderAdapter) Close() error { return nil }
func (w *bytesBufferWriterAdapter) Flush() error { return nil }
func (w *bytesBufferWriterAdapter) Size() int    { return w.Available() }
func (r *bytesBufferReaderAdapter) Size() int    { return r.Len() }
func (r *bytesReaderAdapter) Size() int          { return int(r.Reader.Size()) }

func (r *bytesReaderAdapter) Remaining() int       { return r.Len() }
func (r *bytesBufferReaderAdapter) Remaining() int { return r.Len() }

// Remaining is unknown for a buffered stream: Buffered() is only a lower bound.
func (b *bufioReaderAdapter) Remaining() int { return -1 }

// Size returns the size of the underlying buffer.
func (b *bufioReaderAdapter) Size() int { return b.Reader.Size() }

// streamReader adapts a plain io.Reader without reading ahead. It holds at most
// one byte of push-back to satisfy io.ByteScanner.
type streamReader struct {
	r       io.Reader
	last    byte
	hasLast bool // last holds the most recently read byte
	unread  bool // last must be returned by the next read
	scratch [1]byte
}

func newStreamReader(r io.Reader) *streamReader {
	return &streamReader{r: r}
}

func (s *streamReader) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *streamReader) Size() int { return 0 }

// Remaining is known only when the stream is a length-limited frame.
func (s *streamReader) Remaining() int {
	pending := 0
	if s.unread {
		pending = 1
	}
	switch lr := s.r.(type) {
	case *LimitedReader:
		return int(lr.N) + pending
	case *io.LimitedReader:
		return int(lr.N) + pending
	}
	return -1
}

func (s *streamReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if s.unread {
		s.unread = false
		p[0] = s.last
		return 1, nil
	}
	n, err := s.r.Read(p)
	if n < 0 || n > len(p) {
		return 0, ErrInvalidRead
	}
	if n > 0 {
		s.last, s.hasLast = p[n-1], true
	}
	return n, err
}

func (s *streamReader) ReadByte() (byte, error) {
	if s.unread {
		s.unread = false
		return s.last, nil
	}
	if _, err := io.ReadFull(s.r, s.scratch[:]); err != nil {
		return 0, err
	}
	s.last, s.hasLast = s.scratch[0], true
	return s.last, nil
}

func (s *streamReader) UnreadByte() error {
	if !s.hasLast || s.unread {
		return ErrUnreadByte
	}
	s.unread = true
	return nil
}

// WriteTo copies the pushed-back byte, if any, then the rest of the stream.
func (s *streamReader) WriteTo(w io.Writer) (int64, error) {
	var n int64
	if s.unread {
		written, err := w.Write([]byte{s.last})
		n += int64(written)
		if err != nil {
			return n, err
		}
		s.unread = false
	}
	s.hasLast = false
	copied, err := io.Copy(w, s.r)
	return n + copied, err
}
