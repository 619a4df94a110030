package prefixvec

import "io"

// LimitedReader bounds a stream to a known frame length. Decoding from it lets
// sequences size their allocations against the bytes actually left in the frame.
type LimitedReader struct {
	*io.LimitedReader
}

// LimitReader returns a reader that yields at most n bytes from r.
func LimitReader(r io.Reader, n int64) *LimitedReader {
	return &LimitedReader{&io.LimitedReader{R: r, N: n}}
}

// Close closes the underlying reader if it implements io.Closer.
func (r *LimitedReader) Close() error {
	if c, ok := r.R.(io.Closer); ok {
		return c.Close()
	}

	return nil
}

// Remaining returns the number of bytes left in the frame.
func (r *LimitedReader) Remaining() int {
	return int(r.N)
}
