package prefixvec

import "errors"

var (
	// ErrNilIO indicates that NewReader/NewWriter was called with an nil interface
	ErrNilIO = errors.New("prefixvec: NewReader/NewWriter called with a nil io.Reader/io.Writer")

	// ErrNilElement indicates a sequence was encoded or decoded without an element codec.
	ErrNilElement = errors.New("prefixvec: sequence has no element codec")

	// ErrSizeTooSmall indicates a size conflict with bufio
	ErrSizeTooSmall = errors.New("prefixvec: NewReaderSize with a size smaller than 16 conflict with bufio")

	// ErrAlreadyBuffered indicates that NewReader/NewWriter was called with an already-buffered
	// reader/writer, which would lead to unpredictable behavior and performance issues.
	ErrAlreadyBuffered = errors.New("prefixvec: reader or writer is already buffered")

	// ErrWriteToNil indicates a WriteTo operation was attempted on a nil io.Writer.
	ErrWriteToNil = errors.New("prefixvec: WriteTo called with a nil io.Writer")

	// ErrInvalidWrite indicates that an io.Writer returned an invalid (negative) count from Write.
	ErrInvalidWrite = errors.New("prefixvec: writer returned invalid count from Write")

	// ErrInvalidRead indicates that an io.Reader returned an invalid (negative or outbound) count from Read.
	ErrInvalidRead = errors.New("prefixvec: reader returned invalid count from Read")

	// ErrUnreadByte indicates UnreadByte was called without a preceding ReadByte.
	ErrUnreadByte = errors.New("prefixvec: UnreadByte without a preceding ReadByte")

	// ErrTrailingData is returned by UnmarshalBinaryGeneric when non-zero bytes are found
	// after the expected end of the data structure.
	ErrTrailingData = errors.New("prefixvec: non-zero trailing data found after decoding")

	// ErrTruncatedData indicates that the stream ended before the count prefix or an
	// element's bytes were fully available.
	ErrTruncatedData = errors.New("prefixvec: truncated data")

	// ErrCountOverflow indicates a sequence holds more elements than its count prefix
	// can represent. It is reported before any byte is written.
	ErrCountOverflow = errors.New("prefixvec: element count overflows prefix width")

	// ErrNotFixedSize indicates a Fixed payload contains variable-size fields.
	ErrNotFixedSize = errors.New("prefixvec: payload has no fixed binary size")

	// ErrInvalidElement is returned by the built-in element codecs when the bytes read
	// are not a valid encoding of the element type.
	ErrInvalidElement = errors.New("prefixvec: invalid element encoding")
)
