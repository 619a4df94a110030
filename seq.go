package prefixvec

import (
	"errors"
	"fmt"
	"io"
	"math"
	"unsafe"

	"go.uber.org/zap"
)

// Prefix is the set of integer types a sequence count is written as.
type Prefix interface {
	~uint8 | ~uint16 | ~uint32
}

// MaxCount returns the largest element count representable by P.
func MaxCount[P Prefix]() uint64 {
	return uint64(^P(0))
}

func prefixWidth[P Prefix]() int {
	var p P
	return int(unsafe.Sizeof(p))
}

// seq is a count-prefixed sequence of T. Its wire form is the element count as
// a little-endian P followed by the elements, with no padding or terminator.
type seq[P Prefix, T any] struct {
	Items []T
	elem  Element[T]
}

type (
	// U8Seq holds at most 255 elements behind a 1-byte count.
	U8Seq[T any] struct{ seq[uint8, T] }
	// U16Seq holds at most 65535 elements behind a 2-byte count.
	U16Seq[T any] struct{ seq[uint16, T] }
	// U32Seq holds at most 4294967295 elements behind a 4-byte count.
	U32Seq[T any] struct{ seq[uint32, T] }
)

var (
	_ Sequence = (*U8Seq[uint8])(nil)
	_ Sequence = (*U16Seq[uint8])(nil)
	_ Sequence = (*U32Seq[uint8])(nil)
)

func NewU8Seq[T any](items []T, elem Element[T]) *U8Seq[T] {
	return &U8Seq[T]{seq[uint8, T]{Items: items, elem: elem}}
}

func NewU16Seq[T any](items []T, elem Element[T]) *U16Seq[T] {
	return &U16Seq[T]{seq[uint16, T]{Items: items, elem: elem}}
}

func NewU32Seq[T any](items []T, elem Element[T]) *U32Seq[T] {
	return &U32Seq[T]{seq[uint32, T]{Items: items, elem: elem}}
}

func (s *seq[P, T]) Len() int            { return len(s.Items) }
func (s *seq[P, T]) MaxLen() uint64      { return MaxCount[P]() }
func (s *seq[P, T]) PrefixWidth() int    { return prefixWidth[P]() }
func (s *seq[P, T]) Element() Element[T] { return s.elem }

// Size returns the encoded size. Element codecs without ElementSizer are
// measured by encoding into a counter.
func (s *seq[P, T]) Size() int {
	size := prefixWidth[P]()
	switch e := s.elem.(type) {
	case nil:
		return size
	case FlatLayout[T]:
		return size + len(s.Items)*layoutOf[T]().size
	case ElementSizer[T]:
		for _, v := range s.Items {
			size += e.ElementSize(v)
		}
		return size
	}
	var c sizeCounter
	n, _ := s.WriteTo(&c)
	return int(n)
}

// WriteTo writes the count prefix and the elements. A sequence longer than the
// prefix can count fails with ErrCountOverflow before anything is written. On
// any other failure the amount flushed to writer is unspecified.
func (s *seq[P, T]) WriteTo(writer io.Writer) (int64, error) {
	return encode[P](writer, s.Items, s.elem)
}

// ReadFrom decodes a sequence, replacing Items only on success.
func (s *seq[P, T]) ReadFrom(reader io.Reader) (int64, error) {
	items, n, err := decode[P](reader, s.elem)
	if err != nil {
		return n, err
	}
	s.Items = items
	return n, nil
}

// --- Boilerplate implementations ---

func (s *seq[P, T]) MarshalBinary() ([]byte, error) {
	return MarshalBinaryGeneric(s)
}

func (s *seq[P, T]) UnmarshalBinary(data []byte) error {
	return UnmarshalBinaryGeneric(s, data)
}

func (s *seq[P, T]) MarshalTo(buf []byte) (int, error) {
	return MarshalToGeneric(s, buf)
}

// Encode writes items as a sequence with a count prefix of type P.
func Encode[P Prefix, T any](w io.Writer, items []T, elem Element[T]) (int64, error) {
	return encode[P](w, items, elem)
}

// Decode reads one sequence with a count prefix of type P. It consumes exactly
// the sequence's bytes from r, so consecutive sequences can share a stream.
func Decode[P Prefix, T any](r io.Reader, elem Element[T]) ([]T, int64, error) {
	return decode[P](r, elem)
}

func encode[P Prefix, T any](writer io.Writer, items []T, elem Element[T]) (int64, error) {
	if elem == nil {
		return 0, ErrNilElement
	}
	if !fits(len(items), MaxCount[P]()) {
		Logger().Debug("sequence too long for count prefix",
			zap.Int("prefix_width", prefixWidth[P]()),
			zap.Int("len", len(items)),
			zap.Uint64("max", MaxCount[P]()))
		return 0, fmt.Errorf("%w: %d elements, %d-byte prefix holds at most %d",
			ErrCountOverflow, len(items), prefixWidth[P](), MaxCount[P]())
	}

	zeroSized := layoutOf[T]().size == 0
	if zeroSized && len(items) > 0 {
		if err := checkZeroWidth(elem, items[0]); err != nil {
			return 0, err
		}
	}

	w, err := NewWriter(writer)
	if err != nil {
		return 0, err
	}
	writeInt(w, LE, P(len(items)))

	if flat, ok := elem.(FlatLayout[T]); ok {
		w.WriteBytes(flat.RawBytes(items))
		return w.Result()
	}
	if zeroSized {
		return w.Result()
	}
	for _, v := range items {
		if err := elem.EncodeElement(w, v); err != nil {
			w.setError(err)
			break
		}
	}
	return w.Result()
}

func decode[P Prefix, T any](reader io.Reader, elem Element[T]) ([]T, int64, error) {
	if elem == nil {
		return nil, 0, ErrNilElement
	}
	r, err := NewReader(reader)
	if err != nil {
		return nil, 0, err
	}

	width := prefixWidth[P]()
	count := readInt[P](r, LE)
	if err := r.Err(); err != nil {
		return nil, r.Count(), truncated(r, err, width, 0, 0)
	}
	if count == 0 {
		return []T{}, r.Count(), nil
	}
	if !fits(count, math.MaxInt) {
		return nil, r.Count(), fmt.Errorf("%w: claimed %d elements exceeds addressable length", ErrCountOverflow, count)
	}
	n := int(count)

	items, err := decodeItems(r, elem, n)
	if err != nil {
		return nil, r.Count(), truncated(r, err, width, n, len(items))
	}
	return items, r.Count(), nil
}

// decodeItems produces exactly n elements. On failure it returns the elements
// decoded so far, for error reporting only.
func decodeItems[T any](r *Reader, elem Element[T], n int) ([]T, error) {
	if bulk, ok := elem.(BulkReader[T]); ok {
		if _, flat := elem.(FlatLayout[T]); flat {
			return bulk.ReadBulk(r, n)
		}
	}

	size := layoutOf[T]().size
	if size == 0 {
		// The element is decoded once for its validation. A zero-sized value
		// carries no state, so every slot of the new slice already equals it.
		start := r.Count()
		if _, err := elem.DecodeElement(r); err != nil {
			return nil, err
		}
		if used := r.Count() - start; used != 0 {
			return nil, fmt.Errorf("%w: %T read %d bytes for a zero-sized element", ErrInvalidElement, elem, used)
		}
		return make([]T, n), nil
	}

	items := make([]T, 0, Cautious[T](n, r.Remaining()))
	for range n {
		start := r.Count()
		v, err := elem.DecodeElement(r)
		if err != nil {
			return items, err
		}
		// Every element must consume input, or the claimed count alone
		// would decide how much memory the loop takes.
		if r.Count() == start {
			return items, fmt.Errorf("%w: %T read no bytes for a %d-byte element", ErrInvalidElement, elem, size)
		}
		items = append(items, v)
	}
	return items, nil
}

// checkZeroWidth encodes v into a counter. Zero-sized elements are written
// as nothing and decoded once per sequence, so their codec must emit no bytes.
func checkZeroWidth[T any](elem Element[T], v T) error {
	var c sizeCounter
	w, err := NewWriter(&c)
	if err != nil {
		return err
	}
	if err := elem.EncodeElement(w, v); err != nil {
		return err
	}
	n, err := w.Result()
	if err != nil {
		return err
	}
	if n != 0 {
		return fmt.Errorf("%w: %T writes %d bytes for a zero-sized element", ErrInvalidElement, elem, n)
	}
	return nil
}

// truncated reports err as ErrTruncatedData when it, or the reader's latched
// error, says the stream ended early. Other element errors pass through unchanged.
func truncated(r *Reader, err error, width, claimed, decoded int) error {
	if errors.Is(err, ErrTruncatedData) || !(isEOF(err) || isEOF(r.Err())) {
		return err
	}
	Logger().Debug("sequence truncated",
		zap.Int("prefix_width", width),
		zap.Int("claimed", claimed),
		zap.Int("decoded", decoded),
		zap.Int64("offset", r.Count()))
	if claimed == 0 {
		return fmt.Errorf("%w: reading %d-byte count prefix: %w", ErrTruncatedData, width, err)
	}
	return fmt.Errorf("%w: element %d of %d: %w", ErrTruncatedData, decoded, claimed, err)
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// sizeCounter is an io.Writer that only counts.
type sizeCounter int64

func (c *sizeCounter) Write(p []byte) (int, error) {
	*c += sizeCounter(len(p))
	return len(p), nil
}
