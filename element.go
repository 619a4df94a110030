package prefixvec

import (
	"fmt"
	"reflect"
)

// Element encodes and decodes single values of T. Sequences delegate every
// per-element byte to it.
type Element[T any] interface {
	EncodeElement(w *Writer, v T) error
	DecodeElement(r *Reader) (T, error)
}

// FlatLayout is implemented by element codecs whose values have an in-memory
// image that is byte-identical to their wire encoding. Sequences of such
// elements are written with a single write of RawBytes.
//
// RawBytes may alias items; callers must not retain or modify the result.
type FlatLayout[T any] interface {
	Element[T]
	RawBytes(items []T) []byte
}

// BulkReader is implemented by flat element codecs that can read n contiguous
// elements at once. ReadBulk must return exactly n elements or an error, and
// must not reserve memory for elements whose bytes have not arrived.
type BulkReader[T any] interface {
	ReadBulk(r *Reader, n int) ([]T, error)
}

// ElementSizer reports the encoded size of one element, letting sequences
// compute Size without encoding.
type ElementSizer[T any] interface {
	ElementSize(v T) int
}

// PerElement hides any fast-path capability of e, so sequences using it always
// take the element-by-element route. The encoded bytes are identical.
func PerElement[T any](e Element[T]) Element[T] {
	return perElement[T]{e}
}

type perElement[T any] struct{ e Element[T] }

func (p perElement[T]) EncodeElement(w *Writer, v T) error { return p.e.EncodeElement(w, v) }
func (p perElement[T]) DecodeElement(r *Reader) (T, error) { return p.e.DecodeElement(r) }

// Bool encodes a bool as one byte. Only 0 and 1 are valid, so Bool is not flat.
type Bool struct{}

var _ ElementSizer[bool] = Bool{}

func (Bool) ElementSize(bool) int { return 1 }

func (Bool) EncodeElement(w *Writer, v bool) error {
	w.WriteBool(v)
	return w.Err()
}

func (Bool) DecodeElement(r *Reader) (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	if b > 1 {
		return false, fmt.Errorf("%w: bool byte 0x%02x", ErrInvalidElement, b)
	}
	return b == 1, nil
}

// Unit is the codec of a zero-sized element type such as struct{}. It writes
// and reads nothing. Validate, when set, runs on every decode. A T that
// occupies memory is rejected with ErrInvalidElement: it would let a count
// prefix alone decide how many values are allocated.
type Unit[T any] struct {
	Validate func() error
}

func (Unit[T]) ElementSize(T) int { return 0 }

func (Unit[T]) EncodeElement(*Writer, T) error {
	return unitType[T]()
}

func (u Unit[T]) DecodeElement(*Reader) (T, error) {
	var v T
	if err := unitType[T](); err != nil {
		return v, err
	}
	if u.Validate != nil {
		if err := u.Validate(); err != nil {
			return v, err
		}
	}
	return v, nil
}

func unitType[T any]() error {
	if size := layoutOf[T]().size; size != 0 {
		return fmt.Errorf("%w: Unit of %d-byte %s", ErrInvalidElement, size, reflect.TypeFor[T]())
	}
	return nil
}

// Nested encodes elements that are complete codecs themselves, such as
// *Fixed structs or other sequences. New, when set, supplies the value each
// element is decoded into; sequences need it to carry their element codec.
type Nested[T any, PT interface {
	*T
	Codec
}] struct {
	New func() T
}

func (Nested[T, PT]) ElementSize(v T) int { return PT(&v).Size() }

func (Nested[T, PT]) EncodeElement(w *Writer, v T) error {
	w.WriteFrom(PT(&v))
	return w.Err()
}

func (e Nested[T, PT]) DecodeElement(r *Reader) (T, error) {
	var v T
	if e.New != nil {
		v = e.New()
	}
	r.ReadTo(PT(&v))
	return v, r.Err()
}
