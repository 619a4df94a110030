package prefixvec

import (
	"encoding/binary"
	"slices"
	"unsafe"
)

// FlatInt is the set of element types whose every bit pattern is a valid value
// and whose little-endian image is their wire encoding. Platform-sized int,
// uint and uintptr are excluded: their width is not part of the wire format.
type FlatInt interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// hostLittleEndian reports whether memory images of integers match the wire order.
var hostLittleEndian = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// Flat is the codec of fixed-width integers. It is the only built-in codec with
// the FlatLayout and BulkReader capabilities.
type Flat[T FlatInt] struct{}

var (
	_ FlatLayout[uint16]   = Flat[uint16]{}
	_ BulkReader[uint16]   = Flat[uint16]{}
	_ ElementSizer[uint16] = Flat[uint16]{}
)

func (Flat[T]) ElementSize(v T) int { return int(unsafe.Sizeof(v)) }

func (Flat[T]) EncodeElement(w *Writer, v T) error {
	writeInt(w, LE, v)
	return w.Err()
}

func (Flat[T]) DecodeElement(r *Reader) (T, error) {
	v := readInt[T](r, LE)
	return v, r.Err()
}

// RawBytes returns the wire image of items. On little-endian hosts it is a view
// of the items' own memory.
func (Flat[T]) RawBytes(items []T) []byte {
	if len(items) == 0 {
		return nil
	}
	size := int(unsafe.Sizeof(items[0]))
	if hostLittleEndian {
		return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(items))), len(items)*size)
	}
	buf := make([]byte, len(items)*size)
	for i, v := range items {
		putLE(buf[i*size:], uint64(v), size)
	}
	return buf
}

// ReadBulk reads n elements in chunks of at most MaxPreallocation bytes, so the
// slice only grows as the stream proves it holds the data.
func (Flat[T]) ReadBulk(r *Reader, n int) ([]T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	chunk := max(1, MaxPreallocation/size)

	items := make([]T, 0, Cautious[T](n, r.Remaining()))
	for len(items) < n {
		start := len(items)
		k := min(chunk, n-start)
		items = slices.Grow(items, k)[:start+k]
		readFlat(r, items[start:], size)
		if err := r.Err(); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// readFlat fills dst from the little-endian image on the stream.
func readFlat[T FlatInt](r *Reader, dst []T, size int) {
	if hostLittleEndian {
		r.ReadBytesTo(unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(dst))), len(dst)*size))
		return
	}

	bufPtr := bufPool.Get().(*[]byte)
	defer bufPool.Put(bufPtr)
	buf := (*bufPtr)[:len(dst)*size]

	r.ReadBytesTo(buf)
	if r.Err() != nil {
		return
	}
	for i := range dst {
		dst[i] = T(getLE(buf[i*size:], size))
	}
}

func putLE(b []byte, v uint64, size int) {
	for i := 0; i < size; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func getLE(b []byte, size int) uint64 {
	var v uint64
	for i := 0; i < size; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}
