package prefixvec

import (
	"github.com/vmihailenco/msgpack/v5"
)

// Msgpack encodes each element as a self-delimiting MessagePack value, which
// lets sequences hold composite values (structs, maps, strings) without an
// extra length per element.
//
// Decoding reads through the sequence's Reader, which implements
// io.ByteScanner, so the msgpack decoder never reads past the element.
type Msgpack[T any] struct{}

func (Msgpack[T]) EncodeElement(w *Writer, v T) error {
	enc := msgpack.GetEncoder()
	defer msgpack.PutEncoder(enc)

	enc.Reset(w)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return w.Err()
}

func (Msgpack[T]) DecodeElement(r *Reader) (T, error) {
	dec := msgpack.GetDecoder()
	defer msgpack.PutDecoder(dec)

	var v T
	dec.Reset(r)
	if err := dec.Decode(&v); err != nil {
		return v, err
	}
	return v, nil
}
