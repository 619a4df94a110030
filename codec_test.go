package prefixvec

import (
	"bufio"
	"bytes"
	"io"
	"sync"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Mocks and Helpers ---

// A simple fixed-size struct for testing codec implementations.
type mockPayload struct {
	ID   uint32
	Data [4]byte
}

type mockCodec = Fixed[mockPayload]

// mockFlushingWriter helps verify that a writer's Flush method is called.
type mockFlushingWriter struct {
	bytes.Buffer
	flushed bool
}

func (m *mockFlushingWriter) Flush() error {
	m.flushed = true
	return nil
}

func bufioWriter(size int) *bufio.Writer { return bufio.NewWriterSize(io.Discard, size) }
func bufioReader(b []byte) *bufio.Reader { return bufio.NewReader(bytes.NewReader(b)) }

// --- Writer Test Suite ---

type WriterTestSuite struct {
	suite.Suite
	buf    *bytes.Buffer
	writer *Writer
}

func (s *WriterTestSuite) SetupTest() {
	s.buf = &bytes.Buffer{}
	s.writer, _ = NewWriter(s.buf)
}

func (s *WriterTestSuite) TestConstructors() {
	s.T().Run("NilWriter", func(t *testing.T) {
		_, err := NewWriter(nil)
		assert.ErrorIs(t, err, ErrNilIO)
	})

	s.T().Run("AlreadyBuffered", func(t *testing.T) {
		_, err := NewWriterSize(bufioWriter(16), 64)
		assert.ErrorIs(t, err, ErrAlreadyBuffered)
	})
}

func (s *WriterTestSuite) TestBasicWrites() {
	codec := &mockCodec{mockPayload{ID: 0xDEADBEEF, Data: [4]byte{1, 2, 3, 4}}}

	WriteInt(s.writer, uint8(0xAA))
	WriteInt(s.writer, uint16(0xBBCC))
	WriteInt(s.writer, uint32(0xDDEEFF00))
	WriteInt(s.writer, uint64(0x0102030405060708))
	s.writer.WriteBytes([]byte{5, 6, 7})
	s.writer.WriteFrom(codec)

	n, err := s.writer.Result()
	s.Require().NoError(err)
	s.Assert().EqualValues(1+2+4+8+3+8, n)
	s.Assert().EqualValues(s.buf.Len(), s.writer.Count())

	expected := []byte{
		0xAA,       // uint8
		0xCC, 0xBB, // uint16 (Little Endian)
		0x00, 0xFF, 0xEE, 0xDD, // uint32 (Little Endian)
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01, // uint64 (Little Endian)
		5, 6, 7, // WriteBytes
		0xEF, 0xBE, 0xAD, 0xDE, 1, 2, 3, 4, // WriteFrom(codec)
	}
	s.Assert().Equal(expected, s.buf.Bytes())
}

func (s *WriterTestSuite) TestByteOrder() {
	WriteInt(s.writer.WithByteOrder(BE), uint16(0x0102))
	_, err := Encode[uint16](s.writer, []uint16{0x0102}, Flat[uint16]{})
	s.Require().NoError(err)

	n, err := s.writer.Result()
	s.Require().NoError(err)
	s.Assert().Equal([]byte{0x01, 0x02, 0x01, 0x00, 0x02, 0x01}, s.buf.Bytes(), "sequences stay little-endian")
	s.Assert().EqualValues(6, n, "bytes encoded through a nested Writer are counted by the outer one")
}

func (s *WriterTestSuite) TestErrorHandling() {
	s.T().Run("ShortBufferError", func(t *testing.T) {
		fixedBuf := make([]byte, 5)
		writer, _ := NewWriter(NewBytesWriter(fixedBuf))

		WriteInt(writer, uint32(0x11223344))
		WriteInt(writer, uint32(0xAABBCCDD))

		_, err := writer.Result()
		require.Error(t, err)
		assert.ErrorIs(t, err, io.ErrShortWrite)
	})

	s.T().Run("WriteAfterErrorIsNoOp", func(t *testing.T) {
		fixedBuf := make([]byte, 5)
		writer, _ := NewWriter(NewBytesWriter(fixedBuf))

		WriteInt(writer, uint32(0x11223344))
		WriteInt(writer, uint32(0xAABBCCDD))

		firstErr := writer.Err()
		require.ErrorIs(t, firstErr, io.ErrShortWrite)

		WriteInt(writer, uint8(0xFF))
		writer.Flush()

		assert.Equal(t, firstErr, writer.Err(), "The latched error should not change")
		// 4 bytes of the first write and 1 byte of the second fit.
		assert.Equal(t, []byte{0x44, 0x33, 0x22, 0x11, 0xDD}, fixedBuf)
		assert.EqualValues(t, 5, writer.Count())
	})
}

func (s *WriterTestSuite) TestFlush() {
	mock := &mockFlushingWriter{}
	writer, _ := NewWriterSize(mock, 128)
	WriteInt(writer, uint8(0xAA))

	// Before flush, data is in the buffer, but not in the underlying writer.
	s.Assert().True(writer.w.(*bufio.Writer).Buffered() > 0)
	s.Assert().False(mock.flushed)
	s.Assert().Zero(mock.Len())

	writer.Flush()

	s.Assert().False(mock.flushed, "bufio.Writer does not forward Flush to its destination")
	s.Assert().Zero(writer.w.(*bufio.Writer).Buffered())
	s.Assert().Equal(1, mock.Buffer.Len())
}

func (s *WriterTestSuite) TestNestedWriterDoesNotFlush() {
	mock := &mockFlushingWriter{}
	outer, _ := NewWriterSize(mock, 128)
	inner, err := NewWriter(outer)
	s.Require().NoError(err)

	WriteInt(inner, uint8(0x01))
	_, err = inner.Result()
	s.Require().NoError(err)
	s.Assert().Zero(mock.Len(), "only the outermost writer flushes")

	n, err := outer.Result()
	s.Require().NoError(err)
	s.Assert().Equal([]byte{0x01}, mock.Bytes())
	s.Assert().EqualValues(1, n)
}

func (s *WriterTestSuite) TestNestedWriterSharesError() {
	outer, _ := NewWriter(NewBytesWriter(make([]byte, 3)))
	inner, err := NewWriter(outer)
	s.Require().NoError(err)

	WriteInt(inner, uint32(0x01020304))
	s.Assert().ErrorIs(inner.Err(), io.ErrShortWrite)
	s.Assert().ErrorIs(outer.Err(), io.ErrShortWrite, "the outer Writer latches the failure too")
	s.Assert().EqualValues(3, outer.Count())
}

func TestWriter(t *testing.T) {
	suite.Run(t, new(WriterTestSuite))
}

// --- Reader Test Suite ---

type ReaderTestSuite struct {
	suite.Suite
}

func (s *ReaderTestSuite) TestConstructors() {
	s.T().Run("NilReader", func(t *testing.T) {
		_, err := NewReader(nil)
		assert.ErrorIs(t, err, ErrNilIO)
	})

	s.T().Run("BufferedTooSmall", func(t *testing.T) {
		_, err := NewReaderSize(iotest.OneByteReader(bytes.NewReader(nil)), 8)
		assert.ErrorIs(t, err, ErrSizeTooSmall)
	})
}

func (s *ReaderTestSuite) TestSuccessfulReads() {
	data := []byte{
		0xAA,       // uint8
		0xCC, 0xBB, // uint16
		0x00, 0xFF, 0xEE, 0xDD, // uint32
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01, // uint64
		0x11, 0x22, 0x33, // raw bytes
	}
	r, _ := NewReader(bytes.NewReader(data))

	v8 := ReadInt[uint8](r)
	v16 := ReadInt[uint16](r)
	v32 := ReadInt[uint32](r)
	v64 := ReadInt[uint64](r)
	read := r.ReadBytes(3)

	s.Require().NoError(r.Err())
	s.Assert().Equal(uint8(0xAA), v8)
	s.Assert().Equal(uint16(0xBBCC), v16)
	s.Assert().Equal(uint32(0xDDEEFF00), v32)
	s.Assert().Equal(uint64(0x0102030405060708), v64)
	s.Assert().Equal([]byte{0x11, 0x22, 0x33}, read)
	s.Assert().EqualValues(len(data), r.Count())

	// The next read should result in a clean EOF.
	r.Read(make([]byte, 1))
	s.Assert().ErrorIs(r.Err(), io.EOF)
	s.Assert().True(r.IsEOF())
}

func (s *ReaderTestSuite) TestErrorHandling() {
	s.T().Run("ReadPastEOF", func(t *testing.T) {
		r, _ := NewReader(bytes.NewReader([]byte{0x01, 0x02, 0x03}))
		v32 := ReadInt[uint32](r)

		assert.Zero(t, v32)
		require.Error(t, r.Err())
		assert.ErrorIs(t, r.Err(), io.ErrUnexpectedEOF)
		assert.False(t, r.IsEOF(), "ErrUnexpectedEOF should not be considered a clean EOF")
	})

	s.T().Run("ReadAfterErrorIsNoOp", func(t *testing.T) {
		r, _ := NewReader(bytes.NewReader([]byte{0x01, 0x02, 0x03}))
		_ = ReadInt[uint32](r)
		firstErr := r.Err()
		require.Error(t, firstErr)

		v8 := ReadInt[uint8](r)
		assert.Equal(t, firstErr, r.Err(), "The latched error should not change")
		assert.Equal(t, uint8(0), v8, "Reads after an error return zero")
	})
}

func (s *ReaderTestSuite) TestInterfaceMethods() {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

	s.T().Run("WriteTo", func(t *testing.T) {
		r, _ := NewReader(bytes.NewReader(data))
		var buf bytes.Buffer
		n, err := r.WriteTo(&buf)
		require.NoError(t, err)
		assert.EqualValues(t, len(data), n)
		assert.Equal(t, data, buf.Bytes())
	})

	s.T().Run("WriteToNilWriter", func(t *testing.T) {
		r, _ := NewReader(bytes.NewReader(data))
		_, err := r.WriteTo(nil)
		assert.ErrorIs(t, err, ErrWriteToNil)
	})
}

func (s *ReaderTestSuite) TestRemaining() {
	data := make([]byte, 10)

	s.T().Run("KnownSources", func(t *testing.T) {
		for name, src := range map[string]io.Reader{
			"BytesReader":  NewBytesReader(data),
			"bytes.Reader": bytes.NewReader(data),
			"bytes.Buffer": bytes.NewBuffer(data),
			"LimitReader":  LimitReader(iotest.OneByteReader(bytes.NewReader(data)), 7),
		} {
			r, err := NewReader(src)
			require.NoError(t, err, name)
			want := 10
			if name == "LimitReader" {
				want = 7
			}
			assert.Equal(t, want, r.Remaining(), name)
			r.ReadBytes(3)
			assert.Equal(t, want-3, r.Remaining(), name)
		}
	})

	s.T().Run("UnknownStream", func(t *testing.T) {
		r, _ := NewReader(iotest.OneByteReader(bytes.NewReader(data)))
		assert.Equal(t, -1, r.Remaining())
	})
}

func (s *ReaderTestSuite) TestStreamReaderNeverReadsAhead() {
	src := bytes.NewReader([]byte{1, 2, 3, 4, 5})
	r, _ := NewReader(iotest.OneByteReader(src))

	s.Assert().Equal([]byte{1, 2}, r.ReadBytes(2))
	s.Require().NoError(r.Err())
	s.Assert().Equal(3, src.Len(), "underlying stream advanced only by what was read")
}

func (s *ReaderTestSuite) TestUnreadByte() {
	for name, src := range map[string]io.Reader{
		"stream":      iotest.OneByteReader(bytes.NewReader([]byte{7, 8})),
		"BytesReader": NewBytesReader([]byte{7, 8}),
		"bufio":       bufioReader([]byte{7, 8}),
	} {
		r, _ := NewReader(src)
		b, err := r.ReadByte()
		s.Require().NoError(err, name)
		s.Require().Equal(byte(7), b, name)

		s.Require().NoError(r.UnreadByte(), name)
		s.Assert().EqualValues(0, r.Count(), name)
		s.Assert().Equal([]byte{7, 8}, r.ReadBytes(2), name)
	}

	r, _ := NewReader(iotest.OneByteReader(bytes.NewReader([]byte{7})))
	s.Assert().ErrorIs(r.UnreadByte(), ErrUnreadByte)
}

func TestReader(t *testing.T) {
	suite.Run(t, new(ReaderTestSuite))
}

// --- Standalone Codec Tests ---

func TestFixedSizeCodec_SizeCache(t *testing.T) {
	c := &mockCodec{mockPayload{ID: 1}}
	expectedSize := 8 // uint32(4) + [4]byte(4)

	assert.Equal(t, expectedSize, c.Size())
	assert.Equal(t, expectedSize, c.Size())

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c2 := &mockCodec{mockPayload{ID: 2}}
			assert.Equal(t, expectedSize, c2.Size())
		}()
	}
	wg.Wait()
}

func TestFixedSizeCodec_RoundTrip(t *testing.T) {
	c := &mockCodec{mockPayload{ID: 0x01020304, Data: [4]byte{9, 8, 7, 6}}}
	data, err := c.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{4, 3, 2, 1, 9, 8, 7, 6}, data)

	var got mockCodec
	require.NoError(t, got.UnmarshalBinary(append(data, 0, 0)), "zero padding is accepted")
	assert.Equal(t, c.Payload, got.Payload)
}

func TestFixedSizeCodec_Errors(t *testing.T) {
	t.Run("MarshalToShortBuffer", func(t *testing.T) {
		c := &mockCodec{}
		shortBuf := make([]byte, c.Size()-1)
		_, err := c.MarshalTo(shortBuf)
		assert.ErrorIs(t, err, io.ErrShortWrite)
	})

	t.Run("UnmarshalWithTruncatedData", func(t *testing.T) {
		c := &mockCodec{}
		validData, _ := c.MarshalBinary()

		err := c.UnmarshalBinary(validData[:len(validData)-1])
		assert.ErrorIs(t, err, ErrTruncatedData)
	})

	t.Run("UnmarshalWithTrailingData", func(t *testing.T) {
		c := &mockCodec{}
		validData, _ := c.MarshalBinary()

		err := c.UnmarshalBinary(append(validData, 0x01, 0x02, 0x03))
		assert.ErrorIs(t, err, ErrTrailingData)
		assert.Contains(t, err.Error(), "non-zero byte")
	})

	t.Run("VariableSizePayload", func(t *testing.T) {
		c := &Fixed[struct{ Name string }]{}
		assert.Equal(t, -1, c.Size())
		_, err := c.MarshalBinary()
		assert.ErrorIs(t, err, ErrNotFixedSize)
	})
}
