package packet

import (
	"encoding/binary"
	"errors"

	"golang.org/x/text/encoding"
)

// ErrShortPacket reports a read past the end of the payload.
var ErrShortPacket = errors.New("packet too short")

// ErrTooLong reports a field that does not fit its length prefix.
var ErrTooLong = errors.New("field too long")

// Reader reads little-endian fields from a packet payload. Byte 0 is the
// opcode. Reads past the end return zero values and set Err.
type Reader struct {
	data []byte
	off  int
	enc  encoding.Encoding
	err  error
}

type ReaderOption func(*Reader)

// WithReadEncoding selects the text encoding of Str fields.
func WithReadEncoding(enc encoding.Encoding) ReaderOption {
	return func(r *Reader) { r.enc = enc }
}

func NewReader(data []byte, opts ...ReaderOption) *Reader {
	r := &Reader{data: data, off: 1, enc: DefaultEncoding}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reader) Opcode() byte {
	if len(r.data) == 0 {
		return 0
	}
	return r.data[0]
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.data) {
		r.err = ErrShortPacket
		r.off = len(r.data)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *Reader) U8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) U16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *Reader) U32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *Reader) I8() int8   { return int8(r.U8()) }
func (r *Reader) I16() int16 { return int16(r.U16()) }
func (r *Reader) I32() int32 { return int32(r.U32()) }

// Str reads a string prefixed by its u16 byte length.
func (r *Reader) Str() string {
	n := int(r.U16())
	raw := r.take(n)
	if len(raw) == 0 {
		return ""
	}
	if isASCII(raw) {
		return string(raw)
	}
	decoded, err := r.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}

// Bytes reads n raw bytes.
func (r *Reader) Bytes(n int) []byte {
	b := r.take(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

// Err returns ErrShortPacket if any read ran past the end.
func (r *Reader) Err() error { return r.err }
