package packet

import (
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/text/encoding"
)

// Writer builds a packet payload. All multi-byte writes are little-endian.
type Writer struct {
	buf []byte
	enc encoding.Encoding
}

type WriterOption func(*Writer)

// WithWriteEncoding selects the text encoding of Str fields.
func WithWriteEncoding(enc encoding.Encoding) WriterOption {
	return func(w *Writer) { w.enc = enc }
}

// NewWriter starts a packet with its opcode.
func NewWriter(opcode byte, opts ...WriterOption) *Writer {
	w := &Writer{buf: make([]byte, 0, 64), enc: DefaultEncoding}
	for _, opt := range opts {
		opt(w)
	}
	w.buf = append(w.buf, opcode)
	return w
}

func (w *Writer) U8(v uint8) *Writer {
	w.buf = append(w.buf, v)
	return w
}

func (w *Writer) U16(v uint16) *Writer {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
	return w
}

func (w *Writer) U32(v uint32) *Writer {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
	return w
}

func (w *Writer) I8(v int8) *Writer   { return w.U8(uint8(v)) }
func (w *Writer) I16(v int16) *Writer { return w.U16(uint16(v)) }
func (w *Writer) I32(v int32) *Writer { return w.U32(uint32(v)) }

// Str writes s prefixed by its encoded u16 byte length. Strings the
// encoding cannot represent, or longer than 65535 bytes, are an error.
func (w *Writer) Str(s string) error {
	raw := []byte(s)
	if !isASCII(raw) {
		encoded, err := w.enc.NewEncoder().Bytes(raw)
		if err != nil {
			return fmt.Errorf("encode packet string: %w", err)
		}
		raw = encoded
	}
	if len(raw) > math.MaxUint16 {
		return fmt.Errorf("packet string of %d bytes: %w", len(raw), ErrTooLong)
	}
	w.U16(uint16(len(raw)))
	w.buf = append(w.buf, raw...)
	return nil
}

func (w *Writer) Raw(b []byte) *Writer {
	w.buf = append(w.buf, b...)
	return w
}

// Bytes returns the packet, opcode first.
func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) Len() int { return len(w.buf) }
