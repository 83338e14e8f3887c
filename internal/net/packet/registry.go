package packet

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrEmptyPacket reports a packet without an opcode byte.
var ErrEmptyPacket = errors.New("empty packet")

// HandlerFunc handles one packet. The reader is positioned after the opcode.
type HandlerFunc func(r *Reader) error

// Registry maps opcodes to handlers.
type Registry struct {
	handlers map[byte]HandlerFunc
	readOpts []ReaderOption
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger, opts ...ReaderOption) *Registry {
	return &Registry{
		handlers: make(map[byte]HandlerFunc),
		readOpts: opts,
		log:      log,
	}
}

// Register maps an opcode to a handler, replacing any previous one.
func (reg *Registry) Register(opcode byte, fn HandlerFunc) {
	reg.handlers[opcode] = fn
}

func (reg *Registry) Handles(opcode byte) bool {
	_, ok := reg.handlers[opcode]
	return ok
}

// Dispatch calls the handler for the opcode in data[0]. Unknown opcodes are
// logged and ignored.
func (reg *Registry) Dispatch(data []byte) error {
	if len(data) == 0 {
		return ErrEmptyPacket
	}
	opcode := data[0]
	fn, ok := reg.handlers[opcode]
	if !ok {
		reg.log.Debug("unknown opcode", zap.Uint8("opcode", opcode), zap.Int("size", len(data)))
		return nil
	}
	r := NewReader(data, reg.readOpts...)
	if err := reg.safeCall(fn, r, opcode); err != nil {
		return err
	}
	if r.Err() != nil {
		return fmt.Errorf("opcode %d: %w", opcode, r.Err())
	}
	return nil
}

// safeCall recovers handler panics so one bad packet cannot stop the loop.
func (reg *Registry) safeCall(fn HandlerFunc, r *Reader, opcode byte) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reg.log.Error("packet handler panic recovered",
				zap.Uint8("opcode", opcode),
				zap.Any("panic", rec),
			)
			err = fmt.Errorf("handler panic for opcode %d: %v", opcode, rec)
		}
	}()
	if err := fn(r); err != nil {
		return fmt.Errorf("opcode %d: %w", opcode, err)
	}
	return nil
}
