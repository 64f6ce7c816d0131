package socket

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goto-10/plankton/binary"
	"github.com/goto-10/plankton/marshal"
	"github.com/goto-10/plankton/wire"
)

var errNoPendingMessage = errors.New("socket: no pending message to pull")

// InstrStatus is the tri-state outcome of processing one instruction.
type InstrStatus int

const (
	// InstrSuccess means a directive was processed and more may follow.
	InstrSuccess InstrStatus = iota
	// InstrEOF means a clean end of stream was reached: either the
	// explicit EOF directive byte, or the underlying stream itself ended
	// while reading a fresh directive's tag byte.
	InstrEOF
	// InstrError means a structural wire error occurred; processing
	// should stop.
	InstrError
)

// InputSocket reads an InputSocket's counterpart stream: the magic
// header, then directives, demultiplexing SendValue blocks to the
// InputStream registered for their target stream id.
type InputSocket struct {
	src                 io.Reader
	cursor              int
	inited              bool
	factory             StreamFactory
	factoryLocked       bool
	streams             map[string]InputStream
	defaultTypeRegistry *marshal.TypeRegistry
	defaultCharset      string
	rootStream          InputStream
}

// NewInputSocket returns an InputSocket reading from src.
func NewInputSocket(src io.Reader) *InputSocket {
	return &InputSocket{src: src}
}

// SetStreamFactory installs the factory used to create a stream the
// first time a SendValue block names an id the socket hasn't seen. It
// fails once Init has been called.
func (s *InputSocket) SetStreamFactory(factory StreamFactory) bool {
	if s.factoryLocked {
		return false
	}
	s.factory = factory
	return true
}

// SetDefaultTypeRegistry sets the registry new streams are created
// with, absent a more specific one installed on the stream itself.
func (s *InputSocket) SetDefaultTypeRegistry(registry *marshal.TypeRegistry) {
	s.defaultTypeRegistry = registry
}

// RootStream returns the stream installed for the root stream id during
// Init.
func (s *InputSocket) RootStream() InputStream { return s.rootStream }

// Init reads and validates the 8-byte magic header and installs the
// root stream. It fails if the magic doesn't match.
func (s *InputSocket) Init() error {
	if s.inited {
		return nil
	}
	s.factoryLocked = true
	if s.factory == nil {
		s.factory = func(config *InputStreamConfig) InputStream {
			return NewBufferInputStream(config)
		}
	}
	magic := make([]byte, len(wire.Magic))
	if _, err := io.ReadFull(s.src, magic); err != nil {
		return fmt.Errorf("socket: reading magic: %w", err)
	}
	s.cursor += len(magic)
	if !bytes.Equal(magic, wire.Magic[:]) {
		Logger.Error().Int("offset", s.cursor-len(magic)).Hex("got", magic).Msg("socket: magic mismatch")
		return fmt.Errorf("socket: magic mismatch: got %x, want %x", magic, wire.Magic)
	}
	s.streams = make(map[string]InputStream)
	rootID := RootStreamID()
	s.rootStream = s.factory(&InputStreamConfig{ID: rootID, DefaultTypeRegistry: s.defaultTypeRegistry, DefaultCharset: s.defaultCharset})
	s.streams[rootID.String()] = s.rootStream
	s.inited = true
	return nil
}

func (s *InputSocket) readByte() (byte, error) {
	var b [1]byte
	n, err := io.ReadFull(s.src, b[:])
	s.cursor += n
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (s *InputSocket) readBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(s.src, buf)
	s.cursor += read
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *InputSocket) readUvarint() (uint64, error) {
	var raw []byte
	for {
		b, err := s.readByte()
		if err != nil {
			return 0, err
		}
		raw = append(raw, b)
		value, n := binary.DecodeUvarint(raw)
		if n > 0 {
			return value, nil
		}
	}
}

func (s *InputSocket) readPadding() error {
	pad := (8 - s.cursor%8) % 8
	if pad == 0 {
		return nil
	}
	_, err := s.readBytes(pad)
	return err
}

func (s *InputSocket) readFrame() ([]byte, error) {
	size, err := s.readUvarint()
	if err != nil {
		return nil, err
	}
	data, err := s.readBytes(int(size))
	if err != nil {
		Logger.Warn().Int("offset", s.cursor).Uint64("want_size", size).Err(err).Msg("socket: truncated frame")
		return nil, err
	}
	if err := s.readPadding(); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *InputSocket) getOrCreateStream(id StreamID) InputStream {
	key := id.String()
	if stream, ok := s.streams[key]; ok {
		return stream
	}
	stream := s.factory(&InputStreamConfig{ID: id, DefaultTypeRegistry: s.defaultTypeRegistry, DefaultCharset: s.defaultCharset})
	s.streams[key] = stream
	return stream
}

// ProcessNextInstruction reads and processes one directive. Structural
// wire errors (truncated frame, unknown directive) yield InstrError with
// the describing error; a clean end of input yields InstrEOF with a nil
// error.
func (s *InputSocket) ProcessNextInstruction() (InstrStatus, error) {
	tag, err := s.readByte()
	if err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return InstrEOF, nil
		}
		return InstrError, err
	}
	switch wire.Directive(tag) {
	case wire.DirectiveEOF:
		_ = s.readPadding()
		return InstrEOF, nil
	case wire.DirectiveSetDefaultStringEncoding:
		id, err := s.readUvarint()
		if err != nil {
			return InstrError, err
		}
		if err := s.readPadding(); err != nil {
			return InstrError, err
		}
		charset, ok := wire.CharsetName(id)
		if !ok {
			return InstrError, fmt.Errorf("socket: unknown charset id %d", id)
		}
		s.defaultCharset = charset
		for _, stream := range s.streams {
			if setter, ok := stream.(defaultCharsetSetter); ok {
				setter.SetDefaultCharset(charset)
			}
		}
		return InstrSuccess, nil
	case wire.DirectiveSendValue:
		idBytes, err := s.readFrame()
		if err != nil {
			return InstrError, err
		}
		valueBytes, err := s.readFrame()
		if err != nil {
			return InstrError, err
		}
		stream := s.getOrCreateStream(NewStreamID(idBytes))
		stream.ReceiveBlock(valueBytes)
		return InstrSuccess, nil
	default:
		Logger.Warn().Int("offset", s.cursor-1).Uint8("tag", tag).Msg("socket: unknown directive byte")
		return InstrError, fmt.Errorf("socket: unknown directive byte %d", tag)
	}
}

// ProcessAllInstructions loops ProcessNextInstruction until a clean EOF
// or an error, returning the error (nil on clean EOF).
func (s *InputSocket) ProcessAllInstructions() error {
	for {
		status, err := s.ProcessNextInstruction()
		switch status {
		case InstrEOF:
			return nil
		case InstrError:
			return err
		}
	}
}
