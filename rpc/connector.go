package rpc

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/goto-10/plankton/bytestream"
	"github.com/goto-10/plankton/socket"
	"github.com/goto-10/plankton/variant"
)

// StreamServiceConnector wires a MessageSocket to a pair of byte
// streams: one read as a socket.InputSocket, one written as a
// socket.OutputSocket. This is plankton's native, in-process transport
// -- the plain bytestream counterpart to the JSON and gRPC bridges,
// which exist purely for interop with callers that don't speak
// plankton's wire format at all.
type StreamServiceConnector struct {
	in       *socket.InputSocket
	out      *socket.OutputSocket
	messages *MessageSocket
	opts     []Option
	log      zerolog.Logger
}

// NewStreamServiceConnector prepares a connector reading src and
// writing dest. Call Init with the request handler (typically a
// Service's Handler()) before exchanging any messages.
func NewStreamServiceConnector(src bytestream.Stream, dest bytestream.Stream, arena *variant.Arena, opts ...Option) *StreamServiceConnector {
	return &StreamServiceConnector{
		in:   socket.NewInputSocket(src),
		out:  socket.NewOutputSocket(dest, arena),
		opts: opts,
		log:  loggerFromOptions(opts),
	}
}

// Init initializes both underlying sockets and creates the
// MessageSocket that will dispatch incoming requests to handler.
func (c *StreamServiceConnector) Init(handler RequestHandler) error {
	if err := c.out.Init(); err != nil {
		c.log.Error().Err(err).Msg("rpc: connector output init failed")
		return fmt.Errorf("rpc: connector output init: %w", err)
	}
	var root *socket.PushInputStream
	c.in.SetStreamFactory(func(config *socket.InputStreamConfig) socket.InputStream {
		stream := socket.NewPushInputStream(config)
		root = stream
		return stream
	})
	if err := c.in.Init(); err != nil {
		c.log.Error().Err(err).Msg("rpc: connector input init failed")
		return fmt.Errorf("rpc: connector input init: %w", err)
	}
	c.messages = NewMessageSocket(root, c.out, handler, c.opts...)
	c.log.Info().Msg("rpc: connector initialized")
	return nil
}

// SendRequest sends request over the connector's MessageSocket and
// returns a promise for its response.
func (c *StreamServiceConnector) SendRequest(request *OutgoingRequest) (*IncomingResponse, error) {
	if c.messages == nil {
		return nil, fmt.Errorf("rpc: SendRequest before Init")
	}
	return c.messages.SendRequest(request)
}

// ProcessAllMessages reads and dispatches directives from the input
// socket until a clean EOF, demultiplexing SendValue blocks to the
// MessageSocket as requests and responses.
func (c *StreamServiceConnector) ProcessAllMessages() error {
	err := c.in.ProcessAllInstructions()
	if err != nil {
		c.log.Error().Err(err).Msg("rpc: connector read loop failed")
	} else {
		c.log.Info().Msg("rpc: connector reached clean EOF")
	}
	return err
}

// Close shuts down the outgoing half of the connection and abandons
// any requests still awaiting a response.
func (c *StreamServiceConnector) Close() error {
	c.log.Info().Msg("rpc: connector closing")
	if c.messages != nil {
		c.messages.Close()
	}
	return c.out.Close()
}
