package rpc

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/goto-10/plankton/marshal"
	"github.com/goto-10/plankton/socket"
	"github.com/goto-10/plankton/variant"
)

var (
	requestHeader  = variant.ExternalString([]byte("rpc.Request"))
	responseHeader = variant.ExternalString([]byte("rpc.Response"))

	keySerial    = variant.ExternalString([]byte("serial"))
	keySubject   = variant.ExternalString([]byte("subject"))
	keySelector  = variant.ExternalString([]byte("selector"))
	keyArguments = variant.ExternalString([]byte("arguments"))
	keyStatus    = variant.ExternalString([]byte("status"))
	keyPayload   = variant.ExternalString([]byte("payload"))

	statusSuccess = variant.ExternalString([]byte("success"))
	statusFailure = variant.ExternalString([]byte("failure"))
)

// wireRequest and wireResponse are the plain Go shapes requests and
// responses travel the wire as, registered below as native seed types.
type wireRequest struct {
	serial    uint64
	subject   variant.Variant
	selector  variant.Variant
	arguments variant.Variant
}

type wireResponse struct {
	serial  uint64
	status  Status
	payload variant.Variant
}

var requestSeedType = &marshal.SeedType[wireRequest]{
	HeaderValue: requestHeader,
	New: func(header variant.Variant, arena *variant.Arena) *wireRequest {
		return &wireRequest{}
	},
	Init: func(instance *wireRequest, seed variant.Variant, arena *variant.Arena) {
		instance.serial = uint64(seed.SeedGetField(keySerial, variant.Integer(0)).IntegerValue())
		instance.subject = seed.SeedGetField(keySubject, variant.Null())
		instance.selector = seed.SeedGetField(keySelector, variant.Null())
		instance.arguments = seed.SeedGetField(keyArguments, variant.Null())
	},
	ToSeed: func(instance *wireRequest, arena *variant.Arena) variant.Variant {
		seed := arena.NewSeed()
		seed.SeedSetHeader(requestHeader)
		seed.SeedSetField(keySerial, variant.Integer(int64(instance.serial)))
		seed.SeedSetField(keySubject, instance.subject)
		seed.SeedSetField(keySelector, instance.selector)
		seed.SeedSetField(keyArguments, instance.arguments)
		return seed
	},
}

var responseSeedType = &marshal.SeedType[wireResponse]{
	HeaderValue: responseHeader,
	New: func(header variant.Variant, arena *variant.Arena) *wireResponse {
		return &wireResponse{}
	},
	Init: func(instance *wireResponse, seed variant.Variant, arena *variant.Arena) {
		instance.serial = uint64(seed.SeedGetField(keySerial, variant.Integer(0)).IntegerValue())
		instance.status = StatusFailure
		if seed.SeedGetField(keyStatus, statusFailure).Equal(statusSuccess) {
			instance.status = StatusSuccess
		}
		instance.payload = seed.SeedGetField(keyPayload, variant.Null())
	},
	ToSeed: func(instance *wireResponse, arena *variant.Arena) variant.Variant {
		seed := arena.NewSeed()
		seed.SeedSetHeader(responseHeader)
		seed.SeedSetField(keySerial, variant.Integer(int64(instance.serial)))
		status := statusFailure
		if instance.status == StatusSuccess {
			status = statusSuccess
		}
		seed.SeedSetField(keyStatus, status)
		seed.SeedSetField(keyPayload, instance.payload)
		return seed
	},
}

// RequestHandler handles one incoming request. It must call respond
// exactly once, synchronously or later; the response value passed to
// respond is only required to stay valid until respond returns.
type RequestHandler func(request *IncomingRequest, respond func(OutgoingResponse))

// Option configures a MessageSocket at construction time.
type Option func(*MessageSocket)

// WithObserver installs an Observer on the socket.
func WithObserver(o Observer) Option {
	return func(ms *MessageSocket) { ms.observer = o }
}

// WithLogger installs the zerolog.Logger the socket uses, overriding
// the default zerolog.Nop().
func WithLogger(log zerolog.Logger) Option {
	return func(ms *MessageSocket) { ms.log = log }
}

// WithSerialStart sets the first serial number SendRequest will assign,
// instead of the default of 1. Mostly useful for tests wanting
// deterministic serials.
func WithSerialStart(first uint64) Option {
	return func(ms *MessageSocket) {
		if first > 0 {
			atomic.StoreUint64(&ms.nextSerial, first-1)
		}
	}
}

// loggerFromOptions extracts the zerolog.Logger a set of Options would
// install on a MessageSocket, for callers (StreamServiceConnector) that
// need it before a MessageSocket exists to log their own lifecycle
// events with the same logger.
func loggerFromOptions(opts []Option) zerolog.Logger {
	ms := &MessageSocket{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(ms)
	}
	return ms.log
}

// MessageSocket is a socket you can send and receive requests through:
// it writes OutgoingRequests to an OutputSocket, tags each with a
// serial it assigns, and resolves the IncomingResponse promise it
// returned once a ResponseMessage with a matching serial arrives on the
// PushInputStream it was bound to. Incoming requests from the other
// side are handed to the RequestHandler given at construction time.
type MessageSocket struct {
	out        *socket.OutputSocket
	handler    RequestHandler
	registry   *marshal.TypeRegistry
	arena      *variant.Arena
	observer   Observer
	log        zerolog.Logger
	nextSerial uint64
	pending    sync.Map // uint64 -> *IncomingResponse
	latency    instrumentLatency
	closed     chan struct{}
	closeOnce  sync.Once
}

// NewMessageSocket binds a MessageSocket to in (an already-constructed
// PushInputStream, typically the root stream of a socket.InputSocket)
// and out. It registers its own request/response seed types on in's
// type registry, replacing whatever was there.
func NewMessageSocket(in *socket.PushInputStream, out *socket.OutputSocket, handler RequestHandler, opts ...Option) *MessageSocket {
	registry := marshal.NewTypeRegistry()
	registry.Register(requestSeedType)
	registry.Register(responseSeedType)
	in.SetTypeRegistry(registry)

	ms := &MessageSocket{
		out:      out,
		handler:  handler,
		registry: registry,
		arena:    variant.NewArena(),
		log:      zerolog.Nop(),
		latency:  newLatency("plankton.rpc.request_duration", "time from SendRequest to its response settling"),
		closed:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(ms)
	}
	in.AddAction(ms.onIncomingMessage)
	return ms
}

func (ms *MessageSocket) onIncomingMessage(value variant.Variant) {
	switch native := value.NativePtr().(type) {
	case *wireRequest:
		ms.onIncomingRequest(native)
	case *wireResponse:
		ms.onIncomingResponse(native)
	default:
		ms.log.Warn().Str("kind", value.Type().String()).Msg("rpc: message is neither a request nor a response")
	}
}

func (ms *MessageSocket) onIncomingRequest(msg *wireRequest) {
	request := &IncomingRequest{
		Serial:    msg.serial,
		Subject:   msg.subject,
		Selector:  msg.selector,
		Arguments: msg.arguments,
	}
	if ms.observer != nil {
		ms.observer.OnIncomingRequest(request)
	}
	respond := func(response OutgoingResponse) {
		if ms.observer != nil {
			ms.observer.OnOutgoingResponse(request.Serial, response)
		}
		if err := ms.sendResponse(request.Serial, response); err != nil {
			ms.log.Error().Err(err).Uint64("serial", request.Serial).Msg("rpc: failed to send response")
		}
	}
	if ms.handler == nil {
		ms.log.Debug().Uint64("serial", request.Serial).Msg("rpc: no request handler installed, failing")
		respond(Failure(variant.ExternalString([]byte("no request handler installed"))))
		return
	}
	ms.handler(request, respond)
}

func (ms *MessageSocket) onIncomingResponse(msg *wireResponse) {
	value, ok := ms.pending.LoadAndDelete(msg.serial)
	if !ok {
		ms.log.Warn().Uint64("serial", msg.serial).Msg("rpc: response for unknown or already-settled serial")
		return
	}
	value.(*IncomingResponse).settle(msg.status == StatusSuccess, msg.payload)
}

func (ms *MessageSocket) sendResponse(serial uint64, response OutgoingResponse) error {
	msg := &wireResponse{serial: serial, status: StatusFailure, payload: response.Payload()}
	if response.IsSuccess() {
		msg.status = StatusSuccess
	}
	native := ms.arena.NewNative(msg, responseSeedType)
	return ms.out.SendValue(native)
}

// SendRequest writes request to the outgoing socket, tagged with a
// freshly assigned serial, and returns a promise for the response that
// will arrive on the incoming socket with that serial.
func (ms *MessageSocket) SendRequest(request *OutgoingRequest) (*IncomingResponse, error) {
	serial := atomic.AddUint64(&ms.nextSerial, 1)
	promise := newIncomingResponse(ms.log)
	ms.pending.Store(serial, promise)

	msg := &wireRequest{serial: serial, subject: request.Subject, selector: request.Selector, arguments: request.Arguments}
	native := ms.arena.NewNative(msg, requestSeedType)
	sentAt := time.Now()
	if err := ms.out.SendValue(native); err != nil {
		ms.pending.Delete(serial)
		return nil, err
	}
	go func() {
		select {
		case <-promise.Done():
			ms.latency.Record(time.Since(sentAt))
		case <-ms.closed:
		}
	}()
	return promise, nil
}

// Close abandons every promise still pending a response and marks the
// socket closed, so any latency-recording goroutines blocked in
// SendRequest on a promise that will now never settle can return
// instead of leaking for the life of the process. Close is idempotent.
func (ms *MessageSocket) Close() {
	ms.closeOnce.Do(func() {
		close(ms.closed)
		ms.pending.Range(func(serial, value interface{}) bool {
			ms.pending.Delete(serial)
			value.(*IncomingResponse).abandon()
			return true
		})
	})
}
