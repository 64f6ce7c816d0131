package rpc

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/goto-10/plankton/variant"
)

// MethodHandler handles one registered operation. args is the
// request's arguments; respond must be called exactly once.
type MethodHandler func(args variant.Variant, respond func(OutgoingResponse))

// FallbackHandler handles any selector no registered method covers.
type FallbackHandler func(request *IncomingRequest, respond func(OutgoingResponse))

// Service dispatches incoming requests to methods registered by
// selector name, falling back to a generic handler -- or, absent one,
// an automatic failure response -- for anything else.
type Service struct {
	Log          zerolog.Logger
	methods      map[string]MethodHandler
	fallback     FallbackHandler
	fallbackHits uint64
	dispatch     instrumentLatency
}

// NewService returns an empty Service.
func NewService() *Service {
	return &Service{
		Log:      zerolog.Nop(),
		methods:  make(map[string]MethodHandler),
		dispatch: newLatency("plankton.rpc.dispatch_duration", "time from request arrival to respond() being called"),
	}
}

// RegisterMethod adds selector to the set of operations this service
// understands.
func (s *Service) RegisterMethod(selector string, handler MethodHandler) {
	s.methods[selector] = handler
}

// SetFallback installs the handler run for any selector with no
// registered method.
func (s *Service) SetFallback(handler FallbackHandler) {
	s.fallback = handler
}

// FallbackCount returns how many requests have been routed to the
// fallback handler (or the default failure response, if none was
// installed) because their selector matched no registered method.
func (s *Service) FallbackCount() uint64 {
	return atomic.LoadUint64(&s.fallbackHits)
}

// Handler returns the RequestHandler to pass to NewMessageSocket (or a
// StreamServiceConnector's Init) so incoming requests dispatch through
// this service.
func (s *Service) Handler() RequestHandler {
	return s.onRequest
}

func (s *Service) onRequest(request *IncomingRequest, respond func(OutgoingResponse)) {
	arrivedAt := time.Now()
	timedRespond := func(response OutgoingResponse) {
		s.dispatch.Record(time.Since(arrivedAt))
		respond(response)
	}
	selector := request.SelectorName()
	if method, ok := s.methods[selector]; ok {
		s.Log.Debug().Str("selector", selector).Msg("rpc: dispatching to registered method")
		method(request.Arguments, timedRespond)
		return
	}
	atomic.AddUint64(&s.fallbackHits, 1)
	if s.fallback != nil {
		s.Log.Debug().Str("selector", selector).Msg("rpc: dispatching to fallback handler")
		s.fallback(request, timedRespond)
		return
	}
	s.Log.Debug().Str("selector", selector).Msg("rpc: no method or fallback, failing")
	timedRespond(Failure(variant.ExternalString([]byte("rpc: unknown selector " + selector))))
}
