package rpc

import "github.com/rs/zerolog"

// Observer receives notifications about a MessageSocket's traffic, a
// chainable hook beyond what SendRequest and a RequestHandler alone
// expose -- used here for zerolog logging and otel metrics without
// threading extra parameters through every call site.
type Observer interface {
	OnIncomingRequest(request *IncomingRequest)
	OnOutgoingResponse(serial uint64, response OutgoingResponse)
}

// NopObserver implements Observer with no-ops, usable as an embeddable
// base for observers that only care about one event.
type NopObserver struct{}

func (NopObserver) OnIncomingRequest(*IncomingRequest)           {}
func (NopObserver) OnOutgoingResponse(uint64, OutgoingResponse) {}

// TracingObserver logs every event via zerolog and records otel
// counters.
type TracingObserver struct {
	Log zerolog.Logger

	requests  instrumentCounter
	responses instrumentCounter
}

// NewTracingObserver returns an Observer that logs through log and
// records request/response counts through the package's otel meter.
func NewTracingObserver(log zerolog.Logger) *TracingObserver {
	return &TracingObserver{
		Log:       log,
		requests:  newCounter("plankton.rpc.incoming_requests", "incoming RPC requests dispatched"),
		responses: newCounter("plankton.rpc.outgoing_responses", "outgoing RPC responses sent"),
	}
}

func (o *TracingObserver) OnIncomingRequest(request *IncomingRequest) {
	o.Log.Debug().
		Uint64("serial", request.Serial).
		Str("selector", request.SelectorName()).
		Msg("incoming request")
	o.requests.Add(1)
}

func (o *TracingObserver) OnOutgoingResponse(serial uint64, response OutgoingResponse) {
	o.Log.Debug().
		Uint64("serial", serial).
		Bool("success", response.IsSuccess()).
		Msg("outgoing response")
	o.responses.Add(1)
}
