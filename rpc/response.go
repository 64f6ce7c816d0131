package rpc

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/goto-10/plankton"
	"github.com/goto-10/plankton/variant"
)

// Status is an OutgoingResponse's success/failure discriminator.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
)

// OutgoingResponse is what a request handler hands back to the
// framework: either a successful value or a failure payload. Build one
// with Success or Failure, never the zero value directly.
type OutgoingResponse struct {
	status  Status
	payload variant.Variant
}

// Success returns a successful response carrying value.
func Success(value variant.Variant) OutgoingResponse {
	return OutgoingResponse{status: StatusSuccess, payload: value}
}

// Failure returns a failed response carrying failure as its payload.
func Failure(failure variant.Variant) OutgoingResponse {
	return OutgoingResponse{status: StatusFailure, payload: failure}
}

// IsSuccess reports whether this is a successful response.
func (r OutgoingResponse) IsSuccess() bool { return r.status == StatusSuccess }

// Payload returns the value, or the failure, depending on IsSuccess.
func (r OutgoingResponse) Payload() variant.Variant { return r.payload }

// IncomingResponse is a one-shot promise for the result of a request
// this peer sent. It settles exactly once, to either success or
// failure; double settlement of a promise is a programmer error, not a
// runtime condition, so it's reported through plankton.Fatal rather
// than as an ordinary error return.
type IncomingResponse struct {
	mu        sync.Mutex
	done      chan struct{}
	log       zerolog.Logger
	settled   bool
	fulfilled bool
	value     variant.Variant
}

func newIncomingResponse(log zerolog.Logger) *IncomingResponse {
	return &IncomingResponse{done: make(chan struct{}), log: log}
}

func (p *IncomingResponse) settle(fulfilled bool, value variant.Variant) {
	p.mu.Lock()
	if p.settled {
		p.mu.Unlock()
		plankton.Fatal(p.log, plankton.NewFatalError("rpc: response settled twice", nil))
		return
	}
	p.settled = true
	p.fulfilled = fulfilled
	p.value = value
	close(p.done)
	p.mu.Unlock()
}

// IsSettled reports whether a result has arrived yet.
func (p *IncomingResponse) IsSettled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settled
}

// IsFulfilled reports whether the response is settled and successful.
func (p *IncomingResponse) IsFulfilled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settled && p.fulfilled
}

// PeekValue returns the settled success value, or def if the response
// hasn't settled yet, or settled to a failure.
func (p *IncomingResponse) PeekValue(def variant.Variant) variant.Variant {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.settled || !p.fulfilled {
		return def
	}
	return p.value
}

// PeekError is PeekValue's failure-side counterpart.
func (p *IncomingResponse) PeekError(def variant.Variant) variant.Variant {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.settled || p.fulfilled {
		return def
	}
	return p.value
}

// abandon settles the response as a failure without a matching
// wireResponse ever having arrived, for promises still pending when
// their MessageSocket closes. Unlike settle, it's a no-op rather than
// a fatal error if the response already settled on its own in the
// meantime -- abandonment races the normal response path by nature.
func (p *IncomingResponse) abandon() {
	p.mu.Lock()
	if p.settled {
		p.mu.Unlock()
		return
	}
	p.settled = true
	p.fulfilled = false
	p.value = variant.ExternalString([]byte("rpc: abandoned, socket closed"))
	close(p.done)
	p.mu.Unlock()
}

// Done returns a channel that closes once the response has settled,
// for callers that want to select on it alongside a timeout or a
// context's Done channel.
func (p *IncomingResponse) Done() <-chan struct{} { return p.done }

// Wait blocks until the response settles and returns its value (or
// failure) together with whether it was a success.
func (p *IncomingResponse) Wait() (variant.Variant, bool) {
	<-p.done
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value, p.fulfilled
}
