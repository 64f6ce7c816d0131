package rpc

import "github.com/goto-10/plankton/variant"

// OutgoingRequest is a message this peer is about to send: who it's
// addressed to (Subject), the operation to perform (Selector), and the
// arguments to pass -- typically a map or array of values.
type OutgoingRequest struct {
	Subject   variant.Variant
	Selector  variant.Variant
	Arguments variant.Variant
}

// NewOutgoingRequest builds a request from its three parts.
func NewOutgoingRequest(subject, selector, arguments variant.Variant) *OutgoingRequest {
	return &OutgoingRequest{Subject: subject, Selector: selector, Arguments: arguments}
}

// IncomingRequest is the receiving side's view of a request a peer
// sent: the same three parts, plus the Serial the sender assigned so
// the eventual OutgoingResponse can be correlated back to it.
type IncomingRequest struct {
	Serial    uint64
	Subject   variant.Variant
	Selector  variant.Variant
	Arguments variant.Variant
}

// SelectorName returns the request's selector as a Go string, the form
// Service and most handlers want to switch on.
func (r *IncomingRequest) SelectorName() string {
	return string(r.Selector.StringChars())
}
