package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json2 "github.com/gorilla/rpc/v2/json2"
	"github.com/rs/zerolog"

	"github.com/goto-10/plankton/variant"
)

const (
	jsonBridgeMaxRetries    = 3
	jsonBridgeRetryBaseWait = 100 * time.Millisecond
)

// JSONBridgeClient lets a caller that doesn't speak plankton's wire
// format at all reach a plankton Service over HTTP, using gorilla/rpc's
// JSON-RPC 2.0 client codec. A request's Selector becomes the JSON-RPC
// method name; Arguments and the result cross the JSON boundary through
// Codec (plainValueCodec by default) rather than plankton's own binary
// or text grammar, since the whole point of this bridge is letting an
// ordinary JSON client skip installing a plankton decoder at all.
type JSONBridgeClient struct {
	Log    zerolog.Logger
	URI    *url.URL
	Arena  *variant.Arena
	Client *http.Client
	Codec  Codec
}

// NewJSONBridgeClient returns a client posting JSON-RPC requests to
// uri.
func NewJSONBridgeClient(uri *url.URL, arena *variant.Arena) *JSONBridgeClient {
	return &JSONBridgeClient{
		Log:   zerolog.Nop(),
		URI:   uri,
		Arena: arena,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: &http.Transport{DisableKeepAlives: true},
		},
		Codec: plainValueCodec{},
	}
}

func isRetryableJSONError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe")
}

// Call sends request's selector and arguments as a JSON-RPC 2.0 call
// and returns the decoded result as a Variant, retrying a fixed number
// of times on transient connection errors.
func (c *JSONBridgeClient) Call(ctx context.Context, request *OutgoingRequest) (variant.Variant, error) {
	method := string(request.Selector.StringChars())
	params, err := c.Codec.Encode(request.Arguments)
	if err != nil {
		return variant.Null(), fmt.Errorf("rpc: encode json-rpc params: %w", err)
	}
	body, err := json2.EncodeClientRequest(method, params)
	if err != nil {
		return variant.Null(), fmt.Errorf("rpc: encode json-rpc request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < jsonBridgeMaxRetries; attempt++ {
		if attempt > 0 {
			wait := jsonBridgeRetryBaseWait * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return variant.Null(), ctx.Err()
			case <-time.After(wait):
			}
		}
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URI.String(), bytes.NewReader(body))
		if err != nil {
			return variant.Null(), fmt.Errorf("rpc: build json-rpc request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.Client.Do(httpReq)
		if err != nil {
			lastErr = err
			c.Log.Warn().Err(err).Int("attempt", attempt+1).Msg("rpc: json bridge request failed")
			if isRetryableJSONError(err) {
				continue
			}
			return variant.Null(), fmt.Errorf("rpc: json-rpc request: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return variant.Null(), fmt.Errorf("rpc: json-rpc http status %d", resp.StatusCode)
		}

		var result interface{}
		decodeErr := json2.DecodeClientResponse(resp.Body, &result)
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if decodeErr != nil {
			return variant.Null(), fmt.Errorf("rpc: decode json-rpc response: %w", decodeErr)
		}
		return c.Codec.Decode(c.Arena, result)
	}
	return variant.Null(), fmt.Errorf("rpc: json-rpc request failed after %d attempts: %w", jsonBridgeMaxRetries, lastErr)
}

// JSONBridgeServer exposes a Service over HTTP as a JSON-RPC 2.0
// endpoint: the JSON-RPC method name becomes the incoming request's
// selector, and the params/result cross the boundary the same way
// JSONBridgeClient does.
type JSONBridgeServer struct {
	Log     zerolog.Logger
	Service *Service
	Arena   *variant.Arena
	Codec   Codec
}

// NewJSONBridgeServer returns a server dispatching to service.
func NewJSONBridgeServer(service *Service, arena *variant.Arena) *JSONBridgeServer {
	return &JSONBridgeServer{Log: zerolog.Nop(), Service: service, Arena: arena, Codec: plainValueCodec{}}
}

// jsonRPCEnvelope is the JSON-RPC 2.0 request/response envelope. The
// client side of this bridge delegates envelope handling entirely to
// gorilla/rpc/v2/json2 (EncodeClientRequest/DecodeClientResponse); the
// server side is small enough to write out by hand rather than pull in
// gorilla's reflection-based server dispatch, which expects Go methods
// with concrete arg/reply struct types rather than plankton's
// dynamically-selectored services.
type jsonRPCEnvelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  interface{}     `json:"params,omitempty"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *jsonRPCError   `json:"error,omitempty"`
}

type jsonRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ServeHTTP implements http.Handler.
func (s *JSONBridgeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req jsonRPCEnvelope
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("rpc: invalid json-rpc request: %v", err), http.StatusBadRequest)
		return
	}

	arguments, err := s.Codec.Decode(s.Arena, req.Params)
	if err != nil {
		http.Error(w, fmt.Sprintf("rpc: invalid json-rpc params: %v", err), http.StatusBadRequest)
		return
	}
	done := make(chan OutgoingResponse, 1)
	request := &IncomingRequest{
		Subject:   variant.Null(),
		Selector:  s.Arena.NewStringFrom([]byte(req.Method)),
		Arguments: arguments,
	}
	s.Service.Handler()(request, func(resp OutgoingResponse) { done <- resp })
	response := <-done

	reply := jsonRPCEnvelope{JSONRPC: "2.0", ID: req.ID}
	if response.IsSuccess() {
		result, err := s.Codec.Encode(response.Payload())
		if err != nil {
			reply.Error = &jsonRPCError{Code: -32000, Message: err.Error()}
		} else {
			reply.Result = result
		}
	} else {
		errValue, _ := s.Codec.Encode(response.Payload())
		reply.Error = &jsonRPCError{Code: -32000, Message: fmt.Sprintf("%v", errValue)}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reply)
}
