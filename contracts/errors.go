package contracts

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Failure kinds for a single contract call. Revert-kind failures are normal
// negative results from the contract (out-of-bounds index, nonexistent
// token) and are never retried; transport-kind failures are RPC/network
// problems and are the only retryable class.
const (
	KindRevert    = "revert"
	KindTransport = "transport"
	KindIntegrity = "integrity"
)

// ChainCallError wraps a failed contract call with enough detail for the
// caller to decide between "end of enumeration" and "the provider is down".
type ChainCallError struct {
	Method string
	Kind   string
	Reason string
	Err    error
}

func (e *ChainCallError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s failure: %s", e.Method, e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s: %s failure: %v", e.Method, e.Kind, e.Err)
}

func (e *ChainCallError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the caller may retry the call.
func (e *ChainCallError) Retryable() bool {
	return e.Kind == KindTransport
}

// IsRevert reports whether err is a contract-level rejection.
func IsRevert(err error) bool {
	var cce *ChainCallError
	return errors.As(err, &cce) && cce.Kind == KindRevert
}

// IsTransport reports whether err is an RPC/network failure.
func IsTransport(err error) bool {
	var cce *ChainCallError
	return errors.As(err, &cce) && cce.Kind == KindTransport
}

// IsIntegrity reports whether err is a data-integrity failure: the call
// succeeded but a field did not decode to the expected shape.
func IsIntegrity(err error) bool {
	var cce *ChainCallError
	return errors.As(err, &cce) && cce.Kind == KindIntegrity
}

// revertMarkers are the substrings providers use when a call reverts. Geth
// and most hosted RPCs include "execution reverted"; some return the raw
// require message.
var revertMarkers = []string{
	"execution reverted",
	"revert",
	"invalid opcode",
	"out of bounds",
}

// classify turns a raw call error into a ChainCallError. Context timeouts
// are treated as transport failures per the error taxonomy.
func classify(method string, err error) *ChainCallError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &ChainCallError{Method: method, Kind: KindTransport, Err: err}
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range revertMarkers {
		if strings.Contains(msg, marker) {
			return &ChainCallError{Method: method, Kind: KindRevert, Reason: revertReason(err), Err: err}
		}
	}

	return &ChainCallError{Method: method, Kind: KindTransport, Err: err}
}

// revertReason extracts the human-readable revert reason when the provider
// includes one.
func revertReason(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, "execution reverted:"); idx >= 0 {
		return strings.TrimSpace(msg[idx+len("execution reverted:"):])
	}
	return msg
}
