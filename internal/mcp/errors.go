package mcp

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned when ListTools or CallTool is used before the
// initialize handshake has completed.
var ErrNotConnected = errors.New("mcp: session not initialized")

// ErrClosed is returned for calls made after the session was closed.
var ErrClosed = errors.New("mcp: session closed")

// ConnectionError wraps transport-level failures: the provider cannot be
// reached, the handshake is rejected, or the channel breaks mid-call. It is
// fatal to the current query.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string { return fmt.Sprintf("mcp: %s: %v", e.Op, e.Err) }
func (e *ConnectionError) Unwrap() error { return e.Err }

// InvocationError reports a tool-level failure surfaced by the provider.
// Message carries the provider's descriptive text; the tool-use loop feeds
// it back into the conversation instead of aborting the query.
type InvocationError struct {
	Tool    string
	Message string
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("mcp: tool %q failed: %s", e.Tool, e.Message)
}
