package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/windvane/windvane/internal/schema"
)

// ServerConfig holds the transport parameters for launching a tool provider.
type ServerConfig struct {
	Command string
	Args    []string
	Env     map[string]string
}

// Session is one live channel to a tool provider. It owns the provider
// subprocess and the read/write side of its stdio pipes.
//
// A reader goroutine correlates responses to in-flight calls by id, so
// independent tool invocations may run concurrently over the same channel.
// The session must be initialized before catalog retrieval or invocation
// and must be closed on every exit path of the enclosing query.
type Session struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser

	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[int64]chan *Response

	nextID      atomic.Int64
	initialized atomic.Bool

	readErr   error // valid once done is closed
	done      chan struct{}
	closeOnce sync.Once
}

// Open launches the provider described by cfg, wires its stdio pipes, and
// performs the initialize handshake. The child inherits the parent
// environment (the provider needs the upstream credentials) plus cfg.Env.
func Open(ctx context.Context, cfg ServerConfig) (*Session, error) {
	cmd := exec.Command(cfg.Command, cfg.Args...)
	cmd.Env = os.Environ()
	for k, v := range cfg.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	// Provider logs go to our stderr; stdout is reserved for protocol frames.
	cmd.Stderr = os.Stderr

	stdinPipe, err := cmd.StdinPipe()
	if err != nil {
		return nil, &ConnectionError{Op: "stdin pipe", Err: err}
	}
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &ConnectionError{Op: "stdout pipe", Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &ConnectionError{Op: "start provider", Err: err}
	}

	s := NewSession(stdoutPipe, stdinPipe)
	s.cmd = cmd

	if err := s.Initialize(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// NewSession wraps an already-connected transport. The handshake has not
// run yet; callers must Initialize before use. Split out from Open so tests
// can drive a session over in-memory pipes.
func NewSession(r io.Reader, w io.WriteCloser) *Session {
	s := &Session{
		stdin:   w,
		pending: make(map[int64]chan *Response),
		done:    make(chan struct{}),
	}
	go s.readLoop(r)
	return s
}

// Initialize performs the handshake: an initialize call followed by the
// initialized notification. A rejected handshake is a ConnectionError.
func (s *Session) Initialize(ctx context.Context) error {
	raw, err := s.call(ctx, MethodInitialize, InitializeParams{
		ProtocolVersion: ProtocolVersion,
		Capabilities:    map[string]any{},
		ClientInfo:      Info{Name: "windvane", Version: "0.1.0"},
	})
	if err != nil {
		var connErr *ConnectionError
		if errors.As(err, &connErr) {
			return err
		}
		return &ConnectionError{Op: "initialize", Err: err}
	}

	var result InitializeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return &ConnectionError{Op: "decode initialize result", Err: err}
	}
	slog.Debug("Session initialized",
		"server", result.ServerInfo.Name,
		"version", result.ServerInfo.Version,
		"protocol", result.ProtocolVersion,
	)

	if err := s.writeFrame(Request{JSONRPC: "2.0", Method: NotificationInitialized}); err != nil {
		return &ConnectionError{Op: "initialized notification", Err: err}
	}

	s.initialized.Store(true)
	return nil
}

// ListTools returns the provider's full tool catalog. It may only be called
// after a successful handshake.
func (s *Session) ListTools(ctx context.Context) ([]schema.ToolDescriptor, error) {
	if !s.initialized.Load() {
		return nil, ErrNotConnected
	}
	raw, err := s.call(ctx, MethodListTools, nil)
	if err != nil {
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) {
			return nil, &ConnectionError{Op: "tools/list", Err: rpcErr}
		}
		return nil, err
	}
	var result ListToolsResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &ConnectionError{Op: "decode tools/list result", Err: err}
	}
	return result.Tools, nil
}

// CallTool sends one invocation and waits for the single response
// correlated to it, returning the result text.
//
// Provider-reported tool failures come back as *InvocationError with the
// descriptive text preserved; the caller is expected to keep those inside
// the conversation. Transport breakage is a *ConnectionError.
func (s *Session) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	if !s.initialized.Load() {
		return "", ErrNotConnected
	}
	raw, err := s.call(ctx, MethodCallTool, CallToolParams{Name: name, Arguments: args})
	if err != nil {
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) {
			return "", &InvocationError{Tool: name, Message: fmt.Sprintf("Error: %s", rpcErr.Message)}
		}
		return "", err
	}

	var result CallToolResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", &ConnectionError{Op: "decode tools/call result", Err: err}
	}

	text := result.Text()
	if text == "" {
		text = "(no output)"
	}
	if result.IsError {
		return "", &InvocationError{Tool: name, Message: text}
	}
	return text, nil
}

// Close releases the channel: it is idempotent and safe on every exit path.
// In-flight calls fail with a ConnectionError once the reader observes EOF.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.initialized.Store(false)
		if s.stdin != nil {
			_ = s.stdin.Close()
		}
		if s.cmd != nil && s.cmd.Process != nil {
			_ = s.cmd.Process.Kill()
			_ = s.cmd.Wait()
		}
	})
	return nil
}

// ---------------------------------------------------------------------------
// JSON-RPC plumbing
// ---------------------------------------------------------------------------

// call sends one request and waits for its correlated response. A non-nil
// error is either a *RPCError (the peer answered with an error member), a
// *ConnectionError, or the context's error.
func (s *Session) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	select {
	case <-s.done:
		return nil, &ConnectionError{Op: method, Err: s.transportErr()}
	default:
	}

	id := s.nextID.Add(1)
	ch := make(chan *Response, 1)

	s.pendingMu.Lock()
	s.pending[id] = ch
	s.pendingMu.Unlock()
	defer func() {
		s.pendingMu.Lock()
		delete(s.pending, id)
		s.pendingMu.Unlock()
	}()

	req := Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(strconv.FormatInt(id, 10)),
		Method:  method,
	}
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("marshal %s params: %w", method, err)
		}
		req.Params = data
	}
	if err := s.writeFrame(req); err != nil {
		return nil, &ConnectionError{Op: "write " + method, Err: err}
	}

	select {
	case resp := <-ch:
		if resp.Error != nil {
			return nil, resp.Error
		}
		return resp.Result, nil
	case <-s.done:
		return nil, &ConnectionError{Op: method, Err: s.transportErr()}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Session) writeFrame(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_, err = s.stdin.Write(append(data, '\n'))
	return err
}

func (s *Session) transportErr() error {
	if s.readErr != nil {
		return s.readErr
	}
	return ErrClosed
}

// readLoop is the single reader of the provider's stdout. Lines that are
// not id-carrying JSON responses (stray prints, server notifications) are
// skipped; everything else is routed to the waiting call by id.
func (s *Session) readLoop(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var resp Response
		if err := json.Unmarshal(line, &resp); err != nil {
			continue
		}
		if len(resp.ID) == 0 {
			continue
		}
		var id int64
		if err := json.Unmarshal(resp.ID, &id); err != nil {
			continue
		}

		s.pendingMu.Lock()
		ch := s.pending[id]
		delete(s.pending, id)
		s.pendingMu.Unlock()

		if ch != nil {
			ch <- &resp
		}
	}

	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	s.readErr = err
	close(s.done)
}
