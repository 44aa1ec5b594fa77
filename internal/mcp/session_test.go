package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/windvane/windvane/internal/schema"
)

// echoTool returns its "text" argument, or fails when asked to.
type echoTool struct{ name string }

func (t *echoTool) Name() string                 { return t.name }
func (t *echoTool) Description() string          { return "echoes its input" }
func (t *echoTool) Parameters() json.RawMessage  { return json.RawMessage(`{"type":"object","properties":{"text":{"type":"string"}},"required":["text"]}`) }
func (t *echoTool) Execute(_ context.Context, params map[string]any) (string, error) {
	if fail, _ := params["fail"].(bool); fail {
		return "Error: echo refused", nil
	}
	text, _ := params["text"].(string)
	return "echo: " + text, nil
}

type fakeSource struct{ tools map[string]schema.Tool }

func (s *fakeSource) Get(name string) schema.Tool { return s.tools[name] }
func (s *fakeSource) List() []schema.ToolDescriptor {
	out := make([]schema.ToolDescriptor, 0, len(s.tools))
	for _, t := range s.tools {
		out = append(out, schema.Describe(t))
	}
	return out
}

// startSession wires a Session to a real Server over in-memory pipes and
// completes the handshake.
func startSession(t *testing.T) *Session {
	t.Helper()

	clientReads, serverWrites := io.Pipe()
	serverReads, clientWrites := io.Pipe()

	source := &fakeSource{tools: map[string]schema.Tool{"echo": &echoTool{name: "echo"}}}
	server := NewServer("test-provider", "0.0.1", source)
	go func() { _ = server.Serve(context.Background(), serverReads, serverWrites) }()

	session := NewSession(clientReads, clientWrites)
	t.Cleanup(func() { _ = session.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := session.Initialize(ctx); err != nil {
		t.Fatalf("handshake failed: %v", err)
	}
	return session
}

func TestSession_ListTools(t *testing.T) {
	session := startSession(t)

	tools, err := session.ListTools(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tools) != 1 || tools[0].Name != "echo" {
		t.Fatalf("unexpected catalog: %+v", tools)
	}
	if len(tools[0].InputSchema) == 0 {
		t.Error("expected input schema in descriptor")
	}
}

func TestSession_CallTool(t *testing.T) {
	session := startSession(t)

	text, err := session.CallTool(context.Background(), "echo", map[string]any{"text": "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "echo: hi" {
		t.Errorf("unexpected result %q", text)
	}
}

func TestSession_CallTool_ToolError(t *testing.T) {
	session := startSession(t)

	_, err := session.CallTool(context.Background(), "echo", map[string]any{"fail": true})
	var invErr *InvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("expected InvocationError, got %v", err)
	}
	if invErr.Message != "Error: echo refused" {
		t.Errorf("unexpected message %q", invErr.Message)
	}
}

func TestSession_CallTool_UnknownTool(t *testing.T) {
	session := startSession(t)

	_, err := session.CallTool(context.Background(), "missing", nil)
	var invErr *InvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("expected InvocationError for unknown tool, got %v", err)
	}
	if invErr.Message != "Error: Unknown tool 'missing'" {
		t.Errorf("unexpected message %q", invErr.Message)
	}
}

func TestSession_ConcurrentCalls(t *testing.T) {
	session := startSession(t)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			text, err := session.CallTool(context.Background(), "echo", map[string]any{"text": "n"})
			if err == nil && text != "echo: n" {
				err = errors.New("wrong result: " + text)
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("call %d: %v", i, err)
		}
	}
}

func TestSession_RequiresHandshake(t *testing.T) {
	clientReads, _ := io.Pipe()
	_, clientWrites := io.Pipe()
	session := NewSession(clientReads, clientWrites)
	defer session.Close()

	if _, err := session.ListTools(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
	if _, err := session.CallTool(context.Background(), "echo", nil); !errors.Is(err, ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
}

func TestSession_OutOfOrderResponses(t *testing.T) {
	clientReads, peerWrites := io.Pipe()
	peerReads, clientWrites := io.Pipe()

	// A hand-driven peer that answers the handshake, then holds the next
	// two requests and answers them in reverse order.
	go func() {
		dec := json.NewDecoder(peerReads)
		enc := json.NewEncoder(peerWrites)

		reply := func(id json.RawMessage, result any) {
			data, _ := json.Marshal(result)
			_ = enc.Encode(Response{JSONRPC: "2.0", ID: id, Result: data})
		}

		var held []Request
		for {
			var req Request
			if err := dec.Decode(&req); err != nil {
				return
			}
			switch req.Method {
			case MethodInitialize:
				reply(req.ID, InitializeResult{ProtocolVersion: ProtocolVersion, ServerInfo: Info{Name: "peer"}})
			case NotificationInitialized:
				// ignore
			case MethodCallTool:
				var params CallToolParams
				_ = json.Unmarshal(req.Params, &params)
				held = append(held, req)
				if len(held) == 2 {
					for i := len(held) - 1; i >= 0; i-- {
						var p CallToolParams
						_ = json.Unmarshal(held[i].Params, &p)
						text, _ := p.Arguments["text"].(string)
						reply(held[i].ID, TextResult("got "+text, false))
					}
					held = nil
				}
			}
		}
	}()

	session := NewSession(clientReads, clientWrites)
	defer session.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := session.Initialize(ctx); err != nil {
		t.Fatalf("handshake failed: %v", err)
	}

	results := make([]string, 2)
	var wg sync.WaitGroup
	for i, arg := range []string{"first", "second"} {
		wg.Add(1)
		go func(i int, arg string) {
			defer wg.Done()
			text, err := session.CallTool(ctx, "echo", map[string]any{"text": arg})
			if err != nil {
				t.Errorf("call %d: %v", i, err)
				return
			}
			results[i] = text
		}(i, arg)
	}
	wg.Wait()

	if results[0] != "got first" || results[1] != "got second" {
		t.Errorf("responses crossed wires: %q, %q", results[0], results[1])
	}
}

func TestSession_PeerGoneMidCall(t *testing.T) {
	clientReads, peerWrites := io.Pipe()
	peerReads, clientWrites := io.Pipe()

	go func() {
		dec := json.NewDecoder(peerReads)
		enc := json.NewEncoder(peerWrites)
		for {
			var req Request
			if err := dec.Decode(&req); err != nil {
				return
			}
			switch req.Method {
			case MethodInitialize:
				data, _ := json.Marshal(InitializeResult{ProtocolVersion: ProtocolVersion})
				_ = enc.Encode(Response{JSONRPC: "2.0", ID: req.ID, Result: data})
			case MethodCallTool:
				// Die without answering.
				_ = peerWrites.Close()
				return
			}
		}
	}()

	session := NewSession(clientReads, clientWrites)
	defer session.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := session.Initialize(ctx); err != nil {
		t.Fatalf("handshake failed: %v", err)
	}

	_, err := session.CallTool(ctx, "echo", map[string]any{"text": "x"})
	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("expected ConnectionError after peer EOF, got %v", err)
	}
}
