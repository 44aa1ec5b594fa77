package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/windvane/windvane/internal/schema"
)

// ToolSource exposes the static catalog the server advertises and serves.
// The catalog never changes for the lifetime of the provider process.
type ToolSource interface {
	List() []schema.ToolDescriptor
	Get(name string) schema.Tool
}

// Server speaks the provider side of the protocol over a pair of streams
// (stdio in production). Tool calls are handled in their own goroutines so
// the independent invocations of one model turn proceed concurrently; a
// write mutex keeps response frames whole.
type Server struct {
	info        Info
	source      ToolSource
	callTimeout time.Duration

	writeMu sync.Mutex
	out     io.Writer
}

// NewServer creates a Server advertising the given identity and catalog.
func NewServer(name, version string, source ToolSource) *Server {
	return &Server{
		info:        Info{Name: name, Version: version},
		source:      source,
		callTimeout: 60 * time.Second,
	}
}

// Serve reads requests from r until EOF and writes responses to w. All
// failures a tool can phrase as text stay successful protocol responses;
// only malformed frames and unknown methods produce JSON-RPC errors.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	s.out = w

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var wg sync.WaitGroup
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.respondError(json.RawMessage("null"), CodeParseError, "parse error")
			continue
		}

		if req.IsNotification() {
			if req.Method == NotificationInitialized {
				slog.Debug("Client initialized")
			}
			continue
		}

		switch req.Method {
		case MethodInitialize:
			s.respond(req.ID, InitializeResult{
				ProtocolVersion: ProtocolVersion,
				Capabilities:    map[string]any{"tools": map[string]any{}},
				ServerInfo:      s.info,
			})
		case MethodListTools:
			s.respond(req.ID, ListToolsResult{Tools: s.source.List()})
		case MethodCallTool:
			wg.Add(1)
			go func(req Request) {
				defer wg.Done()
				s.handleCallTool(ctx, req)
			}(req)
		default:
			s.respondError(req.ID, CodeMethodNotFound, fmt.Sprintf("method %q not found", req.Method))
		}
	}
	wg.Wait()
	return scanner.Err()
}

func (s *Server) handleCallTool(ctx context.Context, req Request) {
	var params CallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.respondError(req.ID, CodeInvalidParams, fmt.Sprintf("invalid tools/call params: %v", err))
		return
	}

	tool := s.source.Get(params.Name)
	if tool == nil {
		slog.Warn("Unknown tool requested", "tool", params.Name)
		s.respond(req.ID, TextResult(fmt.Sprintf("Error: Unknown tool '%s'", params.Name), true))
		return
	}

	slog.Info("Tool call", "tool", params.Name)

	cctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	text, err := tool.Execute(cctx, params.Arguments)
	if err != nil {
		s.respond(req.ID, TextResult(fmt.Sprintf("Error: %v", err), true))
		return
	}
	s.respond(req.ID, TextResult(text, false))
}

func (s *Server) respond(id json.RawMessage, result any) {
	data, err := json.Marshal(result)
	if err != nil {
		s.respondError(id, CodeInternalError, fmt.Sprintf("marshal result: %v", err))
		return
	}
	s.writeFrame(Response{JSONRPC: "2.0", ID: id, Result: data})
}

func (s *Server) respondError(id json.RawMessage, code int, message string) {
	s.writeFrame(Response{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: message}})
}

func (s *Server) writeFrame(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Marshal response frame failed", "err", err)
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := s.out.Write(append(data, '\n')); err != nil {
		slog.Error("Write response frame failed", "err", err)
	}
}
