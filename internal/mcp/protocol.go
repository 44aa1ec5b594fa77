// Package mcp implements the JSON-RPC 2.0 tool protocol windvane speaks
// between the orchestrating client and the tool provider. Messages are
// newline-delimited JSON frames over the provider subprocess's stdio; every
// request is correlated to exactly one response by id.
package mcp

import (
	"encoding/json"

	"github.com/windvane/windvane/internal/schema"
)

// ProtocolVersion is the protocol revision sent during the handshake.
const ProtocolVersion = "2024-11-05"

// Method names.
const (
	MethodInitialize        = "initialize"
	MethodListTools         = "tools/list"
	MethodCallTool          = "tools/call"
	NotificationInitialized = "notifications/initialized"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Request is one JSON-RPC request or notification. ID is absent for
// notifications; it is kept raw so the server echoes whatever id shape the
// peer used.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request carries no id.
func (r Request) IsNotification() bool { return len(r.ID) == 0 }

// Response is one JSON-RPC response. Exactly one of Result and Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is the error member of a JSON-RPC response.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string { return e.Message }

// Info identifies one endpoint during the handshake.
type Info struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeParams is the client half of the handshake.
type InitializeParams struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ClientInfo      Info           `json:"clientInfo"`
}

// InitializeResult is the server half of the handshake.
type InitializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ServerInfo      Info           `json:"serverInfo"`
}

// ListToolsResult carries the provider's full catalog. The order is stable
// for one provider process but not otherwise meaningful.
type ListToolsResult struct {
	Tools []schema.ToolDescriptor `json:"tools"`
}

// CallToolParams names the tool to invoke and its arguments.
type CallToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// Content is a single block of a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallToolResult is the outcome of one tool invocation. IsError marks
// results whose text describes a failure; it is still a successful response
// at the protocol level.
type CallToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// TextResult wraps text in a single-block tool result.
func TextResult(text string, isError bool) CallToolResult {
	return CallToolResult{
		Content: []Content{{Type: "text", Text: text}},
		IsError: isError,
	}
}

// Text joins the text blocks of the result.
func (r CallToolResult) Text() string {
	out := ""
	for _, c := range r.Content {
		if c.Text == "" {
			continue
		}
		if out != "" {
			out += "\n"
		}
		out += c.Text
	}
	return out
}
