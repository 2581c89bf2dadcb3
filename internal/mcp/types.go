// Package mcp implements the server side of the Model Context
// Protocol: JSON-RPC 2.0 messages, line-delimited over stdio. The
// host drives the conversation; this server answers initialize,
// ping, tools/list, and tools/call.
package mcp

import (
	"encoding/json"

	"videomcp/internal/tools"
)

// ProtocolVersion is the MCP revision this server speaks.
const ProtocolVersion = "2024-11-05"

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// request is an incoming JSON-RPC message. ID is kept raw so integer
// and string ids are both echoed back verbatim; a nil ID marks a
// notification.
type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// response is an outgoing JSON-RPC message.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// initializeResult answers the initialize handshake.
type initializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    serverCapabilities `json:"capabilities"`
	ServerInfo      serverInfo         `json:"serverInfo"`
}

type serverCapabilities struct {
	Tools toolsCapability `json:"tools"`
}

type toolsCapability struct {
	ListChanged bool `json:"listChanged"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// toolDescriptor is one entry of the tools/list result.
type toolDescriptor struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema inputSchema `json:"inputSchema"`
}

// inputSchema is the advertised JSON schema for tool arguments.
type inputSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]tools.Property `json:"properties"`
	Required   []string                  `json:"required"`
}

type listToolsResult struct {
	Tools []toolDescriptor `json:"tools"`
}

// callParams are the tools/call request parameters.
type callParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// textContent is the single content block type this server emits.
type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// callResult is the tools/call result envelope. Tool failures are
// reported here with IsError set, never as protocol-level errors.
type callResult struct {
	Content []textContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// describeTool converts a registry tool into its advertised schema.
func describeTool(t *tools.Tool) toolDescriptor {
	required := t.Schema.Required
	if required == nil {
		required = []string{}
	}
	properties := t.Schema.Properties
	if properties == nil {
		properties = map[string]tools.Property{}
	}
	return toolDescriptor{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: inputSchema{
			Type:       "object",
			Properties: properties,
			Required:   required,
		},
	}
}
