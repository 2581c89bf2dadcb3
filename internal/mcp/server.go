package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"videomcp/internal/logging"
	"videomcp/internal/tools"
)

// maxLineBytes bounds a single JSON-RPC message. Tool arguments are
// small; this is generous headroom.
const maxLineBytes = 16 << 20

// Server serves the tool registry over line-delimited JSON-RPC.
// Requests are handled serially, in arrival order: a tool call runs
// to its terminal state (success, failure, or timeout) before the
// next message is read.
type Server struct {
	name     string
	version  string
	registry *tools.Registry

	writeMu sync.Mutex
}

// NewServer creates a Server for the given registry.
func NewServer(name, version string, registry *tools.Registry) *Server {
	return &Server{name: name, version: version, registry: registry}
}

// inbound is one message from the reader goroutine. tooLong marks a
// line that exceeded maxLineBytes and was discarded.
type inbound struct {
	line    []byte
	tooLong bool
}

// Serve reads messages from r and writes responses to w until r is
// exhausted or ctx is canceled. A malformed line yields a JSON-RPC
// parse error; no input ever terminates the loop abnormally. Reading
// happens in a goroutine so cancellation is honored even while the
// reader is blocked on an idle stream.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	logging.MCP("server started: %s %s (%d tools)", s.name, s.version, s.registry.Count())

	messages := make(chan inbound)
	readErr := make(chan error, 1)
	go func() {
		defer close(messages)
		reader := bufio.NewReaderSize(r, 64*1024)
		for {
			line, tooLong, err := readLine(reader)
			if len(bytes.TrimSpace(line)) > 0 || tooLong {
				select {
				case messages <- inbound{line: line, tooLong: tooLong}:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if err != io.EOF {
					readErr <- err
				}
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case msg, ok := <-messages:
			if !ok {
				select {
				case err := <-readErr:
					return fmt.Errorf("failed to read request stream: %w", err)
				default:
				}
				logging.MCP("request stream closed, shutting down")
				return nil
			}

			if msg.tooLong {
				logging.MCP("oversized message discarded")
				s.write(w, response{
					JSONRPC: "2.0",
					ID:      json.RawMessage("null"),
					Error:   &rpcError{Code: codeParseError, Message: "message too large"},
				})
				continue
			}

			var req request
			if err := json.Unmarshal(msg.line, &req); err != nil {
				logging.MCP("parse error: %v", err)
				s.write(w, response{
					JSONRPC: "2.0",
					ID:      json.RawMessage("null"),
					Error:   &rpcError{Code: codeParseError, Message: "parse error"},
				})
				continue
			}

			// Notifications get no response.
			if len(req.ID) == 0 || string(req.ID) == "null" {
				logging.MCPDebug("notification: %s", req.Method)
				continue
			}

			s.write(w, s.handle(ctx, &req))
		}
	}
}

// readLine reads one newline-terminated line, bounded by
// maxLineBytes. An oversized line is drained to its newline and
// reported as tooLong with no content.
func readLine(r *bufio.Reader) (line []byte, tooLong bool, err error) {
	for {
		chunk, err := r.ReadSlice('\n')
		if !tooLong {
			line = append(line, chunk...)
			if len(line) > maxLineBytes {
				tooLong = true
				line = nil
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		return line, tooLong, err
	}
}

// handle dispatches one request to a method handler. Every fault is
// converted into a JSON-RPC error or a tool failure envelope; nothing
// propagates to the transport uncaught.
func (s *Server) handle(ctx context.Context, req *request) response {
	resp := response{JSONRPC: "2.0", ID: req.ID}

	logging.MCPDebug("request: method=%s", req.Method)

	switch req.Method {
	case "initialize":
		resp.Result = initializeResult{
			ProtocolVersion: ProtocolVersion,
			Capabilities:    serverCapabilities{Tools: toolsCapability{ListChanged: false}},
			ServerInfo:      serverInfo{Name: s.name, Version: s.version},
		}

	case "ping":
		resp.Result = struct{}{}

	case "tools/list":
		all := s.registry.All()
		descriptors := make([]toolDescriptor, 0, len(all))
		for _, t := range all {
			descriptors = append(descriptors, describeTool(t))
		}
		resp.Result = listToolsResult{Tools: descriptors}

	case "tools/call":
		var params callParams
		if err := json.Unmarshal(req.Params, &params); err != nil || params.Name == "" {
			resp.Error = &rpcError{Code: codeInvalidParams, Message: "invalid tools/call params"}
			return resp
		}
		resp.Result = s.callTool(ctx, &params)

	default:
		resp.Error = &rpcError{Code: codeMethodNotFound, Message: fmt.Sprintf("method not found: %s", req.Method)}
	}

	return resp
}

// callTool executes a tool and renders the uniform result envelope.
func (s *Server) callTool(ctx context.Context, params *callParams) (result callResult) {
	defer func() {
		if r := recover(); r != nil {
			logging.MCP("panic in tool %s: %v", params.Name, r)
			result = failureResult(tools.Failf(tools.KindProcessError, "tool %s panicked: %v", params.Name, r))
		}
	}()

	args := params.Arguments
	if args == nil {
		args = map[string]any{}
	}

	res := s.registry.Execute(ctx, params.Name, args)
	if !res.IsSuccess() {
		logging.MCP("tool %s failed after %dms: %s", params.Name, res.DurationMs, res.Failure)
		return failureResult(res.Failure)
	}

	logging.MCP("tool %s succeeded in %dms", params.Name, res.DurationMs)
	return callResult{Content: []textContent{{Type: "text", Text: res.Result}}}
}

// failureResult renders a Failure as an error envelope the host can
// show verbatim.
func failureResult(f *tools.Failure) callResult {
	return callResult{
		Content: []textContent{{Type: "text", Text: fmt.Sprintf("Error (%s): %s", f.Kind, f.Message)}},
		IsError: true,
	}
}

// write marshals and writes one newline-terminated response.
func (s *Server) write(w io.Writer, resp response) {
	data, err := json.Marshal(resp)
	if err != nil {
		// Result values are plain structs; this cannot normally fail.
		logging.MCP("failed to marshal response: %v", err)
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_, _ = w.Write(append(data, '\n'))
}
