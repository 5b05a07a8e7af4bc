package a2a

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
)

// Handler processes incoming A2A requests for a role agent.
type Handler interface {
	// HandleSendMessage processes an incoming message and returns a task.
	HandleSendMessage(ctx context.Context, req SendMessageRequest) (*Task, error)

	// HandleGetTask returns the current state of a task.
	HandleGetTask(ctx context.Context, req GetTaskRequest) (*Task, error)

	// HandleCancelTask cancels a running task.
	HandleCancelTask(ctx context.Context, req CancelTaskRequest) (*Task, error)
}

// Server is the HTTP server that exposes a role agent.
type Server struct {
	card    AgentCard
	handler Handler
	http    *http.Server
	addr    net.Addr
}

// NewServer creates an A2A server for the given agent.
func NewServer(card AgentCard, handler Handler) *Server {
	return &Server{
		card:    card,
		handler: handler,
	}
}

// Start binds the listen address, registers routes, and begins serving in a
// background goroutine. Passing port 0 picks a free port; Addr reports it.
func (s *Server) Start(ctx context.Context, addr string) error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /.well-known/agent-card.json", s.handleAgentCard)
	mux.HandleFunc("POST /", s.handleJSONRPC)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("a2a: listen on %s: %w", addr, err)
	}

	s.addr = ln.Addr()
	s.http = &http.Server{
		Handler: mux,
	}

	go s.http.Serve(ln)

	return nil
}

// Addr returns the address the server is listening on. Valid after Start.
func (s *Server) Addr() net.Addr {
	return s.addr
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// handleAgentCard serves the agent card as JSON at the well-known endpoint.
func (s *Server) handleAgentCard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(s.card); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleJSONRPC processes incoming JSON-RPC 2.0 requests and dispatches them
// to the appropriate handler method.
func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONRPCError(w, nil, ErrCodeParse, "Parse error: "+err.Error())
		return
	}

	ctx := r.Context()

	switch req.Method {
	case MethodSendMessage:
		dispatch(ctx, w, &req, s.handler.HandleSendMessage)
	case MethodGetTask:
		dispatch(ctx, w, &req, s.handler.HandleGetTask)
	case MethodCancelTask:
		dispatch(ctx, w, &req, s.handler.HandleCancelTask)
	default:
		writeJSONRPCError(w, req.ID, ErrCodeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}
}

// dispatch unmarshals params into P and invokes the handler function.
func dispatch[P any](ctx context.Context, w http.ResponseWriter, req *JSONRPCRequest, fn func(context.Context, P) (*Task, error)) {
	var params P
	if err := json.Unmarshal(req.Params, &params); err != nil {
		writeJSONRPCError(w, req.ID, ErrCodeInvalidParams, "Invalid params: "+err.Error())
		return
	}

	result, err := fn(ctx, params)
	if err != nil {
		writeJSONRPCError(w, req.ID, ErrCodeInternal, err.Error())
		return
	}

	writeJSONRPCResult(w, req.ID, result)
}

// writeJSONRPCResult writes a successful JSON-RPC response.
func writeJSONRPCResult(w http.ResponseWriter, id any, result any) {
	data, err := json.Marshal(result)
	if err != nil {
		writeJSONRPCError(w, id, ErrCodeInternal, "Failed to marshal result: "+err.Error())
		return
	}

	resp := JSONRPCResponse{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Result:  data,
	}

	json.NewEncoder(w).Encode(resp)
}

// writeJSONRPCError writes a JSON-RPC error response.
func writeJSONRPCError(w http.ResponseWriter, id any, code int, message string) {
	resp := JSONRPCResponse{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error: &JSONRPCError{
			Code:    code,
			Message: message,
		},
	}

	json.NewEncoder(w).Encode(resp)
}
