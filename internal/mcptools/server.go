package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewReviewMCPServer creates an MCP server with the review tools registered.
func NewReviewMCPServer(svc *ReviewService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "crosscheck-review",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name: "review_code",
		Description: "Review source code with a panel of specialized analyzer roles. " +
			"Dispatches the source to all roles concurrently, detects conflicting and " +
			"complementary findings, resolves conflicts, and returns a prioritized report.",
	}, svc.ReviewCode)

	mcp.AddTool(server, &mcp.Tool{
		Name: "record_feedback",
		Description: "Record whether a conflict resolution from a previous review was " +
			"accepted, edited, or rejected. Feedback steers future strategy selection.",
	}, svc.RecordFeedback)

	mcp.AddTool(server, &mcp.Tool{
		Name: "strategy_insights",
		Description: "Summarize the accumulated feedback record: per-strategy scores and " +
			"acceptance rates by conflict kind, plus suggestions derived from them.",
	}, svc.StrategyInsights)

	return server
}

// RunMCPServer starts an HTTP server exposing the review MCP tools.
func RunMCPServer(ctx context.Context, svc *ReviewService, addr string) error {
	server := NewReviewMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
