// Package mcp provides the diagnose MCP server, registering the run,
// hint, and inspect tools and publishing model instructions.
package mcp

import (
	_ "embed"

	"github.com/deixis/diagnose"
	"github.com/deixis/diagnose/internal/report"
	"github.com/deixis/diagnose/internal/workflow"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	engine *workflow.Engine
	store  report.Store
}

// NewServer creates an MCP server with all diagnose tools registered.
// The engine's store should be the same store passed here, so diag_run
// results are retrievable via diag_inspect.
func NewServer(engine *workflow.Engine, store report.Store) *mcp.Server {
	h := &handler{engine: engine, store: store}

	mcpOpts := &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
	}
	s := mcp.NewServer(&mcp.Implementation{Name: "diagnose", Version: diagnose.Version}, mcpOpts)

	mcp.AddTool(s, &mcp.Tool{
		Name: "diag_run",
		Description: `Run a Python script, capture its output, and diagnose failures.

Runs the script under the configured interpreter with a timeout, applies
heuristic error classification to stderr, and (for failed runs) asks a
language model for a root-cause analysis. Results are stored for later
retrieval via diag_inspect.`,
	}, h.runHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "diag_hint",
		Description: `Classify a stderr text against the known Python error signatures.

Use this to get a quick local hint for a traceback without running anything.
Returns the first matching hint, or reports that nothing matched.`,
	}, h.hintHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "diag_inspect",
		Description: `Fetch the stored report of an earlier diag_run by its run ID.

Returns the full captured stdout, stderr, exit code, hint, and diagnosis.`,
	}, h.inspectHandler)

	return s
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
