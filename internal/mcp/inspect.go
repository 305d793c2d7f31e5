package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type hintParams struct {
	Stderr string `json:"stderr,omitempty" jsonschema:"the stderr text (e.g. a Python traceback) to classify"`
}

func (h *handler) hintHandler(ctx context.Context, req *mcp.CallToolRequest, params hintParams) (*mcp.CallToolResult, any, error) {
	if params.Stderr == "" {
		return errorResult("stderr is required")
	}

	hint := h.engine.Classifier.Match(params.Stderr)
	if hint == "" {
		return textResult("No known error signature matched.")
	}
	return textResult(hint)
}

type inspectParams struct {
	RunID string `json:"run_id" jsonschema:"the run ID from a diag_run result"`
}

func (h *handler) inspectHandler(ctx context.Context, req *mcp.CallToolRequest, params inspectParams) (*mcp.CallToolResult, any, error) {
	if params.RunID == "" {
		return errorResult("run_id is required")
	}

	rep, err := h.store.Load(params.RunID)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to load run %s: %v", params.RunID, err))
	}

	return textResult(formatReport(rep, false))
}
