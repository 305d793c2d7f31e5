package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/deixis/diagnose/internal/report"
	"github.com/deixis/diagnose/internal/workflow"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type runParams struct {
	Script string   `json:"script,omitempty" jsonschema:"path to the Python script to run"`
	Args   []string `json:"args,omitempty" jsonschema:"arguments passed through to the script verbatim"`
	Model  *string  `json:"model,omitempty" jsonschema:"remote model identifier. Defaults to the configured model."`
	Trim   *int     `json:"trim,omitempty" jsonschema:"character budget for the source excerpt sent to the model; 0 means no limit. Defaults to the configured budget."`
	LLM    *bool    `json:"llm,omitempty" jsonschema:"attempt remote diagnosis when the script fails. Default: true."`
}

func (h *handler) runHandler(ctx context.Context, req *mcp.CallToolRequest, params runParams) (*mcp.CallToolResult, any, error) {
	if params.Script == "" {
		return errorResult("script is required")
	}

	cfg := h.engine.Config
	opts := workflow.Options{
		Model: cfg.Model(),
		Trim:  cfg.Trim(),
		LLM:   cfg.LLMEnabled(),
	}
	if params.Model != nil && *params.Model != "" {
		opts.Model = *params.Model
	}
	if params.Trim != nil {
		opts.Trim = *params.Trim
	}
	if params.LLM != nil {
		opts.LLM = *params.LLM
	}

	rep, err := h.engine.Diagnose(ctx, params.Script, params.Args, opts)
	if err != nil {
		return errorResult(fmt.Sprintf("run failed: %v", err))
	}

	return textResult(formatReport(rep, true))
}

// formatReport renders a report for MCP clients. withFooter adds the
// diag_inspect pointer for fresh runs.
func formatReport(rep *report.Report, withFooter bool) string {
	var b strings.Builder

	if rep.Failed() {
		if rep.TimedOut {
			fmt.Fprintf(&b, "Status: TIMEOUT (exit code %d)\n", rep.ExitCode)
		} else {
			fmt.Fprintf(&b, "Status: FAIL (exit code %d)\n", rep.ExitCode)
		}
	} else {
		fmt.Fprintln(&b, "Status: PASS")
	}
	fmt.Fprintf(&b, "Run: %s\n", rep.ID)
	fmt.Fprintf(&b, "Script: %s\n", rep.Script)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "=== stdout ===")
	fmt.Fprintln(&b, rep.Stdout)
	fmt.Fprintln(&b, "=== stderr ===")
	fmt.Fprintln(&b, rep.Stderr)

	if rep.Hint != "" {
		fmt.Fprintln(&b, "=== quick hint ===")
		fmt.Fprintln(&b, rep.Hint)
	}
	if rep.Diagnosis != "" {
		fmt.Fprintln(&b, "=== llm diagnosis ===")
		fmt.Fprintln(&b, rep.Diagnosis)
	}

	if withFooter {
		fmt.Fprintf(&b, "\nFetch this report again with diag_inspect(run_id=%q).\n", rep.ID)
	}

	return b.String()
}
