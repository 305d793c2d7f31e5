package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/deixis/diagnose/internal/config"
	"github.com/deixis/diagnose/internal/report"
	"github.com/deixis/diagnose/internal/runner"
	"github.com/deixis/diagnose/internal/workflow"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// setup creates a full diagnose MCP server + client over in-memory
// transports. Remote diagnosis is disabled so no network is touched.
func setup(t *testing.T) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	llmOff := false
	cfg := &config.Config{RawLLM: &llmOff}

	r := &runner.Runner{
		Interpreter: "sh",
		Timeout:     30 * time.Second,
	}
	store := report.NewLRUStore(5, report.NewDiskStore())

	engine, err := workflow.NewEngine(cfg, &config.Credentials{}, r, store)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	server := NewServer(engine, store)

	ct, st := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, st, nil)
	if err != nil {
		t.Fatalf("server.Connect: %v", err)
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	if err != nil {
		t.Fatalf("client.Connect: %v", err)
	}

	t.Cleanup(func() {
		_ = cs.Close()
		_ = ss.Wait()
	})

	return cs
}

func callTool(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("tool result has no content")
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content = %T, want *mcp.TextContent", res.Content[0])
	}
	return tc.Text
}

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.sh")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestListTools(t *testing.T) {
	cs := setup(t)

	res, err := cs.ListTools(context.Background(), &mcp.ListToolsParams{})
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}

	want := map[string]bool{"diag_run": false, "diag_hint": false, "diag_inspect": false}
	for _, tool := range res.Tools {
		if _, ok := want[tool.Name]; ok {
			want[tool.Name] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("tool %s not registered", name)
		}
	}
}

func TestHintTool(t *testing.T) {
	cs := setup(t)

	res := callTool(t, cs, "diag_hint", map[string]any{
		"stderr": "ModuleNotFoundError: No module named 'foo'",
	})
	if res.IsError {
		t.Fatalf("IsError = true: %s", resultText(t, res))
	}
	if got := resultText(t, res); got != "ImportError: Missing dependency: pip install foo" {
		t.Errorf("hint = %q", got)
	}
}

func TestHintTool_NoMatch(t *testing.T) {
	cs := setup(t)

	res := callTool(t, cs, "diag_hint", map[string]any{"stderr": "nothing known here"})
	if got := resultText(t, res); got != "No known error signature matched." {
		t.Errorf("hint = %q", got)
	}
}

func TestHintTool_MissingStderr(t *testing.T) {
	cs := setup(t)

	res := callTool(t, cs, "diag_hint", map[string]any{})
	if !res.IsError {
		t.Error("IsError = false, want true for missing stderr")
	}
}

func TestRunTool_FailingScript(t *testing.T) {
	cs := setup(t)
	script := writeScript(t, "echo working\necho 'ValueError: bad input' >&2\nexit 3\n")

	res := callTool(t, cs, "diag_run", map[string]any{"script": script})
	if res.IsError {
		t.Fatalf("IsError = true: %s", resultText(t, res))
	}

	text := resultText(t, res)
	for _, want := range []string{
		"Status: FAIL (exit code 3)",
		"=== stdout ===",
		"working",
		"=== stderr ===",
		"ValueError: bad input",
		"=== quick hint ===",
		"Value error:",
		"diag_inspect",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "=== llm diagnosis ===") {
		t.Errorf("output has diagnosis section with llm disabled:\n%s", text)
	}
}

func TestRunTool_PassingScript(t *testing.T) {
	cs := setup(t)
	script := writeScript(t, "echo all good\n")

	text := resultText(t, callTool(t, cs, "diag_run", map[string]any{"script": script}))
	if !strings.Contains(text, "Status: PASS") {
		t.Errorf("output missing PASS status:\n%s", text)
	}
	if strings.Contains(text, "=== quick hint ===") {
		t.Errorf("output has hint section for a clean run:\n%s", text)
	}
}

func TestRunTool_MissingScript(t *testing.T) {
	cs := setup(t)

	res := callTool(t, cs, "diag_run", map[string]any{})
	if !res.IsError {
		t.Error("IsError = false, want true for missing script")
	}
}

func TestInspectTool_RoundTrip(t *testing.T) {
	cs := setup(t)
	script := writeScript(t, "echo 'IndexError: out of range' >&2\nexit 1\n")

	runText := resultText(t, callTool(t, cs, "diag_run", map[string]any{"script": script}))

	var runID string
	for _, line := range strings.Split(runText, "\n") {
		if strings.HasPrefix(line, "Run: ") {
			runID = strings.TrimPrefix(line, "Run: ")
			break
		}
	}
	if runID == "" {
		t.Fatalf("no run ID in output:\n%s", runText)
	}

	res := callTool(t, cs, "diag_inspect", map[string]any{"run_id": runID})
	if res.IsError {
		t.Fatalf("IsError = true: %s", resultText(t, res))
	}
	text := resultText(t, res)
	if !strings.Contains(text, "IndexError: out of range") {
		t.Errorf("inspect output missing stderr:\n%s", text)
	}
	if !strings.Contains(text, "Index error:") {
		t.Errorf("inspect output missing hint:\n%s", text)
	}
}

func TestInspectTool_UnknownRunID(t *testing.T) {
	cs := setup(t)

	res := callTool(t, cs, "diag_inspect", map[string]any{"run_id": "no-such-run"})
	if !res.IsError {
		t.Error("IsError = false, want true for unknown run ID")
	}
}
