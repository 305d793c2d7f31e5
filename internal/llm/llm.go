// Package llm issues a single diagnosis request to a remote language
// model. Providers are routed by model name: claude-prefixed models go to
// the Anthropic Messages API, everything else to OpenAI chat completions.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deixis/diagnose/internal/config"
)

// requestTimeout bounds the single HTTP call to the provider. The child
// process has its own timeout; this one only covers the network request.
const requestTimeout = 60 * time.Second

// Request carries the failure context for one diagnosis.
type Request struct {
	Stderr  string // traceback text from the failed run
	Stdout  string // standard output, for context
	Excerpt string // source excerpt, possibly trimmed
}

// Provider issues exactly one diagnosis request. No retries, no streaming.
type Provider interface {
	Diagnose(ctx context.Context, model string, req *Request) (string, error)
}

// ErrUnavailable is returned when no provider client can be constructed,
// typically because credentials are missing. Callers degrade to a visible
// placeholder rather than aborting the run.
type ErrUnavailable struct {
	Reason string
}

func (e ErrUnavailable) Error() string {
	return e.Reason
}

// NewProvider constructs the provider for the named model.
func NewProvider(model string, creds *config.Credentials) (Provider, error) {
	if strings.HasPrefix(model, "claude") {
		return newAnthropicProvider(creds)
	}
	return newOpenAIProvider(creds)
}

const systemPrompt = `You are a careful Python error analyzer. ` +
	`Explain the likely root cause, list minimal fix steps, and say why they work, concisely.`

// userPrompt embeds the three inputs verbatim.
func userPrompt(req *Request) string {
	var b strings.Builder
	fmt.Fprintln(&b, "Analyze this failure and propose minimal fixes.")
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "stderr (traceback):")
	fmt.Fprintln(&b, req.Stderr)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "stdout:")
	fmt.Fprintln(&b, req.Stdout)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "code excerpt (may be trimmed):")
	fmt.Fprintln(&b, req.Excerpt)
	return b.String()
}
