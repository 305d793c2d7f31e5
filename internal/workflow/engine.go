// Package workflow composes the run → classify → excerpt → diagnose
// pipeline. It is consumed by both the MCP server and the CLI commands.
package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/deixis/diagnose/internal/config"
	"github.com/deixis/diagnose/internal/excerpt"
	"github.com/deixis/diagnose/internal/hints"
	"github.com/deixis/diagnose/internal/llm"
	"github.com/deixis/diagnose/internal/report"
	"github.com/deixis/diagnose/internal/runner"
)

// ScriptRunner executes a script and captures its output.
// Implemented by runner.Runner.
type ScriptRunner interface {
	Run(ctx context.Context, script string, args []string) (*runner.Result, error)
}

// ProviderFactory constructs the diagnosis provider for a model.
type ProviderFactory func(model string, creds *config.Credentials) (llm.Provider, error)

// Engine holds shared dependencies for all diagnose operations.
type Engine struct {
	Config     *config.Config
	Creds      *config.Credentials
	Runner     ScriptRunner
	Classifier *hints.Classifier
	Store      report.Store    // optional; nil means reports are not retained
	Provider   ProviderFactory // defaults to llm.NewProvider
}

// NewEngine builds an Engine from loaded configuration, compiling any
// user-supplied hint rules.
func NewEngine(cfg *config.Config, creds *config.Credentials, r ScriptRunner, store report.Store) (*Engine, error) {
	extra := make([]hints.Rule, 0, len(cfg.Rules))
	for _, rc := range cfg.Rules {
		rule, err := hints.NewRule(rc.Pattern, rc.Hint)
		if err != nil {
			return nil, fmt.Errorf("config rule %q: %w", rc.Pattern, err)
		}
		extra = append(extra, rule)
	}

	return &Engine{
		Config:     cfg,
		Creds:      creds,
		Runner:     r,
		Classifier: hints.New(extra...),
		Store:      store,
		Provider:   llm.NewProvider,
	}, nil
}

// Options are the per-invocation settings, resolved by the caller from
// config defaults and flag overrides.
type Options struct {
	Model string // remote model identifier
	Trim  int    // excerpt budget in chars; 0 = no limit
	LLM   bool   // attempt remote diagnosis on failure
}

// Diagnose runs the script, classifies its stderr, and, when the run
// failed and diagnosis is enabled, requests a remote analysis. Failures
// in the diagnosis path degrade to a visible placeholder in the report;
// only a failure to start the child at all is an error.
func (e *Engine) Diagnose(ctx context.Context, script string, args []string, opts Options) (*report.Report, error) {
	res, err := e.Runner.Run(ctx, script, args)
	if err != nil {
		return nil, err
	}

	rep := &report.Report{
		ID:        res.RunID,
		Script:    script,
		Args:      args,
		Stdout:    res.Stdout,
		Stderr:    res.Stderr,
		ExitCode:  res.ExitCode,
		TimedOut:  res.TimedOut,
		Hint:      e.Classifier.Match(res.Stderr),
		CreatedAt: time.Now().UTC(),
	}

	if res.Failed() && opts.LLM {
		rep.Diagnosis = e.requestDiagnosis(ctx, script, res, opts)
	}

	if e.Store != nil {
		// Retention is best-effort; a full report is still returned.
		_ = e.Store.Save(rep)
	}

	return rep, nil
}

// requestDiagnosis performs the optional remote call. Any failure is
// converted to the sentinel placeholder so the caller always has a
// printable result.
func (e *Engine) requestDiagnosis(ctx context.Context, script string, res *runner.Result, opts Options) string {
	provider, err := e.Provider(opts.Model, e.Creds)
	if err != nil {
		return unavailable(err)
	}

	text, err := provider.Diagnose(ctx, opts.Model, &llm.Request{
		Stderr:  res.Stderr,
		Stdout:  res.Stdout,
		Excerpt: excerpt.Extract(script, opts.Trim),
	})
	if err != nil {
		return unavailable(err)
	}
	return text
}

func unavailable(err error) string {
	return fmt.Sprintf("(LLM unavailable: %v)", err)
}
