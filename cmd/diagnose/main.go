// Command diagnose runs a Python script, prints its output, and
// (optionally) diagnoses failures with a language model.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/deixis/diagnose"
	"github.com/deixis/diagnose/internal/config"
	diagmcp "github.com/deixis/diagnose/internal/mcp"
	"github.com/deixis/diagnose/internal/report"
	"github.com/deixis/diagnose/internal/runner"
	"github.com/deixis/diagnose/internal/workflow"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("diagnose: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	// Load a local .env (API keys, etc.) before any other work.
	if cwd, err := os.Getwd(); err == nil {
		if err := config.LoadDotEnv(cwd); err != nil {
			log.Print(err)
		}
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "run":
		err = runMain(args)
	case "hint":
		err = hintMain(args)
	case "mcp":
		err = mcpMain(args)
	case "version":
		fmt.Println(diagnose.Version)
	case "help", "-h", "--help":
		usage()
	default:
		// No subcommand: treat the whole argv as a run invocation, so
		// `diagnose script.py -- args` works directly.
		err = runMain(os.Args[1:])
	}

	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: diagnose [command] [flags] <script> [script args...]

Commands:
  run         Run a script and diagnose failures (default)
  hint        Classify stderr text from stdin against known error signatures
  mcp         Start the MCP server
  version     Print the version
  help        Show this help

Use "diagnose <command> -h" for command-specific flags.`)
}

// --- run ---

func runMain(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	timeoutFlag := fs.Int("timeout", 0, "seconds before the script is killed (default 60)")
	llmFlag := fs.Bool("llm", true, "ask a remote model to diagnose failures")
	modelFlag := fs.String("model", "", `remote model name (default "gpt-5-nano")`)
	trimFlag := fs.Int("trim", 0, "max characters of source sent to the model, 0 for no limit (default 2000)")
	pythonFlag := fs.String("python", "", `interpreter used to run the script (default "python3")`)
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(2)
	}
	script := fs.Arg(0)
	scriptArgs := fs.Args()[1:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	eng, err := newEngine(nil)
	if err != nil {
		return err
	}
	cfg := eng.Config

	opts := workflow.Options{
		Model: cfg.Model(),
		Trim:  cfg.Trim(),
		LLM:   cfg.LLMEnabled(),
	}
	timeout := cfg.Timeout()
	interpreter := cfg.Python()

	// Flags override config only when set explicitly.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "timeout":
			timeout = time.Duration(*timeoutFlag) * time.Second
		case "llm":
			opts.LLM = *llmFlag
		case "model":
			opts.Model = *modelFlag
		case "trim":
			opts.Trim = *trimFlag
		case "python":
			interpreter = *pythonFlag
		}
	})

	eng.Runner = &runner.Runner{
		Interpreter: interpreter,
		Timeout:     timeout,
		MaxOutput:   cfg.MaxOutputBytes(),
	}

	rep, err := eng.Diagnose(ctx, script, scriptArgs, opts)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	fmt.Println("=== stdout ===\n" + rep.Stdout)
	fmt.Println("=== stderr ===\n" + rep.Stderr)
	fmt.Printf("=== exit code ===\n%d\n", rep.ExitCode)
	if rep.Hint != "" {
		fmt.Println("=== quick hint ===\n" + rep.Hint)
	}
	if rep.Diagnosis != "" {
		fmt.Println("=== llm diagnosis ===\n" + rep.Diagnosis)
	}

	// Relay the child's exit code (124 on timeout).
	os.Exit(rep.ExitCode)
	return nil
}

// --- hint ---

func hintMain(args []string) error {
	fs := flag.NewFlagSet("hint", flag.ExitOnError)
	_ = fs.Parse(args)

	eng, err := newEngine(nil)
	if err != nil {
		return err
	}

	stderr, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	if hint := eng.Classifier.Match(string(stderr)); hint != "" {
		fmt.Println(hint)
	}
	return nil
}

// --- mcp ---

func mcpMain(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	instructions := fs.Bool("instructions", false, "print model instructions and exit")
	httpAddr := fs.String("http", "", "start HTTP server on address (e.g. :9090)")
	_ = fs.Parse(args)

	if *instructions {
		fmt.Print(diagmcp.Instructions)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store := report.NewLRUStore(5, report.NewDiskStore())
	eng, err := newEngine(store)
	if err != nil {
		return err
	}
	eng.Runner = &runner.Runner{
		Interpreter: eng.Config.Python(),
		Timeout:     eng.Config.Timeout(),
		MaxOutput:   eng.Config.MaxOutputBytes(),
	}

	server := diagmcp.NewServer(eng, store)

	if *httpAddr != "" {
		return serveHTTP(ctx, server, *httpAddr)
	}
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

func serveHTTP(ctx context.Context, server *mcpsdk.Server, addr string) error {
	handler := mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	log.Printf("listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// --- shared ---

// newEngine loads configuration and credentials from the working
// directory and builds the workflow engine. The caller assigns the
// Runner once flag overrides are known.
func newEngine(store report.Store) (*workflow.Engine, error) {
	workspace, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determining workspace: %w", err)
	}

	loaded, err := config.Load(workspace)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	creds, err := config.LoadCredentials()
	if err != nil {
		return nil, fmt.Errorf("loading credentials: %w", err)
	}

	return workflow.NewEngine(loaded.Config, creds, nil, store)
}
