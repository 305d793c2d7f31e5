// Package config loads the optional .diagnose YAML file and the
// environment-derived provider credentials.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default values applied when the config file is absent or silent.
const (
	DefaultTimeout = 60 * time.Second
	DefaultModel   = "gpt-5-nano"
	DefaultTrim    = 2000
	DefaultPython  = "python3"
)

// FileName is the config file looked up from the working directory upward.
const FileName = ".diagnose"

// Config holds the parsed .diagnose configuration.
// All fields are optional; zero values represent defaults.
type Config struct {
	Version      int        `yaml:"version"`
	RawTimeout   int        `yaml:"timeout"`    // seconds
	RawModel     string     `yaml:"model"`      // remote model identifier
	RawTrim      *int       `yaml:"trim"`       // excerpt budget in chars; 0 = no limit
	RawPython    string     `yaml:"python"`     // interpreter path
	RawMaxOutput int        `yaml:"max_output"` // bytes per captured stream; 0 = uncapped
	RawLLM       *bool      `yaml:"llm"`        // attempt remote diagnosis on failure
	Rules        []HintRule `yaml:"rules"`      // extra heuristic rules, tried before built-ins
}

// HintRule is a user-supplied stderr pattern with a hint template.
// The template may reference capture groups ($1, ${name}).
type HintRule struct {
	Pattern string `yaml:"pattern"`
	Hint    string `yaml:"hint"`
}

// Timeout returns the configured child timeout or the default.
func (c *Config) Timeout() time.Duration {
	if c.RawTimeout > 0 {
		return time.Duration(c.RawTimeout) * time.Second
	}
	return DefaultTimeout
}

// Model returns the configured model identifier or the default.
func (c *Config) Model() string {
	if c.RawModel != "" {
		return c.RawModel
	}
	return DefaultModel
}

// Trim returns the configured excerpt budget or the default.
// Zero means no limit, so "unset" and "0" are distinct.
func (c *Config) Trim() int {
	if c.RawTrim != nil {
		return *c.RawTrim
	}
	return DefaultTrim
}

// Python returns the configured interpreter path or the default.
func (c *Config) Python() string {
	if c.RawPython != "" {
		return c.RawPython
	}
	return DefaultPython
}

// MaxOutputBytes returns the per-stream capture cap. Zero means uncapped.
func (c *Config) MaxOutputBytes() int {
	if c.RawMaxOutput > 0 {
		return c.RawMaxOutput
	}
	return 0
}

// LLMEnabled reports whether remote diagnosis is attempted on failure.
func (c *Config) LLMEnabled() bool {
	if c.RawLLM != nil {
		return *c.RawLLM
	}
	return true
}

// LoadResult holds the parsed config and the directory it was found in.
type LoadResult struct {
	Config *Config
	Root   string // directory containing the config file; falls back to workspace
}

// Load reads the .diagnose file, walking upward from workspace until one
// is found. If no config file exists, a default Config is returned.
func Load(workspace string) (*LoadResult, error) {
	root, path, err := findConfigFile(workspace)
	if err != nil {
		return &LoadResult{Config: &Config{}, Root: workspace}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	return &LoadResult{Config: cfg, Root: root}, nil
}

// findConfigFile walks upward from dir looking for a directory containing
// the config file.
func findConfigFile(dir string) (root, path string, err error) {
	dir, err = filepath.Abs(dir)
	if err != nil {
		return "", "", err
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", fmt.Errorf("%s not found", FileName)
		}
		dir = parent
	}
}

// Credentials holds the provider secrets read from the environment.
type Credentials struct {
	OpenAIKey     string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	AnthropicKey  string `env:"ANTHROPIC_API_KEY"`
}

// LoadCredentials parses provider credentials from the process environment.
// Call LoadDotEnv first so a local .env file is taken into account.
func LoadCredentials() (*Credentials, error) {
	creds := &Credentials{}
	if err := env.Parse(creds); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return creds, nil
}

// LoadDotEnv loads a .env file from dir into the process environment, once,
// before any other work. Variables already set in the environment win.
// A missing .env file is not an error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}
