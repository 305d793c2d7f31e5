// Package hints derives quick human-readable hints from common Python
// error signatures found in stderr text.
package hints

import (
	"fmt"
	"regexp"
)

// Rule pairs a stderr pattern with a hint builder. Exactly one of hint or
// template is set: hint receives the submatches, template is expanded with
// $1/${name} references against the match.
type Rule struct {
	re       *regexp.Regexp
	hint     func(m []string) string
	template string
}

// NewRule compiles a pattern and hint template into a Rule. The template
// may reference capture groups ($1, ${name}).
func NewRule(pattern, template string) (Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("compiling hint pattern %q: %w", pattern, err)
	}
	return Rule{re: re, template: template}, nil
}

func rule(pattern string, hint func(m []string) string) Rule {
	return Rule{re: regexp.MustCompile(pattern), hint: hint}
}

// builtin is the fixed rule list, scanned in order. Order matters: the
// first matching rule wins and later rules are not evaluated, so specific
// signatures come before catch-alls like TypeError.
var builtin = []Rule{
	rule(`ZeroDivisionError:`, func([]string) string {
		return "ArithmeticError: division by zero"
	}),
	rule(`ModuleNotFoundError: No module named '([^']+)'`, func(m []string) string {
		return fmt.Sprintf("ImportError: Missing dependency: pip install %s", m[1])
	}),
	rule(`ImportError: cannot import name '([^']+)'`, func(m []string) string {
		return fmt.Sprintf("Import mismatch: check the library version and import path for '%s'", m[1])
	}),
	rule(`IndexError`, func([]string) string {
		return "Index error: the value requested is outside the range"
	}),
	rule(`NameError: name '([^']+)' is not defined`, func(m []string) string {
		return fmt.Sprintf("Name '%s' is undefined: typo, missing import, or assignment?", m[1])
	}),
	rule(`FileNotFoundError: \[Errno 2\] No such file or directory: '([^']+)'`, func(m []string) string {
		return fmt.Sprintf("File not found: %s (check working directory/path)", m[1])
	}),
	rule(`PermissionError: \[Errno 13\]`, func([]string) string {
		return "Permission denied: adjust file permissions or run with appropriate privileges"
	}),
	rule(`SyntaxError:`, func([]string) string {
		return "Syntax error: check missing colons, parentheses, or stray characters"
	}),
	rule(`IndentationError:`, func([]string) string {
		return "Indentation error: avoid mixing tabs/spaces; use 4 spaces"
	}),
	rule(`TypeError:`, func([]string) string {
		return "Type error: an argument has the wrong type, check the function signature"
	}),
	rule(`ValueError:`, func([]string) string {
		return "Value error: a value is invalid for the expected type/range"
	}),
}

// Classifier scans stderr text against an ordered rule list.
type Classifier struct {
	rules []Rule
}

// New creates a Classifier. Extra rules are prepended to the built-in
// list, so they can specialise a generic built-in signature.
func New(extra ...Rule) *Classifier {
	rules := make([]Rule, 0, len(extra)+len(builtin))
	rules = append(rules, extra...)
	rules = append(rules, builtin...)
	return &Classifier{rules: rules}
}

// Match returns the hint for the first rule matching stderr, or the empty
// string when stderr is empty or no rule matches. The two absent-hint
// cases are deliberately indistinguishable: callers only care whether
// there is something to print.
func (c *Classifier) Match(stderr string) string {
	if stderr == "" {
		return ""
	}
	for _, r := range c.rules {
		loc := r.re.FindStringSubmatchIndex(stderr)
		if loc == nil {
			continue
		}
		if r.hint != nil {
			return r.hint(submatches(stderr, loc))
		}
		return string(r.re.ExpandString(nil, r.template, stderr, loc))
	}
	return ""
}

func submatches(s string, loc []int) []string {
	m := make([]string, 0, len(loc)/2)
	for i := 0; i < len(loc); i += 2 {
		if loc[i] < 0 {
			m = append(m, "")
			continue
		}
		m = append(m, s[loc[i]:loc[i+1]])
	}
	return m
}
