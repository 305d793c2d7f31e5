package hints

import (
	"strings"
	"testing"
)

func TestMatch_EmptyStderr(t *testing.T) {
	c := New()
	if got := c.Match(""); got != "" {
		t.Errorf("Match(%q) = %q, want empty", "", got)
	}
}

func TestMatch_NoRuleMatches(t *testing.T) {
	c := New()
	if got := c.Match("everything is fine"); got != "" {
		t.Errorf("Match = %q, want empty", got)
	}
}

func TestMatch_Builtin(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   string
	}{
		{
			name:   "zero division",
			stderr: "Traceback (most recent call last):\n  File \"x.py\", line 1\nZeroDivisionError: division by zero",
			want:   "ArithmeticError: division by zero",
		},
		{
			name:   "missing module",
			stderr: "ModuleNotFoundError: No module named 'foo'",
			want:   "ImportError: Missing dependency: pip install foo",
		},
		{
			name:   "import name mismatch",
			stderr: "ImportError: cannot import name 'Bar' from 'lib'",
			want:   "Import mismatch: check the library version and import path for 'Bar'",
		},
		{
			name:   "index error",
			stderr: "IndexError: list index out of range",
			want:   "Index error: the value requested is outside the range",
		},
		{
			name:   "undefined name",
			stderr: "NameError: name 'counter' is not defined",
			want:   "Name 'counter' is undefined: typo, missing import, or assignment?",
		},
		{
			name:   "file not found",
			stderr: "FileNotFoundError: [Errno 2] No such file or directory: 'data.csv'",
			want:   "File not found: data.csv (check working directory/path)",
		},
		{
			name:   "permission denied",
			stderr: "PermissionError: [Errno 13] Permission denied: '/etc/shadow'",
			want:   "Permission denied: adjust file permissions or run with appropriate privileges",
		},
		{
			name:   "syntax error",
			stderr: "  File \"x.py\", line 3\nSyntaxError: invalid syntax",
			want:   "Syntax error: check missing colons, parentheses, or stray characters",
		},
		{
			name:   "indentation error",
			stderr: "IndentationError: unexpected indent",
			want:   "Indentation error: avoid mixing tabs/spaces; use 4 spaces",
		},
		{
			name:   "type error",
			stderr: "TypeError: unsupported operand type(s)",
			want:   "Type error: an argument has the wrong type, check the function signature",
		},
		{
			name:   "value error",
			stderr: "ValueError: invalid literal for int()",
			want:   "Value error: a value is invalid for the expected type/range",
		},
	}

	c := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Match(tt.stderr); got != tt.want {
				t.Errorf("Match = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMatch_FirstMatchWins(t *testing.T) {
	c := New()

	// Both signatures present: the module rule comes before the type rule,
	// so it wins regardless of position in the text.
	stderr := "TypeError: bad operand\nModuleNotFoundError: No module named 'foo'"
	got := c.Match(stderr)
	if !strings.Contains(got, "pip install foo") {
		t.Errorf("Match = %q, want the missing-module hint", got)
	}
}

func TestMatch_OnlyOneHint(t *testing.T) {
	c := New()
	stderr := "ZeroDivisionError: division by zero\nValueError: also broken"
	got := c.Match(stderr)
	if got != "ArithmeticError: division by zero" {
		t.Errorf("Match = %q, want only the first hint", got)
	}
}

func TestNewRule_Expansion(t *testing.T) {
	r, err := NewRule(`AssertionError: (.+)`, "Assertion failed: $1")
	if err != nil {
		t.Fatalf("NewRule: %v", err)
	}
	c := New(r)
	got := c.Match("AssertionError: expected 2, got 3")
	if got != "Assertion failed: expected 2, got 3" {
		t.Errorf("Match = %q", got)
	}
}

func TestNewRule_PrependedRuleWinsOverBuiltin(t *testing.T) {
	// A config rule specialising the generic TypeError built-in.
	r, err := NewRule(`TypeError: 'NoneType'`, "A value is None where an object was expected")
	if err != nil {
		t.Fatalf("NewRule: %v", err)
	}
	c := New(r)
	got := c.Match("TypeError: 'NoneType' object is not subscriptable")
	if got != "A value is None where an object was expected" {
		t.Errorf("Match = %q, want the prepended rule's hint", got)
	}
}

func TestNewRule_BadPattern(t *testing.T) {
	if _, err := NewRule(`(`, "x"); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}
