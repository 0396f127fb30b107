// Package diag holds the diagnostic codes shared by every analysis stage and
// the append-only sink that collects them into one ordered report.
//
// Codes 100-120 are a stable external interface; never renumber them.
package diag

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	// package logger instance
	log = logrus.New()
)

// Diagnostic codes.
const (
	MissingSemicolon   = 100
	MissingDot         = 101
	InvalidLiteral     = 102
	UnexpectedToken    = 104
	UndeclaredVariable = 106
	MissingBegin       = 107
	MissingEnd         = 108
	MissingAssign      = 109
	TypeMismatch       = 112
	DuplicateIdent     = 113
	BracketMismatch    = 116
	UnterminatedString = 117
	InvalidCharacter   = 118
	IntegerRange       = 119
	RealRange          = 120
)

// templates are the canonical messages, formatted with the Add arguments.
var templates = map[int]string{
	MissingSemicolon:   "missing ';'",
	MissingDot:         "missing '.' after end",
	InvalidLiteral:     "invalid literal: %s",
	UnexpectedToken:    "expected %s, got %s",
	UndeclaredVariable: "undeclared variable '%s'",
	MissingBegin:       "missing begin",
	MissingEnd:         "missing end",
	MissingAssign:      "missing ':='",
	TypeMismatch:       "type mismatch: %s",
	DuplicateIdent:     "duplicate identifier '%s'",
	BracketMismatch:    "%s",
	UnterminatedString: "unterminated string literal",
	InvalidCharacter:   "invalid character: %s",
	IntegerRange:       "integer literal %s out of range [-32768, 32767]",
	RealRange:          "real literal %s out of representable range",
}

// Category is the error taxonomy a code belongs to.
type Category int

const (
	Lexical Category = iota
	Syntax
	Semantic
)

func (c Category) String() string {
	switch c {
	case Lexical:
		return "lexical"
	case Syntax:
		return "syntax"
	default:
		return "semantic"
	}
}

// CategoryOf classifies a diagnostic code.
func CategoryOf(code int) Category {
	switch code {
	case InvalidLiteral, BracketMismatch, UnterminatedString, InvalidCharacter:
		return Lexical
	case UndeclaredVariable, TypeMismatch, DuplicateIdent, IntegerRange, RealRange:
		return Semantic
	default:
		return Syntax
	}
}

// Diagnostic is one error record.
type Diagnostic struct {
	Code    int    `json:"code" yaml:"code"`
	Line    int    `json:"line" yaml:"line"`
	Message string `json:"message" yaml:"message"`
}

// Category returns the taxonomy of the diagnostic's code.
func (d Diagnostic) Category() Category { return CategoryOf(d.Code) }

// String formats the diagnostic as "line N: error C: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: error %d: %s", d.Line, d.Code, d.Message)
}

// Format renders the message template of code with args.
// A template without verbs ignores args.
func Format(code int, args ...any) string {
	tmpl, ok := templates[code]
	if !ok {
		return fmt.Sprint(args...)
	}
	if !strings.Contains(tmpl, "%") {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}

// Sink collects diagnostics for one compilation run.
// It is append-only and drops exact duplicates (same code, line and message).
// A Sink is not safe for concurrent use; each run owns its own.
type Sink struct {
	list  []Diagnostic
	seen  map[Diagnostic]struct{}
	limit int
}

// NewSink returns an empty sink without a limit.
func NewSink() *Sink {
	return &Sink{seen: make(map[Diagnostic]struct{})}
}

// SetLimit stops recording once n diagnostics are held. n <= 0 means unlimited.
func (s *Sink) SetLimit(n int) {
	s.limit = n
}

// Add formats and records a diagnostic. It reports whether the diagnostic was
// recorded (false for duplicates and when the limit has been reached).
func (s *Sink) Add(code, line int, args ...any) bool {
	d := Diagnostic{Code: code, Line: line, Message: Format(code, args...)}
	if _, dup := s.seen[d]; dup {
		log.WithField("diagnostic", d.String()).Debug("duplicate suppressed")
		return false
	}
	if s.limit > 0 && len(s.list) >= s.limit {
		return false
	}
	s.seen[d] = struct{}{}
	s.list = append(s.list, d)
	return true
}

// Diagnostics returns a copy of the recorded diagnostics in insertion order.
func (s *Sink) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(s.list))
	copy(out, s.list)
	return out
}

// Len returns the number of recorded diagnostics.
func (s *Sink) Len() int { return len(s.list) }

// HasErrors reports whether anything was recorded.
func (s *Sink) HasErrors() bool { return len(s.list) > 0 }

// Count returns how many recorded diagnostics carry code.
func (s *Sink) Count(code int) int {
	n := 0
	for _, d := range s.list {
		if d.Code == code {
			n++
		}
	}
	return n
}

// SetLogLevel changes the package log level.
func SetLogLevel(level string) error {
	ll, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}

	log.SetLevel(ll)
	return nil // OK
}

// package initialization
func init() {
	// be silent by default
	log.SetLevel(logrus.WarnLevel)
}
