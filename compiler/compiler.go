// Package compiler wires the lexer, the parser and the semantic checker into a
// single analysis run.
//
// Every call to [Analyze] builds its own sink, lexer, checker and parser, so
// runs share nothing but the read-only code table and may execute on any
// number of goroutines at once.
package compiler

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Senko88/kompilators/ast"
	"github.com/Senko88/kompilators/diag"
	"github.com/Senko88/kompilators/lexer"
	"github.com/Senko88/kompilators/parser"
	"github.com/Senko88/kompilators/semantic"
)

var (
	// package logger instance
	log = logrus.New()
)

// Options tune a single run.
type Options struct {
	// Tokens adds the classified token list to the report.
	Tokens bool

	// MaxDiagnostics stops recording after this many diagnostics (0 = no limit).
	MaxDiagnostics int
}

// Report is the outcome of one analysis run.
type Report struct {
	RunID       string            `json:"run_id" yaml:"run_id"`
	Name        string            `json:"program,omitempty" yaml:"program,omitempty"`
	Tokens      []ast.Token       `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	Diagnostics []diag.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
	Symbols     []semantic.Symbol `json:"symbols" yaml:"symbols"`

	// Program is the parsed tree. It is always present, even for broken input.
	Program *ast.Program `json:"-" yaml:"-"`
}

// OK reports whether the run produced no diagnostics.
func (r *Report) OK() bool { return len(r.Diagnostics) == 0 }

// Analyze runs the full front end over src.
func Analyze(src string, opts Options) *Report {
	runID := uuid.New().String()
	task := log.WithField("run", runID)
	task.WithField("bytes", len(src)).Debug("analysis started")

	sink := diag.NewSink()
	sink.SetLimit(opts.MaxDiagnostics)

	check := semantic.NewChecker(sink)
	p := parser.New(lexer.New(src, sink), check, sink)
	prog := p.Parse()

	rep := &Report{
		RunID:       runID,
		Name:        prog.Name,
		Diagnostics: sink.Diagnostics(),
		Symbols:     check.Symbols(),
		Program:     prog,
	}
	if opts.Tokens {
		rep.Tokens, _ = Tokenize(src)
	}

	task.WithFields(logrus.Fields{
		"diagnostics": len(rep.Diagnostics),
		"symbols":     len(rep.Symbols),
	}).Debug("analysis finished")
	return rep
}

// Tokenize scans src on its own and returns every token up to, but not
// including, end of input, along with the lexical diagnostics and the range
// diagnostics of its numeric literals.
func Tokenize(src string) ([]ast.Token, []diag.Diagnostic) {
	sink := diag.NewSink()
	l := lexer.New(src, sink)
	check := semantic.NewChecker(sink)

	var toks []ast.Token
	for {
		tok := l.NextToken()
		if tok.Kind == ast.EOF {
			break
		}
		if tok.Kind == ast.Number {
			text := tok.Lexeme
			if n := len(toks); n > 0 && toks[n-1].Is(ast.CodeMinus) {
				text = "-" + text
			}
			check.ValidateLiteral(semantic.Literal{Text: text, Real: tok.IsReal()}, tok.Line)
		}
		toks = append(toks, tok)
	}
	return toks, sink.Diagnostics()
}

// SetLogLevel changes the log level of the whole pipeline.
func SetLogLevel(level string) error {
	ll, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}

	for _, set := range []func(string) error{
		diag.SetLogLevel,
		lexer.SetLogLevel,
		parser.SetLogLevel,
		semantic.SetLogLevel,
	} {
		if err := set(level); err != nil {
			return err
		}
	}

	log.SetLevel(ll)
	return nil // OK
}

// package initialization
func init() {
	// be silent by default
	log.SetLevel(logrus.WarnLevel)
}
