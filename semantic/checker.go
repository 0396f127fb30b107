package semantic

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/Senko88/kompilators/ast"
	"github.com/Senko88/kompilators/diag"
)

var (
	// package logger instance
	log = logrus.New()
)

// Integer bounds of the language's 16-bit integer type.
const (
	MinInteger = -32768
	MaxInteger = 32767
)

// Literal is a numeric literal as written, with any leading sign folded into Text.
type Literal struct {
	Text string
	Real bool
}

// LiteralOf converts a parsed number node.
func LiteralOf(n *ast.NumberLit) Literal {
	return Literal{Text: n.Text, Real: n.Real}
}

// Type returns the type the literal classifies as on its own.
func (lit Literal) Type() ast.Type {
	if lit.Real {
		return ast.TypeReal
	}
	return ast.TypeInteger
}

// Checker validates declarations, identifier uses and assignments.
// One Checker serves one compilation run.
type Checker struct {
	table *SymbolTable
	sink  *diag.Sink
}

// NewChecker returns a Checker with an empty symbol table reporting into sink.
func NewChecker(sink *diag.Sink) *Checker {
	return &Checker{
		table: NewSymbolTable(),
		sink:  sink,
	}
}

// Declare registers a variable (or a function when isFunction is set).
// A name that is already declared is rejected with a duplicate-identifier
// diagnostic and the first declaration stays authoritative.
func (c *Checker) Declare(name string, typ ast.Type, isFunction bool, line int) bool {
	return c.insert(Symbol{Name: name, Type: typ, IsFunction: isFunction, Line: line})
}

// DeclareFunction registers a function or procedure signature. Procedures
// pass ast.TypeNone as result.
func (c *Checker) DeclareFunction(name string, result ast.Type, params []ast.Param, line int) bool {
	return c.insert(Symbol{Name: name, Type: result, IsFunction: true, Line: line, Params: params})
}

func (c *Checker) insert(sym Symbol) bool {
	if !c.table.Insert(sym) {
		c.sink.Add(diag.DuplicateIdent, sym.Line, sym.Name)
		return false
	}
	log.WithFields(logrus.Fields{
		"name": sym.Name,
		"type": sym.Type.String(),
		"line": sym.Line,
	}).Debug("declared")
	return true
}

// Lookup returns the symbol declared under name.
func (c *Checker) Lookup(name string) (Symbol, bool) {
	return c.table.Lookup(name)
}

// Symbols returns all declared symbols in declaration order.
func (c *Checker) Symbols() []Symbol {
	return c.table.All()
}

// CheckUse verifies that an identifier read in an expression is declared.
func (c *Checker) CheckUse(name string, line int) bool {
	if _, ok := c.table.Lookup(name); !ok {
		c.sink.Add(diag.UndeclaredVariable, line, name)
		return false
	}
	return true
}

// ValidateAssignment checks `name := lit`.
//
// The literal must first be in range for its own kind, so an out-of-range
// integer is rejected even when it would widen to real. The target must be a
// declared variable. A real literal may not be assigned to an integer
// variable. The range is then checked again against the declared type.
func (c *Checker) ValidateAssignment(name string, lit Literal, line int) bool {
	sym, ok := c.table.Lookup(name)
	if !ok {
		c.sink.Add(diag.UndeclaredVariable, line, name)
		c.ValidateLiteral(lit, line)
		return false
	}
	if !c.ValidateLiteral(lit, line) {
		return false
	}
	if !c.assignable(sym, line) {
		return false
	}
	if lit.Real && sym.Type == ast.TypeInteger {
		c.sink.Add(diag.TypeMismatch, line,
			fmt.Sprintf("cannot assign real %s to integer '%s'", lit.Text, sym.Name))
		return false
	}
	return c.checkRange(lit.Text, sym.Type, line)
}

// ValidateIdentAssignment checks `target := source` where source is an
// identifier. Both names must be declared and a real source may not narrow
// into an integer target.
func (c *Checker) ValidateIdentAssignment(target, source string, line int) bool {
	dst, dstOK := c.table.Lookup(target)
	if !dstOK {
		c.sink.Add(diag.UndeclaredVariable, line, target)
	}
	src, srcOK := c.table.Lookup(source)
	if !srcOK {
		c.sink.Add(diag.UndeclaredVariable, line, source)
	}
	if !dstOK || !srcOK || !c.assignable(dst, line) {
		return false
	}
	switch {
	case src.Type == ast.TypeNone:
		c.sink.Add(diag.TypeMismatch, line, fmt.Sprintf("procedure '%s' has no value", src.Name))
		return false
	case src.Type == ast.TypeReal && dst.Type == ast.TypeInteger:
		c.sink.Add(diag.TypeMismatch, line,
			fmt.Sprintf("cannot assign real '%s' to integer '%s'", src.Name, dst.Name))
		return false
	}
	return true
}

// ValidateLiteral checks a literal against the range of its own class. It is
// used where no declared type applies, e.g. writeln arguments.
func (c *Checker) ValidateLiteral(lit Literal, line int) bool {
	return c.checkRange(lit.Text, lit.Type(), line)
}

// assignable rejects function and procedure names as assignment targets.
func (c *Checker) assignable(sym Symbol, line int) bool {
	if sym.IsFunction {
		c.sink.Add(diag.UnexpectedToken, line, "variable", fmt.Sprintf("function '%s'", sym.Name))
		return false
	}
	return true
}

// checkRange validates text as a value of typ.
func (c *Checker) checkRange(text string, typ ast.Type, line int) bool {
	switch typ {
	case ast.TypeInteger:
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				c.sink.Add(diag.IntegerRange, line, text)
			} else {
				c.sink.Add(diag.InvalidLiteral, line, text)
			}
			return false
		}
		if v < MinInteger || v > MaxInteger {
			c.sink.Add(diag.IntegerRange, line, text)
			return false
		}
	case ast.TypeReal:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			// malformed text was already reported by the lexer
			return false
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			c.sink.Add(diag.RealRange, line, text)
			return false
		}
	}
	return true
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
