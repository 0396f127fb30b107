package ast

import (
	"fmt"
	"strings"
)

// ── Interfaces ────────────────────────────────────────────────────────────────

// Node is the root interface for every element of the syntax tree.
type Node interface {
	// TokenLiteral returns the lexeme of the token that began this node.
	TokenLiteral() string
	// String returns a compact representation for debugging and test output.
	String() string
}

// Statement is a node that appears in the executable block.
type Statement interface {
	Node
	statementNode()
}

// Expression is a node that yields a value.
type Expression interface {
	Node
	expressionNode()
}

// ── Types ─────────────────────────────────────────────────────────────────────

// Type is the declared type of a variable or a function result.
type Type int

const (
	// TypeNone is used for procedures and for nodes whose type could not be parsed.
	TypeNone Type = iota
	TypeInteger
	TypeReal
)

// String returns the Pascal spelling of the type.
func (t Type) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeReal:
		return "real"
	default:
		return "none"
	}
}

// MarshalText lets reports encode types by name.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// TypeFromCode maps a type keyword code to a Type.
func TypeFromCode(code int) (Type, bool) {
	switch code {
	case CodeInteger:
		return TypeInteger, true
	case CodeReal:
		return TypeReal, true
	}
	return TypeNone, false
}

// ── Program ───────────────────────────────────────────────────────────────────

// Program is the root node produced by the parser.
// Name is empty when the optional program header is absent.
type Program struct {
	Name  string
	Vars  []*VarDecl
	Funcs []*FuncDecl
	Body  *Block
}

// TokenLiteral returns "program" when the header is present.
func (p *Program) TokenLiteral() string {
	if p.Name != "" {
		return "program"
	}
	return ""
}

func (p *Program) String() string {
	var sb strings.Builder
	if p.Name != "" {
		fmt.Fprintf(&sb, "program %s;\n", p.Name)
	}
	for _, v := range p.Vars {
		sb.WriteString(v.String())
		sb.WriteString("\n")
	}
	for _, f := range p.Funcs {
		sb.WriteString(f.String())
		sb.WriteString("\n")
	}
	if p.Body != nil {
		sb.WriteString(p.Body.String())
	}
	sb.WriteString(".")
	return sb.String()
}

// ── Declarations ──────────────────────────────────────────────────────────────

// VarDecl is one declared variable: name: Type.
// `var a, b: integer;` produces two VarDecls sharing the type.
type VarDecl struct {
	Token Token // the identifier token
	Name  string
	Type  Type
}

func (v *VarDecl) TokenLiteral() string { return v.Token.Lexeme }
func (v *VarDecl) String() string       { return fmt.Sprintf("var %s: %s;", v.Name, v.Type) }

// Param is a single formal parameter of a function or procedure header.
type Param struct {
	Name  string `json:"name" yaml:"name"`
	Type  Type   `json:"type" yaml:"type"`
	Token Token  `json:"-" yaml:"-"`
}

// FuncDecl is a function or procedure header. The body is skipped by the parser.
type FuncDecl struct {
	Token      Token // 'function' or 'procedure'
	Name       string
	Params     []Param
	Result     Type // TypeNone for procedures
	IsFunction bool
}

func (f *FuncDecl) TokenLiteral() string { return f.Token.Lexeme }

func (f *FuncDecl) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Name + ": " + p.Type.String()
	}
	if f.IsFunction {
		return fmt.Sprintf("function %s(%s): %s;", f.Name, strings.Join(params, "; "), f.Result)
	}
	return fmt.Sprintf("procedure %s(%s);", f.Name, strings.Join(params, "; "))
}

// ── Statements ────────────────────────────────────────────────────────────────

// Block is `begin { Statement } end`. Nested blocks are compound statements.
type Block struct {
	Token      Token // 'begin'
	Statements []Statement
}

func (b *Block) statementNode()       {}
func (b *Block) TokenLiteral() string { return b.Token.Lexeme }

func (b *Block) String() string {
	var sb strings.Builder
	sb.WriteString("begin\n")
	for _, s := range b.Statements {
		sb.WriteString("  ")
		sb.WriteString(s.String())
		sb.WriteString("\n")
	}
	sb.WriteString("end")
	return sb.String()
}

// AssignStmt is `Target := Value`.
type AssignStmt struct {
	Token  Token // the ':=' token
	Target *Identifier
	Value  Expression
}

func (s *AssignStmt) statementNode()       {}
func (s *AssignStmt) TokenLiteral() string { return s.Token.Lexeme }
func (s *AssignStmt) String() string {
	return fmt.Sprintf("%s := %s;", s.Target.String(), exprString(s.Value))
}

// WritelnStmt is `writeln(Args...)`. Args may be empty.
type WritelnStmt struct {
	Token Token // 'writeln'
	Args  []Expression
}

func (s *WritelnStmt) statementNode()       {}
func (s *WritelnStmt) TokenLiteral() string { return s.Token.Lexeme }
func (s *WritelnStmt) String() string {
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = exprString(a)
	}
	return fmt.Sprintf("writeln(%s);", strings.Join(args, ", "))
}

// ── Expressions ───────────────────────────────────────────────────────────────

// Identifier is a reference to a declared name.
type Identifier struct {
	Token Token
	Name  string
}

func (e *Identifier) expressionNode()      {}
func (e *Identifier) TokenLiteral() string { return e.Token.Lexeme }
func (e *Identifier) String() string       { return e.Name }

// NumberLit is a numeric literal. Text holds the literal with any leading sign
// folded in, e.g. "-32768".
type NumberLit struct {
	Token Token // the number token (the sign is a separate token)
	Text  string
	Real  bool
}

func (e *NumberLit) expressionNode()      {}
func (e *NumberLit) TokenLiteral() string { return e.Token.Lexeme }
func (e *NumberLit) String() string       { return e.Text }

// ParenExpr is `( Inner )`.
type ParenExpr struct {
	Token Token // '('
	Inner Expression
}

func (e *ParenExpr) expressionNode()      {}
func (e *ParenExpr) TokenLiteral() string { return e.Token.Lexeme }
func (e *ParenExpr) String() string       { return "(" + exprString(e.Inner) + ")" }

// Unparen strips any number of enclosing parentheses.
func Unparen(e Expression) Expression {
	for {
		p, ok := e.(*ParenExpr)
		if !ok || p.Inner == nil {
			return e
		}
		e = p.Inner
	}
}

func exprString(e Expression) string {
	if e == nil {
		return "<nil>"
	}
	return e.String()
}
