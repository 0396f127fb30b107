// Package parser implements the recursive-descent parser for the Pascal subset.
//
// The parser pulls tokens from a [lexer.Lexer] one at a time (a single token of
// look-ahead, no backtracking) and builds an [ast.Program]. Declarations and
// assignments are handed to a [semantic.Checker], which owns the symbol table.
//
// Usage:
//
//	sink := diag.NewSink()
//	l := lexer.New(source, sink)
//	p := parser.New(l, semantic.NewChecker(sink), sink)
//	prog := p.Parse()
//	if sink.HasErrors() { ... }
//
// Error recovery: a token mismatch is recorded in the sink and the parser skips
// to the next ';', a block or declaration keyword, or end of input, then
// carries on. Parse always returns a program, however broken the input.
package parser

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Senko88/kompilators/ast"
	"github.com/Senko88/kompilators/diag"
	"github.com/Senko88/kompilators/lexer"
	"github.com/Senko88/kompilators/semantic"
)

var (
	// package logger instance
	log = logrus.New()
)

// Parser holds all state needed to parse one source buffer.
// Create one per compilation run with [New] and call [Parser.Parse] once.
type Parser struct {
	l     *lexer.Lexer
	check *semantic.Checker
	sink  *diag.Sink

	cur  ast.Token // token being examined
	prev ast.Token // last consumed token
}

// New creates a Parser that reads tokens from l, validates through check and
// reports into sink. It primes the look-ahead token.
func New(l *lexer.Lexer, check *semantic.Checker, sink *diag.Sink) *Parser {
	p := &Parser{l: l, check: check, sink: sink}
	p.advance()
	return p
}

// Parse builds the program. It consumes the whole input.
func (p *Parser) Parse() *ast.Program {
	prog := &ast.Program{}

	p.parseHeader(prog)
	p.parseDeclarations(prog)
	prog.Body = p.parseBlock()
	p.parseTerminator()

	return prog
}

// ── Token management ──────────────────────────────────────────────────────────

// advance moves to the next token. Unknown tokens were already reported by the
// lexer and are skipped here. Every number is range-checked as it is read.
func (p *Parser) advance() {
	p.prev = p.cur
	for {
		p.cur = p.l.NextToken()
		if p.cur.Kind != ast.Unknown {
			break
		}
	}
	if p.cur.Kind == ast.Number {
		p.checkNumber()
	}
}

// checkNumber validates the current number against its own kind. This covers
// literals in routine bodies and in regions skipped by recovery, which never
// reach an assignment check. A '-' directly before the number is folded in.
func (p *Parser) checkNumber() {
	text := p.cur.Lexeme
	if p.prev.Is(ast.CodeMinus) {
		text = "-" + text
	}
	p.check.ValidateLiteral(semantic.Literal{Text: text, Real: p.cur.IsReal()}, p.cur.Line)
}

// curIs reports whether the current token carries the given table code.
func (p *Parser) curIs(code int) bool { return p.cur.Is(code) }

func (p *Parser) atEOF() bool { return p.cur.Kind == ast.EOF }

// atSyncKeyword reports whether the current token starts a block or a
// declaration, i.e. is a safe restart point.
func (p *Parser) atSyncKeyword() bool {
	for _, code := range []int{ast.CodeEnd, ast.CodeBegin, ast.CodeVar, ast.CodeFunction, ast.CodeProcedure} {
		if p.curIs(code) {
			return true
		}
	}
	return false
}

// report records a diagnostic.
func (p *Parser) report(code, line int, args ...any) {
	if p.sink.Add(code, line, args...) {
		log.WithFields(logrus.Fields{"code": code, "line": line}).Debug("syntax diagnostic")
	}
}

// unexpected records "expected X, got Y" for the current token.
func (p *Parser) unexpected(expected string) {
	p.report(diag.UnexpectedToken, p.cur.Line, expected, describe(p.cur))
}

// synchronize skips tokens up to a safe restart point: past the next ';', or
// up to a block/declaration keyword, a '.' or end of input.
func (p *Parser) synchronize() {
	skipped := 0
	for !p.atEOF() {
		if p.curIs(ast.CodeSemicolon) {
			p.advance()
			break
		}
		if p.atSyncKeyword() || p.curIs(ast.CodeDot) {
			break
		}
		p.advance()
		skipped++
	}
	log.WithFields(logrus.Fields{"skipped": skipped, "line": p.cur.Line}).Debug("resynchronized")
}

// expectSemicolon consumes a ';' or reports it missing and resynchronizes.
func (p *Parser) expectSemicolon() bool {
	if p.curIs(ast.CodeSemicolon) {
		p.advance()
		return true
	}
	p.report(diag.MissingSemicolon, p.lastLine())
	p.synchronize()
	return false
}

// lastLine is the line of the last consumed token, where a missing
// terminator belongs.
func (p *Parser) lastLine() int {
	if p.prev.Line == 0 {
		return p.cur.Line
	}
	return p.prev.Line
}

// describe renders a token for diagnostics.
func describe(tok ast.Token) string {
	if tok.Kind == ast.EOF {
		return "end of input"
	}
	return fmt.Sprintf("'%s'", tok.Lexeme)
}

// ── Program structure ─────────────────────────────────────────────────────────

// parseHeader parses the optional `program Name ;`.
func (p *Parser) parseHeader(prog *ast.Program) {
	if !p.curIs(ast.CodeProgram) {
		return
	}
	p.advance()

	if p.cur.Kind != ast.Ident {
		p.unexpected("program name")
		p.synchronize()
		return
	}
	prog.Name = p.cur.Lexeme
	p.advance()
	p.expectSemicolon()
}

// parseDeclarations parses var sections followed by routine headers.
func (p *Parser) parseDeclarations(prog *ast.Program) {
	for {
		switch {
		case p.curIs(ast.CodeVar):
			p.advance()
			p.parseVarSection(prog)
		case p.curIs(ast.CodeFunction), p.curIs(ast.CodeProcedure):
			p.parseRoutine(prog)
		default:
			return
		}
	}
}

// parseTerminator checks the final '.' and anything that follows it.
func (p *Parser) parseTerminator() {
	if !p.curIs(ast.CodeDot) {
		p.report(diag.MissingDot, p.lastLine())
		p.drain()
		return
	}
	p.l.CheckBalance()
	p.advance()

	if !p.atEOF() {
		p.unexpected("end of input")
		p.drain()
	}
}

// drain consumes the remaining tokens so trailing lexical problems are still
// reported.
func (p *Parser) drain() {
	for !p.atEOF() {
		p.advance()
	}
}

// ── Blocks and statements ─────────────────────────────────────────────────────

// parseBlock parses `begin { Statement } end`. A missing begin is reported and
// statements are parsed anyway.
func (p *Parser) parseBlock() *ast.Block {
	blk := &ast.Block{Token: p.cur}

	if p.curIs(ast.CodeBegin) {
		p.advance()
	} else {
		p.report(diag.MissingBegin, p.cur.Line)
		for !p.atEOF() && !p.curIs(ast.CodeBegin) && !p.curIs(ast.CodeEnd) && !p.curIs(ast.CodeDot) && !p.atStatementStart() {
			p.advance()
		}
		if p.curIs(ast.CodeBegin) {
			p.advance()
		}
	}

	for !p.atEOF() && !p.curIs(ast.CodeEnd) && !p.curIs(ast.CodeDot) {
		if s := p.parseStatement(); s != nil {
			blk.Statements = append(blk.Statements, s)
		}
	}

	if p.curIs(ast.CodeEnd) {
		p.advance()
	} else {
		p.report(diag.MissingEnd, p.lastLine())
	}
	return blk
}

func (p *Parser) atStatementStart() bool {
	return p.cur.Kind == ast.Ident || p.curIs(ast.CodeWriteln)
}

// parseStatement dispatches on the current token. It always consumes at least
// one token, so the block loop terminates.
func (p *Parser) parseStatement() ast.Statement {
	switch {
	case p.curIs(ast.CodeSemicolon):
		p.advance() // empty statement
		return nil
	case p.cur.Kind == ast.Ident:
		return p.parseAssignment()
	case p.curIs(ast.CodeWriteln):
		return p.parseWriteln()
	case p.curIs(ast.CodeBegin):
		blk := p.parseBlock()
		p.endStatement()
		return blk
	default:
		p.unexpected("statement")
		p.advance()
		p.synchronize()
		return nil
	}
}

// endStatement consumes the ';' after a statement. It may be omitted before
// `end` (and before the final '.' or end of input, where the block reports
// what is really missing).
func (p *Parser) endStatement() {
	switch {
	case p.curIs(ast.CodeSemicolon):
		p.advance()
	case p.curIs(ast.CodeEnd), p.curIs(ast.CodeDot), p.atEOF():
	default:
		p.report(diag.MissingSemicolon, p.lastLine())
		p.synchronize()
	}
}

// parseAssignment parses `Identifier := Expression`.
func (p *Parser) parseAssignment() ast.Statement {
	target := &ast.Identifier{Token: p.cur, Name: p.cur.Lexeme}
	p.advance()

	if !p.curIs(ast.CodeAssign) {
		p.report(diag.MissingAssign, target.Token.Line)
		p.synchronize()
		return nil
	}
	stmt := &ast.AssignStmt{Token: p.cur, Target: target}
	p.advance()

	stmt.Value = p.parseExpression()
	if stmt.Value == nil {
		p.synchronize()
		return nil
	}
	p.checkAssignment(stmt)
	p.endStatement()
	return stmt
}

// checkAssignment forwards the assignment to the semantic checker. Literal
// problems are reported on the literal's line, matching the check made when
// the number was read.
func (p *Parser) checkAssignment(stmt *ast.AssignStmt) {
	switch v := ast.Unparen(stmt.Value).(type) {
	case *ast.NumberLit:
		p.check.ValidateAssignment(stmt.Target.Name, semantic.LiteralOf(v), v.Token.Line)
	case *ast.Identifier:
		p.check.ValidateIdentAssignment(stmt.Target.Name, v.Name, stmt.Target.Token.Line)
	}
}

// parseWriteln parses `writeln [ ( [Expression {, Expression}] ) ]`.
func (p *Parser) parseWriteln() ast.Statement {
	stmt := &ast.WritelnStmt{Token: p.cur}
	p.advance()

	if p.curIs(ast.CodeLParen) {
		p.advance()
		if !p.curIs(ast.CodeRParen) {
			for {
				arg := p.parseExpression()
				if arg == nil {
					p.synchronize()
					return nil
				}
				stmt.Args = append(stmt.Args, arg)
				p.checkOperand(arg)
				if !p.curIs(ast.CodeComma) {
					break
				}
				p.advance()
			}
			if !p.curIs(ast.CodeRParen) {
				p.unexpected("')'")
				p.synchronize()
				return nil
			}
		}
		p.advance() // ')'
	}

	p.endStatement()
	return stmt
}

// checkOperand validates an expression used as a value.
func (p *Parser) checkOperand(e ast.Expression) {
	switch v := ast.Unparen(e).(type) {
	case *ast.NumberLit:
		p.check.ValidateLiteral(semantic.LiteralOf(v), v.Token.Line)
	case *ast.Identifier:
		p.check.CheckUse(v.Name, v.Token.Line)
	}
}

// parseExpression parses `[+|-] Number | Identifier | ( Expression )`.
// It returns nil after reporting when no expression starts here.
func (p *Parser) parseExpression() ast.Expression {
	switch {
	case p.curIs(ast.CodePlus), p.curIs(ast.CodeMinus):
		sign := p.cur
		p.advance()
		if p.cur.Kind != ast.Number {
			p.unexpected("number")
			return nil
		}
		lit := p.numberLit()
		if sign.Is(ast.CodeMinus) {
			lit.Text = "-" + lit.Text
		}
		return lit
	case p.cur.Kind == ast.Number:
		return p.numberLit()
	case p.cur.Kind == ast.Ident:
		id := &ast.Identifier{Token: p.cur, Name: p.cur.Lexeme}
		p.advance()
		return id
	case p.curIs(ast.CodeLParen):
		paren := &ast.ParenExpr{Token: p.cur}
		p.advance()
		paren.Inner = p.parseExpression()
		if paren.Inner == nil {
			return nil
		}
		if !p.curIs(ast.CodeRParen) {
			p.unexpected("')'")
			return nil
		}
		p.advance()
		return paren
	default:
		p.unexpected("expression")
		return nil
	}
}

func (p *Parser) numberLit() *ast.NumberLit {
	lit := &ast.NumberLit{Token: p.cur, Text: p.cur.Lexeme, Real: p.cur.IsReal()}
	p.advance()
	return lit
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
