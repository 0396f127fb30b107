package parser

import (
	"strings"

	"github.com/Senko88/kompilators/ast"
)

// ── Variable declarations ─────────────────────────────────────────────────────

// parseVarSection parses `{ IdentList : Type ; }` after the var keyword.
func (p *Parser) parseVarSection(prog *ast.Program) {
	for p.cur.Kind == ast.Ident {
		p.parseVarDecl(prog)
	}
}

// parseVarDecl parses one `a, b: Type;` line. Every name is declared with the
// checker, which reports duplicates.
func (p *Parser) parseVarDecl(prog *ast.Program) {
	names, ok := p.parseIdentList()
	if !ok {
		p.synchronize()
		return
	}
	typ, ok := p.parseTypeAnnotation()
	if !ok {
		p.synchronize()
		return
	}
	for _, tok := range names {
		prog.Vars = append(prog.Vars, &ast.VarDecl{Token: tok, Name: tok.Lexeme, Type: typ})
		p.check.Declare(tok.Lexeme, typ, false, tok.Line)
	}
	p.expectSemicolon()
}

// parseIdentList parses `Identifier { , Identifier }`.
func (p *Parser) parseIdentList() ([]ast.Token, bool) {
	if p.cur.Kind != ast.Ident {
		p.unexpected("identifier")
		return nil, false
	}
	names := []ast.Token{p.cur}
	p.advance()
	for p.curIs(ast.CodeComma) {
		p.advance()
		if p.cur.Kind != ast.Ident {
			p.unexpected("identifier")
			return nil, false
		}
		names = append(names, p.cur)
		p.advance()
	}
	return names, true
}

// parseTypeAnnotation parses `: Type`.
func (p *Parser) parseTypeAnnotation() (ast.Type, bool) {
	if p.cur.Kind != ast.Colon {
		p.unexpected("':'")
		return ast.TypeNone, false
	}
	p.advance()
	return p.parseType()
}

// parseType parses `integer | real`.
func (p *Parser) parseType() (ast.Type, bool) {
	if p.cur.Kind == ast.Keyword {
		if typ, ok := ast.TypeFromCode(p.cur.Code); ok {
			p.advance()
			return typ, true
		}
	}
	p.unexpected("type")
	return ast.TypeNone, false
}

// ── Functions and procedures ──────────────────────────────────────────────────

// parseRoutine parses a function or procedure header, registers its signature
// and skips the body without validating it.
func (p *Parser) parseRoutine(prog *ast.Program) {
	decl := &ast.FuncDecl{Token: p.cur, IsFunction: p.curIs(ast.CodeFunction)}
	p.advance()

	if p.cur.Kind != ast.Ident {
		p.unexpected("routine name")
		p.synchronize()
		if p.prev.Is(ast.CodeSemicolon) || p.curIs(ast.CodeBegin) || p.curIs(ast.CodeVar) {
			p.skipBody()
		}
		return
	}
	decl.Name = p.cur.Lexeme
	p.advance()

	if p.curIs(ast.CodeLParen) {
		params, ok := p.parseParams()
		if !ok {
			p.skipPastParen()
		}
		decl.Params = params
	}

	if decl.IsFunction {
		if typ, ok := p.parseTypeAnnotation(); ok {
			decl.Result = typ
		}
	}

	prog.Funcs = append(prog.Funcs, decl)
	p.check.DeclareFunction(decl.Name, decl.Result, decl.Params, decl.Token.Line)

	// after a broken header, only skip a body that recovery actually reached
	if !p.expectSemicolon() && !p.prev.Is(ast.CodeSemicolon) && !p.curIs(ast.CodeBegin) && !p.curIs(ast.CodeVar) {
		return
	}
	p.skipBody()
}

// parseParams parses `( [var] IdentList : Type { ; [var] IdentList : Type } )`.
func (p *Parser) parseParams() ([]ast.Param, bool) {
	p.advance() // '('
	var params []ast.Param
	if p.curIs(ast.CodeRParen) {
		p.advance()
		return params, true
	}
	for {
		if p.curIs(ast.CodeVar) {
			p.advance()
		}
		names, ok := p.parseIdentList()
		if !ok {
			return params, false
		}
		typ, ok := p.parseTypeAnnotation()
		if !ok {
			return params, false
		}
		for _, tok := range names {
			params = append(params, ast.Param{Name: tok.Lexeme, Type: typ, Token: tok})
		}
		if !p.curIs(ast.CodeSemicolon) {
			break
		}
		p.advance()
	}
	if !p.curIs(ast.CodeRParen) {
		p.unexpected("')'")
		return params, false
	}
	p.advance()
	return params, true
}

// skipPastParen recovers from a broken parameter list by skipping to just
// after the closing ')', stopping early at a block keyword.
func (p *Parser) skipPastParen() {
	for !p.atEOF() && !p.curIs(ast.CodeBegin) && !p.curIs(ast.CodeVar) {
		if p.curIs(ast.CodeRParen) {
			p.advance()
			return
		}
		p.advance()
	}
}

// skipBody consumes a routine body: local declarations, nested routines and
// the begin … end block with its trailing ';'. Nothing inside is validated.
// A `forward;` directive stands in for the body.
func (p *Parser) skipBody() {
	if p.cur.Kind == ast.Ident && isForward(p.cur.Lexeme) {
		p.advance()
		p.expectSemicolon()
		return
	}
	for !p.atEOF() {
		switch {
		case p.curIs(ast.CodeFunction), p.curIs(ast.CodeProcedure):
			p.skipNestedRoutine()
		case p.curIs(ast.CodeBegin):
			p.skipCompound()
			p.expectSemicolon()
			return
		default:
			p.advance()
		}
	}
}

// skipNestedRoutine skips a local routine header up to its ';' and then its body.
func (p *Parser) skipNestedRoutine() {
	depth := 0
	for !p.atEOF() {
		switch {
		case p.curIs(ast.CodeLParen):
			depth++
		case p.curIs(ast.CodeRParen):
			depth--
		case p.curIs(ast.CodeSemicolon) && depth <= 0:
			p.advance()
			p.skipBody()
			return
		}
		p.advance()
	}
}

// skipCompound skips from begin to its matching end. case and record also
// close with end, so they open a level too.
func (p *Parser) skipCompound() {
	depth := 0
	for !p.atEOF() {
		switch {
		case p.curIs(ast.CodeBegin), p.curIs(ast.CodeCase), p.curIs(ast.CodeRecord):
			depth++
		case p.curIs(ast.CodeEnd):
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

func isForward(word string) bool { return strings.EqualFold(word, "forward") }
