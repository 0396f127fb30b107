// Package lexer implements the tokenizer for the Pascal subset.
//
// Call [New] with the source and a [diag.Sink], then call [Lexer.NextToken]
// until it returns a token of kind [ast.EOF]; every later call returns EOF
// again.
//
// Design notes:
//   - Single pass over a [Cursor]; one byte of look-ahead.
//   - Comments ((* … *) and { … }) and string literals are consumed silently;
//     string literals are not modelled as tokens.
//   - Lexical problems never stop the scan. They are appended to the sink and
//     a usable (possibly Unknown) token is returned.
//   - The lexer only classifies numbers. Range checks belong to the semantic
//     pass, where a leading sign and the declared type are known.
package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/Senko88/kompilators/ast"
	"github.com/Senko88/kompilators/diag"
)

var (
	// package logger instance
	log = logrus.New()
)

// bracketFrame records an open bracket and the line it appeared on.
type bracketFrame struct {
	open byte
	line int
}

// Lexer holds all state required to tokenise one source buffer.
// Create one per compilation run with [New]; never share it between runs.
type Lexer struct {
	cur      *Cursor
	sink     *diag.Sink
	brackets []bracketFrame
	done     bool // EOF has been returned at least once
}

// New creates a Lexer over input that reports into sink.
func New(input string, sink *diag.Sink) *Lexer {
	return &Lexer{
		cur:  NewCursor(input),
		sink: sink,
	}
}

// Line returns the current line number.
func (l *Lexer) Line() int { return l.cur.Line() }

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() ast.Token {
	for {
		l.skipWhitespaceAndComments()

		if l.cur.AtEOF() {
			if !l.done {
				l.done = true
				l.CheckBalance()
			}
			return ast.Token{Kind: ast.EOF, Code: ast.CodeEOF, Line: l.cur.Line(), Col: l.cur.Col()}
		}

		line, col := l.cur.Line(), l.cur.Col()
		ch := l.cur.Current()

		// 1. Illegal characters.
		if isIllegal(ch) {
			l.cur.Advance()
			l.report(diag.InvalidCharacter, line, string(ch))
			return ast.Token{Kind: ast.Unknown, Lexeme: string(ch), Code: ast.CodeUnknown, Line: line, Col: col}
		}

		// 2. String literals are skipped; scanning resumes after them.
		if ch == '\'' {
			l.skipString(line)
			continue
		}

		// 3. Brackets update the balance stack, then scan as operators below.
		l.trackBracket(ch, line)

		// 4. Words, numbers, operators.
		switch {
		case isLetter(ch):
			return l.readWord(line, col)
		case isDigit(ch) || (ch == '.' && isDigit(l.cur.Peek())):
			return l.readNumber(line, col)
		default:
			return l.readOperator(line, col)
		}
	}
}

// CheckBalance reports every bracket that is still open and empties the stack.
// The diagnostic is attributed to the line the bracket was opened on.
func (l *Lexer) CheckBalance() {
	for _, f := range l.brackets {
		l.report(diag.BracketMismatch, f.line,
			fmt.Sprintf("unclosed bracket '%c' opened at line %d", f.open, f.line))
	}
	l.brackets = l.brackets[:0]
}

// ── Internal helpers ──────────────────────────────────────────────────────────

func (l *Lexer) report(code, line int, args ...any) {
	if l.sink.Add(code, line, args...) {
		log.WithFields(logrus.Fields{"code": code, "line": line}).Debug("lexical diagnostic")
	}
}

// skipWhitespaceAndComments advances past whitespace, (* … *) and { … }.
// An unterminated comment swallows the rest of the input.
func (l *Lexer) skipWhitespaceAndComments() {
	for !l.cur.AtEOF() {
		switch ch := l.cur.Current(); {
		case isSpace(ch):
			l.cur.Advance()
		case ch == '{':
			l.cur.Advance()
			for !l.cur.AtEOF() && l.cur.Current() != '}' {
				l.cur.Advance()
			}
			l.cur.Advance() // closing '}'
		case ch == '(' && l.cur.Peek() == '*':
			l.cur.Advance()
			l.cur.Advance()
			for !l.cur.AtEOF() && !(l.cur.Current() == '*' && l.cur.Peek() == ')') {
				l.cur.Advance()
			}
			l.cur.Advance() // '*'
			l.cur.Advance() // ')'
		default:
			return
		}
	}
}

// skipString consumes a quoted literal including both quotes.
func (l *Lexer) skipString(line int) {
	l.cur.Advance() // opening quote
	for !l.cur.AtEOF() {
		if l.cur.Current() == '\'' {
			l.cur.Advance()
			return
		}
		l.cur.Advance()
	}
	l.report(diag.UnterminatedString, line)
}

// trackBracket pushes opening brackets and pops/matches closing ones.
func (l *Lexer) trackBracket(ch byte, line int) {
	switch ch {
	case '(', '[', '{':
		l.brackets = append(l.brackets, bracketFrame{open: ch, line: line})
	case ')', ']', '}':
		if len(l.brackets) == 0 {
			l.report(diag.BracketMismatch, line, fmt.Sprintf("extra closing bracket '%c'", ch))
			return
		}
		top := l.brackets[len(l.brackets)-1]
		l.brackets = l.brackets[:len(l.brackets)-1]
		if want := closing(top.open); want != ch {
			l.report(diag.BracketMismatch, line,
				fmt.Sprintf("bracket mismatch: expected '%c', got '%c'", want, ch))
		}
	}
}

// readWord scans an identifier or keyword.
func (l *Lexer) readWord(line, col int) ast.Token {
	start := l.cur.Pos()
	for isLetter(l.cur.Current()) || isDigit(l.cur.Current()) {
		l.cur.Advance()
	}
	word := l.cur.Slice(start)
	if code, ok := ast.LookupCode(word); ok {
		return ast.Token{Kind: ast.Keyword, Lexeme: word, Code: code, Line: line, Col: col}
	}
	return ast.Token{Kind: ast.Ident, Lexeme: word, Code: ast.CodeIdent, Line: line, Col: col}
}

// readNumber scans digits [. digits] [e [sign] digits].
// A '.' that is not followed by a digit is left for the next token, so 1..5
// scans as 1, .., 5.
func (l *Lexer) readNumber(line, col int) ast.Token {
	start := l.cur.Pos()
	isReal := false

	for isDigit(l.cur.Current()) {
		l.cur.Advance()
	}
	if l.cur.Current() == '.' && isDigit(l.cur.Peek()) {
		isReal = true
		l.cur.Advance()
		for isDigit(l.cur.Current()) {
			l.cur.Advance()
		}
	}
	if c := l.cur.Current(); c == 'e' || c == 'E' {
		isReal = true
		l.cur.Advance()
		if c := l.cur.Current(); c == '+' || c == '-' {
			l.cur.Advance()
		}
		for isDigit(l.cur.Current()) {
			l.cur.Advance()
		}
	}

	text := l.cur.Slice(start)
	code := ast.CodeIntLit
	if isReal {
		code = ast.CodeRealLit
		if _, err := strconv.ParseFloat(text, 64); err != nil && !errors.Is(err, strconv.ErrRange) {
			l.report(diag.InvalidLiteral, line, text)
		}
	}
	return ast.Token{Kind: ast.Number, Lexeme: text, Code: code, Line: line, Col: col}
}

// readOperator consumes one character and greedily a second one when the pair
// is in the code table. A non-ASCII character is read as one whole rune with
// an unknown code.
func (l *Lexer) readOperator(line, col int) ast.Token {
	if l.cur.Current() >= utf8.RuneSelf {
		r, size := l.cur.Rune()
		for i := 0; i < size; i++ {
			l.cur.Advance()
		}
		return ast.Token{Kind: ast.Operator, Lexeme: string(r), Code: ast.CodeUnknown, Line: line, Col: col}
	}

	start := l.cur.Pos()
	l.cur.Advance()

	if !l.cur.AtEOF() {
		next := l.cur.Current()
		if _, ok := ast.LookupCode(l.cur.Slice(start) + string(next)); ok {
			l.trackBracket(next, l.cur.Line())
			l.cur.Advance()
		}
	}
	op := l.cur.Slice(start)

	if op == ":" {
		return ast.Token{Kind: ast.Colon, Lexeme: op, Code: ast.CodeColon, Line: line, Col: col}
	}
	code, ok := ast.LookupCode(op)
	if !ok {
		code = ast.CodeUnknown
	}
	return ast.Token{Kind: ast.Operator, Lexeme: op, Code: code, Line: line, Col: col}
}

func closing(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	default:
		return '}'
	}
}

func isIllegal(b byte) bool {
	return b == '@' || b == '$' || b == '&' || b == '?'
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == '\f' || b == '\v'
}

// isLetter accepts ASCII letters and '_'.
func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
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
