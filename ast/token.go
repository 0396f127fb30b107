// Package ast defines the tokens, the code table and the syntax tree used by the
// Pascal-subset lexer and parser.
//
// Tokens are the smallest meaningful units of a source file. Every token carries
// its kind, the exact lexeme it was scanned from, a numeric classification code
// from the code table, and its source position (line + column, both 1-based).
package ast

import "strings"

// Kind identifies the category of a scanned token.
type Kind int

const (
	// EOF marks the end of the input. Once returned, the lexer keeps returning it.
	EOF Kind = iota
	// Keyword is a reserved word found in the code table: program, var, begin ...
	Keyword
	// Ident is an identifier that is not a reserved word.
	Ident
	// Number is an integer or real literal; Code tells the two apart.
	Number
	// Operator covers punctuation and operators, including := and <=.
	Operator
	// Colon is a lone ':' (type annotation separator).
	Colon
	// Unknown is an illegal character such as '@'.
	Unknown
)

var kindNames = [...]string{
	EOF:      "end of input",
	Keyword:  "keyword",
	Ident:    "identifier",
	Number:   "number",
	Operator: "operator",
	Colon:    "colon",
	Unknown:  "unknown",
}

// String returns the human-readable name used in diagnostics.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// MarshalText encodes the kind by name in reports.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Pseudo codes for token classes that have no lexeme of their own.
const (
	CodeEOF     = 0
	CodeUnknown = 1
	CodeIdent   = 2
	CodeIntLit  = 15
	CodeRealLit = 82
)

// codes maps a lowercased lexeme to its stable classification code.
// The values are part of the external interface and must never be renumbered.
// The map is written only during package initialisation.
var codes = map[string]int{
	// ── Punctuation and operators ──────────────────────────────────────────────
	"*":  21,
	"/":  60,
	"=":  16,
	",":  20,
	";":  14,
	":":  5,
	".":  61,
	"^":  62,
	"(":  9,
	")":  4,
	"[":  11,
	"]":  12,
	"{":  63,
	"}":  64,
	"<":  65,
	">":  66,
	"<=": 67,
	">=": 68,
	"<>": 69,
	"+":  70,
	"-":  71,
	"(*": 72,
	"*)": 73,
	":=": 51,
	"..": 74,

	// ── Keywords ───────────────────────────────────────────────────────────────
	"case":      31,
	"else":      32,
	"file":      57,
	"goto":      33,
	"then":      52,
	"type":      34,
	"until":     53,
	"do":        54,
	"with":      37,
	"if":        56,
	"in":        100,
	"of":        101,
	"or":        102,
	"to":        103,
	"end":       104,
	"var":       105,
	"div":       106,
	"and":       107,
	"not":       108,
	"for":       109,
	"mod":       110,
	"nil":       111,
	"set":       112,
	"begin":     113,
	"while":     114,
	"array":     115,
	"const":     116,
	"label":     117,
	"downto":    118,
	"packed":    119,
	"record":    120,
	"repeat":    121,
	"program":   122,
	"function":  123,
	"procedure": 124,
	"integer":   125,
	"real":      126,
	"writeln":   127,
}

// Table codes the parser dispatches on.
const (
	CodeSemicolon = 14
	CodeColon     = 5
	CodeComma     = 20
	CodeDot       = 61
	CodeLParen    = 9
	CodeRParen    = 4
	CodePlus      = 70
	CodeMinus     = 71
	CodeAssign    = 51

	CodeCase      = 31
	CodeEnd       = 104
	CodeVar       = 105
	CodeBegin     = 113
	CodeRecord    = 120
	CodeProgram   = 122
	CodeFunction  = 123
	CodeProcedure = 124
	CodeInteger   = 125
	CodeReal      = 126
	CodeWriteln   = 127
)

// LookupCode returns the code of lexeme, matched case-insensitively.
// ok is false when the lexeme is not in the table.
func LookupCode(lexeme string) (code int, ok bool) {
	code, ok = codes[strings.ToLower(lexeme)]
	return code, ok
}

// Codes returns a copy of the code table.
func Codes() map[string]int {
	out := make(map[string]int, len(codes))
	for k, v := range codes {
		out[k] = v
	}
	return out
}

// Token is a single lexical unit produced by the lexer.
type Token struct {
	Kind   Kind   `json:"kind" yaml:"kind"`
	Lexeme string `json:"lexeme" yaml:"lexeme"`
	Code   int    `json:"code" yaml:"code"`
	Line   int    `json:"line" yaml:"line"`
	Col    int    `json:"col" yaml:"col"`
}

// Is reports whether the token carries the given code. EOF and Unknown tokens
// never match a table code.
func (t Token) Is(code int) bool {
	switch t.Kind {
	case EOF, Unknown:
		return false
	}
	return t.Code == code
}

// IsReal reports whether a Number token is a real literal.
func (t Token) IsReal() bool { return t.Kind == Number && t.Code == CodeRealLit }

// String returns the lexeme, or a description for EOF, for use in messages.
func (t Token) String() string {
	if t.Kind == EOF {
		return "end of input"
	}
	return t.Lexeme
}
