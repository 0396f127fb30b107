package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkDeduplicates(t *testing.T) {
	s := NewSink()
	assert.True(t, s.Add(IntegerRange, 3, "99999"))
	assert.False(t, s.Add(IntegerRange, 3, "99999"))
	assert.True(t, s.Add(IntegerRange, 4, "99999"), "different line is not a duplicate")
	assert.True(t, s.Add(IntegerRange, 3, "88888"), "different message is not a duplicate")
	assert.Equal(t, 3, s.Len())
}

func TestSinkOrder(t *testing.T) {
	s := NewSink()
	s.Add(MissingEnd, 9)
	s.Add(InvalidCharacter, 1, "@")
	s.Add(UndeclaredVariable, 5, "x")

	var codes []int
	for _, d := range s.Diagnostics() {
		codes = append(codes, d.Code)
	}
	assert.Equal(t, []int{MissingEnd, InvalidCharacter, UndeclaredVariable}, codes)
}

func TestSinkLimit(t *testing.T) {
	s := NewSink()
	s.SetLimit(2)
	assert.True(t, s.Add(MissingSemicolon, 1))
	assert.True(t, s.Add(MissingSemicolon, 2))
	assert.False(t, s.Add(MissingSemicolon, 3))
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.HasErrors())
}

func TestSinkDiagnosticsIsCopy(t *testing.T) {
	s := NewSink()
	s.Add(MissingBegin, 1)
	list := s.Diagnostics()
	list[0].Code = 0
	assert.Equal(t, MissingBegin, s.Diagnostics()[0].Code)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		code int
		args []any
		want string
	}{
		{MissingSemicolon, nil, "missing ';'"},
		{MissingDot, nil, "missing '.' after end"},
		{UnexpectedToken, []any{"identifier", "begin"}, "expected identifier, got begin"},
		{UndeclaredVariable, []any{"x"}, "undeclared variable 'x'"},
		{DuplicateIdent, []any{"x"}, "duplicate identifier 'x'"},
		{InvalidCharacter, []any{"@"}, "invalid character: @"},
		{IntegerRange, []any{"32768"}, "integer literal 32768 out of range [-32768, 32767]"},
		{RealRange, []any{"1e999"}, "real literal 1e999 out of representable range"},
		{UnterminatedString, nil, "unterminated string literal"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.code, tt.args...))
	}
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, Lexical, CategoryOf(InvalidCharacter))
	assert.Equal(t, Lexical, CategoryOf(BracketMismatch))
	assert.Equal(t, Syntax, CategoryOf(MissingSemicolon))
	assert.Equal(t, Syntax, CategoryOf(UnexpectedToken))
	assert.Equal(t, Semantic, CategoryOf(TypeMismatch))
	assert.Equal(t, Semantic, CategoryOf(IntegerRange))
	assert.Equal(t, "semantic", Diagnostic{Code: DuplicateIdent}.Category().String())
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Code: MissingEnd, Line: 7, Message: Format(MissingEnd)}
	require.Equal(t, "line 7: error 108: missing end", d.String())
}

func TestSetLogLevel(t *testing.T) {
	assert.NoError(t, SetLogLevel("debug"))
	assert.Error(t, SetLogLevel("loud"))
	assert.NoError(t, SetLogLevel("warn"))
}
