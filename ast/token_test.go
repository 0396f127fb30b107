package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupCode(t *testing.T) {
	tests := []struct {
		lexeme string
		code   int
		ok     bool
	}{
		{"begin", CodeBegin, true},
		{"BEGIN", CodeBegin, true},
		{"WriteLn", CodeWriteln, true},
		{":=", CodeAssign, true},
		{"(*", 72, true},
		{"..", 74, true},
		{"x", 0, false},
		{"!", 0, false},
	}
	for _, tt := range tests {
		code, ok := LookupCode(tt.lexeme)
		assert.Equal(t, tt.ok, ok, "lexeme %q", tt.lexeme)
		assert.Equal(t, tt.code, code, "lexeme %q", tt.lexeme)
	}
}

func TestCodesIsCopy(t *testing.T) {
	table := Codes()
	assert.Equal(t, CodeEnd, table["end"])
	assert.Equal(t, CodeSemicolon, table[";"])

	table["end"] = 0
	delete(table, "begin")

	code, ok := LookupCode("end")
	assert.True(t, ok)
	assert.Equal(t, CodeEnd, code)
	assert.Contains(t, Codes(), "begin")
}

func TestCodesAreUnique(t *testing.T) {
	seen := map[int]string{}
	for lexeme, code := range Codes() {
		if prev, dup := seen[code]; dup {
			t.Errorf("code %d used by %q and %q", code, prev, lexeme)
		}
		seen[code] = lexeme
	}
}
