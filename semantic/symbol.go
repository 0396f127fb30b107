// Package semantic implements the symbol table and the type and range checks
// run by the parser.
//
// The [Checker] owns the only symbol table of a compilation run. It never sees
// tokens: the parser hands it names, types and literal text, and every check
// returns a plain bool after appending its diagnostic to the run's sink.
package semantic

import (
	"strings"

	"github.com/Senko88/kompilators/ast"
)

// Symbol is a declared variable, function or procedure.
type Symbol struct {
	Name       string      `json:"name" yaml:"name"`
	Type       ast.Type    `json:"type" yaml:"type"` // result type for functions, TypeNone for procedures
	IsFunction bool        `json:"is_function" yaml:"is_function"`
	Line       int         `json:"line" yaml:"line"`
	Params     []ast.Param `json:"params,omitempty" yaml:"params,omitempty"`
}

// SymbolTable maps names to symbols. Names are unique and compared
// case-insensitively, as Pascal identifiers are.
type SymbolTable struct {
	byName map[string]*Symbol
	order  []*Symbol
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{byName: make(map[string]*Symbol)}
}

func key(name string) string { return strings.ToLower(name) }

// Insert adds sym unless its name is taken. It reports whether sym was added;
// an existing entry is never replaced.
func (st *SymbolTable) Insert(sym Symbol) bool {
	k := key(sym.Name)
	if _, exists := st.byName[k]; exists {
		return false
	}
	s := sym
	st.byName[k] = &s
	st.order = append(st.order, &s)
	return true
}

// Lookup returns the symbol declared under name.
func (st *SymbolTable) Lookup(name string) (Symbol, bool) {
	s, ok := st.byName[key(name)]
	if !ok {
		return Symbol{}, false
	}
	return *s, true
}

// Len returns the number of symbols.
func (st *SymbolTable) Len() int { return len(st.order) }

// All returns the symbols in declaration order.
func (st *SymbolTable) All() []Symbol {
	out := make([]Symbol, len(st.order))
	for i, s := range st.order {
		out[i] = *s
	}
	return out
}
