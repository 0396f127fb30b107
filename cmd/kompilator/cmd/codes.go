package cmd

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/Senko88/kompilators/ast"
)

var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "Print the token code table",
	Long: `Prints every keyword, operator and punctuation mark with its stable
classification code, ordered by code.

Examples:
  kompilator codes
  kompilator codes --format json`,
	Args: cobra.NoArgs,
	RunE: runCodes,
}

func init() {
	rootCmd.AddCommand(codesCmd)
}

// codeEntry is one row of the code table.
type codeEntry struct {
	Code   int    `json:"code" yaml:"code"`
	Lexeme string `json:"lexeme" yaml:"lexeme"`
}

// codeTable returns the table ordered by code, then lexeme.
func codeTable() []codeEntry {
	table := ast.Codes()
	entries := make([]codeEntry, 0, len(table))
	for lexeme, code := range table {
		entries = append(entries, codeEntry{Code: code, Lexeme: lexeme})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Code != entries[j].Code {
			return entries[i].Code < entries[j].Code
		}
		return entries[i].Lexeme < entries[j].Lexeme
	})
	return entries
}

func runCodes(cmd *cobra.Command, args []string) error {
	return newRenderer(cmd.OutOrStdout(), cfg).Codes(codeTable())
}
