package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Senko88/kompilators/compiler"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Print the token stream",
	Long: `Tokenizes a source file and prints each token with its kind, code and
position, followed by any lexical diagnostics.

Examples:
  kompilator tokens program.pas
  kompilator tokens --format yaml program.pas`,
	Args: cobra.ExactArgs(1),
	RunE: runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(cmd *cobra.Command, args []string) error {
	src, err := readSource(cmd, args[0])
	if err != nil {
		return err
	}

	toks, ds := compiler.Tokenize(src)
	if err := newRenderer(cmd.OutOrStdout(), cfg).Tokens(args[0], toks, ds); err != nil {
		return err
	}
	if len(ds) > 0 {
		return errDiagnostics
	}
	return nil
}
