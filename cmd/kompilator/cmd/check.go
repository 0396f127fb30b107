package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Senko88/kompilators/compiler"
)

var (
	checkTokens bool
	checkMax    int
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Analyze a source file",
	Long: `Runs the lexer, the parser and the semantic checker over a source file
and prints every diagnostic found. Exits with status 1 when there is any.

Examples:
  kompilator check program.pas
  kompilator check --format json program.pas
  cat program.pas | kompilator check -`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkTokens, "tokens", false, "include the token list in the report")
	checkCmd.Flags().IntVar(&checkMax, "max-diagnostics", 0, "stop after this many diagnostics (0 = no limit)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	src, err := readSource(cmd, args[0])
	if err != nil {
		return err
	}

	opts := compiler.Options{Tokens: cfg.Tokens, MaxDiagnostics: cfg.MaxDiagnostics}
	if cmd.Flags().Changed("tokens") {
		opts.Tokens = checkTokens
	}
	if cmd.Flags().Changed("max-diagnostics") {
		opts.MaxDiagnostics = checkMax
	}

	rep := compiler.Analyze(src, opts)
	if err := newRenderer(cmd.OutOrStdout(), cfg).Report(args[0], rep); err != nil {
		return err
	}
	if !rep.OK() {
		return errDiagnostics
	}
	return nil
}
