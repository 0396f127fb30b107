package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Senko88/kompilators/compiler"
	"github.com/Senko88/kompilators/internal/config"
)

var (
	cfgFile string
	verbose bool
	format  string
	noColor bool

	// cfg is resolved before every command runs.
	cfg = config.Default()
)

// errDiagnostics marks a run that worked but found problems in the source.
// The diagnostics have already been printed.
var errDiagnostics = errors.New("source has errors")

var rootCmd = &cobra.Command{
	Use:   "kompilator",
	Short: "Pascal-subset front-end analyzer",
	Long: `kompilator tokenizes, parses and checks programs written in a small
Pascal subset and reports lexical, syntax and semantic errors.

Commands:
  check   - analyze a source file and list diagnostics
  tokens  - print the classified token stream
  version - print version information`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errDiagnostics) {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (TOML or YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", config.FormatText, "output format (text, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// loadConfig reads the config file and applies flags set on the command line.
func loadConfig(cmd *cobra.Command, args []string) error {
	c := config.Default()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		c = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		c.Format = format
	}
	if flags.Changed("no-color") {
		c.Color = !noColor
	}
	if verbose {
		c.LogLevel = "debug"
	}
	if err := c.Validate(); err != nil {
		return err
	}

	if err := compiler.SetLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("failed to set log level: %w", err)
	}
	cfg = c
	return nil
}

// readSource reads a file, or standard input for "-".
func readSource(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read source: %w", err)
	}
	return string(data), nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
}
