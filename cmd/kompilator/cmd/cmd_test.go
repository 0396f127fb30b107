package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Senko88/kompilators/ast"
)

const (
	goodSource = "program P; var x: integer; begin x := 5; writeln(x); end."
	badSource  = "program P; var x: integer; begin x := 99999; end."
)

// resetFlags restores every flag to its default between runs, since cobra
// keeps flag state on the package-level commands.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes the CLI with args and returns what it printed.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.pas")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheckOK(t *testing.T) {
	out, err := run(t, "", "check", "--no-color", writeSource(t, goodSource))
	require.NoError(t, err)
	assert.Contains(t, out, "OK")
	assert.Contains(t, out, "program P, 1 symbol(s)")
}

func TestCheckReportsDiagnostics(t *testing.T) {
	path := writeSource(t, badSource)
	out, err := run(t, "", "check", "--no-color", path)

	assert.ErrorIs(t, err, errDiagnostics)
	assert.Contains(t, out, path+":1: error 119 [semantic]")
	assert.Contains(t, out, "99999")
	assert.Contains(t, out, "1 error(s)")
}

func TestCheckStdin(t *testing.T) {
	out, err := run(t, goodSource, "check", "--no-color", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "OK")
}

func TestCheckJSON(t *testing.T) {
	out, err := run(t, "", "check", "--format", "json", "--tokens", writeSource(t, badSource))
	assert.ErrorIs(t, err, errDiagnostics)

	var rep map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "P", rep["program"])
	assert.NotEmpty(t, rep["run_id"])
	assert.NotEmpty(t, rep["tokens"])

	ds, ok := rep["diagnostics"].([]any)
	require.True(t, ok)
	require.Len(t, ds, 1)
	assert.EqualValues(t, 119, ds[0].(map[string]any)["code"])
}

func TestCheckYAML(t *testing.T) {
	out, err := run(t, "", "check", "-f", "yaml", writeSource(t, goodSource))
	require.NoError(t, err)

	var rep struct {
		Program string `yaml:"program"`
		Symbols []struct {
			Name string `yaml:"name"`
			Type string `yaml:"type"`
		} `yaml:"symbols"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "P", rep.Program)
	require.Len(t, rep.Symbols, 1)
	assert.Equal(t, "integer", rep.Symbols[0].Type)
}

func TestCheckConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "kompilator.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("format: json\nmax_diagnostics: 1\n"), 0o644))

	src := writeSource(t, "begin a := 1; b := 2; end.")
	out, err := run(t, "", "check", "--config", cfgPath, src)
	assert.ErrorIs(t, err, errDiagnostics)

	var rep map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Len(t, rep["diagnostics"], 1)
}

func TestCheckBadConfig(t *testing.T) {
	_, err := run(t, "", "check", "--config", filepath.Join(t.TempDir(), "none.toml"), "x.pas")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errDiagnostics)
}

func TestCheckBadFormat(t *testing.T) {
	_, err := run(t, "", "check", "--format", "xml", writeSource(t, goodSource))
	require.Error(t, err)
}

func TestCheckMissingFile(t *testing.T) {
	_, err := run(t, "", "check", filepath.Join(t.TempDir(), "absent.pas"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTokens(t *testing.T) {
	out, err := run(t, "", "tokens", "--no-color", writeSource(t, "x := 5"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "identifier")
	assert.Contains(t, lines[1], ":=")
	assert.Contains(t, lines[2], "number")
}

func TestTokensReportsLexicalErrors(t *testing.T) {
	out, err := run(t, "", "tokens", "--no-color", writeSource(t, "a @ b"))
	assert.ErrorIs(t, err, errDiagnostics)
	assert.Contains(t, out, "error 118 [lexical]")
}

func TestCodes(t *testing.T) {
	out, err := run(t, "", "codes", "--no-color")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(ast.Codes()))
	assert.Equal(t, []string{"4", ")"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"127", "writeln"}, strings.Fields(lines[len(lines)-1]))
}

func TestCodesJSON(t *testing.T) {
	out, err := run(t, "", "codes", "--format", "json")
	require.NoError(t, err)

	var entries []codeEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, len(ast.Codes()))

	byLexeme := map[string]int{}
	for i, e := range entries {
		byLexeme[e.Lexeme] = e.Code
		if i > 0 {
			assert.LessOrEqual(t, entries[i-1].Code, e.Code, "entries are ordered by code")
		}
	}
	assert.Equal(t, 51, byLexeme[":="])
	assert.Equal(t, 113, byLexeme["begin"])
}

func TestCodesYAML(t *testing.T) {
	out, err := run(t, "", "codes", "-f", "yaml")
	require.NoError(t, err)

	var entries []codeEntry
	require.NoError(t, yaml.Unmarshal([]byte(out), &entries))
	assert.Len(t, entries, len(ast.Codes()))
}

func TestTokensReportsRange(t *testing.T) {
	out, err := run(t, "", "tokens", "--no-color", writeSource(t, "32768 -32768"))
	assert.ErrorIs(t, err, errDiagnostics)
	assert.Contains(t, out, "error 119 [semantic]")
	assert.Equal(t, 1, strings.Count(out, "error 119"))
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "kompilator v"+Version)
}
