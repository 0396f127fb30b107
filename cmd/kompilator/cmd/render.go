package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/Senko88/kompilators/ast"
	"github.com/Senko88/kompilators/compiler"
	"github.com/Senko88/kompilators/diag"
	"github.com/Senko88/kompilators/internal/config"
)

// Colors
var (
	colorError   = lipgloss.Color("#EF4444")
	colorSuccess = lipgloss.Color("#10B981")
	colorAccent  = lipgloss.Color("#F59E0B")
	colorMuted   = lipgloss.Color("#6B7280")
)

// styles used by the text renderer
type styles struct {
	file     lipgloss.Style
	code     lipgloss.Style
	category lipgloss.Style
	ok       lipgloss.Style
	muted    lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain}
	}
	return styles{
		file:     lipgloss.NewStyle().Bold(true),
		code:     lipgloss.NewStyle().Foreground(colorError).Bold(true),
		category: lipgloss.NewStyle().Foreground(colorAccent),
		ok:       lipgloss.NewStyle().Foreground(colorSuccess).Bold(true),
		muted:    lipgloss.NewStyle().Foreground(colorMuted),
	}
}

// renderer writes reports in the configured format.
type renderer struct {
	w      io.Writer
	format string
	st     styles
}

func newRenderer(w io.Writer, c *config.Config) *renderer {
	return &renderer{w: w, format: c.Format, st: newStyles(c.Color)}
}

// Report prints the result of a check run.
func (r *renderer) Report(file string, rep *compiler.Report) error {
	switch r.format {
	case config.FormatJSON:
		return r.json(rep)
	case config.FormatYAML:
		return r.yaml(rep)
	}

	if len(rep.Tokens) > 0 {
		r.tokenTable(rep.Tokens)
	}
	r.diagnostics(file, rep.Diagnostics)

	if rep.OK() {
		name := rep.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(r.w, "%s %s %s\n",
			r.st.file.Render(file+":"),
			r.st.ok.Render("OK"),
			r.st.muted.Render(fmt.Sprintf("program %s, %d symbol(s)", name, len(rep.Symbols))))
	}
	return nil
}

// Tokens prints the output of the tokens command.
func (r *renderer) Tokens(file string, toks []ast.Token, ds []diag.Diagnostic) error {
	out := struct {
		Tokens      []ast.Token       `json:"tokens" yaml:"tokens"`
		Diagnostics []diag.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
	}{toks, ds}

	switch r.format {
	case config.FormatJSON:
		return r.json(out)
	case config.FormatYAML:
		return r.yaml(out)
	}

	r.tokenTable(toks)
	r.diagnostics(file, ds)
	return nil
}

// Codes prints the code table.
func (r *renderer) Codes(entries []codeEntry) error {
	switch r.format {
	case config.FormatJSON:
		return r.json(entries)
	case config.FormatYAML:
		return r.yaml(entries)
	}

	for _, e := range entries {
		fmt.Fprintf(r.w, "%s  %s\n", r.st.muted.Render(fmt.Sprintf("%4d", e.Code)), e.Lexeme)
	}
	return nil
}

func (r *renderer) tokenTable(toks []ast.Token) {
	for _, tok := range toks {
		fmt.Fprintf(r.w, "%s  %-12s %4d  %s\n",
			r.st.muted.Render(fmt.Sprintf("%4d:%-3d", tok.Line, tok.Col)),
			tok.Kind, tok.Code, tok.Lexeme)
	}
}

func (r *renderer) diagnostics(file string, ds []diag.Diagnostic) {
	for _, d := range ds {
		fmt.Fprintf(r.w, "%s %s %s %s\n",
			r.st.file.Render(fmt.Sprintf("%s:%d:", file, d.Line)),
			r.st.code.Render(fmt.Sprintf("error %d", d.Code)),
			r.st.category.Render("["+d.Category().String()+"]"),
			d.Message)
	}
	if n := len(ds); n > 0 {
		fmt.Fprintln(r.w, r.st.code.Render(fmt.Sprintf("%d error(s)", n)))
	}
}

func (r *renderer) json(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

func (r *renderer) yaml(v any) error {
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}
