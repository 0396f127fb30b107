package lexer

import "unicode/utf8"

// Cursor walks a fully materialised source buffer one byte at a time and keeps
// the 1-based line and column of the current byte.
// A Cursor belongs to exactly one Lexer.
type Cursor struct {
	input string
	pos   int  // index of ch
	ch    byte // current byte, 0 at end of input

	line int
	col  int
}

// NewCursor positions a cursor on the first byte of input.
func NewCursor(input string) *Cursor {
	c := &Cursor{input: input, line: 1, col: 1}
	if len(input) > 0 {
		c.ch = input[0]
	}
	return c
}

// Current returns the byte under the cursor, or 0 at end of input.
func (c *Cursor) Current() byte { return c.ch }

// Peek returns the byte after the current one without consuming anything.
func (c *Cursor) Peek() byte {
	if c.pos+1 >= len(c.input) {
		return 0
	}
	return c.input[c.pos+1]
}

// AtEOF reports whether the whole input has been consumed.
func (c *Cursor) AtEOF() bool { return c.pos >= len(c.input) }

// Advance consumes the current byte. Consuming a newline bumps the line
// counter and resets the column. Columns count runes, so UTF-8 continuation
// bytes do not move the column.
func (c *Cursor) Advance() {
	if c.AtEOF() {
		return
	}
	switch {
	case c.ch == '\n':
		c.line++
		c.col = 1
	case c.ch&0xC0 != 0x80:
		c.col++
	}
	c.pos++
	if c.pos < len(c.input) {
		c.ch = c.input[c.pos]
	} else {
		c.ch = 0
	}
}

// Line returns the 1-based line of the current byte.
func (c *Cursor) Line() int { return c.line }

// Col returns the 1-based column of the current byte.
func (c *Cursor) Col() int { return c.col }

// Pos returns the byte offset of the current byte.
func (c *Cursor) Pos() int { return c.pos }

// Slice returns input[start:Pos()].
func (c *Cursor) Slice(start int) string { return c.input[start:c.pos] }

// Rune decodes the UTF-8 sequence that starts at the current byte and returns
// it with its width in bytes. Invalid input yields utf8.RuneError and width 1.
func (c *Cursor) Rune() (rune, int) {
	if c.AtEOF() {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(c.input[c.pos:])
}
