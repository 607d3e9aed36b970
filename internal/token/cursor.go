package token

// Cursor is a read position over a token slice. The zero index is the first
// token; a cursor never moves backwards.
type Cursor struct {
	tokens []Token
	pos    int
}

// NewCursor returns a cursor positioned at the first token.
func NewCursor(tokens []Token) *Cursor {
	return &Cursor{tokens: tokens}
}

// Pos returns the index of the next token.
func (c *Cursor) Pos() int {
	return c.pos
}

// Done reports whether every token has been consumed.
func (c *Cursor) Done() bool {
	return c.pos >= len(c.tokens)
}

// Peek returns the next token without consuming it.
func (c *Cursor) Peek() (Token, bool) {
	if c.Done() {
		return Token{}, false
	}
	return c.tokens[c.pos], true
}

// Next consumes and returns the next token.
func (c *Cursor) Next() (Token, bool) {
	tok, ok := c.Peek()
	if ok {
		c.pos++
	}
	return tok, ok
}

// SkipWhitespace consumes whitespace and returns the first significant token
// without consuming it.
func (c *Cursor) SkipWhitespace() (Token, bool) {
	for !c.Done() {
		tok := c.tokens[c.pos]
		if !tok.IsWhitespace() {
			return tok, true
		}
		c.pos++
	}
	return Token{}, false
}

// PeekCode returns the next token that is neither whitespace nor a comment
// without moving.
func (c *Cursor) PeekCode() (Token, bool) {
	for i := c.pos; i < len(c.tokens); i++ {
		if tok := c.tokens[i]; !tok.IsWhitespace() && tok.Kind != Comment {
			return tok, true
		}
	}
	return Token{}, false
}

// SkipUntil consumes tokens up to and including the first one of kind k.
// It returns false when the input ends first.
func (c *Cursor) SkipUntil(k Kind) bool {
	for !c.Done() {
		tok := c.tokens[c.pos]
		c.pos++
		if tok.Kind == k {
			return true
		}
	}
	return false
}

// SkipLine consumes tokens up to and including the next line break.
func (c *Cursor) SkipLine() {
	for !c.Done() {
		tok := c.tokens[c.pos]
		c.pos++
		if tok.EndsLine() {
			return
		}
	}
}

// NextInLine skips spaces on the current line and consumes the next
// token that is not blank, unknown kinds included. It returns false at a
// line break or at the end of input, leaving the line break unconsumed.
func (c *Cursor) NextInLine() (Token, bool) {
	for !c.Done() {
		tok := c.tokens[c.pos]
		if tok.EndsLine() {
			return Token{}, false
		}
		c.pos++
		if !tok.IsBlank() {
			return tok, true
		}
	}
	return Token{}, false
}
