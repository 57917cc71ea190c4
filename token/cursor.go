/*
 * Surefire
 *
 * Copyright 2024 Surefire authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package token

/*
Cursor provides forward iteration, slicing, lookahead, and newline-skipping
over a token sequence. All operations are O(1) except
Next, which scans forward.
*/
type Cursor struct {
	toks []Token
	pos  int
}

/*
NewCursor wraps a token slice for cursor-based traversal.
*/
func NewCursor(toks []Token) *Cursor {
	return &Cursor{toks: toks, pos: 0}
}

/*
Index returns the cursor's current position.
*/
func (c *Cursor) Index() int {
	return c.pos
}

/*
Seek moves the cursor to position i, clamped to [0, len(tokens)].
*/
func (c *Cursor) Seek(i int) {
	if i < 0 {
		i = 0
	}
	if i > len(c.toks) {
		i = len(c.toks)
	}
	c.pos = i
}

/*
Eof reports whether the cursor has consumed every token.
*/
func (c *Cursor) Eof() bool {
	return c.pos >= len(c.toks)
}

/*
Peek returns the token at the current position without advancing. At eof
it returns the distinguished None token.
*/
func (c *Cursor) Peek() Token {
	if c.Eof() {
		return None
	}
	return c.toks[c.pos]
}

/*
Type returns the kind of the current token (EOF at eof).
*/
func (c *Cursor) Type() Kind {
	return c.Peek().Kind
}

/*
Lexeme returns the lexeme of the current token ("" at eof).
*/
func (c *Cursor) Lexeme() string {
	return c.Peek().Lexeme
}

/*
Eat advances the cursor while the current token is a Newline.
*/
func (c *Cursor) Eat() {
	for !c.Eof() && c.toks[c.pos].Kind == Newline {
		c.pos++
	}
}

/*
Take returns the current token and advances the cursor past it and any
run of Newline tokens that immediately follows, since newlines are
separators for most grammar productions rather than significant tokens.
*/
func (c *Cursor) Take() Token {
	t := c.Peek()
	if !c.Eof() {
		c.pos++
	}
	c.Eat()
	return t
}

/*
Next scans forward from the current position until it finds a token whose
kind is one of kinds, or reaches eof, and returns the distance (number of
tokens) scanned. It does not move the cursor. This is the one O(N)
operation the cursor provides.
*/
func (c *Cursor) Next(kinds ...Kind) int {
	want := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}

	dist := 0
	for i := c.pos; i < len(c.toks); i++ {
		if want[c.toks[i].Kind] {
			return dist
		}
		dist++
	}
	return dist
}

/*
Slice returns a new cursor over the sub-range [lo, hi) of this cursor's
underlying token sequence, positioned at its own start. The result is
empty if lo >= hi.
*/
func (c *Cursor) Slice(lo, hi int) *Cursor {
	if lo < 0 {
		lo = 0
	}
	if hi > len(c.toks) {
		hi = len(c.toks)
	}
	if lo >= hi {
		return NewCursor(nil)
	}
	return NewCursor(c.toks[lo:hi])
}

/*
Len returns the number of tokens in this cursor's underlying sequence.
*/
func (c *Cursor) Len() int {
	return len(c.toks)
}

/*
Tokens returns the full underlying token slice this cursor was built from.
*/
func (c *Cursor) Tokens() []Token {
	return c.toks
}
