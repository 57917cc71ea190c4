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

import (
	"regexp"
	"strings"

	"github.com/stefandebruyn/surefire-sub002/errs"
	"github.com/stefandebruyn/surefire-sub002/lang"
)

/*
newInvalidToken builds the tagged ErrInvalidToken error for a failed match
at (line, col), the same errs.Detail shape every later toolchain stage
returns.
*/
func newInvalidToken(line, col int) error {
	return errs.New(errs.ErrInvalidToken, line, col, "no token pattern matches here")
}

/*
pattern pairs a token kind with the regex used to recognize it at the
current scan position. Order is significant: patterns are tried in the
order listed below and the first to match at the current position wins.
*/
type pattern struct {
	kind Kind
	re   *regexp.Regexp
}

/*
patterns is the fixed, ordered list of lexical patterns the tokenizer tries
at each scan position.
*/
var patterns = []pattern{
	{Section, regexp.MustCompile(`^\[[a-zA-Z0-9_/]+\]`)},
	{Label, regexp.MustCompile(`^\.[a-zA-Z][a-zA-Z0-9_]*`)},
	{Constant, regexp.MustCompile(`^(true|false)\b`)},
	{Constant, regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?`)},
	{Annotation, regexp.MustCompile(`^@[a-zA-Z][a-zA-Z0-9_=]*`)},
	{Op, regexp.MustCompile(`^(==|!=|<=|>=|->|<|>|!|=)`)},
	{Op, regexp.MustCompile(`^(and|or|not)\b`)},
	{Keyword, regexp.MustCompile(`^(if|else)\b`)},
	{Op, regexp.MustCompile(`^[+\-*/]`)},
	{Identifier, regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*`)},
	{Colon, regexp.MustCompile(`^:`)},
	{LParen, regexp.MustCompile(`^\(`)},
	{RParen, regexp.MustCompile(`^\)`)},
	{LBrace, regexp.MustCompile(`^\{`)},
	{RBrace, regexp.MustCompile(`^\}`)},
	{Comma, regexp.MustCompile(`^,`)},
}

/*
commentPattern recognizes a trailing comment, dropped from the token
stream.
*/
var commentPattern = regexp.MustCompile(`^#.*$`)

/*
Tokenize reads a character stream line-by-line and returns the ordered
token sequence it produces. A synthetic Newline token is
emitted at the end of every line except the last, and EOF is not itself
represented as a token in the returned slice (callers detect end of input
via slice length, mirroring the Token Cursor's own EOF handling).
*/
func Tokenize(source string) ([]Token, error) {
	var toks []Token

	lines := strings.Split(source, "\n")

	// A source ending in "\n" leaves an empty final element after Split;
	// it is not a line of its own, so the last real line gets no Newline.
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	for i, line := range lines {
		lineNum := i + 1

		if err := tokenizeLine(line, lineNum, &toks); err != nil {
			return nil, err
		}

		if i != len(lines)-1 {
			toks = append(toks, Token{Kind: Newline, Lexeme: "\n", Line: lineNum, Column: len(line) + 1})
		}
	}

	return toks, nil
}

/*
tokenizeLine scans a single line of input, appending every token it finds
(except dropped comments) to toks.
*/
func tokenizeLine(line string, lineNum int, toks *[]Token) error {
	idx := 0

	for idx < len(line) {

		// Skip leading whitespace; it carries no token of its own.

		for idx < len(line) && (line[idx] == ' ' || line[idx] == '\t' || line[idx] == '\r') {
			idx++
		}

		if idx >= len(line) {
			break
		}

		col := idx + 1
		rest := line[idx:]

		// Comments run to the end of the line and are dropped.

		if m := commentPattern.FindString(rest); m != "" {
			break
		}

		matched := false

		for _, p := range patterns {
			m := p.re.FindString(rest)
			if m == "" {
				continue
			}

			tok := Token{Kind: p.kind, Lexeme: m, Line: lineNum, Column: col}

			if p.kind == Op {
				if o, ok := lang.LookupBinaryOperator(m); ok {
					tok.Op, tok.HasOp = o, true
				} else if o, ok := lang.LookupUnaryOperator(m); ok {
					tok.Op, tok.HasOp = o, true
				}
			}

			*toks = append(*toks, tok)
			idx += len(m)
			matched = true
			break
		}

		if !matched {
			return newInvalidToken(lineNum, col)
		}
	}

	return nil
}
