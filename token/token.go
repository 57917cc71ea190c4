/*
 * Surefire
 *
 * Copyright 2024 Surefire authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

/*
Package token implements the Surefire Tokenizer and Token Cursor: the
character-stream-to-token-sequence front end shared by the expression,
state-vector, and state-machine parsers.
*/
package token

import (
	"fmt"

	"github.com/stefandebruyn/surefire-sub002/lang"
)

/*
Kind identifies the lexical category of a Token.
*/
type Kind int

/*
The closed set of token kinds the tokenizer produces.
*/
const (
	Section Kind = iota
	Label
	Identifier
	Op
	Constant
	Colon
	Newline
	LParen
	RParen
	LBrace
	RBrace
	Comma
	Annotation
	Keyword
	EOF // synthetic kind returned by Cursor.Peek() at end of input
)

var kindNames = map[Kind]string{
	Section: "section", Label: "label", Identifier: "identifier",
	Op: "operator", Constant: "constant", Colon: "colon", Newline: "newline",
	LParen: "left paren", RParen: "right paren", LBrace: "left brace",
	RBrace: "right brace", Comma: "comma", Annotation: "annotation",
	Keyword: "keyword", EOF: "eof",
}

/*
String returns a human-readable name for this token kind, used in error
messages.
*/
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "?"
}

/*
Token is an immutable, tagged lexical unit produced by the tokenizer. Once
produced, a Token's fields never change; downstream parse trees reference
Tokens by value or pointer without ever mutating them.
*/
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int // 1-based
	Column int // 1-based

	// Op is set when Kind == Op and the lexeme resolves to a known
	// operator: its binary form where it has one ("-" is OpSub), otherwise
	// its unary form ("!" and "not" are OpNot).
	Op lang.Operator
	// HasOp reports whether Op was populated (the zero value of Operator
	// is a valid operator, so a bool flag distinguishes "unset").
	HasOp bool

	// PrimType is set for Identifier tokens that the state-vector or
	// state-machine parser has already resolved to a known primitive type
	// name. Left unset by the tokenizer itself.
	PrimType lang.PrimitiveType
	HasType  bool
}

/*
None is the distinguished sentinel token returned for out-of-range cursor
access.
*/
var None = Token{Kind: EOF, Lexeme: "", Line: 0, Column: 0}

/*
String returns a debug representation of this token.
*/
func (t Token) String() string {
	return fmt.Sprintf("%s(%q) @%d:%d", t.Kind, t.Lexeme, t.Line, t.Column)
}
