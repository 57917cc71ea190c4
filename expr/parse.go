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
Package expr implements the expression parser and compiler:
an operator-precedence parser producing an
immutable binary parse tree, double-inequality expansion over that tree,
and a two-pass compiler that type-checks and lowers the tree into an
evaluable, always-total expression tree over float64.
*/
package expr

import (
	"github.com/stefandebruyn/surefire-sub002/lang"
	"github.com/stefandebruyn/surefire-sub002/token"
)

/*
ParseTree is an immutable binary expression parse tree node: a token plus
optional left/right children. A function call is represented by a node
with FuncCall set, whose Left subtree is a linked chain of argument
shell nodes - each shell's Right child holds one argument's expression
root, and each shell's Left child is the next shell (nil terminates the
chain). Subtrees may be shared across multiple parents - see expand in
expand.go.
*/
type ParseTree struct {
	Tok      token.Token
	Left     *ParseTree
	Right    *ParseTree
	FuncCall bool
}

/*
Symbol is the binding an Identifier resolves to during compilation: a
typed, readable, writable slot. sv.Element satisfies this interface
structurally, without expr importing the sv package.
*/
type Symbol interface {
	Type() lang.PrimitiveType
	Value() float64
	SetValue(float64)
}
