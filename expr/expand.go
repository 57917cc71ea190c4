/*
 * Surefire
 *
 * Copyright 2024 Surefire authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package expr

import "github.com/stefandebruyn/surefire-sub002/lang"

/*
expand rewrites a chain of relational operators into an AND of pairwise
comparisons: `1 < x < 3` becomes `(1 < x) and (x < 3)`. The rewrite is
applied top-down: a relational node whose left child is itself
relational is rewritten into an `and` node first, and only then are
both subtrees expanded, so a chain of three or more comparisons unfolds
into one conjunction per comparison.
Only the new relational node built for the right-hand comparison and
the `and` node joining the two halves are freshly allocated - the
original left subtree and its own children are
referenced, not copied, so sharing is preserved exactly as the original
parse built it.
*/
func expand(n *ParseTree) *ParseTree {
	if n == nil {
		return nil
	}

	if n.Tok.HasOp && n.Tok.Op.IsRelational() &&
		n.Left != nil && n.Left.Tok.HasOp && n.Left.Tok.Op.IsRelational() {
		rhs := &ParseTree{Tok: n.Tok, Left: n.Left.Right, Right: n.Right}

		andTok := n.Tok
		andTok.Lexeme = "and"
		andTok.Op = lang.OpAnd
		andTok.HasOp = true

		n = &ParseTree{Tok: andTok, Left: n.Left, Right: rhs}
	}

	n.Left = expand(n.Left)
	n.Right = expand(n.Right)
	return n
}
