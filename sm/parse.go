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
Package sm implements the state-machine parser, compiler, and runtime:
the top-level dialect that binds a compiled state
vector to a set of states, each with optional entry/step/exit action
chains, and steps them forward in lockstep with an external global-time
input.
*/
package sm

import "github.com/stefandebruyn/surefire-sub002/token"

/*
SVElementParse is one row of a [state_vector] section: the declared type
and name of an element the state machine expects to find in its bound
state vector, plus any annotations attached to it. The declared type is
cross-checked against the bound element's real type at compile time.
*/
type SVElementParse struct {
	TypeTok  token.Token
	NameTok  token.Token
	ReadOnly bool
	Alias    string
	HasAlias bool
}

/*
LocalElementParse is one row of a [local] section: a type, a name, and
the token sequence of its required initializer expression.
*/
type LocalElementParse struct {
	TypeTok  token.Token
	NameTok  token.Token
	Init     []token.Token
	ReadOnly bool
}

/*
AssignParse is the assignment form of an ActionParse: `elem = expr`.
*/
type AssignParse struct {
	NameTok token.Token
	Rhs     []token.Token
}

/*
TransParse is the transition form of an ActionParse: `-> state`.
*/
type TransParse struct {
	Tok     token.Token
	DestTok token.Token
}

/*
BlockParse is one node of a label's action tree: it
may be a guarded if/else node, a bare assignment or transition action, an
assertion or stop statement (legal only in the state-script dialect), and
it chains to the next statement in its enclosing scope via Next.
*/
type BlockParse struct {
	HasGuard bool
	Guard    []token.Token
	GuardTok token.Token
	If       *BlockParse
	Else     *BlockParse

	Assign *AssignParse
	Trans  *TransParse

	HasAssert bool
	Assert    []token.Token
	AssertTok token.Token

	Stop    bool
	StopTok token.Token

	Next *BlockParse
}

/*
StateParse is one state section: its name and the block chains compiled
from its .entry/.step/.exit labels, any of which may be absent.
*/
type StateParse struct {
	NameTok token.Token
	Name    string
	Entry   *BlockParse
	Step    *BlockParse
	Exit    *BlockParse
}

/*
ParseTree is the parse tree produced by the state-machine parser: the
optional state-vector and local sections plus the ordered list of state
sections.
*/
type ParseTree struct {
	HasSV    bool
	SV       []SVElementParse
	HasLocal bool
	Local    []LocalElementParse
	States   []StateParse
}
