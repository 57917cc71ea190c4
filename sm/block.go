/*
 * Surefire
 *
 * Copyright 2024 Surefire authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package sm

import (
	"github.com/stefandebruyn/surefire-sub002/errs"
	"github.com/stefandebruyn/surefire-sub002/token"
)

/*
scanTo returns the index of the first token in toks[from:end] whose kind
is one of kinds, or end if none is found.
*/
func scanTo(toks []token.Token, from, end int, kinds ...token.Kind) int {
	want := make(map[token.Kind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	i := from
	for i < end && !want[toks[i].Kind] {
		i++
	}
	return i
}

/*
skipNewlines advances past a run of Newline tokens.
*/
func skipNewlines(toks []token.Token, pos, end int) int {
	for pos < end && toks[pos].Kind == token.Newline {
		pos++
	}
	return pos
}

/*
parseBlockChain walks
toks[pos:end], building a linked list of BlockParse nodes, and returns the
chain's head plus the position immediately following everything it
consumed (== end once the whole range has been parsed).
*/
func parseBlockChain(toks []token.Token, pos, end int) (*BlockParse, int, error) {
	pos = skipNewlines(toks, pos, end)
	if pos >= end {
		return nil, pos, nil
	}

	boundary := scanTo(toks, pos, end, token.Colon, token.LBrace, token.Newline)

	if boundary >= end || toks[boundary].Kind == token.Newline {
		next := boundary
		if next < end {
			next++
		}
		next = skipNewlines(toks, next, end)
		if next < end && toks[next].Kind == token.LBrace {
			return parseGuardedBlock(toks, pos, boundary, next, end)
		}
		return parseBareStatement(toks, pos, boundary, end)
	}

	return parseGuardedBlock(toks, pos, boundary, boundary, end)
}

/*
parseGuardedBlock parses a guarded if/else block: guard tokens span
[guardStart, guardEnd), and openIdx is the Colon or LBrace that begins
the if-branch's body (possibly on the following line, for the brace
form). It then looks for a trailing else-branch and finally continues the
enclosing chain.
*/
func parseGuardedBlock(toks []token.Token, guardStart, guardEnd, openIdx, end int) (*BlockParse, int, error) {
	guardToks := toks[guardStart:guardEnd]
	if len(guardToks) > 0 && guardToks[0].Kind == token.Keyword && guardToks[0].Lexeme == "if" {
		guardToks = guardToks[1:]
	}

	blk := &BlockParse{HasGuard: true, Guard: guardToks}
	if guardEnd > guardStart {
		blk.GuardTok = toks[guardStart]
	} else if openIdx < end {
		blk.GuardTok = toks[openIdx]
	}

	ifBody, after, err := parseBracedOrColonBody(toks, openIdx, end)
	if err != nil {
		return nil, 0, err
	}

	ifBranch, _, err := parseBlockChain(toks, ifBody.start, ifBody.end)
	if err != nil {
		return nil, 0, err
	}
	blk.If = ifBranch

	pos := skipNewlines(toks, after, end)
	if pos < end && toks[pos].Kind == token.Keyword && toks[pos].Lexeme == "else" {
		elseTok := toks[pos]
		pos++

		elseOpenEnd := scanTo(toks, pos, end, token.Colon, token.LBrace, token.Newline)
		openElseIdx := elseOpenEnd
		if elseOpenEnd >= end || toks[elseOpenEnd].Kind == token.Newline {
			next := elseOpenEnd
			if next < end {
				next++
			}
			next = skipNewlines(toks, next, end)
			if next < end && toks[next].Kind == token.LBrace {
				openElseIdx = next
			} else {
				return nil, 0, errAt(errs.ErrEmptyElse, elseTok, "else has no body")
			}
		}

		elseBody, elseAfter, err := parseBracedOrColonBody(toks, openElseIdx, end)
		if err != nil {
			return nil, 0, err
		}
		elseBranch, _, err := parseBlockChain(toks, elseBody.start, elseBody.end)
		if err != nil {
			return nil, 0, err
		}
		blk.Else = elseBranch
		pos = elseAfter
	}

	next, finalPos, err := parseBlockChain(toks, pos, end)
	if err != nil {
		return nil, 0, err
	}
	blk.Next = next

	return blk, finalPos, nil
}

/*
bodyRange is the [start, end) span of a guarded block's body, exclusive
of its delimiting colon/braces.
*/
type bodyRange struct {
	start, end int
}

/*
parseBracedOrColonBody consumes a block body starting at the Colon or
LBrace token at openIdx, returning the interior token span and the
position immediately after the body (past the trailing Newline for a
colon body, past the matching RBrace for a brace body).
*/
func parseBracedOrColonBody(toks []token.Token, openIdx, end int) (bodyRange, int, error) {
	open := toks[openIdx]

	if open.Kind == token.Colon {
		bodyStart := openIdx + 1
		bodyEnd := scanTo(toks, bodyStart, end, token.Newline)
		after := bodyEnd
		if after < end {
			after++
		}
		return bodyRange{bodyStart, bodyEnd}, after, nil
	}

	depth := 1
	i := openIdx + 1
	for i < end && depth > 0 {
		switch toks[i].Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
		}
		if depth == 0 {
			break
		}
		i++
	}
	if depth != 0 {
		return bodyRange{}, 0, errAt(errs.ErrUnbalancedBrace, open, "unbalanced brace")
	}
	return bodyRange{openIdx + 1, i}, i + 1, nil
}

/*
parseBareStatement parses one non-guarded statement: an assertion, a stop,
or an action, then continues the enclosing chain.
*/
func parseBareStatement(toks []token.Token, start, termIdx, end int) (*BlockParse, int, error) {
	stmt := toks[start:termIdx]

	blk := &BlockParse{}

	if len(stmt) == 0 {
		// Nothing between two terminators - tolerate and move on.
	} else {
		first := stmt[0]
		switch {
		case first.Kind == token.Annotation && first.Lexeme == "@assert":
			blk.HasAssert = true
			blk.Assert = stmt[1:]
			blk.AssertTok = first

		case first.Kind == token.Annotation && first.Lexeme == "@stop":
			blk.Stop = true
			blk.StopTok = first

		default:
			assign, trans, err := parseAction(stmt)
			if err != nil {
				return nil, 0, err
			}
			blk.Assign = assign
			blk.Trans = trans
		}
	}

	after := termIdx
	if after < end {
		after++
	}

	next, finalPos, err := parseBlockChain(toks, after, end)
	if err != nil {
		return nil, 0, err
	}
	blk.Next = next

	return blk, finalPos, nil
}

/*
parseAction parses an action statement: an assignment `elem = expr`
or a transition `-> state`.
*/
func parseAction(stmt []token.Token) (*AssignParse, *TransParse, error) {
	first := stmt[0]

	if first.Kind == token.Identifier {
		if len(stmt) < 2 || stmt[1].Kind != token.Op || stmt[1].Lexeme != "=" {
			t := first
			if len(stmt) >= 2 {
				t = stmt[1]
			}
			return nil, nil, errAt(errs.ErrExpectedAssign, t, "expected \"=\" after element name")
		}
		if len(stmt) < 3 {
			return nil, nil, errAt(errs.ErrExpectedInitValue, stmt[1], "expected an expression after \"=\"")
		}
		return &AssignParse{NameTok: first, Rhs: stmt[2:]}, nil, nil
	}

	if first.Kind == token.Op && first.Lexeme == "->" {
		if len(stmt) < 2 || stmt[1].Kind != token.Identifier {
			return nil, nil, errAt(errs.ErrExpectedDestState, first, "expected a destination state name after \"->\"")
		}
		if len(stmt) > 2 {
			return nil, nil, errAt(errs.ErrJunkAfterTransition, stmt[2], "unexpected tokens after transition")
		}
		return nil, &TransParse{Tok: first, DestTok: stmt[1]}, nil
	}

	return nil, nil, errAt(errs.ErrExpectedActionOrTransition, first, "expected an action or a transition")
}
