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

import (
	"github.com/stefandebruyn/surefire-sub002/errs"
	"github.com/stefandebruyn/surefire-sub002/lang"
	"github.com/stefandebruyn/surefire-sub002/token"
)

/*
opFrame is one entry on the parser's operator stack: either a real
operator (with its resolved unary/binary Operator) or an LParen marker
opened either by source text or by a function call's argument grouping.
*/
type opFrame struct {
	tok      token.Token
	op       lang.Operator
	unary    bool
	isParen  bool
}

/*
Parse reads a flat token slice holding one expression (only Identifier,
Constant, Op, LParen, RParen, Comma are legal - anything else is
UnexpectedToken) and produces a parse tree via shunting-yard, then
applies double-inequality expansion.
*/
func Parse(toks []token.Token) (*ParseTree, error) {
	if len(toks) == 0 {
		return nil, errs.New(errs.ErrEmptyExpression, 0, 0, "expression is empty")
	}

	if err := checkBalancedParens(toks); err != nil {
		return nil, err
	}
	for _, t := range toks {
		switch t.Kind {
		case token.Identifier, token.Constant, token.Op, token.LParen, token.RParen, token.Comma:
		default:
			return nil, errAt(errs.ErrUnexpectedToken, t, "token not allowed in an expression")
		}
		if t.Kind == token.Op && t.Lexeme == "=" {
			return nil, errAt(errs.ErrIllegalAssign, t, "use == for comparison")
		}
	}

	root, err := parseShuntingYard(toks)
	if err != nil {
		return nil, err
	}

	return expand(root), nil
}

func checkBalancedParens(toks []token.Token) error {
	depth := 0
	for _, t := range toks {
		switch t.Kind {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
			if depth < 0 {
				return errAt(errs.ErrUnbalancedParen, t, "unmatched closing parenthesis")
			}
		}
	}
	if depth != 0 {
		return errs.New(errs.ErrUnbalancedParen, 0, 0, "unmatched opening parenthesis")
	}
	return nil
}

/*
parseShuntingYard runs the operator-precedence algorithm over a flat
(non-recursive-descent) token slice, building a node stack and an
operator stack side by side.
*/
func parseShuntingYard(toks []token.Token) (*ParseTree, error) {
	var nodes []*ParseTree
	var ops []opFrame
	expectOperand := true

	reduce := func() error {
		top := ops[len(ops)-1]
		ops = ops[:len(ops)-1]

		if top.unary {
			if len(nodes) < 1 {
				return errs.New(errs.ErrSyntax, top.tok.Line, top.tok.Column, "operator is missing its operand")
			}
			operand := nodes[len(nodes)-1]
			nodes = nodes[:len(nodes)-1]
			opTok := top.tok
			opTok.Op, opTok.HasOp = top.op, true
			nodes = append(nodes, &ParseTree{Tok: opTok, Right: operand})
			return nil
		}

		if len(nodes) < 2 {
			return errs.New(errs.ErrSyntax, top.tok.Line, top.tok.Column, "operator is missing an operand")
		}
		right := nodes[len(nodes)-1]
		left := nodes[len(nodes)-2]
		nodes = nodes[:len(nodes)-2]
		opTok := top.tok
		opTok.Op, opTok.HasOp = top.op, true
		nodes = append(nodes, &ParseTree{Tok: opTok, Left: left, Right: right})
		return nil
	}

	i := 0
	for i < len(toks) {
		t := toks[i]

		switch t.Kind {
		case token.Identifier:
			if i+1 < len(toks) && toks[i+1].Kind == token.LParen {
				node, consumed, err := parseFunctionCall(toks[i:])
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, node)
				i += consumed
				expectOperand = false
				continue
			}
			nodes = append(nodes, &ParseTree{Tok: t})
			expectOperand = false
			i++

		case token.Constant:
			nodes = append(nodes, &ParseTree{Tok: t})
			expectOperand = false
			i++

		case token.Op:
			unary := expectOperand
			var op lang.Operator
			var ok bool
			if unary {
				op, ok = lang.LookupUnaryOperator(t.Lexeme)
			} else {
				op, ok = lang.LookupBinaryOperator(t.Lexeme)
			}
			if !ok {
				return nil, errAt(errs.ErrUnknownOperator, t, "operator \""+t.Lexeme+"\" has no "+operandArity(unary)+" form")
			}

			for len(ops) > 0 && !ops[len(ops)-1].isParen && shouldPop(ops[len(ops)-1], unary, op) {
				if err := reduce(); err != nil {
					return nil, err
				}
			}
			ops = append(ops, opFrame{tok: t, op: op, unary: unary})
			expectOperand = true
			i++

		case token.LParen:
			ops = append(ops, opFrame{tok: t, isParen: true})
			expectOperand = true
			i++

		case token.RParen:
			for len(ops) > 0 && !ops[len(ops)-1].isParen {
				if err := reduce(); err != nil {
					return nil, err
				}
			}
			if len(ops) == 0 {
				return nil, errAt(errs.ErrUnbalancedParen, t, "unmatched closing parenthesis")
			}
			ops = ops[:len(ops)-1]
			expectOperand = false
			i++

		default:
			return nil, errAt(errs.ErrUnexpectedToken, t, "unexpected token")
		}
	}

	for len(ops) > 0 {
		if ops[len(ops)-1].isParen {
			return nil, errs.New(errs.ErrUnbalancedParen, 0, 0, "unmatched opening parenthesis")
		}
		if err := reduce(); err != nil {
			return nil, err
		}
	}

	if len(nodes) != 1 {
		return nil, errs.New(errs.ErrSyntax, 0, 0, "expression does not reduce to a single value")
	}
	return nodes[0], nil
}

/*
shouldPop implements the precedence-popping rule: when
both the frame on top of the operator stack and the incoming operator
are unary, popping requires strictly greater precedence, so stacked
prefix operators nest (not not a is not (not a)); any other combination
(binary-vs-binary or mixed) pops at greater-or-equal precedence, so a
chain of equal-precedence binary operators groups to the left
(a - b - c is (a - b) - c, and 1 < x < 3 is (1 < x) < 3, the shape
expand rewrites).
*/
func shouldPop(top opFrame, incomingUnary bool, incoming lang.Operator) bool {
	if top.unary && incomingUnary {
		return top.op.Precedence() > incoming.Precedence()
	}
	return top.op.Precedence() >= incoming.Precedence()
}

func operandArity(unary bool) string {
	if unary {
		return "unary"
	}
	return "binary"
}

/*
parseFunctionCall parses toks[0] (an Identifier) and toks[1] (an
LParen) as the head of a function call, locates the matching RParen,
splits the interior at top-level commas, and recursively parses each
argument. Returns the call node, the number of tokens consumed
(including the closing paren), and an error.
*/
func parseFunctionCall(toks []token.Token) (*ParseTree, int, error) {
	name := toks[0]
	depth := 0
	closeIdx := -1
	for i := 1; i < len(toks); i++ {
		switch toks[i].Kind {
		case token.LParen:
			depth++
		case token.RParen:
			depth--
			if depth == 0 {
				closeIdx = i
			}
		}
		if closeIdx != -1 {
			break
		}
	}
	if closeIdx == -1 {
		return nil, 0, errAt(errs.ErrUnbalancedParen, toks[1], "unmatched opening parenthesis in function call")
	}

	interior := toks[2:closeIdx]

	var argGroups [][]token.Token
	if len(interior) > 0 {
		depth = 0
		start := 0
		for i, t := range interior {
			switch t.Kind {
			case token.LParen:
				depth++
			case token.RParen:
				depth--
			case token.Comma:
				if depth == 0 {
					argGroups = append(argGroups, interior[start:i])
					start = i + 1
				}
			}
		}
		argGroups = append(argGroups, interior[start:])
	}

	var args []*ParseTree
	for _, g := range argGroups {
		if len(g) == 0 {
			return nil, 0, errs.New(errs.ErrSyntax, name.Line, name.Column, "empty argument in function call")
		}
		argRoot, err := parseShuntingYard(g)
		if err != nil {
			return nil, 0, err
		}
		args = append(args, expand(argRoot))
	}

	var chain *ParseTree
	for i := len(args) - 1; i >= 0; i-- {
		chain = &ParseTree{Left: chain, Right: args[i]}
	}

	return &ParseTree{Tok: name, FuncCall: true, Left: chain}, closeIdx + 1, nil
}

func errAt(kind error, t token.Token, msg string) error {
	return errs.New(kind, t.Line, t.Column, msg)
}
