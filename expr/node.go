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
Node is a compiled expression node, a single-method interface whose
concrete types are the constant, element-reference, unary, binary, and
rolling-statistic variants. Every Node
evaluates to an F64 - saturating casts are folded directly into the
node that needed them (ElementRef's cast lives inside the bound
Symbol's Value(), and relational/logical results are produced as 0.0/1.0
by the node itself) rather than represented as separate wrapper nodes.
*/
type Node interface {
	Eval() float64
}

/*
ConstNode is a compile-time literal.
*/
type ConstNode struct {
	Value float64
}

func (n *ConstNode) Eval() float64 { return n.Value }

/*
ElementRefNode reads a bound Symbol's current value, already
saturating-cast to F64 by the Symbol itself.
*/
type ElementRefNode struct {
	Symbol Symbol
}

func (n *ElementRefNode) Eval() float64 { return n.Symbol.Value() }

/*
UnaryOpNode applies a unary operator function to its operand.
*/
type UnaryOpNode struct {
	Op      lang.Operator
	Operand Node
}

func (n *UnaryOpNode) Eval() float64 {
	v := n.Operand.Eval()
	switch n.Op {
	case lang.OpNeg:
		return -v
	case lang.OpNot:
		if v == 0 {
			return 1
		}
		return 0
	}
	return 0
}

/*
BinaryOpNode applies a binary operator function to its two operands.
Arithmetic operators yield their numeric result directly; relational and
logical operators yield 0.0/1.0.
*/
type BinaryOpNode struct {
	Op    lang.Operator
	Left  Node
	Right Node
}

func (n *BinaryOpNode) Eval() float64 {
	l := n.Left.Eval()
	r := n.Right.Eval()
	switch n.Op {
	case lang.OpAdd:
		return l + r
	case lang.OpSub:
		return l - r
	case lang.OpMul:
		return l * r
	case lang.OpDiv:
		return l / r
	case lang.OpLt:
		return boolF64(l < r)
	case lang.OpLe:
		return boolF64(l <= r)
	case lang.OpGt:
		return boolF64(l > r)
	case lang.OpGe:
		return boolF64(l >= r)
	case lang.OpEq:
		return boolF64(l == r)
	case lang.OpNe:
		return boolF64(l != r)
	case lang.OpAnd:
		return boolF64(l != 0 && r != 0)
	case lang.OpOr:
		return boolF64(l != 0 || r != 0)
	}
	return 0
}

func boolF64(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

/*
Assembly owns every Node allocated while compiling one expression and
exposes the root plus every RollingStat that must be updated once per
state-machine step.
*/
type Assembly struct {
	Root    Node
	Rolling []*RollingStat
}

/*
Eval evaluates the compiled expression's root node.
*/
func (a *Assembly) Eval() float64 { return a.Root.Eval() }

/*
Update advances every rolling-statistics node this assembly owns. Called
once per state-machine step, before any node is evaluated.
*/
func (a *Assembly) Update() {
	for _, r := range a.Rolling {
		r.Update()
	}
}
