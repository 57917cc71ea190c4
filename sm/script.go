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
	"github.com/stefandebruyn/surefire-sub002/expr"
	"github.com/stefandebruyn/surefire-sub002/token"
)

/*
ParseScript parses a state-script body: a flat chain of statements using the same grammar
a state's label uses - assignments, @assert, @stop, and guarded if/else -
but with no section or label structure around it. The sibling `script`
package owns the file format (tokenizing a `.cfg` into this shape); this
function is the one piece of that format that must stay in lockstep with
the block/action grammar defined in block.go.
*/
func ParseScript(toks []token.Token) (*BlockParse, error) {
	cur := token.NewCursor(toks)
	cur.Eat()
	bp, _, err := parseBlockChain(toks, cur.Index(), len(toks))
	return bp, err
}

/*
ScriptBlock is a compiled state-script statement chain, bound to one
StateMachine's symbol table. Unlike a state's entry/step/exit chain, a
ScriptBlock is driven by Run rather than by StateMachine.Step - assigning
to the element bound to "T" is itself what advances the underlying
machine.
*/
type ScriptBlock struct {
	chain   *block
	rolling []*expr.RollingStat
	machine *StateMachine
}

/*
CompileScript lowers a parsed script chain (ParseScript) against this
machine's own merged symbol table: every
state-vector element, local, alias, and the reserved T/G/S names a
state's guards and actions can reference are equally visible to a
script's assignments and @assert expressions. Transitions ("->") are
rejected - a script drives an already-compiled machine's clock, it does
not choose its states.
*/
func (m *StateMachine) CompileScript(bp *BlockParse) (*ScriptBlock, error) {
	c := &compiler{
		table:    m.bindings,
		dialect:  Dialect{AllowAssertions: true},
		stateIDs: map[string]int{},
	}

	blk, err := c.compileBlock(bp, false)
	if err != nil {
		return nil, err
	}

	return &ScriptBlock{chain: blk, rolling: c.rolling, machine: m}, nil
}

/*
Assertion is one @assert statement's outcome, surfaced with enough source
position to render a report line.
*/
type Assertion struct {
	Line int
	Col  int
	Pass bool
}

/*
Run walks the compiled script chain once, performing every assignment in
order and recording one Assertion per @assert encountered. Assigning to
the element bound to "T" steps the underlying state machine immediately
afterward, so the state machine's own entry/step/exit semantics apply
between script statements exactly as they would if fed by a real clock.
Run stops early, returning the assertions and stepErr observed so far, if
either a @stop statement is reached or StateMachine.Step returns an
error.
*/
func (sb *ScriptBlock) Run() (asserts []Assertion, stopped bool, stepErr error) {
	for _, r := range sb.rolling {
		r.Update()
	}
	stopped, stepErr = sb.run(sb.chain, &asserts)
	return asserts, stopped, stepErr
}

func (sb *ScriptBlock) run(b *block, asserts *[]Assertion) (bool, error) {
	for b != nil {
		if b.guard != nil {
			if b.guard.Eval() != 0 {
				if stopped, err := sb.run(b.ifB, asserts); stopped || err != nil {
					return stopped, err
				}
			} else if b.elseB != nil {
				if stopped, err := sb.run(b.elseB, asserts); stopped || err != nil {
					return stopped, err
				}
			}
		}

		if b.assign != nil {
			b.assign.elem.SetValue(b.assign.rhs.Eval())
			if b.assign.elem == sb.machine.tElem {
				if err := sb.machine.Step(); err != nil {
					return false, err
				}
			}
		}

		if b.assert != nil {
			*asserts = append(*asserts, Assertion{
				Line: b.assertLine,
				Col:  b.assertCol,
				Pass: b.assert.Eval() != 0,
			})
		}

		if b.stop {
			return true, nil
		}

		b = b.next
	}
	return false, nil
}
