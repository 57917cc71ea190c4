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
	"github.com/krotik/common/errorutil"

	"github.com/stefandebruyn/surefire-sub002/errs"
	"github.com/stefandebruyn/surefire-sub002/expr"
	"github.com/stefandebruyn/surefire-sub002/sv"
)

/*
noState marks a block with no transition to take.
*/
const noState = -1

/*
noTime is the float64 a raw all-ones uint64 decodes to when read back
through an Element's saturating value conversion. It is used as the
sentinel an uninitialized or disconnected time source reads as, so
Step can distinguish "no time yet" from zero.
*/
var noTime = float64(^uint64(0))

/*
assignment is a compiled `elem = expr` action.
*/
type assignment struct {
	elem *sv.Element
	rhs  *expr.Assembly
}

/*
block is one compiled node of a label's action chain. A block is either
a guarded if/else node (guard set, ifB/elseB hold the compiled branches) or a bare statement (assign and/or transTo
set). next chains to the following statement in the same scope.
*/
type block struct {
	guard      *expr.Assembly
	ifB, elseB *block

	assign *assignment

	// assert and stop are populated only under a dialect that allows
	// them (Dialect.AllowAssertions); the regular state-machine runtime
	// never sets them and execute ignores them. A sibling dialect's
	// driver interprets them to fail or halt a running test. assertLine/
	// assertCol locate the assertion in source for that driver's report.
	assert     *expr.Assembly
	assertLine int
	assertCol  int
	stop       bool

	transTo int

	next *block
}

/*
execute runs this block chain: a guarded block recurses into whichever
branch its guard selects (and does nothing if the guard is false and there's no else);
a bare block performs its assignment, if any. Either way, if the block
requests a transition, that destination state id is returned
immediately without executing any further blocks in the chain - a
transitioning statement ends the active label early, as the entry/step
driver is documented to require. execute is nil-receiver-safe so an
absent label (b == nil) is a no-op.
*/
func (b *block) execute() int {
	if b == nil {
		return noState
	}

	if b.guard != nil {
		if b.guard.Eval() != 0 {
			if id := b.ifB.execute(); id != noState {
				return id
			}
		} else if b.elseB != nil {
			if id := b.elseB.execute(); id != noState {
				return id
			}
		}
	} else {
		if b.assign != nil {
			b.assign.elem.SetValue(b.assign.rhs.Eval())
		}
		if b.transTo != noState {
			return b.transTo
		}
	}

	return b.next.execute()
}

/*
State is one compiled state: its id, name, and the compiled entry/step/
exit block chains (any of which may be nil if the corresponding label was
absent).
*/
type State struct {
	id   int
	name string

	entry *block
	step  *block
	exit  *block
}

/*
StateMachine is the runtime produced by Compile: a state vector bound to
a set of compiled states, stepped forward by repeated calls to Step as
global time advances.
*/
type StateMachine struct {
	vector *sv.Assembly
	local  *sv.Assembly

	states   []*State
	byID     map[int]*State
	nameToID map[string]int

	tElem *sv.Element
	gElem *sv.Element
	sElem *sv.Element

	// bindings is the merged element symbol table the compiler built,
	// retained so a sibling dialect (the state-script runner) can
	// compile assignments and @assert checks
	// against every name the machine's own guards and actions can see.
	bindings map[string]*binding

	rolling []*expr.RollingStat

	currentID int

	needsStart bool
	stateStart float64

	hasPrevTime bool
	prevTime    float64

	// parse is retained for introspection (autocoding, diagnostics)
	// unless the caller compiled with Rake, in which case it is nil.
	parse *ParseTree
}

/*
CurrentState returns the name of the state the machine currently occupies.
*/
func (m *StateMachine) CurrentState() string {
	return m.byID[m.currentID].name
}

/*
Parse returns the ParseTree this machine was compiled from, or nil if it
was compiled with Config.Rake set.
*/
func (m *StateMachine) Parse() *ParseTree {
	return m.parse
}

/*
Get reads the current value of any element in the machine's merged symbol
table by name - a state-vector element (native or aliased), a local
element, or T/G/S - the generic by-name accessor external tooling
(autocode, the state-script runner) needs alongside the compiled,
by-label Step/CurrentState API.
*/
func (m *StateMachine) Get(name string) (float64, error) {
	b, ok := m.bindings[name]
	if !ok {
		return 0, errs.New(errs.ErrKey, 0, 0, "unknown name \""+name+"\"")
	}
	return b.elem.Value(), nil
}

/*
Set writes v into the named element, saturating-cast to that element's
native type. Returns an error for an unknown name or a read-only element,
the same ErrAssignmentToReadOnly a compiled assignment statement would
have triggered.
*/
func (m *StateMachine) Set(name string, v float64) error {
	b, ok := m.bindings[name]
	if !ok {
		return errs.New(errs.ErrKey, 0, 0, "unknown name \""+name+"\"")
	}
	if b.readOnly {
		return errs.New(errs.ErrAssignmentToReadOnly, 0, 0, "\""+name+"\" is read-only")
	}
	b.elem.SetValue(v)
	return nil
}

/*
Step advances the state machine to the current value of global time (read
from the element bound to T):

 1. Global time must have strictly increased since the last step (or this
    must be the first step).
 2. If this is the first step since the machine started or since its last
    transition, the state's elapsed time (G) resets to zero and its entry
    chain runs.
 3. Every rolling statistic referenced anywhere in the machine is updated
    exactly once, regardless of which blocks actually execute.
 4. The state-id element S is kept in sync with the active state.
 5. On the entry step the entry chain runs; on every later step in the
    state, the step chain runs instead. If either requests a transition,
    the active state's exit chain runs (with G still reflecting the time
    spent in the state being left) before the machine moves to the
    destination state, and the newly entered state's entry chain fires on
    the next call to Step.
*/
func (m *StateMachine) Step() error {
	rawTime := m.tElem.Value()
	if rawTime == noTime {
		return errs.New(errs.ErrTime, 0, 0, "global time is uninitialized")
	}
	if m.hasPrevTime && rawTime <= m.prevTime {
		return errs.New(errs.ErrTime, 0, 0, "global time did not strictly increase")
	}
	m.hasPrevTime = true
	m.prevTime = rawTime

	if m.needsStart {
		m.stateStart = rawTime
		m.needsStart = false
	}

	elapsed := rawTime - m.stateStart
	m.gElem.SetValue(elapsed)
	m.sElem.SetValue(float64(m.currentID))

	// currentID only ever comes from chooseInitialState or transition, both
	// of which only ever hand out ids present in byID.
	state, ok := m.byID[m.currentID]
	errorutil.AssertTrue(ok, "current state id is not in the compiled state table")

	for _, r := range m.rolling {
		r.Update()
	}

	if elapsed == 0 {
		if destID := state.entry.execute(); destID != noState {
			return m.transition(destID)
		}
	} else {
		if destID := state.step.execute(); destID != noState {
			return m.transition(destID)
		}
	}

	return nil
}

/*
transition runs the active state's exit chain (which may not itself
request a transition - that is rejected at compile time) and moves the
machine to destID, arming needsStart so the next Step call runs the
destination state's entry chain with elapsed reset to zero.
*/
func (m *StateMachine) transition(destID int) error {
	state := m.byID[m.currentID]
	// compileBlock rejects a transition statement inside an exit label
	// (ErrTransitionInExit), so the compiled exit chain can never itself
	// request one.
	errorutil.AssertTrue(state.exit.execute() == noState, "exit chain requested a transition")

	// compileBlock only ever compiles a transition to a destID resolved
	// from c.stateIDs (ErrTransitionUnknown otherwise), so destID always
	// names a compiled state.
	dest, ok := m.byID[destID]
	errorutil.AssertTrue(ok, "transition destination id is not in the compiled state table")

	m.currentID = dest.id
	m.needsStart = true
	return nil
}
