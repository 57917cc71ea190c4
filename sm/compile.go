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
	"strconv"

	"github.com/krotik/common/errorutil"

	"github.com/stefandebruyn/surefire-sub002/errs"
	"github.com/stefandebruyn/surefire-sub002/expr"
	"github.com/stefandebruyn/surefire-sub002/lang"
	"github.com/stefandebruyn/surefire-sub002/sv"
	"github.com/stefandebruyn/surefire-sub002/token"
)

/*
Dialect selects which bare-statement forms the block compiler accepts.
The regular state-machine dialect rejects @assert and @stop; the
state-script dialect (a sibling package) allows them. Parameterizing on
this flag, rather than forking the block parser, keeps one grammar and
one compiler shared by both tools.
*/
type Dialect struct {
	AllowAssertions bool
}

/*
Config carries the caller-supplied compile choices: which state to start
in, and whether to discard introspection data once compilation succeeds.
*/
type Config struct {
	InitialState string
	Rake         bool
	Dialect      Dialect
}

var reservedNames = map[string]bool{"T": true, "G": true, "S": true}

/*
binding is one entry of the merged element symbol table: the concrete
element a name resolves to, plus whether assignments to it are
forbidden.
*/
type binding struct {
	elem     *sv.Element
	readOnly bool
}

func (b *binding) Type() lang.PrimitiveType { return b.elem.Type() }
func (b *binding) Value() float64           { return b.elem.Value() }
func (b *binding) SetValue(v float64)       { b.elem.SetValue(v) }

/*
compiler threads the state shared across the compile steps: the merged
symbol table, the unified name namespace (for NameDuplication
detection), the state-id table, and every rolling
statistic encountered while compiling guard/action expressions.
*/
type compiler struct {
	parse     *ParseTree
	vector    *sv.Assembly
	local     *sv.Assembly
	dialect   Dialect
	table     map[string]*binding
	namespace map[string]token.Token
	stateIDs  map[string]int
	rolling   []*expr.RollingStat
}

/*
Compile lowers a state-machine parse tree into a runnable StateMachine.
vector is the state vector this machine binds to; it must already be
compiled (sv.Compile).
*/
func Compile(parse *ParseTree, vector *sv.Assembly, cfg Config) (*StateMachine, error) {
	if parse == nil {
		return nil, errs.New(errs.ErrNullConfig, 0, 0, "state machine parse is nil")
	}
	if vector == nil {
		return nil, errs.New(errs.ErrNullConfig, 0, 0, "state vector is nil")
	}

	c := &compiler{
		parse:     parse,
		vector:    vector,
		dialect:   cfg.Dialect,
		namespace: make(map[string]token.Token),
		stateIDs:  make(map[string]int),
	}

	if err := c.validateSVSection(); err != nil {
		return nil, err
	}

	tb, gb, sb, err := c.resolveReservedBindings()
	if err != nil {
		return nil, err
	}

	localParse := c.buildLocalParse(tb, gb, sb)
	local, err := sv.Compile(localParse)
	if err != nil {
		return nil, err
	}
	c.local = local

	if err := c.initializeLocals(); err != nil {
		return nil, err
	}

	if err := c.buildSymbolTable(); err != nil {
		return nil, err
	}

	states, err := c.compileStates()
	if err != nil {
		return nil, err
	}

	initID, err := c.chooseInitialState(cfg.InitialState, states)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]*State, len(states))
	for _, s := range states {
		byID[s.id] = s
	}

	// resolveReservedBindings having already succeeded guarantees T/G/S are
	// in the merged table; a miss here means buildSymbolTable or
	// resolveReservedBindings silently dropped one, not a user input error.
	_, tOK := c.table["T"]
	_, gOK := c.table["G"]
	_, sOK := c.table["S"]
	errorutil.AssertTrue(tOK && gOK && sOK, "reserved T/G/S bindings missing from the compiled symbol table")

	sm := &StateMachine{
		vector:     vector,
		local:      local,
		states:     states,
		byID:       byID,
		nameToID:   c.stateIDs,
		tElem:      c.table["T"].elem,
		gElem:      c.table["G"].elem,
		sElem:      c.table["S"].elem,
		bindings:   c.table,
		rolling:    c.rolling,
		currentID:  initID,
		needsStart: true,
	}

	if !cfg.Rake {
		sm.parse = parse
	}

	return sm, nil
}

/*
validateSVSection checks the [state_vector] section: every listed element
must exist in the bound state vector with a matching declared type, and
no name (or alias) may be listed twice.
*/
func (c *compiler) validateSVSection() error {
	for _, el := range c.parse.SV {
		name := el.NameTok.Lexeme

		if prior, dup := c.namespace[name]; dup {
			return errAt(errs.ErrNameDuplication, el.NameTok, name+" already declared at line "+strconv.Itoa(prior.Line))
		}
		c.namespace[name] = el.NameTok

		pt, ok := lang.LookupPrimitiveType(el.TypeTok.Lexeme)
		if !ok {
			return errAt(errs.ErrUnknownType, el.TypeTok, "unknown element type \""+el.TypeTok.Lexeme+"\"")
		}

		vecElem, ok := c.vector.Element(name)
		if !ok {
			return errAt(errs.ErrSVElementUnknown, el.NameTok, "state vector has no element named \""+name+"\"")
		}
		if vecElem.Type() != pt {
			return errAt(errs.ErrTypeMismatchInSV, el.NameTok, "element \""+name+"\" has a different type in the state vector")
		}

		if el.HasAlias {
			if prior, dup := c.namespace[el.Alias]; dup {
				return errAt(errs.ErrNameDuplication, el.NameTok, el.Alias+" already declared at line "+strconv.Itoa(prior.Line))
			}
			c.namespace[el.Alias] = el.NameTok
		}
	}
	return nil
}

/*
reservedBinding records where one of the reserved T/G/S names resolves
from: an existing state-vector element bound by alias, or a
user-declared [local] row.
*/
type reservedBinding struct {
	source string // "sv" or "local"
}

/*
resolveReservedBindings resolves the reserved T/G/S names. All three
must be bound, each by a state-vector alias or a [local] declaration.
An unbound T (global time), G (state-start time), or S (state id)
fails the compile with its own error.
*/
func (c *compiler) resolveReservedBindings() (t, g, s reservedBinding, err error) {
	// find reports every occurrence of name across the SV and local
	// sections (an SV element only counts if it is bound to name by
	// @alias, since an unaliased SV element keeps its own name). A name
	// bound in more than one place is a redeclare of a reserved name.
	find := func(name string) (reservedBinding, token.Token, error) {
		var matches []token.Token
		var binding reservedBinding
		for _, el := range c.parse.SV {
			if el.HasAlias && el.Alias == name {
				matches = append(matches, el.NameTok)
				binding = reservedBinding{source: "sv"}
			}
		}
		for _, el := range c.parse.Local {
			if el.NameTok.Lexeme == name {
				matches = append(matches, el.NameTok)
				binding = reservedBinding{source: "local"}
			}
		}
		if len(matches) > 1 {
			return reservedBinding{}, matches[1], errAt(errs.ErrReservedName, matches[1],
				"\""+name+"\" is already bound and cannot be redeclared")
		}
		if len(matches) == 0 {
			return reservedBinding{}, token.Token{}, nil
		}
		return binding, matches[0], nil
	}

	t, _, err = find("T")
	if err != nil {
		return t, g, s, err
	}
	if t.source == "" {
		return t, g, s, errs.New(errs.ErrNoGlobalTime, 0, 0, "no element is bound to \"T\" (global time)")
	}

	g, _, err = find("G")
	if err != nil {
		return t, g, s, err
	}
	if g.source == "" {
		return t, g, s, errs.New(errs.ErrNoStateTime, 0, 0, "no element is bound to \"G\" (state time)")
	}

	s, _, err = find("S")
	if err != nil {
		return t, g, s, err
	}
	if s.source == "" {
		return t, g, s, errs.New(errs.ErrNoStateId, 0, 0, "no element is bound to \"S\" (state id)")
	}

	return t, g, s, nil
}

/*
buildLocalParse synthesizes the local state-vector parse: it prepends
canonical T/G/S elements (U64, U64, U32) for whichever of those three
the user declared in the [local] section, ahead of the user's own
rows.
*/
func (c *compiler) buildLocalParse(t, g, s reservedBinding) *sv.ParseTree {
	region := sv.RegionParse{Name: "LOCAL"}

	type reserved struct {
		name string
		pt   lang.PrimitiveType
		want bool
	}
	for _, r := range []reserved{
		{"T", lang.U64, t.source == "local"},
		{"G", lang.U64, g.source == "local"},
		{"S", lang.U32, s.source == "local"},
	} {
		if !r.want {
			continue
		}
		region.Elements = append(region.Elements, sv.ElementParse{
			TypeTok: token.Token{Kind: token.Identifier, Lexeme: r.pt.String()},
			NameTok: token.Token{Kind: token.Identifier, Lexeme: r.name},
		})
	}

	for _, el := range c.parse.Local {
		if reservedNames[el.NameTok.Lexeme] {
			continue
		}
		region.Elements = append(region.Elements, sv.ElementParse{
			TypeTok:  el.TypeTok,
			NameTok:  el.NameTok,
			ReadOnly: el.ReadOnly,
		})
	}

	if len(region.Elements) == 0 {
		return &sv.ParseTree{}
	}
	return &sv.ParseTree{Regions: []sv.RegionParse{region}}
}

/*
initializeLocals evaluates local initializers in order: each
user-declared local element's initializer is compiled and evaluated against every local
element declared earlier in the list, and the result is written into the
element. A forward reference to a not-yet-initialized local is rejected.
*/
func (c *compiler) initializeLocals() error {
	fullLocalNames := make(map[string]bool)
	for _, el := range c.parse.Local {
		if !reservedNames[el.NameTok.Lexeme] {
			fullLocalNames[el.NameTok.Lexeme] = true
		}
	}

	// A local initializer only ever sees earlier locals (and the
	// already-bound T/G/S); the state vector this machine binds to isn't
	// a compile-time constant, so an initializer that names one of its
	// elements directly is rejected rather than silently treated as
	// "unknown identifier."
	svNames := make(map[string]bool)
	for _, el := range c.parse.SV {
		if !reservedNames[el.NameTok.Lexeme] {
			svNames[el.NameTok.Lexeme] = true
		}
		if el.HasAlias && !reservedNames[el.Alias] {
			svNames[el.Alias] = true
		}
	}

	available := make(map[string]expr.Symbol)
	for name := range reservedNames {
		if e, ok := c.local.Element(name); ok {
			available[name] = e
		}
	}

	for _, el := range c.parse.Local {
		name := el.NameTok.Lexeme
		if reservedNames[name] {
			continue
		}

		for _, tok := range el.Init {
			if tok.Kind != token.Identifier {
				continue
			}
			if svNames[tok.Lexeme] {
				return errAt(errs.ErrLocalSVCrossRef, tok,
					"local initializer cannot reference state vector element \""+tok.Lexeme+"\"")
			}
			if fullLocalNames[tok.Lexeme] {
				if _, ok := available[tok.Lexeme]; !ok {
					return errAt(errs.ErrUseBeforeInit, tok, "local element \""+tok.Lexeme+"\" used before it was initialized")
				}
			}
		}

		initParse, err := expr.Parse(el.Init)
		if err != nil {
			return err
		}
		initAsm, err := expr.Compile(initParse, available, true)
		if err != nil {
			return err
		}

		elem, _ := c.local.Element(name)
		elem.SetValue(initAsm.Eval())
		available[name] = elem
	}

	return nil
}

/*
buildSymbolTable merges the bound
state-vector elements (under their alias, if any) with the compiled
local elements into one name->binding table, and extends the unified
namespace used to detect duplicate declarations across SV/local/state.
*/
func (c *compiler) buildSymbolTable() error {
	c.table = make(map[string]*binding)

	for _, el := range c.parse.SV {
		name := el.NameTok.Lexeme
		vecElem, _ := c.vector.Element(name)
		b := &binding{elem: vecElem, readOnly: el.ReadOnly || vecElem.ReadOnly()}

		c.table[name] = b
		if el.HasAlias {
			c.table[el.Alias] = b
		}
	}

	for _, el := range c.parse.Local {
		name := el.NameTok.Lexeme
		if reservedNames[name] {
			continue
		}
		if prior, dup := c.namespace[name]; dup {
			return errAt(errs.ErrNameDuplication, el.NameTok, name+" already declared at line "+strconv.Itoa(prior.Line))
		}
		c.namespace[name] = el.NameTok

		localElem, _ := c.local.Element(name)
		c.table[name] = &binding{elem: localElem, readOnly: el.ReadOnly || localElem.ReadOnly()}
	}

	for name := range reservedNames {
		if _, ok := c.table[name]; ok {
			continue
		}
		if e, ok := c.local.Element(name); ok {
			c.table[name] = &binding{elem: e}
		}
	}

	return nil
}

/*
compileStates assigns every state a contiguous id starting at 1 in
source order, reserved names are
rejected as state names, and each state's entry/step/exit labels are
compiled to block chains.
*/
func (c *compiler) compileStates() ([]*State, error) {
	states := make([]*State, 0, len(c.parse.States))

	for i, sp := range c.parse.States {
		if reservedNames[sp.Name] {
			return nil, errAt(errs.ErrReservedStateName, sp.NameTok, "\""+sp.Name+"\" is a reserved name")
		}
		if prior, dup := c.namespace[sp.Name]; dup {
			return nil, errAt(errs.ErrNameDuplication, sp.NameTok, sp.Name+" already declared at line "+strconv.Itoa(prior.Line))
		}
		c.namespace[sp.Name] = sp.NameTok
		c.stateIDs[sp.Name] = i + 1
	}

	for i, sp := range c.parse.States {
		entry, err := c.compileBlock(sp.Entry, false)
		if err != nil {
			return nil, err
		}
		step, err := c.compileBlock(sp.Step, false)
		if err != nil {
			return nil, err
		}
		exit, err := c.compileBlock(sp.Exit, true)
		if err != nil {
			return nil, err
		}

		states = append(states, &State{
			id:    i + 1,
			name:  sp.Name,
			entry: entry,
			step:  step,
			exit:  exit,
		})
	}

	return states, nil
}

/*
compileBlock recursively lowers one BlockParse chain into a runtime block
chain. isExit marks a block as belonging to an exit label, where
transitions are illegal.
*/
func (c *compiler) compileBlock(bp *BlockParse, isExit bool) (*block, error) {
	if bp == nil {
		return nil, nil
	}

	blk := &block{transTo: noState}

	if bp.HasGuard {
		guardParse, err := expr.Parse(bp.Guard)
		if err != nil {
			return nil, err
		}
		guardAsm, err := expr.Compile(guardParse, exprSymbols(c.table), false)
		if err != nil {
			return nil, err
		}
		blk.guard = guardAsm
		c.collectRolling(guardAsm)

		ifB, err := c.compileBlock(bp.If, isExit)
		if err != nil {
			return nil, err
		}
		blk.ifB = ifB

		if bp.Else != nil {
			elseB, err := c.compileBlock(bp.Else, isExit)
			if err != nil {
				return nil, err
			}
			blk.elseB = elseB
		}
	}

	if bp.HasAssert {
		if !c.dialect.AllowAssertions {
			return nil, errAt(errs.ErrIllegalAssertion, bp.AssertTok, "@assert is not allowed in a state machine")
		}
		assertParse, err := expr.Parse(bp.Assert)
		if err != nil {
			return nil, err
		}
		assertAsm, err := expr.Compile(assertParse, exprSymbols(c.table), false)
		if err != nil {
			return nil, err
		}
		blk.assert = assertAsm
		blk.assertLine = bp.AssertTok.Line
		blk.assertCol = bp.AssertTok.Column
		c.collectRolling(assertAsm)
	}
	if bp.Stop {
		if !c.dialect.AllowAssertions {
			return nil, errAt(errs.ErrIllegalStop, bp.StopTok, "@stop is not allowed in a state machine")
		}
		blk.stop = true
	}

	if bp.Assign != nil {
		name := bp.Assign.NameTok.Lexeme
		b, ok := c.table[name]
		if !ok {
			return nil, errAt(errs.ErrSVElementUnknown, bp.Assign.NameTok, "unknown element \""+name+"\"")
		}
		if b.readOnly {
			return nil, errAt(errs.ErrAssignmentToReadOnly, bp.Assign.NameTok, "assignment to read-only element \""+name+"\"")
		}

		rhsParse, err := expr.Parse(bp.Assign.Rhs)
		if err != nil {
			return nil, err
		}
		rhsAsm, err := expr.Compile(rhsParse, exprSymbols(c.table), true)
		if err != nil {
			return nil, err
		}
		c.collectRolling(rhsAsm)

		blk.assign = &assignment{elem: b.elem, rhs: rhsAsm}
	}

	if bp.Trans != nil {
		if isExit {
			return nil, errAt(errs.ErrTransitionInExit, bp.Trans.Tok, "transition is not allowed in an exit label")
		}
		destID, ok := c.stateIDs[bp.Trans.DestTok.Lexeme]
		if !ok {
			return nil, errAt(errs.ErrTransitionUnknown, bp.Trans.DestTok, "unknown destination state \""+bp.Trans.DestTok.Lexeme+"\"")
		}
		blk.transTo = destID
	}

	next, err := c.compileBlock(bp.Next, isExit)
	if err != nil {
		return nil, err
	}
	blk.next = next

	return blk, nil
}

/*
collectRolling records every rolling-statistics node an expression
compile produced, so the runtime can update all of them once per step
regardless of which blocks actually execute that step.
*/
func (c *compiler) collectRolling(asm *expr.Assembly) {
	c.rolling = append(c.rolling, asm.Rolling...)
}

/*
exprSymbols adapts the binding table to the map shape expr.Compile
expects.
*/
func exprSymbols(table map[string]*binding) map[string]expr.Symbol {
	out := make(map[string]expr.Symbol, len(table))
	for name, b := range table {
		out[name] = b
	}
	return out
}

/*
chooseInitialState picks the caller-named initial state, or the first
declared state when no name is given.
*/
func (c *compiler) chooseInitialState(name string, states []*State) (int, error) {
	if name == "" {
		if len(states) == 0 {
			return 0, errs.New(errs.ErrEmpty, 0, 0, "state machine declares no states")
		}
		return states[0].id, nil
	}
	id, ok := c.stateIDs[name]
	if !ok {
		return 0, errs.New(errs.ErrInitStateUnknown, 0, 0, "unknown initial state \""+name+"\"")
	}
	return id, nil
}
