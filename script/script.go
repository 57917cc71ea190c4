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
Package script implements the state-script test dialect behind the
"sm test" command: a state-script file drives an already-compiled state machine through a
sequence of global-time advances, checking @assert expressions after
each one, and a Report summarizes the result as a pass/fail table.

The grammar a script body parses with is sm.ParseScript - the same
assignment/@assert/@stop chain a state's label uses - so this package
owns only the file-level shape (one flat statement chain, no section or
label wrapper) and the result reporting on top of sm.ScriptBlock.Run.
*/
package script

import (
	"fmt"

	"github.com/krotik/common/stringutil"

	"github.com/stefandebruyn/surefire-sub002/sm"
	"github.com/stefandebruyn/surefire-sub002/token"
)

/*
Compile tokenizes and parses src, then lowers it against m's own symbol
table via sm.CompileScript.
*/
func Compile(m *sm.StateMachine, src string) (*sm.ScriptBlock, error) {
	toks, err := token.Tokenize(src)
	if err != nil {
		return nil, err
	}
	bp, err := sm.ParseScript(toks)
	if err != nil {
		return nil, err
	}
	return m.CompileScript(bp)
}

/*
Result is the outcome of running a compiled script to completion: every
assertion it encountered, whether a @stop statement ended it early, and
any runtime error StateMachine.Step returned along the way.
*/
type Result struct {
	Asserts []sm.Assertion
	Stopped bool
	Err     error
}

/*
Passed reports whether every assertion in the result passed and no step
error occurred.
*/
func (r Result) Passed() bool {
	if r.Err != nil {
		return false
	}
	for _, a := range r.Asserts {
		if !a.Pass {
			return false
		}
	}
	return true
}

/*
Run compiles and executes src against m, returning the full Result.
*/
func Run(m *sm.StateMachine, src string) (Result, error) {
	sb, err := Compile(m, src)
	if err != nil {
		return Result{}, err
	}
	asserts, stopped, stepErr := sb.Run()
	return Result{Asserts: asserts, Stopped: stopped, Err: stepErr}, nil
}

/*
Report renders r as a pass/fail table, so "sm test" has a readable
console report rather than a raw boolean.
*/
func (r Result) Report() string {
	data := []string{"#", "Line", "Col", "Result"}
	for i, a := range r.Asserts {
		res := "PASS"
		if !a.Pass {
			res = "FAIL"
		}
		data = append(data, fmt.Sprintf("%d", i+1), fmt.Sprintf("%d", a.Line), fmt.Sprintf("%d", a.Col), res)
	}

	out := stringutil.PrintGraphicStringTable(data, 4, 1, stringutil.SingleDoubleLineTable)

	if r.Stopped {
		out += "script halted by @stop\n"
	}
	if r.Err != nil {
		out += fmt.Sprintf("script runtime error: %v\n", r.Err)
	}
	if r.Passed() {
		out += "PASS\n"
	} else {
		out += "FAIL\n"
	}
	return out
}
