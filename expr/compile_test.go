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
	"errors"
	"testing"

	"github.com/stefandebruyn/surefire-sub002/errs"
	"github.com/stefandebruyn/surefire-sub002/lang"
)

/*
fakeSymbol is a minimal Symbol for testing the compiler without pulling
in the sv package.
*/
type fakeSymbol struct {
	t lang.PrimitiveType
	v float64
}

func (s *fakeSymbol) Type() lang.PrimitiveType { return s.t }
func (s *fakeSymbol) Value() float64           { return s.v }
func (s *fakeSymbol) SetValue(v float64)       { s.v = v }

func mustCompileExpr(t *testing.T, src string, symbols map[string]Symbol, arithmetic bool) *Assembly {
	t.Helper()
	toks := mustTokenizeExpr(t, src)
	parse, err := Parse(toks)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	asm, err := Compile(parse, symbols, arithmetic)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return asm
}

func TestCompileArithmetic(t *testing.T) {
	symbols := map[string]Symbol{"x": &fakeSymbol{t: lang.F64, v: 4}}
	asm := mustCompileExpr(t, "x * 2 + 1", symbols, true)
	if got := asm.Eval(); got != 9 {
		t.Fatalf("expected 9, got %v", got)
	}
}

func TestCompileLogicalExpression(t *testing.T) {
	symbols := map[string]Symbol{"armed": &fakeSymbol{t: lang.Bool, v: 1}}
	asm := mustCompileExpr(t, "armed and true", symbols, false)
	if got := asm.Eval(); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
}

func TestCompileDoubleInequality(t *testing.T) {
	symbols := map[string]Symbol{"x": &fakeSymbol{t: lang.F64, v: 2}}
	asm := mustCompileExpr(t, "1 < x < 3", symbols, false)
	if got := asm.Eval(); got != 1 {
		t.Fatalf("expected 1 (true), got %v", got)
	}

	symbols["x"].SetValue(5)
	asm2 := mustCompileExpr(t, "1 < x < 3", symbols, false)
	if got := asm2.Eval(); got != 0 {
		t.Fatalf("expected 0 (false) once x=5, got %v", got)
	}
}

func TestCompileRejectsArithmeticInLogicalContext(t *testing.T) {
	toks := mustTokenizeExpr(t, "1 + 2")
	parse, err := Parse(toks)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = Compile(parse, nil, false)
	if !errors.Is(err, errs.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestCompileRejectsUnknownElement(t *testing.T) {
	toks := mustTokenizeExpr(t, "missing + 1")
	parse, err := Parse(toks)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = Compile(parse, map[string]Symbol{}, true)
	if !errors.Is(err, errs.ErrUnknownElement) {
		t.Fatalf("expected ErrUnknownElement, got %v", err)
	}
}

func TestCompileBoolElementInArithmeticContextIsTypeMismatch(t *testing.T) {
	symbols := map[string]Symbol{"armed": &fakeSymbol{t: lang.Bool, v: 1}}
	toks := mustTokenizeExpr(t, "armed + 1")
	parse, err := Parse(toks)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = Compile(parse, symbols, true)
	if !errors.Is(err, errs.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestCompileRollingAverage(t *testing.T) {
	sym := &fakeSymbol{t: lang.F64}
	symbols := map[string]Symbol{"x": sym}
	asm := mustCompileExpr(t, "roll_avg(x, 3)", symbols, true)

	if got := asm.Eval(); got != 0 {
		t.Fatalf("expected 0 before first update, got %v", got)
	}

	vals := []float64{1, 2, 3, 10}
	for _, v := range vals {
		sym.SetValue(v)
		asm.Update()
	}
	// Window size 3: after feeding 1,2,3,10 the buffer holds the last 3
	// samples (2,3,10).
	want := (2.0 + 3.0 + 10.0) / 3.0
	if got := asm.Eval(); got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestCompileRollingMinMaxRange(t *testing.T) {
	sym := &fakeSymbol{t: lang.F64}
	symbols := map[string]Symbol{"x": sym}
	minAsm := mustCompileExpr(t, "roll_min(x, 5)", symbols, true)
	maxAsm := mustCompileExpr(t, "roll_max(x, 5)", symbols, true)
	rangeAsm := mustCompileExpr(t, "roll_range(x, 5)", symbols, true)

	for _, v := range []float64{4, 1, 9, 2} {
		sym.SetValue(v)
		minAsm.Update()
		maxAsm.Update()
		rangeAsm.Update()
	}

	if got := minAsm.Eval(); got != 1 {
		t.Fatalf("expected min 1, got %v", got)
	}
	if got := maxAsm.Eval(); got != 9 {
		t.Fatalf("expected max 9, got %v", got)
	}
	if got := rangeAsm.Eval(); got != 8 {
		t.Fatalf("expected range 8, got %v", got)
	}
}

func TestCompileRejectsBadWindowSize(t *testing.T) {
	symbols := map[string]Symbol{"x": &fakeSymbol{t: lang.F64}}
	toks := mustTokenizeExpr(t, "roll_avg(x, -1)")
	parse, err := Parse(toks)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = Compile(parse, symbols, true)
	if !errors.Is(err, errs.ErrBadWindowSize) {
		t.Fatalf("expected ErrBadWindowSize, got %v", err)
	}
}

func TestCompileRejectsUnknownFunction(t *testing.T) {
	symbols := map[string]Symbol{"x": &fakeSymbol{t: lang.F64}}
	toks := mustTokenizeExpr(t, "bogus_fn(x, 1)")
	parse, err := Parse(toks)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = Compile(parse, symbols, true)
	if !errors.Is(err, errs.ErrUnknownFunction) {
		t.Fatalf("expected ErrUnknownFunction, got %v", err)
	}
}

func TestCompileRejectsWrongArity(t *testing.T) {
	symbols := map[string]Symbol{"x": &fakeSymbol{t: lang.F64}}
	toks := mustTokenizeExpr(t, "roll_avg(x)")
	parse, err := Parse(toks)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = Compile(parse, symbols, true)
	if !errors.Is(err, errs.ErrFunctionArity) {
		t.Fatalf("expected ErrFunctionArity, got %v", err)
	}
}
