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
	"errors"
	"testing"

	"github.com/stefandebruyn/surefire-sub002/errs"
	"github.com/stefandebruyn/surefire-sub002/sv"
	"github.com/stefandebruyn/surefire-sub002/token"
)

func mustCompileSV(t *testing.T, src string) *sv.Assembly {
	t.Helper()
	toks, err := token.Tokenize(src)
	if err != nil {
		t.Fatalf("sv tokenize: %v", err)
	}
	parse, err := sv.Parse(toks, nil)
	if err != nil {
		t.Fatalf("sv parse: %v", err)
	}
	asm, err := sv.Compile(parse)
	if err != nil {
		t.Fatalf("sv compile: %v", err)
	}
	return asm
}

func compileSM(t *testing.T, vec *sv.Assembly, smSrc string, cfg Config) (*StateMachine, error) {
	t.Helper()
	toks, err := token.Tokenize(smSrc)
	if err != nil {
		t.Fatalf("sm tokenize: %v", err)
	}
	parse, err := Parse(toks)
	if err != nil {
		t.Fatalf("sm parse: %v", err)
	}
	return Compile(parse, vec, cfg)
}

func TestCompileRequiresGlobalTime(t *testing.T) {
	_, err := compileSM(t,
		mustCompileSV(t, "[nav]\nF64 time\nbool armed\n"),
		"[state_vector]\nbool armed\n[standby]\n.step:\narmed = true\n",
		Config{})
	if !errors.Is(err, errs.ErrNoGlobalTime) {
		t.Fatalf("expected ErrNoGlobalTime, got %v", err)
	}
}

func TestCompileRejectsRedeclaredReservedName(t *testing.T) {
	_, err := compileSM(t,
		mustCompileSV(t, "[nav]\nF64 time\nU32 g\n"),
		"[state_vector]\nF64 time @ALIAS=T\nU32 g @ALIAS=G\n[local]\nU32 G = 0\nbool armed = false\n[standby]\n.step:\narmed = true\n",
		Config{})
	if !errors.Is(err, errs.ErrReservedName) {
		t.Fatalf("expected ErrReservedName, got %v", err)
	}
}

func TestCompileRejectsLocalInitializerReferencingSVElement(t *testing.T) {
	_, err := compileSM(t,
		mustCompileSV(t, "[nav]\nF64 time\nU32 mode\n"),
		"[state_vector]\nF64 time @ALIAS=T\nU32 mode\n[local]\nU64 G = 0\nU32 S = 0\nU32 count = mode\n[standby]\n.step:\n-> standby\n",
		Config{})
	if !errors.Is(err, errs.ErrLocalSVCrossRef) {
		t.Fatalf("expected ErrLocalSVCrossRef, got %v", err)
	}
}

func TestCompileRequiresStateTimeAndId(t *testing.T) {
	_, err := compileSM(t,
		mustCompileSV(t, "[nav]\nF64 time\nbool armed\n"),
		"[state_vector]\nF64 time @ALIAS=T\nbool armed\n[standby]\n.step:\narmed = true\n",
		Config{})
	if !errors.Is(err, errs.ErrNoStateTime) {
		t.Fatalf("expected ErrNoStateTime, got %v", err)
	}

	_, err = compileSM(t,
		mustCompileSV(t, "[nav]\nF64 time\nbool armed\n"),
		"[state_vector]\nF64 time @ALIAS=T\nbool armed\n[local]\nU64 G = 0\n[standby]\n.step:\narmed = true\n",
		Config{})
	if !errors.Is(err, errs.ErrNoStateId) {
		t.Fatalf("expected ErrNoStateId, got %v", err)
	}
}

func TestCompileBindsStateTimeAndId(t *testing.T) {
	machine, err := compileSM(t,
		mustCompileSV(t, "[nav]\nF64 time\nbool armed\n"),
		"[state_vector]\nF64 time @ALIAS=T\nbool armed\n[local]\nU64 G = 0\nU32 S = 0\n[standby]\n.step:\narmed = true\n",
		Config{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if machine.gElem == nil || machine.sElem == nil {
		t.Fatal("expected G and S elements to be bound")
	}
}

func TestCompileRejectsSVElementUnknown(t *testing.T) {
	_, err := compileSM(t,
		mustCompileSV(t, "[nav]\nF64 time\n"),
		"[state_vector]\nF64 time @ALIAS=T\nbool armed\n[standby]\n.step:\n-> standby\n",
		Config{})
	if !errors.Is(err, errs.ErrSVElementUnknown) {
		t.Fatalf("expected ErrSVElementUnknown, got %v", err)
	}
}

func TestCompileRejectsSVTypeMismatch(t *testing.T) {
	_, err := compileSM(t,
		mustCompileSV(t, "[nav]\nF64 time\nU32 armed\n"),
		"[state_vector]\nF64 time @ALIAS=T\nbool armed\n[standby]\n.step:\n-> standby\n",
		Config{})
	if !errors.Is(err, errs.ErrTypeMismatchInSV) {
		t.Fatalf("expected ErrTypeMismatchInSV, got %v", err)
	}
}

func TestCompileRejectsReservedStateName(t *testing.T) {
	_, err := compileSM(t,
		mustCompileSV(t, "[nav]\nF64 time\n"),
		"[state_vector]\nF64 time @ALIAS=T\n[local]\nU64 G = 0\nU32 S = 0\n[T]\n.step:\n-> T\n",
		Config{})
	if !errors.Is(err, errs.ErrReservedStateName) {
		t.Fatalf("expected ErrReservedStateName, got %v", err)
	}
}

func TestCompileRejectsUseBeforeInit(t *testing.T) {
	_, err := compileSM(t,
		mustCompileSV(t, "[nav]\nF64 time\n"),
		"[state_vector]\nF64 time @ALIAS=T\n[local]\nU64 G = 0\nU32 S = 0\nU32 a = b\nU32 b = 1\n[standby]\n.step:\n-> standby\n",
		Config{})
	if !errors.Is(err, errs.ErrUseBeforeInit) {
		t.Fatalf("expected ErrUseBeforeInit, got %v", err)
	}
}

func TestCompileRejectsAssignmentToReadOnly(t *testing.T) {
	_, err := compileSM(t,
		mustCompileSV(t, "[nav]\nF64 time\nU32 mode @read_only\n"),
		"[state_vector]\nF64 time @ALIAS=T\nU32 mode\n[local]\nU64 G = 0\nU32 S = 0\n[standby]\n.step:\nmode = 1\n",
		Config{})
	if !errors.Is(err, errs.ErrAssignmentToReadOnly) {
		t.Fatalf("expected ErrAssignmentToReadOnly, got %v", err)
	}
}

func TestCompileRejectsTransitionInExit(t *testing.T) {
	_, err := compileSM(t,
		mustCompileSV(t, "[nav]\nF64 time\n"),
		"[state_vector]\nF64 time @ALIAS=T\n[local]\nU64 G = 0\nU32 S = 0\n[standby]\n.exit:\n-> standby\n",
		Config{})
	if !errors.Is(err, errs.ErrTransitionInExit) {
		t.Fatalf("expected ErrTransitionInExit, got %v", err)
	}
}

func TestCompileRejectsUnknownInitialState(t *testing.T) {
	_, err := compileSM(t,
		mustCompileSV(t, "[nav]\nF64 time\n"),
		"[state_vector]\nF64 time @ALIAS=T\n[local]\nU64 G = 0\nU32 S = 0\n[standby]\n.step:\n-> standby\n",
		Config{InitialState: "nowhere"})
	if !errors.Is(err, errs.ErrInitStateUnknown) {
		t.Fatalf("expected ErrInitStateUnknown, got %v", err)
	}
}

func TestCompileRejectsAssertOutsideScriptDialect(t *testing.T) {
	_, err := compileSM(t,
		mustCompileSV(t, "[nav]\nF64 time\nbool armed\n"),
		"[state_vector]\nF64 time @ALIAS=T\nbool armed\n[local]\nU64 G = 0\nU32 S = 0\n[standby]\n.step:\n@assert armed\n",
		Config{})
	if !errors.Is(err, errs.ErrIllegalAssertion) {
		t.Fatalf("expected ErrIllegalAssertion, got %v", err)
	}
}

func TestCompileAllowsAssertUnderScriptDialect(t *testing.T) {
	_, err := compileSM(t,
		mustCompileSV(t, "[nav]\nF64 time\nbool armed\n"),
		"[state_vector]\nF64 time @ALIAS=T\nbool armed\n[local]\nU64 G = 0\nU32 S = 0\n[standby]\n.step:\n@assert armed\n",
		Config{Dialect: Dialect{AllowAssertions: true}})
	if err != nil {
		t.Fatalf("expected @assert to be legal under the script dialect, got %v", err)
	}
}
