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
	"github.com/stefandebruyn/surefire-sub002/token"
)

func mustParse(t *testing.T, src string) *ParseTree {
	t.Helper()
	toks, err := token.Tokenize(src)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	parse, err := Parse(toks)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return parse
}

func TestParseSVSection(t *testing.T) {
	parse := mustParse(t, "[state_vector]\nF64 time @ALIAS=T\nbool armed\n[local]\nU32 count = 0\n[standby]\n.step:\nok = true\n")

	if !parse.HasSV || len(parse.SV) != 2 {
		t.Fatalf("unexpected sv section: %+v", parse.SV)
	}
	if parse.SV[0].NameTok.Lexeme != "time" || !parse.SV[0].HasAlias || parse.SV[0].Alias != "T" {
		t.Fatalf("unexpected first sv element: %+v", parse.SV[0])
	}
	if parse.SV[1].NameTok.Lexeme != "armed" {
		t.Fatalf("unexpected second sv element: %+v", parse.SV[1])
	}

	if !parse.HasLocal || len(parse.Local) != 1 || parse.Local[0].NameTok.Lexeme != "count" {
		t.Fatalf("unexpected local section: %+v", parse.Local)
	}

	if len(parse.States) != 1 || parse.States[0].Name != "standby" {
		t.Fatalf("unexpected states: %+v", parse.States)
	}
}

func TestParseRejectsMultipleSVSections(t *testing.T) {
	toks, _ := token.Tokenize("[state_vector]\nF64 t\n[state_vector]\nF64 u\n")
	_, err := Parse(toks)
	if !errors.Is(err, errs.ErrMultipleSVSections) {
		t.Fatalf("expected ErrMultipleSVSections, got %v", err)
	}
}

func TestParseRejectsMultipleLocalSections(t *testing.T) {
	toks, _ := token.Tokenize("[local]\nU32 a = 0\n[local]\nU32 b = 0\n")
	_, err := Parse(toks)
	if !errors.Is(err, errs.ErrMultipleLocalSections) {
		t.Fatalf("expected ErrMultipleLocalSections, got %v", err)
	}
}

func TestParseLocalRejectsMissingInitializer(t *testing.T) {
	toks, _ := token.Tokenize("[local]\nU32 a =\n")
	_, err := Parse(toks)
	if !errors.Is(err, errs.ErrExpectedInitValue) {
		t.Fatalf("expected ErrExpectedInitValue, got %v", err)
	}
}

func TestParseLocalReadOnly(t *testing.T) {
	parse := mustParse(t, "[local]\nU32 a = 1 @read_only\n")
	if !parse.Local[0].ReadOnly {
		t.Fatalf("expected read-only local element")
	}
}

func TestParseRejectsBadAlias(t *testing.T) {
	toks, _ := token.Tokenize("[state_vector]\nF64 t @ALIAS=\n")
	_, err := Parse(toks)
	if !errors.Is(err, errs.ErrBadAlias) {
		t.Fatalf("expected ErrBadAlias, got %v", err)
	}
}

func TestParseStateWithEntryStepExit(t *testing.T) {
	src := "[standby]\n.entry:\nx = 1\n.step:\nif x > 0 {\ny = 2\n}\n.exit:\nx = 0\n[armed]\n.step:\n-> standby\n"
	parse := mustParse(t, src)

	if len(parse.States) != 2 {
		t.Fatalf("expected 2 states, got %d", len(parse.States))
	}
	standby := parse.States[0]
	if standby.Entry == nil || standby.Entry.Assign == nil || standby.Entry.Assign.NameTok.Lexeme != "x" {
		t.Fatalf("unexpected entry block: %+v", standby.Entry)
	}
	if standby.Step == nil || !standby.Step.HasGuard {
		t.Fatalf("unexpected step block: %+v", standby.Step)
	}
	if standby.Exit == nil || standby.Exit.Assign == nil {
		t.Fatalf("unexpected exit block: %+v", standby.Exit)
	}

	armed := parse.States[1]
	if armed.Step == nil || armed.Step.Trans == nil || armed.Step.Trans.DestTok.Lexeme != "standby" {
		t.Fatalf("unexpected armed step block: %+v", armed.Step)
	}
}
