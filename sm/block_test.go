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

func TestParseIfElseColonForm(t *testing.T) {
	parse := mustParse(t, "[standby]\n.step:\nif x > 0: y = 2\nelse: y = 3\n")

	blk := parse.States[0].Step
	if blk == nil || !blk.HasGuard {
		t.Fatalf("unexpected block: %+v", blk)
	}
	if blk.If == nil || blk.If.Assign == nil || blk.If.Assign.NameTok.Lexeme != "y" {
		t.Fatalf("unexpected if branch: %+v", blk.If)
	}
	if blk.Else == nil || blk.Else.Assign == nil {
		t.Fatalf("unexpected else branch: %+v", blk.Else)
	}
}

func TestParseIfBraceForm(t *testing.T) {
	parse := mustParse(t, "[standby]\n.step:\nif x > 0 {\ny = 2\n}\n")

	blk := parse.States[0].Step
	if blk == nil || !blk.HasGuard || blk.If == nil || blk.If.Assign == nil {
		t.Fatalf("unexpected block: %+v", blk)
	}
	if blk.Else != nil {
		t.Fatalf("expected no else branch, got %+v", blk.Else)
	}
}

func TestParseMultipleStatementsChain(t *testing.T) {
	parse := mustParse(t, "[standby]\n.step:\nx = 1\ny = 2\n-> armed\n[armed]\n.step:\n-> standby\n")

	blk := parse.States[0].Step
	if blk == nil || blk.Assign == nil || blk.Assign.NameTok.Lexeme != "x" {
		t.Fatalf("unexpected first statement: %+v", blk)
	}
	if blk.Next == nil || blk.Next.Assign == nil || blk.Next.Assign.NameTok.Lexeme != "y" {
		t.Fatalf("unexpected second statement: %+v", blk.Next)
	}
	if blk.Next.Next == nil || blk.Next.Next.Trans == nil || blk.Next.Next.Trans.DestTok.Lexeme != "armed" {
		t.Fatalf("unexpected third statement: %+v", blk.Next.Next)
	}
}

func TestParseRejectsUnbalancedBrace(t *testing.T) {
	toks, _ := token.Tokenize("[standby]\n.step:\nif x > 0 {\ny = 2\n")
	_, err := Parse(toks)
	if !errors.Is(err, errs.ErrUnbalancedBrace) {
		t.Fatalf("expected ErrUnbalancedBrace, got %v", err)
	}
}

func TestParseRejectsEmptyElse(t *testing.T) {
	toks, _ := token.Tokenize("[standby]\n.step:\nif x > 0 {\ny = 2\n}\nelse\n")
	_, err := Parse(toks)
	if !errors.Is(err, errs.ErrEmptyElse) {
		t.Fatalf("expected ErrEmptyElse, got %v", err)
	}
}

func TestParseActionRejectsMissingAssign(t *testing.T) {
	toks, _ := token.Tokenize("[standby]\n.step:\nx y\n")
	_, err := Parse(toks)
	if !errors.Is(err, errs.ErrExpectedAssign) {
		t.Fatalf("expected ErrExpectedAssign, got %v", err)
	}
}

func TestParseActionRejectsMissingDestState(t *testing.T) {
	toks, _ := token.Tokenize("[standby]\n.step:\n->\n")
	_, err := Parse(toks)
	if !errors.Is(err, errs.ErrExpectedDestState) {
		t.Fatalf("expected ErrExpectedDestState, got %v", err)
	}
}

func TestParseActionRejectsJunkAfterTransition(t *testing.T) {
	toks, _ := token.Tokenize("[standby]\n.step:\n-> armed extra\n")
	_, err := Parse(toks)
	if !errors.Is(err, errs.ErrJunkAfterTransition) {
		t.Fatalf("expected ErrJunkAfterTransition, got %v", err)
	}
}

func TestParseActionRejectsJunkStatement(t *testing.T) {
	toks, _ := token.Tokenize("[standby]\n.step:\n123\n")
	_, err := Parse(toks)
	if !errors.Is(err, errs.ErrExpectedActionOrTransition) {
		t.Fatalf("expected ErrExpectedActionOrTransition, got %v", err)
	}
}

func TestParseAssertAndStopStatements(t *testing.T) {
	parse := mustParse(t, "[standby]\n.step:\n@assert x > 0\n@stop\n")

	blk := parse.States[0].Step
	if blk == nil || !blk.HasAssert {
		t.Fatalf("unexpected assert block: %+v", blk)
	}
	if blk.Next == nil || !blk.Next.Stop {
		t.Fatalf("unexpected stop block: %+v", blk.Next)
	}
}
