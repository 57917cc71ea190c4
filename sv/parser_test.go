/*
 * Surefire
 *
 * Copyright 2024 Surefire authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package sv

import (
	"errors"
	"testing"

	"github.com/stefandebruyn/surefire-sub002/errs"
	"github.com/stefandebruyn/surefire-sub002/token"
)

func mustParse(t *testing.T, src string, whitelist []string) *ParseTree {
	t.Helper()
	toks, err := token.Tokenize(src)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	parse, err := Parse(toks, whitelist)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return parse
}

func TestParseSimpleRegion(t *testing.T) {
	parse := mustParse(t, "[nav]\nI32 lat\nI32 lon\n", nil)
	if len(parse.Regions) != 1 || parse.Regions[0].Name != "nav" {
		t.Fatalf("unexpected parse: %+v", parse)
	}
	if len(parse.Regions[0].Elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(parse.Regions[0].Elements))
	}
}

func TestParseRejectsRedundantReadOnly(t *testing.T) {
	toks, _ := token.Tokenize("[nav]\nI32 lat @read_only @read_only\n")
	_, err := Parse(toks, nil)
	if !errors.Is(err, errs.ErrRedundantAnnotation) {
		t.Fatalf("expected ErrRedundantAnnotation, got %v", err)
	}
}

func TestParseRejectsMultipleAliases(t *testing.T) {
	toks, _ := token.Tokenize("[nav]\nI32 lat @alias A @alias B\n")
	_, err := Parse(toks, nil)
	if !errors.Is(err, errs.ErrMultipleAliases) {
		t.Fatalf("expected ErrMultipleAliases, got %v", err)
	}
}

func TestParseRejectsUnknownAnnotation(t *testing.T) {
	toks, _ := token.Tokenize("[nav]\nI32 lat @bogus\n")
	_, err := Parse(toks, nil)
	if !errors.Is(err, errs.ErrUnknownAnnotation) {
		t.Fatalf("expected ErrUnknownAnnotation, got %v", err)
	}
}

func TestParseRejectsBadAlias(t *testing.T) {
	toks, _ := token.Tokenize("[nav]\nI32 lat @alias\n")
	_, err := Parse(toks, nil)
	if !errors.Is(err, errs.ErrBadAlias) {
		t.Fatalf("expected ErrBadAlias, got %v", err)
	}
}

func TestParseRejectsUnknownOption(t *testing.T) {
	toks, _ := token.Tokenize("[options]\nbogus\n")
	_, err := Parse(toks, nil)
	if !errors.Is(err, errs.ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
}

func TestParseRejectsUnknownRequestedRegion(t *testing.T) {
	toks, _ := token.Tokenize("[nav]\nI32 lat\n")
	_, err := Parse(toks, []string{"status"})
	if !errors.Is(err, errs.ErrUnknownRegion) {
		t.Fatalf("expected ErrUnknownRegion, got %v", err)
	}
}

func TestParseRejectsNonSectionAtTopLevel(t *testing.T) {
	toks, _ := token.Tokenize("I32 lat\n")
	_, err := Parse(toks, nil)
	if !errors.Is(err, errs.ErrUnexpectedToken) {
		t.Fatalf("expected ErrUnexpectedToken, got %v", err)
	}
}
