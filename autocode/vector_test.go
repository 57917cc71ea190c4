/*
 * Surefire
 *
 * Copyright 2024 Surefire authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package autocode

import (
	"strings"
	"testing"

	"github.com/stefandebruyn/surefire-sub002/sv"
	"github.com/stefandebruyn/surefire-sub002/token"
)

func mustCompileVector(t *testing.T, src string) *sv.Assembly {
	t.Helper()
	toks, err := token.Tokenize(src)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	parse, err := sv.Parse(toks, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	asm, err := sv.Compile(parse)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return asm
}

func TestDescribeStateVectorListsRegionsAndElements(t *testing.T) {
	asm := mustCompileVector(t, "[Foo]\nI32 foo\nF64 bar @read_only\n[Bar]\nF32 qux\n")

	out := DescribeStateVector(asm)
	for _, want := range []string{"Foo", "Bar", "foo", "bar", "qux", "yes"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}
