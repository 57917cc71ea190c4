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
	"regexp"
	"strings"

	"github.com/stefandebruyn/surefire-sub002/errs"
	"github.com/stefandebruyn/surefire-sub002/token"
)

/*
aliasPattern matches the state-machine dialect's single-token alias
annotation, @ALIAS=NAME, distinct from the state-vector config's own
two-token `@alias NAME` form.
*/
var aliasPattern = regexp.MustCompile(`^@ALIAS=([A-Za-z][A-Za-z0-9_]*)$`)

/*
Parse reads a token sequence and produces a state-machine parse tree.
The top-level driver dispatches on section headers:
[state_vector] and [local] are recognized specially, anything else is
treated as a state section.
*/
func Parse(toks []token.Token) (*ParseTree, error) {
	cur := token.NewCursor(toks)
	cur.Eat()

	parse := &ParseTree{}

	for !cur.Eof() {
		if cur.Type() != token.Section {
			t := cur.Peek()
			return nil, errAt(errs.ErrUnexpectedToken, t, "expected a section header")
		}

		sec := cur.Take()
		name := strings.Trim(sec.Lexeme, "[]")

		switch name {
		case "state_vector":
			if parse.HasSV {
				return nil, errAt(errs.ErrMultipleSVSections, sec, "multiple [state_vector] sections")
			}
			parse.HasSV = true
			if err := parseSVSection(cur, parse); err != nil {
				return nil, err
			}

		case "local":
			if parse.HasLocal {
				return nil, errAt(errs.ErrMultipleLocalSections, sec, "multiple [local] sections")
			}
			parse.HasLocal = true
			if err := parseLocalSection(cur, parse); err != nil {
				return nil, err
			}

		default:
			state := StateParse{NameTok: sec, Name: name}
			if err := parseStateSection(cur, &state); err != nil {
				return nil, err
			}
			parse.States = append(parse.States, state)
		}
	}

	return parse, nil
}

/*
parseSVSection parses the `Type Name [@annotation ...]` rows of a
[state_vector] section, in the same row shape as a state-vector config's
own region body, but naming elements the state machine
expects to already exist in its bound state vector.
*/
func parseSVSection(cur *token.Cursor, parse *ParseTree) error {
	for cur.Type() == token.Identifier {
		typeTok := cur.Take()

		if cur.Type() != token.Identifier {
			t := cur.Peek()
			return errAt(errs.ErrExpectedElementName, t, "expected an element name")
		}
		nameTok := cur.Take()

		el := SVElementParse{TypeTok: typeTok, NameTok: nameTok}

		roSeen, aliasSeen := false, false
		for cur.Type() == token.Annotation {
			ann := cur.Take()

			switch {
			case ann.Lexeme == "@read_only":
				if roSeen {
					return errAt(errs.ErrRedundantAnnotation, ann, "@read_only repeated")
				}
				roSeen = true
				el.ReadOnly = true

			case aliasPattern.MatchString(ann.Lexeme):
				if aliasSeen {
					return errAt(errs.ErrMultipleAliases, ann, "alias repeated")
				}
				aliasSeen = true
				m := aliasPattern.FindStringSubmatch(ann.Lexeme)
				el.Alias = m[1]
				el.HasAlias = true

			case strings.HasPrefix(ann.Lexeme, "@ALIAS"):
				return errAt(errs.ErrBadAlias, ann, "malformed @ALIAS annotation")

			default:
				return errAt(errs.ErrUnknownAnnotation, ann, "unknown annotation \""+ann.Lexeme+"\"")
			}
		}

		parse.SV = append(parse.SV, el)
	}

	if cur.Type() != token.Section && !cur.Eof() {
		t := cur.Peek()
		return errAt(errs.ErrUnexpectedToken, t, "expected an element declaration or section header")
	}
	return nil
}

/*
parseLocalSection parses the `Type Name = ConstantOrExpr [@read_only]`
rows of a [local] section. The initializer's tokens are kept raw for the
compiler to parse and evaluate once local element ordering is known.
*/
func parseLocalSection(cur *token.Cursor, parse *ParseTree) error {
	for cur.Type() == token.Identifier {
		typeTok := cur.Take()

		if cur.Type() != token.Identifier {
			t := cur.Peek()
			return errAt(errs.ErrExpectedElementName, t, "expected an element name")
		}
		nameTok := cur.Take()

		if !(cur.Type() == token.Op && cur.Lexeme() == "=") {
			t := cur.Peek()
			return errAt(errs.ErrExpectedAssign, t, "expected \"=\"")
		}
		cur.Take()

		toks := cur.Tokens()
		start := cur.Index()
		lineEnd := scanTo(toks, start, len(toks), token.Newline)

		initEnd := lineEnd
		readOnly := false
		if initEnd > start && toks[initEnd-1].Kind == token.Annotation {
			ann := toks[initEnd-1]
			if ann.Lexeme != "@read_only" {
				return errAt(errs.ErrUnknownAnnotation, ann, "unknown annotation \""+ann.Lexeme+"\"")
			}
			readOnly = true
			initEnd--
		}

		if initEnd == start {
			t := token.None
			if start < len(toks) {
				t = toks[start]
			}
			return errAt(errs.ErrExpectedInitValue, t, "expected an initial value")
		}

		parse.Local = append(parse.Local, LocalElementParse{
			TypeTok:  typeTok,
			NameTok:  nameTok,
			Init:     toks[start:initEnd],
			ReadOnly: readOnly,
		})

		cur.Seek(lineEnd)
		cur.Eat()
	}

	if cur.Type() != token.Section && !cur.Eof() {
		t := cur.Peek()
		return errAt(errs.ErrUnexpectedToken, t, "expected a local declaration or section header")
	}
	return nil
}

/*
parseStateSection parses the .entry/.step/.exit labels of one state
section, forwarding each label's body to the block parser.
*/
func parseStateSection(cur *token.Cursor, state *StateParse) error {
	for cur.Type() == token.Label {
		lbl := cur.Take()

		// The colon after a label (".step:") belongs to the label, not to
		// the first statement of its body.
		if cur.Type() == token.Colon {
			cur.Take()
		}

		toks := cur.Tokens()
		start := cur.Index()
		end := scanTo(toks, start, len(toks), token.Label, token.Section)

		body, _, err := parseBlockChain(toks, start, end)
		if err != nil {
			return err
		}

		switch lbl.Lexeme {
		case ".entry":
			state.Entry = body
		case ".step":
			state.Step = body
		case ".exit":
			state.Exit = body
		default:
			return errAt(errs.ErrUnexpectedToken, lbl, "unknown label \""+lbl.Lexeme+"\"")
		}

		cur.Seek(end)
	}

	if cur.Type() != token.Section && !cur.Eof() {
		t := cur.Peek()
		return errAt(errs.ErrUnexpectedToken, t, "expected a label or section header")
	}
	return nil
}

/*
errAt builds a positioned Detail error from a token.
*/
func errAt(kind error, t token.Token, msg string) error {
	return errs.New(kind, t.Line, t.Column, msg)
}
