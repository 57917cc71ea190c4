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
	"strings"

	"github.com/stefandebruyn/surefire-sub002/errs"
	"github.com/stefandebruyn/surefire-sub002/token"
)

/*
Parse reads a token sequence and produces a state-vector parse tree.
If whitelist is non-empty, only regions whose name appears
in it are kept; every whitelisted name must be seen or ErrUnknownRegion is
returned.
*/
func Parse(toks []token.Token, whitelist []string) (*ParseTree, error) {
	cur := token.NewCursor(toks)
	cur.Eat()

	want := make(map[string]bool, len(whitelist))
	for _, w := range whitelist {
		want[w] = true
	}
	seen := make(map[string]bool)

	parse := &ParseTree{}

	for !cur.Eof() {
		if cur.Type() != token.Section {
			t := cur.Peek()
			return nil, errAt(errs.ErrUnexpectedToken, t, "expected a section header")
		}

		sec := cur.Take()
		name := strings.Trim(sec.Lexeme, "[]")

		if name == "options" {
			if err := parseOptions(cur, parse); err != nil {
				return nil, err
			}
			continue
		}

		whitelisted := len(want) == 0 || want[name]
		if !whitelisted {
			skipRegionBody(cur)
			continue
		}

		seen[name] = true

		region := RegionParse{NameTok: sec, Name: name}
		if err := parseRegionBody(cur, &region); err != nil {
			return nil, err
		}
		parse.Regions = append(parse.Regions, region)
	}

	for w := range want {
		if !seen[w] {
			return nil, errs.New(errs.ErrUnknownRegion, 0, 0, "region \""+w+"\" was requested but never declared")
		}
	}

	return parse, nil
}

/*
parseOptions consumes the key-only rows of an [options] section.
*/
func parseOptions(cur *token.Cursor, parse *ParseTree) error {
	for cur.Type() == token.Identifier {
		key := cur.Take()
		switch key.Lexeme {
		case "lock":
			parse.Options.Lock = true
		default:
			return errAt(errs.ErrUnknownOption, key, "unknown option \""+key.Lexeme+"\"")
		}
	}
	return nil
}

/*
skipRegionBody scans past a region's rows without producing parse entries,
used when a non-whitelisted region is encountered.
*/
func skipRegionBody(cur *token.Cursor) {
	for cur.Type() != token.Section && !cur.Eof() {
		cur.Take()
	}
}

/*
parseRegionBody parses the element rows of one region until the next
section header or eof.
*/
func parseRegionBody(cur *token.Cursor, region *RegionParse) error {
	for cur.Type() != token.Section && !cur.Eof() {
		if cur.Type() != token.Identifier {
			t := cur.Peek()
			return errAt(errs.ErrExpectedElementType, t, "expected an element type")
		}
		typeTok := cur.Take()

		if cur.Type() != token.Identifier {
			t := cur.Peek()
			return errAt(errs.ErrExpectedElementName, t, "expected an element name")
		}
		nameTok := cur.Take()

		el := ElementParse{TypeTok: typeTok, NameTok: nameTok}

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

			case ann.Lexeme == "@alias":
				if aliasSeen {
					return errAt(errs.ErrMultipleAliases, ann, "@alias repeated")
				}
				if cur.Type() != token.Identifier {
					t := cur.Peek()
					return errAt(errs.ErrBadAlias, t, "expected an identifier after @alias")
				}
				aliasTok := cur.Take()
				el.Alias = aliasTok.Lexeme
				el.HasAlias = true
				aliasSeen = true

			default:
				return errAt(errs.ErrUnknownAnnotation, ann, "unknown annotation \""+ann.Lexeme+"\"")
			}
		}

		region.Elements = append(region.Elements, el)
	}

	return nil
}

/*
errAt builds a positioned Detail error from a token.
*/
func errAt(kind error, t token.Token, msg string) error {
	return errs.New(kind, t.Line, t.Column, msg)
}
