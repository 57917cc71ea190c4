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
	"strconv"

	"github.com/krotik/common/errorutil"

	"github.com/stefandebruyn/surefire-sub002/errs"
	"github.com/stefandebruyn/surefire-sub002/lang"
)

/*
Compile lowers a ParseTree into a runtime Assembly. Malformed input is
rejected before anything is allocated; then the single backing buffer is
allocated and walked with a bump pointer, producing elements and regions
that alias disjoint, contiguous spans.
*/
func Compile(parse *ParseTree) (*Assembly, error) {
	if parse == nil {
		return nil, errs.New(errs.ErrNullConfig, 0, 0, "state vector parse is nil")
	}

	if err := rejectDuplicateRegions(parse); err != nil {
		return nil, err
	}
	if err := rejectDuplicateElements(parse); err != nil {
		return nil, err
	}
	if err := rejectEmptyRegions(parse); err != nil {
		return nil, err
	}
	if err := rejectUnknownTypes(parse); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range parse.Regions {
		for _, el := range r.Elements {
			pt, _ := lang.LookupPrimitiveType(el.TypeTok.Lexeme)
			total += pt.Size()
		}
	}

	buf := make([]byte, total)

	var lock Lock
	if parse.Options.Lock {
		lock = NewLock()
	}

	asm := &Assembly{
		buf:          buf,
		lock:         lock,
		byName:       make(map[string]*Element),
		regionByName: make(map[string]*Region),
		parse:        parse,
	}

	bump := 0
	for _, r := range parse.Regions {
		regionAddr := bump
		var elements []*Element

		for _, el := range r.Elements {
			pt, _ := lang.LookupPrimitiveType(el.TypeTok.Lexeme)
			handle := newElement(el.NameTok.Lexeme, pt, buf, bump, lock, el.ReadOnly)
			bump += pt.Size()

			elements = append(elements, handle)
			asm.elements = append(asm.elements, handle)
			asm.byName[handle.Name()] = handle
			if el.HasAlias {
				asm.byName[el.Alias] = handle
			}
		}

		region := newRegion(r.Name, regionAddr, buf, lock, elements)
		asm.regions = append(asm.regions, region)
		asm.regionByName[region.Name()] = region
	}

	validateLayout(asm)

	return asm, nil
}

func rejectDuplicateRegions(parse *ParseTree) error {
	seen := make(map[string]RegionParse)
	for _, r := range parse.Regions {
		if prior, ok := seen[r.Name]; ok {
			return errAt(errs.ErrDuplicateRegion, r.NameTok,
				"region \""+r.Name+"\" already declared at line "+strconv.Itoa(prior.NameTok.Line))
		}
		seen[r.Name] = r
	}
	return nil
}

func rejectDuplicateElements(parse *ParseTree) error {
	seen := make(map[string]bool)
	first := make(map[string]int)
	for _, r := range parse.Regions {
		for _, el := range r.Elements {
			name := el.NameTok.Lexeme
			if seen[name] {
				return errAt(errs.ErrDuplicateElement, el.NameTok,
					"element \""+name+"\" already declared at line "+strconv.Itoa(first[name]))
			}
			seen[name] = true
			first[name] = el.NameTok.Line
			if el.HasAlias {
				if seen[el.Alias] {
					return errAt(errs.ErrDuplicateElement, el.NameTok,
						"alias \""+el.Alias+"\" collides with an earlier name")
				}
				seen[el.Alias] = true
				first[el.Alias] = el.NameTok.Line
			}
		}
	}
	return nil
}

func rejectEmptyRegions(parse *ParseTree) error {
	for _, r := range parse.Regions {
		if len(r.Elements) == 0 {
			return errAt(errs.ErrEmptyRegion, r.NameTok, "region \""+r.Name+"\" has no elements")
		}
	}
	return nil
}

func rejectUnknownTypes(parse *ParseTree) error {
	for _, r := range parse.Regions {
		for _, el := range r.Elements {
			if _, ok := lang.LookupPrimitiveType(el.TypeTok.Lexeme); !ok {
				return errAt(errs.ErrUnknownType, el.TypeTok,
					"unknown element type \""+el.TypeTok.Lexeme+"\"")
			}
		}
	}
	return nil
}

/*
validateLayout re-derives the bump pointer from the assembled regions and
elements and confirms it lands exactly on each region's end at that
region's last element. This guards against a construction-order bug in
Compile itself, not user input, so a violation panics via
errorutil.AssertTrue.
*/
func validateLayout(asm *Assembly) {
	bump := 0
	for _, r := range asm.regions {
		errorutil.AssertTrue(r.Addr() == bump,
			"region \""+r.Name()+"\" does not begin where the prior region ended")
		for _, el := range r.Elements() {
			errorutil.AssertTrue(el != nil, "nil element handle in region \""+r.Name()+"\"")
			errorutil.AssertTrue(el.Addr() == bump,
				"element \""+el.Name()+"\" does not begin where the prior element ended")
			bump += el.SizeInBytes()
		}
		errorutil.AssertTrue(bump == r.Addr()+r.SizeInBytes(),
			"region \""+r.Name()+"\" size does not match its elements")
	}
	errorutil.AssertTrue(bump == len(asm.buf),
		"state vector buffer size does not match its regions")
}

