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
Package autocode emits small, deterministic, language-agnostic textual
descriptions of compiled state vectors and state machines: a region/
element layout table for a StateVectorAssembly, and a state/transition/
action-count table for a state machine's parse tree. Neither output is
bit-exact to anything - it exists so a config's structure can be read
off the command line without a debugger attached to the process holding
the real assembly.
*/
package autocode

import (
	"fmt"

	"github.com/krotik/common/sortutil"
	"github.com/krotik/common/stringutil"

	"github.com/stefandebruyn/surefire-sub002/sv"
)

/*
fillRow appends one table row's cells to tabData, the flat row-major
buffer PrintGraphicStringTable expects.
*/
func fillRow(tabData []string, cells ...string) []string {
	return append(tabData, cells...)
}

/*
DescribeStateVector renders a region table (name, address, size) and an
element table (region, name, type, address, size, read-only) for asm,
sorted by name within each region for deterministic output.
*/
func DescribeStateVector(asm *sv.Assembly) string {
	var out string

	regionNames := make([]interface{}, len(asm.Regions()))
	regionByName := make(map[string]*sv.Region, len(asm.Regions()))
	for i, r := range asm.Regions() {
		regionNames[i] = r.Name()
		regionByName[r.Name()] = r
	}
	sortutil.InterfaceStrings(regionNames)

	regionData := []string{"Region", "Address", "Size (bytes)"}
	for _, n := range regionNames {
		r := regionByName[n.(string)]
		regionData = fillRow(regionData, r.Name(),
			fmt.Sprintf("%d", r.Addr()), fmt.Sprintf("%d", r.SizeInBytes()))
	}
	out += stringutil.PrintGraphicStringTable(regionData, 3, 1,
		stringutil.SingleDoubleLineTable)

	elemData := []string{"Region", "Element", "Type", "Address", "Size (bytes)", "Read-only"}
	for _, n := range regionNames {
		r := regionByName[n.(string)]

		elemNames := make([]interface{}, len(r.Elements()))
		elemByName := make(map[string]*sv.Element, len(r.Elements()))
		for i, e := range r.Elements() {
			elemNames[i] = e.Name()
			elemByName[e.Name()] = e
		}
		sortutil.InterfaceStrings(elemNames)

		for _, en := range elemNames {
			e := elemByName[en.(string)]
			ro := "no"
			if e.ReadOnly() {
				ro = "yes"
			}
			elemData = fillRow(elemData, r.Name(), e.Name(), e.Type().String(),
				fmt.Sprintf("%d", e.Addr()), fmt.Sprintf("%d", e.SizeInBytes()), ro)
		}
	}
	out += stringutil.PrintGraphicStringTable(elemData, 6, 1,
		stringutil.SingleDoubleLineTable)

	return out
}
