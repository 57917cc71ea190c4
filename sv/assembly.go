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

/*
Assembly is the compiled runtime state vector: a single backing buffer
holding every region's elements back to back, plus the lookup tables the
rest of the toolchain (expr, sm) uses to bind names to Elements.
An Assembly is produced once by Compile and is safe for
concurrent use only if it was built with the lock option - callers that
skip the option are expected to own their own serialization, mirroring
the state vector's platform-facing contract.
*/
type Assembly struct {
	buf          []byte
	lock         Lock
	regions      []*Region
	elements     []*Element
	byName       map[string]*Element
	regionByName map[string]*Region
	parse        *ParseTree
}

/*
SizeInBytes returns the size of the assembly's backing buffer.
*/
func (a *Assembly) SizeInBytes() int { return len(a.buf) }

/*
Regions returns every region in declaration order. The returned slice
must not be mutated by the caller.
*/
func (a *Assembly) Regions() []*Region { return a.regions }

/*
Elements returns every element across all regions, in declaration order.
The returned slice must not be mutated by the caller.
*/
func (a *Assembly) Elements() []*Element { return a.elements }

/*
Element looks up an element by its declared name or, if it has one, its
alias. The boolean result is false if name is unknown.
*/
func (a *Assembly) Element(name string) (*Element, bool) {
	e, ok := a.byName[name]
	return e, ok
}

/*
Region looks up a region by name. The boolean result is false if name is
unknown.
*/
func (a *Assembly) Region(name string) (*Region, bool) {
	r, ok := a.regionByName[name]
	return r, ok
}

/*
Lock returns the assembly's shared lock, or nil if it was compiled
without the lock option.
*/
func (a *Assembly) Lock() Lock { return a.lock }
