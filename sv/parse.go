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
Package sv implements the state-vector configuration parser and compiler
and the runtime data model they assemble: typed Elements, Regions, and
the Assembly that owns them.
*/
package sv

import "github.com/stefandebruyn/surefire-sub002/token"

/*
ElementParse is one parsed element row inside a region: its declared type
and name tokens plus any annotations that were attached to it.
*/
type ElementParse struct {
	TypeTok  token.Token
	NameTok  token.Token
	ReadOnly bool
	Alias    string // "" if no @alias annotation was present
	HasAlias bool
}

/*
RegionParse is one parsed section of a state-vector config: its header
token, plain name, and the ordered element rows it declares.
*/
type RegionParse struct {
	NameTok  token.Token
	Name     string
	Elements []ElementParse
}

/*
Options holds the recognized keys from an optional [options] section.
*/
type Options struct {
	Lock bool
}

/*
ParseTree is the parse tree produced by the state-vector parser: the
options block plus the ordered list of regions.
*/
type ParseTree struct {
	Options Options
	Regions []RegionParse
}
