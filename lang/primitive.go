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
Package lang contains the closed enumerations shared by every stage of the
Surefire configuration toolchain: primitive element types and expression
operators, with the metadata each stage needs (byte size, arithmeticity,
precedence).
*/
package lang

/*
PrimitiveType identifies one of the fixed set of scalar types a state-vector
element or expression can carry.
*/
type PrimitiveType int

/*
The closed set of primitive types known to Surefire.
*/
const (
	I8 PrimitiveType = iota
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F32
	F64
	Bool
)

/*
primitiveInfo carries the static metadata for one PrimitiveType.
*/
type primitiveInfo struct {
	name        string
	size        int
	arithmetic  bool
	signed      bool
	floating    bool
}

var primitiveTable = map[PrimitiveType]primitiveInfo{
	I8:   {"I8", 1, true, true, false},
	I16:  {"I16", 2, true, true, false},
	I32:  {"I32", 4, true, true, false},
	I64:  {"I64", 8, true, true, false},
	U8:   {"U8", 1, true, false, false},
	U16:  {"U16", 2, true, false, false},
	U32:  {"U32", 4, true, false, false},
	U64:  {"U64", 8, true, false, false},
	F32:  {"F32", 4, true, true, true},
	F64:  {"F64", 8, true, true, true},
	Bool: {"bool", 1, false, false, false},
}

var primitiveByName map[string]PrimitiveType

func init() {
	primitiveByName = make(map[string]PrimitiveType, len(primitiveTable))
	for t, info := range primitiveTable {
		primitiveByName[info.name] = t
	}
}

/*
String returns the printable name of this type (e.g. "I32", "bool").
*/
func (t PrimitiveType) String() string {
	if info, ok := primitiveTable[t]; ok {
		return info.name
	}
	return "?"
}

/*
Size returns the size in bytes of this type.
*/
func (t PrimitiveType) Size() int {
	return primitiveTable[t].size
}

/*
IsArithmetic returns true if values of this type participate in arithmetic
expressions (every type except Bool).
*/
func (t PrimitiveType) IsArithmetic() bool {
	return primitiveTable[t].arithmetic
}

/*
IsSigned returns true if this type is a signed integer or float type.
*/
func (t PrimitiveType) IsSigned() bool {
	return primitiveTable[t].signed
}

/*
IsFloat returns true if this type is a floating point type.
*/
func (t PrimitiveType) IsFloat() bool {
	return primitiveTable[t].floating
}

/*
LookupPrimitiveType resolves a type name (as it appears in a state-vector
or state-machine config) to its PrimitiveType. The boolean result is false
if the name is not a known primitive type name.
*/
func LookupPrimitiveType(name string) (PrimitiveType, bool) {
	t, ok := primitiveByName[name]
	return t, ok
}

/*
Bounds returns the representable [min, max] range of this type as float64,
used by the saturating cast machinery. Bool has no meaningful bounds and
returns (0, 1).
*/
func (t PrimitiveType) Bounds() (min float64, max float64) {
	switch t {
	case I8:
		return -128, 127
	case I16:
		return -32768, 32767
	case I32:
		return -2147483648, 2147483647
	case I64:
		return -9223372036854775808, 9223372036854775807
	case U8:
		return 0, 255
	case U16:
		return 0, 65535
	case U32:
		return 0, 4294967295
	case U64:
		return 0, 18446744073709551615
	case F32:
		return -3.40282346638528859811704183484516925440e+38, 3.40282346638528859811704183484516925440e+38
	case F64:
		return -1.797693134862315708145274237317043567981e+308, 1.797693134862315708145274237317043567981e+308
	case Bool:
		return 0, 1
	}
	return 0, 0
}
