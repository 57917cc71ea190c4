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
	"math"

	"github.com/stefandebruyn/surefire-sub002/lang"
)

/*
Element owns a mutable typed slot inside a shared byte buffer, optionally
guarded by a shared Lock. Two elements never alias the
same bytes unless they are the same element - the compiler (compile.go)
is the only code that constructs them, walking a bump pointer across the
backing buffer so spans never overlap.

Element satisfies expr.Symbol (Type/Value/SetValue) without importing the
expr package, so expression trees can bind directly to state-vector
elements.
*/
type Element struct {
	name     string
	primType lang.PrimitiveType
	buf      []byte
	offset   int
	lock     Lock // nil if the owning state vector was built without the lock option
	readOnly bool
}

func newElement(name string, pt lang.PrimitiveType, buf []byte, offset int, lock Lock, readOnly bool) *Element {
	return &Element{name: name, primType: pt, buf: buf, offset: offset, lock: lock, readOnly: readOnly}
}

/*
Name returns the element's declared name.
*/
func (e *Element) Name() string { return e.name }

/*
Type returns the element's primitive type.
*/
func (e *Element) Type() lang.PrimitiveType { return e.primType }

/*
Addr returns the element's byte offset into its state vector's backing
buffer.
*/
func (e *Element) Addr() int { return e.offset }

/*
SizeInBytes returns the number of bytes this element occupies.
*/
func (e *Element) SizeInBytes() int { return e.primType.Size() }

/*
ReadOnly reports whether this element was declared @read_only.
*/
func (e *Element) ReadOnly() bool { return e.readOnly }

/*
Value reads the element's current value and returns it saturating-cast to
F64, the common evaluation type of compiled expression trees.
*/
func (e *Element) Value() float64 {
	if e.lock != nil {
		e.lock.Acquire()
		defer e.lock.Release()
	}
	return lang.SaturatingCast(e.primType, lang.F64, e.readRawLocked())
}

/*
SetValue saturating-casts v (assumed to already be the F64 result of a
compiled expression) into this element's native type and stores it.
*/
func (e *Element) SetValue(v float64) {
	if e.lock != nil {
		e.lock.Acquire()
		defer e.lock.Release()
	}
	e.writeRawLocked(lang.SaturatingCast(lang.F64, e.primType, v))
}

/*
readRawLocked decodes this element's bytes into its native value,
returned as a float64 with no casting applied beyond the native
representation.
*/
func (e *Element) readRawLocked() float64 {
	b := e.buf[e.offset : e.offset+e.primType.Size()]
	switch e.primType {
	case lang.I8:
		return float64(int8(b[0]))
	case lang.U8:
		return float64(b[0])
	case lang.Bool:
		if b[0] != 0 {
			return 1
		}
		return 0
	case lang.I16:
		return float64(int16(leUint16(b)))
	case lang.U16:
		return float64(leUint16(b))
	case lang.I32:
		return float64(int32(leUint32(b)))
	case lang.U32:
		return float64(leUint32(b))
	case lang.I64:
		return float64(int64(leUint64(b)))
	case lang.U64:
		return float64(leUint64(b))
	case lang.F32:
		return float64(math.Float32frombits(leUint32(b)))
	case lang.F64:
		return math.Float64frombits(leUint64(b))
	}
	return 0
}

/*
writeRawLocked stores v, already saturating-cast to this element's native
type, into the backing buffer.
*/
func (e *Element) writeRawLocked(v float64) {
	b := e.buf[e.offset : e.offset+e.primType.Size()]
	switch e.primType {
	case lang.I8, lang.U8:
		b[0] = byte(toInt64(v))
	case lang.Bool:
		if v != 0 {
			b[0] = 1
		} else {
			b[0] = 0
		}
	case lang.I16, lang.U16:
		putLeUint16(b, uint16(toInt64(v)))
	case lang.I32, lang.U32:
		putLeUint32(b, uint32(toInt64(v)))
	case lang.I64:
		putLeUint64(b, uint64(toInt64(v)))
	case lang.U64:
		putLeUint64(b, toUint64(v))
	case lang.F32:
		putLeUint32(b, math.Float32bits(float32(v)))
	case lang.F64:
		putLeUint64(b, math.Float64bits(v))
	}
}

// toInt64 and toUint64 convert an already-clamped float64 to its integer
// form. The clamp bounds of the 64-bit types round above MaxInt64/MaxUint64
// when expressed as float64, and a float-to-int conversion out of range is
// not well-defined in Go, so the edge is pinned explicitly.
func toInt64(v float64) int64 {
	if v >= math.MaxInt64 {
		return math.MaxInt64
	}
	if v <= math.MinInt64 {
		return math.MinInt64
	}
	return int64(v)
}

func toUint64(v float64) uint64 {
	if v >= math.MaxUint64 {
		return math.MaxUint64
	}
	if v <= 0 {
		return 0
	}
	return uint64(v)
}

func leUint16(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }
func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
func leUint64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}
func putLeUint16(b []byte, v uint16) { b[0] = byte(v); b[1] = byte(v >> 8) }
func putLeUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
func putLeUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}
}
