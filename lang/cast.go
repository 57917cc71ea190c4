/*
 * Surefire
 *
 * Copyright 2024 Surefire authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package lang

import "math"

/*
SaturatingCast performs a total numeric conversion:
integer destinations clamp out-of-range values and infinities to the
destination's representable bounds and map NaN to zero. An F32
destination maps NaN to zero and turns a value beyond F32's range into
an F32 infinity of the same sign. An F64 destination passes the value
through unchanged, except that NaN from an F32 source maps to zero.
Any->Bool maps zero/NaN to false and everything else to true. This conversion can never
fault: it is the bridge every mixed-type expression subtree uses to reach
its common F64 evaluation type, and the one every state-machine
assignment uses to write a compiled F64 result into a differently-typed
element.

v is the source value already expressed as a float64 (the caller is
responsible for having read it out of its native representation).
*/
func SaturatingCast(from PrimitiveType, to PrimitiveType, v float64) float64 {

	if to == Bool {
		if v == 0 || math.IsNaN(v) {
			return 0
		}
		return 1
	}

	if to == F64 {
		if from == F32 && math.IsNaN(v) {
			return 0
		}
		return v
	}

	if to == F32 {
		if math.IsNaN(v) {
			return 0
		}
		lo, hi := F32.Bounds()
		if math.IsInf(v, 1) || v > hi {
			return float64(float32(math.Inf(1)))
		}
		if math.IsInf(v, -1) || v < lo {
			return float64(float32(math.Inf(-1)))
		}
		return float64(float32(v))
	}

	// Integer destination.
	lo, hi := to.Bounds()
	if math.IsNaN(v) {
		return 0
	}
	if math.IsInf(v, 1) || v > hi {
		return hi
	}
	if math.IsInf(v, -1) || v < lo {
		return lo
	}
	return math.Trunc(v)
}
