/*
 * Surefire
 *
 * Copyright 2024 Surefire authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package expr

import (
	"sort"

	"github.com/krotik/common/datautil"
)

/*
rollingKind identifies which rolling statistic a RollingStat node
computes.
*/
type rollingKind int

const (
	rollAvg rollingKind = iota
	rollMedian
	rollMin
	rollMax
	rollRange
)

var rollingNames = map[string]rollingKind{
	"roll_avg":    rollAvg,
	"roll_median": rollMedian,
	"roll_min":    rollMin,
	"roll_max":    rollMax,
	"roll_range":  rollRange,
}

/*
maxWindowSize is the compile-time cap on a rolling statistic's window.
*/
const maxWindowSize = 100000

/*
RollingStat is a compiled expression node holding a fixed-size ring
buffer of its operand's past values. Update is called
once per state-machine step (regardless of whether the node's value is
read that step); Eval recomputes the statistic over the buffer's
current contents, returning 0.0 before the first update.
*/
type RollingStat struct {
	kind    rollingKind
	operand Node
	window  int
	buf     *datautil.RingBuffer
	started bool
}

func newRollingStat(kind rollingKind, operand Node, window int) *RollingStat {
	return &RollingStat{kind: kind, operand: operand, window: window, buf: datautil.NewRingBuffer(window)}
}

/*
Update samples the operand and folds it into the rolling window. Called
once per state-machine step by the owning Assembly.
*/
func (r *RollingStat) Update() {
	r.buf.Add(r.operand.Eval())
	r.started = true
}

/*
Eval returns the current value of the rolling statistic, or 0.0 if
Update has never been called.
*/
func (r *RollingStat) Eval() float64 {
	if !r.started {
		return 0
	}

	vals := r.buf.Slice()
	switch r.kind {
	case rollAvg:
		return sumOf(vals) / float64(len(vals))
	case rollMedian:
		return medianOf(vals)
	case rollMin:
		return minOf(vals)
	case rollMax:
		return maxOf(vals)
	case rollRange:
		return maxOf(vals) - minOf(vals)
	}
	return 0
}

func sumOf(vals []interface{}) float64 {
	var s float64
	for _, v := range vals {
		s += v.(float64)
	}
	return s
}

func medianOf(vals []interface{}) float64 {
	sorted := make([]float64, len(vals))
	for i, v := range vals {
		sorted[i] = v.(float64)
	}
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func minOf(vals []interface{}) float64 {
	m := vals[0].(float64)
	for _, v := range vals[1:] {
		if f := v.(float64); f < m {
			m = f
		}
	}
	return m
}

func maxOf(vals []interface{}) float64 {
	m := vals[0].(float64)
	for _, v := range vals[1:] {
		if f := v.(float64); f > m {
			m = f
		}
	}
	return m
}
