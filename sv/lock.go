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
	"sync/atomic"

	"github.com/krotik/common/errorutil"
)

/*
Lock is the abstract two-method lock every element and region of a locked
state vector shares. The platform abstraction layer that
backs this interface in a deployed system (threads, sockets, clocks,
analog I/O) is out of scope for the core toolchain; Surefire ships a
simple in-process spinlock so the runtime data model is usable standalone.
The contract is that an implementation must never fail to acquire or
release - callers are not expected to handle an error from either method.
*/
type Lock interface {
	Acquire()
	Release()
}

/*
spinlock is a trivial compare-and-swap spinlock satisfying Lock.
*/
type spinlock struct {
	state int32
}

/*
NewLock returns a new, unlocked Lock.
*/
func NewLock() Lock {
	return &spinlock{}
}

/*
Acquire busy-waits until the lock is free and then takes it.
*/
func (l *spinlock) Acquire() {
	for !atomic.CompareAndSwapInt32(&l.state, 0, 1) {
		// spin
	}
}

/*
Release frees the lock. Releasing a lock that isn't held is a caller bug,
not a runtime condition a caller should handle, so it panics rather than
returning an error.
*/
func (l *spinlock) Release() {
	errorutil.AssertTrue(atomic.SwapInt32(&l.state, 0) == 1, "Release called on a lock that is not held")
}
