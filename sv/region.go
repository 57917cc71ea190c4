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

	"github.com/stefandebruyn/surefire-sub002/errs"
)

/*
Region is a contiguous, named span of elements inside a state vector's
backing buffer. Its Addr/Size describe the byte span covering every
element the region owns, in declaration order.
*/
type Region struct {
	name     string
	addr     int
	size     int
	buf      []byte
	lock     Lock
	elements []*Element
}

func newRegion(name string, addr int, buf []byte, lock Lock, elements []*Element) *Region {
	size := 0
	for _, e := range elements {
		size += e.SizeInBytes()
	}
	return &Region{name: name, addr: addr, size: size, buf: buf, lock: lock, elements: elements}
}

/*
Name returns the region's declared name.
*/
func (r *Region) Name() string { return r.name }

/*
Addr returns the byte offset of the region's first element.
*/
func (r *Region) Addr() int { return r.addr }

/*
SizeInBytes returns the total size in bytes of every element the region
owns.
*/
func (r *Region) SizeInBytes() int { return r.size }

/*
Elements returns the region's elements in declaration order. The returned
slice must not be mutated by the caller.
*/
func (r *Region) Elements() []*Element { return r.elements }

/*
ReadAll copies the region's bytes into dst, which must be exactly the
region's size.
*/
func (r *Region) ReadAll(dst []byte) error {
	if len(dst) != r.size {
		return errs.New(errs.ErrTypeMismatch, 0, 0,
			"region \""+r.name+"\" is "+strconv.Itoa(r.size)+" bytes, got a "+strconv.Itoa(len(dst))+" byte buffer")
	}
	if r.lock != nil {
		r.lock.Acquire()
		defer r.lock.Release()
	}
	copy(dst, r.buf[r.addr:r.addr+r.size])
	return nil
}

/*
WriteAll overwrites the region's bytes from src, which must be exactly the
region's size.
*/
func (r *Region) WriteAll(src []byte) error {
	if len(src) != r.size {
		return errs.New(errs.ErrTypeMismatch, 0, 0,
			"region \""+r.name+"\" is "+strconv.Itoa(r.size)+" bytes, got a "+strconv.Itoa(len(src))+" byte buffer")
	}
	if r.lock != nil {
		r.lock.Acquire()
		defer r.lock.Release()
	}
	copy(r.buf[r.addr:r.addr+r.size], src)
	return nil
}
