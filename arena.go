/*
 * arena.go, part of goMol.
 *
 *
 * Copyright 2024 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package mol

//ref points to a slot in an arena. A ref whose gen doesn't match the
//generation of the slot points to something that doesn't exist anymore.
type ref struct {
	idx int32
	gen uint32
}

type slot[T any] struct {
	gen  uint32
	live bool
	val  T
}

//arena stores the records of one kind of object of an entity. Freed slots
//are reused, with an increased generation.
type arena[T any] struct {
	slots []slot[T]
	free  []int32
	live  int
}

func (A *arena[T]) alloc(v T) ref {
	A.live++
	if n := len(A.free); n > 0 {
		i := A.free[n-1]
		A.free = A.free[:n-1]
		s := &A.slots[i]
		s.live = true
		s.val = v
		return ref{idx: i, gen: s.gen}
	}
	A.slots = append(A.slots, slot[T]{gen: 1, live: true, val: v})
	return ref{idx: int32(len(A.slots) - 1), gen: 1}
}

func (A *arena[T]) get(r ref) (*T, bool) {
	if r.idx < 0 || int(r.idx) >= len(A.slots) {
		return nil, false
	}
	s := &A.slots[r.idx]
	if !s.live || s.gen != r.gen {
		return nil, false
	}
	return &s.val, true
}

func (A *arena[T]) valid(r ref) bool {
	_, ok := A.get(r)
	return ok
}

//release frees the slot pointed to by r. It does nothing if r is not valid.
func (A *arena[T]) release(r ref) {
	if !A.valid(r) {
		return
	}
	s := &A.slots[r.idx]
	var zero T
	s.val = zero
	s.live = false
	s.gen++
	A.free = append(A.free, r.idx)
	A.live--
}
