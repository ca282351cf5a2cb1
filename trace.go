/*
 * trace.go, part of goMol.
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

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/rmera/gomol/internal/metrics"
)

//Trace is the connectivity information derived from the bonds of an entity:
//its connected components and the direction of every bond.
//
//Directions come from a breadth-first walk of each component, rooted at the
//first atom of the component in hierarchical order. A bond goes from the
//atom closer to the root to the one farther from it; bonds between atoms at
//the same depth go from the atom that comes first in hierarchical order.
//
//A Trace is immutable. It is stamped with the topology generation it was
//computed for.
type Trace struct {
	ent        *Entity
	gen        uint64
	components [][]AtomHandle
	compOf     map[AtomHandle]int
	depth      map[AtomHandle]int
	dirs       map[BondHandle][2]AtomHandle
}

//Generation returns the topology generation the trace was computed for.
func (T *Trace) Generation() uint64 { return T.gen }

//Components returns the connected components of the bond graph. Atoms in each
//component, and the components themselves, are in hierarchical order. Atoms
//without bonds form their own components.
func (T *Trace) Components() [][]AtomHandle {
	ret := make([][]AtomHandle, len(T.components))
	for i, c := range T.components {
		ret[i] = append([]AtomHandle(nil), c...)
	}
	return ret
}

//ComponentOf returns the index of the component that contains atom, or -1.
func (T *Trace) ComponentOf(atom AtomHandle) int {
	if i, ok := T.compOf[atom]; ok {
		return i
	}
	return -1
}

//Depth returns the distance, in bonds, from the root of its component to atom.
func (T *Trace) Depth(atom AtomHandle) (int, bool) {
	d, ok := T.depth[atom]
	return d, ok
}

//Direction returns the atoms of bond b in trace direction. ok is false if b
//was not part of the topology the trace was computed for.
func (T *Trace) Direction(b BondHandle) (from, to AtomHandle, ok bool) {
	d, ok := T.dirs[b]
	return d[0], d[1], ok
}

//traceDirectionality recomputes the trace. It must be called with the write
//lock held.
func (E *Entity) traceDirectionality(mode EditMode) {
	start := time.Now()
	g, order, index := E.bondGraph()
	comps := topo.ConnectedComponents(g)
	for _, c := range comps {
		sort.Slice(c, func(i, j int) bool { return c[i].ID() < c[j].ID() })
	}
	sort.Slice(comps, func(i, j int) bool { return comps[i][0].ID() < comps[j][0].ID() })

	T := &Trace{
		ent:        E,
		gen:        E.topoGen,
		components: make([][]AtomHandle, len(comps)),
		compOf:     make(map[AtomHandle]int, len(order)),
		depth:      make(map[AtomHandle]int, len(order)),
		dirs:       make(map[BondHandle][2]AtomHandle, E.bonds.live),
	}
	depth := make([]int, len(order))
	var bf traverse.BreadthFirst
	for ci, c := range comps {
		bf.Walk(g, c[0], func(n graph.Node, d int) bool {
			depth[n.ID()] = d
			return false
		})
		handles := make([]AtomHandle, len(c))
		for i, n := range c {
			h := AtomHandle{E, order[n.ID()]}
			handles[i] = h
			T.compOf[h] = ci
			T.depth[h] = depth[n.ID()]
		}
		T.components[ci] = handles
	}
	for _, r := range order {
		at, _ := E.atoms.get(r)
		for _, b := range at.bonds {
			bo, _ := E.bonds.get(b)
			if bo.first != r {
				continue
			}
			i1, i2 := index[bo.first], index[bo.second]
			d1, d2 := depth[i1], depth[i2]
			first, second := AtomHandle{E, bo.first}, AtomHandle{E, bo.second}
			if d1 < d2 || (d1 == d2 && i1 < i2) {
				T.dirs[BondHandle{E, b}] = [2]AtomHandle{first, second}
			} else {
				T.dirs[BondHandle{E, b}] = [2]AtomHandle{second, first}
			}
		}
	}
	E.trace = T
	metrics.TraceRecomputations.WithLabelValues(mode.String()).Inc()
	metrics.TraceDuration.Observe(time.Since(start).Seconds())
	E.logger.Debug("trace recomputed", "entity", E.name, "generation", T.gen, "atoms", len(order), "components", len(comps))
}
