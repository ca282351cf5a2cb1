/*
 * bonds.go, part of goMol.
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

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/spatial/r3"
)

//bondGraph returns the bond graph of the entity. Node IDs are the positions
//of the atoms in hierarchical order. Needs at least the read lock.
func (E *Entity) bondGraph() (g *simple.UndirectedGraph, order []ref, index map[ref]int64) {
	order = E.atomOrder()
	index = make(map[ref]int64, len(order))
	g = simple.NewUndirectedGraph()
	for i, r := range order {
		index[r] = int64(i)
		g.AddNode(simple.Node(i))
	}
	for _, r := range order {
		at, _ := E.atoms.get(r)
		for _, b := range at.bonds {
			bo, _ := E.bonds.get(b)
			if bo.first != r {
				continue
			}
			g.SetEdge(simple.Edge{F: simple.Node(index[bo.first]), T: simple.Node(index[bo.second])})
		}
	}
	return g, order, index
}

//ShortestPath returns the atoms in the shortest bond path from a to b,
//both included, or nil if a and b are not connected.
func (E *Entity) ShortestPath(a, b AtomHandle) ([]AtomHandle, error) {
	if a.ent != E || b.ent != E {
		return nil, NewError(KindInvalidHandle, "ShortestPath", "atoms don't belong to entity %s", E.name)
	}
	E.mu.RLock()
	defer E.mu.RUnlock()
	if !E.atoms.valid(a.r) || !E.atoms.valid(b.r) {
		return nil, invalid("ShortestPath", "atom")
	}
	g, order, index := E.bondGraph()
	pt := path.DijkstraFrom(simple.Node(index[a.r]), g)
	nodes, _ := pt.To(index[b.r])
	if len(nodes) == 0 {
		return nil, nil
	}
	ret := make([]AtomHandle, len(nodes))
	for i, n := range nodes {
		ret[i] = AtomHandle{E, order[n.ID()]}
	}
	return ret, nil
}

type candidate struct {
	a, b ref
	dist float64
}

//AssignBonds bonds the atoms of the entity based on a simple distance
//criterion, similar to that described in DOI:10.1186/1758-2946-3-33. Existing
//bonds are kept. Elements that can only have a limited number of bonds lose
//their longest new bonds until they are within the limit. It returns the
//number of bonds created. If some atom has an element without a known
//covalent radius, nothing is changed and an OutOfRange error is returned.
//
//It is quadratic in the number of atoms, so it is not meant for whole
//macromolecules.
func (ed *Editor) AssignBonds() (int, error) {
	created := 0
	err := ed.do("AssignBonds", func() error {
		E := ed.ent
		order := E.atomOrder()
		radii := make([]float64, len(order))
		for i, r := range order {
			at, _ := E.atoms.get(r)
			cov, ok := CovalentRadius(at.element)
			if !ok {
				return NewError(KindOutOfRange, "", "no covalent radius for element %q of atom %s", at.element, at.name)
			}
			radii[i] = cov
		}
		var cands []candidate
		for i := 0; i < len(order); i++ {
			at1, _ := E.atoms.get(order[i])
			for j := i + 1; j < len(order); j++ {
				at2, _ := E.atoms.get(order[j])
				d := r3.Norm(r3.Sub(at2.pos, at1.pos))
				if d < radii[i]+radii[j]+bondtol && d > tooclose && !E.bonded(order[i], order[j]) {
					cands = append(cands, candidate{order[i], order[j], d})
				}
			}
		}
		//Now we check that no atom gets too many bonds, dropping
		//the longest candidates first.
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })
		for _, c := range cands {
			if !E.underMaxBonds(c.a) || !E.underMaxBonds(c.b) {
				continue
			}
			if _, rej := E.connect(c.a, c.b, bondRec{order: 1, length: c.dist}); rej != nil {
				continue
			}
			created++
		}
		if created > 0 {
			ed.topologyChanged()
		}
		return nil
	})
	return created, err
}

//underMaxBonds returns true if atom a can take one more bond.
func (E *Entity) underMaxBonds(a ref) bool {
	at, _ := E.atoms.get(a)
	maxb := symbolMaxBonds[normSymbol(at.element)]
	if maxb == 0 {
		return true
	}
	return len(at.bonds) < maxb
}
