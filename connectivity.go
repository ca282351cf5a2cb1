/*
 * connectivity.go, part of goMol.
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
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

//ProvenanceMap maps residues of a destination entity to the residues of a
//source entity they were copied from. Several destination residues can come
//from the same source residue.
type ProvenanceMap map[ResidueHandle]ResidueHandle

//TransferConnectivity obtains a buffered editor for dst and calls its
//TransferConnectivity method.
func TransferConnectivity(dst *Entity, m ProvenanceMap) (bonds, torsions int, err error) {
	err = WithEditor(dst, BufferedEdit, func(ed *Editor) error {
		var err error
		bonds, torsions, err = ed.TransferConnectivity(m)
		return err
	})
	return
}

//TransferConnectivity rebuilds bonds and torsions in the edited entity by
//replaying those found in the source residues of m. Source atoms are matched
//to destination atoms by name, within the mapped residues. Bonds and torsions
//with atoms that can't be matched are dropped.
//
//When a source residue was copied several times, the partner of an atom in a
//different residue is looked for among the copies of the partner's residue
//in the same destination chain, if there is any, and among all its copies
//otherwise. The copy closest in space is used.
//
//It returns the number of bonds and torsions created. If any handle in m is
//invalid, nothing is changed and an InvalidHandle error is returned.
func (ed *Editor) TransferConnectivity(m ProvenanceMap) (int, int, error) {
	const op = "TransferConnectivity"
	if ed.closed {
		return 0, 0, NewError(KindEditorClosed, op, "editor for %s already closed", ed.ent.name)
	}
	for d, s := range m {
		if d.ent != ed.ent || !d.IsValid() {
			return 0, 0, NewError(KindInvalidHandle, op, "destination residue is not valid in %s", ed.ent.name)
		}
		if !s.IsValid() {
			return 0, 0, NewError(KindInvalidHandle, op, "source residue for %s is not valid", d)
		}
	}
	rs := newResolver(ed.ent, m)
	var nb, nt int
	for _, d := range rs.dst {
		s := m[d]
		srcAtoms, err := s.Atoms()
		if err != nil {
			return nb, nt, errDecorate(err, op)
		}
		for _, x := range srcAtoms {
			xd, ok := rs.match(d, x)
			if !ok {
				continue
			}
			xpos, _ := xd.Pos()
			bonds, err := x.Bonds()
			if err != nil {
				return nb, nt, errDecorate(err, op)
			}
			for _, b := range bonds {
				first, second, err := b.Atoms()
				if err != nil || first != x {
					continue
				}
				yd, ok := rs.partner(d, s, xpos, second)
				if !ok {
					continue
				}
				info, _ := b.Info()
				nbond, err := ed.ConnectGeom(xd, yd, info.Length, info.Theta, info.Phi, info.Order)
				if err != nil {
					return nb, nt, errDecorate(err, op)
				}
				if nbond.IsValid() {
					nb++
				}
			}
			tors, err := x.Torsions()
			if err != nil {
				return nb, nt, errDecorate(err, op)
			}
			for _, t := range tors {
				tatoms, err := t.Atoms()
				if err != nil || tatoms[0] != x {
					continue
				}
				var mapped [4]AtomHandle
				mapped[0] = xd
				ok := true
				for i := 1; i < 4 && ok; i++ {
					mapped[i], ok = rs.partner(d, s, xpos, tatoms[i])
				}
				if !ok {
					continue
				}
				name, _ := t.Name()
				nt2, err := ed.AddTorsion(name, mapped[0], mapped[1], mapped[2], mapped[3])
				if err != nil {
					return nb, nt, errDecorate(err, op)
				}
				if nt2.IsValid() {
					nt++
				}
			}
		}
	}
	return nb, nt, nil
}

type resolver struct {
	dst     []ResidueHandle //mapped destination residues in hierarchical order
	copies  map[ResidueHandle][]ResidueHandle
	chainOf map[ResidueHandle]ChainHandle
}

func newResolver(dst *Entity, m ProvenanceMap) *resolver {
	rs := &resolver{
		copies:  make(map[ResidueHandle][]ResidueHandle),
		chainOf: make(map[ResidueHandle]ChainHandle),
	}
	for _, c := range dst.Chains() {
		residues, _ := c.Residues()
		for _, d := range residues {
			s, ok := m[d]
			if !ok {
				continue
			}
			rs.dst = append(rs.dst, d)
			rs.copies[s] = append(rs.copies[s], d)
			rs.chainOf[d] = c
		}
	}
	return rs
}

//match returns the atom of destination residue d with the same name as the
//source atom x.
func (rs *resolver) match(d ResidueHandle, x AtomHandle) (AtomHandle, bool) {
	name, err := x.Name()
	if err != nil {
		return AtomHandle{}, false
	}
	xd, err := d.FindAtom(name)
	if err != nil || !xd.IsValid() {
		return AtomHandle{}, false
	}
	return xd, true
}

//partner returns the destination atom for source atom y, which is bonded
//to (or in a torsion with) an atom of s, copied as d to position from.
func (rs *resolver) partner(d, s ResidueHandle, from r3.Vec, y AtomHandle) (AtomHandle, bool) {
	ys, err := y.Residue()
	if err != nil {
		return AtomHandle{}, false
	}
	if ys == s {
		return rs.match(d, y)
	}
	cands := rs.copies[ys]
	var same []ResidueHandle
	for _, c := range cands {
		if rs.chainOf[c] == rs.chainOf[d] {
			same = append(same, c)
		}
	}
	if len(same) > 0 {
		cands = same
	}
	var best AtomHandle
	bestd := math.Inf(1)
	for _, c := range cands {
		yd, ok := rs.match(c, y)
		if !ok {
			continue
		}
		p, _ := yd.Pos()
		if dd := r3.Norm(r3.Sub(p, from)); dd < bestd {
			best, bestd = yd, dd
		}
	}
	return best, best.IsValid()
}
