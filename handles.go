/*
 * handles.go, part of goMol.
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
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

//Handles are light references to the objects owned by an Entity. They can be
//copied freely and are compared by the identity of the object they point to.
//A handle to an object that has been deleted is invalid, and every method
//that reads through it returns an error of kind InvalidHandle.
//The zero value of every handle is invalid.

func invalid(caller, what string) error {
	return NewError(KindInvalidHandle, caller, "%s handle is not valid", what)
}

/**** Atoms ****/

//AtomHandle points to an atom.
type AtomHandle struct {
	ent *Entity
	r   ref
}

//AtomInfo is a snapshot of the data of an atom.
type AtomInfo struct {
	Name      string
	Element   string
	Pos       r3.Vec
	Occupancy float64
	BFactor   float64
	Het       bool
	AltGroup  string
}

//IsValid returns true if the atom still exists.
func (A AtomHandle) IsValid() bool {
	if A.ent == nil {
		return false
	}
	A.ent.mu.RLock()
	defer A.ent.mu.RUnlock()
	return A.ent.atoms.valid(A.r)
}

//Entity returns the entity the atom belongs (or belonged) to.
func (A AtomHandle) Entity() *Entity { return A.ent }

func (A AtomHandle) read(caller string, f func(*atomRec)) error {
	if A.ent == nil {
		return invalid(caller, "atom")
	}
	A.ent.mu.RLock()
	defer A.ent.mu.RUnlock()
	at, ok := A.ent.atoms.get(A.r)
	if !ok {
		return invalid(caller, "atom")
	}
	f(at)
	return nil
}

//Name returns the name of the atom.
func (A AtomHandle) Name() (name string, err error) {
	err = A.read("AtomHandle.Name", func(at *atomRec) { name = at.name })
	return
}

//Pos returns the current position of the atom.
func (A AtomHandle) Pos() (pos r3.Vec, err error) {
	err = A.read("AtomHandle.Pos", func(at *atomRec) { pos = at.pos })
	return
}

//Info returns a copy of the data of the atom.
func (A AtomHandle) Info() (info AtomInfo, err error) {
	err = A.read("AtomHandle.Info", func(at *atomRec) {
		info = AtomInfo{
			Name:      at.name,
			Element:   at.element,
			Pos:       at.pos,
			Occupancy: at.occupancy,
			BFactor:   at.bfactor,
			Het:       at.het,
			AltGroup:  at.altGroup,
		}
	})
	return
}

//AltPos returns the position of the atom in the alternate location group
//group. It fails with an AltGroup error if the atom has no position for it.
func (A AtomHandle) AltPos(group string) (pos r3.Vec, err error) {
	found := false
	err = A.read("AtomHandle.AltPos", func(at *atomRec) { pos, found = at.altPos[group] })
	if err == nil && !found {
		err = NewError(KindAltGroup, "AtomHandle.AltPos", "atom has no position for group %q", group)
	}
	return
}

//Residue returns the residue that owns the atom.
func (A AtomHandle) Residue() (res ResidueHandle, err error) {
	err = A.read("AtomHandle.Residue", func(at *atomRec) { res = ResidueHandle{A.ent, at.residue} })
	return
}

//Bonds returns the bonds the atom takes part in.
func (A AtomHandle) Bonds() (bonds []BondHandle, err error) {
	err = A.read("AtomHandle.Bonds", func(at *atomRec) {
		bonds = make([]BondHandle, len(at.bonds))
		for i, b := range at.bonds {
			bonds[i] = BondHandle{A.ent, b}
		}
	})
	return
}

//BondPartners returns the atoms bonded to A.
func (A AtomHandle) BondPartners() (partners []AtomHandle, err error) {
	err = A.read("AtomHandle.BondPartners", func(at *atomRec) {
		partners = make([]AtomHandle, 0, len(at.bonds))
		for _, b := range at.bonds {
			bo, _ := A.ent.bonds.get(b)
			other := bo.first
			if other == A.r {
				other = bo.second
			}
			partners = append(partners, AtomHandle{A.ent, other})
		}
	})
	return
}

//Torsions returns the torsions that reference the atom.
func (A AtomHandle) Torsions() (tors []TorsionHandle, err error) {
	err = A.read("AtomHandle.Torsions", func(at *atomRec) {
		tors = make([]TorsionHandle, len(at.torsions))
		for i, t := range at.torsions {
			tors[i] = TorsionHandle{A.ent, t}
		}
	})
	return
}

func (A AtomHandle) String() string {
	info, err := A.Info()
	if err != nil {
		return "invalid atom"
	}
	return fmt.Sprintf("atom %s (%s)", info.Name, info.Element)
}

/**** Residues ****/

//ResidueHandle points to a residue.
type ResidueHandle struct {
	ent *Entity
	r   ref
}

//IsValid returns true if the residue still exists.
func (R ResidueHandle) IsValid() bool {
	if R.ent == nil {
		return false
	}
	R.ent.mu.RLock()
	defer R.ent.mu.RUnlock()
	return R.ent.residues.valid(R.r)
}

//Entity returns the entity the residue belongs (or belonged) to.
func (R ResidueHandle) Entity() *Entity { return R.ent }

func (R ResidueHandle) read(caller string, f func(*residueRec)) error {
	if R.ent == nil {
		return invalid(caller, "residue")
	}
	R.ent.mu.RLock()
	defer R.ent.mu.RUnlock()
	res, ok := R.ent.residues.get(R.r)
	if !ok {
		return invalid(caller, "residue")
	}
	f(res)
	return nil
}

//Name returns the key (i.e. the name, such as "ALA") of the residue.
func (R ResidueHandle) Name() (name string, err error) {
	err = R.read("ResidueHandle.Name", func(res *residueRec) { name = res.key })
	return
}

//Number returns the number of the residue.
func (R ResidueHandle) Number() (num ResNum, err error) {
	err = R.read("ResidueHandle.Number", func(res *residueRec) { num = res.num })
	return
}

//Chain returns the chain that owns the residue.
func (R ResidueHandle) Chain() (ch ChainHandle, err error) {
	err = R.read("ResidueHandle.Chain", func(res *residueRec) { ch = ChainHandle{R.ent, res.chain} })
	return
}

//Index returns the position of the residue in its chain.
func (R ResidueHandle) Index() (idx int, err error) {
	idx = -1
	err = R.read("ResidueHandle.Index", func(res *residueRec) {
		ch, _ := R.ent.chains.get(res.chain)
		idx = indexOf(ch.residues, R.r)
	})
	return
}

//Atoms returns the atoms of the residue, in insertion order.
func (R ResidueHandle) Atoms() (atoms []AtomHandle, err error) {
	err = R.read("ResidueHandle.Atoms", func(res *residueRec) {
		atoms = make([]AtomHandle, len(res.atoms))
		for i, a := range res.atoms {
			atoms[i] = AtomHandle{R.ent, a}
		}
	})
	return
}

//AtomCount returns the number of atoms in the residue.
func (R ResidueHandle) AtomCount() (n int, err error) {
	err = R.read("ResidueHandle.AtomCount", func(res *residueRec) { n = len(res.atoms) })
	return
}

//FindAtom returns the first atom called name in the residue. The returned
//handle is invalid if there is no such atom.
func (R ResidueHandle) FindAtom(name string) (atom AtomHandle, err error) {
	err = R.read("ResidueHandle.FindAtom", func(res *residueRec) {
		for _, a := range res.atoms {
			if at, _ := R.ent.atoms.get(a); at.name == name {
				atom = AtomHandle{R.ent, a}
				return
			}
		}
	})
	return
}

//Prop returns the string property key of the residue, and whether it is set.
func (R ResidueHandle) Prop(key string) (val string, ok bool, err error) {
	err = R.read("ResidueHandle.Prop", func(res *residueRec) { val, ok = res.props[key] })
	return
}

//Props returns a copy of all the string properties of the residue.
func (R ResidueHandle) Props() (p Props, err error) {
	err = R.read("ResidueHandle.Props", func(res *residueRec) { p = res.props.Copy() })
	return
}

//AltGroups returns the names of the alternate location groups of the residue
//and the currently active one.
func (R ResidueHandle) AltGroups() (groups []string, active string, err error) {
	err = R.read("ResidueHandle.AltGroups", func(res *residueRec) {
		groups = append([]string(nil), res.altGroups...)
		active = res.activeAlt
	})
	return
}

func (R ResidueHandle) String() string {
	var s string
	err := R.read("", func(res *residueRec) { s = fmt.Sprintf("residue %s %s", res.key, res.num) })
	if err != nil {
		return "invalid residue"
	}
	return s
}

/**** Chains ****/

//ChainHandle points to a chain.
type ChainHandle struct {
	ent *Entity
	r   ref
}

//IsValid returns true if the chain still exists.
func (C ChainHandle) IsValid() bool {
	if C.ent == nil {
		return false
	}
	C.ent.mu.RLock()
	defer C.ent.mu.RUnlock()
	return C.ent.chains.valid(C.r)
}

//Entity returns the entity the chain belongs (or belonged) to.
func (C ChainHandle) Entity() *Entity { return C.ent }

func (C ChainHandle) read(caller string, f func(*chainRec)) error {
	if C.ent == nil {
		return invalid(caller, "chain")
	}
	C.ent.mu.RLock()
	defer C.ent.mu.RUnlock()
	ch, ok := C.ent.chains.get(C.r)
	if !ok {
		return invalid(caller, "chain")
	}
	f(ch)
	return nil
}

//Name returns the name of the chain.
func (C ChainHandle) Name() (name string, err error) {
	err = C.read("ChainHandle.Name", func(ch *chainRec) { name = ch.name })
	return
}

//Type returns the type of the chain.
func (C ChainHandle) Type() (t ChainType, err error) {
	err = C.read("ChainHandle.Type", func(ch *chainRec) { t = ch.typ })
	return
}

//Description returns the description of the chain.
func (C ChainHandle) Description() (desc string, err error) {
	err = C.read("ChainHandle.Description", func(ch *chainRec) { desc = ch.desc })
	return
}

//Residues returns the residues of the chain, in order.
func (C ChainHandle) Residues() (residues []ResidueHandle, err error) {
	err = C.read("ChainHandle.Residues", func(ch *chainRec) {
		residues = make([]ResidueHandle, len(ch.residues))
		for i, r := range ch.residues {
			residues[i] = ResidueHandle{C.ent, r}
		}
	})
	return
}

//ResidueCount returns the number of residues in the chain.
func (C ChainHandle) ResidueCount() (n int, err error) {
	err = C.read("ChainHandle.ResidueCount", func(ch *chainRec) { n = len(ch.residues) })
	return
}

//AtomCount returns the number of atoms in the chain.
func (C ChainHandle) AtomCount() (n int, err error) {
	err = C.read("ChainHandle.AtomCount", func(ch *chainRec) {
		for _, r := range ch.residues {
			res, _ := C.ent.residues.get(r)
			n += len(res.atoms)
		}
	})
	return
}

//FindResidue returns the first residue with number num. The returned handle
//is invalid if there is no such residue.
func (C ChainHandle) FindResidue(num ResNum) (res ResidueHandle, err error) {
	err = C.read("ChainHandle.FindResidue", func(ch *chainRec) {
		for _, r := range ch.residues {
			if rr, _ := C.ent.residues.get(r); rr.num == num {
				res = ResidueHandle{C.ent, r}
				return
			}
		}
	})
	return
}

//Prop returns the string property key of the chain, and whether it is set.
func (C ChainHandle) Prop(key string) (val string, ok bool, err error) {
	err = C.read("ChainHandle.Prop", func(ch *chainRec) { val, ok = ch.props[key] })
	return
}

//Props returns a copy of all the string properties of the chain.
func (C ChainHandle) Props() (p Props, err error) {
	err = C.read("ChainHandle.Props", func(ch *chainRec) { p = ch.props.Copy() })
	return
}

func (C ChainHandle) String() string {
	name, err := C.Name()
	if err != nil {
		return "invalid chain"
	}
	return "chain " + name
}

/**** Bonds ****/

//BondHandle points to a bond.
type BondHandle struct {
	ent *Entity
	r   ref
}

//BondInfo is a snapshot of the data of a bond.
type BondInfo struct {
	Order  int
	Length float64
	Theta  float64
	Phi    float64
}

//IsValid returns true if the bond still exists.
func (B BondHandle) IsValid() bool {
	if B.ent == nil {
		return false
	}
	B.ent.mu.RLock()
	defer B.ent.mu.RUnlock()
	return B.ent.bonds.valid(B.r)
}

func (B BondHandle) read(caller string, f func(*bondRec)) error {
	if B.ent == nil {
		return invalid(caller, "bond")
	}
	B.ent.mu.RLock()
	defer B.ent.mu.RUnlock()
	bo, ok := B.ent.bonds.get(B.r)
	if !ok {
		return invalid(caller, "bond")
	}
	f(bo)
	return nil
}

//Atoms returns the two atoms joined by the bond, in the order they were given
//when the bond was created.
func (B BondHandle) Atoms() (first, second AtomHandle, err error) {
	err = B.read("BondHandle.Atoms", func(bo *bondRec) {
		first = AtomHandle{B.ent, bo.first}
		second = AtomHandle{B.ent, bo.second}
	})
	return
}

//Other returns the atom at the other end of the bond from at.
func (B BondHandle) Other(at AtomHandle) (other AtomHandle, err error) {
	found := false
	err = B.read("BondHandle.Other", func(bo *bondRec) {
		switch at.r {
		case bo.first:
			other, found = AtomHandle{B.ent, bo.second}, true
		case bo.second:
			other, found = AtomHandle{B.ent, bo.first}, true
		}
	})
	if err == nil && (!found || at.ent != B.ent) {
		err = NewError(KindInvalidHandle, "BondHandle.Other", "atom is not part of the bond")
	}
	return
}

//Order returns the bond order.
func (B BondHandle) Order() (order int, err error) {
	err = B.read("BondHandle.Order", func(bo *bondRec) { order = bo.order })
	return
}

//Info returns the order and the ideal geometry of the bond.
func (B BondHandle) Info() (info BondInfo, err error) {
	err = B.read("BondHandle.Info", func(bo *bondRec) {
		info = BondInfo{Order: bo.order, Length: bo.length, Theta: bo.theta, Phi: bo.phi}
	})
	return
}

/**** Torsions ****/

//TorsionHandle points to a torsion.
type TorsionHandle struct {
	ent *Entity
	r   ref
}

//IsValid returns true if the torsion still exists.
func (T TorsionHandle) IsValid() bool {
	if T.ent == nil {
		return false
	}
	T.ent.mu.RLock()
	defer T.ent.mu.RUnlock()
	return T.ent.torsions.valid(T.r)
}

func (T TorsionHandle) read(caller string, f func(*torsionRec)) error {
	if T.ent == nil {
		return invalid(caller, "torsion")
	}
	T.ent.mu.RLock()
	defer T.ent.mu.RUnlock()
	to, ok := T.ent.torsions.get(T.r)
	if !ok {
		return invalid(caller, "torsion")
	}
	f(to)
	return nil
}

//Name returns the name of the torsion.
func (T TorsionHandle) Name() (name string, err error) {
	err = T.read("TorsionHandle.Name", func(to *torsionRec) { name = to.name })
	return
}

//Atoms returns the 4 atoms of the torsion.
func (T TorsionHandle) Atoms() (atoms [4]AtomHandle, err error) {
	err = T.read("TorsionHandle.Atoms", func(to *torsionRec) {
		for i, a := range to.atoms {
			atoms[i] = AtomHandle{T.ent, a}
		}
	})
	return
}

func indexOf(refs []ref, r ref) int {
	for i, v := range refs {
		if v == r {
			return i
		}
	}
	return -1
}
