/*
 * editor.go, part of goMol.
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

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/rmera/gomol/internal/metrics"
	v3 "github.com/rmera/gomol/v3"
)

//EditMode decides when an editor recomputes the trace of its entity.
type EditMode int

const (
	//UnbufferedEdit recomputes the trace after every operation that changes
	//the topology, so the trace is always current.
	UnbufferedEdit EditMode = iota
	//BufferedEdit only marks the trace as dirty. The trace is recomputed
	//by UpdateTrace, or once, when the editor is closed.
	BufferedEdit
)

func (m EditMode) String() string {
	if m == BufferedEdit {
		return "buffered"
	}
	return "unbuffered"
}

//Editor is the only way to modify an Entity. Only one editor can be active
//for a given entity at any time. An editor must be closed when it is not
//needed anymore, usually with a defer right after obtaining it.
//An Editor must not be used from several goroutines at the same time.
type Editor struct {
	ent       *Entity
	mode      EditMode
	closed    bool
	rejection error
}

//Edit returns an editor for the entity, blocking until any other active
//editor is closed.
func (E *Entity) Edit(mode EditMode) *Editor {
	E.editMu.Lock()
	E.logger.Debug("editor acquired", "entity", E.name, "mode", mode.String())
	return &Editor{ent: E, mode: mode}
}

//TryEdit returns an editor for the entity, or an EditorActive error if there
//is already an active editor.
func (E *Entity) TryEdit(mode EditMode) (*Editor, error) {
	if !E.editMu.TryLock() {
		return nil, NewError(KindEditorActive, "TryEdit", "entity %s is being edited", E.name)
	}
	E.logger.Debug("editor acquired", "entity", E.name, "mode", mode.String())
	return &Editor{ent: E, mode: mode}, nil
}

//WithEditor obtains an editor for ent, passes it to fn and closes it when fn
//returns, or panics. It returns the error returned by fn.
func WithEditor(ent *Entity, mode EditMode, fn func(*Editor) error) error {
	ed := ent.Edit(mode)
	defer ed.Close()
	return fn(ed)
}

//Close releases the editor, recomputing the trace first if it is dirty.
//Closing an editor more than once does nothing.
func (ed *Editor) Close() {
	if ed.closed {
		return
	}
	ed.closed = true
	ed.ent.mu.Lock()
	if ed.ent.traceDirty() {
		ed.ent.traceDirectionality(ed.mode)
	}
	ed.ent.mu.Unlock()
	ed.ent.logger.Debug("editor released", "entity", ed.ent.name, "mode", ed.mode.String())
	ed.ent.editMu.Unlock()
}

//Mode returns the edit mode of the editor.
func (ed *Editor) Mode() EditMode { return ed.mode }

//Entity returns the entity being edited.
func (ed *Editor) Entity() *Entity { return ed.ent }

//LastRejection returns the reason for which the last Connect or AddTorsion
//call returned an invalid handle, or nil.
func (ed *Editor) LastRejection() error { return ed.rejection }

//do runs f with the write lock held. Errors are decorated with op.
func (ed *Editor) do(op string, f func() error) error {
	if ed.closed {
		return NewError(KindEditorClosed, op, "editor for %s already closed", ed.ent.name)
	}
	ed.ent.mu.Lock()
	defer ed.ent.mu.Unlock()
	if err := f(); err != nil {
		return errDecorate(err, op)
	}
	metrics.EditOperations.WithLabelValues(op).Inc()
	return nil
}

//topologyChanged marks the trace dirty and, for unbuffered editors,
//recomputes it. The write lock must be held.
func (ed *Editor) topologyChanged() {
	ed.ent.markDirty()
	if ed.mode == UnbufferedEdit {
		ed.ent.traceDirectionality(ed.mode)
	}
}

func (ed *Editor) chain(h ChainHandle) (*chainRec, error) {
	if h.ent != ed.ent {
		return nil, invalid("", "chain")
	}
	ch, ok := ed.ent.chains.get(h.r)
	if !ok {
		return nil, invalid("", "chain")
	}
	return ch, nil
}

func (ed *Editor) residue(h ResidueHandle) (*residueRec, error) {
	if h.ent != ed.ent {
		return nil, invalid("", "residue")
	}
	res, ok := ed.ent.residues.get(h.r)
	if !ok {
		return nil, invalid("", "residue")
	}
	return res, nil
}

func (ed *Editor) atom(h AtomHandle) (*atomRec, error) {
	if h.ent != ed.ent {
		return nil, invalid("", "atom")
	}
	at, ok := ed.ent.atoms.get(h.r)
	if !ok {
		return nil, invalid("", "atom")
	}
	return at, nil
}

/**** Chains ****/

//InsertChain appends a new chain called name to the entity. Chain names are
//unique within an entity.
func (ed *Editor) InsertChain(name string) (ChainHandle, error) {
	var ret ChainHandle
	err := ed.do("InsertChain", func() error {
		if _, ok := ed.ent.findChain(name); ok {
			return NewError(KindDuplicateName, "", "chain %q already exists", name)
		}
		r := ed.ent.chains.alloc(chainRec{name: name, props: Props{}})
		ed.ent.chainSeq = append(ed.ent.chainSeq, r)
		ret = ChainHandle{ed.ent, r}
		return nil
	})
	return ret, err
}

//RenameChain changes the name of the chain.
func (ed *Editor) RenameChain(chain ChainHandle, name string) error {
	return ed.do("RenameChain", func() error {
		ch, err := ed.chain(chain)
		if err != nil {
			return err
		}
		if other, ok := ed.ent.findChain(name); ok && other != chain.r {
			return NewError(KindDuplicateName, "", "chain %q already exists", name)
		}
		ch.name = name
		return nil
	})
}

//SetChainType sets the type of the chain.
func (ed *Editor) SetChainType(chain ChainHandle, t ChainType) error {
	return ed.do("SetChainType", func() error {
		ch, err := ed.chain(chain)
		if err != nil {
			return err
		}
		ch.typ = t
		return nil
	})
}

//SetChainDescription sets the description of the chain.
func (ed *Editor) SetChainDescription(chain ChainHandle, desc string) error {
	return ed.do("SetChainDescription", func() error {
		ch, err := ed.chain(chain)
		if err != nil {
			return err
		}
		ch.desc = desc
		return nil
	})
}

//SetChainProp sets the string property key of the chain to val.
func (ed *Editor) SetChainProp(chain ChainHandle, key, val string) error {
	return ed.do("SetChainProp", func() error {
		ch, err := ed.chain(chain)
		if err != nil {
			return err
		}
		ch.props[key] = val
		return nil
	})
}

//DeleteChain deletes the chain with all its residues, their atoms, and every
//bond and torsion involving those atoms.
func (ed *Editor) DeleteChain(chain ChainHandle) error {
	return ed.do("DeleteChain", func() error {
		if _, err := ed.chain(chain); err != nil {
			return err
		}
		ed.ent.deleteChain(chain.r)
		ed.topologyChanged()
		return nil
	})
}

/**** Residues ****/

//AppendResidue adds a residue with the given key (name) at the end of the
//chain. If no number is given, the residue gets the number following that of
//the last residue in the chain, or 1 for an empty chain.
func (ed *Editor) AppendResidue(chain ChainHandle, key string, num ...ResNum) (ResidueHandle, error) {
	var ret ResidueHandle
	err := ed.do("AppendResidue", func() error {
		ch, err := ed.chain(chain)
		if err != nil {
			return err
		}
		var n ResNum
		if len(num) > 0 {
			n = num[0]
		} else if l := len(ch.residues); l > 0 {
			last, _ := ed.ent.residues.get(ch.residues[l-1])
			n = last.num.Next()
		} else {
			n = ResNum{Num: 1}
		}
		r := ed.ent.residues.alloc(residueRec{key: key, num: n, chain: chain.r, props: Props{}})
		ch.residues = append(ch.residues, r)
		ret = ResidueHandle{ed.ent, r}
		return nil
	})
	return ret, err
}

//InsertResidueBefore inserts a residue in the chain, right before the one at
//position index. Index can be equal to the number of residues in the chain,
//in which case the residue is appended.
func (ed *Editor) InsertResidueBefore(chain ChainHandle, index int, num ResNum, key string) (ResidueHandle, error) {
	var ret ResidueHandle
	err := ed.do("InsertResidueBefore", func() error {
		r, err := ed.insertResidue(chain, index, num, key)
		ret = r
		return err
	})
	return ret, err
}

//InsertResidueAfter inserts a residue in the chain, right after the one at
//position index.
func (ed *Editor) InsertResidueAfter(chain ChainHandle, index int, num ResNum, key string) (ResidueHandle, error) {
	var ret ResidueHandle
	err := ed.do("InsertResidueAfter", func() error {
		ch, err := ed.chain(chain)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(ch.residues) {
			return NewError(KindOutOfRange, "", "residue index %d out of range (%d residues)", index, len(ch.residues))
		}
		r, err := ed.insertResidue(chain, index+1, num, key)
		ret = r
		return err
	})
	return ret, err
}

func (ed *Editor) insertResidue(chain ChainHandle, pos int, num ResNum, key string) (ResidueHandle, error) {
	ch, err := ed.chain(chain)
	if err != nil {
		return ResidueHandle{}, err
	}
	if pos < 0 || pos > len(ch.residues) {
		return ResidueHandle{}, NewError(KindOutOfRange, "", "residue index %d out of range (%d residues)", pos, len(ch.residues))
	}
	r := ed.ent.residues.alloc(residueRec{key: key, num: num, chain: chain.r, props: Props{}})
	ch.residues = append(ch.residues, ref{})
	copy(ch.residues[pos+1:], ch.residues[pos:])
	ch.residues[pos] = r
	return ResidueHandle{ed.ent, r}, nil
}

//RenameResidue changes the key (name) of the residue.
func (ed *Editor) RenameResidue(res ResidueHandle, name string) error {
	return ed.do("RenameResidue", func() error {
		rr, err := ed.residue(res)
		if err != nil {
			return err
		}
		rr.key = name
		return nil
	})
}

//SetResidueProp sets the string property key of the residue to val.
func (ed *Editor) SetResidueProp(res ResidueHandle, key, val string) error {
	return ed.do("SetResidueProp", func() error {
		rr, err := ed.residue(res)
		if err != nil {
			return err
		}
		rr.props[key] = val
		return nil
	})
}

//DeleteResidue deletes the residue, its atoms and every bond and torsion
//involving them.
func (ed *Editor) DeleteResidue(res ResidueHandle) error {
	return ed.do("DeleteResidue", func() error {
		if _, err := ed.residue(res); err != nil {
			return err
		}
		ed.ent.deleteResidue(res.r)
		ed.topologyChanged()
		return nil
	})
}

//ReorderResidues sorts the residues of the chain by number. The sort is stable.
func (ed *Editor) ReorderResidues(chain ChainHandle) error {
	return ed.do("ReorderResidues", func() error {
		ch, err := ed.chain(chain)
		if err != nil {
			return err
		}
		ed.reorder(ch)
		ed.topologyChanged()
		return nil
	})
}

//ReorderAllResidues sorts the residues of every chain by number.
func (ed *Editor) ReorderAllResidues() error {
	return ed.do("ReorderAllResidues", func() error {
		for _, c := range ed.ent.chainSeq {
			ch, _ := ed.ent.chains.get(c)
			ed.reorder(ch)
		}
		ed.topologyChanged()
		return nil
	})
}

func (ed *Editor) reorder(ch *chainRec) {
	nums := make(map[ref]ResNum, len(ch.residues))
	for _, r := range ch.residues {
		rr, _ := ed.ent.residues.get(r)
		nums[r] = rr.num
	}
	sort.SliceStable(ch.residues, func(i, j int) bool {
		return nums[ch.residues[i]].Less(nums[ch.residues[j]])
	})
}

/**** Atoms ****/

//nameClash returns true if an atom called name, in alternate location group
//group (empty for regular atoms), can't be added to res. skip is ignored.
func (E *Entity) nameClash(res *residueRec, name, group string, skip ref) bool {
	for _, a := range res.atoms {
		if a == skip {
			continue
		}
		at, _ := E.atoms.get(a)
		if at.name != name {
			continue
		}
		if at.altGroup == "" || group == "" {
			return true
		}
		if _, ok := at.altPos[group]; ok {
			return true
		}
	}
	return false
}

//InsertAtom adds an atom to the residue. Atom names are unique within a
//residue, except for atoms in different alternate location groups.
func (ed *Editor) InsertAtom(res ResidueHandle, name string, pos r3.Vec, element string, occupancy, bfactor float64, het bool) (AtomHandle, error) {
	var ret AtomHandle
	err := ed.do("InsertAtom", func() error {
		rr, err := ed.residue(res)
		if err != nil {
			return err
		}
		if ed.ent.nameClash(rr, name, "", ref{}) {
			return NewError(KindDuplicateName, "", "residue %s already has an atom %q", rr.key, name)
		}
		a := ed.ent.atoms.alloc(atomRec{
			name:      name,
			element:   element,
			pos:       pos,
			occupancy: occupancy,
			bfactor:   bfactor,
			het:       het,
			residue:   res.r,
		})
		rr.atoms = append(rr.atoms, a)
		ret = AtomHandle{ed.ent, a}
		ed.topologyChanged()
		return nil
	})
	return ret, err
}

//InsertAltAtom adds to the residue an atom that belongs to the alternate
//location group group, at position pos. If the residue has no active group
//yet, group becomes the active one.
func (ed *Editor) InsertAltAtom(res ResidueHandle, name, group string, pos r3.Vec, element string) (AtomHandle, error) {
	var ret AtomHandle
	err := ed.do("InsertAltAtom", func() error {
		rr, err := ed.residue(res)
		if err != nil {
			return err
		}
		if group == "" {
			return NewError(KindAltGroup, "", "empty alternate location group")
		}
		if ed.ent.nameClash(rr, name, group, ref{}) {
			return NewError(KindDuplicateName, "", "residue %s already has an atom %q in group %q", rr.key, name, group)
		}
		a := ed.ent.atoms.alloc(atomRec{
			name:      name,
			element:   element,
			pos:       pos,
			occupancy: 1,
			altGroup:  group,
			altPos:    map[string]r3.Vec{group: pos},
			residue:   res.r,
		})
		rr.atoms = append(rr.atoms, a)
		registerAltGroup(rr, group)
		ret = AtomHandle{ed.ent, a}
		ed.topologyChanged()
		return nil
	})
	return ret, err
}

func registerAltGroup(rr *residueRec, group string) {
	for _, g := range rr.altGroups {
		if g == group {
			return
		}
	}
	rr.altGroups = append(rr.altGroups, group)
	if rr.activeAlt == "" {
		rr.activeAlt = group
	}
}

//AddAltAtomPos gives the alternate location atom a position in group. If
//group is the active group of the residue, the atom is moved there.
func (ed *Editor) AddAltAtomPos(group string, atom AtomHandle, pos r3.Vec) error {
	return ed.do("AddAltAtomPos", func() error {
		at, err := ed.atom(atom)
		if err != nil {
			return err
		}
		if at.altGroup == "" {
			return NewError(KindAltGroup, "", "atom %s is not an alternate location atom", at.name)
		}
		if group == "" {
			return NewError(KindAltGroup, "", "empty alternate location group")
		}
		rr, _ := ed.ent.residues.get(at.residue)
		if ed.ent.nameClash(rr, at.name, group, atom.r) {
			return NewError(KindDuplicateName, "", "residue %s already has an atom %q in group %q", rr.key, at.name, group)
		}
		at.altPos[group] = pos
		registerAltGroup(rr, group)
		if rr.activeAlt == group {
			at.pos = pos
		}
		return nil
	})
}

//SwitchAltGroup makes group the active alternate location group of the
//residue. Every atom with a position for group is moved there.
func (ed *Editor) SwitchAltGroup(res ResidueHandle, group string) error {
	return ed.do("SwitchAltGroup", func() error {
		rr, err := ed.residue(res)
		if err != nil {
			return err
		}
		found := false
		for _, g := range rr.altGroups {
			found = found || g == group
		}
		if !found {
			return NewError(KindAltGroup, "", "residue %s has no group %q", rr.key, group)
		}
		for _, a := range rr.atoms {
			at, _ := ed.ent.atoms.get(a)
			if p, ok := at.altPos[group]; ok {
				at.pos = p
			}
		}
		rr.activeAlt = group
		return nil
	})
}

//RenameAtom changes the name of the atom.
func (ed *Editor) RenameAtom(atom AtomHandle, name string) error {
	return ed.do("RenameAtom", func() error {
		at, err := ed.atom(atom)
		if err != nil {
			return err
		}
		rr, _ := ed.ent.residues.get(at.residue)
		groups := []string{at.altGroup}
		for g := range at.altPos {
			groups = append(groups, g)
		}
		for _, g := range groups {
			if ed.ent.nameClash(rr, name, g, atom.r) {
				return NewError(KindDuplicateName, "", "residue %s already has an atom %q", rr.key, name)
			}
		}
		at.name = name
		return nil
	})
}

//SetAtomPos moves the atom to pos. For alternate location atoms, the
//position for the active group of the residue is changed too.
func (ed *Editor) SetAtomPos(atom AtomHandle, pos r3.Vec) error {
	return ed.do("SetAtomPos", func() error {
		at, err := ed.atom(atom)
		if err != nil {
			return err
		}
		at.pos = pos
		if at.altGroup != "" {
			rr, _ := ed.ent.residues.get(at.residue)
			if _, ok := at.altPos[rr.activeAlt]; ok {
				at.altPos[rr.activeAlt] = pos
			}
		}
		return nil
	})
}

//SetAtomOccupancy sets the occupancy of the atom.
func (ed *Editor) SetAtomOccupancy(atom AtomHandle, occupancy float64) error {
	return ed.setAtom("SetAtomOccupancy", atom, func(at *atomRec) { at.occupancy = occupancy })
}

//SetAtomBFactor sets the temperature factor of the atom.
func (ed *Editor) SetAtomBFactor(atom AtomHandle, bfactor float64) error {
	return ed.setAtom("SetAtomBFactor", atom, func(at *atomRec) { at.bfactor = bfactor })
}

//SetAtomHet marks the atom as a hetero atom, or not.
func (ed *Editor) SetAtomHet(atom AtomHandle, het bool) error {
	return ed.setAtom("SetAtomHet", atom, func(at *atomRec) { at.het = het })
}

func (ed *Editor) setAtom(op string, atom AtomHandle, f func(*atomRec)) error {
	return ed.do(op, func() error {
		at, err := ed.atom(atom)
		if err != nil {
			return err
		}
		f(at)
		return nil
	})
}

//DeleteAtom deletes the atom and every bond and torsion involving it.
func (ed *Editor) DeleteAtom(atom AtomHandle) error {
	return ed.do("DeleteAtom", func() error {
		if _, err := ed.atom(atom); err != nil {
			return err
		}
		ed.ent.deleteAtom(atom.r)
		ed.topologyChanged()
		return nil
	})
}

//ApplyTransform transforms the positions, including the alternate ones, of
//all the atoms in the entity. The topology doesn't change.
func (ed *Editor) ApplyTransform(t v3.Transform) error {
	return ed.do("ApplyTransform", func() error {
		for i := range ed.ent.atoms.slots {
			s := &ed.ent.atoms.slots[i]
			if !s.live {
				continue
			}
			s.val.pos = t.Apply(s.val.pos)
			for g, p := range s.val.altPos {
				s.val.altPos[g] = t.Apply(p)
			}
		}
		return nil
	})
}

/**** Bonds and torsions ****/

//Connect joins atoms a and b with a bond of the given order (1 if not given)
//and no ideal geometry. It is the same as ConnectGeom(a, b, 0, 0, 0, order...).
func (ed *Editor) Connect(a, b AtomHandle, order ...int) (BondHandle, error) {
	return ed.connect("Connect", a, b, bondRec{length: 0, theta: 0, phi: 0}, order)
}

//ConnectGeom joins atoms a and b with a bond of the given order (1 if not given)
//and ideal length and angles theta and phi.
//
//Invalid handles produce an error. A bond that can't be created, because a
//and b are the same atom or are already bonded, is not an error: an invalid
//BondHandle is returned, and LastRejection tells the reason.
func (ed *Editor) ConnectGeom(a, b AtomHandle, length, theta, phi float64, order ...int) (BondHandle, error) {
	return ed.connect("ConnectGeom", a, b, bondRec{length: length, theta: theta, phi: phi}, order)
}

func (ed *Editor) connect(op string, a, b AtomHandle, geom bondRec, order []int) (BondHandle, error) {
	var ret BondHandle
	geom.order = 1
	if len(order) > 0 {
		geom.order = order[0]
	}
	err := ed.do(op, func() error {
		if _, err := ed.atom(a); err != nil {
			return err
		}
		if _, err := ed.atom(b); err != nil {
			return err
		}
		ed.rejection = nil
		r, rej := ed.ent.connect(a.r, b.r, geom)
		if rej != nil {
			ed.rejection = errDecorate(rej, op)
			return nil
		}
		ret = BondHandle{ed.ent, r}
		ed.topologyChanged()
		return nil
	})
	return ret, err
}

//connect must be called with the write lock held and valid atoms.
func (E *Entity) connect(a, b ref, geom bondRec) (ref, error) {
	if a == b {
		return ref{}, NewError(KindGeometryRejected, "", "an atom can't be bonded to itself")
	}
	if E.bonded(a, b) {
		return ref{}, NewError(KindGeometryRejected, "", "atoms are already bonded")
	}
	geom.first, geom.second = a, b
	r := E.bonds.alloc(geom)
	at1, _ := E.atoms.get(a)
	at1.bonds = append(at1.bonds, r)
	at2, _ := E.atoms.get(b)
	at2.bonds = append(at2.bonds, r)
	return r, nil
}

func (E *Entity) bonded(a, b ref) bool {
	at, _ := E.atoms.get(a)
	for _, br := range at.bonds {
		bo, _ := E.bonds.get(br)
		if (bo.first == a && bo.second == b) || (bo.first == b && bo.second == a) {
			return true
		}
	}
	return false
}

//DeleteBond deletes the bond.
func (ed *Editor) DeleteBond(bond BondHandle) error {
	return ed.do("DeleteBond", func() error {
		if bond.ent != ed.ent || !ed.ent.bonds.valid(bond.r) {
			return invalid("", "bond")
		}
		ed.ent.deleteBond(bond.r)
		ed.topologyChanged()
		return nil
	})
}

//AddTorsion adds a torsion called name, defined by 4 atoms. If the atoms are
//not all different, an invalid handle is returned, and LastRejection tells
//the reason.
func (ed *Editor) AddTorsion(name string, a1, a2, a3, a4 AtomHandle) (TorsionHandle, error) {
	var ret TorsionHandle
	err := ed.do("AddTorsion", func() error {
		atoms := [4]AtomHandle{a1, a2, a3, a4}
		for _, a := range atoms {
			if _, err := ed.atom(a); err != nil {
				return err
			}
		}
		ed.rejection = nil
		for i := 0; i < 4; i++ {
			for j := i + 1; j < 4; j++ {
				if atoms[i].r == atoms[j].r {
					ed.rejection = NewError(KindGeometryRejected, "AddTorsion", "torsion %s repeats an atom", name)
					return nil
				}
			}
		}
		rec := torsionRec{name: name}
		for i, a := range atoms {
			rec.atoms[i] = a.r
		}
		t := ed.ent.torsions.alloc(rec)
		for _, a := range atoms {
			at, _ := ed.ent.atoms.get(a.r)
			at.torsions = append(at.torsions, t)
		}
		ret = TorsionHandle{ed.ent, t}
		return nil
	})
	return ret, err
}

//DeleteTorsion deletes the torsion.
func (ed *Editor) DeleteTorsion(tor TorsionHandle) error {
	return ed.do("DeleteTorsion", func() error {
		if tor.ent != ed.ent || !ed.ent.torsions.valid(tor.r) {
			return invalid("", "torsion")
		}
		ed.ent.deleteTorsion(tor.r)
		return nil
	})
}

//UpdateTrace recomputes the trace if it is dirty. It is only needed
//for buffered editors.
func (ed *Editor) UpdateTrace() error {
	return ed.do("UpdateTrace", func() error {
		if ed.ent.traceDirty() {
			ed.ent.traceDirectionality(ed.mode)
		}
		return nil
	})
}

/**** Cascading deletion. All need the write lock held. ****/

func removeRef(refs []ref, r ref) []ref {
	if i := indexOf(refs, r); i >= 0 {
		return append(refs[:i], refs[i+1:]...)
	}
	return refs
}

func (E *Entity) deleteBond(b ref) {
	bo, ok := E.bonds.get(b)
	if !ok {
		return
	}
	for _, a := range [2]ref{bo.first, bo.second} {
		if at, ok := E.atoms.get(a); ok {
			at.bonds = removeRef(at.bonds, b)
		}
	}
	E.bonds.release(b)
}

func (E *Entity) deleteTorsion(t ref) {
	to, ok := E.torsions.get(t)
	if !ok {
		return
	}
	for _, a := range to.atoms {
		if at, ok := E.atoms.get(a); ok {
			at.torsions = removeRef(at.torsions, t)
		}
	}
	E.torsions.release(t)
}

func (E *Entity) deleteAtom(a ref) {
	at, ok := E.atoms.get(a)
	if !ok {
		return
	}
	for _, b := range append([]ref(nil), at.bonds...) {
		E.deleteBond(b)
	}
	for _, t := range append([]ref(nil), at.torsions...) {
		E.deleteTorsion(t)
	}
	if rr, ok := E.residues.get(at.residue); ok {
		rr.atoms = removeRef(rr.atoms, a)
	}
	E.atoms.release(a)
}

func (E *Entity) deleteResidue(r ref) {
	rr, ok := E.residues.get(r)
	if !ok {
		return
	}
	for _, a := range append([]ref(nil), rr.atoms...) {
		E.deleteAtom(a)
	}
	if ch, ok := E.chains.get(rr.chain); ok {
		ch.residues = removeRef(ch.residues, r)
	}
	E.residues.release(r)
}

func (E *Entity) deleteChain(c ref) {
	ch, ok := E.chains.get(c)
	if !ok {
		return
	}
	for _, r := range append([]ref(nil), ch.residues...) {
		E.deleteResidue(r)
	}
	E.chainSeq = removeRef(E.chainSeq, c)
	E.chains.release(c)
}
