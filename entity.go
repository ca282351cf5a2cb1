/*
 * entity.go, part of goMol.
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
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	v3 "github.com/rmera/gomol/v3"
)

type atomRec struct {
	name      string
	element   string
	pos       r3.Vec
	occupancy float64
	bfactor   float64
	het       bool
	altGroup  string            //empty for regular atoms
	altPos    map[string]r3.Vec //position for each alt group the atom belongs to
	residue   ref
	bonds     []ref
	torsions  []ref
}

type residueRec struct {
	key       string
	num       ResNum
	atoms     []ref
	props     Props
	chain     ref
	altGroups []string
	activeAlt string
}

type chainRec struct {
	name     string
	typ      ChainType
	desc     string
	residues []ref
	props    Props
}

type bondRec struct {
	first, second ref
	order         int
	length        float64
	theta         float64
	phi           float64
}

type torsionRec struct {
	name  string
	atoms [4]ref
}

//Entity is the root owner of a molecular structure: all its chains
//(and, through them, residues and atoms), bonds and torsions. It is only
//modified through an Editor (see Edit). Handles obtained from the Entity can
//be read concurrently.
type Entity struct {
	id     uuid.UUID
	name   string
	logger *slog.Logger

	mu     sync.RWMutex //guards everything below
	editMu sync.Mutex   //held by the active editor

	atoms    arena[atomRec]
	residues arena[residueRec]
	chains   arena[chainRec]
	bonds    arena[bondRec]
	torsions arena[torsionRec]
	chainSeq []ref

	topoGen uint64 //increased by every change in the topology
	trace   *Trace
}

//EntityOption configures an Entity on creation.
type EntityOption func(*Entity)

//WithLogger sets the logger used by the entity and its editors.
func WithLogger(logger *slog.Logger) EntityOption {
	return func(E *Entity) {
		if logger != nil {
			E.logger = logger
		}
	}
}

//WithID sets the identifier of the entity, instead of a random one.
func WithID(id uuid.UUID) EntityOption {
	return func(E *Entity) {
		E.id = id
	}
}

//NewEntity returns an empty entity with the given name.
func NewEntity(name string, opts ...EntityOption) *Entity {
	E := &Entity{
		id:     uuid.New(),
		name:   name,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(E)
	}
	E.trace = &Trace{gen: 0, ent: E}
	return E
}

//ID returns the unique identifier of the entity.
func (E *Entity) ID() uuid.UUID {
	return E.id
}

//Name returns the name of the entity.
func (E *Entity) Name() string {
	return E.name
}

//Logger returns the logger of the entity.
func (E *Entity) Logger() *slog.Logger {
	return E.logger
}

//ChainCount returns the number of chains in the entity.
func (E *Entity) ChainCount() int {
	E.mu.RLock()
	defer E.mu.RUnlock()
	return E.chains.live
}

//ResidueCount returns the number of residues in the entity.
func (E *Entity) ResidueCount() int {
	E.mu.RLock()
	defer E.mu.RUnlock()
	return E.residues.live
}

//AtomCount returns the number of atoms in the entity.
func (E *Entity) AtomCount() int {
	E.mu.RLock()
	defer E.mu.RUnlock()
	return E.atoms.live
}

//BondCount returns the number of bonds in the entity.
func (E *Entity) BondCount() int {
	E.mu.RLock()
	defer E.mu.RUnlock()
	return E.bonds.live
}

//Chains returns the chains of the entity, in order.
func (E *Entity) Chains() []ChainHandle {
	E.mu.RLock()
	defer E.mu.RUnlock()
	ret := make([]ChainHandle, 0, len(E.chainSeq))
	for _, c := range E.chainSeq {
		ret = append(ret, ChainHandle{E, c})
	}
	return ret
}

//FindChain returns the chain with the given name. The handle is invalid
//if there is no such chain.
func (E *Entity) FindChain(name string) ChainHandle {
	E.mu.RLock()
	defer E.mu.RUnlock()
	if r, ok := E.findChain(name); ok {
		return ChainHandle{E, r}
	}
	return ChainHandle{}
}

func (E *Entity) findChain(name string) (ref, bool) {
	for _, c := range E.chainSeq {
		if ch, _ := E.chains.get(c); ch.name == name {
			return c, true
		}
	}
	return ref{}, false
}

//AtomList returns all the atoms in the entity in hierarchical order,
//i.e. chain by chain, residue by residue.
func (E *Entity) AtomList() []AtomHandle {
	E.mu.RLock()
	defer E.mu.RUnlock()
	refs := E.atomOrder()
	ret := make([]AtomHandle, len(refs))
	for i, r := range refs {
		ret[i] = AtomHandle{E, r}
	}
	return ret
}

func (E *Entity) atomOrder() []ref {
	ret := make([]ref, 0, E.atoms.live)
	for _, c := range E.chainSeq {
		ch, _ := E.chains.get(c)
		for _, r := range ch.residues {
			res, _ := E.residues.get(r)
			ret = append(ret, res.atoms...)
		}
	}
	return ret
}

//AtomIndex returns the position of the atom in AtomList.
func (E *Entity) AtomIndex(atom AtomHandle) (int, error) {
	if atom.ent != E {
		return -1, NewError(KindInvalidHandle, "AtomIndex", "atom doesn't belong to entity %s", E.name)
	}
	E.mu.RLock()
	defer E.mu.RUnlock()
	if !E.atoms.valid(atom.r) {
		return -1, invalid("AtomIndex", "atom")
	}
	for i, r := range E.atomOrder() {
		if r == atom.r {
			return i, nil
		}
	}
	return -1, invalid("AtomIndex", "atom")
}

//Bonds returns all the bonds in the entity, ordered by their first atom.
func (E *Entity) Bonds() []BondHandle {
	E.mu.RLock()
	defer E.mu.RUnlock()
	ret := make([]BondHandle, 0, E.bonds.live)
	for _, a := range E.atomOrder() {
		at, _ := E.atoms.get(a)
		for _, b := range at.bonds {
			if bo, _ := E.bonds.get(b); bo.first == a {
				ret = append(ret, BondHandle{E, b})
			}
		}
	}
	return ret
}

//Torsions returns all the torsions in the entity, ordered by their first atom.
func (E *Entity) Torsions() []TorsionHandle {
	E.mu.RLock()
	defer E.mu.RUnlock()
	ret := make([]TorsionHandle, 0, E.torsions.live)
	for _, a := range E.atomOrder() {
		at, _ := E.atoms.get(a)
		for _, t := range at.torsions {
			if to, _ := E.torsions.get(t); to.atoms[0] == a {
				ret = append(ret, TorsionHandle{E, t})
			}
		}
	}
	return ret
}

//Positions returns the positions of all the atoms, in AtomList order, as a
//new v3.Matrix. It returns nil for an entity without atoms.
func (E *Entity) Positions() *v3.Matrix {
	E.mu.RLock()
	defer E.mu.RUnlock()
	order := E.atomOrder()
	if len(order) == 0 {
		return nil
	}
	m := v3.Zeros(len(order))
	for i, r := range order {
		at, _ := E.atoms.get(r)
		m.SetVec(i, at.pos)
	}
	return m
}

//Bounds returns the axis-aligned box containing all the atoms.
func (E *Entity) Bounds() r3.Box {
	E.mu.RLock()
	defer E.mu.RUnlock()
	pos := make([]r3.Vec, 0, E.atoms.live)
	for _, r := range E.atomOrder() {
		at, _ := E.atoms.get(r)
		pos = append(pos, at.pos)
	}
	return v3.Bounds(pos)
}

//TraceDirty returns true if the topology changed since the last time
//the trace was computed.
func (E *Entity) TraceDirty() bool {
	E.mu.RLock()
	defer E.mu.RUnlock()
	return E.traceDirty()
}

func (E *Entity) traceDirty() bool {
	return E.trace == nil || E.trace.gen != E.topoGen
}

//Trace returns the last computed trace and whether it is current. A trace that
//is not current reflects an older topology; it is recomputed by unbuffered
//edits, Editor.UpdateTrace, or the release of a buffered editor.
func (E *Entity) Trace() (*Trace, bool) {
	E.mu.RLock()
	defer E.mu.RUnlock()
	return E.trace, !E.traceDirty()
}

//Generation returns the topology generation of the entity. It increases
//with every change in the topology.
func (E *Entity) Generation() uint64 {
	E.mu.RLock()
	defer E.mu.RUnlock()
	return E.topoGen
}

//markDirty must be called with the write lock held.
func (E *Entity) markDirty() {
	E.topoGen++
}
