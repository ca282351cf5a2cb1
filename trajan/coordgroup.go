/*
 * coordgroup.go, part of goMol.
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

//Package trajan stores coordinate frames for the atoms of an entity and
//extracts per-frame geometric quantities (positions, distances, angles,
//RMSD, centers of mass) from them.
package trajan

import (
	"errors"

	mol "github.com/rmera/gomol"
	"github.com/rmera/gomol/v3"
)

//Traj is an interface for any source of frames.
type Traj interface {
	//Is the trajectory ready to be read?
	Readable() bool

	//Next reads the next frame into output, or discards it if output is nil.
	Next(output *v3.Matrix) error

	//Returns the number of atoms per frame
	Len() int
}

//LastFrameError is returned by Traj.Next after the last frame has been read.
//It is not really an error, just a signal.
type LastFrameError interface {
	error
	NormalLastFrameTermination()
}

type lastFrameError struct{}

//NormalLastFrameTermination does nothing.
func (E lastFrameError) NormalLastFrameTermination() {}

func (E lastFrameError) Error() string { return "EOF" }

//CoordGroup is a sequence of frames for the atoms of an entity. Each frame
//has one row per atom, in the hierarchical order the entity had when the
//group was created.
type CoordGroup struct {
	ent    *mol.Entity
	atoms  []mol.AtomHandle
	index  map[mol.AtomHandle]int
	frames []*v3.Matrix
}

//NewCoordGroup returns an empty CoordGroup for the current atoms of ent.
func NewCoordGroup(ent *mol.Entity) *CoordGroup {
	atoms := ent.AtomList()
	C := &CoordGroup{ent: ent, atoms: atoms, index: make(map[mol.AtomHandle]int, len(atoms))}
	for i, a := range atoms {
		C.index[a] = i
	}
	return C
}

//Entity returns the entity of the group.
func (C *CoordGroup) Entity() *mol.Entity { return C.ent }

//AtomCount returns the number of atoms in each frame.
func (C *CoordGroup) AtomCount() int { return len(C.atoms) }

//Atoms returns the atoms of the group, in frame order.
func (C *CoordGroup) Atoms() []mol.AtomHandle {
	return append([]mol.AtomHandle(nil), C.atoms...)
}

//FrameCount returns the number of frames in the group.
func (C *CoordGroup) FrameCount() int { return len(C.frames) }

//Frame returns the frame i. The matrix belongs to the group and should not
//be modified.
func (C *CoordGroup) Frame(i int) (*v3.Matrix, error) {
	if i < 0 || i >= len(C.frames) {
		return nil, mol.NewError(mol.KindOutOfRange, "CoordGroup.Frame", "frame %d requested, %d available", i, len(C.frames))
	}
	return C.frames[i], nil
}

//AddFrame appends a copy of m to the group. m must have one row per atom.
func (C *CoordGroup) AddFrame(m *v3.Matrix) error {
	if m == nil || m.NVecs() != len(C.atoms) {
		n := 0
		if m != nil {
			n = m.NVecs()
		}
		return mol.NewError(mol.KindInconsistentAtomCounts, "CoordGroup.AddFrame", "frame with %d atoms for a group of %d", n, len(C.atoms))
	}
	C.frames = append(C.frames, m.Dup())
	return nil
}

//CaptureFrame appends the current positions of the atoms as a new frame.
func (C *CoordGroup) CaptureFrame() error {
	const caller = "CoordGroup.CaptureFrame"
	if len(C.atoms) == 0 {
		return mol.NewError(mol.KindOutOfRange, caller, "group without atoms")
	}
	m := v3.Zeros(len(C.atoms))
	for i, a := range C.atoms {
		p, err := a.Pos()
		if err != nil {
			return decorate(err, caller)
		}
		m.SetVec(i, p)
	}
	C.frames = append(C.frames, m)
	return nil
}

//CopyFrame sets the positions of the atoms of the entity to those in frame i.
func (C *CoordGroup) CopyFrame(i int) error {
	const caller = "CoordGroup.CopyFrame"
	f, err := C.Frame(i)
	if err != nil {
		return decorate(err, caller)
	}
	err = mol.WithEditor(C.ent, mol.UnbufferedEdit, func(ed *mol.Editor) error {
		for j, a := range C.atoms {
			if err := ed.SetAtomPos(a, f.Vec(j)); err != nil {
				return err
			}
		}
		return nil
	})
	return decorate(err, caller)
}

//Reader returns a Traj that reads the frames of the group from the first
//one.
func (C *CoordGroup) Reader() Traj {
	return &frameReader{cg: C}
}

//ReadFrom appends to the group all the frames that can be read from t. It
//returns the number of frames read.
func (C *CoordGroup) ReadFrom(t Traj) (int, error) {
	const caller = "CoordGroup.ReadFrom"
	if t.Len() != len(C.atoms) {
		return 0, mol.NewError(mol.KindInconsistentAtomCounts, caller, "trajectory with %d atoms for a group of %d", t.Len(), len(C.atoms))
	}
	read := 0
	for t.Readable() {
		m := v3.Zeros(len(C.atoms))
		err := t.Next(m)
		if err != nil {
			var last LastFrameError
			if errors.As(err, &last) {
				break
			}
			return read, decorate(err, caller)
		}
		C.frames = append(C.frames, m)
		read++
	}
	return read, nil
}

type frameReader struct {
	cg   *CoordGroup
	next int
}

func (R *frameReader) Readable() bool { return R.next < len(R.cg.frames) }

func (R *frameReader) Len() int { return len(R.cg.atoms) }

func (R *frameReader) Next(output *v3.Matrix) error {
	if R.next >= len(R.cg.frames) {
		return lastFrameError{}
	}
	if output != nil {
		output.Copy(R.cg.frames[R.next])
	}
	R.next++
	return nil
}

func decorate(err error, caller string) error {
	var e *mol.Error
	if errors.As(err, &e) {
		e.Decorate(caller)
	}
	return err
}
