/*
 * analysis.go, part of goMol.
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

package trajan

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	mol "github.com/rmera/gomol"
	"github.com/rmera/gomol/v3"
)

//All the Analyze functions go over the frames of a CoordGroup, taking one
//of every stride frames (a stride of 0 is taken as 1), and return one value
//per frame read. Angles are in radians.

const appzero = 0.000000000001

func frames(cg *CoordGroup, stride int) []*v3.Matrix {
	if stride <= 0 {
		stride = 1
	}
	ret := make([]*v3.Matrix, 0, (len(cg.frames)+stride-1)/stride)
	for i := 0; i < len(cg.frames); i += stride {
		ret = append(ret, cg.frames[i])
	}
	return ret
}

//indexes returns the frame rows for atoms.
func (C *CoordGroup) indexes(caller string, atoms []mol.AtomHandle) ([]int, error) {
	ret := make([]int, len(atoms))
	for i, a := range atoms {
		j, ok := C.index[a]
		if !ok {
			return nil, mol.NewError(mol.KindInvalidHandle, caller, "atom %s is not part of the group", a)
		}
		ret[i] = j
	}
	return ret, nil
}

func masses(caller string, atoms []mol.AtomHandle) ([]float64, error) {
	ret := make([]float64, len(atoms))
	for i, a := range atoms {
		info, err := a.Info()
		if err != nil {
			return nil, decorate(err, caller)
		}
		m, ok := mol.ElementMass(info.Element)
		if !ok {
			return nil, mol.NewError(mol.KindOutOfRange, caller, "no mass for element %q of atom %s", info.Element, a)
		}
		ret[i] = m
	}
	return ret, nil
}

func nonEmpty(caller string, sets ...[]mol.AtomHandle) error {
	for i, s := range sets {
		if len(s) == 0 {
			return mol.NewError(mol.KindOutOfRange, caller, "atom set %d is empty", i+1)
		}
	}
	return nil
}

//AnalyzeAtomPos returns the position of the atom in each frame.
func AnalyzeAtomPos(cg *CoordGroup, atom mol.AtomHandle, stride int) ([]r3.Vec, error) {
	idx, err := cg.indexes("AnalyzeAtomPos", []mol.AtomHandle{atom})
	if err != nil {
		return nil, err
	}
	fr := frames(cg, stride)
	ret := make([]r3.Vec, len(fr))
	for i, f := range fr {
		ret[i] = f.Vec(idx[0])
	}
	return ret, nil
}

//AnalyzeDistanceBetwAtoms returns the distance between a1 and a2 in each frame.
func AnalyzeDistanceBetwAtoms(cg *CoordGroup, a1, a2 mol.AtomHandle, stride int) ([]float64, error) {
	idx, err := cg.indexes("AnalyzeDistanceBetwAtoms", []mol.AtomHandle{a1, a2})
	if err != nil {
		return nil, err
	}
	fr := frames(cg, stride)
	ret := make([]float64, len(fr))
	for i, f := range fr {
		ret[i] = r3.Norm(r3.Sub(f.Vec(idx[1]), f.Vec(idx[0])))
	}
	return ret, nil
}

//AnalyzeAngle returns the a1-a2-a3 angle in each frame.
func AnalyzeAngle(cg *CoordGroup, a1, a2, a3 mol.AtomHandle, stride int) ([]float64, error) {
	idx, err := cg.indexes("AnalyzeAngle", []mol.AtomHandle{a1, a2, a3})
	if err != nil {
		return nil, err
	}
	fr := frames(cg, stride)
	ret := make([]float64, len(fr))
	for i, f := range fr {
		c := f.Vec(idx[1])
		ret[i] = Angle(r3.Sub(f.Vec(idx[0]), c), r3.Sub(f.Vec(idx[2]), c))
	}
	return ret, nil
}

//AnalyzeDihedralAngle returns the a1-a2-a3-a4 dihedral in each frame.
func AnalyzeDihedralAngle(cg *CoordGroup, a1, a2, a3, a4 mol.AtomHandle, stride int) ([]float64, error) {
	idx, err := cg.indexes("AnalyzeDihedralAngle", []mol.AtomHandle{a1, a2, a3, a4})
	if err != nil {
		return nil, err
	}
	fr := frames(cg, stride)
	ret := make([]float64, len(fr))
	for i, f := range fr {
		ret[i] = Dihedral(f.Vec(idx[0]), f.Vec(idx[1]), f.Vec(idx[2]), f.Vec(idx[3]))
	}
	return ret, nil
}

//AnalyzeCenterOfMassPos returns the center of mass of the atoms in sele in each frame.
func AnalyzeCenterOfMassPos(cg *CoordGroup, sele []mol.AtomHandle, stride int) ([]r3.Vec, error) {
	const caller = "AnalyzeCenterOfMassPos"
	if err := nonEmpty(caller, sele); err != nil {
		return nil, err
	}
	idx, err := cg.indexes(caller, sele)
	if err != nil {
		return nil, err
	}
	m, err := masses(caller, sele)
	if err != nil {
		return nil, err
	}
	fr := frames(cg, stride)
	ret := make([]r3.Vec, len(fr))
	for i, f := range fr {
		ret[i] = CenterOfMass(f, idx, m)
	}
	return ret, nil
}

//AnalyzeDistanceBetwCenterOfMass returns the distance between the centers of
//mass of sele1 and sele2 in each frame.
func AnalyzeDistanceBetwCenterOfMass(cg *CoordGroup, sele1, sele2 []mol.AtomHandle, stride int) ([]float64, error) {
	com1, err := AnalyzeCenterOfMassPos(cg, sele1, stride)
	if err != nil {
		return nil, decorate(err, "AnalyzeDistanceBetwCenterOfMass")
	}
	com2, err := AnalyzeCenterOfMassPos(cg, sele2, stride)
	if err != nil {
		return nil, decorate(err, "AnalyzeDistanceBetwCenterOfMass")
	}
	ret := make([]float64, len(com1))
	for i := range com1 {
		ret[i] = r3.Norm(r3.Sub(com2[i], com1[i]))
	}
	return ret, nil
}

//AnalyzeRMSD returns, for each frame, the RMSD between the positions of
//the atoms in ref in that frame and the current positions of the atoms in
//sele, which can belong to a different entity. No superposition is
//performed. The two sets must have the same number of atoms, otherwise a
//critical InconsistentAtomCounts error is returned.
func AnalyzeRMSD(cg *CoordGroup, ref, sele []mol.AtomHandle, stride int) ([]float64, error) {
	const caller = "AnalyzeRMSD"
	if len(ref) != len(sele) {
		return nil, mol.NewError(mol.KindInconsistentAtomCounts, caller, "atom counts of the two sets are not equal: %d and %d", len(ref), len(sele))
	}
	if err := nonEmpty(caller, ref); err != nil {
		return nil, err
	}
	idx, err := cg.indexes(caller, ref)
	if err != nil {
		return nil, err
	}
	refpos := make([]r3.Vec, len(sele))
	for i, a := range sele {
		if refpos[i], err = a.Pos(); err != nil {
			return nil, decorate(err, caller)
		}
	}
	fr := frames(cg, stride)
	ret := make([]float64, len(fr))
	sq := make([]float64, len(idx))
	for i, f := range fr {
		for j, k := range idx {
			d := r3.Sub(f.Vec(k), refpos[j])
			sq[j] = r3.Dot(d, d)
		}
		ret[i] = math.Sqrt(floats.Sum(sq) / float64(len(sq)))
	}
	return ret, nil
}

//AnalyzeMinDistance returns the smallest distance between an atom of set1
//and one of set2 in each frame. Both sets must be non-empty.
func AnalyzeMinDistance(cg *CoordGroup, set1, set2 []mol.AtomHandle, stride int) ([]float64, error) {
	const caller = "AnalyzeMinDistance"
	if err := nonEmpty(caller, set1, set2); err != nil {
		return nil, err
	}
	idx1, err := cg.indexes(caller, set1)
	if err != nil {
		return nil, err
	}
	idx2, err := cg.indexes(caller, set2)
	if err != nil {
		return nil, err
	}
	fr := frames(cg, stride)
	ret := make([]float64, len(fr))
	for i, f := range fr {
		pos := make([]r3.Vec, len(idx2))
		for j, k := range idx2 {
			pos[j] = f.Vec(k)
		}
		d := make([]float64, len(idx1))
		for j, k := range idx1 {
			d[j] = minDistance(f.Vec(k), pos)
		}
		ret[i] = floats.Min(d)
	}
	return ret, nil
}

//AnalyzeMinDistanceBetwCenterOfMassAndView returns the smallest distance
//between the center of mass of cmset and an atom of atoms in each frame.
func AnalyzeMinDistanceBetwCenterOfMassAndView(cg *CoordGroup, cmset, atoms []mol.AtomHandle, stride int) ([]float64, error) {
	const caller = "AnalyzeMinDistanceBetwCenterOfMassAndView"
	if err := nonEmpty(caller, cmset, atoms); err != nil {
		return nil, err
	}
	com, err := AnalyzeCenterOfMassPos(cg, cmset, stride)
	if err != nil {
		return nil, decorate(err, caller)
	}
	idx, err := cg.indexes(caller, atoms)
	if err != nil {
		return nil, err
	}
	fr := frames(cg, stride)
	ret := make([]float64, len(fr))
	pos := make([]r3.Vec, len(idx))
	for i, f := range fr {
		for j, k := range idx {
			pos[j] = f.Vec(k)
		}
		ret[i] = minDistance(com[i], pos)
	}
	return ret, nil
}

//AnalyzeAromaticRingInteraction is a crude analysis of the interaction
//between two rings. For each frame, it returns the smallest distance between
//the center of mass of one ring and an atom of the other one.
func AnalyzeAromaticRingInteraction(cg *CoordGroup, ring1, ring2 []mol.AtomHandle, stride int) ([]float64, error) {
	const caller = "AnalyzeAromaticRingInteraction"
	d1, err := AnalyzeMinDistanceBetwCenterOfMassAndView(cg, ring1, ring2, stride)
	if err != nil {
		return nil, decorate(err, caller)
	}
	d2, err := AnalyzeMinDistanceBetwCenterOfMassAndView(cg, ring2, ring1, stride)
	if err != nil {
		return nil, decorate(err, caller)
	}
	for i := range d1 {
		d1[i] = math.Min(d1[i], d2[i])
	}
	return d1, nil
}

/**** Geometry ****/

//Angle returns the angle between the vectors v1 and v2.
func Angle(v1, v2 r3.Vec) float64 {
	argument := r3.Dot(v1, v2) / (r3.Norm(v1) * r3.Norm(v2))
	//Take care of floating point math errors
	if math.Abs(argument-1) <= appzero {
		argument = 1
	} else if math.Abs(argument+1) <= appzero {
		argument = -1
	}
	angle := math.Acos(argument)
	if math.Abs(angle) <= appzero {
		return 0.00
	}
	return angle
}

//Dihedral returns the dihedral angle between the points a, b, c and d.
func Dihedral(a, b, c, d r3.Vec) float64 {
	//bma=b minus a
	bma := r3.Sub(b, a)
	cmb := r3.Sub(c, b)
	dmc := r3.Sub(d, c)
	bmascaled := r3.Scale(r3.Norm(cmb), bma)
	first := r3.Dot(bmascaled, r3.Cross(cmb, dmc))
	second := r3.Dot(r3.Cross(bma, cmb), r3.Cross(cmb, dmc))
	return math.Atan2(first, second)
}

//CenterOfMass returns the center of mass of the rows idx of the frame f,
//with the given masses.
func CenterOfMass(f *v3.Matrix, idx []int, masses []float64) r3.Vec {
	var com r3.Vec
	for i, k := range idx {
		com = r3.Add(com, r3.Scale(masses[i], f.Vec(k)))
	}
	return r3.Scale(1/floats.Sum(masses), com)
}

func minDistance(p r3.Vec, set []r3.Vec) float64 {
	d := make([]float64, len(set))
	for i, q := range set {
		d[i] = r3.Norm(r3.Sub(q, p))
	}
	return floats.Min(d)
}
