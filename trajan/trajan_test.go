/*
 * trajan_test.go, part of goMol.
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
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	mol "github.com/rmera/gomol"
	"github.com/rmera/gomol/v3"
)

//testGroup returns a group for 4 carbons at (0,0,0), (1,0,0), (1,1,0) and
//(1,1,1), with two frames: the original positions, and the positions
//translated by 1 along X. The entity is left at the second frame.
func testGroup(Te *testing.T) (*CoordGroup, []mol.AtomHandle) {
	Te.Helper()
	ent := mol.NewEntity("traj")
	var atoms []mol.AtomHandle
	require.NoError(Te, mol.WithEditor(ent, mol.BufferedEdit, func(ed *mol.Editor) error {
		ch, err := ed.InsertChain("A")
		require.NoError(Te, err)
		res, err := ed.AppendResidue(ch, "BUT")
		require.NoError(Te, err)
		for i, p := range []r3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {X: 1, Y: 1, Z: 1}} {
			a, err := ed.InsertAtom(res, []string{"C1", "C2", "C3", "C4"}[i], p, "C", 1, 0, false)
			require.NoError(Te, err)
			atoms = append(atoms, a)
		}
		return nil
	}))
	cg := NewCoordGroup(ent)
	require.NoError(Te, cg.CaptureFrame())
	require.NoError(Te, mol.WithEditor(ent, mol.UnbufferedEdit, func(ed *mol.Editor) error {
		return ed.ApplyTransform(v3.Translation(r3.Vec{X: 1}))
	}))
	require.NoError(Te, cg.CaptureFrame())
	return cg, atoms
}

func TestCoordGroup(Te *testing.T) {
	cg, atoms := testGroup(Te)
	assert.Equal(Te, 2, cg.FrameCount())
	assert.Equal(Te, 4, cg.AtomCount())
	assert.Equal(Te, atoms, cg.Atoms())
	f, err := cg.Frame(1)
	require.NoError(Te, err)
	assert.Equal(Te, r3.Vec{X: 2, Y: 1, Z: 1}, f.Vec(3))
	_, err = cg.Frame(2)
	assert.True(Te, errors.Is(err, mol.ErrOutOfRange))

	err = cg.AddFrame(v3.Zeros(3))
	assert.True(Te, errors.Is(err, mol.ErrInconsistentAtomCounts))
	require.NoError(Te, cg.AddFrame(f))
	assert.Equal(Te, 3, cg.FrameCount())

	other := NewCoordGroup(cg.Entity())
	n, err := other.ReadFrom(cg.Reader())
	require.NoError(Te, err)
	assert.Equal(Te, 3, n)
	g, err := other.Frame(0)
	require.NoError(Te, err)
	f0, _ := cg.Frame(0)
	assert.Equal(Te, f0.Vecs(), g.Vecs())

	r := cg.Reader()
	for r.Readable() {
		require.NoError(Te, r.Next(nil))
	}
	err = r.Next(nil)
	var last LastFrameError
	assert.True(Te, errors.As(err, &last))

	require.NoError(Te, cg.CopyFrame(0))
	p, err := atoms[3].Pos()
	require.NoError(Te, err)
	assert.Equal(Te, r3.Vec{X: 1, Y: 1, Z: 1}, p)

	empty := NewCoordGroup(mol.NewEntity("empty"))
	assert.True(Te, errors.Is(empty.CaptureFrame(), mol.ErrOutOfRange))
	_, err = empty.ReadFrom(cg.Reader())
	assert.True(Te, errors.Is(err, mol.ErrInconsistentAtomCounts))
}

func TestAnalyzeGeometry(Te *testing.T) {
	cg, a := testGroup(Te)
	pos, err := AnalyzeAtomPos(cg, a[0], 0)
	require.NoError(Te, err)
	assert.Equal(Te, []r3.Vec{{}, {X: 1}}, pos)
	pos, err = AnalyzeAtomPos(cg, a[0], 2)
	require.NoError(Te, err)
	assert.Len(Te, pos, 1)

	d, err := AnalyzeDistanceBetwAtoms(cg, a[0], a[2], 1)
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, []float64{math.Sqrt2, math.Sqrt2}, d, 1e-9)

	ang, err := AnalyzeAngle(cg, a[0], a[1], a[2], 1)
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, []float64{math.Pi / 2, math.Pi / 2}, ang, 1e-9)

	dih, err := AnalyzeDihedralAngle(cg, a[0], a[1], a[2], a[3], 1)
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, []float64{math.Pi / 2, math.Pi / 2}, dih, 1e-9)
	dih, err = AnalyzeDihedralAngle(cg, a[3], a[2], a[1], a[0], 1)
	require.NoError(Te, err)
	assert.InDelta(Te, math.Pi/2, dih[0], 1e-9)

	stranger := mol.NewEntity("other")
	_, err = AnalyzeAtomPos(cg, mol.AtomHandle{}, 1)
	assert.True(Te, errors.Is(err, mol.ErrInvalidHandle))
	assert.NotNil(Te, stranger)
}

func TestAnalyzeSets(Te *testing.T) {
	cg, a := testGroup(Te)
	com, err := AnalyzeCenterOfMassPos(cg, a[:2], 1)
	require.NoError(Te, err)
	require.Len(Te, com, 2)
	assert.InDelta(Te, 0.5, com[0].X, 1e-9)
	assert.InDelta(Te, 1.5, com[1].X, 1e-9)

	dcom, err := AnalyzeDistanceBetwCenterOfMass(cg, a[:2], a[2:], 1)
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, []float64{math.Sqrt(1.5), math.Sqrt(1.5)}, dcom, 1e-9)

	rmsd, err := AnalyzeRMSD(cg, a, a, 1)
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, []float64{1, 0}, rmsd, 1e-9)
	_, err = AnalyzeRMSD(cg, a, a[:3], 1)
	assert.True(Te, errors.Is(err, mol.ErrInconsistentAtomCounts))
	assert.True(Te, mol.IsCritical(err))

	md, err := AnalyzeMinDistance(cg, a[:1], a[2:], 1)
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, []float64{math.Sqrt2, math.Sqrt2}, md, 1e-9)
	_, err = AnalyzeMinDistance(cg, a[:1], nil, 1)
	assert.True(Te, errors.Is(err, mol.ErrOutOfRange))

	mdc, err := AnalyzeMinDistanceBetwCenterOfMassAndView(cg, a[:2], a[2:], 1)
	require.NoError(Te, err)
	assert.InDelta(Te, math.Sqrt(1.25), mdc[0], 1e-9)

	ring, err := AnalyzeAromaticRingInteraction(cg, a[:2], a[2:], 1)
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, []float64{math.Sqrt(1.25), math.Sqrt(1.25)}, ring, 1e-9)
	_, err = AnalyzeAromaticRingInteraction(cg, nil, a[2:], 1)
	assert.True(Te, errors.Is(err, mol.ErrOutOfRange))
}

func TestUnknownMass(Te *testing.T) {
	ent := mol.NewEntity("xx")
	var x mol.AtomHandle
	require.NoError(Te, mol.WithEditor(ent, mol.BufferedEdit, func(ed *mol.Editor) error {
		ch, _ := ed.InsertChain("A")
		res, _ := ed.AppendResidue(ch, "UNK")
		var err error
		x, err = ed.InsertAtom(res, "X", r3.Vec{}, "Xx", 1, 0, true)
		return err
	}))
	cg := NewCoordGroup(ent)
	require.NoError(Te, cg.CaptureFrame())
	_, err := AnalyzeCenterOfMassPos(cg, []mol.AtomHandle{x}, 1)
	assert.True(Te, errors.Is(err, mol.ErrOutOfRange))
}

func TestAngleHelpers(Te *testing.T) {
	assert.Equal(Te, 0.0, Angle(r3.Vec{X: 1}, r3.Vec{X: 2}))
	assert.InDelta(Te, math.Pi, Angle(r3.Vec{X: 1}, r3.Vec{X: -2}), 1e-12)
	assert.InDelta(Te, -math.Pi/2, Dihedral(r3.Vec{}, r3.Vec{X: 1}, r3.Vec{X: 1, Y: 1}, r3.Vec{X: 1, Y: 1, Z: -1}), 1e-12)
}
