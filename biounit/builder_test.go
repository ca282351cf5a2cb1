/*
 * builder_test.go, part of goMol.
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

package biounit

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	mol "github.com/rmera/gomol"
	"github.com/rmera/gomol/internal/metrics"
	"github.com/rmera/gomol/v3"
)

//polymerSource returns an entity with a polypeptide chain "A" of n
//glycines (N, CA, C, O), bonded, with a double C=O bond.
func polymerSource(Te *testing.T, n int, offset r3.Vec) *mol.Entity {
	Te.Helper()
	src := mol.NewEntity("asu")
	err := mol.WithEditor(src, mol.BufferedEdit, func(ed *mol.Editor) error {
		ch, err := ed.InsertChain("A")
		require.NoError(Te, err)
		require.NoError(Te, ed.SetChainType(ch, mol.ChainTypePolyPeptide))
		require.NoError(Te, ed.SetChainDescription(ch, "a peptide"))
		require.NoError(Te, ed.SetChainProp(ch, "pdb_auth_chain_name", "X"))
		var prevC mol.AtomHandle
		for i := 0; i < n; i++ {
			res, err := ed.AppendResidue(ch, "GLY")
			require.NoError(Te, err)
			x := 3.8 * float64(i)
			var ats []mol.AtomHandle
			for _, a := range []struct {
				name, ele string
				pos       r3.Vec
			}{{"N", "N", r3.Vec{X: x}}, {"CA", "C", r3.Vec{X: x + 1.5}}, {"C", "C", r3.Vec{X: x + 2.5, Y: 1}}, {"O", "O", r3.Vec{X: x + 2.5, Y: 2.2}}} {
				at, err := ed.InsertAtom(res, a.name, r3.Add(a.pos, offset), a.ele, 1, 15, false)
				require.NoError(Te, err)
				ats = append(ats, at)
			}
			_, err = ed.Connect(ats[0], ats[1])
			require.NoError(Te, err)
			_, err = ed.Connect(ats[1], ats[2])
			require.NoError(Te, err)
			_, err = ed.Connect(ats[2], ats[3], 2)
			require.NoError(Te, err)
			if prevC.IsValid() {
				_, err = ed.Connect(prevC, ats[0])
				require.NoError(Te, err)
			}
			prevC = ats[2]
		}
		return nil
	})
	require.NoError(Te, err)
	return src
}

//addChain adds to src a chain of the given type, with one single-atom
//residue per key.
func addChain(Te *testing.T, src *mol.Entity, name string, t mol.ChainType, keys ...string) {
	Te.Helper()
	err := mol.WithEditor(src, mol.BufferedEdit, func(ed *mol.Editor) error {
		ch, err := ed.InsertChain(name)
		require.NoError(Te, err)
		require.NoError(Te, ed.SetChainType(ch, t))
		require.NoError(Te, ed.SetChainDescription(ch, name+" chain"))
		for i, k := range keys {
			res, err := ed.AppendResidue(ch, k, mol.ResNum{Num: 100 + i})
			require.NoError(Te, err)
			_, err = ed.InsertAtom(res, "X1", r3.Vec{Z: float64(10 + i)}, "C", 1, 30, true)
			require.NoError(Te, err)
		}
		return nil
	})
	require.NoError(Te, err)
}

func smallOptions() *Options {
	O := DefaultOptions()
	O.MinPolymerSize(3)
	return O
}

func TestPolymerCopies(Te *testing.T) {
	src := polymerSource(Te, 5, r3.Vec{})
	before := testutil.ToFloat64(metrics.BiounitChains.WithLabelValues("polymer"))
	tfs := []v3.Transform{v3.Identity(), v3.Translation(r3.Vec{X: 100})}
	B := New(smallOptions(), WithName("dimer"))
	require.NoError(Te, B.Add(src, tfs, nil))
	assert.False(Te, B.NeedsAdjustment())
	assert.Len(Te, B.Provenance(), 10)
	dst, err := B.Finish()
	require.NoError(Te, err)
	assert.Equal(Te, "dimer", dst.Name())
	assert.Equal(Te, 2.0, testutil.ToFloat64(metrics.BiounitChains.WithLabelValues("polymer"))-before)

	chains := dst.Chains()
	require.Len(Te, chains, 2)
	var boxes []r3.Box
	for i, ch := range chains {
		name, _ := ch.Name()
		assert.Equal(Te, []string{"A", "B"}[i], name)
		n, _ := ch.ResidueCount()
		assert.Equal(Te, 5, n)
		ct, _ := ch.Type()
		assert.Equal(Te, mol.ChainTypePolyPeptide, ct)
		desc, _ := ch.Description()
		assert.Equal(Te, "a peptide", desc)
		orig, ok, _ := ch.Prop("original_name")
		assert.True(Te, ok)
		assert.Equal(Te, "A", orig)
		auth, _, _ := ch.Prop("pdb_auth_chain_name")
		assert.Equal(Te, "X", auth)
		residues, _ := ch.Residues()
		num, _ := residues[4].Number()
		assert.Equal(Te, mol.ResNum{Num: 5}, num)
		var pos []r3.Vec
		for _, r := range residues {
			atoms, _ := r.Atoms()
			for _, a := range atoms {
				p, _ := a.Pos()
				pos = append(pos, p)
			}
		}
		boxes = append(boxes, v3.Bounds(pos))
	}
	assert.Less(Te, boxes[0].Max.X, boxes[1].Min.X)

	//connectivity is rebuilt for both copies, keeping bond orders
	assert.Equal(Te, 2*src.BondCount(), dst.BondCount())
	tr, current := dst.Trace()
	assert.True(Te, current)
	assert.Len(Te, tr.Components(), 2)
	for _, ch := range chains {
		residues, _ := ch.Residues()
		c, err := residues[2].FindAtom("C")
		require.NoError(Te, err)
		bonds, _ := c.Bonds()
		var orders []int
		for _, b := range bonds {
			o, _ := b.Order()
			orders = append(orders, o)
		}
		assert.ElementsMatch(Te, []int{1, 2, 1}, orders)
	}
	//finishing twice does nothing
	again, err := B.Finish()
	require.NoError(Te, err)
	assert.Same(Te, dst, again)
	err = B.Add(src, tfs, nil)
	assert.True(Te, errors.Is(err, mol.ErrEditorClosed))
}

func TestLigandChain(Te *testing.T) {
	src := mol.NewEntity("ligands")
	addChain(Te, src, "L", mol.ChainTypeLigand, "HEM", "SO4")
	addChain(Te, src, "M", mol.ChainTypeOther, "NAG")
	dst, err := Assemble(src, []v3.Transform{v3.Identity()}, nil, nil)
	require.NoError(Te, err)
	require.Equal(Te, 1, dst.ChainCount())
	lig := dst.FindChain(DefaultLigandChain)
	require.True(Te, lig.IsValid())
	ct, _ := lig.Type()
	assert.Equal(Te, mol.ChainTypeLigand, ct)
	residues, err := lig.Residues()
	require.NoError(Te, err)
	require.Len(Te, residues, 3)
	want := []mol.ResNum{{Num: 1, InsCode: 'A'}, {Num: 2, InsCode: 'B'}, {Num: 3}}
	orig := []string{"L", "L", "M"}
	for i, r := range residues {
		num, _ := r.Number()
		assert.Equal(Te, want[i], num)
		v, _, _ := r.Prop("original_name")
		assert.Equal(Te, orig[i], v)
	}
	typ, _, _ := residues[2].Prop("type")
	assert.Equal(Te, "other", typ)
	desc, _, _ := residues[0].Prop("description")
	assert.Equal(Te, "L chain", desc)
}

func TestWaterChain(Te *testing.T) {
	src := polymerSource(Te, 3, r3.Vec{})
	addChain(Te, src, "W", mol.ChainTypeWater, "HOH", "HOH")
	addChain(Te, src, "V", mol.ChainTypeWater, "HOH")
	tfs := []v3.Transform{v3.Identity(), v3.Rotation(r3.Vec{Z: 1}, 1.0)}
	dst, err := Assemble(src, tfs, nil, smallOptions())
	require.NoError(Te, err)
	//A, -, B
	require.Equal(Te, 3, dst.ChainCount())
	w := dst.FindChain(DefaultWaterChain)
	require.True(Te, w.IsValid())
	n, _ := w.ResidueCount()
	assert.Equal(Te, 6, n)
	ct, _ := w.Type()
	assert.Equal(Te, mol.ChainTypeWater, ct)
	residues, _ := w.Residues()
	typ, _, _ := residues[5].Prop("type")
	assert.Equal(Te, "water", typ)
	assert.True(Te, dst.FindChain("B").IsValid())
}

func TestShortPolymerSequences(Te *testing.T) {
	src := polymerSource(Te, 2, r3.Vec{})
	opts := smallOptions()
	dst, err := Assemble(src, []v3.Transform{v3.Identity()}, nil, opts)
	require.NoError(Te, err)
	assert.True(Te, dst.FindChain(DefaultLigandChain).IsValid())
	assert.False(Te, dst.FindChain("A").IsValid())
	//both residues end up in the ligand chain, so the peptide bond survives
	assert.Equal(Te, src.BondCount(), dst.BondCount())
	lig, _ := dst.FindChain(DefaultLigandChain).Residues()
	require.Len(Te, lig, 2)
	num, _ := lig[1].Number()
	assert.Equal(Te, mol.ResNum{Num: 2, InsCode: 'B'}, num)

	seqres := SequenceList{"A": "GGGGG"}
	dst, err = Assemble(src, []v3.Transform{v3.Identity()}, seqres, opts)
	require.NoError(Te, err)
	assert.True(Te, dst.FindChain("A").IsValid())
	assert.False(Te, dst.FindChain(DefaultLigandChain).IsValid())
	assert.Equal(Te, src.BondCount(), dst.BondCount())

	//sequences for other chains are not used
	dst, err = Assemble(src, []v3.Transform{v3.Identity()}, SequenceList{"B": "GGGGG"}, opts)
	require.NoError(Te, err)
	assert.False(Te, dst.FindChain("A").IsValid())
}

func TestShiftToFit(Te *testing.T) {
	src := polymerSource(Te, 3, r3.Vec{X: 10050, Y: 5, Z: -3})
	shifts := testutil.ToFloat64(metrics.BiounitShifts)
	B := New(smallOptions())
	require.NoError(Te, B.Add(src, []v3.Transform{v3.Identity()}, nil))
	assert.True(Te, B.NeedsAdjustment())
	dst, err := B.Finish()
	require.NoError(Te, err)
	assert.Equal(Te, 1.0, testutil.ToFloat64(metrics.BiounitShifts)-shifts)
	box := dst.Bounds()
	assert.InDelta(Te, -999, box.Min.X, 1e-6)
	assert.InDelta(Te, -999, box.Min.Y, 1e-6)
	assert.InDelta(Te, -999, box.Min.Z, 1e-6)
	sp, dp := src.Positions(), dst.Positions()
	require.Equal(Te, sp.NVecs(), dp.NVecs())
	for i := 0; i < sp.NVecs(); i++ {
		for j := i + 1; j < sp.NVecs(); j++ {
			d1 := r3.Norm(r3.Sub(sp.Vec(i), sp.Vec(j)))
			d2 := r3.Norm(r3.Sub(dp.Vec(i), dp.Vec(j)))
			assert.InDelta(Te, d1, d2, 1e-6)
		}
	}

	//without shift the coordinates stay where they are
	opts := smallOptions()
	opts.ShiftToFit(false)
	dst, err = Assemble(src, []v3.Transform{v3.Identity()}, nil, opts)
	require.NoError(Te, err)
	assert.InDelta(Te, 10050, dst.Bounds().Min.X, 1e-6)
}

func TestNameSpaceExhausted(Te *testing.T) {
	src := polymerSource(Te, 3, r3.Vec{})
	opts := smallOptions()
	opts.ChainNames("AB")
	B := New(opts)
	err := B.Add(src, []v3.Transform{v3.Identity(), v3.Identity(), v3.Identity()}, nil)
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, mol.ErrNameSpaceExhausted))
	assert.True(Te, mol.IsCritical(err))
	//the chains already added are kept
	assert.Equal(Te, 2, B.Entity().ChainCount())
	assert.False(Te, B.Entity().TraceDirty())
}

func TestAltAtomsCopied(Te *testing.T) {
	src := mol.NewEntity("alt")
	require.NoError(Te, mol.WithEditor(src, mol.BufferedEdit, func(ed *mol.Editor) error {
		ch, _ := ed.InsertChain("A")
		require.NoError(Te, ed.SetChainType(ch, mol.ChainTypePolyPeptide))
		res, _ := ed.AppendResidue(ch, "SER")
		og, err := ed.InsertAltAtom(res, "OG", "A", r3.Vec{X: 1}, "O")
		require.NoError(Te, err)
		require.NoError(Te, ed.AddAltAtomPos("B", og, r3.Vec{X: 2}))
		require.NoError(Te, ed.SetAtomOccupancy(og, 0.5))
		require.NoError(Te, ed.SetAtomBFactor(og, 20))
		require.NoError(Te, ed.SetAtomHet(og, true))
		return ed.SwitchAltGroup(res, "B")
	}))
	opts := DefaultOptions()
	opts.MinPolymerSize(1)
	dst, err := Assemble(src, []v3.Transform{v3.Translation(r3.Vec{Y: 1})}, nil, opts)
	require.NoError(Te, err)
	residues, _ := dst.FindChain("A").Residues()
	require.Len(Te, residues, 1)
	groups, active, err := residues[0].AltGroups()
	require.NoError(Te, err)
	assert.Equal(Te, []string{"A", "B"}, groups)
	assert.Equal(Te, "B", active)
	og, err := residues[0].FindAtom("OG")
	require.NoError(Te, err)
	p, _ := og.Pos()
	assert.Equal(Te, r3.Vec{X: 2, Y: 1}, p)
	p, _ = og.AltPos("A")
	assert.Equal(Te, r3.Vec{X: 1, Y: 1}, p)
	info, _ := og.Info()
	assert.Equal(Te, "O", info.Element)
	assert.Equal(Te, 0.5, info.Occupancy)
	assert.Equal(Te, 20.0, info.BFactor)
	assert.True(Te, info.Het)
}

func TestLigandInsertionCodes(Te *testing.T) {
	keys := make([]string, maxLigandResidues+1)
	for i := range keys {
		keys[i] = "NAG"
	}
	src := mol.NewEntity("sugars")
	addChain(Te, src, "S", mol.ChainTypeLigand, keys[:maxLigandResidues]...)
	dst, err := Assemble(src, []v3.Transform{v3.Identity()}, nil, nil)
	require.NoError(Te, err)
	residues, err := dst.FindChain(DefaultLigandChain).Residues()
	require.NoError(Te, err)
	require.Len(Te, residues, 26)
	num, _ := residues[25].Number()
	assert.Equal(Te, mol.ResNum{Num: 26, InsCode: 'Z'}, num)

	long := mol.NewEntity("more sugars")
	addChain(Te, long, "S", mol.ChainTypeLigand, keys...)
	B := New(nil)
	err = B.Add(long, []v3.Transform{v3.Identity()}, nil)
	assert.True(Te, errors.Is(err, mol.ErrOutOfRange))
	assert.Equal(Te, 0, B.Entity().ResidueCount())
}

func TestInvalidOptions(Te *testing.T) {
	opts := DefaultOptions()
	opts.LigandChain("A")
	B := New(opts)
	err := B.Add(polymerSource(Te, 12, r3.Vec{}), []v3.Transform{v3.Identity()}, nil)
	assert.True(Te, errors.Is(err, mol.ErrDuplicateName))
	assert.Equal(Te, 0, B.Entity().ChainCount())
}
