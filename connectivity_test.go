/*
 * connectivity_test.go, part of goMol.
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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

//copyResidue copies the atoms of src into a new residue of chain, displaced
//by shift. No bonds are copied.
func copyResidue(Te *testing.T, ed *Editor, chain ChainHandle, src ResidueHandle, shift r3.Vec) ResidueHandle {
	Te.Helper()
	name, err := src.Name()
	require.NoError(Te, err)
	num, err := src.Number()
	require.NoError(Te, err)
	res, err := ed.AppendResidue(chain, name, num)
	require.NoError(Te, err)
	atoms, err := src.Atoms()
	require.NoError(Te, err)
	for _, a := range atoms {
		info, err := a.Info()
		require.NoError(Te, err)
		_, err = ed.InsertAtom(res, info.Name, r3.Add(info.Pos, shift), info.Element, info.Occupancy, info.BFactor, info.Het)
		require.NoError(Te, err)
	}
	return res
}

func connectivitySource(Te *testing.T) (*Entity, map[string]AtomHandle, [2]ResidueHandle) {
	src, ats := testPeptide(Te, BufferedEdit)
	require.NoError(Te, WithEditor(src, BufferedEdit, func(ed *Editor) error {
		bonds, _ := ats["N2"].Bonds()
		require.NoError(Te, ed.DeleteBond(bonds[0]))
		b, err := ed.ConnectGeom(ats["C1"], ats["N2"], 1.33, 2.0, 3.1, 2)
		require.True(Te, b.IsValid())
		return err
	}))
	r1, err := ats["N1"].Residue()
	require.NoError(Te, err)
	r2, err := ats["N2"].Residue()
	require.NoError(Te, err)
	return src, ats, [2]ResidueHandle{r1, r2}
}

func TestTransferConnectivity(Te *testing.T) {
	src, _, sres := connectivitySource(Te)
	dst := NewEntity("assembly")
	m := make(ProvenanceMap)
	var chains [2]ChainHandle
	require.NoError(Te, WithEditor(dst, BufferedEdit, func(ed *Editor) error {
		for i, name := range []string{"A", "B"} {
			ch, err := ed.InsertChain(name)
			require.NoError(Te, err)
			chains[i] = ch
			//both copies overlap in space, so only the chain tells them apart.
			for _, s := range sres {
				m[copyResidue(Te, ed, ch, s, r3.Vec{})] = s
			}
		}
		return nil
	}))
	nb, nt, err := TransferConnectivity(dst, m)
	require.NoError(Te, err)
	assert.Equal(Te, 8, nb)
	assert.Equal(Te, 2, nt)
	assert.Equal(Te, 8, dst.BondCount())
	assert.False(Te, dst.TraceDirty())
	tr, _ := dst.Trace()
	assert.Len(Te, tr.Components(), 2)

	for _, ch := range chains {
		residues, err := ch.Residues()
		require.NoError(Te, err)
		c, err := residues[0].FindAtom("C")
		require.NoError(Te, err)
		n, err := residues[1].FindAtom("N")
		require.NoError(Te, err)
		partners, err := c.BondPartners()
		require.NoError(Te, err)
		assert.Contains(Te, partners, n)
		bonds, err := n.Bonds()
		require.NoError(Te, err)
		var found bool
		for _, b := range bonds {
			if other, _ := b.Other(n); other == c {
				found = true
				info, err := b.Info()
				require.NoError(Te, err)
				assert.Equal(Te, BondInfo{Order: 2, Length: 1.33, Theta: 2.0, Phi: 3.1}, info)
			}
		}
		assert.True(Te, found)
	}
	tors := dst.Torsions()
	require.Len(Te, tors, 2)
	for i, t := range tors {
		atoms, err := t.Atoms()
		require.NoError(Te, err)
		name, _ := t.Name()
		assert.Equal(Te, "psi", name)
		for _, a := range atoms {
			res, _ := a.Residue()
			ch, _ := res.Chain()
			assert.Equal(Te, chains[i], ch)
		}
	}
	//the source is not touched
	assert.Equal(Te, 4, src.BondCount())
}

func TestTransferConnectivityAcrossChains(Te *testing.T) {
	_, _, sres := connectivitySource(Te)
	dst := NewEntity("split")
	m := make(ProvenanceMap)
	require.NoError(Te, WithEditor(dst, BufferedEdit, func(ed *Editor) error {
		for i, name := range []string{"A", "B"} {
			ch, err := ed.InsertChain(name)
			require.NoError(Te, err)
			m[copyResidue(Te, ed, ch, sres[i], r3.Vec{})] = sres[i]
		}
		//a far away copy of the second residue
		ch, err := ed.InsertChain("C")
		require.NoError(Te, err)
		m[copyResidue(Te, ed, ch, sres[1], r3.Vec{X: 50})] = sres[1]
		return nil
	}))
	nb, nt, err := TransferConnectivity(dst, m)
	require.NoError(Te, err)
	//N-CA, CA-C, C-N and N-CA twice
	assert.Equal(Te, 5, nb)
	assert.Equal(Te, 1, nt)
	tr, _ := dst.Trace()
	assert.Len(Te, tr.Components(), 2)
	a, b := dst.FindChain("A"), dst.FindChain("B")
	ra, _ := a.Residues()
	rb, _ := b.Residues()
	c, _ := ra[0].FindAtom("C")
	n, _ := rb[0].FindAtom("N")
	p, err := dst.ShortestPath(c, n)
	require.NoError(Te, err)
	assert.Equal(Te, []AtomHandle{c, n}, p)
}

func TestTransferConnectivityInvalid(Te *testing.T) {
	_, _, sres := connectivitySource(Te)
	dst := NewEntity("bad")
	m := make(ProvenanceMap)
	var gone ResidueHandle
	require.NoError(Te, WithEditor(dst, BufferedEdit, func(ed *Editor) error {
		ch, _ := ed.InsertChain("A")
		m[copyResidue(Te, ed, ch, sres[0], r3.Vec{})] = sres[0]
		gone = copyResidue(Te, ed, ch, sres[1], r3.Vec{})
		m[gone] = sres[1]
		return ed.DeleteResidue(gone)
	}))
	nb, nt, err := TransferConnectivity(dst, m)
	assert.True(Te, errors.Is(err, ErrInvalidHandle))
	assert.Zero(Te, nb)
	assert.Zero(Te, nt)
	assert.Equal(Te, 0, dst.BondCount())
}
