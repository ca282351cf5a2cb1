/*
 * helpers_test.go, part of goMol.
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

//testPeptide builds an entity with a chain "A" with two residues,
//ALA 1 (N, CA, C) and GLY 2 (N, CA), bonded along the backbone, plus
//a torsion N1-CA1-C1-N2.
func testPeptide(Te *testing.T, mode EditMode) (*Entity, map[string]AtomHandle) {
	Te.Helper()
	ent := NewEntity("pep")
	ats := make(map[string]AtomHandle)
	ed := ent.Edit(mode)
	defer ed.Close()
	ch, err := ed.InsertChain("A")
	require.NoError(Te, err)
	require.NoError(Te, ed.SetChainType(ch, ChainTypePolyPeptide))
	r1, err := ed.AppendResidue(ch, "ALA")
	require.NoError(Te, err)
	r2, err := ed.AppendResidue(ch, "GLY")
	require.NoError(Te, err)
	add := func(res ResidueHandle, key, name, ele string, x float64) {
		a, err := ed.InsertAtom(res, name, r3.Vec{X: x}, ele, 1, 20, false)
		require.NoError(Te, err)
		ats[key] = a
	}
	add(r1, "N1", "N", "N", 0)
	add(r1, "CA1", "CA", "C", 1.5)
	add(r1, "C1", "C", "C", 3)
	add(r2, "N2", "N", "N", 4.3)
	add(r2, "CA2", "CA", "C", 5.8)
	for _, p := range [][2]string{{"N1", "CA1"}, {"CA1", "C1"}, {"C1", "N2"}, {"N2", "CA2"}} {
		b, err := ed.Connect(ats[p[0]], ats[p[1]])
		require.NoError(Te, err)
		require.True(Te, b.IsValid())
	}
	t, err := ed.AddTorsion("psi", ats["N1"], ats["CA1"], ats["C1"], ats["N2"])
	require.NoError(Te, err)
	require.True(Te, t.IsValid())
	return ent, ats
}

func vecNear(Te *testing.T, expected, actual r3.Vec) {
	Te.Helper()
	assert.InDelta(Te, expected.X, actual.X, 1e-9)
	assert.InDelta(Te, expected.Y, actual.Y, 1e-9)
	assert.InDelta(Te, expected.Z, actual.Z, 1e-9)
}
