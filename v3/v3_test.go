/*
 * v3_test.go, part of goMol.
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

package v3

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewMatrix(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	require.NoError(Te, err)
	assert.Equal(Te, 3, A.NVecs())
	assert.Equal(Te, r3.Vec{X: 4, Y: 5, Z: 6}, A.Vec(1))
	_, err = NewMatrix([]float64{1, 2, 3, 4})
	assert.Error(Te, err)
}

func TestVecViewShares(Te *testing.T) {
	A := Zeros(2)
	v := A.VecView(1)
	v.Set(0, 2, 7)
	assert.Equal(Te, 7.0, A.At(1, 2))
}

func TestSomeVecs(Te *testing.T) {
	A, err := FromVecs([]r3.Vec{{X: 1}, {Y: 2}, {Z: 3}})
	require.NoError(Te, err)
	B := Zeros(2)
	B.SomeVecs(A, []int{2, 0})
	assert.Equal(Te, r3.Vec{Z: 3}, B.Vec(0))
	assert.Equal(Te, r3.Vec{X: 1}, B.Vec(1))
	assert.Error(Te, B.SomeVecsSafe(A, []int{0, 1, 2}))
}

func TestBounds(Te *testing.T) {
	box := Bounds([]r3.Vec{{X: 1, Y: -2, Z: 3}, {X: -1, Y: 5, Z: 0}})
	assert.Equal(Te, r3.Vec{X: -1, Y: -2, Z: 0}, box.Min)
	assert.Equal(Te, r3.Vec{X: 1, Y: 5, Z: 3}, box.Max)
	assert.Equal(Te, r3.Box{}, Bounds(nil))
}

func TestTransform(Te *testing.T) {
	p := r3.Vec{X: 1, Y: 2, Z: 3}
	var zero Transform
	assert.Equal(Te, p, zero.Apply(p))
	assert.Equal(Te, p, Identity().Apply(p))

	tr := Translation(r3.Vec{X: 10, Y: -1})
	assert.Equal(Te, r3.Vec{X: 11, Y: 1, Z: 3}, tr.Apply(p))

	rot := Rotation(r3.Vec{Z: 1}, math.Pi/2)
	q := rot.Apply(r3.Vec{X: 1})
	assert.InDelta(Te, 0, q.X, 1e-12)
	assert.InDelta(Te, 1, q.Y, 1e-12)

	//translation after rotation
	c := tr.Mul(rot)
	q = c.Apply(r3.Vec{X: 1})
	assert.InDelta(Te, 10, q.X, 1e-12)
	assert.InDelta(Te, 0, q.Y, 1e-12)

	_, err := NewTransform([]float64{1, 2, 3})
	assert.Error(Te, err)
	_, err = NewTransform([]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 1, 0, 0, 1})
	assert.Error(Te, err)
}

func TestApplyMatrix(Te *testing.T) {
	A, err := FromVecs([]r3.Vec{{X: 1}, {Y: 1}})
	require.NoError(Te, err)
	t := Translation(r3.Vec{Z: 2}).Mul(Rotation(r3.Vec{Z: 1}, math.Pi))
	t.ApplyMatrix(A, A)
	assert.InDelta(Te, -1, A.At(0, 0), 1e-12)
	assert.InDelta(Te, 2, A.At(0, 2), 1e-12)
	assert.InDelta(Te, -1, A.At(1, 1), 1e-12)
}

func TestErrorDecorate(Te *testing.T) {
	_, err := NewTransform([]float64{1, 2, 3})
	var e *Error
	require.True(Te, errors.As(err, &e))
	assert.True(Te, e.Critical())
	assert.Equal(Te, []string{"NewTransform"}, e.Decorate(""))
	e.Decorate("Caller")
	assert.Equal(Te, []string{"Caller", "NewTransform"}, e.Decorate(""))
}
