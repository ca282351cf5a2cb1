/*
 * transform.go, part of goMol.
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
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

//Transform is a 4x4 affine transformation. The zero value is the identity.
type Transform struct {
	m *mat.Dense
}

//Identity returns the identity transformation.
func Identity() Transform {
	d := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		d.Set(i, i, 1)
	}
	return Transform{d}
}

//NewTransform builds a transformation from 16 elements in row-major order.
//The last row is expected to be 0 0 0 1, otherwise an error is returned.
func NewTransform(vals []float64) (Transform, error) {
	if len(vals) != 16 {
		return Transform{}, &Error{fmt.Sprintf("%d elements given for a 4x4 transform", len(vals)), []string{"NewTransform"}, true}
	}
	last := vals[12:]
	if last[0] != 0 || last[1] != 0 || last[2] != 0 || last[3] != 1 {
		return Transform{}, &Error{fmt.Sprintf("Not an affine transform, last row: %v", last), []string{"NewTransform"}, true}
	}
	d := make([]float64, 16)
	copy(d, vals)
	return Transform{mat.NewDense(4, 4, d)}, nil
}

//MustTransform is like NewTransform but panics on error.
func MustTransform(vals []float64) Transform {
	t, err := NewTransform(vals)
	if err != nil {
		panic(ErrNot4x4)
	}
	return t
}

//Translation returns a transformation that displaces points by d.
func Translation(d r3.Vec) Transform {
	t := Identity()
	t.m.Set(0, 3, d.X)
	t.m.Set(1, 3, d.Y)
	t.m.Set(2, 3, d.Z)
	return t
}

//Rotation returns a transformation that rotates points by angle (radians)
//around axis, which goes through the origin.
func Rotation(axis r3.Vec, angle float64) Transform {
	u := r3.Unit(axis)
	c := math.Cos(angle)
	s := math.Sin(angle)
	t := 1 - c
	return MustTransform([]float64{
		t*u.X*u.X + c, t*u.X*u.Y - s*u.Z, t*u.X*u.Z + s*u.Y, 0,
		t*u.X*u.Y + s*u.Z, t*u.Y*u.Y + c, t*u.Y*u.Z - s*u.X, 0,
		t*u.X*u.Z - s*u.Y, t*u.Y*u.Z + s*u.X, t*u.Z*u.Z + c, 0,
		0, 0, 0, 1,
	})
}

func (T Transform) dense() *mat.Dense {
	if T.m == nil {
		return Identity().m
	}
	return T.m
}

//At returns the element i,j of the transformation.
func (T Transform) At(i, j int) float64 {
	return T.dense().At(i, j)
}

//Mul returns the composition T*U, i.e. U is applied first.
func (T Transform) Mul(U Transform) Transform {
	r := mat.NewDense(4, 4, nil)
	r.Mul(T.dense(), U.dense())
	return Transform{r}
}

//Apply returns the transformed point.
func (T Transform) Apply(p r3.Vec) r3.Vec {
	if T.m == nil {
		return p
	}
	m := T.m
	return r3.Vec{
		X: m.At(0, 0)*p.X + m.At(0, 1)*p.Y + m.At(0, 2)*p.Z + m.At(0, 3),
		Y: m.At(1, 0)*p.X + m.At(1, 1)*p.Y + m.At(1, 2)*p.Z + m.At(1, 3),
		Z: m.At(2, 0)*p.X + m.At(2, 1)*p.Y + m.At(2, 2)*p.Z + m.At(2, 3),
	}
}

//ApplyMatrix puts in F the vectors of A, transformed by T.
//F and A can be the same matrix.
func (T Transform) ApplyMatrix(F, A *Matrix) {
	if F.NVecs() != A.NVecs() {
		panic(ErrShape)
	}
	d := T.dense()
	rot := d.Slice(0, 3, 0, 3)
	tmp := mat.NewDense(A.NVecs(), 3, nil)
	tmp.Mul(A.Dense, rot.T())
	for i := 0; i < A.NVecs(); i++ {
		F.Set(i, 0, tmp.At(i, 0)+d.At(0, 3))
		F.Set(i, 1, tmp.At(i, 1)+d.At(1, 3))
		F.Set(i, 2, tmp.At(i, 2)+d.At(2, 3))
	}
}

//Equal reports whether all the elements of T and U differ by no more than tol.
func (T Transform) Equal(U Transform, tol float64) bool {
	return mat.EqualApprox(T.dense(), U.dense(), tol)
}

//String returns the transformation as 4 lines of text.
func (T Transform) String() string {
	return fmt.Sprintf("%v", mat.Formatted(T.dense()))
}
