/*
 * gonum.go, part of goMol.
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
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

//Matrix is a set of vectors in 3D space. Within the package it is understood
//that a "vector" is a row vector, i.e. the cartesian coordinates of a point in
//3D space.
type Matrix struct {
	*mat.Dense
}

//Zeros returns a zero-filled Matrix with vecs vectors.
func Zeros(vecs int) *Matrix {
	if vecs <= 0 {
		panic(ErrShape)
	}
	return &Matrix{mat.NewDense(vecs, 3, nil)}
}

//NewMatrix generates and returns a Matrix with 3 columns from data.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	rows := l / cols
	if l == 0 || l%cols != 0 {
		return nil, &Error{fmt.Sprintf("Input slice length %d not divisible by %d", l, cols), []string{"NewMatrix"}, true}
	}
	return &Matrix{mat.NewDense(rows, cols, data)}, nil
}

//FromVecs puts the given points, in order, in a new Matrix.
func FromVecs(vecs []r3.Vec) (*Matrix, error) {
	if len(vecs) == 0 {
		return nil, &Error{"No vectors given", []string{"FromVecs"}, true}
	}
	F := Zeros(len(vecs))
	for i, v := range vecs {
		F.SetVec(i, v)
	}
	return F, nil
}

//NVecs returns the number of vecs in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return r
}

//VecView returns a view of the ith vector of the matrix. Changes in the view
//are reflected in F and vice-versa.
func (F *Matrix) VecView(i int) *Matrix {
	r := F.Dense.Slice(i, i+1, 0, 3).(*mat.Dense)
	return &Matrix{r}
}

//Vec returns a copy of the ith vector of F as a r3.Vec.
func (F *Matrix) Vec(i int) r3.Vec {
	return r3.Vec{X: F.At(i, 0), Y: F.At(i, 1), Z: F.At(i, 2)}
}

//SetVec replaces the ith vector of F by v.
func (F *Matrix) SetVec(i int, v r3.Vec) {
	F.Set(i, 0, v.X)
	F.Set(i, 1, v.Y)
	F.Set(i, 2, v.Z)
}

//Vecs returns all the vectors in F as r3.Vec, in order.
func (F *Matrix) Vecs() []r3.Vec {
	ret := make([]r3.Vec, F.NVecs())
	for i := range ret {
		ret[i] = F.Vec(i)
	}
	return ret
}

//SomeVecs puts in F the vectors of A with the indexes given in clist.
//It panics if F doesn't have len(clist) vectors or an index is out of range.
func (F *Matrix) SomeVecs(A *Matrix, clist []int) {
	if F.NVecs() != len(clist) {
		panic(ErrShape)
	}
	for key, val := range clist {
		F.SetVec(key, A.Vec(val))
	}
}

//SomeVecsSafe is the same as SomeVecs but returns an error instead of panicking.
func (F *Matrix) SomeVecsSafe(A *Matrix, clist []int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Error{fmt.Sprintf("%v", r), []string{"SomeVecsSafe"}, true}
		}
	}()
	F.SomeVecs(A, clist)
	return nil
}

//Dup returns a copy of F that doesn't share memory with it.
func (F *Matrix) Dup() *Matrix {
	return &Matrix{mat.DenseCopyOf(F.Dense)}
}

//Bounds returns the axis-aligned box that contains all the vectors in F.
func (F *Matrix) Bounds() r3.Box {
	return Bounds(F.Vecs())
}

//String returns a string representation of F, one vector per line.
func (F *Matrix) String() string {
	var b strings.Builder
	for i := 0; i < F.NVecs(); i++ {
		v := F.Vec(i)
		fmt.Fprintf(&b, "%8.3f %8.3f %8.3f\n", v.X, v.Y, v.Z)
	}
	return b.String()
}

//Bounds returns the axis-aligned box containing all the points in vs.
//It returns the zero Box for an empty slice.
func Bounds(vs []r3.Vec) r3.Box {
	if len(vs) == 0 {
		return r3.Box{}
	}
	box := r3.Box{Min: vs[0], Max: vs[0]}
	for _, v := range vs[1:] {
		box.Min.X = min(box.Min.X, v.X)
		box.Min.Y = min(box.Min.Y, v.Y)
		box.Min.Z = min(box.Min.Z, v.Z)
		box.Max.X = max(box.Max.X, v.X)
		box.Max.Y = max(box.Max.Y, v.Y)
		box.Max.Z = max(box.Max.Z, v.Z)
	}
	return box
}

//Errors

//Error is the error type of the package. It carries the functions in the
//calling stack (the "decoration") and whether the error is critical.
type Error struct {
	message  string
	deco     []string
	critical bool
}

//Error returns a string with an error message.
func (err *Error) Error() string {
	return err.message
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice. The outermost caller goes first.
func (err *Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append([]string{dec}, err.deco...)
	return err.deco
}

//Critical return whether the error is critical or it can be ignored
func (err *Error) Critical() bool { return err.critical }

//PanicMsg is a message used for panics, even though it does satisfy the error interface.
//for errors use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNotXx3Matrix = PanicMsg("goMol/v3: A v3.Matrix should have 3 columns")
	ErrShape        = PanicMsg("goMol/v3: Dimension mismatch")
	ErrNot4x4       = PanicMsg("goMol/v3: A Transform needs 16 elements")
)
