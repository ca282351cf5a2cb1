/*
 * doc.go, part of goMol.
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

/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

/*
Package v3 implements the geometric primitives used by goMol.

Matrix is a row-major Nx3 matrix, where each row is the cartesian
coordinates of a point. It is based on gonum's (gonum.org/v1/gonum) Dense type,
with some additional restrictions because of the fixed number of columns.

Transform is a 4x4 affine transformation (rotation+translation) acting on
r3.Vec points. Points are treated as column vectors, so T.Mul(U) applied to p
is T(U(p)).
*/
package v3
