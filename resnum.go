/*
 * resnum.go, part of goMol.
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
	"fmt"
	"strconv"
	"strings"
)

//ResNum is the number of a residue in its chain: an integer plus an
//optional insertion code. An insertion code of 0 means "none".
type ResNum struct {
	Num     int
	InsCode byte
}

//Less returns true if R goes before S. Residues without insertion code go
//before those with the same number and an insertion code.
func (R ResNum) Less(S ResNum) bool {
	if R.Num != S.Num {
		return R.Num < S.Num
	}
	return R.InsCode < S.InsCode
}

//Next returns the number following R, without insertion code.
func (R ResNum) Next() ResNum {
	return ResNum{Num: R.Num + 1}
}

//String returns the number followed by the insertion code, if any.
func (R ResNum) String() string {
	if R.InsCode == 0 {
		return strconv.Itoa(R.Num)
	}
	return fmt.Sprintf("%d%c", R.Num, R.InsCode)
}

//ParseResNum parses strings like "12" or "12A".
func ParseResNum(s string) (ResNum, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ResNum{}, NewError(KindOutOfRange, "ParseResNum", "empty residue number")
	}
	var ins byte
	last := s[len(s)-1]
	if (last < '0' || last > '9') && len(s) > 1 {
		ins = last
		s = s[:len(s)-1]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return ResNum{}, NewError(KindOutOfRange, "ParseResNum", "%q is not a residue number", s)
	}
	return ResNum{Num: n, InsCode: ins}, nil
}
