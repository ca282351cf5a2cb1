/*
 * sequence.go, part of goMol.
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
	"sort"
	"unicode/utf8"
)

//SequenceList holds full (reference) sequences, in one-letter code, by
//chain name. The assembly builder only uses them to know the length of
//polymer chains with few resolved residues.
type SequenceList map[string]string

//Find returns the sequence for the chain name, if present.
func (S SequenceList) Find(name string) (string, bool) {
	if S == nil {
		return "", false
	}
	s, ok := S[name]
	return s, ok
}

//Length returns the number of residues in the sequence for chain name, and
//false if there is no such sequence.
func (S SequenceList) Length(name string) (int, bool) {
	s, ok := S.Find(name)
	if !ok {
		return 0, false
	}
	return utf8.RuneCountInString(s), true
}

//Names returns the chain names in the list, sorted.
func (S SequenceList) Names() []string {
	ret := make([]string, 0, len(S))
	for k := range S {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}
