/*
 * chaintype.go, part of goMol.
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

import "strings"

//ChainType classifies the contents of a chain.
type ChainType int

const (
	ChainTypeUnknown ChainType = iota
	ChainTypePolymer
	ChainTypePolyPeptide
	ChainTypePolyNucleotide
	ChainTypePolySaccharide
	ChainTypeLigand
	ChainTypeWater
	ChainTypeOther
)

var chainTypeNames = []string{"unknown", "polymer", "polypeptide", "polynucleotide", "polysaccharide", "ligand", "water", "other"}

func (C ChainType) String() string {
	if C < 0 || int(C) >= len(chainTypeNames) {
		return "unknown"
	}
	return chainTypeNames[C]
}

//IsPolymer returns true for all the polymer types.
func (C ChainType) IsPolymer() bool {
	return C == ChainTypePolymer || C == ChainTypePolyPeptide || C == ChainTypePolyNucleotide || C == ChainTypePolySaccharide
}

//ParseChainType returns the ChainType named s (case insensitive).
//"non-polymer" is accepted as a synonym for ligand.
func ParseChainType(s string) (ChainType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "non-polymer" || s == "nonpolymer" {
		return ChainTypeLigand, nil
	}
	for i, v := range chainTypeNames {
		if v == s {
			return ChainType(i), nil
		}
	}
	return ChainTypeUnknown, NewError(KindOutOfRange, "ParseChainType", "unknown chain type %q", s)
}

//MarshalText implements encoding.TextMarshaler.
func (C ChainType) MarshalText() ([]byte, error) {
	return []byte(C.String()), nil
}

//UnmarshalText implements encoding.TextUnmarshaler.
func (C *ChainType) UnmarshalText(b []byte) error {
	t, err := ParseChainType(string(b))
	if err != nil {
		return err
	}
	*C = t
	return nil
}
