/*
 * props.go, part of goMol.
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

import "sort"

//Props is a bag of string properties attached to chains and residues.
type Props map[string]string

//Keys returns the property names, sorted.
func (P Props) Keys() []string {
	keys := make([]string, 0, len(P))
	for k := range P {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

//Copy returns a copy of P. The copy of a nil Props is an empty, non-nil, Props.
func (P Props) Copy() Props {
	c := make(Props, len(P))
	for k, v := range P {
		c[k] = v
	}
	return c
}
