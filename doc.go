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
Package mol is the main package of the goMol library. It provides an
in-memory, editable, representation of molecular structures.

	**goMol Capabilities**

    An Entity owns chains, which own residues, which own atoms. Bonds and
	torsions join atoms across that hierarchy and are owned by the Entity.

    Objects are accessed through handles (ChainHandle, ResidueHandle,
	AtomHandle, BondHandle, TorsionHandle), which are cheap to copy and
	compare. A handle to a deleted object is invalid, and reading through it
	returns an error, never garbage. Reused storage can't make an old handle
	valid again.

    All modifications go through an Editor. Only one Editor can be active for
	an Entity at a time. Deleting an object deletes everything it owns, and
	every bond and torsion involving the deleted atoms.

    The bond graph is summarized in a Trace (connected components and bond
	directions). Unbuffered editors recompute it after every change in the
	topology. Buffered editors only mark it as dirty, and recompute it once,
	when closed, or when asked to.

    Connectivity can be transferred from one entity to another, for residues
	that were copied, using a ProvenanceMap.

    Distance-based bond assignment.

The biounit sub-package builds biological assemblies from asymmetric units,
and the trajan sub-package extracts geometric data from sets of coordinate
frames. v3 contains the geometric primitives.

The typical use is

	ent := mol.NewEntity("1abc")
	ed := ent.Edit(mol.BufferedEdit)
	defer ed.Close()
	ch, err := ed.InsertChain("A")
	...

*/
package mol
