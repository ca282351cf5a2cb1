/*
 * builder.go, part of goMol.
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

//Package biounit builds biological assemblies (biounits) from an
//asymmetric unit and a list of symmetry transforms.
//
//Each transform produces a copy of every polymer chain, with a new name
//taken from an ordered alphabet. Waters from all chains and transforms
//are collected in a single chain, and so are ligands and other small
//chains. The connectivity of the source is rebuilt in the assembly when
//it is finished, and the assembly can be translated so its coordinates
//fit the fixed-width fields of the PDB format.
package biounit

import (
	"io"
	"log/slog"
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"

	mol "github.com/rmera/gomol"
	"github.com/rmera/gomol/internal/metrics"
	"github.com/rmera/gomol/v3"
)

//Builder builds one assembly. It is not safe for concurrent use.
type Builder struct {
	opts   *Options
	logger *slog.Logger
	name   string
	dst    *mol.Entity

	names    []rune
	next     int
	ligand   mol.ChainHandle
	water    mol.ChainHandle
	lastRnum int

	prov            mol.ProvenanceMap
	needsAdjustment bool
	finished        bool
}

//Option configures a Builder.
type Option func(*Builder)

//WithLogger sets the logger for the builder and the assembly entity.
func WithLogger(logger *slog.Logger) Option {
	return func(B *Builder) {
		if logger != nil {
			B.logger = logger
		}
	}
}

//WithName sets the name of the assembly entity. The default is "biounit".
func WithName(name string) Option {
	return func(B *Builder) {
		B.name = name
	}
}

//New returns a builder for a new, empty, assembly. If opts is nil,
//DefaultOptions are used. The options are copied.
func New(opts *Options, options ...Option) *Builder {
	if opts == nil {
		opts = DefaultOptions()
	}
	o := *opts
	B := &Builder{
		opts:   &o,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		name:   "biounit",
		names:  []rune(o.chainNames),
		prov:   make(mol.ProvenanceMap),
	}
	for _, f := range options {
		f(B)
	}
	B.dst = mol.NewEntity(B.name, mol.WithLogger(B.logger))
	return B
}

//Entity returns the assembly being built.
func (B *Builder) Entity() *mol.Entity { return B.dst }

//NeedsAdjustment returns true if some coordinate copied so far is out of
//the range set in the options.
func (B *Builder) NeedsAdjustment() bool { return B.needsAdjustment }

//Provenance returns a copy of the map from assembly residues to the
//source residues they were copied from.
func (B *Builder) Provenance() mol.ProvenanceMap {
	ret := make(mol.ProvenanceMap, len(B.prov))
	for k, v := range B.prov {
		ret[k] = v
	}
	return ret
}

//Add copies the chains of src into the assembly, once for each transform
//in transforms. seqres can be nil. If it is not, it is used to get the
//length of polymer chains that have fewer residues than the minimum
//polymer size.
//
//If the alphabet of polymer chain names runs out, a critical
//NameSpaceExhausted error is returned. The chains already added are
//kept in the assembly.
func (B *Builder) Add(src *mol.Entity, transforms []v3.Transform, seqres SequenceList) error {
	const caller = "Builder.Add"
	if B.finished {
		return mol.NewError(mol.KindEditorClosed, caller, "assembly %s already finished", B.dst.Name())
	}
	if err := B.opts.Validate(); err != nil {
		return errDecorate(err, caller)
	}
	chains := src.Chains()
	err := mol.WithEditor(B.dst, mol.BufferedEdit, func(ed *mol.Editor) error {
		for ti, t := range transforms {
			for _, ch := range chains {
				if err := B.addChain(ed, ch, t, seqres); err != nil {
					return errDecorate(err, "transform "+strconv.Itoa(ti))
				}
			}
		}
		return nil
	})
	if err != nil {
		return errDecorate(err, caller)
	}
	B.logger.Info("chains added to assembly", "assembly", B.dst.Name(), "source", src.Name(),
		"transforms", len(transforms), "chains", B.dst.ChainCount(), "needs_adjustment", B.needsAdjustment)
	return nil
}

func (B *Builder) addChain(ed *mol.Editor, ch mol.ChainHandle, t v3.Transform, seqres SequenceList) error {
	name, err := ch.Name()
	if err != nil {
		return err
	}
	ctype, _ := ch.Type()
	length, _ := ch.ResidueCount()
	if length < B.opts.minPolymerSize {
		if l, ok := seqres.Length(name); ok {
			length = l
		}
	}
	switch {
	case ctype.IsPolymer() && length >= B.opts.minPolymerSize:
		return B.addPolymer(ed, ch, name, ctype, t)
	case ctype == mol.ChainTypeWater:
		return B.addWater(ed, ch, ctype, t)
	default:
		return B.addLigand(ed, ch, name, ctype, t)
	}
}

//nextChainName returns the next unused name in the alphabet.
func (B *Builder) nextChainName() (string, error) {
	for B.next < len(B.names) {
		name := string(B.names[B.next])
		B.next++
		if !B.dst.FindChain(name).IsValid() {
			return name, nil
		}
	}
	return "", mol.NewError(mol.KindNameSpaceExhausted, "nextChainName", "running out of chain names (%d used)", len(B.names))
}

func (B *Builder) addPolymer(ed *mol.Editor, ch mol.ChainHandle, name string, ctype mol.ChainType, t v3.Transform) error {
	newName, err := B.nextChainName()
	if err != nil {
		return err
	}
	nch, err := ed.InsertChain(newName)
	if err != nil {
		return err
	}
	desc, _ := ch.Description()
	if err := ed.SetChainDescription(nch, desc); err != nil {
		return err
	}
	if err := ed.SetChainType(nch, ctype); err != nil {
		return err
	}
	if err := ed.SetChainProp(nch, "original_name", name); err != nil {
		return err
	}
	if auth, ok, _ := ch.Prop("pdb_auth_chain_name"); ok {
		if err := ed.SetChainProp(nch, "pdb_auth_chain_name", auth); err != nil {
			return err
		}
	}
	residues, err := ch.Residues()
	if err != nil {
		return err
	}
	for _, r := range residues {
		key, _ := r.Name()
		num, _ := r.Number()
		nres, err := ed.AppendResidue(nch, key, num)
		if err != nil {
			return err
		}
		if err := B.copyAtoms(ed, r, nres, t); err != nil {
			return err
		}
	}
	metrics.BiounitChains.WithLabelValues("polymer").Inc()
	B.logger.Debug("polymer chain copied", "source", name, "chain", newName, "residues", len(residues))
	return nil
}

func (B *Builder) addWater(ed *mol.Editor, ch mol.ChainHandle, ctype mol.ChainType, t v3.Transform) error {
	desc, _ := ch.Description()
	if !B.water.IsValid() {
		w, err := ed.InsertChain(B.opts.waterChain)
		if err != nil {
			return err
		}
		if err := ed.SetChainDescription(w, desc); err != nil {
			return err
		}
		if err := ed.SetChainType(w, ctype); err != nil {
			return err
		}
		B.water = w
	}
	residues, err := ch.Residues()
	if err != nil {
		return err
	}
	for _, r := range residues {
		key, _ := r.Name()
		nres, err := ed.AppendResidue(B.water, key)
		if err != nil {
			return err
		}
		if err := ed.SetResidueProp(nres, "type", ctype.String()); err != nil {
			return err
		}
		if err := ed.SetResidueProp(nres, "description", desc); err != nil {
			return err
		}
		if err := B.copyAtoms(ed, r, nres, t); err != nil {
			return err
		}
	}
	metrics.BiounitChains.WithLabelValues("water").Inc()
	return nil
}

//maxLigandResidues is the number of insertion codes, 'A' to 'Z'.
const maxLigandResidues = 'Z' - 'A' + 1

//addLigand copies the residues of ch to the ligand chain. Residues are
//numbered sequentially. If ch has more than one residue, they also get
//consecutive insertion codes, from 'A' to 'Z'. Chains with more residues
//than insertion codes are rejected with an OutOfRange error before
//anything is copied.
func (B *Builder) addLigand(ed *mol.Editor, ch mol.ChainHandle, name string, ctype mol.ChainType, t v3.Transform) error {
	residues, err := ch.Residues()
	if err != nil {
		return err
	}
	if len(residues) > maxLigandResidues {
		return mol.NewError(mol.KindOutOfRange, "addLigand", "ligand chain %s has %d residues, at most %d can get insertion codes", name, len(residues), maxLigandResidues)
	}
	if !B.ligand.IsValid() {
		l, err := ed.InsertChain(B.opts.ligandChain)
		if err != nil {
			return err
		}
		if err := ed.SetChainType(l, mol.ChainTypeLigand); err != nil {
			return err
		}
		B.ligand = l
		B.lastRnum = 0
	}
	desc, _ := ch.Description()
	auth, hasAuth, _ := ch.Prop("pdb_auth_chain_name")
	var ins byte
	if len(residues) > 1 {
		ins = 'A'
	}
	for _, r := range residues {
		key, _ := r.Name()
		B.lastRnum++
		nres, err := ed.AppendResidue(B.ligand, key, mol.ResNum{Num: B.lastRnum, InsCode: ins})
		if err != nil {
			return err
		}
		props := [][2]string{{"type", ctype.String()}, {"description", desc}, {"original_name", name}}
		if hasAuth {
			props = append(props, [2]string{"pdb_auth_chain_name", auth})
		}
		for _, p := range props {
			if err := ed.SetResidueProp(nres, p[0], p[1]); err != nil {
				return err
			}
		}
		if err := B.copyAtoms(ed, r, nres, t); err != nil {
			return err
		}
		if ins != 0 {
			ins++
		}
	}
	metrics.BiounitChains.WithLabelValues("ligand").Inc()
	B.logger.Debug("ligand chain copied", "source", name, "residues", len(residues))
	return nil
}

//copyAtoms copies the atoms of src into dst, transformed by t, and records
//dst in the provenance map. Bonds are not copied.
func (B *Builder) copyAtoms(ed *mol.Editor, src, dst mol.ResidueHandle, t v3.Transform) error {
	B.prov[dst] = src
	atoms, err := src.Atoms()
	if err != nil {
		return err
	}
	groups, active, err := src.AltGroups()
	if err != nil {
		return err
	}
	for _, a := range atoms {
		info, err := a.Info()
		if err != nil {
			return err
		}
		if info.AltGroup == "" {
			pos := t.Apply(info.Pos)
			B.check(pos)
			if _, err := ed.InsertAtom(dst, info.Name, pos, info.Element, info.Occupancy, info.BFactor, info.Het); err != nil {
				return err
			}
			continue
		}
		first, _ := a.AltPos(info.AltGroup)
		first = t.Apply(first)
		B.check(first)
		na, err := ed.InsertAltAtom(dst, info.Name, info.AltGroup, first, info.Element)
		if err != nil {
			return err
		}
		if err := ed.SetAtomOccupancy(na, info.Occupancy); err != nil {
			return err
		}
		if err := ed.SetAtomBFactor(na, info.BFactor); err != nil {
			return err
		}
		if err := ed.SetAtomHet(na, info.Het); err != nil {
			return err
		}
		for _, g := range groups {
			if g == info.AltGroup {
				continue
			}
			p, err := a.AltPos(g)
			if err != nil {
				continue
			}
			p = t.Apply(p)
			B.check(p)
			if err := ed.AddAltAtomPos(g, na, p); err != nil {
				return err
			}
		}
	}
	if active != "" {
		return ed.SwitchAltGroup(dst, active)
	}
	return nil
}

func (B *Builder) check(p r3.Vec) {
	for _, v := range [3]float64{p.X, p.Y, p.Z} {
		if B.opts.OutOfRange(v) {
			B.needsAdjustment = true
		}
	}
}

//Finish completes the assembly. If some coordinate is out of range and the
//options ask for it, the assembly is translated so the minimum of its
//bounding box lands at the safe offset. Then the bonds and torsions of the
//sources are rebuilt in the assembly. A finished builder doesn't accept
//more chains. Calling Finish again just returns the assembly.
func (B *Builder) Finish() (*mol.Entity, error) {
	if B.finished {
		return B.dst, nil
	}
	B.finished = true
	if B.needsAdjustment && B.opts.shiftToFit {
		lo := B.dst.Bounds().Min
		off := B.opts.safeOffset
		shift := r3.Vec{X: off - lo.X, Y: off - lo.Y, Z: off - lo.Z}
		err := mol.WithEditor(B.dst, mol.UnbufferedEdit, func(ed *mol.Editor) error {
			return ed.ApplyTransform(v3.Translation(shift))
		})
		if err != nil {
			return B.dst, errDecorate(err, "Builder.Finish")
		}
		metrics.BiounitShifts.Inc()
		B.logger.Info("assembly shifted to fit", "assembly", B.dst.Name(), "x", shift.X, "y", shift.Y, "z", shift.Z)
	}
	bonds, tors, err := mol.TransferConnectivity(B.dst, B.prov)
	if err != nil {
		return B.dst, errDecorate(err, "Builder.Finish")
	}
	B.logger.Info("assembly finished", "assembly", B.dst.Name(), "chains", B.dst.ChainCount(),
		"atoms", B.dst.AtomCount(), "bonds", bonds, "torsions", tors)
	return B.dst, nil
}

//Assemble builds and finishes the assembly of src under transforms, with
//the given options (DefaultOptions if nil).
func Assemble(src *mol.Entity, transforms []v3.Transform, seqres SequenceList, opts *Options, options ...Option) (*mol.Entity, error) {
	B := New(opts, options...)
	if err := B.Add(src, transforms, seqres); err != nil {
		return B.Entity(), err
	}
	return B.Finish()
}
