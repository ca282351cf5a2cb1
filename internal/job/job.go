/*
 * job.go, part of goMol.
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

//Package job reads the YAML description of an assembly job: a source
//structure, the symmetry transforms to apply to it and the builder options.
package job

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	mol "github.com/rmera/gomol"
	"github.com/rmera/gomol/biounit"
	"github.com/rmera/gomol/internal/zfile"
	"github.com/rmera/gomol/v3"
)

//Job is an assembly job.
type Job struct {
	Name        string               `yaml:"name"`
	Options     *biounit.Options     `yaml:"options"`
	Sequences   biounit.SequenceList `yaml:"sequences"`
	Chains      []Chain              `yaml:"chains"`
	Bonds       []Bond               `yaml:"bonds"`
	Torsions    []Torsion            `yaml:"torsions"`
	AssignBonds bool                 `yaml:"assign_bonds"` //guess bonds from distances
	Transforms  []Transform          `yaml:"transforms"`
}

type Chain struct {
	Name        string            `yaml:"name"`
	Type        mol.ChainType     `yaml:"type"`
	Description string            `yaml:"description"`
	Props       map[string]string `yaml:"props"`
	Residues    []Residue         `yaml:"residues"`
}

type Residue struct {
	Name   string            `yaml:"name"`
	Number string            `yaml:"number"` //like "12" or "12A". Consecutive numbers if empty.
	Props  map[string]string `yaml:"props"`
	Atoms  []Atom            `yaml:"atoms"`
}

type Atom struct {
	Name      string               `yaml:"name"`
	Element   string               `yaml:"element"`
	Pos       []float64            `yaml:"pos"`
	Occupancy *float64             `yaml:"occupancy"` //1 if not given
	BFactor   float64              `yaml:"bfactor"`
	Het       bool                 `yaml:"het"`
	Alt       string               `yaml:"alt"`     //alternate location group
	AltPos    map[string][]float64 `yaml:"alt_pos"` //positions for other groups
}

//Bond joins two atoms, given as "chain/residue number/atom name".
type Bond struct {
	A      string  `yaml:"a"`
	B      string  `yaml:"b"`
	Order  int     `yaml:"order"`
	Length float64 `yaml:"length"`
	Theta  float64 `yaml:"theta"`
	Phi    float64 `yaml:"phi"`
}

type Torsion struct {
	Name  string    `yaml:"name"`
	Atoms [4]string `yaml:"atoms"`
}

//Transform is either a full 4x4 matrix, in row-major order, or a rotation
//(axis and angle in degrees) followed by a translation. An empty Transform
//is the identity.
type Transform struct {
	Matrix    []float64 `yaml:"matrix"`
	Axis      []float64 `yaml:"axis"`
	Angle     float64   `yaml:"angle"`
	Translate []float64 `yaml:"translate"`
}

//Load reads a job in YAML format from r.
func Load(r io.Reader) (*Job, error) {
	J := &Job{Options: biounit.DefaultOptions()}
	if err := yaml.NewDecoder(r).Decode(J); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty job")
		}
		return nil, fmt.Errorf("decoding job: %w", err)
	}
	if J.Options == nil {
		J.Options = biounit.DefaultOptions()
	}
	if err := J.Options.Validate(); err != nil {
		return nil, err
	}
	if J.Name == "" {
		J.Name = "job"
	}
	return J, nil
}

//ReadFile reads a job in YAML format from the file filename, which can be
//compressed with gzip or zstd.
func ReadFile(filename string) (*Job, error) {
	f, err := zfile.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	J, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return J, nil
}

func vec(v []float64, what string) (r3.Vec, error) {
	if len(v) != 3 {
		return r3.Vec{}, fmt.Errorf("%s needs 3 components, got %d", what, len(v))
	}
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
}

//Build creates the source entity described by the job, using a buffered
//editor.
func (J *Job) Build(logger *slog.Logger) (*mol.Entity, error) {
	ent := mol.NewEntity(J.Name, mol.WithLogger(logger))
	err := mol.WithEditor(ent, mol.BufferedEdit, func(ed *mol.Editor) error {
		for _, c := range J.Chains {
			if err := buildChain(ed, c); err != nil {
				return fmt.Errorf("chain %q: %w", c.Name, err)
			}
		}
		for i, b := range J.Bonds {
			if err := J.connect(ed, b); err != nil {
				return fmt.Errorf("bond %d: %w", i, err)
			}
		}
		for _, t := range J.Torsions {
			if err := addTorsion(ed, t); err != nil {
				return fmt.Errorf("torsion %q: %w", t.Name, err)
			}
		}
		if J.AssignBonds {
			n, err := ed.AssignBonds()
			if err != nil {
				return err
			}
			logger.Debug("bonds assigned", "entity", J.Name, "bonds", n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ent, nil
}

func buildChain(ed *mol.Editor, c Chain) error {
	ch, err := ed.InsertChain(c.Name)
	if err != nil {
		return err
	}
	if err := ed.SetChainType(ch, c.Type); err != nil {
		return err
	}
	if err := ed.SetChainDescription(ch, c.Description); err != nil {
		return err
	}
	for _, k := range mol.Props(c.Props).Keys() {
		if err := ed.SetChainProp(ch, k, c.Props[k]); err != nil {
			return err
		}
	}
	for _, r := range c.Residues {
		var res mol.ResidueHandle
		if r.Number == "" {
			res, err = ed.AppendResidue(ch, r.Name)
		} else {
			var num mol.ResNum
			if num, err = mol.ParseResNum(r.Number); err != nil {
				return err
			}
			res, err = ed.AppendResidue(ch, r.Name, num)
		}
		if err != nil {
			return err
		}
		for _, k := range mol.Props(r.Props).Keys() {
			if err := ed.SetResidueProp(res, k, r.Props[k]); err != nil {
				return err
			}
		}
		for _, a := range r.Atoms {
			if err := buildAtom(ed, res, a); err != nil {
				return fmt.Errorf("residue %s %s, atom %q: %w", r.Name, r.Number, a.Name, err)
			}
		}
	}
	return nil
}

func buildAtom(ed *mol.Editor, res mol.ResidueHandle, a Atom) error {
	pos, err := vec(a.Pos, "position")
	if err != nil {
		return err
	}
	occ := 1.0
	if a.Occupancy != nil {
		occ = *a.Occupancy
	}
	if a.Alt == "" {
		_, err = ed.InsertAtom(res, a.Name, pos, a.Element, occ, a.BFactor, a.Het)
		return err
	}
	at, err := ed.InsertAltAtom(res, a.Name, a.Alt, pos, a.Element)
	if err != nil {
		return err
	}
	if err := ed.SetAtomOccupancy(at, occ); err != nil {
		return err
	}
	if err := ed.SetAtomBFactor(at, a.BFactor); err != nil {
		return err
	}
	if err := ed.SetAtomHet(at, a.Het); err != nil {
		return err
	}
	groups := make([]string, 0, len(a.AltPos))
	for g := range a.AltPos {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	for _, g := range groups {
		p, err := vec(a.AltPos[g], "alternate position "+g)
		if err != nil {
			return err
		}
		if err := ed.AddAltAtomPos(g, at, p); err != nil {
			return err
		}
	}
	return nil
}

//FindAtom returns the atom of ent for a "chain/number/name" reference.
func FindAtom(ent *mol.Entity, ref string) (mol.AtomHandle, error) {
	parts := strings.Split(ref, "/")
	if len(parts) != 3 {
		return mol.AtomHandle{}, fmt.Errorf("atom reference %q is not chain/number/name", ref)
	}
	ch := ent.FindChain(parts[0])
	if !ch.IsValid() {
		return mol.AtomHandle{}, fmt.Errorf("no chain %q for %q", parts[0], ref)
	}
	num, err := mol.ParseResNum(parts[1])
	if err != nil {
		return mol.AtomHandle{}, err
	}
	res, err := ch.FindResidue(num)
	if err != nil || !res.IsValid() {
		return mol.AtomHandle{}, fmt.Errorf("no residue %s for %q", parts[1], ref)
	}
	at, err := res.FindAtom(parts[2])
	if err != nil || !at.IsValid() {
		return mol.AtomHandle{}, fmt.Errorf("no atom %s for %q", parts[2], ref)
	}
	return at, nil
}

//AtomRef returns the "chain/number/name" reference of a, the inverse of
//FindAtom.
func AtomRef(a mol.AtomHandle) (string, error) {
	name, err := a.Name()
	if err != nil {
		return "", err
	}
	res, err := a.Residue()
	if err != nil {
		return "", err
	}
	num, err := res.Number()
	if err != nil {
		return "", err
	}
	ch, err := res.Chain()
	if err != nil {
		return "", err
	}
	cname, err := ch.Name()
	if err != nil {
		return "", err
	}
	return cname + "/" + num.String() + "/" + name, nil
}

func (J *Job) connect(ed *mol.Editor, b Bond) error {
	a1, err := FindAtom(ed.Entity(), b.A)
	if err != nil {
		return err
	}
	a2, err := FindAtom(ed.Entity(), b.B)
	if err != nil {
		return err
	}
	order := b.Order
	if order <= 0 {
		order = 1
	}
	bo, err := ed.ConnectGeom(a1, a2, b.Length, b.Theta, b.Phi, order)
	if err != nil {
		return err
	}
	if !bo.IsValid() {
		return ed.LastRejection()
	}
	return nil
}

func addTorsion(ed *mol.Editor, t Torsion) error {
	var atoms [4]mol.AtomHandle
	for i, r := range t.Atoms {
		a, err := FindAtom(ed.Entity(), r)
		if err != nil {
			return err
		}
		atoms[i] = a
	}
	tor, err := ed.AddTorsion(t.Name, atoms[0], atoms[1], atoms[2], atoms[3])
	if err != nil {
		return err
	}
	if !tor.IsValid() {
		return ed.LastRejection()
	}
	return nil
}

//Transform returns the transform described by T.
func (T Transform) Transform() (v3.Transform, error) {
	if len(T.Matrix) > 0 {
		if len(T.Axis) > 0 || len(T.Translate) > 0 {
			return v3.Transform{}, fmt.Errorf("a transform matrix can't be combined with a rotation or translation")
		}
		return v3.NewTransform(T.Matrix)
	}
	ret := v3.Identity()
	if len(T.Axis) > 0 {
		axis, err := vec(T.Axis, "rotation axis")
		if err != nil {
			return ret, err
		}
		if r3.Norm(axis) == 0 {
			return ret, fmt.Errorf("null rotation axis")
		}
		ret = v3.Rotation(axis, T.Angle*deg2rad)
	}
	if len(T.Translate) > 0 {
		d, err := vec(T.Translate, "translation")
		if err != nil {
			return ret, err
		}
		ret = v3.Translation(d).Mul(ret)
	}
	return ret, nil
}

const deg2rad = math.Pi / 180

//TransformList returns the transforms of the job. A job without transforms
//gives a list with only the identity.
func (J *Job) TransformList() ([]v3.Transform, error) {
	if len(J.Transforms) == 0 {
		return []v3.Transform{v3.Identity()}, nil
	}
	ret := make([]v3.Transform, len(J.Transforms))
	for i, t := range J.Transforms {
		tf, err := t.Transform()
		if err != nil {
			return nil, fmt.Errorf("transform %d: %w", i, err)
		}
		ret[i] = tf
	}
	return ret, nil
}
