/*
 * options.go, part of goMol.
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
	"errors"
	"io"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	mol "github.com/rmera/gomol"
	"github.com/rmera/gomol/internal/zfile"
)

//Default values for the builder options.
const (
	DefaultChainNames     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789abcdefghijklmnopqrstuvwxyz"
	DefaultLigandChain    = "_"
	DefaultWaterChain     = "-"
	DefaultMinPolymerSize = 10
)

//Options contains the options for the assembly builder.
type Options struct {
	minPolymerSize int
	shiftToFit     bool
	safeOffset     float64 //where the minimum of the bounding box goes after a shift
	lower          float64 //coordinates <= lower need a shift
	upper          float64 //coordinates >= upper need a shift
	chainNames     string
	ligandChain    string
	waterChain     string
}

//DefaultOptions returns options suitable for structures that will be
//written in the PDB format.
func DefaultOptions() *Options {
	return &Options{
		minPolymerSize: DefaultMinPolymerSize,
		shiftToFit:     true,
		safeOffset:     -999,
		lower:          -1000,
		upper:          10000,
		chainNames:     DefaultChainNames,
		ligandChain:    DefaultLigandChain,
		waterChain:     DefaultWaterChain,
	}
}

//Returns the minimum number of residues for a polymer chain to get its
//own chain in the assembly, and sets it to a new value, if given.
func (O *Options) MinPolymerSize(n ...int) int {
	if len(n) > 0 && n[0] >= 0 {
		O.minPolymerSize = n[0]
	}
	return O.minPolymerSize
}

//Returns whether out-of-range assemblies are translated on Finish,
//and sets it to a new value, if given.
func (O *Options) ShiftToFit(shift ...bool) bool {
	if len(shift) > 0 {
		O.shiftToFit = shift[0]
	}
	return O.shiftToFit
}

//Returns the value that the minimum of each coordinate takes after a shift,
//and sets it to a new value, if given.
func (O *Options) SafeOffset(off ...float64) float64 {
	if len(off) > 0 {
		O.safeOffset = off[0]
	}
	return O.safeOffset
}

//Returns the lower coordinate limit, and sets it to a new value, if given.
//Coordinates equal to or smaller than the limit are out of range.
func (O *Options) LowerLimit(l ...float64) float64 {
	if len(l) > 0 {
		O.lower = l[0]
	}
	return O.lower
}

//Returns the upper coordinate limit, and sets it to a new value, if given.
//Coordinates equal to or larger than the limit are out of range.
func (O *Options) UpperLimit(l ...float64) float64 {
	if len(l) > 0 {
		O.upper = l[0]
	}
	return O.upper
}

//Returns the ordered alphabet of names for polymer chains, and sets it
//to a new value, if given. Each character is a name.
func (O *Options) ChainNames(names ...string) string {
	if len(names) > 0 && names[0] != "" {
		O.chainNames = names[0]
	}
	return O.chainNames
}

//Returns the name of the chain that collects ligands, and sets it
//to a new value, if given.
func (O *Options) LigandChain(name ...string) string {
	if len(name) > 0 && name[0] != "" {
		O.ligandChain = name[0]
	}
	return O.ligandChain
}

//Returns the name of the chain that collects waters, and sets it
//to a new value, if given.
func (O *Options) WaterChain(name ...string) string {
	if len(name) > 0 && name[0] != "" {
		O.waterChain = name[0]
	}
	return O.waterChain
}

//OutOfRange returns true if the value v can't be written in a fixed
//width coordinate field.
func (O *Options) OutOfRange(v float64) bool {
	return v <= O.lower || v >= O.upper
}

//Validate checks that the options are consistent.
func (O *Options) Validate() error {
	const caller = "Options.Validate"
	if O.lower >= O.upper {
		return mol.NewError(mol.KindOutOfRange, caller, "lower limit %g not below upper limit %g", O.lower, O.upper)
	}
	if O.OutOfRange(O.safeOffset) {
		return mol.NewError(mol.KindOutOfRange, caller, "safe offset %g outside of (%g, %g)", O.safeOffset, O.lower, O.upper)
	}
	if !utf8.ValidString(O.chainNames) {
		return mol.NewError(mol.KindOutOfRange, caller, "chain names are not valid UTF-8")
	}
	seen := make(map[string]bool)
	for _, c := range O.chainNames {
		if seen[string(c)] {
			return mol.NewError(mol.KindDuplicateName, caller, "chain name %q repeated", c)
		}
		seen[string(c)] = true
	}
	if O.ligandChain == O.waterChain {
		return mol.NewError(mol.KindDuplicateName, caller, "ligand and water chains share the name %q", O.ligandChain)
	}
	for _, n := range []string{O.ligandChain, O.waterChain} {
		if seen[n] {
			return mol.NewError(mol.KindDuplicateName, caller, "chain name %q is also a polymer chain name", n)
		}
	}
	return nil
}

//optionsFile is the YAML form of Options.
type optionsFile struct {
	MinPolymerSize int     `yaml:"min_polymer_size"`
	ShiftToFit     bool    `yaml:"shift_to_fit"`
	SafeOffset     float64 `yaml:"safe_offset"`
	LowerLimit     float64 `yaml:"lower_limit"`
	UpperLimit     float64 `yaml:"upper_limit"`
	ChainNames     string  `yaml:"chain_names"`
	LigandChain    string  `yaml:"ligand_chain"`
	WaterChain     string  `yaml:"water_chain"`
}

func (O *Options) file() optionsFile {
	return optionsFile{
		MinPolymerSize: O.minPolymerSize,
		ShiftToFit:     O.shiftToFit,
		SafeOffset:     O.safeOffset,
		LowerLimit:     O.lower,
		UpperLimit:     O.upper,
		ChainNames:     O.chainNames,
		LigandChain:    O.ligandChain,
		WaterChain:     O.waterChain,
	}
}

//MarshalYAML implements yaml.Marshaler.
func (O *Options) MarshalYAML() (interface{}, error) {
	return O.file(), nil
}

//UnmarshalYAML implements yaml.Unmarshaler. Keys not present in the
//document keep their current values.
func (O *Options) UnmarshalYAML(node *yaml.Node) error {
	f := O.file()
	if err := node.Decode(&f); err != nil {
		return err
	}
	if f.MinPolymerSize < 0 {
		return mol.NewError(mol.KindOutOfRange, "Options.UnmarshalYAML", "negative minimum polymer size %d", f.MinPolymerSize)
	}
	O.minPolymerSize = f.MinPolymerSize
	O.shiftToFit = f.ShiftToFit
	O.safeOffset = f.SafeOffset
	O.lower = f.LowerLimit
	O.upper = f.UpperLimit
	O.ChainNames(f.ChainNames)
	O.LigandChain(f.LigandChain)
	O.WaterChain(f.WaterChain)
	return nil
}

//LoadOptions reads options in YAML format from r. Options not given
//take their default values. An empty document gives the default options.
func LoadOptions(r io.Reader) (*Options, error) {
	O := DefaultOptions()
	if err := yaml.NewDecoder(r).Decode(O); err != nil && !errors.Is(err, io.EOF) {
		return nil, mol.NewError(mol.KindOutOfRange, "LoadOptions", "decoding options: %v", err)
	}
	if err := O.Validate(); err != nil {
		return nil, errDecorate(err, "LoadOptions")
	}
	return O, nil
}

//ReadOptionsFile reads options in YAML format from the file filename,
//which can be compressed with gzip or zstd.
func ReadOptionsFile(filename string) (*Options, error) {
	f, err := zfile.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	O, err := LoadOptions(f)
	if err != nil {
		return nil, errDecorate(err, "ReadOptionsFile "+filename)
	}
	return O, nil
}

//WriteYAML writes the options in YAML format to w.
func (O *Options) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(O); err != nil {
		return err
	}
	return enc.Close()
}

//errDecorate adds caller to the decorations of err if it is a goMol error.
func errDecorate(err error, caller string) error {
	var e *mol.Error
	if errors.As(err, &e) {
		e.Decorate(caller)
	}
	return err
}
