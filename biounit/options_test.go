/*
 * options_test.go, part of goMol.
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
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mol "github.com/rmera/gomol"
)

func TestDefaultOptions(Te *testing.T) {
	O := DefaultOptions()
	assert.Equal(Te, 10, O.MinPolymerSize())
	assert.True(Te, O.ShiftToFit())
	assert.Equal(Te, -999.0, O.SafeOffset())
	assert.Equal(Te, 62, len(O.ChainNames()))
	assert.NoError(Te, O.Validate())
	assert.True(Te, O.OutOfRange(10000))
	assert.True(Te, O.OutOfRange(-1000))
	assert.False(Te, O.OutOfRange(9999.999))
	assert.False(Te, O.OutOfRange(-999.999))

	//invalid values are ignored by the setters
	assert.Equal(Te, 10, O.MinPolymerSize(-4))
	assert.Equal(Te, DefaultLigandChain, O.LigandChain(""))
}

func TestLoadOptions(Te *testing.T) {
	O, err := LoadOptions(strings.NewReader("min_polymer_size: 4\nshift_to_fit: false\nchain_names: XYZ\n"))
	require.NoError(Te, err)
	assert.Equal(Te, 4, O.MinPolymerSize())
	assert.False(Te, O.ShiftToFit())
	assert.Equal(Te, "XYZ", O.ChainNames())
	assert.Equal(Te, 10000.0, O.UpperLimit())
	assert.Equal(Te, DefaultWaterChain, O.WaterChain())

	O, err = LoadOptions(strings.NewReader(""))
	require.NoError(Te, err)
	assert.Equal(Te, DefaultOptions(), O)

	_, err = LoadOptions(strings.NewReader("lower_limit: 20000\n"))
	assert.True(Te, errors.Is(err, mol.ErrOutOfRange))
	_, err = LoadOptions(strings.NewReader("chain_names: AB_\n"))
	assert.True(Te, errors.Is(err, mol.ErrDuplicateName))
	_, err = LoadOptions(strings.NewReader("chain_names: ABA\n"))
	assert.True(Te, errors.Is(err, mol.ErrDuplicateName))
	_, err = LoadOptions(strings.NewReader("min_polymer_size: [1\n"))
	assert.Error(Te, err)
	_, err = LoadOptions(strings.NewReader("min_polymer_size: -1\n"))
	assert.Error(Te, err)
}

func TestOptionsFile(Te *testing.T) {
	O := DefaultOptions()
	O.MinPolymerSize(7)
	O.LigandChain("L")
	O.ChainNames("ABC")
	var buf bytes.Buffer
	require.NoError(Te, O.WriteYAML(&buf))
	assert.Contains(Te, buf.String(), "min_polymer_size: 7")
	name := filepath.Join(Te.TempDir(), "opts.yaml")
	require.NoError(Te, os.WriteFile(name, buf.Bytes(), 0o644))
	read, err := ReadOptionsFile(name)
	require.NoError(Te, err)
	assert.Equal(Te, O, read)
	_, err = ReadOptionsFile(filepath.Join(Te.TempDir(), "nope.yaml"))
	assert.Error(Te, err)

	var zbuf bytes.Buffer
	zw, err := zstd.NewWriter(&zbuf)
	require.NoError(Te, err)
	require.NoError(Te, O.WriteYAML(zw))
	require.NoError(Te, zw.Close())
	zname := filepath.Join(Te.TempDir(), "opts.yaml.zst")
	require.NoError(Te, os.WriteFile(zname, zbuf.Bytes(), 0o644))
	read, err = ReadOptionsFile(zname)
	require.NoError(Te, err)
	assert.Equal(Te, O, read)
}

func TestSequenceList(Te *testing.T) {
	var empty SequenceList
	_, ok := empty.Find("A")
	assert.False(Te, ok)
	S := SequenceList{"B": "MKV", "A": "GG"}
	s, ok := S.Find("B")
	assert.True(Te, ok)
	assert.Equal(Te, "MKV", s)
	n, ok := S.Length("A")
	assert.True(Te, ok)
	assert.Equal(Te, 2, n)
	assert.Equal(Te, []string{"A", "B"}, S.Names())
}
