/*
 * zfile.go, part of goMol.
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

//Package zfile opens input files that may be compressed with gzip or
//zstd. The format is recognized by its magic number, not by the file name.
package zfile

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

//Format of a stream.
type Format int

const (
	Plain Format = iota
	Gzip
	Zstd
)

func (F Format) String() string {
	return [...]string{"plain", "gzip", "zstd"}[F]
}

type readCloser struct {
	io.Reader
	closers []func() error
}

//Close closes the decompressor and then the underlying file, if any.
func (R *readCloser) Close() error {
	var ret error
	for _, c := range R.closers {
		if err := c(); err != nil && ret == nil {
			ret = err
		}
	}
	return ret
}

//NewReader returns a reader for the decompressed contents of r, and the
//format detected. Closing the returned reader doesn't close r.
func NewReader(r io.Reader) (io.ReadCloser, Format, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, Plain, err
	}
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, Gzip, err
		}
		return &readCloser{gz, []func() error{gz.Close}}, Gzip, nil
	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, Zstd, err
		}
		//zstd.Decoder.Close returns nothing.
		return &readCloser{zr, []func() error{func() error { zr.Close(); return nil }}}, Zstd, nil
	}
	return &readCloser{Reader: br}, Plain, nil
}

//Open opens the file name for reading, decompressing it if needed. The
//returned reader closes the file.
func Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	r, _, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	rc := r.(*readCloser)
	rc.closers = append(rc.closers, f.Close)
	return rc, nil
}
