/*
 * open.go, part of mdanalysis
 *
 * Copyright 2024 David E. Cruz <davidercruz{at}gmailDOTcom>
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

package mdanalysis

import (
	"compress/bzip2"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

//decompressed ties a decoding reader to the file (and any decoder)
//that must be closed with it.
type decompressed struct {
	io.Reader
	closers []io.Closer
}

func (d *decompressed) Close() error {
	var err error
	for _, c := range d.closers {
		if e := c.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

//*zstd.Decoder's Close returns nothing, so it doesn't satisfy io.Closer
//on its own.
type zstdql struct {
	closeql func()
	*zstd.Decoder
}

func (z zstdql) Close() error {
	z.closeql()
	return nil
}

// OpenDecompressed opens the named file for reading, transparently
// decoding it when the name ends in .gz, .bz2 or .zst. The text-based
// Amber formats (topology, ASCII trajectory, restart) are routinely kept
// compressed; the readers for those formats open their input through
// this function. Closing the returned ReadCloser closes the underlying
// file on all paths.
func OpenDecompressed(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(name, ".gz"):
		g, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &decompressed{Reader: g, closers: []io.Closer{g, f}}, nil
	case strings.HasSuffix(name, ".zst"):
		z, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &decompressed{Reader: z, closers: []io.Closer{zstdql{z.Close, z}, f}}, nil
	case strings.HasSuffix(name, ".bz2"):
		return &decompressed{Reader: bzip2.NewReader(f), closers: []io.Closer{f}}, nil
	}
	return f, nil
}
