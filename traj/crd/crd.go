/*
 * crd.go, part of mdanalysis
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

//Package crd reads the legacy Amber ASCII trajectory format (mdcrd):
//a title line, then per frame a fixed-width coordinate block, an
//optional velocity block of the same shape and an optional unit-cell
//line. The format is not self-describing: the atom count and the
//velocity/box flags must be supplied by the caller, and a wrong flag
//silently misaligns every subsequent frame. No attempt is made to guess
//them from the data.
package crd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	md "github.com/davidercruz/mdanalysis"
	"github.com/davidercruz/mdanalysis/fortran"
)

//coordinate and velocity blocks are written 10F8.3
var crdFields = fortran.Format{PerLine: 10, Width: 8, Prec: 3, Kind: fortran.Float}

// CrdObj is the container for an open Amber ASCII trajectory. It owns
// the underlying file handle exclusively; the sequence is forward-only
// and restartable only by reopening.
type CrdObj struct {
	natoms   int
	hasVel   bool
	hasBox   bool
	readable bool
	filename string
	ioread   io.ReadCloser
	crd      *bufio.Reader
	frame    int //0-based index of the frame Next will read
}

// New opens an ASCII trajectory. natoms, hasVel and hasBox describe the
// file's layout and must come from the caller: the format does not
// declare them.
func New(filename string, natoms int, hasVel, hasBox bool) (*CrdObj, error) {
	if natoms < 1 {
		return nil, Error{message: fmt.Sprintf("atom count must be positive, got %d", natoms), filename: filename, kind: md.ErrFormat}
	}
	C := new(CrdObj)
	var err error
	C.ioread, err = md.OpenDecompressed(filename)
	if err != nil {
		return nil, Error{message: err.Error(), filename: filename, kind: md.ErrIO}
	}
	C.filename = filename
	C.crd = bufio.NewReader(C.ioread)
	//the first line is the title; its content is not used
	if _, err = C.crd.ReadString('\n'); err != nil {
		C.ioread.Close()
		return nil, Error{message: "can't read the title line: " + err.Error(), filename: filename, kind: md.ErrTruncation}
	}
	C.natoms = natoms
	C.hasVel = hasVel
	C.hasBox = hasBox
	C.readable = true
	return C, nil
}

// Readable returns true if the object is ready to be read from. It
// doesn't guarantee that there is something left to read.
func (C *CrdObj) Readable() bool {
	return C.readable
}

// Next reads the next frame into f, or reads and discards it if f is
// nil. At the end of the trajectory it returns a
// mdanalysis.LastFrameError; an end-of-file inside a frame is a
// truncation error instead.
func (C *CrdObj) Next(f *md.Frame) error {
	if !C.readable {
		return Error{message: TrajUnIni, filename: C.filename, frame: C.frame, kind: md.ErrFormat}
	}
	coords, err := C.readBlock(true)
	if err != nil {
		return err
	}
	var vels []float64
	if C.hasVel {
		if vels, err = C.readBlock(false); err != nil {
			return err
		}
	}
	var cell *md.UnitCell
	if C.hasBox {
		if cell, err = C.readBox(); err != nil {
			return err
		}
	}
	C.frame++
	if f == nil {
		return nil //frame fully consumed but discarded
	}
	if err := fillDense(&f.Coords, C.natoms, coords); err != nil {
		return Error{message: err.Error(), filename: C.filename, frame: C.frame - 1, kind: md.ErrSizeMismatch}
	}
	if C.hasVel {
		if err := fillDense(&f.Vel, C.natoms, vels); err != nil {
			return Error{message: err.Error(), filename: C.filename, frame: C.frame - 1, kind: md.ErrSizeMismatch}
		}
	}
	f.Cell = cell
	f.HasTime = false
	return nil
}

//readBlock reads one fixed-width block of 3*natoms values. frameStart
//marks the first block of a frame: end-of-file right there is the clean
//end of the trajectory, anywhere else it is a truncation.
func (C *CrdObj) readBlock(frameStart bool) ([]float64, error) {
	want := 3 * C.natoms
	nlines := (want + crdFields.PerLine - 1) / crdFields.PerLine
	d := fortran.NewDecoder(crdFields)
	for i := 0; i < nlines; i++ {
		line, err := C.crd.ReadString('\n')
		if err != nil && err != io.EOF {
			C.readable = false
			return nil, Error{message: err.Error(), filename: C.filename, frame: C.frame, kind: md.ErrIO}
		}
		if line == "" && err == io.EOF {
			C.readable = false
			C.ioread.Close()
			if i == 0 && frameStart {
				return nil, newlastFrameError(C.filename, "Next")
			}
			return nil, Error{
				message:  fmt.Sprintf("file ends %d values into a block of %d", d.Len(), want),
				filename: C.filename, frame: C.frame, kind: md.ErrTruncation,
			}
		}
		if err := d.Line(strings.TrimSuffix(line, "\n")); err != nil {
			C.readable = false
			return nil, Error{message: err.Error(), filename: C.filename, frame: C.frame, kind: kindOf(err)}
		}
	}
	if d.Len() != want {
		C.readable = false
		return nil, Error{
			message:  fmt.Sprintf("block holds %d values, %d atoms need %d", d.Len(), C.natoms, want),
			filename: C.filename, frame: C.frame, kind: md.ErrSizeMismatch,
		}
	}
	return d.Floats(), nil
}

//the unit-cell line carries three lengths and three angles.
func (C *CrdObj) readBox() (*md.UnitCell, error) {
	line, err := C.crd.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		C.readable = false
		return nil, Error{message: "file ends before the unit-cell line", filename: C.filename, frame: C.frame, kind: md.ErrTruncation}
	}
	fields := strings.Fields(line)
	if len(fields) != 6 {
		C.readable = false
		return nil, Error{
			message:  fmt.Sprintf("unit-cell line has %d fields, 6 expected", len(fields)),
			filename: C.filename, frame: C.frame, kind: md.ErrFormat,
		}
	}
	cell := new(md.UnitCell)
	for i, v := range fields {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			C.readable = false
			return nil, Error{message: "can't decode the unit-cell line: " + err.Error(), filename: C.filename, frame: C.frame, kind: md.ErrFormat}
		}
		if i < 3 {
			cell.Lengths[i] = x
		} else {
			cell.Angles[i-3] = x
		}
	}
	return cell, nil
}

//fillDense copies a flat xyz sequence into an Nx3 matrix, allocating it
//if *dst is nil.
func fillDense(dst **mat.Dense, natoms int, vals []float64) error {
	if *dst == nil {
		*dst = mat.NewDense(natoms, 3, nil)
	}
	r, c := (*dst).Dims()
	if r != natoms || c != 3 {
		return fmt.Errorf("%s: have %dx%d, need %dx3", NotEnoughSpace, r, c, natoms)
	}
	for i := 0; i < natoms; i++ {
		(*dst).SetRow(i, vals[3*i:3*i+3])
	}
	return nil
}

// Len returns the number of atoms per frame.
func (C *CrdObj) Len() int {
	return C.natoms
}

// Frames returns -1: the format gives no way to know the frame count
// without reading the whole file.
func (C *CrdObj) Frames() int {
	return -1
}

// Close closes the underlying file and marks the object unreadable.
func (C *CrdObj) Close() error {
	if C.ioread == nil {
		return nil
	}
	C.readable = false
	return C.ioread.Close()
}

func kindOf(err error) md.ErrKind {
	if ke, ok := err.(interface{ Kind() md.ErrKind }); ok {
		return ke.Kind()
	}
	return md.ErrFormat
}

//Errors

// Error is the general structure for ASCII trajectory errors. It
// fulfills mdanalysis.Error and mdanalysis.ParseError.
type Error struct {
	message  string
	filename string
	frame    int
	kind     md.ErrKind
	deco     []string
}

func (err Error) Error() string {
	return fmt.Sprintf("Amber ASCII trajectory %s, frame %d: %s: %s", err.filename, err.frame, err.kind, err.message)
}

// Decorate adds deco to the error's decoration slice and returns the
// result.
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func (err Error) Kind() md.ErrKind { return err.kind }

func (err Error) FileName() string { return err.filename }

func (err Error) Format() string { return "Amber ASCII trajectory" }

const (
	TrajUnIni      = "Traj object uninitialized to read"
	NotEnoughSpace = "Not enough space in passed blocks"
)

//lastFrameError implements mdanalysis.LastFrameError
type lastFrameError struct {
	deco     []string
	fileName string
}

//NormalLastFrameTermination does nothing
func (E lastFrameError) NormalLastFrameTermination() {}

func (E lastFrameError) FileName() string { return E.fileName }

func (E lastFrameError) Error() string { return "EOF" }

func (E lastFrameError) Kind() md.ErrKind { return md.ErrIO }

func (E lastFrameError) Format() string { return "Amber ASCII trajectory" }

func (E lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	e := new(lastFrameError)
	e.fileName = filename
	e.deco = []string{caller}
	return e
}
