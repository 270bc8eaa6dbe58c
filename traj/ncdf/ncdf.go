/*
 * ncdf.go, part of mdanalysis
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

//Package ncdf reads Amber NetCDF trajectories (the AMBER convention
//over the NetCDF self-describing array container). The container layer
//is github.com/batchatco/go-native-netcdf; this package validates the
//convention, applies the declared units, and yields frames lazily with
//random access by index. Required dimensions and variables are checked
//once at open time, so a malformed file fails there and not on the
//first read.
package ncdf

import (
	"fmt"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/mat"

	md "github.com/davidercruz/mdanalysis"
)

//the slice of the container's variable API this reader uses. Keeping it
//narrow lets the tests drive the frame logic with in-memory variables.
type variable interface {
	Len() int64
	GetSlice(begin, end int64) (interface{}, error)
}

// NcdfObj is the container for an open Amber NetCDF trajectory. The
// frame count and the presence of velocities, unit cell and time are
// fixed at open time; files being appended to while read are not
// supported.
type NcdfObj struct {
	filename string
	readable bool
	natoms   int
	nframes  int
	current  int //frame index for sequential Next reads
	lenfac   float64
	velfac   float64
	cellfac  float64
	timefac  float64
	coords   variable
	vels     variable //nil when the file has no velocities
	cellLen  variable //nil when the file has no unit cell
	cellAng  variable
	times    variable //nil when the file has no per-frame time
	closef   func()
}

// New opens an Amber NetCDF trajectory and validates its convention,
// dimensions and variables.
func New(name string) (*NcdfObj, error) {
	nc, err := netcdf.Open(name)
	if err != nil {
		return nil, Error{message: err.Error(), filename: name, kind: md.ErrIO}
	}
	D, err := open(nc, name)
	if err != nil {
		nc.Close()
		return nil, err
	}
	D.closef = nc.Close
	return D, nil
}

func open(nc api.Group, name string) (*NcdfObj, error) {
	D := new(NcdfObj)
	D.filename = name
	conv, _ := attrString(nc.Attributes(), "Conventions")
	if !strings.Contains(conv, "AMBER") {
		return nil, Error{
			message: fmt.Sprintf("Conventions attribute is %q, not AMBER", conv),
			filename: name, kind: md.ErrUnsupported,
		}
	}
	if ver, ok := attrString(nc.Attributes(), "ConventionVersion"); ok && ver != "1.0" {
		return nil, Error{
			message: fmt.Sprintf("unsupported AMBER convention version %s", ver),
			filename: name, kind: md.ErrUnsupported,
		}
	}
	spatial, ok := nc.GetDimension("spatial")
	if !ok || spatial != 3 {
		return nil, Error{message: "spatial dimension missing or not 3", filename: name, kind: md.ErrFormat}
	}
	atom, ok := nc.GetDimension("atom")
	if !ok {
		return nil, Error{message: "atom dimension missing", filename: name, kind: md.ErrFormat}
	}
	D.natoms = int(atom)
	coords, err := nc.GetVarGetter("coordinates")
	if err != nil {
		return nil, Error{message: "coordinates variable missing", filename: name, kind: md.ErrFormat}
	}
	if dims := coords.Dimensions(); len(dims) != 3 || dims[0] != "frame" || dims[1] != "atom" || dims[2] != "spatial" {
		return nil, Error{
			message: fmt.Sprintf("coordinates variable has dimensions %v, want [frame atom spatial]", coords.Dimensions()),
			filename: name, kind: md.ErrFormat,
		}
	}
	D.coords = coords
	D.nframes = int(coords.Len())
	D.lenfac, err = lengthUnitFactor(coords.Attributes(), name, "coordinates")
	if err != nil {
		return nil, Error{message: err.Error(), filename: name, kind: md.ErrUnsupported}
	}
	D.lenfac *= scaleFactor(coords.Attributes())
	if vels, err := nc.GetVarGetter("velocities"); err == nil {
		D.vels = vels
		D.velfac, err = velocityUnitFactor(vels.Attributes())
		if err != nil {
			return nil, Error{message: err.Error(), filename: name, kind: md.ErrUnsupported}
		}
		D.velfac *= scaleFactor(vels.Attributes())
	}
	if clen, err := nc.GetVarGetter("cell_lengths"); err == nil {
		cang, err := nc.GetVarGetter("cell_angles")
		if err != nil {
			return nil, Error{message: "cell_lengths present but cell_angles missing", filename: name, kind: md.ErrFormat}
		}
		D.cellLen = clen
		D.cellAng = cang
		D.cellfac, err = lengthUnitFactor(clen.Attributes(), name, "cell_lengths")
		if err != nil {
			return nil, Error{message: err.Error(), filename: name, kind: md.ErrUnsupported}
		}
		D.cellfac *= scaleFactor(clen.Attributes())
	}
	if times, err := nc.GetVarGetter("time"); err == nil {
		D.times = times
		unit, ok := attrString(times.Attributes(), "units")
		D.timefac = 1.0
		if ok {
			f, known := md.TimeFactor(unit)
			if !known {
				return nil, Error{
					message: fmt.Sprintf("unknown time unit %q", unit),
					filename: name, kind: md.ErrUnsupported,
				}
			}
			D.timefac = f
		}
	}
	D.readable = true
	return D, nil
}

//lengthUnitFactor reads the units attribute of a variable and returns
//the factor to angstrom. A missing attribute is tolerated with a
//warning and a 1.0 factor; a declared but unrecognized unit is not.
func lengthUnitFactor(am api.AttributeMap, name, varname string) (float64, error) {
	unit, ok := attrString(am, "units")
	if !ok {
		log.Warn("no length unit declared; assuming angstrom", "file", name, "variable", varname)
		return 1.0, nil
	}
	if f, known := md.LengthFactor(unit); known {
		return f, nil
	}
	return 0, fmt.Errorf("unknown length unit %q on variable %s", unit, varname)
}

func velocityUnitFactor(am api.AttributeMap) (float64, error) {
	unit, ok := attrString(am, "units")
	if !ok {
		return 1.0, nil
	}
	return velocityUnitFactorString(unit)
}

//velocity units are written "length/time", e.g. angstrom/picosecond.
func velocityUnitFactorString(unit string) (float64, error) {
	parts := strings.SplitN(unit, "/", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("can't interpret velocity unit %q", unit)
	}
	lf, lok := md.LengthFactor(parts[0])
	tf, tok := md.TimeFactor(parts[1])
	if !lok || !tok {
		return 0, fmt.Errorf("can't interpret velocity unit %q", unit)
	}
	return lf / tf, nil
}

//the AMBER convention allows an extra scale_factor attribute on top of
//the unit.
func scaleFactor(am api.AttributeMap) float64 {
	if f, ok := attrFloat(am, "scale_factor"); ok {
		return f
	}
	return 1.0
}

// Readable returns true if the object is ready to be read from.
func (D *NcdfObj) Readable() bool {
	return D.readable
}

// Len returns the number of atoms per frame.
func (D *NcdfObj) Len() int {
	return D.natoms
}

// Frames returns the number of frames in the trajectory, as observed at
// open time.
func (D *NcdfObj) Frames() int {
	return D.nframes
}

// Next reads the next frame in sequence into f, or skips it if f is
// nil. Random access through FrameAt does not disturb the sequential
// cursor.
func (D *NcdfObj) Next(f *md.Frame) error {
	if !D.readable {
		return Error{message: TrajUnIni, filename: D.filename, kind: md.ErrFormat}
	}
	if D.current >= D.nframes {
		D.readable = false
		return newlastFrameError(D.filename, "Next")
	}
	i := D.current
	D.current++
	if f == nil {
		return nil //random-access container: skipping costs nothing
	}
	return D.FrameAt(i, f)
}

// FrameAt reads the frame with the given 0-based index into f. It
// returns the same data sequential iteration would have produced for
// that index.
func (D *NcdfObj) FrameAt(i int, f *md.Frame) error {
	if !D.readable {
		return Error{message: TrajUnIni, filename: D.filename, kind: md.ErrFormat}
	}
	if i < 0 || i >= D.nframes {
		return Error{
			message: fmt.Sprintf("frame index %d out of range [0, %d)", i, D.nframes),
			filename: D.filename, frame: i, kind: md.ErrFormat,
		}
	}
	raw, err := D.coords.GetSlice(int64(i), int64(i+1))
	if err != nil {
		return Error{message: err.Error(), filename: D.filename, frame: i, kind: md.ErrIO}
	}
	if f == nil {
		return nil
	}
	if err := fillFromSlice(&f.Coords, raw, D.natoms, D.lenfac); err != nil {
		return Error{message: err.Error(), filename: D.filename, frame: i, kind: md.ErrFormat}
	}
	if D.vels != nil {
		raw, err := D.vels.GetSlice(int64(i), int64(i+1))
		if err != nil {
			return Error{message: err.Error(), filename: D.filename, frame: i, kind: md.ErrIO}
		}
		if err := fillFromSlice(&f.Vel, raw, D.natoms, D.velfac); err != nil {
			return Error{message: err.Error(), filename: D.filename, frame: i, kind: md.ErrFormat}
		}
	}
	if D.cellLen != nil {
		cell, err := D.readCell(i)
		if err != nil {
			return err
		}
		f.Cell = cell
	}
	if D.times != nil {
		t, err := D.readTime(i)
		if err != nil {
			return err
		}
		f.Time = t
		f.HasTime = true
	}
	return nil
}

func (D *NcdfObj) readCell(i int) (*md.UnitCell, error) {
	rawl, err := D.cellLen.GetSlice(int64(i), int64(i+1))
	if err != nil {
		return nil, Error{message: err.Error(), filename: D.filename, frame: i, kind: md.ErrIO}
	}
	rawa, err := D.cellAng.GetSlice(int64(i), int64(i+1))
	if err != nil {
		return nil, Error{message: err.Error(), filename: D.filename, frame: i, kind: md.ErrIO}
	}
	cell := new(md.UnitCell)
	if err := fillTriple(&cell.Lengths, rawl, D.cellfac); err != nil {
		return nil, Error{message: "cell_lengths: " + err.Error(), filename: D.filename, frame: i, kind: md.ErrFormat}
	}
	if err := fillTriple(&cell.Angles, rawa, 1.0); err != nil {
		return nil, Error{message: "cell_angles: " + err.Error(), filename: D.filename, frame: i, kind: md.ErrFormat}
	}
	return cell, nil
}

func (D *NcdfObj) readTime(i int) (float64, error) {
	raw, err := D.times.GetSlice(int64(i), int64(i+1))
	if err != nil {
		return 0, Error{message: err.Error(), filename: D.filename, frame: i, kind: md.ErrIO}
	}
	switch v := raw.(type) {
	case []float32:
		if len(v) > 0 {
			return float64(v[0]) * D.timefac, nil
		}
	case []float64:
		if len(v) > 0 {
			return v[0] * D.timefac, nil
		}
	}
	return 0, Error{message: fmt.Sprintf("time variable holds %T, not floats", raw), filename: D.filename, frame: i, kind: md.ErrFormat}
}

// Close releases the underlying container and marks the object
// unreadable.
func (D *NcdfObj) Close() error {
	D.readable = false
	if D.closef != nil {
		D.closef()
		D.closef = nil
	}
	return nil
}

//fillFromSlice copies one frame of a (frame, atom, spatial) variable
//into an Nx3 matrix, allocating it if *dst is nil, scaling by fac.
func fillFromSlice(dst **mat.Dense, raw interface{}, natoms int, fac float64) error {
	if *dst == nil {
		*dst = mat.NewDense(natoms, 3, nil)
	}
	r, c := (*dst).Dims()
	if r != natoms || c != 3 {
		return fmt.Errorf("%s: have %dx%d, need %dx3", NotEnoughSpace, r, c, natoms)
	}
	set := func(i int, x, y, z float64) {
		(*dst).Set(i, 0, x*fac)
		(*dst).Set(i, 1, y*fac)
		(*dst).Set(i, 2, z*fac)
	}
	switch v := raw.(type) {
	case [][][]float32:
		if len(v) != 1 || len(v[0]) != natoms {
			return fmt.Errorf("frame slice holds %d atoms, want %d", sliceAtoms(raw), natoms)
		}
		for i, row := range v[0] {
			if len(row) != 3 {
				return fmt.Errorf("coordinate row %d has %d components", i, len(row))
			}
			set(i, float64(row[0]), float64(row[1]), float64(row[2]))
		}
	case [][][]float64:
		if len(v) != 1 || len(v[0]) != natoms {
			return fmt.Errorf("frame slice holds %d atoms, want %d", sliceAtoms(raw), natoms)
		}
		for i, row := range v[0] {
			if len(row) != 3 {
				return fmt.Errorf("coordinate row %d has %d components", i, len(row))
			}
			set(i, row[0], row[1], row[2])
		}
	default:
		return fmt.Errorf("coordinate variable holds %T, not floats", raw)
	}
	return nil
}

//fillTriple copies one frame of a (frame, 3) variable into a 3-array.
func fillTriple(dst *[3]float64, raw interface{}, fac float64) error {
	switch v := raw.(type) {
	case [][]float32:
		if len(v) == 1 && len(v[0]) == 3 {
			for k := 0; k < 3; k++ {
				dst[k] = float64(v[0][k]) * fac
			}
			return nil
		}
	case [][]float64:
		if len(v) == 1 && len(v[0]) == 3 {
			for k := 0; k < 3; k++ {
				dst[k] = v[0][k] * fac
			}
			return nil
		}
	default:
		return fmt.Errorf("variable holds %T, not floats", raw)
	}
	return fmt.Errorf("variable slice is not a single triple")
}

func sliceAtoms(raw interface{}) int {
	switch v := raw.(type) {
	case [][][]float32:
		if len(v) == 1 {
			return len(v[0])
		}
	case [][][]float64:
		if len(v) == 1 {
			return len(v[0])
		}
	}
	return -1
}

//attribute accessors: the container reports attribute values as
//interface{}, sometimes as one-element slices.
func attrString(am api.AttributeMap, key string) (string, bool) {
	if am == nil {
		return "", false
	}
	v, ok := am.Get(key)
	if !ok {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	case []string:
		if len(s) > 0 {
			return s[0], true
		}
	}
	return "", false
}

func attrFloat(am api.AttributeMap, key string) (float64, bool) {
	if am == nil {
		return 0, false
	}
	v, ok := am.Get(key)
	if !ok {
		return 0, false
	}
	switch f := v.(type) {
	case float64:
		return f, true
	case float32:
		return float64(f), true
	case []float64:
		if len(f) > 0 {
			return f[0], true
		}
	case []float32:
		if len(f) > 0 {
			return float64(f[0]), true
		}
	}
	return 0, false
}

//Errors

// Error is the general structure for Amber NetCDF trajectory errors.
// It fulfills mdanalysis.Error and mdanalysis.ParseError.
type Error struct {
	message  string
	filename string
	frame    int
	kind     md.ErrKind
	deco     []string
}

func (err Error) Error() string {
	return fmt.Sprintf("Amber NetCDF trajectory %s: %s: %s", err.filename, err.kind, err.message)
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

func (err Error) Format() string { return "Amber NetCDF" }

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

func (E lastFrameError) Format() string { return "Amber NetCDF" }

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
