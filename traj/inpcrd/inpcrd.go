//Package inpcrd reads Amber restart/coordinate files (inpcrd, restrt):
//a title line, a header with the atom count and optionally the
//simulation time, one fixed-width coordinate block, then an optional
//velocity block and an optional unit-cell line. A restart file holds
//exactly one snapshot, so the package exposes a one-shot Read instead
//of a lazy reader.
package inpcrd

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

//restart blocks are written 6F12.7
var rstFields = fortran.Format{PerLine: 6, Width: 12, Prec: 7, Kind: fortran.Float}

// Read parses the named restart file and returns its single Frame.
// When expected is positive, the header's atom count must match it;
// a disagreement means the restart belongs to a different system and
// is fatal. Content beyond the expected records is ignored.
func Read(name string, expected int) (*md.Frame, error) {
	f, err := md.OpenDecompressed(name)
	if err != nil {
		return nil, Error{message: err.Error(), filename: name, kind: md.ErrIO}
	}
	defer f.Close()
	frame, err := read(bufio.NewReader(f), expected)
	if err != nil {
		if e, ok := err.(Error); ok {
			e.filename = name
			return nil, e
		}
		return nil, err
	}
	return frame, nil
}

func read(r *bufio.Reader, expected int) (*md.Frame, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	if len(lines) < 2 {
		return nil, Error{message: "file ends before the atom-count header", kind: md.ErrTruncation}
	}
	//lines[0] is the title; not used.
	natoms, time, hasTime, err := parseHeader(lines[1])
	if err != nil {
		return nil, err
	}
	if expected > 0 && natoms != expected {
		return nil, Error{
			message: fmt.Sprintf("header declares %d atoms but %d were expected", natoms, expected),
			kind:    md.ErrSizeMismatch,
		}
	}
	body := lines[2:]
	blockLines := (3*natoms + rstFields.PerLine - 1) / rstFields.PerLine
	coords, used, err := decodeBlock(body, natoms, blockLines, "coordinate")
	if err != nil {
		return nil, err
	}
	frame := new(md.Frame)
	frame.Coords = toDense(natoms, coords)
	frame.Time = time
	frame.HasTime = hasTime
	rest := body[used:]
	//What follows the coordinates is not tagged: a full block means
	//velocities, a single short line means the unit cell. For a one-atom
	//system both are one line long and only the value count tells them
	//apart.
	if hasVelocities(rest, natoms, blockLines) {
		vels, vused, err := decodeBlock(rest, natoms, blockLines, "velocity")
		if err != nil {
			return nil, err
		}
		frame.Vel = toDense(natoms, vels)
		rest = rest[vused:]
	}
	if len(rest) > 0 && strings.TrimSpace(rest[0]) != "" {
		cell, err := parseBox(rest[0])
		if err != nil {
			return nil, err
		}
		frame.Cell = cell
	}
	return frame, nil
}

func readLines(r *bufio.Reader) ([]string, error) {
	lines := make([]string, 0, 32)
	for {
		l, err := r.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, Error{message: err.Error(), kind: md.ErrIO}
		}
		if l != "" && l != "\n" {
			lines = append(lines, strings.TrimSuffix(l, "\n"))
		}
		if err == io.EOF {
			return lines, nil
		}
	}
}

//the header line is "natoms [time]"; some writers add further fields,
//which are ignored.
func parseHeader(line string) (natoms int, time float64, hasTime bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, 0, false, Error{message: "empty atom-count header line", kind: md.ErrFormat}
	}
	natoms, err = strconv.Atoi(fields[0])
	if err != nil || natoms < 1 {
		return 0, 0, false, Error{
			message: fmt.Sprintf("can't decode atom count from header %q", line),
			kind:    md.ErrFormat,
		}
	}
	if len(fields) > 1 {
		time, err = strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return 0, 0, false, Error{
				message: fmt.Sprintf("can't decode time from header %q", line),
				kind:    md.ErrFormat,
			}
		}
		hasTime = true
	}
	return natoms, time, hasTime, nil
}

func decodeBlock(lines []string, natoms, blockLines int, what string) ([]float64, int, error) {
	want := 3 * natoms
	d := fortran.NewDecoder(rstFields)
	for i := 0; i < blockLines; i++ {
		if i >= len(lines) {
			return nil, 0, Error{
				message: fmt.Sprintf("file ends %d values into the %s block of %d", d.Len(), what, want),
				kind:    md.ErrTruncation,
			}
		}
		if err := d.Line(lines[i]); err != nil {
			k := md.ErrFormat
			if ke, ok := err.(interface{ Kind() md.ErrKind }); ok {
				k = ke.Kind()
			}
			return nil, 0, Error{message: err.Error(), kind: k}
		}
	}
	if d.Len() != want {
		return nil, 0, Error{
			message: fmt.Sprintf("%s block holds %d values, %d atoms need %d", what, d.Len(), natoms, want),
			kind:    md.ErrSizeMismatch,
		}
	}
	return d.Floats(), blockLines, nil
}

//a velocity block is present when enough lines remain to hold one.
//For a one-atom system a unit-cell line is the same length as a
//velocity block, so the value count (3 vs 6) disambiguates.
func hasVelocities(rest []string, natoms, blockLines int) bool {
	if len(rest) < blockLines {
		return false
	}
	if len(rest) > blockLines {
		return true //room for a full block and more; velocities come first
	}
	if natoms == 1 {
		return len(strings.Fields(rest[0])) == 3
	}
	return true
}

func parseBox(line string) (*md.UnitCell, error) {
	fields := strings.Fields(line)
	if len(fields) != 6 {
		return nil, Error{
			message: fmt.Sprintf("unit-cell line has %d fields, 6 expected", len(fields)),
			kind:    md.ErrFormat,
		}
	}
	cell := new(md.UnitCell)
	for i, v := range fields {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, Error{message: "can't decode the unit-cell line: " + err.Error(), kind: md.ErrFormat}
		}
		if i < 3 {
			cell.Lengths[i] = x
		} else {
			cell.Angles[i-3] = x
		}
	}
	return cell, nil
}

func toDense(natoms int, vals []float64) *mat.Dense {
	m := mat.NewDense(natoms, 3, nil)
	for i := 0; i < natoms; i++ {
		m.SetRow(i, vals[3*i:3*i+3])
	}
	return m
}

//Errors

// Error is the error type for restart file problems. It fulfills
// mdanalysis.Error and mdanalysis.ParseError.
type Error struct {
	message  string
	filename string
	kind     md.ErrKind
	deco     []string
}

func (err Error) Error() string {
	return fmt.Sprintf("Amber restart file %s: %s: %s", err.filename, err.kind, err.message)
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

func (err Error) Format() string { return "Amber restart" }
