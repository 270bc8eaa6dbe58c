/*
 * fortran.go, part of mdanalysis
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

//Package fortran decodes sequences of fixed-width values written with
//Fortran-style format descriptors, as found in Amber topology files
//("%FORMAT(20a4)", "%FORMAT(5E16.8)") and in the fixed-width blocks of
//the Amber ASCII coordinate formats. A logical record may span several
//physical lines; line breaks are not value separators, values are just
//packed Width characters at a time, up to PerLine of them per line.
package fortran

import (
	"fmt"
	"strconv"
	"strings"

	md "github.com/davidercruz/mdanalysis"
)

// Kind is the scalar kind of a format descriptor's fields.
type Kind byte

const (
	Int    Kind = 'I'
	Float  Kind = 'E' //covers E, F and D descriptors
	String Kind = 'a'
)

// Format is one parsed fixed-width format descriptor.
type Format struct {
	PerLine int //values per physical line
	Width   int //characters per value
	Prec    int //decimals for float kinds; informational
	Kind    Kind
}

// ParseFormat parses a descriptor like "10I8", "5E16.8", "3F12.7" or
// "20a4", optionally wrapped in "%FORMAT(...)" as it appears in topology
// files. The repeat count defaults to 1 when omitted.
func ParseFormat(s string) (Format, error) {
	orig := s
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "%FORMAT") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "%FORMAT"))
	}
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i >= len(s) {
		return Format{}, Error{message: fmt.Sprintf("no kind letter in descriptor %q", orig), field: -1, kind: md.ErrFormat}
	}
	var f Format
	f.PerLine = 1
	if i > 0 {
		f.PerLine, _ = strconv.Atoi(s[:i])
		if f.PerLine < 1 {
			return Format{}, Error{message: fmt.Sprintf("zero repeat count in descriptor %q", orig), field: -1, kind: md.ErrFormat}
		}
	}
	switch s[i] {
	case 'I', 'i':
		f.Kind = Int
	case 'E', 'e', 'F', 'f', 'D', 'd', 'G', 'g':
		f.Kind = Float
	case 'A', 'a':
		f.Kind = String
	default:
		return Format{}, Error{message: fmt.Sprintf("unsupported kind %q in descriptor %q", s[i], orig), field: -1, kind: md.ErrUnsupported}
	}
	rest := s[i+1:]
	if dot := strings.IndexByte(rest, '.'); dot >= 0 {
		var err error
		if f.Prec, err = strconv.Atoi(rest[dot+1:]); err != nil {
			return Format{}, Error{message: fmt.Sprintf("bad precision in descriptor %q", orig), field: -1, kind: md.ErrFormat}
		}
		rest = rest[:dot]
	}
	w, err := strconv.Atoi(rest)
	if err != nil || w < 1 {
		return Format{}, Error{message: fmt.Sprintf("bad field width in descriptor %q", orig), field: -1, kind: md.ErrFormat}
	}
	f.Width = w
	return f, nil
}

// Decoder accumulates values decoded from successive physical lines.
// It keeps a running byte offset so errors can point at the exact
// position of a failing field in the input.
type Decoder struct {
	f       Format
	offset  int64 //byte offset of the start of the next line
	ints    []int
	floats  []float64
	strings []string
}

func NewDecoder(f Format) *Decoder {
	return &Decoder{f: f}
}

// Skip advances the byte offset past a line that was consumed without
// decoding (headers, blank separators).
func (d *Decoder) Skip(line string) {
	d.offset += int64(len(line)) + 1
}

// Line decodes every field present in one physical line. The line must
// not include its newline. A line shorter than PerLine*Width values is
// accepted (the last line of a section usually is); a line whose length
// is not a multiple of Width, or that holds more than PerLine values,
// is a format error.
func (d *Decoder) Line(line string) error {
	start := d.offset
	d.offset += int64(len(line)) + 1
	line = strings.TrimSuffix(line, "\r")
	w := d.f.Width
	if len(line)%w != 0 {
		return Error{
			message: fmt.Sprintf("line length %d is not a multiple of the field width %d", len(line), w),
			field:   d.Len(), offset: start, kind: md.ErrFormat,
		}
	}
	nf := len(line) / w
	if nf > d.f.PerLine {
		return Error{
			message: fmt.Sprintf("%d values on one line, format %s allows %d", nf, d.f, d.f.PerLine),
			field:   d.Len(), offset: start, kind: md.ErrFormat,
		}
	}
	for k := 0; k < nf; k++ {
		seg := line[k*w : (k+1)*w]
		switch d.f.Kind {
		case Int:
			v, err := strconv.Atoi(strings.TrimSpace(seg))
			if err != nil {
				return d.fieldErr(seg, start, k)
			}
			d.ints = append(d.ints, v)
		case Float:
			//Fortran writers may emit D exponents
			fs := strings.Replace(strings.TrimSpace(seg), "D", "E", 1)
			fs = strings.Replace(fs, "d", "e", 1)
			v, err := strconv.ParseFloat(fs, 64)
			if err != nil {
				return d.fieldErr(seg, start, k)
			}
			d.floats = append(d.floats, v)
		case String:
			d.strings = append(d.strings, strings.TrimSpace(seg))
		}
	}
	return nil
}

func (d *Decoder) fieldErr(seg string, lineStart int64, k int) error {
	return Error{
		message: fmt.Sprintf("can't decode %q as %s", seg, d.f),
		field:   d.Len() + k,
		offset:  lineStart + int64(k*d.f.Width),
		kind:    md.ErrFormat,
	}
}

// Len returns the number of values decoded so far.
func (d *Decoder) Len() int {
	switch d.f.Kind {
	case Int:
		return len(d.ints)
	case Float:
		return len(d.floats)
	}
	return len(d.strings)
}

// Offset returns the byte offset just past the last line given to the
// decoder.
func (d *Decoder) Offset() int64 { return d.offset }

func (d *Decoder) Ints() []int       { return d.ints }
func (d *Decoder) Floats() []float64 { return d.floats }
func (d *Decoder) Strings() []string { return d.strings }

func (f Format) String() string {
	if f.Kind == Float && f.Prec > 0 {
		return fmt.Sprintf("%d%c%d.%d", f.PerLine, f.Kind, f.Width, f.Prec)
	}
	return fmt.Sprintf("%d%c%d", f.PerLine, f.Kind, f.Width)
}

//Errors

// Error reports a failing descriptor or field, with the 0-based index of
// the field and its byte offset in the decoded input.
type Error struct {
	message string
	field   int
	offset  int64
	kind    md.ErrKind
	deco    []string
}

func (err Error) Error() string {
	if err.field < 0 {
		return fmt.Sprintf("fortran: %s", err.message)
	}
	return fmt.Sprintf("fortran: field %d at byte %d: %s", err.field, err.offset, err.message)
}

// Decorate adds deco to the error's decoration slice and returns the
// result.
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

// Kind returns the classification of the error.
func (err Error) Kind() md.ErrKind { return err.kind }

// Field returns the 0-based index of the failing field, -1 when the
// error is about the descriptor itself.
func (err Error) Field() int { return err.field }

// Offset returns the byte offset of the failing field.
func (err Error) Offset() int64 { return err.offset }
