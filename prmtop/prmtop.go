//Package prmtop reads Amber topology (prmtop) files into a
//mdanalysis.Topology. The file is a flat text format: a %VERSION header,
//then %FLAG-tagged sections, each preceded by a %FORMAT descriptor that
//the fortran package decodes. Section sizes are governed by the POINTERS
//section, which must be present. Unrecognized sections are skipped, so
//files written by newer Amber versions keep parsing.
package prmtop

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	md "github.com/davidercruz/mdanalysis"
	"github.com/davidercruz/mdanalysis/fortran"
)

//indices into the POINTERS section
const (
	ptrNatom = 0  //atoms
	ptrNbonh = 2  //bonds containing hydrogen
	ptrNres  = 11 //residues
	ptrNbona = 12 //bonds not containing hydrogen
)

//the POINTERS section must reach at least past NBONA for the sections
//we map to be sizable.
const minPointers = 13

// Section is one named, typed block of raw values extracted from the
// topology file. Exactly one of Ints, Floats and Strings is non-nil,
// matching the kind of the section's format descriptor.
type Section struct {
	Name    string
	Format  fortran.Format
	Ints    []int
	Floats  []float64
	Strings []string
}

// Len returns the number of raw values in the section.
func (s *Section) Len() int {
	switch {
	case s.Ints != nil:
		return len(s.Ints)
	case s.Floats != nil:
		return len(s.Floats)
	}
	return len(s.Strings)
}

//a recognized flag: how many values the pointer table says it has
//(-1: take whatever is there) and the descriptor to assume when the
//file carries no %FORMAT directive for it.
type flagSpec struct {
	count func(p []int) int
	def   fortran.Format
}

func natomCount(p []int) int { return p[ptrNatom] }
func nresCount(p []int) int  { return p[ptrNres] }

var a4 = fortran.Format{PerLine: 20, Width: 4, Kind: fortran.String}
var i8 = fortran.Format{PerLine: 10, Width: 8, Kind: fortran.Int}
var e16 = fortran.Format{PerLine: 5, Width: 16, Prec: 8, Kind: fortran.Float}

//The closed set of sections this parser maps to Topology attributes.
//Anything else in the file is skipped by design: unknown flags from
//newer Amber versions must not break parsing.
var knownFlags = map[string]flagSpec{
	"TITLE":                  {count: func([]int) int { return -1 }, def: a4},
	"CTITLE":                 {count: func([]int) int { return -1 }, def: a4},
	"ATOM_NAME":              {count: natomCount, def: a4},
	"CHARGE":                 {count: natomCount, def: e16},
	"ATOMIC_NUMBER":          {count: natomCount, def: i8},
	"MASS":                   {count: natomCount, def: e16},
	"ATOM_TYPE_INDEX":        {count: natomCount, def: i8},
	"AMBER_ATOM_TYPE":        {count: natomCount, def: a4},
	"RESIDUE_LABEL":          {count: nresCount, def: a4},
	"RESIDUE_POINTER":        {count: nresCount, def: i8},
	"BONDS_INC_HYDROGEN":     {count: func(p []int) int { return 3 * p[ptrNbonh] }, def: i8},
	"BONDS_WITHOUT_HYDROGEN": {count: func(p []int) int { return 3 * p[ptrNbona] }, def: i8},
}

//one tokenized-but-not-yet-decoded section
type rawSection struct {
	name   string
	format string //the %FORMAT line, or "" if the file had none
	lines  []string
	line   int //1-based line number of the %FLAG line
}

// Parse reads a full topology file and returns the reconstructed
// Topology. All errors are fatal to the parse; none are recovered.
func Parse(r io.Reader) (*md.Topology, error) {
	raws, err := tokenize(r)
	if err != nil {
		return nil, err
	}
	var praw *rawSection
	for _, s := range raws {
		if s.name == "POINTERS" {
			praw = s
			break
		}
	}
	if praw == nil {
		return nil, Error{message: "required POINTERS section is missing", kind: md.ErrFormat}
	}
	psec, err := decodeSection(praw, fortran.Format{PerLine: 10, Width: 8, Kind: fortran.Int})
	if err != nil {
		return nil, err
	}
	if psec.Ints == nil || len(psec.Ints) < minPointers {
		return nil, Error{
			message: fmt.Sprintf("POINTERS section holds %d values, at least %d needed", psec.Len(), minPointers),
			section: "POINTERS", line: praw.line, kind: md.ErrFormat,
		}
	}
	pointers := psec.Ints
	secs := make([]*Section, 0, len(raws))
	for _, raw := range raws {
		if raw.name == "POINTERS" {
			continue
		}
		spec, ok := knownFlags[raw.name]
		if !ok {
			log.Debug("skipping unknown topology section", "flag", raw.name)
			continue
		}
		sec, err := decodeSection(raw, spec.def)
		if err != nil {
			return nil, err
		}
		if want := spec.count(pointers); want >= 0 && sec.Len() != want {
			return nil, Error{
				message: fmt.Sprintf("%d values present but the pointer table requires %d", sec.Len(), want),
				section: raw.name, line: raw.line, kind: md.ErrSizeMismatch,
			}
		}
		secs = append(secs, sec)
	}
	return build(pointers, secs)
}

// ParseFile parses the named topology file, transparently decompressing
// .gz, .bz2 and .zst suffixes.
func ParseFile(name string) (*md.Topology, error) {
	f, err := md.OpenDecompressed(name)
	if err != nil {
		return nil, Error{message: err.Error(), filename: name, kind: md.ErrIO}
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		if e, ok := err.(Error); ok {
			e.filename = name
			return nil, e
		}
		return nil, err
	}
	return t, nil
}

//tokenize splits the file into raw sections, checking the version
//header on the way.
func tokenize(r io.Reader) ([]*rawSection, error) {
	sc := bufio.NewScanner(r)
	raws := make([]*rawSection, 0, 16)
	var cur *rawSection
	versionSeen := false
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSuffix(sc.Text(), "\r")
		switch {
		case strings.HasPrefix(line, "%VERSION"):
			if err := checkVersion(line, lineno); err != nil {
				return nil, err
			}
			versionSeen = true
		case strings.HasPrefix(line, "%FLAG"):
			if !versionSeen {
				return nil, Error{message: "%FLAG before the %VERSION header", line: lineno, kind: md.ErrFormat}
			}
			cur = &rawSection{name: strings.TrimSpace(line[len("%FLAG"):]), line: lineno}
			if cur.name == "" {
				return nil, Error{message: "%FLAG line carries no section name", line: lineno, kind: md.ErrFormat}
			}
			raws = append(raws, cur)
		case strings.HasPrefix(line, "%COMMENT"):
			//comments may appear between %FLAG and %FORMAT; skipped
		case strings.HasPrefix(line, "%FORMAT"):
			if cur == nil {
				return nil, Error{message: "%FORMAT outside of any section", line: lineno, kind: md.ErrFormat}
			}
			cur.format = line
		default:
			if cur != nil {
				cur.lines = append(cur.lines, line)
			}
			//stray text before the first %FLAG is tolerated
		}
	}
	if err := sc.Err(); err != nil {
		return nil, Error{message: err.Error(), line: lineno, kind: md.ErrIO}
	}
	if !versionSeen {
		return nil, Error{message: "missing %VERSION header", kind: md.ErrFormat}
	}
	return raws, nil
}

func checkVersion(line string, lineno int) error {
	fields := strings.Fields(line)
	for i, f := range fields {
		if f == "VERSION_STAMP" && i+2 < len(fields) && fields[i+1] == "=" {
			stamp := fields[i+2]
			if !strings.HasPrefix(stamp, "V0001") {
				return Error{
					message: fmt.Sprintf("unsupported topology format version %s", stamp),
					line:    lineno, kind: md.ErrUnsupported,
				}
			}
			return nil
		}
	}
	//a %VERSION line without a stamp is accepted; some writers omit it
	return nil
}

//decodeSection runs the field decoder over a raw section's data lines,
//using the section's declared format or def when none was declared.
func decodeSection(raw *rawSection, def fortran.Format) (*Section, error) {
	f := def
	if raw.format != "" {
		var err error
		f, err = fortran.ParseFormat(raw.format)
		if err != nil {
			return nil, Error{message: err.Error(), section: raw.name, line: raw.line, kind: kindOf(err)}
		}
	}
	d := fortran.NewDecoder(f)
	for i, l := range raw.lines {
		if err := d.Line(l); err != nil {
			return nil, Error{
				message: err.Error(),
				section: raw.name, line: raw.line + dataOffset(raw) + i,
				kind: kindOf(err),
			}
		}
	}
	sec := &Section{Name: raw.name, Format: f}
	switch f.Kind {
	case fortran.Int:
		sec.Ints = d.Ints()
		if sec.Ints == nil {
			sec.Ints = []int{}
		}
	case fortran.Float:
		sec.Floats = d.Floats()
		if sec.Floats == nil {
			sec.Floats = []float64{}
		}
	default:
		sec.Strings = d.Strings()
		if sec.Strings == nil {
			sec.Strings = []string{}
		}
	}
	return sec, nil
}

//first data line of a section relative to its %FLAG line: one more if a
//%FORMAT line sits in between.
func dataOffset(raw *rawSection) int {
	if raw.format != "" {
		return 2
	}
	return 1
}

func kindOf(err error) md.ErrKind {
	if ke, ok := err.(interface{ Kind() md.ErrKind }); ok {
		return ke.Kind()
	}
	return md.ErrFormat
}

//Errors

// Error is the error type for topology file problems. It fulfills
// mdanalysis.Error and mdanalysis.ParseError.
type Error struct {
	message  string
	section  string //the offending %FLAG name, or empty
	line     int    //1-based line in the input, 0 if not applicable
	filename string //the input file, or empty when parsing a stream
	kind     md.ErrKind
	deco     []string
}

func (err Error) Error() string {
	b := new(strings.Builder)
	fmt.Fprintf(b, "Amber topology file %s: %s", err.filename, err.kind)
	if err.section != "" {
		fmt.Fprintf(b, " in section %s", err.section)
	}
	if err.line > 0 {
		fmt.Fprintf(b, " (line %d)", err.line)
	}
	fmt.Fprintf(b, ": %s", err.message)
	return b.String()
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

func (err Error) Format() string { return "prmtop" }
