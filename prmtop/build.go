package prmtop

import (
	"fmt"

	md "github.com/davidercruz/mdanalysis"
)

//build maps the decoded sections onto a Topology. Sections absent from
//the file leave the matching attribute unpopulated; that is not an
//error. A section of the wrong kind is a format error: the file is
//structurally valid prmtop but semantically corrupt.
func build(pointers []int, secs []*Section) (*md.Topology, error) {
	natoms := pointers[ptrNatom]
	if natoms < 0 {
		return nil, Error{message: fmt.Sprintf("negative atom count %d in POINTERS", natoms), section: "POINTERS", kind: md.ErrFormat}
	}
	t := md.NewTopology(natoms)
	byName := make(map[string]*Section, len(secs))
	for _, s := range secs {
		byName[s.Name] = s
	}
	if s := byName["TITLE"]; s != nil {
		t.Title = joinTitle(s)
	} else if s := byName["CTITLE"]; s != nil {
		t.Title = joinTitle(s)
	}
	var err error
	if t.Names, err = wantStrings(byName, "ATOM_NAME"); err != nil {
		return nil, err
	}
	if t.Types, err = wantStrings(byName, "AMBER_ATOM_TYPE"); err != nil {
		return nil, err
	}
	if t.Masses, err = wantFloats(byName, "MASS"); err != nil {
		return nil, err
	}
	if t.TypeIndices, err = wantInts(byName, "ATOM_TYPE_INDEX"); err != nil {
		return nil, err
	}
	charges, err := wantFloats(byName, "CHARGE")
	if err != nil {
		return nil, err
	}
	if charges != nil {
		//Amber stores charges premultiplied by 18.2223; report them in
		//elementary charge units.
		t.Charges = make([]float64, len(charges))
		for i, q := range charges {
			t.Charges[i] = q / md.AmberChargeFactor
		}
	}
	numbers, err := wantInts(byName, "ATOMIC_NUMBER")
	if err != nil {
		return nil, err
	}
	if numbers != nil {
		t.Elements = make([]string, len(numbers))
		for i, z := range numbers {
			t.Elements[i] = md.ElementSymbol(z)
		}
	}
	if err = buildResidues(t, byName); err != nil {
		return nil, err
	}
	if err = buildBonds(t, byName); err != nil {
		return nil, err
	}
	return t, nil
}

func joinTitle(s *Section) string {
	title := ""
	for _, w := range s.Strings {
		if title != "" && w != "" {
			title += " "
		}
		title += w
	}
	return title
}

//RESIDUE_POINTER holds, per residue, the 1-based index of its first
//atom, in ascending order. Residue i spans [ptr[i]-1, ptr[i+1]-1), and
//the last residue runs to the end of the atom range.
func buildResidues(t *md.Topology, byName map[string]*Section) error {
	psec := byName["RESIDUE_POINTER"]
	if psec == nil {
		return nil
	}
	ptr, err := wantInts(byName, "RESIDUE_POINTER")
	if err != nil {
		return err
	}
	labels, err := wantStrings(byName, "RESIDUE_LABEL")
	if err != nil {
		return err
	}
	if len(ptr) == 0 {
		return nil
	}
	if ptr[0] != 1 {
		return Error{
			message: fmt.Sprintf("first residue starts at atom %d, not 1", ptr[0]),
			section: "RESIDUE_POINTER", kind: md.ErrFormat,
		}
	}
	t.Residues = make([]md.Residue, len(ptr))
	for i, first := range ptr {
		last := t.Len()
		if i < len(ptr)-1 {
			last = ptr[i+1] - 1
		}
		if first < 1 || first > t.Len() || last < first {
			return Error{
				message: fmt.Sprintf("residue %d spans atoms [%d, %d), outside [0, %d)", i+1, first-1, last, t.Len()),
				section: "RESIDUE_POINTER", kind: md.ErrFormat,
			}
		}
		t.Residues[i] = md.Residue{Id: i + 1, First: first - 1, Last: last}
		if labels != nil {
			t.Residues[i].Name = labels[i]
		}
	}
	return nil
}

//bond sections hold triples of coordinate-array offsets (index*3) plus
//a force-field type index; only the atom pair is kept here.
func buildBonds(t *md.Topology, byName map[string]*Section) error {
	for _, name := range []string{"BONDS_INC_HYDROGEN", "BONDS_WITHOUT_HYDROGEN"} {
		vals, err := wantInts(byName, name)
		if err != nil {
			return err
		}
		for k := 0; k+2 < len(vals); k += 3 {
			i, j := vals[k]/3, vals[k+1]/3
			if i < 0 || i >= t.Len() || j < 0 || j >= t.Len() {
				return Error{
					message: fmt.Sprintf("bond %d-%d references atoms outside [0, %d)", i, j, t.Len()),
					section: name, kind: md.ErrFormat,
				}
			}
			t.Bonds = append(t.Bonds, [2]int{i, j})
		}
	}
	return nil
}

func wantStrings(byName map[string]*Section, name string) ([]string, error) {
	s := byName[name]
	if s == nil {
		return nil, nil
	}
	if s.Strings == nil {
		return nil, wrongKind(s, "strings")
	}
	return s.Strings, nil
}

func wantFloats(byName map[string]*Section, name string) ([]float64, error) {
	s := byName[name]
	if s == nil {
		return nil, nil
	}
	if s.Floats == nil {
		return nil, wrongKind(s, "floats")
	}
	return s.Floats, nil
}

func wantInts(byName map[string]*Section, name string) ([]int, error) {
	s := byName[name]
	if s == nil {
		return nil, nil
	}
	if s.Ints == nil {
		return nil, wrongKind(s, "integers")
	}
	return s.Ints, nil
}

func wrongKind(s *Section, want string) error {
	return Error{
		message: fmt.Sprintf("declared format %s does not hold %s", s.Format, want),
		section: s.Name, kind: md.ErrFormat,
	}
}
