package prmtop

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	md "github.com/davidercruz/mdanalysis"
)

func iline(vals ...int) string {
	b := new(strings.Builder)
	for _, v := range vals {
		fmt.Fprintf(b, "%8d", v)
	}
	return b.String()
}

func eline(vals ...float64) string {
	b := new(strings.Builder)
	for _, v := range vals {
		fmt.Fprintf(b, "%16.8E", v)
	}
	return b.String()
}

//a one-residue-short water topology: 3 atoms, 2 bonds with hydrogen,
//the residue table split as two residues to exercise the range logic.
func waterTop() string {
	pointers := make([]int, 13)
	pointers[ptrNatom] = 3
	pointers[ptrNbonh] = 2
	pointers[ptrNres] = 2
	pointers[ptrNbona] = 0
	lines := []string{
		"%VERSION  VERSION_STAMP = V0001.000  DATE = 05/22/06  12:10:21",
		"%FLAG TITLE",
		"%FORMAT(20a4)",
		"WAT ",
		"%FLAG POINTERS",
		"%FORMAT(10I8)",
		iline(pointers[:10]...),
		iline(pointers[10:]...),
		"%FLAG ATOM_NAME",
		"%FORMAT(20a4)",
		"O   H1  H2  ",
		"%FLAG CHARGE",
		"%FORMAT(5E16.8)",
		eline(-0.834*md.AmberChargeFactor, 0.417*md.AmberChargeFactor, 0.417*md.AmberChargeFactor),
		"%FLAG ATOMIC_NUMBER",
		"%FORMAT(10I8)",
		iline(8, 1, 1),
		"%FLAG MASS",
		"%FORMAT(5E16.8)",
		eline(16.0, 1.008, 1.008),
		"%FLAG AMBER_ATOM_TYPE",
		"%FORMAT(20a4)",
		"OW  HW  HW  ",
		"%FLAG RESIDUE_LABEL",
		"%FORMAT(20a4)",
		"WAT WAT ",
		"%FLAG RESIDUE_POINTER",
		"%FORMAT(10I8)",
		iline(1, 3),
		"%FLAG BONDS_INC_HYDROGEN",
		"%FORMAT(10I8)",
		iline(0, 3, 1, 0, 6, 1),
	}
	return strings.Join(lines, "\n") + "\n"
}

func TestParseWater(t *testing.T) {
	top, err := Parse(strings.NewReader(waterTop()))
	require.NoError(t, err)
	require.Equal(t, 3, top.Len())
	assert.Equal(t, "WAT", top.Title)
	assert.Equal(t, []string{"O", "H1", "H2"}, top.Names)
	assert.Equal(t, []string{"OW", "HW", "HW"}, top.Types)
	assert.Equal(t, []string{"O", "H", "H"}, top.Elements)
	require.Len(t, top.Charges, 3)
	assert.InDelta(t, -0.834, top.Charges[0], 1e-6)
	assert.InDelta(t, 0.417, top.Charges[1], 1e-6)
	//the stored value must round-trip back to Amber units
	assert.InDelta(t, -0.834*md.AmberChargeFactor, top.Charges[0]*md.AmberChargeFactor, 1e-4)
	require.Len(t, top.Residues, 2)
	assert.Equal(t, md.Residue{Name: "WAT", Id: 1, First: 0, Last: 2}, top.Residues[0])
	assert.Equal(t, md.Residue{Name: "WAT", Id: 2, First: 2, Last: 3}, top.Residues[1])
	assert.Equal(t, [][2]int{{0, 1}, {0, 2}}, top.Bonds)
	at := top.Atom(0)
	assert.Equal(t, "O", at.Name)
	assert.Equal(t, "WAT", at.Molname)
	assert.Equal(t, 1, at.Molid)
	r := top.ResidueOf(2)
	require.NotNil(t, r)
	assert.Equal(t, 2, r.Id)
}

func TestParseMissingPointers(t *testing.T) {
	in := "%VERSION  VERSION_STAMP = V0001.000\n%FLAG TITLE\n%FORMAT(20a4)\nWAT \n"
	_, err := Parse(strings.NewReader(in))
	require.Error(t, err)
	assert.True(t, md.IsKind(err, md.ErrFormat))
}

func TestParseCountMismatch(t *testing.T) {
	//two atom names for three atoms
	in := strings.Replace(waterTop(), "O   H1  H2  ", "O   H1  ", 1)
	_, err := Parse(strings.NewReader(in))
	require.Error(t, err)
	assert.True(t, md.IsKind(err, md.ErrSizeMismatch))
	assert.Contains(t, err.Error(), "ATOM_NAME")
}

func TestParseUnknownFlagSkipped(t *testing.T) {
	in := waterTop() + "%FLAG SOLTY\n%FORMAT(5E16.8)\n" + eline(0, 0) + "\n"
	top, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 3, top.Len())
}

func TestParseUnsupportedVersion(t *testing.T) {
	in := strings.Replace(waterTop(), "V0001.000", "V0002.000", 1)
	_, err := Parse(strings.NewReader(in))
	require.Error(t, err)
	assert.True(t, md.IsKind(err, md.ErrUnsupported))
}

func TestParseFlagBeforeVersion(t *testing.T) {
	in := "%FLAG TITLE\n%FORMAT(20a4)\nWAT \n"
	_, err := Parse(strings.NewReader(in))
	require.Error(t, err)
	assert.True(t, md.IsKind(err, md.ErrFormat))
}

//a section whose declared format disagrees with what the builder needs
//is semantically corrupt even if it tokenizes.
func TestParseWrongSectionKind(t *testing.T) {
	in := strings.Replace(waterTop(), "%FLAG MASS\n%FORMAT(5E16.8)\n"+eline(16.0, 1.008, 1.008),
		"%FLAG MASS\n%FORMAT(20a4)\n16  1   1   ", 1)
	_, err := Parse(strings.NewReader(in))
	require.Error(t, err)
	assert.True(t, md.IsKind(err, md.ErrFormat))
	assert.Contains(t, err.Error(), "MASS")
}

//sections the file omits simply leave the topology attribute nil.
func TestParseSparseFile(t *testing.T) {
	pointers := make([]int, 13)
	pointers[ptrNatom] = 2
	lines := []string{
		"%VERSION  VERSION_STAMP = V0001.000",
		"%FLAG POINTERS",
		"%FORMAT(10I8)",
		iline(pointers[:10]...),
		iline(pointers[10:]...),
		"%FLAG ATOM_NAME",
		"%FORMAT(20a4)",
		"C1  C2  ",
	}
	top, err := Parse(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, top.Len())
	assert.Equal(t, []string{"C1", "C2"}, top.Names)
	assert.Nil(t, top.Charges)
	assert.Nil(t, top.Masses)
	assert.Empty(t, top.Residues)
	assert.Empty(t, top.Bonds)
}
