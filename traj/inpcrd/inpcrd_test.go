package inpcrd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	md "github.com/davidercruz/mdanalysis"
)

func writeRestart(t *testing.T, lines ...string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "test.rst7")
	err := os.WriteFile(name, []byte(strings.Join(lines, "\n")+"\n"), 0644)
	require.NoError(t, err)
	return name
}

func rline(vals ...float64) string {
	b := new(strings.Builder)
	for _, v := range vals {
		fmt.Fprintf(b, "%12.7f", v)
	}
	return b.String()
}

func TestReadCoordsOnly(t *testing.T) {
	name := writeRestart(t,
		"minimized structure",
		"     2",
		rline(1, 2, 3, 4, 5, 6),
	)
	f, err := Read(name, 2)
	require.NoError(t, err)
	require.Equal(t, 2, f.Len())
	assert.InDelta(t, 1.0, f.Coords.At(0, 0), 1e-6)
	assert.InDelta(t, 6.0, f.Coords.At(1, 2), 1e-6)
	assert.Nil(t, f.Vel)
	assert.Nil(t, f.Cell)
	assert.False(t, f.HasTime)
}

func TestReadWithTimeVelocitiesAndBox(t *testing.T) {
	name := writeRestart(t,
		"restart at 10.5 ps",
		"     2  10.5000000",
		rline(1, 2, 3, 4, 5, 6),
		rline(0.1, 0.2, 0.3, 0.4, 0.5, 0.6),
		rline(20, 20, 20, 90, 90, 90),
	)
	f, err := Read(name, 2)
	require.NoError(t, err)
	assert.True(t, f.HasTime)
	assert.InDelta(t, 10.5, f.Time, 1e-6)
	require.NotNil(t, f.Vel)
	assert.InDelta(t, 0.6, f.Vel.At(1, 2), 1e-6)
	require.NotNil(t, f.Cell)
	assert.Equal(t, [3]float64{20, 20, 20}, f.Cell.Lengths)
	assert.Equal(t, [3]float64{90, 90, 90}, f.Cell.Angles)
}

//with three or more atoms a lone trailing line is too short to be a
//velocity block, so it must be read as the unit cell.
func TestReadBoxWithoutVelocities(t *testing.T) {
	name := writeRestart(t,
		"boxed, no velocities",
		"     3",
		rline(1, 1, 1, 2, 2, 2),
		rline(3, 3, 3),
		rline(18, 18, 18, 109.47, 109.47, 109.47),
	)
	f, err := Read(name, 3)
	require.NoError(t, err)
	assert.Nil(t, f.Vel)
	require.NotNil(t, f.Cell)
	assert.InDelta(t, 109.47, f.Cell.Angles[0], 1e-6)
}

//for a one-atom system a velocity block and a unit-cell line are both a
//single line; the value count decides which one it is.
func TestReadOneAtomAmbiguity(t *testing.T) {
	vel := writeRestart(t,
		"one atom plus velocities",
		"     1",
		rline(1, 2, 3),
		rline(0.1, 0.2, 0.3),
	)
	f, err := Read(vel, 1)
	require.NoError(t, err)
	require.NotNil(t, f.Vel)
	assert.Nil(t, f.Cell)

	box := writeRestart(t,
		"one atom plus box",
		"     1",
		rline(1, 2, 3),
		rline(20, 20, 20, 90, 90, 90),
	)
	f, err = Read(box, 1)
	require.NoError(t, err)
	assert.Nil(t, f.Vel)
	require.NotNil(t, f.Cell)
}

func TestReadAtomCountMismatch(t *testing.T) {
	name := writeRestart(t,
		"wrong system",
		"     5",
		rline(1, 1, 1, 2, 2, 2),
	)
	_, err := Read(name, 4)
	require.Error(t, err)
	assert.True(t, md.IsKind(err, md.ErrSizeMismatch))
}

func TestReadTruncated(t *testing.T) {
	//3 atoms need 9 values over 2 lines; the file ends after the first
	name := writeRestart(t,
		"cut short",
		"     3",
		rline(1, 1, 1, 2, 2, 2),
	)
	_, err := Read(name, 3)
	require.Error(t, err)
	assert.True(t, md.IsKind(err, md.ErrTruncation))
}

func TestReadShortBlock(t *testing.T) {
	//2 atoms need 6 values but the single block line holds 3
	name := writeRestart(t,
		"incomplete",
		"     2",
		rline(1, 2, 3),
	)
	_, err := Read(name, 2)
	require.Error(t, err)
	assert.True(t, md.IsKind(err, md.ErrSizeMismatch))
}

func TestReadBadHeader(t *testing.T) {
	name := writeRestart(t,
		"bad header",
		"  none",
		rline(1, 2, 3),
	)
	_, err := Read(name, 0)
	require.Error(t, err)
	assert.True(t, md.IsKind(err, md.ErrFormat))
}

func TestReadErrorCarriesFilename(t *testing.T) {
	name := writeRestart(t, "only a title")
	_, err := Read(name, 0)
	require.Error(t, err)
	pe, ok := err.(md.ParseError)
	require.True(t, ok)
	assert.Equal(t, name, pe.FileName())
	assert.Equal(t, "Amber restart", pe.Format())
}
