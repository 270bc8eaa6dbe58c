package crd

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

var _ md.FrameCounter = (*CrdObj)(nil)

func writeTraj(t *testing.T, lines ...string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "test.mdcrd")
	err := os.WriteFile(name, []byte(strings.Join(lines, "\n")+"\n"), 0644)
	require.NoError(t, err)
	return name
}

func fline(vals ...float64) string {
	b := new(strings.Builder)
	for _, v := range vals {
		fmt.Fprintf(b, "%8.3f", v)
	}
	return b.String()
}

func TestNextWithBox(t *testing.T) {
	name := writeTraj(t,
		"generated trajectory",
		fline(1, 2, 3, 4, 5, 6),
		fline(20, 20, 20, 90, 90, 90),
	)
	C, err := New(name, 2, false, true)
	require.NoError(t, err)
	defer C.Close()
	require.True(t, C.Readable())
	assert.Equal(t, 2, C.Len())
	assert.Equal(t, -1, C.Frames())
	f := md.NewFrame(2, false)
	require.NoError(t, C.Next(f))
	assert.InDelta(t, 1.0, f.Coords.At(0, 0), 1e-6)
	assert.InDelta(t, 6.0, f.Coords.At(1, 2), 1e-6)
	require.NotNil(t, f.Cell)
	assert.Equal(t, [3]float64{20, 20, 20}, f.Cell.Lengths)
	assert.Equal(t, [3]float64{90, 90, 90}, f.Cell.Angles)
	err = C.Next(f)
	require.Error(t, err)
	var lfe md.LastFrameError
	assert.ErrorAs(t, err, &lfe)
	assert.False(t, C.Readable())
}

func TestNextWithVelocities(t *testing.T) {
	name := writeTraj(t,
		"one atom, velocities, no box",
		fline(1, 2, 3),
		fline(0.1, 0.2, 0.3),
	)
	C, err := New(name, 1, true, false)
	require.NoError(t, err)
	defer C.Close()
	f := md.NewFrame(1, true)
	require.NoError(t, C.Next(f))
	assert.InDelta(t, 3.0, f.Coords.At(0, 2), 1e-6)
	require.NotNil(t, f.Vel)
	assert.InDelta(t, 0.2, f.Vel.At(0, 1), 1e-6)
	assert.Nil(t, f.Cell)
}

//Next(nil) must consume exactly one frame so the next read stays aligned.
func TestNextNilSkips(t *testing.T) {
	name := writeTraj(t,
		"two frames",
		fline(1, 1, 1),
		fline(2, 2, 2),
	)
	C, err := New(name, 1, false, false)
	require.NoError(t, err)
	defer C.Close()
	require.NoError(t, C.Next(nil))
	f := md.NewFrame(1, false)
	require.NoError(t, C.Next(f))
	assert.InDelta(t, 2.0, f.Coords.At(0, 0), 1e-6)
}

//a frame can span several physical lines; 11 atoms need 33 values, 10
//per line.
func TestNextMultiLineBlock(t *testing.T) {
	vals := make([]float64, 33)
	for i := range vals {
		vals[i] = float64(i)
	}
	name := writeTraj(t,
		"big frame",
		fline(vals[:10]...),
		fline(vals[10:20]...),
		fline(vals[20:30]...),
		fline(vals[30:]...),
	)
	C, err := New(name, 11, false, false)
	require.NoError(t, err)
	defer C.Close()
	f := md.NewFrame(11, false)
	require.NoError(t, C.Next(f))
	assert.InDelta(t, 32.0, f.Coords.At(10, 2), 1e-6)
}

func TestTruncatedFrame(t *testing.T) {
	//4 atoms need 12 values over 2 lines; only one line is present
	name := writeTraj(t,
		"truncated",
		fline(1, 2, 3, 4, 5, 6, 7, 8, 9, 10),
	)
	C, err := New(name, 4, false, false)
	require.NoError(t, err)
	defer C.Close()
	err = C.Next(md.NewFrame(4, false))
	require.Error(t, err)
	assert.True(t, md.IsKind(err, md.ErrTruncation))
	assert.False(t, C.Readable())
}

func TestShortBlock(t *testing.T) {
	//2 atoms need 6 values; the single block line holds 3
	name := writeTraj(t,
		"short",
		fline(1, 2, 3),
	)
	C, err := New(name, 2, false, false)
	require.NoError(t, err)
	defer C.Close()
	err = C.Next(md.NewFrame(2, false))
	require.Error(t, err)
	assert.True(t, md.IsKind(err, md.ErrSizeMismatch))
}

func TestBadBoxLine(t *testing.T) {
	name := writeTraj(t,
		"bad box",
		fline(1, 2, 3),
		"  20.000  20.000  20.000",
	)
	C, err := New(name, 1, false, true)
	require.NoError(t, err)
	defer C.Close()
	err = C.Next(md.NewFrame(1, false))
	require.Error(t, err)
	assert.True(t, md.IsKind(err, md.ErrFormat))
}

func TestNewRejectsBadAtomCount(t *testing.T) {
	_, err := New("irrelevant", 0, false, false)
	require.Error(t, err)
	assert.True(t, md.IsKind(err, md.ErrFormat))
}

func TestNextAfterClose(t *testing.T) {
	name := writeTraj(t, "title", fline(1, 2, 3))
	C, err := New(name, 1, false, false)
	require.NoError(t, err)
	require.NoError(t, C.Close())
	err = C.Next(md.NewFrame(1, false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), TrajUnIni)
}
