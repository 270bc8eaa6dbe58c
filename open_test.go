package mdanalysis

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = "POINTERS and other fixed-width text\nsecond line\n"

func TestOpenDecompressedPlain(t *testing.T) {
	name := filepath.Join(t.TempDir(), "plain.top")
	require.NoError(t, os.WriteFile(name, []byte(payload), 0644))
	r, err := OpenDecompressed(name)
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, payload, string(got))
	assert.NoError(t, r.Close())
}

func TestOpenDecompressedGzip(t *testing.T) {
	name := filepath.Join(t.TempDir(), "comp.top.gz")
	f, err := os.Create(name)
	require.NoError(t, err)
	w := gzip.NewWriter(f)
	_, err = w.Write([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	r, err := OpenDecompressed(name)
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, payload, string(got))
	assert.NoError(t, r.Close())
}

func TestOpenDecompressedZstd(t *testing.T) {
	name := filepath.Join(t.TempDir(), "comp.top.zst")
	f, err := os.Create(name)
	require.NoError(t, err)
	w, err := zstd.NewWriter(f)
	require.NoError(t, err)
	_, err = w.Write([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	r, err := OpenDecompressed(name)
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, payload, string(got))
	assert.NoError(t, r.Close())
}

func TestOpenDecompressedMissing(t *testing.T) {
	_, err := OpenDecompressed(filepath.Join(t.TempDir(), "no-such-file"))
	require.Error(t, err)
}
