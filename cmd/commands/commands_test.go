package commands

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command from an empty directory against the
// sample dataset, logging to stderr only.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	sample, err := filepath.Abs(filepath.Join("..", "..", "internal", "dataset", "testdata", "train_sample.csv"))
	require.NoError(t, err)
	chdir(t, t.TempDir())
	t.Cleanup(func() { renderOutput = "" })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--dataset.path", sample, "--log.dir", ""))
	err = rootCmd.Execute()
	return out.String(), err
}

func TestRenderWritesPNG(t *testing.T) {
	target := filepath.Join(t.TempDir(), "figure5.png")

	_, err := run(t, "render", "figure5", "-o", target)
	require.NoError(t, err)

	f, err := os.Open(target)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 1000, img.Bounds().Dx())
	assert.Equal(t, 500, img.Bounds().Dy())
}

func TestRenderPrintsBase64(t *testing.T) {
	out, err := run(t, "render", "figure1")
	require.NoError(t, err)
	// base64 of the PNG signature
	assert.True(t, len(out) > 100)
	assert.Equal(t, "iVBORw0KGgo", out[:11])
}

func TestRenderRejectsUnknownFigure(t *testing.T) {
	_, err := run(t, "render", "figure8")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown figure")
}

func TestStatsPrintsChiSquare(t *testing.T) {
	out, err := run(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "chi2 = ")
	assert.Contains(t, out, "dof = 4")
}

func TestMissingDatasetFails(t *testing.T) {
	chdir(t, t.TempDir())
	rootCmd.SetArgs([]string{"stats", "--dataset.path", "does-not-exist.csv", "--log.dir", ""})
	assert.Error(t, rootCmd.Execute())
}
