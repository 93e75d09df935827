package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `step 1 converged
rigid body: stroke=0.000000 force=0.000000
rigid body: stroke=0.100000 force=12.500000
rigid body: stroke=0.100000 force=12.500000
rigid body: stroke=0.200000 force=25.0
rigid body: stroke=0.150000 force=20.0
rigid body: stroke=0.300000 fo`

func TestScanLogDedupsAndDiscardsTruncatedTail(t *testing.T) {
	points, err := ScanLog(strings.NewReader(sampleLog))
	require.NoError(t, err)

	require.Len(t, points, 4)
	assert.Equal(t, Point{Stroke: 0, Force: 0}, points[0])
	assert.Equal(t, Point{Stroke: 0.1, Force: 12.5}, points[1])
	assert.Equal(t, Point{Stroke: 0.2, Force: 25.0}, points[2])
	// Non-monotone stroke preserved in original order, not sorted.
	assert.Equal(t, Point{Stroke: 0.15, Force: 20.0}, points[3])
}

func TestWriteCSVFormat(t *testing.T) {
	points := []Point{{Stroke: 0, Force: 0}, {Stroke: 1.23456789, Force: -9.87654321}}
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteCSV(points, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "stroke,force", lines[0])
	assert.Equal(t, "0,0", lines[1])
	assert.Equal(t, "1.23457,-9.87654", lines[2])
	assert.False(t, strings.Contains(string(data), "\r"))
}

func TestWritePNGProducesNonEmptyFile(t *testing.T) {
	points := []Point{{Stroke: 0, Force: 0}, {Stroke: 1, Force: 10}, {Stroke: 2, Force: 5}}
	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, WritePNG(points, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
