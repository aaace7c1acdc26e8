package ddot

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSimilarityEdges(t *testing.T) {
	sim, err := NewSimilarity([]string{"a", "b", "c"}, mat.NewDense(3, 3, []float64{
		1, 0.5, math.NaN(),
		0.5, 1, 0.25,
		math.NaN(), 0.25, 1,
	}))
	require.NoError(t, err)

	assert.Equal(t, EdgeList{{"a", "b", 0.5}, {"b", "c", 0.25}}, sim.Edges())

	var buf bytes.Buffer
	require.NoError(t, sim.Edges().Write(&buf))
	assert.Equal(t, "a\tb\t0.5\nb\tc\t0.25\n", buf.String())

	edges, err := ReadEdgeList(&buf)
	require.NoError(t, err)
	assert.Equal(t, sim.Edges(), edges)
}

func TestFlattenedEdgeCount(t *testing.T) {
	sim, err := fixture(t).Flatten(nil)
	require.NoError(t, err)
	assert.Len(t, sim.Edges(), 8*7/2)
}

func TestNewSimilarityErrors(t *testing.T) {
	_, err := NewSimilarity([]string{"a", "b"}, mat.NewDense(2, 3, nil))
	assert.ErrorIs(t, err, ErrDimension)
	_, err = NewSimilarity([]string{"a"}, mat.NewDense(2, 2, nil))
	assert.ErrorIs(t, err, ErrDimension)
	_, err = NewSimilarity([]string{"a", "a"}, mat.NewDense(2, 2, nil))
	assert.Error(t, err)
}

func TestSquareRoundTrip(t *testing.T) {
	sim, err := fixture(t).Flatten(nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, sim.WriteSquare(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), "\tA\tB\tC\tD\tE\tF\tG\tH\n"))

	read, err := ReadSquare(&buf)
	require.NoError(t, err)
	assert.Equal(t, sim.Names, read.Names)
	assert.True(t, mat.EqualApprox(sim.Matrix, read.Matrix, 1e-12))

	_, err = sim.At("A", "Z")
	assert.ErrorIs(t, err, ErrUnknownName)
}

func TestReadSquareMalformed(t *testing.T) {
	_, err := ReadSquare(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMalformedTable)
	_, err = ReadSquare(strings.NewReader("\ta\tb\nb\t1\t0\na\t0\t1\n"))
	assert.ErrorIs(t, err, ErrMalformedTable)
	_, err = ReadSquare(strings.NewReader("\ta\tb\na\t1\t0\n"))
	assert.ErrorIs(t, err, ErrDimension)
}
