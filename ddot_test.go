package ddot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// Connections from child terms to parent terms
var hierarchy = []Pair{
	{"S3", "S1"},
	{"S4", "S1"},
	{"S5", "S1"},
	{"S5", "S2"},
	{"S6", "S2"},
	{"S1", "S0"},
	{"S2", "S0"},
}

// Connections from genes to terms
var mapping = []Pair{
	{"A", "S3"},
	{"B", "S3"},
	{"C", "S3"},
	{"C", "S4"},
	{"D", "S4"},
	{"E", "S5"},
	{"F", "S5"},
	{"G", "S6"},
	{"H", "S6"},
}

func fixture(t *testing.T) *Ontology {
	t.Helper()
	ont, err := New(hierarchy, mapping, nil)
	require.NoError(t, err)
	return ont
}

func TestNodeKey(t *testing.T) {
	assert.Equal(t, NodeKey("go", "S0"), NodeKey("go", "S0"))
	assert.NotEqual(t, NodeKey("go", "gene 1"), NodeKey("go", "gene_1"))
	assert.NotEqual(t, NodeKey("o:x", "y"), NodeKey("o", "x:y"))
	assert.NotEqual(t, NodeKey("go", "a/b"), NodeKey("go", "a_b"))
	assert.Regexp(t, `^[0-9a-f-]{36}$`, NodeKey("my ontology", "GO:0008150/x"))
}

func TestReadPairs(t *testing.T) {
	in := "# child\tparent\nS3\tS1\n\nS1\tS0\n"
	pairs, err := ReadPairs(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []Pair{{"S3", "S1"}, {"S1", "S0"}}, pairs)

	_, err = ReadPairs(strings.NewReader("S3 S1\n"))
	assert.ErrorIs(t, err, ErrMalformedTable)
}
