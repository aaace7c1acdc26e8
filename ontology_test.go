package ddot

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ont := fixture(t)

	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F", "G", "H"}, ont.Genes())
	assert.Equal(t, []string{"S0", "S1", "S2", "S3", "S4", "S5", "S6"}, ont.Terms())
	assert.Equal(t, []string{"S0"}, ont.Roots())
	assert.Equal(t, "8 genes, 7 terms, 9 gene-term relations, 7 term-term relations", ont.String())

	sizes := map[string]int{"S0": 8, "S1": 6, "S2": 4, "S3": 3, "S4": 2, "S5": 2, "S6": 2}
	for term, want := range sizes {
		got, err := ont.TermSize(term)
		require.NoError(t, err)
		assert.Equal(t, want, got, term)
	}
}

func TestNewDeduplicates(t *testing.T) {
	ont, err := New(append(hierarchy, Pair{"S3", "S1"}), append(mapping, Pair{"A", "S3"}), nil)
	require.NoError(t, err)
	assert.Len(t, ont.Hierarchy(), len(hierarchy))
	assert.Len(t, ont.Mapping(), len(mapping))
}

func TestNewInvalid(t *testing.T) {
	_, err := New([]Pair{{"S1", "S1"}, {"", "S0"}}, mapping, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "its own parent")
	assert.Contains(t, err.Error(), "empty term identifier")

	_, err = New([]Pair{{"S1", "S0"}, {"S0", "S2"}, {"S2", "S1"}}, []Pair{{"A", "S1"}}, nil)
	assert.ErrorIs(t, err, ErrCycle)

	_, err = New(hierarchy, []Pair{{"S3", "S1"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both gene and term")
}

func TestNewReportsAllProblems(t *testing.T) {
	_, err := New(
		[]Pair{{"S1", "S1"}, {"S2", "S0"}, {"S0", "S3"}, {"S3", "S2"}},
		[]Pair{{"S0", "S2"}, {"", "S2"}},
		nil,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "term S1 is its own parent")
	assert.Contains(t, err.Error(), "mapping row 1: empty identifier")
	assert.Contains(t, err.Error(), "identifier S0 is used as both gene and term")
	assert.Contains(t, err.Error(), "terms: S0, S2, S3")
	assert.ErrorIs(t, err, ErrCycle)
}

func TestNavigation(t *testing.T) {
	ont := fixture(t)

	parents, err := ont.Parents("S5")
	require.NoError(t, err)
	assert.Equal(t, []string{"S1", "S2"}, parents)

	children, err := ont.Children("S1")
	require.NoError(t, err)
	assert.Equal(t, []string{"S3", "S4", "S5"}, children)

	ancestors, err := ont.Ancestors("S5")
	require.NoError(t, err)
	assert.Equal(t, []string{"S0", "S1", "S2"}, ancestors)

	descendants, err := ont.Descendants("S0")
	require.NoError(t, err)
	assert.Equal(t, []string{"S1", "S2", "S3", "S4", "S5", "S6"}, descendants)

	terms, err := ont.GeneTerms("C")
	require.NoError(t, err)
	assert.Equal(t, []string{"S3", "S4"}, terms)

	genes, err := ont.TermGenes("S1")
	require.NoError(t, err)
	assert.Empty(t, genes)

	_, err = ont.Parents("S9")
	assert.ErrorIs(t, err, ErrUnknownTerm)
	_, err = ont.GeneTerms("Z")
	assert.ErrorIs(t, err, ErrUnknownGene)
}

func TestPropagate(t *testing.T) {
	ont := fixture(t)

	fwd, err := ont.Propagate(Forward)
	require.NoError(t, err)
	terms, err := fwd.GeneTerms("E")
	require.NoError(t, err)
	assert.Equal(t, []string{"S0", "S1", "S2", "S5"}, terms)
	size, err := fwd.TermSize("S1")
	require.NoError(t, err)
	assert.Equal(t, 6, size)

	rev, err := fwd.Propagate(Reverse)
	require.NoError(t, err)
	if diff := cmp.Diff(ont.Mapping(), rev.Mapping()); diff != "" {
		t.Errorf("reverse propagation mismatch (-want +got):\n%s", diff)
	}

	viaOptions, err := New(hierarchy, mapping, &Options{Propagate: Forward})
	require.NoError(t, err)
	assert.Equal(t, fwd.Mapping(), viaOptions.Mapping())
}

func TestAddRoot(t *testing.T) {
	ont, err := New([]Pair{{"S3", "S1"}, {"S6", "S2"}}, []Pair{{"A", "S3"}, {"G", "S6"}}, &Options{AddRoot: "root"})
	require.NoError(t, err)
	assert.Equal(t, []string{"root"}, ont.Roots())
	size, err := ont.TermSize("root")
	require.NoError(t, err)
	assert.Equal(t, 2, size)

	single, err := New(hierarchy, mapping, &Options{AddRoot: "root"})
	require.NoError(t, err)
	assert.False(t, single.HasTerm("root"))
}

func TestDelete(t *testing.T) {
	ont := fixture(t)

	pruned, err := ont.Delete("S1")
	require.NoError(t, err)
	assert.False(t, pruned.HasTerm("S1"))

	parents, err := pruned.Parents("S3")
	require.NoError(t, err)
	assert.Equal(t, []string{"S0"}, parents)
	parents, err = pruned.Parents("S5")
	require.NoError(t, err)
	assert.Equal(t, []string{"S0", "S2"}, parents)

	pruned, err = ont.Delete("S3")
	require.NoError(t, err)
	terms, err := pruned.GeneTerms("C")
	require.NoError(t, err)
	assert.Equal(t, []string{"S1", "S4"}, terms)

	_, err = ont.Delete("S9")
	assert.ErrorIs(t, err, ErrUnknownTerm)
}

func TestMustNew(t *testing.T) {
	assert.NotPanics(t, func() { MustNew(hierarchy, mapping, nil) })
	assert.Panics(t, func() { MustNew([]Pair{{"S1", "S1"}}, mapping, nil) })
}
