package ddot

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTableCLIXO(t *testing.T) {
	f, err := os.Open("testdata/clixo_output.txt")
	require.NoError(t, err)
	defer f.Close()

	rows, err := ReadTable(f)
	require.NoError(t, err)
	require.Len(t, rows, 16)
	assert.Equal(t, TableRow{Parent: "10", Child: "A", Type: GeneEdge, Score: 1.415}, rows[0])

	ont, err := FromTable(rows, nil)
	require.NoError(t, err)
	assert.Equal(t, "8 genes, 7 terms, 9 gene-term relations, 7 term-term relations", ont.String())
	assert.Equal(t, []string{"16"}, ont.Roots())
}

func TestTableRoundTrip(t *testing.T) {
	ont := fixture(t)

	var buf bytes.Buffer
	require.NoError(t, ont.WriteTable(&buf))
	rows, err := ReadTable(&buf)
	require.NoError(t, err)

	again, err := FromTable(rows, nil)
	require.NoError(t, err)
	if diff := cmp.Diff(ont.Hierarchy(), again.Hierarchy()); diff != "" {
		t.Errorf("hierarchy mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(ont.Mapping(), again.Mapping()); diff != "" {
		t.Errorf("mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestReadTableMalformed(t *testing.T) {
	_, err := ReadTable(strings.NewReader("10\tA\n"))
	assert.ErrorIs(t, err, ErrMalformedTable)
	_, err = ReadTable(strings.NewReader("10\tA\tgene\tnot-a-number\n"))
	assert.ErrorIs(t, err, ErrMalformedTable)

	_, err = FromTable([]TableRow{{Parent: "1", Child: "0", Type: TermEdge}}, nil)
	assert.ErrorIs(t, err, ErrEmpty)
}
