package ddot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelations(t *testing.T) {
	assert.Equal(t, "S3 is a S1", Relations["is_a"].Describe("S3", "S1"))
	assert.Equal(t, "S3 contains gene A", Relations["annotates"].DescribeBackward("A", "S3"))
	assert.Equal(t, "IsA", Relations["is_a"].Collection)
}

func TestLinkID(t *testing.T) {
	link := newLink(relationAnnotates, "my ontology", Pair{Child: "A", Parent: "S3"})
	assert.Equal(t, "Genes/"+NodeKey("my ontology", "A"), link.From)
	assert.Equal(t, "Terms/"+NodeKey("my ontology", "S3"), link.To)

	id, err := LinkID(link)
	require.NoError(t, err)
	assert.Equal(t, "Annotates/"+link.Key, id)

	_, err = LinkID(nil)
	assert.Error(t, err)
	_, err = LinkID(&Link{SID: "near"})
	assert.ErrorIs(t, err, errUnknownRelation)
}

func TestNodeID(t *testing.T) {
	node := newNode(termCollection, "go", "S0", 8)
	id, err := NodeID(node)
	require.NoError(t, err)
	assert.Equal(t, "Terms/"+NodeKey("go", "S0"), id)
	assert.Equal(t, id, MustNodeID(node))

	_, err = NodeID(nil)
	assert.Error(t, err)
	assert.Panics(t, func() { MustNodeID(nil) })
}

func TestLinkKeysDistinct(t *testing.T) {
	keys := map[string]Pair{}
	for _, p := range []Pair{
		{Child: "gene 1", Parent: "S1"},
		{Child: "gene_1", Parent: "S1"},
		{Child: "a+annotates+b", Parent: "c"},
		{Child: "a", Parent: "b+annotates+c"},
	} {
		link := newLink(relationAnnotates, "go", p)
		_, ok := keys[link.Key]
		require.False(t, ok, "duplicate key for %v", p)
		keys[link.Key] = p
	}
	assert.NotEqual(t,
		newLink(relationIsA, "o:x", Pair{Child: "y", Parent: "z"}).Key,
		newLink(relationIsA, "o", Pair{Child: "x:y", Parent: "z"}).Key)
}
