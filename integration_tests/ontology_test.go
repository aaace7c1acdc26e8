package integration_tests

import (
	"context"
	"testing"

	arango "github.com/arangodb/go-driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tristanls/ddot"
)

func TestSaveOntology(t *testing.T) {
	st, db := store(t)

	ont := ddot.MustNew(hierarchy, mapping, nil)
	require.NoError(t, st.SaveOntology(context.TODO(), "fixture", ont))

	terms, err := db.Collection(context.TODO(), "Terms")
	require.NoError(t, err)
	var stored ddot.Node
	_, err = terms.ReadDocument(context.TODO(), ddot.NodeKey("fixture", "S1"), &stored)
	require.NoError(t, err)
	assert.Equal(t, ddot.Node{Key: ddot.NodeKey("fixture", "S1"), Name: "S1", Ontology: "fixture", Size: 6}, stored)

	isA, err := db.Collection(context.TODO(), "IsA")
	require.NoError(t, err)
	count, err := isA.Count(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestLoadOntology(t *testing.T) {
	st, _ := store(t)

	ont := ddot.MustNew(hierarchy, mapping, nil)
	require.NoError(t, st.SaveOntology(context.TODO(), "fixture", ont))
	// saving twice replaces the first copy
	require.NoError(t, st.SaveOntology(context.TODO(), "fixture", ont))

	loaded, err := st.LoadOntology(context.TODO(), "fixture", nil)
	require.NoError(t, err)
	assert.Equal(t, ont.Hierarchy(), loaded.Hierarchy())
	assert.Equal(t, ont.Mapping(), loaded.Mapping())

	_, err = st.LoadOntology(context.TODO(), "missing", nil)
	assert.ErrorIs(t, err, ddot.ErrOntologyNotFound)
}

func TestDeleteOntology(t *testing.T) {
	st, db := store(t)

	require.NoError(t, st.SaveOntology(context.TODO(), "first", ddot.MustNew(hierarchy, mapping, nil)))
	require.NoError(t, st.SaveOntology(context.TODO(), "second", ddot.MustNew(hierarchy[:2], mapping[:4], nil)))
	require.NoError(t, st.DeleteOntology(context.TODO(), "first"))

	genes, err := db.Collection(context.TODO(), "Genes")
	require.NoError(t, err)
	_, err = genes.ReadDocument(context.TODO(), ddot.NodeKey("first", "A"), &ddot.Node{})
	assert.True(t, arango.IsNotFound(err))

	second, err := st.LoadOntology(context.TODO(), "second", nil)
	require.NoError(t, err)
	assert.Len(t, second.Genes(), 3)

	assert.ErrorIs(t, st.DeleteOntology(context.TODO(), "first"), ddot.ErrOntologyNotFound)
}
