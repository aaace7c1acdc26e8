package ddot

import (
	"context"

	arango "github.com/arangodb/go-driver"
	"github.com/pkg/errors"
)

// Database returns the ArangoDB database backing the store
func (s *Store) Database() arango.Database {
	return s.db
}

// Query executes the designated ArangoDB query
func (s *Store) Query(ctx context.Context, query string, vars map[string]interface{}) (arango.Cursor, error) {
	return s.db.Query(ctx, query, vars)
}

// removeByOntology removes every document of collection saved for ontology
// and returns how many were removed.
func (s *Store) removeByOntology(ctx context.Context, collection, ontology string) (int, error) {
	cursor, err := s.Query(ctx, "FOR d IN @@col FILTER d.ontology == @name REMOVE d IN @@col RETURN 1", map[string]interface{}{
		"@col": collection,
		"name": ontology,
	})
	if err != nil {
		return 0, errors.Wrapf(err, "ddot: failed to remove %v of ontology: %v", collection, ontology)
	}
	defer cursor.Close()

	removed := 0
	for {
		var one int
		_, err := cursor.ReadDocument(ctx, &one)
		if arango.IsNoMoreDocuments(err) {
			break
		}
		if err != nil {
			return removed, errors.Wrapf(err, "ddot: failed to remove %v of ontology: %v", collection, ontology)
		}
		removed++
	}
	return removed, nil
}
