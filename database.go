package ddot

import (
	"context"

	arango "github.com/arangodb/go-driver"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	errDatabaseAlreadyExists = errors.New("ddot: database already exists")
	errDatabaseDoesNotExist  = errors.New("ddot: database does not exist")
)

// createDatabase creates a new ArangoDB database if it does not exist.
func (s *Store) createDatabase(ctx context.Context, name string) (arango.Database, error) {
	exists, err := s.client.DatabaseExists(ctx, name)
	if err != nil {
		return nil, errors.Wrapf(err, "ddot: failed to check database: %v", name)
	}
	if exists {
		return nil, errDatabaseAlreadyExists
	}
	db, err := s.client.CreateDatabase(ctx, name, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "ddot: failed to create database: %v", name)
	}
	s.logger.Info("database created", zap.String("database", name))
	return db, nil
}

// openDatabase opens an ArangoDB database if it exists.
func (s *Store) openDatabase(ctx context.Context, name string) (arango.Database, error) {
	exists, err := s.client.DatabaseExists(ctx, name)
	if err != nil {
		return nil, errors.Wrapf(err, "ddot: failed to check database: %v", name)
	}
	if !exists {
		return nil, errDatabaseDoesNotExist
	}
	return s.client.Database(ctx, name)
}

// ensureGraph opens the named graph, creating it with the term and gene
// edge definitions when missing.
func (s *Store) ensureGraph(ctx context.Context, name string) (arango.Graph, error) {
	exists, err := s.db.GraphExists(ctx, name)
	if err != nil {
		return nil, errors.Wrapf(err, "ddot: failed to check graph: %v", name)
	}
	if exists {
		graph, err := s.db.Graph(ctx, name)
		if err != nil {
			return nil, errors.Wrapf(err, "ddot: failed to open graph: %v", name)
		}
		return graph, nil
	}
	graph, err := s.db.CreateGraph(ctx, name, &arango.CreateGraphOptions{
		EdgeDefinitions: []arango.EdgeDefinition{EdgesIsA, EdgesAnnotates},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "ddot: failed to create graph: %v", name)
	}
	s.logger.Info("graph created", zap.String("graph", name))
	return graph, nil
}
