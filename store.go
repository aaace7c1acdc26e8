package ddot

import (
	"context"

	arango "github.com/arangodb/go-driver"
	"github.com/arangodb/go-driver/http"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	DefaultGraphName = "ontology"

	termCollection      = "Terms"
	geneCollection      = "Genes"
	isACollection       = "IsA"
	annotatesCollection = "Annotates"
)

var (
	ErrOntologyNotFound = errors.New("ddot: ontology not found")
)

// StoreConfig locates the ArangoDB database backing a Store
type StoreConfig struct {
	// Name is the database name, created when missing
	Name     string
	Password string
	URL      string
	Username string
	// Graph is the named graph holding ontologies. Defaults to DefaultGraphName.
	Graph  string
	Logger *zap.Logger
}

// Store persists ontologies in an ArangoDB graph. Terms and genes are
// vertices; is_a and annotates relations are edges. Every document carries
// the name of the ontology it belongs to, so one graph holds many ontologies.
type Store struct {
	db     arango.Database
	client arango.Client
	config *StoreConfig
	conn   arango.Connection
	graph  arango.Graph
	logger *zap.Logger

	terms arango.Collection
	genes arango.Collection

	isA       arango.Collection
	annotates arango.Collection
}

var (
	EdgesIsA = arango.EdgeDefinition{
		Collection: isACollection,
		From:       []string{termCollection},
		To:         []string{termCollection},
	}
	EdgesAnnotates = arango.EdgeDefinition{
		Collection: annotatesCollection,
		From:       []string{geneCollection},
		To:         []string{termCollection},
	}
)

// NewStore connects to ArangoDB and prepares the ontology graph
func NewStore(ctx context.Context, config *StoreConfig) (*Store, error) {
	if config == nil {
		return nil, errors.New("ddot: store config is nil")
	}
	s := &Store{
		config: config,
		logger: config.Logger,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	graphName := config.Graph
	if graphName == "" {
		graphName = DefaultGraphName
	}

	conn, err := http.NewConnection(http.ConnectionConfig{
		Endpoints: []string{config.URL},
	})
	if err != nil {
		return nil, errors.Wrap(err, "ddot: failed to create ArangoDB connection")
	}
	s.conn = conn
	client, err := arango.NewClient(arango.ClientConfig{
		Connection:     s.conn,
		Authentication: arango.BasicAuthentication(config.Username, config.Password),
	})
	if err != nil {
		return nil, errors.Wrap(err, "ddot: failed to create ArangoDB client")
	}
	s.client = client

	s.db, err = s.openDatabase(ctx, config.Name)
	if err == errDatabaseDoesNotExist {
		s.db, err = s.createDatabase(ctx, config.Name)
	}
	if err != nil {
		return nil, err
	}

	s.graph, err = s.ensureGraph(ctx, graphName)
	if err != nil {
		return nil, err
	}

	if s.terms, err = s.graph.VertexCollection(ctx, termCollection); err != nil {
		return nil, errors.Wrapf(err, "ddot: failed to open %v vertex collection", termCollection)
	}
	if s.genes, err = s.graph.VertexCollection(ctx, geneCollection); err != nil {
		return nil, errors.Wrapf(err, "ddot: failed to open %v vertex collection", geneCollection)
	}
	if s.isA, _, err = s.graph.EdgeCollection(ctx, isACollection); err != nil {
		return nil, errors.Wrapf(err, "ddot: failed to open %v edge collection", isACollection)
	}
	if s.annotates, _, err = s.graph.EdgeCollection(ctx, annotatesCollection); err != nil {
		return nil, errors.Wrapf(err, "ddot: failed to open %v edge collection", annotatesCollection)
	}

	s.logger.Info("ontology store ready",
		zap.String("url", config.URL),
		zap.String("database", config.Name),
		zap.String("graph", graphName))
	return s, nil
}

// MustNewStore invokes NewStore, but panics on error
func MustNewStore(ctx context.Context, config *StoreConfig) *Store {
	s, err := NewStore(ctx, config)
	if err != nil {
		panic(err)
	}
	return s
}

// SaveOntology stores ont under name, replacing any ontology previously
// saved under the same name.
func (s *Store) SaveOntology(ctx context.Context, name string, ont *Ontology) error {
	if name == "" {
		return errors.New("ddot: ontology name is empty")
	}
	if err := s.DeleteOntology(ctx, name); err != nil && errors.Cause(err) != ErrOntologyNotFound {
		return err
	}

	terms := make([]*Node, 0, len(ont.terms))
	for _, t := range ont.terms {
		terms = append(terms, newNode(termCollection, name, t, len(ont.extent[t])))
	}
	genes := make([]*Node, 0, len(ont.genes))
	for _, g := range ont.genes {
		genes = append(genes, newNode(geneCollection, name, g, 0))
	}
	if err := s.insertNodes(ctx, s.terms, terms); err != nil {
		return err
	}
	if err := s.insertNodes(ctx, s.genes, genes); err != nil {
		return err
	}

	isA := make([]*Link, 0)
	for _, p := range ont.Hierarchy() {
		isA = append(isA, newLink(relationIsA, name, p))
	}
	annotates := make([]*Link, 0)
	for _, p := range ont.Mapping() {
		annotates = append(annotates, newLink(relationAnnotates, name, p))
	}
	if err := s.insertLinks(ctx, s.isA, isA); err != nil {
		return err
	}
	if err := s.insertLinks(ctx, s.annotates, annotates); err != nil {
		return err
	}
	s.logger.Info("ontology saved", zap.String("name", name), zap.Stringer("ontology", ont))
	return nil
}

// LoadOntology reads the ontology saved under name
func (s *Store) LoadOntology(ctx context.Context, name string, opts *Options) (*Ontology, error) {
	hierarchy, err := s.readLinks(ctx, isACollection, name)
	if err != nil {
		return nil, err
	}
	mapping, err := s.readLinks(ctx, annotatesCollection, name)
	if err != nil {
		return nil, err
	}
	if len(hierarchy) == 0 && len(mapping) == 0 {
		return nil, errors.Wrapf(ErrOntologyNotFound, "%v", name)
	}
	if opts == nil {
		opts = &Options{Logger: s.logger}
	}
	return New(hierarchy, mapping, opts)
}

// DeleteOntology removes every document of the ontology saved under name
func (s *Store) DeleteOntology(ctx context.Context, name string) error {
	removed := 0
	for _, col := range []string{annotatesCollection, isACollection, geneCollection, termCollection} {
		n, err := s.removeByOntology(ctx, col, name)
		if err != nil {
			return err
		}
		removed += n
	}
	if removed == 0 {
		return errors.Wrapf(ErrOntologyNotFound, "%v", name)
	}
	s.logger.Debug("ontology deleted", zap.String("name", name), zap.Int("documents", removed))
	return nil
}
