package ddot

import (
	"context"
	"strconv"

	arango "github.com/arangodb/go-driver"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Node is a term or gene vertex of a stored ontology
type Node struct {
	// Key is the document key derived from the ontology and node names
	Key string `json:"_key"`
	// Name is the term or gene identifier
	Name string `json:"name"`
	// Ontology is the name the ontology was saved under
	Ontology string `json:"ontology"`
	// Size is the number of genes in a term, including descendants
	Size int `json:"size,omitempty"`
	// Prefix designates node collection origin
	Prefix string `json:"-"`
}

func newNode(collection, ontology, name string, size int) *Node {
	return &Node{
		Key:      NodeKey(ontology, name),
		Name:     name,
		Ontology: ontology,
		Size:     size,
		Prefix:   collection + "/",
	}
}

// keySpace namespaces the name-based UUIDs used as document keys
var keySpace = uuid.MustParse("5c0f3b8e-2d1a-4e8b-9a57-0d7e4c1b6f21")

// documentKey derives a document key from parts. Every part is length
// prefixed before hashing, so distinct part lists never share a key.
func documentKey(parts ...string) string {
	var b []byte
	for _, p := range parts {
		b = strconv.AppendInt(b, int64(len(p)), 10)
		b = append(b, ':')
		b = append(b, p...)
	}
	return uuid.NewSHA1(keySpace, b).String()
}

// NodeKey returns the document key of the term or gene name saved in ontology
func NodeKey(ontology, name string) string {
	return documentKey(ontology, name)
}

// insertNodes imports nodes into col, replacing documents with the same key
func (s *Store) insertNodes(ctx context.Context, col arango.Collection, nodes []*Node) error {
	if len(nodes) == 0 {
		return nil
	}
	stats, err := col.ImportDocuments(ctx, nodes, &arango.ImportDocumentOptions{
		OnDuplicate: arango.ImportOnDuplicateReplace,
		Complete:    true,
	})
	if err != nil {
		return errors.Wrapf(err, "ddot: failed to import %d nodes into %v", len(nodes), col.Name())
	}
	s.logger.Debug("nodes imported",
		zap.String("collection", col.Name()),
		zap.Int64("created", stats.Created),
		zap.Int64("updated", stats.Updated))
	return nil
}

// NodeID returns the ArangoDB _id for a node
func NodeID(node *Node) (string, error) {
	if node == nil {
		return "", errNilNode
	}
	return node.Prefix + node.Key, nil
}

// MustNodeID returns the ArangoDB _id for a node, panics on error
func MustNodeID(node *Node) string {
	id, err := NodeID(node)
	if err != nil {
		panic(err)
	}
	return id
}

var (
	errNilNode = errors.New("ddot: node is nil")
)
