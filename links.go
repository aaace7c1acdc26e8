package ddot

import (
	"context"

	arango "github.com/arangodb/go-driver"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	errNilLink         = errors.New("ddot: link is nil")
	errUnknownRelation = errors.New("ddot: unknown relation")
)

// Link is an is_a or annotates edge of a stored ontology
type Link struct {
	// Key is a mandatory field - a name-based UUID of ontology, endpoints and relation
	Key string `json:"_key"`
	// From is a mandatory field for edges
	From string `json:"_from"`
	// To is a mandatory field for edges
	To string `json:"_to"`
	// SID is a semantic ID, matches Relation.Key
	SID string `json:"semantics"`
	// Ontology is the name the ontology was saved under
	Ontology string `json:"ontology"`
	// Child is the child term or gene identifier
	Child string `json:"child"`
	// Parent is the parent term identifier
	Parent string `json:"parent"`
}

func newLink(rel *Relation, ontology string, p Pair) *Link {
	return &Link{
		Key:      documentKey(ontology, p.Child, rel.Key, p.Parent),
		From:     MustNodeID(newNode(rel.From, ontology, p.Child, 0)),
		To:       MustNodeID(newNode(rel.To, ontology, p.Parent, 0)),
		SID:      rel.Key,
		Ontology: ontology,
		Child:    p.Child,
		Parent:   p.Parent,
	}
}

// insertLinks imports links into col, replacing documents with the same key
func (s *Store) insertLinks(ctx context.Context, col arango.Collection, links []*Link) error {
	if len(links) == 0 {
		return nil
	}
	stats, err := col.ImportDocuments(ctx, links, &arango.ImportDocumentOptions{
		OnDuplicate: arango.ImportOnDuplicateReplace,
		Complete:    true,
	})
	if err != nil {
		return errors.Wrapf(err, "ddot: failed to import %d links into %v", len(links), col.Name())
	}
	s.logger.Debug("links imported",
		zap.String("collection", col.Name()),
		zap.Int64("created", stats.Created),
		zap.Int64("updated", stats.Updated))
	return nil
}

// readLinks returns the child-parent pairs of one edge collection for ontology
func (s *Store) readLinks(ctx context.Context, collection, ontology string) ([]Pair, error) {
	cursor, err := s.Query(ctx, "FOR l IN @@col FILTER l.ontology == @name SORT l.child, l.parent RETURN l", map[string]interface{}{
		"@col": collection,
		"name": ontology,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "ddot: failed to query %v of ontology: %v", collection, ontology)
	}
	defer cursor.Close()

	var pairs []Pair
	for {
		var link Link
		_, err := cursor.ReadDocument(ctx, &link)
		if arango.IsNoMoreDocuments(err) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "ddot: failed to read %v of ontology: %v", collection, ontology)
		}
		pairs = append(pairs, Pair{Child: link.Child, Parent: link.Parent})
	}
	return pairs, nil
}

// LinkID returns the ArangoDB _id for a link
func LinkID(link *Link) (string, error) {
	if link == nil {
		return "", errNilLink
	}
	rel := Relations[link.SID]
	if rel == nil {
		return "", errors.Wrapf(errUnknownRelation, "%v", link.SID)
	}
	return rel.Collection + "/" + link.Key, nil
}
