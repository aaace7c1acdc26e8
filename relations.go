package ddot

import "fmt"

// Relation describes an edge type of a stored ontology as lookup data:
// the collection holding it, the vertex collections it joins and how it
// reads in either direction.
type Relation struct {
	Key        string `json:"_key"`
	Collection string `json:"collection"`
	From       string `json:"from"`
	To         string `json:"to"`
	Fwd        string `json:"fwd"`
	Bwd        string `json:"bwd"`
}

var (
	relationIsA       = &Relation{"is_a", isACollection, termCollection, termCollection, "is a", "generalizes"}
	relationAnnotates = &Relation{"annotates", annotatesCollection, geneCollection, termCollection, "is annotated to", "contains gene"}

	// Relations lists the relations a Store writes, by key
	Relations = map[string]*Relation{
		relationIsA.Key:       relationIsA,
		relationAnnotates.Key: relationAnnotates,
	}
)

// Describe renders the relation between child and parent as a sentence
func (r *Relation) Describe(child, parent string) string {
	return fmt.Sprintf("%v %v %v", child, r.Fwd, parent)
}

// DescribeBackward renders the relation read from parent to child
func (r *Relation) DescribeBackward(child, parent string) string {
	return fmt.Sprintf("%v %v %v", parent, r.Bwd, child)
}
