// Package ddot builds gene ontologies: term hierarchies annotated with
// genes, their flattening into gene-by-gene similarity matrices, and the
// reconstruction of ontologies from similarity data with the external
// CLIXO clustering program. Ontologies can be persisted in an ArangoDB
// graph through Store.
package ddot

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrEmpty          = errors.New("ddot: ontology has no genes")
	ErrCycle          = errors.New("ddot: hierarchy contains a cycle")
	ErrUnknownTerm    = errors.New("ddot: unknown term")
	ErrUnknownGene    = errors.New("ddot: unknown gene")
	ErrMalformedTable = errors.New("ddot: malformed table row")
)

// Pair is a single relation row. In a hierarchy it links a child term to
// its parent term; in a mapping it links a gene (Child) to a term (Parent).
type Pair struct {
	Child  string `json:"child"`
	Parent string `json:"parent"`
}

// ReadPairs reads a two column tab-delimited relation file. Blank lines and
// lines starting with '#' are skipped.
func ReadPairs(r io.Reader) ([]Pair, error) {
	var pairs []Pair
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) < 2 {
			return nil, errors.Wrapf(ErrMalformedTable, "line %d: %q", line, text)
		}
		pairs = append(pairs, Pair{
			Child:  strings.TrimSpace(fields[0]),
			Parent: strings.TrimSpace(fields[1]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "ddot: failed to read pairs")
	}
	return pairs, nil
}
