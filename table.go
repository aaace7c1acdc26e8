package ddot

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// GeneEdge marks a table row annotating a gene to a term
	GeneEdge = "gene"
	// TermEdge marks a table row linking a child term to a parent term
	TermEdge = "default"
)

// TableRow is one "parent child type [score]" row of an ontology table as
// written by CLIXO.
type TableRow struct {
	Parent string
	Child  string
	Type   string
	Score  float64
}

// ReadTable reads tab-delimited ontology rows. Lines starting with '#' are
// comments. A fourth column, when present, must be numeric.
func ReadTable(r io.Reader) ([]TableRow, error) {
	var rows []TableRow
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) < 3 {
			return nil, errors.Wrapf(ErrMalformedTable, "line %d: %q", line, text)
		}
		row := TableRow{
			Parent: strings.TrimSpace(fields[0]),
			Child:  strings.TrimSpace(fields[1]),
			Type:   strings.TrimSpace(fields[2]),
		}
		if row.Parent == "" || row.Child == "" {
			return nil, errors.Wrapf(ErrMalformedTable, "line %d: empty identifier", line)
		}
		if len(fields) > 3 && strings.TrimSpace(fields[3]) != "" {
			score, err := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
			if err != nil {
				return nil, errors.Wrapf(ErrMalformedTable, "line %d: %v", line, err)
			}
			row.Score = score
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "ddot: failed to read table")
	}
	return rows, nil
}

// WriteTable writes rows in the format read by ReadTable
func WriteTable(w io.Writer, rows []TableRow) error {
	bw := bufio.NewWriter(w)
	for _, row := range rows {
		if _, err := fmt.Fprintf(bw, "%s\t%s\t%s\t%s\n", row.Parent, row.Child, row.Type, formatFloat(row.Score)); err != nil {
			return errors.Wrap(err, "ddot: failed to write table")
		}
	}
	return errors.Wrap(bw.Flush(), "ddot: failed to write table")
}

// FromTable builds an ontology from table rows. Rows of type GeneEdge become
// gene annotations, every other row a term-term link.
func FromTable(rows []TableRow, opts *Options) (*Ontology, error) {
	var hierarchy, mapping []Pair
	for _, row := range rows {
		pair := Pair{Child: row.Child, Parent: row.Parent}
		if row.Type == GeneEdge {
			mapping = append(mapping, pair)
		} else {
			hierarchy = append(hierarchy, pair)
		}
	}
	if len(mapping) == 0 {
		return nil, ErrEmpty
	}
	return New(hierarchy, mapping, opts)
}

// Table returns the ontology as table rows: term links first, then gene
// annotations.
func (o *Ontology) Table() []TableRow {
	var rows []TableRow
	for _, p := range o.Hierarchy() {
		rows = append(rows, TableRow{Parent: p.Parent, Child: p.Child, Type: TermEdge})
	}
	for _, p := range o.Mapping() {
		rows = append(rows, TableRow{Parent: p.Parent, Child: p.Child, Type: GeneEdge})
	}
	return rows
}

// WriteTable writes the ontology as a table
func (o *Ontology) WriteTable(w io.Writer) error {
	return WriteTable(w, o.Table())
}
