package ddot

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrDimension   = errors.New("ddot: similarity matrix dimensions do not match names")
	ErrUnknownName = errors.New("ddot: unknown similarity matrix name")
)

// Graph is a weighted gene graph that can be handed to CLIXO
type Graph interface {
	Edges() EdgeList
}

// Edge is a weighted, undirected gene pair
type Edge struct {
	A      string
	B      string
	Weight float64
}

// EdgeList is the long form of a similarity matrix
type EdgeList []Edge

// Edges returns the list itself
func (l EdgeList) Edges() EdgeList {
	return l
}

// Write writes one tab-delimited "a b weight" row per edge
func (l EdgeList) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, e := range l {
		if _, err := fmt.Fprintf(bw, "%s\t%s\t%s\n", e.A, e.B, formatFloat(e.Weight)); err != nil {
			return errors.Wrap(err, "ddot: failed to write edge list")
		}
	}
	return errors.Wrap(bw.Flush(), "ddot: failed to write edge list")
}

// ReadEdgeList reads tab-delimited "a b weight" rows
func ReadEdgeList(r io.Reader) (EdgeList, error) {
	var edges EdgeList
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) < 3 {
			return nil, errors.Wrapf(ErrMalformedTable, "line %d: %q", line, text)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedTable, "line %d: %v", line, err)
		}
		edges = append(edges, Edge{A: fields[0], B: fields[1], Weight: weight})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "ddot: failed to read edge list")
	}
	return edges, nil
}

// Similarity is a symmetric matrix labelled by gene names on both axes
type Similarity struct {
	Names  []string
	Matrix *mat.SymDense
}

// NewSimilarity labels a square matrix with names. Only the upper triangle
// of m is read.
func NewSimilarity(names []string, m mat.Matrix) (*Similarity, error) {
	r, c := m.Dims()
	if r == 0 || r != c || r != len(names) {
		return nil, errors.Wrapf(ErrDimension, "%dx%d matrix, %d names", r, c, len(names))
	}
	seen := map[string]struct{}{}
	for _, n := range names {
		if _, ok := seen[n]; ok {
			return nil, errors.Errorf("ddot: duplicate similarity matrix name: %v", n)
		}
		seen[n] = struct{}{}
	}
	sym := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			sym.SetSym(i, j, m.At(i, j))
		}
	}
	return &Similarity{Names: append([]string(nil), names...), Matrix: sym}, nil
}

func (s *Similarity) index(name string) (int, error) {
	for i, n := range s.Names {
		if n == name {
			return i, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownName, "%v", name)
}

// At returns the similarity of genes a and b
func (s *Similarity) At(a, b string) (float64, error) {
	i, err := s.index(a)
	if err != nil {
		return 0, err
	}
	j, err := s.index(b)
	if err != nil {
		return 0, err
	}
	return s.Matrix.At(i, j), nil
}

// Edges returns the upper triangle of the matrix, diagonal excluded, in
// row-major order. NaN entries are skipped.
func (s *Similarity) Edges() EdgeList {
	n := len(s.Names)
	edges := make(EdgeList, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := s.Matrix.At(i, j)
			if math.IsNaN(v) {
				continue
			}
			edges = append(edges, Edge{A: s.Names[i], B: s.Names[j], Weight: v})
		}
	}
	return edges
}

// WriteSquare writes the matrix as a tab-delimited table with a header row
// of names and the name of each row in its first column.
func (s *Similarity) WriteSquare(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "\t%s\n", strings.Join(s.Names, "\t"))
	for i, name := range s.Names {
		row := make([]string, len(s.Names))
		for j := range s.Names {
			row[j] = formatFloat(s.Matrix.At(i, j))
		}
		fmt.Fprintf(bw, "%s\t%s\n", name, strings.Join(row, "\t"))
	}
	return errors.Wrap(bw.Flush(), "ddot: failed to write similarity matrix")
}

// ReadSquare reads a matrix written by WriteSquare
func ReadSquare(r io.Reader) (*Similarity, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, errors.Wrap(err, "ddot: failed to read similarity matrix")
		}
		return nil, errors.Wrap(ErrMalformedTable, "similarity matrix has no header")
	}
	header := strings.Split(strings.TrimRight(scanner.Text(), "\r\n"), "\t")
	if len(header) < 2 {
		return nil, errors.Wrap(ErrMalformedTable, "similarity matrix header has no names")
	}
	names := header[1:]
	n := len(names)
	data := make([]float64, 0, n*n)
	line, row := 1, 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(text) == "" {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) != n+1 {
			return nil, errors.Wrapf(ErrMalformedTable, "line %d: expected %d columns, got %d", line, n+1, len(fields))
		}
		if row >= n || fields[0] != names[row] {
			return nil, errors.Wrapf(ErrMalformedTable, "line %d: row %v does not match column order", line, fields[0])
		}
		row++
		for _, f := range fields[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, errors.Wrapf(ErrMalformedTable, "line %d: %v", line, err)
			}
			data = append(data, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "ddot: failed to read similarity matrix")
	}
	if len(data) != n*n {
		return nil, errors.Wrapf(ErrDimension, "%d values for %d names", len(data), n)
	}
	return NewSimilarity(names, mat.NewDense(n, n, data))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
