package ddot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Direction selects how gene annotations are propagated through the hierarchy
type Direction int

const (
	// NoPropagation keeps annotations exactly as given
	NoPropagation Direction = iota
	// Forward annotates every gene to all ancestors of its terms
	Forward
	// Reverse keeps only the most specific annotation of every gene
	Reverse
)

func (d Direction) String() string {
	switch d {
	case NoPropagation:
		return "none"
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	}
	return "unknown"
}

// ParseDirection maps a direction name as printed by Direction.String
func ParseDirection(name string) (Direction, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return NoPropagation, nil
	case "forward":
		return Forward, nil
	case "reverse":
		return Reverse, nil
	}
	return 0, errors.Errorf("ddot: unknown propagation direction: %v", name)
}

// Options controls ontology construction. A nil *Options uses the defaults.
type Options struct {
	// Propagate rewrites the gene mapping after the hierarchy is validated
	Propagate Direction
	// AddRoot, when set and the hierarchy has more than one root, names a
	// new term that becomes the parent of every root
	AddRoot string
	Logger  *zap.Logger
}

// Ontology is a directed acyclic hierarchy of terms annotated with genes
type Ontology struct {
	genes []string
	terms []string

	geneIndex map[string]int
	termIndex map[string]int

	parents   map[string][]string
	children  map[string][]string
	geneTerms map[string][]string
	termGenes map[string][]string

	// extent holds, for every term, the sorted indices of genes annotated to
	// the term or any of its descendants
	extent map[string][]int

	logger *zap.Logger
}

// New creates an ontology from child-parent term relations and gene-term
// relations. Every problem found in the input is reported in one error.
func New(hierarchy, mapping []Pair, opts *Options) (*Ontology, error) {
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var result error
	valid := make([]Pair, 0, len(hierarchy))
	for i, p := range hierarchy {
		if p.Child == "" || p.Parent == "" {
			result = multierror.Append(result, fmt.Errorf("hierarchy row %d: empty term identifier", i))
		} else if p.Child == p.Parent {
			result = multierror.Append(result, fmt.Errorf("hierarchy row %d: term %v is its own parent", i, p.Child))
		} else {
			valid = append(valid, p)
		}
	}
	annotations := make([]Pair, 0, len(mapping))
	for i, p := range mapping {
		if p.Child == "" || p.Parent == "" {
			result = multierror.Append(result, fmt.Errorf("mapping row %d: empty identifier", i))
		} else {
			annotations = append(annotations, p)
		}
	}

	if opts.AddRoot != "" {
		valid = addRoot(valid, annotations, opts.AddRoot)
	}

	o, err := validate(valid, annotations, logger, result)
	if err != nil {
		return nil, err
	}

	if opts.Propagate != NoPropagation {
		o, err = o.Propagate(opts.Propagate)
		if err != nil {
			return nil, err
		}
	}
	logger.Debug("ontology created",
		zap.Int("genes", len(o.genes)),
		zap.Int("terms", len(o.terms)),
		zap.String("propagate", opts.Propagate.String()))
	return o, nil
}

// MustNew invokes New, but panics on error
func MustNew(hierarchy, mapping []Pair, opts *Options) *Ontology {
	o, err := New(hierarchy, mapping, opts)
	if err != nil {
		panic(err)
	}
	return o
}

// addRoot links every root of the hierarchy to root when there is more than one
func addRoot(hierarchy, mapping []Pair, root string) []Pair {
	hasParent := map[string]bool{}
	var terms []string
	seen := map[string]bool{}
	visit := func(t string) {
		if !seen[t] {
			seen[t] = true
			terms = append(terms, t)
		}
	}
	for _, p := range hierarchy {
		hasParent[p.Child] = true
		visit(p.Child)
		visit(p.Parent)
	}
	for _, p := range mapping {
		visit(p.Parent)
	}
	var roots []string
	for _, t := range terms {
		if !hasParent[t] && t != root {
			roots = append(roots, t)
		}
	}
	if len(roots) < 2 {
		return hierarchy
	}
	out := make([]Pair, len(hierarchy), len(hierarchy)+len(roots))
	copy(out, hierarchy)
	for _, r := range roots {
		out = append(out, Pair{Child: r, Parent: root})
	}
	return out
}

// build indexes relations and computes term extents
func build(hierarchy, mapping []Pair, logger *zap.Logger) (*Ontology, error) {
	return validate(hierarchy, mapping, logger, nil)
}

// validate is build with problems already found in the input rows. They are
// reported together with gene/term clashes and cycles in one error.
func validate(hierarchy, mapping []Pair, logger *zap.Logger, result error) (*Ontology, error) {
	o := &Ontology{
		geneIndex: map[string]int{},
		termIndex: map[string]int{},
		parents:   map[string][]string{},
		children:  map[string][]string{},
		geneTerms: map[string][]string{},
		termGenes: map[string][]string{},
		extent:    map[string][]int{},
		logger:    logger,
	}

	geneSet := map[string]struct{}{}
	termSet := map[string]struct{}{}
	edges := map[Pair]struct{}{}
	for _, p := range hierarchy {
		termSet[p.Child] = struct{}{}
		termSet[p.Parent] = struct{}{}
		if _, ok := edges[p]; ok {
			continue
		}
		edges[p] = struct{}{}
		o.parents[p.Child] = append(o.parents[p.Child], p.Parent)
		o.children[p.Parent] = append(o.children[p.Parent], p.Child)
	}
	annotations := map[Pair]struct{}{}
	for _, p := range mapping {
		geneSet[p.Child] = struct{}{}
		termSet[p.Parent] = struct{}{}
		if _, ok := annotations[p]; ok {
			continue
		}
		annotations[p] = struct{}{}
		o.geneTerms[p.Child] = append(o.geneTerms[p.Child], p.Parent)
		o.termGenes[p.Parent] = append(o.termGenes[p.Parent], p.Child)
	}

	for _, g := range sortedKeys(geneSet) {
		if _, ok := termSet[g]; ok {
			result = multierror.Append(result, fmt.Errorf("identifier %v is used as both gene and term", g))
		}
	}

	o.genes = sortedKeys(geneSet)
	o.terms = sortedKeys(termSet)
	for i, g := range o.genes {
		o.geneIndex[g] = i
	}
	for i, t := range o.terms {
		o.termIndex[t] = i
	}
	for _, m := range []map[string][]string{o.parents, o.children, o.geneTerms, o.termGenes} {
		for k := range m {
			sort.Strings(m[k])
		}
	}

	if err := o.computeExtents(); err != nil {
		result = multierror.Append(result, err)
	}
	if result != nil {
		return nil, errors.Wrap(result, "ddot: invalid ontology")
	}
	return o, nil
}

// computeExtents walks terms from the leaves up, accumulating the genes of
// every descendant. Terms left unvisited lie on a cycle.
func (o *Ontology) computeExtents() error {
	pending := make(map[string]int, len(o.terms))
	var queue []string
	for _, t := range o.terms {
		pending[t] = len(o.children[t])
		if pending[t] == 0 {
			queue = append(queue, t)
		}
	}
	sets := make(map[string]map[int]struct{}, len(o.terms))
	visited := 0
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		visited++

		set := sets[t]
		if set == nil {
			set = map[int]struct{}{}
		}
		for _, g := range o.termGenes[t] {
			set[o.geneIndex[g]] = struct{}{}
		}
		ext := make([]int, 0, len(set))
		for i := range set {
			ext = append(ext, i)
		}
		sort.Ints(ext)
		o.extent[t] = ext
		delete(sets, t)

		for _, p := range o.parents[t] {
			ps := sets[p]
			if ps == nil {
				ps = map[int]struct{}{}
				sets[p] = ps
			}
			for _, i := range ext {
				ps[i] = struct{}{}
			}
			pending[p]--
			if pending[p] == 0 {
				queue = append(queue, p)
			}
		}
	}
	if visited != len(o.terms) {
		var cyclic []string
		for _, t := range o.terms {
			if pending[t] > 0 {
				cyclic = append(cyclic, t)
			}
		}
		return errors.Wrapf(ErrCycle, "terms: %v", strings.Join(cyclic, ", "))
	}
	return nil
}

// Genes returns the sorted gene identifiers
func (o *Ontology) Genes() []string {
	return append([]string(nil), o.genes...)
}

// Terms returns the sorted term identifiers
func (o *Ontology) Terms() []string {
	return append([]string(nil), o.terms...)
}

// HasTerm reports whether term is part of the ontology
func (o *Ontology) HasTerm(term string) bool {
	_, ok := o.termIndex[term]
	return ok
}

// HasGene reports whether gene is part of the ontology
func (o *Ontology) HasGene(gene string) bool {
	_, ok := o.geneIndex[gene]
	return ok
}

// Parents returns the direct parents of term
func (o *Ontology) Parents(term string) ([]string, error) {
	if !o.HasTerm(term) {
		return nil, errors.Wrapf(ErrUnknownTerm, "%v", term)
	}
	return append([]string(nil), o.parents[term]...), nil
}

// Children returns the direct child terms of term
func (o *Ontology) Children(term string) ([]string, error) {
	if !o.HasTerm(term) {
		return nil, errors.Wrapf(ErrUnknownTerm, "%v", term)
	}
	return append([]string(nil), o.children[term]...), nil
}

// GeneTerms returns the terms gene is directly annotated to
func (o *Ontology) GeneTerms(gene string) ([]string, error) {
	if !o.HasGene(gene) {
		return nil, errors.Wrapf(ErrUnknownGene, "%v", gene)
	}
	return append([]string(nil), o.geneTerms[gene]...), nil
}

// TermGenes returns the genes directly annotated to term
func (o *Ontology) TermGenes(term string) ([]string, error) {
	if !o.HasTerm(term) {
		return nil, errors.Wrapf(ErrUnknownTerm, "%v", term)
	}
	return append([]string(nil), o.termGenes[term]...), nil
}

// TermSize returns the number of genes annotated to term or to any of its
// descendants.
func (o *Ontology) TermSize(term string) (int, error) {
	if !o.HasTerm(term) {
		return 0, errors.Wrapf(ErrUnknownTerm, "%v", term)
	}
	return len(o.extent[term]), nil
}

// Roots returns the terms without parents
func (o *Ontology) Roots() []string {
	var roots []string
	for _, t := range o.terms {
		if len(o.parents[t]) == 0 {
			roots = append(roots, t)
		}
	}
	return roots
}

// Ancestors returns every term reachable from term through parent links
func (o *Ontology) Ancestors(term string) ([]string, error) {
	if !o.HasTerm(term) {
		return nil, errors.Wrapf(ErrUnknownTerm, "%v", term)
	}
	return o.reach(term, o.parents), nil
}

// Descendants returns every term reachable from term through child links
func (o *Ontology) Descendants(term string) ([]string, error) {
	if !o.HasTerm(term) {
		return nil, errors.Wrapf(ErrUnknownTerm, "%v", term)
	}
	return o.reach(term, o.children), nil
}

func (o *Ontology) reach(term string, next map[string][]string) []string {
	seen := map[string]struct{}{}
	stack := append([]string(nil), next[term]...)
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		stack = append(stack, next[t]...)
	}
	return sortedKeys(seen)
}

// Hierarchy returns the child-parent term relations sorted by child, then parent
func (o *Ontology) Hierarchy() []Pair {
	var pairs []Pair
	for _, c := range o.terms {
		for _, p := range o.parents[c] {
			pairs = append(pairs, Pair{Child: c, Parent: p})
		}
	}
	return pairs
}

// Mapping returns the gene-term relations sorted by gene, then term
func (o *Ontology) Mapping() []Pair {
	var pairs []Pair
	for _, g := range o.genes {
		for _, t := range o.geneTerms[g] {
			pairs = append(pairs, Pair{Child: g, Parent: t})
		}
	}
	return pairs
}

// Propagate returns a new ontology whose gene mapping is rewritten in the
// given direction. The hierarchy is unchanged.
func (o *Ontology) Propagate(direction Direction) (*Ontology, error) {
	var mapping []Pair
	switch direction {
	case NoPropagation:
		mapping = o.Mapping()
	case Forward:
		for _, g := range o.genes {
			terms := map[string]struct{}{}
			for _, t := range o.geneTerms[g] {
				terms[t] = struct{}{}
				for _, a := range o.reach(t, o.parents) {
					terms[a] = struct{}{}
				}
			}
			for _, t := range sortedKeys(terms) {
				mapping = append(mapping, Pair{Child: g, Parent: t})
			}
		}
	case Reverse:
		for _, g := range o.genes {
			redundant := map[string]struct{}{}
			for _, t := range o.geneTerms[g] {
				for _, a := range o.reach(t, o.parents) {
					redundant[a] = struct{}{}
				}
			}
			for _, t := range o.geneTerms[g] {
				if _, ok := redundant[t]; !ok {
					mapping = append(mapping, Pair{Child: g, Parent: t})
				}
			}
		}
	default:
		return nil, errors.Errorf("ddot: unknown propagation direction: %d", int(direction))
	}
	return build(o.Hierarchy(), mapping, o.logger)
}

// Delete returns a new ontology without the given terms. Children of a
// deleted term are attached to its nearest surviving ancestors, and so are
// its genes.
func (o *Ontology) Delete(terms ...string) (*Ontology, error) {
	deleted := map[string]struct{}{}
	for _, t := range terms {
		if !o.HasTerm(t) {
			return nil, errors.Wrapf(ErrUnknownTerm, "%v", t)
		}
		deleted[t] = struct{}{}
	}

	memo := map[string][]string{}
	var survivors func(t string) []string
	survivors = func(t string) []string {
		if _, ok := deleted[t]; !ok {
			return []string{t}
		}
		if s, ok := memo[t]; ok {
			return s
		}
		set := map[string]struct{}{}
		for _, p := range o.parents[t] {
			for _, s := range survivors(p) {
				set[s] = struct{}{}
			}
		}
		memo[t] = sortedKeys(set)
		return memo[t]
	}

	var hierarchy []Pair
	for _, c := range o.terms {
		if _, ok := deleted[c]; ok {
			continue
		}
		for _, p := range o.parents[c] {
			for _, s := range survivors(p) {
				hierarchy = append(hierarchy, Pair{Child: c, Parent: s})
			}
		}
	}
	var mapping []Pair
	for _, g := range o.genes {
		for _, t := range o.geneTerms[g] {
			for _, s := range survivors(t) {
				mapping = append(mapping, Pair{Child: g, Parent: s})
			}
		}
	}
	o.logger.Debug("deleting terms", zap.Strings("terms", terms))
	return build(hierarchy, mapping, o.logger)
}

func (o *Ontology) String() string {
	return fmt.Sprintf("%d genes, %d terms, %d gene-term relations, %d term-term relations",
		len(o.genes), len(o.terms), len(o.Mapping()), len(o.Hierarchy()))
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
