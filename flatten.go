package ddot

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// Measure selects the gene similarity computed by Flatten
type Measure int

const (
	// Resnik scores a gene pair by the information content of the smallest
	// term containing both genes: -log2(size/genes)
	Resnik Measure = iota
	// Lin normalizes the Resnik score by the information content of the
	// two genes themselves
	Lin
)

func (m Measure) String() string {
	switch m {
	case Resnik:
		return "resnik"
	case Lin:
		return "lin"
	}
	return "unknown"
}

// ParseMeasure maps a measure name as printed by Measure.String, ignoring case
func ParseMeasure(name string) (Measure, error) {
	switch strings.ToLower(name) {
	case "resnik", "":
		return Resnik, nil
	case "lin":
		return Lin, nil
	}
	return 0, errors.Errorf("ddot: unknown similarity measure: %v", name)
}

// FlattenOptions controls Flatten. A nil *FlattenOptions computes Resnik similarity.
type FlattenOptions struct {
	Measure Measure
}

// Flatten converts the ontology into a symmetric gene-by-gene similarity
// matrix. Rows and columns follow the order of Genes().
func (o *Ontology) Flatten(opts *FlattenOptions) (*Similarity, error) {
	if opts == nil {
		opts = &FlattenOptions{}
	}
	n := len(o.genes)
	if n == 0 {
		return nil, ErrEmpty
	}

	// smallest[i*n+j] is the size of the smallest term holding genes i and j
	smallest := make([]int, n*n)
	for _, t := range o.terms {
		ext := o.extent[t]
		size := len(ext)
		if size == 0 {
			continue
		}
		for _, i := range ext {
			for _, j := range ext {
				if j < i {
					continue
				}
				if cur := smallest[i*n+j]; cur == 0 || size < cur {
					smallest[i*n+j] = size
				}
			}
		}
	}

	ic := func(size int) float64 {
		if size == 0 {
			return 0
		}
		return -math.Log2(float64(size) / float64(n))
	}

	sim := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sim.SetSym(i, j, ic(smallest[i*n+j]))
		}
	}

	switch opts.Measure {
	case Resnik:
	case Lin:
		self := make([]float64, n)
		for i := range self {
			self[i] = sim.At(i, i)
		}
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				denom := self[i] + self[j]
				if denom == 0 {
					sim.SetSym(i, j, 0)
					continue
				}
				sim.SetSym(i, j, 2*sim.At(i, j)/denom)
			}
		}
	default:
		return nil, errors.Errorf("ddot: unknown similarity measure: %d", int(opts.Measure))
	}

	o.logger.Debug("ontology flattened",
		zap.Int("genes", n),
		zap.String("measure", opts.Measure.String()))
	return &Similarity{Names: o.Genes(), Matrix: sim}, nil
}
