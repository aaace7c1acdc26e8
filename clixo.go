package ddot

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrCLIXONotFound = errors.New("ddot: clixo binary not found")
)

const (
	DefaultCLIXOBinary = "clixo"
	DefaultDtThresh    = -100000
	stderrTailLines    = 20
)

// Runner starts an external program and waits for it to exit
type Runner interface {
	Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
}

// ExecRunner runs programs as child processes
type ExecRunner struct{}

// Run executes name with args, streaming its output to stdout and stderr
func (ExecRunner) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// CLIXOConfig controls RunCLIXO. A nil *CLIXOConfig uses the defaults.
type CLIXOConfig struct {
	// Binary is the clixo executable, looked up on PATH when it has no
	// directory component. Defaults to "clixo".
	Binary string
	// Modularity is passed as -m when non-zero
	Modularity float64
	// ZScore is passed as -z when non-zero
	ZScore float64
	// MaxTime limits the clustering in seconds, passed as -s when positive
	MaxTime int
	// Legacy passes arguments positionally as CLIXO 0.3 expects:
	// input alpha beta dt_thresh [max_time]
	Legacy bool
	// DtThresh is only used with Legacy. Nil means DefaultDtThresh.
	DtThresh *float64

	// DfOutput receives the edge list given to clixo
	DfOutput string
	// ClixoOutput receives the raw clixo output
	ClixoOutput string
	// Output receives the ontology table parsed from ClixoOutput
	Output string

	Runner Runner
	Logger *zap.Logger
}

func (c *CLIXOConfig) dtThresh() float64 {
	if c.DtThresh == nil {
		return DefaultDtThresh
	}
	return *c.DtThresh
}

func (c *CLIXOConfig) args(input string, alpha, beta float64) []string {
	if c.Legacy {
		args := []string{input, formatFloat(alpha), formatFloat(beta), formatFloat(c.dtThresh())}
		if c.MaxTime > 0 {
			args = append(args, strconv.Itoa(c.MaxTime))
		}
		return args
	}
	args := []string{"-i", input, "-a", formatFloat(alpha), "-b", formatFloat(beta)}
	if c.Modularity != 0 {
		args = append(args, "-m", formatFloat(c.Modularity))
	}
	if c.ZScore != 0 {
		args = append(args, "-z", formatFloat(c.ZScore))
	}
	if c.MaxTime > 0 {
		args = append(args, "-s", strconv.Itoa(c.MaxTime))
	}
	return args
}

// RunCLIXO infers an ontology from graph with the CLIXO algorithm. Alpha
// and beta are CLIXO's clique extension and merge thresholds. Files that are
// not named in cfg are created in a temporary directory and removed before
// returning.
func RunCLIXO(ctx context.Context, graph Graph, alpha, beta float64, cfg *CLIXOConfig) (*Ontology, error) {
	c := CLIXOConfig{}
	if cfg != nil {
		c = *cfg
	}
	if c.Binary == "" {
		c.Binary = DefaultCLIXOBinary
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Runner == nil {
		path, err := exec.LookPath(c.Binary)
		if err != nil {
			return nil, errors.Wrapf(ErrCLIXONotFound, "%v: %v", c.Binary, err)
		}
		c.Binary = path
		c.Runner = ExecRunner{}
	}

	runID := uuid.NewString()
	logger := c.Logger.With(zap.String("run", runID))

	edges := graph.Edges()
	if len(edges) == 0 {
		return nil, errors.Wrap(ErrEmpty, "ddot: no edges to cluster")
	}

	if c.DfOutput == "" || c.ClixoOutput == "" || c.Output == "" {
		dir, err := os.MkdirTemp("", "ddot-clixo-")
		if err != nil {
			return nil, errors.Wrap(err, "ddot: failed to create temporary directory")
		}
		defer os.RemoveAll(dir)
		if c.DfOutput == "" {
			c.DfOutput = filepath.Join(dir, runID+".df")
		}
		if c.ClixoOutput == "" {
			c.ClixoOutput = filepath.Join(dir, runID+".clixo")
		}
		if c.Output == "" {
			c.Output = filepath.Join(dir, runID+".ont")
		}
	}

	if err := writeFile(c.DfOutput, edges.Write); err != nil {
		return nil, err
	}
	logger.Info("running clixo",
		zap.String("binary", c.Binary),
		zap.Int("edges", len(edges)),
		zap.Float64("alpha", alpha),
		zap.Float64("beta", beta))

	if err := c.run(ctx, logger, alpha, beta); err != nil {
		return nil, err
	}

	rows, err := readTableFile(c.ClixoOutput)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.Wrap(ErrEmpty, "ddot: clixo produced no ontology")
	}
	err = writeFile(c.Output, func(w io.Writer) error {
		return WriteTable(w, rows)
	})
	if err != nil {
		return nil, err
	}

	ont, err := FromTable(rows, &Options{Logger: c.Logger})
	if err != nil {
		return nil, errors.Wrap(err, "ddot: failed to build ontology from clixo output")
	}
	logger.Info("clixo finished", zap.Stringer("ontology", ont))
	return ont, nil
}

// run executes clixo with its standard output going to ClixoOutput while
// standard error is logged line by line.
func (c *CLIXOConfig) run(ctx context.Context, logger *zap.Logger, alpha, beta float64) error {
	out, err := os.Create(c.ClixoOutput)
	if err != nil {
		return errors.Wrapf(err, "ddot: failed to create clixo output: %v", c.ClixoOutput)
	}
	defer out.Close()

	pr, pw := io.Pipe()
	var tail []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := c.Runner.Run(gctx, c.Binary, c.args(c.DfOutput, alpha, beta), out, pw)
		pw.CloseWithError(err)
		return err
	})
	g.Go(func() error {
		scanner := bufio.NewScanner(pr)
		for scanner.Scan() {
			line := scanner.Text()
			logger.Debug("clixo", zap.String("stderr", line))
			tail = append(tail, line)
			if len(tail) > stderrTailLines {
				tail = tail[1:]
			}
		}
		// drain so the runner never blocks on a full pipe
		_, _ = io.Copy(io.Discard, pr)
		return nil
	})
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return errors.Wrap(ctx.Err(), "ddot: clixo interrupted")
		}
		return errors.Wrapf(err, "ddot: clixo failed: %s", strings.Join(tail, "\n"))
	}
	return errors.Wrapf(out.Sync(), "ddot: failed to flush clixo output: %v", c.ClixoOutput)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "ddot: failed to create file: %v", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "ddot: failed to close file: %v", path)
}

func readTableFile(path string) ([]TableRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "ddot: failed to open table: %v", path)
	}
	defer f.Close()
	rows, err := ReadTable(f)
	if err != nil {
		return nil, errors.Wrapf(err, "ddot: failed to parse table: %v", path)
	}
	return rows, nil
}
