package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tristanls/ddot"
	"go.uber.org/zap"
)

func (a *app) flattenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flatten",
		Short: "Convert an ontology into a gene-by-gene similarity matrix",
		RunE: func(cmd *cobra.Command, args []string) error {
			ont, err := a.readOntology()
			if err != nil {
				return err
			}
			measure, err := ddot.ParseMeasure(a.v.GetString("similarity"))
			if err != nil {
				return err
			}
			sim, err := ont.Flatten(&ddot.FlattenOptions{Measure: measure})
			if err != nil {
				return err
			}
			a.logger.Info("ontology flattened",
				zap.Stringer("ontology", ont),
				zap.Stringer("measure", measure))

			var write func(io.Writer) error
			switch format := a.v.GetString("format"); format {
			case "square":
				write = sim.WriteSquare
			case "edges":
				write = sim.Edges().Write
			default:
				return errors.Errorf("ddot: unknown output format: %v", format)
			}
			return writeOutput(cmd, a.v.GetString("out"), write)
		},
	}
	addOntologyFlags(cmd)
	f := cmd.Flags()
	f.String("similarity", "resnik", "similarity measure (resnik, lin)")
	f.String("format", "square", "output format (square, edges)")
	f.String("out", "", "output file (default: stdout)")
	return cmd
}

// writeOutput writes to path, or to the command's standard output when path is empty
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "ddot: failed to create %v", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "ddot: failed to close %v", path)
}
