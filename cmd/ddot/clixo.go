package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tristanls/ddot"
	"go.uber.org/zap"
)

func (a *app) clixoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clixo",
		Short: "Infer an ontology from a similarity matrix with CLIXO",
		RunE: func(cmd *cobra.Command, args []string) error {
			graph, err := a.readGraph()
			if err != nil {
				return err
			}
			dtThresh := a.v.GetFloat64("dt-thresh")
			cfg := &ddot.CLIXOConfig{
				Binary:      a.v.GetString("binary"),
				Modularity:  a.v.GetFloat64("modularity"),
				ZScore:      a.v.GetFloat64("zscore"),
				MaxTime:     a.v.GetInt("max-time"),
				Legacy:      a.v.GetBool("legacy"),
				DtThresh:    &dtThresh,
				DfOutput:    a.v.GetString("df-output"),
				ClixoOutput: a.v.GetString("clixo-output"),
				Output:      a.v.GetString("output"),
				Logger:      a.logger,
			}
			ont, err := ddot.RunCLIXO(cmd.Context(), graph, a.v.GetFloat64("alpha"), a.v.GetFloat64("beta"), cfg)
			if err != nil {
				return err
			}

			if name := a.v.GetString("save"); name != "" {
				s, err := a.store(cmd.Context())
				if err != nil {
					return err
				}
				if err := s.SaveOntology(cmd.Context(), name, ont); err != nil {
					return err
				}
				a.logger.Info("inferred ontology saved", zap.String("name", name))
			}
			return ont.WriteTable(cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.String("sim", "", "square similarity matrix as written by 'ddot flatten'")
	f.String("edges", "", "similarity edge list (gene, gene, weight)")
	f.Float64("alpha", 0, "CLIXO alpha")
	f.Float64("beta", 1, "CLIXO beta")
	f.String("binary", ddot.DefaultCLIXOBinary, "CLIXO executable")
	f.Float64("modularity", 0, "CLIXO modularity cutoff (-m)")
	f.Float64("zscore", 0, "CLIXO z-score cutoff (-z)")
	f.Int("max-time", 0, "CLIXO time limit in seconds (-s)")
	f.Bool("legacy", false, "pass positional arguments as CLIXO 0.3 expects")
	f.Float64("dt-thresh", ddot.DefaultDtThresh, "CLIXO 0.3 dt threshold")
	f.String("df-output", "", "keep the CLIXO input edge list at this path")
	f.String("clixo-output", "", "keep the raw CLIXO output at this path")
	f.String("output", "", "keep the parsed ontology table at this path")
	f.String("save", "", "save the inferred ontology in ArangoDB under this name")
	return cmd
}

// readGraph loads the --sim or --edges input
func (a *app) readGraph() (ddot.Graph, error) {
	sim, edges := a.v.GetString("sim"), a.v.GetString("edges")
	switch {
	case sim != "" && edges != "":
		return nil, errors.New("ddot: --sim and --edges are mutually exclusive")
	case sim != "":
		f, err := os.Open(sim)
		if err != nil {
			return nil, errors.Wrapf(err, "ddot: failed to open %v", sim)
		}
		defer f.Close()
		return ddot.ReadSquare(f)
	case edges != "":
		f, err := os.Open(edges)
		if err != nil {
			return nil, errors.Wrapf(err, "ddot: failed to open %v", edges)
		}
		defer f.Close()
		return ddot.ReadEdgeList(f)
	}
	return nil, errors.New("ddot: one of --sim or --edges is required")
}
