package main

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tristanls/ddot"
	"go.uber.org/zap"
)

const envPrefix = "DDOT"

// app carries state shared by every subcommand
type app struct {
	v      *viper.Viper
	logger *zap.Logger
}

// newViper reads DDOT_* environment variables, mapping "-" in flag names
// to "_" so --arango-url resolves DDOT_ARANGO_URL.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

func newRootCommand() *cobra.Command {
	a := &app{v: newViper(), logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:   "ddot",
		Short: "Build, flatten and infer gene ontologies",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.String("config", "", "config file (yaml)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("arango-url", "http://localhost:8529", "ArangoDB endpoint")
	pf.String("arango-database", "ddot", "ArangoDB database")
	pf.String("arango-username", "root", "ArangoDB user")
	pf.String("arango-password", "", "ArangoDB password")
	pf.String("arango-graph", ddot.DefaultGraphName, "ArangoDB graph holding ontologies")

	cmd.AddCommand(
		a.flattenCommand(),
		a.clixoCommand(),
		a.saveCommand(),
		a.loadCommand(),
		a.deleteCommand(),
	)
	return cmd
}

// init binds flags of the running command, reads the config file and builds
// the logger
func (a *app) init(cmd *cobra.Command) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "ddot: failed to bind flags")
	}
	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "ddot: failed to read config file: %v", path)
		}
	}

	level, err := zap.ParseAtomicLevel(a.v.GetString("log-level"))
	if err != nil {
		return errors.Wrap(err, "ddot: invalid log level")
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Encoding = "console"
	logger, err := cfg.Build()
	if err != nil {
		return errors.Wrap(err, "ddot: failed to build logger")
	}
	a.logger = logger
	return nil
}

func (a *app) store(ctx context.Context) (*ddot.Store, error) {
	return ddot.NewStore(ctx, &ddot.StoreConfig{
		Name:     a.v.GetString("arango-database"),
		Password: a.v.GetString("arango-password"),
		URL:      a.v.GetString("arango-url"),
		Username: a.v.GetString("arango-username"),
		Graph:    a.v.GetString("arango-graph"),
		Logger:   a.logger,
	})
}

// ontologyOptions reads the construction flags shared by several commands
func (a *app) ontologyOptions() (*ddot.Options, error) {
	direction, err := ddot.ParseDirection(a.v.GetString("propagate"))
	if err != nil {
		return nil, err
	}
	return &ddot.Options{
		Propagate: direction,
		AddRoot:   a.v.GetString("add-root"),
		Logger:    a.logger,
	}, nil
}

func addOntologyFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("hierarchy", "", "tab-delimited child/parent term file")
	f.String("mapping", "", "tab-delimited gene/term file")
	f.String("propagate", "none", "gene propagation (none, forward, reverse)")
	f.String("add-root", "", "join multiple roots under a new term with this name")
}

// readOntology builds the ontology named by the --hierarchy and --mapping flags
func (a *app) readOntology() (*ddot.Ontology, error) {
	hierarchy, err := readPairsFile(a.v.GetString("hierarchy"))
	if err != nil {
		return nil, err
	}
	mapping, err := readPairsFile(a.v.GetString("mapping"))
	if err != nil {
		return nil, err
	}
	opts, err := a.ontologyOptions()
	if err != nil {
		return nil, err
	}
	return ddot.New(hierarchy, mapping, opts)
}

func readPairsFile(path string) ([]ddot.Pair, error) {
	if path == "" {
		return nil, errors.New("ddot: --hierarchy and --mapping are required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "ddot: failed to open %v", path)
	}
	defer f.Close()
	return ddot.ReadPairs(f)
}
