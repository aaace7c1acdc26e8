package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tristanls/ddot"
)

func (a *app) saveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save an ontology in ArangoDB",
		RunE: func(cmd *cobra.Command, args []string) error {
			ont, err := a.readOntology()
			if err != nil {
				return err
			}
			name := a.v.GetString("name")
			if name == "" {
				name = uuid.NewString()
			}
			s, err := a.store(cmd.Context())
			if err != nil {
				return err
			}
			if err := s.SaveOntology(cmd.Context(), name, ont); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, ont)
			return nil
		},
	}
	addOntologyFlags(cmd)
	cmd.Flags().String("name", "", "ontology name (default: random UUID)")
	return cmd
}

func (a *app) loadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Print an ontology stored in ArangoDB",
		RunE: func(cmd *cobra.Command, args []string) error {
			name := a.v.GetString("name")
			if name == "" {
				return errors.New("ddot: --name is required")
			}
			s, err := a.store(cmd.Context())
			if err != nil {
				return err
			}
			ont, err := s.LoadOntology(cmd.Context(), name, nil)
			if err != nil {
				return err
			}
			if !a.v.GetBool("describe") {
				return ont.WriteTable(cmd.OutOrStdout())
			}
			describe(cmd, ont)
			return nil
		},
	}
	cmd.Flags().String("name", "", "ontology name")
	cmd.Flags().Bool("describe", false, "print relations as sentences")
	return cmd
}

func (a *app) deleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an ontology stored in ArangoDB",
		RunE: func(cmd *cobra.Command, args []string) error {
			name := a.v.GetString("name")
			if name == "" {
				return errors.New("ddot: --name is required")
			}
			s, err := a.store(cmd.Context())
			if err != nil {
				return err
			}
			return s.DeleteOntology(cmd.Context(), name)
		},
	}
	cmd.Flags().String("name", "", "ontology name")
	return cmd
}

func describe(cmd *cobra.Command, ont *ddot.Ontology) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ont)
	for _, p := range ont.Hierarchy() {
		fmt.Fprintln(out, ddot.Relations["is_a"].Describe(p.Child, p.Parent))
	}
	for _, p := range ont.Mapping() {
		fmt.Fprintln(out, ddot.Relations["annotates"].Describe(p.Child, p.Parent))
	}
}
