package cli

import (
	"errors"
	"fmt"

	"github.com/fprime-community/fprime-fppm/internal/manifest"
	"github.com/spf13/cobra"
)

func init() {
	registriesCmd.AddCommand(registriesAddCmd)
	registriesCmd.AddCommand(registriesValidateCmd)
	registriesCmd.AddCommand(registriesListCmd)
	rootCmd.AddCommand(registriesCmd)
}

var registriesCmd = &cobra.Command{
	Use:   "registries",
	Short: "Manage the registries listed in project.yaml",
	Long: `Registries are YAML documents mapping namespaces to package git sources.
A registry is an http(s) URL ending in .yaml, or a path relative to the project.`,
}

var registriesAddCmd = &cobra.Command{
	Use:   "add <registry>",
	Short: "Verify a registry and add it to project.yaml",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession(cmd)
		file, project, err := s.project()
		if err != nil {
			return err
		}

		id := args[0]
		doc, err := s.resolver(file).Load(cmd.Context(), id)
		if err != nil {
			return err
		}
		if err := project.AddRegistry(id); err != nil {
			return err
		}
		if err := manifest.SaveProject(file, project); err != nil {
			return err
		}
		s.ui.Done("Added registry [%s] to project.yaml file: %s", id, doc.Summary())
		return nil
	},
}

var registriesValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every registry and drop invalid ones from project.yaml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession(cmd)
		file, project, err := s.project()
		if err != nil {
			return err
		}
		if len(project.Registries) == 0 {
			return errors.New("no registries found in project.yaml file")
		}

		var valid []string
		for _, rep := range s.resolver(file).Validate(cmd.Context(), project.Registries) {
			s.ui.Info("Validating registry: %s", rep.Registry)
			if !rep.Valid() {
				s.ui.Error("Registry [%s] is invalid: %v", rep.Registry, rep.Err)
				continue
			}
			valid = append(valid, rep.Registry)
		}

		dropped := len(project.Registries) - len(valid)
		project.Registries = valid
		if err := manifest.SaveProject(file, project); err != nil {
			return err
		}
		if dropped > 0 {
			s.ui.Warn("Removed %d invalid registr%s from project.yaml.", dropped, plural(dropped, "y", "ies"))
		}
		s.ui.Done("Validated registries in project.yaml file.")
		return nil
	},
}

var registriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registries and the packages they publish",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession(cmd)
		file, project, err := s.project()
		if err != nil {
			return err
		}
		if len(project.Registries) == 0 {
			s.ui.Info("No registries listed in project.yaml.")
			return nil
		}

		out := cmd.OutOrStdout()
		for _, rep := range s.resolver(file).Validate(cmd.Context(), project.Registries) {
			if !rep.Valid() {
				fmt.Fprintf(out, "%s\n  unavailable: %v\n", rep.Registry, rep.Err)
				continue
			}
			fmt.Fprintf(out, "%s\n  %s\n", rep.Registry, rep.Document.Summary())
			for _, name := range rep.Document.Packages() {
				fmt.Fprintf(out, "    %s\n", name)
			}
		}
		return nil
	},
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
