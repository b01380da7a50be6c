package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fprime-community/fprime-fppm/internal/branding"
	"github.com/fprime-community/fprime-fppm/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	initName        string
	initDescription string
	initRegistries  []string
)

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "Project name (prompted when omitted)")
	initCmd.Flags().StringVar(&initDescription, "description", "", "Project description")
	initCmd.Flags().StringSliceVar(&initRegistries, "registry", nil, "Registry URL to list (repeatable)")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a project.yaml in the current F' project",
	Long: `Create the project manifest that lists registries and installed packages.

The manifest is written next to the --project path (./project.yaml by default).
An existing manifest is never overwritten.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession(cmd)
		file, err := s.projectFile()
		if err != nil {
			return err
		}
		dir := filepath.Dir(file)

		name := initName
		if name == "" {
			answer, err := s.asker.Ask(s.ui.Question("Project name [%s]", filepath.Base(dir)), nil)
			if err != nil {
				return fmt.Errorf("reading project name: %w", err)
			}
			name = strings.TrimSpace(answer)
			if name == "" {
				name = filepath.Base(dir)
			}
		}

		res, err := scaffold.InitProject(dir, &scaffold.ProjectData{
			Name:        name,
			Description: initDescription,
			Registries:  initRegistries,
		})
		if err != nil {
			return err
		}
		for _, w := range res.Warnings {
			s.ui.Warn("%s", w)
		}
		s.ui.Done("Created project.yaml file in %s. You are ready to use F' packages.", dir)
		s.ui.Info("Add a registry with '%s registries add <url>'.", branding.CLIName())
		return nil
	},
}
