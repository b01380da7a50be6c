package cli

import (
	"path/filepath"

	"github.com/fprime-community/fprime-fppm/internal/branding"
	"github.com/spf13/cobra"
)

var installVersion string

var installCmd = &cobra.Command{
	Use:   "install <namespace/package>",
	Short: "Install a package from the project's registries",
	Long: `Install a package into the project's packages directory.

The package is looked up in every registry listed in project.yaml. Without
--version the registry's stable version is installed. Running install again
with another version switches the existing checkout.`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installVersion, "version", "", "Tag (vX.Y.Z) or commit hash to install")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	s := newSession(cmd)
	in, err := s.installer()
	if err != nil {
		return err
	}

	shortname := args[0]
	s.ui.Info("Installing package [%s]...", shortname)
	res, err := in.Install(cmd.Context(), shortname, installVersion)
	if err != nil {
		return err
	}

	rel, err := filepath.Rel(in.Root(), res.Dir)
	if err != nil {
		rel = res.Dir
	}
	verb := "Installed"
	if res.Switch {
		verb = "Switched"
	}
	s.ui.Done("%s [%s] at %s into %s", verb, shortname, res.Ref.Describe(), filepath.ToSlash(rel))
	s.ui.Info("Run '%s config generate %s' to create its fillables.", branding.CLIName(), shortname)
	return nil
}
