package cli

import (
	"path/filepath"

	"github.com/fprime-community/fprime-fppm/internal/applier"
	"github.com/fprime-community/fprime-fppm/internal/branding"
	"github.com/spf13/cobra"
)

var (
	generateForce  bool
	applyKeepGoing bool
	applyArchive   bool
)

func init() {
	configGenerateCmd.Flags().BoolVarP(&generateForce, "force", "f", false, "Regenerate fillables that already exist")
	configApplyCmd.Flags().BoolVar(&applyKeepGoing, "keep-going", false, "Apply every fillable and report all failures at the end")
	configApplyCmd.Flags().BoolVar(&applyArchive, "archive", false, "Keep applied fillables under .applied/ instead of deleting them")
	configCmd.AddCommand(configGenerateCmd)
	configCmd.AddCommand(configApplyCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate and apply a package's configuration",
	Long: `Configure an installed package in two steps.

'config generate' scans the package's config objects and writes one fillable
per object into <namespace>.<package>.fillables/. Edit the values marked
<< FILL IN >>, then 'config apply' renders the filled templates into the project.`,
}

var configGenerateCmd = &cobra.Command{
	Use:   "generate <namespace/package>",
	Short: "Write fillables for a package's config objects",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession(cmd)
		pkg, m, err := s.activePackage(args[0])
		if err != nil {
			return err
		}
		if len(m.ConfigObjects) == 0 {
			s.ui.Info("Package [%s] has no config objects.", args[0])
			return nil
		}

		results, err := s.generator(pkg).Generate(cmd.Context(), m.ConfigObjects, generateForce)
		if err != nil {
			return err
		}

		written := 0
		for _, r := range results {
			if r.Fillable != "" && !r.Existing {
				written++
				s.ui.Done("Wrote %s", rel(pkg.Root, r.Fillable))
			}
		}
		if written > 0 {
			s.ui.Info("Fill in the values, then run '%s config apply %s'.", branding.CLIName(), args[0])
		}
		return nil
	},
}

var configApplyCmd = &cobra.Command{
	Use:   "apply <namespace/package>",
	Short: "Render filled fillables into the project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession(cmd)
		pkg, _, err := s.activePackage(args[0])
		if err != nil {
			return err
		}

		outcomes, err := s.applier(pkg).Apply(cmd.Context(), applier.Options{
			KeepGoing: applyKeepGoing,
			Archive:   applyArchive,
		})
		placed, kept := 0, 0
		for _, o := range outcomes {
			placed += len(o.Placed)
			kept += len(o.Declined)
		}
		if len(outcomes) > 0 {
			s.ui.Info("Placed %d file%s, kept %d existing.", placed, plural(placed, "", "s"), kept)
		}
		return err
	},
}

func rel(root, path string) string {
	if r, err := filepath.Rel(root, path); err == nil {
		return filepath.ToSlash(r)
	}
	return path
}
