package cli

import (
	"fmt"

	"github.com/fprime-community/fprime-fppm/internal/config"
	"github.com/fprime-community/fprime-fppm/internal/doctor"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the project, its registries and required tools",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession(cmd)
		in, err := s.installer()
		if err != nil {
			return err
		}

		failures := doctor.Run(cmd.Context(), cmd.OutOrStdout(), doctor.Env{
			ProjectFile:     in.ProjectFile,
			HookInterpreter: config.HookInterpreter(),
			Registries:      s.resolver(in.ProjectFile),
			Packages:        in,
		})
		if failures > 0 {
			return fmt.Errorf("%d check%s failed", failures, plural(failures, "", "s"))
		}
		s.ui.Done("All checks passed.")
		return nil
	},
}
