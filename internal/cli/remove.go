package cli

import (
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <namespace/package>",
	Aliases: []string{"uninstall"},
	Short:   "Remove an installed package",
	Long: `Remove a package's checkout, its lines in the packages CMakeLists.txt and its
project.yaml entry. You are asked whether its fillables should be deleted too.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession(cmd)
		in, err := s.installer()
		if err != nil {
			return err
		}
		if err := in.Remove(cmd.Context(), args[0]); err != nil {
			return err
		}
		s.ui.Done("Removed package [%s].", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
