package cli

import (
	"fmt"
	"strings"

	"github.com/fprime-community/fprime-fppm/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	newNamespace   string
	newDescription string
	newAuthor      string
	newDir         string
)

func init() {
	newCmd.Flags().StringVarP(&newNamespace, "namespace", "n", "", "Namespace the package is published under")
	newCmd.Flags().StringVar(&newDescription, "description", "", "Package description")
	newCmd.Flags().StringVar(&newAuthor, "author", "", "Package author")
	newCmd.Flags().StringVarP(&newDir, "dir", "d", ".", "Parent directory of the new package")
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new <package-name>",
	Short: "Create a new package with a package.yaml",
	Long: `Create a new package directory holding a package.yaml and README.md.

Package and namespace names may not contain spaces or any of
` + scaffold.InvalidNameChars,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession(cmd)
		s.ui.Info("Creating new package.yaml file...")

		data := scaffold.NewPackageData(args[0], newNamespace)
		if newDescription != "" {
			data.Description = newDescription
		}
		if data.Author = newAuthor; data.Author == "" {
			if answer, err := s.asker.Ask(s.ui.Question("Author"), nil); err == nil {
				data.Author = strings.TrimSpace(answer)
			}
		}

		res, err := scaffold.NewPackage(newDir, data)
		if err != nil {
			return err
		}
		for _, w := range res.Warnings {
			s.ui.Warn("%s", w)
		}

		s.ui.Done("Generated package.yaml file inside %s", res.OutputDir)
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), "Please remember to fill in the fields of package.yaml before publishing.")
		fmt.Fprintln(cmd.OutOrStdout(), "All files related to your package should be kept within the generated folder.")
		return nil
	},
}
