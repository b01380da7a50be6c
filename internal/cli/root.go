package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fprime-community/fprime-fppm/internal/branding"
	"github.com/fprime-community/fprime-fppm/internal/config"
	"github.com/fprime-community/fprime-fppm/internal/manifest"
	"github.com/fprime-community/fprime-fppm/internal/ui"
	"github.com/spf13/cobra"
)

// build is injected by Execute from ldflags.
var build struct {
	version, commit, date string
}

var (
	projectPath  string
	verbose      bool
	noColor      bool
	versionShort bool
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` installs F' packages from federated registries and turns their
configuration templates into editable fillables that are rendered into your project.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor || os.Getenv("NO_COLOR") != "" {
			ui.DisableColor()
		}
		return config.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectPath, "project", "p", manifest.ProjectFile, "Path to the project.yaml file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logs")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and settings information",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(w, build.version)
			return nil
		}

		interpreter := config.HookInterpreter()
		if interpreter == "" {
			interpreter = "auto-detect"
		}
		fmt.Fprintf(w, "%s version %s (commit: %s, built: %s)\n", branding.CLIName(), build.version, build.commit, build.date)
		fmt.Fprintf(w, "settings:         %s\n", config.FilePath())
		fmt.Fprintf(w, "hook interpreter: %s\n", interpreter)
		fmt.Fprintf(w, "packages dir:     %s\n", config.PackagesDir())
		return nil
	},
}

// Execute runs the root command with build info injected via ldflags.
// Interrupts cancel the running command.
func Execute(version, commit, date string) error {
	build.version, build.commit, build.date = version, commit, date
	rootCmd.Version = version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
