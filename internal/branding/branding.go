// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	PackagesDir string `yaml:"packages_dir"`
}

func load() {
	once.Do(func() {
		defaults = brand{
			CLIName:     "fppm",
			DisplayName: "fppm",
			Description: "Package manager for F' components",
			HomeDir:     ".fppm",
			EnvPrefix:   "FPPM",
			PackagesDir: ".fprime.packages",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name.
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".fppm").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "FPPM").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// PackagesDir returns the default directory installed packages live in,
// relative to the project root.
func PackagesDir() string { load(); return defaults.PackagesDir }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("verbose") → "FPPM_VERBOSE".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
