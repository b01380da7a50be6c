package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fprime-community/fprime-fppm/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyHookInterpreter = "hooks.interpreter"
	KeyRegistryTimeout = "registry.timeout"
	KeyPackagesDir     = "packages.dir"
)

// DefaultRegistryTimeout bounds a single registry fetch.
const DefaultRegistryTimeout = 30 * time.Second

var defaults = map[string]string{
	KeyHookInterpreter: "",
	KeyRegistryTimeout: DefaultRegistryTimeout.String(),
	KeyPackagesDir:     branding.PackagesDir(),
}

// Keys returns the known setting keys, sorted.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Dir returns the path to the fppm config directory (~/.fppm/). The
// FPPM_HOME environment variable overrides it.
func Dir() string {
	if dir := os.Getenv(branding.EnvVar("home")); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.fppm/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
// FPPM_HOOKS_INTERPRETER overrides hooks.interpreter, and so on.
func Load() error {
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(FilePath()); os.IsNotExist(statErr) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", FilePath(), err)
	}
	return nil
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if _, ok := defaults[key]; !ok {
		return fmt.Errorf("unknown setting %q (known: %v)", key, Keys())
	}
	if key == KeyRegistryTimeout {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// HookInterpreter returns the configured hook interpreter command line.
// Empty means detect one on PATH.
func HookInterpreter() string {
	return viper.GetString(KeyHookInterpreter)
}

// RegistryTimeout returns the per-fetch registry timeout.
func RegistryTimeout() time.Duration {
	d, err := time.ParseDuration(viper.GetString(KeyRegistryTimeout))
	if err != nil || d <= 0 {
		return DefaultRegistryTimeout
	}
	return d
}

// PackagesDir returns the packages directory relative to the project root.
func PackagesDir() string {
	if dir := viper.GetString(KeyPackagesDir); dir != "" {
		return dir
	}
	return branding.PackagesDir()
}
