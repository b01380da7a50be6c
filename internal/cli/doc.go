// Package cli defines the Cobra command tree for the fppm CLI. Each file in
// this package registers one top-level command (init, install, config, etc.)
// with the root command. Commands delegate to internal packages for the work
// and only handle flag parsing, output and wiring collaborators together.
package cli
