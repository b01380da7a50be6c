// Package scaffold generates fppm manifests from embedded templates. It powers
// "fppm init", which writes a project.yaml into an F' project, and "fppm new",
// which lays out a fresh package directory with its package.yaml and README.
package scaffold
