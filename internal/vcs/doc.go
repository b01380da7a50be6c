// Package vcs clones package repositories and checks out the requested
// version with the git binary.
package vcs
