// Package manifest reads and writes the project manifest (project.yaml) and
// package manifests (package.yaml), and validates them, together with
// registry documents, against embedded JSON schemas.
package manifest
