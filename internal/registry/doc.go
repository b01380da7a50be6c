// Package registry fetches registry documents, validates them, and resolves
// "namespace/package" shortnames to the git source of a package across all
// registries configured for a project.
package registry
