// Package installer places packages into the project's packages directory
// and keeps project.yaml, .gitignore and the packages CMakeLists.txt in step.
package installer
