// Package config manages user-level settings stored at ~/.fppm/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the hook interpreter and the registry fetch timeout. Environment variables
// prefixed with FPPM_ take precedence over the file.
package config
