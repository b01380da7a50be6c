package registry

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/fprime-community/fprime-fppm/internal/fault"
	"github.com/fprime-community/fprime-fppm/internal/manifest"
)

// maxDocumentSize bounds a fetched registry document.
const maxDocumentSize = 8 << 20

// IsRemote reports whether id is fetched over HTTP: an http(s) URL ending in
// .yaml or .yml.
func IsRemote(id string) bool {
	lower := strings.ToLower(id)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false
	}
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}

// Fetch returns the raw content of the registry identified by id.
func (r *Resolver) Fetch(ctx context.Context, id string) ([]byte, error) {
	if IsRemote(id) {
		return r.fetchRemote(ctx, id)
	}

	path := id
	if !filepath.IsAbs(path) && r.baseDir != "" {
		path = filepath.Join(r.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fault.Wrap(fault.RegistryFetch, id, err, "reading registry")
	}
	return data, nil
}

func (r *Resolver) fetchRemote(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fault.Wrap(fault.RegistryFetch, url, err, "creating request")
	}
	req.Header.Set("Accept", "application/yaml, text/yaml, text/plain")
	req.Header.Set("User-Agent", "fppm")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fault.Wrap(fault.RegistryFetch, url, err, "fetching registry")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fault.New(fault.RegistryFetch, url, "registry server returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fault.Wrap(fault.RegistryFetch, url, err, "reading response body")
	}
	return body, nil
}

// Load fetches, validates and parses the registry identified by id.
func (r *Resolver) Load(ctx context.Context, id string) (*Document, error) {
	data, err := r.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	return Parse(id, data)
}

// Parse validates registry content against the registry schema and decodes it.
func Parse(id string, data []byte) (*Document, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fault.Wrap(fault.RegistryValidation, id, err, "parsing registry")
	}
	if raw == nil {
		return nil, fault.New(fault.RegistryValidation, id, "registry is empty")
	}

	result, err := manifest.ValidateValue(manifest.KindRegistry, raw)
	if err != nil {
		return nil, fault.Wrap(fault.RegistryValidation, id, err, "validating registry")
	}
	if !result.Valid {
		return nil, fault.New(fault.RegistryValidation, id,
			"registry must define name, description, publisher, updated-on and at least one namespace: %s", result)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fault.Wrap(fault.RegistryValidation, id, err, "decoding registry")
	}
	return &doc, nil
}
