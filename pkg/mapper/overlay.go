package mapper

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/fjordledger/divrec/pkg/errors"
)

// overlayFile is the on-disk shape of an accepted header-mapping overlay.
// A bare {header: path} mapping is accepted too.
type overlayFile struct {
	Accepted map[string]string `yaml:"accepted" json:"accepted"`
}

// LoadOverlay reads an accepted header-mapping overlay from a YAML or JSON
// file of {header: canonicalPath} pairs, optionally nested under an
// "accepted" key. Every target path must be one the canonical schema knows;
// unknown paths fail with a validation error rather than silently mapping
// into nothing.
func LoadOverlay(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var wrapped overlayFile
	if err := yaml.Unmarshal(data, &wrapped); err == nil && len(wrapped.Accepted) > 0 {
		return validateOverlay(wrapped.Accepted)
	}

	var flat map[string]string
	if err := yaml.Unmarshal(data, &flat); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return validateOverlay(flat)
}

// validateOverlay rejects overlay entries targeting unknown canonical paths.
func validateOverlay(overlay map[string]string) (map[string]string, error) {
	known := CanonicalPaths()
	for header, target := range overlay {
		if !known[target] {
			return nil, errors.NewValidationError(header, target, "unknown canonical path")
		}
	}
	return overlay, nil
}
