package divrec

import (
	"github.com/fjordledger/divrec/pkg/errors"
	"github.com/fjordledger/divrec/pkg/mapper"
)

// Option configures a Pipeline.
type Option func(*config) error

type config struct {
	nbimCSV     string
	custodyCSV  string
	outDir      string
	overlayPath string
	overlay     map[string]string
}

// WithNBIMFile sets the NBIM accounting CSV extract.
func WithNBIMFile(path string) Option {
	return func(c *config) error {
		c.nbimCSV = path
		return nil
	}
}

// WithCustodyFile sets the custody CSV extract.
func WithCustodyFile(path string) Option {
	return func(c *config) error {
		c.custodyCSV = path
		return nil
	}
}

// WithOutputDir sets the directory all outputs are written under. It is
// created if missing.
func WithOutputDir(dir string) Option {
	return func(c *config) error {
		c.outDir = dir
		return nil
	}
}

// WithOverlayFile sets a YAML or JSON overlay file of header-to-path
// mappings applied after the deterministic rules.
func WithOverlayFile(path string) Option {
	return func(c *config) error {
		c.overlayPath = path
		return nil
	}
}

// WithOverlay sets overlay mappings directly, taking precedence over
// WithOverlayFile.
func WithOverlay(overlay map[string]string) Option {
	return func(c *config) error {
		c.overlay = overlay
		return nil
	}
}

func (c *config) validate() error {
	if c.nbimCSV == "" {
		return errors.NewValidationError("nbim_csv", nil, "input file is required")
	}
	if c.custodyCSV == "" {
		return errors.NewValidationError("custody_csv", nil, "input file is required")
	}
	return nil
}

// validateOutput is checked by Run only; coverage inspection writes nothing.
func (c *config) validateOutput() error {
	if c.outDir == "" {
		return errors.NewValidationError("out_dir", nil, "output directory is required")
	}
	return nil
}

// loadOverlay resolves the effective overlay: explicit mappings win, then
// the overlay file, then none.
func (c *config) loadOverlay() (map[string]string, error) {
	if c.overlay != nil {
		return c.overlay, nil
	}
	if c.overlayPath == "" {
		return nil, nil
	}
	return mapper.LoadOverlay(c.overlayPath)
}
