package controllers

import (
	"context"
	"fmt"

	"historytutor/tutor/localization"
	"historytutor/tutor/utils/types"
)

// LocalesController serves the locale overlays kept in object storage.
type LocalesController struct {
	source localization.BundleSource
}

// NewLocalesController accepts a nil source when no bucket is configured.
func NewLocalesController(source localization.BundleSource) *LocalesController {
	return &LocalesController{source: source}
}

// Bundle returns nil, nil when lang has no overlay.
func (c *LocalesController) Bundle(ctx context.Context, lang types.Language) ([]byte, error) {
	if !lang.Valid() {
		return nil, fmt.Errorf("%w: %q", localization.ErrUnsupportedLanguage, lang)
	}
	if c.source == nil {
		return nil, nil
	}
	return c.source.GetLocaleBundle(ctx, lang)
}
