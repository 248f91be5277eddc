package collection

import (
	"boardgame-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
}

// NewFeature creates a new Collection feature. A nil engine disables it.
func NewFeature(engine *reconcile.Engine, store reconcile.Store, archive *Archive, logger *zap.Logger) *Feature {
	if engine == nil {
		return &Feature{}
	}
	return &Feature{handler: NewHandler(NewService(engine, store, archive, logger))}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "collection"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.handler != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
