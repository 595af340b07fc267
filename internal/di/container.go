// Package di assembles the application graph with google/wire.
package di

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/novacaap/java-sample-docker/internal/config"
	"github.com/novacaap/java-sample-docker/internal/infrastructure/observability"
	"github.com/novacaap/java-sample-docker/internal/repository"
	"github.com/novacaap/java-sample-docker/internal/service/item"
)

// Container holds the wired application. Its fields are filled by
// InitializeContainer.
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	LogLevel   zap.AtomicLevel
	Router     *chi.Mux
	Repository repository.ItemRepository
	Service    *item.Service
	Metrics    *observability.Collector
	Tracer     *observability.TracerProvider
}

// ApplyConfig pushes the runtime-adjustable settings of cfg into the
// running application. Only the log level can change without a restart.
func (c *Container) ApplyConfig(cfg *config.Config) {
	if err := c.LogLevel.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		c.Logger.Warn("Ignoring invalid log level", zap.String("level", cfg.Logging.Level), zap.Error(err))
	}
}
