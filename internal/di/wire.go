//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"github.com/novacaap/java-sample-docker/internal/config"
)

// InitializeContainer builds the application. The returned cleanup closes
// stores, flushes traces and syncs the logger, in that order.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
