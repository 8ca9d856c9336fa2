//go:build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"smcbot/internal/config"
)

func buildAppWithWire(ctx context.Context, cfg *config.Config, cfgPath string) (*App, error) {
	wire.Build(
		NewAppBuilder,
		provideAppFromBuilder,
	)
	return nil, nil
}
