package starter

import (
	"context"

	"moff.io/chia-walletconnect/internal/config"
)

// Startable is a long running component; Start must not block.
type Startable interface {
	Start(ctx context.Context)
}

type Configurable interface {
	Apply(*config.Configuration)
}

// Start applies cfg to every Configurable element, then starts each in order.
func Start(ctx context.Context, cfg *config.Configuration, elems ...Startable) {
	for _, ele := range elems {
		if configurable, ok := ele.(Configurable); ok && cfg != nil {
			configurable.Apply(cfg)
		}
		ele.Start(ctx)
	}
}
