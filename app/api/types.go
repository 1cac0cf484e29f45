package api

import (
	"context"

	"github.com/lysyi3m/reddit-comb/app/forum"
	"github.com/lysyi3m/reddit-comb/app/rpc"
)

type DispatcherInterface interface {
	Handle(ctx context.Context, body []byte) (*rpc.Response, int)
}

var _ DispatcherInterface = (*rpc.Dispatcher)(nil)

type HealthReporter interface {
	Health(ctx context.Context) map[string]any
}

type Handler struct {
	dispatcher  DispatcherInterface
	configCache *forum.ConfigCache
	forums      []string
	version     string
	cache       HealthReporter
}
