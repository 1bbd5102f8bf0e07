//go:build wireinject
// +build wireinject

package inject

import (
	"time"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"vmctl/internal/config"
	"vmctl/pkg/api"
	"vmctl/pkg/app"
	"vmctl/pkg/identifier"
	"vmctl/pkg/metrics"
	"vmctl/pkg/ports"
	"vmctl/pkg/registry"
)

func InitializePorts(cfg *config.Config) *ports.Collection {
	wire.Build(
		identifier.New,
		systemClock,
		registry.New,
		appPorts,
	)

	return nil
}

func InitializeHTTPServer(cfg *config.Config, p *ports.Collection) *api.Server {
	wire.Build(
		metrics.NewRegistry,
		wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
		registryFromPorts,
		metricsProvider,
		appConfig,
		app.New,
		wire.Bind(new(ports.VMService), new(*app.App)),
		apiConfig,
		api.NewServer,
	)

	return nil
}

func systemClock() func() time.Time {
	return time.Now
}

func appPorts(reg *registry.Registry, ids ports.IDService, clock func() time.Time) *ports.Collection {
	return &ports.Collection{
		Registry:          reg,
		IdentifierService: ids,
		Clock:             clock,
	}
}

func registryFromPorts(p *ports.Collection) ports.VMRegistry {
	return p.Registry
}

func metricsProvider(cfg *config.Config, reg prometheus.Registerer, vms ports.VMRegistry) *metrics.Metrics {
	if !cfg.EnableMetrics {
		return nil
	}

	return metrics.New(reg, vms)
}

func appConfig(cfg *config.Config) *app.Config {
	return &app.Config{
		MetricsEnabled: cfg.EnableMetrics,
	}
}

func apiConfig(cfg *config.Config, gatherer *prometheus.Registry) *api.Config {
	apiCfg := &api.Config{
		Endpoint:          cfg.HTTPAPIEndpoint,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	if cfg.EnableMetrics {
		apiCfg.Gatherer = gatherer
	}

	return apiCfg
}
