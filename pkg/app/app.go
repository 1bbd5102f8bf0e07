package app

import (
	"vmctl/pkg/metrics"
	"vmctl/pkg/ports"
)

type Config struct {
	// MetricsEnabled records use case counters when true.
	MetricsEnabled bool
}

// App implements ports.VMService on top of the registry port.
type App struct {
	cfg     *Config
	ports   *ports.Collection
	metrics *metrics.Metrics
}

// New creates the application. m may be nil when metrics are disabled.
func New(cfg *Config, ports *ports.Collection, m *metrics.Metrics) *App {
	if !cfg.MetricsEnabled {
		m = nil
	}

	return &App{
		cfg:     cfg,
		ports:   ports,
		metrics: m,
	}
}

var _ ports.VMService = (*App)(nil)
