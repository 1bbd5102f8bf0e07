package config

import (
	"time"

	"vmctl/pkg/log"
)

// Config represents the vmctl configuration.
type Config struct {
	// Logging contains the logging related config.
	Logging log.Config

	// HTTPAPIEndpoint is the endpoint the http api server listens on.
	HTTPAPIEndpoint string
	// ReadHeaderTimeout bounds how long the server waits for request headers.
	ReadHeaderTimeout time.Duration
	// ShutdownTimeout is how long graceful shutdown may take before connections are dropped.
	ShutdownTimeout time.Duration
	// EnableMetrics exposes /metrics and records use case metrics.
	EnableMetrics bool

	// ServerURL is the base url client commands talk to.
	ServerURL string
	// ClientTimeout bounds each client request.
	ClientTimeout time.Duration
	// Output is the client output format, json or yaml.
	Output string

	// Start holds the values for the start command.
	Start struct {
		SpecFile string
		CPU      int
		Memory   string
		Image    string
	}
}
