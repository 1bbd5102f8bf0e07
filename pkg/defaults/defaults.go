package defaults

import "time"

const (
	// HTTPAPIEndpoint is the default endpoint for the http api server.
	HTTPAPIEndpoint = "0.0.0.0:8000"

	// ServerURL is the default api url for client commands.
	ServerURL = "http://localhost:8000"

	// ReadHeaderTimeout is the default time allowed to read request headers.
	ReadHeaderTimeout = 5 * time.Second

	// ShutdownTimeout is the default graceful shutdown period.
	ShutdownTimeout = 10 * time.Second

	// ClientTimeout is the default timeout for a single client request.
	ClientTimeout = 30 * time.Second

	// OutputFormat is the default client output format.
	OutputFormat = "json"

	// EnvPrefix is the prefix for environment variables read by viper.
	EnvPrefix = "VMCTL"

	// ConfigurationDir is the directory searched for config.yaml.
	ConfigurationDir = "$HOME/.config/vmctl/"
)
