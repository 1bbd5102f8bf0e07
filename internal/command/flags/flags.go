package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vmctl/internal/config"
	"vmctl/pkg/defaults"
	"vmctl/pkg/models"
)

const (
	httpEndpointFlag      = "http-endpoint"
	readHeaderTimeoutFlag = "read-header-timeout"
	shutdownTimeoutFlag   = "shutdown-timeout"
	enableMetricsFlag     = "enable-metrics"
	serverFlag            = "server"
	clientTimeoutFlag     = "timeout"
	outputFlag            = "output"
	specFileFlag          = "spec"
	cpuFlag               = "cpu"
	memoryFlag            = "mem"
	imageFlag             = "image"
)

// AddHTTPServerFlagsToCommand will add http api server flags to the supplied command.
func AddHTTPServerFlagsToCommand(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().StringVar(&cfg.HTTPAPIEndpoint,
		httpEndpointFlag,
		defaults.HTTPAPIEndpoint,
		"The endpoint for the HTTP server to listen on.")

	cmd.Flags().DurationVar(&cfg.ReadHeaderTimeout,
		readHeaderTimeoutFlag,
		defaults.ReadHeaderTimeout,
		"The amount of time allowed to read request headers.")

	cmd.Flags().DurationVar(&cfg.ShutdownTimeout,
		shutdownTimeoutFlag,
		defaults.ShutdownTimeout,
		"The amount of time in-flight requests get to finish on shutdown.")

	cmd.Flags().BoolVar(&cfg.EnableMetrics,
		enableMetricsFlag,
		false,
		"Expose prometheus metrics on /metrics.")
}

// AddClientFlagsToCommand will add the api client flags to the supplied command.
func AddClientFlagsToCommand(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().StringVar(&cfg.ServerURL,
		serverFlag,
		defaults.ServerURL,
		"The base URL of the vmctl API.")

	cmd.Flags().DurationVar(&cfg.ClientTimeout,
		clientTimeoutFlag,
		defaults.ClientTimeout,
		"The timeout for a single API request.")

	cmd.Flags().StringVarP(&cfg.Output,
		outputFlag,
		"o",
		defaults.OutputFormat,
		"The output format, 'json' or 'yaml'.")
}

// AddStartFlagsToCommand will add the vm spec flags to the supplied command.
func AddStartFlagsToCommand(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().StringVar(&cfg.Start.SpecFile,
		specFileFlag,
		"",
		"Path to a TOML file with a [hardware] table describing the vm.")

	cmd.Flags().IntVar(&cfg.Start.CPU,
		cpuFlag,
		0,
		"CPU count, overrides the spec file.")

	cmd.Flags().StringVar(&cfg.Start.Memory,
		memoryFlag,
		"",
		"Memory as a size (32GiB, 32g) or a number of GB, overrides the spec file.")

	cmd.Flags().StringVar(&cfg.Start.Image,
		imageFlag,
		"",
		fmt.Sprintf("Image to boot, one of %s. Overrides the spec file.", strings.Join(models.AllowedImages(), ", ")))
}
