package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	cmdflags "vmctl/internal/command/flags"
	"vmctl/internal/config"
	"vmctl/internal/inject"
	"vmctl/pkg/api"
	"vmctl/pkg/flags"
	"vmctl/pkg/log"
)

func NewCommand(cfg *config.Config) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the vmctl API server",
		Args:  cobra.NoArgs,
		PreRunE: func(c *cobra.Command, _ []string) error {
			flags.BindCommandToViper(c)

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg)
		},
	}

	cmdflags.AddHTTPServerFlagsToCommand(cmd, cfg)

	return cmd, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := log.GetLogger(ctx)
	logger.Info("Starting vmctl")

	ports := inject.InitializePorts(cfg)
	srv := inject.InitializeHTTPServer(cfg, ports)

	return serve(ctx, cfg, srv)
}

// serve runs srv until ctx is cancelled or the server fails.
func serve(ctx context.Context, cfg *config.Config, srv *api.Server) error {
	logger := log.GetLogger(ctx)
	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutdown signal received, stopping vmctl")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http api server: %w", err)
	}

	return <-errCh
}
