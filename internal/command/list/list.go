package list

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	cmdflags "vmctl/internal/command/flags"
	"vmctl/internal/command/output"
	"vmctl/internal/config"
	"vmctl/pkg/api"
	"vmctl/pkg/client"
	"vmctl/pkg/flags"
)

func NewCommand(cfg *config.Config) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List VMs",
		Args:  cobra.NoArgs,
		PreRunE: func(c *cobra.Command, _ []string) error {
			flags.BindCommandToViper(c)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}

	cmdflags.AddClientFlagsToCommand(cmd, cfg)

	return cmd, nil
}

func run(ctx context.Context, out io.Writer, cfg *config.Config) error {
	vms, err := client.New(cfg.ServerURL, cfg.ClientTimeout).ListVMs(ctx)
	if err != nil {
		return fmt.Errorf("listing vms: %w", err)
	}

	return output.Print(out, cfg.Output, api.ListVMsResponse{VMs: vms})
}
