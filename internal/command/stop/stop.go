package stop

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	cmdflags "vmctl/internal/command/flags"
	"vmctl/internal/command/output"
	"vmctl/internal/config"
	"vmctl/pkg/client"
	"vmctl/pkg/flags"
)

func NewCommand(cfg *config.Config) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "stop <id>",
		Short: "Stop a VM",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(c *cobra.Command, _ []string) error {
			flags.BindCommandToViper(c)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), cfg, args[0])
		},
	}

	cmdflags.AddClientFlagsToCommand(cmd, cfg)

	return cmd, nil
}

func run(ctx context.Context, out io.Writer, cfg *config.Config, id string) error {
	resp, err := client.New(cfg.ServerURL, cfg.ClientTimeout).StopVM(ctx, id)
	if err != nil {
		return fmt.Errorf("stopping vm %s: %w", id, err)
	}

	return output.Print(out, cfg.Output, resp)
}
