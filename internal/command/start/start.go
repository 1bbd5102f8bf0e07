package start

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	cmdflags "vmctl/internal/command/flags"
	"vmctl/internal/command/output"
	"vmctl/internal/config"
	"vmctl/pkg/api"
	"vmctl/pkg/client"
	"vmctl/pkg/flags"
	"vmctl/pkg/log"
)

func NewCommand(cfg *config.Config) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a VM",
		Args:  cobra.NoArgs,
		PreRunE: func(c *cobra.Command, _ []string) error {
			flags.BindCommandToViper(c)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), afero.NewOsFs(), cfg)
		},
	}

	cmdflags.AddClientFlagsToCommand(cmd, cfg)
	cmdflags.AddStartFlagsToCommand(cmd, cfg)

	return cmd, nil
}

func run(ctx context.Context, out io.Writer, fs afero.Fs, cfg *config.Config) error {
	var file *SpecFile

	if cfg.Start.SpecFile != "" {
		var err error
		if file, err = LoadSpecFile(fs, cfg.Start.SpecFile); err != nil {
			return err
		}
	}

	input, err := BuildInput(file, Overrides{
		CPU:    cfg.Start.CPU,
		Memory: cfg.Start.Memory,
		Image:  cfg.Start.Image,
	})
	if err != nil {
		return err
	}

	log.GetLogger(ctx).Debugf("Starting VM with %+v", input)

	id, err := client.New(cfg.ServerURL, cfg.ClientTimeout).StartVM(ctx, input)
	if err != nil {
		return fmt.Errorf("starting vm: %w", err)
	}

	return output.Print(out, cfg.Output, api.StartVMResponse{ID: id})
}
