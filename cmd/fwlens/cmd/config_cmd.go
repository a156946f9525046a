package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fwlens/internal/config"
	"fwlens/internal/logging"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the fwlens configuration file",
		// replaces the root hook: the file being managed may not load or validate
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			opts.logger, err = logging.New(config.DefaultConfig().Logging, logging.CLI, opts.verbose)
			return err
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default settings",
		Long: `init writes the default configuration to --config, or to the default
location. API keys found in the environment are not written to the file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configFile()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			opts.logger.Debug("Config written", zap.String("path", path))
			_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	cmd.AddCommand(initCmd)
	return cmd
}
