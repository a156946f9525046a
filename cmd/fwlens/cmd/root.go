package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fwlens/internal/config"
	"fwlens/internal/core"
	"fwlens/internal/logging"
	"fwlens/pkg/schema"
)

// rootOptions holds the persistent flags and what PersistentPreRunE builds from them.
type rootOptions struct {
	schemaPath string
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

// loadSchema returns the schema named by --schema, or the demo schema.
func (o *rootOptions) loadSchema() (schema.Schema, error) {
	return core.LoadSchema(o.schemaPath)
}

// configFile is the --config path, or the default location.
func (o *rootOptions) configFile() string {
	if o.configPath != "" {
		return o.configPath
	}
	return config.DefaultPath()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "fwlens [data_file]",
		Short: "Inspect and edit fixed-width text files field by field",
		Long: `fwlens slices every line of a fixed-width text file into the fields of a schema,
shows where rows are too short or too long, and edits single fields without
disturbing the rest of the line.

Run with a data file to open the interactive editor, or without one to explore
the built-in demo data. Schemas are YAML files (--schema), can be imported from
markdown, or inferred from a description with Gemini.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configFile())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			opts.cfg = cfg

			// the editor owns the terminal, so it only logs to a file
			mode := logging.CLI
			if cmd == cmd.Root() {
				mode = logging.Interactive
			}
			opts.logger, err = logging.New(cfg.Logging, mode, opts.verbose)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEditor(cmd, opts, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.schemaPath, "schema", "s", "", "schema file (YAML or JSON); defaults to the demo schema")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newSegmentCmd(opts),
		newPadCmd(opts),
		newEditCmd(opts),
		newInferCmd(opts),
		newSchemaCmd(opts),
		newConfigCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
