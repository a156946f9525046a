package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fwlens/internal/core"
	"fwlens/internal/infer"
	"fwlens/internal/session"
	"fwlens/internal/tui"
)

// runEditor launches the interactive editor on args[0], or on the demo data.
func runEditor(cmd *cobra.Command, opts *rootOptions, args []string) error {
	s, err := opts.loadSchema()
	if err != nil {
		return err
	}

	text := core.DemoDocument
	var docPath string
	if len(args) == 1 {
		docPath = args[0]
		if text, err = core.LoadDocument(docPath); err != nil {
			return err
		}
	}

	sess, err := session.New(s, text, session.WithLogger(opts.logger))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	inferrer, err := infer.New(ctx, opts.cfg.Inference, opts.logger)
	if err != nil {
		if !errors.Is(err, infer.ErrMissingAPIKey) {
			return err
		}
		// the editor works without inference; requests report the missing key
		opts.logger.Info("Schema inference disabled", zap.Error(err))
		inferrer = nil
	}

	var store core.SchemaStore
	if opts.schemaPath != "" {
		store = core.NewFileSchemaStore(opts.schemaPath)
	}

	opts.logger.Info("Starting editor",
		zap.String("document", docPath),
		zap.Int("fields", len(s)),
		zap.Int("bytes", len(text)))

	return tui.Run(ctx, tui.Options{
		Session:      sess,
		Runner:       session.NewRunner(inferrer),
		Logger:       opts.logger,
		DocumentPath: docPath,
		SchemaStore:  store,
		Editor:       opts.cfg.Editor,
	})
}
