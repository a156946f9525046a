package cmd

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fwlens/internal/infer"
	"fwlens/pkg/schema"
)

func newInferCmd(opts *rootOptions) *cobra.Command {
	var (
		out     string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "infer <description or sample row>",
		Short: "Infer a schema with Gemini and print it as YAML",
		Long: `infer asks Gemini for the field names and lengths described by the
arguments, for example "ID (5), Name (15), Date (8)" or a pasted sample row.
The API key is read from the config file or FWLENS_API_KEY, API_KEY,
GEMINI_API_KEY or GOOGLE_API_KEY.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			inferrer, err := infer.New(ctx, opts.cfg.Inference, opts.logger)
			if err != nil {
				return err
			}
			input := strings.Join(args, " ")
			specs, err := inferrer.InferSchema(ctx, input)
			if err != nil {
				return err
			}
			s, err := schema.FromSpecs(specs)
			if err != nil {
				return err
			}
			opts.logger.Info("Schema inferred", zap.Int("fields", len(s)), zap.Int("width", s.TotalWidth()))
			return writeSchema(cmd, s, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the schema to this file instead of stdout")
	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "give up after this long (0 for no limit)")
	return cmd
}
