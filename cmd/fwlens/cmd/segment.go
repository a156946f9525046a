package cmd

import (
	"github.com/spf13/cobra"

	"fwlens/internal/core"
)

func newSegmentCmd(opts *rootOptions) *cobra.Command {
	var reportOpts core.ReportOptions

	cmd := &cobra.Command{
		Use:   "segment <data_file>",
		Short: "Print every row split into the schema's fields",
		Long: `segment prints one line per row with the line number and every field of the
schema. Missing positions of short fields are dotted, and content beyond the
schema width is shown after '>'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.loadSchema()
			if err != nil {
				return err
			}
			text, err := core.LoadDocument(args[0])
			if err != nil {
				return err
			}
			return core.Report(cmd.OutOrStdout(), s, text, reportOpts)
		},
	}
	cmd.Flags().BoolVar(&reportOpts.Plain, "plain", false, "disable colors")
	cmd.Flags().BoolVar(&reportOpts.NoHeader, "no-header", false, "omit the field name header")
	return cmd
}
