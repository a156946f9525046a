package cmd

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fwlens/internal/core"
	"fwlens/pkg/engine"
)

func newPadCmd(opts *rootOptions) *cobra.Command {
	var inPlace bool

	cmd := &cobra.Command{
		Use:   "pad <data_file>",
		Short: "Right-pad short rows with spaces to the schema width",
		Long: `pad extends every row shorter than the total schema width with trailing
spaces. Longer rows and line endings are left alone. The result is printed,
or written back to the file with --in-place.`,
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
			padded := engine.PadAll(s, text)
			opts.logger.Debug("Padded document",
				zap.String("file", args[0]),
				zap.Int("width", s.TotalWidth()),
				zap.Bool("changed", padded != text))
			return emit(cmd, args[0], padded, inPlace)
		},
	}
	cmd.Flags().BoolVarP(&inPlace, "in-place", "i", false, "write the result back to the data file")
	return cmd
}

// emit writes text to path when inPlace is set, to stdout otherwise.
func emit(cmd *cobra.Command, path, text string, inPlace bool) error {
	if inPlace {
		return core.WriteDocument(path, text)
	}
	_, err := io.WriteString(cmd.OutOrStdout(), text)
	return err
}
