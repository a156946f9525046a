package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fwlens/internal/core"
	"fwlens/internal/rewrite"
	"fwlens/pkg/engine"
)

func newEditCmd(opts *rootOptions) *cobra.Command {
	var (
		row     int
		field   string
		value   string
		inPlace bool
	)

	cmd := &cobra.Command{
		Use:   "edit <data_file> --row N --field NAME --value VALUE",
		Short: "Replace a single field of a single row",
		Long: `edit replaces one field of one row. The value is padded with spaces or cut to
the field length; a row shorter than the field start is padded first. All other
rows and the rest of the edited row are kept byte for byte.

--row is the line number as printed by segment (starting at 1). --field is a
field name or its 0-based position in the schema.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("value") {
				return errors.New("--value is required")
			}
			s, err := opts.loadSchema()
			if err != nil {
				return err
			}
			fieldIdx, err := s.Lookup(field)
			if err != nil {
				return err
			}
			text, err := core.LoadDocument(args[0])
			if err != nil {
				return err
			}
			if n := engine.RowCount(text); row < 1 || row > n {
				return fmt.Errorf("row %d not in 1..%d: %w", row, n, engine.ErrRowOutOfRange)
			}
			edited, err := engine.ApplyEdit(s, text, row-1, fieldIdx, value)
			if err != nil {
				return err
			}
			if ce := opts.logger.Check(zap.DebugLevel, "Edited cell"); ce != nil {
				line, _ := rewrite.NewLineIndex(edited).Line(row - 1)
				r, _ := engine.SegmentRow(s, row-1, line)
				ce.Write(
					zap.String("file", args[0]),
					zap.Int("row", row),
					zap.String("field", s[fieldIdx].Name),
					zap.String("value", r.Cells[fieldIdx].Value))
			}
			return emit(cmd, args[0], edited, inPlace)
		},
	}
	cmd.Flags().IntVarP(&row, "row", "r", 0, "line number of the row to edit (1-based)")
	cmd.Flags().StringVarP(&field, "field", "f", "", "field name or 0-based index")
	cmd.Flags().StringVar(&value, "value", "", "new field value")
	cmd.Flags().BoolVarP(&inPlace, "in-place", "i", false, "write the result back to the data file")
	_ = cmd.MarkFlagRequired("row")
	_ = cmd.MarkFlagRequired("field")
	return cmd
}
