package cmd

import (
	"github.com/spf13/cobra"

	"fwlens/internal/core"
	"fwlens/internal/parser"
	"fwlens/pkg/schema"
)

func newSchemaCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Show or import schemas",
	}

	var out string
	importCmd := &cobra.Command{
		Use:   "import <markdown_file>",
		Short: "Convert a markdown field table or list into a schema file",
		Long: `import reads the first markdown table with a name column and a length column
(for example | Field | Length |), or else bullet items such as "- ID: 5" or
"- Name (15)", and prints the schema as YAML.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, err := parser.ParseSchemaMarkdownFile(args[0])
			if err != nil {
				return err
			}
			s, err := schema.FromSpecs(specs)
			if err != nil {
				return err
			}
			return writeSchema(cmd, s, out)
		},
	}
	importCmd.Flags().StringVarP(&out, "out", "o", "", "write the schema to this file instead of stdout")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the active schema (--schema, or the demo schema) as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.loadSchema()
			if err != nil {
				return err
			}
			return writeSchema(cmd, s, "")
		},
	}

	cmd.AddCommand(importCmd, showCmd)
	return cmd
}

// writeSchema saves s to path, or prints it when path is empty.
func writeSchema(cmd *cobra.Command, s schema.Schema, path string) error {
	if path != "" {
		if err := core.NewFileSchemaStore(path).Save(s); err != nil {
			return err
		}
		cmd.PrintErrf("Wrote %d fields to %s\n", len(s), path)
		return nil
	}
	data, err := core.MarshalSchema(s)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
