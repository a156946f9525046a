// Package core holds the file boundary of fwlens: loading and writing documents,
// schema files, the built-in demo data and the plain-text report.
package core

import (
	"fmt"
	"os"

	"fwlens/pkg/schema"
)

// DemoDocument is shown when the editor starts without a data file. Its rows
// cover the fitting, underflowing and overflowing cases of DefaultSchema.
const DemoDocument = "12345John Doe       20231001\n" +
	"98765Jane Smith     20231002\n" +
	"11222ShortName      202310  \n" +
	"99999OverflowUser   20231005EXTRA_DATA_HERE"

// DefaultSchema returns the demo layout: ID (5), Name (15), Date (8).
func DefaultSchema() schema.Schema {
	return schema.Schema{
		{ID: "1", Name: "ID", Length: 5, Color: "red"},
		{ID: "2", Name: "Name", Length: 15, Color: "blue"},
		{ID: "3", Name: "Date", Length: 8, Color: "emerald"},
	}
}

// LoadDocument reads a data file verbatim.
func LoadDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	return string(data), nil
}

// WriteDocument writes text to path byte for byte, keeping the mode of an existing file.
func WriteDocument(path, text string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(text), mode); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// LoadSchema reads the schema at path, or returns DefaultSchema when path is empty.
func LoadSchema(path string) (schema.Schema, error) {
	if path == "" {
		return DefaultSchema(), nil
	}
	return NewFileSchemaStore(path).Load()
}
