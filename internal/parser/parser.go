package parser

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"fwlens/pkg/schema"
)

// ErrNoSchema is returned when a document contains neither a usable table nor a field list.
var ErrNoSchema = errors.New("no field table or field list found")

var (
	nameHeaders   = []string{"name", "field", "field name", "column", "column name"}
	lengthHeaders = []string{"length", "len", "width", "size", "chars", "characters"}

	// Matches list items such as "ID: 5", "Name (15 chars)", "Date = 8".
	listItemRe = regexp.MustCompile(`^(.+?)\s*(?::|=|\()\s*(\d+)\s*(?:chars?|characters?)?\s*\)?\s*$`)
	digitsRe   = regexp.MustCompile(`\d+`)
)

// ParseSchemaMarkdownFile reads a markdown file and extracts field specs from it.
func ParseSchemaMarkdownFile(filename string) ([]schema.Spec, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	specs, err := ParseSchemaMarkdown(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return specs, nil
}

// ParseSchemaMarkdown extracts field specs from markdown. The first table whose
// header has a name column and a length column wins; otherwise bullet items of
// the form "Name: 5" or "Name (5)" are used, in document order.
func ParseSchemaMarkdown(src []byte) ([]schema.Spec, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader(src))

	var (
		tableSpecs []schema.Spec
		listSpecs  []schema.Spec
		tableErr   error
		found      bool
	)
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || found {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *extast.Table:
			specs, ok, err := parseTable(node, src)
			if err != nil {
				tableErr = err
				return ast.WalkStop, nil
			}
			if ok {
				tableSpecs = specs
				found = true
				return ast.WalkStop, nil
			}
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			if spec, ok := parseListItem(nodeText(node, src)); ok {
				listSpecs = append(listSpecs, spec)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if tableErr != nil {
		return nil, tableErr
	}
	if found {
		return tableSpecs, nil
	}
	if len(listSpecs) > 0 {
		return listSpecs, nil
	}
	return nil, ErrNoSchema
}

// parseTable returns ok=false when the table header lacks a name or length column.
func parseTable(table *extast.Table, src []byte) ([]schema.Spec, bool, error) {
	nameCol, lengthCol := -1, -1
	var specs []schema.Spec
	rowNum := 0

	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		cells := cellTexts(row, src)
		if _, isHeader := row.(*extast.TableHeader); isHeader {
			for i, c := range cells {
				h := strings.ToLower(c)
				if nameCol < 0 && contains(nameHeaders, h) {
					nameCol = i
				}
				if lengthCol < 0 && contains(lengthHeaders, h) {
					lengthCol = i
				}
			}
			if nameCol < 0 || lengthCol < 0 {
				return nil, false, nil
			}
			continue
		}
		rowNum++
		if nameCol >= len(cells) || lengthCol >= len(cells) {
			continue
		}
		name := cells[nameCol]
		digits := digitsRe.FindString(cells[lengthCol])
		length, err := strconv.Atoi(digits)
		if name == "" && digits == "" {
			continue
		}
		if err != nil || length < 1 {
			return nil, false, fmt.Errorf("table row %d (%q) length %q: %w", rowNum, name, cells[lengthCol], schema.ErrInvalidLength)
		}
		specs = append(specs, schema.Spec{Name: name, Length: length})
	}
	if nameCol < 0 || len(specs) == 0 {
		return nil, false, nil
	}
	return specs, true, nil
}

func parseListItem(item string) (schema.Spec, bool) {
	m := listItemRe.FindStringSubmatch(item)
	if m == nil {
		return schema.Spec{}, false
	}
	length, err := strconv.Atoi(m[2])
	if err != nil || length < 1 {
		return schema.Spec{}, false
	}
	name := strings.Trim(strings.TrimSpace(m[1]), "*_`")
	if name == "" {
		return schema.Spec{}, false
	}
	return schema.Spec{Name: name, Length: length}, true
}

func cellTexts(row ast.Node, src []byte) []string {
	var cells []string
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		cells = append(cells, nodeText(c, src))
	}
	return cells
}

// nodeText concatenates the literal text below n.
func nodeText(n ast.Node, src []byte) string {
	var b bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
