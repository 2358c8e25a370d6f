// Package report renders the pruned inventory as the third-party report.
//
// The text format lists every dependency once with all of its licenses, or
// groups dependencies under each license when GroupByLicense is set. The
// structured formats (json, yaml, toml) share one Document shape. Output is
// deterministic so an unchanged build renders byte-identical reports.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/thirdparty/internal/inventory"
)

// Format selects the report encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatTOML}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats {
		if string(f) == strings.ToLower(name) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported report format %q", name)
}

// Extension returns the conventional file extension of the format.
func (f Format) Extension() string {
	if f == FormatText {
		return ".txt"
	}
	return "." + string(f)
}

// Options controls rendering.
type Options struct {
	Format Format

	// GroupByLicense lists dependencies under each license (text format only)
	GroupByLicense bool
}

// Document is the structured report.
type Document struct {
	Dependencies int       `json:"dependencies" yaml:"dependencies" toml:"dependencies"`
	Licenses     []License `json:"licenses" yaml:"licenses" toml:"licenses"`
}

// License is one license and the dependencies released under it.
type License struct {
	Name         string   `json:"name" yaml:"name" toml:"name"`
	Dependencies []string `json:"dependencies" yaml:"dependencies" toml:"dependencies"`
}

// NewDocument builds the structured report. Empty licenses are omitted.
func NewDocument(inv *inventory.Inventory) Document {
	doc := Document{
		Dependencies: len(inv.Dependencies()),
		Licenses:     []License{},
	}
	for _, name := range inv.Licenses() {
		ids := inv.Get(name)
		if len(ids) == 0 {
			continue
		}
		deps := make([]string, len(ids))
		for i, id := range ids {
			deps[i] = id.String()
		}
		doc.Licenses = append(doc.Licenses, License{Name: name, Dependencies: deps})
	}
	return doc
}

// Render encodes inv in the requested format.
func Render(inv *inventory.Inventory, opts Options) ([]byte, error) {
	switch opts.Format {
	case FormatText, "":
		if opts.GroupByLicense {
			return renderGrouped(inv), nil
		}
		return renderText(inv), nil
	case FormatJSON:
		data, err := json.MarshalIndent(NewDocument(inv), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal json report: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(NewDocument(inv))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal yaml report: %w", err)
		}
		return data, nil
	case FormatTOML:
		data, err := toml.Marshal(NewDocument(inv))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal toml report: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported report format %q", opts.Format)
	}
}

func renderText(inv *inventory.Inventory) []byte {
	deps := inv.Dependencies()
	if len(deps) == 0 {
		return []byte("\nThe project has no dependencies.\n")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\nLists of %d third-party dependencies.\n", len(deps))
	for _, id := range deps {
		b.WriteString("    ")
		for _, license := range inv.LicensesOf(id) {
			fmt.Fprintf(&b, " (%s)", license)
		}
		fmt.Fprintf(&b, " %s\n", id)
	}
	return []byte(b.String())
}

func renderGrouped(inv *inventory.Inventory) []byte {
	doc := NewDocument(inv)
	if doc.Dependencies == 0 {
		return []byte("\nThe project has no dependencies.\n")
	}

	var b strings.Builder
	b.WriteString("\nList of third-party dependencies grouped by their license type.\n")
	for _, license := range doc.Licenses {
		fmt.Fprintf(&b, "\n    %s:\n\n", license.Name)
		for _, dep := range license.Dependencies {
			fmt.Fprintf(&b, "      * %s\n", dep)
		}
	}
	return []byte(b.String())
}
