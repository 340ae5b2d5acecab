package lookml

import (
	"fmt"
	"strings"
)

// Render serializes the file to .lkml text. Output is fully determined by
// the file contents: fields appear in a fixed order and collections render
// in slice order, so equal files always produce identical bytes.
func (f *File) Render() string {
	if f.Empty() {
		return ""
	}

	var b strings.Builder

	for i, v := range f.Views {
		if i > 0 {
			b.WriteString("\n")
		}

		v.render(&b)
	}

	return b.String()
}

func (v *View) render(b *strings.Builder) {
	fmt.Fprintf(b, "view: %s {\n", v.Name)

	var blocks []string

	if v.SQLTableName != "" {
		blocks = append(blocks, fmt.Sprintf("  sql_table_name: %s ;;\n", v.SQLTableName))
	}

	if v.DerivedTable != nil {
		blocks = append(blocks, renderDerivedTable(v.DerivedTable))
	}

	for _, d := range v.Dimensions {
		blocks = append(blocks, d.render())
	}

	for _, g := range v.DimensionGroups {
		blocks = append(blocks, g.render())
	}

	for _, m := range v.Measures {
		blocks = append(blocks, m.render())
	}

	for _, s := range v.Sets {
		blocks = append(blocks, s.render())
	}

	for _, p := range v.Parameters {
		blocks = append(blocks, p.render())
	}

	b.WriteString(strings.Join(blocks, "\n"))
	b.WriteString("}\n")
}

func renderDerivedTable(dt *DerivedTable) string {
	var b strings.Builder

	b.WriteString("  derived_table: {\n")
	writeSQL(&b, "    ", dt.SQL)
	b.WriteString("  }\n")

	return b.String()
}

func (d *Dimension) render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "  dimension: %s {\n", d.Name)
	writePlain(&b, "    ", "type", d.Type)
	writeSQL(&b, "    ", d.SQL)
	writeQuoted(&b, "    ", "label", d.Label)
	writePlain(&b, "    ", "primary_key", d.PrimaryKey)
	writeQuoted(&b, "    ", "group_label", d.GroupLabel)
	writeQuoted(&b, "    ", "description", d.Description)
	b.WriteString("  }\n")

	return b.String()
}

func (g *DimensionGroup) render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "  dimension_group: %s {\n", g.Name)
	writePlain(&b, "    ", "type", g.Type)
	writeSQL(&b, "    ", g.SQL)
	writeQuoted(&b, "    ", "label", g.Label)
	writeQuoted(&b, "    ", "group_label", g.GroupLabel)
	writeQuoted(&b, "    ", "description", g.Description)
	writeList(&b, "    ", "timeframes", g.Timeframes)
	b.WriteString("  }\n")

	return b.String()
}

func (m *Measure) render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "  measure: %s {\n", m.Name)
	writePlain(&b, "    ", "type", m.Type)
	writeSQL(&b, "    ", m.SQL)
	writeQuoted(&b, "    ", "label", m.Label)
	writeQuoted(&b, "    ", "group_label", m.GroupLabel)
	writeQuoted(&b, "    ", "description", m.Description)
	b.WriteString("  }\n")

	return b.String()
}

func (s *Set) render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "  set: %s {\n", s.Name)
	writeList(&b, "    ", "fields", s.Fields)
	b.WriteString("  }\n")

	return b.String()
}

func (p *Parameter) render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "  parameter: %s {\n", p.Name)
	writeQuoted(&b, "    ", "label", p.Label)
	writePlain(&b, "    ", "type", p.Type)
	writeQuoted(&b, "    ", "default_value", p.DefaultValue)

	for _, av := range p.AllowedValues {
		b.WriteString("\n    allowed_value: {\n")
		writeQuoted(&b, "      ", "label", av.Label)
		writeQuoted(&b, "      ", "value", av.Value)
		b.WriteString("    }\n")
	}

	b.WriteString("  }\n")

	return b.String()
}

// writeSQL emits a sql parameter with the ";;" terminator. The value is
// written verbatim, newlines included, because generated SQL carries its
// own significant indentation.
func writeSQL(b *strings.Builder, indent, sql string) {
	if sql == "" {
		return
	}

	fmt.Fprintf(b, "%ssql: %s ;;\n", indent, sql)
}

func writePlain(b *strings.Builder, indent, key, value string) {
	if value == "" {
		return
	}

	fmt.Fprintf(b, "%s%s: %s\n", indent, key, value)
}

func writeQuoted(b *strings.Builder, indent, key, value string) {
	if value == "" {
		return
	}

	fmt.Fprintf(b, "%s%s: %s\n", indent, key, quote(value))
}

func writeList(b *strings.Builder, indent, key string, values []string) {
	if len(values) == 0 {
		return
	}

	fmt.Fprintf(b, "%s%s: [\n", indent, key)

	for _, v := range values {
		fmt.Fprintf(b, "%s  %s,\n", indent, v)
	}

	fmt.Fprintf(b, "%s]\n", indent)
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)

	return `"` + s + `"`
}
