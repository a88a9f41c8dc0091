// Package markdown renders a dump as one cross-linked Markdown document.
//
// Basic usage:
//
//	doc := markdown.Render(d, markdown.Options{WikiLinks: true})
//	os.WriteFile("Database Design.md", []byte(doc), 0o644)
//
// Rendering is pure text composition; it never touches the database.
package markdown

import (
	"fmt"
	"strings"

	"schemadoc/internal/introspect"
)

const (
	tocHeading   = "Table of Contents"
	backLinkText = "Back to Table of Contents"

	// TimeLayout formats the "Generated on" line.
	TimeLayout = "2006-01-02 15:04:05 MST"
)

// Options controls link syntax.
type Options struct {
	// WikiLinks selects [[#heading|text]] links; otherwise standard
	// [text](#slug) anchors are used. Applies to every link in the document.
	WikiLinks bool
}

// Slug turns a heading into an anchor: lower-cased, spaces replaced by
// hyphens. Nothing else is changed or encoded.
func Slug(heading string) string {
	return strings.ReplaceAll(strings.ToLower(heading), " ", "-")
}

// Link formats a link to heading with the given display text.
func Link(heading, display string, wiki bool) string {
	if wiki {
		return fmt.Sprintf("[[#%s|%s]]", heading, display)
	}
	return fmt.Sprintf("[%s](#%s)", display, Slug(heading))
}

// Heading is the section heading text for one object, e.g. "Table orders".
func Heading(k introspect.Kind, name string) string {
	return k.Label() + " " + name
}

// Render builds the complete document for d.
func Render(d *introspect.Dump, opts Options) string {
	var builder strings.Builder
	w := &writer{b: &builder, wiki: opts.WikiLinks}

	w.line("# Database Schema: " + d.Database)
	w.line("## Generated on: " + d.Generated.Format(TimeLayout) + "\n")

	writeTOC(w, d)

	for i, k := range introspect.Kinds {
		// the first section follows the ToC after a blank line; later ones
		// follow a back link that already ends in one
		if i == 0 {
			w.line("\n## " + k.Section())
		} else {
			w.line("## " + k.Section())
		}
		for _, o := range d.Objects(k) {
			writeObject(w, o)
		}
	}

	return builder.String()
}

func writeTOC(w *writer, d *introspect.Dump) {
	w.line("## " + tocHeading)
	for _, k := range introspect.Kinds {
		w.line("- " + w.link(k.Section(), k.Section()))
		for _, o := range d.Objects(k) {
			w.line("    - " + w.link(Heading(k, o.Name), o.Name))
		}
	}
}

func writeObject(w *writer, o introspect.Object) {
	w.line("\n### " + Heading(o.Kind, o.Name))
	w.line("#### Drop Statement")
	w.sql(o.Drop)
	w.line("#### Create Statement")
	w.sql(o.Create)
	for _, insert := range o.Inserts {
		w.sql(insert)
	}
	w.line("\n" + w.link(tocHeading, backLinkText) + "\n")
}

type writer struct {
	b    *strings.Builder
	wiki bool
}

func (w *writer) line(s string) {
	w.b.WriteString(s)
	w.b.WriteString("\n")
}

func (w *writer) sql(stmt string) {
	w.line("```sql\n" + stmt + "\n```")
}

func (w *writer) link(heading, display string) string {
	return Link(heading, display, w.wiki)
}
