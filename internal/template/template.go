// Package template assembles the output document: section templates
// with {{field}} placeholders are populated from the answer map and
// stitched together according to the sections the complexity analyzer
// reveals for the recommended tier.
package template

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"docsmith/internal/flow"
)

// placeholderRe matches {{ field.path }} with optional inner spacing.
var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.-]+)\s*\}\}`)

// Placeholder left in place of unanswered fields.
const unansweredMark = "_TBD_"

// Populate replaces every placeholder with the formatted answer.
// Unanswered fields render as a visible TBD marker rather than an
// empty hole, so draft documents stay reviewable.
func Populate(text string, answers flow.AnswerMap) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(match string) string {
		field := placeholderRe.FindStringSubmatch(match)[1]
		v, ok := answers.Get(field)
		if !ok {
			return unansweredMark
		}
		return FormatAnswer(v)
	})
}

// FormatAnswer renders an answer value for document text. Collections
// are comma-joined in order; scalars use their canonical string form.
func FormatAnswer(v interface{}) string {
	if list, ok := v.([]interface{}); ok {
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = flow.CanonicalString(item)
		}
		return strings.Join(parts, ", ")
	}
	if list, ok := v.([]string); ok {
		return strings.Join(list, ", ")
	}
	return flow.CanonicalString(v)
}

// Fields lists the distinct placeholder fields in a template, sorted.
func Fields(text string) []string {
	seen := map[string]struct{}{}
	for _, m := range placeholderRe.FindAllStringSubmatch(text, -1) {
		seen[m[1]] = struct{}{}
	}
	fields := make([]string, 0, len(seen))
	for f := range seen {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Section is one populated document section.
type Section struct {
	Name string
	Body string
}

// Document is a fully assembled output document.
type Document struct {
	Title    string
	Sections []Section
}

// Library holds the section templates loaded from a template
// directory, one <section>.md file per section name.
type Library struct {
	sections map[string]string
}

// LoadLibrary reads every .md file in dir as a section template.
func LoadLibrary(dir string) (*Library, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read template dir: %w", err)
	}
	lib := &Library{sections: make(map[string]string)}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", entry.Name(), err)
		}
		name := strings.TrimSuffix(entry.Name(), ".md")
		lib.sections[name] = string(data)
	}
	return lib, nil
}

// Has reports whether a section template exists.
func (l *Library) Has(name string) bool {
	_, ok := l.sections[name]
	return ok
}

// Assemble populates the named sections in order. Sections without a
// template are skipped; revealing a section the template set does not
// cover is not an error, it just contributes nothing.
func (l *Library) Assemble(title string, sections []string, answers flow.AnswerMap) *Document {
	doc := &Document{Title: title}
	for _, name := range sections {
		body, ok := l.sections[name]
		if !ok {
			continue
		}
		doc.Sections = append(doc.Sections, Section{
			Name: name,
			Body: Populate(body, answers),
		})
	}
	return doc
}

// Markdown renders the document as a single markdown file.
func (d *Document) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", d.Title)
	for _, section := range d.Sections {
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(section.Body, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}
