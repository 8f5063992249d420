package template

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"docsmith/internal/flow"
)

func TestPopulate(t *testing.T) {
	answers := flow.AnswerMap{
		"project.name":        "billing",
		"scale.users":         250000,
		"privacy.pii":         true,
		"security.data_types": []interface{}{"PII", "payment"},
	}
	text := "## {{project.name}}\nUsers: {{ scale.users }}\nPII: {{privacy.pii}}\nData: {{security.data_types}}\nOwner: {{team.owner}}"
	got := Populate(text, answers)
	want := "## billing\nUsers: 250000\nPII: true\nData: PII, payment\nOwner: _TBD_"
	if got != want {
		t.Fatalf("Populate:\n%s\nwant:\n%s", got, want)
	}
}

func TestFields(t *testing.T) {
	text := "{{b.two}} and {{a.one}} and {{b.two}}"
	if diff := cmp.Diff([]string{"a.one", "b.two"}, Fields(text)); diff != "" {
		t.Fatalf("Fields mismatch:\n%s", diff)
	}
}

func writeTemplates(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"overview.md":     "## Overview\n{{project.name}} runs on {{deployment.model}}.\n",
		"requirements.md": "## Requirements\nTarget scale: {{scale.users}} users.\n",
		"security.md":     "## Security\nData types: {{security.data_types}}.\n",
		"notes.txt":       "ignored, wrong extension",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestLibrary_Assemble(t *testing.T) {
	lib, err := LoadLibrary(writeTemplates(t))
	if err != nil {
		t.Fatalf("LoadLibrary: %v", err)
	}
	if !lib.Has("overview") || lib.Has("notes") {
		t.Fatal("library loaded the wrong section set")
	}

	answers := flow.AnswerMap{
		"project.name":     "billing",
		"deployment.model": "cloud",
		"scale.users":      500,
	}
	// "governance" has no template and must be skipped quietly.
	doc := lib.Assemble("Billing Design", []string{"overview", "requirements", "governance"}, answers)
	if len(doc.Sections) != 2 {
		t.Fatalf("assembled %d sections, want 2", len(doc.Sections))
	}
	if doc.Sections[0].Name != "overview" || doc.Sections[1].Name != "requirements" {
		t.Fatalf("section order: %+v", doc.Sections)
	}

	md := doc.Markdown()
	if !strings.HasPrefix(md, "# Billing Design\n") {
		t.Fatalf("markdown title missing:\n%s", md)
	}
	if !strings.Contains(md, "billing runs on cloud.") {
		t.Fatalf("overview not populated:\n%s", md)
	}
	if !strings.Contains(md, "Target scale: 500 users.") {
		t.Fatalf("requirements not populated:\n%s", md)
	}
}
