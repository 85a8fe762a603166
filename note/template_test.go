package note

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTemplateDefault(t *testing.T) {
	tmpl, err := LoadTemplate("")
	if err != nil {
		t.Fatalf("LoadTemplate(\"\") error = %v", err)
	}
	if tmpl.Raw() != DefaultTemplate {
		t.Error("empty path should yield the default template")
	}
}

func TestLoadTemplateFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	if err := os.WriteFile(path, []byte("Hi {conv_rate}"), 0o644); err != nil {
		t.Fatal(err)
	}

	tmpl, err := LoadTemplate(path)
	if err != nil {
		t.Fatalf("LoadTemplate() error = %v", err)
	}
	if tmpl.Raw() != "Hi {conv_rate}" {
		t.Errorf("Raw() = %q", tmpl.Raw())
	}
}

func TestLoadTemplateMissingFile(t *testing.T) {
	if _, err := LoadTemplate(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("LoadTemplate() on missing file should return error")
	}
}
