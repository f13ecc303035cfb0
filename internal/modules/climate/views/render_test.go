package views

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoadTemplates_success(t *testing.T) {
	if err := LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates() = %v; want nil", err)
	}
	if welcomeTmpl == nil {
		t.Fatal("LoadTemplates() left welcomeTmpl nil")
	}
}

func TestLoadTemplates_failure_sub(t *testing.T) {
	// Empty FS has no "templates" directory; ParseFS finds no files.
	err := loadTemplatesFromFS(fstest.MapFS{}, "templates")
	if err == nil {
		t.Fatal("loadTemplatesFromFS(emptyFS, \"templates\") = nil; want error")
	}
}

func TestLoadTemplates_failure_parse(t *testing.T) {
	badFS := fstest.MapFS{
		"templates/welcome.html": {Data: []byte("{{ .")},
	}
	if err := loadTemplatesFromFS(badFS, "templates"); err == nil {
		t.Fatal("loadTemplatesFromFS(badFS, \"templates\") = nil; want error")
	}
}

func TestRenderWelcome_notLoaded(t *testing.T) {
	prev := welcomeTmpl
	welcomeTmpl = nil
	t.Cleanup(func() { welcomeTmpl = prev })

	var buf bytes.Buffer
	err := RenderWelcome(&buf, &WelcomeData{})
	if err == nil {
		t.Fatal("RenderWelcome() = nil; want error when templates not loaded")
	}
	if !strings.Contains(err.Error(), "LoadTemplates") {
		t.Errorf("error = %q; want hint about LoadTemplates", err.Error())
	}
}

func TestRenderWelcome(t *testing.T) {
	if err := LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates() = %v", err)
	}

	var buf bytes.Buffer
	err := RenderWelcome(&buf, &WelcomeData{
		Title:      "Hawaii Climate",
		Routes:     []string{"/api/v1.0/precipitation", "/api/v1.0/temp/start/end"},
		DateFormat: "MMDDYYYY",
	})
	if err != nil {
		t.Fatalf("RenderWelcome() = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Aloha to the Hawaii Climate Analysis API!<br/>",
		"Available Routes:<br/>",
		"/api/v1.0/precipitation<br/>",
		"/api/v1.0/temp/start/end<br/>",
		"<p>'start' and 'end' date should be in the format MMDDYYYY.</p>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
