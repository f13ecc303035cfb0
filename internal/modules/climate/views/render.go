package views

import (
	"errors"
	"html/template"
	"io"
	"io/fs"
)

var welcomeTmpl *template.Template

// loadTemplatesFromFS parses the page templates found in dir of fsys.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	welcomeTmpl, err = template.ParseFS(sub, "*.html")
	if err != nil {
		return err
	}
	return nil
}

// LoadTemplates loads the embedded templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// WelcomeData is the view model for the landing page.
type WelcomeData struct {
	Title      string
	Routes     []string
	DateFormat string
}

func RenderWelcome(w io.Writer, data *WelcomeData) error {
	if welcomeTmpl == nil {
		return errors.New("welcome template not loaded: call views.LoadTemplates during startup")
	}
	return welcomeTmpl.ExecuteTemplate(w, "welcome.html", data)
}
