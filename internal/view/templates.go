// Package view renders the embedded HTML report templates.
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"

	"github.com/sitelog/intake/internal/jalali"
	"github.com/sitelog/intake/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// NewEngine parses the embedded report templates.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"localize": func(v any) string { return jalali.ToLocalizedDigits(v) },
		"cssColor": cssColor,
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/reports/*.html")
	if err != nil {
		return nil, fmt.Errorf("view: parse templates: %w", err)
	}
	return &Engine{templates: tpl}, nil
}

// RenderString executes the named template with data and returns the HTML.
func (e *Engine) RenderString(name string, data any) (string, error) {
	if e == nil {
		return "", fmt.Errorf("template engine not initialised")
	}
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("view: render %s: %w", name, err)
	}
	return buf.String(), nil
}

const fallbackColor = "#1e40af"

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// cssColor passes hex colors through and replaces anything else.
func cssColor(s string) template.CSS {
	if hexColor.MatchString(s) {
		return template.CSS(s)
	}
	return template.CSS(fallbackColor)
}
