// Package web holds embedded static assets and templates for the BindValue site.
package web

import "embed"

// TemplateFS contains all HTML templates.
//
//go:embed templates
var TemplateFS embed.FS

// StaticFS contains the stylesheet and the small form script.
//
//go:embed static
var StaticFS embed.FS
