// Package web embeds the HTML templates used for printable reports.
package web

import "embed"

// Templates embeds HTML templates.
//
//go:embed templates/reports/*.html
var Templates embed.FS
