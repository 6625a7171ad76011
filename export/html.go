// ABOUTME: Renders the Markdown export as a standalone HTML report using goldmark.
// ABOUTME: Optionally embeds an SVG drawing of the automaton above the tables.
package export

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var reportTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Helvetica, sans-serif; margin: 2em; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 0.2em 0.6em; }
</style>
</head>
<body>
{{if .SVG}}<figure>{{.SVG}}</figure>
{{end}}{{.Body}}
</body>
</html>
`))

// HTMLReport converts the Markdown export to an HTML page. svg, when
// non-empty, is embedded as-is above the tables.
func HTMLReport(doc Document, svg []byte) ([]byte, error) {
	var body bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	if err := md.Convert([]byte(Markdown(doc)), &body); err != nil {
		return nil, fmt.Errorf("markdown convert: %w", err)
	}

	var out bytes.Buffer
	err := reportTmpl.Execute(&out, struct {
		Title string
		SVG   template.HTML
		Body  template.HTML
	}{
		Title: doc.title(),
		SVG:   template.HTML(svg),
		Body:  template.HTML(body.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("report template: %w", err)
	}
	return out.Bytes(), nil
}
