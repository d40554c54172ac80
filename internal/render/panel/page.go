package panel

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var tmpl = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// Page is the full dashboard document: the panel plus the encoded map scene.
// Seq identifies the frame it was rendered from.
type Page struct {
	Seq   uint64
	Panel Panel
	Scene template.JS
}

// RenderPage writes the complete HTML document.
func RenderPage(w io.Writer, p Page) error {
	if err := tmpl.ExecuteTemplate(w, "page", p); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// Fragments renders the panel and overlay HTML that a live page swaps in on update.
func Fragments(p Panel) (panelHTML, overlayHTML string, err error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "panel", p); err != nil {
		return "", "", fmt.Errorf("render panel fragment: %w", err)
	}
	panelHTML = buf.String()

	buf.Reset()
	if err := tmpl.ExecuteTemplate(&buf, "overlay", p.Overlay); err != nil {
		return "", "", fmt.Errorf("render overlay fragment: %w", err)
	}
	return panelHTML, buf.String(), nil
}
