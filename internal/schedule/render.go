package schedule

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"
)

// Times are published in UTC; viewers convert to local time in the browser.
const artifactTimeFormat = time.RFC3339

// Renderer substitutes a projection into a fixed template document and writes
// the resulting artifact. The template has no control logic; it receives only
// the JSArray and PreviousFile fields.
type Renderer struct {
	templatePath string
	outputPath   string
}

// NewRenderer creates a renderer reading templatePath and writing outputPath
func NewRenderer(templatePath, outputPath string) *Renderer {
	return &Renderer{
		templatePath: templatePath,
		outputPath:   outputPath,
	}
}

// templateData carries the two substituted placeholders
type templateData struct {
	JSArray      string
	PreviousFile string
}

// Render writes the schedule artifact for the given projection. The template
// is re-read on every render so it can be edited without a restart.
func (r *Renderer) Render(p *Projection) error {
	tmpl, err := template.ParseFiles(r.templatePath)
	if err != nil {
		return fmt.Errorf("failed to parse schedule template: %w", err)
	}

	data := templateData{
		JSArray:      jsArray(p.Items),
		PreviousFile: escapeName(p.Previous),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render schedule template: %w", err)
	}

	if err := os.WriteFile(r.outputPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write schedule artifact: %w", err)
	}

	return nil
}

// jsArray formats schedule items as a JavaScript array-of-objects literal,
// e.g. [{time:'2026-08-23T17:00:00Z',name:'show'},...]
func jsArray(items []Item) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "{time:'%s',name:'%s'}",
			item.StartTime.UTC().Format(artifactTimeFormat),
			escapeName(item.Name))
	}
	b.WriteByte(']')
	return b.String()
}

// escapeName escapes characters that would break the single-quoted JS literal
func escapeName(name string) string {
	name = strings.ReplaceAll(name, `\`, `\\`)
	return strings.ReplaceAll(name, `'`, `\'`)
}
