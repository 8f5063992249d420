package template

import (
	"github.com/charmbracelet/glamour"
)

// RenderPreview renders assembled markdown for terminal display.
func RenderPreview(markdown string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(markdown)
}
