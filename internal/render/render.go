package render

import "strings"

// Markdown renders markdown content for terminal display.
// Uses a pooled renderer for better performance and thread safety.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	return renderer.Render(content)
}

// MarkdownWithWidth is a convenience function for rendering with specific width.
func MarkdownWithWidth(content string, width int) (string, error) {
	return Markdown(content, DefaultOptions().WithWidth(width))
}

// Terminal renders sanitized bubble HTML for the terminal. Glamour failures
// fall back to the intermediate markdown so a reply is never lost.
func Terminal(safeHTML string, opts Options) string {
	md, err := HTMLToMarkdown(safeHTML)
	if err != nil {
		return Sanitize(safeHTML)
	}
	if md == "" {
		return ""
	}

	rendered, err := Markdown(md, opts)
	if err != nil {
		return md
	}
	return strings.Trim(rendered, "\n")
}
