package render

import (
	"bytes"
	"fmt"
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Raw HTML is passed through goldmark untouched; the bluemonday policy is
// the only thing deciding what markup reaches a bubble.
var (
	converterOnce  sync.Once
	plainConverter goldmark.Markdown
	emojiConverter goldmark.Markdown
	policy         *bluemonday.Policy
)

var codeLanguagePattern = regexp.MustCompile(`^language-[\w+#.-]+$`)

func initConverters() {
	converterOnce.Do(func() {
		rendererOpts := goldmark.WithRendererOptions(gmhtml.WithUnsafe())

		plainConverter = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			rendererOpts,
		)
		emojiConverter = goldmark.New(
			goldmark.WithExtensions(extension.GFM, emoji.Emoji),
			rendererOpts,
		)

		policy = bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Matching(codeLanguagePattern).OnElements("code")
		policy.RequireNoReferrerOnLinks(true)
	})
}

// ToHTML converts assistant markdown to HTML and sanitizes it.
// The result is safe to store in a bubble and to display.
func ToHTML(markdown string, opts Options) (string, error) {
	initConverters()

	converter := plainConverter
	if opts.EnableEmoji {
		converter = emojiConverter
	}

	var buf bytes.Buffer
	if err := converter.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}

	return Sanitize(buf.String()), nil
}

// Sanitize strips script-capable markup from html
func Sanitize(html string) string {
	initConverters()
	return policy.Sanitize(html)
}
