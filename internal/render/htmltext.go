package render

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	multiNewlinePattern  = regexp.MustCompile(`\n{3,}`)
	trailingSpacePattern = regexp.MustCompile(`[ \t]+\n`)
	whitespacePattern    = regexp.MustCompile(`\s+`)
)

// maxNodeDepth bounds recursion on deeply nested markup
const maxNodeDepth = 50

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
)

// HTMLToMarkdown turns sanitized bubble HTML back into simple markdown for
// terminal display and clipboard copies.
func HTMLToMarkdown(safeHTML string) (string, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(safeHTML), context)
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	var sb strings.Builder
	for _, n := range nodes {
		writeNode(&sb, n, 0)
	}

	return cleanMarkdown(sb.String()), nil
}

func writeNode(sb *strings.Builder, n *html.Node, depth int) {
	if depth > maxNodeDepth {
		return
	}

	switch n.Type {
	case html.TextNode:
		writeText(sb, n.Data)
		return
	case html.ElementNode:
		// handled below
	default:
		writeChildren(sb, n, depth)
		return
	}

	switch n.Data {
	case "script", "style", "noscript", "iframe", "svg", "head", "template":
		return
	case "p", "div", "section", "article", "details", "summary":
		ensureBlankLine(sb)
		writeChildren(sb, n, depth)
		ensureBlankLine(sb)
	case "h1", "h2", "h3", "h4", "h5", "h6":
		ensureBlankLine(sb)
		sb.WriteString(strings.Repeat("#", int(n.Data[1]-'0')))
		sb.WriteString(" ")
		sb.WriteString(strings.TrimSpace(inline(n, depth)))
		ensureBlankLine(sb)
	case "br":
		sb.WriteString("\n")
	case "hr":
		ensureBlankLine(sb)
		sb.WriteString("---")
		ensureBlankLine(sb)
	case "strong", "b":
		wrapInline(sb, n, depth, "**")
	case "em", "i":
		wrapInline(sb, n, depth, "*")
	case "del", "s":
		wrapInline(sb, n, depth, "~~")
	case "code":
		writeInlineCode(sb, textContent(n))
	case "pre":
		writeCodeBlock(sb, n)
	case "a":
		text := strings.TrimSpace(inline(n, depth))
		href := getAttr(n, "href")
		if href == "" || strings.HasPrefix(href, "#") {
			sb.WriteString(text)
			return
		}
		if text == "" {
			text = href
		}
		fmt.Fprintf(sb, "[%s](%s)", text, href)
	case "img":
		if alt := getAttr(n, "alt"); alt != "" {
			fmt.Fprintf(sb, "[Image: %s]", alt)
		}
	case "ul", "ol":
		writeList(sb, n, depth)
	case "blockquote":
		writeBlockquote(sb, n, depth)
	case "table":
		writeTable(sb, n, depth)
	default:
		writeChildren(sb, n, depth)
	}
}

func writeChildren(sb *strings.Builder, n *html.Node, depth int) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNode(sb, c, depth+1)
	}
}

// inline renders the children of n into a fresh string
func inline(n *html.Node, depth int) string {
	var sub strings.Builder
	writeChildren(&sub, n, depth)
	return whitespacePattern.ReplaceAllString(sub.String(), " ")
}

func wrapInline(sb *strings.Builder, n *html.Node, depth int, marker string) {
	text := strings.TrimSpace(inline(n, depth))
	if text == "" {
		return
	}
	sb.WriteString(marker)
	sb.WriteString(text)
	sb.WriteString(marker)
}

func writeText(sb *strings.Builder, data string) {
	text := whitespacePattern.ReplaceAllString(data, " ")
	if strings.TrimSpace(text) == "" {
		s := sb.String()
		if s == "" || strings.HasSuffix(s, "\n") || strings.HasSuffix(s, " ") {
			return
		}
		sb.WriteString(" ")
		return
	}
	sb.WriteString(markdownEscaper.Replace(text))
}

func writeInlineCode(sb *strings.Builder, code string) {
	if code == "" {
		return
	}
	if strings.Contains(code, "`") {
		sb.WriteString("`` ")
		sb.WriteString(code)
		sb.WriteString(" ``")
		return
	}
	sb.WriteString("`")
	sb.WriteString(code)
	sb.WriteString("`")
}

func writeCodeBlock(sb *strings.Builder, n *html.Node) {
	lang := ""
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "code" {
			lang = strings.TrimPrefix(getAttr(c, "class"), "language-")
			break
		}
	}

	fence := "```"
	code := strings.TrimRight(textContent(n), "\n")
	for strings.Contains(code, fence) {
		fence += "`"
	}

	ensureBlankLine(sb)
	sb.WriteString(fence)
	sb.WriteString(lang)
	sb.WriteString("\n")
	sb.WriteString(code)
	sb.WriteString("\n")
	sb.WriteString(fence)
	ensureBlankLine(sb)
}

func writeList(sb *strings.Builder, n *html.Node, depth int) {
	ordered := n.Data == "ol"
	index := 1
	if start := getAttr(n, "start"); ordered && start != "" {
		if _, err := fmt.Sscanf(start, "%d", &index); err != nil {
			index = 1
		}
	}

	ensureNewline(sb)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}

		marker := "- "
		if ordered {
			marker = fmt.Sprintf("%d. ", index)
			index++
		}

		var item strings.Builder
		writeChildren(&item, c, depth+1)
		content := cleanMarkdown(item.String())
		content = multiNewlinePattern.ReplaceAllString(strings.ReplaceAll(content, "\n\n", "\n"), "\n")
		content = strings.ReplaceAll(content, "\n", "\n"+strings.Repeat(" ", len(marker)))

		sb.WriteString(marker)
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	ensureBlankLine(sb)
}

func writeBlockquote(sb *strings.Builder, n *html.Node, depth int) {
	var quote strings.Builder
	writeChildren(&quote, n, depth)
	content := cleanMarkdown(quote.String())
	if content == "" {
		return
	}

	ensureBlankLine(sb)
	for i, line := range strings.Split(content, "\n") {
		if i > 0 {
			sb.WriteString("\n")
		}
		if line == "" {
			sb.WriteString(">")
			continue
		}
		sb.WriteString("> ")
		sb.WriteString(line)
	}
	ensureBlankLine(sb)
}

func writeTable(sb *strings.Builder, n *html.Node, depth int) {
	var rows [][]string
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "thead", "tbody", "tfoot":
				collect(c)
			case "tr":
				var cells []string
				for cell := c.FirstChild; cell != nil; cell = cell.NextSibling {
					if cell.Type == html.ElementNode && (cell.Data == "th" || cell.Data == "td") {
						text := strings.TrimSpace(inline(cell, depth))
						cells = append(cells, strings.ReplaceAll(text, "|", `\|`))
					}
				}
				rows = append(rows, cells)
			}
		}
	}
	collect(n)

	if len(rows) == 0 {
		return
	}

	columns := 0
	for _, row := range rows {
		if len(row) > columns {
			columns = len(row)
		}
	}

	ensureBlankLine(sb)
	for i, row := range rows {
		for len(row) < columns {
			row = append(row, "")
		}
		sb.WriteString("| ")
		sb.WriteString(strings.Join(row, " | "))
		sb.WriteString(" |\n")
		if i == 0 {
			sb.WriteString("|")
			sb.WriteString(strings.Repeat(" --- |", columns))
			sb.WriteString("\n")
		}
	}
	ensureBlankLine(sb)
}

// textContent returns the raw text below n, as used inside code
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func ensureNewline(sb *strings.Builder) {
	s := sb.String()
	if s != "" && !strings.HasSuffix(s, "\n") {
		sb.WriteString("\n")
	}
}

func ensureBlankLine(sb *strings.Builder) {
	s := sb.String()
	switch {
	case s == "", strings.HasSuffix(s, "\n\n"):
	case strings.HasSuffix(s, "\n"):
		sb.WriteString("\n")
	default:
		sb.WriteString("\n\n")
	}
}

// cleanMarkdown removes excessive whitespace
func cleanMarkdown(s string) string {
	s = trailingSpacePattern.ReplaceAllString(s, "\n")
	s = multiNewlinePattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
