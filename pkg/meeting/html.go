package meeting

import (
	"strings"

	"golang.org/x/net/html"
)

// htmlToText converts an HTML body into structured plain text: block
// elements become line breaks, list items become bullets, links keep their
// href so the meeting-link scan still sees it.
func htmlToText(src string) string {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			text := strings.Join(strings.Fields(n.Data), " ")
			if text != "" {
				sb.WriteString(text)
				sb.WriteString(" ")
			}
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "head":
				return
			case "br":
				sb.WriteString("\n")
			case "li":
				sb.WriteString("\n- ")
			case "a":
				for _, attr := range n.Attr {
					if attr.Key == "href" && strings.HasPrefix(attr.Val, "http") {
						sb.WriteString(" " + attr.Val + " ")
						break
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "p", "div", "tr", "table", "h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol", "blockquote":
				sb.WriteString("\n")
			}
		}
	}
	walk(doc)

	// Collapse the space padding inside each line.
	lines := strings.Split(sb.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
