package application

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const excerptMaxLength = 200

// BodyRenderer converts a post body written in Markdown to HTML for the
// detail page.
type BodyRenderer interface {
	Render(body string) (template.HTML, error)
}

type goldmarkRenderer struct {
	md goldmark.Markdown
}

func NewBodyRenderer() BodyRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)

	return &goldmarkRenderer{
		md: md,
	}
}

func (r *goldmarkRenderer) Render(body string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("failed to convert body to HTML: %w", err)
	}

	return template.HTML(buf.String()), nil
}

// Excerpt returns the first paragraph of a Markdown body, truncated at a
// word boundary, for use on listing cards.
func Excerpt(body string) string {
	lines := strings.Split(body, "\n")
	var paragraphLines []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Headings and structural markup never belong in an excerpt.
		if strings.HasPrefix(trimmed, "#") ||
			strings.HasPrefix(trimmed, "```") ||
			strings.HasPrefix(trimmed, "---") ||
			strings.HasPrefix(trimmed, "- ") ||
			strings.HasPrefix(trimmed, "* ") ||
			strings.HasPrefix(trimmed, "|") {
			if len(paragraphLines) > 0 {
				break
			}
			continue
		}

		if trimmed == "" {
			if len(paragraphLines) > 0 {
				break
			}
			continue
		}

		paragraphLines = append(paragraphLines, trimmed)
	}

	if len(paragraphLines) == 0 {
		return ""
	}

	excerpt := strings.Join(paragraphLines, " ")

	if len(excerpt) > excerptMaxLength {
		excerpt = excerpt[:excerptMaxLength]
		if lastSpace := strings.LastIndexAny(excerpt, " \t"); lastSpace > 0 {
			excerpt = excerpt[:lastSpace]
		}
		excerpt += "..."
	}

	return excerpt
}
