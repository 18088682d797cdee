package utils

import (
	"bytes"
	"html/template"
	"log"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// PostRenderer turns a post's text, markdown typed into the create form,
// into HTML that can sit under the post title on the detail page.
type PostRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewPostRenderer() *PostRenderer {
	// goldmark already drops raw HTML, bluemonday catches unsafe links
	policy := bluemonday.UGCPolicy()
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.RequireNoReferrerOnLinks(true)

	return &PostRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			// textarea 里的换行就是换行
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		policy: policy,
	}
}

// Render renders text. Headings come out two levels down (see
// EnhanceHTMLContent) since the page keeps h1 and h2 for post titles.
func (r *PostRenderer) Render(text string) template.HTML {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		log.Printf("[markdown] render failed, showing plain text: %v", err)
		return template.HTML("<p>" + template.HTMLEscapeString(text) + "</p>")
	}
	return EnhanceHTMLContent(r.policy.Sanitize(buf.String()))
}

var postRenderer = NewPostRenderer()

// RenderMarkdown renders a post body with the shared PostRenderer.
func RenderMarkdown(text string) template.HTML {
	return postRenderer.Render(text)
}
