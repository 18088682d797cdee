package utils

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// EnhanceHTMLContent 调整渲染后的正文：图片懒加载、标题降级
// (页面标题已经是 h1)
func EnhanceHTMLContent(htmlStr string) template.HTML {
	if htmlStr == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return template.HTML(template.HTMLEscapeString(htmlStr))
	}

	// 增强图片属性
	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		s.SetAttr("referrerpolicy", "no-referrer")
		s.SetAttr("loading", "lazy")
	})

	// h1..h4 -> h3..h6
	for level := 4; level >= 1; level-- {
		doc.Find(fmt.Sprintf("h%d", level)).Each(func(i int, s *goquery.Selection) {
			inner, _ := s.Html()
			s.ReplaceWithHtml(fmt.Sprintf("<h%d>%s</h%d>", level+2, inner, level+2))
		})
	}

	// goquery renders full document tags if missing, we just want the body content
	html, _ := doc.Find("body").Html()
	if html == "" {
		html, _ = doc.Html()
	}

	return template.HTML(html)
}
