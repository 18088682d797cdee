package handlers

import (
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"lireddit/internal/client"

	"github.com/gin-contrib/multitemplate"
)

var funcMap = template.FuncMap{
	"timeAgo": func(p client.Post) string {
		created := p.Created()
		if created.IsZero() {
			return ""
		}
		seconds := int(time.Since(created).Seconds())
		switch {
		case seconds < 60:
			return "just now"
		case seconds < 3600:
			return fmt.Sprintf("%dm ago", seconds/60)
		case seconds < 86400:
			return fmt.Sprintf("%dh ago", seconds/3600)
		case seconds < 2592000:
			return fmt.Sprintf("%dd ago", seconds/86400)
		}
		return created.Format("Jan 2, 2006")
	},
	"voted": func(p client.Post, value int) bool {
		return p.Voted(value)
	},
}

// LoadTemplates builds one template set per view: the layouts, every
// component, then the view itself. Partials are registered on their own.
func LoadTemplates(templatesDir string) (multitemplate.Renderer, error) {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		return nil, err
	}
	components, err := filepath.Glob(templatesDir + "/components/*.html")
	if err != nil {
		return nil, err
	}

	assemble := func(view string) []string {
		files := make([]string, 0, len(layouts)+len(components)+1)
		files = append(files, layouts...)
		files = append(files, components...)
		return append(files, filepath.Join(templatesDir, "views", view))
	}

	for _, view := range []string{
		"story/list.html",
		"story/detail.html",
		"story/create.html",
		"story/edit.html",
		"auth/login.html",
		"auth/register.html",
		"error.html",
	} {
		r.AddFromFilesFuncs(view, funcMap, assemble(view)...)
	}

	// HTMX 局部刷新，只渲染投票框
	r.AddFromFilesFuncs("story/vote.html", funcMap, filepath.Join(templatesDir, "components", "vote.html"))

	return r, nil
}
