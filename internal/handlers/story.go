package handlers

import (
	"net/http"
	"strings"

	"lireddit/internal/utils"

	"github.com/gin-gonic/gin"
)

type StoryHandler struct {
	pageSize int
}

func NewStoryHandler(pageSize int) *StoryHandler {
	if pageSize <= 0 {
		pageSize = 15
	}
	return &StoryHandler{pageSize: pageSize}
}

// List renders the feed. ?cursor= loads the next window; the page shows
// every window fetched so far.
func (h *StoryHandler) List(c *gin.Context) {
	var cursor *string
	if cur := c.Query("cursor"); cur != "" {
		cursor = &cur
	}

	page, err := APIClient(c).Posts(c.Request.Context(), h.pageSize, cursor)
	if err != nil {
		apiError(c, err)
		return
	}

	Render(c, http.StatusOK, "story/list.html", gin.H{
		"Title":     "Lireddit",
		"Posts":     page.Posts,
		"HasMore":   page.HasMore,
		"EndCursor": page.EndCursor,
	})
}

func (h *StoryHandler) Detail(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	post, err := APIClient(c).Post(c.Request.Context(), id)
	if err != nil {
		apiError(c, err)
		return
	}
	if post == nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	me := CurrentMe(c)
	Render(c, http.StatusOK, "story/detail.html", gin.H{
		"Title":   post.Title,
		"Post":    post,
		"Body":    utils.RenderMarkdown(post.Text),
		"IsOwner": me != nil && me.ID == post.CreatorID,
	})
}

func (h *StoryHandler) ShowCreate(c *gin.Context) {
	Render(c, http.StatusOK, "story/create.html", gin.H{"Title": "Create Post"})
}

func (h *StoryHandler) Create(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("title"))
	text := c.PostForm("text")

	if title == "" {
		Render(c, http.StatusBadRequest, "story/create.html", gin.H{
			"Title":  "Create Post",
			"Error":  "Title is required",
			"Text":   text,
			"PTitle": title,
		})
		return
	}

	if _, err := APIClient(c).CreatePost(c.Request.Context(), title, text); err != nil {
		apiError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *StoryHandler) ShowEdit(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}
	post, err := APIClient(c).Post(c.Request.Context(), id)
	if err != nil {
		apiError(c, err)
		return
	}
	if post == nil {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}
	if me := CurrentMe(c); me == nil || me.ID != post.CreatorID {
		RenderError(c, http.StatusForbidden, "You can only edit your own posts")
		return
	}

	Render(c, http.StatusOK, "story/edit.html", gin.H{"Title": "Edit Post", "Post": post})
}

func (h *StoryHandler) Update(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}
	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		RenderError(c, http.StatusBadRequest, "Title is required")
		return
	}

	post, err := APIClient(c).UpdatePost(c.Request.Context(), id, title)
	if err != nil {
		apiError(c, err)
		return
	}
	if post == nil {
		RenderError(c, http.StatusForbidden, "You can only edit your own posts")
		return
	}
	c.Redirect(http.StatusSeeOther, "/post/"+c.Param("id"))
}

func (h *StoryHandler) Delete(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		RenderError(c, http.StatusNotFound, "Post not found")
		return
	}

	deleted, err := APIClient(c).DeletePost(c.Request.Context(), id)
	if err != nil {
		apiError(c, err)
		return
	}
	if !deleted {
		RenderError(c, http.StatusForbidden, "You can only delete your own posts")
		return
	}

	if isHTMX(c) {
		HtmxRedirect(c, "/")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}
