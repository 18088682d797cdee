package handlers

import (
	"net/http"
	"net/url"

	"lireddit/internal/utils"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct{}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{}
}

// Vote handles POST /vote/:id/:dir with dir "up" or "down". HTMX requests
// get the refreshed vote box back, everything else is sent back where it
// came from.
func (h *VoteHandler) Vote(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	value := 0
	switch c.Param("dir") {
	case "up":
		value = 1
	case "down":
		value = -1
	default:
		c.Status(http.StatusBadRequest)
		return
	}

	api := APIClient(c)
	if _, err := api.Vote(c.Request.Context(), id, value); err != nil {
		apiError(c, err)
		return
	}

	if isHTMX(c) {
		// the vote was patched into the cache, no need to refetch
		post, ok := api.CachedPost(id)
		if !ok {
			var err error
			if post, err = api.Post(c.Request.Context(), id); err != nil {
				apiError(c, err)
				return
			}
		}
		if post == nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.HTML(http.StatusOK, "story/vote.html", gin.H{"Post": post})
		return
	}

	c.Redirect(http.StatusSeeOther, backTo(c.GetHeader("Referer")))
}

// backTo keeps only the local part of a Referer.
func backTo(referer string) string {
	u, err := url.Parse(referer)
	if err != nil || referer == "" {
		return "/"
	}
	return safeNext(u.RequestURI())
}
