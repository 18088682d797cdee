package handlers

import (
	"net/http"
	"strings"

	"lireddit/internal/client"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// safeNext only allows local redirect targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if CurrentMe(c) != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	Render(c, http.StatusOK, "auth/login.html", gin.H{
		"Title": "Login",
		"Next":  safeNext(c.Query("next")),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	usernameOrEmail := strings.TrimSpace(c.PostForm("usernameOrEmail"))
	password := c.PostForm("password")
	next := safeNext(c.PostForm("next"))

	res, err := APIClient(c).Login(c.Request.Context(), usernameOrEmail, password)
	if err != nil {
		apiError(c, err)
		return
	}
	if len(res.Errors) > 0 {
		Render(c, http.StatusBadRequest, "auth/login.html", gin.H{
			"Title":           "Login",
			"Errors":          res.ErrorMap(),
			"UsernameOrEmail": usernameOrEmail,
			"Next":            next,
		})
		return
	}
	c.Redirect(http.StatusSeeOther, next)
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	Render(c, http.StatusOK, "auth/register.html", gin.H{"Title": "Register"})
}

func (h *AuthHandler) Register(c *gin.Context) {
	in := client.RegisterInput{
		Username: strings.TrimSpace(c.PostForm("username")),
		Email:    strings.TrimSpace(c.PostForm("email")),
		Password: c.PostForm("password"),
	}

	res, err := APIClient(c).Register(c.Request.Context(), in)
	if err != nil {
		apiError(c, err)
		return
	}
	if len(res.Errors) > 0 {
		Render(c, http.StatusBadRequest, "auth/register.html", gin.H{
			"Title":    "Register",
			"Errors":   res.ErrorMap(),
			"Username": in.Username,
			"Email":    in.Email,
		})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if _, err := APIClient(c).Logout(c.Request.Context()); err != nil {
		apiError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

