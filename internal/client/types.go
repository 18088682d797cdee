package client

import (
	"strconv"
	"time"
)

type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Post struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Text        string `json:"text"`
	TextSnippet string `json:"textSnippet"`
	Points      int    `json:"points"`
	VoteStatus  *int   `json:"voteStatus"`
	CreatorID   int    `json:"creatorId"`
	Creator     User   `json:"creator"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// Created parses createdAt, which the API sends as unix milliseconds.
func (p Post) Created() time.Time {
	ms, err := strconv.ParseInt(p.CreatedAt, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// Voted reports whether the viewer's current vote on p equals value.
func (p Post) Voted(value int) bool {
	return p.VoteStatus != nil && *p.VoteStatus == value
}

type PaginatedPosts struct {
	Posts     []Post  `json:"posts"`
	HasMore   bool    `json:"hasMore"`
	EndCursor *string `json:"endCursor"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type UserResponse struct {
	Errors []FieldError `json:"errors"`
	User   *User        `json:"user"`
}

// ErrorMap turns field errors into field -> message for forms.
func (r *UserResponse) ErrorMap() map[string]string {
	m := make(map[string]string, len(r.Errors))
	for _, e := range r.Errors {
		m[e.Field] = e.Message
	}
	return m
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
