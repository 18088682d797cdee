package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"lireddit/internal/models"

	"gorm.io/gorm"
)

const (
	// MaxFeedLimit caps the page size whatever the client asks for.
	MaxFeedLimit = 50
	// SnippetLength is the number of characters in Post.textSnippet.
	SnippetLength = 100
)

// PaginatedPosts is one window of the createdAt-descending feed.
type PaginatedPosts struct {
	Posts   []models.Post
	HasMore bool
}

// EndCursor is the compound cursor of the last post in the window, or ""
// when the window is empty.
func (p PaginatedPosts) EndCursor() string {
	if len(p.Posts) == 0 {
		return ""
	}
	return CursorFor(p.Posts[len(p.Posts)-1])
}

// Cursor is a position in the feed. A bare createdAt cursor only excludes
// strictly newer-or-equal timestamps, so posts sharing the boundary
// timestamp can be skipped; the (createdAt, id) form gives a strict order.
type Cursor struct {
	CreatedAt time.Time
	ID        uint
	HasID     bool
}

// ParseCursor accepts "<unix ms>" or "<unix ms>:<post id>".
func ParseCursor(s string) (Cursor, error) {
	msPart, idPart, hasID := strings.Cut(strings.TrimSpace(s), ":")
	ms, err := strconv.ParseInt(msPart, 10, 64)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid cursor %q: %w", s, err)
	}
	c := Cursor{CreatedAt: time.UnixMilli(ms).UTC()}
	if hasID {
		id, err := strconv.ParseUint(idPart, 10, 64)
		if err != nil {
			return Cursor{}, fmt.Errorf("invalid cursor id %q: %w", s, err)
		}
		c.ID = uint(id)
		c.HasID = true
	}
	return c, nil
}

func (c Cursor) String() string {
	ms := strconv.FormatInt(c.CreatedAt.UnixMilli(), 10)
	if !c.HasID {
		return ms
	}
	return ms + ":" + strconv.FormatUint(uint64(c.ID), 10)
}

// CursorFor returns the compound cursor pointing just past p.
func CursorFor(p models.Post) string {
	return Cursor{CreatedAt: p.CreatedAt, ID: p.ID, HasID: true}.String()
}

// Timestamp formats t the way the API exposes createdAt/updatedAt.
func Timestamp(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// Snippet returns the first SnippetLength characters of text.
func Snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= SnippetLength {
		return text
	}
	return string(runes[:SnippetLength])
}

type FeedService struct {
	db *gorm.DB
}

func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{db: db}
}

// ListPosts returns up to limit posts older than cursor, newest first.
// voteStatus is filled in only when viewerID is set.
func (s *FeedService) ListPosts(ctx context.Context, limit int, cursor string, viewerID *uint) (PaginatedPosts, error) {
	realLimit := min(limit, MaxFeedLimit)
	if realLimit < 0 {
		realLimit = 0
	}
	realLimitPlusOne := realLimit + 1

	q := withVoteStatus(s.db.WithContext(ctx).Model(&models.Post{}), viewerID).
		Preload("Creator")

	if cursor != "" {
		c, err := ParseCursor(cursor)
		if err != nil {
			return PaginatedPosts{}, err
		}
		if c.HasID {
			q = q.Where("posts.created_at < ? OR (posts.created_at = ? AND posts.id < ?)", c.CreatedAt, c.CreatedAt, c.ID)
		} else {
			q = q.Where("posts.created_at < ?", c.CreatedAt)
		}
	}

	var posts []models.Post
	if err := q.Order("posts.created_at DESC").
		Order("posts.id DESC").
		Limit(realLimitPlusOne).
		Find(&posts).Error; err != nil {
		return PaginatedPosts{}, fmt.Errorf("list posts: %w", err)
	}

	hasMore := len(posts) == realLimitPlusOne
	if len(posts) > realLimit {
		posts = posts[:realLimit]
	}
	return PaginatedPosts{Posts: posts, HasMore: hasMore}, nil
}

// withVoteStatus selects the viewer's updoot value as vote_status.
func withVoteStatus(q *gorm.DB, viewerID *uint) *gorm.DB {
	if viewerID == nil {
		return q.Select("posts.*")
	}
	return q.Select(
		"posts.*, (SELECT value FROM updoots WHERE updoots.user_id = ? AND updoots.post_id = posts.id) AS vote_status",
		*viewerID,
	)
}
