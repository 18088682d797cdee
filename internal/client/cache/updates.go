package cache

import (
	"encoding/json"
	"math"
)

// NewLireddit returns a cache configured for the lireddit schema: the posts
// feed merges its pages and mutations patch the cache in place.
func NewLireddit() *Cache {
	return New(Config{
		Keys: map[string]KeyFunc{
			"PaginatedPosts": nil,
			"UserResponse":   nil,
			"FieldError":     nil,
		},
		Resolvers: map[string]Resolver{
			"posts": CursorPagination("posts"),
		},
		Updates: map[string]Updater{
			"vote":       updateVote,
			"createPost": invalidateFeed,
			"deletePost": removePost,
			"login":      func(s *Store, r any, _ map[string]any) { writeMe(s, r) },
			"register":   func(s *Store, r any, _ map[string]any) { writeMe(s, r) },
			"logout": func(s *Store, _ any, _ map[string]any) {
				forgetViewerFields(s)
				s.Write(RootKey, "me", nil, nil)
			},
		},
	})
}

// updateVote applies the same arithmetic the server does: a fresh vote
// moves points by value, a flip by twice value, a repeat changes nothing.
func updateVote(s *Store, result any, vars map[string]any) {
	if changed, _ := result.(bool); !changed {
		return
	}
	postID := vars["postId"]
	value := sign(toInt(vars["value"]))
	if value == 0 {
		return
	}

	data, ok := s.ReadFragment("Post", postID, "points", "voteStatus")
	if !ok {
		return
	}
	delta := value
	if data["voteStatus"] != nil {
		current := sign(toInt(data["voteStatus"]))
		if current == value {
			return
		}
		if current != 0 {
			delta = 2 * value
		}
	}
	s.WriteFragment("Post", postID, map[string]any{
		"points":     toInt(data["points"]) + delta,
		"voteStatus": value,
	})
}

// invalidateFeed drops every cached posts page. A new post lands on top of
// the feed, so every page is stale.
func invalidateFeed(s *Store, _ any, _ map[string]any) {
	for _, fi := range s.InspectFields(RootKey) {
		if fi.FieldName == "posts" {
			s.Invalidate(RootKey, fi.FieldKey)
		}
	}
}

func removePost(s *Store, result any, vars map[string]any) {
	if deleted, _ := result.(bool); deleted {
		s.InvalidateEntity(EntityKey("Post", vars["id"]))
	}
}

// writeMe sets Query.me from a login or register payload. Payloads carrying
// field errors leave the current viewer alone.
func writeMe(s *Store, result any) {
	payload, ok := result.(map[string]any)
	if !ok {
		return
	}
	if errs, ok := payload["errors"].([]any); ok && len(errs) > 0 {
		return
	}
	user, ok := payload["user"].(map[string]any)
	if !ok {
		return
	}
	forgetViewerFields(s)
	s.Write(RootKey, "me", nil, user)
}

// forgetViewerFields drops cached root lookups other than me. voteStatus
// belongs to the viewer, so posts read under the previous one are stale.
func forgetViewerFields(s *Store) {
	for _, fi := range s.InspectFields(RootKey) {
		if fi.FieldName != "me" {
			s.Invalidate(RootKey, fi.FieldKey)
		}
	}
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(math.Round(n))
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	default:
		return 0
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
