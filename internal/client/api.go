package client

import "context"

// Posts fetches one feed window and returns every cached window merged, in
// the order they were loaded. A nil cursor asks for the newest posts.
func (c *Client) Posts(ctx context.Context, limit int, cursor *string) (*PaginatedPosts, error) {
	vars := map[string]any{"limit": limit, "cursor": nil}
	if cursor != nil {
		vars["cursor"] = *cursor
	}
	res, err := c.Execute(ctx, &Operation{Kind: Query, Field: "posts", Query: postsQuery, Variables: vars})
	if err != nil {
		return nil, err
	}
	var page PaginatedPosts
	if err := decode(res.Data, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Post returns nil when the post does not exist.
func (c *Client) Post(ctx context.Context, id int) (*Post, error) {
	res, err := c.Execute(ctx, &Operation{
		Kind:      Query,
		Field:     "post",
		Query:     postQuery,
		Variables: map[string]any{"id": id},
	})
	if err != nil {
		return nil, err
	}
	if res.Data == nil {
		return nil, nil
	}
	var post Post
	if err := decode(res.Data, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Me returns the logged in user, or nil.
func (c *Client) Me(ctx context.Context) (*User, error) {
	res, err := c.Execute(ctx, &Operation{Kind: Query, Field: "me", Query: meQuery})
	if err != nil {
		return nil, err
	}
	if res.Data == nil {
		return nil, nil
	}
	var user User
	if err := decode(res.Data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) CreatePost(ctx context.Context, title, text string) (*Post, error) {
	res, err := c.mutate(ctx, "createPost", createPostMutation, map[string]any{
		"input": map[string]any{"title": title, "text": text},
	})
	if err != nil {
		return nil, err
	}
	var post Post
	if err := decode(res.Data, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost returns nil when the post is missing or not the caller's.
func (c *Client) UpdatePost(ctx context.Context, id int, title string) (*Post, error) {
	res, err := c.mutate(ctx, "updatePost", updatePostMutation, map[string]any{"id": id, "title": title})
	if err != nil {
		return nil, err
	}
	if res.Data == nil {
		return nil, nil
	}
	var post Post
	if err := decode(res.Data, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) DeletePost(ctx context.Context, id int) (bool, error) {
	return c.mutateBool(ctx, "deletePost", deletePostMutation, map[string]any{"id": id})
}

// Vote casts value (+1 or -1) on a post. The cached post's points and
// voteStatus are patched when the server reports a change.
func (c *Client) Vote(ctx context.Context, postID, value int) (bool, error) {
	return c.mutateBool(ctx, "vote", voteMutation, map[string]any{"postId": postID, "value": value})
}

func (c *Client) Login(ctx context.Context, usernameOrEmail, password string) (*UserResponse, error) {
	return c.mutateUser(ctx, "login", loginMutation, map[string]any{
		"usernameOrEmail": usernameOrEmail,
		"password":        password,
	})
}

func (c *Client) Register(ctx context.Context, in RegisterInput) (*UserResponse, error) {
	return c.mutateUser(ctx, "register", registerMutation, map[string]any{
		"options": map[string]any{
			"username": in.Username,
			"email":    in.Email,
			"password": in.Password,
		},
	})
}

func (c *Client) Logout(ctx context.Context) (bool, error) {
	return c.mutateBool(ctx, "logout", logoutMutation, nil)
}

func (c *Client) mutate(ctx context.Context, field, query string, vars map[string]any) (*Result, error) {
	return c.Execute(ctx, &Operation{Kind: Mutation, Field: field, Query: query, Variables: vars})
}

func (c *Client) mutateBool(ctx context.Context, field, query string, vars map[string]any) (bool, error) {
	res, err := c.mutate(ctx, field, query, vars)
	if err != nil {
		return false, err
	}
	ok, _ := res.Data.(bool)
	return ok, nil
}

func (c *Client) mutateUser(ctx context.Context, field, query string, vars map[string]any) (*UserResponse, error) {
	res, err := c.mutate(ctx, field, query, vars)
	if err != nil {
		return nil, err
	}
	var out UserResponse
	if err := decode(res.Data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CachedPost reads a post's id, points and voteStatus from the cache
// without touching the network.
func (c *Client) CachedPost(id int) (*Post, bool) {
	data, ok := c.cache.ReadFragment("Post", id, "id", "points", "voteStatus")
	if !ok {
		return nil, false
	}
	var post Post
	if err := decode(data, &post); err != nil {
		return nil, false
	}
	return &post, true
}
