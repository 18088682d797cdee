package graph

import (
	"context"
	"errors"
	"log"

	"lireddit/internal/middleware"
	"lireddit/internal/models"
	"lireddit/internal/services"

	"github.com/graphql-go/graphql"
)

// errNotAuthenticated is the exact message clients match on to send the
// user to the login page.
var errNotAuthenticated = errors.New("not authenticated")

// Resolver holds the services the schema resolves against.
type Resolver struct {
	Feed     *services.FeedService
	Posts    *services.PostService
	Votes    *services.VoteService
	Accounts *services.AccountService
}

type schemaBuilder struct {
	r *Resolver
}

// NewSchema builds the executable schema over r.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	s := &schemaBuilder{r: r}

	user := s.userType()
	post := s.postType(user)
	page := s.paginatedPostsType(post)
	userResponse := s.userResponseType(user)

	postInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "PostInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"text":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})
	registerInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UsernamePasswordInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"username": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"posts": &graphql.Field{
				Type: graphql.NewNonNull(page),
				Args: graphql.FieldConfigArgument{
					"limit":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"cursor": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: s.posts,
			},
			"post": &graphql.Field{
				Type: post,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: s.post,
			},
			"me": &graphql.Field{
				Type:    user,
				Resolve: s.me,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createPost": &graphql.Field{
				Type: graphql.NewNonNull(post),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(postInput)},
				},
				Resolve: s.createPost,
			},
			"updatePost": &graphql.Field{
				Type: post,
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"title": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: s.updatePost,
			},
			"deletePost": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: s.deletePost,
			},
			"vote": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"postId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"value":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: s.vote,
			},
			"register": &graphql.Field{
				Type: graphql.NewNonNull(userResponse),
				Args: graphql.FieldConfigArgument{
					"options": &graphql.ArgumentConfig{Type: graphql.NewNonNull(registerInput)},
				},
				Resolve: s.register,
			},
			"login": &graphql.Field{
				Type: graphql.NewNonNull(userResponse),
				Args: graphql.FieldConfigArgument{
					"usernameOrEmail": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: s.login,
			},
			"logout": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Boolean),
				Resolve: s.logout,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

// requireUser is the isAuth guard.
func requireUser(ctx context.Context) (uint, error) {
	rc := requestFrom(ctx)
	if rc.UserID == nil {
		return 0, errNotAuthenticated
	}
	return *rc.UserID, nil
}

func idArg(p graphql.ResolveParams, name string) uint {
	id, _ := p.Args[name].(int)
	if id < 0 {
		return 0
	}
	return uint(id)
}

func (s *schemaBuilder) posts(p graphql.ResolveParams) (interface{}, error) {
	limit, _ := p.Args["limit"].(int)
	cursor, _ := p.Args["cursor"].(string)
	return s.r.Feed.ListPosts(p.Context, limit, cursor, requestFrom(p.Context).UserID)
}

func (s *schemaBuilder) post(p graphql.ResolveParams) (interface{}, error) {
	post, err := s.r.Posts.Get(p.Context, idArg(p, "id"), requestFrom(p.Context).UserID)
	if errors.Is(err, services.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *schemaBuilder) me(p graphql.ResolveParams) (interface{}, error) {
	rc := requestFrom(p.Context)
	if rc.UserID == nil {
		return nil, nil
	}
	user, err := s.r.Accounts.Me(p.Context, *rc.UserID)
	if errors.Is(err, services.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *schemaBuilder) createPost(p graphql.ResolveParams) (interface{}, error) {
	userID, err := requireUser(p.Context)
	if err != nil {
		return nil, err
	}
	input, _ := p.Args["input"].(map[string]interface{})
	title, _ := input["title"].(string)
	text, _ := input["text"].(string)

	post, err := s.r.Posts.Create(p.Context, userID, title, text)
	if errors.Is(err, services.ErrNotAuthenticated) {
		return nil, errNotAuthenticated
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *schemaBuilder) updatePost(p graphql.ResolveParams) (interface{}, error) {
	userID, err := requireUser(p.Context)
	if err != nil {
		return nil, err
	}
	var title *string
	if t, ok := p.Args["title"].(string); ok {
		title = &t
	}

	post, err := s.r.Posts.Update(p.Context, idArg(p, "id"), userID, title)
	if errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrForbidden) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, nil
	}
	return post, nil
}

func (s *schemaBuilder) deletePost(p graphql.ResolveParams) (interface{}, error) {
	userID, err := requireUser(p.Context)
	if err != nil {
		return nil, err
	}
	ok, err := s.r.Posts.Delete(p.Context, idArg(p, "id"), userID)
	if errors.Is(err, services.ErrForbidden) {
		return false, nil
	}
	if err != nil {
		return nil, err
	}
	return ok, nil
}

func (s *schemaBuilder) vote(p graphql.ResolveParams) (interface{}, error) {
	userID, err := requireUser(p.Context)
	if err != nil {
		return nil, err
	}
	value, _ := p.Args["value"].(int)

	ok, err := s.r.Votes.CastVote(p.Context, userID, idArg(p, "postId"), value)
	if errors.Is(err, services.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		log.Printf("[vote] user=%d: %v", userID, err)
		return nil, err
	}
	return ok, nil
}

func (s *schemaBuilder) register(p graphql.ResolveParams) (interface{}, error) {
	options, _ := p.Args["options"].(map[string]interface{})
	in := services.RegisterInput{}
	in.Username, _ = options["username"].(string)
	in.Email, _ = options["email"].(string)
	in.Password, _ = options["password"].(string)

	user, fieldErrs, err := s.r.Accounts.Register(p.Context, in)
	if err != nil {
		return nil, err
	}
	if len(fieldErrs) > 0 {
		return &userResponse{Errors: fieldErrs}, nil
	}
	if err := s.startSession(p.Context, user); err != nil {
		return nil, err
	}
	return &userResponse{User: user}, nil
}

func (s *schemaBuilder) login(p graphql.ResolveParams) (interface{}, error) {
	usernameOrEmail, _ := p.Args["usernameOrEmail"].(string)
	password, _ := p.Args["password"].(string)

	user, fieldErrs, err := s.r.Accounts.Login(p.Context, usernameOrEmail, password)
	if err != nil {
		return nil, err
	}
	if len(fieldErrs) > 0 {
		return &userResponse{Errors: fieldErrs}, nil
	}
	if err := s.startSession(p.Context, user); err != nil {
		return nil, err
	}
	return &userResponse{User: user}, nil
}

func (s *schemaBuilder) logout(p graphql.ResolveParams) (interface{}, error) {
	rc := requestFrom(p.Context)
	rc.UserID = nil
	if rc.Session == nil {
		return true, nil
	}
	rc.Session.Clear()
	rc.Session.Options(sessionExpired)
	if err := rc.Session.Save(); err != nil {
		log.Printf("[auth] logout: %v", err)
		return false, nil
	}
	return true, nil
}

// startSession stores the user in the session and marks the rest of the
// request as theirs, so fields like email resolve in the same response.
func (s *schemaBuilder) startSession(ctx context.Context, user *models.User) error {
	rc := requestFrom(ctx)
	id := user.ID
	rc.UserID = &id
	if rc.Session == nil {
		return nil
	}
	rc.Session.Set(middleware.SessionUserKey, user.ID)
	return rc.Session.Save()
}
