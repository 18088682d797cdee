package graph

import (
	"lireddit/internal/models"
	"lireddit/internal/services"

	"github.com/graphql-go/graphql"
)

// userResponse is the payload of register and login.
type userResponse struct {
	Errors []services.FieldError
	User   *models.User
}

func (s *schemaBuilder) userType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return int(p.Source.(*models.User).ID), nil
				},
			},
			"username": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*models.User).Username, nil
				},
			},
			// only the user themselves can see their email
			"email": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					u := p.Source.(*models.User)
					if viewer := requestFrom(p.Context).UserID; viewer != nil && *viewer == u.ID {
						return u.Email, nil
					}
					return "", nil
				},
			},
			"createdAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return services.Timestamp(p.Source.(*models.User).CreatedAt), nil
				},
			},
			"updatedAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return services.Timestamp(p.Source.(*models.User).UpdatedAt), nil
				},
			},
		},
	})
}

func (s *schemaBuilder) postType(user *graphql.Object) *graphql.Object {
	post := func(p graphql.ResolveParams) *models.Post {
		return p.Source.(*models.Post)
	}

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Post",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return int(post(p).ID), nil
				},
			},
			"title": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return post(p).Title, nil
				},
			},
			"text": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return post(p).Text, nil
				},
			},
			"textSnippet": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return services.Snippet(post(p).Text), nil
				},
			},
			"points": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return post(p).Points, nil
				},
			},
			"voteStatus": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if vs := post(p).VoteStatus; vs != nil {
						return *vs, nil
					}
					return nil, nil
				},
			},
			"creatorId": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return int(post(p).CreatorID), nil
				},
			},
			"creator": &graphql.Field{
				Type: graphql.NewNonNull(user),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return &post(p).Creator, nil
				},
			},
			"createdAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return services.Timestamp(post(p).CreatedAt), nil
				},
			},
			"updatedAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return services.Timestamp(post(p).UpdatedAt), nil
				},
			},
		},
	})
}

func (s *schemaBuilder) paginatedPostsType(post *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "PaginatedPosts",
		Fields: graphql.Fields{
			"posts": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(post))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					page := p.Source.(services.PaginatedPosts)
					out := make([]*models.Post, len(page.Posts))
					for i := range page.Posts {
						out[i] = &page.Posts[i]
					}
					return out, nil
				},
			},
			"hasMore": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(services.PaginatedPosts).HasMore, nil
				},
			},
			"endCursor": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if c := p.Source.(services.PaginatedPosts).EndCursor(); c != "" {
						return c, nil
					}
					return nil, nil
				},
			},
		},
	})
}

func (s *schemaBuilder) userResponseType(user *graphql.Object) *graphql.Object {
	fieldError := graphql.NewObject(graphql.ObjectConfig{
		Name: "FieldError",
		Fields: graphql.Fields{
			"field": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(services.FieldError).Field, nil
				},
			},
			"message": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(services.FieldError).Message, nil
				},
			},
		},
	})

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "UserResponse",
		Fields: graphql.Fields{
			"errors": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(fieldError)),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					errs := p.Source.(*userResponse).Errors
					if len(errs) == 0 {
						return nil, nil
					}
					return errs, nil
				},
			},
			"user": &graphql.Field{
				Type: user,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if u := p.Source.(*userResponse).User; u != nil {
						return u, nil
					}
					return nil, nil
				},
			},
		},
	})
}
