package graphql

import (
	"time"

	"github.com/graphql-go/graphql"
)

var DateTime = graphql.NewScalar(
	graphql.ScalarConfig{
		Name:        "DateTime",
		Description: "RFC 3339 timestamp",
		Serialize: func(value any) any {
			switch v := value.(type) {
			case time.Time:
				return v.Format(time.RFC3339)
			case *time.Time:
				if v == nil {
					return nil
				}
				return v.Format(time.RFC3339)
			default:
				return nil
			}
		},
	},
)

func NewSchema(r *Resolver) (graphql.Schema, error) {
	groupType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "Group",
			Fields: graphql.Fields{
				"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
				"title":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"slug":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"description": &graphql.Field{Type: graphql.String},
			},
		},
	)

	postType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "Post",
			Fields: graphql.Fields{
				"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
				"text":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"pubDate":  &graphql.Field{Type: DateTime},
				"authorId": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
				"author":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
				"group":    &graphql.Field{Type: groupType},
			},
		},
	)

	postPageType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "PostPage",
			Fields: graphql.Fields{
				"items":       &graphql.Field{Type: graphql.NewList(postType)},
				"number":      &graphql.Field{Type: graphql.Int},
				"numPages":    &graphql.Field{Type: graphql.Int},
				"total":       &graphql.Field{Type: graphql.Int},
				"hasNext":     &graphql.Field{Type: graphql.Boolean},
				"hasPrevious": &graphql.Field{Type: graphql.Boolean},
			},
		},
	)

	queryType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "Query",
			Fields: graphql.Fields{
				"posts": &graphql.Field{
					Type: postPageType,
					Args: graphql.FieldConfigArgument{
						"group":  &graphql.ArgumentConfig{Type: graphql.String},
						"author": &graphql.ArgumentConfig{Type: graphql.String},
						"page":   &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					},
					Resolve: r.posts,
				},
				"post": &graphql.Field{
					Type: postType,
					Args: graphql.FieldConfigArgument{
						"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					},
					Resolve: r.post,
				},
				"groups": &graphql.Field{
					Type:    graphql.NewList(groupType),
					Resolve: r.groups,
				},
				"group": &graphql.Field{
					Type: groupType,
					Args: graphql.FieldConfigArgument{
						"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					},
					Resolve: r.group,
				},
			},
		},
	)

	mutationType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "Mutation",
			Fields: graphql.Fields{
				"createPost": &graphql.Field{
					Type: postType,
					Args: graphql.FieldConfigArgument{
						"text":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
						"groupId": &graphql.ArgumentConfig{Type: graphql.ID},
					},
					Resolve: r.createPost,
				},
				"editPost": &graphql.Field{
					Type: postType,
					Args: graphql.FieldConfigArgument{
						"id":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
						"text":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
						"groupId": &graphql.ArgumentConfig{Type: graphql.ID},
					},
					Resolve: r.editPost,
				},
			},
		},
	)

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}
