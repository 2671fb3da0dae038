package graphql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"yatube/internal/adapter/in/auth"
	"yatube/internal/model"
	"yatube/internal/service"
	"yatube/pkg/pagination"

	"github.com/graphql-go/graphql"
)

type PostService interface {
	CreatePost(ctx context.Context, id model.Identity, req service.CreatePostRequest) (model.Post, error)
	EditPost(ctx context.Context, id model.Identity, postID int64, req service.EditPostRequest) (model.Post, error)
	GetPost(ctx context.Context, postID int64) (model.Post, error)
	ListPosts(ctx context.Context, filter model.PostFilter, page int) (pagination.Page[model.Post], error)
}

type GroupService interface {
	GetGroupBySlug(ctx context.Context, slug string) (model.Group, error)
	ListGroups(ctx context.Context) ([]model.Group, error)
}

type Resolver struct {
	postService  PostService
	groupService GroupService
}

func NewResolver(postService PostService, groupService GroupService) *Resolver {
	return &Resolver{
		postService:  postService,
		groupService: groupService,
	}
}

func (r *Resolver) posts(p graphql.ResolveParams) (any, error) {
	filter := model.PostFilter{
		GroupSlug: stringArg(p.Args, "group"),
		Username:  stringArg(p.Args, "author"),
	}
	page, _ := p.Args["page"].(int)

	out, err := r.postService.ListPosts(p.Context, filter, page)
	if err != nil {
		return nil, err
	}
	return toPostPage(out), nil
}

// post resolves to null for unknown ids.
func (r *Resolver) post(p graphql.ResolveParams) (any, error) {
	id, err := idArg(p.Args, "id")
	if err != nil {
		return nil, err
	}

	post, err := r.postService.GetPost(p.Context, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toPostNode(post), nil
}

func (r *Resolver) groups(p graphql.ResolveParams) (any, error) {
	groups, err := r.groupService.ListGroups(p.Context)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(groups))
	for _, g := range groups {
		out = append(out, toGroupNode(g))
	}
	return out, nil
}

func (r *Resolver) group(p graphql.ResolveParams) (any, error) {
	g, err := r.groupService.GetGroupBySlug(p.Context, stringArg(p.Args, "slug"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toGroupNode(g), nil
}

func (r *Resolver) createPost(p graphql.ResolveParams) (any, error) {
	groupID, err := optionalIDArg(p.Args, "groupId")
	if err != nil {
		return nil, err
	}

	post, err := r.postService.CreatePost(p.Context, auth.FromContext(p.Context), service.CreatePostRequest{
		Text:    stringArg(p.Args, "text"),
		GroupID: groupID,
	})
	if err != nil {
		return nil, err
	}
	return toPostNode(post), nil
}

func (r *Resolver) editPost(p graphql.ResolveParams) (any, error) {
	id, err := idArg(p.Args, "id")
	if err != nil {
		return nil, err
	}
	groupID, err := optionalIDArg(p.Args, "groupId")
	if err != nil {
		return nil, err
	}

	post, err := r.postService.EditPost(p.Context, auth.FromContext(p.Context), id, service.EditPostRequest{
		Text:    stringArg(p.Args, "text"),
		GroupID: groupID,
	})
	if err != nil {
		return nil, err
	}
	return toPostNode(post), nil
}

func stringArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}

func idArg(args map[string]any, name string) (int64, error) {
	id, err := strconv.ParseInt(stringArg(args, name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad %s", service.ErrInvalidRequest, name)
	}
	return id, nil
}

func optionalIDArg(args map[string]any, name string) (*int64, error) {
	if stringArg(args, name) == "" {
		return nil, nil
	}
	id, err := idArg(args, name)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
