package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"yatube/internal/adapter/out/storage"
	"yatube/internal/model"
	"yatube/pkg/logger"
	"yatube/pkg/pagination"
)

const DefaultPostsOnPage = 10

//go:generate mockgen -source=posts.go -destination=./storage_mock.go -package=service yatube/internal/service PostStorage,GroupStorage,UserStorage
type PostStorage interface {
	CreatePost(ctx context.Context, post model.Post) (model.Post, error)
	GetPostByID(ctx context.Context, postID int64) (model.Post, error)
	UpdatePost(ctx context.Context, post model.Post) (model.Post, error)
	ListPosts(ctx context.Context, params storage.ListPostsParams) ([]model.Post, int, error)
}

type GroupStorage interface {
	CreateGroup(ctx context.Context, group model.Group) (model.Group, error)
	GetGroupByID(ctx context.Context, groupID int64) (model.Group, error)
	GetGroupBySlug(ctx context.Context, slug string) (model.Group, error)
	ListGroups(ctx context.Context) ([]model.Group, error)
	DeleteGroup(ctx context.Context, groupID int64) error
}

type UserStorage interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUserByID(ctx context.Context, userID int64) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
}

type PostService struct {
	postStorage  PostStorage
	groupStorage GroupStorage
	txManager    TxManager
	postsOnPage  int
}

type PostServiceOption func(*PostService)

func WithPostsOnPage(n int) PostServiceOption {
	return func(s *PostService) {
		if n > 0 {
			s.postsOnPage = n
		}
	}
}

func WithTxManager(m TxManager) PostServiceOption {
	return func(s *PostService) {
		if m != nil {
			s.txManager = m
		}
	}
}

func NewPostService(postStorage PostStorage, groupStorage GroupStorage, opts ...PostServiceOption) *PostService {
	s := &PostService{
		postStorage:  postStorage,
		groupStorage: groupStorage,
		txManager:    NopTxManager{},
		postsOnPage:  DefaultPostsOnPage,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PostService) PostsOnPage() int {
	return s.postsOnPage
}

// CreatePost stores a new post authored by id. It is not idempotent:
// submitting the same text twice creates two posts.
func (s *PostService) CreatePost(ctx context.Context, id model.Identity, req CreatePostRequest) (model.Post, error) {
	if !id.Authenticated() {
		return model.Post{}, ErrUnauthenticated
	}
	req.Text = strings.TrimSpace(req.Text)
	if err := validateRequest(req); err != nil {
		return model.Post{}, err
	}

	var out model.Post
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.checkGroup(ctx, req.GroupID); err != nil {
			return err
		}
		s.warnDuplicate(ctx, id, req)

		p, err := s.postStorage.CreatePost(ctx, model.Post{
			Text:     req.Text,
			AuthorID: id.UserID,
			GroupID:  req.GroupID,
		})
		if err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return model.Post{}, err
	}

	logger.FromContext(ctx).Info("post created", "post_id", out.ID, "author_id", out.AuthorID)
	return out, nil
}

// EditPost replaces text and group of a post. When id is not the author the
// stored post is returned unchanged together with ErrForbidden.
func (s *PostService) EditPost(ctx context.Context, id model.Identity, postID int64, req EditPostRequest) (model.Post, error) {
	if postID <= 0 {
		return model.Post{}, fmt.Errorf("postID must be > 0: %w", ErrNotFound)
	}
	req.Text = strings.TrimSpace(req.Text)

	var out model.Post
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		current, err := s.postStorage.GetPostByID(ctx, postID)
		if err != nil {
			return err
		}
		out = current

		if !id.Authenticated() {
			return ErrUnauthenticated
		}
		if !CanEdit(id, current) {
			return fmt.Errorf("%w: not a post author", ErrForbidden)
		}
		if err := validateRequest(req); err != nil {
			return err
		}
		if err := s.checkGroup(ctx, req.GroupID); err != nil {
			return err
		}

		current.Text = req.Text
		current.GroupID = req.GroupID
		updated, err := s.postStorage.UpdatePost(ctx, current)
		if err != nil {
			return err
		}
		out = updated
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Post{}, err
		}
		return out, err
	}

	logger.FromContext(ctx).Info("post edited", "post_id", out.ID, "author_id", out.AuthorID)
	return out, nil
}

func (s *PostService) GetPost(ctx context.Context, postID int64) (model.Post, error) {
	if postID <= 0 {
		return model.Post{}, fmt.Errorf("postID must be > 0: %w", ErrNotFound)
	}
	return s.postStorage.GetPostByID(ctx, postID)
}

// ListPosts returns page number of the posts matching filter, newest first.
// Unknown groups or users and pages past the end give an empty page.
func (s *PostService) ListPosts(ctx context.Context, filter model.PostFilter, page int) (pagination.Page[model.Post], error) {
	offset, limit := pagination.Bounds(page, s.postsOnPage)

	posts, total, err := s.postStorage.ListPosts(ctx, storage.ListPostsParams{
		Filter: filter,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return pagination.Page[model.Post]{}, err
	}
	return pagination.NewPage(posts, total, page, s.postsOnPage), nil
}

func (s *PostService) checkGroup(ctx context.Context, groupID *int64) error {
	if groupID == nil {
		return nil
	}
	if _, err := s.groupStorage.GetGroupByID(ctx, *groupID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: unknown group %d", ErrInvalidRequest, *groupID)
		}
		return err
	}
	return nil
}

func (s *PostService) warnDuplicate(ctx context.Context, id model.Identity, req CreatePostRequest) {
	if id.Username == "" {
		return
	}
	latest, _, err := s.postStorage.ListPosts(ctx, storage.ListPostsParams{
		Filter: model.PostFilter{Username: id.Username},
		Limit:  1,
	})
	if err != nil || len(latest) == 0 {
		return
	}
	if latest[0].Text == req.Text && sameGroup(latest[0].GroupID, req.GroupID) {
		logger.FromContext(ctx).Warn("possible duplicate post submission",
			"author_id", id.UserID, "previous_post_id", latest[0].ID)
	}
}

func sameGroup(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
