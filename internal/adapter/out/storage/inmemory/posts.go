package inmemory

import (
	"cmp"
	"context"
	"slices"

	"yatube/internal/adapter/out/storage"
	"yatube/internal/model"
	"yatube/internal/service"
)

func (s *Storage) CreatePost(_ context.Context, in model.Post) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in.ID = int64(len(s.posts))
	if in.PubDate.IsZero() {
		in.PubDate = s.now()
	}
	in.Author, in.Group = "", nil
	in.GroupID = clonePtr(in.GroupID)

	s.posts = append(s.posts, in)
	return s.hydrate(in), nil
}

func (s *Storage) GetPostByID(_ context.Context, postID int64) (model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.post(postID)
	if !ok {
		return model.Post{}, service.ErrNotFound
	}
	return s.hydrate(p), nil
}

// UpdatePost writes text and group only.
func (s *Storage) UpdatePost(_ context.Context, in model.Post) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.post(in.ID)
	if !ok {
		return model.Post{}, service.ErrNotFound
	}
	p.Text = in.Text
	p.GroupID = clonePtr(in.GroupID)
	s.posts[p.ID] = p
	return s.hydrate(p), nil
}

func (s *Storage) ListPosts(_ context.Context, params storage.ListPostsParams) ([]model.Post, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	match, ok := s.matcher(params.Filter)
	if !ok {
		return nil, 0, nil
	}

	filtered := make([]model.Post, 0, len(s.posts))
	for _, p := range s.posts[1:] {
		if match(p) {
			filtered = append(filtered, p)
		}
	}
	slices.SortStableFunc(filtered, func(a, b model.Post) int {
		if c := b.PubDate.Compare(a.PubDate); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	total := len(filtered)
	offset := max(params.Offset, 0)
	if offset >= total || params.Limit <= 0 {
		return nil, total, nil
	}
	end := min(offset+params.Limit, total)

	out := make([]model.Post, 0, end-offset)
	for _, p := range filtered[offset:end] {
		out = append(out, s.hydrate(p))
	}
	return out, total, nil
}

// matcher reports false when the filter names a group or user that does not
// exist, so nothing can match.
func (s *Storage) matcher(f model.PostFilter) (func(model.Post) bool, bool) {
	var (
		groupID  int64
		authorID int64
	)
	if f.GroupSlug != "" {
		id, ok := s.groupBySlug[f.GroupSlug]
		if !ok {
			return nil, false
		}
		groupID = id
	}
	if f.Username != "" {
		id, ok := s.userByName[f.Username]
		if !ok {
			return nil, false
		}
		authorID = id
	}

	return func(p model.Post) bool {
		if groupID != 0 && (p.GroupID == nil || *p.GroupID != groupID) {
			return false
		}
		if authorID != 0 && p.AuthorID != authorID {
			return false
		}
		return true
	}, true
}

func (s *Storage) post(id int64) (model.Post, bool) {
	if id <= 0 || id >= int64(len(s.posts)) {
		return model.Post{}, false
	}
	return s.posts[id], true
}

func (s *Storage) hydrate(p model.Post) model.Post {
	if u, ok := s.users[p.AuthorID]; ok {
		p.Author = u.Username
	}
	p.GroupID = clonePtr(p.GroupID)
	if p.GroupID != nil {
		if g, ok := s.groups[*p.GroupID]; ok {
			p.Group = &g
		}
	}
	return p
}

func clonePtr(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
