package inmemory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"yatube/internal/model"
	"yatube/internal/service"
)

func (s *Storage) CreateGroup(_ context.Context, in model.Group) (model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groupBySlug[in.Slug]; ok {
		return model.Group{}, service.ErrAlreadyExists
	}
	s.lastGroupID++
	in.ID = s.lastGroupID
	s.groups[in.ID] = in
	s.groupBySlug[in.Slug] = in.ID
	return in, nil
}

func (s *Storage) GetGroupByID(_ context.Context, groupID int64) (model.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[groupID]
	if !ok {
		return model.Group{}, service.ErrNotFound
	}
	return g, nil
}

func (s *Storage) GetGroupBySlug(_ context.Context, slug string) (model.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.groupBySlug[slug]
	if !ok {
		return model.Group{}, service.ErrNotFound
	}
	return s.groups[id], nil
}

func (s *Storage) ListGroups(_ context.Context) ([]model.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Group, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, g)
	}
	slices.SortFunc(out, func(a, b model.Group) int {
		if c := strings.Compare(a.Title, b.Title); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// DeleteGroup detaches the group's posts before removing it.
func (s *Storage) DeleteGroup(_ context.Context, groupID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return service.ErrNotFound
	}
	for i := 1; i < len(s.posts); i++ {
		if gid := s.posts[i].GroupID; gid != nil && *gid == groupID {
			s.posts[i].GroupID = nil
		}
	}
	delete(s.groupBySlug, g.Slug)
	delete(s.groups, groupID)
	return nil
}
