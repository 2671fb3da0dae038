package inmemory

import (
	"context"
	"slices"

	"yatube/internal/model"
	"yatube/internal/service"
)

func (s *Storage) CreateUser(_ context.Context, in model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.userByName[in.Username]; ok {
		return model.User{}, service.ErrAlreadyExists
	}
	s.lastUserID++
	in.ID = s.lastUserID
	in.PasswordHash = slices.Clone(in.PasswordHash)
	if in.CreatedAt.IsZero() {
		in.CreatedAt = s.now()
	}
	s.users[in.ID] = in
	s.userByName[in.Username] = in.ID
	return in, nil
}

func (s *Storage) GetUserByID(_ context.Context, userID int64) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return model.User{}, service.ErrNotFound
	}
	return u, nil
}

func (s *Storage) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.userByName[username]
	if !ok {
		return model.User{}, service.ErrNotFound
	}
	return s.users[id], nil
}
