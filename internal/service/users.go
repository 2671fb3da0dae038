package service

import (
	"context"
	"errors"
	"fmt"

	"yatube/internal/model"
	"yatube/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userStorage UserStorage
	cost        int
}

type UserServiceOption func(*UserService)

// WithPasswordCost sets the bcrypt cost used for new passwords.
func WithPasswordCost(cost int) UserServiceOption {
	return func(s *UserService) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.cost = cost
		}
	}
}

func NewUserService(userStorage UserStorage, opts ...UserServiceOption) *UserService {
	s := &UserService{
		userStorage: userStorage,
		cost:        bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *UserService) SignUp(ctx context.Context, req SignUpRequest) (model.User, error) {
	if err := validateRequest(req); err != nil {
		return model.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return model.User{}, fmt.Errorf("%w: hashing password: %v", ErrInternalError, err)
	}

	u, err := s.userStorage.CreateUser(ctx, model.User{
		Username:     req.Username,
		PasswordHash: hash,
	})
	if err != nil {
		return model.User{}, err
	}

	logger.FromContext(ctx).Info("user signed up", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// Authenticate checks credentials. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (model.Identity, error) {
	u, err := s.userStorage.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Anonymous, ErrUnauthenticated
		}
		return model.Anonymous, err
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return model.Anonymous, ErrUnauthenticated
	}
	return u.Identity(), nil
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	if username == "" {
		return model.User{}, fmt.Errorf("empty username: %w", ErrNotFound)
	}
	return s.userStorage.GetUserByUsername(ctx, username)
}

// Resolve turns a stored session user id back into an identity.
// Users that no longer exist resolve to anonymous.
func (s *UserService) Resolve(ctx context.Context, userID int64) (model.Identity, error) {
	if userID <= 0 {
		return model.Anonymous, nil
	}
	u, err := s.userStorage.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Anonymous, nil
		}
		return model.Anonymous, err
	}
	return u.Identity(), nil
}
