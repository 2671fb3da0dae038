package service

import (
	"context"
	"errors"
	"testing"

	"yatube/internal/model"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_SignUp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     SignUpRequest
		setup   func(m *MockUserStorage)
		wantErr error
	}{
		{
			name:    "short password",
			req:     SignUpRequest{Username: "leo", Password: "123"},
			setup:   func(_ *MockUserStorage) {},
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "bad username",
			req:     SignUpRequest{Username: "leo tolstoy", Password: "war-and-peace"},
			setup:   func(_ *MockUserStorage) {},
			wantErr: ErrInvalidRequest,
		},
		{
			name: "taken",
			req:  SignUpRequest{Username: "leo", Password: "war-and-peace"},
			setup: func(m *MockUserStorage) {
				m.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(model.User{}, ErrAlreadyExists)
			},
			wantErr: ErrAlreadyExists,
		},
		{
			name: "success stores a bcrypt hash",
			req:  SignUpRequest{Username: "leo", Password: "war-and-peace"},
			setup: func(m *MockUserStorage) {
				m.EXPECT().CreateUser(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, u model.User) (model.User, error) {
						if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte("war-and-peace")); err != nil {
							return model.User{}, errors.New("password was not hashed")
						}
						u.ID = 1
						return u, nil
					},
				)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			m := NewMockUserStorage(ctrl)
			tt.setup(m)

			got, err := NewUserService(m, WithPasswordCost(bcrypt.MinCost)).SignUp(context.Background(), tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, int64(1), got.ID)
			require.Equal(t, "leo", got.Username)
		})
	}
}

func TestUserService_Authenticate(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("war-and-peace"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := model.User{ID: 7, Username: "leo", PasswordHash: hash}

	tests := []struct {
		name     string
		username string
		password string
		setup    func(m *MockUserStorage)
		want     model.Identity
		wantErr  error
	}{
		{
			name:     "unknown user",
			username: "nobody",
			password: "x",
			setup: func(m *MockUserStorage) {
				m.EXPECT().GetUserByUsername(gomock.Any(), "nobody").Return(model.User{}, ErrNotFound)
			},
			wantErr: ErrUnauthenticated,
		},
		{
			name:     "wrong password",
			username: "leo",
			password: "anna-karenina",
			setup: func(m *MockUserStorage) {
				m.EXPECT().GetUserByUsername(gomock.Any(), "leo").Return(stored, nil)
			},
			wantErr: ErrUnauthenticated,
		},
		{
			name:     "ok",
			username: "leo",
			password: "war-and-peace",
			setup: func(m *MockUserStorage) {
				m.EXPECT().GetUserByUsername(gomock.Any(), "leo").Return(stored, nil)
			},
			want: model.Identity{UserID: 7, Username: "leo"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			m := NewMockUserStorage(ctrl)
			tt.setup(m)

			got, err := NewUserService(m).Authenticate(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.False(t, got.Authenticated())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestUserService_Resolve(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	m := NewMockUserStorage(ctrl)
	m.EXPECT().GetUserByID(gomock.Any(), int64(7)).Return(model.User{ID: 7, Username: "leo"}, nil)
	m.EXPECT().GetUserByID(gomock.Any(), int64(9)).Return(model.User{}, ErrNotFound)

	svc := NewUserService(m)

	id, err := svc.Resolve(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "leo", id.Username)

	id, err = svc.Resolve(context.Background(), 9)
	require.NoError(t, err)
	require.False(t, id.Authenticated())

	id, err = svc.Resolve(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, model.Anonymous, id)
}
