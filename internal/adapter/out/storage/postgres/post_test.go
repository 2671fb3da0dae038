package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"yatube/internal/adapter/out/storage"
	"yatube/internal/model"
	"yatube/internal/service"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

var postColumns = []string{
	"id", "text", "pub_date", "author_id", "username",
	"group_id", "title", "slug", "description",
}

func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func Test_listPostsQueryBuilder(t *testing.T) {
	tests := []struct {
		name      string
		params    storage.ListPostsParams
		wantParts []string
		wantArgs  []any
	}{
		{
			name:   "all posts",
			params: storage.ListPostsParams{Offset: 10, Limit: 10},
			wantParts: []string{
				"FROM posts JOIN users ON users.id = posts.author_id",
				"LEFT JOIN post_groups ON post_groups.id = posts.group_id",
				"ORDER BY posts.pub_date DESC, posts.id DESC",
				"LIMIT 10 OFFSET 10",
			},
		},
		{
			name:      "by group",
			params:    storage.ListPostsParams{Filter: model.PostFilter{GroupSlug: "cats"}, Limit: 10},
			wantParts: []string{"WHERE post_groups.slug = $1", "LIMIT 10 OFFSET 0"},
			wantArgs:  []any{"cats"},
		},
		{
			name:      "by author and group",
			params:    storage.ListPostsParams{Filter: model.PostFilter{GroupSlug: "cats", Username: "leo"}, Limit: 5},
			wantParts: []string{"post_groups.slug = $1", "users.username = $2"},
			wantArgs:  []any{"cats", "leo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := listPostsQueryBuilder(tt.params).ToSql()
			require.NoError(t, err)
			for _, part := range tt.wantParts {
				require.Contains(t, sql, part)
			}
			require.Equal(t, len(tt.wantArgs), len(args))
			for i := range tt.wantArgs {
				require.Equal(t, tt.wantArgs[i], args[i])
			}

			countSQL, countArgs, err := countPostsQueryBuilder(tt.params.Filter).ToSql()
			require.NoError(t, err)
			require.Contains(t, countSQL, "SELECT COUNT(*) FROM posts")
			require.NotContains(t, countSQL, "LIMIT")
			require.Equal(t, len(args), len(countArgs))
		})
	}
}

func TestPostStorage_CreatePost(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		input model.Post
		setup func(m pgxmock.PgxPoolIface)
		check func(t *testing.T, got model.Post, err error)
	}{
		{
			name:  "success",
			input: model.Post{Text: "hello", AuthorID: 4, GroupID: int64Ptr(2)},
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("INSERT INTO posts").
					WithArgs("hello", int64(4), pgxmock.AnyArg()).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
				m.ExpectQuery("SELECT (.+) FROM posts").
					WithArgs(int64(1)).
					WillReturnRows(pgxmock.NewRows(postColumns).AddRow(
						int64(1), "hello", now, int64(4), "leo",
						int64Ptr(2), strPtr("Cats"), strPtr("cats"), strPtr("d"),
					))
			},
			check: func(t *testing.T, got model.Post, err error) {
				require.NoError(t, err)
				require.Equal(t, int64(1), got.ID)
				require.Equal(t, "hello", got.Text)
				require.Equal(t, "leo", got.Author)
				require.Equal(t, int64(2), *got.GroupID)
				require.Equal(t, "cats", got.Group.Slug)
				require.WithinDuration(t, now, got.PubDate, time.Second)
			},
		},
		{
			name:  "validation error",
			input: model.Post{AuthorID: 4},
			setup: func(_ pgxmock.PgxPoolIface) {},
			check: func(t *testing.T, _ model.Post, err error) {
				require.ErrorIs(t, err, service.ErrInvalidRequest)
			},
		},
		{
			name:  "db error",
			input: model.Post{Text: "bad", AuthorID: 1},
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("INSERT INTO posts").
					WithArgs("bad", int64(1), pgxmock.AnyArg()).
					WillReturnError(errors.New("db down"))
			},
			check: func(t *testing.T, _ model.Post, err error) {
				require.Error(t, err)
				require.Contains(t, err.Error(), "exec error creating post")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMock(t)
			tt.setup(m)

			st := NewPostStorage(m, trmpgx.DefaultCtxGetter)
			got, err := st.CreatePost(context.Background(), tt.input)
			tt.check(t, got, err)
		})
	}
}

func TestPostStorage_GetPostByID(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		id    int64
		setup func(m pgxmock.PgxPoolIface)
		check func(t *testing.T, got model.Post, err error)
	}{
		{
			name: "without group",
			id:   3,
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("SELECT (.+) FROM posts").
					WithArgs(int64(3)).
					WillReturnRows(pgxmock.NewRows(postColumns).AddRow(
						int64(3), "t", now, int64(4), "leo",
						(*int64)(nil), (*string)(nil), (*string)(nil), (*string)(nil),
					))
			},
			check: func(t *testing.T, got model.Post, err error) {
				require.NoError(t, err)
				require.Nil(t, got.GroupID)
				require.Nil(t, got.Group)
			},
		},
		{
			name: "not found",
			id:   404,
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("SELECT (.+) FROM posts").
					WithArgs(int64(404)).
					WillReturnError(pgx.ErrNoRows)
			},
			check: func(t *testing.T, _ model.Post, err error) {
				require.ErrorIs(t, err, service.ErrNotFound)
			},
		},
		{
			name: "db error",
			id:   500,
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("SELECT (.+) FROM posts").
					WithArgs(int64(500)).
					WillReturnError(errors.New("db down"))
			},
			check: func(t *testing.T, _ model.Post, err error) {
				require.Error(t, err)
				require.Contains(t, err.Error(), "exec select post by id")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMock(t)
			tt.setup(m)

			got, err := NewPostStorage(m, trmpgx.DefaultCtxGetter).GetPostByID(context.Background(), tt.id)
			tt.check(t, got, err)
		})
	}
}

func TestPostStorage_UpdatePost(t *testing.T) {
	now := time.Now()

	t.Run("success", func(t *testing.T) {
		m := newMock(t)
		m.ExpectQuery("UPDATE posts SET text = \\$1, group_id = \\$2 WHERE id = \\$3").
			WithArgs("new", pgxmock.AnyArg(), int64(5)).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(5)))
		m.ExpectQuery("SELECT (.+) FROM posts").
			WithArgs(int64(5)).
			WillReturnRows(pgxmock.NewRows(postColumns).AddRow(
				int64(5), "new", now, int64(4), "leo",
				(*int64)(nil), (*string)(nil), (*string)(nil), (*string)(nil),
			))

		got, err := NewPostStorage(m, trmpgx.DefaultCtxGetter).UpdatePost(context.Background(), model.Post{ID: 5, Text: "new"})
		require.NoError(t, err)
		require.Equal(t, "new", got.Text)
		require.Equal(t, int64(4), got.AuthorID)
	})

	t.Run("not found", func(t *testing.T) {
		m := newMock(t)
		m.ExpectQuery("UPDATE posts").
			WithArgs("new", pgxmock.AnyArg(), int64(404)).
			WillReturnError(pgx.ErrNoRows)

		_, err := NewPostStorage(m, trmpgx.DefaultCtxGetter).UpdatePost(context.Background(), model.Post{ID: 404, Text: "new"})
		require.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestPostStorage_ListPosts(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		params    storage.ListPostsParams
		setup     func(m pgxmock.PgxPoolIface)
		wantIDs   []int64
		wantTotal int
		wantErr   string
	}{
		{
			name:   "page of posts",
			params: storage.ListPostsParams{Filter: model.PostFilter{GroupSlug: "cats"}, Offset: 10, Limit: 10},
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("SELECT COUNT\\(\\*\\) FROM posts").
					WithArgs("cats").
					WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(13))
				m.ExpectQuery("ORDER BY posts.pub_date DESC, posts.id DESC LIMIT 10 OFFSET 10").
					WithArgs("cats").
					WillReturnRows(pgxmock.NewRows(postColumns).
						AddRow(int64(3), "c", now, int64(1), "leo", int64Ptr(1), strPtr("Cats"), strPtr("cats"), strPtr("d")).
						AddRow(int64(2), "b", now.Add(-time.Minute), int64(1), "leo", int64Ptr(1), strPtr("Cats"), strPtr("cats"), strPtr("d")).
						AddRow(int64(1), "a", now.Add(-2*time.Minute), int64(1), "leo", int64Ptr(1), strPtr("Cats"), strPtr("cats"), strPtr("d")))
			},
			wantIDs:   []int64{3, 2, 1},
			wantTotal: 13,
		},
		{
			name:   "offset past the end skips the page query",
			params: storage.ListPostsParams{Offset: 20, Limit: 10},
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("SELECT COUNT\\(\\*\\) FROM posts").
					WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(13))
			},
			wantTotal: 13,
		},
		{
			name:   "unknown user",
			params: storage.ListPostsParams{Filter: model.PostFilter{Username: "nobody"}, Limit: 10},
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("SELECT COUNT\\(\\*\\) FROM posts").
					WithArgs("nobody").
					WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
			},
		},
		{
			name:   "count error",
			params: storage.ListPostsParams{Limit: 10},
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("SELECT COUNT\\(\\*\\) FROM posts").
					WillReturnError(errors.New("boom"))
			},
			wantErr: "exec count posts",
		},
		{
			name:   "query error",
			params: storage.ListPostsParams{Limit: 10},
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery("SELECT COUNT\\(\\*\\) FROM posts").
					WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
				m.ExpectQuery("ORDER BY").
					WillReturnError(errors.New("boom"))
			},
			wantErr: "exec error selecting posts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMock(t)
			tt.setup(m)

			got, total, err := NewPostStorage(m, trmpgx.DefaultCtxGetter).ListPosts(context.Background(), tt.params)
			if tt.wantErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.wantErr)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantTotal, total)
			require.Equal(t, len(tt.wantIDs), len(got))
			for i, id := range tt.wantIDs {
				require.Equal(t, id, got[i].ID)
				require.Equal(t, "cats", got[i].Group.Slug)
			}
		})
	}
}
