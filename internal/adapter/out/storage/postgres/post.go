package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yatube/internal/adapter/out/storage"
	"yatube/internal/model"
	"yatube/internal/service"
	"yatube/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
)

var (
	postID       = tableinfo.Qualified(tableinfo.PostsTableName, tableinfo.PostIDColumn)
	postText     = tableinfo.Qualified(tableinfo.PostsTableName, tableinfo.PostTextColumn)
	postPubDate  = tableinfo.Qualified(tableinfo.PostsTableName, tableinfo.PostPubDateColumn)
	postAuthorID = tableinfo.Qualified(tableinfo.PostsTableName, tableinfo.PostAuthorIDColumn)
	postGroupID  = tableinfo.Qualified(tableinfo.PostsTableName, tableinfo.PostGroupIDColumn)

	joinedUsername    = tableinfo.Qualified(tableinfo.UsersTableName, tableinfo.UserUsernameColumn)
	joinedGroupTitle  = tableinfo.Qualified(tableinfo.GroupsTableName, tableinfo.GroupTitleColumn)
	joinedGroupSlug   = tableinfo.Qualified(tableinfo.GroupsTableName, tableinfo.GroupSlugColumn)
	joinedGroupDescr  = tableinfo.Qualified(tableinfo.GroupsTableName, tableinfo.GroupDescriptionColumn)
	joinUsersOnAuthor = fmt.Sprintf("%s ON %s = %s",
		tableinfo.UsersTableName,
		tableinfo.Qualified(tableinfo.UsersTableName, tableinfo.UserIDColumn),
		postAuthorID,
	)
	joinGroupsOnGroup = fmt.Sprintf("%s ON %s = %s",
		tableinfo.GroupsTableName,
		tableinfo.Qualified(tableinfo.GroupsTableName, tableinfo.GroupIDColumn),
		postGroupID,
	)
)

type PostStorage struct {
	base
}

func NewPostStorage(db DB, getter *trmpgx.CtxGetter) *PostStorage {
	return &PostStorage{base: base{db: db, getter: getter}}
}

type createPostRow struct {
	Text     string `validate:"required"`
	AuthorID int64  `validate:"required,gt=0"`
	GroupID  *int64
}

// CreatePost inserts a post. pub_date is assigned by the database.
func (s *PostStorage) CreatePost(ctx context.Context, in model.Post) (model.Post, error) {
	row := createPostRow{Text: in.Text, AuthorID: in.AuthorID, GroupID: in.GroupID}
	if err := validator.New().Struct(row); err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", service.ErrInvalidRequest, err)
	}

	query, args, err := sq.
		Insert(tableinfo.PostsTableName).
		Columns(
			tableinfo.PostTextColumn,
			tableinfo.PostAuthorIDColumn,
			tableinfo.PostGroupIDColumn,
		).
		Values(row.Text, row.AuthorID, row.GroupID).
		Suffix("RETURNING " + tableinfo.PostIDColumn).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var id int64
	if err := s.tr(ctx).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return model.Post{}, fmt.Errorf("exec error creating post: %w", err)
	}

	return s.GetPostByID(ctx, id)
}

func (s *PostStorage) GetPostByID(ctx context.Context, id int64) (model.Post, error) {
	query, args, err := selectPosts().
		Where(sq.Eq{postID: id}).
		ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	out, err := scanPost(s.tr(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, service.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("exec select post by id: %w", err)
	}
	return out, nil
}

// UpdatePost writes text and group only.
func (s *PostStorage) UpdatePost(ctx context.Context, in model.Post) (model.Post, error) {
	query, args, err := sq.
		Update(tableinfo.PostsTableName).
		Set(tableinfo.PostTextColumn, in.Text).
		Set(tableinfo.PostGroupIDColumn, in.GroupID).
		Where(sq.Eq{tableinfo.PostIDColumn: in.ID}).
		Suffix("RETURNING " + tableinfo.PostIDColumn).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var id int64
	if err := s.tr(ctx).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, service.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("exec update post: %w", err)
	}

	return s.GetPostByID(ctx, id)
}

func (s *PostStorage) ListPosts(ctx context.Context, params storage.ListPostsParams) ([]model.Post, int, error) {
	countQuery, countArgs, err := countPostsQueryBuilder(params.Filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.tr(ctx)

	var total int
	if err := tr.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("exec count posts: %w", err)
	}
	if total == 0 || params.Limit <= 0 || params.Offset >= total {
		return nil, total, nil
	}

	query, args, err := listPostsQueryBuilder(params).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	rows, err := tr.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("exec error selecting posts: %w", err)
	}
	defer rows.Close()

	out := make([]model.Post, 0, params.Limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan error: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	return out, total, nil
}

func listPostsQueryBuilder(params storage.ListPostsParams) sq.SelectBuilder {
	return filterPosts(selectPosts(), params.Filter).
		OrderBy(postPubDate+" DESC", postID+" DESC").
		Limit(uint64(params.Limit)).
		Offset(uint64(max(params.Offset, 0)))
}

func countPostsQueryBuilder(f model.PostFilter) sq.SelectBuilder {
	return filterPosts(
		sq.Select("COUNT(*)").
			From(tableinfo.PostsTableName).
			Join(joinUsersOnAuthor).
			LeftJoin(joinGroupsOnGroup).
			PlaceholderFormat(sq.Dollar),
		f,
	)
}

func selectPosts() sq.SelectBuilder {
	return sq.
		Select(
			postID,
			postText,
			postPubDate,
			postAuthorID,
			joinedUsername,
			postGroupID,
			joinedGroupTitle,
			joinedGroupSlug,
			joinedGroupDescr,
		).
		From(tableinfo.PostsTableName).
		Join(joinUsersOnAuthor).
		LeftJoin(joinGroupsOnGroup).
		PlaceholderFormat(sq.Dollar)
}

func filterPosts(b sq.SelectBuilder, f model.PostFilter) sq.SelectBuilder {
	if f.GroupSlug != "" {
		b = b.Where(sq.Eq{joinedGroupSlug: f.GroupSlug})
	}
	if f.Username != "" {
		b = b.Where(sq.Eq{joinedUsername: f.Username})
	}
	return b
}

func scanPost(row pgx.Row) (model.Post, error) {
	var (
		p       model.Post
		pubDate time.Time
		groupID *int64
		title   *string
		slug    *string
		descr   *string
	)
	if err := row.Scan(
		&p.ID,
		&p.Text,
		&pubDate,
		&p.AuthorID,
		&p.Author,
		&groupID,
		&title,
		&slug,
		&descr,
	); err != nil {
		return model.Post{}, err
	}

	p.PubDate = pubDate
	if groupID != nil {
		p.GroupID = groupID
		p.Group = &model.Group{
			ID:          *groupID,
			Title:       deref(title),
			Slug:        deref(slug),
			Description: deref(descr),
		}
	}
	return p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
