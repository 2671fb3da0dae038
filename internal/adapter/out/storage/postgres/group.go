package postgres

import (
	"context"
	"errors"
	"fmt"

	"yatube/internal/model"
	"yatube/internal/service"
	"yatube/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

type GroupStorage struct {
	base
}

func NewGroupStorage(db DB, getter *trmpgx.CtxGetter) *GroupStorage {
	return &GroupStorage{base: base{db: db, getter: getter}}
}

func (s *GroupStorage) CreateGroup(ctx context.Context, in model.Group) (model.Group, error) {
	query, args, err := sq.
		Insert(tableinfo.GroupsTableName).
		Columns(
			tableinfo.GroupTitleColumn,
			tableinfo.GroupSlugColumn,
			tableinfo.GroupDescriptionColumn,
		).
		Values(in.Title, in.Slug, in.Description).
		Suffix("RETURNING " + tableinfo.GroupIDColumn).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Group{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	if err := s.tr(ctx).QueryRow(ctx, query, args...).Scan(&in.ID); err != nil {
		if isUniqueViolation(err) {
			return model.Group{}, fmt.Errorf("group %q: %w", in.Slug, service.ErrAlreadyExists)
		}
		return model.Group{}, fmt.Errorf("exec insert group: %w", err)
	}
	return in, nil
}

func (s *GroupStorage) GetGroupByID(ctx context.Context, groupID int64) (model.Group, error) {
	return s.getGroup(ctx, sq.Eq{tableinfo.GroupIDColumn: groupID})
}

func (s *GroupStorage) GetGroupBySlug(ctx context.Context, slug string) (model.Group, error) {
	return s.getGroup(ctx, sq.Eq{tableinfo.GroupSlugColumn: slug})
}

func (s *GroupStorage) getGroup(ctx context.Context, where sq.Eq) (model.Group, error) {
	query, args, err := selectGroups().Where(where).ToSql()
	if err != nil {
		return model.Group{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var g model.Group
	if err := s.tr(ctx).QueryRow(ctx, query, args...).Scan(
		&g.ID,
		&g.Title,
		&g.Slug,
		&g.Description,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Group{}, service.ErrNotFound
		}
		return model.Group{}, fmt.Errorf("exec select group: %w", err)
	}
	return g, nil
}

func (s *GroupStorage) ListGroups(ctx context.Context) ([]model.Group, error) {
	query, args, err := selectGroups().
		OrderBy(tableinfo.GroupTitleColumn, tableinfo.GroupIDColumn).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	rows, err := s.tr(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec select groups: %w", err)
	}
	defer rows.Close()

	var out []model.Group
	for rows.Next() {
		var g model.Group
		if err := rows.Scan(&g.ID, &g.Title, &g.Slug, &g.Description); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

// DeleteGroup relies on the ON DELETE SET NULL constraint to detach posts.
func (s *GroupStorage) DeleteGroup(ctx context.Context, groupID int64) error {
	query, args, err := sq.
		Delete(tableinfo.GroupsTableName).
		Where(sq.Eq{tableinfo.GroupIDColumn: groupID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tag, err := s.tr(ctx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec delete group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

func selectGroups() sq.SelectBuilder {
	return sq.
		Select(
			tableinfo.GroupIDColumn,
			tableinfo.GroupTitleColumn,
			tableinfo.GroupSlugColumn,
			tableinfo.GroupDescriptionColumn,
		).
		From(tableinfo.GroupsTableName).
		PlaceholderFormat(sq.Dollar)
}
