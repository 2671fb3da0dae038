package service

import (
	"context"
	"fmt"
	"strings"

	"yatube/internal/model"
	"yatube/pkg/logger"
)

type GroupService struct {
	groupStorage GroupStorage
	txManager    TxManager
}

func NewGroupService(groupStorage GroupStorage, txManager TxManager) *GroupService {
	if txManager == nil {
		txManager = NopTxManager{}
	}
	return &GroupService{
		groupStorage: groupStorage,
		txManager:    txManager,
	}
}

func (s *GroupService) CreateGroup(ctx context.Context, req CreateGroupRequest) (model.Group, error) {
	req.Slug = strings.TrimSpace(req.Slug)
	if err := validateRequest(req); err != nil {
		return model.Group{}, err
	}

	g, err := s.groupStorage.CreateGroup(ctx, model.Group{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		return model.Group{}, err
	}

	logger.FromContext(ctx).Info("group created", "group_id", g.ID, "slug", g.Slug)
	return g, nil
}

func (s *GroupService) GetGroupBySlug(ctx context.Context, slug string) (model.Group, error) {
	if slug == "" {
		return model.Group{}, fmt.Errorf("empty slug: %w", ErrNotFound)
	}
	return s.groupStorage.GetGroupBySlug(ctx, slug)
}

func (s *GroupService) ListGroups(ctx context.Context) ([]model.Group, error) {
	return s.groupStorage.ListGroups(ctx)
}

// DeleteGroup removes a group. Its posts stay, detached from any group.
func (s *GroupService) DeleteGroup(ctx context.Context, slug string) error {
	return s.txManager.Do(ctx, func(ctx context.Context) error {
		g, err := s.GetGroupBySlug(ctx, slug)
		if err != nil {
			return err
		}
		if err := s.groupStorage.DeleteGroup(ctx, g.ID); err != nil {
			return err
		}
		logger.FromContext(ctx).Info("group deleted", "group_id", g.ID, "slug", g.Slug)
		return nil
	})
}
