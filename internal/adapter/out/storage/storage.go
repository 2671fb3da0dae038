package storage

import "yatube/internal/model"

type ListPostsParams struct {
	Filter model.PostFilter
	Offset int
	Limit  int
}
