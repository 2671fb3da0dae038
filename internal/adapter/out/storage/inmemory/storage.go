package inmemory

import (
	"sync"
	"time"

	"yatube/internal/model"
)

// Storage keeps posts, groups and users in process memory. It implements
// service.PostStorage, service.GroupStorage and service.UserStorage.
type Storage struct {
	mu sync.RWMutex

	// posts[id]; slot 0 is never used
	posts []model.Post

	groups      map[int64]model.Group
	groupBySlug map[string]int64
	lastGroupID int64

	users      map[int64]model.User
	userByName map[string]int64
	lastUserID int64

	now func() time.Time
}

func New() *Storage {
	return &Storage{
		posts:       []model.Post{{}},
		groups:      make(map[int64]model.Group),
		groupBySlug: make(map[string]int64),
		users:       make(map[int64]model.User),
		userByName:  make(map[string]int64),
		now:         time.Now,
	}
}
