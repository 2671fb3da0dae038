package service

import (
	"testing"

	"yatube/internal/model"

	"github.com/stretchr/testify/require"
)

func TestCanEdit(t *testing.T) {
	post := model.Post{ID: 1, AuthorID: 7}

	tests := []struct {
		name string
		id   model.Identity
		want bool
	}{
		{name: "author", id: model.Identity{UserID: 7, Username: "leo"}, want: true},
		{name: "someone else", id: model.Identity{UserID: 8, Username: "tolstoy"}},
		{name: "anonymous", id: model.Anonymous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CanEdit(tt.id, post))
		})
	}

	require.False(t, CanEdit(model.Anonymous, model.Post{}), "anonymous never owns an authorless post")
}
