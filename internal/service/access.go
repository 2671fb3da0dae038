package service

import "yatube/internal/model"

// CanEdit reports whether id may change p. Only the author may.
func CanEdit(id model.Identity, p model.Post) bool {
	return id.Authenticated() && id.UserID == p.AuthorID
}
