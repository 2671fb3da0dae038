package model

type Group struct {
	ID          int64
	Title       string
	Slug        string
	Description string
}

func (g Group) String() string {
	return g.Title
}
