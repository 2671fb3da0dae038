package model

import "time"

// PostLimit is how many runes of the text a post shows when printed.
const PostLimit = 15

type Post struct {
	ID       int64
	Text     string
	PubDate  time.Time
	AuthorID int64
	Author   string
	GroupID  *int64
	Group    *Group
}

func (p Post) String() string {
	r := []rune(p.Text)
	if len(r) > PostLimit {
		return string(r[:PostLimit])
	}
	return p.Text
}

// PostFilter narrows a listing. The zero value selects every post.
type PostFilter struct {
	GroupSlug string
	Username  string
}
