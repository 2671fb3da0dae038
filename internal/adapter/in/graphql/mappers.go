package graphql

import (
	"strconv"

	"yatube/internal/model"
	"yatube/pkg/pagination"
)

func toPostNode(p model.Post) map[string]any {
	node := map[string]any{
		"id":       strconv.FormatInt(p.ID, 10),
		"text":     p.Text,
		"pubDate":  p.PubDate,
		"authorId": strconv.FormatInt(p.AuthorID, 10),
		"author":   p.Author,
		"group":    nil,
	}
	if p.Group != nil {
		node["group"] = toGroupNode(*p.Group)
	}
	return node
}

func toGroupNode(g model.Group) map[string]any {
	return map[string]any{
		"id":          strconv.FormatInt(g.ID, 10),
		"title":       g.Title,
		"slug":        g.Slug,
		"description": g.Description,
	}
}

func toPostPage(page pagination.Page[model.Post]) map[string]any {
	items := make([]map[string]any, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, toPostNode(p))
	}
	return map[string]any{
		"items":       items,
		"number":      page.Number,
		"numPages":    page.NumPages(),
		"total":       page.Total,
		"hasNext":     page.HasNext(),
		"hasPrevious": page.HasPrevious(),
	}
}
