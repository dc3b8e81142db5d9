package screens

import (
	"fmt"
	"strconv"
	"strings"

	"qastore/app/models"
)

type field struct {
	name  string
	value string
}

// postFields lists every field the post carries, in document order.
func postFields(p *models.Post) []field {
	counter := func(n *int) string {
		if n == nil {
			return ""
		}
		return strconv.Itoa(*n)
	}
	all := []field{
		{"Id", p.ID},
		{"PostTypeId", string(p.PostTypeID)},
		{"ParentId", p.ParentID},
		{"AcceptedAnswerId", p.AcceptedAnswerID},
		{"CreationDate", p.CreationDate},
		{"Score", strconv.Itoa(p.Score)},
		{"ViewCount", counter(p.ViewCount)},
		{"Title", p.Title},
		{"Body", p.Body},
		{"OwnerUserId", p.OwnerUserID},
		{"Tags", p.Tags},
		{"AnswerCount", counter(p.AnswerCount)},
		{"CommentCount", strconv.Itoa(p.CommentCount)},
		{"FavoriteCount", counter(p.FavoriteCount)},
		{"ContentLicense", p.ContentLicense},
	}
	fields := all[:0]
	for _, f := range all {
		if f.value != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

func (n *Navigator) renderPost(p *models.Post) {
	for _, f := range postFields(p) {
		fmt.Fprintf(n.out, "%s %s\n", n.styles.Label.Render(f.name+":"), f.value)
	}
}

// truncate flattens s onto one line and cuts it to max runes.
func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
