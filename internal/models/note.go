package models

import (
	"time"
)

type Note struct {
	ID        string    `json:"_id" gorm:"type:uuid;primaryKey"`
	Title     string    `json:"title" gorm:"not null"`
	Content   string    `json:"content" gorm:"not null"`
	Tags      []string  `json:"tags" gorm:"type:jsonb;serializer:json;not null"`
	IsPinned  bool      `json:"isPinned" gorm:"not null;index:idx_notes_owner_pinned,priority:2"`
	UserID    string    `json:"userId" gorm:"type:uuid;not null;index:idx_notes_owner_pinned,priority:1"`
	CreatedOn time.Time `json:"createdOn" gorm:"not null"`
	Image     string    `json:"image" gorm:"not null"`
}

// NotePatch is a partial update. A nil field was not sent by the client;
// a non-nil field is applied even when it holds a zero value.
type NotePatch struct {
	Title    *string   `json:"title,omitempty"`
	Content  *string   `json:"content,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
	IsPinned *bool     `json:"isPinned,omitempty"`
	Image    *string   `json:"-"`
}

func (p NotePatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Tags == nil && p.IsPinned == nil && p.Image == nil
}

// Apply copies every present field of p onto n.
func (p NotePatch) Apply(n *Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Tags != nil {
		n.Tags = append([]string{}, (*p.Tags)...)
	}
	if p.IsPinned != nil {
		n.IsPinned = *p.IsPinned
	}
	if p.Image != nil {
		n.Image = *p.Image
	}
}
