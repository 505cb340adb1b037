package model

import "time"

// Comment belongs to a post. Immutable except for deletion.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Body      string    `gorm:"type:text" json:"body"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
}

// CommentView is the display projection of a comment, embedding its author.
type CommentView struct {
	ID     uint         `json:"id"`
	Body   string       `json:"body"`
	Date   string       `json:"date"`
	Author UserResponse `json:"author"`
}

// ToView serializes the comment. The author must be preloaded.
func (c *Comment) ToView() (CommentView, error) {
	if c.Author == nil {
		return CommentView{}, ErrAuthorMissing
	}
	return CommentView{
		ID:     c.ID,
		Body:   c.Body,
		Date:   c.CreatedAt.Format(time.DateTime),
		Author: c.Author.ToResponse(),
	}, nil
}
