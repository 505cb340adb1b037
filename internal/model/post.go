package model

import (
	"errors"
	"time"
)

// ErrAuthorMissing indicates a dangling author foreign key. An existing post
// or comment whose author row is gone is data corruption, not a lookup miss.
var ErrAuthorMissing = errors.New("author record missing")

// Post is a published news entry
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"type:text;not null" json:"title" validate:"required"`
	Body      string    `gorm:"type:text;not null" json:"body" validate:"required"`
	ImagePath string    `gorm:"type:text;not null" json:"image_path"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Comments  []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

// PostView is the display projection of a post. Body may be truncated for
// the surface it is rendered on; stored content is never mutated.
type PostView struct {
	ID        uint          `json:"id"`
	Title     string        `json:"title"`
	Body      string        `json:"body"`
	Date      string        `json:"date"`
	Author    string        `json:"author"`
	ImagePath string        `json:"image_path"`
	Comments  []CommentView `json:"comments"`
}

// ToView serializes the post with its comments newest first. The author and
// the comment authors must be preloaded; a missing one is ErrAuthorMissing.
func (p *Post) ToView() (PostView, error) {
	if p.Author == nil {
		return PostView{}, ErrAuthorMissing
	}
	comments := make([]CommentView, 0, len(p.Comments))
	for i := len(p.Comments) - 1; i >= 0; i-- {
		view, err := p.Comments[i].ToView()
		if err != nil {
			return PostView{}, err
		}
		comments = append(comments, view)
	}
	return PostView{
		ID:        p.ID,
		Title:     p.Title,
		Body:      p.Body,
		Date:      p.CreatedAt.Format(time.DateTime),
		Author:    p.Author.Username,
		ImagePath: p.ImagePath,
		Comments:  comments,
	}, nil
}

// TruncateBody shortens body to at most max characters, appending the
// two-character ellipsis marker when content was cut off.
func TruncateBody(body string, max int) string {
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	return string(runes[:max]) + ".."
}
