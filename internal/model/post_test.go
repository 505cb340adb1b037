package model

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestTruncateBody(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		max     int
		wantLen int
		cut     bool
	}{
		{"long body truncated", strings.Repeat("a", 2000), 1500, 1502, true},
		{"short body unchanged", strings.Repeat("a", 100), 1500, 100, false},
		{"exact length unchanged", strings.Repeat("a", 1500), 1500, 1500, false},
		{"one over", strings.Repeat("a", 601), 600, 602, true},
		{"multibyte characters", strings.Repeat("ж", 2000), 1500, 1502, true},
		{"empty body", "", 150, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TruncateBody(tc.body, tc.max)
			if n := utf8.RuneCountInString(got); n != tc.wantLen {
				t.Errorf("len = %d, want %d", n, tc.wantLen)
			}
			if tc.cut && !strings.HasSuffix(got, "..") {
				t.Errorf("truncated body %q does not end in ellipsis marker", got[len(got)-10:])
			}
			if !tc.cut && got != tc.body {
				t.Errorf("body below the limit was modified")
			}
		})
	}
}

func TestPostToView(t *testing.T) {
	author := &User{ID: 1, Username: "alice", RegisteredAt: time.Unix(0, 0)}
	post := &Post{
		ID:        7,
		Title:     "title",
		Body:      "body",
		ImagePath: "/images/posts/a.jpg",
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		AuthorID:  1,
		Author:    author,
		Comments: []Comment{
			{ID: 1, Body: "first", Author: author},
			{ID: 2, Body: "second", Author: author},
		},
	}

	view, err := post.ToView()
	if err != nil {
		t.Fatalf("ToView() error = %v", err)
	}
	if view.Author != "alice" {
		t.Errorf("Author = %q, want alice", view.Author)
	}
	if view.Date != "2025-03-01 12:00:00" {
		t.Errorf("Date = %q", view.Date)
	}
	if len(view.Comments) != 2 {
		t.Fatalf("len(Comments) = %d, want 2", len(view.Comments))
	}
	// Comments render newest first.
	if view.Comments[0].ID != 2 || view.Comments[1].ID != 1 {
		t.Errorf("comment order = [%d %d], want [2 1]", view.Comments[0].ID, view.Comments[1].ID)
	}
	if view.Comments[0].Author.Username != "alice" {
		t.Errorf("comment author = %q, want alice", view.Comments[0].Author.Username)
	}
}

func TestPostToViewDanglingAuthor(t *testing.T) {
	post := &Post{ID: 1, AuthorID: 99}
	if _, err := post.ToView(); err != ErrAuthorMissing {
		t.Errorf("ToView() error = %v, want ErrAuthorMissing", err)
	}

	author := &User{ID: 1, Username: "alice"}
	withOrphanComment := &Post{
		ID:       2,
		Author:   author,
		Comments: []Comment{{ID: 1, Body: "x", AuthorID: 99}},
	}
	if _, err := withOrphanComment.ToView(); err != ErrAuthorMissing {
		t.Errorf("ToView() error = %v, want ErrAuthorMissing for orphaned comment author", err)
	}
}
