package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"go-news-api/internal/model"
	"go-news-api/internal/repository"
	"go-news-api/internal/storage"
	"go-news-api/internal/ws"
	"go-news-api/pkg/validator"

	"gorm.io/gorm"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrEmptyComment    = errors.New("comment body must not be empty")
	ErrImageRequired   = errors.New("post image is required")
)

// Display defaults per surface
const (
	MainPageCount    = 6
	MainColumnLimit  = 600
	RightColumnLimit = 150
	NewsPageCount    = 6
	NewsBodyLimit    = 1500
)

type ContentService interface {
	PostsByPage(page, countInPage int) ([]model.Post, error)
	CheckPage(page, countInPage int) (bool, error)
	MainPage(maxMain, maxRight int) ([]model.PostView, []model.PostView, error)
	NewsPage(page, countInPage, maxLength int) ([]model.PostView, error)
	GetPost(id uint) (*model.PostView, error)
	CreatePost(req *CreatePostRequest, author *model.User) (*model.Post, error)
	DeletePost(id uint) error
	AddComment(postID uint, author *model.User, body string) (*model.Comment, error)
	DeleteComment(id uint) error
}

type CreatePostRequest struct {
	Title     string `json:"title" validate:"required"`
	Body      string `json:"body" validate:"required"`
	ImageName string `json:"-"`
	ImageData []byte `json:"-"`
}

type contentService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	blobs       storage.BlobStore
	wsHub       *ws.Hub
}

func NewContentService(postRepo repository.PostRepository, commentRepo repository.CommentRepository, blobs storage.BlobStore, hub *ws.Hub) ContentService {
	return &contentService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		blobs:       blobs,
		wsHub:       hub,
	}
}

// PostsByPage returns the 1-indexed page slice of the collection ordered
// most-recently-created first. A page past the end yields an empty slice,
// never an error.
func (s *contentService) PostsByPage(page, countInPage int) ([]model.Post, error) {
	posts, err := s.postRepo.FindAllDesc()
	if err != nil {
		return nil, err
	}
	start := countInPage * (page - 1)
	if start < 0 {
		start = 0
	}
	if start >= len(posts) {
		return []model.Post{}, nil
	}
	end := min(start+countInPage, len(posts))
	return posts[start:end], nil
}

// CheckPage reports whether the given page exists. Page 1 always does, even
// with zero posts. Later pages exist only when total >= page*countInPage:
// this is the historical formula and it deliberately under-reports a
// partially filled last page. Callers depend on the exact boundary.
func (s *contentService) CheckPage(page, countInPage int) (bool, error) {
	if page == 1 {
		return true, nil
	}
	total, err := s.postRepo.Count()
	if err != nil {
		return false, err
	}
	return total >= int64(page)*int64(countInPage), nil
}

// MainPage returns the front-page columns: the three most recent posts for
// the main column and up to three more for the right one, bodies truncated
// per column.
func (s *contentService) MainPage(maxMain, maxRight int) ([]model.PostView, []model.PostView, error) {
	posts, err := s.PostsByPage(1, MainPageCount)
	if err != nil {
		return nil, nil, err
	}
	if len(posts) == 0 {
		return []model.PostView{}, []model.PostView{}, nil
	}
	views, err := buildViews(posts, 0)
	if err != nil {
		return nil, nil, err
	}
	split := min(3, len(views))
	mainColumns := views[:split]
	rightColumns := views[split:]
	for i := range mainColumns {
		mainColumns[i].Body = model.TruncateBody(mainColumns[i].Body, maxMain)
	}
	for i := range rightColumns {
		rightColumns[i].Body = model.TruncateBody(rightColumns[i].Body, maxRight)
	}
	return mainColumns, rightColumns, nil
}

// NewsPage paginates like PostsByPage and truncates each body to maxLength.
func (s *contentService) NewsPage(page, countInPage, maxLength int) ([]model.PostView, error) {
	posts, err := s.PostsByPage(page, countInPage)
	if err != nil {
		return nil, err
	}
	return buildViews(posts, maxLength)
}

func (s *contentService) GetPost(id uint) (*model.PostView, error) {
	post, err := s.postRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	view, err := post.ToView()
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *contentService) CreatePost(req *CreatePostRequest, author *model.User) (*model.Post, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if len(req.ImageData) == 0 {
		return nil, ErrImageRequired
	}

	imagePath, err := s.blobs.SavePostImage(req.ImageName, req.ImageData)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		Title:     req.Title,
		Body:      req.Body,
		ImagePath: imagePath,
		AuthorID:  author.ID,
	}
	if err := s.postRepo.Create(post); err != nil {
		// Compensate: don't leave an orphaned blob behind a failed commit.
		if rmErr := s.blobs.Remove(imagePath); rmErr != nil {
			log.Printf("content: orphaned blob %s after failed post create: %v", imagePath, rmErr)
		}
		return nil, err
	}

	s.wsHub.Publish(ws.EventPostCreated, map[string]interface{}{
		"post_id": post.ID,
		"title":   post.Title,
		"author":  author.Username,
	})
	return post, nil
}

func (s *contentService) DeletePost(id uint) error {
	post, err := s.postRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		return err
	}
	if err := s.postRepo.Delete(id); err != nil {
		return err
	}
	if post.ImagePath != "" {
		if err := s.blobs.Remove(post.ImagePath); err != nil {
			log.Printf("content: remove image for deleted post %d: %v", id, err)
		}
	}
	s.wsHub.Publish(ws.EventPostDeleted, map[string]interface{}{"post_id": id})
	return nil
}

// AddComment persists a comment on the post immediately.
func (s *contentService) AddComment(postID uint, author *model.User, body string) (*model.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyComment
	}
	if _, err := s.postRepo.FindByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	comment := &model.Comment{
		Body:     body,
		AuthorID: author.ID,
		PostID:   postID,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}
	s.wsHub.Publish(ws.EventCommentAdded, map[string]interface{}{
		"comment_id": comment.ID,
		"post_id":    postID,
		"author":     author.Username,
	})
	return comment, nil
}

func (s *contentService) DeleteComment(id uint) error {
	comment, err := s.commentRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCommentNotFound
	}
	if err != nil {
		return err
	}
	if err := s.commentRepo.Delete(id); err != nil {
		return err
	}
	s.wsHub.Publish(ws.EventCommentDeleted, map[string]interface{}{
		"comment_id": id,
		"post_id":    comment.PostID,
	})
	return nil
}

// buildViews serializes posts, truncating bodies when maxLength > 0.
func buildViews(posts []model.Post, maxLength int) ([]model.PostView, error) {
	views := make([]model.PostView, 0, len(posts))
	for i := range posts {
		view, err := posts[i].ToView()
		if err != nil {
			return nil, err
		}
		if maxLength > 0 {
			view.Body = model.TruncateBody(view.Body, maxLength)
		}
		views = append(views, view)
	}
	return views, nil
}
