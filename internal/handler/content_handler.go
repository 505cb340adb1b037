package handler

import (
	"errors"
	"io"

	"go-news-api/internal/middleware"
	"go-news-api/internal/model"
	"go-news-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ContentHandler struct {
	contentService service.ContentService
}

func NewContentHandler(contentService service.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// MainPage returns the front-page columns
// GET /api/v1/posts/main
func (h *ContentHandler) MainPage(c *fiber.Ctx) error {
	mainColumns, rightColumns, err := h.contentService.MainPage(service.MainColumnLimit, service.RightColumnLimit)
	if err != nil {
		return contentFault(c, err)
	}
	return c.JSON(fiber.Map{
		"main_columns":  mainColumns,
		"right_columns": rightColumns,
	})
}

// News returns a paginated, truncated post listing
// GET /api/v1/posts/news?page=N
func (h *ContentHandler) News(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	posts, err := h.contentService.NewsPage(page, service.NewsPageCount, service.NewsBodyLimit)
	if err != nil {
		return contentFault(c, err)
	}

	hasNext, err := h.contentService.CheckPage(page+1, service.NewsPageCount)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch posts"})
	}
	nextPage := page
	if hasNext {
		nextPage = page + 1
	}
	previousPage := 1
	if page != 1 {
		previousPage = page - 1
	}

	return c.JSON(fiber.Map{
		"posts":         posts,
		"this_page":     page,
		"next_page":     nextPage,
		"previous_page": previousPage,
	})
}

// GetPost returns a single post with its comments plus the sidebar columns
// GET /api/v1/posts/:id
func (h *ContentHandler) GetPost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid post ID"})
	}

	post, err := h.contentService.GetPost(uint(id))
	if errors.Is(err, service.ErrPostNotFound) {
		return c.Status(404).JSON(fiber.Map{"error": "Post not found"})
	}
	if err != nil {
		return contentFault(c, err)
	}

	rightColumns, _, err := h.contentService.MainPage(service.MainColumnLimit, service.RightColumnLimit)
	if err != nil {
		return contentFault(c, err)
	}

	return c.JSON(fiber.Map{
		"post":          post,
		"right_columns": rightColumns,
	})
}

// CreatePost accepts a multipart form with title, text and a required image
// POST /api/v1/posts
func (h *ContentHandler) CreatePost(c *fiber.Ctx) error {
	req := &service.CreatePostRequest{
		Title: c.FormValue("title"),
		Body:  c.FormValue("text"),
	}

	fileHeader, err := c.FormFile("image")
	if err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Failed to read image"})
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Failed to read image"})
		}
		req.ImageName = fileHeader.Filename
		req.ImageData = data
	}

	author := middleware.CurrentUser(c)
	post, err := h.contentService.CreatePost(req, author)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Post created successfully",
		"data":    post,
	})
}

// AddComment creates a comment on a post
// POST /api/v1/posts/:id/comments
func (h *ContentHandler) AddComment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid post ID"})
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	author := middleware.CurrentUser(c)
	comment, err := h.contentService.AddComment(uint(id), author, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "Post not found"})
		case errors.Is(err, service.ErrEmptyComment):
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to add comment"})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Comment added successfully",
		"data":    comment,
	})
}

// DeletePost removes a post and all its comments
// DELETE /api/v1/posts/:id
func (h *ContentHandler) DeletePost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid post ID"})
	}

	if err := h.contentService.DeletePost(uint(id)); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Post not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete post"})
	}
	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}

// DeleteComment removes a single comment
// DELETE /api/v1/comments/:id
func (h *ContentHandler) DeleteComment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid comment ID"})
	}

	if err := h.contentService.DeleteComment(uint(id)); err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Comment not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete comment"})
	}
	return c.JSON(fiber.Map{"message": "Comment deleted successfully"})
}

// contentFault distinguishes data corruption (dangling author) from plain
// storage failures.
func contentFault(c *fiber.Ctx, err error) error {
	if errors.Is(err, model.ErrAuthorMissing) {
		return c.Status(500).JSON(fiber.Map{"error": "Data integrity error: author record missing"})
	}
	return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch posts"})
}
