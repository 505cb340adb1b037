package repository

import (
	"go-news-api/internal/model"

	"gorm.io/gorm"
)

type PostRepository interface {
	Create(post *model.Post) error
	FindByID(id uint) (*model.Post, error)
	FindAllDesc() ([]model.Post, error)
	Count() (int64, error)
	Delete(id uint) error
}

type postRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) PostRepository {
	return &postRepo{db}
}

func (r *postRepo) Create(post *model.Post) error {
	return r.db.Create(post).Error
}

func (r *postRepo) FindByID(id uint) (*model.Post, error) {
	var post model.Post
	err := r.db.Preload("Author.Role").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.id ASC")
		}).
		Preload("Comments.Author.Role").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// FindAllDesc returns the full collection most-recently-created first, with
// authors and comments preloaded for view building.
func (r *postRepo) FindAllDesc() ([]model.Post, error) {
	var posts []model.Post
	err := r.db.Preload("Author.Role").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.id ASC")
		}).
		Preload("Comments.Author.Role").
		Order("id DESC").
		Find(&posts).Error
	return posts, err
}

func (r *postRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Post{}).Count(&count).Error
	return count, err
}

// Delete removes the post and its comments in one transaction so no orphaned
// comment rows survive.
func (r *postRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Post{}, id).Error
	})
}
