package repository

import (
	"errors"

	"go-news-api/internal/model"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindAll() ([]model.Role, error)
	FindByID(id uint) (*model.Role, error)
	FindByName(name string) (*model.Role, error)
	FindDefault() (*model.Role, error)
	Seed() error
}

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) FindAll() ([]model.Role, error) {
	var roles []model.Role
	err := r.db.Order("id ASC").Find(&roles).Error
	return roles, err
}

func (r *roleRepo) FindByID(id uint) (*model.Role, error) {
	var role model.Role
	if err := r.db.First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) FindByName(name string) (*model.Role, error) {
	var role model.Role
	if err := r.db.Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) FindDefault() (*model.Role, error) {
	var role model.Role
	if err := r.db.Where("is_default = ?", true).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// Seed upserts the canonical roles in one transaction. Safe to call
// repeatedly: existing rows get their permission set reset to the canonical
// one instead of being duplicated. Must run before any user is created.
func (r *roleRepo) Seed() error {
	canonical := model.CanonicalRoles()
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, seed := range canonical {
			var role model.Role
			err := tx.Where("name = ?", seed.Name).First(&role).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				role = model.Role{Name: seed.Name}
			} else if err != nil {
				return err
			}
			role.Permissions = seed.Permissions
			role.IsDefault = seed.IsDefault
			if err := tx.Save(&role).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
