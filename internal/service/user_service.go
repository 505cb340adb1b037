package service

import (
	"errors"
	"fmt"
	"log"

	"go-news-api/internal/model"
	"go-news-api/internal/repository"
	"go-news-api/internal/storage"
	"go-news-api/internal/ws"
	"go-news-api/pkg/validator"

	"gorm.io/gorm"
)

var (
	ErrEmailExists    = errors.New("email already in use by another user")
	ErrUsernameExists = errors.New("username already in use by another user")
	ErrDuplicateEntry = errors.New("email or username already in use")
	ErrNoDefaultRole  = errors.New("no default role configured, run role seeding first")
	ErrRoleNotFound   = errors.New("role not found")
	ErrUserNotFound   = errors.New("user not found")
)

type UserService interface {
	Register(req *RegisterRequest) (*model.User, error)
	UpdateProfile(userID uint, req *UpdateProfileRequest) (*model.User, error)
	ChangeRole(userID uint, roleName string) (*model.User, error)
	GetAllUsers() ([]model.UserResponse, error)
	GetUserByID(id uint) (*model.UserResponse, error)
	DeleteUser(id uint) error
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required"`
	Name     string `json:"name"`
	Password string `json:"password" validate:"required,min=6"`
}

type UpdateProfileRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required"`
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	// Optional avatar upload
	AvatarName string `json:"-"`
	AvatarData []byte `json:"-"`
}

type userService struct {
	userRepo   repository.UserRepository
	roleRepo   repository.RoleRepository
	blobs      storage.BlobStore
	wsHub      *ws.Hub
	adminEmail string
}

func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, blobs storage.BlobStore, hub *ws.Hub, adminEmail string) UserService {
	return &userService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		blobs:      blobs,
		wsHub:      hub,
		adminEmail: adminEmail,
	}
}

// Register creates an account. The configured administrator address gets the
// Administrator role; everyone else gets the default role. Roles must have
// been seeded before this can succeed.
func (s *userService) Register(req *RegisterRequest) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	role, err := s.resolveRole(req.Email)
	if err != nil {
		return nil, err
	}

	// Friendly pre-checks; the unique indexes below remain the authority.
	if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil {
		return nil, ErrEmailExists
	}
	if existing, _ := s.userRepo.FindByUsername(req.Username); existing != nil {
		return nil, ErrUsernameExists
	}

	user := &model.User{
		Email:    req.Email,
		Username: req.Username,
		Name:     req.Name,
		RoleID:   &role.ID,
		Role:     role,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEntry
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) resolveRole(email string) (*model.Role, error) {
	if s.adminEmail != "" && email == s.adminEmail {
		role, err := s.roleRepo.FindByName(model.RoleAdministrator)
		if err == nil {
			return role, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		// Administrator role absent, fall through to the default.
	}
	role, err := s.roleRepo.FindDefault()
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoDefaultRole
	}
	if err != nil {
		return nil, err
	}
	return role, nil
}

// UpdateProfile changes the user's own email, username, name and bio.
// Email/username collisions with a different user are rejected.
func (s *userService) UpdateProfile(userID uint, req *UpdateProfileRequest) (*model.User, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if existing, _ := s.userRepo.FindByEmail(req.Email); existing != nil && existing.ID != userID {
		return nil, ErrEmailExists
	}
	if existing, _ := s.userRepo.FindByUsername(req.Username); existing != nil && existing.ID != userID {
		return nil, ErrUsernameExists
	}

	avatarPath := ""
	if len(req.AvatarData) > 0 {
		avatarPath, err = s.blobs.SaveAvatar(req.AvatarName, req.AvatarData)
		if err != nil {
			return nil, err
		}
		user.AvatarPath = avatarPath
	}

	user.Email = req.Email
	user.Username = req.Username
	user.Name = req.Name
	user.Bio = req.Bio

	if err := s.userRepo.Update(user); err != nil {
		if avatarPath != "" {
			if rmErr := s.blobs.Remove(avatarPath); rmErr != nil {
				log.Printf("user: orphaned avatar %s after failed update: %v", avatarPath, rmErr)
			}
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEntry
		}
		return nil, err
	}
	return s.userRepo.FindByID(userID)
}

// ChangeRole reassigns the user's role by name. The caller is responsible for
// requiring Admin permission before invoking this.
func (s *userService) ChangeRole(userID uint, roleName string) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	role, err := s.roleRepo.FindByName(roleName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	if err := s.userRepo.UpdateRole(userID, role.ID); err != nil {
		return nil, err
	}
	s.wsHub.Publish(ws.EventUserRoleChanged, map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     role.Name,
	})
	return s.userRepo.FindByID(userID)
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}
	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(id uint) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	response := user.ToResponse()
	return &response, nil
}

// DeleteUser removes the account and cascades to its posts and comments.
func (s *userService) DeleteUser(id uint) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		return ErrUserNotFound
	}
	return s.userRepo.Delete(id)
}
