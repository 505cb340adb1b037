package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents a registered account in the system
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email" validate:"required,email"`
	Username     string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"username" validate:"required"`
	Name         string    `gorm:"type:varchar(255)" json:"name"`
	Bio          string    `gorm:"type:text" json:"bio"`
	RegisteredAt time.Time `gorm:"autoCreateTime;index" json:"registered_at"`
	Password     string    `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	AvatarPath   string    `gorm:"type:text;default:'/images/avatars/default.jpg'" json:"avatar_path"`
	RoleID       *uint     `gorm:"index" json:"role_id"`
	Role         *Role     `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	TokenVersion string    `gorm:"type:varchar(255);default:''" json:"-"` // For single session enforcement

	Posts    []Post    `gorm:"foreignKey:AuthorID" json:"-"`
	Comments []Comment `gorm:"foreignKey:AuthorID" json:"-"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Can reports whether the user's role grants perm. A user with no resolved
// role can do nothing.
func (u *User) Can(perm Permission) bool {
	return u.Role != nil && u.Role.HasPermission(perm)
}

// IsAdministrator reports whether the user holds the Admin permission.
func (u *User) IsAdministrator() bool {
	return u.Can(PermAdmin)
}

// UserResponse is the display projection of a user (without sensitive data)
type UserResponse struct {
	ID         uint   `json:"id"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	Bio        string `json:"bio"`
	DateReg    string `json:"date_reg"`
	Name       string `json:"name"`
	AvatarPath string `json:"avatar_path"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	roleName := ""
	if u.Role != nil {
		roleName = u.Role.Name
	}
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		Role:       roleName,
		Bio:        u.Bio,
		DateReg:    u.RegisteredAt.Format(time.DateTime),
		Name:       u.Name,
		AvatarPath: u.AvatarPath,
	}
}
