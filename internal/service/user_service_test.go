package service

import (
	"errors"
	"testing"

	"go-news-api/internal/model"

	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users  []model.User
	nextID uint
}

func (r *fakeUserRepo) find(match func(u *model.User) bool) (*model.User, error) {
	for i := range r.users {
		if match(&r.users[i]) {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) FindByUsername(username string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) FindByID(id uint) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) FindAll() ([]model.User, error) {
	out := make([]model.User, len(r.users))
	copy(out, r.users)
	return out, nil
}

func (r *fakeUserRepo) Create(user *model.User) error {
	r.nextID++
	user.ID = r.nextID
	r.users = append(r.users, *user)
	return nil
}

func (r *fakeUserRepo) Update(user *model.User) error {
	for i := range r.users {
		if r.users[i].ID == user.ID {
			r.users[i] = *user
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) UpdateRole(userID, roleID uint) error {
	for i := range r.users {
		if r.users[i].ID == userID {
			id := roleID
			r.users[i].RoleID = &id
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) UpdatePassword(userID uint, hashedPassword string) error {
	for i := range r.users {
		if r.users[i].ID == userID {
			r.users[i].Password = hashedPassword
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) UpdateTokenVersion(userID uint, version string) error {
	for i := range r.users {
		if r.users[i].ID == userID {
			r.users[i].TokenVersion = version
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Delete(id uint) error {
	for i := range r.users {
		if r.users[i].ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeRoleRepo struct {
	roles []model.Role
}

func seededRoleRepo() *fakeRoleRepo {
	roles := model.CanonicalRoles()
	for i := range roles {
		roles[i].ID = uint(i + 1)
	}
	return &fakeRoleRepo{roles: roles}
}

func (r *fakeRoleRepo) FindAll() ([]model.Role, error) {
	return r.roles, nil
}

func (r *fakeRoleRepo) FindByID(id uint) (*model.Role, error) {
	for i := range r.roles {
		if r.roles[i].ID == id {
			return &r.roles[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRoleRepo) FindByName(name string) (*model.Role, error) {
	for i := range r.roles {
		if r.roles[i].Name == name {
			return &r.roles[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRoleRepo) FindDefault() (*model.Role, error) {
	for i := range r.roles {
		if r.roles[i].IsDefault {
			return &r.roles[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRoleRepo) Seed() error { return nil }

const testAdminEmail = "admin@example.com"

func newUserServiceForTest(userRepo *fakeUserRepo, roleRepo *fakeRoleRepo) UserService {
	return NewUserService(userRepo, roleRepo, &fakeBlobStore{}, nil, testAdminEmail)
}

func TestRegisterAssignsDefaultRole(t *testing.T) {
	svc := newUserServiceForTest(&fakeUserRepo{}, seededRoleRepo())

	user, err := svc.Register(&RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Name:     "Alice",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Role == nil || user.Role.Name != model.RoleUser {
		t.Errorf("role = %+v, want default %q", user.Role, model.RoleUser)
	}
	if !user.Can(model.PermWrite) || user.Can(model.PermModerate) {
		t.Errorf("default role permissions wrong: %+v", user.Role)
	}
	if !user.CheckPassword("secret1") {
		t.Error("stored password hash does not verify")
	}
}

func TestRegisterAdminEmailGetsAdministrator(t *testing.T) {
	svc := newUserServiceForTest(&fakeUserRepo{}, seededRoleRepo())

	user, err := svc.Register(&RegisterRequest{
		Email:    testAdminEmail,
		Username: "root",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Role == nil || user.Role.Name != model.RoleAdministrator {
		t.Errorf("role = %+v, want %q", user.Role, model.RoleAdministrator)
	}
	if !user.IsAdministrator() {
		t.Error("IsAdministrator() = false for the configured admin address")
	}
}

func TestRegisterWithoutSeededRoles(t *testing.T) {
	svc := newUserServiceForTest(&fakeUserRepo{}, &fakeRoleRepo{})

	_, err := svc.Register(&RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "secret1",
	})
	if !errors.Is(err, ErrNoDefaultRole) {
		t.Errorf("Register() error = %v, want ErrNoDefaultRole", err)
	}
}

func TestRegisterDuplicates(t *testing.T) {
	userRepo := &fakeUserRepo{}
	svc := newUserServiceForTest(userRepo, seededRoleRepo())

	if _, err := svc.Register(&RegisterRequest{
		Email: "alice@example.com", Username: "alice", Password: "secret1",
	}); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	if _, err := svc.Register(&RegisterRequest{
		Email: "alice@example.com", Username: "other", Password: "secret1",
	}); !errors.Is(err, ErrEmailExists) {
		t.Errorf("duplicate email error = %v, want ErrEmailExists", err)
	}

	if _, err := svc.Register(&RegisterRequest{
		Email: "other@example.com", Username: "alice", Password: "secret1",
	}); !errors.Is(err, ErrUsernameExists) {
		t.Errorf("duplicate username error = %v, want ErrUsernameExists", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newUserServiceForTest(&fakeUserRepo{}, seededRoleRepo())

	cases := []struct {
		name string
		req  RegisterRequest
	}{
		{"bad email", RegisterRequest{Email: "not-an-email", Username: "a", Password: "secret1"}},
		{"missing username", RegisterRequest{Email: "a@example.com", Password: "secret1"}},
		{"short password", RegisterRequest{Email: "a@example.com", Username: "a", Password: "abc"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(&tc.req); err == nil {
				t.Error("Register() error = nil, want validation failure")
			}
		})
	}
}

func TestChangeRole(t *testing.T) {
	userRepo := &fakeUserRepo{}
	roleRepo := seededRoleRepo()
	svc := newUserServiceForTest(userRepo, roleRepo)

	user, err := svc.Register(&RegisterRequest{
		Email: "alice@example.com", Username: "alice", Password: "secret1",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	updated, err := svc.ChangeRole(user.ID, model.RoleModerator)
	if err != nil {
		t.Fatalf("ChangeRole() error = %v", err)
	}
	moderator, _ := roleRepo.FindByName(model.RoleModerator)
	if updated.RoleID == nil || *updated.RoleID != moderator.ID {
		t.Errorf("RoleID = %v, want %d", updated.RoleID, moderator.ID)
	}

	if _, err := svc.ChangeRole(user.ID, "Overlord"); !errors.Is(err, ErrRoleNotFound) {
		t.Errorf("ChangeRole with unknown role error = %v, want ErrRoleNotFound", err)
	}
	if _, err := svc.ChangeRole(999, model.RoleModerator); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("ChangeRole for unknown user error = %v, want ErrUserNotFound", err)
	}
}

func TestUpdateProfileUniqueness(t *testing.T) {
	userRepo := &fakeUserRepo{}
	svc := newUserServiceForTest(userRepo, seededRoleRepo())

	alice, _ := svc.Register(&RegisterRequest{
		Email: "alice@example.com", Username: "alice", Password: "secret1",
	})
	if _, err := svc.Register(&RegisterRequest{
		Email: "bob@example.com", Username: "bob", Password: "secret1",
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Taking another user's email or username is rejected.
	if _, err := svc.UpdateProfile(alice.ID, &UpdateProfileRequest{
		Email: "bob@example.com", Username: "alice",
	}); !errors.Is(err, ErrEmailExists) {
		t.Errorf("UpdateProfile error = %v, want ErrEmailExists", err)
	}
	if _, err := svc.UpdateProfile(alice.ID, &UpdateProfileRequest{
		Email: "alice@example.com", Username: "bob",
	}); !errors.Is(err, ErrUsernameExists) {
		t.Errorf("UpdateProfile error = %v, want ErrUsernameExists", err)
	}

	// Keeping your own identifiers is fine.
	updated, err := svc.UpdateProfile(alice.ID, &UpdateProfileRequest{
		Email: "alice@example.com", Username: "alice", Name: "Alice A.", Bio: "hello",
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.Name != "Alice A." || updated.Bio != "hello" {
		t.Errorf("profile fields not updated: %+v", updated)
	}
}

func TestUpdateProfileAvatar(t *testing.T) {
	userRepo := &fakeUserRepo{}
	roleRepo := seededRoleRepo()
	blobs := &fakeBlobStore{}
	svc := NewUserService(userRepo, roleRepo, blobs, nil, testAdminEmail)

	alice, _ := svc.Register(&RegisterRequest{
		Email: "alice@example.com", Username: "alice", Password: "secret1",
	})

	updated, err := svc.UpdateProfile(alice.ID, &UpdateProfileRequest{
		Email:      "alice@example.com",
		Username:   "alice",
		AvatarName: "me.png",
		AvatarData: []byte{1, 2, 3},
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.AvatarPath != "/images/avatars/me.png" {
		t.Errorf("AvatarPath = %q", updated.AvatarPath)
	}
	if len(blobs.saved) != 1 {
		t.Errorf("avatar blob not stored: %v", blobs.saved)
	}
}

func TestDeleteUser(t *testing.T) {
	userRepo := &fakeUserRepo{}
	svc := newUserServiceForTest(userRepo, seededRoleRepo())

	alice, _ := svc.Register(&RegisterRequest{
		Email: "alice@example.com", Username: "alice", Password: "secret1",
	})

	if err := svc.DeleteUser(alice.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	if err := svc.DeleteUser(alice.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("DeleteUser on missing user error = %v, want ErrUserNotFound", err)
	}
}
