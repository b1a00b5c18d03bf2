package services

import (
	"context"
	"errors"

	"github.com/authwave/apiserver/internal/auth"
	"github.com/authwave/apiserver/internal/store"
	"github.com/authwave/apiserver/types"
)

// ErrMissingField is returned when signup input lacks a required field.
var ErrMissingField = errors.New("missing required field")

// ErrInvalidCredentials is returned for both an unknown email and a
// wrong password, so callers cannot tell the two apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrEmptyUpdate is returned when a profile update provides no fields.
var ErrEmptyUpdate = errors.New("no fields to update")

// SignupInput carries the fields accepted at signup. Email, Password,
// and Name are required; the rest are optional free text.
type SignupInput struct {
	Email      string
	Password   string
	Name       string
	Phone      string
	Address    string
	Occupation string
}

// UserService encapsulates signup, login, and profile use-cases over a
// UserStore backend.
type UserService struct {
	store store.UserStore
}

func NewUserService(userStore store.UserStore) *UserService {
	return &UserService{store: userStore}
}

// Signup hashes the password and writes the record with a conditional
// insert. A duplicate email surfaces as store.ErrAlreadyExists.
func (s *UserService) Signup(ctx context.Context, in SignupInput) error {
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return ErrMissingField
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return err
	}

	return s.store.Create(ctx, types.User{
		Email:           in.Email,
		Name:            in.Name,
		Phone:           in.Phone,
		Address:         in.Address,
		Occupation:      in.Occupation,
		PasswordHash:    hashed,
		ProfileImageURL: "",
	})
}

// Login verifies credentials and returns the user record. Unknown email
// and wrong password both return ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (types.User, error) {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return types.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// GetProfile fetches the record for an authenticated identity.
func (s *UserService) GetProfile(ctx context.Context, email string) (types.User, error) {
	return s.store.GetByEmail(ctx, email)
}

// UpdateProfile applies a partial update and returns the post-update
// record. Absent and empty fields are both treated as "not provided".
func (s *UserService) UpdateProfile(ctx context.Context, email string, update types.UserUpdate) (types.User, error) {
	if len(update.Fields()) == 0 {
		return types.User{}, ErrEmptyUpdate
	}
	return s.store.UpdateFields(ctx, email, update)
}
