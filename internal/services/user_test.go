package services

import (
	"context"
	"errors"
	"testing"

	"github.com/authwave/apiserver/internal/auth"
	"github.com/authwave/apiserver/internal/store"
	"github.com/authwave/apiserver/types"
)

func strPtr(s string) *string { return &s }

func newService() (*UserService, *store.MemoryStore) {
	memory := store.NewMemoryStore()
	return NewUserService(memory), memory
}

func TestSignupMissingFields(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	cases := []SignupInput{
		{Password: "pw", Name: "U"},
		{Email: "u@x.com", Name: "U"},
		{Email: "u@x.com", Password: "pw"},
	}
	for _, in := range cases {
		if err := svc.Signup(ctx, in); !errors.Is(err, ErrMissingField) {
			t.Errorf("Signup(%+v) err = %v, want ErrMissingField", in, err)
		}
	}
}

func TestSignupStoresHashedPassword(t *testing.T) {
	svc, memory := newService()
	ctx := context.Background()

	err := svc.Signup(ctx, SignupInput{Email: "u@x.com", Password: "secret123", Name: "U"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	user, err := memory.GetByEmail(ctx, "u@x.com")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if user.PasswordHash == "secret123" || user.PasswordHash == "" {
		t.Errorf("password stored unhashed: %q", user.PasswordHash)
	}
	if !auth.VerifyPassword("secret123", user.PasswordHash) {
		t.Error("stored hash does not verify the original password")
	}
	if user.ProfileImageURL != "" {
		t.Errorf("profileImageUrl = %q, want empty at signup", user.ProfileImageURL)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	in := SignupInput{Email: "u@x.com", Password: "secret123", Name: "U"}
	if err := svc.Signup(ctx, in); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if err := svc.Signup(ctx, in); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("second signup err = %v, want ErrAlreadyExists", err)
	}
}

func TestLoginUniformError(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	if err := svc.Signup(ctx, SignupInput{Email: "u@x.com", Password: "secret123", Name: "U"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, unknownErr := svc.Login(ctx, "ghost@x.com", "secret123")
	_, wrongPwErr := svc.Login(ctx, "u@x.com", "wrong-password")

	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", unknownErr)
	}
	if !errors.Is(wrongPwErr, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", wrongPwErr)
	}
}

func TestLoginSuccess(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	if err := svc.Signup(ctx, SignupInput{Email: "u@x.com", Password: "secret123", Name: "U", Phone: "123"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	user, err := svc.Login(ctx, "u@x.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Email != "u@x.com" || user.Name != "U" || user.Phone != "123" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestUpdateProfileEmptyUpdate(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	if err := svc.Signup(ctx, SignupInput{Email: "u@x.com", Password: "secret123", Name: "U"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	cases := []types.UserUpdate{
		{},
		{Name: strPtr(""), Phone: strPtr("")},
	}
	for _, update := range cases {
		if _, err := svc.UpdateProfile(ctx, "u@x.com", update); !errors.Is(err, ErrEmptyUpdate) {
			t.Errorf("UpdateProfile(%+v) err = %v, want ErrEmptyUpdate", update, err)
		}
	}
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	if err := svc.Signup(ctx, SignupInput{Email: "u@x.com", Password: "secret123", Name: "U", Phone: "123", Address: "Lisbon"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	user, err := svc.UpdateProfile(ctx, "u@x.com", types.UserUpdate{Occupation: strPtr("Engineer")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if user.Occupation != "Engineer" {
		t.Errorf("occupation = %q, want Engineer", user.Occupation)
	}
	if user.Name != "U" || user.Phone != "123" || user.Address != "Lisbon" || user.ProfileImageURL != "" {
		t.Errorf("untouched fields changed: %+v", user)
	}
}
