package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/cppla/hasker/errs"
	"github.com/cppla/hasker/models"
	"github.com/cppla/hasker/repository"
	"github.com/cppla/hasker/utils"
)

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	Confirm   string
	AvatarURL string
}

// AccountService manages local accounts.
type AccountService struct {
	users repository.UserRepository
}

func NewAccountService(u repository.UserRepository) *AccountService {
	return &AccountService{users: u}
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if n := utf8.RuneCountInString(username); n < MinUsernameLength || n > MaxUsernameLength {
		return nil, errs.Validation(fmt.Sprintf("username must be %d-%d characters", MinUsernameLength, MaxUsernameLength))
	}
	if utf8.RuneCountInString(in.Password) < MinPasswordLength {
		return nil, errs.Validation(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if in.Password != in.Confirm {
		return nil, errs.Validation("passwords do not match")
	}
	email := strings.TrimSpace(in.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	_, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, errors.Wrapf(errs.ErrConflict, "username %q", username)
	case !errors.Is(err, errs.ErrNotFound):
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	u := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		AvatarURL:    strings.TrimSpace(in.AvatarURL),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate checks credentials. Unknown users and wrong passwords look the same.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			utils.CheckPassword("", password)
			return nil, errors.Wrap(errs.ErrUnauthorized, "invalid username or password")
		}
		return nil, err
	}
	if !utils.CheckPassword(u.PasswordHash, password) {
		return nil, errors.Wrap(errs.ErrUnauthorized, "invalid username or password")
	}
	return u, nil
}

func (s *AccountService) Profile(ctx context.Context, actor Actor) (*models.User, error) {
	if err := actor.require(); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, actor.ID)
}

// UpdateProfile changes the email and/or avatar URL; nil leaves a field as is.
func (s *AccountService) UpdateProfile(ctx context.Context, actor Actor, email, avatarURL *string) (*models.User, error) {
	if err := actor.require(); err != nil {
		return nil, err
	}
	if email != nil {
		trimmed := strings.TrimSpace(*email)
		if err := validateEmail(trimmed); err != nil {
			return nil, err
		}
		email = &trimmed
	}
	if avatarURL != nil {
		trimmed := strings.TrimSpace(*avatarURL)
		avatarURL = &trimmed
	}
	return s.users.UpdateProfile(ctx, actor.ID, email, avatarURL)
}
