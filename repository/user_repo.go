package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/cppla/hasker/errs"
	"github.com/cppla/hasker/models"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts u. A taken username yields errs.ErrConflict, including when a
// concurrent insert wins the race for the unique index.
func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Wrapf(errs.ErrConflict, "username %q", u.Username)
	}
	return errors.Wrap(err, "create user")
}

func (r *UserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFoundOr(err, "user %d", id)
	}
	return &u, nil
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, notFoundOr(err, "user %q", username)
	}
	return &u, nil
}

// UpdateProfile changes the non-nil fields and returns the fresh row.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint, email, avatarURL *string) (*models.User, error) {
	updates := map[string]interface{}{}
	if email != nil {
		updates["email"] = *email
	}
	if avatarURL != nil {
		updates["avatar_url"] = *avatarURL
	}
	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, errors.Wrapf(res.Error, "update user %d", id)
		}
	}
	return r.FindByID(ctx, id)
}
