package repository

import (
	"context"

	"printsaarthi/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.UserRecord) error
	FindByEmail(ctx context.Context, email string) (*model.UserRecord, error)
	FindByID(ctx context.Context, id string) (*model.UserRecord, error)
}

type userRepoImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepoImpl{
		db: db,
	}
}

func (r *userRepoImpl) Create(ctx context.Context, user *model.UserRecord) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepoImpl) FindByEmail(ctx context.Context, email string) (*model.UserRecord, error) {
	var user model.UserRecord
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepoImpl) FindByID(ctx context.Context, id string) (*model.UserRecord, error) {
	var user model.UserRecord
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error

	if err != nil {
		return nil, err
	}

	return &user, nil
}
