package repository

import (
	"PastPort/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type UserPreferenceRepo interface {
	GetByUserID(ctx context.Context, userID uint64) (*model.UserPreference, error)
	Save(ctx context.Context, pref *model.UserPreference) error
}

type UserPreferenceRepoImpl struct {
	db *gorm.DB
}

func NewUserPreferenceRepo(db *gorm.DB) UserPreferenceRepo {
	return &UserPreferenceRepoImpl{
		db: db,
	}
}

func (s *UserPreferenceRepoImpl) GetByUserID(ctx context.Context, userID uint64) (*model.UserPreference, error) {
	var pref model.UserPreference
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pref, nil
}

func (s *UserPreferenceRepoImpl) Save(ctx context.Context, pref *model.UserPreference) error {
	return s.db.WithContext(ctx).Save(pref).Error
}
