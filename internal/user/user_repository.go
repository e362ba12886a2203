package user

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"seedling/internal/common"
	"seedling/internal/dbmysql"
)

// Preferences is a partial update of the notification opt-ins; nil fields are left alone.
type Preferences struct {
	NotifySeeds      *bool `json:"notify_seeds"`
	NotifyMatches    *bool `json:"notify_matches"`
	NotifyMessages   *bool `json:"notify_messages"`
	NotifyLowBalance *bool `json:"notify_low_balance"`
}

func (p Preferences) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.NotifySeeds != nil {
		cols["notify_seeds"] = *p.NotifySeeds
	}
	if p.NotifyMatches != nil {
		cols["notify_matches"] = *p.NotifyMatches
	}
	if p.NotifyMessages != nil {
		cols["notify_messages"] = *p.NotifyMessages
	}
	if p.NotifyLowBalance != nil {
		cols["notify_low_balance"] = *p.NotifyLowBalance
	}
	return cols
}

type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository

	CreateUser(ctx context.Context, user *dbmysql.User) error
	GetUserByID(ctx context.Context, userID string) (*dbmysql.User, error)
	GetUserByHandle(ctx context.Context, handle string) (*dbmysql.User, error)
	CheckUserExists(ctx context.Context, handle string) (bool, error)
	UpdatePreferences(ctx context.Context, userID string, prefs Preferences) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx}
}

func (r *userRepository) CreateUser(ctx context.Context, user *dbmysql.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrHandleTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*dbmysql.User, error) {
	return r.first(ctx, "id = ?", userID)
}

func (r *userRepository) GetUserByHandle(ctx context.Context, handle string) (*dbmysql.User, error) {
	return r.first(ctx, "handle = ?", handle)
}

func (r *userRepository) first(ctx context.Context, query string, arg interface{}) (*dbmysql.User, error) {
	var user dbmysql.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) CheckUserExists(ctx context.Context, handle string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.User{}).Where("handle = ?", handle).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check handle: %w", err)
	}
	return count > 0, nil
}

func (r *userRepository) UpdatePreferences(ctx context.Context, userID string, prefs Preferences) error {
	cols := prefs.columns()
	if len(cols) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&dbmysql.User{}).Where("id = ?", userID).Updates(cols)
	if result.Error != nil {
		return fmt.Errorf("update preferences: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrUserNotFound
	}
	return nil
}
