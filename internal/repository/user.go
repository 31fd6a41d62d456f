// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"socialapi/internal/cache"
	"socialapi/internal/models"
	"socialapi/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.Store
}

// NewUserRepository returns a new UserRepository implementation. store may
// be nil, in which case lookups always hit the database.
func NewUserRepository(db *gorm.DB, store *cache.Store) UserRepository {
	if store == nil {
		store = cache.NewStore(nil)
	}
	return &userRepository{db: db, cache: store}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (_ *models.User, err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "users.GetByID", "users")
	defer func() { observability.EndSpan(span, err) }()

	var user models.User
	err = r.cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return wrapDBError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns nil, nil when no account has email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (_ *models.User, err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "users.GetByEmail", "users")
	defer func() { observability.EndSpan(span, err) }()

	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, wrapDBError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "users.Create", "users")
	defer func() { observability.EndSpan(span, err) }()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Email already registered")
		}
		return wrapDBError(err)
	}
	r.cache.Invalidate(ctx, cache.UserKey(user.ID))
	return nil
}
