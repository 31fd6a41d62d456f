package repository

import (
	"context"
	"time"

	"socialapi/internal/models"
	"socialapi/internal/observability"

	"gorm.io/gorm"
)

// VoteRepository defines persistence operations for the vote ledger.
type VoteRepository interface {
	Add(ctx context.Context, userID, postID uint) error
	Remove(ctx context.Context, userID, postID uint) error
	Count(ctx context.Context, postID uint) (int64, error)
}

type voteRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Add records an upvote. The composite primary key arbitrates concurrent
// duplicates: exactly one insert wins, the rest get a Conflict.
func (r *voteRepository) Add(ctx context.Context, userID, postID uint) (err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "votes.Add", "votes")
	defer func() { observability.EndSpan(span, err) }()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requirePost(tx, postID); err != nil {
			return err
		}

		err := tx.Exec(
			"INSERT INTO votes (user_id, post_id, created_at) VALUES (?, ?, ?)",
			userID, postID, r.now(),
		).Error
		switch {
		case err == nil:
			return nil
		case isUniqueConstraintError(err):
			return models.NewConflictError("User has already voted on this post")
		case isForeignKeyError(err):
			// Post deleted between the check and the insert.
			return models.NewNotFoundError("Post", postID)
		default:
			return err
		}
	})
	return wrapDBError(err)
}

// Remove withdraws an upvote; NotFound when there is nothing to withdraw.
func (r *voteRepository) Remove(ctx context.Context, userID, postID uint) (err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "votes.Remove", "votes")
	defer func() { observability.EndSpan(span, err) }()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requirePost(tx, postID); err != nil {
			return err
		}

		res := tx.Exec("DELETE FROM votes WHERE user_id = ? AND post_id = ?", userID, postID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &models.AppError{Code: models.CodeNotFound, Message: "Vote does not exist"}
		}
		return nil
	})
	return wrapDBError(err)
}

func (r *voteRepository) Count(ctx context.Context, postID uint) (_ int64, err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "votes.Count", "votes")
	defer func() { observability.EndSpan(span, err) }()

	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Vote{}).Where("post_id = ?", postID).Count(&n).Error; err != nil {
		return 0, wrapDBError(err)
	}
	return n, nil
}

func requirePost(tx *gorm.DB, postID uint) error {
	var n int64
	if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return models.NewNotFoundError("Post", postID)
	}
	return nil
}
