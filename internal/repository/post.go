package repository

import (
	"context"
	"errors"
	"strings"

	"socialapi/internal/models"
	"socialapi/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// postWithVotesSelect adds the vote tally as a correlated subquery so a
// page of posts costs one query plus the owner preload.
const postWithVotesSelect = "posts.*, (SELECT COUNT(*) FROM votes WHERE votes.post_id = posts.id) AS votes_count"

// PostFilter narrows and pages ListWithVotes.
type PostFilter struct {
	Search  string
	OwnerID *uint
	Limit   int
	Offset  int
}

// PostChanges holds a partial update; nil fields are left untouched.
type PostChanges struct {
	Title     *string
	Content   *string
	Published *bool
}

// Empty reports whether c changes nothing.
func (c PostChanges) Empty() bool {
	return c.Title == nil && c.Content == nil && c.Published == nil
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetWithVotes(ctx context.Context, id uint) (*models.PostWithVotes, error)
	ListWithVotes(ctx context.Context, filter PostFilter) ([]models.PostWithVotes, error)
	UpdateOwned(ctx context.Context, actorID, postID uint, changes PostChanges) (*models.Post, error)
	DeleteOwned(ctx context.Context, actorID, postID uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) (err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "posts.Create", "posts")
	defer func() { observability.EndSpan(span, err) }()

	// Owner is read-only here; never upsert it.
	err = r.db.WithContext(ctx).
		Select("Title", "Content", "Published", "OwnerID", "CreatedAt", "UpdatedAt").
		Create(post).Error
	if err != nil {
		if isForeignKeyError(err) {
			return models.NewNotFoundError("User", post.OwnerID)
		}
		return wrapDBError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (_ *models.Post, err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "posts.GetByID", "posts")
	defer func() { observability.EndSpan(span, err) }()

	var post models.Post
	if err := r.db.WithContext(ctx).Preload("Owner").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, wrapDBError(err)
	}
	return &post, nil
}

func (r *postRepository) GetWithVotes(ctx context.Context, id uint) (_ *models.PostWithVotes, err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "posts.GetWithVotes", "posts")
	defer func() { observability.EndSpan(span, err) }()

	var post models.Post
	err = r.db.WithContext(ctx).
		Select(postWithVotesSelect).
		Preload("Owner").
		Where("posts.id = ?", id).
		Take(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, wrapDBError(err)
	}
	out := post.WithVotes()
	return &out, nil
}

func (r *postRepository) ListWithVotes(ctx context.Context, filter PostFilter) (_ []models.PostWithVotes, err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "posts.ListWithVotes", "posts")
	defer func() { observability.EndSpan(span, err) }()

	limit, offset := normalizePage(filter.Limit, filter.Offset)

	q := r.db.WithContext(ctx).
		Select(postWithVotesSelect).
		Preload("Owner")
	if search := strings.TrimSpace(filter.Search); search != "" {
		q = q.Where(`LOWER(posts.title) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(search))+"%")
	}
	if filter.OwnerID != nil {
		q = q.Where("posts.owner_id = ?", *filter.OwnerID)
	}

	var posts []*models.Post
	err = q.Order("posts.created_at DESC").
		Order("posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, wrapDBError(err)
	}

	out := make([]models.PostWithVotes, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.WithVotes())
	}
	return out, nil
}

// UpdateOwned applies changes to the post if actorID owns it. The existence
// check, the ownership check and the write share one transaction.
func (r *postRepository) UpdateOwned(ctx context.Context, actorID, postID uint, changes PostChanges) (_ *models.Post, err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "posts.UpdateOwned", "posts")
	defer func() { observability.EndSpan(span, err) }()

	var post models.Post
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOwnedPost(tx, actorID, postID, &post); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if changes.Title != nil {
			updates["title"] = *changes.Title
		}
		if changes.Content != nil {
			updates["content"] = *changes.Content
		}
		if changes.Published != nil {
			updates["published"] = *changes.Published
		}
		if len(updates) > 0 {
			if err := tx.Model(&post).Updates(updates).Error; err != nil {
				return err
			}
		}

		return tx.Preload("Owner").First(&post, postID).Error
	})
	if err != nil {
		return nil, wrapDBError(err)
	}
	return &post, nil
}

// DeleteOwned removes the post and its votes if actorID owns it.
func (r *postRepository) DeleteOwned(ctx context.Context, actorID, postID uint) (err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "posts.DeleteOwned", "posts")
	defer func() { observability.EndSpan(span, err) }()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := lockOwnedPost(tx, actorID, postID, &post); err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM votes WHERE post_id = ?", postID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, postID).Error
	})
	return wrapDBError(err)
}

// lockOwnedPost loads the post row, locking it on databases that support
// row locks, and fails with NotFound before Forbidden.
func lockOwnedPost(tx *gorm.DB, actorID, postID uint, post *models.Post) error {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", postID)
		}
		return err
	}
	if post.OwnerID != actorID {
		return models.NewForbiddenError("Not authorized to perform requested action")
	}
	return nil
}

// normalizePage applies the default and maximum page size and clamps
// negative offsets to zero.
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE wildcards so s matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
