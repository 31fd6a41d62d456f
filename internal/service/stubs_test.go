package service

import (
	"context"
	"errors"
	"testing"

	"socialapi/internal/models"
	"socialapi/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	createFn     func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:    func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn: func(_ context.Context, u *models.User) error {
			u.ID = 1
			return nil
		},
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uint) (*models.Post, error)
	getWithVotesFn  func(context.Context, uint) (*models.PostWithVotes, error)
	listWithVotesFn func(context.Context, repository.PostFilter) ([]models.PostWithVotes, error)
	updateOwnedFn   func(context.Context, uint, uint, repository.PostChanges) (*models.Post, error)
	deleteOwnedFn   func(context.Context, uint, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetWithVotes(ctx context.Context, id uint) (*models.PostWithVotes, error) {
	return s.getWithVotesFn(ctx, id)
}
func (s *postRepoStub) ListWithVotes(ctx context.Context, filter repository.PostFilter) ([]models.PostWithVotes, error) {
	return s.listWithVotesFn(ctx, filter)
}
func (s *postRepoStub) UpdateOwned(ctx context.Context, actorID, postID uint, changes repository.PostChanges) (*models.Post, error) {
	return s.updateOwnedFn(ctx, actorID, postID, changes)
}
func (s *postRepoStub) DeleteOwned(ctx context.Context, actorID, postID uint) error {
	return s.deleteOwnedFn(ctx, actorID, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, p *models.Post) error {
			p.ID = 1
			return nil
		},
		getByIDFn:       func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		getWithVotesFn:  func(_ context.Context, _ uint) (*models.PostWithVotes, error) { return &models.PostWithVotes{}, nil },
		listWithVotesFn: func(_ context.Context, _ repository.PostFilter) ([]models.PostWithVotes, error) { return nil, nil },
		updateOwnedFn: func(_ context.Context, _, postID uint, _ repository.PostChanges) (*models.Post, error) {
			return &models.Post{ID: postID}, nil
		},
		deleteOwnedFn: func(_ context.Context, _, _ uint) error { return nil },
	}
}

// voteRepoStub is a stub for repository.VoteRepository.
type voteRepoStub struct {
	addFn    func(context.Context, uint, uint) error
	removeFn func(context.Context, uint, uint) error
	countFn  func(context.Context, uint) (int64, error)
}

func (s *voteRepoStub) Add(ctx context.Context, userID, postID uint) error {
	return s.addFn(ctx, userID, postID)
}
func (s *voteRepoStub) Remove(ctx context.Context, userID, postID uint) error {
	return s.removeFn(ctx, userID, postID)
}
func (s *voteRepoStub) Count(ctx context.Context, postID uint) (int64, error) {
	return s.countFn(ctx, postID)
}

func noopVoteRepo() *voteRepoStub {
	return &voteRepoStub{
		addFn:    func(_ context.Context, _, _ uint) error { return nil },
		removeFn: func(_ context.Context, _, _ uint) error { return nil },
		countFn:  func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// assertAppError asserts that err is an AppError carrying code.
func assertAppError(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func assertValidationError(t *testing.T, err error) *models.AppError {
	t.Helper()
	return assertAppError(t, err, models.CodeValidation)
}
