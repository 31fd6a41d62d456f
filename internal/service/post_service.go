package service

import (
	"context"

	"socialapi/internal/models"
	"socialapi/internal/observability"
	"socialapi/internal/repository"
	"socialapi/internal/validation"
)

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	OwnerID   uint
	Title     string
	Content   string
	Published *bool
}

type ListPostsInput struct {
	Search  string
	Limit   int
	Offset  int
	OwnerID *uint
}

type UpdatePostInput struct {
	ActorID   uint
	PostID    uint
	Title     *string
	Content   *string
	Published *bool
}

type DeletePostInput struct {
	ActorID uint
	PostID  uint
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (_ *models.Post, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "CreatePost")
	defer func() { observability.EndSpan(span, err) }()

	if fields := validation.ValidatePostFields(&in.Title, &in.Content); fields != nil {
		return nil, models.NewFieldValidationError(fields)
	}

	published := true
	if in.Published != nil {
		published = *in.Published
	}

	post := &models.Post{
		OwnerID:   in.OwnerID,
		Title:     in.Title,
		Content:   in.Content,
		Published: published,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.PostsTotal.WithLabelValues("create").Inc()

	// Reload so the response carries the owner.
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.PostWithVotes, error) {
	return s.postRepo.GetWithVotes(ctx, id)
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (_ []models.PostWithVotes, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "ListPosts")
	defer func() { observability.EndSpan(span, err) }()

	return s.postRepo.ListWithVotes(ctx, repository.PostFilter{
		Search:  in.Search,
		OwnerID: in.OwnerID,
		Limit:   in.Limit,
		Offset:  in.Offset,
	})
}

// UpdatePost applies the non-nil fields of in. Only the owner may update.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (_ *models.Post, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "UpdatePost")
	defer func() { observability.EndSpan(span, err) }()

	changes := repository.PostChanges{Title: in.Title, Content: in.Content, Published: in.Published}
	if changes.Empty() {
		return nil, models.NewValidationError("At least one of title, content or published is required")
	}
	if fields := validation.ValidatePostFields(in.Title, in.Content); fields != nil {
		return nil, models.NewFieldValidationError(fields)
	}

	post, err := s.postRepo.UpdateOwned(ctx, in.ActorID, in.PostID, changes)
	if err != nil {
		return nil, err
	}
	observability.PostsTotal.WithLabelValues("update").Inc()
	return post, nil
}

// DeletePost removes a post and its votes. Only the owner may delete.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) (err error) {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "DeletePost")
	defer func() { observability.EndSpan(span, err) }()

	if err := s.postRepo.DeleteOwned(ctx, in.ActorID, in.PostID); err != nil {
		return err
	}
	observability.PostsTotal.WithLabelValues("delete").Inc()
	return nil
}
