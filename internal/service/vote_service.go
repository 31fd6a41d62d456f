package service

import (
	"context"

	"socialapi/internal/models"
	"socialapi/internal/observability"
	"socialapi/internal/repository"
)

type VoteService struct {
	voteRepo repository.VoteRepository
}

type VoteInput struct {
	UserID    uint
	PostID    uint
	Direction models.VoteDirection
}

func NewVoteService(voteRepo repository.VoteRepository) *VoteService {
	return &VoteService{voteRepo: voteRepo}
}

// Vote casts (DirectionUp) or withdraws (DirectionNone) the user's vote.
// Casting twice is a Conflict and withdrawing a missing vote is NotFound.
func (s *VoteService) Vote(ctx context.Context, in VoteInput) (err error) {
	ctx, span := observability.StartServiceSpan(ctx, "VoteService", "Vote")
	defer func() { observability.EndSpan(span, err) }()

	if !in.Direction.Valid() {
		return models.NewFieldValidationError(map[string]string{
			"dir": "dir must be 0 or 1",
		})
	}

	direction := "up"
	if in.Direction == models.DirectionUp {
		err = s.voteRepo.Add(ctx, in.UserID, in.PostID)
	} else {
		direction = "none"
		err = s.voteRepo.Remove(ctx, in.UserID, in.PostID)
	}
	observability.VotesTotal.WithLabelValues(direction, voteOutcome(err)).Inc()
	return err
}

func (s *VoteService) CountVotes(ctx context.Context, postID uint) (int64, error) {
	return s.voteRepo.Count(ctx, postID)
}

func voteOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case models.HasCode(err, models.CodeConflict):
		return "conflict"
	case models.HasCode(err, models.CodeNotFound):
		return "not_found"
	default:
		return "error"
	}
}
