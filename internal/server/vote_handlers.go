package server

import (
	"socialapi/internal/models"
	"socialapi/internal/service"

	"github.com/gofiber/fiber/v2"
)

type voteRequest struct {
	PostID uint `json:"post_id"`
	Dir    *int `json:"dir"`
}

// Vote handles POST /votes
// @Summary Vote
// @Description dir 1 adds the caller's upvote, dir 0 removes it.
// @Tags votes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body voteRequest true "Vote"
// @Success 201 {object} object{message=string}
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /votes [post]
func (s *Server) Vote(c *fiber.Ctx) error {
	var req voteRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusUnprocessableEntity,
			models.NewValidationError("Invalid request body"))
	}

	fields := map[string]string{}
	if req.PostID == 0 {
		fields["post_id"] = "post_id is required"
	}
	if req.Dir == nil {
		fields["dir"] = "dir is required"
	}
	if len(fields) > 0 {
		return respondError(c, models.NewFieldValidationError(fields))
	}

	direction := models.VoteDirection(*req.Dir)
	if err := s.voteService.Vote(c.UserContext(), service.VoteInput{
		UserID:    currentUserID(c),
		PostID:    req.PostID,
		Direction: direction,
	}); err != nil {
		return respondError(c, err)
	}

	if direction == models.DirectionUp {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Successfully added vote"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
