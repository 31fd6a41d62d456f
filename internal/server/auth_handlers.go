package server

import (
	"strings"
	"time"

	"socialapi/internal/middleware"
	"socialapi/internal/models"

	"github.com/gofiber/fiber/v2"
)

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type credentialsRequest struct {
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Register handles POST /users
// @Summary Register
// @Description Create a new account
// @Tags users
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Credentials"
// @Success 201 {object} models.User
// @Failure 409 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /users [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusUnprocessableEntity,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "user registered", "new_user_id", user.ID)
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles POST /login
// @Summary Login
// @Description Exchange credentials for a bearer token. Accepts JSON
// @Description {email,password} or an OAuth2 password form {username,password}.
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body object{email=string,password=string} true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusUnprocessableEntity,
			models.NewValidationError("Invalid request body"))
	}

	email := req.Email
	if strings.TrimSpace(email) == "" {
		email = req.Username
	}
	fields := map[string]string{}
	if strings.TrimSpace(email) == "" {
		fields["email"] = "email is required"
	}
	if req.Password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) > 0 {
		return respondError(c, models.NewFieldValidationError(fields))
	}

	user, err := s.userService.Authenticate(c.UserContext(), email, req.Password)
	if err != nil {
		if models.HasCode(err, models.CodeUnauthorized) {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		}
		return respondError(c, err)
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	return c.JSON(TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	})
}
