package service

import (
	"context"

	"socialapi/internal/auth"
	"socialapi/internal/models"
	"socialapi/internal/observability"
	"socialapi/internal/repository"
	"socialapi/internal/validation"
)

type UserService struct {
	userRepo   repository.UserRepository
	bcryptCost int
	decoyHash  string
}

// NewUserService builds the credential store. A bcryptCost of zero uses
// bcrypt's default.
func NewUserService(userRepo repository.UserRepository, bcryptCost int) *UserService {
	return &UserService{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
		decoyHash:  auth.DecoyHash(bcryptCost),
	}
}

// Register creates an account for email. The password is stored only as a
// bcrypt hash.
func (s *UserService) Register(ctx context.Context, email, password string) (_ *models.User, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "UserService", "Register")
	defer func() { observability.EndSpan(span, err) }()

	email = validation.NormalizeEmail(email)
	if fields := validation.ValidateCredentials(email, password); fields != nil {
		return nil, models.NewFieldValidationError(fields)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{Email: email, Password: hash}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns the account matching email and password. Unknown
// emails and wrong passwords fail identically.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (_ *models.User, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "UserService", "Authenticate")
	defer func() { observability.EndSpan(span, err) }()

	user, err := s.userRepo.GetByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		observability.AuthAttemptsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if user == nil {
		_ = auth.CheckPassword(s.decoyHash, password)
		observability.AuthAttemptsTotal.WithLabelValues("failure").Inc()
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if !auth.CheckPassword(user.Password, password) {
		observability.AuthAttemptsTotal.WithLabelValues("failure").Inc()
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	observability.AuthAttemptsTotal.WithLabelValues("success").Inc()
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
