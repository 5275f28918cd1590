package services

import (
	"context"
	"fmt"
	"strings"

	"jobportal_backend/internal/auth"
	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/services/dto"
	"jobportal_backend/pkg/apperrors"
)

type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	// RegisterEmployer creates the user, a pending employer profile, and
	// alerts the admins that a verification is waiting.
	RegisterEmployer(ctx context.Context, req *dto.RegisterEmployerRequest) (*dto.LoginResponse, error)
}

type authService struct {
	userRepo     repositories.UserRepository
	employerRepo repositories.EmployerRepository
	notifier     NotificationService
}

func NewAuthService(
	userRepo repositories.UserRepository,
	employerRepo repositories.EmployerRepository,
	notifier NotificationService,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		employerRepo: employerRepo,
		notifier:     notifier,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(req.Email))
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.Status == models.UserStatusSuspended || user.Status == models.UserStatusBanned {
		return nil, apperrors.NewForbiddenError("account is suspended")
	}

	token, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		AccessToken: token,
		UserID:      user.ID,
		Role:        string(user.Role),
	}, nil
}

func (s *authService) RegisterEmployer(ctx context.Context, req *dto.RegisterEmployerRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(req.Email)
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, apperrors.NewValidationError("auth", "email is already registered")
	}

	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewValidationError("auth", err.Error())
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         models.UserRoleEmployer,
		Status:       models.UserStatusActive,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, apperrors.InternalError(err)
	}

	employer := &models.Employer{
		UserID:             user.ID,
		CompanyName:        req.CompanyName,
		City:               req.City,
		VerificationStatus: models.VerificationStatusPending,
	}
	if err := s.employerRepo.Create(employer); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if _, err := s.notifier.NotifyAllAdmins(ctx, &dto.NotifyAdminsRequest{
		Type:    string(models.NotificationTypeNewEmployerRegistration),
		Title:   "New employer registration",
		Message: fmt.Sprintf("Company %q registered and is awaiting verification.", req.CompanyName),
		Metadata: map[string]interface{}{
			"employer_id": employer.ID,
		},
	}); err != nil {
		logger.CtxWithError(ctx, "failed to notify admins about registration", err, "employer_id", employer.ID)
	}

	token, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		AccessToken: token,
		UserID:      user.ID,
		Role:        string(user.Role),
	}, nil
}
