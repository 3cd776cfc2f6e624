package usecases

import (
	"context"

	"doc-check.backend/internal/domain/entities"
	domainerrors "doc-check.backend/internal/domain/errors"
	"doc-check.backend/internal/domain/repositories"
	"doc-check.backend/pkg/crypto"
	"doc-check.backend/pkg/jwt"
)

// AuthUsecase handles admin authentication
type AuthUsecase struct {
	userRepo   repositories.UserRepository
	jwtService *jwt.JWTService
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(userRepo repositories.UserRepository, jwtService *jwt.JWTService) *AuthUsecase {
	return &AuthUsecase{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Login authenticates a user by email and password and issues a token pair.
func (u *AuthUsecase) Login(ctx context.Context, input entities.LoginInput) (*jwt.TokenPair, *entities.User, error) {
	user, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		// Same response for unknown email and wrong password.
		return nil, nil, domainerrors.Unauthorized("invalid credentials")
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, nil, domainerrors.Unauthorized("invalid credentials")
	}

	pair, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, nil, domainerrors.InternalError(err)
	}
	return pair, user, nil
}
